package tasks

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Lalka12235/TuneWave/internal/models"
	"github.com/Lalka12235/TuneWave/internal/services"
	"github.com/Lalka12235/TuneWave/internal/session"
	"github.com/Lalka12235/TuneWave/internal/shared"
	"github.com/charmbracelet/log"
)

// ErrPasswordRequired signals that a join targeted a private room and the
// caller must collect a password, then call ResumeJoin or CancelJoin. The
// two-phase shape makes the suspension point explicit instead of hiding it
// in a callback.
var ErrPasswordRequired = errors.New("password required to join this room")

// Target identifies which room collection view an operation refreshes.
type Target int

const (
	// TargetGlobal is the "all rooms" view.
	TargetGlobal Target = iota
	// TargetMine is the authenticated user's own membership view.
	TargetMine
)

func (t Target) String() string {
	if t == TargetMine {
		return "mine"
	}
	return "global"
}

// StatusSink receives human-readable operation outcomes. Single slot by
// contract: implementations display only the most recent report.
type StatusSink interface {
	Report(message string, isErr bool)
}

// PayloadSink receives the last structured response body, or an empty
// value to clear the display.
type PayloadSink interface {
	Report(value any)
}

// StatusFunc adapts a function to StatusSink.
type StatusFunc func(message string, isErr bool)

func (f StatusFunc) Report(message string, isErr bool) { f(message, isErr) }

// PayloadFunc adapts a function to PayloadSink.
type PayloadFunc func(value any)

func (f PayloadFunc) Report(value any) { f(value) }

// API is the slice of the backend client the engine drives.
type API interface {
	ListRooms(ctx context.Context) ([]models.Room, error)
	MyRooms(ctx context.Context) ([]models.Room, error)
	CreateRoom(ctx context.Context, data models.RoomCreate) (*models.Room, error)
	UpdateRoom(ctx context.Context, id string, data models.RoomUpdate) (*models.Room, error)
	DeleteRoom(ctx context.Context, id string) error
	JoinRoom(ctx context.Context, id, password string) (*models.Room, error)
	LeaveRoom(ctx context.Context, id string) (string, error)
	RoomMembers(ctx context.Context, id string) ([]models.Member, error)
}

// View is one collection snapshot. Loaded distinguishes "fetched and empty"
// from "never fetched", so renderers can show an explicit empty state.
type View struct {
	Rooms  []models.Room
	Loaded bool
}

// Engine coordinates room operations and keeps both collection views
// consistent with the server. All state previously scattered across module
// globals (token, in-flight flags, pending join) lives here with a defined
// lifecycle: constructed at startup, dropped on exit.
type Engine struct {
	api     API
	session session.Store
	status  StatusSink
	payload PayloadSink
	confirm func(prompt string) bool
	logger  *log.Logger

	mu          sync.Mutex
	views       map[Target]View
	inflight    map[Target]bool
	pendingJoin string
}

// EngineOpts contains dependencies for creating an Engine.
type EngineOpts struct {
	API     API
	Session session.Store
	Status  StatusSink
	Payload PayloadSink
	// Confirm gates irreversible operations (delete, leave). Nil accepts.
	Confirm func(prompt string) bool
	Logger  *log.Logger
}

// NewEngine creates an Engine with the provided dependencies.
func NewEngine(opts EngineOpts) *Engine {
	if opts.Session == nil {
		opts.Session = session.NewMemoryStore("")
	}
	if opts.Status == nil {
		opts.Status = StatusFunc(func(string, bool) {})
	}
	if opts.Payload == nil {
		opts.Payload = PayloadFunc(func(any) {})
	}
	if opts.Confirm == nil {
		opts.Confirm = func(string) bool { return true }
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	return &Engine{
		api:      opts.API,
		session:  opts.Session,
		status:   opts.Status,
		payload:  opts.Payload,
		confirm:  opts.Confirm,
		logger:   opts.Logger,
		views:    make(map[Target]View),
		inflight: make(map[Target]bool),
	}
}

// View returns a copy of the snapshot for target.
func (e *Engine) View(target Target) View {
	e.mu.Lock()
	defer e.mu.Unlock()

	view := e.views[target]
	rooms := make([]models.Room, len(view.Rooms))
	copy(rooms, view.Rooms)
	return View{Rooms: rooms, Loaded: view.Loaded}
}

// errMessage extracts the user-facing text from an operation error: the
// decoded server detail when present, the raw error text otherwise.
func errMessage(err error) string {
	var apiErr *services.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message()
	}
	return err.Error()
}

// Refresh re-fetches the target view from the server and replaces it
// wholesale. At most one fetch per target is in flight: a call that finds
// one pending is a no-op and reports nothing, since the initial load, a
// post-mutation refresh, and a manual refresh can race. On failure the
// prior snapshot is preserved.
func (e *Engine) Refresh(ctx context.Context, target Target) error {
	e.mu.Lock()
	if e.inflight[target] {
		e.mu.Unlock()
		e.logger.Debug("refresh already in flight, skipping", "target", target.String())
		return nil
	}
	e.inflight[target] = true
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.inflight[target] = false
		e.mu.Unlock()
	}()

	if target == TargetMine {
		if _, ok := e.session.Get(); !ok {
			e.status.Report("sign in to see your rooms", true)
			return shared.ErrNotAuthenticated
		}
	}

	var rooms []models.Room
	var err error
	if target == TargetMine {
		rooms, err = e.api.MyRooms(ctx)
	} else {
		rooms, err = e.api.ListRooms(ctx)
	}
	if err != nil {
		e.logger.Warn("refresh failed", "target", target.String(), "error", err)
		e.status.Report(fmt.Sprintf("failed to load rooms: %s", errMessage(err)), true)
		return err
	}

	e.mu.Lock()
	e.views[target] = View{Rooms: rooms, Loaded: true}
	e.mu.Unlock()

	e.status.Report(fmt.Sprintf("loaded %d rooms (%s)", len(rooms), target.String()), false)
	return nil
}

// refreshBoth re-runs both collection fetches after a successful mutation.
// The two refreshes are issued sequentially but their effects are
// independent: each view converges on the server on its own.
func (e *Engine) refreshBoth(ctx context.Context) {
	e.Refresh(ctx, TargetGlobal)
	e.Refresh(ctx, TargetMine)
}

// requireToken enforces the authenticated-write guard: no token means the
// operation aborts locally with zero network calls.
func (e *Engine) requireToken() error {
	if _, ok := e.session.Get(); !ok {
		e.status.Report("you are not signed in", true)
		return shared.ErrNotAuthenticated
	}
	return nil
}

// Create validates and submits a new room, then refreshes both views.
func (e *Engine) Create(ctx context.Context, data models.RoomCreate) (*models.Room, error) {
	if err := e.requireToken(); err != nil {
		return nil, err
	}
	if err := data.Validate(); err != nil {
		e.status.Report(errMessage(err), true)
		return nil, err
	}

	room, err := e.api.CreateRoom(ctx, data)
	if err != nil {
		e.status.Report(fmt.Sprintf("failed to create room: %s", errMessage(err)), true)
		return nil, err
	}

	e.payload.Report(room)
	e.status.Report(fmt.Sprintf("room %q created (id %s)", room.Name, room.ID), false)
	e.refreshBoth(ctx)
	return room, nil
}

// Update validates and submits a partial room update, then refreshes both
// views. IsPrivate is always resent; a public room's password marshals as
// an explicit null so the server drops any stored one.
func (e *Engine) Update(ctx context.Context, id string, data models.RoomUpdate) (*models.Room, error) {
	if err := e.requireToken(); err != nil {
		return nil, err
	}
	if id == "" {
		err := fmt.Errorf("%w: room id", shared.ErrMissingArgument)
		e.status.Report("a room id is required to update", true)
		return nil, err
	}
	if data.Empty() {
		err := fmt.Errorf("%w: nothing to update", shared.ErrInvalidInput)
		e.status.Report("nothing to update", true)
		return nil, err
	}
	if err := data.Validate(); err != nil {
		e.status.Report(errMessage(err), true)
		return nil, err
	}
	if !data.IsPrivate {
		data.Password = nil
	}

	room, err := e.api.UpdateRoom(ctx, id, data)
	if err != nil {
		e.status.Report(fmt.Sprintf("failed to update room: %s", errMessage(err)), true)
		return nil, err
	}

	e.payload.Report(room)
	e.status.Report(fmt.Sprintf("room %q updated", room.Name), false)
	e.refreshBoth(ctx)
	return room, nil
}

// Delete removes a room after explicit confirmation, then refreshes both
// views.
func (e *Engine) Delete(ctx context.Context, id string) error {
	if err := e.requireToken(); err != nil {
		return err
	}
	if id == "" {
		e.status.Report("a room id is required to delete", true)
		return fmt.Errorf("%w: room id", shared.ErrMissingArgument)
	}
	if !e.confirm(fmt.Sprintf("Delete room %s? This cannot be undone.", id)) {
		e.status.Report("deletion cancelled", false)
		return nil
	}

	if err := e.api.DeleteRoom(ctx, id); err != nil {
		e.status.Report(fmt.Sprintf("failed to delete room: %s", errMessage(err)), true)
		return err
	}

	e.payload.Report(map[string]string{"deleted": id})
	e.status.Report(fmt.Sprintf("room %s deleted", id), false)
	e.refreshBoth(ctx)
	return nil
}

// Join adds the user to a room. Private rooms suspend: the target id is
// parked in the pending-join slot and ErrPasswordRequired is returned so
// the caller can prompt; ResumeJoin completes the operation. Public rooms
// join immediately with no password.
func (e *Engine) Join(ctx context.Context, id string, isPrivate bool) error {
	if err := e.requireToken(); err != nil {
		return err
	}
	if id == "" {
		e.status.Report("a room id is required to join", true)
		return fmt.Errorf("%w: room id", shared.ErrMissingArgument)
	}

	if isPrivate {
		e.mu.Lock()
		e.pendingJoin = id
		e.mu.Unlock()
		return ErrPasswordRequired
	}

	return e.completeJoin(ctx, id, "")
}

// ResumeJoin completes a suspended private-room join with the collected
// password. The server is the sole authority on password correctness; a
// wrong one surfaces as a server error and the pending slot survives so
// the user can retry or cancel.
func (e *Engine) ResumeJoin(ctx context.Context, password string) error {
	e.mu.Lock()
	id := e.pendingJoin
	e.mu.Unlock()

	if id == "" {
		e.status.Report("no room is awaiting a password", true)
		return fmt.Errorf("%w: no pending join", shared.ErrInvalidInput)
	}

	return e.completeJoin(ctx, id, password)
}

// CancelJoin dismisses a suspended join, clearing the pending slot.
func (e *Engine) CancelJoin() {
	e.mu.Lock()
	e.pendingJoin = ""
	e.mu.Unlock()
}

// PendingJoin returns the room id awaiting a password, if any.
func (e *Engine) PendingJoin() (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pendingJoin, e.pendingJoin != ""
}

func (e *Engine) completeJoin(ctx context.Context, id, password string) error {
	room, err := e.api.JoinRoom(ctx, id, password)
	if err != nil {
		e.status.Report(fmt.Sprintf("failed to join room: %s", errMessage(err)), true)
		return err
	}

	e.mu.Lock()
	e.pendingJoin = ""
	e.mu.Unlock()

	e.payload.Report(room)
	e.status.Report(fmt.Sprintf("joined room %q", room.Name), false)
	e.refreshBoth(ctx)
	return nil
}

// Leave removes the user from a room after explicit confirmation. The
// success message is the server's detail text verbatim, a deliberate
// asymmetry with the other operations.
func (e *Engine) Leave(ctx context.Context, id string) error {
	if err := e.requireToken(); err != nil {
		return err
	}
	if id == "" {
		e.status.Report("a room id is required to leave", true)
		return fmt.Errorf("%w: room id", shared.ErrMissingArgument)
	}
	if !e.confirm(fmt.Sprintf("Leave room %s?", id)) {
		e.status.Report("leave cancelled", false)
		return nil
	}

	detail, err := e.api.LeaveRoom(ctx, id)
	if err != nil {
		e.status.Report(fmt.Sprintf("failed to leave room: %s", errMessage(err)), true)
		return err
	}

	e.payload.Report(map[string]string{"detail": detail})
	e.status.Report(detail, false)
	e.refreshBoth(ctx)
	return nil
}

// Members fetches a room's participant list. Unauthenticated, transient:
// the result is returned for display and never merged into a view.
func (e *Engine) Members(ctx context.Context, id string) ([]models.Member, error) {
	if id == "" {
		e.status.Report("a room id is required to list members", true)
		return nil, fmt.Errorf("%w: room id", shared.ErrMissingArgument)
	}

	members, err := e.api.RoomMembers(ctx, id)
	if err != nil {
		e.status.Report(fmt.Sprintf("failed to load members: %s", errMessage(err)), true)
		return nil, err
	}

	e.payload.Report(members)
	if len(members) == 0 {
		e.status.Report("this room has no members yet", false)
	} else {
		e.status.Report(fmt.Sprintf("loaded %d members", len(members)), false)
	}
	return members, nil
}
