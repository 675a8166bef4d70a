package tasks

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Lalka12235/TuneWave/internal/models"
	"github.com/Lalka12235/TuneWave/internal/services"
	"github.com/Lalka12235/TuneWave/internal/session"
	"github.com/Lalka12235/TuneWave/internal/shared"
	tu "github.com/Lalka12235/TuneWave/internal/testing"
)

// fakeAPI counts calls and returns canned results so tests can assert how
// many network round trips an operation caused.
type fakeAPI struct {
	mu sync.Mutex

	listCalls   int
	mineCalls   int
	createCalls int
	updateCalls int
	deleteCalls int
	joinCalls   int
	leaveCalls  int
	memberCalls int

	rooms   []models.Room
	myRooms []models.Room
	members []models.Member

	listErr   error
	mineErr   error
	createErr error
	updateErr error
	deleteErr error
	joinErr   error
	leaveErr  error
	memberErr error

	leaveDetail  string
	joinPassword string

	// listGate, when set, blocks ListRooms until closed.
	listGate chan struct{}
}

func (f *fakeAPI) ListRooms(ctx context.Context) ([]models.Room, error) {
	f.mu.Lock()
	f.listCalls++
	gate := f.listGate
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	return f.rooms, f.listErr
}

func (f *fakeAPI) MyRooms(ctx context.Context) ([]models.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mineCalls++
	return f.myRooms, f.mineErr
}

func (f *fakeAPI) CreateRoom(ctx context.Context, data models.RoomCreate) (*models.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &models.Room{ID: "new-id", Name: data.Name, IsPrivate: data.IsPrivate}, nil
}

func (f *fakeAPI) UpdateRoom(ctx context.Context, id string, data models.RoomUpdate) (*models.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls++
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return &models.Room{ID: id, Name: "updated"}, nil
}

func (f *fakeAPI) DeleteRoom(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls++
	return f.deleteErr
}

func (f *fakeAPI) JoinRoom(ctx context.Context, id, password string) (*models.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.joinCalls++
	f.joinPassword = password
	if f.joinErr != nil {
		return nil, f.joinErr
	}
	return &models.Room{ID: id, Name: "joined"}, nil
}

func (f *fakeAPI) LeaveRoom(ctx context.Context, id string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.leaveCalls++
	if f.leaveErr != nil {
		return "", f.leaveErr
	}
	return f.leaveDetail, nil
}

func (f *fakeAPI) RoomMembers(ctx context.Context, id string) ([]models.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.memberCalls++
	return f.members, f.memberErr
}

func (f *fakeAPI) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls + f.mineCalls + f.createCalls + f.updateCalls +
		f.deleteCalls + f.joinCalls + f.leaveCalls + f.memberCalls
}

func newTestEngine(api *fakeAPI, token string) (*Engine, *tu.StatusRecorder) {
	status := &tu.StatusRecorder{}
	engine := NewEngine(EngineOpts{
		API:     api,
		Session: session.NewMemoryStore(token),
		Status:  status,
	})
	return engine, status
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func TestCreateValidation(t *testing.T) {
	t.Run("private without password rejected before any network call", func(t *testing.T) {
		api := &fakeAPI{}
		engine, status := newTestEngine(api, "tok")

		_, err := engine.Create(context.Background(), models.RoomCreate{
			Name: "room", MaxMembers: 5, IsPrivate: true,
		})

		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
		if api.totalCalls() != 0 {
			t.Errorf("expected zero network calls, got %d", api.totalCalls())
		}
		if _, isErr := status.Last(); !isErr {
			t.Error("expected an error report")
		}
	})

	t.Run("public with password rejected before any network call", func(t *testing.T) {
		api := &fakeAPI{}
		engine, _ := newTestEngine(api, "tok")

		_, err := engine.Create(context.Background(), models.RoomCreate{
			Name: "room", MaxMembers: 5, IsPrivate: false, Password: "oops",
		})

		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
		if api.totalCalls() != 0 {
			t.Errorf("expected zero network calls, got %d", api.totalCalls())
		}
	})

	t.Run("private with password accepted", func(t *testing.T) {
		api := &fakeAPI{}
		engine, _ := newTestEngine(api, "tok")

		room, err := engine.Create(context.Background(), models.RoomCreate{
			Name: "room", MaxMembers: 5, IsPrivate: true, Password: "secret1",
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !room.IsPrivate {
			t.Error("expected private room")
		}
	})

	t.Run("public without password accepted", func(t *testing.T) {
		api := &fakeAPI{}
		engine, _ := newTestEngine(api, "tok")

		if _, err := engine.Create(context.Background(), models.RoomCreate{
			Name: "room", MaxMembers: 5,
		}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})
}

func TestUpdateValidation(t *testing.T) {
	t.Run("enabling privacy without password rejected locally", func(t *testing.T) {
		api := &fakeAPI{}
		engine, _ := newTestEngine(api, "tok")

		_, err := engine.Update(context.Background(), "room-1", models.RoomUpdate{IsPrivate: true})

		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
		if api.totalCalls() != 0 {
			t.Errorf("expected zero network calls, got %d", api.totalCalls())
		}
	})

	t.Run("disabling privacy with password rejected locally", func(t *testing.T) {
		api := &fakeAPI{}
		engine, _ := newTestEngine(api, "tok")

		_, err := engine.Update(context.Background(), "room-1", models.RoomUpdate{
			IsPrivate: false, Password: strPtr("stale"),
		})

		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
		if api.totalCalls() != 0 {
			t.Errorf("expected zero network calls, got %d", api.totalCalls())
		}
	})

	t.Run("empty update reports nothing to update and issues no request", func(t *testing.T) {
		api := &fakeAPI{}
		engine, status := newTestEngine(api, "tok")

		_, err := engine.Update(context.Background(), "room-1", models.RoomUpdate{})

		if err == nil {
			t.Fatal("expected error")
		}
		msg, _ := status.Last()
		if msg != "nothing to update" {
			t.Errorf("expected 'nothing to update', got %q", msg)
		}
		if api.totalCalls() != 0 {
			t.Errorf("expected zero network calls, got %d", api.totalCalls())
		}
	})

	t.Run("missing id rejected locally", func(t *testing.T) {
		api := &fakeAPI{}
		engine, _ := newTestEngine(api, "tok")

		_, err := engine.Update(context.Background(), "", models.RoomUpdate{Name: strPtr("x")})
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("valid update round trips", func(t *testing.T) {
		api := &fakeAPI{}
		engine, _ := newTestEngine(api, "tok")

		if _, err := engine.Update(context.Background(), "room-1", models.RoomUpdate{
			Name: strPtr("new name"), MaxMembers: intPtr(8),
		}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if api.updateCalls != 1 {
			t.Errorf("expected one update call, got %d", api.updateCalls)
		}
	})
}

func TestRefresh(t *testing.T) {
	t.Run("second concurrent refresh is a no-op", func(t *testing.T) {
		api := &fakeAPI{listGate: make(chan struct{})}
		engine, _ := newTestEngine(api, "tok")

		done := make(chan error)
		go func() { done <- engine.Refresh(context.Background(), TargetGlobal) }()

		// Wait for the first fetch to be holding the gate.
		for {
			api.mu.Lock()
			started := api.listCalls == 1
			api.mu.Unlock()
			if started {
				break
			}
		}

		if err := engine.Refresh(context.Background(), TargetGlobal); err != nil {
			t.Errorf("expected guarded refresh to be a silent no-op, got %v", err)
		}

		close(api.listGate)
		if err := <-done; err != nil {
			t.Errorf("expected first refresh to succeed, got %v", err)
		}

		if api.listCalls != 1 {
			t.Errorf("expected exactly one network call, got %d", api.listCalls)
		}
	})

	t.Run("guard applies to the personal view too", func(t *testing.T) {
		api := &fakeAPI{}
		engine, _ := newTestEngine(api, "tok")

		engine.mu.Lock()
		engine.inflight[TargetMine] = true
		engine.mu.Unlock()

		if err := engine.Refresh(context.Background(), TargetMine); err != nil {
			t.Errorf("expected no-op, got %v", err)
		}
		if api.mineCalls != 0 {
			t.Errorf("expected zero calls, got %d", api.mineCalls)
		}
	})

	t.Run("personal view without token short-circuits", func(t *testing.T) {
		api := &fakeAPI{}
		engine, status := newTestEngine(api, "")

		err := engine.Refresh(context.Background(), TargetMine)

		if !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
		if api.mineCalls != 0 {
			t.Errorf("expected zero network calls, got %d", api.mineCalls)
		}
		if _, isErr := status.Last(); !isErr {
			t.Error("expected an error report")
		}
	})

	t.Run("failed refresh preserves prior view", func(t *testing.T) {
		api := &fakeAPI{rooms: []models.Room{{ID: "r1", Name: "keep me"}}}
		engine, _ := newTestEngine(api, "tok")

		if err := engine.Refresh(context.Background(), TargetGlobal); err != nil {
			t.Fatalf("seed refresh failed: %v", err)
		}

		api.mu.Lock()
		api.listErr = errors.New("backend down")
		api.mu.Unlock()

		if err := engine.Refresh(context.Background(), TargetGlobal); err == nil {
			t.Fatal("expected refresh error")
		}

		view := engine.View(TargetGlobal)
		if !view.Loaded || len(view.Rooms) != 1 || view.Rooms[0].Name != "keep me" {
			t.Errorf("expected prior view to survive failure, got %+v", view)
		}
	})

	t.Run("empty result loads an explicit empty snapshot", func(t *testing.T) {
		api := &fakeAPI{rooms: []models.Room{}}
		engine, _ := newTestEngine(api, "tok")

		engine.Refresh(context.Background(), TargetGlobal)

		view := engine.View(TargetGlobal)
		if !view.Loaded {
			t.Error("expected view to be marked loaded")
		}
		if len(view.Rooms) != 0 {
			t.Errorf("expected empty view, got %d rooms", len(view.Rooms))
		}
	})
}

func TestMutationsRefreshBothViews(t *testing.T) {
	ops := map[string]func(*Engine) error{
		"create": func(e *Engine) error {
			_, err := e.Create(context.Background(), models.RoomCreate{Name: "r", MaxMembers: 2})
			return err
		},
		"update": func(e *Engine) error {
			_, err := e.Update(context.Background(), "room-1", models.RoomUpdate{Name: strPtr("r")})
			return err
		},
		"delete": func(e *Engine) error {
			return e.Delete(context.Background(), "room-1")
		},
		"join": func(e *Engine) error {
			return e.Join(context.Background(), "room-1", false)
		},
		"leave": func(e *Engine) error {
			return e.Leave(context.Background(), "room-1")
		},
	}

	for name, op := range ops {
		t.Run(name+" triggers exactly one refresh of each view", func(t *testing.T) {
			api := &fakeAPI{leaveDetail: "left"}
			engine, _ := newTestEngine(api, "tok")

			if err := op(engine); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if api.listCalls != 1 {
				t.Errorf("expected one global refresh, got %d", api.listCalls)
			}
			if api.mineCalls != 1 {
				t.Errorf("expected one personal refresh, got %d", api.mineCalls)
			}
		})
	}

	for name, op := range ops {
		t.Run(name+" without token issues zero network calls", func(t *testing.T) {
			api := &fakeAPI{}
			engine, _ := newTestEngine(api, "")

			if err := op(engine); !errors.Is(err, shared.ErrNotAuthenticated) {
				t.Errorf("expected ErrNotAuthenticated, got %v", err)
			}
			if api.totalCalls() != 0 {
				t.Errorf("expected zero network calls, got %d", api.totalCalls())
			}
		})
	}
}

func TestJoin(t *testing.T) {
	t.Run("private room suspends into pending slot without a network call", func(t *testing.T) {
		api := &fakeAPI{}
		engine, _ := newTestEngine(api, "tok")

		err := engine.Join(context.Background(), "room-1", true)

		if !errors.Is(err, ErrPasswordRequired) {
			t.Fatalf("expected ErrPasswordRequired, got %v", err)
		}
		if id, ok := engine.PendingJoin(); !ok || id != "room-1" {
			t.Errorf("expected pending join for room-1, got %q (ok=%v)", id, ok)
		}
		if api.joinCalls != 0 {
			t.Errorf("expected no join call yet, got %d", api.joinCalls)
		}
	})

	t.Run("resume sends the collected password and clears the slot", func(t *testing.T) {
		api := &fakeAPI{}
		engine, _ := newTestEngine(api, "tok")

		engine.Join(context.Background(), "room-1", true)
		if err := engine.ResumeJoin(context.Background(), "hunter2"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if api.joinPassword != "hunter2" {
			t.Errorf("expected password 'hunter2', got %q", api.joinPassword)
		}
		if _, ok := engine.PendingJoin(); ok {
			t.Error("expected pending slot to be cleared on success")
		}
	})

	t.Run("wrong password keeps the slot for retry", func(t *testing.T) {
		api := &fakeAPI{joinErr: &services.APIError{
			StatusCode: 403,
			Validation: []services.ValidationError{{Msg: "bad password"}},
		}}
		engine, status := newTestEngine(api, "tok")

		engine.Join(context.Background(), "room-1", true)
		if err := engine.ResumeJoin(context.Background(), "wrong"); err == nil {
			t.Fatal("expected join error")
		}

		msg, isErr := status.Last()
		if !isErr || msg != "failed to join room: bad password" {
			t.Errorf("expected extracted validation message, got %q", msg)
		}
		if _, ok := engine.PendingJoin(); !ok {
			t.Error("expected pending slot to survive a failed attempt")
		}
	})

	t.Run("cancel clears the slot", func(t *testing.T) {
		api := &fakeAPI{}
		engine, _ := newTestEngine(api, "tok")

		engine.Join(context.Background(), "room-1", true)
		engine.CancelJoin()

		if _, ok := engine.PendingJoin(); ok {
			t.Error("expected pending slot to be cleared")
		}
	})

	t.Run("resume with no pending join fails", func(t *testing.T) {
		api := &fakeAPI{}
		engine, _ := newTestEngine(api, "tok")

		if err := engine.ResumeJoin(context.Background(), "pw"); err == nil {
			t.Error("expected error for resume without a pending join")
		}
		if api.joinCalls != 0 {
			t.Errorf("expected zero join calls, got %d", api.joinCalls)
		}
	})

	t.Run("public room joins immediately with empty password", func(t *testing.T) {
		api := &fakeAPI{}
		engine, _ := newTestEngine(api, "tok")

		if err := engine.Join(context.Background(), "room-1", false); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if api.joinCalls != 1 || api.joinPassword != "" {
			t.Errorf("expected one join with empty password, got %d calls, password %q", api.joinCalls, api.joinPassword)
		}
	})
}

func TestLeave(t *testing.T) {
	t.Run("success message is the server detail verbatim", func(t *testing.T) {
		api := &fakeAPI{leaveDetail: "Вы покинули комнату"}
		engine, status := newTestEngine(api, "tok")

		if err := engine.Leave(context.Background(), "room-1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		// refreshBoth reports after the leave message; find the leave report.
		found := false
		for _, msg := range status.Messages {
			if msg == "Вы покинули комнату" {
				found = true
			}
		}
		if !found {
			t.Errorf("expected verbatim server detail in reports, got %v", status.Messages)
		}
	})

	t.Run("declined confirmation issues no request", func(t *testing.T) {
		api := &fakeAPI{}
		engine := NewEngine(EngineOpts{
			API:     api,
			Session: session.NewMemoryStore("tok"),
			Confirm: func(string) bool { return false },
		})

		if err := engine.Leave(context.Background(), "room-1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if api.totalCalls() != 0 {
			t.Errorf("expected zero network calls, got %d", api.totalCalls())
		}
	})
}

func TestDelete(t *testing.T) {
	t.Run("declined confirmation issues no request", func(t *testing.T) {
		api := &fakeAPI{}
		engine := NewEngine(EngineOpts{
			API:     api,
			Session: session.NewMemoryStore("tok"),
			Confirm: func(string) bool { return false },
		})

		if err := engine.Delete(context.Background(), "room-1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if api.totalCalls() != 0 {
			t.Errorf("expected zero network calls, got %d", api.totalCalls())
		}
	})

	t.Run("success report names the deleted id", func(t *testing.T) {
		api := &fakeAPI{}
		engine, status := newTestEngine(api, "tok")

		if err := engine.Delete(context.Background(), "room-42"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		found := false
		for _, msg := range status.Messages {
			if msg == "room room-42 deleted" {
				found = true
			}
		}
		if !found {
			t.Errorf("expected deletion report naming the id, got %v", status.Messages)
		}
	})
}

func TestMembers(t *testing.T) {
	t.Run("zero members reports empty state without error", func(t *testing.T) {
		api := &fakeAPI{members: []models.Member{}}
		engine, status := newTestEngine(api, "")

		members, err := engine.Members(context.Background(), "room-1")

		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(members) != 0 {
			t.Errorf("expected no members, got %d", len(members))
		}
		msg, isErr := status.Last()
		if isErr || msg != "this room has no members yet" {
			t.Errorf("expected empty-state report, got %q (isErr=%v)", msg, isErr)
		}
	})

	t.Run("requires no token", func(t *testing.T) {
		api := &fakeAPI{members: []models.Member{{ID: "u1", Username: "ana"}}}
		engine, _ := newTestEngine(api, "")

		members, err := engine.Members(context.Background(), "room-1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(members) != 1 {
			t.Errorf("expected one member, got %d", len(members))
		}
	})
}
