package ui

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Lalka12235/TuneWave/internal/models"
	"github.com/Lalka12235/TuneWave/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	RoomListView ViewState = iota
	CreateFormView
	PasswordView
	MembersView
	ConfirmView
)

// confirmAction is the operation a ConfirmView resolves to.
type confirmAction int

const (
	confirmDelete confirmAction = iota
	confirmLeave
)

// Form field order in CreateFormView.
const (
	fieldName = iota
	fieldMaxMembers
	fieldPassword
	fieldCount
)

// Model represents the TUI application state.
type Model struct {
	ctx        context.Context
	view       ViewState
	engine     *tasks.Engine
	target     tasks.Target
	width      int
	height     int
	roomList   list.Model
	listReady  bool
	memberList list.Model
	membersFor string

	inputs     []textinput.Model
	focusIndex int
	isPrivate  bool

	passwordInput textinput.Model
	pendingRoom   string

	confirm     confirmAction
	confirmRoom roomItem

	statusChan chan StatusUpdate
	status     string
	statusErr  bool

	help help.Model
	keys keyMap
}

// NewModel creates a new TUI model. The status channel must be wired to the
// engine's status sink by the caller.
func NewModel(ctx context.Context, engine *tasks.Engine, statusChan chan StatusUpdate) *Model {
	inputs := make([]textinput.Model, fieldCount)
	for i := range inputs {
		inputs[i] = textinput.New()
	}
	inputs[fieldName].Placeholder = "room name"
	inputs[fieldMaxMembers].Placeholder = "max members"
	inputs[fieldPassword].Placeholder = "password (private rooms)"
	inputs[fieldPassword].EchoMode = textinput.EchoPassword

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword

	return &Model{
		ctx:           ctx,
		view:          RoomListView,
		engine:        engine,
		target:        tasks.TargetGlobal,
		inputs:        inputs,
		passwordInput: password,
		statusChan:    statusChan,
		help:          help.New(),
		keys:          newKeyMap(),
	}
}

// Init refreshes both room collections and starts draining status reports.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.refresh(tasks.TargetGlobal), m.refresh(tasks.TargetMine), m.waitForStatus())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.listReady {
			m.roomList.SetSize(m.listWidth(), m.listHeight())
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case RoomListView:
			return m.handleRoomListKeys(msg)
		case CreateFormView:
			return m.handleCreateFormKeys(msg)
		case PasswordView:
			return m.handlePasswordKeys(msg)
		case MembersView:
			return m.handleMembersKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		}

	case roomsRefreshedMsg:
		if msg.target == m.target {
			m.syncRoomList()
		}
		return m, nil

	case membersLoadedMsg:
		if msg.err != nil {
			m.view = RoomListView
			return m, nil
		}
		items := make([]list.Item, len(msg.members))
		for i, member := range msg.members {
			items[i] = memberItem{member: member}
		}
		m.memberList = list.New(items, list.NewDefaultDelegate(), m.listWidth(), m.listHeight())
		m.memberList.Title = "Members"
		m.membersFor = msg.roomID
		m.view = MembersView
		return m, nil

	case mutationDoneMsg:
		// The engine has already refreshed both views on success; pull the
		// current snapshot into the visible list either way.
		m.syncRoomList()
		return m, nil

	case passwordNeededMsg:
		m.pendingRoom = msg.roomID
		m.passwordInput.SetValue("")
		m.passwordInput.Focus()
		m.view = PasswordView
		return m, textinput.Blink

	case statusMsg:
		m.status = msg.Message
		m.statusErr = msg.Err
		return m, m.waitForStatus()
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	var body string
	switch m.view {
	case RoomListView:
		body = m.renderRoomList()
	case CreateFormView:
		body = m.renderCreateForm()
	case PasswordView:
		body = m.renderPassword()
	case MembersView:
		body = m.renderMembers()
	case ConfirmView:
		body = m.renderConfirm()
	}

	return fmt.Sprintf("%s\n%s", body, m.renderStatus())
}

func (m *Model) handleRoomListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.tab):
		if m.target == tasks.TargetGlobal {
			m.target = tasks.TargetMine
		} else {
			m.target = tasks.TargetGlobal
		}
		m.syncRoomList()
		return m, m.refresh(m.target)

	case key.Matches(msg, m.keys.refresh):
		return m, m.refresh(m.target)

	case key.Matches(msg, m.keys.create):
		m.resetCreateForm()
		m.view = CreateFormView
		return m, textinput.Blink

	case key.Matches(msg, m.keys.members):
		if item, ok := m.selectedRoom(); ok {
			return m, m.loadMembers(item.room.ID)
		}

	case key.Matches(msg, m.keys.leave):
		if item, ok := m.selectedRoom(); ok {
			m.confirm = confirmLeave
			m.confirmRoom = item
			m.view = ConfirmView
		}
		return m, nil

	case key.Matches(msg, m.keys.delete):
		if item, ok := m.selectedRoom(); ok {
			m.confirm = confirmDelete
			m.confirmRoom = item
			m.view = ConfirmView
		}
		return m, nil

	case key.Matches(msg, m.keys.enter):
		if item, ok := m.selectedRoom(); ok {
			return m, m.join(item.room)
		}
	}

	return m.updateLists(msg)
}

func (m *Model) handleCreateFormKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = RoomListView
		return m, nil
	case "ctrl+p":
		m.isPrivate = !m.isPrivate
		return m, nil
	case "tab", "shift+tab", "down", "up":
		if msg.String() == "tab" || msg.String() == "down" {
			m.focusIndex = (m.focusIndex + 1) % fieldCount
		} else {
			m.focusIndex = (m.focusIndex + fieldCount - 1) % fieldCount
		}
		cmds := make([]tea.Cmd, 0, fieldCount)
		for i := range m.inputs {
			if i == m.focusIndex {
				cmds = append(cmds, m.inputs[i].Focus())
			} else {
				m.inputs[i].Blur()
			}
		}
		return m, tea.Batch(cmds...)
	case "enter":
		return m, m.submitCreateForm()
	}

	var cmd tea.Cmd
	m.inputs[m.focusIndex], cmd = m.inputs[m.focusIndex].Update(msg)
	return m, cmd
}

func (m *Model) handlePasswordKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.engine.CancelJoin()
		m.pendingRoom = ""
		m.view = RoomListView
		return m, nil
	case "enter":
		password := m.passwordInput.Value()
		m.view = RoomListView
		return m, m.resumeJoin(password)
	}

	var cmd tea.Cmd
	m.passwordInput, cmd = m.passwordInput.Update(msg)
	return m, cmd
}

func (m *Model) handleMembersKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = RoomListView
		return m, nil
	case "r":
		return m, m.loadMembers(m.membersFor)
	}

	var cmd tea.Cmd
	m.memberList, cmd = m.memberList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "n", "esc":
		m.view = RoomListView
		return m, nil
	case "y":
		room := m.confirmRoom.room
		m.view = RoomListView
		if m.confirm == confirmDelete {
			return m, m.deleteRoom(room.ID)
		}
		return m, m.leaveRoom(room.ID)
	}
	return m, nil
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case RoomListView:
		if m.listReady {
			m.roomList, cmd = m.roomList.Update(msg)
		}
	case MembersView:
		m.memberList, cmd = m.memberList.Update(msg)
	}
	return m, cmd
}

func (m *Model) selectedRoom() (roomItem, bool) {
	if !m.listReady {
		return roomItem{}, false
	}
	selected := m.roomList.SelectedItem()
	if selected == nil {
		return roomItem{}, false
	}
	item, ok := selected.(roomItem)
	return item, ok
}

// syncRoomList rebuilds the visible list from the engine's current view
// snapshot for the active target.
func (m *Model) syncRoomList() {
	view := m.engine.View(m.target)
	items := make([]list.Item, len(view.Rooms))
	for i, room := range view.Rooms {
		items[i] = roomItem{room: room}
	}

	if !m.listReady {
		m.roomList = list.New(items, list.NewDefaultDelegate(), m.listWidth(), m.listHeight())
		m.listReady = true
	} else {
		m.roomList.SetItems(items)
	}
	m.roomList.Title = m.listTitle(view)
}

func (m *Model) listWidth() int {
	if m.width > 4 {
		return m.width - 4
	}
	return 0
}

func (m *Model) listHeight() int {
	if m.height > 8 {
		return m.height - 8
	}
	return 0
}

func (m *Model) listTitle(view tasks.View) string {
	name := "All Rooms"
	if m.target == tasks.TargetMine {
		name = "My Rooms"
	}
	if !view.Loaded {
		return fmt.Sprintf("%s (loading...)", name)
	}
	return fmt.Sprintf("%s (%d)", name, len(view.Rooms))
}

func (m *Model) resetCreateForm() {
	for i := range m.inputs {
		m.inputs[i].SetValue("")
		m.inputs[i].Blur()
	}
	m.focusIndex = fieldName
	m.inputs[fieldName].Focus()
	m.isPrivate = false
}

func (m *Model) submitCreateForm() tea.Cmd {
	maxMembers, err := strconv.Atoi(m.inputs[fieldMaxMembers].Value())
	if err != nil {
		m.status = "max members must be a number"
		m.statusErr = true
		return nil
	}

	data := models.RoomCreate{
		Name:       m.inputs[fieldName].Value(),
		MaxMembers: maxMembers,
		IsPrivate:  m.isPrivate,
		Password:   m.inputs[fieldPassword].Value(),
	}

	m.view = RoomListView
	return func() tea.Msg {
		_, err := m.engine.Create(m.ctx, data)
		return mutationDoneMsg{err: err}
	}
}

func (m *Model) refresh(target tasks.Target) tea.Cmd {
	return func() tea.Msg {
		err := m.engine.Refresh(m.ctx, target)
		return roomsRefreshedMsg{target: target, err: err}
	}
}

func (m *Model) join(room models.Room) tea.Cmd {
	return func() tea.Msg {
		err := m.engine.Join(m.ctx, room.ID, room.IsPrivate)
		if errors.Is(err, tasks.ErrPasswordRequired) {
			return passwordNeededMsg{roomID: room.ID}
		}
		return mutationDoneMsg{err: err}
	}
}

func (m *Model) resumeJoin(password string) tea.Cmd {
	return func() tea.Msg {
		err := m.engine.ResumeJoin(m.ctx, password)
		return mutationDoneMsg{err: err}
	}
}

func (m *Model) deleteRoom(id string) tea.Cmd {
	return func() tea.Msg {
		return mutationDoneMsg{err: m.engine.Delete(m.ctx, id)}
	}
}

func (m *Model) leaveRoom(id string) tea.Cmd {
	return func() tea.Msg {
		return mutationDoneMsg{err: m.engine.Leave(m.ctx, id)}
	}
}

func (m *Model) loadMembers(roomID string) tea.Cmd {
	return func() tea.Msg {
		members, err := m.engine.Members(m.ctx, roomID)
		return membersLoadedMsg{roomID: roomID, members: members, err: err}
	}
}

func (m *Model) waitForStatus() tea.Cmd {
	return func() tea.Msg {
		update, ok := <-m.statusChan
		if !ok {
			return nil
		}
		return statusMsg(update)
	}
}

func (m *Model) renderStatus() string {
	if m.status == "" {
		return ""
	}
	if m.statusErr {
		return styles.err.Render(m.status)
	}
	return styles.ok.Render(m.status)
}

func (m *Model) renderRoomList() string {
	if !m.listReady {
		return styles.help.Render("Loading rooms...")
	}

	helpKeys := []key.Binding{m.keys.join, m.keys.tab, m.keys.create, m.keys.members, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.roomList.View(), helpView)
}

func (m *Model) renderCreateForm() string {
	title := styles.title.Render("Create Room")

	privacy := "public"
	if m.isPrivate {
		privacy = "private"
	}

	form := fmt.Sprintf(
		"%s\n%s\n%s\n\nPrivacy: %s (ctrl+p to toggle)",
		m.inputs[fieldName].View(),
		m.inputs[fieldMaxMembers].View(),
		m.inputs[fieldPassword].View(),
		styles.warn.Render(privacy),
	)

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.enter, m.keys.back})
	return fmt.Sprintf("%s\n%s\n\n%s", title, form, helpView)
}

func (m *Model) renderPassword() string {
	title := styles.title.Render("This room is private")
	prompt := fmt.Sprintf("Enter the password to join:\n\n%s", m.passwordInput.View())
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.enter, m.keys.back})
	return fmt.Sprintf("%s\n%s\n\n%s", title, prompt, helpView)
}

func (m *Model) renderMembers() string {
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.refresh, m.keys.back, m.keys.quit})
	return fmt.Sprintf("%s\n\n%s", m.memberList.View(), helpView)
}

func (m *Model) renderConfirm() string {
	verb := "Delete"
	if m.confirm == confirmLeave {
		verb = "Leave"
	}
	title := styles.title.Render(fmt.Sprintf("%s room '%s'?", verb, m.confirmRoom.room.Name))
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.yes, m.keys.no})
	return fmt.Sprintf("%s\n%s", title, helpView)
}
