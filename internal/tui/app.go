// Package tui 终端界面：登录/注册表单、待办列表、聊天与悬浮助手
// Package tui is the terminal front end: auth forms, the todo list, the
// chat view, and the floating assistant pane.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"taskdeck/internal/api"
	"taskdeck/internal/authstate"
	"taskdeck/internal/chat"
	"taskdeck/internal/model"
	"taskdeck/internal/todolist"
)

// View 当前界面 / View identifies the active screen.
type View int

const (
	ViewSignin View = iota
	ViewSignup
	ViewTodos
	ViewChat
)

// --- Tea Messages ---

type authResultMsg struct {
	resp *model.AuthResponse
	err  error
}

type todosLoadedMsg struct {
	todos []model.Todo
	err   error
}

type todoSavedMsg struct {
	err error
}

type todoToggledMsg struct {
	todo *model.Todo
	err  error
}

type todoDeletedMsg struct {
	id  string
	err error
}

type chatReplyMsg struct {
	widget bool
	err    error
}

// App Bubble Tea 主 Model
// App is the main Bubble Tea model
type App struct {
	client   *api.Client
	sessions *authstate.Store
	todos    *todolist.ViewModel
	chatConv *chat.Relay
	widget   *chat.Relay
	log      *zap.Logger

	// 布局 / Layout
	width  int
	height int

	view  View
	keys  KeyMap
	theme Theme

	// 认证表单 / Auth form
	emailInput    textinput.Model
	passwordInput textinput.Model
	confirmInput  textinput.Model
	authFocus     int
	authBusy      bool

	// 待办列表 / Todo list
	cursor     int
	adding     bool
	editing    bool
	editID     string
	titleInput textinput.Model
	descInput  textinput.Model
	todoFocus  int
	confirmID  string
	listBusy   bool
	saveBusy   bool
	toggleBusy bool
	deleteBusy bool

	// 聊天 / Chat
	chatInput    textinput.Model
	chatViewport viewport.Model
	chatBusy     bool

	// 悬浮助手 / Floating assistant
	assistantOpen  bool
	assistantInput textinput.Model
	assistantBusy  bool

	status  string
	isError bool
}

// NewApp 创建 TUI 应用；已有有效会话时直接进入待办列表
// NewApp builds the application model. A live restored session skips the
// auth forms entirely.
func NewApp(client *api.Client, sessions *authstate.Store, log *zap.Logger) App {
	if log == nil {
		log = zap.NewNop()
	}

	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 254
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.CharLimit = 128

	confirm := textinput.New()
	confirm.Placeholder = "confirm password"
	confirm.EchoMode = textinput.EchoPassword
	confirm.CharLimit = 128

	title := textinput.New()
	title.Placeholder = "title"
	title.CharLimit = model.TitleMaxLen + 1

	desc := textinput.New()
	desc.Placeholder = "description (optional)"
	desc.CharLimit = model.DescriptionMaxLen + 1

	chatIn := textinput.New()
	chatIn.Placeholder = "ask the assistant..."
	chatIn.CharLimit = 2000

	assistantIn := textinput.New()
	assistantIn.Placeholder = "tell me what to do with your todos..."
	assistantIn.CharLimit = 2000

	a := App{
		client:         client,
		sessions:       sessions,
		todos:          todolist.New(),
		chatConv:       chat.NewRelay(client, chat.NewPersisted(), log),
		widget:         chat.NewRelay(client, chat.NewWidget(), log),
		log:            log,
		view:           ViewSignin,
		keys:           DefaultKeyMap(),
		theme:          DefaultTheme(),
		emailInput:     email,
		passwordInput:  password,
		confirmInput:   confirm,
		titleInput:     title,
		descInput:      desc,
		chatInput:      chatIn,
		assistantInput: assistantIn,
	}
	if sessions.Current().IsAuthenticated {
		a.view = ViewTodos
	}
	return a
}

func (a App) Init() tea.Cmd {
	if a.view == ViewTodos {
		return tea.Batch(textinput.Blink, a.loadTodosCmd())
	}
	return textinput.Blink
}

// --- Commands ---

func (a App) signinCmd(email, password string) tea.Cmd {
	client := a.client
	return func() tea.Msg {
		resp, err := client.Signin(context.Background(), email, password)
		return authResultMsg{resp: resp, err: err}
	}
}

func (a App) signupCmd(email, password string) tea.Cmd {
	client := a.client
	return func() tea.Msg {
		resp, err := client.Signup(context.Background(), email, password)
		return authResultMsg{resp: resp, err: err}
	}
}

func (a App) loadTodosCmd() tea.Cmd {
	client := a.client
	return func() tea.Msg {
		todos, err := client.ListTodos(context.Background())
		return todosLoadedMsg{todos: todos, err: err}
	}
}

func (a App) createTodoCmd(req model.CreateTodoRequest) tea.Cmd {
	client := a.client
	return func() tea.Msg {
		_, err := client.CreateTodo(context.Background(), req)
		return todoSavedMsg{err: err}
	}
}

func (a App) updateTodoCmd(id string, req model.UpdateTodoRequest) tea.Cmd {
	client := a.client
	return func() tea.Msg {
		_, err := client.UpdateTodo(context.Background(), id, req)
		return todoSavedMsg{err: err}
	}
}

func (a App) toggleTodoCmd(id string) tea.Cmd {
	client := a.client
	return func() tea.Msg {
		todo, err := client.ToggleTodo(context.Background(), id)
		return todoToggledMsg{todo: todo, err: err}
	}
}

func (a App) deleteTodoCmd(id string) tea.Cmd {
	client := a.client
	return func() tea.Msg {
		_, err := client.DeleteTodo(context.Background(), id)
		return todoDeletedMsg{id: id, err: err}
	}
}

func (a App) chatCmd(relay *chat.Relay, text string, widget bool) tea.Cmd {
	return func() tea.Msg {
		_, err := relay.Send(context.Background(), text)
		return chatReplyMsg{widget: widget, err: err}
	}
}

// --- Update ---

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.relayout()
		return a, nil

	case tea.KeyMsg:
		if key.Matches(msg, a.keys.Quit) {
			return a, tea.Quit
		}

	case authResultMsg:
		return a.onAuthResult(msg)

	case todosLoadedMsg:
		a.listBusy = false
		if msg.err != nil {
			return a.fail(msg.err), nil
		}
		a.todos.SetTodos(msg.todos)
		a.clampCursor()
		a.status, a.isError = "", false
		return a, nil

	case todoSavedMsg:
		a.saveBusy = false
		if msg.err != nil {
			return a.fail(msg.err), nil
		}
		a.adding, a.editing, a.editID = false, false, ""
		a.titleInput.Reset()
		a.descInput.Reset()
		a.listBusy = true
		return a, a.loadTodosCmd()

	case todoToggledMsg:
		a.toggleBusy = false
		if msg.err != nil {
			return a.fail(msg.err), nil
		}
		if msg.todo != nil {
			a.todos.ApplyToggle(*msg.todo)
		}
		return a, nil

	case todoDeletedMsg:
		a.deleteBusy = false
		if msg.err != nil {
			return a.fail(msg.err), nil
		}
		a.todos.ApplyDelete(msg.id)
		a.clampCursor()
		return a, nil

	case chatReplyMsg:
		return a.onChatReply(msg)
	}

	switch a.view {
	case ViewSignin, ViewSignup:
		return a.updateAuth(msg)
	case ViewTodos:
		return a.updateTodos(msg)
	case ViewChat:
		return a.updateChat(msg)
	}
	return a, nil
}

func (a App) onAuthResult(msg authResultMsg) (tea.Model, tea.Cmd) {
	a.authBusy = false
	if msg.err != nil {
		return a.fail(msg.err), nil
	}
	if msg.resp == nil {
		a.status, a.isError = "empty response from server", true
		return a, nil
	}
	a.sessions.Signin(msg.resp.User, msg.resp.Session)
	a.view = ViewTodos
	a.status, a.isError = "", false
	a.passwordInput.Reset()
	a.confirmInput.Reset()
	a.listBusy = true
	return a, a.loadTodosCmd()
}

func (a App) onChatReply(msg chatReplyMsg) (tea.Model, tea.Cmd) {
	if msg.widget {
		a.assistantBusy = false
	} else {
		a.chatBusy = false
	}
	if msg.err != nil {
		return a.fail(msg.err), nil
	}
	a.status, a.isError = "", false
	a.syncChatViewport()
	if msg.widget {
		// 助手改动了后端数据，列表需要重新拉取
		// The assistant mutated backend data; the list refetches.
		a.todos.RequestRefresh()
		if a.todos.ConsumeRefresh() {
			a.listBusy = true
			return a, a.loadTodosCmd()
		}
	}
	return a, nil
}

func (a App) updateAuth(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, isKey := msg.(tea.KeyMsg)
	if isKey && !a.authBusy {
		switch {
		case key.Matches(keyMsg, a.keys.SwitchAuth):
			if a.view == ViewSignin {
				a.view = ViewSignup
			} else {
				a.view = ViewSignin
			}
			a.status, a.isError = "", false
			return a, nil

		case key.Matches(keyMsg, a.keys.NextField):
			a.authFocus = (a.authFocus + 1) % a.authFieldCount()
			a.focusAuthField()
			return a, nil

		case key.Matches(keyMsg, a.keys.Submit):
			return a.submitAuth()
		}
	}
	if a.authBusy {
		return a, nil
	}

	var cmd tea.Cmd
	switch a.authFocus {
	case 0:
		a.emailInput, cmd = a.emailInput.Update(msg)
	case 1:
		a.passwordInput, cmd = a.passwordInput.Update(msg)
	case 2:
		a.confirmInput, cmd = a.confirmInput.Update(msg)
	}
	return a, cmd
}

func (a App) submitAuth() (tea.Model, tea.Cmd) {
	email := strings.TrimSpace(a.emailInput.Value())
	password := a.passwordInput.Value()

	if a.view == ViewSignup {
		if err := model.ValidateSignup(email, password, a.confirmInput.Value()); err != nil {
			return a.fail(err), nil
		}
		a.authBusy = true
		a.status, a.isError = "signing up...", false
		return a, a.signupCmd(email, password)
	}

	if err := model.ValidateSignin(email, password); err != nil {
		return a.fail(err), nil
	}
	a.authBusy = true
	a.status, a.isError = "signing in...", false
	return a, a.signinCmd(email, password)
}

func (a App) updateTodos(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, isKey := msg.(tea.KeyMsg)
	if !isKey {
		return a, nil
	}

	if a.assistantOpen {
		return a.updateAssistant(keyMsg)
	}
	if a.adding || a.editing {
		return a.updateTodoForm(keyMsg)
	}
	if a.confirmID != "" {
		return a.updateDeleteConfirm(keyMsg)
	}

	visible := a.visibleTodos()
	switch {
	case key.Matches(keyMsg, a.keys.Up):
		if a.cursor > 0 {
			a.cursor--
		}
	case key.Matches(keyMsg, a.keys.Down):
		if a.cursor < len(visible)-1 {
			a.cursor++
		}
	case key.Matches(keyMsg, a.keys.Toggle):
		if a.toggleBusy || len(visible) == 0 {
			return a, nil
		}
		a.toggleBusy = true
		return a, a.toggleTodoCmd(visible[a.cursor].ID)
	case key.Matches(keyMsg, a.keys.NewTodo):
		a.adding = true
		a.todoFocus = 0
		a.titleInput.Focus()
		a.descInput.Blur()
	case key.Matches(keyMsg, a.keys.EditTodo):
		if len(visible) == 0 {
			return a, nil
		}
		t := visible[a.cursor]
		a.editing, a.editID = true, t.ID
		a.titleInput.SetValue(t.Title)
		a.descInput.SetValue(t.Description)
		a.todoFocus = 0
		a.titleInput.Focus()
		a.descInput.Blur()
	case key.Matches(keyMsg, a.keys.Delete):
		if a.deleteBusy || len(visible) == 0 {
			return a, nil
		}
		a.confirmID = visible[a.cursor].ID
	case key.Matches(keyMsg, a.keys.Refresh):
		if a.listBusy {
			return a, nil
		}
		a.listBusy = true
		return a, a.loadTodosCmd()
	case key.Matches(keyMsg, a.keys.OpenChat):
		a.view = ViewChat
		a.chatInput.Focus()
		a.syncChatViewport()
	case key.Matches(keyMsg, a.keys.Assistant):
		a.assistantOpen = true
		a.assistantInput.Focus()
	case key.Matches(keyMsg, a.keys.Signout):
		a.sessions.Signout()
		a.todos.SetTodos(nil)
		a.view = ViewSignin
		a.authFocus = 0
		a.focusAuthField()
	}
	return a, nil
}

func (a App) updateTodoForm(keyMsg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(keyMsg, a.keys.Cancel):
		a.adding, a.editing, a.editID = false, false, ""
		a.titleInput.Reset()
		a.descInput.Reset()
		a.status, a.isError = "", false
		return a, nil

	case key.Matches(keyMsg, a.keys.NextField):
		a.todoFocus = (a.todoFocus + 1) % 2
		if a.todoFocus == 0 {
			a.titleInput.Focus()
			a.descInput.Blur()
		} else {
			a.titleInput.Blur()
			a.descInput.Focus()
		}
		return a, nil

	case key.Matches(keyMsg, a.keys.Submit):
		if a.saveBusy {
			return a, nil
		}
		req, err := todolist.NewTodoRequest(a.titleInput.Value(), a.descInput.Value())
		if err != nil {
			return a.fail(err), nil
		}
		a.saveBusy = true
		if a.editing {
			update := model.UpdateTodoRequest{Title: &req.Title, Description: &req.Description}
			return a, a.updateTodoCmd(a.editID, update)
		}
		return a, a.createTodoCmd(req)
	}

	var cmd tea.Cmd
	if a.todoFocus == 0 {
		a.titleInput, cmd = a.titleInput.Update(keyMsg)
	} else {
		a.descInput, cmd = a.descInput.Update(keyMsg)
	}
	return a, cmd
}

func (a App) updateDeleteConfirm(keyMsg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch keyMsg.String() {
	case "y", "Y":
		id := a.confirmID
		a.confirmID = ""
		a.deleteBusy = true
		return a, a.deleteTodoCmd(id)
	case "n", "N", "esc":
		a.confirmID = ""
	}
	return a, nil
}

func (a App) updateAssistant(keyMsg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(keyMsg, a.keys.Cancel):
		a.assistantOpen = false
		a.assistantInput.Blur()
		return a, nil

	case key.Matches(keyMsg, a.keys.Submit):
		if a.assistantBusy {
			return a, nil
		}
		text := a.assistantInput.Value()
		if strings.TrimSpace(text) == "" {
			return a, nil
		}
		a.assistantInput.Reset()
		a.assistantBusy = true
		return a, a.chatCmd(a.widget, text, true)
	}

	var cmd tea.Cmd
	a.assistantInput, cmd = a.assistantInput.Update(keyMsg)
	return a, cmd
}

func (a App) updateChat(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, isKey := msg.(tea.KeyMsg)
	if !isKey {
		return a, nil
	}

	switch {
	case key.Matches(keyMsg, a.keys.Cancel):
		a.view = ViewTodos
		a.chatInput.Blur()
		return a, nil

	case key.Matches(keyMsg, a.keys.Submit):
		if a.chatBusy {
			return a, nil
		}
		text := a.chatInput.Value()
		if strings.TrimSpace(text) == "" {
			return a, nil
		}
		a.chatInput.Reset()
		a.chatBusy = true
		a.syncChatViewport()
		return a, a.chatCmd(a.chatConv, text, false)
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	a.chatInput, cmd = a.chatInput.Update(keyMsg)
	cmds = append(cmds, cmd)
	a.chatViewport, cmd = a.chatViewport.Update(keyMsg)
	cmds = append(cmds, cmd)
	return a, tea.Batch(cmds...)
}

// --- Helpers ---

func (a App) fail(err error) App {
	a.status = err.Error()
	a.isError = true
	a.log.Warn("operation failed", zap.Error(err))
	return a
}

// visibleTodos 未完成在前、已完成在后的展示顺序
// visibleTodos is the display order, pending first then completed.
func (a App) visibleTodos() []model.Todo {
	return append(a.todos.Pending(), a.todos.Completed()...)
}

func (a *App) clampCursor() {
	n := len(a.visibleTodos())
	if a.cursor >= n {
		a.cursor = n - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
}

func (a App) authFieldCount() int {
	if a.view == ViewSignup {
		return 3
	}
	return 2
}

func (a *App) focusAuthField() {
	a.emailInput.Blur()
	a.passwordInput.Blur()
	a.confirmInput.Blur()
	switch a.authFocus {
	case 0:
		a.emailInput.Focus()
	case 1:
		a.passwordInput.Focus()
	case 2:
		a.confirmInput.Focus()
	}
}

func (a *App) relayout() {
	vpHeight := a.height - 8
	if vpHeight < 3 {
		vpHeight = 3
	}
	width := a.width - 4
	if width < 20 {
		width = 20
	}
	a.chatViewport = viewport.New(width, vpHeight)
	a.syncChatViewport()

	a.emailInput.Width = 40
	a.passwordInput.Width = 40
	a.confirmInput.Width = 40
	a.titleInput.Width = width - 14
	a.descInput.Width = width - 14
	a.chatInput.Width = width
	a.assistantInput.Width = width
}

func (a *App) syncChatViewport() {
	width := a.chatViewport.Width
	if width <= 0 {
		width = 80
	}
	var b strings.Builder
	for _, m := range a.chatConv.Conversation().Messages() {
		if m.Role == model.RoleUser {
			b.WriteString(a.theme.UserMsgStyle.Render("you: ") + m.Content + "\n")
			continue
		}
		b.WriteString(a.theme.BotMsgStyle.Render(RenderMarkdown(m.Content, width)) + "\n")
	}
	if a.chatBusy {
		b.WriteString(a.theme.MutedStyle.Render("thinking...") + "\n")
	}
	a.chatViewport.SetContent(b.String())
	a.chatViewport.GotoBottom()
}

// Run 启动 Bubble Tea TUI
// Run starts the Bubble Tea TUI application
func Run(client *api.Client, sessions *authstate.Store, log *zap.Logger) error {
	app := NewApp(client, sessions, log)
	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
