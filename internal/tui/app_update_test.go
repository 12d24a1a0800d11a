package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"taskdeck/internal/api"
	"taskdeck/internal/authstate"
	"taskdeck/internal/model"
)

func newTestApp(t *testing.T) App {
	t.Helper()
	sessions := authstate.New(nil, nil)
	sessions.Initialize()
	// 指向不可达地址；测试直接投递结果消息，不触发网络
	// Points at an unreachable address; tests deliver result messages
	// directly and never hit the network.
	client := api.NewClient("http://127.0.0.1:1", time.Second, sessions, nil)
	app := NewApp(client, sessions, nil)
	m, _ := app.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return m.(App)
}

func authedApp(t *testing.T) App {
	t.Helper()
	app := newTestApp(t)
	m, cmd := app.Update(authResultMsg{resp: &model.AuthResponse{
		User:    model.User{ID: "u1", Email: "a@b.com"},
		Session: model.Session{Token: "tok", ExpiresAt: time.Now().Add(time.Hour)},
	}})
	if cmd == nil {
		t.Fatal("successful auth must trigger a todo fetch")
	}
	return m.(App)
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestAuthSuccessEntersTodoView(t *testing.T) {
	app := authedApp(t)
	if app.view != ViewTodos {
		t.Fatalf("view=%v", app.view)
	}
	if !app.sessions.Current().IsAuthenticated {
		t.Fatal("session store not updated")
	}
	if !app.listBusy {
		t.Fatal("list fetch not marked in flight")
	}
}

func TestSignupValidationFailsLocally(t *testing.T) {
	app := newTestApp(t)
	app.view = ViewSignup
	app.emailInput.SetValue("a@b.com")
	app.passwordInput.SetValue("short")
	app.confirmInput.SetValue("short")

	m, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	updated := m.(App)
	if cmd != nil {
		t.Fatal("invalid form must not reach the network")
	}
	if !updated.isError || updated.status == "" {
		t.Fatalf("validation error not surfaced: %q", updated.status)
	}
}

func TestToggleDisabledWhileInFlight(t *testing.T) {
	app := authedApp(t)
	m, _ := app.Update(todosLoadedMsg{todos: []model.Todo{
		{ID: "t1", Title: "one"},
		{ID: "t2", Title: "two", IsComplete: true},
	}})
	app = m.(App)

	m, cmd := app.Update(tea.KeyMsg{Type: tea.KeySpace})
	app = m.(App)
	if cmd == nil || !app.toggleBusy {
		t.Fatal("first toggle must dispatch")
	}

	_, cmd = app.Update(tea.KeyMsg{Type: tea.KeySpace})
	if cmd != nil {
		t.Fatal("second toggle must be ignored while in flight")
	}

	// 服务端版本整条替换 / server copy replaces the item wholesale
	m, _ = app.Update(todoToggledMsg{todo: &model.Todo{ID: "t1", Title: "one", IsComplete: true}})
	app = m.(App)
	if app.toggleBusy {
		t.Fatal("toggle still marked busy")
	}
	if got := app.todos.Completed(); len(got) != 2 {
		t.Fatalf("completed=%d", len(got))
	}
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	app := authedApp(t)
	m, _ := app.Update(todosLoadedMsg{todos: []model.Todo{{ID: "t1", Title: "one"}}})
	app = m.(App)

	m, _ = app.Update(keyRune('d'))
	app = m.(App)
	if app.confirmID != "t1" {
		t.Fatalf("confirm target=%q", app.confirmID)
	}

	// n 取消，无网络调用 / n cancels without a network call
	m, cmd := app.Update(keyRune('n'))
	app = m.(App)
	if cmd != nil || app.confirmID != "" {
		t.Fatal("cancel must be local")
	}
	if len(app.todos.Todos()) != 1 {
		t.Fatal("cancel must not remove the item")
	}

	m, _ = app.Update(keyRune('d'))
	app = m.(App)
	m, cmd = app.Update(keyRune('y'))
	app = m.(App)
	if cmd == nil || !app.deleteBusy {
		t.Fatal("confirmed delete must dispatch")
	}

	m, _ = app.Update(todoDeletedMsg{id: "t1"})
	app = m.(App)
	if len(app.todos.Todos()) != 0 {
		t.Fatal("item not removed after server confirm")
	}
}

func TestSaveRefetchesList(t *testing.T) {
	app := authedApp(t)
	m, _ := app.Update(todosLoadedMsg{todos: nil})
	app = m.(App)

	m, _ = app.Update(keyRune('n'))
	app = m.(App)
	if !app.adding {
		t.Fatal("n must open the add form")
	}
	app.titleInput.SetValue("buy milk")

	m, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	app = m.(App)
	if cmd == nil || !app.saveBusy {
		t.Fatal("save must dispatch")
	}

	m, cmd = app.Update(todoSavedMsg{})
	app = m.(App)
	if app.adding || cmd == nil || !app.listBusy {
		t.Fatal("successful save must close the form and refetch")
	}
}

func TestAssistantReplyTriggersRefetch(t *testing.T) {
	app := authedApp(t)
	m, _ := app.Update(todosLoadedMsg{todos: nil})
	app = m.(App)

	m, cmd := app.Update(chatReplyMsg{widget: true})
	app = m.(App)
	if cmd == nil || !app.listBusy {
		t.Fatal("assistant todo operation must refetch the list")
	}

	// 普通聊天回复不触发刷新 / a plain chat reply does not refetch
	app.listBusy = false
	_, cmd = app.Update(chatReplyMsg{widget: false})
	if cmd != nil {
		t.Fatal("chat reply must not refetch")
	}
}

func TestSignoutReturnsToSigninView(t *testing.T) {
	app := authedApp(t)
	m, _ := app.Update(todosLoadedMsg{todos: []model.Todo{{ID: "t1", Title: "one"}}})
	app = m.(App)

	m, _ = app.Update(tea.KeyMsg{Type: tea.KeyCtrlO})
	app = m.(App)
	if app.view != ViewSignin {
		t.Fatalf("view=%v", app.view)
	}
	if app.sessions.Current().IsAuthenticated {
		t.Fatal("session must be cleared")
	}
	if len(app.todos.Todos()) != 0 {
		t.Fatal("todos must be cleared on sign out")
	}
}

func TestTodoViewRendersPartitionsAndProgress(t *testing.T) {
	app := authedApp(t)
	m, _ := app.Update(todosLoadedMsg{todos: []model.Todo{
		{ID: "t1", Title: "write report"},
		{ID: "t2", Title: "buy milk", IsComplete: true},
	}})
	app = m.(App)

	out := app.View()
	if !strings.Contains(out, "Pending") || !strings.Contains(out, "Completed") {
		t.Fatalf("missing partitions:\n%s", out)
	}
	if !strings.Contains(out, "50%") {
		t.Fatalf("missing progress percent:\n%s", out)
	}
	if !strings.Contains(out, "write report") || !strings.Contains(out, "buy milk") {
		t.Fatalf("missing items:\n%s", out)
	}
}
