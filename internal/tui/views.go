package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"taskdeck/internal/model"
)

func (a App) View() string {
	if a.width == 0 || a.height == 0 {
		return "Initializing..."
	}

	var body string
	switch a.view {
	case ViewSignin, ViewSignup:
		body = a.renderAuth()
	case ViewTodos:
		body = a.renderTodos()
	case ViewChat:
		body = a.renderChat()
	}

	return lipgloss.JoinVertical(lipgloss.Left, body, a.renderStatusBar())
}

func (a App) renderAuth() string {
	var parts []string

	title := " Sign in"
	hint := "enter submit · tab next field · ctrl+s sign up · ctrl+c quit"
	if a.view == ViewSignup {
		title = " Sign up"
		hint = "enter submit · tab next field · ctrl+s sign in · ctrl+c quit"
	}
	parts = append(parts, a.theme.TitleStyle.Render(title), "")

	parts = append(parts, a.theme.LabelStyle.Render(" Email"))
	parts = append(parts, " "+a.emailInput.View(), "")
	parts = append(parts, a.theme.LabelStyle.Render(" Password"))
	parts = append(parts, " "+a.passwordInput.View(), "")
	if a.view == ViewSignup {
		parts = append(parts, a.theme.LabelStyle.Render(" Confirm password"))
		parts = append(parts, " "+a.confirmInput.View(), "")
	}
	parts = append(parts, a.theme.MutedStyle.Render(" "+hint))

	form := strings.Join(parts, "\n")
	box := a.theme.PanelStyle.Width(min(a.width-2, 52)).Render(form)
	return lipgloss.Place(a.width, a.height-1, lipgloss.Center, lipgloss.Center, box)
}

func (a App) renderTodos() string {
	var parts []string

	user := a.sessions.Current().User
	header := " Todos"
	if user != nil {
		header = fmt.Sprintf(" Todos · %s", user.Email)
	}
	parts = append(parts, a.theme.TitleStyle.Render(header))

	pct := a.todos.ProgressPercent()
	barWidth := min(a.width-12, 40)
	parts = append(parts, fmt.Sprintf(" %s %3d%%", renderProgressBar(pct, barWidth), pct), "")

	visible := a.visibleTodos()
	if a.listBusy && len(visible) == 0 {
		parts = append(parts, a.theme.MutedStyle.Render("  loading..."))
	} else if len(visible) == 0 {
		parts = append(parts, a.theme.MutedStyle.Render("  Nothing here yet. Press n to add a todo."))
	}

	pendingCount := len(a.todos.Pending())
	for i, t := range visible {
		if i == 0 && pendingCount > 0 {
			parts = append(parts, a.theme.HeaderStyle.Render(" Pending"))
		}
		if i == pendingCount {
			if i > 0 {
				parts = append(parts, "")
			}
			parts = append(parts, a.theme.HeaderStyle.Render(" Completed"))
		}
		parts = append(parts, a.renderTodoLine(t, i == a.cursor))
	}

	if a.confirmID != "" {
		parts = append(parts, "", a.theme.DangerStyle.Render(" Delete this todo? (y/n) "))
	}
	if a.adding || a.editing {
		parts = append(parts, "", a.renderTodoForm())
	}
	if a.assistantOpen {
		parts = append(parts, "", a.renderAssistant())
	}

	return strings.Join(parts, "\n")
}

func (a App) renderTodoLine(t model.Todo, selected bool) string {
	marker := "[ ]"
	if t.IsComplete {
		marker = "[x]"
	}
	line := fmt.Sprintf(" %s %s", marker, truncate(t.Title, a.width-10))
	if t.Description != "" {
		line += a.theme.MutedStyle.Render(" · " + truncate(t.Description, 30))
	}
	switch {
	case selected:
		return a.theme.SelectedStyle.Render("›" + line)
	case t.IsComplete:
		return " " + a.theme.DoneStyle.Render(line)
	default:
		return " " + line
	}
}

func (a App) renderTodoForm() string {
	header := " New todo"
	if a.editing {
		header = " Edit todo"
	}
	lines := []string{
		a.theme.HeaderStyle.Render(header),
		" Title:       " + a.titleInput.View(),
		" Description: " + a.descInput.View(),
		a.theme.MutedStyle.Render(" enter save · tab next field · esc cancel"),
	}
	if a.saveBusy {
		lines = append(lines, a.theme.MutedStyle.Render(" saving..."))
	}
	return a.theme.PanelStyle.Render(strings.Join(lines, "\n"))
}

func (a App) renderAssistant() string {
	lines := []string{a.theme.HeaderStyle.Render(" Assistant")}

	msgs := a.widget.Conversation().Messages()
	start := 0
	if len(msgs) > 6 {
		start = len(msgs) - 6
	}
	for _, m := range msgs[start:] {
		if m.Role == model.RoleUser {
			lines = append(lines, a.theme.UserMsgStyle.Render(" you: ")+truncate(m.Content, a.width-10))
			continue
		}
		lines = append(lines, " "+truncate(m.Content, a.width-6))
	}
	if a.assistantBusy {
		lines = append(lines, a.theme.MutedStyle.Render(" working..."))
	}
	lines = append(lines, " "+a.assistantInput.View())
	lines = append(lines, a.theme.MutedStyle.Render(" enter send · esc close"))
	return a.theme.PanelStyle.Render(strings.Join(lines, "\n"))
}

func (a App) renderChat() string {
	parts := []string{
		a.theme.TitleStyle.Render(" Chat"),
		a.chatViewport.View(),
		" " + a.chatInput.View(),
		a.theme.MutedStyle.Render(" enter send · esc back to todos"),
	}
	return strings.Join(parts, "\n")
}

func (a App) renderStatusBar() string {
	left := " signed out"
	if state := a.sessions.Current(); state.IsAuthenticated && state.User != nil {
		left = " " + state.User.Email
	}

	right := "space toggle · n new · e edit · d delete · c chat · a assistant · ctrl+o sign out  "
	switch a.view {
	case ViewSignin, ViewSignup, ViewChat:
		right = "ctrl+c quit  "
	}
	middle := ""
	if a.status != "" {
		if a.isError {
			middle = " " + a.theme.ErrorStyle.Render(a.status)
		} else {
			middle = " " + a.status
		}
	}

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(middle) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	bar := left + middle + strings.Repeat(" ", gap) + right
	return a.theme.StatusBarStyle.Width(a.width).Render(bar)
}
