package todolist

import (
	"errors"
	"strings"
	"testing"

	"taskdeck/internal/model"
)

func fixture() []model.Todo {
	return []model.Todo{
		{ID: "a", Title: "write report", IsComplete: false},
		{ID: "b", Title: "buy milk", IsComplete: true},
		{ID: "c", Title: "call bank", IsComplete: false},
	}
}

func ids(todos []model.Todo) []string {
	out := make([]string, 0, len(todos))
	for _, t := range todos {
		out = append(out, t.ID)
	}
	return out
}

func TestPartitionsKeepServerOrder(t *testing.T) {
	vm := New()
	vm.SetTodos(fixture())

	if got := ids(vm.Pending()); len(got) != 2 || got[0] != "a" || got[1] != "c" {
		t.Fatalf("pending partition: %v", got)
	}
	if got := ids(vm.Completed()); len(got) != 1 || got[0] != "b" {
		t.Fatalf("completed partition: %v", got)
	}
}

func TestProgressPercent(t *testing.T) {
	cases := []struct {
		name      string
		completed int
		total     int
		want      int
	}{
		{"empty list", 0, 0, 0},
		{"none done", 0, 4, 0},
		{"all done", 4, 4, 100},
		{"one third rounds down", 1, 3, 33},
		{"two thirds rounds up", 2, 3, 67},
		{"half", 1, 2, 50},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var todos []model.Todo
			for i := 0; i < tc.total; i++ {
				todos = append(todos, model.Todo{ID: string(rune('a' + i)), IsComplete: i < tc.completed})
			}
			vm := New()
			vm.SetTodos(todos)
			if got := vm.ProgressPercent(); got != tc.want {
				t.Fatalf("progress: got %d, want %d", got, tc.want)
			}
		})
	}
}

func TestApplyToggleReplacesSingleItem(t *testing.T) {
	vm := New()
	vm.SetTodos(fixture())

	server := model.Todo{ID: "a", Title: "write report (edited upstream)", IsComplete: true}
	vm.ApplyToggle(server)

	todos := vm.Todos()
	if todos[0].Title != server.Title || !todos[0].IsComplete {
		t.Fatalf("item not replaced with server copy: %+v", todos[0])
	}
	// 其余条目不受影响 / other items untouched
	if todos[1].ID != "b" || todos[2].ID != "c" || todos[2].IsComplete {
		t.Fatalf("unrelated items changed: %+v", todos)
	}

	// 未知 id 不改动任何状态 / unknown id is a no-op
	before := vm.Todos()
	vm.ApplyToggle(model.Todo{ID: "zzz", IsComplete: true})
	after := vm.Todos()
	if len(before) != len(after) {
		t.Fatalf("unknown id mutated the list")
	}
}

func TestApplyDelete(t *testing.T) {
	vm := New()
	vm.SetTodos(fixture())

	vm.ApplyDelete("b")
	if got := ids(vm.Todos()); len(got) != 2 || got[0] != "a" || got[1] != "c" {
		t.Fatalf("after delete: %v", got)
	}

	vm.ApplyDelete("b")
	if len(vm.Todos()) != 2 {
		t.Fatalf("repeated delete changed state")
	}
}

func TestRefreshFlag(t *testing.T) {
	vm := New()
	if vm.ConsumeRefresh() {
		t.Fatal("fresh view-model must not ask for refresh")
	}
	vm.RequestRefresh()
	if !vm.ConsumeRefresh() {
		t.Fatal("refresh request lost")
	}
	if vm.ConsumeRefresh() {
		t.Fatal("consume must clear the flag")
	}
}

func TestNewTodoRequest(t *testing.T) {
	req, err := NewTodoRequest("  buy milk  ", "")
	if err != nil {
		t.Fatal(err)
	}
	if req.Title != "buy milk" || req.Description != "" {
		t.Fatalf("unexpected request: %+v", req)
	}

	if _, err := NewTodoRequest("   ", ""); !errors.Is(err, model.ErrTitleRequired) {
		t.Fatalf("blank title: got %v", err)
	}
	if _, err := NewTodoRequest(strings.Repeat("x", 201), ""); !errors.Is(err, model.ErrTitleTooLong) {
		t.Fatalf("long title: got %v", err)
	}
}
