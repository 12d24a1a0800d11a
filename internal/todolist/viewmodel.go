// Package todolist 从服务端返回的待办集合推导展示状态，并做乐观更新的对账
// Package todolist derives display state from the server-fetched todo
// collection and reconciles optimistic mutations with server responses.
// The collection keeps the server's order; no client-side resort.
package todolist

import (
	"math"
	"strings"

	"taskdeck/internal/model"
)

// ViewModel 单个用户待办列表的客户端视图
// ViewModel is the client-side view over one user's todo list. It is
// confined to the UI event loop, so no locking.
type ViewModel struct {
	todos        []model.Todo
	refreshAsked bool
}

// New 创建空视图 / New creates an empty view-model.
func New() *ViewModel {
	return &ViewModel{}
}

// SetTodos 以服务端集合整体替换本地状态
// SetTodos replaces the local state with the server collection wholesale.
func (vm *ViewModel) SetTodos(todos []model.Todo) {
	vm.todos = append([]model.Todo(nil), todos...)
}

// Todos 返回当前集合的副本 / Todos returns a copy of the collection.
func (vm *ViewModel) Todos() []model.Todo {
	return append([]model.Todo(nil), vm.todos...)
}

// Pending 未完成分区，保持服务端顺序
// Pending is the incomplete partition in server order.
func (vm *ViewModel) Pending() []model.Todo {
	var out []model.Todo
	for _, t := range vm.todos {
		if !t.IsComplete {
			out = append(out, t)
		}
	}
	return out
}

// Completed 已完成分区，保持服务端顺序
// Completed is the complete partition in server order.
func (vm *ViewModel) Completed() []model.Todo {
	var out []model.Todo
	for _, t := range vm.todos {
		if t.IsComplete {
			out = append(out, t)
		}
	}
	return out
}

// ProgressPercent 完成度百分比，四舍五入；空列表为 0
// ProgressPercent is round(100 * completed / total), 0 for an empty list.
func (vm *ViewModel) ProgressPercent() int {
	total := len(vm.todos)
	if total == 0 {
		return 0
	}
	completed := 0
	for _, t := range vm.todos {
		if t.IsComplete {
			completed++
		}
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

// ApplyToggle 以服务端返回的条目整条替换本地同 id 条目；其余条目不动。
// 整条替换而非本地翻转，保证并发编辑下客户端不偏离服务端事实。
// ApplyToggle replaces the single item with the server-returned version
// (full replace, not a local flip), so the client never diverges from
// server truth on concurrent edits. No other item changes.
func (vm *ViewModel) ApplyToggle(server model.Todo) {
	for i := range vm.todos {
		if vm.todos[i].ID == server.ID {
			vm.todos[i] = server
			return
		}
	}
}

// ApplyDelete 删除成功后移除本地条目；失败时调用方不调用本方法，状态不变
// ApplyDelete removes the item after a confirmed successful delete. On
// failure the caller never reaches this, leaving state unchanged.
func (vm *ViewModel) ApplyDelete(id string) {
	for i := range vm.todos {
		if vm.todos[i].ID == id {
			vm.todos = append(vm.todos[:i], vm.todos[i+1:]...)
			return
		}
	}
}

// RequestRefresh 标记需要重新拉取列表；聊天助手完成一次 todo 操作后触发
// RequestRefresh marks the list as stale. The chat relay raises this after
// a successful todo-operation reply so the list view refetches instead of
// guessing what the backend changed.
func (vm *ViewModel) RequestRefresh() {
	vm.refreshAsked = true
}

// ConsumeRefresh 读取并清除刷新标记
// ConsumeRefresh reads and clears the stale flag.
func (vm *ViewModel) ConsumeRefresh() bool {
	asked := vm.refreshAsked
	vm.refreshAsked = false
	return asked
}

// NewTodoRequest 发请求前的本地校验与整形：标题去空白，空描述省略
// NewTodoRequest validates and shapes a create request before any network
// call: the title is trimmed, an empty description is omitted entirely.
func NewTodoRequest(title, description string) (model.CreateTodoRequest, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if err := model.ValidateTodo(title, description); err != nil {
		return model.CreateTodoRequest{}, err
	}
	return model.CreateTodoRequest{Title: title, Description: description}, nil
}
