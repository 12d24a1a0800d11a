package api

import (
	"context"
	"net/http"
	"net/url"

	"taskdeck/internal/model"
)

// ListTodos GET /todos
// ListTodos calls GET /todos and returns the server-ordered collection.
func (c *Client) ListTodos(ctx context.Context) ([]model.Todo, error) {
	resp, err := call[model.TodoListResponse](ctx, c, http.MethodGet, "/todos", nil)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, nil
	}
	return resp.Todos, nil
}

// CreateTodo POST /todos
// CreateTodo calls POST /todos. Validation happens in the view-model before
// this is reached.
func (c *Client) CreateTodo(ctx context.Context, req model.CreateTodoRequest) (*model.Todo, error) {
	return call[model.Todo](ctx, c, http.MethodPost, "/todos", req)
}

// GetTodo GET /todos/{id}
// GetTodo calls GET /todos/{id}.
func (c *Client) GetTodo(ctx context.Context, id string) (*model.Todo, error) {
	return call[model.Todo](ctx, c, http.MethodGet, "/todos/"+url.PathEscape(id), nil)
}

// UpdateTodo PUT /todos/{id}
// UpdateTodo calls PUT /todos/{id}. nil fields in req are omitted on the
// wire, so the backend only touches what was provided.
func (c *Client) UpdateTodo(ctx context.Context, id string, req model.UpdateTodoRequest) (*model.Todo, error) {
	return call[model.Todo](ctx, c, http.MethodPut, "/todos/"+url.PathEscape(id), req)
}

// ToggleTodo PATCH /todos/{id}/toggle；返回服务端版本用于整条替换
// ToggleTodo calls PATCH /todos/{id}/toggle and returns the server copy of
// the item, which replaces the local one wholesale.
func (c *Client) ToggleTodo(ctx context.Context, id string) (*model.Todo, error) {
	return call[model.Todo](ctx, c, http.MethodPatch, "/todos/"+url.PathEscape(id)+"/toggle", nil)
}

// DeleteTodo DELETE /todos/{id}
// DeleteTodo calls DELETE /todos/{id}.
func (c *Client) DeleteTodo(ctx context.Context, id string) (*model.DeleteTodoResponse, error) {
	return call[model.DeleteTodoResponse](ctx, c, http.MethodDelete, "/todos/"+url.PathEscape(id), nil)
}
