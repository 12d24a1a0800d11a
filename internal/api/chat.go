package api

import (
	"context"
	"net/http"

	"taskdeck/internal/model"
)

// SendChat POST /chat/chat；conversationID 为空表示由服务端新建会话
// SendChat calls POST /chat/chat. An empty conversationID lets the backend
// open a new persisted conversation and return its id.
func (c *Client) SendChat(ctx context.Context, message, conversationID string) (*model.ChatResponse, error) {
	body := model.ChatRequest{Message: message, ConversationID: conversationID}
	return call[model.ChatResponse](ctx, c, http.MethodPost, "/chat/chat", body)
}

// SendTodoOperation POST /chat/todo-operation；服务端不保存历史
// SendTodoOperation calls POST /chat/todo-operation, the widget-mode
// endpoint that stores no conversation history server-side.
func (c *Client) SendTodoOperation(ctx context.Context, message string) (*model.TodoOperationResponse, error) {
	body := model.TodoOperationRequest{Message: message}
	return call[model.TodoOperationResponse](ctx, c, http.MethodPost, "/chat/todo-operation", body)
}
