package chat

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"taskdeck/internal/model"
)

// ErrEmptyMessage 空白消息不发送 / blank messages are never sent.
var ErrEmptyMessage = errors.New("message is empty")

// Sender 发送聊天消息所需的后端端点
// Sender is the pair of backend endpoints a relay needs.
type Sender interface {
	SendChat(ctx context.Context, message, conversationID string) (*model.ChatResponse, error)
	SendTodoOperation(ctx context.Context, message string) (*model.TodoOperationResponse, error)
}

// Relay 把一段会话与后端端点连起来：先本地记录用户消息，再按模式选择端点，
// 回复到达后追加助手消息
// Relay connects one conversation to the backend: it records the user
// message locally, picks the endpoint by mode, and appends the assistant
// reply when it arrives. On a failed send the user message stays in the
// history so the operator can see what was attempted.
type Relay struct {
	sender Sender
	conv   *Conversation
	log    *zap.Logger
}

// NewRelay 创建中转器；log 为 nil 时静默
// NewRelay builds a relay. A nil log silences it.
func NewRelay(sender Sender, conv *Conversation, log *zap.Logger) *Relay {
	if log == nil {
		log = zap.NewNop()
	}
	return &Relay{sender: sender, conv: conv, log: log}
}

// Conversation 返回底层会话 / Conversation returns the backing conversation.
func (r *Relay) Conversation() *Conversation { return r.conv }

// Send 发送一条消息并返回助手回复
// Send dispatches one message and returns the assistant reply. In
// persisted mode the first reply's conversation id is adopted for all
// later sends; in widget mode the backend keeps no history at all.
func (r *Relay) Send(ctx context.Context, text string) (model.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.ChatMessage{}, ErrEmptyMessage
	}

	r.conv.AppendUser(text)

	if r.conv.Mode() == ModeWidget {
		resp, err := r.sender.SendTodoOperation(ctx, text)
		if err != nil {
			r.log.Warn("todo-operation send failed", zap.Error(err))
			return model.ChatMessage{}, err
		}
		if resp == nil {
			return model.ChatMessage{}, errors.New("empty assistant reply")
		}
		r.log.Debug("todo-operation reply", zap.Int("len", len(resp.Response)))
		return r.conv.AppendAssistant(resp.Response, resp.Timestamp), nil
	}

	resp, err := r.sender.SendChat(ctx, text, r.conv.ID())
	if err != nil {
		r.log.Warn("chat send failed", zap.Error(err))
		return model.ChatMessage{}, err
	}
	if resp == nil {
		return model.ChatMessage{}, errors.New("empty assistant reply")
	}
	r.conv.AdoptID(resp.ConversationID)
	r.log.Debug("chat reply",
		zap.String("conversation_id", r.conv.ID()),
		zap.Int("len", len(resp.Response)))
	return r.conv.AppendAssistant(resp.Response, resp.Timestamp), nil
}
