// Package chat 维护助手会话的本地历史并中转两种聊天端点
// Package chat keeps the local history of assistant conversations and
// relays messages to the two chat endpoints. The assistant's reasoning
// lives entirely in the backend; this side only orders and appends.
package chat

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"taskdeck/internal/model"
)

// Mode 会话模式 / conversation mode.
type Mode int

const (
	// ModePersisted 服务端保存历史，会话 ID 来自首条回复
	// ModePersisted: the backend stores history and assigns the
	// conversation id on the first reply.
	ModePersisted Mode = iota
	// ModeWidget 悬浮助手模式，历史只存在客户端
	// ModeWidget: the floating-assistant mode whose history exists only
	// on the client.
	ModeWidget
)

// WidgetConversationID 悬浮助手的固定本地会话 ID
// WidgetConversationID is the fixed local id for the widget conversation.
const WidgetConversationID = "floating-chat"

// Conversation 一段会话的本地记录，消息按发生顺序追加
// Conversation is the local record of one conversation. Messages append in
// the order they happened; nothing reorders or rewrites past entries.
// Sends run off the UI goroutine, so access is mutex-guarded.
type Conversation struct {
	mu       sync.Mutex
	mode     Mode
	id       string
	messages []model.ChatMessage

	now   func() time.Time
	newID func() string
}

// NewPersisted 新建持久模式会话；ID 留空直到服务端分配
// NewPersisted opens a persisted-mode conversation. The id stays empty
// until the backend assigns one.
func NewPersisted() *Conversation {
	return &Conversation{mode: ModePersisted, now: time.Now, newID: uuid.NewString}
}

// NewWidget 新建悬浮助手会话 / NewWidget opens the widget conversation.
func NewWidget() *Conversation {
	return &Conversation{mode: ModeWidget, id: WidgetConversationID, now: time.Now, newID: uuid.NewString}
}

// Mode 返回会话模式 / Mode returns the conversation mode.
func (c *Conversation) Mode() Mode { return c.mode }

// ID 当前会话 ID；持久模式下首条回复前为空
// ID is the current conversation id, empty in persisted mode before the
// first reply.
func (c *Conversation) ID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.id
}

// Messages 返回历史副本 / Messages returns a copy of the history.
func (c *Conversation) Messages() []model.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]model.ChatMessage(nil), c.messages...)
}

// AppendUser 在发送前本地记录用户消息，ID 与时间戳本地生成
// AppendUser records the user's message locally before it is sent. The id
// and timestamp are generated here, not by the backend.
func (c *Conversation) AppendUser(content string) model.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	msg := model.ChatMessage{
		ID:        c.newID(),
		Role:      model.RoleUser,
		Content:   content,
		Timestamp: c.now(),
	}
	c.messages = append(c.messages, msg)
	return msg
}

// AppendAssistant 记录助手回复；时间戳取服务端值，零值时取本地时间
// AppendAssistant records an assistant reply. The timestamp comes from the
// backend; a zero value falls back to local time.
func (c *Conversation) AppendAssistant(content string, ts time.Time) model.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ts.IsZero() {
		ts = c.now()
	}
	msg := model.ChatMessage{
		ID:        c.newID(),
		Role:      model.RoleAssistant,
		Content:   content,
		Timestamp: ts,
	}
	c.messages = append(c.messages, msg)
	return msg
}

// AdoptID 持久模式下采用服务端分配的会话 ID；已有 ID 或 widget 模式下不变
// AdoptID adopts the backend-assigned conversation id in persisted mode.
// A conversation that already has an id keeps it, and widget mode never
// changes its fixed id.
func (c *Conversation) AdoptID(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode != ModePersisted || c.id != "" || id == "" {
		return
	}
	c.id = id
}

// Reset 清空本地历史；持久模式同时丢弃会话 ID，下次发送开启新会话
// Reset clears the local history. In persisted mode it also drops the
// conversation id, so the next send opens a fresh conversation.
func (c *Conversation) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = nil
	if c.mode == ModePersisted {
		c.id = ""
	}
}
