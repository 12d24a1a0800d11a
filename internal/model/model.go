// Package model 定义与后端 REST API 对应的数据类型
// Package model defines the data types mirroring the backend REST API.
package model

import "time"

// User 后端签发的用户身份，客户端只读
// User is the backend-issued identity; the client never mutates it.
type User struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// Session 后端签发的 bearer 凭证及其过期时间
// Session is a backend-issued bearer credential plus its expiry.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired 判断会话在 now 时刻是否已过期；ExpiresAt 必须严格晚于 now 才有效
// Expired reports whether the session is expired at now. The session is
// valid only when ExpiresAt is strictly after now; a zero ExpiresAt counts
// as expired.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}

// AuthState 认证状态快照；IsAuthenticated 成立当且仅当 User 与 Session 均存在且未过期
// AuthState is a snapshot of the authentication state. IsAuthenticated holds
// iff both User and Session are present and the session is unexpired.
type AuthState struct {
	User            *User
	Session         *Session
	IsLoading       bool
	IsAuthenticated bool
}

// Todo 单条待办，归属于一个用户
// Todo is a single todo item owned by exactly one user.
type Todo struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	IsComplete  bool      `json:"is_complete"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TodoListResponse GET /todos 的响应体
// TodoListResponse is the body of GET /todos.
type TodoListResponse struct {
	Todos []Todo `json:"todos"`
}

// CreateTodoRequest POST /todos 的请求体；Description 为空串时省略
// CreateTodoRequest is the body of POST /todos. An empty Description is
// omitted on the wire so the backend sees "not provided" rather than "".
type CreateTodoRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// UpdateTodoRequest PUT /todos/{id} 的请求体；nil 字段表示不修改
// UpdateTodoRequest is the body of PUT /todos/{id}. A nil field means
// "leave unchanged"; a pointer to the zero value means "set to empty".
type UpdateTodoRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	IsComplete  *bool   `json:"is_complete,omitempty"`
}

// DeleteTodoResponse DELETE /todos/{id} 的响应体
// DeleteTodoResponse is the body of DELETE /todos/{id}.
type DeleteTodoResponse struct {
	Message string `json:"message"`
}

// AuthRequest 注册/登录共用的请求体
// AuthRequest is the shared body of signup and signin.
type AuthRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse 注册/登录的响应体
// AuthResponse is the body returned by signup and signin.
type AuthResponse struct {
	User    User    `json:"user"`
	Session Session `json:"session"`
}

// 消息角色 / Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage 会话中的一条消息；客户端本地生成 ID 与时间戳
// ChatMessage is one message in a conversation. IDs and timestamps for
// user messages are assigned locally.
type ChatMessage struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// ChatRequest POST /chat/chat 的请求体；ConversationID 为空表示新会话
// ChatRequest is the body of POST /chat/chat. An empty ConversationID asks
// the backend to open a new conversation.
type ChatRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id,omitempty"`
}

// ChatResponse POST /chat/chat 的响应体
// ChatResponse is the body of POST /chat/chat.
type ChatResponse struct {
	Response       string    `json:"response"`
	ConversationID string    `json:"conversation_id"`
	Timestamp      time.Time `json:"timestamp"`
}

// TodoOperationRequest POST /chat/todo-operation 的请求体
// TodoOperationRequest is the body of POST /chat/todo-operation.
type TodoOperationRequest struct {
	Message string `json:"message"`
}

// TodoOperationResponse POST /chat/todo-operation 的响应体；不携带会话 ID
// TodoOperationResponse is the body of POST /chat/todo-operation. It carries
// no conversation id because the backend stores no history for it.
type TodoOperationResponse struct {
	Response  string    `json:"response"`
	Timestamp time.Time `json:"timestamp"`
}
