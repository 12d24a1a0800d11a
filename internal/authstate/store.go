// Package authstate 维护认证状态：内存为准、持久层为镜像
// Package authstate owns the authentication state. Memory is the source of
// truth; the durable key-value mirror only seeds it at bootstrap and is
// written through on every transition.
package authstate

import (
	"encoding/json"
	"sync"
	"time"

	"taskdeck/internal/localstore"
	"taskdeck/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// 镜像键，登出或检测到过期时一并删除
// Mirror keys, removed together on signout or detected expiry.
const (
	KeyUser    = "auth_user"
	KeySession = "auth_session"
)

// 无法从令牌推断过期时间时的保守有效期
// Conservative validity used when no expiry can be derived from the token.
const defaultSessionTTL = 15 * time.Minute

// Store 认证状态的唯一写入方；UI 组件通过 Current/Subscribe 只读访问
// Store is the only writer of AuthState. UI components read it via Current
// or Subscribe and never mutate it directly.
type Store struct {
	mu    sync.RWMutex
	kv    localstore.Store // nil 表示无持久层 / nil means no durable storage
	log   *zap.Logger
	now   func() time.Time
	state model.AuthState

	subs    map[int]func(model.AuthState)
	nextSub int
}

// New 创建 Store；kv 可为 nil，logger 可为 nil
// New creates a Store. kv may be nil (no durable storage); a nil logger is
// replaced with a no-op one.
func New(kv localstore.Store, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		kv:    kv,
		log:   log,
		now:   time.Now,
		state: signedOut(),
		subs:  map[int]func(model.AuthState){},
	}
}

func signedOut() model.AuthState {
	return model.AuthState{}
}

// Initialize 同步引导：从镜像恢复状态。镜像缺失、损坏或已过期时清空镜像并
// 返回未登录状态；无持久层时无副作用。可重复调用，结果一致。
// Initialize is the synchronous bootstrap read. Missing, corrupt or expired
// mirror records are cleared and yield a signed-out state; with no durable
// storage attached it returns signed-out without side effects. Calling it
// twice over the same mirror yields the same state both times.
func (s *Store) Initialize() model.AuthState {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.kv == nil {
		s.state = signedOut()
		return s.state
	}

	userRaw, userErr := s.kv.Get(KeyUser)
	sessRaw, sessErr := s.kv.Get(KeySession)
	if userErr != nil || sessErr != nil {
		s.clearMirrorLocked()
		s.state = signedOut()
		return s.state
	}

	var user model.User
	var sess model.Session
	if err := json.Unmarshal(userRaw, &user); err != nil {
		s.log.Debug("corrupt auth_user mirror", zap.Error(err))
		s.clearMirrorLocked()
		s.state = signedOut()
		return s.state
	}
	if err := json.Unmarshal(sessRaw, &sess); err != nil {
		s.log.Debug("corrupt auth_session mirror", zap.Error(err))
		s.clearMirrorLocked()
		s.state = signedOut()
		return s.state
	}
	if sess.Token == "" || sess.Expired(s.now()) {
		s.log.Debug("stored session expired, sweeping mirror")
		s.clearMirrorLocked()
		s.state = signedOut()
		return s.state
	}

	s.state = model.AuthState{
		User:            &user,
		Session:         &sess,
		IsAuthenticated: true,
	}
	return s.state
}

// Signin 无条件覆盖镜像并置为已登录；调用方已完成与后端的注册/登录交互。
// 会话缺少可用过期时间时，从令牌的 exp 声明推断（不校验签名）。
// Signin overwrites the mirror and sets the authenticated state. The caller
// has already completed signup/signin against the backend and supplies the
// resulting identities. A session without a usable expiry gets one derived
// from the token's exp claim, parsed without verification; token
// verification stays backend-owned.
func (s *Store) Signin(user model.User, sess model.Session) {
	sess = s.normalizeExpiry(sess)

	s.mu.Lock()
	if s.kv != nil {
		if data, err := json.Marshal(user); err == nil {
			if err := s.kv.Set(KeyUser, data); err != nil {
				s.log.Warn("persist auth_user failed", zap.Error(err))
			}
		}
		if data, err := json.Marshal(sess); err == nil {
			if err := s.kv.Set(KeySession, data); err != nil {
				s.log.Warn("persist auth_session failed", zap.Error(err))
			}
		}
	}
	s.state = model.AuthState{
		User:            &user,
		Session:         &sess,
		IsAuthenticated: true,
	}
	state := s.state
	subs := s.snapshotSubsLocked()
	s.mu.Unlock()

	s.log.Info("signed in", zap.String("user", user.Email))
	notify(subs, state)
}

// Signout 清空镜像并重置为未登录；幂等
// Signout clears the mirror and resets to signed-out. Idempotent.
func (s *Store) Signout() {
	s.mu.Lock()
	s.clearMirrorLocked()
	s.state = signedOut()
	state := s.state
	subs := s.snapshotSubsLocked()
	s.mu.Unlock()

	notify(subs, state)
}

// Current 返回当前状态快照
// Current returns a snapshot of the current state.
func (s *Store) Current() model.AuthState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// BearerToken 返回未过期的令牌。过期检查在每次调用时进行，不做缓存；检测到
// 过期时清理镜像与内存状态，调用方在无令牌时不加 Authorization 头。
// BearerToken returns the token if a valid unexpired session exists. Expiry
// is checked at the instant of each call and never cached; a detected
// expiry sweeps both the mirror and the in-memory state. Callers proceed
// without an Authorization header when ok is false.
func (s *Store) BearerToken() (token string, ok bool) {
	s.mu.Lock()
	sess := s.state.Session
	if sess == nil || sess.Token == "" {
		s.mu.Unlock()
		return "", false
	}
	if sess.Expired(s.now()) {
		s.log.Debug("session expired at request time, sweeping")
		s.clearMirrorLocked()
		s.state = signedOut()
		state := s.state
		subs := s.snapshotSubsLocked()
		s.mu.Unlock()
		notify(subs, state)
		return "", false
	}
	token = sess.Token
	s.mu.Unlock()
	return token, true
}

// Subscribe 注册状态变更回调，返回取消函数；回调在变更线程上同步执行
// Subscribe registers a transition callback and returns a cancel func. The
// callback runs synchronously on the transitioning goroutine.
func (s *Store) Subscribe(fn func(model.AuthState)) (cancel func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Store) clearMirrorLocked() {
	if s.kv == nil {
		return
	}
	if err := s.kv.Delete(KeyUser); err != nil {
		s.log.Warn("clear auth_user failed", zap.Error(err))
	}
	if err := s.kv.Delete(KeySession); err != nil {
		s.log.Warn("clear auth_session failed", zap.Error(err))
	}
}

func (s *Store) snapshotSubsLocked() []func(model.AuthState) {
	out := make([]func(model.AuthState), 0, len(s.subs))
	for _, fn := range s.subs {
		out = append(out, fn)
	}
	return out
}

func notify(subs []func(model.AuthState), state model.AuthState) {
	for _, fn := range subs {
		fn(state)
	}
}

// normalizeExpiry 为缺失过期时间的会话推断 exp；解析失败时退回保守 TTL
// normalizeExpiry derives an expiry for sessions that lack one by reading
// the token's registered exp claim without validating it. When the token is
// not a parseable JWT the conservative default TTL applies.
func (s *Store) normalizeExpiry(sess model.Session) model.Session {
	if !sess.ExpiresAt.IsZero() {
		return sess
	}
	var claims jwt.RegisteredClaims
	_, _ = jwt.ParseWithClaims(sess.Token, &claims,
		func(*jwt.Token) (any, error) { return nil, nil },
		jwt.WithoutClaimsValidation(),
	)
	if claims.ExpiresAt != nil {
		sess.ExpiresAt = claims.ExpiresAt.Time
		return sess
	}
	sess.ExpiresAt = s.now().Add(defaultSessionTTL)
	return sess
}
