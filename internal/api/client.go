// Package api 封装对后端 REST 服务的出站调用：统一附加凭证、超时与错误形状
// Package api is the authenticated request pipeline. Every outbound call
// gets the same credential attachment, timeout enforcement and error-shape
// normalization, so callers never special-case transport failures against
// application failures unless they choose to inspect the message.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultTimeout 每个请求的固定客户端超时
// DefaultTimeout is the fixed per-request client-side timeout.
const DefaultTimeout = 10 * time.Second

// TokenSource 提供当前有效的 bearer 令牌；无有效令牌时返回 ok=false
// TokenSource supplies the current valid bearer token. ok is false when no
// valid unexpired session exists; the pipeline then proceeds without an
// Authorization header and lets the server enforce authorization.
type TokenSource interface {
	BearerToken() (token string, ok bool)
}

// ErrorKind 区分错误类别 / ErrorKind classifies a pipeline error.
type ErrorKind int

const (
	// KindHTTP 非 2xx 响应 / non-2xx response
	KindHTTP ErrorKind = iota
	// KindTimeout 客户端超时 / client-side timeout
	KindTimeout
	// KindNetwork 网络层失败 / network-level failure
	KindNetwork
)

// CallError 管线归一化后的错误；Message 即展示给用户的文案
// CallError is the normalized pipeline error. Message is the user-facing
// text; Status is set only for KindHTTP.
type CallError struct {
	Kind    ErrorKind
	Status  int
	Message string
}

func (e *CallError) Error() string { return e.Message }

// IsTimeout 判断错误是否为客户端超时
// IsTimeout reports whether err is a client-side timeout.
func IsTimeout(err error) bool {
	var ce *CallError
	return errors.As(err, &ce) && ce.Kind == KindTimeout
}

// Client 后端 API 客户端；跨请求携带 cookie 以兼容 CORS 会话
// Client talks to the backend API. Cookies are carried across requests for
// CORS-session compatibility, matching the browser's credentials:'include'.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	log     *zap.Logger
	timeout time.Duration
}

// NewClient 创建客户端；tokens 与 log 均可为 nil
// NewClient creates a Client. tokens may be nil (no credential attachment);
// a nil log is replaced with a no-op logger. timeout <= 0 falls back to
// DefaultTimeout.
func NewClient(baseURL string, timeout time.Duration, tokens TokenSource, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	jar, _ := cookiejar.New(nil)
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Jar: jar},
		tokens:  tokens,
		log:     log,
		timeout: timeout,
	}
}

// BaseURL 返回规范化后的服务地址 / BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// call 执行一次调用并将 JSON 响应解码为 T。空响应体或非 JSON 响应返回
// (nil, nil)，调用方必须容忍空的成功载荷。
// call performs one pipeline request and decodes the JSON response into T.
// A successful empty or non-JSON body returns (nil, nil); callers must
// tolerate an empty success payload.
func call[T any](ctx context.Context, c *Client, method, endpoint string, body any) (*T, error) {
	data, err := c.do(ctx, method, endpoint, body)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, &CallError{Kind: KindNetwork, Message: fmt.Sprintf("decode response: %v", err)}
	}
	return &out, nil
}

// do 管线主体：凭证、超时、错误归一化。返回的字节串仅在响应为 JSON 时非空。
// do is the pipeline body: credential attachment, timeout, error-shape
// normalization. The returned bytes are non-empty only for JSON responses.
func (c *Client) do(ctx context.Context, method, endpoint string, body any) ([]byte, error) {
	if c.baseURL == "" {
		return nil, &CallError{Kind: KindNetwork, Message: "API base URL is not configured"}
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, &CallError{Kind: KindNetwork, Message: fmt.Sprintf("encode request: %v", err)}
		}
		reader = bytes.NewReader(payload)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return nil, &CallError{Kind: KindNetwork, Message: fmt.Sprintf("create request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	// 机会性附加凭证：无有效会话时不加头，由服务端裁决授权
	// Credentials are attached opportunistically; authorization itself is
	// enforced server-side.
	if c.tokens != nil {
		if token, ok := c.tokens.BearerToken(); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			c.log.Debug("request timed out",
				zap.String("method", method), zap.String("endpoint", endpoint))
			return nil, &CallError{
				Kind:    KindTimeout,
				Message: "Request timed out. Please check your internet connection.",
			}
		}
		c.log.Debug("network error",
			zap.String("method", method), zap.String("endpoint", endpoint), zap.Error(err))
		return nil, &CallError{Kind: KindNetwork, Message: err.Error()}
	}
	defer resp.Body.Close()

	c.log.Debug("request finished",
		zap.String("method", method),
		zap.String("endpoint", endpoint),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &CallError{
			Kind:    KindHTTP,
			Status:  resp.StatusCode,
			Message: errorMessage(resp),
		}
	}

	contentType := strings.ToLower(resp.Header.Get("Content-Type"))
	if !strings.Contains(contentType, "application/json") {
		// 成功但无 JSON 载荷 / success without a JSON payload
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, nil
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &CallError{Kind: KindNetwork, Message: fmt.Sprintf("read response: %v", err)}
	}
	return data, nil
}

// errorMessage 从错误响应提取可读文案：detail > message > error > 原文 > 状态行
// errorMessage extracts a human-readable message from an error response,
// preferring the conventional detail/message/error JSON fields, then the
// raw body text, then "HTTP <status>: <statusText>".
func errorMessage(resp *http.Response) string {
	fallback := fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fallback
	}
	text := strings.TrimSpace(string(raw))
	if text == "" {
		return fallback
	}

	var fields struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(raw, &fields) == nil && looksLikeJSON(text) {
		switch {
		case fields.Detail != "":
			return fields.Detail
		case fields.Message != "":
			return fields.Message
		case fields.Error != "":
			return fields.Error
		}
		// JSON 但无常规错误字段 / JSON without a conventional error field
		return fallback
	}
	return text
}

func looksLikeJSON(text string) bool {
	return strings.HasPrefix(text, "{") || strings.HasPrefix(text, "[")
}
