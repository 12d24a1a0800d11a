// Package localstore 提供进程本地的持久化键值存储，相当于浏览器的 localStorage
// Package localstore provides process-local durable key-value storage, the
// terminal equivalent of the browser's origin-scoped localStorage.
package localstore

import "errors"

// ErrNotFound 键不存在 / ErrNotFound means the key is absent.
var ErrNotFound = errors.New("localstore: key not found")

// Store 持久化键值接口；值为不透明字节串（通常是 JSON）
// Store is the durable key-value interface. Values are opaque byte strings,
// usually JSON-serialized records. A nil Store means no durable storage is
// available in this execution context.
type Store interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
	Close() error
}
