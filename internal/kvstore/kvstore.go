package kvstore

import (
	"context"
	"errors"
)

// Storage keys used by the session layer.
const (
	KeyToken = "token"
	KeyUser  = "user"
)

var ErrNotFound = errors.New("key not found")

// Store is the persisted client state: a small key-value store holding the
// credential token and the serialized identity record. It is read on startup
// and written on login, logout and token rotation.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
