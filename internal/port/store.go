package port

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by Store.Get for an absent key. Consumers are
// expected to fall back to safe defaults rather than fail.
var ErrKeyNotFound = errors.New("store: key not found")

// Store is the key/value handoff between pipeline stages. Values are plain
// structured data serialized as JSON; writes are last-writer-wins with no
// transactional guarantees.
type Store interface {
	Set(ctx context.Context, key string, value any) error
	Get(ctx context.Context, key string, dest any) error
	Delete(ctx context.Context, key string) error
}
