package registry

import (
	"sync"

	"github.com/NaniDAO/coinchan-sub010/internal/model"
)

// TokenCache holds the shared token list. After a confirmed transaction the
// list is replaced wholesale rather than patched in place, so cached state
// cannot drift from chain truth.
type TokenCache struct {
	mu    sync.RWMutex
	metas []model.TokenMeta
}

func NewTokenCache() *TokenCache {
	return &TokenCache{}
}

// Replace swaps in a fresh token list.
func (c *TokenCache) Replace(metas []model.TokenMeta) {
	copied := make([]model.TokenMeta, len(metas))
	copy(copied, metas)

	c.mu.Lock()
	c.metas = copied
	c.mu.Unlock()
}

// Snapshot returns a copy of the current token list.
func (c *TokenCache) Snapshot() []model.TokenMeta {
	c.mu.RLock()
	defer c.mu.RUnlock()

	copied := make([]model.TokenMeta, len(c.metas))
	copy(copied, c.metas)
	return copied
}

// Len returns the number of cached records.
func (c *TokenCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.metas)
}
