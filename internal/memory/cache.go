// internal/memory/cache.go
package memory

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/Parhamfakhar1/natiq/internal/core"
)

// AnswerCache - کش محدود (LRU با TTL) برای پاسخ‌های تکراری
type AnswerCache struct {
	lru *expirable.LRU[string, core.Answer]
}

// NewAnswerCache creates a cache holding at most size answers, each for
// at most ttl. A non-positive size falls back to 1000 entries.
func NewAnswerCache(size int, ttl time.Duration) *AnswerCache {
	if size <= 0 {
		size = 1000
	}
	return &AnswerCache{
		lru: expirable.NewLRU[string, core.Answer](size, nil, ttl),
	}
}

func (c *AnswerCache) Get(key string) (core.Answer, bool) {
	return c.lru.Get(key)
}

func (c *AnswerCache) Add(key string, answer core.Answer) {
	c.lru.Add(key, answer)
}

func (c *AnswerCache) Len() int {
	return c.lru.Len()
}

func (c *AnswerCache) Purge() {
	c.lru.Purge()
}
