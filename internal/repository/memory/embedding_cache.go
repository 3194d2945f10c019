package memory

import (
	"context"
	"time"

	"chat-budgeting-be/pkg/embedding"

	"github.com/patrickmn/go-cache"
)

// EmbeddingCache memoizes embeddings of identical texts. Budget questions
// repeat a lot across rooms, so query embeddings are worth keeping around.
type EmbeddingCache struct {
	next  embedding.EmbeddingProvider
	cache *cache.Cache
}

var _ embedding.EmbeddingProvider = &EmbeddingCache{}

func NewEmbeddingCache(next embedding.EmbeddingProvider, ttl time.Duration) *EmbeddingCache {
	if ttl <= 0 {
		ttl = 1 * time.Hour
	}
	return &EmbeddingCache{
		next:  next,
		cache: cache.New(ttl, 10*time.Minute),
	}
}

func (c *EmbeddingCache) Generate(ctx context.Context, text string, taskType string) (*embedding.EmbeddingResponse, error) {
	key := taskType + "\x00" + text
	if x, found := c.cache.Get(key); found {
		return x.(*embedding.EmbeddingResponse), nil
	}

	res, err := c.next.Generate(ctx, text, taskType)
	if err != nil {
		return nil, err
	}
	c.cache.Set(key, res, cache.DefaultExpiration)
	return res, nil
}

func (c *EmbeddingCache) Len() int {
	return c.cache.ItemCount()
}
