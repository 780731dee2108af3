package datasource

import (
	"context"
	"fmt"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/yourusername/sharp-edge/internal/metrics"
	"github.com/yourusername/sharp-edge/internal/models"
)

// CachedFeed memoizes successful fetches per league and window
type CachedFeed struct {
	feed  OutcomeFeed
	cache *cache.Cache
}

// NewCachedFeed wraps feed with a TTL cache
func NewCachedFeed(feed OutcomeFeed, ttl time.Duration) *CachedFeed {
	return &CachedFeed{
		feed:  feed,
		cache: cache.New(ttl, 2*ttl),
	}
}

// Name returns the wrapped feed's name
func (c *CachedFeed) Name() string {
	return c.feed.Name()
}

func (c *CachedFeed) FetchResults(ctx context.Context, league string, lookbackDays int) ([]models.GameResult, error) {
	league = models.NormalizeLeague(league)
	key := fmt.Sprintf("%s:%d", league, lookbackDays)
	if v, ok := c.cache.Get(key); ok {
		metrics.RecordFeedRequest(c.feed.Name(), league, "cache_hit", 0)
		return append([]models.GameResult(nil), v.([]models.GameResult)...), nil
	}

	games, err := c.feed.FetchResults(ctx, league, lookbackDays)
	if err != nil {
		return nil, err
	}
	c.cache.SetDefault(key, append([]models.GameResult(nil), games...))
	return games, nil
}

// Flush drops every cached entry
func (c *CachedFeed) Flush() {
	c.cache.Flush()
}
