package datasource

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/sharp-edge/internal/config"
)

// NewOutcomeFeed builds the configured results feed: The Odds API first,
// API-Sports as fallback when its key is set, wrapped in a TTL cache.
func NewOutcomeFeed(cfg config.FeedConfig, log *logrus.Logger) (OutcomeFeed, error) {
	if cfg.OddsAPIKey == "" && cfg.APISportsKey == "" {
		return nil, fmt.Errorf("no results feed configured: set feed.odds_api_key or feed.api_sports_key")
	}

	client := NewRateLimitedHTTPClient(HTTPClientConfigFromFeed(cfg), log)

	var feeds []OutcomeFeed
	if cfg.OddsAPIKey != "" {
		feeds = append(feeds, NewOddsAPIClient(client, cfg.OddsAPIURL, cfg.OddsAPIKey, log))
	}
	if cfg.APISportsKey != "" {
		feeds = append(feeds, NewAPISportsClient(client, cfg.APISportsDomain, cfg.APISportsKey, log))
	}

	var feed OutcomeFeed = feeds[0]
	if len(feeds) > 1 {
		feed = NewFallbackFeed(log, feeds...)
	}
	if cfg.CacheTTLSeconds > 0 {
		feed = NewCachedFeed(feed, time.Duration(cfg.CacheTTLSeconds)*time.Second)
	}
	return feed, nil
}
