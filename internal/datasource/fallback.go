package datasource

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/sharp-edge/internal/logger"
	"github.com/yourusername/sharp-edge/internal/models"
)

// FallbackFeed asks each feed in turn until one returns a completed game.
// An answer with no completed games is kept and the next feed is tried; if
// no feed has a completed game the last non-empty answer wins. Errors are
// collected and only returned when every feed failed.
type FallbackFeed struct {
	feeds  []OutcomeFeed
	logger *logrus.Entry
}

// NewFallbackFeed chains feeds in priority order, skipping nils
func NewFallbackFeed(log *logrus.Logger, feeds ...OutcomeFeed) *FallbackFeed {
	f := &FallbackFeed{logger: logger.OrDefault(log).WithField("component", "fallback_feed")}
	for _, feed := range feeds {
		if feed != nil {
			f.feeds = append(f.feeds, feed)
		}
	}
	return f
}

// Name joins the chained feed names
func (f *FallbackFeed) Name() string {
	names := make([]string, len(f.feeds))
	for i, feed := range f.feeds {
		names[i] = feed.Name()
	}
	return strings.Join(names, "+")
}

func (f *FallbackFeed) FetchResults(ctx context.Context, league string, lookbackDays int) ([]models.GameResult, error) {
	var errs []error
	var partial []models.GameResult
	answered := false
	for _, feed := range f.feeds {
		games, err := feed.FetchResults(ctx, league, lookbackDays)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if !errors.Is(err, ErrUnsupportedLeague) {
				errs = append(errs, err)
			}
			f.logger.WithError(err).WithFields(logrus.Fields{"league": league, "feed": feed.Name()}).Warn("Feed failed, trying next")
			continue
		}
		answered = true
		if anyCompleted(games) {
			return games, nil
		}
		if len(games) > 0 {
			partial = games
			f.logger.WithFields(logrus.Fields{"league": league, "feed": feed.Name(), "games": len(games)}).Debug("No completed games, trying next")
		}
	}
	if partial != nil {
		return partial, nil
	}
	if answered || len(errs) == 0 {
		return nil, nil
	}
	return nil, errors.Join(errs...)
}

func anyCompleted(games []models.GameResult) bool {
	for _, g := range games {
		if g.Completed {
			return true
		}
	}
	return false
}
