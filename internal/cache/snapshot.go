package cache

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"igdb-dashboard/internal/config"
	"igdb-dashboard/internal/constants"
	"igdb-dashboard/internal/domain"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"
	"golang.org/x/sync/singleflight"
)

// Fetcher loads the full dataset from the warehouse.
type Fetcher interface {
	FetchAll(ctx context.Context) ([]domain.GameRecord, error)
}

// SnapshotCache holds the current dataset snapshot for the TTL window.
// The snapshot is immutable; replacement is an atomic pointer swap, so
// readers never need a lock. Concurrent refreshes collapse into a
// single fetch via singleflight.
type SnapshotCache struct {
	fetcher Fetcher
	ttl     time.Duration
	timeout time.Duration
	logger  zerolog.Logger

	group   singleflight.Group
	current atomic.Pointer[domain.Snapshot]
}

func New(fetcher Fetcher, cfg *config.Config, logger zerolog.Logger) *SnapshotCache {
	return &SnapshotCache{
		fetcher: fetcher,
		ttl:     cfg.SnapshotTTL,
		timeout: cfg.FetchTimeout,
		logger:  logger,
	}
}

// Load returns the cached snapshot when it is younger than the TTL,
// otherwise fetches the full row set and swaps it in. A fetch failure
// leaves the previous state untouched and propagates to the caller;
// there are no partial results.
func (c *SnapshotCache) Load(ctx context.Context) (*domain.Snapshot, error) {
	if snap := c.current.Load(); snap != nil && !c.expired(snap) {
		return snap, nil
	}

	v, err, shared := c.group.Do("snapshot", func() (any, error) {
		// Another caller may have finished the refresh while this one
		// was queued on the flight.
		if snap := c.current.Load(); snap != nil && !c.expired(snap) {
			return snap, nil
		}

		snap, err := c.refresh(ctx)
		if err != nil {
			return nil, err
		}
		c.current.Store(snap)
		return snap, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		c.logger.Debug().Msg("snapshot refresh shared with concurrent caller")
	}
	return v.(*domain.Snapshot), nil
}

func (c *SnapshotCache) expired(snap *domain.Snapshot) bool {
	return time.Since(snap.FetchedAt) >= c.ttl
}

func (c *SnapshotCache) refresh(ctx context.Context) (*domain.Snapshot, error) {
	start := time.Now()
	c.logger.Info().Msg("refreshing dataset snapshot")

	var games []domain.GameRecord
	backoff := retry.WithMaxRetries(constants.FetchMaxRetry, retry.NewFibonacci(constants.FetchRetryBase))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		fetchCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		var fetchErr error
		games, fetchErr = c.fetcher.FetchAll(fetchCtx)
		if fetchErr != nil {
			c.logger.Warn().Err(fetchErr).Msg("dataset fetch attempt failed")
			return retry.RetryableError(fetchErr)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to refresh dataset snapshot: %w", err)
	}

	snap := &domain.Snapshot{
		Games:     games,
		FetchedAt: time.Now(),
	}

	c.logger.Info().
		Int("games", len(games)).
		Dur("duration", time.Since(start)).
		Msg("dataset snapshot refreshed")

	return snap, nil
}
