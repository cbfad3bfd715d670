// Package aggregate orchestrates snapshot collection across all linked
// channels of a user: cache lookups, bounded-concurrency connector fan-out,
// and the synthetic fallback for channels that cannot produce real data.
package aggregate

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/creatorpulse/channelvault/internal/cache"
	"github.com/creatorpulse/channelvault/internal/connectors"
	"github.com/creatorpulse/channelvault/internal/credentials"
	"github.com/creatorpulse/channelvault/internal/logging"
	"github.com/creatorpulse/channelvault/internal/models"
	"github.com/creatorpulse/channelvault/internal/synthetic"
)

// Options bound one aggregation batch.
type Options struct {
	// FetchTimeout caps each individual connector call.
	FetchTimeout time.Duration

	// SnapshotTTL caches successful snapshots; ErrorSnapshotTTL caches
	// mock fallbacks, shorter so real data replaces them quickly.
	SnapshotTTL      time.Duration
	ErrorSnapshotTTL time.Duration

	// Concurrency is the maximum number of connector calls in flight.
	Concurrency int
}

func (o *Options) withDefaults() Options {
	out := *o
	if out.FetchTimeout <= 0 {
		out.FetchTimeout = 10 * time.Second
	}
	if out.SnapshotTTL <= 0 {
		out.SnapshotTTL = 300 * time.Second
	}
	if out.ErrorSnapshotTTL <= 0 {
		out.ErrorSnapshotTTL = 60 * time.Second
	}
	if out.Concurrency <= 0 {
		out.Concurrency = 4
	}
	return out
}

// Service aggregates snapshots for sets of channel accounts.
type Service struct {
	registry *connectors.Registry
	creds    *credentials.Service
	cache    *cache.SnapshotCache
	logger   logging.Logger
	opts     Options

	// now is a clock seam for credential-expiry tests.
	now func() time.Time
}

func NewService(registry *connectors.Registry, creds *credentials.Service, c *cache.SnapshotCache, logger logging.Logger, opts Options) *Service {
	return &Service{
		registry: registry,
		creds:    creds,
		cache:    c,
		logger:   logger,
		opts:     opts.withDefaults(),
		now:      time.Now,
	}
}

// FetchSnapshots collects one snapshot per account. The result always has an
// entry for every input account: a failure on one channel never hides the
// others, it just degrades that channel to a mock snapshot carrying the
// error. Calls fan out with bounded concurrency; cached snapshots short-
// circuit the connector entirely.
func (s *Service) FetchSnapshots(ctx context.Context, accounts []models.Account) map[int64]*models.Snapshot {
	log := s.logger.With("batch_id", uuid.NewString())
	log.Info(ctx, "snapshot batch started", "accounts", len(accounts))

	results := make(map[int64]*models.Snapshot, len(accounts))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Concurrency)

	for _, account := range accounts {
		// An account with no stable id cannot be keyed; a caller passing one
		// violated a precondition and the account is skipped.
		if account.ID == 0 {
			log.Warn(ctx, "skipping account without id", "platform", account.Platform)
			continue
		}
		g.Go(func() error {
			snap := s.fetchOne(gctx, log, account)

			mu.Lock()
			results[account.ID] = snap
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	log.Info(ctx, "snapshot batch finished", "accounts", len(results))
	return results
}

// FetchOne produces the snapshot for a single account, going through the
// same cache and fallback path as a batch.
func (s *Service) FetchOne(ctx context.Context, account models.Account) *models.Snapshot {
	log := s.logger.With("batch_id", uuid.NewString())
	return s.fetchOne(ctx, log, account)
}

func (s *Service) fetchOne(ctx context.Context, log logging.Logger, account models.Account) *models.Snapshot {
	key := cache.Key(account.ID, account.Platform)
	if snap, ok := s.cache.Get(key); ok {
		log.Debug(ctx, "snapshot served from cache", "channel_id", account.ID, "platform", account.Platform)
		return snap
	}

	snap, err := s.fetchLive(ctx, account)
	if err != nil {
		if connectors.IsConfig(err) {
			log.Warn(ctx, "channel is misconfigured, serving mock snapshot",
				"channel_id", account.ID, "platform", account.Platform, "error", err.Error())
		} else {
			log.Error(ctx, "snapshot fetch failed, serving mock snapshot",
				"channel_id", account.ID, "platform", account.Platform, "error", err.Error())
		}

		mock := synthetic.Snapshot(account.AccountName)
		mock.Error = err.Error()
		s.cache.Set(key, mock, s.opts.ErrorSnapshotTTL)
		return mock
	}

	snap.Normalize(account.AccountName)
	snap.Source = models.SourceAPI
	s.cache.Set(key, snap, s.opts.SnapshotTTL)

	log.Info(ctx, "snapshot fetched", "channel_id", account.ID, "platform", account.Platform,
		"followers", snap.Followers)
	return snap
}

func (s *Service) fetchLive(ctx context.Context, account models.Account) (*models.Snapshot, error) {
	conn, ok := s.registry.Lookup(account.Platform)
	if !ok {
		return nil, connectors.Configf("unsupported channel: %s", account.Platform)
	}

	if cred := account.Credential; cred != nil && cred.ExpiresAt != nil && cred.ExpiresAt.Before(s.now()) {
		return nil, connectors.Configf("%s credential expired at %s", account.Platform,
			cred.ExpiresAt.UTC().Format(time.RFC3339))
	}

	opened := s.creds.Open(ctx, account.Credential)

	fctx, cancel := context.WithTimeout(ctx, s.opts.FetchTimeout)
	defer cancel()

	return conn.Fetch(fctx, account, opened)
}
