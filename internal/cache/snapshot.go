// Package cache holds the time-bounded record-set snapshot that sits
// between the spreadsheet source and the dashboard pipeline.
package cache

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"ncdash/pkg/contracts/domain"
)

// DefaultTTL bounds how long a snapshot is served before the source is
// consulted again.
const DefaultTTL = 5 * time.Minute

// Loader produces a fresh normalized record set from the upstream
// source. It is invoked at most once per refresh regardless of how many
// callers are waiting.
type Loader func(ctx context.Context) (domain.RecordSet, error)

// Snapshot caches one normalized record set for a bounded time window.
// The cached set is replaced wholesale on refresh, never mutated in
// place, so readers always observe a complete set. Callers must treat
// the returned set as read-only.
type Snapshot struct {
	loader Loader
	ttl    time.Duration
	logger *slog.Logger
	now    func() time.Time

	group singleflight.Group

	mu        sync.RWMutex
	records   domain.RecordSet
	fetchedAt time.Time
}

// NewSnapshot creates a snapshot cache. A non-positive ttl falls back
// to DefaultTTL.
func NewSnapshot(loader Loader, ttl time.Duration, logger *slog.Logger) *Snapshot {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Snapshot{
		loader: loader,
		ttl:    ttl,
		logger: logger.With(slog.String("component", "snapshot_cache")),
		now:    time.Now,
	}
}

// Get returns the cached record set, refreshing it from the source when
// the TTL has elapsed or nothing has been loaded yet.
func (s *Snapshot) Get(ctx context.Context) (domain.RecordSet, error) {
	s.mu.RLock()
	records, fetchedAt := s.records, s.fetchedAt
	s.mu.RUnlock()

	if !fetchedAt.IsZero() && s.now().Sub(fetchedAt) < s.ttl {
		return records, nil
	}
	return s.refresh(ctx)
}

// Refresh bypasses the TTL and reloads from the source immediately.
func (s *Snapshot) Refresh(ctx context.Context) (domain.RecordSet, error) {
	return s.refresh(ctx)
}

// refresh loads through a singleflight group so concurrent expired
// readers share one upstream call.
func (s *Snapshot) refresh(ctx context.Context) (domain.RecordSet, error) {
	result, err, shared := s.group.Do("refresh", func() (interface{}, error) {
		started := s.now()
		records, err := s.loader(ctx)
		if err != nil {
			// A failed load never replaces a previously good
			// snapshot; the caller decides how to surface it.
			return nil, err
		}

		s.mu.Lock()
		s.records = records
		s.fetchedAt = s.now()
		s.mu.Unlock()

		s.logger.InfoContext(ctx, "snapshot refreshed",
			slog.Int("records", len(records)),
			slog.Duration("elapsed", s.now().Sub(started)))
		return records, nil
	})
	if err != nil {
		s.logger.WarnContext(ctx, "snapshot refresh failed",
			slog.String("error", err.Error()),
			slog.Bool("shared", shared))
		return domain.RecordSet{}, err
	}
	return result.(domain.RecordSet), nil
}

// Age reports how long ago the current snapshot was loaded. Zero time
// means nothing has been loaded yet.
func (s *Snapshot) Age() (time.Duration, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.fetchedAt.IsZero() {
		return 0, false
	}
	return s.now().Sub(s.fetchedAt), true
}
