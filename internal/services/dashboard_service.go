// Package services contains the dashboard business logic: loading and
// caching the record set, answering filtered views and building the
// exported report.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"ncdash/internal/cache"
	"ncdash/internal/dataprocessing"
	apierrors "ncdash/internal/errors"
	"ncdash/internal/metrics"
	"ncdash/internal/sheets"
	"ncdash/pkg/contracts/domain"
)

// DeckBuilder renders a record-set view into a presentation deck.
type DeckBuilder interface {
	Build(ctx context.Context, filtered, all domain.RecordSet, colors domain.ColorAssignment) ([]byte, error)
}

// SummaryResult is the full dashboard payload for one filtered view.
type SummaryResult struct {
	Metrics          domain.SummaryMetrics `json:"metrics"`
	ByClassification []domain.GroupCount   `json:"by_classification"`
	ByDepartment     []domain.GroupCount   `json:"by_department"`
	ByEffectiveness  []domain.GroupCount   `json:"by_effectiveness"`
	TotalRecords     int                   `json:"total_records"`
}

// RefreshResult reports the outcome of a forced reload.
type RefreshResult struct {
	Records     int       `json:"records"`
	RefreshedAt time.Time `json:"refreshed_at"`
}

// DashboardService wires the row provider, normalizer, snapshot cache
// and deck builder into the operations the HTTP layer exposes.
type DashboardService struct {
	snapshot *cache.Snapshot
	builder  DeckBuilder
	colors   domain.ColorAssignment
	logger   *slog.Logger
}

// NewDashboardService creates the service. The snapshot cache is built
// here so every caller shares one loader.
func NewDashboardService(provider sheets.RowProvider, builder DeckBuilder, ttl time.Duration, colors domain.ColorAssignment, logger *slog.Logger) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("service", "dashboard"))

	normalizer := dataprocessing.NewNormalizer(logger)
	loader := func(ctx context.Context) (domain.RecordSet, error) {
		started := time.Now()
		rows, err := provider.FetchRows(ctx)
		metrics.SourceFetchDuration.Observe(time.Since(started).Seconds())
		if err != nil {
			metrics.SourceFetches.WithLabelValues(metrics.ResultError).Inc()
			return nil, err
		}
		metrics.SourceFetches.WithLabelValues(metrics.ResultOK).Inc()

		records := normalizer.Normalize(ctx, rows)
		metrics.RecordsLoaded.Set(float64(len(records)))
		return records, nil
	}

	return &DashboardService{
		snapshot: cache.NewSnapshot(loader, ttl, logger),
		builder:  builder,
		colors:   colors,
		logger:   logger,
	}
}

// FilterOptions returns the observed filter values of the current
// record set, the "select all" starting state for a fresh dashboard.
func (s *DashboardService) FilterOptions(ctx context.Context) (domain.FilterOptions, error) {
	records, err := s.records(ctx)
	if err != nil {
		return domain.FilterOptions{}, err
	}
	return dataprocessing.ObserveFilterOptions(records), nil
}

// Summary applies the criteria and computes the KPIs and categorical
// breakdowns for the resulting view.
func (s *DashboardService) Summary(ctx context.Context, criteria domain.FilterCriteria) (SummaryResult, error) {
	records, err := s.records(ctx)
	if err != nil {
		return SummaryResult{}, err
	}

	view := dataprocessing.Filter(records, criteria)
	return SummaryResult{
		Metrics:          dataprocessing.Summarize(view),
		ByClassification: dataprocessing.CountByClassification(view),
		ByDepartment:     dataprocessing.CountByDepartment(view),
		ByEffectiveness:  dataprocessing.CountByEffectiveness(view),
		TotalRecords:     len(records),
	}, nil
}

// Export renders the filtered view into a presentation deck. An empty
// view is a conflict, not a fault: the caller disables the download.
func (s *DashboardService) Export(ctx context.Context, criteria domain.FilterCriteria) ([]byte, error) {
	records, err := s.records(ctx)
	if err != nil {
		return nil, err
	}

	view := dataprocessing.Filter(records, criteria)
	if len(view) == 0 {
		return nil, fmt.Errorf("export: %w", apierrors.ErrNoDataToExport)
	}

	started := time.Now()
	deck, err := s.builder.Build(ctx, view, records, s.colors)
	metrics.ExportDuration.Observe(time.Since(started).Seconds())
	if err != nil {
		metrics.Exports.WithLabelValues(metrics.ResultError).Inc()
		return nil, fmt.Errorf("building deck: %w", err)
	}
	metrics.Exports.WithLabelValues(metrics.ResultOK).Inc()

	s.logger.InfoContext(ctx, "report exported",
		slog.Int("selected", len(view)),
		slog.Int("total", len(records)),
		slog.Int("bytes", len(deck)))
	return deck, nil
}

// Refresh forces a reload from the source, bypassing the snapshot TTL.
func (s *DashboardService) Refresh(ctx context.Context) (RefreshResult, error) {
	metrics.ForcedRefreshes.Inc()
	records, err := s.snapshot.Refresh(ctx)
	if err != nil {
		return RefreshResult{}, s.sourceError(err)
	}
	return RefreshResult{Records: len(records), RefreshedAt: time.Now().UTC()}, nil
}

func (s *DashboardService) records(ctx context.Context) (domain.RecordSet, error) {
	records, err := s.snapshot.Get(ctx)
	if err != nil {
		return nil, s.sourceError(err)
	}
	return records, nil
}

// sourceError hides the transport detail behind the stable unavailable
// sentinel; the underlying cause is already logged by the cache.
func (s *DashboardService) sourceError(err error) error {
	return fmt.Errorf("loading records: %w", apierrors.ErrDataSourceUnavailable)
}
