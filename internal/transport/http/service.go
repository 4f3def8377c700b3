package http

import (
	"context"

	"ncdash/internal/services"
	"ncdash/pkg/contracts/domain"
)

// DashboardService is the business-logic surface the dashboard handler
// depends on. Declared here so handlers can be tested against a mock.
type DashboardService interface {
	FilterOptions(ctx context.Context) (domain.FilterOptions, error)
	Summary(ctx context.Context, criteria domain.FilterCriteria) (services.SummaryResult, error)
	Export(ctx context.Context, criteria domain.FilterCriteria) ([]byte, error)
	Refresh(ctx context.Context) (services.RefreshResult, error)
}
