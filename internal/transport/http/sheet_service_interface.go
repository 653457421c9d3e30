package http

import (
	"context"

	"sheetpulse/internal/services"
	"sheetpulse/pkg/contracts/domain"
)

// SheetServiceInterface defines the service contract consumed by the sheet
// handler. It exists so handler tests can substitute a mock service.
type SheetServiceInterface interface {
	Summarize(ctx context.Context, p services.SummaryParams) (*services.SummaryResult, error)
	FilterRows(ctx context.Context, p services.FetchParams, column, value string) (domain.Dataset, error)
	Columns(ctx context.Context, p services.FetchParams) (*services.ColumnsResult, error)
}
