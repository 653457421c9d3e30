package services

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"sheetpulse/internal/config"
	"sheetpulse/internal/dataprocessing"
	"sheetpulse/internal/infrastructure"
	"sheetpulse/internal/sheets"
	"sheetpulse/pkg/contracts/domain"
)

// DatasetFetcher retrieves one worksheet as a normalized dataset.
// Both the CSV export fetcher and the Values API fetcher satisfy it.
type DatasetFetcher interface {
	Fetch(ctx context.Context, req sheets.Request) (domain.Dataset, error)
}

// SheetService orchestrates fetch, column selection, aggregation, and
// filtering. It holds no per-request state and is safe for concurrent use.
type SheetService struct {
	cfg         *config.Config
	fetcher     DatasetFetcher
	apiFetcher  DatasetFetcher
	fileFetcher DatasetFetcher
	logger      *slog.Logger
	metrics     *infrastructure.SheetMetrics
}

// NewSheetService creates the service. apiFetcher may be nil; it is used
// instead of the CSV path when present and the request selects a worksheet
// by name.
func NewSheetService(cfg *config.Config, fetcher DatasetFetcher, apiFetcher DatasetFetcher, logger *slog.Logger) *SheetService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SheetService{
		cfg:        cfg,
		fetcher:    fetcher,
		apiFetcher: apiFetcher,
		logger:     logger.With(slog.String("component", "sheet_service")),
	}
}

// WithMetrics attaches the sheet processing instruments.
func (s *SheetService) WithMetrics(m *infrastructure.SheetMetrics) *SheetService {
	s.metrics = m
	return s
}

// WithLocalSource replaces the network fetch paths with a local one, such as
// a workbook file on disk. While set, every fetch goes through it and no
// spreadsheet ID is required.
func (s *SheetService) WithLocalSource(f DatasetFetcher) *SheetService {
	s.fileFetcher = f
	return s
}

// FetchParams identify one worksheet; empty fields fall back to the
// configured defaults.
type FetchParams struct {
	SheetID   string
	SheetName string
	GID       string
}

// SummaryParams select the grouped aggregation to compute. Empty GroupBy and
// Metric are inferred from the data.
type SummaryParams struct {
	FetchParams
	GroupBy string
	Metric  string
	Agg     string
}

// SummaryResult is the aggregation output plus the columns actually used.
type SummaryResult struct {
	GroupBy string               `json:"group_by"`
	Metric  string               `json:"metric"`
	Agg     string               `json:"agg"`
	Rows    []domain.AggregateRow `json:"rows"`
}

// ColumnsResult describes the dataset's columns and the inferred defaults.
type ColumnsResult struct {
	Headers        []string            `json:"headers"`
	Stats          []domain.ColumnStat `json:"stats"`
	DefaultGroupBy string              `json:"default_group_by"`
	DefaultMetric  string              `json:"default_metric"`
}

// resolve applies the configured sheet defaults to empty params.
func (s *SheetService) resolve(p FetchParams) (sheets.Request, error) {
	req := sheets.Request{
		SheetID:   p.SheetID,
		SheetName: p.SheetName,
		GID:       p.GID,
		Timeout:   s.cfg.Sheet.FetchTimeout,
	}
	if req.SheetID == "" {
		req.SheetID = s.cfg.Sheet.DefaultSheetID
	}
	if req.SheetID == "" && s.fileFetcher == nil {
		return sheets.Request{}, ErrMissingSheetID
	}
	if req.SheetName == "" && req.GID == "" {
		req.GID = s.cfg.Sheet.DefaultGID
		req.SheetName = s.cfg.Sheet.DefaultSheetName
	}
	return req, nil
}

// FetchDataset retrieves the worksheet named by the params, falling back to
// configured defaults. The Values API path is used when it is configured and
// the worksheet is addressed by name.
func (s *SheetService) FetchDataset(ctx context.Context, p FetchParams) (domain.Dataset, error) {
	req, err := s.resolve(p)
	if err != nil {
		return domain.Dataset{}, err
	}

	fetcher := s.fetcher
	switch {
	case s.fileFetcher != nil:
		fetcher = s.fileFetcher
	case s.apiFetcher != nil && req.GID == "" && req.SheetName != "":
		fetcher = s.apiFetcher
	}

	start := time.Now()
	ds, err := fetcher.Fetch(ctx, req)
	if s.metrics != nil {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		s.metrics.FetchesTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
		s.metrics.FetchDuration.Record(ctx, time.Since(start).Seconds())
	}
	if err != nil {
		return domain.Dataset{}, err
	}
	return ds, nil
}

// Summarize fetches the worksheet and computes the grouped aggregation.
// Missing group-by and metric choices are inferred: a configured preferred
// metric list is consulted first, then the column statistics.
func (s *SheetService) Summarize(ctx context.Context, p SummaryParams) (*SummaryResult, error) {
	ds, err := s.FetchDataset(ctx, p.FetchParams)
	if err != nil {
		return nil, err
	}

	groupBy, metricCol := p.GroupBy, p.Metric
	if groupBy == "" || metricCol == "" {
		inferredGroup, inferredAgg, ok := dataprocessing.InferDefaultColumns(ds.Headers, ds.Rows)
		if ok {
			if groupBy == "" {
				groupBy = inferredGroup
			}
			if metricCol == "" {
				metricCol = inferredAgg
				if best, ok := dataprocessing.FindBestMetricColumn(ds.Headers, ds.Rows, s.cfg.Sheet.PreferredMetrics); ok {
					metricCol = best
				}
			}
		}
	}

	agg := p.Agg
	if agg == "" {
		agg = dataprocessing.AggSum
	}

	rows := dataprocessing.GroupAndAggregate(ds.Headers, ds.Rows, groupBy, metricCol, agg)
	if s.metrics != nil {
		s.metrics.AggregationsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("agg", agg)))
	}

	s.logger.InfoContext(ctx, "summary computed",
		slog.String("group_by", groupBy),
		slog.String("metric", metricCol),
		slog.String("agg", agg),
		slog.Int("groups", len(rows)))

	return &SummaryResult{
		GroupBy: groupBy,
		Metric:  metricCol,
		Agg:     agg,
		Rows:    rows,
	}, nil
}

// FilterRows fetches the worksheet and returns the rows whose trimmed cell
// in the named column equals the trimmed target value.
func (s *SheetService) FilterRows(ctx context.Context, p FetchParams, column, value string) (domain.Dataset, error) {
	ds, err := s.FetchDataset(ctx, p)
	if err != nil {
		return domain.Dataset{}, err
	}
	filtered := dataprocessing.FilterRowsByValue(ds.Headers, ds.Rows, column, value)
	return domain.Dataset{Headers: ds.Headers, Rows: filtered}, nil
}

// Columns fetches the worksheet and returns per-column statistics plus the
// inferred default column pair.
func (s *SheetService) Columns(ctx context.Context, p FetchParams) (*ColumnsResult, error) {
	ds, err := s.FetchDataset(ctx, p)
	if err != nil {
		return nil, err
	}
	if ds.Empty() {
		return nil, ErrNoData
	}

	result := &ColumnsResult{
		Headers: ds.Headers,
		Stats:   dataprocessing.ColumnStats(ds.Headers, ds.Rows),
	}
	if groupBy, metricCol, ok := dataprocessing.InferDefaultColumns(ds.Headers, ds.Rows); ok {
		result.DefaultGroupBy = groupBy
		result.DefaultMetric = metricCol
	}
	return result, nil
}
