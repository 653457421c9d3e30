package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "sheetpulse/internal/errors"
	"sheetpulse/internal/middleware"
	"sheetpulse/internal/services"
	"sheetpulse/internal/sheets"
)

// SheetHandler handles sheet analysis HTTP requests
type SheetHandler struct {
	service      SheetServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewSheetHandler creates a new sheet handler
func NewSheetHandler(service SheetServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *SheetHandler {
	return &SheetHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "sheet_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the sheet routes
func (h *SheetHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/summary", h.GetSummary)
	r.Get("/rows", h.GetRows)
	r.Get("/columns", h.GetColumns)

	return r
}

// fetchParams extracts the worksheet selection from query parameters.
// Empty values fall back to the configured defaults inside the service.
func fetchParams(r *http.Request) services.FetchParams {
	q := r.URL.Query()
	return services.FetchParams{
		SheetID:   q.Get("sheet_id"),
		SheetName: q.Get("sheet"),
		GID:       q.Get("gid"),
	}
}

// GetSummary handles GET /api/sheet/summary
func (h *SheetHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())
	q := r.URL.Query()

	params := services.SummaryParams{
		FetchParams: fetchParams(r),
		GroupBy:     q.Get("group_by"),
		Metric:      q.Get("metric"),
		Agg:         q.Get("agg"),
	}

	h.logger.InfoContext(r.Context(), "computing sheet summary",
		slog.String("request_id", reqID),
		slog.String("group_by", params.GroupBy),
		slog.String("metric", params.Metric),
		slog.String("agg", params.Agg),
	)

	result, err := h.service.Summarize(r.Context(), params)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status":   "success",
		"group_by": result.GroupBy,
		"metric":   result.Metric,
		"agg":      result.Agg,
		"data":     result.Rows,
		"count":    len(result.Rows),
	})
}

// GetRows handles GET /api/sheet/rows
func (h *SheetHandler) GetRows(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())
	q := r.URL.Query()

	column := q.Get("column")
	if column == "" {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("column", "Column name is required"))
		return
	}
	value := q.Get("value")

	h.logger.InfoContext(r.Context(), "filtering sheet rows",
		slog.String("request_id", reqID),
		slog.String("column", column),
	)

	ds, err := h.service.FilterRows(r.Context(), fetchParams(r), column, value)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status":  "success",
		"headers": ds.Headers,
		"data":    ds.Rows,
		"count":   len(ds.Rows),
	})
}

// GetColumns handles GET /api/sheet/columns
func (h *SheetHandler) GetColumns(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	h.logger.InfoContext(r.Context(), "describing sheet columns",
		slog.String("request_id", reqID),
	)

	result, err := h.service.Columns(r.Context(), fetchParams(r))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status":           "success",
		"headers":          result.Headers,
		"stats":            result.Stats,
		"default_group_by": result.DefaultGroupBy,
		"default_metric":   result.DefaultMetric,
	})
}

// handleServiceError maps service and fetch errors to API errors
func (h *SheetHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.ErrorContext(r.Context(), "sheet request failed",
		slog.String("error", err.Error()),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	switch {
	case errors.Is(err, services.ErrMissingSheetID):
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("sheet_id", "A spreadsheet id is required"))

	case errors.Is(err, services.ErrNoData):
		h.errorHandler.HandleError(w, r, apierrors.New(
			http.StatusNotFound,
			"NOT_FOUND",
			"Worksheet contains no data",
		))

	case sheets.IsKind(err, sheets.KindArgument):
		h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
			http.StatusBadRequest,
			"SHEET_INVALID_ARGUMENTS",
			"Either a worksheet name or a gid must be provided",
			err.Error(),
		))

	case sheets.IsKind(err, sheets.KindTransport):
		fe := err.(*sheets.FetchError)
		h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
			http.StatusBadGateway,
			"SHEET_UPSTREAM_STATUS",
			fmt.Sprintf("Spreadsheet service answered %d %s", fe.StatusCode, fe.Reason),
			map[string]interface{}{
				"upstream_status": fe.StatusCode,
				"upstream_reason": fe.Reason,
			},
		))

	case sheets.IsKind(err, sheets.KindNetwork):
		h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
			http.StatusBadGateway,
			"SHEET_NETWORK",
			"Could not reach the spreadsheet service",
			err.Error(),
		))

	default:
		h.errorHandler.HandleError(w, r, err)
	}
}
