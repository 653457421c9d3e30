package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "sheetpulse/internal/errors"
	"sheetpulse/internal/services"
	"sheetpulse/internal/shared/testutil"
	"sheetpulse/internal/sheets"
	"sheetpulse/pkg/contracts/domain"
)

type mockSheetService struct {
	summarizeResult *services.SummaryResult
	summarizeErr    error
	summarizeParams services.SummaryParams

	filterResult domain.Dataset
	filterErr    error
	filterColumn string
	filterValue  string

	columnsResult *services.ColumnsResult
	columnsErr    error
}

func (m *mockSheetService) Summarize(_ context.Context, p services.SummaryParams) (*services.SummaryResult, error) {
	m.summarizeParams = p
	return m.summarizeResult, m.summarizeErr
}

func (m *mockSheetService) FilterRows(_ context.Context, _ services.FetchParams, column, value string) (domain.Dataset, error) {
	m.filterColumn = column
	m.filterValue = value
	return m.filterResult, m.filterErr
}

func (m *mockSheetService) Columns(_ context.Context, _ services.FetchParams) (*services.ColumnsResult, error) {
	return m.columnsResult, m.columnsErr
}

func newTestHandler(t *testing.T, service *mockSheetService) *SheetHandler {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	return NewSheetHandler(service, logger, apierrors.NewErrorHandler(logger, false))
}

func doRequest(t *testing.T, h *SheetHandler, target string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestGetSummary(t *testing.T) {
	service := &mockSheetService{
		summarizeResult: &services.SummaryResult{
			GroupBy: "Region",
			Metric:  "Sales",
			Agg:     "sum",
			Rows: []domain.AggregateRow{
				{Group: "North", Metric: 300},
				{Group: "South", Metric: 75},
			},
		},
	}
	h := newTestHandler(t, service)

	rec, body := doRequest(t, h, "/summary?sheet_id=abc&group_by=Region&metric=Sales&agg=sum")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, "Region", body["group_by"])
	assert.Equal(t, float64(2), body["count"])

	assert.Equal(t, "abc", service.summarizeParams.SheetID)
	assert.Equal(t, "Region", service.summarizeParams.GroupBy)
	assert.Equal(t, "sum", service.summarizeParams.Agg)
}

func TestGetSummaryMissingSheetID(t *testing.T) {
	service := &mockSheetService{summarizeErr: services.ErrMissingSheetID}
	h := newTestHandler(t, service)

	rec, body := doRequest(t, h, "/summary")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_FAILED", body["error_code"])
}

func TestGetSummaryUpstreamStatus(t *testing.T) {
	service := &mockSheetService{
		summarizeErr: &sheets.FetchError{
			Kind:       sheets.KindTransport,
			StatusCode: http.StatusForbidden,
			Reason:     "Forbidden",
		},
	}
	h := newTestHandler(t, service)

	rec, body := doRequest(t, h, "/summary?sheet_id=abc")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "SHEET_UPSTREAM_STATUS", body["error_code"])

	details, ok := body["details"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(http.StatusForbidden), details["upstream_status"])
	assert.Equal(t, "Forbidden", details["upstream_reason"])
}

func TestGetSummaryNetworkError(t *testing.T) {
	service := &mockSheetService{
		summarizeErr: &sheets.FetchError{Kind: sheets.KindNetwork},
	}
	h := newTestHandler(t, service)

	rec, body := doRequest(t, h, "/summary?sheet_id=abc")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "SHEET_NETWORK", body["error_code"])
}

func TestGetSummaryArgumentError(t *testing.T) {
	service := &mockSheetService{
		summarizeErr: &sheets.FetchError{Kind: sheets.KindArgument, Reason: "either sheet name or gid must be provided"},
	}
	h := newTestHandler(t, service)

	rec, body := doRequest(t, h, "/summary?sheet_id=abc")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "SHEET_INVALID_ARGUMENTS", body["error_code"])
}

func TestGetRows(t *testing.T) {
	service := &mockSheetService{
		filterResult: domain.Dataset{
			Headers: []string{"Region", "Sales"},
			Rows:    [][]string{{"North", "100"}},
		},
	}
	h := newTestHandler(t, service)

	rec, body := doRequest(t, h, "/rows?sheet_id=abc&column=Region&value=North")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, float64(1), body["count"])
	assert.Equal(t, "Region", service.filterColumn)
	assert.Equal(t, "North", service.filterValue)
}

func TestGetRowsRequiresColumn(t *testing.T) {
	service := &mockSheetService{}
	h := newTestHandler(t, service)

	rec, _ := doRequest(t, h, "/rows?sheet_id=abc")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetColumns(t *testing.T) {
	service := &mockSheetService{
		columnsResult: &services.ColumnsResult{
			Headers:        []string{"Region", "Sales"},
			DefaultGroupBy: "Region",
			DefaultMetric:  "Sales",
			Stats: []domain.ColumnStat{
				{Name: "Region", Index: 0, NumericRatio: 0, Cardinality: 2},
				{Name: "Sales", Index: 1, NumericRatio: 1, Cardinality: 3},
			},
		},
	}
	h := newTestHandler(t, service)

	rec, body := doRequest(t, h, "/columns?sheet_id=abc")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Region", body["default_group_by"])
	assert.Equal(t, "Sales", body["default_metric"])
}

func TestGetColumnsNoData(t *testing.T) {
	service := &mockSheetService{columnsErr: services.ErrNoData}
	h := newTestHandler(t, service)

	rec, body := doRequest(t, h, "/columns?sheet_id=abc")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", body["error_code"])
}
