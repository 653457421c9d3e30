package sheets

import (
	"context"
	"encoding/csv"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"sheetpulse/pkg/contracts/domain"
)

// DefaultTimeout bounds a sheet fetch when the request supplies none.
const DefaultTimeout = 10 * time.Second

// Request identifies one worksheet to fetch. GID is preferred whenever it is
// supplied; otherwise SheetName selects the worksheet. Exactly one of the two
// must be present.
type Request struct {
	SheetID   string
	SheetName string
	GID       string
	Timeout   time.Duration
}

// PublishedCSVURL builds the gviz CSV export URL for a worksheet selected by
// name. The sheet must be published to the web or shared publicly.
func PublishedCSVURL(sheetID, sheetName string) string {
	return "https://docs.google.com/spreadsheets/d/" + sheetID +
		"/gviz/tq?tqx=out:csv&sheet=" + escapeStrict(sheetName)
}

// ExportCSVURLWithGID builds the CSV export URL for a worksheet selected by
// gid. This works even when the tab name is unknown.
func ExportCSVURLWithGID(sheetID, gid string) string {
	return "https://docs.google.com/spreadsheets/d/" + sheetID +
		"/export?format=csv&gid=" + escapeStrict(gid)
}

// escapeStrict percent-encodes with no characters treated as safe beyond the
// unreserved set. QueryEscape alone would emit "+" for spaces.
func escapeStrict(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// Fetcher retrieves published sheet CSV exports over HTTP. It holds no
// mutable state and is safe for concurrent use.
type Fetcher struct {
	client *http.Client
	logger *slog.Logger
}

// NewFetcher creates a fetcher using the given HTTP client, or a default
// client when nil.
func NewFetcher(client *http.Client, logger *slog.Logger) *Fetcher {
	if client == nil {
		client = &http.Client{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{
		client: client,
		logger: logger.With(slog.String("component", "sheet_fetcher")),
	}
}

// Fetch retrieves the worksheet's CSV export and returns the normalized
// dataset. The call blocks until the payload arrives or the timeout elapses;
// a timed-out fetch surfaces as a network error and is not retried.
func (f *Fetcher) Fetch(ctx context.Context, req Request) (domain.Dataset, error) {
	var fetchURL string
	switch {
	case req.GID != "":
		fetchURL = ExportCSVURLWithGID(req.SheetID, req.GID)
	case req.SheetName != "":
		fetchURL = PublishedCSVURL(req.SheetID, req.SheetName)
	default:
		return domain.Dataset{}, argumentError("either sheet name or gid must be provided")
	}

	timeout := req.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, fetchURL, nil)
	if err != nil {
		return domain.Dataset{}, networkError(err)
	}

	start := time.Now()
	resp, err := f.client.Do(httpReq)
	if err != nil {
		f.logger.ErrorContext(ctx, "sheet fetch failed",
			slog.String("sheet_id", req.SheetID),
			slog.String("error", err.Error()))
		return domain.Dataset{}, networkError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		f.logger.WarnContext(ctx, "sheet endpoint returned error status",
			slog.String("sheet_id", req.SheetID),
			slog.Int("status", resp.StatusCode))
		return domain.Dataset{}, transportError(resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.Dataset{}, networkError(err)
	}

	// Invalid byte sequences are repaired locally, never surfaced.
	text := strings.ToValidUTF8(string(body), "�")

	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	records, err := reader.ReadAll()
	if err != nil {
		return domain.Dataset{}, payloadError(resp.StatusCode, err)
	}

	ds := NormalizeTable(records)
	f.logger.DebugContext(ctx, "sheet fetched",
		slog.String("sheet_id", req.SheetID),
		slog.Int("columns", len(ds.Headers)),
		slog.Int("rows", len(ds.Rows)),
		slog.Duration("elapsed", time.Since(start)))
	return ds, nil
}
