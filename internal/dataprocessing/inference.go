package dataprocessing

import (
	"strings"

	"sheetpulse/pkg/contracts/domain"
)

// maxSampleRows caps how many rows feed the column statistics. Sampling must
// stay bounded in memory even for very large sheets.
const maxSampleRows = 1000

// numericThreshold is the minimum numeric ratio for a column to count as an
// aggregation candidate, and the cutoff below which a column counts as a
// grouping candidate.
const numericThreshold = 0.5

// Cardinality bounds for a useful grouping column: at least two groups,
// at most fifty so the result stays displayable.
const (
	minGroupCardinality = 2
	maxGroupCardinality = 50
)

// sampleColumns transposes up to maxSampleRows rows into per-column value
// slices. Ragged rows contribute only the cells they have.
func sampleColumns(headers []string, rows [][]string) [][]string {
	cols := make([][]string, len(headers))
	sample := rows
	if len(sample) > maxSampleRows {
		sample = sample[:maxSampleRows]
	}
	for _, row := range sample {
		n := len(headers)
		if len(row) < n {
			n = len(row)
		}
		for idx := 0; idx < n; idx++ {
			cols[idx] = append(cols[idx], row[idx])
		}
	}
	return cols
}

// numericRatioOf returns the fraction of values that ParseNumeric accepts.
func numericRatioOf(values []string) float64 {
	if len(values) == 0 {
		return 0
	}
	numeric := 0
	for _, v := range values {
		if IsNumeric(v) {
			numeric++
		}
	}
	return float64(numeric) / float64(len(values))
}

// distinctNonEmpty counts distinct trimmed non-empty values.
func distinctNonEmpty(values []string) int {
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if t := strings.TrimSpace(v); t != "" {
			seen[t] = struct{}{}
		}
	}
	return len(seen)
}

// ColumnStats computes the numeric ratio and cardinality of every column over
// the sampled rows. The presentation layer uses it to drive column pickers.
func ColumnStats(headers []string, rows [][]string) []domain.ColumnStat {
	cols := sampleColumns(headers, rows)
	stats := make([]domain.ColumnStat, len(headers))
	for idx, name := range headers {
		stats[idx] = domain.ColumnStat{
			Name:         name,
			Index:        idx,
			NumericRatio: numericRatioOf(cols[idx]),
			Cardinality:  distinctNonEmpty(cols[idx]),
		}
	}
	return stats
}

// InferDefaultColumns picks a (group-by, aggregate) column pair when the
// caller supplies none:
//
//   - aggregate: the column with the highest numeric ratio at or above 0.5;
//     on ties the later column wins because the best-so-far comparison is
//     non-strict
//   - group-by: the first column below the numeric threshold whose
//     cardinality falls in [2, 50]; scanning stops at the first match
//
// The two scans deliberately break ties in opposite directions; unifying
// them would change the picks on tied inputs. Fallbacks: group-by column 0,
// aggregate column 1 when it exists, else 0. Returns ok=false when there are
// no headers or no rows.
func InferDefaultColumns(headers []string, rows [][]string) (groupBy, aggregate string, ok bool) {
	if len(headers) == 0 || len(rows) == 0 {
		return "", "", false
	}

	cols := sampleColumns(headers, rows)
	ratios := make([]float64, len(headers))
	for idx := range headers {
		ratios[idx] = numericRatioOf(cols[idx])
	}

	aggIdx := -1
	bestRatio := numericThreshold
	for idx, ratio := range ratios {
		if ratio >= bestRatio {
			bestRatio = ratio
			aggIdx = idx
		}
	}

	groupIdx := -1
	for idx, ratio := range ratios {
		if ratio >= numericThreshold {
			continue
		}
		distinct := distinctNonEmpty(cols[idx])
		if distinct >= minGroupCardinality && distinct <= maxGroupCardinality {
			groupIdx = idx
			break
		}
	}

	if groupIdx < 0 {
		groupIdx = 0
	}
	if aggIdx < 0 {
		aggIdx = 0
		if len(headers) > 1 {
			aggIdx = 1
		}
	}
	return headers[groupIdx], headers[aggIdx], true
}

// FindBestMetricColumn chooses an aggregate column, honoring an ordered list
// of preferred header names. The first preferred name that exists among the
// headers with a numeric ratio of at least 0.5 wins. With no qualifying
// preferred name the scan falls back to the same last-max-wins rule as
// InferDefaultColumns. Returns ok=false when nothing reaches the threshold.
func FindBestMetricColumn(headers []string, rows [][]string, preferred []string) (string, bool) {
	if len(headers) == 0 || len(rows) == 0 {
		return "", false
	}

	cols := sampleColumns(headers, rows)

	for _, name := range preferred {
		idx := indexOfHeader(headers, name)
		if idx < 0 {
			continue
		}
		if numericRatioOf(cols[idx]) >= numericThreshold {
			return name, true
		}
	}

	bestIdx := -1
	bestRatio := numericThreshold
	for idx := range headers {
		if ratio := numericRatioOf(cols[idx]); ratio >= bestRatio {
			bestRatio = ratio
			bestIdx = idx
		}
	}
	if bestIdx < 0 {
		return "", false
	}
	return headers[bestIdx], true
}

// indexOfHeader resolves a header name to its first matching index.
// Duplicate names silently shadow later columns.
func indexOfHeader(headers []string, name string) int {
	for i, h := range headers {
		if h == name {
			return i
		}
	}
	return -1
}
