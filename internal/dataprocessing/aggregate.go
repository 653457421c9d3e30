package dataprocessing

import (
	"sort"
	"strings"

	"sheetpulse/pkg/contracts/domain"
)

// Reducer tags accepted by GroupAndAggregate. Anything else behaves as sum.
const (
	AggSum   = "sum"
	AggCount = "count"
	AggAvg   = "avg"
	AggMin   = "min"
	AggMax   = "max"
)

// GroupAndAggregate buckets rows by the group-by column's raw cell value and
// reduces the aggregate column's numeric values with the chosen reducer.
// Cells the numeric parser rejects contribute 0.0 to their bucket (and still
// count for the count reducer). Unknown column names yield an empty result,
// not an error; callers treat that as "no data". The result is sorted by
// group label, ascending, case-insensitively.
func GroupAndAggregate(headers []string, rows [][]string, groupBy, aggregate, agg string) []domain.AggregateRow {
	if len(headers) == 0 {
		return nil
	}
	groupIdx := indexOfHeader(headers, groupBy)
	valueIdx := indexOfHeader(headers, aggregate)
	if groupIdx < 0 || valueIdx < 0 {
		return nil
	}

	// Buckets are keyed by exact string equality: cells differing only in
	// internal whitespace or case form distinct groups.
	groups := make(map[string][]float64)
	var order []string
	for _, row := range rows {
		if groupIdx >= len(row) || valueIdx >= len(row) {
			continue
		}
		key := row[groupIdx]
		val, ok := ParseNumeric(row[valueIdx])
		if !ok {
			val = 0.0
		}
		if _, exists := groups[key]; !exists {
			order = append(order, key)
		}
		groups[key] = append(groups[key], val)
	}

	results := make([]domain.AggregateRow, 0, len(order))
	for _, key := range order {
		results = append(results, domain.AggregateRow{
			Group:  key,
			Metric: reduce(groups[key], agg),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return strings.ToLower(results[i].Group) < strings.ToLower(results[j].Group)
	})
	return results
}

// reduce applies the reducer to one bucket. An empty bucket reduces to 0.
func reduce(values []float64, agg string) float64 {
	if len(values) == 0 {
		return 0.0
	}
	switch agg {
	case AggCount:
		return float64(len(values))
	case AggAvg:
		return sum(values) / float64(len(values))
	case AggMin:
		m := values[0]
		for _, v := range values[1:] {
			if v < m {
				m = v
			}
		}
		return m
	case AggMax:
		m := values[0]
		for _, v := range values[1:] {
			if v > m {
				m = v
			}
		}
		return m
	default:
		return sum(values)
	}
}

func sum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}

// FilterRowsByValue returns, in original order, every row whose trimmed cell
// in the named column equals the trimmed target value. Missing columns and
// empty datasets yield an empty result.
func FilterRowsByValue(headers []string, rows [][]string, column, value string) [][]string {
	if len(headers) == 0 || len(rows) == 0 {
		return nil
	}
	idx := indexOfHeader(headers, column)
	if idx < 0 {
		return nil
	}
	target := strings.TrimSpace(value)
	var matched [][]string
	for _, row := range rows {
		if idx < len(row) && strings.TrimSpace(row[idx]) == target {
			matched = append(matched, row)
		}
	}
	return matched
}
