package domain

// Dataset is the normalized (headers, rows) pair produced by ingestion.
// Headers are trimmed; every row has exactly len(Headers) cells. A Dataset is
// built once per fetch and never mutated afterwards, so read-only views over
// it are safe from concurrent callers.
type Dataset struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// Empty reports whether the dataset has no headers or no data rows.
func (d Dataset) Empty() bool {
	return len(d.Headers) == 0 || len(d.Rows) == 0
}

// AggregateRow is one (group label, metric value) pair of an aggregation
// result. Group preserves the raw cell casing used as the bucket key.
type AggregateRow struct {
	Group  string  `json:"group"`
	Metric float64 `json:"metric"`
}

// ColumnStat describes one column of a sampled dataset: the fraction of
// sampled cells that parse as numeric and the count of distinct non-empty
// trimmed values.
type ColumnStat struct {
	Name         string  `json:"name"`
	Index        int     `json:"index"`
	NumericRatio float64 `json:"numeric_ratio"`
	Cardinality  int     `json:"cardinality"`
}
