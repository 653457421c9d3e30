package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheetpulse/pkg/contracts/domain"
)

func TestGroupAndAggregate(t *testing.T) {
	headers := []string{"Region", "Sales"}
	rows := [][]string{
		{"North", "100"},
		{"South", "50"},
		{"North", "200"},
		{"South", "25"},
	}

	tests := []struct {
		name string
		agg  string
		want []domain.AggregateRow
	}{
		{
			name: "sum",
			agg:  AggSum,
			want: []domain.AggregateRow{{Group: "North", Metric: 300}, {Group: "South", Metric: 75}},
		},
		{
			name: "count",
			agg:  AggCount,
			want: []domain.AggregateRow{{Group: "North", Metric: 2}, {Group: "South", Metric: 2}},
		},
		{
			name: "avg",
			agg:  AggAvg,
			want: []domain.AggregateRow{{Group: "North", Metric: 150}, {Group: "South", Metric: 37.5}},
		},
		{
			name: "min",
			agg:  AggMin,
			want: []domain.AggregateRow{{Group: "North", Metric: 100}, {Group: "South", Metric: 25}},
		},
		{
			name: "max",
			agg:  AggMax,
			want: []domain.AggregateRow{{Group: "North", Metric: 200}, {Group: "South", Metric: 50}},
		},
		{
			name: "unrecognized reducer behaves as sum",
			agg:  "median",
			want: []domain.AggregateRow{{Group: "North", Metric: 300}, {Group: "South", Metric: 75}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GroupAndAggregate(headers, rows, "Region", "Sales", tt.agg)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGroupAndAggregateNonNumericCells(t *testing.T) {
	headers := []string{"Group", "Value"}
	rows := [][]string{
		{"A", "10"},
		{"A", "20"},
		{"B", "abc"},
	}

	t.Run("rejected cells contribute zero to averages", func(t *testing.T) {
		got := GroupAndAggregate(headers, rows, "Group", "Value", AggAvg)
		assert.Equal(t, []domain.AggregateRow{
			{Group: "A", Metric: 15.0},
			{Group: "B", Metric: 0.0},
		}, got)
	})

	t.Run("rejected cells still count", func(t *testing.T) {
		got := GroupAndAggregate(headers, rows, "Group", "Value", AggCount)
		assert.Equal(t, []domain.AggregateRow{
			{Group: "A", Metric: 2},
			{Group: "B", Metric: 1},
		}, got)
	})
}

func TestGroupAndAggregateSortOrder(t *testing.T) {
	headers := []string{"Name", "N"}
	rows := [][]string{
		{"banana", "1"},
		{"Apple", "1"},
		{"cherry", "1"},
	}

	got := GroupAndAggregate(headers, rows, "Name", "N", AggSum)
	require.Len(t, got, 3)
	assert.Equal(t, "Apple", got[0].Group, "sort compares case-insensitively")
	assert.Equal(t, "banana", got[1].Group)
	assert.Equal(t, "cherry", got[2].Group)
}

func TestGroupAndAggregateExactKeyBuckets(t *testing.T) {
	headers := []string{"Label", "V"}
	rows := [][]string{
		{"a", "1"},
		{"a ", "2"},
		{"A", "4"},
	}

	got := GroupAndAggregate(headers, rows, "Label", "V", AggSum)
	assert.Len(t, got, 3, "keys differing in whitespace or case stay separate")
}

func TestGroupAndAggregateUnknownColumns(t *testing.T) {
	headers := []string{"A", "B"}
	rows := [][]string{{"x", "1"}}

	assert.Empty(t, GroupAndAggregate(headers, rows, "Missing", "B", AggSum))
	assert.Empty(t, GroupAndAggregate(headers, rows, "A", "Missing", AggSum))
	assert.Empty(t, GroupAndAggregate(nil, rows, "A", "B", AggSum))
}

func TestGroupAndAggregateShortRows(t *testing.T) {
	headers := []string{"G", "V"}
	rows := [][]string{
		{"a", "1"},
		{"b"},
	}

	got := GroupAndAggregate(headers, rows, "G", "V", AggSum)
	assert.Equal(t, []domain.AggregateRow{{Group: "a", Metric: 1}}, got)
}

func TestFilterRowsByValue(t *testing.T) {
	headers := []string{"City", "Pop"}
	rows := [][]string{
		{"Oslo", "700"},
		{" Bergen ", "280"},
		{"Oslo", "710"},
		{"Stavanger", "140"},
	}

	t.Run("matches preserve original order", func(t *testing.T) {
		got := FilterRowsByValue(headers, rows, "City", "Oslo")
		assert.Equal(t, [][]string{{"Oslo", "700"}, {"Oslo", "710"}}, got)
	})

	t.Run("comparison trims both sides", func(t *testing.T) {
		got := FilterRowsByValue(headers, rows, "City", "  Bergen")
		assert.Equal(t, [][]string{{" Bergen ", "280"}}, got)
	})

	t.Run("unknown column yields empty result", func(t *testing.T) {
		assert.Empty(t, FilterRowsByValue(headers, rows, "Country", "Norway"))
	})

	t.Run("no match", func(t *testing.T) {
		assert.Empty(t, FilterRowsByValue(headers, rows, "City", "Tromsø"))
	})
}
