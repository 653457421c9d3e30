package dataprocessing

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInferDefaultColumns(t *testing.T) {
	t.Run("typical mixed table", func(t *testing.T) {
		headers := []string{"Region", "Sales", "Notes"}
		rows := [][]string{
			{"North", "100", "steady"},
			{"South", "250", "growing"},
			{"North", "75", "dip"},
		}

		groupBy, aggregate, ok := InferDefaultColumns(headers, rows)
		require.True(t, ok)
		assert.Equal(t, "Region", groupBy)
		assert.Equal(t, "Sales", aggregate)
	})

	t.Run("tied numeric ratios pick the later column", func(t *testing.T) {
		// Ratios per column: 1.0, 1.0, 0.0. The non-strict comparison
		// updates on equal ratios, so column 1 beats column 0.
		headers := []string{"A", "B", "C"}
		rows := [][]string{
			{"1", "2", "x"},
			{"3", "4", "y"},
		}

		_, aggregate, ok := InferDefaultColumns(headers, rows)
		require.True(t, ok)
		assert.Equal(t, "B", aggregate)
	})

	t.Run("group by is the first qualifying column", func(t *testing.T) {
		headers := []string{"First", "Second", "Value"}
		rows := [][]string{
			{"a", "x", "1"},
			{"b", "y", "2"},
			{"a", "z", "3"},
		}

		groupBy, _, ok := InferDefaultColumns(headers, rows)
		require.True(t, ok)
		assert.Equal(t, "First", groupBy)
	})

	t.Run("constant column fails the cardinality floor", func(t *testing.T) {
		// "Same" has one distinct value, below the minimum of two, so the
		// scan moves on to "City".
		headers := []string{"Same", "City", "Amount"}
		rows := [][]string{
			{"only", "Oslo", "10"},
			{"only", "Bergen", "20"},
		}

		groupBy, _, ok := InferDefaultColumns(headers, rows)
		require.True(t, ok)
		assert.Equal(t, "City", groupBy)
	})

	t.Run("high cardinality column fails the ceiling", func(t *testing.T) {
		headers := []string{"ID", "Category", "Amount"}
		rows := make([][]string, 60)
		for i := range rows {
			rows[i] = []string{fmt.Sprintf("id-%d", i), "cat" + string(rune('A'+i%3)), "5"}
		}

		groupBy, _, ok := InferDefaultColumns(headers, rows)
		require.True(t, ok)
		assert.Equal(t, "Category", groupBy)
	})

	t.Run("fallbacks when nothing qualifies", func(t *testing.T) {
		// Every cell is non-numeric with cardinality 1: no aggregate
		// candidate, no group candidate.
		headers := []string{"X", "Y"}
		rows := [][]string{
			{"same", "same"},
			{"same", "same"},
		}

		groupBy, aggregate, ok := InferDefaultColumns(headers, rows)
		require.True(t, ok)
		assert.Equal(t, "X", groupBy)
		assert.Equal(t, "Y", aggregate)
	})

	t.Run("single column fallback aggregates column zero", func(t *testing.T) {
		headers := []string{"Only"}
		rows := [][]string{{"word"}, {"word"}}

		groupBy, aggregate, ok := InferDefaultColumns(headers, rows)
		require.True(t, ok)
		assert.Equal(t, "Only", groupBy)
		assert.Equal(t, "Only", aggregate)
	})

	t.Run("no headers", func(t *testing.T) {
		_, _, ok := InferDefaultColumns(nil, [][]string{{"1"}})
		assert.False(t, ok)
	})

	t.Run("no rows", func(t *testing.T) {
		_, _, ok := InferDefaultColumns([]string{"A"}, nil)
		assert.False(t, ok)
	})
}

func TestFindBestMetricColumn(t *testing.T) {
	headers := []string{"Region", "Revenue", "Count"}
	rows := [][]string{
		{"North", "100", "3"},
		{"South", "200", "4"},
	}

	t.Run("preferred name wins when numeric enough", func(t *testing.T) {
		name, ok := FindBestMetricColumn(headers, rows, []string{"Revenue", "Count"})
		require.True(t, ok)
		assert.Equal(t, "Revenue", name)
	})

	t.Run("preferred order decides among candidates", func(t *testing.T) {
		name, ok := FindBestMetricColumn(headers, rows, []string{"Count", "Revenue"})
		require.True(t, ok)
		assert.Equal(t, "Count", name)
	})

	t.Run("non numeric preferred name is skipped", func(t *testing.T) {
		name, ok := FindBestMetricColumn(headers, rows, []string{"Region", "Count"})
		require.True(t, ok)
		assert.Equal(t, "Count", name)
	})

	t.Run("absent preferred names fall back to the scan", func(t *testing.T) {
		name, ok := FindBestMetricColumn(headers, rows, []string{"Missing"})
		require.True(t, ok)
		// Revenue and Count tie at ratio 1.0; the later column wins.
		assert.Equal(t, "Count", name)
	})

	t.Run("duplicate headers resolve to the first occurrence", func(t *testing.T) {
		dupHeaders := []string{"Value", "Value"}
		dupRows := [][]string{
			{"text", "1"},
			{"text", "2"},
		}
		// The first "Value" column is non-numeric, so the preferred lookup
		// rejects the name and the scan picks the numeric second column by
		// position instead.
		name, ok := FindBestMetricColumn(dupHeaders, dupRows, []string{"Value"})
		require.True(t, ok)
		assert.Equal(t, "Value", name)
	})

	t.Run("nothing reaches the threshold", func(t *testing.T) {
		_, ok := FindBestMetricColumn([]string{"A", "B"}, [][]string{{"x", "y"}}, nil)
		assert.False(t, ok)
	})

	t.Run("empty input", func(t *testing.T) {
		_, ok := FindBestMetricColumn(nil, nil, []string{"A"})
		assert.False(t, ok)
	})
}

func TestColumnStats(t *testing.T) {
	headers := []string{"City", "Pop"}
	rows := [][]string{
		{"Oslo", "100"},
		{"Bergen", "abc"},
		{"Oslo", "300"},
		{"", "400"},
	}

	stats := ColumnStats(headers, rows)
	require.Len(t, stats, 2)

	assert.Equal(t, "City", stats[0].Name)
	assert.Equal(t, 0, stats[0].Index)
	assert.Equal(t, 0.0, stats[0].NumericRatio)
	assert.Equal(t, 2, stats[0].Cardinality, "blank cells do not count toward cardinality")

	assert.Equal(t, "Pop", stats[1].Name)
	assert.Equal(t, 0.75, stats[1].NumericRatio)
	assert.Equal(t, 4, stats[1].Cardinality)
}

func TestSampleColumnsRaggedRows(t *testing.T) {
	headers := []string{"A", "B", "C"}
	rows := [][]string{
		{"1"},
		{"2", "3"},
		{"4", "5", "6", "ignored"},
	}

	cols := sampleColumns(headers, rows)
	require.Len(t, cols, 3)
	assert.Equal(t, []string{"1", "2", "4"}, cols[0])
	assert.Equal(t, []string{"3", "5"}, cols[1])
	assert.Equal(t, []string{"6"}, cols[2])
}

func TestSampleColumnsCapsRows(t *testing.T) {
	headers := []string{"N"}
	rows := make([][]string, maxSampleRows+500)
	for i := range rows {
		rows[i] = []string{"1"}
	}

	cols := sampleColumns(headers, rows)
	assert.Len(t, cols[0], maxSampleRows)
}
