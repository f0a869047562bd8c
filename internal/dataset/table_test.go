package dataset

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2020, 3, d, 0, 0, 0, 0, time.UTC)
}

func TestAppendRow(t *testing.T) {
	tbl := New("test", []string{"a", "b"})

	require.NoError(t, tbl.AppendRow(day(1), []float64{1, 2}))
	assert.Equal(t, 1, tbl.NumRows())

	t.Run("wrong arity", func(t *testing.T) {
		assert.Error(t, tbl.AppendRow(day(2), []float64{1}))
	})

	t.Run("duplicate date", func(t *testing.T) {
		err := tbl.AppendRow(day(1), []float64{3, 4})
		var schemaErr *SchemaError
		require.ErrorAs(t, err, &schemaErr)
	})

	t.Run("date normalized to UTC midnight", func(t *testing.T) {
		noon := time.Date(2020, 3, 2, 12, 30, 0, 0, time.UTC)
		require.NoError(t, tbl.AppendRow(noon, []float64{5, 6}))
		dates := tbl.Dates()
		assert.Equal(t, day(2), dates[len(dates)-1])
	})
}

func TestInnerJoin(t *testing.T) {
	t.Run("full overlap", func(t *testing.T) {
		left := New("web", []string{"page_views"})
		right := New("cases", []string{"cases"})
		for i := 1; i <= 5; i++ {
			require.NoError(t, left.AppendRow(day(i), []float64{float64(100 + i)}))
			require.NoError(t, right.AppendRow(day(i), []float64{float64(10 + i)}))
		}

		joined, err := InnerJoin(left, right)
		require.NoError(t, err)
		assert.Equal(t, 5, joined.NumRows())
		assert.Equal(t, []string{"page_views", "cases"}, joined.Columns())
	})

	t.Run("partial overlap keeps only shared dates", func(t *testing.T) {
		left := New("cases", []string{"cases"})
		right := New("web", []string{"page_views"})
		for i := 1; i <= 5; i++ {
			require.NoError(t, left.AppendRow(day(i), []float64{float64(i)}))
		}
		for i := 3; i <= 7; i++ {
			require.NoError(t, right.AppendRow(day(i), []float64{float64(i * 10)}))
		}

		joined, err := InnerJoin(left, right)
		require.NoError(t, err)
		require.Equal(t, 3, joined.NumRows())
		assert.Equal(t, []time.Time{day(3), day(4), day(5)}, joined.Dates())
	})

	t.Run("no overlap yields empty table", func(t *testing.T) {
		left := New("l", []string{"a"})
		right := New("r", []string{"b"})
		require.NoError(t, left.AppendRow(day(1), []float64{1}))
		require.NoError(t, right.AppendRow(day(2), []float64{2}))

		joined, err := InnerJoin(left, right)
		require.NoError(t, err)
		assert.Equal(t, 0, joined.NumRows())
	})

	t.Run("shared column name rejected", func(t *testing.T) {
		left := New("l", []string{"a"})
		right := New("r", []string{"a"})
		_, err := InnerJoin(left, right)
		assert.Error(t, err)
	})
}

func TestDropMissing(t *testing.T) {
	tbl := New("test", []string{"a", "b"})
	require.NoError(t, tbl.AppendRow(day(1), []float64{1, 2}))
	require.NoError(t, tbl.AppendRow(day(2), []float64{math.NaN(), 2}))
	require.NoError(t, tbl.AppendRow(day(3), []float64{3, 4}))
	require.NoError(t, tbl.AppendRow(day(4), []float64{5, math.NaN()}))

	assert.True(t, tbl.HasMissing())
	removed := tbl.DropMissing()

	assert.Equal(t, 2, removed)
	assert.Equal(t, 2, tbl.NumRows())
	assert.False(t, tbl.HasMissing())
	assert.Equal(t, []time.Time{day(1), day(3)}, tbl.Dates())
}

func TestStandardize(t *testing.T) {
	newTable := func() *Table {
		tbl := New("test", []string{"page_views", "cases"})
		pageViews := []float64{100, 110, 95, 130, 105}
		cases := []float64{10, 12, 9, 15, 11}
		for i := 0; i < 5; i++ {
			require.NoError(t, tbl.AppendRow(day(i+1), []float64{pageViews[i], cases[i]}))
		}
		return tbl
	}

	t.Run("standardized column has mean 0 and population stddev 1", func(t *testing.T) {
		tbl := newTable()
		require.NoError(t, tbl.Standardize("cases"))

		col, err := tbl.Column("page_views")
		require.NoError(t, err)

		var sum float64
		for _, v := range col {
			sum += v
		}
		mean := sum / float64(len(col))
		assert.InDelta(t, 0, mean, 1e-9)

		var sq float64
		for _, v := range col {
			sq += (v - mean) * (v - mean)
		}
		assert.InDelta(t, 1, math.Sqrt(sq/float64(len(col))), 1e-9)

		assert.Equal(t, KindFloat, tbl.Kind("page_views"))
	})

	t.Run("excepted column passes through unchanged", func(t *testing.T) {
		tbl := newTable()
		require.NoError(t, tbl.Standardize("cases"))

		cases, err := tbl.Column("cases")
		require.NoError(t, err)
		assert.Equal(t, []float64{10, 12, 9, 15, 11}, cases)
		assert.Equal(t, KindInt, tbl.Kind("cases"))
	})

	t.Run("zero variance column fails without mutating", func(t *testing.T) {
		tbl := New("test", []string{"flat", "page_views"})
		for i := 0; i < 5; i++ {
			require.NoError(t, tbl.AppendRow(day(i+1), []float64{7, float64(100 + i)}))
		}

		err := tbl.Standardize("cases")
		var degenerate *DegenerateColumnError
		require.ErrorAs(t, err, &degenerate)
		assert.Equal(t, "flat", degenerate.Column)

		// The other column must be untouched.
		col, err2 := tbl.Column("page_views")
		require.NoError(t, err2)
		assert.Equal(t, []float64{100, 101, 102, 103, 104}, col)
	})
}

func TestReorder(t *testing.T) {
	tbl := New("test", []string{"b", "a"})
	require.NoError(t, tbl.AppendRow(day(1), []float64{2, 1}))
	require.NoError(t, tbl.SetKind("b", KindFloat))

	out, err := tbl.Reorder([]string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, out.Columns())
	assert.Equal(t, KindFloat, out.Kind("b"))

	v, err := out.Value(0, "a")
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)

	_, err = tbl.Reorder([]string{"missing"})
	assert.Error(t, err)
}

func TestClone(t *testing.T) {
	tbl := New("test", []string{"a"})
	require.NoError(t, tbl.AppendRow(day(1), []float64{1}))
	require.NoError(t, tbl.AppendRow(day(2), []float64{2}))

	cp := tbl.Clone()
	require.NoError(t, cp.Standardize())

	// The original must be untouched by mutations of the clone.
	orig, err := tbl.Column("a")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, orig)
	assert.Equal(t, KindInt, tbl.Kind("a"))
	assert.Equal(t, KindFloat, cp.Kind("a"))
}
