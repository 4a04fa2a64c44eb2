package dataset

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromRowsSchema(t *testing.T) {
	ds := FromRows([]Row{
		{"text": "hello", "views": 3},
		{"text": "world", "views": 4, "score": 0.5},
	})

	assert.Equal(t, 2, ds.NumRows())
	assert.True(t, ds.HasColumn("text"))
	assert.True(t, ds.HasColumn("score"))
	assert.False(t, ds.HasColumn("missing"))

	tt, ok := ds.ColumnType("text")
	require.True(t, ok)
	assert.Equal(t, TypeString, tt)

	vt, ok := ds.ColumnType("views")
	require.True(t, ok)
	assert.Equal(t, TypeInt, vt)
}

func TestMapAddsColumnsInOrder(t *testing.T) {
	ds := FromRows([]Row{
		{"text": "aa"},
		{"text": "bbbb"},
		{"text": "c"},
	})

	next, err := ds.Map(func(r Row) (map[string]any, error) {
		return map[string]any{"__byte_count__text": len(r["text"].(string))}, nil
	})
	require.NoError(t, err)

	// Output ordering equals input row ordering.
	assert.Equal(t, []any{2, 4, 1}, next.ColumnValues("__byte_count__text"))

	// The original dataset is untouched.
	assert.False(t, ds.HasColumn("__byte_count__text"))

	ct, ok := next.ColumnType("__byte_count__text")
	require.True(t, ok)
	assert.Equal(t, TypeInt, ct)
}

func TestMapReplacesColumnWholesale(t *testing.T) {
	ds := FromRows([]Row{
		{"text": "x", "__tag__junk": true},
		{"text": "y", "__tag__junk": true},
	})

	next, err := ds.Map(func(r Row) (map[string]any, error) {
		return map[string]any{"__tag__junk": false}, nil
	})
	require.NoError(t, err)

	assert.Equal(t, []any{false, false}, next.ColumnValues("__tag__junk"))
	// Replaced column keeps its schema position.
	assert.Equal(t, ds.ColumnNames(), next.ColumnNames())
}

func TestMapErrorLeavesDatasetUntouched(t *testing.T) {
	ds := FromRows([]Row{
		{"text": "ok"},
		{"text": "boom"},
	})

	boom := errors.New("analyzer failure")
	next, err := ds.Map(func(r Row) (map[string]any, error) {
		if r["text"] == "boom" {
			return nil, boom
		}
		return map[string]any{"__tag__t": true}, nil
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, next)
	assert.False(t, ds.HasColumn("__tag__t"))
}

func TestMapHandsOutRowCopies(t *testing.T) {
	ds := FromRows([]Row{{"text": "orig"}})

	_, err := ds.Map(func(r Row) (map[string]any, error) {
		r["text"] = "mutated"
		return map[string]any{}, nil
	})
	require.NoError(t, err)

	v, ok := ds.Value(0, "text")
	require.True(t, ok)
	assert.Equal(t, "orig", v)
}

func TestSparseRows(t *testing.T) {
	ds := FromRows([]Row{
		{"a": "x", "b": "y"},
		{"a": "z"},
	})

	_, ok := ds.Value(1, "b")
	assert.False(t, ok)
	assert.Equal(t, []any{"y", nil}, ds.ColumnValues("b"))
}

func TestMixedNumericTypeNarrowsToFloat(t *testing.T) {
	ds := FromRows([]Row{
		{"n": 1},
		{"n": 2.5},
	})
	nt, ok := ds.ColumnType("n")
	require.True(t, ok)
	assert.Equal(t, TypeFloat, nt)
}
