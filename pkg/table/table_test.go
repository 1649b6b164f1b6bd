package table

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSV(t *testing.T) {
	source := "name,age\nalice,30\nbob,25\n"

	tbl, err := ReadCSV(strings.NewReader(source))
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "age"}, tbl.Columns)
	assert.Equal(t, [][]string{{"alice", "30"}, {"bob", "25"}}, tbl.Rows)
	assert.Equal(t, 2, tbl.NumRows())
	assert.Equal(t, 2, tbl.NumColumns())
}

func TestReadCSVEmpty(t *testing.T) {
	tbl, err := ReadCSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.NumRows())
	assert.Equal(t, 0, tbl.NumColumns())
}

func TestReadCSVMalformed(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("a,\"b\nc"))
	assert.Error(t, err)
}

func TestNumRowsNilTable(t *testing.T) {
	var tbl *Table
	assert.Equal(t, 0, tbl.NumRows())
	assert.Equal(t, 0, tbl.NumColumns())
}

func TestNumColumnsNoHeader(t *testing.T) {
	tbl := &Table{Rows: [][]string{{"a", "b", "c"}}}
	assert.Equal(t, 3, tbl.NumColumns())
}
