package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableColumns(t *testing.T) {
	table := NewTable([]string{"a", "b"})
	require.NoError(t, table.AppendRow([]string{"1", "2"}))
	require.NoError(t, table.AppendRow([]string{"3", "4"}))

	assert.Equal(t, 0, table.ColumnIndex("a"))
	assert.Equal(t, -1, table.ColumnIndex("missing"))
	assert.True(t, table.HasColumn("b"))
	assert.Equal(t, 2, table.RowCount())

	values, err := table.Column("b")
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "4"}, values)

	_, err = table.Column("missing")
	require.Error(t, err)
}

func TestTableMutations(t *testing.T) {
	table := NewTable([]string{"a"})
	require.NoError(t, table.AppendRow([]string{"1"}))

	require.Error(t, table.AppendRow([]string{"1", "2"}))
	require.Error(t, table.SetColumn("missing", []string{"x"}))
	require.Error(t, table.SetColumn("a", []string{"x", "y"}))
	require.NoError(t, table.SetColumn("a", []string{"9"}))

	require.Error(t, table.AddColumn("a", []string{"x"}))
	require.NoError(t, table.AddColumn("b", []string{"2"}))
	assert.Equal(t, []string{"9", "2"}, table.Rows[0])
}

func TestTableCopyIsDeep(t *testing.T) {
	table := NewTable([]string{"a"})
	require.NoError(t, table.AppendRow([]string{"1"}))

	clone := table.Copy()
	clone.Rows[0][0] = "changed"
	clone.Columns[0] = "renamed"

	assert.Equal(t, "1", table.Rows[0][0])
	assert.Equal(t, "a", table.Columns[0])
}
