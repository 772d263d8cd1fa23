package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTable(t *testing.T) {
	tests := []struct {
		name        string
		columns     []string
		rows        [][]Value
		wantErr     bool
		errContains string
	}{
		{
			name:    "valid table",
			columns: []string{"id", "name"},
			rows:    [][]Value{{Int(1), Text("a")}, {Int(2), Missing()}},
		},
		{
			name:        "duplicate column",
			columns:     []string{"id", "id"},
			wantErr:     true,
			errContains: "duplicate column",
		},
		{
			name:        "empty column name",
			columns:     []string{"id", ""},
			wantErr:     true,
			errContains: "empty name",
		},
		{
			name:        "ragged row",
			columns:     []string{"id", "name"},
			rows:        [][]Value{{Int(1)}},
			wantErr:     true,
			errContains: "row 0 has 1 values",
		},
		{
			name:    "no rows",
			columns: []string{"id"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := NewTable(tt.columns, tt.rows)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, len(tt.rows), tbl.NumRows())
			assert.Equal(t, len(tt.columns), tbl.NumColumns())
		})
	}
}

func TestTableIsASnapshot(t *testing.T) {
	rows := [][]Value{{Int(1), Text("a")}}
	tbl := MustTable([]string{"id", "name"}, rows)

	rows[0][0] = Int(99)
	v, ok := tbl.Cell(0, "id")
	require.True(t, ok)
	assert.Equal(t, Int(1), v)

	col, _ := tbl.Column("id")
	col[0] = Int(42)
	v, _ = tbl.Cell(0, "id")
	assert.Equal(t, Int(1), v)

	cols := tbl.Columns()
	cols[0] = "changed"
	assert.True(t, tbl.HasColumn("id"))
}

func TestFromRecords(t *testing.T) {
	tbl, err := FromRecords([]string{"id", "email"}, []map[string]Value{
		{"id": Int(1), "email": Text("john@email.com")},
		{"id": Int(2)},
	})
	require.NoError(t, err)

	v, ok := tbl.Cell(1, "email")
	require.True(t, ok)
	assert.True(t, v.IsMissing())
	assert.Equal(t, map[string]Value{"id": Int(2), "email": Missing()}, tbl.Record(1))

	_, err = FromRecords([]string{"id"}, []map[string]Value{{"other": Int(1)}})
	assert.Error(t, err)
}

func TestTableCellOutOfRange(t *testing.T) {
	tbl := MustTable([]string{"id"}, [][]Value{{Int(1)}})

	_, ok := tbl.Cell(1, "id")
	assert.False(t, ok)
	_, ok = tbl.Cell(0, "missing")
	assert.False(t, ok)
	assert.Nil(t, tbl.Row(-1))
}

func TestTableJSON(t *testing.T) {
	payload := `{"columns":["id","age"],"rows":[[1001,25],[1002,null],[1003,"30"]]}`

	var tbl Table
	require.NoError(t, json.Unmarshal([]byte(payload), &tbl))
	assert.Equal(t, 3, tbl.NumRows())

	v, _ := tbl.Cell(2, "age")
	assert.Equal(t, Text("30"), v)

	out, err := json.Marshal(&tbl)
	require.NoError(t, err)
	assert.JSONEq(t, payload, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"columns":["a"],"rows":[[1,2]]}`), &tbl))
}
