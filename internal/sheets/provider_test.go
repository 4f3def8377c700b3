package sheets

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestRowsFromValues(t *testing.T) {
	tests := []struct {
		name   string
		values [][]interface{}
		want   int
	}{
		{
			name: "header plus two rows",
			values: [][]interface{}{
				{"DATA DA NAO CONFORMIDADE", "DEPARTAMENTO RESPONSÁVEL"},
				{"01/02/2024", "Produção"},
				{"02/02/2024", "Qualidade"},
			},
			want: 2,
		},
		{
			name:   "empty grid",
			values: nil,
			want:   0,
		},
		{
			name: "header only",
			values: [][]interface{}{
				{"DATA DA NAO CONFORMIDADE"},
			},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := rowsFromValues(tt.values)
			assert.Len(t, rows, tt.want)
		})
	}
}

func TestRowsFromValues_ShortRowsPadded(t *testing.T) {
	rows := rowsFromValues([][]interface{}{
		{"A", "B", "C"},
		{"1"},
	})

	require.Len(t, rows, 1)
	assert.Equal(t, "1", rows[0]["A"])
	assert.Equal(t, "", rows[0]["B"])
	assert.Equal(t, "", rows[0]["C"])
}

func TestRowsFromValues_CoercesNonStringCells(t *testing.T) {
	rows := rowsFromValues([][]interface{}{
		{"SETOR DO RESPONSÁVEL", "CLIENTE (Caso tenha)"},
		{42, nil},
	})

	require.Len(t, rows, 1)
	assert.Equal(t, "42", rows[0]["SETOR DO RESPONSÁVEL"])
	assert.Equal(t, "", rows[0]["CLIENTE (Caso tenha)"])
}

func TestRowsFromValues_BlankHeaderColumnsIgnored(t *testing.T) {
	rows := rowsFromValues([][]interface{}{
		{"A", "", "C"},
		{"1", "ghost", "3"},
	})

	require.Len(t, rows, 1)
	assert.Equal(t, "1", rows[0]["A"])
	assert.Equal(t, "3", rows[0]["C"])
	assert.NotContains(t, rows[0], "")
}

func TestWorkbook_FetchRows(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ncs.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"DATA DA NAO CONFORMIDADE", "DEPARTAMENTO RESPONSÁVEL"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"10/03/2024", "Logística"}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]interface{}{"11/03/2024", "Produção"}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	wb := NewWorkbook(path, "", nil)
	rows, err := wb.FetchRows(context.Background())

	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Logística", rows[0]["DEPARTAMENTO RESPONSÁVEL"])
	assert.Equal(t, "11/03/2024", rows[1]["DATA DA NAO CONFORMIDADE"])
}

func TestWorkbook_FetchRows_MissingFile(t *testing.T) {
	wb := NewWorkbook(filepath.Join(t.TempDir(), "missing.xlsx"), "", nil)
	rows, err := wb.FetchRows(context.Background())

	require.Error(t, err)
	assert.Nil(t, rows)
}

func TestNewClient_RequiresSpreadsheetID(t *testing.T) {
	_, err := NewClient(context.Background(), Config{Worksheet: "Form"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "spreadsheet ID")
}
