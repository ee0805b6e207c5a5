package spreadsheet_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"

	"github.com/jhoicas/pharmacy-inventory/internal/infrastructure/spreadsheet"
)

// buildXLSX arma un libro en memoria. rows[0] es el encabezado.
func buildXLSX(t *testing.T, rows [][]any, setup func(f *excelize.File)) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &r))
	}
	if setup != nil {
		setup(f)
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

// ── Formato ──

func TestAllowedFile(t *testing.T) {
	assert.True(t, spreadsheet.AllowedFile("inventario.xlsx"))
	assert.True(t, spreadsheet.AllowedFile("INVENTARIO.XLS"))
	assert.True(t, spreadsheet.AllowedFile("datos.csv"))
	assert.False(t, spreadsheet.AllowedFile("datos.txt"))
	assert.False(t, spreadsheet.AllowedFile("sin_extension"))
}

func TestRead_XLSRechazado(t *testing.T) {
	_, err := spreadsheet.Read("viejo.xls", strings.NewReader("binario"))
	assert.ErrorIs(t, err, spreadsheet.ErrUnsupportedFormat)
}

// ── XLSX ──

func TestReadXLSX_EncabezadoYFilas(t *testing.T) {
	buf := buildXLSX(t, [][]any{
		{" name ", "buy_price", "sell_price", "stock_quantity", "category"},
		{"Acetaminofén 500mg", 1200, 1800.5, 30, "Analgésicos"},
		{nil, nil, nil, nil, nil},
		{"Ibuprofeno", "abc", 900, 5},
	}, nil)

	ds, err := spreadsheet.Read("inventario.xlsx", buf)

	require.NoError(t, err)
	assert.Equal(t, []string{"name", "buy_price", "sell_price", "stock_quantity", "category"}, ds.Columns,
		"los encabezados se recortan")
	require.Len(t, ds.Rows, 2, "la fila vacía se omite")
	assert.Equal(t, "Acetaminofén 500mg", ds.Rows[0]["name"])
	assert.Equal(t, "1800.5", ds.Rows[0]["sell_price"])
	assert.Equal(t, "abc", ds.Rows[1]["buy_price"])
	assert.Nil(t, ds.Rows[1]["category"], "celda faltante = nil")
}

func TestReadXLSX_CeldaConFormatoFecha(t *testing.T) {
	expiry := time.Date(2027, 3, 15, 0, 0, 0, 0, time.UTC)
	buf := buildXLSX(t, [][]any{
		{"name", "buy_price", "sell_price", "stock_quantity", "expiry_date"},
		{"Loratadina", 500, 800, 10, expiry},
		{"Amoxicilina", 700, 1100, 4, 45000},
	}, func(f *excelize.File) {
		style, err := f.NewStyle(&excelize.Style{NumFmt: 14})
		require.NoError(t, err)
		require.NoError(t, f.SetCellStyle("Sheet1", "E2", "E2", style))
	})

	ds, err := spreadsheet.ReadXLSX(buf)

	require.NoError(t, err)
	require.Len(t, ds.Rows, 2)
	got, ok := ds.Rows[0]["expiry_date"].(time.Time)
	require.True(t, ok, "una celda con formato de fecha se entrega como time.Time")
	assert.Equal(t, "2027-03-15", got.Format("2006-01-02"))
	assert.Equal(t, "45000", ds.Rows[1]["expiry_date"], "un número sin formato de fecha queda como texto")
}

func TestReadXLSX_ArchivoInvalido(t *testing.T) {
	_, err := spreadsheet.ReadXLSX(strings.NewReader("no es un zip"))
	assert.Error(t, err)
}

// ── CSV ──

func TestReadCSV_UTF8ConBOMyPuntoYComa(t *testing.T) {
	data := "\xEF\xBB\xBFname;buy_price;sell_price;stock_quantity\nJarabe para la tos;3500;5200;12\n;;;\n"

	ds, err := spreadsheet.Read("datos.csv", strings.NewReader(data))

	require.NoError(t, err)
	assert.Equal(t, []string{"name", "buy_price", "sell_price", "stock_quantity"}, ds.Columns)
	require.Len(t, ds.Rows, 1)
	assert.Equal(t, "Jarabe para la tos", ds.Rows[0]["name"])
	assert.Equal(t, "12", ds.Rows[0]["stock_quantity"])
}

func TestReadCSV_Windows1252(t *testing.T) {
	encoded, err := charmap.Windows1252.NewEncoder().String("name,category,buy_price,sell_price,stock_quantity\nSuero oral,Hidratación,1000,1500,8\n")
	require.NoError(t, err)

	ds, err := spreadsheet.ReadCSV(strings.NewReader(encoded))

	require.NoError(t, err)
	require.Len(t, ds.Rows, 1)
	assert.Equal(t, "Hidratación", ds.Rows[0]["category"])
}

func TestReadCSV_Vacio(t *testing.T) {
	_, err := spreadsheet.ReadCSV(strings.NewReader(""))
	assert.ErrorIs(t, err, spreadsheet.ErrEmptyFile)
}
