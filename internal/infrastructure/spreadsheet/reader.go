// Package spreadsheet lee y escribe hojas de cálculo de inventario (.xlsx con excelize, .csv).
package spreadsheet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"

	"github.com/jhoicas/pharmacy-inventory/internal/application/inventory"
)

var (
	// ErrUnsupportedFormat extensión no soportada (incluye .xls binario antiguo).
	ErrUnsupportedFormat = errors.New("formato de archivo no soportado: use .xlsx o .csv")
	// ErrEmptyFile el archivo no tiene fila de encabezado.
	ErrEmptyFile = errors.New("el archivo está vacío o no tiene encabezado")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// AllowedFile valida la extensión del archivo subido (xlsx, xls, csv).
// Los .xls pasan el filtro pero Read los rechaza con ErrUnsupportedFormat.
func AllowedFile(filename string) bool {
	switch extension(filename) {
	case "xlsx", "xls", "csv":
		return true
	}
	return false
}

// Read lee el archivo según su extensión. Primera fila = encabezado; filas vacías se omiten.
func Read(filename string, r io.Reader) (inventory.Dataset, error) {
	switch extension(filename) {
	case "xlsx":
		return ReadXLSX(r)
	case "csv":
		return ReadCSV(r)
	default:
		return inventory.Dataset{}, ErrUnsupportedFormat
	}
}

// ReadXLSX lee la primera hoja. Las celdas con formato de fecha se devuelven como time.Time.
func ReadXLSX(r io.Reader) (inventory.Dataset, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return inventory.Dataset{}, fmt.Errorf("abrir xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return inventory.Dataset{}, ErrEmptyFile
	}
	sheet := sheets[0]

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return inventory.Dataset{}, fmt.Errorf("leer hoja %q: %w", sheet, err)
	}
	dates := &dateStyles{f: f, cache: map[int]bool{}}
	return buildDataset(rows, func(rowIdx, colIdx int, raw string) any {
		serial, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return raw
		}
		cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
		if err != nil || !dates.isDate(sheet, cell) {
			return raw
		}
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return raw
		}
		return t
	})
}

// ReadCSV lee un CSV (separador , o ;). Si no es UTF-8 válido se decodifica como Windows-1252,
// que es lo que exporta Excel en Windows.
func ReadCSV(r io.Reader) (inventory.Dataset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return inventory.Dataset{}, fmt.Errorf("leer csv: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		if data, err = charmap.Windows1252.NewDecoder().Bytes(data); err != nil {
			return inventory.Dataset{}, fmt.Errorf("decodificar csv: %w", err)
		}
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = detectDelimiter(data)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return inventory.Dataset{}, fmt.Errorf("parsear csv: %w", err)
	}
	return buildDataset(rows, func(_, _ int, raw string) any { return raw })
}

// buildDataset convierte filas de texto en el Dataset. convert decide el tipo de cada celda no vacía.
func buildDataset(rows [][]string, convert func(rowIdx, colIdx int, raw string) any) (inventory.Dataset, error) {
	if len(rows) == 0 {
		return inventory.Dataset{}, ErrEmptyFile
	}
	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(h)
	}
	if isBlank(header) {
		return inventory.Dataset{}, ErrEmptyFile
	}

	ds := inventory.Dataset{Columns: header}
	for i := 1; i < len(rows); i++ {
		if isBlank(rows[i]) {
			continue
		}
		row := make(inventory.Row, len(header))
		for c, col := range header {
			if col == "" {
				continue
			}
			if c >= len(rows[i]) || strings.TrimSpace(rows[i][c]) == "" {
				row[col] = nil
				continue
			}
			row[col] = convert(i, c, rows[i][c])
		}
		ds.Rows = append(ds.Rows, row)
	}
	return ds, nil
}

// dateStyles detecta (con caché por estilo) si una celda tiene formato numérico de fecha.
type dateStyles struct {
	f     *excelize.File
	cache map[int]bool
}

func (d *dateStyles) isDate(sheet, cell string) bool {
	styleID, err := d.f.GetCellStyle(sheet, cell)
	if err != nil || styleID == 0 {
		return false
	}
	if v, ok := d.cache[styleID]; ok {
		return v
	}
	style, err := d.f.GetStyle(styleID)
	isDate := err == nil && style != nil && isDateFormat(style.NumFmt, style.CustomNumFmt)
	d.cache[styleID] = isDate
	return isDate
}

// isDateFormat formatos integrados de fecha de Excel o personalizados con día/año.
func isDateFormat(numFmt int, custom *string) bool {
	switch {
	case numFmt >= 14 && numFmt <= 22, numFmt >= 27 && numFmt <= 36, numFmt >= 45 && numFmt <= 47,
		numFmt >= 50 && numFmt <= 58:
		return true
	}
	if custom == nil {
		return false
	}
	return strings.ContainsAny(stripFormatLiterals(*custom), "dDyY")
}

// stripFormatLiterals quita texto entre comillas y secciones [..] (colores, locales) del formato.
func stripFormatLiterals(format string) string {
	var (
		sb       strings.Builder
		inQuote  bool
		inSquare bool
	)
	for _, r := range format {
		switch {
		case r == '"':
			inQuote = !inQuote
		case inQuote:
		case r == '[':
			inSquare = true
		case r == ']':
			inSquare = false
		case inSquare:
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func detectDelimiter(data []byte) rune {
	firstLine := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		firstLine = data[:i]
	}
	if bytes.Count(firstLine, []byte{';'}) > bytes.Count(firstLine, []byte{','}) {
		return ';'
	}
	return ','
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func extension(filename string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
}
