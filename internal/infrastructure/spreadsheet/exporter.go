package spreadsheet

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/pharmacy-inventory/internal/application/inventory"
	"github.com/jhoicas/pharmacy-inventory/internal/application/ports"
)

const (
	stockSheet   = "Inventario"
	summarySheet = "Resumen"
	// formato integrado 14 (m/d/yyyy); al reimportar se reconoce como fecha.
	dateNumFmt = 14
)

// exportColumns las primeras columnas coinciden con las de importación para poder reimportar el archivo.
var exportColumns = []string{
	inventory.ColumnName,
	inventory.ColumnGenericName,
	inventory.ColumnCategory,
	inventory.ColumnBuyPrice,
	inventory.ColumnSellPrice,
	inventory.ColumnStockQuantity,
	inventory.ColumnExpiryDate,
	"profit_per_unit",
	"total_value",
}

// XLSXExporter implementa ports.StockSheetExporter con excelize.
type XLSXExporter struct{}

var _ ports.StockSheetExporter = (*XLSXExporter)(nil)

// NewXLSXExporter crea el exportador.
func NewXLSXExporter() *XLSXExporter {
	return &XLSXExporter{}
}

// ExportStock genera un libro con la hoja de inventario y una hoja de resumen.
func (e *XLSXExporter) ExportStock(ctx context.Context, report ports.StockReport) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", stockSheet); err != nil {
		return nil, fmt.Errorf("renombrar hoja: %w", err)
	}
	if err := writeStockSheet(f, report); err != nil {
		return nil, err
	}
	if err := writeSummarySheet(f, report); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("escribir xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func writeStockSheet(f *excelize.File, report ports.StockReport) error {
	header := make([]any, len(exportColumns))
	for i, c := range exportColumns {
		header[i] = c
	}
	if err := f.SetSheetRow(stockSheet, "A1", &header); err != nil {
		return fmt.Errorf("escribir encabezado: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"2E7D32"}},
	})
	if err != nil {
		return fmt.Errorf("estilo encabezado: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(exportColumns))
	if err := f.SetCellStyle(stockSheet, "A1", lastCol+"1", headerStyle); err != nil {
		return fmt.Errorf("aplicar estilo encabezado: %w", err)
	}

	for i, s := range report.Items {
		var expiry any
		if s.ExpiryDate != nil {
			expiry = *s.ExpiryDate
		}
		row := []any{
			s.Name, s.GenericName, s.Category, s.BuyPrice, s.SellPrice, s.StockQuantity,
			expiry, s.ProfitPerUnit().InexactFloat64(), s.TotalValue().InexactFloat64(),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(stockSheet, cell, &row); err != nil {
			return fmt.Errorf("escribir fila %d: %w", i+2, err)
		}
	}

	if len(report.Items) > 0 {
		dateStyle, err := f.NewStyle(&excelize.Style{NumFmt: dateNumFmt})
		if err != nil {
			return fmt.Errorf("estilo fecha: %w", err)
		}
		end := fmt.Sprintf("G%d", len(report.Items)+1)
		if err := f.SetCellStyle(stockSheet, "G2", end, dateStyle); err != nil {
			return fmt.Errorf("aplicar estilo fecha: %w", err)
		}
	}
	_ = f.SetColWidth(stockSheet, "A", "C", 28)
	_ = f.SetColWidth(stockSheet, "D", lastCol, 14)
	return f.SetPanes(stockSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
}

func writeSummarySheet(f *excelize.File, report ports.StockReport) error {
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("crear hoja resumen: %w", err)
	}
	rows := [][]any{
		{"Reporte", report.Title},
		{"Generado", report.GeneratedAt.Format("2006-01-02 15:04:05")},
		{"Categoría", report.Filter.Category},
		{"Búsqueda", report.Filter.Search},
		{"Total productos", report.Summary.TotalItems},
		{"Valor total", report.Summary.TotalValue},
		{"Ganancia potencial", report.Summary.TotalProfitPotential},
	}
	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(summarySheet, cell, &r); err != nil {
			return fmt.Errorf("escribir resumen: %w", err)
		}
	}
	_ = f.SetColWidth(summarySheet, "A", "A", 22)
	_ = f.SetColWidth(summarySheet, "B", "B", 30)
	return nil
}
