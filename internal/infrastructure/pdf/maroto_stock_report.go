// Package pdf implementa el reporte PDF del inventario de la farmacia con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + filtro      │  Fecha de generación         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Nombre | Categoría | Compra | Venta | Cant | Vence   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Unidades / Valor total / Ganancia potencial        │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/pharmacy-inventory/internal/application/ports"
	"github.com/jhoicas/pharmacy-inventory/internal/domain/entity"
	"github.com/jhoicas/pharmacy-inventory/internal/domain/inventory"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 46, Green: 125, Blue: 50}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorExpired = &props.Color{Red: 198, Green: 40, Blue: 40}
)

// nameColumnLimit caracteres visibles del nombre en la tabla.
const nameColumnLimit = 45

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoStockReport implementa ports.StockReportGenerator usando Maroto v2.
type MarotoStockReport struct {
	printer *message.Printer
}

var _ ports.StockReportGenerator = (*MarotoStockReport)(nil)

// NewMarotoStockReport construye el generador (montos con formato es-CO: 1.234,50).
func NewMarotoStockReport() *MarotoStockReport {
	return &MarotoStockReport{printer: message.NewPrinter(language.MustParse("es-CO"))}
}

// GenerateStockReport genera el PDF y devuelve sus bytes. Los artículos vencidos se resaltan en rojo.
func (g *MarotoStockReport) GenerateStockReport(ctx context.Context, report ports.StockReport) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(report.Title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	m.AddRows(g.tableDetailRows(report.Items, report.GeneratedAt)...)
	if len(report.Items) == 0 {
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New("No hay artículos para los filtros seleccionados.", props.Text{
				Size: 9, Align: align.Center, Color: colorGray, Top: 3,
			}),
		)))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(g.totalsRow(report))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título y filtros (izq), fecha de generación (der).
func headerRow(report ports.StockReport) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New(report.Title, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(filterLabel(report), props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("Generado: "+report.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla con fondo de color.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).WithStyle(&props.Cell{BackgroundColor: colorPrimary}).Add(
		h("Nombre", 4, align.Left),
		h("Categoría", 2, align.Left),
		h("Compra", 1, align.Right),
		h("Venta", 2, align.Right),
		h("Cant.", 1, align.Center),
		h("Vence", 2, align.Center),
	)
}

// tableDetailRows: una fila por artículo.
func (g *MarotoStockReport) tableDetailRows(items []*entity.Stock, now time.Time) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, s := range items {
		var color *props.Color
		expiry := "-"
		if s.ExpiryDate != nil {
			expiry = s.ExpiryDate.Format("02/01/2006")
		}
		if s.IsExpired(now) {
			color = colorExpired
			expiry += " (vencido)"
		}
		cell := func(a align.Type) props.Text {
			return props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1, Color: color}
		}
		result = append(result, row.New(7).Add(
			col.New(4).Add(text.New(inventory.Truncate(s.Name, nameColumnLimit), cell(align.Left))),
			col.New(2).Add(text.New(nonEmpty(s.Category, "-"), cell(align.Left))),
			col.New(1).Add(text.New(g.money(s.BuyPrice), cell(align.Right))),
			col.New(2).Add(text.New(g.money(s.SellPrice), cell(align.Right))),
			col.New(1).Add(text.New(fmt.Sprintf("%d", s.StockQuantity), cell(align.Center))),
			col.New(2).Add(text.New(expiry, cell(align.Center))),
		))
	}
	return result
}

// totalsRow: bloque de totales alineado a la derecha.
func (g *MarotoStockReport) totalsRow(report ports.StockReport) core.Row {
	label := func(top float64) props.Text {
		return props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top}
	}
	value := func(top float64) props.Text {
		return props.Text{Size: 9, Align: align.Right, Right: 1, Top: top}
	}
	// La ganancia potencial es el total destacado del reporte.
	highlight := func(p props.Text) props.Text {
		p.Style = fontstyle.Bold
		p.Size = 10
		p.Color = colorPrimary
		return p
	}

	return row.New(20).Add(
		col.New(6),
		col.New(3).Add(
			text.New("Unidades:", label(0)),
			text.New("Valor total:", label(6)),
			text.New("Ganancia potencial:", highlight(label(12))),
		),
		col.New(3).Add(
			text.New(g.printer.Sprintf("%d", report.Summary.TotalItems), value(0)),
			text.New(g.money(report.Summary.TotalValue), value(6)),
			text.New(g.money(report.Summary.TotalProfitPotential), highlight(value(12))),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

// money formatea con separador de miles y 2 decimales según el locale. Ej: 25000 → "$25.000,00".
func (g *MarotoStockReport) money(v float64) string {
	return g.printer.Sprintf("$%.2f", v)
}

func filterLabel(report ports.StockReport) string {
	var parts []string
	if report.Filter.Category != "" {
		parts = append(parts, "Categoría: "+report.Filter.Category)
	}
	if report.Filter.Search != "" {
		parts = append(parts, "Búsqueda: "+report.Filter.Search)
	}
	if len(parts) == 0 {
		return "Todos los artículos"
	}
	return strings.Join(parts, "   |   ")
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
