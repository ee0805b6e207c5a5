package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/pharmacy-inventory/internal/application/ports"
	"github.com/jhoicas/pharmacy-inventory/internal/domain/repository"
)

// ReportUseCase genera los reportes descargables del inventario (PDF y Excel).
type ReportUseCase struct {
	stocks   *StockUseCase
	pdf      ports.StockReportGenerator
	exporter ports.StockSheetExporter
	now      func() time.Time
}

// NewReportUseCase construye el caso de uso inyectando los generadores.
func NewReportUseCase(stocks *StockUseCase, pdf ports.StockReportGenerator, exporter ports.StockSheetExporter) *ReportUseCase {
	return &ReportUseCase{stocks: stocks, pdf: pdf, exporter: exporter, now: time.Now}
}

// StockPDF devuelve el PDF del inventario filtrado y el nombre de archivo sugerido.
func (uc *ReportUseCase) StockPDF(ctx context.Context, filter repository.StockFilter) ([]byte, string, error) {
	report, err := uc.build(ctx, filter)
	if err != nil {
		return nil, "", err
	}
	doc, err := uc.pdf.GenerateStockReport(ctx, *report)
	if err != nil {
		return nil, "", fmt.Errorf("reporte pdf: %w", err)
	}
	return doc, fmt.Sprintf("inventario_%s.pdf", report.GeneratedAt.Format("20060102")), nil
}

// StockXLSX devuelve el Excel del inventario filtrado y el nombre de archivo sugerido.
func (uc *ReportUseCase) StockXLSX(ctx context.Context, filter repository.StockFilter) ([]byte, string, error) {
	report, err := uc.build(ctx, filter)
	if err != nil {
		return nil, "", err
	}
	doc, err := uc.exporter.ExportStock(ctx, *report)
	if err != nil {
		return nil, "", fmt.Errorf("exportar xlsx: %w", err)
	}
	return doc, fmt.Sprintf("inventario_%s.xlsx", report.GeneratedAt.Format("20060102")), nil
}

func (uc *ReportUseCase) build(ctx context.Context, filter repository.StockFilter) (*ports.StockReport, error) {
	items, err := uc.stocks.ListEntities(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &ports.StockReport{
		Title:       "Inventario de farmacia",
		GeneratedAt: uc.now(),
		Filter:      filter,
		Items:       items,
		Summary:     Summarize(items),
	}, nil
}
