package ports

import (
	"context"

	"github.com/jhoicas/pharmacy-inventory/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando el repositorio atado a esa tx.
// Si fn devuelve error se hace Rollback; si no, Commit. Las fallas de begin/commit
// se devuelven como *domain.PersistenceError.
type TxRunner interface {
	Run(ctx context.Context, fn func(stockRepo repository.StockRepository) error) error
}

// ImportMetrics puerto de salida para instrumentar las importaciones masivas.
type ImportMetrics interface {
	ObserveImport(status string, inserted, updated, failed int, elapsedSeconds float64)
}

// NopImportMetrics implementación vacía (tests, CLI).
type NopImportMetrics struct{}

func (NopImportMetrics) ObserveImport(string, int, int, int, float64) {}

// StockReportGenerator genera el reporte PDF del inventario.
type StockReportGenerator interface {
	GenerateStockReport(ctx context.Context, report StockReport) ([]byte, error)
}

// StockSheetExporter exporta el inventario a una hoja de cálculo (.xlsx).
type StockSheetExporter interface {
	ExportStock(ctx context.Context, report StockReport) ([]byte, error)
}
