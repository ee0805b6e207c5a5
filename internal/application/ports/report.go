package ports

import (
	"time"

	"github.com/jhoicas/pharmacy-inventory/internal/application/dto"
	"github.com/jhoicas/pharmacy-inventory/internal/domain/entity"
	"github.com/jhoicas/pharmacy-inventory/internal/domain/repository"
)

// StockReport datos de entrada del reporte de inventario (PDF/Excel).
type StockReport struct {
	Title       string
	GeneratedAt time.Time
	Filter      repository.StockFilter
	Items       []*entity.Stock
	Summary     dto.StockSummary
}
