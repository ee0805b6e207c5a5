package repository

import (
	"context"

	"github.com/jhoicas/pharmacy-inventory/internal/domain/entity"
)

// StockFilter filtros del listado. Campos vacíos no filtran.
type StockFilter struct {
	Category string // coincidencia exacta
	Search   string // subcadena sin distinguir mayúsculas sobre name o generic_name
}

// QuantityUpdate par id/cantidad para la actualización masiva de existencias.
type QuantityUpdate struct {
	ID       int64 `json:"id"`
	Quantity int   `json:"quantity"`
}

// StockRepository define el puerto de persistencia para Stock (DIP).
// Usable con pool o dentro de una transacción (ver TxRunner).
type StockRepository interface {
	List(ctx context.Context, filter StockFilter) ([]*entity.Stock, error)
	DistinctCategories(ctx context.Context) ([]string, error)
	// GetByID devuelve domain.ErrNotFound si no existe.
	GetByID(ctx context.Context, id int64) (*entity.Stock, error)
	// GetByName devuelve (nil, nil) si no existe.
	GetByName(ctx context.Context, name string) (*entity.Stock, error)
	Create(ctx context.Context, stock *entity.Stock) error
	Update(ctx context.Context, stock *entity.Stock) error
	Delete(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) (int64, error)
	// UpdateQuantities ignora los ids inexistentes y devuelve cuántas filas cambió.
	UpdateQuantities(ctx context.Context, updates []QuantityUpdate) (int64, error)
}
