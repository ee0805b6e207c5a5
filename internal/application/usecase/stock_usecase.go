package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pharmacy-inventory/internal/application/dto"
	"github.com/jhoicas/pharmacy-inventory/internal/application/ports"
	"github.com/jhoicas/pharmacy-inventory/internal/domain"
	"github.com/jhoicas/pharmacy-inventory/internal/domain/entity"
	"github.com/jhoicas/pharmacy-inventory/internal/domain/inventory"
	"github.com/jhoicas/pharmacy-inventory/internal/domain/repository"
)

const (
	dateLayout      = "2006-01-02"
	timestampLayout = "2006-01-02 15:04:05"
)

// StockUseCase casos de uso CRUD del inventario. Las mutaciones corren en una transacción por llamada.
type StockUseCase struct {
	repo     repository.StockRepository
	txRunner ports.TxRunner
}

// NewStockUseCase construye el caso de uso. repo se usa para lecturas fuera de transacción.
func NewStockUseCase(repo repository.StockRepository, txRunner ports.TxRunner) *StockUseCase {
	return &StockUseCase{repo: repo, txRunner: txRunner}
}

// List lista el inventario filtrado (ordenado por nombre) con categorías y totales.
func (uc *StockUseCase) List(ctx context.Context, filter repository.StockFilter) (*dto.StockListResponse, error) {
	list, err := uc.ListEntities(ctx, filter)
	if err != nil {
		return nil, err
	}
	categories, err := uc.Categories(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.StockResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *ToStockResponse(s))
	}
	return &dto.StockListResponse{
		Items:      items,
		Categories: categories,
		Summary:    Summarize(list),
	}, nil
}

// ListEntities lista las entidades filtradas sin mapear (reportes, exportación).
func (uc *StockUseCase) ListEntities(ctx context.Context, filter repository.StockFilter) ([]*entity.Stock, error) {
	filter.Category = strings.TrimSpace(filter.Category)
	filter.Search = strings.TrimSpace(filter.Search)
	return uc.repo.List(ctx, filter)
}

// Categories devuelve las categorías no vacías (lista vacía, nunca nil).
func (uc *StockUseCase) Categories(ctx context.Context) ([]string, error) {
	categories, err := uc.repo.DistinctCategories(ctx)
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []string{}
	}
	return categories, nil
}

// GetByID obtiene un artículo; domain.ErrNotFound si no existe.
func (uc *StockUseCase) GetByID(ctx context.Context, id int64) (*dto.StockResponse, error) {
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToStockResponse(s), nil
}

// Create crea un artículo. Los textos largos se recortan a 200 caracteres.
func (uc *StockUseCase) Create(ctx context.Context, in dto.CreateStockRequest) (*dto.StockResponse, error) {
	name := clean(in.Name)
	if name == "" || in.BuyPrice == nil || in.SellPrice == nil || in.StockQuantity == nil {
		return nil, domain.ErrInvalidInput
	}
	if !entity.ValidQuantity(*in.StockQuantity) {
		return nil, domain.ErrInvalidInput
	}
	expiry, err := parseRequestDate(in.ExpiryDate)
	if err != nil {
		return nil, err
	}
	stock := &entity.Stock{
		Name:          name,
		GenericName:   clean(in.GenericName),
		Category:      clean(in.Category),
		BuyPrice:      *in.BuyPrice,
		SellPrice:     *in.SellPrice,
		StockQuantity: *in.StockQuantity,
		ExpiryDate:    expiry,
	}
	err = uc.txRunner.Run(ctx, func(repo repository.StockRepository) error {
		return repo.Create(ctx, stock)
	})
	if err != nil {
		return nil, err
	}
	return ToStockResponse(stock), nil
}

// Update actualiza los campos presentes del artículo.
func (uc *StockUseCase) Update(ctx context.Context, id int64, in dto.UpdateStockRequest) (*dto.StockResponse, error) {
	var out *entity.Stock
	err := uc.txRunner.Run(ctx, func(repo repository.StockRepository) error {
		stock, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if in.Name != nil {
			name := clean(*in.Name)
			if name == "" {
				return domain.ErrInvalidInput
			}
			stock.Name = name
		}
		if in.GenericName != nil {
			stock.GenericName = clean(*in.GenericName)
		}
		if in.Category != nil {
			stock.Category = clean(*in.Category)
		}
		if in.BuyPrice != nil {
			stock.BuyPrice = *in.BuyPrice
		}
		if in.SellPrice != nil {
			stock.SellPrice = *in.SellPrice
		}
		if in.StockQuantity != nil {
			if !entity.ValidQuantity(*in.StockQuantity) {
				return domain.ErrInvalidInput
			}
			stock.StockQuantity = *in.StockQuantity
		}
		if in.ExpiryDate != nil {
			expiry, err := parseRequestDate(*in.ExpiryDate)
			if err != nil {
				return err
			}
			stock.ExpiryDate = expiry
		}
		if err := repo.Update(ctx, stock); err != nil {
			return err
		}
		out = stock
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ToStockResponse(out), nil
}

// Delete elimina un artículo; domain.ErrNotFound si no existe.
func (uc *StockUseCase) Delete(ctx context.Context, id int64) error {
	return uc.txRunner.Run(ctx, func(repo repository.StockRepository) error {
		return repo.Delete(ctx, id)
	})
}

// ClearAll elimina todo el inventario y devuelve cuántas filas borró.
func (uc *StockUseCase) ClearAll(ctx context.Context) (int64, error) {
	var deleted int64
	err := uc.txRunner.Run(ctx, func(repo repository.StockRepository) error {
		n, err := repo.DeleteAll(ctx)
		deleted = n
		return err
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

// BulkUpdateQuantity aplica todas las cantidades en un solo lote. Ids inexistentes se ignoran.
func (uc *StockUseCase) BulkUpdateQuantity(ctx context.Context, in []dto.QuantityUpdateRequest) (*dto.BulkQuantityResponse, error) {
	updates := make([]repository.QuantityUpdate, 0, len(in))
	for _, u := range in {
		if u.Quantity == nil || !entity.ValidQuantity(*u.Quantity) {
			return nil, domain.ErrInvalidInput
		}
		updates = append(updates, repository.QuantityUpdate{ID: u.ID, Quantity: *u.Quantity})
	}
	var updated int64
	err := uc.txRunner.Run(ctx, func(repo repository.StockRepository) error {
		n, err := repo.UpdateQuantities(ctx, updates)
		updated = n
		return err
	})
	if err != nil {
		return nil, err
	}
	return &dto.BulkQuantityResponse{Requested: len(updates), Updated: updated}, nil
}

// Summarize calcula los totales del listado redondeados a 2 decimales.
func Summarize(list []*entity.Stock) dto.StockSummary {
	var items int
	value, profit := decimal.Zero, decimal.Zero
	for _, s := range list {
		items += s.StockQuantity
		value = value.Add(decimal.NewFromFloat(s.SellPrice).Mul(decimal.NewFromInt(int64(s.StockQuantity))))
		profit = profit.Add(s.ProfitPotential())
	}
	return dto.StockSummary{
		TotalItems:           items,
		TotalValue:           value.Round(2).InexactFloat64(),
		TotalProfitPotential: profit.Round(2).InexactFloat64(),
	}
}

// ToStockResponse mapea la entidad a la salida JSON.
func ToStockResponse(s *entity.Stock) *dto.StockResponse {
	if s == nil {
		return nil
	}
	out := &dto.StockResponse{
		ID:            s.ID,
		Name:          s.Name,
		GenericName:   s.GenericName,
		Category:      s.Category,
		BuyPrice:      s.BuyPrice,
		SellPrice:     s.SellPrice,
		StockQuantity: s.StockQuantity,
		ProfitPerUnit: s.ProfitPerUnit().InexactFloat64(),
		TotalValue:    s.TotalValue().InexactFloat64(),
		CreatedAt:     s.CreatedAt.Format(timestampLayout),
		UpdatedAt:     s.UpdatedAt.Format(timestampLayout),
	}
	if s.ExpiryDate != nil {
		d := s.ExpiryDate.Format(dateLayout)
		out.ExpiryDate = &d
	}
	return out
}

func clean(s string) string {
	return inventory.Truncate(strings.TrimSpace(s), entity.MaxTextLength)
}

// parseRequestDate: vacío = sin fecha; a diferencia de la importación, una fecha ilegible es error.
func parseRequestDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	d := inventory.ParseExpiryDate(s)
	if d == nil {
		return nil, domain.ErrInvalidInput
	}
	return d, nil
}
