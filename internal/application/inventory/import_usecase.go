package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/pharmacy-inventory/internal/application/ports"
	"github.com/jhoicas/pharmacy-inventory/internal/domain"
	"github.com/jhoicas/pharmacy-inventory/internal/domain/entity"
	domaininv "github.com/jhoicas/pharmacy-inventory/internal/domain/inventory"
	"github.com/jhoicas/pharmacy-inventory/internal/domain/repository"
)

// Estados de una importación (etiqueta de métricas).
const (
	ImportStatusOK       = "ok"
	ImportStatusRejected = "rejected"
	ImportStatusFailed   = "failed"
)

// RowError falla de validación de una fila; no detiene la importación.
type RowError struct {
	Row     int
	Message string
}

func (e RowError) String() string {
	return fmt.Sprintf("Fila %d: %s", e.Row, e.Message)
}

// ImportSummary resultado de una importación confirmada.
type ImportSummary struct {
	BatchID  string
	Inserted int
	Updated  int
	Errors   []RowError
}

// ErrorMessages devuelve los errores de fila como texto.
func (s *ImportSummary) ErrorMessages() []string {
	out := make([]string, 0, len(s.Errors))
	for _, e := range s.Errors {
		out = append(out, e.String())
	}
	return out
}

// ImportStockUseCase aplica un upsert por nombre de cada fila del dataset dentro de una
// única transacción. Los errores de fila se acumulan; una falla de BD o de commit revierte todo.
type ImportStockUseCase struct {
	txRunner ports.TxRunner
	metrics  ports.ImportMetrics
	log      zerolog.Logger
}

// NewImportStockUseCase construye el caso de uso. metrics puede ser nil.
func NewImportStockUseCase(txRunner ports.TxRunner, metrics ports.ImportMetrics, log zerolog.Logger) *ImportStockUseCase {
	if metrics == nil {
		metrics = ports.NopImportMetrics{}
	}
	return &ImportStockUseCase{txRunner: txRunner, metrics: metrics, log: log}
}

// stockFields valores ya validados de una fila. Los opcionales son nil si la columna no existe.
type stockFields struct {
	name          string
	genericName   *string
	category      *string
	buyPrice      float64
	sellPrice     float64
	stockQuantity int
	expiryDate    *time.Time
}

// Import valida el encabezado, procesa cada fila y confirma una sola vez.
//
// Retorna:
//   - *domain.MissingColumnsError si falta una columna obligatoria (no se escribe nada).
//   - *domain.PersistenceError si falla la BD o el commit (se revierte todo el lote).
func (uc *ImportStockUseCase) Import(ctx context.Context, ds Dataset) (*ImportSummary, error) {
	start := time.Now()
	summary := &ImportSummary{BatchID: uuid.NewString()}
	log := uc.log.With().Str("batch_id", summary.BatchID).Int("rows", len(ds.Rows)).Logger()

	if missing := ds.MissingColumns(RequiredColumns); len(missing) > 0 {
		uc.metrics.ObserveImport(ImportStatusRejected, 0, 0, 0, time.Since(start).Seconds())
		log.Warn().Strs("missing_columns", missing).Msg("importación rechazada")
		return nil, &domain.MissingColumnsError{Columns: missing}
	}

	err := uc.txRunner.Run(ctx, func(repo repository.StockRepository) error {
		for i, row := range ds.Rows {
			rowNum := i + HeaderRowOffset
			fields, err := parseRow(ds, row)
			if err != nil {
				summary.Errors = append(summary.Errors, RowError{Row: rowNum, Message: err.Error()})
				continue
			}
			inserted, err := upsertByName(ctx, repo, fields)
			if err != nil {
				return fmt.Errorf("fila %d: %w", rowNum, err)
			}
			if inserted {
				summary.Inserted++
			} else {
				summary.Updated++
			}
		}
		return nil
	})
	if err != nil {
		uc.metrics.ObserveImport(ImportStatusFailed, 0, 0, 0, time.Since(start).Seconds())
		log.Error().Err(err).Msg("importación revertida")
		if errors.Is(err, domain.ErrPersistence) {
			return nil, err
		}
		return nil, domain.NewPersistenceError("importar inventario", err)
	}

	uc.metrics.ObserveImport(ImportStatusOK, summary.Inserted, summary.Updated, len(summary.Errors), time.Since(start).Seconds())
	log.Info().
		Int("inserted", summary.Inserted).
		Int("updated", summary.Updated).
		Int("row_errors", len(summary.Errors)).
		Msg("importación confirmada")
	return summary, nil
}

// parseRow aplica recorte de textos, conversión numérica y de fecha a una fila.
func parseRow(ds Dataset, row Row) (*stockFields, error) {
	f := &stockFields{
		name: domaininv.Truncate(domaininv.CellString(row[ColumnName]), entity.MaxTextLength),
	}
	if f.name == "" {
		return nil, errors.New("name vacío")
	}
	if ds.HasColumn(ColumnGenericName) {
		v := domaininv.Truncate(domaininv.CellString(row[ColumnGenericName]), entity.MaxTextLength)
		f.genericName = &v
	}
	if ds.HasColumn(ColumnCategory) {
		v := domaininv.Truncate(domaininv.CellString(row[ColumnCategory]), entity.MaxTextLength)
		f.category = &v
	}

	var err error
	if f.buyPrice, err = domaininv.ParseFloatCell(row[ColumnBuyPrice]); err != nil {
		return nil, fmt.Errorf("buy_price inválido: %w", err)
	}
	if f.sellPrice, err = domaininv.ParseFloatCell(row[ColumnSellPrice]); err != nil {
		return nil, fmt.Errorf("sell_price inválido: %w", err)
	}
	if f.stockQuantity, err = domaininv.ParseIntCell(row[ColumnStockQuantity]); err != nil {
		return nil, fmt.Errorf("stock_quantity inválido: %w", err)
	}

	if ds.HasColumn(ColumnExpiryDate) {
		f.expiryDate = domaininv.ParseExpiryDate(row[ColumnExpiryDate])
	}
	return f, nil
}

// upsertByName busca por nombre exacto en el estado actual de la transacción.
// Devuelve true si insertó, false si actualizó.
func upsertByName(ctx context.Context, repo repository.StockRepository, f *stockFields) (bool, error) {
	existing, err := repo.GetByName(ctx, f.name)
	if err != nil {
		return false, err
	}
	if existing != nil {
		if f.genericName != nil {
			existing.GenericName = *f.genericName
		}
		if f.category != nil {
			existing.Category = *f.category
		}
		existing.BuyPrice = f.buyPrice
		existing.SellPrice = f.sellPrice
		existing.StockQuantity = f.stockQuantity
		existing.ExpiryDate = f.expiryDate
		return false, repo.Update(ctx, existing)
	}

	stock := &entity.Stock{
		Name:          f.name,
		BuyPrice:      f.buyPrice,
		SellPrice:     f.sellPrice,
		StockQuantity: f.stockQuantity,
		ExpiryDate:    f.expiryDate,
	}
	if f.genericName != nil {
		stock.GenericName = *f.genericName
	}
	if f.category != nil {
		stock.Category = *f.category
	}
	return true, repo.Create(ctx, stock)
}
