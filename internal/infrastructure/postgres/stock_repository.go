package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/pharmacy-inventory/internal/domain"
	"github.com/jhoicas/pharmacy-inventory/internal/domain/entity"
	"github.com/jhoicas/pharmacy-inventory/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// Querier lo cumplen *pgxpool.Pool y pgx.Tx; permite usar el mismo repositorio con o sin transacción.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

const stockColumns = `id, name, generic_name, category, buy_price, sell_price, stock_quantity, expiry_date, created_at, updated_at`

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de inventario. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// List lista por nombre ascendente. Search se escapa para que % y _ sean literales.
func (r *StockRepo) List(ctx context.Context, filter repository.StockFilter) ([]*entity.Stock, error) {
	var (
		sb   strings.Builder
		args []any
	)
	sb.WriteString(`SELECT ` + stockColumns + ` FROM stocks WHERE 1=1`)
	if filter.Category != "" {
		args = append(args, filter.Category)
		fmt.Fprintf(&sb, " AND category = $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+escapeLike(filter.Search)+"%")
		fmt.Fprintf(&sb, " AND (name ILIKE $%[1]d OR generic_name ILIKE $%[1]d)", len(args))
	}
	sb.WriteString(" ORDER BY name ASC, id ASC")

	rows, err := r.q.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list stocks: %w", err)
	}
	defer rows.Close()
	var list []*entity.Stock
	for rows.Next() {
		s, err := scanStock(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// DistinctCategories devuelve las categorías no vacías ordenadas.
func (r *StockRepo) DistinctCategories(ctx context.Context) ([]string, error) {
	rows, err := r.q.Query(ctx, `SELECT DISTINCT category FROM stocks WHERE category <> '' ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	categories, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan category: %w", err)
	}
	return categories, nil
}

// GetByID obtiene un artículo por ID; domain.ErrNotFound si no existe.
func (r *StockRepo) GetByID(ctx context.Context, id int64) (*entity.Stock, error) {
	row := r.q.QueryRow(ctx, `SELECT `+stockColumns+` FROM stocks WHERE id = $1`, id)
	s, err := scanStock(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return s, nil
}

// GetByName obtiene un artículo por nombre exacto; (nil, nil) si no existe.
func (r *StockRepo) GetByName(ctx context.Context, name string) (*entity.Stock, error) {
	row := r.q.QueryRow(ctx, `SELECT `+stockColumns+` FROM stocks WHERE name = $1 ORDER BY id LIMIT 1`, name)
	s, err := scanStock(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock by name: %w", err)
	}
	return s, nil
}

// Create inserta el artículo y completa ID, CreatedAt y UpdatedAt.
func (r *StockRepo) Create(ctx context.Context, stock *entity.Stock) error {
	query := `
		INSERT INTO stocks (name, generic_name, category, buy_price, sell_price, stock_quantity, expiry_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
		RETURNING id, created_at, updated_at`
	err := r.q.QueryRow(ctx, query,
		stock.Name, stock.GenericName, stock.Category, stock.BuyPrice, stock.SellPrice,
		stock.StockQuantity, stock.ExpiryDate,
	).Scan(&stock.ID, &stock.CreatedAt, &stock.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert stock: %w", err)
	}
	return nil
}

// Update actualiza todos los campos mutables y refresca updated_at.
func (r *StockRepo) Update(ctx context.Context, stock *entity.Stock) error {
	query := `
		UPDATE stocks SET name = $2, generic_name = $3, category = $4, buy_price = $5, sell_price = $6,
			stock_quantity = $7, expiry_date = $8, updated_at = now()
		WHERE id = $1
		RETURNING created_at, updated_at`
	err := r.q.QueryRow(ctx, query,
		stock.ID, stock.Name, stock.GenericName, stock.Category, stock.BuyPrice, stock.SellPrice,
		stock.StockQuantity, stock.ExpiryDate,
	).Scan(&stock.CreatedAt, &stock.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update stock: %w", err)
	}
	return nil
}

// Delete elimina un artículo por ID; domain.ErrNotFound si no existe.
func (r *StockRepo) Delete(ctx context.Context, id int64) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM stocks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete stock: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteAll vacía la tabla y devuelve las filas eliminadas.
func (r *StockRepo) DeleteAll(ctx context.Context) (int64, error) {
	cmd, err := r.q.Exec(ctx, `DELETE FROM stocks`)
	if err != nil {
		return 0, fmt.Errorf("delete all stocks: %w", err)
	}
	return cmd.RowsAffected(), nil
}

// UpdateQuantities envía las actualizaciones en un batch, en orden. Ids inexistentes no afectan filas.
func (r *StockRepo) UpdateQuantities(ctx context.Context, updates []repository.QuantityUpdate) (int64, error) {
	if len(updates) == 0 {
		return 0, nil
	}
	batch := &pgx.Batch{}
	for _, u := range updates {
		batch.Queue(`UPDATE stocks SET stock_quantity = $2, updated_at = now() WHERE id = $1`, u.ID, u.Quantity)
	}
	br := r.q.SendBatch(ctx, batch)
	defer br.Close()

	var total int64
	for range updates {
		cmd, err := br.Exec()
		if err != nil {
			return 0, fmt.Errorf("update stock quantity: %w", err)
		}
		total += cmd.RowsAffected()
	}
	return total, nil
}

func scanStock(row pgx.Row) (*entity.Stock, error) {
	var s entity.Stock
	err := row.Scan(
		&s.ID, &s.Name, &s.GenericName, &s.Category, &s.BuyPrice, &s.SellPrice,
		&s.StockQuantity, &s.ExpiryDate, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if s.ExpiryDate != nil {
		d := s.ExpiryDate.UTC()
		s.ExpiryDate = &d
	}
	return &s, nil
}
