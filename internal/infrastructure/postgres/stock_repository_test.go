package postgres_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pharmacy-inventory/internal/application/inventory"
	"github.com/jhoicas/pharmacy-inventory/internal/domain"
	"github.com/jhoicas/pharmacy-inventory/internal/domain/entity"
	"github.com/jhoicas/pharmacy-inventory/internal/domain/repository"
	"github.com/jhoicas/pharmacy-inventory/internal/infrastructure/postgres"
	"github.com/jhoicas/pharmacy-inventory/pkg/config"
)

// newTestPool conecta a TEST_DATABASE_URL, aplica migraciones y vacía la tabla.
// Sin la variable los tests se omiten.
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL no definido; se omiten tests de PostgreSQL")
	}
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: dsn, MaxConns: 4})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, postgres.Migrate(ctx, pool, "up"))
	_, err = pool.Exec(ctx, "TRUNCATE stocks RESTART IDENTITY")
	require.NoError(t, err)
	return pool
}

func newStock(name, category string, qty int) *entity.Stock {
	return &entity.Stock{Name: name, Category: category, BuyPrice: 100, SellPrice: 150, StockQuantity: qty}
}

func TestStockRepo_CrearBuscarYDuplicado(t *testing.T) {
	pool := newTestPool(t)
	repo := postgres.NewStockRepository(pool)
	ctx := context.Background()
	expiry := time.Date(2027, 4, 30, 0, 0, 0, 0, time.UTC)

	s := newStock("Acetaminofén", "Analgésicos", 10)
	s.ExpiryDate = &expiry
	require.NoError(t, repo.Create(ctx, s))
	assert.NotZero(t, s.ID)
	assert.False(t, s.CreatedAt.IsZero())

	got, err := repo.GetByName(ctx, "Acetaminofén")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, s.ID, got.ID)
	require.NotNil(t, got.ExpiryDate)
	assert.True(t, got.ExpiryDate.Equal(expiry))

	missing, err := repo.GetByName(ctx, "acetaminofén")
	require.NoError(t, err)
	assert.Nil(t, missing, "la búsqueda por nombre es exacta")

	err = repo.Create(ctx, newStock("Acetaminofén", "", 1))
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = repo.GetByID(ctx, 9999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStockRepo_ListarEscapaComodines(t *testing.T) {
	pool := newTestPool(t)
	repo := postgres.NewStockRepository(pool)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, newStock("Crema 100%", "Dermatología", 1)))
	require.NoError(t, repo.Create(ctx, newStock("Crema base", "Dermatología", 1)))
	require.NoError(t, repo.Create(ctx, newStock("Vitamina C", "", 1)))

	list, err := repo.List(ctx, repository.StockFilter{Search: "100%"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Crema 100%", list[0].Name)

	list, err = repo.List(ctx, repository.StockFilter{Category: "Dermatología"})
	require.NoError(t, err)
	assert.Len(t, list, 2)

	cats, err := repo.DistinctCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Dermatología"}, cats)
}

func TestStockRepo_CantidadesYBorrado(t *testing.T) {
	pool := newTestPool(t)
	repo := postgres.NewStockRepository(pool)
	ctx := context.Background()
	a := newStock("A", "", 1)
	require.NoError(t, repo.Create(ctx, a))

	n, err := repo.UpdateQuantities(ctx, []repository.QuantityUpdate{{ID: a.ID, Quantity: 12}, {ID: 9999, Quantity: 1}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 12, got.StockQuantity)

	assert.ErrorIs(t, repo.Delete(ctx, 9999), domain.ErrNotFound)
	deleted, err := repo.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
}

func TestTxRunner_RollbackSiFallaLaFuncion(t *testing.T) {
	pool := newTestPool(t)
	runner := postgres.NewTxRunner(pool)
	ctx := context.Background()
	boom := errors.New("boom")

	err := runner.Run(ctx, func(repo repository.StockRepository) error {
		require.NoError(t, repo.Create(ctx, newStock("Temporal", "", 1)))
		return boom
	})

	assert.ErrorIs(t, err, boom)
	got, err := postgres.NewStockRepository(pool).GetByName(ctx, "Temporal")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestImport_SobrePostgres(t *testing.T) {
	pool := newTestPool(t)
	uc := inventory.NewImportStockUseCase(postgres.NewTxRunner(pool), nil, zerolog.Nop())
	ds := inventory.Dataset{
		Columns: []string{"name", "buy_price", "sell_price", "stock_quantity"},
		Rows: []inventory.Row{
			{"name": "A", "buy_price": "1", "sell_price": "2", "stock_quantity": "3"},
			{"name": "A", "buy_price": "1", "sell_price": "2", "stock_quantity": "4"},
			{"name": "B", "buy_price": "x", "sell_price": "2", "stock_quantity": "3"},
		},
	}

	summary, err := uc.Import(context.Background(), ds)

	require.NoError(t, err)
	assert.Equal(t, 1, summary.Inserted)
	assert.Equal(t, 1, summary.Updated)
	assert.Len(t, summary.Errors, 1)
}
