package inventory_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pharmacy-inventory/internal/application/inventory"
	"github.com/jhoicas/pharmacy-inventory/internal/domain"
	"github.com/jhoicas/pharmacy-inventory/internal/domain/entity"
	"github.com/jhoicas/pharmacy-inventory/internal/domain/repository"
	"github.com/jhoicas/pharmacy-inventory/internal/infrastructure/memory"
)

// ── Helpers ──

var fullColumns = []string{"name", "generic_name", "category", "buy_price", "sell_price", "stock_quantity", "expiry_date"}

func row(name string, buy, sell, qty any) inventory.Row {
	return inventory.Row{"name": name, "buy_price": buy, "sell_price": sell, "stock_quantity": qty}
}

type recordedImport struct {
	status                   string
	inserted, updated, fails int
}

type fakeMetrics struct{ calls []recordedImport }

func (m *fakeMetrics) ObserveImport(status string, inserted, updated, failed int, _ float64) {
	m.calls = append(m.calls, recordedImport{status, inserted, updated, failed})
}

// failingRunner envuelve el almacén y hace fallar Create para un nombre dado.
type failingRunner struct {
	store  *memory.Store
	failOn string
}

func (f failingRunner) Run(ctx context.Context, fn func(repository.StockRepository) error) error {
	return f.store.Run(ctx, func(repo repository.StockRepository) error {
		return fn(failingRepo{StockRepository: repo, failOn: f.failOn})
	})
}

type failingRepo struct {
	repository.StockRepository
	failOn string
}

func (r failingRepo) Create(ctx context.Context, s *entity.Stock) error {
	if s.Name == r.failOn {
		return errors.New("disco lleno")
	}
	return r.StockRepository.Create(ctx, s)
}

func newUseCase(store *memory.Store) (*inventory.ImportStockUseCase, *fakeMetrics) {
	m := &fakeMetrics{}
	return inventory.NewImportStockUseCase(store, m, zerolog.Nop()), m
}

func allStock(t *testing.T, store *memory.Store) []*entity.Stock {
	t.Helper()
	list, err := store.Repository().List(context.Background(), repository.StockFilter{})
	require.NoError(t, err)
	return list
}

// ── Upsert por nombre ──

func TestImport_PrimeraVezInsertaSegundaActualiza(t *testing.T) {
	store := memory.NewStore()
	uc, m := newUseCase(store)
	ds := inventory.Dataset{Columns: fullColumns, Rows: []inventory.Row{
		row("Acetaminofén", "1000", "1500", "10"),
		row("Ibuprofeno", 800.0, 1200.0, 5.0),
		row("Loratadina", "300", "600", "8"),
	}}

	first, err := uc.Import(context.Background(), ds)
	require.NoError(t, err)
	assert.Equal(t, 3, first.Inserted)
	assert.Equal(t, 0, first.Updated)
	assert.Empty(t, first.Errors)
	assert.NotEmpty(t, first.BatchID)

	second, err := uc.Import(context.Background(), ds)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Inserted)
	assert.Equal(t, 3, second.Updated)
	assert.Equal(t, 3, store.Len(), "nunca se duplican artículos por nombre")
	assert.NotEqual(t, first.BatchID, second.BatchID)

	require.Len(t, m.calls, 2)
	assert.Equal(t, recordedImport{inventory.ImportStatusOK, 3, 0, 0}, m.calls[0])
}

func TestImport_NombreRepetidoEnElMismoArchivo(t *testing.T) {
	store := memory.NewStore()
	uc, _ := newUseCase(store)
	ds := inventory.Dataset{Columns: fullColumns, Rows: []inventory.Row{
		row("Amoxicilina", "700", "1100", "4"),
		row("Amoxicilina", "750", "1150", "9"),
	}}

	summary, err := uc.Import(context.Background(), ds)

	require.NoError(t, err)
	assert.Equal(t, 1, summary.Inserted)
	assert.Equal(t, 1, summary.Updated, "la segunda fila ve la inserción pendiente de la primera")
	list := allStock(t, store)
	require.Len(t, list, 1)
	assert.Equal(t, 9, list[0].StockQuantity, "gana la última fila")
	assert.Equal(t, 1150.0, list[0].SellPrice)
}

func TestImport_ColumnasOpcionalesAusentesConservanValores(t *testing.T) {
	store := memory.NewStore()
	uc, _ := newUseCase(store)
	expiry := time.Date(2027, 1, 31, 0, 0, 0, 0, time.UTC)
	_, err := uc.Import(context.Background(), inventory.Dataset{Columns: fullColumns, Rows: []inventory.Row{{
		"name": "Suero oral", "generic_name": "Sales de rehidratación", "category": "Hidratación",
		"buy_price": "1000", "sell_price": "1500", "stock_quantity": "3", "expiry_date": expiry,
	}}})
	require.NoError(t, err)

	summary, err := uc.Import(context.Background(), inventory.Dataset{
		Columns: []string{"name", "buy_price", "sell_price", "stock_quantity"},
		Rows:    []inventory.Row{row("Suero oral", "1100", "1600", "6")},
	})

	require.NoError(t, err)
	assert.Equal(t, 1, summary.Updated)
	got := allStock(t, store)[0]
	assert.Equal(t, "Hidratación", got.Category)
	assert.Equal(t, "Sales de rehidratación", got.GenericName)
	assert.Equal(t, 6, got.StockQuantity)
	assert.Nil(t, got.ExpiryDate, "expiry_date siempre se sobrescribe")
}

func TestImport_FechaDeVencimiento(t *testing.T) {
	store := memory.NewStore()
	uc, _ := newUseCase(store)
	ds := inventory.Dataset{Columns: fullColumns, Rows: []inventory.Row{
		{"name": "A", "buy_price": "1", "sell_price": "2", "stock_quantity": "1", "expiry_date": "31/12/2026"},
		{"name": "B", "buy_price": "1", "sell_price": "2", "stock_quantity": "1", "expiry_date": "2026-06-30"},
		{"name": "C", "buy_price": "1", "sell_price": "2", "stock_quantity": "1", "expiry_date": "pronto"},
		{"name": "D", "buy_price": "1", "sell_price": "2", "stock_quantity": "1", "expiry_date": nil},
	}}

	summary, err := uc.Import(context.Background(), ds)

	require.NoError(t, err)
	assert.Equal(t, 4, summary.Inserted, "una fecha ilegible no es error de fila")
	list := allStock(t, store)
	require.Len(t, list, 4)
	require.NotNil(t, list[0].ExpiryDate)
	assert.Equal(t, "2026-12-31", list[0].ExpiryDate.Format("2006-01-02"))
	require.NotNil(t, list[1].ExpiryDate)
	assert.Equal(t, "2026-06-30", list[1].ExpiryDate.Format("2006-01-02"))
	assert.Nil(t, list[2].ExpiryDate)
	assert.Nil(t, list[3].ExpiryDate)
}

func TestImport_TextosLargosSeRecortan(t *testing.T) {
	store := memory.NewStore()
	uc, _ := newUseCase(store)
	long := strings.Repeat("x", 250)
	ds := inventory.Dataset{Columns: fullColumns, Rows: []inventory.Row{{
		"name": long, "category": long, "buy_price": "1", "sell_price": "2", "stock_quantity": "1",
	}}}

	_, err := uc.Import(context.Background(), ds)

	require.NoError(t, err)
	got := allStock(t, store)[0]
	assert.Len(t, []rune(got.Name), entity.MaxTextLength)
	assert.True(t, strings.HasSuffix(got.Name, "..."))
	assert.Len(t, []rune(got.Category), entity.MaxTextLength)
}

// ── Errores de fila ──

func TestImport_ErroresDeFilaSeAcumulan(t *testing.T) {
	store := memory.NewStore()
	uc, m := newUseCase(store)
	ds := inventory.Dataset{Columns: fullColumns, Rows: []inventory.Row{
		row("Bueno", "1", "2", "3"),
		row("Precio malo", "abc", "2", "3"),
		row("", "1", "2", "3"),
		row("Cantidad fraccionaria", "1", "2", "5.5"),
		row("Cantidad entera en float", "1", "2", "5.0"),
	}}

	summary, err := uc.Import(context.Background(), ds)

	require.NoError(t, err)
	assert.Equal(t, 2, summary.Inserted)
	require.Len(t, summary.Errors, 3)
	assert.Equal(t, 3, summary.Errors[0].Row)
	assert.Contains(t, summary.Errors[0].Message, "buy_price")
	assert.Equal(t, 4, summary.Errors[1].Row)
	assert.Equal(t, 5, summary.Errors[2].Row)
	assert.Contains(t, summary.ErrorMessages()[2], "Fila 5: stock_quantity")
	assert.Equal(t, 2, store.Len())
	assert.Equal(t, recordedImport{inventory.ImportStatusOK, 2, 0, 3}, m.calls[0])
}

func TestImport_CantidadFueraDeRangoSoloOmiteSuFila(t *testing.T) {
	store := memory.NewStore()
	uc, _ := newUseCase(store)
	ds := inventory.Dataset{Columns: fullColumns, Rows: []inventory.Row{
		row("Acetaminofén", "1000", "1500", "10"),
		row("Cantidad enorme", "1", "2", "3000000000"),
		row("Cantidad enorme int64", "1", "2", int64(1<<40)),
		row("Loratadina", "300", "600", "8"),
	}}

	summary, err := uc.Import(context.Background(), ds)

	require.NoError(t, err, "un valor fuera de rango es error de fila, no de persistencia")
	assert.Equal(t, 2, summary.Inserted)
	require.Len(t, summary.Errors, 2)
	msgs := summary.ErrorMessages()
	assert.True(t, strings.HasPrefix(msgs[0], "Fila 3: stock_quantity inválido"), msgs[0])
	assert.True(t, strings.HasPrefix(msgs[1], "Fila 4: stock_quantity inválido"), msgs[1])
	assert.Equal(t, 2, store.Len())
}

// ── Rechazo y reversión ──

func TestImport_FaltaColumnaObligatoriaNoEscribeNada(t *testing.T) {
	store := memory.NewStore()
	uc, m := newUseCase(store)
	ds := inventory.Dataset{
		Columns: []string{"name", "buy_price", "stock_quantity"},
		Rows:    []inventory.Row{{"name": "A", "buy_price": "1", "stock_quantity": "1"}},
	}

	summary, err := uc.Import(context.Background(), ds)

	assert.Nil(t, summary)
	var missing *domain.MissingColumnsError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"sell_price"}, missing.Columns)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Zero(t, store.Len())
	assert.Equal(t, inventory.ImportStatusRejected, m.calls[0].status)
}

func TestImport_FallaDeCommitRevierteTodo(t *testing.T) {
	store := memory.NewStore()
	store.CommitErr = errors.New("conexión perdida")
	uc, m := newUseCase(store)
	ds := inventory.Dataset{Columns: fullColumns, Rows: []inventory.Row{row("A", "1", "2", "3"), row("B", "1", "2", "3")}}

	summary, err := uc.Import(context.Background(), ds)

	assert.Nil(t, summary)
	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.Zero(t, store.Len())
	assert.Equal(t, inventory.ImportStatusFailed, m.calls[0].status)
}

func TestImport_FallaDelRepositorioRevierteFilasPrevias(t *testing.T) {
	store := memory.NewStore()
	uc := inventory.NewImportStockUseCase(failingRunner{store: store, failOn: "B"}, nil, zerolog.Nop())
	ds := inventory.Dataset{Columns: fullColumns, Rows: []inventory.Row{row("A", "1", "2", "3"), row("B", "1", "2", "3")}}

	_, err := uc.Import(context.Background(), ds)

	var pe *domain.PersistenceError
	require.ErrorAs(t, err, &pe)
	assert.Contains(t, err.Error(), "fila 3")
	assert.Zero(t, store.Len(), "la fila A tampoco queda confirmada")
}
