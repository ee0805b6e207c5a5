// Package memory implementa el repositorio de inventario en memoria, con la misma semántica
// transaccional que el adaptador PostgreSQL. Se usa en tests de casos de uso y de HTTP.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/pharmacy-inventory/internal/application/ports"
	"github.com/jhoicas/pharmacy-inventory/internal/domain"
	"github.com/jhoicas/pharmacy-inventory/internal/domain/entity"
	"github.com/jhoicas/pharmacy-inventory/internal/domain/repository"
)

var (
	_ repository.StockRepository = (*StockRepo)(nil)
	_ ports.TxRunner             = (*Store)(nil)
)

type state struct {
	nextID int64
	rows   map[int64]*entity.Stock
}

func (s *state) clone() *state {
	c := &state{nextID: s.nextID, rows: make(map[int64]*entity.Stock, len(s.rows))}
	for id, st := range s.rows {
		c.rows[id] = copyStock(st)
	}
	return c
}

// Store almacén en memoria. Implementa ports.TxRunner.
type Store struct {
	mu   sync.Mutex
	data *state
	Now  func() time.Time

	// CommitErr, si no es nil, hace fallar el próximo commit (simula caída de la BD).
	CommitErr error
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		data: &state{nextID: 1, rows: map[int64]*entity.Stock{}},
		Now:  time.Now,
	}
}

// Repository devuelve un repositorio fuera de transacción (cada llamada es atómica).
func (s *Store) Repository() *StockRepo {
	return &StockRepo{store: s}
}

// Len cantidad de filas confirmadas.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data.rows)
}

// Run ejecuta fn sobre una copia del estado; la copia reemplaza al original solo si fn
// termina sin error y el commit no falla.
func (s *Store) Run(ctx context.Context, fn func(stockRepo repository.StockRepository) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return domain.NewPersistenceError("begin transaction", err)
	}
	work := s.data.clone()
	if err := fn(&StockRepo{store: s, tx: work}); err != nil {
		return err
	}
	if s.CommitErr != nil {
		err := s.CommitErr
		s.CommitErr = nil
		return domain.NewPersistenceError("commit transaction", err)
	}
	s.data = work
	return nil
}

// StockRepo implementación en memoria de StockRepository.
type StockRepo struct {
	store *Store
	tx    *state // nil fuera de transacción
}

// with ejecuta fn sobre el estado de la tx o, fuera de ella, sobre el estado confirmado con lock.
func (r *StockRepo) with(fn func(st *state) error) error {
	if r.tx != nil {
		return fn(r.tx)
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return fn(r.store.data)
}

func (r *StockRepo) List(_ context.Context, filter repository.StockFilter) ([]*entity.Stock, error) {
	var out []*entity.Stock
	search := strings.ToLower(filter.Search)
	_ = r.with(func(st *state) error {
		for _, s := range st.rows {
			if filter.Category != "" && s.Category != filter.Category {
				continue
			}
			if search != "" &&
				!strings.Contains(strings.ToLower(s.Name), search) &&
				!strings.Contains(strings.ToLower(s.GenericName), search) {
				continue
			}
			out = append(out, copyStock(s))
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name == out[j].Name {
			return out[i].ID < out[j].ID
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *StockRepo) DistinctCategories(_ context.Context) ([]string, error) {
	seen := map[string]struct{}{}
	_ = r.with(func(st *state) error {
		for _, s := range st.rows {
			if s.Category != "" {
				seen[s.Category] = struct{}{}
			}
		}
		return nil
	})
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out, nil
}

func (r *StockRepo) GetByID(_ context.Context, id int64) (*entity.Stock, error) {
	var found *entity.Stock
	err := r.with(func(st *state) error {
		s, ok := st.rows[id]
		if !ok {
			return domain.ErrNotFound
		}
		found = copyStock(s)
		return nil
	})
	return found, err
}

func (r *StockRepo) GetByName(_ context.Context, name string) (*entity.Stock, error) {
	var found *entity.Stock
	_ = r.with(func(st *state) error {
		if s := findByName(st, name); s != nil {
			found = copyStock(s)
		}
		return nil
	})
	return found, nil
}

func (r *StockRepo) Create(_ context.Context, stock *entity.Stock) error {
	return r.with(func(st *state) error {
		if findByName(st, stock.Name) != nil {
			return domain.ErrDuplicate
		}
		now := r.store.Now()
		stock.ID = st.nextID
		st.nextID++
		stock.CreatedAt = now
		stock.UpdatedAt = now
		st.rows[stock.ID] = copyStock(stock)
		return nil
	})
}

func (r *StockRepo) Update(_ context.Context, stock *entity.Stock) error {
	return r.with(func(st *state) error {
		current, ok := st.rows[stock.ID]
		if !ok {
			return domain.ErrNotFound
		}
		if other := findByName(st, stock.Name); other != nil && other.ID != stock.ID {
			return domain.ErrDuplicate
		}
		stock.CreatedAt = current.CreatedAt
		stock.UpdatedAt = r.store.Now()
		st.rows[stock.ID] = copyStock(stock)
		return nil
	})
}

func (r *StockRepo) Delete(_ context.Context, id int64) error {
	return r.with(func(st *state) error {
		if _, ok := st.rows[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.rows, id)
		return nil
	})
}

func (r *StockRepo) DeleteAll(_ context.Context) (int64, error) {
	var n int64
	_ = r.with(func(st *state) error {
		n = int64(len(st.rows))
		st.rows = map[int64]*entity.Stock{}
		return nil
	})
	return n, nil
}

func (r *StockRepo) UpdateQuantities(_ context.Context, updates []repository.QuantityUpdate) (int64, error) {
	var n int64
	_ = r.with(func(st *state) error {
		now := r.store.Now()
		for _, u := range updates {
			s, ok := st.rows[u.ID]
			if !ok {
				continue
			}
			s.StockQuantity = u.Quantity
			s.UpdatedAt = now
			n++
		}
		return nil
	})
	return n, nil
}

func findByName(st *state, name string) *entity.Stock {
	var found *entity.Stock
	for _, s := range st.rows {
		if s.Name == name && (found == nil || s.ID < found.ID) {
			found = s
		}
	}
	return found
}

func copyStock(s *entity.Stock) *entity.Stock {
	c := *s
	if s.ExpiryDate != nil {
		d := *s.ExpiryDate
		c.ExpiryDate = &d
	}
	return &c
}
