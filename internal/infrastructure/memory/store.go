// Package memory implementa los repositorios en memoria con la misma semántica transaccional
// que PostgreSQL: una transacción trabaja sobre una copia del estado y solo la publica al confirmar.
// Se usa con STORE_DRIVER=memory y como fixture de los tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/Ferramentas-api/internal/application/inventory"
	"github.com/jhoicas/Ferramentas-api/internal/domain"
	"github.com/jhoicas/Ferramentas-api/internal/domain/entity"
	"github.com/jhoicas/Ferramentas-api/internal/domain/repository"
)

var (
	_ repository.ProductRepository  = (*ProductRepo)(nil)
	_ repository.MovementRepository = (*MovementRepo)(nil)
	_ repository.UserRepository     = (*UserRepo)(nil)
	_ inventory.TxRunner            = (*TxRunner)(nil)
)

type state struct {
	products  map[int64]entity.Product
	users     map[int64]entity.User
	movements []entity.Movement

	nextProductID  int64
	nextUserID     int64
	nextMovementID int64
}

func (s *state) clone() *state {
	c := &state{
		products:       make(map[int64]entity.Product, len(s.products)),
		users:          make(map[int64]entity.User, len(s.users)),
		movements:      make([]entity.Movement, len(s.movements)),
		nextProductID:  s.nextProductID,
		nextUserID:     s.nextUserID,
		nextMovementID: s.nextMovementID,
	}
	for id, p := range s.products {
		c.products[id] = p
	}
	for id, u := range s.users {
		c.users[id] = u
	}
	copy(c.movements, s.movements)
	return c
}

// Store estado compartido. Las escrituras y las transacciones se serializan con mu.
type Store struct {
	mu  sync.RWMutex
	st  *state
	now func() time.Time
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		st: &state{
			products: make(map[int64]entity.Product),
			users:    make(map[int64]entity.User),
		},
		now: time.Now,
	}
}

// WithClock reemplaza el reloj usado como NOW() (tests).
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// Ping siempre responde: no hay conexión que verificar.
func (s *Store) Ping(context.Context) error { return nil }

// access ejecuta fn sobre el estado: el de la tx si existe, si no el compartido con su lock.
type access struct {
	store *Store
	tx    *state
}

func (a access) read(fn func(*state) error) error {
	if a.tx != nil {
		return fn(a.tx)
	}
	a.store.mu.RLock()
	defer a.store.mu.RUnlock()
	return fn(a.store.st)
}

func (a access) write(fn func(*state) error) error {
	if a.tx != nil {
		return fn(a.tx)
	}
	a.store.mu.Lock()
	defer a.store.mu.Unlock()
	// Fuera de una tx cada escritura es atómica: se aplica sobre una copia y se publica entera.
	next := a.store.st.clone()
	if err := fn(next); err != nil {
		return err
	}
	a.store.st = next
	return nil
}

// TxRunner ejecuta callbacks dentro de una "transacción" en memoria.
type TxRunner struct {
	store *Store
}

// NewTxRunner construye el runner sobre el store.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

// Run toma el lock de escritura, ejecuta fn sobre una copia y la publica solo si fn no falla.
// Los lectores concurrentes esperan: nunca ven el UPDATE sin el INSERT.
func (r *TxRunner) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	movementRepo repository.MovementRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	tx := r.store.st.clone()
	a := access{store: r.store, tx: tx}
	if err := fn(&ProductRepo{a: a}, &MovementRepo{a: a}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	r.store.st = tx
	return nil
}

// ProductRepo productos en memoria.
type ProductRepo struct {
	a access
}

// NewProductRepository construye el repositorio fuera de transacción.
func NewProductRepository(store *Store) *ProductRepo {
	return &ProductRepo{a: access{store: store}}
}

func (r *ProductRepo) Create(_ context.Context, product *entity.Product) error {
	return r.a.write(func(s *state) error {
		s.nextProductID++
		product.ID = s.nextProductID
		s.products[product.ID] = *product
		return nil
	})
}

func (r *ProductRepo) GetByID(_ context.Context, id int64) (*entity.Product, error) {
	var out *entity.Product
	err := r.a.read(func(s *state) error {
		if p, ok := s.products[id]; ok {
			out = &p
		}
		return nil
	})
	return out, err
}

func (r *ProductRepo) List(_ context.Context, filter repository.ProductFilter) ([]*entity.Product, error) {
	needle := strings.ToLower(filter.NameContains)
	list := make([]*entity.Product, 0)
	err := r.a.read(func(s *state) error {
		for _, p := range s.products {
			if needle != "" && !strings.Contains(strings.ToLower(p.Name), needle) {
				continue
			}
			if filter.BelowMinimum && !p.BelowMinimum() {
				continue
			}
			p := p
			list = append(list, &p)
		}
		return nil
	})
	sort.Slice(list, func(i, j int) bool {
		li, lj := strings.ToLower(list[i].Name), strings.ToLower(list[j].Name)
		if li != lj {
			return li < lj
		}
		return list[i].ID < list[j].ID
	})
	return list, err
}

func (r *ProductRepo) Update(_ context.Context, id int64, c repository.ProductUpdate) (*entity.Product, error) {
	var out *entity.Product
	err := r.a.write(func(s *state) error {
		p, ok := s.products[id]
		if !ok {
			return nil
		}
		setString(&p.Name, c.Name)
		setString(&p.Brand, c.Brand)
		setString(&p.Model, c.Model)
		setString(&p.MaterialType, c.MaterialType)
		setString(&p.Size, c.Size)
		setString(&p.Weight, c.Weight)
		setString(&p.Voltage, c.Voltage)
		if c.Quantity != nil {
			p.Quantity = *c.Quantity
		}
		if c.MinQuantity != nil {
			p.MinQuantity = *c.MinQuantity
		}
		s.products[id] = p
		out = &p
		return nil
	})
	return out, err
}

func (r *ProductRepo) AdjustQuantity(_ context.Context, id int64, delta int) (*entity.Product, error) {
	var out *entity.Product
	err := r.a.write(func(s *state) error {
		p, ok := s.products[id]
		if !ok {
			return nil
		}
		next := p.Quantity + delta
		if !entity.QuantityInRange(delta) || !entity.QuantityInRange(next) {
			return domain.ErrQuantityOutOfRange
		}
		p.Quantity = next
		s.products[id] = p
		out = &p
		return nil
	})
	return out, err
}

func (r *ProductRepo) Delete(_ context.Context, id int64) (bool, error) {
	var found bool
	err := r.a.write(func(s *state) error {
		if _, ok := s.products[id]; !ok {
			return nil
		}
		for _, m := range s.movements {
			if m.ProductID == id {
				return domain.ErrProductInUse
			}
		}
		delete(s.products, id)
		found = true
		return nil
	})
	return found, err
}

// MovementRepo libro de movimientos en memoria (solo inserción y lectura).
type MovementRepo struct {
	a access
}

// NewMovementRepository construye el repositorio fuera de transacción.
func NewMovementRepository(store *Store) *MovementRepo {
	return &MovementRepo{a: access{store: store}}
}

func (r *MovementRepo) Create(_ context.Context, m *entity.Movement) error {
	return r.a.write(func(s *state) error {
		if _, ok := s.products[m.ProductID]; !ok {
			return domain.ErrProductNotFound
		}
		if _, ok := s.users[m.UserID]; !ok {
			return domain.ErrUserNotFound
		}
		if m.Date.IsZero() {
			m.Date = r.a.store.now()
		}
		s.nextMovementID++
		m.ID = s.nextMovementID
		s.movements = append(s.movements, *m)
		return nil
	})
}

func (r *MovementRepo) List(_ context.Context, filter repository.MovementFilter) ([]*entity.MovementDetail, error) {
	list := make([]*entity.MovementDetail, 0)
	err := r.a.read(func(s *state) error {
		for _, m := range s.movements {
			if filter.ProductID != nil && m.ProductID != *filter.ProductID {
				continue
			}
			list = append(list, &entity.MovementDetail{
				Movement:    m,
				ProductName: s.products[m.ProductID].Name,
				UserName:    s.users[m.UserID].Name,
			})
		}
		return nil
	})
	sort.SliceStable(list, func(i, j int) bool {
		if !list[i].Date.Equal(list[j].Date) {
			return list[i].Date.After(list[j].Date)
		}
		return list[i].ID > list[j].ID
	})
	return list, err
}

// UserRepo usuarios en memoria.
type UserRepo struct {
	a access
}

// NewUserRepository construye el repositorio.
func NewUserRepository(store *Store) *UserRepo {
	return &UserRepo{a: access{store: store}}
}

func (r *UserRepo) Create(_ context.Context, user *entity.User) error {
	return r.a.write(func(s *state) error {
		for _, u := range s.users {
			if u.Email == user.Email {
				return domain.ErrEmailAlreadyExists
			}
		}
		s.nextUserID++
		user.ID = s.nextUserID
		s.users[user.ID] = *user
		return nil
	})
}

func (r *UserRepo) GetByID(_ context.Context, id int64) (*entity.User, error) {
	var out *entity.User
	err := r.a.read(func(s *state) error {
		if u, ok := s.users[id]; ok {
			out = &u
		}
		return nil
	})
	return out, err
}

func (r *UserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	var out *entity.User
	err := r.a.read(func(s *state) error {
		var best *entity.User
		for _, u := range s.users {
			if !strings.EqualFold(u.Email, email) {
				continue
			}
			if best == nil || u.ID < best.ID {
				u := u
				best = &u
			}
		}
		out = best
		return nil
	})
	return out, err
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
