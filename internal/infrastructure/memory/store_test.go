package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ferramentas-api/internal/domain"
	"github.com/jhoicas/Ferramentas-api/internal/domain/entity"
	"github.com/jhoicas/Ferramentas-api/internal/domain/repository"
)

func seed(t *testing.T, store *Store) (*entity.Product, *entity.User) {
	t.Helper()
	ctx := context.Background()
	user := &entity.User{Name: "Ana", Email: "ana@example.com", PasswordHash: "x"}
	require.NoError(t, NewUserRepository(store).Create(ctx, user))
	product := &entity.Product{Name: "Martelo", Brand: "Tramontina", Model: "M1", Quantity: 10, MinQuantity: 5}
	require.NoError(t, NewProductRepository(store).Create(ctx, product))
	return product, user
}

func adjust(ctx context.Context, runner *TxRunner, m *entity.Movement) (*entity.Product, error) {
	var out *entity.Product
	err := runner.Run(ctx, func(products repository.ProductRepository, movements repository.MovementRepository) error {
		p, err := products.AdjustQuantity(ctx, m.ProductID, m.Delta())
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrProductNotFound
		}
		if err := movements.Create(ctx, m); err != nil {
			return err
		}
		out = p
		return nil
	})
	return out, err
}

func TestProductRepo_CRUD(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	repo := NewProductRepository(store)

	p := &entity.Product{Name: "Chave de fenda", Brand: "Gedore", Model: "CF-3", Quantity: 3, MinQuantity: 5}
	require.NoError(t, repo.Create(ctx, p))
	assert.Equal(t, int64(1), p.ID)

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Chave de fenda", got.Name)
	assert.True(t, got.BelowMinimum())

	missing, err := repo.GetByID(ctx, 99)
	require.NoError(t, err)
	assert.Nil(t, missing)

	qty := 5
	voltage := "220V"
	updated, err := repo.Update(ctx, p.ID, repository.ProductUpdate{Quantity: &qty, Voltage: &voltage})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, 5, updated.Quantity)
	assert.Equal(t, "220V", updated.Voltage)
	assert.Equal(t, "Gedore", updated.Brand)
	assert.False(t, updated.BelowMinimum())

	none, err := repo.Update(ctx, 99, repository.ProductUpdate{Quantity: &qty})
	require.NoError(t, err)
	assert.Nil(t, none)

	found, err := repo.Delete(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, found)

	found, err = repo.Delete(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestProductRepo_ListaConFiltros(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	repo := NewProductRepository(store)
	for _, p := range []*entity.Product{
		{Name: "martelo de borracha", Brand: "b", Model: "m", Quantity: 1, MinQuantity: 2},
		{Name: "Alicate", Brand: "b", Model: "m", Quantity: 9, MinQuantity: 2},
		{Name: "Martelo", Brand: "b", Model: "m", Quantity: 2, MinQuantity: 2},
	} {
		require.NoError(t, repo.Create(ctx, p))
	}

	all, err := repo.List(ctx, repository.ProductFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Alicate", all[0].Name)

	again, err := repo.List(ctx, repository.ProductFilter{})
	require.NoError(t, err)
	assert.Equal(t, all, again)

	hits, err := repo.List(ctx, repository.ProductFilter{NameContains: "MARTELO"})
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "Martelo", hits[0].Name)

	none, err := repo.List(ctx, repository.ProductFilter{NameContains: "serrote"})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	low, err := repo.List(ctx, repository.ProductFilter{BelowMinimum: true})
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "martelo de borracha", low[0].Name)
}

func TestTxRunner_AplicaMovimientos(t *testing.T) {
	ctx := context.Background()
	fixed := time.Date(2024, 5, 10, 9, 30, 0, 0, time.UTC)
	store := NewStore().WithClock(func() time.Time { return fixed })
	product, user := seed(t, store)
	runner := NewTxRunner(store)

	in := &entity.Movement{ProductID: product.ID, UserID: user.ID, Type: entity.MovementTypeIn, Quantity: 2}
	p, err := adjust(ctx, runner, in)
	require.NoError(t, err)
	assert.Equal(t, 12, p.Quantity)
	assert.Equal(t, fixed, in.Date)
	assert.Equal(t, int64(1), in.ID)

	out := &entity.Movement{ProductID: product.ID, UserID: user.ID, Type: entity.MovementTypeOut, Quantity: 4}
	p, err = adjust(ctx, runner, out)
	require.NoError(t, err)
	assert.Equal(t, 8, p.Quantity)

	// sin piso: la salida puede dejar la cantidad negativa
	big := &entity.Movement{ProductID: product.ID, UserID: user.ID, Type: entity.MovementTypeOut, Quantity: 20}
	p, err = adjust(ctx, runner, big)
	require.NoError(t, err)
	assert.Equal(t, -12, p.Quantity)
	assert.True(t, p.BelowMinimum())

	stored, err := NewProductRepository(store).GetByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, -12, stored.Quantity)

	history, err := NewMovementRepository(store).List(ctx, repository.MovementFilter{})
	require.NoError(t, err)
	require.Len(t, history, 3)
	// misma fecha: desempata el ID más reciente
	assert.Equal(t, big.ID, history[0].ID)
	assert.Equal(t, "Martelo", history[0].ProductName)
	assert.Equal(t, "Ana", history[0].UserName)
}

func TestProductRepo_AdjustQuantityFueraDeRango(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	repo := NewProductRepository(store)
	p := &entity.Product{Name: "Trena", Brand: "Vonder", Model: "5m", Quantity: entity.QuantityUpperBound - 1}
	require.NoError(t, repo.Create(ctx, p))

	got, err := repo.AdjustQuantity(ctx, p.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, entity.QuantityUpperBound, got.Quantity)

	_, err = repo.AdjustQuantity(ctx, p.ID, 1)
	assert.ErrorIs(t, err, domain.ErrQuantityOutOfRange)
	_, err = repo.AdjustQuantity(ctx, p.ID, -(entity.QuantityUpperBound + 2))
	assert.ErrorIs(t, err, domain.ErrQuantityOutOfRange)

	stored, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.QuantityUpperBound, stored.Quantity)
}

func TestTxRunner_RollbackSiUsuarioNoExiste(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	product, _ := seed(t, store)

	_, err := adjust(ctx, NewTxRunner(store), &entity.Movement{
		ProductID: product.ID, UserID: 999, Type: entity.MovementTypeIn, Quantity: 5,
	})
	require.ErrorIs(t, err, domain.ErrUserNotFound)

	stored, err := NewProductRepository(store).GetByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, stored.Quantity)

	history, err := NewMovementRepository(store).List(ctx, repository.MovementFilter{})
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestTxRunner_ProductoInexistente(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	_, user := seed(t, store)

	_, err := adjust(ctx, NewTxRunner(store), &entity.Movement{
		ProductID: 999, UserID: user.ID, Type: entity.MovementTypeIn, Quantity: 1,
	})
	require.ErrorIs(t, err, domain.ErrProductNotFound)

	history, err := NewMovementRepository(store).List(ctx, repository.MovementFilter{})
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestTxRunner_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewTxRunner(NewStore()).Run(ctx, func(repository.ProductRepository, repository.MovementRepository) error {
		return errors.New("no debería ejecutarse")
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTxRunner_MovimientosConcurrentesSeSerializan(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	product, user := seed(t, store)
	runner := NewTxRunner(store)

	const workers = 50
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(i int) {
			defer wg.Done()
			typ := entity.MovementTypeIn
			if i%2 == 1 {
				typ = entity.MovementTypeOut
			}
			_, err := adjust(ctx, runner, &entity.Movement{ProductID: product.ID, UserID: user.ID, Type: typ, Quantity: 3})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	stored, err := NewProductRepository(store).GetByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, stored.Quantity)

	history, err := NewMovementRepository(store).List(ctx, repository.MovementFilter{ProductID: &product.ID})
	require.NoError(t, err)
	assert.Len(t, history, workers)
}

func TestProductRepo_DeleteConMovimientos(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	product, user := seed(t, store)
	_, err := adjust(ctx, NewTxRunner(store), &entity.Movement{
		ProductID: product.ID, UserID: user.ID, Type: entity.MovementTypeIn, Quantity: 1,
	})
	require.NoError(t, err)

	found, err := NewProductRepository(store).Delete(ctx, product.ID)
	assert.ErrorIs(t, err, domain.ErrProductInUse)
	assert.False(t, found)

	stored, err := NewProductRepository(store).GetByID(ctx, product.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored)
}

func TestMovementRepo_ListaPorProducto(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	product, user := seed(t, store)
	other := &entity.Product{Name: "Serrote", Brand: "b", Model: "m", Quantity: 1}
	require.NoError(t, NewProductRepository(store).Create(ctx, other))
	runner := NewTxRunner(store)

	older := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	newer := older.Add(24 * time.Hour)
	_, err := adjust(ctx, runner, &entity.Movement{ProductID: product.ID, UserID: user.ID, Type: entity.MovementTypeIn, Quantity: 1, Date: older})
	require.NoError(t, err)
	_, err = adjust(ctx, runner, &entity.Movement{ProductID: other.ID, UserID: user.ID, Type: entity.MovementTypeIn, Quantity: 1, Date: newer})
	require.NoError(t, err)
	_, err = adjust(ctx, runner, &entity.Movement{ProductID: product.ID, UserID: user.ID, Type: entity.MovementTypeOut, Quantity: 1, Date: newer})
	require.NoError(t, err)

	list, err := NewMovementRepository(store).List(ctx, repository.MovementFilter{ProductID: &product.ID})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer, list[0].Date)
	assert.Equal(t, older, list[1].Date)

	var unknown int64 = 42
	empty, err := NewMovementRepository(store).List(ctx, repository.MovementFilter{ProductID: &unknown})
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestUserRepo_CreateYFindByEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(NewStore())

	u := &entity.User{Name: "Bruno", Email: "bruno@example.com", PasswordHash: "h"}
	require.NoError(t, repo.Create(ctx, u))
	assert.Equal(t, int64(1), u.ID)

	dup := &entity.User{Name: "Outro", Email: "bruno@example.com", PasswordHash: "h"}
	assert.ErrorIs(t, repo.Create(ctx, dup), domain.ErrEmailAlreadyExists)

	found, err := repo.FindByEmail(ctx, "BRUNO@example.com")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, u.ID, found.ID)

	none, err := repo.FindByEmail(ctx, "nadie@example.com")
	require.NoError(t, err)
	assert.Nil(t, none)

	byID, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bruno", byID.Name)
}
