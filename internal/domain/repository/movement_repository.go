package repository

import (
	"context"

	"github.com/jhoicas/Ferramentas-api/internal/domain/entity"
)

// MovementFilter filtro para el historial de movimientos.
type MovementFilter struct {
	ProductID *int64
}

// MovementRepository define el puerto de persistencia del libro de movimientos.
// Solo inserción y lectura: los movimientos son inmutables.
type MovementRepository interface {
	// Create inserta el movimiento y completa ID y Date (NOW() si venía en cero).
	// Devuelve domain.ErrUserNotFound si usuario_id no existe.
	Create(ctx context.Context, movement *entity.Movement) error
	List(ctx context.Context, filter MovementFilter) ([]*entity.MovementDetail, error)
}
