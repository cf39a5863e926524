package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/Ferramentas-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback; si no, Commit.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		movementRepo repository.MovementRepository,
	) error) error
}

// Tipos de evento publicados tras confirmar un movimiento.
const (
	EventMovementRecorded = "movimentacao.registrada"
	EventBelowMinimum     = "estoque.abaixo_do_minimo"
)

// MovementEvent notificación de un movimiento ya confirmado.
type MovementEvent struct {
	Type         string    `json:"evento"`
	MovementID   int64     `json:"movimentacao_id"`
	ProductID    int64     `json:"produto_id"`
	ProductName  string    `json:"produto_nome"`
	UserID       int64     `json:"usuario_id"`
	MovementType string    `json:"tipo"`
	Quantity     int       `json:"quantidade"`
	NewQuantity  int       `json:"quantidade_atual"`
	MinQuantity  int       `json:"estoque_minimo"`
	BelowMinimum bool      `json:"abaixo_do_minimo"`
	OccurredAt   time.Time `json:"ocorrido_em"`
}

// EventPublisher publica eventos de inventario (RabbitMQ). Opcional: nil desactiva la publicación.
type EventPublisher interface {
	Publish(ctx context.Context, event MovementEvent) error
}
