package inventory

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jhoicas/Ferramentas-api/internal/application/dto"
	"github.com/jhoicas/Ferramentas-api/internal/application/validation"
	"github.com/jhoicas/Ferramentas-api/internal/domain"
	"github.com/jhoicas/Ferramentas-api/internal/domain/entity"
	"github.com/jhoicas/Ferramentas-api/internal/domain/repository"
)

// Formatos aceptados para data_movimentacao.
var movementDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// RegisterMovementUseCase registra entradas y salidas de stock de forma transaccional:
// la actualización de la cantidad y el registro en el libro se confirman juntos o no se confirman.
type RegisterMovementUseCase struct {
	txRunner     TxRunner
	movementRepo repository.MovementRepository
	publisher    EventPublisher
}

// NewRegisterMovementUseCase construye el caso de uso. publisher puede ser nil.
func NewRegisterMovementUseCase(
	txRunner TxRunner,
	movementRepo repository.MovementRepository,
	publisher EventPublisher,
) *RegisterMovementUseCase {
	return &RegisterMovementUseCase{
		txRunner:     txRunner,
		movementRepo: movementRepo,
		publisher:    publisher,
	}
}

// MovementInput entrada ya validada y normalizada.
type MovementInput struct {
	ProductID int64
	UserID    int64
	Type      string // entrada | saida
	Quantity  int    // magnitud absoluta, > 0
	Date      time.Time
	Note      string
}

// ParseMovementRequest valida el body y lo normaliza. No toca el store.
func ParseMovementRequest(in dto.RecordMovementRequest) (MovementInput, error) {
	if err := validation.Struct(in); err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) && len(ve.Missing) > 0 {
			return MovementInput{}, domain.Invalid("Campos obrigatórios: produto_id, usuario_id, tipo, quantidade")
		}
		return MovementInput{}, err
	}
	movType, ok := entity.NormalizeMovementType(in.Type)
	if !ok {
		return MovementInput{}, domain.Invalid("tipo deve ser 'entrada' ou 'saida'")
	}
	qty := in.Quantity
	if qty < 0 {
		qty = -qty
	}
	input := MovementInput{
		ProductID: in.ProductID,
		UserID:    in.UserID,
		Type:      movType,
		Quantity:  qty,
		Note:      strings.TrimSpace(in.Note),
	}
	if s := strings.TrimSpace(in.Date); s != "" {
		date, err := parseMovementDate(s)
		if err != nil {
			return MovementInput{}, domain.Invalid("data_movimentacao inválida")
		}
		input.Date = date
	}
	return input, nil
}

func parseMovementDate(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range movementDateLayouts {
		t, err := time.ParseInLocation(layout, s, time.Local)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// RecordMovement aplica el movimiento dentro de una transacción:
//  1. UPDATE de la cantidad con el delta firmado (bloquea la fila hasta el Commit)
//  2. INSERT del movimiento en el libro
//
// Si el producto no existe no se inserta nada (ErrProductNotFound). Cualquier error en el
// INSERT (ej: usuario inexistente) revierte también el UPDATE.
func (uc *RegisterMovementUseCase) RecordMovement(ctx context.Context, in dto.RecordMovementRequest) (*dto.RecordMovementResponse, error) {
	input, err := ParseMovementRequest(in)
	if err != nil {
		return nil, err
	}
	movement, product, err := uc.Apply(ctx, input)
	if err != nil {
		return nil, err
	}
	return &dto.RecordMovementResponse{
		Movement: dto.FromMovement(movement),
		Product:  dto.FromProduct(product),
	}, nil
}

// Apply ejecuta un movimiento ya validado y devuelve el movimiento y el producto actualizado.
func (uc *RegisterMovementUseCase) Apply(ctx context.Context, input MovementInput) (*entity.Movement, *entity.Product, error) {
	if input.Quantity <= 0 {
		return nil, nil, domain.Invalid("quantidade deve ser maior que zero")
	}
	if !entity.QuantityInRange(input.Quantity) {
		return nil, nil, domain.ErrQuantityOutOfRange
	}
	var (
		movement *entity.Movement
		product  *entity.Product
	)
	err := uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		movementRepo repository.MovementRepository,
	) error {
		updated, err := productRepo.AdjustQuantity(ctx, input.ProductID, entity.SignedDelta(input.Type, input.Quantity))
		if err != nil {
			return err
		}
		if updated == nil {
			return domain.ErrProductNotFound
		}
		mov := &entity.Movement{
			ProductID: input.ProductID,
			UserID:    input.UserID,
			Type:      input.Type,
			Quantity:  input.Quantity,
			Date:      input.Date,
			Note:      input.Note,
		}
		if err := movementRepo.Create(ctx, mov); err != nil {
			return err
		}
		movement, product = mov, updated
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	log.Info().
		Int64("movimentacao_id", movement.ID).
		Int64("produto_id", product.ID).
		Str("tipo", movement.Type).
		Int("quantidade", movement.Quantity).
		Int("quantidade_atual", product.Quantity).
		Bool("abaixo_do_minimo", product.BelowMinimum()).
		Msg("movimiento registrado")

	uc.publish(ctx, movement, product)
	return movement, product, nil
}

// publish notifica el movimiento confirmado. Un fallo del broker no revierte nada: solo se registra.
func (uc *RegisterMovementUseCase) publish(ctx context.Context, m *entity.Movement, p *entity.Product) {
	if uc.publisher == nil {
		return
	}
	event := MovementEvent{
		Type:         EventMovementRecorded,
		MovementID:   m.ID,
		ProductID:    p.ID,
		ProductName:  p.Name,
		UserID:       m.UserID,
		MovementType: m.Type,
		Quantity:     m.Quantity,
		NewQuantity:  p.Quantity,
		MinQuantity:  p.MinQuantity,
		BelowMinimum: p.BelowMinimum(),
		OccurredAt:   m.Date,
	}
	if err := uc.publisher.Publish(ctx, event); err != nil {
		log.Warn().Err(err).Str("evento", event.Type).Int64("movimentacao_id", m.ID).Msg("publicar evento")
	}
	if event.BelowMinimum {
		event.Type = EventBelowMinimum
		if err := uc.publisher.Publish(ctx, event); err != nil {
			log.Warn().Err(err).Str("evento", event.Type).Int64("produto_id", p.ID).Msg("publicar evento")
		}
	}
}

// ListMovements devuelve el historial (más reciente primero), opcionalmente de un solo producto.
func (uc *RegisterMovementUseCase) ListMovements(ctx context.Context, productID *int64) ([]dto.MovementHistoryItem, error) {
	list, err := uc.movementRepo.List(ctx, repository.MovementFilter{ProductID: productID})
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementHistoryItem, 0, len(list))
	for _, m := range list {
		items = append(items, dto.MovementHistoryItem{
			MovementResponse: dto.FromMovement(&m.Movement),
			ProductName:      m.ProductName,
			UserName:         m.UserName,
		})
	}
	return items, nil
}
