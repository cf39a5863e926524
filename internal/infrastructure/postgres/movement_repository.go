package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/Ferramentas-api/internal/domain"
	"github.com/jhoicas/Ferramentas-api/internal/domain/entity"
	"github.com/jhoicas/Ferramentas-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación del libro de movimientos sobre PostgreSQL (usable con pool o tx).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create persiste un movimiento. Sin fecha se usa NOW() del servidor.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	query := `
		INSERT INTO movimentacoes (produto_id, usuario_id, tipo, quantidade, data_movimentacao, observacao)
		VALUES ($1, $2, $3, $4, COALESCE($5::timestamptz, NOW()), $6)
		RETURNING id, data_movimentacao`
	var date *time.Time
	if !m.Date.IsZero() {
		date = &m.Date
	}
	err := r.q.QueryRow(ctx, query,
		m.ProductID, m.UserID, m.Type, m.Quantity, date, nullIfEmpty(m.Note),
	).Scan(&m.ID, &m.Date)
	if err != nil {
		if constraint, ok := foreignKeyViolation(err); ok {
			if strings.Contains(constraint, "usuario") {
				return domain.ErrUserNotFound
			}
			return domain.ErrProductNotFound
		}
		return fmt.Errorf("create movement: %w", err)
	}
	return nil
}

// List devuelve el historial con nombre de producto y responsable, más reciente primero.
func (r *MovementRepo) List(ctx context.Context, filter repository.MovementFilter) ([]*entity.MovementDetail, error) {
	query := `
		SELECT m.id, m.produto_id, m.usuario_id, m.tipo, m.quantidade, m.data_movimentacao, m.observacao,
		       p.nome AS produto_nome,
		       u.nome AS responsavel_nome
		  FROM movimentacoes m
		  JOIN produtos p ON p.id = m.produto_id
		  JOIN usuarios u ON u.id = m.usuario_id`
	var args []any
	if filter.ProductID != nil {
		args = append(args, *filter.ProductID)
		query += fmt.Sprintf(" WHERE m.produto_id = $%d", len(args))
	}
	query += " ORDER BY m.data_movimentacao DESC, m.id DESC"

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.MovementDetail, 0)
	for rows.Next() {
		var (
			d    entity.MovementDetail
			note *string
		)
		if err := rows.Scan(&d.ID, &d.ProductID, &d.UserID, &d.Type, &d.Quantity, &d.Date, &note,
			&d.ProductName, &d.UserName); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		d.Note = derefString(note)
		list = append(list, &d)
	}
	return list, rows.Err()
}
