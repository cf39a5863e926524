package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Ferramentas-api/internal/domain"
	"github.com/jhoicas/Ferramentas-api/internal/domain/entity"
	"github.com/jhoicas/Ferramentas-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, nome, marca, modelo, tipo_material, tamanho, peso, tensao_eletrica, quantidade, estoque_minimo`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

func scanProduct(row scanner) (*entity.Product, error) {
	var (
		p                                    entity.Product
		materialType, size, weight, voltage *string
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Brand, &p.Model, &materialType, &size, &weight, &voltage,
		&p.Quantity, &p.MinQuantity); err != nil {
		return nil, err
	}
	p.MaterialType = derefString(materialType)
	p.Size = derefString(size)
	p.Weight = derefString(weight)
	p.Voltage = derefString(voltage)
	return &p, nil
}

// queryOne ejecuta una sentencia que devuelve a lo sumo un producto; (nil, nil) si no hay fila.
func (r *ProductRepo) queryOne(ctx context.Context, op, query string, args ...any) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		if isUniqueViolation(err) {
			return nil, domain.ErrConflict
		}
		if isOutOfRange(err) {
			return nil, domain.ErrQuantityOutOfRange
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// Create persiste un nuevo producto y completa su ID.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	query := `
		INSERT INTO produtos (nome, marca, modelo, tipo_material, tamanho, peso, tensao_eletrica, quantidade, estoque_minimo)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		product.Name, product.Brand, product.Model,
		nullIfEmpty(product.MaterialType), nullIfEmpty(product.Size), nullIfEmpty(product.Weight), nullIfEmpty(product.Voltage),
		product.Quantity, product.MinQuantity,
	).Scan(&product.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		if isOutOfRange(err) {
			return domain.ErrQuantityOutOfRange
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	return r.queryOne(ctx, "get product", `SELECT `+productColumns+` FROM produtos WHERE id = $1`, id)
}

// List lista productos según el filtro. El orden definitivo (colación pt-BR) lo aplica el caso de uso.
func (r *ProductRepo) List(ctx context.Context, filter repository.ProductFilter) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM produtos`
	var (
		conds []string
		args  []any
	)
	if filter.NameContains != "" {
		args = append(args, "%"+escapeLike(filter.NameContains)+"%")
		conds = append(conds, fmt.Sprintf("nome ILIKE $%d", len(args)))
	}
	if filter.BelowMinimum {
		conds = append(conds, "quantidade < estoque_minimo")
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY LOWER(nome) ASC, id ASC"

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Update aplica cambios parciales con COALESCE en una sola sentencia.
// En los opcionales de texto una cadena vacía limpia la columna (NULL).
func (r *ProductRepo) Update(ctx context.Context, id int64, c repository.ProductUpdate) (*entity.Product, error) {
	query := `
		UPDATE produtos
		   SET nome            = COALESCE($2, nome),
		       marca           = COALESCE($3, marca),
		       modelo          = COALESCE($4, modelo),
		       tipo_material   = CASE WHEN $5::text IS NULL THEN tipo_material ELSE NULLIF($5, '') END,
		       tamanho         = CASE WHEN $6::text IS NULL THEN tamanho ELSE NULLIF($6, '') END,
		       peso            = CASE WHEN $7::text IS NULL THEN peso ELSE NULLIF($7, '') END,
		       tensao_eletrica = CASE WHEN $8::text IS NULL THEN tensao_eletrica ELSE NULLIF($8, '') END,
		       quantidade      = COALESCE($9, quantidade),
		       estoque_minimo  = COALESCE($10, estoque_minimo)
		 WHERE id = $1
		RETURNING ` + productColumns
	return r.queryOne(ctx, "update product", query,
		id, c.Name, c.Brand, c.Model, c.MaterialType, c.Size, c.Weight, c.Voltage, c.Quantity, c.MinQuantity,
	)
}

// AdjustQuantity suma delta a la cantidad y devuelve la fila resultante.
// El UPDATE toma el lock de la fila: movimientos concurrentes del mismo producto se serializan.
func (r *ProductRepo) AdjustQuantity(ctx context.Context, id int64, delta int) (*entity.Product, error) {
	query := `
		UPDATE produtos
		   SET quantidade = quantidade + $2
		 WHERE id = $1
		RETURNING ` + productColumns
	return r.queryOne(ctx, "adjust product quantity", query, id, delta)
}

// Delete elimina un producto por ID. La FK de movimentacoes es RESTRICT.
func (r *ProductRepo) Delete(ctx context.Context, id int64) (bool, error) {
	cmd, err := r.q.Exec(ctx, `DELETE FROM produtos WHERE id = $1`, id)
	if err != nil {
		if _, ok := foreignKeyViolation(err); ok {
			return false, domain.ErrProductInUse
		}
		return false, fmt.Errorf("delete product: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}
