package repository

import (
	"context"

	"github.com/jhoicas/Ferramentas-api/internal/domain/entity"
)

// ProductFilter filtro estructurado para listar productos.
type ProductFilter struct {
	NameContains string // subcadena sin distinguir mayúsculas; vacío = todos
	BelowMinimum bool   // solo productos con quantidade < estoque_minimo
}

// ProductUpdate cambios parciales: nil conserva el valor actual.
type ProductUpdate struct {
	Name         *string
	Brand        *string
	Model        *string
	MaterialType *string
	Size         *string
	Weight       *string
	Voltage      *string
	Quantity     *int
	MinQuantity  *int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetByID, Update y AdjustQuantity devuelven (nil, nil) si el producto no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id int64) (*entity.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, error)
	Update(ctx context.Context, id int64, changes ProductUpdate) (*entity.Product, error)
	// AdjustQuantity suma delta a la cantidad en una sola sentencia y devuelve la fila actualizada.
	AdjustQuantity(ctx context.Context, id int64, delta int) (*entity.Product, error)
	// Delete devuelve false si no existía; domain.ErrProductInUse si tiene movimientos.
	Delete(ctx context.Context, id int64) (bool, error)
}
