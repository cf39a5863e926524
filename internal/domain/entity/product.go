package entity

import "math"

// Rango de la columna INTEGER de quantidade y estoque_minimo.
const (
	QuantityUpperBound = math.MaxInt32
	QuantityLowerBound = math.MinInt32
)

// Product representa una herramienta del inventario.
// Quantity puede quedar negativa por salidas: no hay piso.
type Product struct {
	ID           int64
	Name         string
	Brand        string
	Model        string
	MaterialType string // opcionales: vacío = NULL en la tabla
	Size         string
	Weight       string
	Voltage      string
	Quantity     int
	MinQuantity  int
}

// BelowMinimum indica si el stock actual está por debajo del mínimo (estricto).
func (p *Product) BelowMinimum() bool {
	return p.Quantity < p.MinQuantity
}

// QuantityInRange indica si q cabe en la columna quantidade.
func QuantityInRange(q int) bool {
	return q >= QuantityLowerBound && q <= QuantityUpperBound
}
