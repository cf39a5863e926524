package entity

import (
	"strings"
	"time"
)

// Tipos de movimiento (valores persistidos en movimentacoes.tipo).
const (
	MovementTypeIn  = "entrada"
	MovementTypeOut = "saida"
)

// Movement es un registro inmutable del libro de movimientos.
// Quantity es siempre la magnitud absoluta; el signo lo da Type.
type Movement struct {
	ID        int64
	ProductID int64
	UserID    int64
	Type      string
	Quantity  int
	Date      time.Time // cero = NOW() del store al confirmar
	Note      string
}

// MovementDetail es un movimiento con los nombres del producto y del responsable.
type MovementDetail struct {
	Movement
	ProductName string
	UserName    string
}

// NormalizeMovementType devuelve el tipo en minúsculas y si es válido.
func NormalizeMovementType(t string) (string, bool) {
	t = strings.ToLower(strings.TrimSpace(t))
	return t, t == MovementTypeIn || t == MovementTypeOut
}

// SignedDelta devuelve +magnitude para entradas y -magnitude para salidas.
func SignedDelta(movementType string, magnitude int) int {
	if magnitude < 0 {
		magnitude = -magnitude
	}
	if movementType == MovementTypeOut {
		return -magnitude
	}
	return magnitude
}

// Delta es el efecto firmado del movimiento sobre la cantidad del producto.
func (m *Movement) Delta() int {
	return SignedDelta(m.Type, m.Quantity)
}
