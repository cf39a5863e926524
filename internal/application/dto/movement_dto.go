package dto

import "time"

// RecordMovementRequest body para POST /movimentacoes.
// quantidade puede venir con signo: se usa su valor absoluto y el signo lo define tipo.
type RecordMovementRequest struct {
	ProductID int64  `json:"produto_id" validate:"required"`
	UserID    int64  `json:"usuario_id" validate:"required"`
	Type      string `json:"tipo" validate:"required"`
	Quantity  int    `json:"quantidade" validate:"required,min=-2147483647,max=2147483647"`
	Date      string `json:"data_movimentacao"`
	Note      string `json:"observacao" validate:"max=500"`
}

// MovementResponse salida de un movimiento.
type MovementResponse struct {
	ID        int64     `json:"id"`
	ProductID int64     `json:"produto_id"`
	UserID    int64     `json:"usuario_id"`
	Type      string    `json:"tipo"`
	Quantity  int       `json:"quantidade"`
	Date      time.Time `json:"data_movimentacao"`
	Note      string    `json:"observacao"`
}

// MovementHistoryItem fila del historial con nombres de producto y responsable.
type MovementHistoryItem struct {
	MovementResponse
	ProductName string `json:"produto_nome"`
	UserName    string `json:"responsavel_nome"`
}

// RecordMovementResponse resultado de POST /movimentacoes.
type RecordMovementResponse struct {
	Movement MovementResponse `json:"movimento"`
	Product  ProductResponse  `json:"produto"`
}
