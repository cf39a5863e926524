package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Ferramentas-api/internal/application/dto"
	"github.com/jhoicas/Ferramentas-api/internal/application/inventory"
)

// MovementHandler maneja el registro y la consulta de movimientos de stock.
type MovementHandler struct {
	uc *inventory.RegisterMovementUseCase
}

// NewMovementHandler construye el handler.
func NewMovementHandler(uc *inventory.RegisterMovementUseCase) *MovementHandler {
	return &MovementHandler{uc: uc}
}

// Record godoc
// @Summary      Registrar movimentação (entrada/saída)
// @Description  Atualiza a quantidade do produto e grava a movimentação na mesma transação.
// @Description  usuario_id pode ser omitido quando a requisição traz um token válido.
// @Tags         movimentacoes
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordMovementRequest  true  "Movimentação"
// @Success      201   {object}  dto.RecordMovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /movimentacoes [post]
func (h *MovementHandler) Record(c *fiber.Ctx) error {
	var in dto.RecordMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if in.UserID == 0 {
		in.UserID = GetUserID(c)
	}
	out, err := h.uc.RecordMovement(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Histórico de movimentações
// @Description  Mais recentes primeiro, com nome do produto e do responsável.
// @Tags         movimentacoes
// @Produce      json
// @Param        produto_id  query  int  false  "Filtrar por produto"
// @Success      200  {array}   dto.MovementHistoryItem
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /movimentacoes [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	var productID *int64
	if raw := c.Query("produto_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return badRequest(c, CodeInvalidID, "produto_id inválido")
		}
		productID = &id
	}
	out, err := h.uc.ListMovements(c.UserContext(), productID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
