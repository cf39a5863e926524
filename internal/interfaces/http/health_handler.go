package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/Ferramentas-api/internal/application/dto"
)

// HealthChecker verifica la conectividad con el store (pgxpool.Pool o memory.Store).
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// HealthHandler sonda de disponibilidad.
type HealthHandler struct {
	checker HealthChecker
	timeout time.Duration
}

// NewHealthHandler construye el handler.
func NewHealthHandler(checker HealthChecker) *HealthHandler {
	return &HealthHandler{checker: checker, timeout: 2 * time.Second}
}

// Check godoc
// @Summary      Healthcheck
// @Tags         health
// @Produce      json
// @Success      200  {object}  dto.HealthResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /health [get]
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), h.timeout)
	defer cancel()
	if err := h.checker.Ping(ctx); err != nil {
		log.Error().Err(err).Str("request_id", GetRequestID(c)).Msg("healthcheck: store no disponible")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: internalErrorMessage, Code: CodeInternal})
	}
	return c.JSON(dto.HealthResponse{Status: "ok"})
}
