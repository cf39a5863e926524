package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/Ferramentas-api/internal/application/dto"
	"github.com/jhoicas/Ferramentas-api/internal/domain"
)

// Códigos de error devueltos en el campo "code".
const (
	CodeValidation   = "VALIDATION"
	CodeInvalidBody  = "INVALID_BODY"
	CodeInvalidID    = "INVALID_ID"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeInternal     = "INTERNAL"
)

const internalErrorMessage = "Erro interno no servidor"

// respondError traduce un error de dominio a status + cuerpo {error, code}.
// Los errores no reconocidos se registran y se responden como 500 sin exponer el detalle.
func respondError(c *fiber.Ctx, err error) error {
	status, code := fiber.StatusInternalServerError, CodeInternal
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		status, code = fiber.StatusBadRequest, CodeValidation
	case errors.Is(err, domain.ErrUnauthorized):
		status, code = fiber.StatusUnauthorized, CodeUnauthorized
	case errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrNotFound):
		status, code = fiber.StatusNotFound, CodeNotFound
	case errors.Is(err, domain.ErrEmailAlreadyExists),
		errors.Is(err, domain.ErrProductInUse),
		errors.Is(err, domain.ErrConflict):
		status, code = fiber.StatusConflict, CodeConflict
	}

	msg := err.Error()
	if status == fiber.StatusInternalServerError {
		log.Error().Err(err).
			Str("request_id", GetRequestID(c)).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Msg("error interno")
		msg = internalErrorMessage
	}
	return c.Status(status).JSON(dto.ErrorResponse{Error: msg, Code: code})
}

func badRequest(c *fiber.Ctx, code, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: msg, Code: code})
}

func invalidBody(c *fiber.Ctx) error {
	return badRequest(c, CodeInvalidBody, "Corpo da requisição inválido")
}

// parseID lee un ID positivo de la ruta; ok=false si ya se respondió 400.
func parseID(c *fiber.Ctx, param string) (int64, bool) {
	id, err := strconv.ParseInt(c.Params(param), 10, 64)
	if err != nil || id <= 0 {
		_ = badRequest(c, CodeInvalidID, param+" inválido")
		return 0, false
	}
	return id, true
}

// ErrorHandler reemplaza el ErrorHandler de Fiber para que 404 de ruta, 405 y pánicos
// recuperados también respondan {error, code}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code := CodeInternal
		switch fe.Code {
		case fiber.StatusNotFound:
			code = CodeNotFound
		case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity:
			code = CodeInvalidBody
		case fiber.StatusMethodNotAllowed:
			code = "METHOD_NOT_ALLOWED"
		case fiber.StatusRequestEntityTooLarge:
			code = "PAYLOAD_TOO_LARGE"
		}
		if fe.Code < fiber.StatusInternalServerError {
			return c.Status(fe.Code).JSON(dto.ErrorResponse{Error: fe.Message, Code: code})
		}
	}
	return respondError(c, err)
}
