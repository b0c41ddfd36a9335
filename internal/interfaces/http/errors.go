package http

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockdoc-api/internal/application/dto"
	"github.com/jhoicas/stockdoc-api/internal/domain"
)

// writeError traduce errores de dominio a status HTTP con cuerpo dto.ErrorResponse.
func writeError(c *fiber.Ctx, err error) error {
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: verrs.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrNoValidTable):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "NO_VALID_TABLE", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFoundOrAlreadyConfirmed):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "NOT_PENDING", Message: "movimiento inexistente o ya confirmado"})
	case errors.Is(err, domain.ErrNegativeInitialStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "NEGATIVE_INITIAL_STOCK", Message: err.Error()})
	case errors.Is(err, domain.ErrAnalyzerUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "ANALYZER_UNAVAILABLE", Message: "el servicio de análisis de documentos no está configurado"})
	case errors.Is(err, context.DeadlineExceeded):
		return c.Status(fiber.StatusGatewayTimeout).JSON(dto.ErrorResponse{Code: "TIMEOUT", Message: "el servicio de análisis tardó demasiado; intenta de nuevo"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo de la petición inválido"})
}
