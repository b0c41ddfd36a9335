package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockdoc-api/internal/domain/entity"
)

// InventoryItemDTO respuesta de un artículo de inventario.
type InventoryItemDTO struct {
	Code              string          `json:"code"`
	Description       string          `json:"description"`
	AvailableQuantity decimal.Decimal `json:"available_quantity"`
	LastUpdated       time.Time       `json:"last_updated"`
}

// OperationLogEntryDTO respuesta de una entrada del registro de auditoría.
type OperationLogEntryDTO struct {
	ID                int64           `json:"id"`
	MovementID        string          `json:"movement_id"`
	Code              string          `json:"code"`
	OperationType     string          `json:"operation_type"`
	PreviousQuantity  decimal.Decimal `json:"previous_quantity"`
	DeltaQuantity     decimal.Decimal `json:"delta_quantity"`
	ResultingQuantity decimal.Decimal `json:"resulting_quantity"`
	Timestamp         time.Time       `json:"timestamp"`
}

// LogQuery parámetros de GET /api/inventory/log.
type LogQuery struct {
	Limit int `query:"limit" validate:"gte=0,lte=1000"`
}

// InventoryItemToDTO convierte la entidad.
func InventoryItemToDTO(it *entity.InventoryItem) InventoryItemDTO {
	return InventoryItemDTO{
		Code:              it.Code,
		Description:       it.Description,
		AvailableQuantity: it.AvailableQuantity,
		LastUpdated:       it.LastUpdated,
	}
}

// OperationLogEntryToDTO convierte la entidad.
func OperationLogEntryToDTO(e *entity.OperationLogEntry) OperationLogEntryDTO {
	return OperationLogEntryDTO{
		ID:                e.ID,
		MovementID:        e.MovementID,
		Code:              e.Code,
		OperationType:     e.OperationType,
		PreviousQuantity:  e.PreviousQuantity,
		DeltaQuantity:     e.DeltaQuantity,
		ResultingQuantity: e.ResultingQuantity,
		Timestamp:         e.Timestamp,
	}
}
