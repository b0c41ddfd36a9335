package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockdoc-api/internal/domain/entity"
)

// StageMovementsRequest cuerpo de POST /api/movements: registra los renglones como PENDING.
type StageMovementsRequest struct {
	MovementType string        `json:"movement_type" validate:"required,oneof=INBOUND OUTBOUND"`
	Items        []LineItemDTO `json:"items" validate:"required,min=1,dive"`
}

// StageMovementsResponse IDs de los movimientos creados, en el orden de los renglones.
type StageMovementsResponse struct {
	IDs []string `json:"ids"`
}

// MovementDTO respuesta de un movimiento.
type MovementDTO struct {
	ID           string          `json:"id"`
	Code         string          `json:"code"`
	Description  string          `json:"description"`
	Quantity     decimal.Decimal `json:"quantity"`
	MovementType string          `json:"movement_type"`
	Status       string          `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
	ConfirmedAt  *time.Time      `json:"confirmed_at,omitempty"`
}

// ConfirmMovementResponse resultado de POST /api/movements/:id/confirm.
type ConfirmMovementResponse struct {
	MovementID string               `json:"movement_id"`
	IsNewItem  bool                 `json:"is_new_item"`
	Item       InventoryItemDTO     `json:"item"`
	LogEntry   OperationLogEntryDTO `json:"log_entry"`
}

// MovementToDTO convierte la entidad.
func MovementToDTO(m *entity.Movement) MovementDTO {
	return MovementDTO{
		ID:           m.ID,
		Code:         m.Code,
		Description:  m.Description,
		Quantity:     m.Quantity,
		MovementType: m.MovementType,
		Status:       m.Status,
		CreatedAt:    m.CreatedAt,
		ConfirmedAt:  m.ConfirmedAt,
	}
}
