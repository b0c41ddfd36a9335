package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OperationTypeNewItem marca la creación de un artículo de inventario.
// Los demás tipos de operación coinciden con MovementTypeInbound / MovementTypeOutbound.
const OperationTypeNewItem = "NEW_ITEM"

// OperationLogEntry registro inmutable de auditoría; uno por movimiento confirmado.
type OperationLogEntry struct {
	ID                int64
	MovementID        string
	Code              string
	OperationType     string
	PreviousQuantity  decimal.Decimal
	DeltaQuantity     decimal.Decimal // magnitud del movimiento
	ResultingQuantity decimal.Decimal
	Timestamp         time.Time
}
