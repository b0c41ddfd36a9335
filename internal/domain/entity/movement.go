package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento. El signo de la cantidad lo determina el tipo.
const (
	MovementTypeInbound  = "INBOUND"  // carga / entrada
	MovementTypeOutbound = "OUTBOUND" // descarga / salida
)

// Estados del ciclo de vida de un movimiento. La transición es única: PENDING -> CONFIRMED.
const (
	MovementStatusPending   = "PENDING"
	MovementStatusConfirmed = "CONFIRMED"
)

// Movement representa un cambio propuesto de inventario, todavía no aplicado.
// Después de creado solo cambian Status y ConfirmedAt, una única vez, al confirmarse.
type Movement struct {
	ID           string
	Code         string
	Description  string
	Quantity     decimal.Decimal // magnitud, siempre positiva
	MovementType string
	Status       string
	CreatedAt    time.Time
	ConfirmedAt  *time.Time
}

// IsValidMovementType indica si t es INBOUND u OUTBOUND.
func IsValidMovementType(t string) bool {
	return t == MovementTypeInbound || t == MovementTypeOutbound
}

// SignedQuantity devuelve +Quantity para entradas y -Quantity para salidas.
func (m *Movement) SignedQuantity() decimal.Decimal {
	if m.MovementType == MovementTypeOutbound {
		return m.Quantity.Neg()
	}
	return m.Quantity
}

// IsPending indica si el movimiento aún puede confirmarse.
func (m *Movement) IsPending() bool {
	return m.Status == MovementStatusPending
}
