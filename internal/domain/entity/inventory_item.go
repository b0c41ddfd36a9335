package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryItem es el agregado materializado de existencias por código de material.
// AvailableQuantity es la suma con signo de los movimientos confirmados del código
// y puede ser negativa.
type InventoryItem struct {
	Code              string
	Description       string
	AvailableQuantity decimal.Decimal
	LastUpdated       time.Time
}
