package entity

// LineItem renglón extraído de la tabla de un documento de proveedor.
// Quantity se conserva como texto decimal normalizado (coma reemplazada por punto).
type LineItem struct {
	Code              string `json:"code"`
	Description       string `json:"description"`
	Quantity          string `json:"quantity"`
	CustomerReference string `json:"customer_reference"`
}
