package dto

import "github.com/jhoicas/stockdoc-api/internal/domain/entity"

// LineItemDTO renglón extraído de un documento. Quantity queda como texto validado.
type LineItemDTO struct {
	Code              string `json:"code" validate:"required"`
	Description       string `json:"description"`
	Quantity          string `json:"quantity" validate:"required"`
	CustomerReference string `json:"customer_reference,omitempty"`
}

// ExtractResponse resultado de POST /api/documents/extract.
type ExtractResponse struct {
	FileName string        `json:"file_name"`
	Total    int           `json:"total"`
	Items    []LineItemDTO `json:"items"`
}

// LineItemToDTO convierte la entidad.
func LineItemToDTO(it entity.LineItem) LineItemDTO {
	return LineItemDTO{
		Code:              it.Code,
		Description:       it.Description,
		Quantity:          it.Quantity,
		CustomerReference: it.CustomerReference,
	}
}

// ToEntity convierte el DTO en la entidad de dominio.
func (d LineItemDTO) ToEntity() entity.LineItem {
	return entity.LineItem{
		Code:              d.Code,
		Description:       d.Description,
		Quantity:          d.Quantity,
		CustomerReference: d.CustomerReference,
	}
}
