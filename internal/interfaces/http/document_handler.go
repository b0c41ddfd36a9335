package http

import (
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockdoc-api/internal/application/dto"
	"github.com/jhoicas/stockdoc-api/internal/application/usecase"
	"github.com/jhoicas/stockdoc-api/internal/domain/entity"
)

// DocumentHandler maneja la carga y extracción de documentos de proveedor.
type DocumentHandler struct {
	uc *usecase.DocumentUseCase
}

// NewDocumentHandler construye el handler.
func NewDocumentHandler(uc *usecase.DocumentUseCase) *DocumentHandler {
	return &DocumentHandler{uc: uc}
}

// Extract godoc
// @Summary      Extraer renglones de un documento
// @Description  Analiza una imagen o PDF (campo multipart "file") y devuelve código, descripción
//
//	y cantidad de cada renglón de la primera tabla válida. No registra movimientos.
//
// @Tags         documents
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Imagen (jpeg/png) o PDF"
// @Success      200   {object}  dto.ExtractResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/documents/extract [post]
func (h *DocumentHandler) Extract(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_FILE", Message: "falta el archivo en el campo file"})
	}
	f, err := fh.Open()
	if err != nil {
		return writeError(c, err)
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		return writeError(c, err)
	}

	items, err := h.uc.Extract(c.UserContext(), content, fh.Header.Get("Content-Type"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toExtractResponse(fh.Filename, items))
}

func toExtractResponse(name string, items []entity.LineItem) dto.ExtractResponse {
	out := dto.ExtractResponse{FileName: name, Total: len(items), Items: make([]dto.LineItemDTO, 0, len(items))}
	for _, it := range items {
		out.Items = append(out.Items, dto.LineItemToDTO(it))
	}
	return out
}
