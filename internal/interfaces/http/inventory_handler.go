package http

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockdoc-api/internal/application/dto"
	"github.com/jhoicas/stockdoc-api/internal/application/inventory"
)

// InventoryHandler maneja las consultas del inventario y del registro de operaciones.
type InventoryHandler struct {
	query    *inventory.InventoryQueryUseCase
	report   *inventory.ReportUseCase
	validate *validator.Validate
}

// NewInventoryHandler construye el handler. report puede ser nil (ruta deshabilitada).
func NewInventoryHandler(query *inventory.InventoryQueryUseCase, report *inventory.ReportUseCase, validate *validator.Validate) *InventoryHandler {
	if validate == nil {
		validate = validator.New()
	}
	return &InventoryHandler{query: query, report: report, validate: validate}
}

// List godoc
// @Summary      Listar inventario
// @Tags         inventory
// @Produce      json
// @Success      200  {object}  dto.ListResponse[dto.InventoryItemDTO]
// @Router       /api/inventory [get]
func (h *InventoryHandler) List(c *fiber.Ctx) error {
	items, err := h.query.ListInventory(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.InventoryItemDTO, 0, len(items))
	for _, it := range items {
		out = append(out, dto.InventoryItemToDTO(it))
	}
	return c.JSON(dto.NewListResponse(out))
}

// GetItem godoc
// @Summary      Obtener artículo por código
// @Tags         inventory
// @Produce      json
// @Param        code  path  string  true  "Código del artículo"
// @Success      200   {object}  dto.InventoryItemDTO
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/{code} [get]
func (h *InventoryHandler) GetItem(c *fiber.Ctx) error {
	item, err := h.query.GetItem(c.UserContext(), c.Params("code"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.InventoryItemToDTO(item))
}

// ListLog godoc
// @Summary      Registro de operaciones
// @Description  Últimas entradas de auditoría, la más reciente primero.
// @Tags         inventory
// @Produce      json
// @Param        limit  query  int  false  "Máximo de entradas (por defecto 100, máximo 1000)"
// @Success      200    {object}  dto.ListResponse[dto.OperationLogEntryDTO]
// @Failure      400    {object}  dto.ErrorResponse
// @Router       /api/inventory/log [get]
func (h *InventoryHandler) ListLog(c *fiber.Ctx) error {
	var q dto.LogQuery
	if err := c.QueryParser(&q); err != nil {
		return badBody(c)
	}
	if err := h.validate.Struct(q); err != nil {
		return writeError(c, err)
	}
	entries, err := h.query.ListLog(c.UserContext(), q.Limit)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.OperationLogEntryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.OperationLogEntryToDTO(e))
	}
	return c.JSON(dto.NewListResponse(out))
}

// Report godoc
// @Summary      Reporte PDF de inventario
// @Tags         inventory
// @Produce      application/pdf
// @Param        limit  query  int  false  "Entradas de auditoría a incluir"
// @Success      200
// @Router       /api/inventory/report.pdf [get]
func (h *InventoryHandler) Report(c *fiber.Ctx) error {
	if h.report == nil {
		return c.SendStatus(fiber.StatusNotFound)
	}
	var q dto.LogQuery
	if err := c.QueryParser(&q); err != nil {
		return badBody(c)
	}
	if err := h.validate.Struct(q); err != nil {
		return writeError(c, err)
	}
	pdf, err := h.report.InventoryReport(c.UserContext(), q.Limit)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="inventario.pdf"`)
	return c.Send(pdf)
}
