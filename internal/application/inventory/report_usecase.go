package inventory

import (
	"context"
	"fmt"
	"time"
)

// ReportUseCase genera el reporte PDF de existencias con las últimas operaciones.
type ReportUseCase struct {
	query     *InventoryQueryUseCase
	generator ReportGenerator
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(query *InventoryQueryUseCase, generator ReportGenerator) *ReportUseCase {
	return &ReportUseCase{query: query, generator: generator}
}

// InventoryReport devuelve los bytes del PDF. logLimit sigue las reglas de ListLog.
func (uc *ReportUseCase) InventoryReport(ctx context.Context, logLimit int) ([]byte, error) {
	items, err := uc.query.ListInventory(ctx)
	if err != nil {
		return nil, err
	}
	entries, err := uc.query.ListLog(ctx, logLimit)
	if err != nil {
		return nil, err
	}
	pdf, err := uc.generator.GenerateInventoryReport(ctx, items, entries, time.Now())
	if err != nil {
		return nil, fmt.Errorf("reporte de inventario: %w", err)
	}
	return pdf, nil
}
