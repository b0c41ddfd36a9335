// Package pdf genera el reporte de existencias y auditoría del inventario.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: título + fecha de generación                       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  EXISTENCIAS: Código | Descripción | Disponible | Actualizado│
//	│  ─────────────────────────────────────────────────────────  │
//	│  AUDITORÍA: Fecha | Código | Operación | Prev | Δ | Result  │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockdoc-api/internal/application/inventory"
	"github.com/jhoicas/stockdoc-api/internal/domain/entity"
)

var _ inventory.ReportGenerator = (*MarotoReportGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary  = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray     = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorNegative = &props.Color{Red: 180, Green: 20, Blue: 20}
)

const dateLayout = "02/01/2006 15:04"

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoReportGenerator implementa inventory.ReportGenerator usando Maroto v2.
type MarotoReportGenerator struct {
	title string
}

// NewMarotoReportGenerator construye el generador; title vacío usa "Reporte de Inventario".
func NewMarotoReportGenerator(title string) *MarotoReportGenerator {
	if title == "" {
		title = "Reporte de Inventario"
	}
	return &MarotoReportGenerator{title: title}
}

// GenerateInventoryReport genera el PDF y devuelve sus bytes.
func (g *MarotoReportGenerator) GenerateInventoryReport(
	_ context.Context,
	items []*entity.InventoryItem,
	entries []*entity.OperationLogEntry,
	generatedAt time.Time,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(g.title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.title, generatedAt, len(items), len(entries)))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(sectionRow("EXISTENCIAS"))
	m.AddRows(stockHeaderRow())
	if len(items) == 0 {
		m.AddRows(emptyRow("Sin artículos registrados."))
	}
	m.AddRows(stockRows(items)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(sectionRow("REGISTRO DE OPERACIONES"))
	m.AddRows(logHeaderRow())
	if len(entries) == 0 {
		m.AddRows(emptyRow("Sin operaciones confirmadas."))
	}
	m.AddRows(logRows(entries)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(title string, generatedAt time.Time, nItems, nEntries int) core.Row {
	return row.New(16).Add(
		col.New(7).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("%d artículos  |  %d operaciones", nItems, nEntries), props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("Generado: "+generatedAt.Format(dateLayout), props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
		),
	)
}

func sectionRow(label string) core.Row {
	return row.New(7).Add(col.New(12).Add(
		text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 1,
		}),
	))
}

func emptyRow(msg string) core.Row {
	return row.New(6).Add(col.New(12).Add(
		text.New(msg, props.Text{Size: 8, Color: colorGray, Top: 1, Left: 1}),
	))
}

func headerCol(label string, size int, a align.Type) core.Col {
	return col.New(size).Add(text.New(label, props.Text{
		Style: fontstyle.Bold, Size: 8, Align: a, Top: 1, Left: 1, Right: 1,
	}))
}

func stockHeaderRow() core.Row {
	return row.New(6).Add(
		headerCol("Código", 2, align.Left),
		headerCol("Descripción", 5, align.Left),
		headerCol("Disponible", 2, align.Right),
		headerCol("Actualizado", 3, align.Right),
	)
}

func stockRows(items []*entity.InventoryItem) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		result = append(result, row.New(6).Add(
			col.New(2).Add(text.New(it.Code, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(5).Add(text.New(truncate(it.Description, 60), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(quantityText(it.AvailableQuantity, false)),
			col.New(3).Add(text.New(it.LastUpdated.Format(dateLayout), props.Text{
				Size: 8, Align: align.Right, Top: 1, Right: 1, Color: colorGray,
			})),
		))
	}
	return result
}

func logHeaderRow() core.Row {
	return row.New(6).Add(
		headerCol("Fecha", 3, align.Left),
		headerCol("Código", 2, align.Left),
		headerCol("Operación", 2, align.Left),
		headerCol("Anterior", 1, align.Right),
		headerCol("Delta", 2, align.Right),
		headerCol("Resultado", 2, align.Right),
	)
}

func logRows(entries []*entity.OperationLogEntry) []core.Row {
	result := make([]core.Row, 0, len(entries))
	for _, e := range entries {
		if e == nil {
			continue
		}
		result = append(result, row.New(6).Add(
			col.New(3).Add(text.New(e.Timestamp.Format(dateLayout), props.Text{Size: 7.5, Top: 1, Left: 1, Color: colorGray})),
			col.New(2).Add(text.New(e.Code, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(e.OperationType, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(1).Add(quantityText(e.PreviousQuantity, false)),
			col.New(2).Add(quantityText(e.DeltaQuantity, false)),
			col.New(2).Add(quantityText(e.ResultingQuantity, true)),
		))
	}
	return result
}

// ── helpers ───────────────────────────────────────────────────────────────────

// quantityText alinea a la derecha y marca en rojo los valores negativos.
func quantityText(q decimal.Decimal, bold bool) core.Component {
	p := props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1}
	if bold {
		p.Style = fontstyle.Bold
	}
	if q.IsNegative() {
		p.Color = colorNegative
	}
	return text.New(q.String(), p)
}

// truncate corta s a n runas añadiendo "...".
func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
