// Package extraction convierte las tablas genéricas de un análisis de documento
// en renglones tipados (código, descripción, cantidad).
//
// El encabezado se detecta por palabras clave en las primeras filas; luego se aceptan
// todas las filas cuyo código y cantidad tienen forma válida. Filas de encabezado,
// totales o referencias se descartan solas al no validar.
package extraction

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockdoc-api/internal/domain"
	"github.com/jhoicas/stockdoc-api/internal/domain/entity"
)

// HeaderScanRows filas iniciales donde se buscan los encabezados.
const HeaderScanRows = 3

// referencePrefix marca filas de referencia (RIF. ordine, RIF. DDT) que no son materiales.
const referencePrefix = "RIF"

// Columns índices de las columnas con rol; -1 si no se encontró.
type Columns struct {
	Code        int
	Description int
	Quantity    int
}

func (c Columns) complete() bool {
	return c.Code >= 0 && c.Description >= 0 && c.Quantity >= 0
}

// TableExtractor servicio de dominio sin estado; seguro para uso concurrente
// si el ColumnMatcher lo es.
type TableExtractor struct {
	matcher ColumnMatcher
}

// NewTableExtractor construye el extractor. Con matcher nil usa DefaultKeywordMatcher.
func NewTableExtractor(matcher ColumnMatcher) *TableExtractor {
	if matcher == nil {
		matcher = DefaultKeywordMatcher()
	}
	return &TableExtractor{matcher: matcher}
}

// Extract devuelve los renglones de la primera tabla (en orden del documento) que produce
// al menos uno válido. Si ninguna lo hace, devuelve domain.ErrNoValidTable.
func (e *TableExtractor) Extract(doc entity.AnalyzedDocument) ([]entity.LineItem, error) {
	for _, table := range doc.Tables {
		if items := e.ExtractTable(table); len(items) > 0 {
			return items, nil
		}
	}
	return nil, domain.ErrNoValidTable
}

// FindColumns busca los roles en las primeras HeaderScanRows filas.
// Si varias celdas coinciden con el mismo rol gana la última.
func (e *TableExtractor) FindColumns(table entity.DocumentTable) (Columns, bool) {
	cols := Columns{Code: -1, Description: -1, Quantity: -1}
	rows := min(HeaderScanRows, table.RowCount)
	for r := 0; r < rows; r++ {
		for c := 0; c < table.ColumnCount; c++ {
			switch e.matcher.Match(table.Cell(r, c)) {
			case RoleCode:
				cols.Code = c
			case RoleDescription:
				cols.Description = c
			case RoleQuantity:
				cols.Quantity = c
			}
		}
	}
	return cols, cols.complete()
}

// ExtractTable aplica la validación a todas las filas de la tabla (encabezados incluidos).
// Devuelve nil si la tabla no tiene los tres roles o ninguna fila es válida.
func (e *TableExtractor) ExtractTable(table entity.DocumentTable) []entity.LineItem {
	cols, ok := e.FindColumns(table)
	if !ok {
		return nil
	}
	var items []entity.LineItem
	for r := 0; r < table.RowCount; r++ {
		code := strings.TrimSpace(table.Cell(r, cols.Code))
		description := strings.TrimSpace(table.Cell(r, cols.Description))
		quantity, valid := NormalizeQuantity(table.Cell(r, cols.Quantity))
		if !IsValidCode(code) || !valid {
			continue
		}
		items = append(items, entity.LineItem{
			Code:              code,
			Description:       description,
			Quantity:          quantity,
			CustomerReference: "",
		})
	}
	return items
}

// IsValidCode: no vacío y sin prefijo RIF (sin distinguir mayúsculas).
func IsValidCode(text string) bool {
	text = strings.ToUpper(strings.TrimSpace(text))
	return text != "" && !strings.HasPrefix(text, referencePrefix)
}

// NormalizeQuantity reemplaza la coma decimal por punto y verifica que el resultado sea
// un número decimal finito. Devuelve el texto normalizado, sin redondear.
func NormalizeQuantity(text string) (string, bool) {
	text = strings.ReplaceAll(strings.TrimSpace(text), ",", ".")
	if text == "" {
		return "", false
	}
	if _, err := decimal.NewFromString(text); err != nil {
		return "", false
	}
	return text, true
}
