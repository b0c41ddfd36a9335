package entity

// AnalyzedDocument resultado genérico de un análisis de layout: tablas sin etiquetas semánticas.
type AnalyzedDocument struct {
	Tables []DocumentTable
}

// DocumentTable grilla densa de celdas de texto en orden fila-mayor:
// la celda (row, col) está en Cells[row*ColumnCount+col].
type DocumentTable struct {
	RowCount    int
	ColumnCount int
	Cells       []string
}

// NewDocumentTable crea una tabla vacía de rows x cols.
func NewDocumentTable(rows, cols int) DocumentTable {
	if rows < 0 {
		rows = 0
	}
	if cols < 0 {
		cols = 0
	}
	return DocumentTable{RowCount: rows, ColumnCount: cols, Cells: make([]string, rows*cols)}
}

// Cell devuelve el contenido de la celda o "" si queda fuera de la grilla.
func (t DocumentTable) Cell(row, col int) string {
	if row < 0 || col < 0 || row >= t.RowCount || col >= t.ColumnCount {
		return ""
	}
	idx := row*t.ColumnCount + col
	if idx >= len(t.Cells) {
		return ""
	}
	return t.Cells[idx]
}

// Set escribe la celda (row, col); ignora posiciones fuera de la grilla.
func (t DocumentTable) Set(row, col int, content string) {
	if row < 0 || col < 0 || row >= t.RowCount || col >= t.ColumnCount {
		return
	}
	t.Cells[row*t.ColumnCount+col] = content
}
