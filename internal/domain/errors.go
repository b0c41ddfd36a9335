package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound                   = errors.New("recurso no encontrado")
	ErrInvalidInput               = errors.New("entrada inválida")
	ErrNoValidTable               = errors.New("no se encontró ninguna estructura válida (código, descripción, cantidad)")
	ErrNotFoundOrAlreadyConfirmed = errors.New("movimiento no encontrado o ya confirmado")
	ErrNegativeInitialStock       = errors.New("una salida no puede crear un artículo con existencia negativa")
	ErrAnalyzerUnavailable        = errors.New("servicio de análisis de documentos no configurado")
)
