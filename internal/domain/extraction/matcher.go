package extraction

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ColumnRole rol semántico de una columna de la tabla.
type ColumnRole int

const (
	RoleNone ColumnRole = iota
	RoleCode
	RoleDescription
	RoleQuantity
)

func (r ColumnRole) String() string {
	switch r {
	case RoleCode:
		return "code"
	case RoleDescription:
		return "description"
	case RoleQuantity:
		return "quantity"
	default:
		return "none"
	}
}

// ColumnMatcher clasifica el texto de una celda de encabezado.
// Permite cambiar la estrategia de detección sin tocar el extractor.
type ColumnMatcher interface {
	Match(header string) ColumnRole
}

// KeywordMatcher clasifica por subcadena, sin distinguir mayúsculas ni acentos.
// Las familias se evalúan en orden: código, descripción, cantidad.
type KeywordMatcher struct {
	Code        []string
	Description []string
	Quantity    []string
}

// DefaultKeywordMatcher palabras clave de los albaranes de proveedor (Cod., Descrizione, Q.tà, Quantità).
func DefaultKeywordMatcher() KeywordMatcher {
	return KeywordMatcher{
		Code:        []string{"COD"},
		Description: []string{"DESC"},
		Quantity:    []string{"QUAN", "QTA", "Q.TA"},
	}
}

// Match implementa ColumnMatcher.
func (m KeywordMatcher) Match(header string) ColumnRole {
	h := FoldHeader(header)
	switch {
	case containsAny(h, m.Code):
		return RoleCode
	case containsAny(h, m.Description):
		return RoleDescription
	case containsAny(h, m.Quantity):
		return RoleQuantity
	}
	return RoleNone
}

// FoldHeader pasa a mayúsculas y elimina diacríticos ("Q.tà" -> "Q.TA").
func FoldHeader(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToUpper(folded)
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if k != "" && strings.Contains(s, strings.ToUpper(k)) {
			return true
		}
	}
	return false
}
