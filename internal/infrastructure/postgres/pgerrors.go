package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// Códigos SQLSTATE que el adaptador traduce.
const (
	sqlStateUniqueViolation = "23505"
	sqlStateCheckViolation  = "23514"
	sqlClassDataException   = "22"
)

func pgErrCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isUniqueViolation: otra transacción insertó la misma clave (código o movement_id).
func isUniqueViolation(err error) bool {
	return pgErrCode(err) == sqlStateUniqueViolation
}

// isCheckViolation: la fila viola un CHECK del esquema (tipo, estado o cantidad).
func isCheckViolation(err error) bool {
	return pgErrCode(err) == sqlStateCheckViolation
}

// isDataException: el valor no cabe en la columna o no es representable (clase 22, p.ej. 22001 o 22021).
func isDataException(err error) bool {
	return strings.HasPrefix(pgErrCode(err), sqlClassDataException)
}
