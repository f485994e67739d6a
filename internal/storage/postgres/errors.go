package postgres

import (
	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes mapped to domain errors.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
