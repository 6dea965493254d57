package postgres

import (
	"database/sql"
	stderrors "errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/split-the-distance/internal/pkg/errors"
)

const uniqueViolation = "23505"

// dbError maps driver errors to application errors and logs the unexpected
// ones.
func dbError(logger *zap.Logger, op string, err error, fields ...zap.Field) error {
	if err == sql.ErrNoRows {
		return errors.ErrNotFound
	}
	if isUniqueViolation(err) {
		return errors.ErrInvalidState.WithMessage("record already exists")
	}
	logger.Error("Database operation failed", append(fields, zap.String("op", op), zap.Error(err))...)
	return errors.ErrDatabaseError
}

// isUniqueViolation understands both the pgx driver used in production and
// lib/pq used by the integration tests.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if stderrors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation
	}
	var pqErr *pq.Error
	if stderrors.As(err, &pqErr) {
		return string(pqErr.Code) == uniqueViolation
	}
	return false
}

// requireRow turns a zero-row update or delete into ErrNotFound.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
