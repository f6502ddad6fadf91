package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolationCode = "23505"
	sqliteUniqueMarker    = "UNIQUE constraint failed:"
)

// IsUniqueViolation reports whether err is a unique constraint violation.
// When constraintName is provided the violation must come from that
// constraint; otherwise any unique violation matches. Postgres errors carry
// the constraint name directly. sqlite only reports the violated columns, so
// those are matched against the constraint name instead.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code != pgUniqueViolationCode {
			return false
		}
		return constraintName == "" || pgErr.ConstraintName == constraintName
	}

	msg := err.Error()
	if idx := strings.Index(msg, sqliteUniqueMarker); idx >= 0 {
		if constraintName == "" {
			return true
		}
		return sqliteColumnsMatch(msg[idx+len(sqliteUniqueMarker):], constraintName)
	}
	if strings.Contains(msg, "duplicate key value") {
		return constraintName == "" || strings.Contains(msg, constraintName)
	}
	return false
}

// sqliteColumnsMatch checks that every violated column named in the sqlite
// error corresponds to the expected constraint, e.g. "products.sku" against
// "idx_products_sku".
func sqliteColumnsMatch(columns, constraintName string) bool {
	matched := false
	for _, col := range strings.Split(columns, ",") {
		col = strings.TrimSpace(col)
		if _, after, ok := strings.Cut(col, "."); ok {
			col = after
		}
		col = strings.TrimSuffix(col, "_id")
		if col == "" || !strings.Contains(constraintName, col) {
			return false
		}
		matched = true
	}
	return matched
}
