package postgres

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

const (
	codeForeignKeyViolation = "23503"
	codeInvalidText         = "22P02"
)

// pqCode returns the SQLSTATE of a postgres error, or "".
func pqCode(err error) string {
	var pgErr *pq.Error
	if errors.As(err, &pgErr) {
		return string(pgErr.Code)
	}
	return ""
}

func isForeignKeyViolation(err error) bool { return pqCode(err) == codeForeignKeyViolation }

func isInvalidText(err error) bool { return pqCode(err) == codeInvalidText }

func nullString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}
