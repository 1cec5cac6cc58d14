// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store implements PostgreSQL persistence for the catalog and for
// orders. Stores wrap a *sql.DB opened with the pgx stdlib driver.
package store

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"gamestore/internal/apperr"
)

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// PostgreSQL error codes mapped to application error kinds.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// classify maps constraint violations to apperr kinds and passes every
// other error through unchanged.
func classify(op string, err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		return &apperr.Error{Kind: apperr.KindConflict, Op: op, Msg: "already exists", Err: err}
	case pgForeignKeyViolation:
		return &apperr.Error{Kind: apperr.KindInvalid, Op: op, Msg: "references a missing record", Err: err}
	case pgCheckViolation:
		return &apperr.Error{Kind: apperr.KindInvalid, Op: op, Msg: "violates a constraint", Err: err}
	}
	return err
}
