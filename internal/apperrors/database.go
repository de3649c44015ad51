package apperrors

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// PostgreSQL SQLSTATE codes surfaced to callers.
const (
	sqlStateCheckViolation      = "23514"
	sqlStateNotNullViolation    = "23502"
	sqlStateForeignKeyViolation = "23503"
	sqlStateUniqueViolation     = "23505"
	sqlStateInvalidText         = "22P02"
	sqlStateNumericOutOfRange   = "22003"
)

// FromDB classifies a store error. Constraint violations keep the constraint
// name in Meta so callers can report which rule failed.
func FromDB(err error, message string) error {
	if err == nil {
		return nil
	}

	var ae *AppError
	if errors.As(err, &ae) {
		return err
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return Wrap(err, CodeNotFound, message)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return Wrap(err, CodeDeadline, message)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return Wrap(err, CodeAlreadyExists, message)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return Wrap(err, CodeConflict, message)
	case errors.Is(err, gorm.ErrCheckConstraintViolated):
		return Wrap(err, CodeInvalid, message)
	}

	if state, constraint, ok := sqlState(err); ok {
		code := CodeInternal
		switch state {
		case sqlStateCheckViolation, sqlStateNotNullViolation, sqlStateInvalidText, sqlStateNumericOutOfRange:
			code = CodeInvalid
		case sqlStateForeignKeyViolation:
			code = CodeConflict
		case sqlStateUniqueViolation:
			code = CodeAlreadyExists
		}
		// class 08 is connection exception
		if code == CodeInternal && state[:2] == "08" {
			code = CodeUnavailable
		}
		wrapped := Wrap(err, code, message).WithMeta("sqlstate", state)
		if constraint != "" {
			wrapped.WithMeta("constraint", constraint)
		}
		return wrapped
	}

	if isConnectivity(err) {
		return Wrap(err, CodeUnavailable, message)
	}

	return Wrap(err, CodeInternal, message)
}

func sqlState(err error) (state, constraint string, ok bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr.ConstraintName, len(pgErr.Code) == 5
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code), pqErr.Constraint, len(pqErr.Code) == 5
	}
	return "", "", false
}

func isConnectivity(err error) bool {
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
