package apperrors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestWrapAndIsCode(t *testing.T) {
	base := errors.New("boom")
	err := fmt.Errorf("loading: %w", Wrap(base, CodeUnavailable, "store unreachable"))

	assert.True(t, IsCode(err, CodeUnavailable))
	assert.False(t, IsCode(err, CodeNotFound))
	assert.ErrorIs(t, err, base)
	assert.Equal(t, "store unreachable", MessageOf(err))
	assert.Equal(t, "internal server error", MessageOf(base))
	assert.Equal(t, Code(""), CodeOf(nil))
	assert.Equal(t, CodeUnknown, CodeOf(base))
}

func TestHTTPStatus(t *testing.T) {
	tests := map[Code]int{
		CodeInvalid:       http.StatusUnprocessableEntity,
		CodeNotFound:      http.StatusNotFound,
		CodeConflict:      http.StatusConflict,
		CodeAlreadyExists: http.StatusConflict,
		CodeUnauthorized:  http.StatusUnauthorized,
		CodeForbidden:     http.StatusForbidden,
		CodeUnavailable:   http.StatusServiceUnavailable,
		CodeDeadline:      http.StatusGatewayTimeout,
		CodeTooLarge:      http.StatusRequestEntityTooLarge,
		CodeInternal:      http.StatusInternalServerError,
	}
	for code, status := range tests {
		assert.Equal(t, status, HTTPStatus(New(code, "x")), string(code))
	}
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("plain")))
}

func TestFromDB(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		want       Code
		constraint string
	}{
		{name: "record not found", err: gorm.ErrRecordNotFound, want: CodeNotFound},
		{name: "deadline", err: context.DeadlineExceeded, want: CodeDeadline},
		{name: "check violation pgx", err: &pgconn.PgError{Code: "23514", ConstraintName: "chk_projects_abc"}, want: CodeInvalid, constraint: "chk_projects_abc"},
		{name: "restrict fk pgx", err: &pgconn.PgError{Code: "23503", ConstraintName: "fk_clients_projects"}, want: CodeConflict, constraint: "fk_clients_projects"},
		{name: "unique pq", err: &pq.Error{Code: "23505", Constraint: "idx_users_email"}, want: CodeAlreadyExists, constraint: "idx_users_email"},
		{name: "connection class", err: &pgconn.PgError{Code: "08006"}, want: CodeUnavailable},
		{name: "other sqlstate", err: &pgconn.PgError{Code: "42P01"}, want: CodeInternal},
		{name: "plain", err: errors.New("weird"), want: CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := FromDB(fmt.Errorf("wrapped: %w", tt.err), "query failed")
			assert.True(t, IsCode(err, tt.want), "got %s", CodeOf(err))
			if tt.constraint != "" {
				var ae *AppError
				assert.True(t, errors.As(err, &ae))
				assert.Equal(t, tt.constraint, ae.Meta["constraint"])
			}
		})
	}

	assert.NoError(t, FromDB(nil, "noop"))

	already := New(CodeForbidden, "nope")
	assert.Same(t, already, FromDB(already, "ignored"))
}
