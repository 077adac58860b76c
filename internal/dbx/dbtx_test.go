package dbx

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestConstraintViolation(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		wantCode       string
		wantConstraint string
		wantOK         bool
	}{
		{
			name:           "unique",
			err:            &pgconn.PgError{Code: CodeUniqueViolation, ConstraintName: "connection_requests_pair_uniq"},
			wantCode:       CodeUniqueViolation,
			wantConstraint: "connection_requests_pair_uniq",
			wantOK:         true,
		},
		{
			name:           "foreign key wrapped",
			err:            fmt.Errorf("insert: %w", &pgconn.PgError{Code: CodeForeignKeyViolation, ConstraintName: "connection_requests_to_user_id_fkey"}),
			wantCode:       CodeForeignKeyViolation,
			wantConstraint: "connection_requests_to_user_id_fkey",
			wantOK:         true,
		},
		{
			name:           "check",
			err:            &pgconn.PgError{Code: CodeCheckViolation, ConstraintName: "connection_requests_no_self"},
			wantCode:       CodeCheckViolation,
			wantConstraint: "connection_requests_no_self",
			wantOK:         true,
		},
		{
			name: "other pg error",
			err:  &pgconn.PgError{Code: "57P01"},
		},
		{
			name: "plain error",
			err:  errors.New("boom"),
		},
		{
			name: "nil",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, constraint, ok := ConstraintViolation(tt.err)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantConstraint, constraint)
		})
	}
}
