package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"eazymove/storage"
)

func TestMapErr(t *testing.T) {
	plain := errors.New("connection reset")

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"nil", nil, nil},
		{"no rows", fmt.Errorf("scan: %w", pgx.ErrNoRows), storage.ErrNotFound},
		{"unique", &pgconn.PgError{Code: "23505", ConstraintName: "customers_email_key"}, storage.ErrConflict},
		{"foreign key", &pgconn.PgError{Code: "23503", ConstraintName: "orders_customer_id_fkey"}, storage.ErrConflict},
		{"too long", &pgconn.PgError{Code: "22001", Message: "value too long for type character varying(20)"}, storage.ErrTooLong},
		{"other", plain, plain},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapErr(tt.err)
			if tt.want == nil {
				if got != nil {
					t.Errorf("mapErr() = %v, want nil", got)
				}
				return
			}
			if !errors.Is(got, tt.want) {
				t.Errorf("mapErr() = %v, want %v", got, tt.want)
			}
		})
	}
}
