package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"eazymove/pkg/logger"
	"eazymove/storage"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
	stringTooLong       = "22001"
)

// mapErr translates driver errors into storage sentinels. The original error
// stays in the chain for logging.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation, foreignKeyViolation:
			return fmt.Errorf("%w: %s", storage.ErrConflict, pgErr.ConstraintName)
		case stringTooLong:
			return fmt.Errorf("%w: %s", storage.ErrTooLong, pgErr.Message)
		}
	}
	return err
}

// logFail maps err and logs it unless the row was simply missing.
func logFail(log logger.ILogger, msg string, err error, fields ...logger.Field) error {
	err = mapErr(err)
	if !errors.Is(err, storage.ErrNotFound) {
		log.Error(msg, append(fields, logger.Error(err))...)
	}
	return err
}
