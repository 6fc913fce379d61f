package service

import (
	"errors"
	"fmt"

	"eazymove/pkg/errs"
	"eazymove/pkg/security"
	"eazymove/storage"
)

var (
	ErrInvalidCredentials = errs.NewUnauthorizedError("Invalid credentials")
	ErrSuspended          = errs.NewForbiddenError("Your account has been suspended")
	ErrDriverRejected     = errs.NewForbiddenError("Your application has been rejected")
	ErrDriverPending      = errs.NewForbiddenError("Your application is still pending approval")
	ErrWrongPassword      = errs.NewUnauthorizedError("Current password is incorrect")
	ErrEmailImmutable     = errs.NewBadRequestError("Email cannot be changed", nil)
	ErrPasswordTooLong    = errs.NewBadRequestError("Password must be at most 72 bytes", nil)
	ErrValueTooLong       = errs.NewBadRequestError("A field value is too long", nil)

	errDriverBusy = errs.NewConflictError("You already have an active order")
)

// translate maps storage sentinels to client errors. An empty message leaves
// that sentinel wrapped with op like any other failure.
func translate(err error, op, notFound, conflict string) error {
	switch {
	case errors.Is(err, storage.ErrTooLong):
		return ErrValueTooLong
	case notFound != "" && errors.Is(err, storage.ErrNotFound):
		return errs.NewNotFoundError(notFound)
	case conflict != "" && errors.Is(err, storage.ErrConflict):
		return errs.NewConflictError(conflict)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func notFoundOr(err error, msg, op string) error {
	return translate(err, op, msg, "")
}

func conflictOr(err error, msg, op string) error {
	return translate(err, op, "", msg)
}

func badRequest(msg string) error {
	return errs.NewBadRequestError(msg, nil)
}

func hashPassword(h *security.PasswordHasher, password string) (string, error) {
	hash, err := h.Hash(password)
	if err != nil {
		if errors.Is(err, security.ErrPasswordTooLong) {
			return "", ErrPasswordTooLong
		}
		return "", fmt.Errorf("hash password: %w", err)
	}
	return hash, nil
}
