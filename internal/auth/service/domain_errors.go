package service

import (
	"net/http"

	commonerrors "authgate/internal/common/errors"
)

// Client-facing rejections. Message() is the exact wire text; the code stays
// server-side for logs and metrics. ErrUnknownUsername and
// ErrInvalidCredentials are distinct on purpose but share the wire message so
// login failures never reveal whether a username is registered.
var (
	ErrUsernameTaken = commonerrors.NewDomainError(
		"USERNAME_TAKEN",
		commonerrors.CategoryConflict,
		http.StatusUnprocessableEntity,
		"Username taken",
	)

	ErrPasswordTooShort = commonerrors.NewDomainError(
		"PASSWORD_TOO_SHORT",
		commonerrors.CategoryValidation,
		http.StatusUnprocessableEntity,
		"Password must be longer than 3 chars",
	)

	ErrUnknownUsername = commonerrors.NewDomainError(
		"UNKNOWN_USERNAME",
		commonerrors.CategoryUnauthorized,
		http.StatusUnauthorized,
		"Invalid credentials",
	)

	ErrInvalidCredentials = commonerrors.NewDomainError(
		"INVALID_CREDENTIALS",
		commonerrors.CategoryUnauthorized,
		http.StatusUnauthorized,
		"Invalid credentials",
	)
)

func isClientError(err error) bool {
	de, ok := commonerrors.AsDomainError(err)
	return ok && de.HTTPStatus() < http.StatusInternalServerError
}
