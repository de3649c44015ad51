package services

import (
	"github.com/tonzxz12/Findr-sub000/internal/apperrors"
)

var (
	ErrInvalidCredentials = apperrors.New(apperrors.CodeUnauthorized, "invalid credentials")
	ErrInvalidToken       = apperrors.New(apperrors.CodeUnauthorized, "invalid token")
	ErrTokenExpired       = apperrors.New(apperrors.CodeUnauthorized, "token expired")
	ErrUserInactive       = apperrors.New(apperrors.CodeForbidden, "user is deactivated")
	ErrUserAlreadyExists  = apperrors.New(apperrors.CodeAlreadyExists, "user already exists")
	ErrClientForbidden    = apperrors.New(apperrors.CodeForbidden, "client access denied")
	ErrNoClientAssigned   = apperrors.New(apperrors.CodeForbidden, "no client assigned to user")
	ErrClientRequired     = apperrors.New(apperrors.CodeInvalid, "client id required when the user owns several clients")
)

// invalid reports a validation failure with its field messages.
func invalid(err error) error {
	return apperrors.New(apperrors.CodeInvalid, err.Error())
}
