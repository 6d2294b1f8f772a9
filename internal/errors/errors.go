package errors

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

var (
	ErrMalformedAuth      = errors.New("invalid authorization header")
	ErrInvalidSignature   = errors.New("invalid signature")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrSigningSecretEmpty = errors.New("signing secret is empty")

	ErrUserNotFound          = errors.New("user not exists")
	ErrEmailNotConfirmed     = errors.New("please confirm email first")
	ErrCredentialsChanged    = errors.New("credentials have been changed, please log in again")
	ErrInvalidCredentials    = errors.New("invalid email or password")
	ErrWrongProvider         = errors.New("account registered with a different provider")
	ErrEmailAlreadyExists    = errors.New("email already exists")
	ErrEmailNotPending       = errors.New("email not found or already confirmed")
	ErrInvalidOTP            = errors.New("invalid otp")
	ErrInvalidExternalToken  = errors.New("invalid google id token")
	ErrNoProfileImagePending = errors.New("no profile image upload pending")
)

// StatusCode maps an error from the auth core to the HTTP status returned at
// the boundary. Unknown errors map to 500 and their detail is never echoed
// back to the client.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrMalformedAuth),
		errors.Is(err, ErrInvalidSignature),
		errors.Is(err, ErrInvalidToken),
		errors.Is(err, ErrEmailNotConfirmed),
		errors.Is(err, ErrInvalidOTP),
		errors.Is(err, ErrInvalidExternalToken),
		errors.Is(err, ErrNoProfileImagePending):
		return fiber.StatusBadRequest
	case errors.Is(err, ErrTokenExpired),
		errors.Is(err, ErrCredentialsChanged),
		errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrWrongProvider):
		return fiber.StatusUnauthorized
	case errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrEmailNotPending):
		return fiber.StatusNotFound
	case errors.Is(err, ErrEmailAlreadyExists):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// Message returns the body-safe message for an error. Internal failures are
// collapsed to a generic message so no detail leaks in responses.
func Message(err error) string {
	if StatusCode(err) == fiber.StatusInternalServerError {
		return "internal server error"
	}
	return err.Error()
}
