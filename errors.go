package session

import (
	goerrors "github.com/goliatone/go-errors"
)

const (
	TextCodeInvalidCredentials  = "INVALID_CREDENTIALS"
	TextCodeDuplicateIdentifier = "DUPLICATE_IDENTIFIER"
	TextCodeInvalidInput        = "INVALID_INPUT"
	TextCodeInvalidToken        = "INVALID_TOKEN"
	TextCodeTransportFailure    = "TRANSPORT_FAILURE"
)

// ErrInvalidCredentials is returned for a failed login. Unknown identifier
// and wrong secret are deliberately indistinguishable to the caller.
var ErrInvalidCredentials = goerrors.New("invalid credentials", goerrors.CategoryAuth).
	WithTextCode(TextCodeInvalidCredentials).
	WithCode(goerrors.CodeUnauthorized)

// ErrDuplicateIdentifier is returned when registering an identifier that
// already exists.
var ErrDuplicateIdentifier = goerrors.New("identifier already registered", goerrors.CategoryConflict).
	WithTextCode(TextCodeDuplicateIdentifier).
	WithCode(goerrors.CodeConflict)

// ErrInvalidInput is returned when registration payload fields are missing
// or malformed.
var ErrInvalidInput = goerrors.New("missing or invalid fields", goerrors.CategoryValidation).
	WithTextCode(TextCodeInvalidInput).
	WithCode(goerrors.CodeBadRequest)

// ErrInvalidToken covers absent, malformed, and expired tokens alike; a
// token either resolves to exactly one identity or it is this.
var ErrInvalidToken = goerrors.New("invalid or expired token", goerrors.CategoryAuth).
	WithTextCode(TextCodeInvalidToken).
	WithCode(goerrors.CodeUnauthorized)

// ErrTransport marks a network or decode failure, distinct from a request
// the issuer actually rejected.
var ErrTransport = goerrors.New("transport failure", goerrors.CategoryOperation).
	WithTextCode(TextCodeTransportFailure)

func hasTextCode(err error, code string) bool {
	var rich *goerrors.Error
	if goerrors.As(err, &rich) {
		return rich.TextCode == code
	}
	return false
}

// IsInvalidCredentials will check for rejected logins
func IsInvalidCredentials(err error) bool {
	return hasTextCode(err, TextCodeInvalidCredentials)
}

// IsDuplicateIdentifier will check for registration conflicts
func IsDuplicateIdentifier(err error) bool {
	return hasTextCode(err, TextCodeDuplicateIdentifier)
}

// IsInvalidToken will check for absent, malformed, or expired tokens
func IsInvalidToken(err error) bool {
	return hasTextCode(err, TextCodeInvalidToken)
}

// IsTransportFailure will check for network or decode failures
func IsTransportFailure(err error) bool {
	return hasTextCode(err, TextCodeTransportFailure)
}

// WrapTransport tags err as a transport failure, keeping the cause.
func WrapTransport(err error, msg string) error {
	return goerrors.Wrap(err, goerrors.CategoryOperation, msg).
		WithTextCode(TextCodeTransportFailure)
}

// ErrorMessage reduces err to the human readable message the UI layer
// shows. Transport failures do not leak wire details.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	if IsTransportFailure(err) {
		return "service unavailable, try again later"
	}

	var rich *goerrors.Error
	if goerrors.As(err, &rich) {
		return rich.Message
	}

	return err.Error()
}
