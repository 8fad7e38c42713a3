package usecase

import "errors"

const (
	CodeValidation       = "VALIDATION_ERROR"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeForbidden        = "FORBIDDEN"
	CodeNotFound         = "NOT_FOUND"
	CodeConflict         = "CONFLICT"
	CodeUpstream         = "UPSTREAM_ERROR"
	CodeNoBillingAccount = "NO_BILLING_ACCOUNT"
)

// DomainError is a failure the caller can act on. Message is safe to return.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

// TechnicalError wraps a store or provider failure. Only Message may leave
// the process; Err is for logs.
type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}

// CodeOf maps any error to a stable taxonomy code.
func CodeOf(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	var te *TechnicalError
	if errors.As(err, &te) && te.Code != "" {
		return te.Code
	}
	return CodeUpstream
}

// PublicMessage returns the text a caller may see for err.
func PublicMessage(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Message
	}
	var te *TechnicalError
	if errors.As(err, &te) {
		return te.Message
	}
	return "internal error"
}

func validationError(msg string) error {
	return &DomainError{Code: CodeValidation, Message: msg}
}

func unauthorized(msg string) error {
	return &DomainError{Code: CodeUnauthorized, Message: msg}
}

func forbidden(msg string) error {
	return &DomainError{Code: CodeForbidden, Message: msg}
}

func notFound(msg string) error {
	return &DomainError{Code: CodeNotFound, Message: msg}
}

func conflict(msg string) error {
	return &DomainError{Code: CodeConflict, Message: msg}
}

func upstream(msg string, err error) error {
	return &TechnicalError{Code: CodeUpstream, Message: msg, Err: err}
}
