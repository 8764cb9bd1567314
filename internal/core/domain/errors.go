package domain

import "fmt"

// Validation error codes.
const (
	CodeMissingRequiredField = "missing_required_field"
	CodeInvalidNumeric       = "invalid_numeric"
)

// ValidationError rejects a submission before anything touches storage or
// the network. It names the offending column so the caller can re-prompt.
type ValidationError struct {
	Code   string `json:"code"`
	Column string `json:"column"`
}

func (e *ValidationError) Error() string {
	switch e.Code {
	case CodeMissingRequiredField:
		return fmt.Sprintf("required field %q is missing", e.Column)
	case CodeInvalidNumeric:
		return fmt.Sprintf("field %q must be a non-negative number", e.Column)
	default:
		return fmt.Sprintf("invalid value for field %q", e.Column)
	}
}

func errMissingField(column string) *ValidationError {
	return &ValidationError{Code: CodeMissingRequiredField, Column: column}
}

func errInvalidNumeric(column string) *ValidationError {
	return &ValidationError{Code: CodeInvalidNumeric, Column: column}
}
