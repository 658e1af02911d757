package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	CodeInternal      ErrorCode = "INTERNAL_ERROR"
	CodeInvalidInput  ErrorCode = "INVALID_INPUT"
	CodeValidation    ErrorCode = "VALIDATION_ERROR"
	CodeMissingField  ErrorCode = "MISSING_FIELD"
	CodeInvalidFormat ErrorCode = "INVALID_FORMAT"
	CodeOutOfRange    ErrorCode = "OUT_OF_RANGE"
	CodeInvalidState  ErrorCode = "INVALID_STATE"
	CodeSessionBusy   ErrorCode = "SESSION_BUSY"

	// Startup
	CodeConfiguration ErrorCode = "CONFIGURATION_ERROR"

	// Model gateway and quiz generation
	CodeGatewayFailure    ErrorCode = "GATEWAY_FAILURE"
	CodeMalformedResponse ErrorCode = "MALFORMED_RESPONSE"
	CodeEmptyQuiz         ErrorCode = "EMPTY_QUIZ"
)

// DomainError represents a domain-specific error.
// Message is safe to show to the end user; Err carries the operator-facing cause.
type DomainError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Err     error                  `json:"-"`
	Context map[string]interface{} `json:"-"`

	raw string
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// WithContext attaches a detail that is returned to the client.
func (e *DomainError) WithContext(key string, value interface{}) *DomainError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewInvalidInputError(message string) *DomainError {
	return NewError(CodeInvalidInput, message, nil)
}

func NewInternalError(message string, err error) *DomainError {
	return NewError(CodeInternal, message, err)
}

func NewInvalidStateError(message string) *DomainError {
	return NewError(CodeInvalidState, message, nil)
}

func NewSessionBusyError() *DomainError {
	return NewError(CodeSessionBusy, "Another request for this session is still running", nil)
}

// NewConfigurationError is fatal at startup.
func NewConfigurationError(message string) *DomainError {
	return NewError(CodeConfiguration, message, nil)
}

func NewGatewayFailure(err error) *DomainError {
	return NewError(CodeGatewayFailure, "An error occurred with the model service", err)
}

// NewMalformedResponseError keeps the raw model output for diagnostics only.
func NewMalformedResponseError(raw string, err error) *DomainError {
	return NewError(CodeMalformedResponse, "Failed to parse the quiz data from the model", err).
		WithRaw(raw)
}

func NewEmptyQuizError() *DomainError {
	return NewError(CodeEmptyQuiz, "The model did not return valid quiz data. Please try a different topic or try again.", nil)
}

// WithRaw stores text that must never reach the end user.
func (e *DomainError) WithRaw(raw string) *DomainError {
	e.raw = raw
	return e
}

// Raw returns the diagnostic text attached with WithRaw.
func (e *DomainError) Raw() string {
	return e.raw
}

// HasCode reports whether err is a DomainError with the given code.
func HasCode(err error, code ErrorCode) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}
