package entity

import (
	"fmt"
	"strings"
)

// Document is implemented by every typed projection of a remote doctype
type Document interface {
	DocType() string
	DocName() string
}

// RemoteDecoder is implemented by documents whose remote field names differ
// from the names exposed by the gateway
type RemoteDecoder interface {
	DecodeRemote(data []byte) error
}

// RemoteEncoder is implemented by documents that must rename fields before
// they are written to the ERP server
type RemoteEncoder interface {
	EncodeRemote() map[string]interface{}
}

// ValidationError reports a payload rejected before any remote call
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError creates a ValidationError for a field
func NewValidationError(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// requireString returns a ValidationError when value is blank
func requireString(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return NewValidationError(field, "is required")
	}
	return nil
}
