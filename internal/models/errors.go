package models

import "fmt"

// Validator is implemented by payloads that can check their own shape.
type Validator interface {
	Validate() error
}

// ValidationError describes a single field that failed a shape check.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}
