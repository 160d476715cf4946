// Package validator provides a small validation abstraction for request and
// domain structs.
//
// Business code depends on the Validator interface so validation can be
// shared and tested consistently. The concrete implementation
// (go-playground/validator v10) lives in this package.
package validator

// Validator validates struct fields against their declared rules.
type Validator interface {
	// Validate checks the data and returns an error describing any violations.
	Validate(data any) error
}
