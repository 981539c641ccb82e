// Package validation binds and validates request payloads.
//
// Payloads declare rules with go-playground/validator tags and implement
// Validatable. Failures are turned into field-level errs.FieldError values
// so clients can highlight the offending inputs.
package validation
