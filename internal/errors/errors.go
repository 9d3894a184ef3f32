// Package errors provides centralized error definitions and error handling utilities
// for boatrental. It defines sentinel errors, semantic error types, constructors
// with context wrapping, and the classification helpers views use to decide how a
// failure is surfaced.
//
// # Error Types
//
// Domain errors wrap failures of a subsystem:
//   - StoreError: the boat store (SQLite) failed to read or write
//
// Semantic errors describe what went wrong from the caller's point of view:
//   - NotFoundError: a boat, review or boat type no longer resolves
//   - ValidationError: input rejected locally or by the update service
//   - ValidationErrors: every rejection of a batch update
//   - FetchError: a transient failure of a list or detail fetch
//
// # Usage
//
//	err := errors.NewNotFoundError("boat", "b-17")
//	if errors.IsNotFound(err) { coordinator.Clear() }
//
//	err := errors.NewFetchError("load boats", cause).WithResource("boat-type=3")
//	if errors.IsRetryable(err) { ... }
//
// # Error Classification
//
// None of these errors is fatal. Views use IsNotFound to clear a selection and
// UserMessage to turn any failure into notice text.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-export standard library functions for convenience.
var (
	Is   = errors.Is
	As   = errors.As
	New  = errors.New
	Join = errors.Join
)

var (
	// ErrBoatNotFound indicates that a boat id no longer resolves.
	ErrBoatNotFound = New("boat not found")
	// ErrBoatTypeNotFound indicates that a boat type could not be resolved.
	ErrBoatTypeNotFound = New("boat type not found")
	// ErrUnknownMessageKind indicates a message kind the channel does not carry.
	ErrUnknownMessageKind = New("unknown message kind")
)

var (
	// ErrStoreClosed indicates the store was used after Close.
	ErrStoreClosed = New("store is closed")
	// ErrMigration indicates the schema could not be brought up to date.
	ErrMigration = New("schema migration failed")
)

var (
	// ErrInvalidInput indicates that input validation failed.
	ErrInvalidInput = New("invalid input")
	// ErrTransient indicates a failure that may succeed when re-triggered.
	ErrTransient = New("transient failure")
)

// BoatError is the interface shared by all errors defined in this package.
type BoatError interface {
	error
	Unwrap() error
	Is(target error) bool
	IsRetryable() bool
	IsUserFacing() bool
}

type baseError struct {
	message    string
	cause      error
	retryable  bool
	userFacing bool
}

func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

func (e *baseError) Unwrap() error { return e.cause }

func (e *baseError) Is(target error) bool {
	if e.cause != nil {
		return errors.Is(e.cause, target)
	}
	return false
}

func (e *baseError) IsRetryable() bool  { return e.retryable }
func (e *baseError) IsUserFacing() bool { return e.userFacing }

// StoreError represents a failure of the boat store.
//
// Example:
//
//	err := errors.NewStoreError("query boats", sqlErr).WithTable("boats")
//	fmt.Println(err) // "store error [table=boats]: query boats: ..."
type StoreError struct {
	baseError
	Op     string
	Table  string
	BoatID string
}

// NewStoreError creates a new StoreError. Store errors are internal: the
// message is not shown to users verbatim.
func NewStoreError(op string, cause error) *StoreError {
	return &StoreError{
		baseError: baseError{
			message:    op,
			cause:      cause,
			retryable:  false,
			userFacing: false,
		},
		Op: op,
	}
}

// WithTable adds the table name to the error context.
func (e *StoreError) WithTable(table string) *StoreError {
	e.Table = table
	return e
}

// WithBoatID adds the boat id to the error context.
func (e *StoreError) WithBoatID(id string) *StoreError {
	e.BoatID = id
	return e
}

// WithRetryable marks the failure as transient (e.g. SQLITE_BUSY).
func (e *StoreError) WithRetryable(r bool) *StoreError {
	e.retryable = r
	return e
}

// Error returns the formatted error message.
func (e *StoreError) Error() string {
	var parts []string
	if e.Table != "" {
		parts = append(parts, fmt.Sprintf("table=%s", e.Table))
	}
	if e.BoatID != "" {
		parts = append(parts, fmt.Sprintf("boat=%s", e.BoatID))
	}

	prefix := "store error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("store error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *StoreError) Is(target error) bool {
	if _, ok := target.(*StoreError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// NotFoundError represents a resource that could not be found.
//
// Example:
//
//	err := errors.NewNotFoundError("boat", "b-17")
//	fmt.Println(err) // "boat 'b-17' not found"
type NotFoundError struct {
	baseError
	ResourceType string
	ResourceID   string
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(resourceType, resourceID string) *NotFoundError {
	return &NotFoundError{
		baseError: baseError{
			message:    fmt.Sprintf("%s '%s' not found", resourceType, resourceID),
			userFacing: true,
		},
		ResourceType: resourceType,
		ResourceID:   resourceID,
	}
}

// WithCause adds a cause to the error.
func (e *NotFoundError) WithCause(cause error) *NotFoundError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *NotFoundError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s '%s' not found: %v", e.ResourceType, e.ResourceID, e.cause)
	}
	return fmt.Sprintf("%s '%s' not found", e.ResourceType, e.ResourceID)
}

// Is checks if this error matches the target.
func (e *NotFoundError) Is(target error) bool {
	if _, ok := target.(*NotFoundError); ok {
		return true
	}
	if e.ResourceType == "boat" && target == ErrBoatNotFound {
		return true
	}
	return e.baseError.Is(target)
}

// ValidationError represents invalid input or state.
//
// Example:
//
//	err := errors.NewValidationError("subject is required").WithField("subject")
type ValidationError struct {
	baseError
	Field  string
	Value  any
	Record string // id of the record the error applies to, for batch updates
}

// NewValidationError creates a new ValidationError.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		baseError: baseError{
			message:    message,
			userFacing: true,
		},
	}
}

// WithField adds a field name to the error context.
func (e *ValidationError) WithField(field string) *ValidationError {
	e.Field = field
	return e
}

// WithValue adds the invalid value to the error context.
func (e *ValidationError) WithValue(value any) *ValidationError {
	e.Value = value
	return e
}

// WithRecord adds the id of the offending record.
func (e *ValidationError) WithRecord(id string) *ValidationError {
	e.Record = id
	return e
}

// WithCause adds a cause to the error.
func (e *ValidationError) WithCause(cause error) *ValidationError {
	e.cause = cause
	return e
}

// Message returns the bare message, without the field prefix.
func (e *ValidationError) Message() string { return e.message }

// Error returns the formatted error message.
func (e *ValidationError) Error() string {
	var parts []string
	if e.Record != "" {
		parts = append(parts, fmt.Sprintf("record=%s", e.Record))
	}
	if e.Field != "" {
		parts = append(parts, fmt.Sprintf("field=%s", e.Field))
	}
	if e.Value != nil {
		parts = append(parts, fmt.Sprintf("value=%v", e.Value))
	}

	prefix := "validation error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("validation error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *ValidationError) Is(target error) bool {
	if _, ok := target.(*ValidationError); ok {
		return true
	}
	if errors.Is(target, ErrInvalidInput) {
		return true
	}
	return e.baseError.Is(target)
}

// ValidationErrors collects every rejection of a batch operation.
type ValidationErrors []*ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	switch len(e) {
	case 0:
		return ""
	case 1:
		return e[0].Error()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d validation errors:\n", len(e))
	for i, err := range e {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

// Unwrap exposes the individual errors to errors.Is / errors.As.
func (e ValidationErrors) Unwrap() []error {
	errs := make([]error, len(e))
	for i, v := range e {
		errs[i] = v
	}
	return errs
}

// ForRecord returns the errors that apply to the given record id.
func (e ValidationErrors) ForRecord(id string) ValidationErrors {
	var out ValidationErrors
	for _, v := range e {
		if v.Record == id {
			out = append(out, v)
		}
	}
	return out
}

// FetchError represents a transient failure of a list or detail fetch
// (network, server, or a busy database). Retry is user initiated.
//
// Example:
//
//	err := errors.NewFetchError("load boat", cause).WithResource("b-17")
//	fmt.Println(err) // "fetch error [b-17]: load boat: ..."
type FetchError struct {
	baseError
	Operation string
	Resource  string
}

// NewFetchError creates a new FetchError.
func NewFetchError(operation string, cause error) *FetchError {
	return &FetchError{
		baseError: baseError{
			message:    operation,
			cause:      cause,
			retryable:  true,
			userFacing: true,
		},
		Operation: operation,
	}
}

// WithResource names what was being fetched.
func (e *FetchError) WithResource(resource string) *FetchError {
	e.Resource = resource
	return e
}

// Error returns the formatted error message.
func (e *FetchError) Error() string {
	prefix := "fetch error"
	if e.Resource != "" {
		prefix = fmt.Sprintf("fetch error [%s]", e.Resource)
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *FetchError) Is(target error) bool {
	if _, ok := target.(*FetchError); ok {
		return true
	}
	if errors.Is(target, ErrTransient) {
		return true
	}
	return e.baseError.Is(target)
}

// IsNotFound reports whether err means the requested record no longer resolves.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	var nf *NotFoundError
	return As(err, &nf) || Is(err, ErrBoatNotFound)
}

// IsValidation reports whether err is a local or remote validation rejection.
func IsValidation(err error) bool {
	if err == nil {
		return false
	}
	var v *ValidationError
	var vs ValidationErrors
	return As(err, &v) || As(err, &vs)
}

// IsRetryable returns true if the error represents a transient condition
// that may succeed when the user re-triggers the operation.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var boatErr BoatError
	if As(err, &boatErr) {
		return boatErr.IsRetryable()
	}

	return Is(err, ErrTransient)
}

// IsUserFacing returns true if the error message is safe to display to end users.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}

	var boatErr BoatError
	if As(err, &boatErr) {
		return boatErr.IsUserFacing()
	}

	var vs ValidationErrors
	return As(err, &vs)
}

// UserMessage returns a message fit for a notice: the error text when it is
// user facing, a generic sentence otherwise.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var v *ValidationError
	if As(err, &v) && len(flatten(err)) == 1 {
		return v.Message()
	}
	if IsUserFacing(err) {
		return err.Error()
	}
	return "An internal error occurred"
}

func flatten(err error) []error {
	if multi, ok := err.(interface{ Unwrap() []error }); ok {
		return multi.Unwrap()
	}
	return []error{err}
}

// Wrap wraps an error with additional context message.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted context message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
