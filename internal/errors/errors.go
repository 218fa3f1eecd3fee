package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// =============================================================================
// ERROR CODES
// =============================================================================

// Error code constants for structured errors
const (
	CodeNotFound              = "DEFINITION_NOT_FOUND"
	CodeDuplicateRegistration = "DUPLICATE_REGISTRATION"
	CodeDuplicateAlias        = "DUPLICATE_ALIAS"
	CodeCyclicInheritance     = "CYCLIC_INHERITANCE"
	CodeAbstractDefinition    = "ABSTRACT_DEFINITION"
	CodeCircularReference     = "CIRCULAR_REFERENCE"
	CodeScopeNotRegistered    = "SCOPE_NOT_REGISTERED"
	CodeMergeTypeMismatch     = "MERGE_TYPE_MISMATCH"
	CodeConstructionFailure   = "CONSTRUCTION_FAILURE"
	CodeDestructionFailure    = "DESTRUCTION_FAILURE"
	CodeContainerFrozen       = "CONTAINER_FROZEN"
)

// =============================================================================
// STRUCTURED ERROR
// =============================================================================

// Error represents a structured error with context
type Error struct {
	Code      string
	Message   string
	Cause     error
	Timestamp time.Time
	Context   map[string]interface{}
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is for Error.
// Compares by error code, allowing matching against sentinel errors
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code != "" && e.Code == t.Code
}

// WithContext adds context to the error
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

func newError(code, message string, cause error, context map[string]interface{}) *Error {
	return &Error{
		Code:      code,
		Message:   message,
		Cause:     cause,
		Timestamp: time.Now(),
		Context:   context,
	}
}

// ErrDefinitionNotFound creates a not-found error for a bean definition
func ErrDefinitionNotFound(name string) *Error {
	return newError(CodeNotFound,
		"no bean definition registered for '"+name+"'",
		nil, map[string]interface{}{"bean_name": name})
}

// ErrAliasNotFound creates a not-found error for an alias
func ErrAliasNotFound(alias string) *Error {
	return newError(CodeNotFound,
		"no alias registered for '"+alias+"'",
		nil, map[string]interface{}{"alias": alias})
}

// ErrDuplicateRegistration creates a duplicate-registration error
func ErrDuplicateRegistration(name string) *Error {
	return newError(CodeDuplicateRegistration,
		"a bean definition for '"+name+"' is already registered and overriding is not allowed",
		nil, map[string]interface{}{"bean_name": name})
}

// ErrDuplicateAlias creates a conflicting-alias error
func ErrDuplicateAlias(alias, existing, requested string) *Error {
	return newError(CodeDuplicateAlias,
		fmt.Sprintf("alias '%s' is already registered for '%s', cannot register for '%s'",
			alias, existing, requested),
		nil, map[string]interface{}{"alias": alias, "existing": existing, "requested": requested})
}

// ErrAliasCycle reports an alias that would resolve to itself
func ErrAliasCycle(name, alias string) *Error {
	return newError(CodeDuplicateAlias,
		fmt.Sprintf("alias '%s' for '%s' would create a cycle", alias, name),
		nil, map[string]interface{}{"alias": alias, "bean_name": name})
}

// ErrCyclicInheritance reports a cycle in a parent-definition chain
func ErrCyclicInheritance(chain []string) *Error {
	return newError(CodeCyclicInheritance,
		"cyclic parent chain in bean definitions: "+strings.Join(chain, " -> "),
		nil, map[string]interface{}{"chain": chain})
}

// ErrAbstractDefinition reports an attempt to instantiate an abstract definition
func ErrAbstractDefinition(name string) *Error {
	return newError(CodeAbstractDefinition,
		"bean definition '"+name+"' is abstract and cannot be instantiated",
		nil, map[string]interface{}{"bean_name": name})
}

// ErrCircularReference reports a construction cycle, carrying the creation path
func ErrCircularReference(path []string) *Error {
	return newError(CodeCircularReference,
		"circular reference during bean creation: "+strings.Join(path, " -> "),
		nil, map[string]interface{}{"path": path})
}

// ErrScopeNotRegistered reports resolution against an unknown scope name
func ErrScopeNotRegistered(scope, beanName string) *Error {
	return newError(CodeScopeNotRegistered,
		fmt.Sprintf("no scope registered for name '%s' (bean '%s')", scope, beanName),
		nil, map[string]interface{}{"scope": scope, "bean_name": beanName})
}

// ErrMergeTypeMismatch reports a mergeable collection merged against an incompatible value
func ErrMergeTypeMismatch(message string) *Error {
	return newError(CodeMergeTypeMismatch, message, nil, nil)
}

// ErrMergeDisabled reports a merge attempt on a collection with merging disabled
func ErrMergeDisabled() *Error {
	return newError(CodeMergeTypeMismatch,
		"not allowed to merge when merging is disabled for this collection", nil, nil)
}

// ErrConstructionFailure wraps a construction strategy failure
func ErrConstructionFailure(name string, cause error) *Error {
	return newError(CodeConstructionFailure,
		"failed to create bean '"+name+"'",
		cause, map[string]interface{}{"bean_name": name})
}

// ErrDestructionFailure wraps a destruction strategy failure
func ErrDestructionFailure(name string, cause error) *Error {
	return newError(CodeDestructionFailure,
		"failed to destroy bean '"+name+"'",
		cause, map[string]interface{}{"bean_name": name})
}

// ErrContainerFrozen reports configuration mutation after freeze
func ErrContainerFrozen(operation string) *Error {
	return newError(CodeContainerFrozen,
		"container configuration is frozen, cannot "+operation,
		nil, map[string]interface{}{"operation": operation})
}

// =============================================================================
// STANDARD ERRORS PACKAGE INTEGRATION
// =============================================================================

// Is reports whether any error in err's chain matches target.
// This is a convenience wrapper around errors.Is from the standard library.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
// This is a convenience wrapper around errors.As from the standard library.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// New returns an error that formats as the given text.
// This is a convenience wrapper around errors.New from the standard library.
func New(text string) error {
	return errors.New(text)
}

// Join returns an error that wraps the given errors, discarding nils.
// This is a convenience wrapper around errors.Join from the standard library.
func Join(errs ...error) error {
	return errors.Join(errs...)
}

// =============================================================================
// SENTINEL ERRORS (for use with Is)
// =============================================================================

// Sentinel errors that can be used with errors.Is comparisons
var (
	ErrNotFoundSentinel              = &Error{Code: CodeNotFound}
	ErrDuplicateRegistrationSentinel = &Error{Code: CodeDuplicateRegistration}
	ErrDuplicateAliasSentinel        = &Error{Code: CodeDuplicateAlias}
	ErrCyclicInheritanceSentinel     = &Error{Code: CodeCyclicInheritance}
	ErrAbstractDefinitionSentinel    = &Error{Code: CodeAbstractDefinition}
	ErrCircularReferenceSentinel     = &Error{Code: CodeCircularReference}
	ErrScopeNotRegisteredSentinel    = &Error{Code: CodeScopeNotRegistered}
	ErrMergeTypeMismatchSentinel     = &Error{Code: CodeMergeTypeMismatch}
	ErrConstructionFailureSentinel   = &Error{Code: CodeConstructionFailure}
	ErrDestructionFailureSentinel    = &Error{Code: CodeDestructionFailure}
	ErrContainerFrozenSentinel       = &Error{Code: CodeContainerFrozen}
)

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound checks if the error is a not-found error
func IsNotFound(err error) bool {
	return Is(err, ErrNotFoundSentinel)
}

// IsDuplicateRegistration checks if the error is a duplicate registration error
func IsDuplicateRegistration(err error) bool {
	return Is(err, ErrDuplicateRegistrationSentinel)
}

// IsDuplicateAlias checks if the error is a duplicate alias error
func IsDuplicateAlias(err error) bool {
	return Is(err, ErrDuplicateAliasSentinel)
}

// IsCyclicInheritance checks if the error is a cyclic inheritance error
func IsCyclicInheritance(err error) bool {
	return Is(err, ErrCyclicInheritanceSentinel)
}

// IsAbstractDefinition checks if the error is an abstract definition error
func IsAbstractDefinition(err error) bool {
	return Is(err, ErrAbstractDefinitionSentinel)
}

// IsCircularReference checks if the error is a circular reference error
func IsCircularReference(err error) bool {
	return Is(err, ErrCircularReferenceSentinel)
}

// IsScopeNotRegistered checks if the error is an unknown scope error
func IsScopeNotRegistered(err error) bool {
	return Is(err, ErrScopeNotRegisteredSentinel)
}

// IsMergeTypeMismatch checks if the error is a merge type mismatch error
func IsMergeTypeMismatch(err error) bool {
	return Is(err, ErrMergeTypeMismatchSentinel)
}

// IsConstructionFailure checks if the error is a construction failure
func IsConstructionFailure(err error) bool {
	return Is(err, ErrConstructionFailureSentinel)
}

// IsContainerFrozen checks if the error is a frozen container error
func IsContainerFrozen(err error) bool {
	return Is(err, ErrContainerFrozenSentinel)
}
