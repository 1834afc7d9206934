package errs

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrObjectNotFound            = errors.New("object not found")
	ErrValueIsInvalid            = errors.New("value is invalid")
	ErrValueIsOutOfRange         = errors.New("value is out of range")
	ErrValueIsRequired           = errors.New("value is required")
	ErrStatusTransitionIsInvalid = errors.New("status transition is invalid")
	ErrClientNotAuthorized       = errors.New("client not authorized")
	ErrBadCredentials            = errors.New("bad credentials")
	ErrEmailNotVerified          = errors.New("email not verified")
	ErrInvalidToken              = errors.New("invalid token")
	ErrCapacityExceeded          = errors.New("delivery partner capacity exceeded")
	ErrDuplicateAssociation      = errors.New("association already exists")
	ErrMissingAssociation        = errors.New("association does not exist")
	ErrAlreadyExists             = errors.New("object already exists")
	ErrConcurrentModification    = errors.New("object was modified concurrently")
)

func sanitize(v any) string {
	return strings.ReplaceAll(fmt.Sprintf("%v", v), "\n", " ")
}

// ObjectNotFoundError reports a lookup that matched nothing.
type ObjectNotFoundError struct {
	ParamName string
	ID        any
	Cause     error
}

func NewObjectNotFoundError(paramName string, id any) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id}
}

func NewObjectNotFoundErrorWithCause(paramName string, id any, cause error) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id, Cause: cause}
}

func (e *ObjectNotFoundError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: param is: %s, ID is: %s (cause: %v)",
			ErrObjectNotFound, e.ParamName, e.ID, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrObjectNotFound, e.ID)
}

func (e *ObjectNotFoundError) Unwrap() error {
	return ErrObjectNotFound
}

// ValueIsInvalidError reports a value that failed a domain rule.
type ValueIsInvalidError struct {
	ParamName string
	Cause     error
}

func NewValueIsInvalidError(paramName string) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName}
}

func NewValueIsInvalidErrorWithCause(paramName string, cause error) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsInvalidError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", ErrValueIsInvalid, e.ParamName, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrValueIsInvalid, e.ParamName)
}

func (e *ValueIsInvalidError) Unwrap() error {
	return ErrValueIsInvalid
}

// ValueIsOutOfRangeError reports a value outside of [Min, Max].
type ValueIsOutOfRangeError struct {
	ParamName string
	Value     any
	Min       any
	Max       any
	Cause     error
}

func NewValueIsOutOfRangeError(paramName string, value, minValue, maxValue any) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue}
}

func NewValueIsOutOfRangeErrorWithCause(
	paramName string,
	value, minValue, maxValue any,
	cause error,
) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue, Cause: cause}
}

func (e *ValueIsOutOfRangeError) Error() string {
	msg := fmt.Sprintf("%s: %s is %s, min value is %s, max value is %s",
		ErrValueIsInvalid, sanitize(e.Value), e.ParamName, sanitize(e.Min), sanitize(e.Max))
	if e.Cause != nil {
		return fmt.Sprintf("%s (cause: %v)", msg, e.Cause)
	}
	return msg
}

func (e *ValueIsOutOfRangeError) Unwrap() error {
	return ErrValueIsOutOfRange
}

// ValueIsRequiredError reports a missing mandatory value.
type ValueIsRequiredError struct {
	ParamName string
	Cause     error
}

func NewValueIsRequiredError(paramName string) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName}
}

func NewValueIsRequiredErrorWithCause(paramName string, cause error) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsRequiredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", ErrValueIsRequired, e.ParamName, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrValueIsRequired, e.ParamName)
}

func (e *ValueIsRequiredError) Unwrap() error {
	return ErrValueIsRequired
}

// StatusTransitionError reports an edge missing from the shipment status graph.
type StatusTransitionError struct {
	From string
	To   string
}

func NewStatusTransitionError(from, to string) *StatusTransitionError {
	return &StatusTransitionError{From: from, To: to}
}

func (e *StatusTransitionError) Error() string {
	return fmt.Sprintf("%s: %s -> %s", ErrStatusTransitionIsInvalid, e.From, e.To)
}

func (e *StatusTransitionError) Unwrap() error {
	return ErrStatusTransitionIsInvalid
}

// NotAuthorizedError reports an actor operating on a resource it does not own.
type NotAuthorizedError struct {
	Actor    string
	Resource string
}

func NewNotAuthorizedError(actor, resource string) *NotAuthorizedError {
	return &NotAuthorizedError{Actor: actor, Resource: resource}
}

func (e *NotAuthorizedError) Error() string {
	return fmt.Sprintf("%s: %s may not act on %s", ErrClientNotAuthorized, e.Actor, e.Resource)
}

func (e *NotAuthorizedError) Unwrap() error {
	return ErrClientNotAuthorized
}

// InvalidTokenError reports a bearer token that cannot be accepted.
// Revoked is set when the token was valid but has been explicitly invalidated.
type InvalidTokenError struct {
	Reason  string
	Revoked bool
	Cause   error
}

func NewInvalidTokenError(reason string) *InvalidTokenError {
	return &InvalidTokenError{Reason: reason}
}

func NewInvalidTokenErrorWithCause(reason string, cause error) *InvalidTokenError {
	return &InvalidTokenError{Reason: reason, Cause: cause}
}

func NewRevokedTokenError() *InvalidTokenError {
	return &InvalidTokenError{Reason: "token has been revoked", Revoked: true}
}

func (e *InvalidTokenError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", ErrInvalidToken, e.Reason, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrInvalidToken, e.Reason)
}

func (e *InvalidTokenError) Unwrap() error {
	return ErrInvalidToken
}

// CapacityExceededError reports that no partner serving PostalCode has a free slot.
type CapacityExceededError struct {
	PostalCode any
}

func NewCapacityExceededError(postalCode any) *CapacityExceededError {
	return &CapacityExceededError{PostalCode: postalCode}
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("%s: no partner available for %v", ErrCapacityExceeded, e.PostalCode)
}

func (e *CapacityExceededError) Unwrap() error {
	return ErrCapacityExceeded
}

// AssociationError reports a many-to-many link that is already present or absent.
type AssociationError struct {
	Owner    string
	Related  string
	sentinel error
}

func NewDuplicateAssociationError(owner, related string) *AssociationError {
	return &AssociationError{Owner: owner, Related: related, sentinel: ErrDuplicateAssociation}
}

func NewMissingAssociationError(owner, related string) *AssociationError {
	return &AssociationError{Owner: owner, Related: related, sentinel: ErrMissingAssociation}
}

func (e *AssociationError) Error() string {
	return fmt.Sprintf("%s: %s <-> %s", e.sentinel, e.Owner, e.Related)
}

func (e *AssociationError) Unwrap() error {
	return e.sentinel
}

// AlreadyExistsError reports a uniqueness violation.
type AlreadyExistsError struct {
	ParamName string
	Value     any
}

func NewAlreadyExistsError(paramName string, value any) *AlreadyExistsError {
	return &AlreadyExistsError{ParamName: paramName, Value: value}
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("%s: %s is %s", ErrAlreadyExists, e.ParamName, sanitize(e.Value))
}

func (e *AlreadyExistsError) Unwrap() error {
	return ErrAlreadyExists
}

// ConcurrentModificationError reports a write based on a stale read of ParamName.
type ConcurrentModificationError struct {
	ParamName string
	ID        any
	Cause     error
}

func NewConcurrentModificationError(paramName string, id any) *ConcurrentModificationError {
	return &ConcurrentModificationError{ParamName: paramName, ID: id}
}

func NewConcurrentModificationErrorWithCause(paramName string, id any, cause error) *ConcurrentModificationError {
	return &ConcurrentModificationError{ParamName: paramName, ID: id, Cause: cause}
}

func (e *ConcurrentModificationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s %v (cause: %v)", ErrConcurrentModification, e.ParamName, e.ID, e.Cause)
	}
	return fmt.Sprintf("%s: %s %v", ErrConcurrentModification, e.ParamName, e.ID)
}

func (e *ConcurrentModificationError) Unwrap() error {
	return ErrConcurrentModification
}
