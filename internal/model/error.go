package model

import (
	"errors"
	"fmt"

	"atelier/internal/validation"
)

// ErrorResponse represents a standardised error response. Only the fields
// relevant to a given failure are populated.
type ErrorResponse struct {
	Error         string             `json:"error"`
	Message       string             `json:"message,omitempty"`
	Issues        []validation.Issue `json:"issues,omitempty"`
	Hint          string             `json:"hint,omitempty"`
	Received      string             `json:"received,omitempty"`
	Allowed       []OrderStatus      `json:"allowed,omitempty"`
	OrderID       int64              `json:"orderId,omitempty"`
	UserID        int64              `json:"userId,omitempty"`
	CurrentStatus OrderStatus        `json:"currentStatus,omitempty"`
	OrderCount    int                `json:"orderCount,omitempty"`
	CorrelationID string             `json:"correlationId,omitempty"`
}

// ErrorKind classifies domain errors so callers can pick a response.
type ErrorKind string

const (
	KindValidation   ErrorKind = "validation"
	KindNotFound     ErrorKind = "not_found"
	KindPrecondition ErrorKind = "precondition_failed"
	KindBadRequest   ErrorKind = "bad_request"
	KindUnavailable  ErrorKind = "unavailable"
	KindUnexpected   ErrorKind = "unexpected"
)

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON         = "INVALID_JSON"
	ErrCodeInvalidPayload      = "INVALID_PAYLOAD"
	ErrCodeInvalidID           = "INVALID_ID"
	ErrCodeInvalidStatus       = "INVALID_STATUS"
	ErrCodeOrderNotFound       = "ORDER_NOT_FOUND"
	ErrCodeUserNotFound        = "USER_NOT_FOUND"
	ErrCodeOrderNotCompleted   = "ORDER_NOT_COMPLETED"
	ErrCodeUserHasOrders       = "USER_HAS_ORDERS"
	ErrCodeUserHasReferences   = "USER_HAS_REFERENCES"
	ErrCodeDatabaseUnavailable = "DATABASE_UNAVAILABLE"
	ErrCodeUnauthorised        = "UNAUTHORIZED"
	ErrCodeInternalError       = "INTERNAL_ERROR"
)

// Domain errors for business logic
type DomainError struct {
	Kind    ErrorKind
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(kind ErrorKind, code, message string) *DomainError {
	return &DomainError{
		Kind:    kind,
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrOrderNotFound      = NewDomainError(KindNotFound, ErrCodeOrderNotFound, "Order not found")
	ErrUserNotFound       = NewDomainError(KindNotFound, ErrCodeUserNotFound, "User not found")
	ErrInvalidStatus      = NewDomainError(KindBadRequest, ErrCodeInvalidStatus, "Invalid status")
	ErrServiceUnavailable = NewDomainError(KindUnavailable, ErrCodeDatabaseUnavailable, "Database connection failed")
)

// ValidationError carries every field-level problem found in a payload.
type ValidationError struct {
	Issues []validation.Issue
}

func (e *ValidationError) Error() string {
	return "invalid payload: " + validation.Join(e.Issues)
}

// PreconditionError reports a state-dependent rule blocking an operation.
type PreconditionError struct {
	Code          string
	Message       string
	OrderID       int64
	UserID        int64
	CurrentStatus OrderStatus
	OrderCount    int
}

func (e *PreconditionError) Error() string {
	return e.Message
}

// NewOrderNotCompletedError reports an attempt to delete an order that is not completed.
func NewOrderNotCompletedError(orderID int64, status OrderStatus) *PreconditionError {
	return &PreconditionError{
		Code:          ErrCodeOrderNotCompleted,
		OrderID:       orderID,
		CurrentStatus: status,
		Message: fmt.Sprintf(
			"Order %d has status '%s' but only completed orders can be deleted. Please change the status to 'completed' first.",
			orderID, status,
		),
	}
}

// NewUserHasOrdersError reports an attempt to delete a user that still owns orders.
func NewUserHasOrdersError(userID int64, orderCount int) *PreconditionError {
	return &PreconditionError{
		Code:       ErrCodeUserHasOrders,
		UserID:     userID,
		OrderCount: orderCount,
		Message: fmt.Sprintf(
			"User %d has %d order(s). Users can only be deleted when they have 0 orders.",
			userID, orderCount,
		),
	}
}

// NewUserHasReferencesError reports a storage-level reference blocking user deletion.
func NewUserHasReferencesError(userID int64) *PreconditionError {
	return &PreconditionError{
		Code:    ErrCodeUserHasReferences,
		UserID:  userID,
		Message: "User has related orders or other records that prevent deletion",
	}
}

// KindOf classifies err into one of the error kinds.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return KindValidation
	}

	var preconditionErr *PreconditionError
	if errors.As(err, &preconditionErr) {
		return KindPrecondition
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Kind
	}

	return KindUnexpected
}
