// Package services provides the business operations behind the builder API:
// flow CRUD, node management, and publishing.
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chatflowhq/chatflow/pkg/models"
	"github.com/chatflowhq/chatflow/pkg/validation"
)

// Business logic errors. These indicate client errors (4xx responses).
var (
	// Validation errors (400 Bad Request).
	ErrInvalidRequest   = errors.New("invalid request")
	ErrInvalidSortField = errors.New("invalid sort field")
	ErrInvalidSortOrder = errors.New("invalid sort order")
	ErrInvalidStatus    = errors.New("invalid flow status")
	ErrEmptyOwnerID     = errors.New("owner ID cannot be empty")
	ErrInvalidNodeKind  = errors.New("invalid node kind")

	// Publishing validation errors (400 Bad Request).
	ErrFlowNameRequired = errors.New("flow name is required")
	ErrNodesRequired    = errors.New("flow must have at least one node")
	ErrFlowNil          = errors.New("flow cannot be nil")

	// Business logic conflicts (409 Conflict).
	ErrCannotModifyPublished = errors.New("cannot modify published flow")
)

// ServiceError wraps service-level errors with additional context.
type ServiceError struct {
	Op      string // Operation name
	Code    string // Error code for API responses
	Message string // Human-readable message
	Err     error  // Underlying error
}

func (e *ServiceError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}

	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func (e *ServiceError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NodeValidationError reports the content violations blocking a node.
type NodeValidationError struct {
	NodeID     string
	Kind       models.NodeKind
	Violations validation.Violations
}

func (e *NodeValidationError) Error() string {
	return fmt.Sprintf("node %s (%s) is invalid: %s", e.NodeID, e.Kind, strings.Join(e.Violations, "; "))
}

// IsValidationError checks if an error is a validation error that should return HTTP 400.
func IsValidationError(err error) bool {
	var nodeValidation *NodeValidationError
	if errors.As(err, &nodeValidation) {
		return true
	}

	return errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, ErrInvalidSortField) ||
		errors.Is(err, ErrInvalidSortOrder) ||
		errors.Is(err, ErrInvalidStatus) ||
		errors.Is(err, ErrEmptyOwnerID) ||
		errors.Is(err, ErrInvalidNodeKind) ||
		errors.Is(err, ErrFlowNameRequired) ||
		errors.Is(err, ErrNodesRequired) ||
		errors.Is(err, ErrFlowNil)
}

// IsConflictError checks if an error is a business logic conflict that should return HTTP 409.
func IsConflictError(err error) bool {
	return errors.Is(err, ErrCannotModifyPublished)
}

// NewValidationError creates a new validation error with context.
func NewValidationError(op, code, message string, err error) *ServiceError {
	return &ServiceError{
		Op:      op,
		Code:    code,
		Message: message,
		Err:     err,
	}
}
