package service

import (
	"fmt"

	"github.com/phrazzld/teamtasks/internal/domain"
)

// ServiceError adds the failing service operation to an underlying error.
// It unwraps to that error so errors.Is keeps working on sentinels.
type ServiceError struct {
	Service   string
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s service %s failed: %s: %v", e.Service, e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s service %s failed: %s", e.Service, e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(service, operation, message string, err error) *ServiceError {
	return &ServiceError{
		Service:   service,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

func requireDep(name string, missing bool) error {
	if missing {
		return domain.NewValidationError(name, "cannot be nil", nil)
	}
	return nil
}
