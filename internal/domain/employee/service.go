package employee

import (
	"context"
)

// EmployeeService defines business logic for the worker directory
type EmployeeService interface {
	// CreateEmployee registers a worker. Status defaults to Active and joining date to today.
	CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)

	// GetEmployee retrieves a worker by business id
	GetEmployee(ctx context.Context, empID string) (EmployeeResponse, error)

	// ListEmployees lists workers, optionally filtered by mestri, status or name
	ListEmployees(ctx context.Context, filter EmployeeFilter) ([]EmployeeResponse, error)

	// UpdateEmployee applies a partial update
	UpdateEmployee(ctx context.Context, req UpdateEmployeeRequest) (EmployeeResponse, error)

	// SetStatus changes employment status. Workers are never deleted.
	SetStatus(ctx context.Context, req SetStatusRequest) (EmployeeResponse, error)
}
