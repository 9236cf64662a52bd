package employee

import "context"

type EmployeeRepository interface {
	Create(ctx context.Context, newEmployee Employee) (Employee, error)
	GetByEmpID(ctx context.Context, empID string) (Employee, error)
	List(ctx context.Context, filter EmployeeFilter) ([]Employee, error)
	Update(ctx context.Context, empID string, req UpdateEmployeeRequest) (Employee, error)
	UpdateStatus(ctx context.Context, empID string, status Status) (Employee, error)
}
