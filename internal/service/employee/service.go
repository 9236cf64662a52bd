package employee

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/mestri-payroll/internal/domain/employee"
	"github.com/cmlabs-hris/mestri-payroll/internal/domain/mestri"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type EmployeeServiceImpl struct {
	employeeRepo employee.EmployeeRepository
	mestriRepo   mestri.MestriRepository
	now          func() time.Time
}

func NewEmployeeService(
	employeeRepo employee.EmployeeRepository,
	mestriRepo mestri.MestriRepository,
) employee.EmployeeService {
	return &EmployeeServiceImpl{
		employeeRepo: employeeRepo,
		mestriRepo:   mestriRepo,
		now:          time.Now,
	}
}

// ensureMestri checks that a non-empty mestri reference points at a known supervisor.
func (s *EmployeeServiceImpl) ensureMestri(ctx context.Context, mestriID string) error {
	if mestriID == "" {
		return nil
	}
	if _, err := s.mestriRepo.GetByMestriID(ctx, mestriID); err != nil {
		if errors.Is(err, mestri.ErrMestriNotFound) {
			return err
		}
		return fmt.Errorf("failed to look up mestri %s: %w", mestriID, err)
	}
	return nil
}

func (s *EmployeeServiceImpl) CreateEmployee(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	if err := s.ensureMestri(ctx, req.MestriID); err != nil {
		return employee.EmployeeResponse{}, err
	}

	// Joining date defaults to today
	joining := s.now()
	if req.JoiningDate != "" {
		joining, _ = time.Parse("2006-01-02", req.JoiningDate)
	}
	joining = time.Date(joining.Year(), joining.Month(), joining.Day(), 0, 0, 0, 0, time.UTC)

	status := req.Status
	if status == "" {
		status = employee.StatusActive
	}

	wage := decimal.Zero
	if req.PerDayWage != nil {
		wage = *req.PerDayWage
	}

	newEmployee := employee.Employee{
		ID:             uuid.NewString(),
		EmpID:          req.EmpID,
		Name:           req.Name,
		MestriID:       req.MestriID,
		Dept:           req.Dept,
		PerDayWage:     wage,
		JoiningDate:    joining,
		Status:         status,
		PhoneNumber:    req.PhoneNumber,
		BankHolderName: req.BankHolderName,
		BankName:       req.BankName,
		IFSC:           req.IFSC,
		AccountNumber:  req.AccountNumber,
	}

	created, err := s.employeeRepo.Create(ctx, newEmployee)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	slog.Info("employee created", "emp_id", created.EmpID, "mestri_id", created.MestriID)
	return employee.NewEmployeeResponse(created), nil
}

func (s *EmployeeServiceImpl) GetEmployee(ctx context.Context, empID string) (employee.EmployeeResponse, error) {
	emp, err := s.employeeRepo.GetByEmpID(ctx, empID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.NewEmployeeResponse(emp), nil
}

func (s *EmployeeServiceImpl) ListEmployees(ctx context.Context, filter employee.EmployeeFilter) ([]employee.EmployeeResponse, error) {
	if filter.Status != nil && *filter.Status != "" && !filter.Status.IsValid() {
		return nil, employee.ErrInvalidStatus
	}

	employees, err := s.employeeRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	resp := make([]employee.EmployeeResponse, 0, len(employees))
	for _, emp := range employees {
		resp = append(resp, employee.NewEmployeeResponse(emp))
	}
	return resp, nil
}

func (s *EmployeeServiceImpl) UpdateEmployee(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	if req.MestriID != nil {
		if err := s.ensureMestri(ctx, *req.MestriID); err != nil {
			return employee.EmployeeResponse{}, err
		}
	}

	updated, err := s.employeeRepo.Update(ctx, req.EmpID, req)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.NewEmployeeResponse(updated), nil
}

func (s *EmployeeServiceImpl) SetStatus(ctx context.Context, req employee.SetStatusRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	updated, err := s.employeeRepo.UpdateStatus(ctx, req.EmpID, req.Status)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	slog.Info("employee status changed", "emp_id", updated.EmpID, "status", updated.Status)
	return employee.NewEmployeeResponse(updated), nil
}
