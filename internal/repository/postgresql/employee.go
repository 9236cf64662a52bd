package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/mestri-payroll/internal/domain/employee"
	"github.com/cmlabs-hris/mestri-payroll/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

const employeeColumns = `id, emp_id, name, mestri_id, dept, per_day_wage, joining_date, status,
	phone_number, bank_holder_name, bank_name, ifsc, account_number, created_at, updated_at`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var emp employee.Employee
	var joining *time.Time
	err := row.Scan(
		&emp.ID, &emp.EmpID, &emp.Name, &emp.MestriID, &emp.Dept, &emp.PerDayWage, &joining, &emp.Status,
		&emp.PhoneNumber, &emp.BankHolderName, &emp.BankName, &emp.IFSC, &emp.AccountNumber,
		&emp.CreatedAt, &emp.UpdatedAt,
	)
	if joining != nil {
		emp.JoiningDate = *joining
	}
	return emp, err
}

// Create implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		INSERT INTO employees (
			id, emp_id, name, mestri_id, dept, per_day_wage, joining_date, status,
			phone_number, bank_holder_name, bank_name, ifsc, account_number
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING ` + employeeColumns

	var joining *time.Time
	if !newEmployee.JoiningDate.IsZero() {
		joining = &newEmployee.JoiningDate
	}

	created, err := scanEmployee(q.QueryRow(ctx, query,
		newEmployee.ID, newEmployee.EmpID, newEmployee.Name, newEmployee.MestriID, newEmployee.Dept,
		newEmployee.PerDayWage, joining, newEmployee.Status,
		newEmployee.PhoneNumber, newEmployee.BankHolderName, newEmployee.BankName, newEmployee.IFSC, newEmployee.AccountNumber,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return employee.Employee{}, employee.ErrEmpIDExists
		}
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}

	return created, nil
}

// GetByEmpID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByEmpID(ctx context.Context, empID string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE emp_id = $1`

	emp, err := scanEmployee(q.QueryRow(ctx, query, empID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee with emp_id %s: %w", empID, err)
	}

	return emp, nil
}

// List implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	// Build WHERE conditions
	conditions := []string{"TRUE"}
	args := []interface{}{}
	argIdx := 1

	if filter.MestriID != nil && *filter.MestriID != "" {
		conditions = append(conditions, fmt.Sprintf("mestri_id = $%d", argIdx))
		args = append(args, *filter.MestriID)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.Search != nil && *filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR emp_id ILIKE $%d)", argIdx, argIdx))
		args = append(args, "%"+*filter.Search+"%")
	}

	query := fmt.Sprintf(`SELECT %s FROM employees WHERE %s ORDER BY emp_id`, employeeColumns, strings.Join(conditions, " AND "))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employees: %w", err)
	}

	return employees, nil
}

// Update implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) Update(ctx context.Context, empID string, req employee.UpdateEmployeeRequest) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	updates := make(map[string]interface{})

	if req.Name != nil && *req.Name != "" {
		updates["name"] = *req.Name
	}
	if req.MestriID != nil {
		updates["mestri_id"] = *req.MestriID
	}
	if req.Dept != nil {
		updates["dept"] = *req.Dept
	}
	if req.PerDayWage != nil {
		updates["per_day_wage"] = *req.PerDayWage
	}
	if req.JoiningDate != nil {
		parsed, _ := time.Parse("2006-01-02", *req.JoiningDate)
		updates["joining_date"] = parsed
	}
	if req.PhoneNumber != nil {
		updates["phone_number"] = *req.PhoneNumber
	}
	if req.BankHolderName != nil {
		updates["bank_holder_name"] = *req.BankHolderName
	}
	if req.BankName != nil {
		updates["bank_name"] = *req.BankName
	}
	if req.IFSC != nil {
		updates["ifsc"] = *req.IFSC
	}
	if req.AccountNumber != nil {
		updates["account_number"] = *req.AccountNumber
	}

	if len(updates) == 0 {
		return e.GetByEmpID(ctx, empID)
	}
	updates["updated_at"] = time.Now()

	setClauses := make([]string, 0, len(updates))
	args := make([]interface{}, 0, len(updates)+1)
	i := 1
	for col, val := range updates {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", col, i))
		args = append(args, val)
		i++
	}

	sql := fmt.Sprintf("UPDATE employees SET %s WHERE emp_id = $%d RETURNING %s", strings.Join(setClauses, ", "), i, employeeColumns)
	args = append(args, empID)

	updated, err := scanEmployee(q.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to update employee with emp_id %s: %w", empID, err)
	}
	return updated, nil
}

// UpdateStatus implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) UpdateStatus(ctx context.Context, empID string, status employee.Status) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		UPDATE employees
		SET status = $1, updated_at = NOW()
		WHERE emp_id = $2
		RETURNING ` + employeeColumns

	updated, err := scanEmployee(q.QueryRow(ctx, query, status, empID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to update status for employee with emp_id %s: %w", empID, err)
	}
	return updated, nil
}
