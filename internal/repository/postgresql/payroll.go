package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/mestri-payroll/internal/domain/payroll"
	"github.com/cmlabs-hris/mestri-payroll/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

// recordTable reads and writes payroll records in one table. The primary
// payroll table and the last_employees archive share a layout.
type recordTable struct {
	db    *database.DB
	table string
}

const recordColumns = `id, employee_id, emp_id, month, name, dept, designation, mestri_id, joining_date,
	phone_number, bank_holder_name, bank_name, ifsc, account_number,
	duties, ot, ph, per_day_wage, bus, food, eb, shoes, karcha, last_month, advance, others, cash, bonus,
	remarks, cash_or_account, paid,
	total_duties, salary, ot_wages, total_salary, deductions, net_salary, total_payment, balance, status,
	created_at, updated_at`

func scanRecord(row pgx.Row) (payroll.PayrollRecord, error) {
	var r payroll.PayrollRecord
	var month string
	err := row.Scan(
		&r.ID, &r.EmployeeID, &r.EmpID, &month, &r.Name, &r.Dept, &r.Designation, &r.MestriID, &r.JoiningDate,
		&r.PhoneNumber, &r.BankHolderName, &r.BankName, &r.IFSC, &r.AccountNumber,
		&r.Duties, &r.OT, &r.PH, &r.PerDayWage, &r.Bus, &r.Food, &r.EB, &r.Shoes, &r.Karcha, &r.LastMonth,
		&r.Advance, &r.Others, &r.Cash, &r.Bonus,
		&r.Remarks, &r.CashOrAccount, &r.Paid,
		&r.TotalDuties, &r.Salary, &r.OTWages, &r.TotalSalary, &r.Deductions, &r.NetSalary, &r.TotalPayment,
		&r.Balance, &r.Status,
		&r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return payroll.PayrollRecord{}, err
	}
	r.Month, err = payroll.ParseMonth(month)
	if err != nil {
		return payroll.PayrollRecord{}, fmt.Errorf("stored record %s: %w", r.ID, err)
	}
	return r, nil
}

func recordArgs(id string, r payroll.PayrollRecord) []interface{} {
	return []interface{}{
		id, r.EmployeeID, r.EmpID, r.Month.String(), r.Name, r.Dept, r.Designation, r.MestriID, r.JoiningDate,
		r.PhoneNumber, r.BankHolderName, r.BankName, r.IFSC, r.AccountNumber,
		r.Duties, r.OT, r.PH, r.PerDayWage, r.Bus, r.Food, r.EB, r.Shoes, r.Karcha, r.LastMonth,
		r.Advance, r.Others, r.Cash, r.Bonus,
		r.Remarks, r.CashOrAccount, r.Paid,
		r.TotalDuties, r.Salary, r.OTWages, r.TotalSalary, r.Deductions, r.NetSalary, r.TotalPayment,
		r.Balance, r.Status,
		r.CreatedAt, r.UpdatedAt,
	}
}

// upsertSQL replaces every column except created_at on a (emp_id, month) conflict.
func (t recordTable) upsertSQL() string {
	return fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28,
			$29, $30, $31, $32, $33, $34, $35, $36, $37, $38, $39, $40, $41, $42)
		ON CONFLICT (emp_id, month) DO UPDATE SET
			id = EXCLUDED.id,
			employee_id = EXCLUDED.employee_id,
			name = EXCLUDED.name,
			dept = EXCLUDED.dept,
			designation = EXCLUDED.designation,
			mestri_id = EXCLUDED.mestri_id,
			joining_date = EXCLUDED.joining_date,
			phone_number = EXCLUDED.phone_number,
			bank_holder_name = EXCLUDED.bank_holder_name,
			bank_name = EXCLUDED.bank_name,
			ifsc = EXCLUDED.ifsc,
			account_number = EXCLUDED.account_number,
			duties = EXCLUDED.duties,
			ot = EXCLUDED.ot,
			ph = EXCLUDED.ph,
			per_day_wage = EXCLUDED.per_day_wage,
			bus = EXCLUDED.bus,
			food = EXCLUDED.food,
			eb = EXCLUDED.eb,
			shoes = EXCLUDED.shoes,
			karcha = EXCLUDED.karcha,
			last_month = EXCLUDED.last_month,
			advance = EXCLUDED.advance,
			others = EXCLUDED.others,
			cash = EXCLUDED.cash,
			bonus = EXCLUDED.bonus,
			remarks = EXCLUDED.remarks,
			cash_or_account = EXCLUDED.cash_or_account,
			paid = EXCLUDED.paid,
			total_duties = EXCLUDED.total_duties,
			salary = EXCLUDED.salary,
			ot_wages = EXCLUDED.ot_wages,
			total_salary = EXCLUDED.total_salary,
			deductions = EXCLUDED.deductions,
			net_salary = EXCLUDED.net_salary,
			total_payment = EXCLUDED.total_payment,
			balance = EXCLUDED.balance,
			status = EXCLUDED.status,
			updated_at = EXCLUDED.updated_at
		RETURNING %s
	`, t.table, recordColumns, recordColumns)
}

func (t recordTable) upsert(ctx context.Context, id string, rec payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, t.db)

	saved, err := scanRecord(q.QueryRow(ctx, t.upsertSQL(), recordArgs(id, rec)...))
	if err != nil {
		return payroll.PayrollRecord{}, fmt.Errorf("failed to upsert %s record %s: %w", t.table, id, err)
	}
	return saved, nil
}

func (t recordTable) list(ctx context.Context, where string, args ...interface{}) ([]payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, t.db)

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s ORDER BY emp_id, month`, recordColumns, t.table, where)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s records: %w", t.table, err)
	}
	defer rows.Close()

	var records []payroll.PayrollRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s record: %w", t.table, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s records: %w", t.table, err)
	}

	return records, nil
}

func (t recordTable) get(ctx context.Context, empID string, month payroll.Month) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, t.db)

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE emp_id = $1 AND month = $2`, recordColumns, t.table)

	rec, err := scanRecord(q.QueryRow(ctx, query, empID, month.String()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to get %s record for %s in %s: %w", t.table, empID, month, err)
	}
	return rec, nil
}

func (t recordTable) months(ctx context.Context) ([]payroll.Month, error) {
	q := GetQuerier(ctx, t.db)

	rows, err := q.Query(ctx, fmt.Sprintf(`SELECT DISTINCT month FROM %s ORDER BY month DESC`, t.table))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s months: %w", t.table, err)
	}
	defer rows.Close()

	var months []payroll.Month
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("failed to scan %s month: %w", t.table, err)
		}
		m, err := payroll.ParseMonth(s)
		if err != nil {
			return nil, err
		}
		months = append(months, m)
	}
	return months, rows.Err()
}

type payrollRepository struct {
	recordTable
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{recordTable{db: db, table: "payroll"}}
}

func (r *payrollRepository) ListByMonth(ctx context.Context, month payroll.Month) ([]payroll.PayrollRecord, error) {
	return r.list(ctx, "month = $1", month.String())
}

func (r *payrollRepository) GetByEmployeeMonth(ctx context.Context, empID string, month payroll.Month) (payroll.PayrollRecord, error) {
	return r.get(ctx, empID, month)
}

func (r *payrollRepository) Upsert(ctx context.Context, rec payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	return r.upsert(ctx, payroll.RecordID(rec.EmpID, rec.Month), rec)
}

func (r *payrollRepository) ListByEmployeeAfter(ctx context.Context, empID string, month payroll.Month) ([]payroll.PayrollRecord, error) {
	return r.list(ctx, "emp_id = $1 AND month > $2", empID, month.String())
}

func (r *payrollRepository) ListMonths(ctx context.Context) ([]payroll.Month, error) {
	return r.months(ctx)
}
