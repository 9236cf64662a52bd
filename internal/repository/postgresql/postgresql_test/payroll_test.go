package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/mestri-payroll/internal/domain/payroll"
	"github.com/cmlabs-hris/mestri-payroll/internal/repository/postgresql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRecord(calc *payroll.Calculator, empID, month string, duties int64) payroll.PayrollRecord {
	m := payroll.MustParseMonth(month)
	rec := payroll.PayrollRecord{
		ID:            payroll.RecordID(empID, m),
		EmpID:         empID,
		Month:         m,
		Name:          "Worker " + empID,
		MestriID:      "M01",
		Duties:        decimal.NewFromInt(duties),
		PerDayWage:    decimal.NewFromInt(500),
		CashOrAccount: payroll.PaymentCash,
		CreatedAt:     calc.Now(),
	}
	return calc.Calculate(rec)
}

func TestPayrollRepository_CompositeKeyIntegrity(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewPayrollRepository(setup.DB)
	calc := payroll.NewCalculator(payroll.DefaultPHRate).WithClock(func() time.Time {
		return time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	})

	_, err := repo.Upsert(ctx, newRecord(calc, "emp1", "2025-06", 10))
	require.NoError(t, err)
	_, err = repo.Upsert(ctx, newRecord(calc, "emp2", "2025-05", 11))
	require.NoError(t, err)
	_, err = repo.Upsert(ctx, newRecord(calc, "emp2", "2025-06", 12))
	require.NoError(t, err)

	// overwrite (emp2, 2025-06) only
	saved, err := repo.Upsert(ctx, newRecord(calc, "emp2", "2025-06", 25))
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(25).Equal(saved.Duties))
	assert.Equal(t, "emp2_2025-06", saved.ID)

	emp1, err := repo.GetByEmployeeMonth(ctx, "emp1", payroll.MustParseMonth("2025-06"))
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(10).Equal(emp1.Duties))

	emp2May, err := repo.GetByEmployeeMonth(ctx, "emp2", payroll.MustParseMonth("2025-05"))
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(11).Equal(emp2May.Duties))

	june, err := repo.ListByMonth(ctx, payroll.MustParseMonth("2025-06"))
	require.NoError(t, err)
	assert.Len(t, june, 2)

	months, err := repo.ListMonths(ctx)
	require.NoError(t, err)
	assert.Equal(t, []payroll.Month{payroll.MustParseMonth("2025-06"), payroll.MustParseMonth("2025-05")}, months)
}

func TestPayrollRepository_UpsertKeepsCreatedAt(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewPayrollRepository(setup.DB)

	first := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	calc := payroll.NewCalculator(payroll.DefaultPHRate).WithClock(func() time.Time { return first })
	_, err := repo.Upsert(ctx, newRecord(calc, "emp1", "2025-06", 1))
	require.NoError(t, err)

	later := first.Add(72 * time.Hour)
	calc = calc.WithClock(func() time.Time { return later })
	rec := newRecord(calc, "emp1", "2025-06", 2)
	saved, err := repo.Upsert(ctx, rec)
	require.NoError(t, err)

	assert.True(t, first.Equal(saved.CreatedAt))
	assert.True(t, later.Equal(saved.UpdatedAt))
}

func TestPayrollRepository_GetMissing(t *testing.T) {
	setup := NewTestDatabase(t)
	repo := postgresql.NewPayrollRepository(setup.DB)

	_, err := repo.GetByEmployeeMonth(context.Background(), "nobody", payroll.MustParseMonth("2025-06"))

	assert.ErrorIs(t, err, payroll.ErrPayrollRecordNotFound)
}

func TestPayrollRepository_ListByEmployeeAfter(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewPayrollRepository(setup.DB)
	calc := payroll.NewCalculator(payroll.DefaultPHRate)

	for _, m := range []string{"2025-05", "2025-06", "2025-07", "2025-08"} {
		_, err := repo.Upsert(ctx, newRecord(calc, "emp1", m, 1))
		require.NoError(t, err)
	}

	after, err := repo.ListByEmployeeAfter(ctx, "emp1", payroll.MustParseMonth("2025-06"))
	require.NoError(t, err)
	require.Len(t, after, 2)
	assert.Equal(t, "2025-07", after[0].Month.String())
	assert.Equal(t, "2025-08", after[1].Month.String())
}

func TestArchiveRepository_UpsertMany(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	archive := postgresql.NewArchiveRepository(setup.DB)
	primary := postgresql.NewPayrollRepository(setup.DB)
	calc := payroll.NewCalculator(payroll.DefaultPHRate)

	recs := []payroll.PayrollRecord{
		newRecord(calc, "emp1", "2025-04", 0),
		newRecord(calc, "emp2", "2025-04", 0),
	}
	require.NoError(t, archive.UpsertMany(ctx, recs))

	archived, err := archive.ListByMonth(ctx, payroll.MustParseMonth("2025-04"))
	require.NoError(t, err)
	assert.Len(t, archived, 2)

	inPrimary, err := primary.ListByMonth(ctx, payroll.MustParseMonth("2025-04"))
	require.NoError(t, err)
	assert.Empty(t, inPrimary)
}
