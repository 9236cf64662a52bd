package cron

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/cmlabs-hris/mestri-payroll/internal/domain/payroll"
	"github.com/cmlabs-hris/mestri-payroll/internal/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPayrollService struct {
	payroll.PayrollService
	rows    int
	exports []payroll.Month
}

func (s *stubPayrollService) GetMonth(_ context.Context, month payroll.Month, _ payroll.MonthFilter) (payroll.MonthView, error) {
	return payroll.MonthView{Month: month, Rows: make([]payroll.RecordResponse, s.rows)}, nil
}

func (s *stubPayrollService) Export(_ context.Context, month payroll.Month, format payroll.ExportFormat) (payroll.ExportFile, error) {
	s.exports = append(s.exports, month)
	return payroll.ExportFile{Filename: "payroll_" + month.Label() + "." + string(format), Content: []byte("xlsx-bytes")}, nil
}

func newTestJobs(t *testing.T, rows int) (*PayrollJobs, *stubPayrollService, *storage.LocalStorage) {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	svc := &stubPayrollService{rows: rows}
	jobs := NewPayrollJobs(svc, store, time.Hour, nil)
	jobs.now = func() time.Time { return time.Date(2025, time.June, 1, 0, 5, 0, 0, time.UTC) }
	return jobs, svc, store
}

func TestSnapshotClosedMonth_WritesPreviousMonthOnce(t *testing.T) {
	ctx := context.Background()
	jobs, svc, store := newTestJobs(t, 3)

	require.NoError(t, jobs.SnapshotClosedMonth(ctx))
	require.NoError(t, jobs.SnapshotClosedMonth(ctx))

	assert.Equal(t, []payroll.Month{payroll.MustParseMonth("2025-05")}, svc.exports)

	rc, err := store.Download(ctx, "snapshots/2025-05.xlsx")
	require.NoError(t, err)
	defer rc.Close()
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "xlsx-bytes", string(body))
}

func TestSnapshotClosedMonth_SkipsEmptyMonth(t *testing.T) {
	ctx := context.Background()
	jobs, svc, store := newTestJobs(t, 0)

	require.NoError(t, jobs.SnapshotClosedMonth(ctx))
	assert.Empty(t, svc.exports)

	ok, err := store.Exists(ctx, SnapshotKey(payroll.MustParseMonth("2025-05")))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSnapshotKey_YearBoundary(t *testing.T) {
	jobs, _, _ := newTestJobs(t, 1)
	jobs.now = func() time.Time { return time.Date(2026, time.January, 3, 0, 0, 0, 0, time.UTC) }

	require.NoError(t, jobs.SnapshotClosedMonth(context.Background()))
	assert.Equal(t, "snapshots/2025-12.xlsx", SnapshotKey(payroll.MustParseMonth("2025-12")))
}

func TestRegisterJobs(t *testing.T) {
	jobs, _, _ := newTestJobs(t, 0)
	scheduler := NewScheduler(nil)

	jobs.RegisterJobs(scheduler)
	assert.Equal(t, []string{"snapshot_closed_month"}, scheduler.Jobs())

	scheduler.RunOnce(context.Background())
}
