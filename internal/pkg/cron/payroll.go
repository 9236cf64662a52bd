package cron

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/mestri-payroll/internal/domain/payroll"
	"github.com/cmlabs-hris/mestri-payroll/internal/pkg/storage"
)

const snapshotPrefix = "snapshots"

// PayrollJobs contains payroll-related cron jobs
type PayrollJobs struct {
	payrollService payroll.PayrollService
	storage        storage.FileStorage
	interval       time.Duration
	now            func() time.Time
	logger         *slog.Logger
}

// NewPayrollJobs creates payroll cron jobs
func NewPayrollJobs(payrollService payroll.PayrollService, fileStorage storage.FileStorage, interval time.Duration, logger *slog.Logger) *PayrollJobs {
	if logger == nil {
		logger = slog.Default()
	}
	return &PayrollJobs{
		payrollService: payrollService,
		storage:        fileStorage,
		interval:       interval,
		now:            time.Now,
		logger:         logger,
	}
}

// RegisterJobs registers all payroll-related cron jobs
func (j *PayrollJobs) RegisterJobs(scheduler *Scheduler) {
	// Snapshot the month that just closed. Checked every interval, written once.
	scheduler.AddJob(
		"snapshot_closed_month",
		j.interval,
		j.SnapshotClosedMonth,
	)
}

// SnapshotKey is the storage key of a month's xlsx snapshot.
func SnapshotKey(month payroll.Month) string {
	return fmt.Sprintf("%s/%s.xlsx", snapshotPrefix, month)
}

// SnapshotClosedMonth writes the previous month's sheet to storage unless a
// snapshot already exists or the month has no rows.
func (j *PayrollJobs) SnapshotClosedMonth(ctx context.Context) error {
	month := payroll.MonthOf(j.now()).Prev()
	key := SnapshotKey(month)

	exists, err := j.storage.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check snapshot %s: %w", key, err)
	}
	if exists {
		return nil
	}

	view, err := j.payrollService.GetMonth(ctx, month, payroll.MonthFilter{})
	if err != nil {
		return fmt.Errorf("resolve month %s: %w", month, err)
	}
	if len(view.Rows) == 0 {
		j.logger.Debug("Skipping empty month snapshot", "month", month.String())
		return nil
	}

	file, err := j.payrollService.Export(ctx, month, payroll.FormatXLSX)
	if err != nil {
		return fmt.Errorf("export month %s: %w", month, err)
	}

	if _, err := j.storage.Upload(ctx, bytes.NewReader(file.Content), key); err != nil {
		return fmt.Errorf("store snapshot %s: %w", key, err)
	}

	j.logger.Info("Payroll snapshot stored",
		"month", month.String(),
		"key", key,
		"rows", len(view.Rows),
		"bytes", len(file.Content),
	)
	return nil
}
