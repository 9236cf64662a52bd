package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/cmlabs-hris/mestri-payroll/internal/domain/employee"
	"github.com/cmlabs-hris/mestri-payroll/internal/domain/mestri"
	"github.com/cmlabs-hris/mestri-payroll/internal/domain/payroll"
	"github.com/cmlabs-hris/mestri-payroll/internal/pkg/sse"
	"golang.org/x/sync/errgroup"
)

type PayrollServiceImpl struct {
	payrollRepo  payroll.PayrollRepository
	archiveRepo  payroll.ArchiveRepository
	employeeRepo employee.EmployeeRepository
	mestriRepo   mestri.MestriRepository
	calc         *payroll.Calculator
	hub          *sse.Hub
}

func NewPayrollService(
	payrollRepo payroll.PayrollRepository,
	archiveRepo payroll.ArchiveRepository,
	employeeRepo employee.EmployeeRepository,
	mestriRepo mestri.MestriRepository,
	calc *payroll.Calculator,
	hub *sse.Hub,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		payrollRepo:  payrollRepo,
		archiveRepo:  archiveRepo,
		employeeRepo: employeeRepo,
		mestriRepo:   mestriRepo,
		calc:         calc,
		hub:          hub,
	}
}

func monthTopic(month payroll.Month) string {
	return "payroll:" + month.String()
}

// ========== READ ==========

func (s *PayrollServiceImpl) GetMonth(ctx context.Context, month payroll.Month, filter payroll.MonthFilter) (payroll.MonthView, error) {
	res, err := s.resolve(ctx, month, filter)
	if err != nil {
		return payroll.MonthView{}, err
	}

	view := payroll.MonthView{
		Month:       res.Month,
		Label:       res.Month.Label(),
		Class:       res.Class,
		Provisional: res.Provisional,
		CanImport:   res.CanImport,
		Rows:        make([]payroll.RecordResponse, 0, len(res.Rows)),
	}
	for _, rec := range res.Rows {
		view.Rows = append(view.Rows, payroll.NewRecordResponse(rec))
		view.Totals.Add(rec)
	}
	return view, nil
}

// resolve loads the active roster and the persisted records of month and
// decides the visible rows. Rows come back sorted by emp id.
func (s *PayrollServiceImpl) resolve(ctx context.Context, month payroll.Month, filter payroll.MonthFilter) (payroll.Resolution, error) {
	now := s.calc.Now()
	class := payroll.Classify(month, now)

	var (
		roster   []employee.Employee
		primary  []payroll.PayrollRecord
		archived []payroll.PayrollRecord
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		roster, err = s.employeeRepo.List(gctx, employee.ActiveOnly(nil))
		return err
	})
	g.Go(func() error {
		var err error
		primary, err = s.payrollRepo.ListByMonth(gctx, month)
		return err
	})
	if class == payroll.MonthPast {
		g.Go(func() error {
			var err error
			archived, err = s.archiveRepo.ListByMonth(gctx, month)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return payroll.Resolution{}, fmt.Errorf("failed to load payroll for %s: %w", month, err)
	}

	persisted := payroll.MergeArchive(primary, archived)

	// Filter after resolving: a record's mestri can differ from the
	// directory's, and the persisted record must still win for its employee.
	res := payroll.ResolveVisibleRows(roster, persisted, month, now, s.calc)
	if filter.MestriID != nil && *filter.MestriID != "" {
		res.Rows = filterByMestri(res.Rows, *filter.MestriID)
	}
	sort.Slice(res.Rows, func(i, j int) bool {
		return res.Rows[i].EmpID < res.Rows[j].EmpID
	})
	return res, nil
}

func filterByMestri(records []payroll.PayrollRecord, mestriID string) []payroll.PayrollRecord {
	out := make([]payroll.PayrollRecord, 0, len(records))
	for _, rec := range records {
		if rec.MestriID == mestriID {
			out = append(out, rec)
		}
	}
	return out
}

// ========== WRITE ==========

func (s *PayrollServiceImpl) UpdateRecord(ctx context.Context, req payroll.UpdateRecordRequest) (payroll.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.RecordResponse{}, err
	}
	month, err := payroll.ParseMonth(req.Month)
	if err != nil {
		return payroll.RecordResponse{}, err
	}

	if err := s.ensureMestri(ctx, req.MestriID); err != nil {
		return payroll.RecordResponse{}, err
	}

	now := s.calc.Now()
	class := payroll.Classify(month, now)

	existing, err := s.findRecord(ctx, class, req.EmpID, month)
	if err != nil {
		return payroll.RecordResponse{}, err
	}

	emp, err := s.findEmployee(ctx, req.EmpID)
	if err != nil {
		return payroll.RecordResponse{}, err
	}
	if existing == nil && emp == nil {
		return payroll.RecordResponse{}, payroll.ErrEmployeeNotFound
	}

	base := payroll.Normalize(payroll.RecordPatch{}, existing, emp, month, now)
	mestriChanged := req.ChangesMestri(base)

	rec := s.calc.Calculate(payroll.Normalize(req.RecordPatch, existing, emp, month, now))
	saved, err := s.save(ctx, class, rec)
	if err != nil {
		return payroll.RecordResponse{}, err
	}

	if mestriChanged && class != payroll.MonthPast {
		if err := s.cascadeMestri(ctx, saved.EmpID, month, saved.MestriID); err != nil {
			slog.Error("failed to cascade mestri reassignment",
				"emp_id", saved.EmpID,
				"month", month.String(),
				"mestri_id", saved.MestriID,
				"error", err,
			)
		}
	}

	return s.publish(saved), nil
}

func (s *PayrollServiceImpl) CreateManualEntry(ctx context.Context, req payroll.ManualEntryRequest) (payroll.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.RecordResponse{}, err
	}
	month, err := payroll.ParseMonth(req.Month)
	if err != nil {
		return payroll.RecordResponse{}, err
	}

	if err := s.ensureMestri(ctx, req.MestriID); err != nil {
		return payroll.RecordResponse{}, err
	}

	now := s.calc.Now()
	class := payroll.Classify(month, now)

	emp, err := s.findEmployee(ctx, req.EmpID)
	if err != nil {
		return payroll.RecordResponse{}, err
	}
	if emp == nil {
		return payroll.RecordResponse{}, payroll.ErrEmployeeNotFound
	}

	existing, err := s.findRecord(ctx, class, req.EmpID, month)
	if err != nil {
		return payroll.RecordResponse{}, err
	}
	if existing != nil {
		return payroll.RecordResponse{}, payroll.ErrPayrollRecordAlreadyExists
	}

	rec := s.calc.Calculate(payroll.Normalize(req.RecordPatch, nil, emp, month, now))
	saved, err := s.save(ctx, class, rec)
	if err != nil {
		return payroll.RecordResponse{}, err
	}

	return s.publish(saved), nil
}

// save sends closed months to the archive and everything else to the
// primary store.
func (s *PayrollServiceImpl) save(ctx context.Context, class payroll.MonthClass, rec payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	switch payroll.WriteTargetFor(class) {
	case payroll.TargetArchive:
		return s.archiveRepo.Upsert(ctx, rec.ID, rec)
	default:
		return s.payrollRepo.Upsert(ctx, rec)
	}
}

// findRecord returns the record an edit starts from, or nil when there is
// none. Past months read the archive first and fall back to the primary
// store, so the first archival edit starts from what was recorded while the
// month was open.
func (s *PayrollServiceImpl) findRecord(ctx context.Context, class payroll.MonthClass, empID string, month payroll.Month) (*payroll.PayrollRecord, error) {
	if class == payroll.MonthPast {
		rec, err := s.archiveRepo.GetByEmployeeMonth(ctx, empID, month)
		if err == nil {
			return &rec, nil
		}
		if !errors.Is(err, payroll.ErrPayrollRecordNotFound) {
			return nil, err
		}
	}

	rec, err := s.payrollRepo.GetByEmployeeMonth(ctx, empID, month)
	if err != nil {
		if errors.Is(err, payroll.ErrPayrollRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (s *PayrollServiceImpl) findEmployee(ctx context.Context, empID string) (*employee.Employee, error) {
	emp, err := s.employeeRepo.GetByEmpID(ctx, empID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &emp, nil
}

// ensureMestri rejects a patch that assigns a mestri missing from the
// directory. A nil or empty id leaves the assignment alone.
func (s *PayrollServiceImpl) ensureMestri(ctx context.Context, mestriID *string) error {
	if mestriID == nil || *mestriID == "" {
		return nil
	}
	if _, err := s.mestriRepo.GetByMestriID(ctx, *mestriID); err != nil {
		if errors.Is(err, mestri.ErrMestriNotFound) {
			return err
		}
		return fmt.Errorf("failed to look up mestri %s: %w", *mestriID, err)
	}
	return nil
}

// cascadeMestri moves the employee's later open-month records to mestriID.
func (s *PayrollServiceImpl) cascadeMestri(ctx context.Context, empID string, month payroll.Month, mestriID string) error {
	later, err := s.payrollRepo.ListByEmployeeAfter(ctx, empID, month)
	if err != nil {
		return err
	}

	for _, rec := range later {
		if rec.MestriID == mestriID {
			continue
		}
		rec.MestriID = mestriID
		saved, err := s.payrollRepo.Upsert(ctx, s.calc.Calculate(rec))
		if err != nil {
			return fmt.Errorf("failed to reassign %s: %w", rec.ID, err)
		}
		s.publish(saved)
	}
	return nil
}

func (s *PayrollServiceImpl) publish(rec payroll.PayrollRecord) payroll.RecordResponse {
	resp := payroll.NewRecordResponse(rec)
	if s.hub != nil {
		s.hub.Publish(monthTopic(rec.Month), sse.Event{
			Event: payroll.EventRecordSaved,
			Data:  payroll.Event{Type: payroll.EventRecordSaved, Record: resp},
		})
	}
	return resp
}

// ========== IMPORT ==========

func (s *PayrollServiceImpl) ImportRoster(ctx context.Context, month payroll.Month) (payroll.ImportResult, error) {
	now := s.calc.Now()
	if payroll.Classify(month, now) != payroll.MonthPast {
		return payroll.ImportResult{}, payroll.ErrMonthNotPast
	}

	var (
		roster   []employee.Employee
		primary  []payroll.PayrollRecord
		archived []payroll.PayrollRecord
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		roster, err = s.employeeRepo.List(gctx, employee.ActiveOnly(nil))
		return err
	})
	g.Go(func() error {
		var err error
		primary, err = s.payrollRepo.ListByMonth(gctx, month)
		return err
	})
	g.Go(func() error {
		var err error
		archived, err = s.archiveRepo.ListByMonth(gctx, month)
		return err
	})
	if err := g.Wait(); err != nil {
		return payroll.ImportResult{}, fmt.Errorf("failed to load roster for import into %s: %w", month, err)
	}

	have := make(map[string]bool, len(primary)+len(archived))
	for _, rec := range payroll.MergeArchive(primary, archived) {
		have[rec.EmpID] = true
	}

	result := payroll.ImportResult{Month: month}
	records := make([]payroll.PayrollRecord, 0, len(roster))
	for i := range roster {
		emp := roster[i]
		if have[emp.EmpID] {
			result.Skipped++
			continue
		}
		have[emp.EmpID] = true
		records = append(records, s.calc.Calculate(payroll.Normalize(payroll.RecordPatch{}, nil, &emp, month, now)))
	}

	if len(records) > 0 {
		if err := s.archiveRepo.UpsertMany(ctx, records); err != nil {
			return payroll.ImportResult{}, fmt.Errorf("failed to import roster into %s: %w", month, err)
		}
	}
	result.Imported = len(records)

	slog.Info("roster imported into closed month",
		"month", month.String(),
		"imported", result.Imported,
		"skipped", result.Skipped,
	)
	return result, nil
}

// ========== SUMMARY ==========

func (s *PayrollServiceImpl) Summaries(ctx context.Context) ([]payroll.SummaryResponse, error) {
	var primaryMonths, archiveMonths []payroll.Month
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		primaryMonths, err = s.payrollRepo.ListMonths(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		archiveMonths, err = s.archiveRepo.ListMonths(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to list payroll months: %w", err)
	}

	months := unionMonths(primaryMonths, archiveMonths)
	summaries := make([]payroll.SummaryResponse, len(months))

	g, gctx = errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, month := range months {
		g.Go(func() error {
			primary, err := s.payrollRepo.ListByMonth(gctx, month)
			if err != nil {
				return err
			}
			archived, err := s.archiveRepo.ListByMonth(gctx, month)
			if err != nil {
				return err
			}
			summaries[i] = summarize(month, payroll.MergeArchive(primary, archived))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to summarize payroll: %w", err)
	}

	return summaries, nil
}

// unionMonths merges both month lists, newest first, without duplicates.
func unionMonths(a, b []payroll.Month) []payroll.Month {
	seen := make(map[payroll.Month]bool, len(a)+len(b))
	out := make([]payroll.Month, 0, len(a)+len(b))
	for _, list := range [][]payroll.Month{a, b} {
		for _, m := range list {
			if !seen[m] {
				seen[m] = true
				out = append(out, m)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].After(out[j]) })
	return out
}

func summarize(month payroll.Month, records []payroll.PayrollRecord) payroll.SummaryResponse {
	sum := payroll.MonthlySummary{Month: month, Records: len(records)}
	for _, rec := range records {
		sum.TotalPayment = sum.TotalPayment.Add(rec.TotalPayment)
		switch rec.Status {
		case payroll.StatusPaid:
			sum.PaidCount++
		case payroll.StatusPending:
			sum.PendingCount++
		default:
			sum.UnpaidCount++
		}
	}
	return payroll.SummaryResponse{
		Month:        sum.Month,
		Label:        sum.Month.Label(),
		Records:      sum.Records,
		TotalPayment: sum.TotalPayment,
		PaidCount:    sum.PaidCount,
		PendingCount: sum.PendingCount,
		UnpaidCount:  sum.UnpaidCount,
	}
}

// ========== STREAM ==========

func (s *PayrollServiceImpl) Subscribe(ctx context.Context, month payroll.Month) (<-chan payroll.Event, func()) {
	events, cleanup := s.hub.Subscribe(monthTopic(month))

	out := make(chan payroll.Event, 16)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-events:
				if !ok {
					return
				}
				pe, ok := ev.Data.(payroll.Event)
				if !ok {
					continue
				}
				select {
				case out <- pe:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, cleanup
}
