package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/sproutworks/nursery_erp_backend/internal/apperrors"
	"github.com/sproutworks/nursery_erp_backend/internal/core/domain"
	portsrepo "github.com/sproutworks/nursery_erp_backend/internal/core/ports/repositories"
	portssvc "github.com/sproutworks/nursery_erp_backend/internal/core/ports/services"
	"github.com/sproutworks/nursery_erp_backend/internal/dto"
	"github.com/sproutworks/nursery_erp_backend/internal/middleware"
)

// generateWorkers bounds how many employees are computed concurrently during
// one batch run. Writes stay independent per employee, so parallelism is safe;
// the per-period uniqueness is enforced by the storage layer.
const generateWorkers = 8

// payrollService orchestrates computation, lifecycle transitions and ledger
// posting. It is the only service the HTTP layer talks to for payroll.
type payrollService struct {
	payrollRepo portsrepo.PayrollRepositoryFacade
	voucherRepo portsrepo.VoucherRepositoryFacade
	employees   portsrepo.EmployeeReader
	attendance  portsrepo.AttendanceReader
	structure   portsrepo.SalaryStructureReader
}

// NewPayrollService creates the payroll service facade.
func NewPayrollService(
	payrollRepo portsrepo.PayrollRepositoryFacade,
	voucherRepo portsrepo.VoucherRepositoryFacade,
	employees portsrepo.EmployeeReader,
	attendance portsrepo.AttendanceReader,
	structure portsrepo.SalaryStructureReader,
) portssvc.PayrollSvcFacade {
	return &payrollService{
		payrollRepo: payrollRepo,
		voucherRepo: voucherRepo,
		employees:   employees,
		attendance:  attendance,
		structure:   structure,
	}
}

var _ portssvc.PayrollSvcFacade = (*payrollService)(nil)

// GeneratePayroll computes and stores one DRAFT record per active employee.
// Implements portssvc.PayrollSvcFacade.
func (s *payrollService) GeneratePayroll(ctx context.Context, req dto.GeneratePayrollRequest, actorUserID string) (*dto.GeneratePayrollResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Month < 1 || req.Month > 12 {
		return nil, fmt.Errorf("%w: month must be between 1 and 12, got %d", apperrors.ErrValidation, req.Month)
	}
	if req.Year < 2000 || req.Year > 2100 {
		return nil, fmt.Errorf("%w: year %d is not a plausible calendar year", apperrors.ErrValidation, req.Year)
	}

	activeEmployees, err := s.employees.ListActiveEmployees(ctx)
	if err != nil {
		logger.Error("Failed to list active employees for generation", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list active employees: %w", err)
	}

	now := time.Now().UTC()

	var (
		mu        sync.Mutex
		generated int
		skipped   int
		failures  []dto.GenerationFailure
	)

	var wg sync.WaitGroup
	sem := make(chan struct{}, generateWorkers)
	for _, emp := range activeEmployees {
		wg.Add(1)
		sem <- struct{}{}
		go func(emp domain.Employee) {
			defer wg.Done()
			defer func() { <-sem }()

			err := s.generateForEmployee(ctx, emp, req.Month, req.Year, now, actorUserID)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				generated++
			case errors.Is(err, apperrors.ErrDuplicate):
				// regeneration attempt is informational, not fatal
				skipped++
				failures = append(failures, dto.GenerationFailure{
					EmployeeID: emp.EmployeeID,
					Reason:     fmt.Sprintf("payroll already generated for %04d-%02d", req.Year, req.Month),
				})
			default:
				failures = append(failures, dto.GenerationFailure{
					EmployeeID: emp.EmployeeID,
					Reason:     err.Error(),
				})
			}
		}(emp)
	}
	wg.Wait()

	// deterministic order for the caller regardless of goroutine scheduling
	sort.Slice(failures, func(i, j int) bool {
		return failures[i].EmployeeID < failures[j].EmployeeID
	})

	logger.Info("Payroll generation finished",
		slog.Int("month", req.Month),
		slog.Int("year", req.Year),
		slog.Int("generated", generated),
		slog.Int("skipped", skipped),
		slog.Int("failed", len(failures)-skipped),
	)

	return &dto.GeneratePayrollResponse{
		Month:          req.Month,
		Year:           req.Year,
		GeneratedCount: generated,
		SkippedCount:   skipped,
		Errors:         failures,
	}, nil
}

// generateForEmployee computes and persists a single employee's record.
// Attendance or structure absence yields zero counts / no components, not an
// error: an employee who joined mid-month still gets a record.
func (s *payrollService) generateForEmployee(ctx context.Context, emp domain.Employee, month, year int, now time.Time, actorUserID string) error {
	// Cheap pre-check before the attendance and structure reads. The unique
	// index on (employee, period) remains the authority under races; a
	// concurrent writer still surfaces as ErrDuplicate from SavePayroll.
	_, err := s.payrollRepo.FindActiveByEmployeePeriod(ctx, emp.EmployeeID, month, year)
	if err == nil {
		return apperrors.ErrDuplicate
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("failed to check for existing payroll: %w", err)
	}

	att, err := s.attendance.GetMonthlyAttendance(ctx, emp.EmployeeID, month, year)
	if err != nil {
		return fmt.Errorf("failed to read attendance: %w", err)
	}

	comps, err := s.structure.GetComponents(ctx, emp.EmployeeID)
	if err != nil {
		return fmt.Errorf("failed to read salary structure: %w", err)
	}

	record, err := ComputePayrollRecord(emp, att, comps, month, year, now, actorUserID)
	if err != nil {
		return err
	}

	return s.payrollRepo.SavePayroll(ctx, *record)
}

// ListPayrolls implements portssvc.PayrollSvcFacade.
func (s *payrollService) ListPayrolls(ctx context.Context, params dto.ListPayrollsParams) (*dto.ListPayrollsResponse, error) {
	filter := portsrepo.ListPayrollsFilter{
		Status: domain.PayrollStatus(params.Status),
		Month:  params.Month,
		Year:   params.Year,
	}

	records, err := s.payrollRepo.ListPayrolls(ctx, filter)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to list payrolls", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to retrieve payrolls: %w", err)
	}

	summaries := make([]dto.PayrollSummaryResponse, len(records))
	for i := range records {
		summaries[i] = dto.ToPayrollSummaryResponse(&records[i])
	}
	return &dto.ListPayrollsResponse{Payrolls: summaries}, nil
}

// GetPayrollDetails implements portssvc.PayrollSvcFacade.
func (s *payrollService) GetPayrollDetails(ctx context.Context, payrollID string) (*dto.PayrollDetailsResponse, error) {
	record, err := s.payrollRepo.FindPayrollByID(ctx, payrollID)
	if err != nil {
		return nil, err
	}

	lines, err := s.payrollRepo.FindComponentLines(ctx, payrollID)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to fetch component lines", slog.String("error", err.Error()), slog.String("payroll_id", payrollID))
		return nil, fmt.Errorf("failed to retrieve component lines for payroll %s: %w", payrollID, err)
	}

	return &dto.PayrollDetailsResponse{
		Record: dto.ToPayrollSummaryResponse(record),
		Lines:  dto.ToComponentLineResponses(lines),
	}, nil
}

// ApprovePayroll implements portssvc.PayrollSvcFacade. The DRAFT -> APPROVED
// transition and the voucher commit share one database transaction: a posting
// failure leaves the record DRAFT with no partial voucher.
func (s *payrollService) ApprovePayroll(ctx context.Context, payrollID string, actorUserID string) (*dto.ApprovePayrollResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	record, err := s.payrollRepo.FindPayrollByID(ctx, payrollID)
	if err != nil {
		return nil, err
	}
	if record.Status != domain.PayrollDraft {
		return nil, fmt.Errorf("%w: payroll %s is %s, approval requires DRAFT", apperrors.ErrConflict, payrollID, record.Status)
	}

	now := time.Now().UTC()

	// A record approved earlier, parked on HOLD and reactivated already owns
	// its voucher; re-approval reuses it instead of posting a second one.
	if record.VoucherNo != nil {
		if err := s.payrollRepo.UpdateStatus(ctx, payrollID, domain.PayrollDraft, domain.PayrollApproved, actorUserID, now); err != nil {
			return nil, err
		}
		record.Status = domain.PayrollApproved
		logger.Info("Payroll re-approved with existing voucher", slog.String("payroll_id", payrollID), slog.String("voucher_no", *record.VoucherNo))
		return &dto.ApprovePayrollResponse{
			Record:    dto.ToPayrollSummaryResponse(record),
			VoucherNo: *record.VoucherNo,
		}, nil
	}

	voucher, err := BuildPayrollVoucher(*record, now, actorUserID)
	if err != nil {
		logger.Error("Voucher construction failed", slog.String("error", err.Error()), slog.String("payroll_id", payrollID))
		return nil, err
	}

	posted, err := s.voucherRepo.PostVoucherAndApprove(ctx, payrollID, *voucher)
	if err != nil {
		logger.Error("Voucher posting failed, record stays DRAFT", slog.String("error", err.Error()), slog.String("payroll_id", payrollID))
		return nil, err
	}

	record.Status = domain.PayrollApproved
	record.VoucherNo = &posted.VoucherNo
	logger.Info("Payroll approved and voucher posted",
		slog.String("payroll_id", payrollID),
		slog.String("voucher_no", posted.VoucherNo),
	)

	return &dto.ApprovePayrollResponse{
		Record:    dto.ToPayrollSummaryResponse(record),
		VoucherNo: posted.VoucherNo,
	}, nil
}

// MarkPayrollPaid implements portssvc.PayrollSvcFacade. Disbursement is a
// distinct real-world event from posting, so it is never derived from voucher
// state.
func (s *payrollService) MarkPayrollPaid(ctx context.Context, payrollID string, actorUserID string) (*dto.PayPayrollResponse, error) {
	now := time.Now().UTC()
	if err := s.payrollRepo.MarkPaid(ctx, payrollID, actorUserID, now); err != nil {
		return nil, err
	}

	record, err := s.payrollRepo.FindPayrollByID(ctx, payrollID)
	if err != nil {
		return nil, err
	}

	middleware.GetLoggerFromCtx(ctx).Info("Payroll marked paid", slog.String("payroll_id", payrollID))
	return &dto.PayPayrollResponse{
		Record: dto.ToPayrollSummaryResponse(record),
		PaidAt: now,
	}, nil
}

// HoldPayroll implements portssvc.PayrollSvcFacade.
func (s *payrollService) HoldPayroll(ctx context.Context, payrollID string, actorUserID string) (*dto.PayrollSummaryResponse, error) {
	return s.transition(ctx, payrollID, domain.PayrollHold, actorUserID)
}

// ReactivatePayroll implements portssvc.PayrollSvcFacade. HOLD -> DRAFT is the
// only path back into the normal flow.
func (s *payrollService) ReactivatePayroll(ctx context.Context, payrollID string, actorUserID string) (*dto.PayrollSummaryResponse, error) {
	return s.transition(ctx, payrollID, domain.PayrollDraft, actorUserID)
}

// transition applies a lifecycle move after validating it against the state
// machine. Totals and lines are never touched here.
func (s *payrollService) transition(ctx context.Context, payrollID string, to domain.PayrollStatus, actorUserID string) (*dto.PayrollSummaryResponse, error) {
	record, err := s.payrollRepo.FindPayrollByID(ctx, payrollID)
	if err != nil {
		return nil, err
	}

	if !record.Status.CanTransitionTo(to) {
		return nil, fmt.Errorf("%w: transition %s -> %s is not permitted for payroll %s",
			apperrors.ErrConflict, record.Status, to, payrollID)
	}

	now := time.Now().UTC()
	if err := s.payrollRepo.UpdateStatus(ctx, payrollID, record.Status, to, actorUserID, now); err != nil {
		return nil, err
	}

	record.Status = to
	record.LastUpdatedAt = now
	record.LastUpdatedBy = actorUserID

	middleware.GetLoggerFromCtx(ctx).Info("Payroll status changed",
		slog.String("payroll_id", payrollID),
		slog.String("status", string(to)),
	)

	resp := dto.ToPayrollSummaryResponse(record)
	return &resp, nil
}

// GetVoucher implements portssvc.PayrollSvcFacade.
func (s *payrollService) GetVoucher(ctx context.Context, voucherNo string) (*dto.VoucherResponse, error) {
	voucher, err := s.voucherRepo.FindVoucherByNo(ctx, voucherNo)
	if err != nil {
		return nil, err
	}
	resp := dto.ToVoucherResponse(voucher)
	return &resp, nil
}
