package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/peteCoder/seashore-mf-be/internal/calculator"
	"github.com/peteCoder/seashore-mf-be/internal/config"
	"github.com/peteCoder/seashore-mf-be/internal/domain"
	"github.com/peteCoder/seashore-mf-be/internal/repository"
	apperrors "github.com/peteCoder/seashore-mf-be/pkg/errors"
	"github.com/peteCoder/seashore-mf-be/pkg/utils"
)

// LoanService drives the loan state machine. Every state-mutating operation
// runs under a per-loan mutex so concurrent approvals or repayments against
// the same loan serialize; operations on different loans proceed in
// parallel.
type LoanService struct {
	LoanRepo      repository.LoanRepository
	RepaymentRepo repository.RepaymentRepository
	engine        *calculator.Engine
	redis         *redis.Client
	config        *config.Config

	locks sync.Map // loan number -> *sync.Mutex
	now   func() time.Time
}

func NewLoanService(
	loanRepo repository.LoanRepository,
	repaymentRepo repository.RepaymentRepository,
	engine *calculator.Engine,
	redisClient *redis.Client,
	cfg *config.Config,
) *LoanService {
	return &LoanService{
		LoanRepo:      loanRepo,
		RepaymentRepo: repaymentRepo,
		engine:        engine,
		redis:         redisClient,
		config:        cfg,
		now:           time.Now,
	}
}

func (s *LoanService) lockLoan(loanNumber string) func() {
	mu, _ := s.locks.LoadOrStore(loanNumber, &sync.Mutex{})
	mutex := mu.(*sync.Mutex)
	mutex.Lock()
	return mutex.Unlock
}

func scheduleCacheKey(loanNumber string) string {
	return "loan:schedule:" + loanNumber
}

// Apply creates a loan in pending_approval with the repayment plan computed
// from application-time terms. The borrowing-tier ceiling and minimum
// principal are checked here, before the calculator runs.
func (s *LoanService) Apply(ctx context.Context, request *domain.ApplyLoanRequest) (*domain.Loan, []calculator.ScheduleEntry, error) {
	if request.PrincipalAmount.LessThan(s.config.GetMinPrincipal()) {
		return nil, nil, apperrors.WrapBelowMinimum(s.config.GetMinPrincipal().StringFixed(2))
	}

	limits := s.config.GetTierLimits()
	limit, ok := limits[request.ClientLevel]
	if !ok {
		return nil, nil, apperrors.WrapInvalidArgument(fmt.Errorf("unknown client level: %s", request.ClientLevel))
	}
	if request.PrincipalAmount.GreaterThan(limit) {
		return nil, nil, apperrors.WrapTierLimitExceeded(request.ClientLevel, limit.StringFixed(2))
	}

	now := s.now()

	calc, err := s.engine.CalculateLoan(request.PrincipalAmount, request.Frequency(), request.DurationValue, now)
	if err != nil {
		return nil, nil, apperrors.WrapInvalidArgument(err)
	}

	last, err := s.LoanRepo.LatestLoanNumber(ctx, utils.LoanNumberPrefix(now.Year()))
	if err != nil {
		return nil, nil, apperrors.WrapDatabaseError(err)
	}

	loan := &domain.Loan{
		ID:                 uuid.New(),
		LoanNumber:         utils.NextLoanNumber(now.Year(), last),
		ClientID:           request.ClientID,
		BranchID:           request.BranchID,
		CreatedBy:          request.CreatedBy,
		PrincipalAmount:    request.PrincipalAmount,
		RepaymentFrequency: request.Frequency(),
		DurationValue:      request.DurationValue,
		AmountPaid:         decimal.Zero,
		AmountDisbursed:    decimal.Zero,
		Status:             domain.LoanStatusPendingApproval,
		ApplicationDate:    now,
		Purpose:            request.Purpose,
		GuarantorName:      request.GuarantorName,
		GuarantorPhone:     request.GuarantorPhone,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if request.Collateral != "" {
		loan.CollateralDescription = sql.NullString{String: request.Collateral, Valid: true}
	}
	loan.ApplyCalculation(calc)

	if err := s.LoanRepo.Create(ctx, loan); err != nil {
		return nil, nil, apperrors.WrapDatabaseError(err)
	}

	schedule, err := s.engine.GenerateSchedule(request.PrincipalAmount, request.Frequency(), request.DurationValue, now)
	if err != nil {
		return nil, nil, apperrors.WrapInvalidArgument(err)
	}

	s.cacheSchedule(ctx, loan.LoanNumber, schedule)

	return loan, schedule, nil
}

// Approve moves a pending loan to approved.
func (s *LoanService) Approve(ctx context.Context, loanNumber string, approvedBy uuid.UUID) (*domain.Loan, string, error) {
	unlock := s.lockLoan(loanNumber)
	defer unlock()

	loan, err := s.getLoan(ctx, loanNumber)
	if err != nil {
		return nil, "", err
	}

	ok, reason := loan.Approve(approvedBy, s.now())
	if !ok {
		return nil, "", apperrors.WrapInvalidTransition(reason)
	}

	if err := s.LoanRepo.Update(ctx, loan); err != nil {
		return nil, "", apperrors.WrapDatabaseError(err)
	}

	return loan, reason, nil
}

// Reject moves a pending loan to rejected, storing the reason.
func (s *LoanService) Reject(ctx context.Context, loanNumber string, reason string) (*domain.Loan, string, error) {
	unlock := s.lockLoan(loanNumber)
	defer unlock()

	loan, err := s.getLoan(ctx, loanNumber)
	if err != nil {
		return nil, "", err
	}

	ok, message := loan.Reject(reason, s.now())
	if !ok {
		return nil, "", apperrors.WrapInvalidTransition(message)
	}

	if err := s.LoanRepo.Update(ctx, loan); err != nil {
		return nil, "", apperrors.WrapDatabaseError(err)
	}

	return loan, message, nil
}

// Disburse activates an approved loan. The repayment plan is recomputed in
// full from the disbursement time, so the schedule re-anchors to when money
// actually moved.
func (s *LoanService) Disburse(ctx context.Context, loanNumber string, request *domain.DisburseLoanRequest) (*domain.Loan, string, error) {
	unlock := s.lockLoan(loanNumber)
	defer unlock()

	loan, err := s.getLoan(ctx, loanNumber)
	if err != nil {
		return nil, "", err
	}

	now := s.now()

	calc, err := s.engine.CalculateLoan(loan.PrincipalAmount, loan.RepaymentFrequency, loan.DurationValue, now)
	if err != nil {
		return nil, "", apperrors.WrapInvalidArgument(err)
	}

	ok, message := loan.Disburse(request.DisbursedBy, calc, now)
	if !ok {
		return nil, "", apperrors.WrapInvalidTransition(message)
	}

	if request.Method != "" {
		loan.DisbursementMethod = sql.NullString{String: request.Method, Valid: true}
	}
	if request.Reference != "" {
		loan.DisbursementReference = sql.NullString{String: request.Reference, Valid: true}
	}

	if err := s.LoanRepo.Update(ctx, loan); err != nil {
		return nil, "", apperrors.WrapDatabaseError(err)
	}

	// The cached schedule is anchored to the application date; drop it so
	// the next read regenerates from the disbursement date.
	s.dropSchedule(ctx, loanNumber)

	return loan, message, nil
}

// RecordRepayment applies a payment to an active or overdue loan and writes
// a repayment record. The repayment is all-or-nothing: validation failures
// leave loan and ledger untouched.
func (s *LoanService) RecordRepayment(ctx context.Context, loanNumber string, request *domain.RepaymentRequest) (*domain.Loan, error) {
	unlock := s.lockLoan(loanNumber)
	defer unlock()

	loan, err := s.getLoan(ctx, loanNumber)
	if err != nil {
		return nil, err
	}

	now := s.now()

	if err := loan.RecordRepayment(request.Amount, now); err != nil {
		return nil, apperrors.WrapRepaymentRejected(err)
	}

	if err := s.LoanRepo.Update(ctx, loan); err != nil {
		return nil, apperrors.WrapDatabaseError(err)
	}

	// Note: loan update and repayment insert should share a database
	// transaction in a production deployment.
	repayment := &domain.Repayment{
		ID:           uuid.New(),
		LoanNumber:   loanNumber,
		Amount:       request.Amount,
		BalanceAfter: loan.OutstandingBalance,
		RecordedBy:   uuid.NullUUID{UUID: request.RecordedBy, Valid: true},
		PaymentDate:  now,
		CreatedAt:    now,
	}
	if err := s.RepaymentRepo.Create(ctx, repayment); err != nil {
		return nil, apperrors.WrapDatabaseError(err)
	}

	return loan, nil
}

// GetLoan retrieves a loan by number.
func (s *LoanService) GetLoan(ctx context.Context, loanNumber string) (*domain.Loan, error) {
	return s.getLoan(ctx, loanNumber)
}

// GetRepayments returns the recorded payments for a loan, oldest first.
func (s *LoanService) GetRepayments(ctx context.Context, loanNumber string) ([]*domain.Repayment, error) {
	if _, err := s.getLoan(ctx, loanNumber); err != nil {
		return nil, err
	}

	repayments, err := s.RepaymentRepo.GetByLoanNumber(ctx, loanNumber)
	if err != nil {
		return nil, apperrors.WrapDatabaseError(err)
	}
	return repayments, nil
}

// GetSchedule returns the projected installment schedule for a loan,
// anchored to the disbursement date once the loan has been disbursed. The
// schedule is served from Redis when cached.
func (s *LoanService) GetSchedule(ctx context.Context, loanNumber string) ([]calculator.ScheduleEntry, error) {
	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, scheduleCacheKey(loanNumber)).Result(); err == nil {
			var schedule []calculator.ScheduleEntry
			if err := json.Unmarshal([]byte(cached), &schedule); err == nil {
				return schedule, nil
			}
		}
	}

	loan, err := s.getLoan(ctx, loanNumber)
	if err != nil {
		return nil, err
	}

	anchor := loan.ApplicationDate
	if loan.DisbursementDate.Valid {
		anchor = loan.DisbursementDate.Time
	}

	schedule, err := s.engine.GenerateSchedule(loan.PrincipalAmount, loan.RepaymentFrequency, loan.DurationValue, anchor)
	if err != nil {
		return nil, apperrors.WrapInvalidArgument(err)
	}

	s.cacheSchedule(ctx, loanNumber, schedule)

	return schedule, nil
}

// RateInfo exposes the tier schedule for one frequency for display.
func (s *LoanService) RateInfo(frequency calculator.Frequency) ([]calculator.TierInfo, error) {
	info := s.engine.RateInfo(frequency)
	if info == nil {
		return nil, apperrors.WrapInvalidArgument(fmt.Errorf("unknown repayment frequency: %q", frequency))
	}
	return info, nil
}

// Overdue reports the overdue standing of a loan.
func (s *LoanService) Overdue(ctx context.Context, loanNumber string) (*domain.OverdueResponse, error) {
	loan, err := s.getLoan(ctx, loanNumber)
	if err != nil {
		return nil, err
	}

	return &domain.OverdueResponse{
		LoanNumber:  loan.LoanNumber,
		Status:      loan.Status,
		DaysOverdue: loan.DaysOverdue(s.now()),
	}, nil
}

// MarkOverdueLoans sweeps active loans whose next repayment date has passed
// and flips them to overdue. Returns how many loans changed status.
func (s *LoanService) MarkOverdueLoans(ctx context.Context) (int, error) {
	now := s.now()

	loans, err := s.LoanRepo.ListActiveDueBefore(ctx, calculator.DateOnly(now))
	if err != nil {
		return 0, apperrors.WrapDatabaseError(err)
	}

	flipped := 0
	for _, loan := range loans {
		unlock := s.lockLoan(loan.LoanNumber)
		if loan.MarkOverdue(now) {
			if err := s.LoanRepo.Update(ctx, loan); err != nil {
				unlock()
				return flipped, apperrors.WrapDatabaseError(err)
			}
			flipped++
		}
		unlock()
	}

	return flipped, nil
}

func (s *LoanService) getLoan(ctx context.Context, loanNumber string) (*domain.Loan, error) {
	loan, err := s.LoanRepo.GetByLoanNumber(ctx, loanNumber)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.WrapLoanNotFound(loanNumber)
	}
	if err != nil {
		return nil, apperrors.WrapDatabaseError(err)
	}
	return loan, nil
}

func (s *LoanService) cacheSchedule(ctx context.Context, loanNumber string, schedule []calculator.ScheduleEntry) {
	if s.redis == nil {
		return
	}

	payload, err := json.Marshal(schedule)
	if err != nil {
		return
	}

	if err := s.redis.Set(ctx, scheduleCacheKey(loanNumber), payload, s.config.GetScheduleCacheTTL()).Err(); err != nil {
		log.Printf("failed to cache schedule for %s: %v", loanNumber, err)
	}
}

func (s *LoanService) dropSchedule(ctx context.Context, loanNumber string) {
	if s.redis == nil {
		return
	}

	if err := s.redis.Del(ctx, scheduleCacheKey(loanNumber)).Err(); err != nil {
		log.Printf("failed to drop cached schedule for %s: %v", loanNumber, err)
	}
}
