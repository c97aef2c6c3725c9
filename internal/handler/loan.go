package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/peteCoder/seashore-mf-be/internal/calculator"
	"github.com/peteCoder/seashore-mf-be/internal/domain"
	"github.com/peteCoder/seashore-mf-be/internal/service"
	apperrors "github.com/peteCoder/seashore-mf-be/pkg/errors"
	"github.com/peteCoder/seashore-mf-be/pkg/response"
)

type LoanHandler struct {
	service   *service.LoanService
	validator *validator.Validate
}

func NewLoanHandler(service *service.LoanService) *LoanHandler {
	return &LoanHandler{
		service:   service,
		validator: validator.New(),
	}
}

func (h *LoanHandler) respondError(w http.ResponseWriter, err error) {
	var bizErr *apperrors.BusinessError
	if errors.As(err, &bizErr) {
		response.BusinessError(w, bizErr)
		return
	}
	response.InternalServerError(w, "unexpected error", err)
}

// Apply creates a loan application.
// POST /api/v1/loans
func (h *LoanHandler) Apply(w http.ResponseWriter, r *http.Request) {
	var request domain.ApplyLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "validation failed", err)
		return
	}

	loan, schedule, err := h.service.Apply(r.Context(), &request)
	if err != nil {
		h.respondError(w, err)
		return
	}

	response.Created(w, domain.ApplyLoanResponse{Loan: loan, Schedule: schedule})
}

// Get returns a single loan.
// GET /api/v1/loans/{loanNumber}
func (h *LoanHandler) Get(w http.ResponseWriter, r *http.Request) {
	loanNumber := mux.Vars(r)["loanNumber"]

	loan, err := h.service.GetLoan(r.Context(), loanNumber)
	if err != nil {
		h.respondError(w, err)
		return
	}

	response.Success(w, loan)
}

// Approve approves a pending loan.
// POST /api/v1/loans/{loanNumber}/approve
func (h *LoanHandler) Approve(w http.ResponseWriter, r *http.Request) {
	loanNumber := mux.Vars(r)["loanNumber"]

	var request domain.ApproveLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "validation failed", err)
		return
	}

	loan, message, err := h.service.Approve(r.Context(), loanNumber, request.ApprovedBy)
	if err != nil {
		h.respondError(w, err)
		return
	}

	response.Success(w, domain.TransitionResponse{
		LoanNumber: loan.LoanNumber,
		Status:     loan.Status,
		Message:    message,
	})
}

// Reject rejects a pending loan with a reason.
// POST /api/v1/loans/{loanNumber}/reject
func (h *LoanHandler) Reject(w http.ResponseWriter, r *http.Request) {
	loanNumber := mux.Vars(r)["loanNumber"]

	var request domain.RejectLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "validation failed", err)
		return
	}

	loan, message, err := h.service.Reject(r.Context(), loanNumber, request.Reason)
	if err != nil {
		h.respondError(w, err)
		return
	}

	response.Success(w, domain.TransitionResponse{
		LoanNumber: loan.LoanNumber,
		Status:     loan.Status,
		Message:    message,
	})
}

// Disburse disburses an approved loan.
// POST /api/v1/loans/{loanNumber}/disburse
func (h *LoanHandler) Disburse(w http.ResponseWriter, r *http.Request) {
	loanNumber := mux.Vars(r)["loanNumber"]

	var request domain.DisburseLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "validation failed", err)
		return
	}

	loan, message, err := h.service.Disburse(r.Context(), loanNumber, &request)
	if err != nil {
		h.respondError(w, err)
		return
	}

	response.Success(w, domain.TransitionResponse{
		LoanNumber: loan.LoanNumber,
		Status:     loan.Status,
		Message:    message,
	})
}

// Repay records a repayment against an active or overdue loan.
// POST /api/v1/loans/{loanNumber}/repayments
func (h *LoanHandler) Repay(w http.ResponseWriter, r *http.Request) {
	loanNumber := mux.Vars(r)["loanNumber"]

	var request domain.RepaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "validation failed", err)
		return
	}

	loan, err := h.service.RecordRepayment(r.Context(), loanNumber, &request)
	if err != nil {
		h.respondError(w, err)
		return
	}

	response.Success(w, domain.RepaymentResponse{
		LoanNumber:         loan.LoanNumber,
		AmountPaid:         loan.AmountPaid,
		OutstandingBalance: loan.OutstandingBalance,
		Status:             loan.Status,
	})
}

// Repayments lists the recorded payments for a loan.
// GET /api/v1/loans/{loanNumber}/repayments
func (h *LoanHandler) Repayments(w http.ResponseWriter, r *http.Request) {
	loanNumber := mux.Vars(r)["loanNumber"]

	repayments, err := h.service.GetRepayments(r.Context(), loanNumber)
	if err != nil {
		h.respondError(w, err)
		return
	}

	response.Success(w, repayments)
}

// Schedule returns the projected installment schedule for a loan.
// GET /api/v1/loans/{loanNumber}/schedule
func (h *LoanHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	loanNumber := mux.Vars(r)["loanNumber"]

	schedule, err := h.service.GetSchedule(r.Context(), loanNumber)
	if err != nil {
		h.respondError(w, err)
		return
	}

	response.Success(w, domain.ScheduleResponse{LoanNumber: loanNumber, Schedule: schedule})
}

// Overdue reports the overdue standing of a loan.
// GET /api/v1/loans/{loanNumber}/overdue
func (h *LoanHandler) Overdue(w http.ResponseWriter, r *http.Request) {
	loanNumber := mux.Vars(r)["loanNumber"]

	overdue, err := h.service.Overdue(r.Context(), loanNumber)
	if err != nil {
		h.respondError(w, err)
		return
	}

	response.Success(w, overdue)
}

// Rates returns the rate tiers for a repayment frequency.
// GET /api/v1/rates/{frequency}
func (h *LoanHandler) Rates(w http.ResponseWriter, r *http.Request) {
	frequency := calculator.Frequency(mux.Vars(r)["frequency"])

	info, err := h.service.RateInfo(frequency)
	if err != nil {
		h.respondError(w, err)
		return
	}

	response.Success(w, info)
}
