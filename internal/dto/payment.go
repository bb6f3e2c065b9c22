package dto

import "time"

type PaymentRequestDTO struct {
	// Amount left zero means "pay everything due".
	Amount      float64 `json:"amount,omitempty" example:"1066.19"`
	PaymentDate string  `json:"paymentDate" example:"2026-02-15"`
}

type PaymentResponseDTO struct {
	ID                  string    `json:"id"`
	LoanID              string    `json:"loanId"`
	RepaymentScheduleID string    `json:"repaymentScheduleId,omitempty"`
	TransactionID       string    `json:"transactionId,omitempty"`
	Amount              float64   `json:"amount" example:"1066.19"`
	PaymentDate         time.Time `json:"paymentDate"`
	PrincipalPaid       float64   `json:"principalPaid" example:"946.19"`
	InterestPaid        float64   `json:"interestPaid" example:"120"`
	LateFeePaid         float64   `json:"lateFeePaid" example:"0"`
	DaysLate            int       `json:"daysLate" example:"0"`
	Status              string    `json:"status" example:"COMPLETED"`
}

type ProcessPaymentResponseDTO struct {
	Payments                []PaymentResponseDTO `json:"payments"`
	TotalAmountCharged      float64              `json:"totalAmountCharged" example:"1066.19"`
	TotalPrincipalPaid      float64              `json:"totalPrincipalPaid" example:"946.19"`
	NewOutstandingPrincipal float64              `json:"newOutstandingPrincipal" example:"11053.81"`
	SchedulesCovered        int                  `json:"schedulesCovered" example:"1"`
	LoanClosed              bool                 `json:"loanClosed" example:"false"`
}
