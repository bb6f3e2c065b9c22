package dto

import "time"

type CreateLoanRequestDTO struct {
	AccountID         string  `json:"accountId" example:"7b0f4ad0-9a2e-4a4e-9d1e-2f3f0c8d1a11"`
	Principal         float64 `json:"principal" example:"12000"`
	AnnualRatePercent float64 `json:"annualRatePercent" example:"12"`
	TenorMonths       int     `json:"tenorMonths" example:"12"`
}

type LoanResponseDTO struct {
	ID                   string    `json:"id"`
	AccountID            string    `json:"accountId"`
	Principal            float64   `json:"principal" example:"12000"`
	AnnualRatePercent    float64   `json:"annualRatePercent" example:"12"`
	TenorMonths          int       `json:"tenorMonths" example:"12"`
	Status               string    `json:"status" example:"ACTIVE"`
	OutstandingPrincipal float64   `json:"outstandingPrincipal" example:"11000.55"`
	CreatedAt            time.Time `json:"createdAt"`
}

type ScheduleResponseDTO struct {
	ID                string     `json:"id"`
	InstallmentNumber int        `json:"installmentNumber" example:"1"`
	DueDate           time.Time  `json:"dueDate"`
	PrincipalAmount   float64    `json:"principalAmount" example:"946.19"`
	InterestAmount    float64    `json:"interestAmount" example:"120"`
	Status            string     `json:"status" example:"PENDING"`
	PaidDate          *time.Time `json:"paidDate,omitempty"`
}
