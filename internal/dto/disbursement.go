package dto

import "time"

type DisburseRequestDTO struct {
	Amount           float64 `json:"amount" example:"12000"`
	DisbursementDate string  `json:"disbursementDate" example:"2026-01-15"`
}

type DisbursementResponseDTO struct {
	ID               string     `json:"id"`
	LoanID           string     `json:"loanId"`
	Amount           float64    `json:"amount" example:"12000"`
	DisbursementDate time.Time  `json:"disbursementDate"`
	Status           string     `json:"status" example:"COMPLETED"`
	RolledBackAt     *time.Time `json:"rolledBackAt,omitempty"`
}

type DisburseResponseDTO struct {
	Disbursement  DisbursementResponseDTO `json:"disbursement"`
	Loan          LoanResponseDTO         `json:"loan"`
	ScheduleCount int                     `json:"scheduleCount" example:"12"`
}
