package dto

import "time"

type AccountResponseDTO struct {
	ID      string  `json:"id"`
	Type    string  `json:"type" example:"USER"`
	Balance float64 `json:"balance" example:"12000"`
}

type FundRequestDTO struct {
	Amount float64 `json:"amount" example:"100000"`
}

type AvailableFundsResponseDTO struct {
	Available float64 `json:"available" example:"88000"`
}

type AuditEventResponseDTO struct {
	ID            string    `json:"id"`
	TransactionID string    `json:"transactionId"`
	Operation     string    `json:"operation" example:"DISBURSEMENT_COMPLETED"`
	Level         string    `json:"level" example:"INFO"`
	Service       string    `json:"service" example:"disbursement"`
	Metadata      string    `json:"metadata"`
	CreatedAt     time.Time `json:"createdAt"`
}
