package dto

import "time"

type RollbackRequestDTO struct {
	Reason string `json:"reason" example:"operator correction"`
}

type RollbackRecordResponseDTO struct {
	ID                  string    `json:"id"`
	TransactionID       string    `json:"transactionId"`
	OriginalOperation   string    `json:"originalOperation" example:"DISBURSEMENT"`
	RollbackReason      string    `json:"rollbackReason"`
	CompensatingActions string    `json:"compensatingActions"`
	RolledBackBy        string    `json:"rolledBackBy" example:"ADMIN"`
	ErrorDetails        string    `json:"errorDetails,omitempty"`
	CreatedAt           time.Time `json:"createdAt"`
}
