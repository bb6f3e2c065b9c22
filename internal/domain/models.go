package domain

import "time"

const (
	AccountTypePlatform = "PLATFORM"
	AccountTypeUser     = "USER"
)

const (
	LoanStatusPending  = "PENDING"
	LoanStatusApproved = "APPROVED"
	LoanStatusActive   = "ACTIVE"
	LoanStatusClosed   = "CLOSED"
)

const (
	DisbursementStatusPending    = "PENDING"
	DisbursementStatusCompleted  = "COMPLETED"
	DisbursementStatusFailed     = "FAILED"
	DisbursementStatusRolledBack = "ROLLED_BACK"
)

const (
	ScheduleStatusPending       = "PENDING"
	ScheduleStatusPartiallyPaid = "PARTIALLY_PAID"
	ScheduleStatusPaid          = "PAID"
	ScheduleStatusRolledBack    = "ROLLED_BACK"
)

const (
	PaymentStatusCompleted  = "COMPLETED"
	PaymentStatusRolledBack = "ROLLED_BACK"
)

const (
	TransactionTypeFunding      = "FUNDING"
	TransactionTypeDisbursement = "DISBURSEMENT"
	TransactionTypeRepayment    = "REPAYMENT"
)

const TransactionStatusCompleted = "COMPLETED"

const (
	OperationDisbursement = "DISBURSEMENT"
	OperationRepayment    = "REPAYMENT"
)

// SystemActor attributes compensations triggered by the engine itself rather
// than by an administrator.
const SystemActor = "SYSTEM_AUTO"

type User struct {
	ID           string    `db:"id"`
	Login        string    `db:"login"`
	PasswordHash string    `db:"password_hash"`
	Role         string    `db:"role"`
	CreatedAt    time.Time `db:"created_at"`
}

const (
	RoleAdmin    = "ADMIN"
	RoleBorrower = "BORROWER"
)

type Account struct {
	ID       string  `db:"id"`
	Type     string  `db:"type"`
	OwnerRef string  `db:"owner_ref"`
	Balance  float64 `db:"balance"`
}

type Loan struct {
	ID                   string    `db:"id"`
	AccountID            string    `db:"account_id"`
	Principal            float64   `db:"principal"`
	AnnualRatePercent    float64   `db:"annual_rate_percent"`
	TenorMonths          int       `db:"tenor_months"`
	Status               string    `db:"status"`
	OutstandingPrincipal float64   `db:"outstanding_principal"`
	CreatedAt            time.Time `db:"created_at"`
}

type Disbursement struct {
	ID               string     `db:"id"`
	LoanID           string     `db:"loan_id"`
	Amount           float64    `db:"amount"`
	DisbursementDate time.Time  `db:"disbursement_date"`
	Status           string     `db:"status"`
	RolledBackAt     *time.Time `db:"rolled_back_at"`
}

type RepaymentSchedule struct {
	ID                string     `db:"id"`
	LoanID            string     `db:"loan_id"`
	InstallmentNumber int        `db:"installment_number"`
	DueDate           time.Time  `db:"due_date"`
	PrincipalAmount   float64    `db:"principal_amount"`
	InterestAmount    float64    `db:"interest_amount"`
	Status            string     `db:"status"`
	PaidDate          *time.Time `db:"paid_date"`
}

type Payment struct {
	ID                  string    `db:"id"`
	LoanID              string    `db:"loan_id"`
	RepaymentScheduleID string    `db:"repayment_schedule_id"`
	TransactionID       string    `db:"transaction_id"`
	Amount              float64   `db:"amount"`
	PaymentDate         time.Time `db:"payment_date"`
	PrincipalPaid       float64   `db:"principal_paid"`
	InterestPaid        float64   `db:"interest_paid"`
	LateFeePaid         float64   `db:"late_fee_paid"`
	DaysLate            int       `db:"days_late"`
	Status              string    `db:"status"`
}

// Transaction is a ledger entry. Disbursements carry a negative amount
// (platform outflow); funding and repayments are positive.
type Transaction struct {
	ID        string    `db:"id"`
	Type      string    `db:"type"`
	RefID     string    `db:"ref_id"`
	Amount    float64   `db:"amount"`
	Status    string    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
}

type RollbackRecord struct {
	ID                  string    `db:"id"`
	TransactionID       string    `db:"transaction_id"`
	OriginalOperation   string    `db:"original_operation"`
	RollbackReason      string    `db:"rollback_reason"`
	CompensatingActions string    `db:"compensating_actions"`
	RolledBackBy        string    `db:"rolled_back_by"`
	ErrorDetails        string    `db:"error_details"`
	CreatedAt           time.Time `db:"created_at"`
}

type AuditEvent struct {
	ID            string    `db:"id"`
	TransactionID string    `db:"transaction_id"`
	Operation     string    `db:"operation"`
	Level         string    `db:"level"`
	Service       string    `db:"service"`
	Metadata      string    `db:"metadata"`
	CreatedAt     time.Time `db:"created_at"`
}
