// Package fincalc holds the pure money math for the repayment engine:
// simple daily interest, the late-fee schedule, waterfall allocation and the
// annuity amortization builder. Intermediate math stays in float64; amounts
// are rounded to two decimal places exactly once, at the point they are about
// to be persisted, via Round2.
package fincalc

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// GraceDays is the number of days after a due date during which no late
	// fee accrues.
	GraceDays = 3
	// FlatLateFee is charged per full month-unit past the grace period.
	FlatLateFee = 25
	// DaysPerLateMonth is the month unit for late-fee accrual.
	DaysPerLateMonth = 30
	// DaysPerYear is the basis for daily simple interest.
	DaysPerYear = 365
)

// Round2 rounds half away from zero to two decimal places.
func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// DaysBetween returns the number of whole days from one date to another,
// truncating partial days.
func DaysBetween(from, to time.Time) int {
	return int(math.Floor(to.Sub(from).Hours() / 24))
}

// AccruedInterest computes simple daily interest on the outstanding principal:
// principal × (rate/100/365) × days. The result is unrounded; callers round
// once when persisting.
func AccruedInterest(outstandingPrincipal, annualRatePercent float64, days int) float64 {
	if days <= 0 || outstandingPrincipal <= 0 {
		return 0
	}
	dailyRate := annualRatePercent / 100 / DaysPerYear
	return outstandingPrincipal * dailyRate * float64(days)
}

// LateFee charges FlatLateFee per complete 30-day month elapsed after the
// grace period. Late days are always measured from the installment's own due
// date, never from the previous payment.
func LateFee(daysLate int) float64 {
	if daysLate <= GraceDays {
		return 0
	}
	monthsLate := (daysLate - GraceDays) / DaysPerLateMonth
	return float64(monthsLate * FlatLateFee)
}

// Allocation is the result of splitting a payment across the obligation
// waterfall.
type Allocation struct {
	InterestPaid  float64
	LateFeePaid   float64
	PrincipalPaid float64
}

// Allocate splits a payment in strict priority order: interest first, late
// fee second, principal last. Interest and fee are always exhausted before a
// cent reaches principal.
func Allocate(amount, interestDue, lateFeeDue float64) Allocation {
	remaining := amount

	interestPaid := math.Min(remaining, interestDue)
	remaining -= interestPaid

	lateFeePaid := math.Min(remaining, lateFeeDue)
	remaining -= lateFeePaid

	principalPaid := 0.0
	if remaining > 0 {
		principalPaid = remaining
	}

	return Allocation{
		InterestPaid:  Round2(interestPaid),
		LateFeePaid:   Round2(lateFeePaid),
		PrincipalPaid: Round2(principalPaid),
	}
}

// Installment is one row of an amortization schedule.
type Installment struct {
	Number    int
	DueDate   time.Time
	Principal float64
	Interest  float64
}

// MonthlyPayment computes the fixed annuity payment
// M = P·r·(1+r)^n / ((1+r)^n − 1). A zero rate degenerates to equal principal
// installments.
func MonthlyPayment(principal, annualRatePercent float64, months int) float64 {
	monthlyRate := annualRatePercent / 100 / 12
	if monthlyRate == 0 {
		return principal / float64(months)
	}
	factor := math.Pow(1+monthlyRate, float64(months))
	return principal * monthlyRate * factor / (factor - 1)
}

// BuildSchedule produces the full n-row amortization schedule for a loan at
// disbursement time. Per-row amounts are rounded at emission; the final row
// absorbs the accumulated rounding residue so the row principals sum exactly
// to the loan principal.
func BuildSchedule(principal, annualRatePercent float64, tenorMonths int, start time.Time) []Installment {
	monthlyRate := annualRatePercent / 100 / 12
	monthlyPayment := MonthlyPayment(principal, annualRatePercent, tenorMonths)

	schedule := make([]Installment, 0, tenorMonths)
	remaining := principal
	var emitted float64

	for i := 1; i <= tenorMonths; i++ {
		interest := remaining * monthlyRate
		principalPortion := Round2(monthlyPayment - interest)
		if i == tenorMonths {
			principalPortion = Round2(principal - emitted)
		}
		emitted = Round2(emitted + principalPortion)

		remaining -= monthlyPayment - interest
		if remaining < 0 {
			remaining = 0
		}

		schedule = append(schedule, Installment{
			Number:    i,
			DueDate:   start.AddDate(0, i, 0),
			Principal: principalPortion,
			Interest:  Round2(interest),
		})
	}
	return schedule
}
