package fincalc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAccruedInterest(t *testing.T) {
	tests := []struct {
		name        string
		outstanding float64
		rate        float64
		days        int
		expected    float64
	}{
		{name: "30 days at 12% on 10000", outstanding: 10000, rate: 12, days: 30, expected: 98.63},
		{name: "single day", outstanding: 10000, rate: 12, days: 1, expected: 3.29},
		{name: "zero days", outstanding: 10000, rate: 12, days: 0, expected: 0},
		{name: "negative days", outstanding: 10000, rate: 12, days: -5, expected: 0},
		{name: "zero principal", outstanding: 0, rate: 12, days: 30, expected: 0},
		{name: "negative principal", outstanding: -100, rate: 12, days: 30, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Round2(AccruedInterest(tt.outstanding, tt.rate, tt.days))
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestLateFee(t *testing.T) {
	tests := []struct {
		name     string
		daysLate int
		expected float64
	}{
		{name: "on time", daysLate: 0, expected: 0},
		{name: "last day of grace", daysLate: 3, expected: 0},
		{name: "just past grace, under a month", daysLate: 4, expected: 0},
		{name: "32 days, still under a month past grace", daysLate: 32, expected: 0},
		{name: "one month past grace", daysLate: 33, expected: 25},
		{name: "35 days late", daysLate: 35, expected: 25},
		{name: "two months past grace", daysLate: 74, expected: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, LateFee(tt.daysLate))
		})
	}
}

func TestAllocate(t *testing.T) {
	tests := []struct {
		name        string
		amount      float64
		interestDue float64
		lateFeeDue  float64
		expected    Allocation
	}{
		{
			name:        "partial payment never reaches principal",
			amount:      40,
			interestDue: 30,
			lateFeeDue:  25,
			expected:    Allocation{InterestPaid: 30, LateFeePaid: 10, PrincipalPaid: 0},
		},
		{
			name:        "full obligations plus principal",
			amount:      1055,
			interestDue: 30,
			lateFeeDue:  25,
			expected:    Allocation{InterestPaid: 30, LateFeePaid: 25, PrincipalPaid: 1000},
		},
		{
			name:        "interest only",
			amount:      15,
			interestDue: 30,
			lateFeeDue:  25,
			expected:    Allocation{InterestPaid: 15, LateFeePaid: 0, PrincipalPaid: 0},
		},
		{
			name:        "nothing due goes straight to principal",
			amount:      500,
			interestDue: 0,
			lateFeeDue:  0,
			expected:    Allocation{InterestPaid: 0, LateFeePaid: 0, PrincipalPaid: 500},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Allocate(tt.amount, tt.interestDue, tt.lateFeeDue))
		})
	}
}

func TestBuildSchedule(t *testing.T) {
	start := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

	t.Run("12 month annuity sums back to principal", func(t *testing.T) {
		schedule := BuildSchedule(12000, 12, 12, start)
		assert.Len(t, schedule, 12)

		var totalPrincipal float64
		for i, inst := range schedule {
			assert.Equal(t, i+1, inst.Number)
			assert.Equal(t, start.AddDate(0, i+1, 0), inst.DueDate)
			totalPrincipal = Round2(totalPrincipal + inst.Principal)
		}
		assert.Equal(t, 12000.0, totalPrincipal)

		// Interest declines as the balance amortizes.
		assert.Greater(t, schedule[0].Interest, schedule[11].Interest)
		assert.InDelta(t, 120, schedule[0].Interest, 0.01)
	})

	t.Run("row principals sum exactly to the principal", func(t *testing.T) {
		// parameter sets where naive per-row rounding drifts a cent or more
		cases := []struct {
			principal float64
			rate      float64
			months    int
		}{
			{10000, 12, 12},
			{5000, 7.5, 24},
			{100000, 15, 36},
			{12000, 12, 12},
		}
		for _, c := range cases {
			schedule := BuildSchedule(c.principal, c.rate, c.months, start)
			var total float64
			for _, inst := range schedule {
				total = Round2(total + inst.Principal)
			}
			assert.Equal(t, c.principal, total,
				"principal %.2f rate %.2f months %d", c.principal, c.rate, c.months)
		}
	})

	t.Run("zero rate splits principal equally", func(t *testing.T) {
		schedule := BuildSchedule(1200, 0, 12, start)
		assert.Len(t, schedule, 12)
		for _, inst := range schedule {
			assert.Equal(t, 100.0, inst.Principal)
			assert.Equal(t, 0.0, inst.Interest)
		}
	})
}

func TestMonthlyPayment(t *testing.T) {
	// Standard annuity check: 12000 at 12% over 12 months.
	assert.InDelta(t, 1066.19, MonthlyPayment(12000, 12, 12), 0.01)
	assert.Equal(t, 1000.0, MonthlyPayment(12000, 0, 12))
}

func TestDaysBetween(t *testing.T) {
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 30, DaysBetween(from, from.AddDate(0, 0, 30)))
	assert.Equal(t, 0, DaysBetween(from, from))
	assert.Equal(t, -1, DaysBetween(from, from.Add(-time.Hour)))
}
