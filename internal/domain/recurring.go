package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"
)

// Valid reports whether f is a supported frequency
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyYearly:
		return true
	}
	return false
}

// Next returns the instant one period after t. ok is false for an
// unknown frequency.
func (f Frequency) Next(t time.Time) (next time.Time, ok bool) {
	switch f {
	case FrequencyDaily:
		return t.AddDate(0, 0, 1), true
	case FrequencyWeekly:
		return t.AddDate(0, 0, 7), true
	case FrequencyMonthly:
		return t.AddDate(0, 1, 0), true
	case FrequencyYearly:
		return t.AddDate(1, 0, 0), true
	}
	return time.Time{}, false
}

// RecurringCommitment is a subscription or installment plan. Tenor 0 means
// the commitment never completes on its own.
type RecurringCommitment struct {
	ID                uuid.UUID        `json:"id"`
	Type              TransactionType  `json:"type"`
	Amount            decimal.Decimal  `json:"amount"`
	Description       string           `json:"description"`
	Category          string           `json:"category"`
	Contact           *string          `json:"contact,omitempty"`
	AccountID         uuid.UUID        `json:"accountId"`
	Frequency         Frequency        `json:"frequency"`
	Tenor             int              `json:"tenor"`
	CompletedPayments int              `json:"completedPayments"`
	LastProcessed     time.Time        `json:"lastProcessed"`
	TotalPrice        *decimal.Decimal `json:"totalPrice,omitempty"`
	DPAmount          *decimal.Decimal `json:"dpAmount,omitempty"`
}

// NextDue returns when the commitment next produces a transaction
func (rc *RecurringCommitment) NextDue() (time.Time, bool) {
	return rc.Frequency.Next(rc.LastProcessed)
}

// IsDue reports whether at least one period has elapsed at now
func (rc *RecurringCommitment) IsDue(now time.Time) bool {
	next, ok := rc.NextDue()
	return ok && !now.Before(next)
}

// IsFulfilled reports whether a bounded commitment has completed its tenor
func (rc *RecurringCommitment) IsFulfilled() bool {
	return rc.Tenor > 0 && rc.CompletedPayments >= rc.Tenor
}

// OverdueAfter is how long a commitment may go unprocessed before it counts
// against the health score.
const OverdueAfter = 35 * 24 * time.Hour

// IsOverdue reports whether the commitment has gone unprocessed for longer
// than OverdueAfter
func (rc *RecurringCommitment) IsOverdue(now time.Time) bool {
	return now.Sub(rc.LastProcessed) > OverdueAfter
}

// InstallmentAmount splits the financed part of a purchase over tenor
// payments, rounding each payment up to a whole unit.
func InstallmentAmount(totalPrice, dpAmount decimal.Decimal, tenor int) decimal.Decimal {
	if tenor <= 0 {
		return decimal.Zero
	}
	financed := decimal.Max(decimal.Zero, totalPrice.Sub(dpAmount))
	return financed.Div(decimal.NewFromInt(int64(tenor))).Ceil()
}
