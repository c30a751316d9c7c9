package booking

import (
	"math"
	"time"
)

const (
	DefaultBaseFeeCents      int64 = 2000
	DefaultRatePer15MinCents int64 = 500

	feeIncrementMinutes = 15
)

// FeeInput is the part of a booking the fee depends on.
type FeeInput struct {
	Status          Status
	ParkingStatus   ParkingStatus
	ActualEntryTime *time.Time
	ActualDuration  *int
	PaymentAmount   *Money
}

type FeeQuote struct {
	Minutes        float64
	RoundedMinutes int64
	Hours          float64
	Amount         Money
	// Estimate is true while the amount is not frozen by check-out.
	Estimate bool
}

type FeeCalculator interface {
	Quote(in FeeInput, now time.Time) FeeQuote
}

type DefaultFeeCalculator struct {
	BaseFeeCents      int64
	RatePer15MinCents int64
}

func NewDefaultFeeCalculator() *DefaultFeeCalculator {
	return &DefaultFeeCalculator{
		BaseFeeCents:      DefaultBaseFeeCents,
		RatePer15MinCents: DefaultRatePer15MinCents,
	}
}

func NewFeeCalculator(baseFeeCents, ratePer15MinCents int64) *DefaultFeeCalculator {
	return &DefaultFeeCalculator{
		BaseFeeCents:      baseFeeCents,
		RatePer15MinCents: ratePer15MinCents,
	}
}

// Quote has no side effects. Only the CHECKED_IN branch depends on now.
func (fc *DefaultFeeCalculator) Quote(in FeeInput, now time.Time) FeeQuote {
	base := NewMoney(fc.BaseFeeCents)

	finished := in.ParkingStatus == ParkingCheckedOut || in.Status == StatusCompleted
	if finished && in.ActualDuration != nil {
		minutes := float64(*in.ActualDuration)
		amount := base
		if in.PaymentAmount != nil && in.PaymentAmount.Cents() > 0 {
			amount = *in.PaymentAmount
		}
		return FeeQuote{
			Minutes:        minutes,
			RoundedMinutes: int64(*in.ActualDuration),
			Hours:          minutes / 60,
			Amount:         amount,
		}
	}

	if in.ParkingStatus == ParkingCheckedIn && in.ActualEntryTime != nil {
		minutes := math.Max(0, now.Sub(*in.ActualEntryTime).Minutes())
		increments := int64(math.Ceil(minutes / feeIncrementMinutes))
		return FeeQuote{
			Minutes:        minutes,
			RoundedMinutes: increments * feeIncrementMinutes,
			Hours:          minutes / 60,
			Amount:         base.Add(NewMoney(fc.RatePer15MinCents).Times(increments)),
			Estimate:       true,
		}
	}

	return FeeQuote{
		Amount:   base,
		Estimate: true,
	}
}
