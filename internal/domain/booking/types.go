package booking

import "strings"

type Status string

const (
	StatusBooked    Status = "BOOKED"
	StatusCancelled Status = "CANCELLED"
	StatusCompleted Status = "COMPLETED"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusBooked, StatusCancelled, StatusCompleted:
		return true
	default:
		return false
	}
}

type ParkingStatus string

const (
	ParkingScheduled  ParkingStatus = "SCHEDULED"
	ParkingCheckedIn  ParkingStatus = "CHECKED_IN"
	ParkingCheckedOut ParkingStatus = "CHECKED_OUT"
)

func (s ParkingStatus) String() string {
	return string(s)
}

func (s ParkingStatus) IsValid() bool {
	switch s {
	case ParkingScheduled, ParkingCheckedIn, ParkingCheckedOut:
		return true
	default:
		return false
	}
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
)

func (s PaymentStatus) String() string {
	return string(s)
}

type PaymentMethod string

const (
	PaymentMethodUPI  PaymentMethod = "upi"
	PaymentMethodCard PaymentMethod = "card"
	PaymentMethodCash PaymentMethod = "cash"

	DefaultPaymentMethod = PaymentMethodUPI
)

func (m PaymentMethod) String() string {
	return string(m)
}

func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodUPI, PaymentMethodCard, PaymentMethodCash:
		return true
	default:
		return false
	}
}

// NewPaymentMethod returns the default method for empty input.
func NewPaymentMethod(s string) (PaymentMethod, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultPaymentMethod, nil
	}
	m := PaymentMethod(s)
	if !m.IsValid() {
		return "", ErrInvalidPaymentMethod
	}
	return m, nil
}
