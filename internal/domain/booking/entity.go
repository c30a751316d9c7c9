package booking

import (
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidTransition = errors.New("invalid booking transition")
	ErrAlreadyPaid       = errors.New("booking already paid")
)

type Payment struct {
	amount *Money
	method PaymentMethod
	status PaymentStatus
	paidAt *time.Time
}

func NewPendingPayment() Payment {
	return Payment{status: PaymentPending}
}

func ReconstructPayment(amount *Money, method PaymentMethod, status PaymentStatus, paidAt *time.Time) Payment {
	return Payment{amount: amount, method: method, status: status, paidAt: paidAt}
}

func (p Payment) Amount() *Money        { return p.amount }
func (p Payment) Method() PaymentMethod { return p.method }
func (p Payment) Status() PaymentStatus { return p.status }
func (p Payment) PaidAt() *time.Time    { return p.paidAt }
func (p Payment) IsCompleted() bool     { return p.status == PaymentCompleted }

// Booking reserves one slot for one time window. It moves
// SCHEDULED -> CHECKED_IN -> CHECKED_OUT -> paid, one step at a time,
// and is immutable once paid.
type Booking struct {
	id              uuid.UUID
	userID          uuid.UUID
	slotID          uuid.UUID
	vehicleNumber   VehicleNumber
	window          TimeWindow
	status          Status
	parkingStatus   ParkingStatus
	actualEntryTime *time.Time
	actualExitTime  *time.Time
	actualDuration  *int
	payment         Payment
	version         int64
	createdAt       time.Time
	updatedAt       time.Time
}

func NewBooking(userID, slotID uuid.UUID, vehicle VehicleNumber, window TimeWindow) *Booking {
	return &Booking{
		id:            uuid.New(),
		userID:        userID,
		slotID:        slotID,
		vehicleNumber: vehicle,
		window:        window,
		status:        StatusBooked,
		parkingStatus: ParkingScheduled,
		payment:       NewPendingPayment(),
	}
}

func ReconstructBooking(
	id, userID, slotID uuid.UUID,
	vehicle VehicleNumber,
	window TimeWindow,
	status Status,
	parkingStatus ParkingStatus,
	actualEntryTime, actualExitTime *time.Time,
	actualDuration *int,
	payment Payment,
	version int64,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:              id,
		userID:          userID,
		slotID:          slotID,
		vehicleNumber:   vehicle,
		window:          window,
		status:          status,
		parkingStatus:   parkingStatus,
		actualEntryTime: actualEntryTime,
		actualExitTime:  actualExitTime,
		actualDuration:  actualDuration,
		payment:         payment,
		version:         version,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

func (b *Booking) CheckIn(now time.Time) error {
	if b.status != StatusBooked || b.parkingStatus != ParkingScheduled {
		return ErrInvalidTransition
	}
	entry := now
	b.actualEntryTime = &entry
	b.parkingStatus = ParkingCheckedIn
	return nil
}

// CheckOut records the exit and freezes the payment amount at the fee due
// at exit time. The payment stays pending.
func (b *Booking) CheckOut(now time.Time, calc FeeCalculator) error {
	if b.status != StatusBooked || b.parkingStatus != ParkingCheckedIn || b.actualEntryTime == nil {
		return ErrInvalidTransition
	}
	quote := calc.Quote(b.FeeInput(), now)

	exit := now
	minutes := int(math.Round(math.Max(0, exit.Sub(*b.actualEntryTime).Minutes())))
	amount := quote.Amount

	b.actualExitTime = &exit
	b.actualDuration = &minutes
	b.parkingStatus = ParkingCheckedOut
	b.payment.amount = &amount
	return nil
}

func (b *Booking) Pay(method PaymentMethod, now time.Time) error {
	if b.payment.IsCompleted() {
		return ErrAlreadyPaid
	}
	if b.status != StatusBooked || b.parkingStatus != ParkingCheckedOut {
		return ErrInvalidTransition
	}
	if !method.IsValid() {
		return ErrInvalidPaymentMethod
	}
	paidAt := now
	b.payment.method = method
	b.payment.status = PaymentCompleted
	b.payment.paidAt = &paidAt
	b.status = StatusCompleted
	return nil
}

// Cancel is refused once the vehicle has checked out; the fee is then due.
func (b *Booking) Cancel() error {
	if b.status != StatusBooked || b.parkingStatus == ParkingCheckedOut {
		return ErrInvalidTransition
	}
	b.status = StatusCancelled
	return nil
}

func (b *Booking) FeeInput() FeeInput {
	return FeeInput{
		Status:          b.status,
		ParkingStatus:   b.parkingStatus,
		ActualEntryTime: b.actualEntryTime,
		ActualDuration:  b.actualDuration,
		PaymentAmount:   b.payment.amount,
	}
}

func (b *Booking) IsActive() bool {
	return b.status == StatusBooked
}

func (b *Booking) ID() uuid.UUID                { return b.id }
func (b *Booking) UserID() uuid.UUID            { return b.userID }
func (b *Booking) SlotID() uuid.UUID            { return b.slotID }
func (b *Booking) VehicleNumber() VehicleNumber { return b.vehicleNumber }
func (b *Booking) Window() TimeWindow           { return b.window }
func (b *Booking) Status() Status               { return b.status }
func (b *Booking) ParkingStatus() ParkingStatus { return b.parkingStatus }
func (b *Booking) ActualEntryTime() *time.Time  { return b.actualEntryTime }
func (b *Booking) ActualExitTime() *time.Time   { return b.actualExitTime }
func (b *Booking) ActualDuration() *int         { return b.actualDuration }
func (b *Booking) Payment() Payment             { return b.payment }
func (b *Booking) Version() int64               { return b.version }
func (b *Booking) CreatedAt() time.Time         { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time         { return b.updatedAt }
