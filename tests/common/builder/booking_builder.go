//go:build unit || e2e

package builder

import (
	"time"

	"parking-booking/internal/domain/booking"
	"parking-booking/internal/infra/query"
	"parking-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type BookingBuilder struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	SlotID          uuid.UUID
	SlotNumber      string
	VehicleNumber   string
	StartTime       time.Time
	EndTime         time.Time
	Status          booking.Status
	ParkingStatus   booking.ParkingStatus
	ActualEntryTime *time.Time
	ActualExitTime  *time.Time
	ActualDuration  *int
	AmountCents     *int64
	PaymentMethod   *string
	PaymentStatus   booking.PaymentStatus
	PaidAt          *time.Time
	Version         int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func NewBookingBuilder() *BookingBuilder {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &BookingBuilder{
		ID:            uuid.New(),
		UserID:        uuid.New(),
		SlotID:        uuid.New(),
		SlotNumber:    "A-101",
		VehicleNumber: "KA01AB1234",
		StartTime:     now.Add(time.Hour),
		EndTime:       now.Add(3 * time.Hour),
		Status:        booking.StatusBooked,
		ParkingStatus: booking.ParkingScheduled,
		PaymentStatus: booking.PaymentPending,
		Version:       1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	mutate(b)
	return b
}

func (b *BookingBuilder) WithUserID(id uuid.UUID) *BookingBuilder {
	b.UserID = id
	return b
}

func (b *BookingBuilder) WithSlotID(id uuid.UUID) *BookingBuilder {
	b.SlotID = id
	return b
}

func (b *BookingBuilder) WithWindow(start, end time.Time) *BookingBuilder {
	b.StartTime = start
	b.EndTime = end
	return b
}

func (b *BookingBuilder) AsCheckedIn(entry time.Time) *BookingBuilder {
	b.ParkingStatus = booking.ParkingCheckedIn
	b.ActualEntryTime = &entry
	return b
}

// AsCheckedOut freezes amountCents as the fee due.
func (b *BookingBuilder) AsCheckedOut(entry, exit time.Time, amountCents int64) *BookingBuilder {
	b.AsCheckedIn(entry)
	minutes := int(exit.Sub(entry).Minutes())
	b.ParkingStatus = booking.ParkingCheckedOut
	b.ActualExitTime = &exit
	b.ActualDuration = &minutes
	b.AmountCents = &amountCents
	return b
}

func (b *BookingBuilder) AsPaid(method string, at time.Time) *BookingBuilder {
	b.Status = booking.StatusCompleted
	b.PaymentStatus = booking.PaymentCompleted
	b.PaymentMethod = &method
	b.PaidAt = &at
	return b
}

func (b *BookingBuilder) AsCancelled() *BookingBuilder {
	b.Status = booking.StatusCancelled
	return b
}

// Build methods
func (b *BookingBuilder) BuildDomain() *booking.Booking {
	vehicle, _ := booking.NewVehicleNumber(b.VehicleNumber)
	window, _ := booking.NewTimeWindow(b.StartTime, b.EndTime)

	var amount *booking.Money
	if b.AmountCents != nil {
		m := booking.NewMoney(*b.AmountCents)
		amount = &m
	}
	var method booking.PaymentMethod
	if b.PaymentMethod != nil {
		method = booking.PaymentMethod(*b.PaymentMethod)
	}

	return booking.ReconstructBooking(
		b.ID, b.UserID, b.SlotID,
		vehicle, window,
		b.Status, b.ParkingStatus,
		b.ActualEntryTime, b.ActualExitTime, b.ActualDuration,
		booking.ReconstructPayment(amount, method, b.PaymentStatus, b.PaidAt),
		b.Version,
		b.CreatedAt, b.UpdatedAt,
	)
}

func (b *BookingBuilder) BuildInfra() query.Booking {
	row := query.Booking{
		ID:            b.ID,
		UserID:        b.UserID,
		SlotID:        b.SlotID,
		VehicleNumber: b.VehicleNumber,
		StartTime:     pgtype.Timestamptz{Time: b.StartTime, Valid: true},
		EndTime:       pgtype.Timestamptz{Time: b.EndTime, Valid: true},
		Status:        b.Status.String(),
		ParkingStatus: b.ParkingStatus.String(),
		PaymentStatus: b.PaymentStatus.String(),
		Version:       b.Version,
		CreatedAt:     pgtype.Timestamptz{Time: b.CreatedAt, Valid: true},
		UpdatedAt:     pgtype.Timestamptz{Time: b.UpdatedAt, Valid: true},
	}
	if b.ActualEntryTime != nil {
		row.ActualEntryTime = pgtype.Timestamptz{Time: *b.ActualEntryTime, Valid: true}
	}
	if b.ActualExitTime != nil {
		row.ActualExitTime = pgtype.Timestamptz{Time: *b.ActualExitTime, Valid: true}
	}
	if b.ActualDuration != nil {
		row.ActualDurationMinutes = pgtype.Int4{Int32: int32(*b.ActualDuration), Valid: true} // #nosec G115 -- test data
	}
	if b.AmountCents != nil {
		row.PaymentAmountCents = pgtype.Int8{Int64: *b.AmountCents, Valid: true}
	}
	if b.PaymentMethod != nil {
		row.PaymentMethod = pgtype.Text{String: *b.PaymentMethod, Valid: true}
	}
	if b.PaidAt != nil {
		row.PaidAt = pgtype.Timestamptz{Time: *b.PaidAt, Valid: true}
	}
	return row
}

func (b *BookingBuilder) BuildViewRow() query.BookingViewRow {
	return query.BookingViewRow{Booking: b.BuildInfra(), SlotNumber: b.SlotNumber}
}

func (b *BookingBuilder) BuildView() *queries.BookingView {
	return &queries.BookingView{
		ID:                    b.ID,
		UserID:                b.UserID,
		SlotID:                b.SlotID,
		SlotNumber:            b.SlotNumber,
		VehicleNumber:         b.VehicleNumber,
		StartTime:             b.StartTime,
		EndTime:               b.EndTime,
		Status:                b.Status.String(),
		ParkingStatus:         b.ParkingStatus.String(),
		ActualEntryTime:       b.ActualEntryTime,
		ActualExitTime:        b.ActualExitTime,
		ActualDurationMinutes: b.ActualDuration,
		Payment: queries.PaymentView{
			AmountCents: b.AmountCents,
			Method:      b.PaymentMethod,
			Status:      b.PaymentStatus.String(),
			PaidAt:      b.PaidAt,
		},
		Version:   b.Version,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}
