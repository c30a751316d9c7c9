package converter

import (
	"fmt"

	"parking-booking/internal/domain/booking"
	"parking-booking/internal/infra/query"
	"parking-booking/internal/pkg/pgconv"
)

func BookingToCreateParams(b *booking.Booking) query.CreateBookingParams {
	return query.CreateBookingParams{
		ID:            b.ID(),
		UserID:        b.UserID(),
		SlotID:        b.SlotID(),
		VehicleNumber: b.VehicleNumber().String(),
		StartTime:     pgconv.TimeToPgtype(b.Window().Start()),
		EndTime:       pgconv.TimeToPgtype(b.Window().End()),
		Status:        b.Status().String(),
		ParkingStatus: b.ParkingStatus().String(),
		PaymentStatus: b.Payment().Status().String(),
	}
}

func BookingToUpdateParams(b *booking.Booking, expected booking.ParkingStatus, expectedVersion int64) query.UpdateBookingStateParams {
	payment := b.Payment()

	params := query.UpdateBookingStateParams{
		ID:                    b.ID(),
		ExpectedParkingStatus: expected.String(),
		ExpectedVersion:       expectedVersion,
		Status:                b.Status().String(),
		ParkingStatus:         b.ParkingStatus().String(),
		ActualEntryTime:       pgconv.TimePtrToPgtype(b.ActualEntryTime()),
		ActualExitTime:        pgconv.TimePtrToPgtype(b.ActualExitTime()),
		ActualDurationMinutes: pgconv.IntPtrToInt4(b.ActualDuration()),
		PaymentStatus:         payment.Status().String(),
		PaidAt:                pgconv.TimePtrToPgtype(payment.PaidAt()),
	}

	if amount := payment.Amount(); amount != nil {
		cents := amount.Cents()
		params.PaymentAmountCents = pgconv.Int64PtrToInt8(&cents)
	}
	if method := payment.Method(); method != "" {
		params.PaymentMethod = pgconv.StringToPgtype(method.String())
	}

	return params
}

// BookingFromRow rebuilds the aggregate from a stored row. Rows violating
// domain rules indicate corruption and surface as errors.
func BookingFromRow(row query.Booking) (*booking.Booking, error) {
	vehicle, err := booking.NewVehicleNumber(row.VehicleNumber)
	if err != nil {
		return nil, fmt.Errorf("booking %s: %w", row.ID, err)
	}
	window, err := booking.NewTimeWindow(row.StartTime.Time, row.EndTime.Time)
	if err != nil {
		return nil, fmt.Errorf("booking %s: %w", row.ID, err)
	}

	status := booking.Status(row.Status)
	parkingStatus := booking.ParkingStatus(row.ParkingStatus)
	if !status.IsValid() || !parkingStatus.IsValid() {
		return nil, fmt.Errorf("booking %s: unknown status %q/%q", row.ID, row.Status, row.ParkingStatus)
	}

	var amount *booking.Money
	if cents := pgconv.Int64PtrFromInt8(row.PaymentAmountCents); cents != nil {
		m := booking.NewMoney(*cents)
		amount = &m
	}
	var method booking.PaymentMethod
	if row.PaymentMethod.Valid {
		method = booking.PaymentMethod(row.PaymentMethod.String)
	}
	payment := booking.ReconstructPayment(amount, method, booking.PaymentStatus(row.PaymentStatus), pgconv.TimePtrFromPgtype(row.PaidAt))

	return booking.ReconstructBooking(
		row.ID, row.UserID, row.SlotID,
		vehicle,
		window,
		status,
		parkingStatus,
		pgconv.TimePtrFromPgtype(row.ActualEntryTime),
		pgconv.TimePtrFromPgtype(row.ActualExitTime),
		pgconv.IntPtrFromInt4(row.ActualDurationMinutes),
		payment,
		row.Version,
		pgconv.TimeFromPgtype(row.CreatedAt),
		pgconv.TimeFromPgtype(row.UpdatedAt),
	), nil
}
