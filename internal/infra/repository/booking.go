package repository

import (
	"context"

	"parking-booking/internal/domain/booking"
	"parking-booking/internal/infra"
	"parking-booking/internal/infra/query"
	"parking-booking/internal/infra/repository/converter"
)

type BookingWriteQueries interface {
	CreateBooking(ctx context.Context, db query.DBTX, arg query.CreateBookingParams) (query.Booking, error)
	UpdateBookingState(ctx context.Context, db query.DBTX, arg query.UpdateBookingStateParams) (int64, error)
}

type BookingRepository struct {
	queries BookingWriteQueries
	db      query.DBTX
}

func NewBookingRepository(queries BookingWriteQueries, db query.DBTX) *BookingRepository {
	return &BookingRepository{
		queries: queries,
		db:      db,
	}
}

// Create relies on the bookings_no_overlap exclusion constraint; an
// overlapping BOOKED row comes back as infra.KindConflict.
func (r *BookingRepository) Create(ctx context.Context, tx query.DBTX, b *booking.Booking) error {
	_, err := r.queries.CreateBooking(ctx, tx, converter.BookingToCreateParams(b))
	if err != nil {
		return infra.WrapRepoErr("failed to create booking", err)
	}
	return nil
}

func (r *BookingRepository) UpdateState(ctx context.Context, tx query.DBTX, b *booking.Booking, expected booking.ParkingStatus, expectedVersion int64) error {
	affected, err := r.queries.UpdateBookingState(ctx, tx, converter.BookingToUpdateParams(b, expected, expectedVersion))
	if err != nil {
		return infra.WrapRepoErr("failed to update booking state", err)
	}
	if affected == 0 {
		return infra.WrapRepoErr("booking state changed concurrently", nil, infra.KindStaleState)
	}
	return nil
}
