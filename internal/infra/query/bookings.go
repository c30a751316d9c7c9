package query

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const bookingColumns = `b.id, b.user_id, b.slot_id, b.vehicle_number, b.start_time, b.end_time,
	b.status, b.parking_status, b.actual_entry_time, b.actual_exit_time, b.actual_duration_minutes,
	b.payment_amount_cents, b.payment_method, b.payment_status, b.paid_at, b.version,
	b.created_at, b.updated_at`

func bookingDest(b *Booking) []any {
	return []any{
		&b.ID, &b.UserID, &b.SlotID, &b.VehicleNumber, &b.StartTime, &b.EndTime,
		&b.Status, &b.ParkingStatus, &b.ActualEntryTime, &b.ActualExitTime, &b.ActualDurationMinutes,
		&b.PaymentAmountCents, &b.PaymentMethod, &b.PaymentStatus, &b.PaidAt, &b.Version,
		&b.CreatedAt, &b.UpdatedAt,
	}
}

func scanBooking(row pgx.Row) (Booking, error) {
	var b Booking
	err := row.Scan(bookingDest(&b)...)
	return b, err
}

func scanBookingView(row pgx.Row) (BookingViewRow, error) {
	var v BookingViewRow
	dest := append(bookingDest(&v.Booking), &v.SlotNumber)
	err := row.Scan(dest...)
	return v, err
}

type CreateBookingParams struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	SlotID        uuid.UUID
	VehicleNumber string
	StartTime     pgtype.Timestamptz
	EndTime       pgtype.Timestamptz
	Status        string
	ParkingStatus string
	PaymentStatus string
}

const createBooking = `
INSERT INTO bookings AS b (id, user_id, slot_id, vehicle_number, start_time, end_time,
                           status, parking_status, payment_status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING ` + bookingColumns

func (q *Queries) CreateBooking(ctx context.Context, db DBTX, arg CreateBookingParams) (Booking, error) {
	row := db.QueryRow(ctx, createBooking,
		arg.ID, arg.UserID, arg.SlotID, arg.VehicleNumber, arg.StartTime, arg.EndTime,
		arg.Status, arg.ParkingStatus, arg.PaymentStatus,
	)
	return scanBooking(row)
}

type UpdateBookingStateParams struct {
	ID                    uuid.UUID
	ExpectedParkingStatus string
	ExpectedVersion       int64
	Status                string
	ParkingStatus         string
	ActualEntryTime       pgtype.Timestamptz
	ActualExitTime        pgtype.Timestamptz
	ActualDurationMinutes pgtype.Int4
	PaymentAmountCents    pgtype.Int8
	PaymentMethod         pgtype.Text
	PaymentStatus         string
	PaidAt                pgtype.Timestamptz
}

// Compare-and-swap on (parking_status, version). Zero rows means another
// writer got there first.
const updateBookingState = `
UPDATE bookings
SET status = $4, parking_status = $5, actual_entry_time = $6, actual_exit_time = $7,
    actual_duration_minutes = $8, payment_amount_cents = $9, payment_method = $10,
    payment_status = $11, paid_at = $12, version = version + 1, updated_at = now()
WHERE id = $1 AND parking_status = $2 AND version = $3`

func (q *Queries) UpdateBookingState(ctx context.Context, db DBTX, arg UpdateBookingStateParams) (int64, error) {
	tag, err := db.Exec(ctx, updateBookingState,
		arg.ID, arg.ExpectedParkingStatus, arg.ExpectedVersion,
		arg.Status, arg.ParkingStatus, arg.ActualEntryTime, arg.ActualExitTime,
		arg.ActualDurationMinutes, arg.PaymentAmountCents, arg.PaymentMethod,
		arg.PaymentStatus, arg.PaidAt,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const getBookingByID = `SELECT ` + bookingColumns + ` FROM bookings b WHERE b.id = $1`

func (q *Queries) GetBookingByID(ctx context.Context, db DBTX, id uuid.UUID) (Booking, error) {
	return scanBooking(db.QueryRow(ctx, getBookingByID, id))
}

type FindOverlappingBookedParams struct {
	SlotID    uuid.UUID
	StartTime pgtype.Timestamptz
	EndTime   pgtype.Timestamptz
}

const findOverlappingBooked = `
SELECT b.id FROM bookings b
WHERE b.slot_id = $1
  AND b.status = 'BOOKED'
  AND b.start_time < $3
  AND $2 < b.end_time
ORDER BY b.start_time`

func (q *Queries) FindOverlappingBooked(ctx context.Context, db DBTX, arg FindOverlappingBookedParams) ([]uuid.UUID, error) {
	rows, err := db.Query(ctx, findOverlappingBooked, arg.SlotID, arg.StartTime, arg.EndTime)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []uuid.UUID{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

const countActiveBookingsOnSlot = `
SELECT count(*) FROM bookings WHERE slot_id = $1 AND status = 'BOOKED' AND id <> $2`

func (q *Queries) CountActiveBookingsOnSlot(ctx context.Context, db DBTX, slotID, excludeID uuid.UUID) (int64, error) {
	var n int64
	err := db.QueryRow(ctx, countActiveBookingsOnSlot, slotID, excludeID).Scan(&n)
	return n, err
}

const bookingViewSelect = `SELECT ` + bookingColumns + `, s.slot_number
FROM bookings b
JOIN slots s ON s.id = b.slot_id`

const getBookingViewByID = bookingViewSelect + ` WHERE b.id = $1`

func (q *Queries) GetBookingViewByID(ctx context.Context, db DBTX, id uuid.UUID) (BookingViewRow, error) {
	return scanBookingView(db.QueryRow(ctx, getBookingViewByID, id))
}

type ListBookingViewsParams struct {
	UserID pgtype.UUID // all users when not valid
	// Keyset cursor: rows strictly older than (AfterCreatedAt, AfterID).
	AfterCreatedAt pgtype.Timestamptz
	AfterID        pgtype.UUID
	Limit          int32
}

const listBookingViews = bookingViewSelect + `
WHERE ($1::uuid IS NULL OR b.user_id = $1::uuid)
  AND ($2::timestamptz IS NULL OR (b.created_at, b.id) < ($2::timestamptz, $3::uuid))
ORDER BY b.created_at DESC, b.id DESC
LIMIT $4`

func (q *Queries) ListBookingViews(ctx context.Context, db DBTX, arg ListBookingViewsParams) ([]BookingViewRow, error) {
	rows, err := db.Query(ctx, listBookingViews, arg.UserID, arg.AfterCreatedAt, arg.AfterID, arg.Limit)
	if err != nil {
		return nil, err
	}
	return collectBookingViews(rows)
}

const listBookingSnapshotsForAnalytics = bookingViewSelect + ` ORDER BY b.start_time`

// ListBookingViewsForAnalytics returns every booking, oldest window first.
func (q *Queries) ListBookingViewsForAnalytics(ctx context.Context, db DBTX) ([]BookingViewRow, error) {
	rows, err := db.Query(ctx, listBookingSnapshotsForAnalytics)
	if err != nil {
		return nil, err
	}
	return collectBookingViews(rows)
}

func collectBookingViews(rows pgx.Rows) ([]BookingViewRow, error) {
	defer rows.Close()

	items := []BookingViewRow{}
	for rows.Next() {
		v, err := scanBookingView(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return items, rows.Err()
}
