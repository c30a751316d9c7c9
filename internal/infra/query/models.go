package query

import (
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type Slot struct {
	ID          uuid.UUID
	SlotNumber  string
	City        string
	Area        string
	Address     string
	PlaceType   string
	Latitude    float64
	Longitude   float64
	IsAvailable bool
	DeletedAt   pgtype.Timestamptz
	CreatedAt   pgtype.Timestamptz
	UpdatedAt   pgtype.Timestamptz
}

type Booking struct {
	ID                    uuid.UUID
	UserID                uuid.UUID
	SlotID                uuid.UUID
	VehicleNumber         string
	StartTime             pgtype.Timestamptz
	EndTime               pgtype.Timestamptz
	Status                string
	ParkingStatus         string
	ActualEntryTime       pgtype.Timestamptz
	ActualExitTime        pgtype.Timestamptz
	ActualDurationMinutes pgtype.Int4
	PaymentAmountCents    pgtype.Int8
	PaymentMethod         pgtype.Text
	PaymentStatus         string
	PaidAt                pgtype.Timestamptz
	Version               int64
	CreatedAt             pgtype.Timestamptz
	UpdatedAt             pgtype.Timestamptz
}

// BookingViewRow is a booking joined with its slot number.
type BookingViewRow struct {
	Booking
	SlotNumber string
}

type IdempotencyKey struct {
	Key              uuid.UUID
	UserID           uuid.UUID
	Endpoint         string
	RequestHash      string
	Status           string
	ResponseBodyHash pgtype.Text
	ResultBookingID  pgtype.UUID
	ExpiresAt        pgtype.Timestamptz
	CreatedAt        pgtype.Timestamptz
}

type NotificationJob struct {
	ID        uuid.UUID
	Kind      string
	Topic     string
	Payload   []byte
	Status    string
	Attempts  int32
	RunAt     pgtype.Timestamptz
	LastError pgtype.Text
	CreatedAt pgtype.Timestamptz
}
