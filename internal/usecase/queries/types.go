package queries

import (
	"time"

	"github.com/google/uuid"
)

// Read models (DTO for read side). JSON names follow the public API.

type SlotView struct {
	ID          uuid.UUID `json:"id"`
	SlotNumber  string    `json:"slotNumber"`
	City        string    `json:"city"`
	Area        string    `json:"area"`
	Address     string    `json:"address"`
	PlaceType   string    `json:"placeType"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	IsAvailable bool      `json:"isAvailable"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type PaymentView struct {
	AmountCents *int64     `json:"amountCents,omitempty"`
	Method      *string    `json:"method,omitempty"`
	Status      string     `json:"status"`
	PaidAt      *time.Time `json:"paidAt,omitempty"`
}

type BookingView struct {
	ID                    uuid.UUID   `json:"id"`
	UserID                uuid.UUID   `json:"userId"`
	SlotID                uuid.UUID   `json:"slotId"`
	SlotNumber            string      `json:"slotNumber"`
	VehicleNumber         string      `json:"vehicleNumber"`
	StartTime             time.Time   `json:"startTime"`
	EndTime               time.Time   `json:"endTime"`
	Status                string      `json:"status"`
	ParkingStatus         string      `json:"parkingStatus"`
	ActualEntryTime       *time.Time  `json:"actualEntryTime,omitempty"`
	ActualExitTime        *time.Time  `json:"actualExitTime,omitempty"`
	ActualDurationMinutes *int        `json:"actualDuration,omitempty"`
	Payment               PaymentView `json:"payment"`
	Version               int64       `json:"version"`
	CreatedAt             time.Time   `json:"createdAt"`
	UpdatedAt             time.Time   `json:"updatedAt"`
}

type FeeView struct {
	BookingID   uuid.UUID `json:"bookingId"`
	Minutes     float64   `json:"minutes"`
	Hours       float64   `json:"hours"`
	AmountCents int64     `json:"amountCents"`
	Estimate    bool      `json:"estimate"`
	QuotedAt    time.Time `json:"quotedAt"`
}

type NotificationJobView struct {
	ID        uuid.UUID `json:"id"`
	Kind      string    `json:"kind"`
	Topic     string    `json:"topic"`
	Status    string    `json:"status"`
	Attempts  int32     `json:"attempts"`
	RunAt     time.Time `json:"runAt"`
	LastError *string   `json:"lastError,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type SlotFilter struct {
	City      *string
	Available *bool
}
