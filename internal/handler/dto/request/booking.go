package request

import (
	"time"

	"parking-booking/internal/usecase/commands"

	"github.com/google/uuid"
)

// Missing fields are left zero so the booking engine reports which one.
type CreateBookingRequest struct {
	SlotID        uuid.UUID `json:"slotId"`
	VehicleNumber string    `json:"vehicleNumber"`
	StartTime     time.Time `json:"startTime"`
	EndTime       time.Time `json:"endTime"`
}

func (r *CreateBookingRequest) ToParams() commands.CreateBookingParams {
	return commands.CreateBookingParams{
		SlotID:        r.SlotID,
		VehicleNumber: r.VehicleNumber,
		StartTime:     r.StartTime,
		EndTime:       r.EndTime,
	}
}

// Empty method defaults to upi.
type PaymentRequest struct {
	Method string `json:"method"`
}

type ListQuery struct {
	Cursor string `form:"cursor"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=200"`
}
