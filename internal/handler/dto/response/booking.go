package response

import (
	"fmt"
	"time"

	"parking-booking/internal/pkg/errs"
	"parking-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type PaymentResponse struct {
	Amount *string    `json:"amount"`
	Method *string    `json:"method"`
	Status string     `json:"status"`
	PaidAt *time.Time `json:"paidAt"`
}

type BookingResponse struct {
	ID              uuid.UUID       `json:"id"`
	UserID          uuid.UUID       `json:"userId"`
	SlotID          uuid.UUID       `json:"slotId"`
	SlotNumber      string          `json:"slotNumber"`
	VehicleNumber   string          `json:"vehicleNumber"`
	StartTime       time.Time       `json:"startTime"`
	EndTime         time.Time       `json:"endTime"`
	Status          string          `json:"status"`
	ParkingStatus   string          `json:"parkingStatus"`
	ActualEntryTime *time.Time      `json:"actualEntryTime"`
	ActualExitTime  *time.Time      `json:"actualExitTime"`
	ActualDuration  *int            `json:"actualDuration"`
	Payment         PaymentResponse `json:"payment"`
	Version         int64           `json:"version"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

type BookingListResponse struct {
	Items      []*BookingResponse `json:"items"`
	NextCursor *string            `json:"nextCursor"`
}

type CreateBookingResponse struct {
	Booking *BookingResponse `json:"booking"`
	Slot    *SlotResponse    `json:"slot"`
}

type FeeResponse struct {
	BookingID uuid.UUID `json:"bookingId"`
	Minutes   string    `json:"minutes"`
	Hours     string    `json:"hours"`
	Amount    string    `json:"amount"`
	Estimate  bool      `json:"estimate"`
	QuotedAt  time.Time `json:"quotedAt"`
}

func FromBookingView(v *queries.BookingView) (*BookingResponse, error) {
	if v == nil {
		return nil, nil
	}
	res := &BookingResponse{}
	if err := copier.Copy(res, v); err != nil {
		return nil, errs.Wrap(err, "failed to map booking view")
	}
	res.ActualDuration = v.ActualDurationMinutes
	res.Payment = PaymentResponse{
		Method: v.Payment.Method,
		Status: v.Payment.Status,
		PaidAt: v.Payment.PaidAt,
	}
	if v.Payment.AmountCents != nil {
		amount := FormatCents(*v.Payment.AmountCents)
		res.Payment.Amount = &amount
	}
	return res, nil
}

func FromBookingList(vs []*queries.BookingView, next *queries.Cursor) (*BookingListResponse, error) {
	res := &BookingListResponse{Items: make([]*BookingResponse, len(vs))}
	for i, v := range vs {
		item, err := FromBookingView(v)
		if err != nil {
			return nil, err
		}
		res.Items[i] = item
	}
	if next != nil {
		res.NextCursor = &next.After
	}
	return res, nil
}

func NewCreateBookingResponse(b *queries.BookingView, s *queries.SlotView) (*CreateBookingResponse, error) {
	booking, err := FromBookingView(b)
	if err != nil {
		return nil, err
	}
	slot, err := FromSlotView(s)
	if err != nil {
		return nil, err
	}
	return &CreateBookingResponse{Booking: booking, Slot: slot}, nil
}

func FromFeeView(v *queries.FeeView) *FeeResponse {
	return &FeeResponse{
		BookingID: v.BookingID,
		Minutes:   fmt.Sprintf("%.2f", v.Minutes),
		Hours:     fmt.Sprintf("%.2f", v.Hours),
		Amount:    FormatCents(v.AmountCents),
		Estimate:  v.Estimate,
		QuotedAt:  v.QuotedAt,
	}
}

// FormatCents renders minor units with two decimals, e.g. 4500 -> "45.00".
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign, cents = "-", -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
