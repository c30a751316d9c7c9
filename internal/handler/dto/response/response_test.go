//go:build unit

package response_test

import (
	"testing"
	"time"

	"parking-booking/internal/handler/dto/response"
	"parking-booking/internal/usecase/queries"
	"parking-booking/tests/common/builder"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromBookingView(t *testing.T) {
	entry := time.Date(2025, 3, 10, 10, 5, 0, 0, time.UTC)
	bb := builder.NewBookingBuilder().AsCheckedOut(entry, entry.Add(75*time.Minute), 4500)

	got, err := response.FromBookingView(bb.BuildView())

	require.NoError(t, err)
	assert.Equal(t, bb.ID, got.ID)
	assert.Equal(t, "CHECKED_OUT", got.ParkingStatus)
	require.NotNil(t, got.ActualDuration)
	assert.Equal(t, 75, *got.ActualDuration)
	require.NotNil(t, got.Payment.Amount)
	assert.Equal(t, "45.00", *got.Payment.Amount)
	assert.Equal(t, "pending", got.Payment.Status)
}

func TestFromBookingView_Nil(t *testing.T) {
	got, err := response.FromBookingView(nil)

	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestNewCreateBookingResponse(t *testing.T) {
	sb := builder.NewSlotBuilder().AsUnavailable()
	bb := builder.NewBookingBuilder().WithSlotID(sb.ID)

	got, err := response.NewCreateBookingResponse(bb.BuildView(), sb.BuildView())

	require.NoError(t, err)
	assert.Equal(t, bb.ID, got.Booking.ID)
	want := &response.SlotResponse{
		ID:          sb.ID,
		SlotNumber:  sb.SlotNumber,
		City:        sb.City,
		Area:        sb.Area,
		Address:     sb.Address,
		PlaceType:   sb.PlaceType,
		Latitude:    sb.Latitude,
		Longitude:   sb.Longitude,
		IsAvailable: false,
		CreatedAt:   sb.CreatedAt,
		UpdatedAt:   sb.UpdatedAt,
	}
	if diff := cmp.Diff(want, got.Slot); diff != "" {
		t.Errorf("slot response mismatch (-want +got):\n%s", diff)
	}
}

func TestFromNotificationJobs(t *testing.T) {
	msg := "broker down"
	views := []*queries.NotificationJobView{
		{Kind: "booking.created", Topic: "bookings", Status: "queued"},
		{Kind: "slot.updated", Topic: "slots", Status: "failed", Attempts: 5, LastError: &msg},
	}

	got, err := response.FromNotificationJobs(views)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "booking.created", got[0].Kind)
	assert.Equal(t, int32(5), got[1].Attempts)
	require.NotNil(t, got[1].LastError)
	assert.Equal(t, msg, *got[1].LastError)
}

func TestFormatCents(t *testing.T) {
	assert.Equal(t, "20.00", response.FormatCents(2000))
	assert.Equal(t, "0.05", response.FormatCents(5))
	assert.Equal(t, "-1.50", response.FormatCents(-150))
}
