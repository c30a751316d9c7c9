package queries

import (
	"context"
	"encoding/json"
	"time"

	"parking-booking/internal/domain/user"

	"github.com/google/uuid"
)

// AnalyticsBooking is the per-booking snapshot shipped to the analytics service.
type AnalyticsBooking struct {
	ID            uuid.UUID `json:"id"`
	SlotNumber    string    `json:"slotNumber"`
	VehicleNumber string    `json:"vehicleNumber"`
	StartTime     time.Time `json:"startTime"`
	EndTime       time.Time `json:"endTime"`
	Status        string    `json:"status"`
}

// AnalyticsClient returns the service's aggregate as opaque JSON.
// Errors are marked with errs.ErrAnalyticsUnavailable or errs.ErrAnalyticsFailed.
type AnalyticsClient interface {
	Stats(ctx context.Context, bookings []AnalyticsBooking) (json.RawMessage, error)
}

type AnalyticsQueries interface {
	Dashboard(ctx context.Context, actor user.Actor) (json.RawMessage, error)
}

type analyticsQueriesImpl struct {
	bookings BookingReadStore
	client   AnalyticsClient
}

func NewAnalyticsQueries(bookings BookingReadStore, client AnalyticsClient) AnalyticsQueries {
	return &analyticsQueriesImpl{bookings: bookings, client: client}
}

func (q *analyticsQueriesImpl) Dashboard(ctx context.Context, actor user.Actor) (json.RawMessage, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminOnly
	}

	views, err := q.bookings.ListForAnalytics(ctx)
	if err != nil {
		return nil, err
	}

	snapshot := make([]AnalyticsBooking, len(views))
	for i, v := range views {
		snapshot[i] = AnalyticsBooking{
			ID:            v.ID,
			SlotNumber:    v.SlotNumber,
			VehicleNumber: v.VehicleNumber,
			StartTime:     v.StartTime,
			EndTime:       v.EndTime,
			Status:        v.Status,
		}
	}

	return q.client.Stats(ctx, snapshot)
}
