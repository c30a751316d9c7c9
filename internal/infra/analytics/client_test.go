//go:build unit

package analytics_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"parking-booking/internal/infra/analytics"
	"parking-booking/internal/pkg/config"
	"parking-booking/internal/pkg/errs"
	"parking-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPAnalyticsClient_Stats(t *testing.T) {
	snapshot := []queries.AnalyticsBooking{{
		ID:            uuid.New(),
		SlotNumber:    "A-101",
		VehicleNumber: "KA01AB1234",
		StartTime:     time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
		EndTime:       time.Date(2025, 3, 10, 11, 0, 0, 0, time.UTC),
		Status:        "BOOKED",
	}}

	t.Run("success: posts to /stats and passes the reply through", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/analytics/stats", r.URL.Path)
			var body struct {
				Bookings []queries.AnalyticsBooking `json:"bookings"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Len(t, body.Bookings, 1)
			assert.Equal(t, "A-101", body.Bookings[0].SlotNumber)
			_, _ = w.Write([]byte(`{"totalBookings":1,"occupancyRate":0.5}`))
		}))
		defer srv.Close()

		c := analytics.NewHTTPAnalyticsClient(config.AnalyticsConfig{URL: srv.URL + "/api/analytics/", Timeout: time.Second})
		got, err := c.Stats(context.Background(), snapshot)

		require.NoError(t, err)
		assert.JSONEq(t, `{"totalBookings":1,"occupancyRate":0.5}`, string(got))
	})

	t.Run("error: service answers with an error status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		c := analytics.NewHTTPAnalyticsClient(config.AnalyticsConfig{URL: srv.URL, Timeout: time.Second})
		_, err := c.Stats(context.Background(), snapshot)

		assert.True(t, errs.Is(err, errs.ErrAnalyticsFailed))
		assert.False(t, errs.Is(err, errs.ErrAnalyticsUnavailable))
	})

	t.Run("error: service down", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		c := analytics.NewHTTPAnalyticsClient(config.AnalyticsConfig{URL: url, Timeout: time.Second})
		_, err := c.Stats(context.Background(), nil)

		assert.True(t, errs.Is(err, errs.ErrAnalyticsUnavailable))
	})
}
