//go:build e2e

package booking_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	nethttptest "net/http/httptest"
	"sync"
	"testing"
	"time"

	"parking-booking/internal/domain/user"
	"parking-booking/internal/handler/dto/request"
	"parking-booking/internal/handler/dto/response"
	"parking-booking/tests/common/dbtest"
	"parking-booking/tests/common/httptest"
	"parking-booking/tests/e2e"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	bookingsURL     = "/api/bookings"
	myBookingsURL   = "/api/bookings/mine"
	bookingURL      = "/api/bookings/%s"
	bookingFeeURL   = "/api/bookings/%s/fee"
	checkInURL      = "/api/bookings/%s/check-in"
	checkOutURL     = "/api/bookings/%s/check-out"
	paymentURL      = "/api/bookings/%s/payment"
	cancelURL       = "/api/bookings/%s/cancel"
	receiptURL      = "/api/bookings/%s/receipt.pdf"
	passURL         = "/api/bookings/%s/pass.png"
	slotsURL        = "/api/slots"
	slotURL         = "/api/slots/%s"
	adminSlotsURL   = "/api/admin/slots"
	adminSlotURL    = "/api/admin/slots/%s"
	releaseSlotURL  = "/api/admin/slots/%s/release"
	dashboardURL    = "/api/analytics/dashboard"
	notificationURL = "/api/admin/notification-jobs"
)

type BookingSuite struct {
	e2e.SharedSuite
}

func (s *BookingSuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()
}

func TestBookingSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(BookingSuite))
}

func window(fromNow, length time.Duration) (time.Time, time.Time) {
	start := time.Now().UTC().Add(fromNow).Truncate(time.Second)
	return start, start.Add(length)
}

func createReq(slotID uuid.UUID, start, end time.Time) request.CreateBookingRequest {
	return request.CreateBookingRequest{
		SlotID:        slotID,
		VehicleNumber: "ka01ab1234",
		StartTime:     start,
		EndTime:       end,
	}
}

func (s *BookingSuite) createBooking(t *testing.T, token string, slotID uuid.UUID, start, end time.Time) response.CreateBookingResponse {
	t.Helper()
	w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL, createReq(slotID, start, end), token)
	var res response.CreateBookingResponse
	httptest.AssertSuccessResponse(t, w, http.StatusCreated, &res)
	require.NotNil(t, res.Booking)
	return res
}

// =============================================================================
// TestCreateBooking
// =============================================================================

func (s *BookingSuite) TestCreateBooking() {
	s.Run("Normal case: booking is created and the slot becomes unavailable", func() {
		t := s.T()
		slotID := dbtest.CreateTestSlot(t, s.DB, "A-101", "Bengaluru")
		userID, token := s.JWT.NewUserToken(t, user.RoleUser)
		start, end := window(time.Hour, 2*time.Hour)

		res := s.createBooking(t, token, slotID, start, end)

		want := &response.BookingResponse{
			UserID:        userID,
			SlotID:        slotID,
			SlotNumber:    "A-101",
			VehicleNumber: "KA01AB1234",
			StartTime:     start,
			EndTime:       end,
			Status:        "BOOKED",
			ParkingStatus: "SCHEDULED",
			Payment:       response.PaymentResponse{Status: "pending"},
		}
		opts := cmp.Options{
			cmpopts.IgnoreFields(response.BookingResponse{}, "ID", "Version", "CreatedAt", "UpdatedAt"),
			cmpopts.EquateApproxTime(time.Second),
		}
		if diff := cmp.Diff(want, res.Booking, opts); diff != "" {
			t.Errorf("booking mismatch (-want +got):\n%s", diff)
		}
		require.NotNil(t, res.Slot)
		require.False(t, res.Slot.IsAvailable)
		require.False(t, dbtest.SlotAvailability(t, s.DB, slotID))
		require.Equal(t, 1, dbtest.CountNotificationJobs(t, s.DB, "booking.created"))
	})

	s.Run("Error case: overlapping window on the same slot", func() {
		t := s.T()
		slotID := dbtest.CreateTestSlot(t, s.DB, "A-102", "Bengaluru")
		_, token := s.JWT.NewUserToken(t, user.RoleUser)
		start, end := window(time.Hour, 2*time.Hour)
		s.createBooking(t, token, slotID, start, end)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL,
			createReq(slotID, start.Add(30*time.Minute), end.Add(time.Hour)), token)

		httptest.AssertErrorResponse(t, w, http.StatusConflict, "Slot is already booked for this time period")
	})

	s.Run("Normal case: back-to-back windows do not overlap", func() {
		t := s.T()
		slotID := dbtest.CreateTestSlot(t, s.DB, "A-103", "Bengaluru")
		_, token := s.JWT.NewUserToken(t, user.RoleUser)
		start, end := window(time.Hour, time.Hour)
		s.createBooking(t, token, slotID, start, end)

		s.createBooking(t, token, slotID, end, end.Add(time.Hour))

		require.Equal(t, 2, dbtest.CountBookings(t, s.DB, slotID, "BOOKED"))
	})

	s.Run("Error case: validation service rejects the booking", func() {
		t := s.T()
		slotID := dbtest.CreateTestSlot(t, s.DB, "A-104", "Bengaluru")
		_, token := s.JWT.NewUserToken(t, user.RoleUser)
		s.Stub.Reject("Vehicle is blacklisted")
		start, end := window(time.Hour, time.Hour)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL, createReq(slotID, start, end), token)

		httptest.AssertErrorResponse(t, w, http.StatusUnprocessableEntity, "Vehicle is blacklisted")
		require.Equal(t, 0, dbtest.CountBookings(t, s.DB, slotID, "BOOKED"))
		require.True(t, dbtest.SlotAvailability(t, s.DB, slotID))
	})

	s.Run("Error case: validation service unreachable", func() {
		t := s.T()
		slotID := dbtest.CreateTestSlot(t, s.DB, "A-105", "Bengaluru")
		_, token := s.JWT.NewUserToken(t, user.RoleUser)
		s.Stub.SetDown(true)
		start, end := window(time.Hour, time.Hour)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL, createReq(slotID, start, end), token)

		httptest.AssertErrorResponse(t, w, http.StatusServiceUnavailable, "Slot validation service unavailable")
	})

	s.Run("Error case: unknown slot", func() {
		t := s.T()
		_, token := s.JWT.NewUserToken(t, user.RoleUser)
		start, end := window(time.Hour, time.Hour)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL, createReq(uuid.New(), start, end), token)

		httptest.AssertErrorResponse(t, w, http.StatusNotFound, "Slot not found")
		require.Zero(t, s.Stub.ValidateCalls())
	})

	s.Run("Error case: end before start", func() {
		t := s.T()
		slotID := dbtest.CreateTestSlot(t, s.DB, "A-106", "Bengaluru")
		_, token := s.JWT.NewUserToken(t, user.RoleUser)
		start, end := window(time.Hour, time.Hour)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL, createReq(slotID, end, start), token)

		httptest.AssertErrorResponse(t, w, http.StatusBadRequest, "End time must be after start time")
	})

	s.Run("Error case: missing token", func() {
		t := s.T()
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL, createReq(uuid.New(), time.Now(), time.Now()), "")
		httptest.AssertErrorResponse(t, w, http.StatusUnauthorized, "Access token required")
	})
}

func (s *BookingSuite) TestConcurrentCreate() {
	s.Run("Exactly one of many concurrent overlapping requests succeeds", func() {
		t := s.T()
		slotID := dbtest.CreateTestSlot(t, s.DB, "C-1", "Pune")
		start, end := window(2*time.Hour, time.Hour)

		const n = 10
		bodies := make([][]byte, n)
		tokens := make([]string, n)
		for i := range n {
			b, err := json.Marshal(createReq(slotID, start.Add(time.Duration(i)*time.Minute), end))
			require.NoError(t, err)
			bodies[i] = b
			_, tokens[i] = s.JWT.NewUserToken(t, user.RoleUser)
		}

		codes := make([]int, n)
		var wg sync.WaitGroup
		for i := range n {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				req := nethttptest.NewRequest(http.MethodPost, bookingsURL, bytes.NewReader(bodies[i]))
				req.Header.Set("Content-Type", "application/json")
				req.Header.Set("Authorization", "Bearer "+tokens[i])
				w := nethttptest.NewRecorder()
				s.Router.ServeHTTP(w, req)
				codes[i] = w.Code
			}(i)
		}
		wg.Wait()

		created, conflicts := 0, 0
		for _, c := range codes {
			switch c {
			case http.StatusCreated:
				created++
			case http.StatusConflict:
				conflicts++
			}
		}
		require.Equal(t, 1, created, "codes: %v", codes)
		require.Equal(t, n-1, conflicts, "codes: %v", codes)
		require.Equal(t, 1, dbtest.CountBookings(t, s.DB, slotID, "BOOKED"))
	})
}

func (s *BookingSuite) TestIdempotentCreate() {
	s.Run("Normal case: repeating the key replays the first result", func() {
		t := s.T()
		slotID := dbtest.CreateTestSlot(t, s.DB, "I-1", "Pune")
		_, token := s.JWT.NewUserToken(t, user.RoleUser)
		start, end := window(time.Hour, time.Hour)
		headers := map[string]string{"Idempotency-Key": uuid.NewString()}

		w1 := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, bookingsURL, createReq(slotID, start, end), token, headers)
		var first response.CreateBookingResponse
		httptest.AssertSuccessResponse(t, w1, http.StatusCreated, &first)

		w2 := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, bookingsURL, createReq(slotID, start, end), token, headers)
		var second response.CreateBookingResponse
		httptest.AssertSuccessResponse(t, w2, http.StatusOK, &second)
		httptest.AssertHeaders(t, w2, map[string]string{"Idempotent-Replayed": "true"})

		require.Equal(t, first.Booking.ID, second.Booking.ID)
		require.Equal(t, 1, dbtest.CountBookings(t, s.DB, slotID, "BOOKED"))
	})

	s.Run("Error case: same key with a different body", func() {
		t := s.T()
		slotID := dbtest.CreateTestSlot(t, s.DB, "I-2", "Pune")
		_, token := s.JWT.NewUserToken(t, user.RoleUser)
		start, end := window(time.Hour, time.Hour)
		headers := map[string]string{"Idempotency-Key": uuid.NewString()}

		w1 := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, bookingsURL, createReq(slotID, start, end), token, headers)
		require.Equal(t, http.StatusCreated, w1.Code, w1.Body.String())

		w2 := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, bookingsURL,
			createReq(slotID, start.Add(3*time.Hour), end.Add(3*time.Hour)), token, headers)

		httptest.AssertErrorResponse(t, w2, http.StatusConflict, "Idempotency key reused with a different request")
	})
}

// =============================================================================
// TestLifecycle - check-in, check-out, payment, documents
// =============================================================================

func (s *BookingSuite) TestLifecycle() {
	s.Run("Normal case: full lifecycle ends COMPLETED with a receipt", func() {
		t := s.T()
		slotID := dbtest.CreateTestSlot(t, s.DB, "L-1", "Mumbai")
		_, token := s.JWT.NewUserToken(t, user.RoleUser)
		start, end := window(-10*time.Minute, 2*time.Hour)
		id := s.createBooking(t, token, slotID, start, end).Booking.ID.String()

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, fmt.Sprintf(passURL, id), nil, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		require.Equal(t, "image/png", w.Header().Get("Content-Type"))

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(checkInURL, id), nil, token)
		var checkedIn response.BookingResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &checkedIn)
		require.Equal(t, "CHECKED_IN", checkedIn.ParkingStatus)
		require.NotNil(t, checkedIn.ActualEntryTime)

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, fmt.Sprintf(bookingFeeURL, id), nil, token)
		var fee response.FeeResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &fee)
		require.True(t, fee.Estimate)

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(checkOutURL, id), nil, token)
		var checkedOut response.BookingResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &checkedOut)
		require.Equal(t, "CHECKED_OUT", checkedOut.ParkingStatus)
		require.NotNil(t, checkedOut.ActualDuration)
		require.NotNil(t, checkedOut.Payment.Amount)
		require.Equal(t, "20.00", *checkedOut.Payment.Amount)

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, fmt.Sprintf(receiptURL, id), nil, token)
		httptest.AssertErrorResponse(t, w, http.StatusConflict, "Booking has not been paid")

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(paymentURL, id), request.PaymentRequest{Method: "upi"}, token)
		var paid response.BookingResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &paid)
		require.Equal(t, "COMPLETED", paid.Status)
		require.Equal(t, "completed", paid.Payment.Status)

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(paymentURL, id), request.PaymentRequest{Method: "card"}, token)
		httptest.AssertErrorResponse(t, w, http.StatusConflict, "Booking has already been paid")

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, fmt.Sprintf(receiptURL, id), nil, token)
		require.Equal(t, http.StatusOK, w.Code)
		require.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, fmt.Sprintf(passURL, id), nil, token)
		httptest.AssertErrorResponse(t, w, http.StatusConflict, "Parking pass is only available for active bookings")
	})

	s.Run("Error case: check-out before check-in", func() {
		t := s.T()
		slotID := dbtest.CreateTestSlot(t, s.DB, "L-2", "Mumbai")
		_, token := s.JWT.NewUserToken(t, user.RoleUser)
		start, end := window(time.Hour, time.Hour)
		id := s.createBooking(t, token, slotID, start, end).Booking.ID.String()

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(checkOutURL, id), nil, token)

		httptest.AssertErrorResponse(t, w, http.StatusConflict, "Booking cannot be checked out in its current state")
	})

	s.Run("Error case: another user's booking", func() {
		t := s.T()
		slotID := dbtest.CreateTestSlot(t, s.DB, "L-3", "Mumbai")
		_, owner := s.JWT.NewUserToken(t, user.RoleUser)
		_, stranger := s.JWT.NewUserToken(t, user.RoleUser)
		start, end := window(time.Hour, time.Hour)
		id := s.createBooking(t, owner, slotID, start, end).Booking.ID.String()

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, fmt.Sprintf(bookingURL, id), nil, stranger)
		httptest.AssertErrorResponse(t, w, http.StatusForbidden, "Access denied")

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(checkInURL, id), nil, stranger)
		httptest.AssertErrorResponse(t, w, http.StatusForbidden, "Access denied")
	})
}

// =============================================================================
// TestCancel
// =============================================================================

func (s *BookingSuite) TestCancel() {
	s.Run("Normal case: cancelling the only booking frees the slot", func() {
		t := s.T()
		slotID := dbtest.CreateTestSlot(t, s.DB, "X-1", "Delhi")
		_, token := s.JWT.NewUserToken(t, user.RoleUser)
		start, end := window(time.Hour, time.Hour)
		id := s.createBooking(t, token, slotID, start, end).Booking.ID.String()

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(cancelURL, id), nil, token)
		var cancelled response.BookingResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &cancelled)

		require.Equal(t, "CANCELLED", cancelled.Status)
		require.True(t, dbtest.SlotAvailability(t, s.DB, slotID))

		// The freed window can be booked again.
		s.createBooking(t, token, slotID, start, end)
	})

	s.Run("Normal case: slot stays unavailable while another booking is active", func() {
		t := s.T()
		slotID := dbtest.CreateTestSlot(t, s.DB, "X-2", "Delhi")
		_, token := s.JWT.NewUserToken(t, user.RoleUser)
		start, end := window(time.Hour, time.Hour)
		id := s.createBooking(t, token, slotID, start, end).Booking.ID.String()
		s.createBooking(t, token, slotID, end, end.Add(time.Hour))

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(cancelURL, id), nil, token)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		require.False(t, dbtest.SlotAvailability(t, s.DB, slotID))
	})

	s.Run("Normal case: admin cancels a user's booking", func() {
		t := s.T()
		slotID := dbtest.CreateTestSlot(t, s.DB, "X-3", "Delhi")
		_, token := s.JWT.NewUserToken(t, user.RoleUser)
		_, admin := s.JWT.NewUserToken(t, user.RoleAdmin)
		start, end := window(time.Hour, time.Hour)
		id := s.createBooking(t, token, slotID, start, end).Booking.ID.String()

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(cancelURL, id), nil, admin)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	})

	s.Run("Error case: cancelling twice", func() {
		t := s.T()
		slotID := dbtest.CreateTestSlot(t, s.DB, "X-4", "Delhi")
		_, token := s.JWT.NewUserToken(t, user.RoleUser)
		start, end := window(time.Hour, time.Hour)
		id := s.createBooking(t, token, slotID, start, end).Booking.ID.String()
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(cancelURL, id), nil, token)
		require.Equal(t, http.StatusOK, w.Code)

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(cancelURL, id), nil, token)

		httptest.AssertErrorResponse(t, w, http.StatusConflict, "Booking cannot be cancelled in its current state")
	})
}

// =============================================================================
// TestListBookings
// =============================================================================

func (s *BookingSuite) TestListBookings() {
	s.Run("Normal case: mine pages newest first", func() {
		t := s.T()
		slotID := dbtest.CreateTestSlot(t, s.DB, "P-1", "Chennai")
		_, token := s.JWT.NewUserToken(t, user.RoleUser)
		_, other := s.JWT.NewUserToken(t, user.RoleUser)
		for i := range 3 {
			start, end := window(time.Duration(i+1)*2*time.Hour, time.Hour)
			s.createBooking(t, token, slotID, start, end)
		}
		start, end := window(20*time.Hour, time.Hour)
		s.createBooking(t, other, slotID, start, end)

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, myBookingsURL+"?limit=2", nil, token)
		var page1 response.BookingListResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &page1)
		require.Len(t, page1.Items, 2)
		require.NotNil(t, page1.NextCursor)

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, myBookingsURL+"?limit=2&cursor="+*page1.NextCursor, nil, token)
		var page2 response.BookingListResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &page2)
		require.Len(t, page2.Items, 1)
		require.Nil(t, page2.NextCursor)
	})

	s.Run("Error case: listing all bookings requires admin", func() {
		t := s.T()
		_, token := s.JWT.NewUserToken(t, user.RoleUser)

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, bookingsURL, nil, token)

		httptest.AssertErrorResponse(t, w, http.StatusForbidden, "Access denied")
	})
}

// =============================================================================
// TestSlots - public reads and admin management
// =============================================================================

func (s *BookingSuite) TestSlots() {
	s.Run("Normal case: admin creates a slot and anyone can read it", func() {
		t := s.T()
		_, admin := s.JWT.NewUserToken(t, user.RoleAdmin)
		body := request.CreateSlotRequest{
			SlotNumber: "z-9",
			SlotLocationRequest: request.SlotLocationRequest{
				City:      "Hyderabad",
				Area:      "Hitech City",
				PlaceType: "office",
				Latitude:  17.44,
				Longitude: 78.38,
			},
		}

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, adminSlotsURL, body, admin)
		var created response.SlotResponse
		httptest.AssertSuccessResponse(t, w, http.StatusCreated, &created)
		require.Equal(t, "Z-9", created.SlotNumber)

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, fmt.Sprintf(slotURL, created.ID), nil, "")
		var got response.SlotResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &got)
		if diff := cmp.Diff(created, got, cmpopts.EquateApproxTime(time.Millisecond)); diff != "" {
			t.Errorf("slot mismatch (-created +got):\n%s", diff)
		}

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, adminSlotsURL, body, admin)
		httptest.AssertErrorResponse(t, w, http.StatusConflict, "Slot number already exists")
	})

	s.Run("Normal case: availability filter", func() {
		t := s.T()
		free := dbtest.CreateTestSlot(t, s.DB, "F-1", "Kochi")
		taken := dbtest.CreateTestSlot(t, s.DB, "F-2", "Kochi")
		_, token := s.JWT.NewUserToken(t, user.RoleUser)
		start, end := window(time.Hour, time.Hour)
		s.createBooking(t, token, taken, start, end)

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, slotsURL+"?city=Kochi&available=true", nil, "")
		var slots []response.SlotResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &slots)

		require.Len(t, slots, 1)
		require.Equal(t, free, slots[0].ID)
	})

	s.Run("Error case: deleting a slot with active bookings", func() {
		t := s.T()
		slotID := dbtest.CreateTestSlot(t, s.DB, "D-1", "Kochi")
		_, token := s.JWT.NewUserToken(t, user.RoleUser)
		_, admin := s.JWT.NewUserToken(t, user.RoleAdmin)
		start, end := window(time.Hour, time.Hour)
		s.createBooking(t, token, slotID, start, end)

		w := httptest.PerformRequest(t, s.Router, http.MethodDelete, fmt.Sprintf(adminSlotURL, slotID), nil, admin)

		httptest.AssertErrorResponse(t, w, http.StatusConflict, "Slot has active bookings")
	})

	s.Run("Normal case: release restores availability", func() {
		t := s.T()
		slotID := dbtest.CreateTestSlot(t, s.DB, "R-1", "Kochi")
		_, token := s.JWT.NewUserToken(t, user.RoleUser)
		_, admin := s.JWT.NewUserToken(t, user.RoleAdmin)
		start, end := window(time.Hour, time.Hour)
		s.createBooking(t, token, slotID, start, end)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(releaseSlotURL, slotID), nil, admin)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		require.True(t, dbtest.SlotAvailability(t, s.DB, slotID))
	})

	s.Run("Error case: non-admin cannot manage slots", func() {
		t := s.T()
		_, token := s.JWT.NewUserToken(t, user.RoleUser)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, adminSlotsURL, request.CreateSlotRequest{SlotNumber: "N-1"}, token)

		httptest.AssertErrorResponse(t, w, http.StatusForbidden, "Access denied")
	})
}

// =============================================================================
// TestAdminReads - analytics dashboard and the notification outbox
// =============================================================================

func (s *BookingSuite) TestAdminReads() {
	s.Run("Normal case: dashboard relays the analytics reply", func() {
		t := s.T()
		slotID := dbtest.CreateTestSlot(t, s.DB, "AN-1", "Goa")
		_, token := s.JWT.NewUserToken(t, user.RoleUser)
		_, admin := s.JWT.NewUserToken(t, user.RoleAdmin)
		start, end := window(time.Hour, time.Hour)
		s.createBooking(t, token, slotID, start, end)

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, dashboardURL, nil, admin)
		var body map[string]int
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &body)

		require.Equal(t, 1, body["totalBookings"])
		require.Equal(t, 1, s.Stub.Analyzed())
	})

	s.Run("Error case: analytics service failing", func() {
		t := s.T()
		_, admin := s.JWT.NewUserToken(t, user.RoleAdmin)
		s.Stub.SetDown(true)

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, dashboardURL, nil, admin)

		httptest.AssertErrorResponse(t, w, http.StatusInternalServerError, "Analytics request failed")
	})

	s.Run("Normal case: created bookings are queued for delivery", func() {
		t := s.T()
		slotID := dbtest.CreateTestSlot(t, s.DB, "NJ-1", "Goa")
		_, token := s.JWT.NewUserToken(t, user.RoleUser)
		_, admin := s.JWT.NewUserToken(t, user.RoleAdmin)
		start, end := window(time.Hour, time.Hour)
		s.createBooking(t, token, slotID, start, end)

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, notificationURL, nil, admin)
		var jobs []response.NotificationJobResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &jobs)

		require.NotEmpty(t, jobs)
		require.Equal(t, "booking.created", jobs[0].Kind)
	})
}
