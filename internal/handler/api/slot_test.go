//go:build unit

package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"parking-booking/internal/domain/user"
	"parking-booking/internal/handler/api"
	resdto "parking-booking/internal/handler/dto/response"
	"parking-booking/internal/pkg/errs"
	"parking-booking/internal/usecase/commands"
	"parking-booking/internal/usecase/queries"
	"parking-booking/tests/common/builder"
	"parking-booking/tests/common/httptest"
	"parking-booking/tests/common/testutil"
	commandsmock "parking-booking/tests/mock/commands"
	queriesmock "parking-booking/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type SlotHandlerTestSuite struct {
	suite.Suite
	router        *gin.Engine
	mockCtrl      *gomock.Controller
	mockCommands  *commandsmock.MockSlotCommands
	mockQueries   *queriesmock.MockSlotQueries
	mockAnalytics *queriesmock.MockAnalyticsQueries
	mockJobs      *queriesmock.MockNotificationQueries
	admin         user.Actor
}

func (s *SlotHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockSlotCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockSlotQueries(s.mockCtrl)
	s.mockAnalytics = queriesmock.NewMockAnalyticsQueries(s.mockCtrl)
	s.mockJobs = queriesmock.NewMockNotificationQueries(s.mockCtrl)
	s.admin = user.NewActor(uuid.New(), user.RoleAdmin)

	slots := api.NewSlotHandler(s.mockCommands, s.mockQueries)
	admin := api.NewAdminHandler(s.mockAnalytics, s.mockJobs)

	authMiddleware := func(c *gin.Context) {
		c.Set("user_id", s.admin.ID)
		c.Set("user_role", s.admin.Role)
		c.Next()
	}

	s.router.GET("/slots", slots.List)
	s.router.GET("/slots/:id", slots.Get)
	g := s.router.Group("/admin", authMiddleware)
	g.POST("/slots", slots.Create)
	g.PUT("/slots/:id", slots.Update)
	g.DELETE("/slots/:id", slots.Delete)
	g.POST("/slots/:id/release", slots.Release)
	g.GET("/notification-jobs", admin.NotificationJobs)
	g.GET("/dashboard", admin.Dashboard)
}

func (s *SlotHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestSlotHandlerSuite(t *testing.T) {
	suite.Run(t, new(SlotHandlerTestSuite))
}

func slotBody() map[string]any {
	return map[string]any{
		"slotNumber": "B-12",
		"city":       "Pune",
		"area":       "Baner",
		"placeType":  "office",
		"latitude":   18.55,
		"longitude":  73.78,
	}
}

func (s *SlotHandlerTestSuite) TestList() {
	s.Run("filters by city and availability", func() {
		s.SetupTest()
		city := "Pune"
		available := true
		s.mockQueries.EXPECT().List(gomock.Any(), queries.SlotFilter{City: &city, Available: &available}).
			Return([]*queries.SlotView{builder.NewSlotBuilder().BuildView()}, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/slots?city=Pune&available=true", nil, "")

		var got []resdto.SlotResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &got)
		s.Len(got, 1)
		s.Equal("A-101", got[0].SlotNumber)
	})

	s.Run("no filters", func() {
		s.SetupTest()
		s.mockQueries.EXPECT().List(gomock.Any(), queries.SlotFilter{}).Return([]*queries.SlotView{}, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/slots", nil, "")

		s.Equal(http.StatusOK, rec.Code)
		s.JSONEq("[]", rec.Body.String())
	})

	s.Run("get unknown slot", func() {
		s.SetupTest()
		id := uuid.New()
		s.mockQueries.EXPECT().GetByID(gomock.Any(), id).Return(nil, queries.ErrSlotNotFound)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/slots/"+id.String(), nil, "")

		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Slot not found")
	})
}

func (s *SlotHandlerTestSuite) TestAdminSlots() {
	s.Run("create returns 201", func() {
		s.SetupTest()
		view := builder.NewSlotBuilder().WithSlotNumber("B-12").BuildView()
		s.mockCommands.EXPECT().Create(gomock.Any(), s.admin, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ user.Actor, p commands.CreateSlotParams) (*queries.SlotView, error) {
				s.Equal("B-12", p.SlotNumber)
				s.Equal("Pune", p.City)
				return view, nil
			})

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/admin/slots", slotBody(), "")

		var got resdto.SlotResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &got)
		s.Equal(view.ID, got.ID)
	})

	s.Run("create without city is rejected before the use case", func() {
		s.SetupTest()
		body := testutil.DtoMap(s.T(), slotBody(), testutil.Field("city", nil))

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/admin/slots", body, "")

		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request format")
	})

	s.Run("create duplicate number", func() {
		s.SetupTest()
		s.mockCommands.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errs.ErrDuplicateSlotNumber)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/admin/slots", slotBody(), "")

		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "Slot number already exists")
	})

	s.Run("delete returns 204", func() {
		s.SetupTest()
		id := uuid.New()
		s.mockCommands.EXPECT().Delete(gomock.Any(), s.admin, id).Return(nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, "/admin/slots/"+id.String(), nil, "")

		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("delete while booked", func() {
		s.SetupTest()
		id := uuid.New()
		s.mockCommands.EXPECT().Delete(gomock.Any(), gomock.Any(), id).Return(errs.ErrSlotInUse)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, "/admin/slots/"+id.String(), nil, "")

		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "Slot has active bookings")
	})

	s.Run("release", func() {
		s.SetupTest()
		view := builder.NewSlotBuilder().BuildView()
		s.mockCommands.EXPECT().Release(gomock.Any(), gomock.Any(), view.ID).Return(view, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/admin/slots/"+view.ID.String()+"/release", nil, "")

		var got resdto.SlotResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &got)
		s.True(got.IsAvailable)
	})
}

func (s *SlotHandlerTestSuite) TestAdminReads() {
	s.Run("dashboard passes the collaborator body through", func() {
		s.SetupTest()
		s.mockAnalytics.EXPECT().Dashboard(gomock.Any(), s.admin).Return(json.RawMessage(`{"totalBookings":3}`), nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/admin/dashboard", nil, "")

		s.Equal(http.StatusOK, rec.Code)
		s.JSONEq(`{"totalBookings":3}`, rec.Body.String())
	})

	s.Run("dashboard when analytics is down", func() {
		s.SetupTest()
		s.mockAnalytics.EXPECT().Dashboard(gomock.Any(), gomock.Any()).Return(nil, errs.ErrAnalyticsUnavailable)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/admin/dashboard", nil, "")

		httptest.AssertErrorResponse(s.T(), rec, http.StatusServiceUnavailable, "Analytics service unavailable")
	})

	s.Run("notification jobs filtered by status", func() {
		s.SetupTest()
		status := "failed"
		s.mockJobs.EXPECT().ListJobs(gomock.Any(), gomock.Any(), &status, 10).
			Return([]*queries.NotificationJobView{{ID: uuid.New(), Kind: "booking.created", Status: "failed"}}, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/admin/notification-jobs?status=failed&limit=10", nil, "")

		var got []resdto.NotificationJobResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &got)
		s.Len(got, 1)
		s.Equal("booking.created", got[0].Kind)
	})

	s.Run("notification jobs with unknown status", func() {
		s.SetupTest()
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/admin/notification-jobs?status=lost", nil, "")
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}
