//go:build e2e

package e2e

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

// ExternalStub stands in for the slot-validation and analytics services.
type ExternalStub struct {
	server *httptest.Server

	mu       sync.Mutex
	valid    bool
	message  string
	down     bool
	analyzed int

	validateCalls atomic.Int64
}

func newExternalStub() *ExternalStub {
	s := &ExternalStub{valid: true}

	engine := gin.New()
	engine.POST("/validate-slot", s.validate)
	engine.POST("/analytics/stats", s.stats)
	s.server = httptest.NewServer(engine)
	return s
}

func (s *ExternalStub) ValidatorURL() string { return s.server.URL + "/validate-slot" }
func (s *ExternalStub) AnalyticsURL() string { return s.server.URL + "/analytics" }
func (s *ExternalStub) Close()               { s.server.Close() }

func (s *ExternalStub) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.valid, s.message, s.down = true, "", false
	s.analyzed = 0
	s.validateCalls.Store(0)
}

func (s *ExternalStub) Reject(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.valid, s.message = false, message
}

// SetDown makes both endpoints answer 502.
func (s *ExternalStub) SetDown(down bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.down = down
}

func (s *ExternalStub) ValidateCalls() int64 { return s.validateCalls.Load() }

// Analyzed is the number of bookings in the last analytics request.
func (s *ExternalStub) Analyzed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.analyzed
}

func (s *ExternalStub) validate(c *gin.Context) {
	s.validateCalls.Add(1)

	s.mu.Lock()
	valid, message, down := s.valid, s.message, s.down
	s.mu.Unlock()

	if down {
		c.Status(http.StatusBadGateway)
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": valid, "message": message})
}

func (s *ExternalStub) stats(c *gin.Context) {
	var body struct {
		Bookings []map[string]any `json:"bookings"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	down := s.down
	s.analyzed = len(body.Bookings)
	s.mu.Unlock()

	if down {
		c.Status(http.StatusBadGateway)
		return
	}
	c.JSON(http.StatusOK, gin.H{"totalBookings": len(body.Bookings)})
}
