package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"

	"parking-booking/internal/pkg/config"
	"parking-booking/internal/pkg/errs"
	"parking-booking/internal/usecase/queries"
)

const maxResponseBytes = 4 << 20

type statsRequest struct {
	Bookings []queries.AnalyticsBooking `json:"bookings"`
}

type HTTPAnalyticsClient struct {
	baseURL string
	client  *http.Client
}

func NewHTTPAnalyticsClient(cfg config.AnalyticsConfig) *HTTPAnalyticsClient {
	return &HTTPAnalyticsClient{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

// Stats posts the snapshot to {base}/stats and returns the reply untouched.
// Unreachable or timed-out calls are marked errs.ErrAnalyticsUnavailable;
// any other failure errs.ErrAnalyticsFailed.
func (c *HTTPAnalyticsClient) Stats(ctx context.Context, bookings []queries.AnalyticsBooking) (json.RawMessage, error) {
	if bookings == nil {
		bookings = []queries.AnalyticsBooking{}
	}
	body, err := json.Marshal(statsRequest{Bookings: bookings})
	if err != nil {
		return nil, errs.Mark(errs.Wrap(err, "encode analytics request"), errs.ErrAnalyticsFailed)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/stats", bytes.NewReader(body))
	if err != nil {
		return nil, errs.Mark(errs.Wrap(err, "build analytics request"), errs.ErrAnalyticsFailed)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		if isUnreachable(err) {
			return nil, errs.Mark(errs.Wrap(err, "call analytics service"), errs.ErrAnalyticsUnavailable)
		}
		return nil, errs.Mark(errs.Wrap(err, "call analytics service"), errs.ErrAnalyticsFailed)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, errs.Mark(errs.Wrap(err, "read analytics response"), errs.ErrAnalyticsFailed)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errs.Mark(errs.Newf("analytics service returned status %d", resp.StatusCode), errs.ErrAnalyticsFailed)
	}
	if !json.Valid(raw) {
		return nil, errs.Mark(errs.New("analytics response is not JSON"), errs.ErrAnalyticsFailed)
	}

	return json.RawMessage(raw), nil
}

func isUnreachable(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}
