package validator

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"parking-booking/internal/pkg/config"
	"parking-booking/internal/pkg/errs"
	"parking-booking/internal/usecase/shared"
)

const maxResponseBytes = 64 << 10

type validateRequest struct {
	SlotID        string `json:"slotId"`
	SlotNumber    string `json:"slotNumber"`
	VehicleNumber string `json:"vehicleNumber"`
	StartTime     string `json:"startTime"`
	EndTime       string `json:"endTime"`
}

type validateResponse struct {
	Valid   *bool  `json:"valid"`
	Message string `json:"message"`
}

// HTTPSlotValidator calls the external slot-validation service.
type HTTPSlotValidator struct {
	url    string
	client *http.Client
}

func NewHTTPSlotValidator(cfg config.ValidatorConfig) *HTTPSlotValidator {
	return &HTTPSlotValidator{
		url:    cfg.URL,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// Validate returns an error marked errs.ErrValidationUnavailable whenever no
// verdict could be read: transport failure, timeout, non-2xx or a body
// without a boolean "valid".
func (v *HTTPSlotValidator) Validate(ctx context.Context, req shared.SlotValidationRequest) (shared.SlotValidationResult, error) {
	body, err := json.Marshal(validateRequest{
		SlotID:        req.SlotID.String(),
		SlotNumber:    req.SlotNumber,
		VehicleNumber: req.VehicleNumber,
		StartTime:     req.StartTime.UTC().Format(time.RFC3339),
		EndTime:       req.EndTime.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return shared.SlotValidationResult{}, unavailable(err, "encode validation request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, v.url, bytes.NewReader(body))
	if err != nil {
		return shared.SlotValidationResult{}, unavailable(err, "build validation request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := v.client.Do(httpReq)
	if err != nil {
		return shared.SlotValidationResult{}, unavailable(err, "call validation service")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return shared.SlotValidationResult{}, errs.Mark(
			errs.Newf("validation service returned status %d", resp.StatusCode),
			errs.ErrValidationUnavailable,
		)
	}

	var out validateResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&out); err != nil {
		return shared.SlotValidationResult{}, unavailable(err, "decode validation response")
	}
	if out.Valid == nil {
		return shared.SlotValidationResult{}, errs.Mark(
			errs.New("validation response has no verdict"),
			errs.ErrValidationUnavailable,
		)
	}

	return shared.SlotValidationResult{Valid: *out.Valid, Message: out.Message}, nil
}

func unavailable(err error, msg string) error {
	return errs.Mark(errs.Wrap(err, msg), errs.ErrValidationUnavailable)
}
