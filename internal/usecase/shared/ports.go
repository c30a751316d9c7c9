package shared

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type SlotValidationRequest struct {
	SlotID        uuid.UUID
	SlotNumber    string
	VehicleNumber string
	StartTime     time.Time
	EndTime       time.Time
}

type SlotValidationResult struct {
	Valid   bool
	Message string
}

// SlotValidator asks the external validation service for a verdict.
// A returned error means no verdict was obtained (timeout, connection
// failure, malformed reply) and is marked with errs.ErrValidationUnavailable.
type SlotValidator interface {
	Validate(ctx context.Context, req SlotValidationRequest) (SlotValidationResult, error)
}
