package errs

import "errors"

// Sentinel errors shared by the command, query and handler layers
var (
	// Input errors
	ErrInvalidInput = errors.New("invalid input")

	// Lookup errors
	ErrSlotNotFound    = errors.New("slot not found")
	ErrBookingNotFound = errors.New("booking not found")

	// Slot-validation collaborator
	ErrValidationRejected    = errors.New("slot validation rejected")
	ErrValidationUnavailable = errors.New("slot validation service unavailable")

	// Booking errors
	ErrSlotConflict           = errors.New("slot conflict")
	ErrInvalidTransition      = errors.New("invalid booking transition")
	ErrAlreadyPaid            = errors.New("booking already paid")
	ErrConcurrentModification = errors.New("booking modified concurrently")
	ErrBookingNotOwned        = errors.New("booking not owned by user")

	// Document errors
	ErrNotPaid         = errors.New("booking not paid")
	ErrPassUnavailable = errors.New("parking pass unavailable")
	ErrInvalidPass     = errors.New("invalid parking pass")

	// Role errors
	ErrForbidden = errors.New("access denied")

	// Slot administration errors
	ErrDuplicateSlotNumber = errors.New("duplicate slot number")
	ErrSlotInUse           = errors.New("slot has active bookings")

	// Idempotency errors
	ErrIdempotencyKeyReused  = errors.New("idempotency key reused")
	ErrIdempotencyInProgress = errors.New("idempotency in progress")

	// Analytics collaborator
	ErrAnalyticsUnavailable = errors.New("analytics service unavailable")
	ErrAnalyticsFailed      = errors.New("analytics request failed")

	// Operation errors
	ErrDatabaseOperationFailed = errors.New("database operation failed")
)
