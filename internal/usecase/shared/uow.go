package shared

import (
	"context"
	"time"

	"parking-booking/internal/domain/booking"
	"parking-booking/internal/domain/slot"
	"parking-booking/internal/infra/query"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly: Read-only transaction for multi-table consistent reads
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, db query.DBTX) error) error
	// CommandReads: Direct access to command reads for validation outside transactions
	CommandReads() CommandReads
}

type Tx interface {
	Bookings() BookingRepository
	Slots() SlotRepository
	Idempotency() IdempotencyRepository
	Notifications() NotificationRepository
	Reads() CommandReads
	DB() query.DBTX
}

type CommandReads interface {
	SlotByID(ctx context.Context, id uuid.UUID) (*slot.Slot, error)
	// LockSlot takes a row lock held until the surrounding transaction ends.
	LockSlot(ctx context.Context, id uuid.UUID) (*slot.Slot, error)
	BookingByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	OverlappingBookedIDs(ctx context.Context, slotID uuid.UUID, window booking.TimeWindow) ([]uuid.UUID, error)
	CountActiveBookingsOnSlot(ctx context.Context, slotID, excludeBookingID uuid.UUID) (int64, error)
	IdempotencyByKey(ctx context.Context, key, userID uuid.UUID) (*IdempotencyRecord, error)
}

type BookingRepository interface {
	Create(ctx context.Context, tx query.DBTX, b *booking.Booking) error
	// UpdateState fails with infra.KindStaleState when the stored row no
	// longer has the expected parking status and version.
	UpdateState(ctx context.Context, tx query.DBTX, b *booking.Booking, expected booking.ParkingStatus, expectedVersion int64) error
}

type SlotRepository interface {
	Create(ctx context.Context, tx query.DBTX, s *slot.Slot) error
	Update(ctx context.Context, tx query.DBTX, s *slot.Slot) error
	SetAvailability(ctx context.Context, tx query.DBTX, id uuid.UUID, available bool) error
}

type IdempotencyRepository interface {
	TryInsert(ctx context.Context, tx query.DBTX, key, userID uuid.UUID, endpoint, requestHash string, expiresAt time.Time) (bool, error)
	UpdateStatusCompleted(ctx context.Context, tx query.DBTX, key, userID uuid.UUID, resultHash string, bookingID uuid.UUID) error
	DeleteExpired(ctx context.Context, tx query.DBTX) (int64, error)
}

type NotificationRepository interface {
	CreateJob(ctx context.Context, tx query.DBTX, kind, topic string, payload []byte, runAt time.Time) error
	ClaimPending(ctx context.Context, tx query.DBTX, limit int32) ([]NotificationJob, error)
	MarkSent(ctx context.Context, tx query.DBTX, jobID uuid.UUID) error
	MarkFailed(ctx context.Context, tx query.DBTX, jobID uuid.UUID, lastError string, retryAt *time.Time) error
}
