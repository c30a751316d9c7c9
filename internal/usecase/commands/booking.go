package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"time"

	"parking-booking/internal/domain/booking"
	"parking-booking/internal/domain/slot"
	"parking-booking/internal/domain/user"
	"parking-booking/internal/infra"
	"parking-booking/internal/pkg/clock"
	"parking-booking/internal/pkg/errs"
	"parking-booking/internal/usecase/queries"
	"parking-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

const (
	createBookingEndpoint = "POST /api/bookings"
	idempotencyTTL        = 24 * time.Hour

	// Attempts at a compare-and-swap booking update before giving up.
	maxCASAttempts = 3

	defaultRejectionMessage = "Slot validation failed"

	TopicBookings = "bookings"
	TopicSlots    = "slots"
)

var errIdempotencyRace = errs.New("idempotency key claimed concurrently")

type CreateBookingParams struct {
	SlotID        uuid.UUID
	VehicleNumber string
	StartTime     time.Time
	EndTime       time.Time
}

type CreateBookingResult struct {
	Booking    *queries.BookingView
	Slot       *queries.SlotView
	IsReplayed bool
}

type BookingCommands interface {
	CreateBooking(ctx context.Context, actor user.Actor, params CreateBookingParams, idempotencyKey *uuid.UUID) (*CreateBookingResult, error)
	CheckIn(ctx context.Context, actor user.Actor, bookingID uuid.UUID) (*queries.BookingView, error)
	CheckOut(ctx context.Context, actor user.Actor, bookingID uuid.UUID) (*queries.BookingView, error)
	ProcessPayment(ctx context.Context, actor user.Actor, bookingID uuid.UUID, method string) (*queries.BookingView, error)
	Cancel(ctx context.Context, actor user.Actor, bookingID uuid.UUID) (*queries.BookingView, error)
}

type bookingUseCaseImpl struct {
	uow       shared.UnitOfWork
	validator shared.SlotValidator
	publisher EventPublisher
	bookings  queries.BookingQueries
	slots     queries.SlotQueries
	calc      booking.FeeCalculator
	clock     clock.Clock
	logger    *slog.Logger
}

func NewBookingCommands(
	uow shared.UnitOfWork,
	validator shared.SlotValidator,
	publisher EventPublisher,
	bookings queries.BookingQueries,
	slots queries.SlotQueries,
	calc booking.FeeCalculator,
	clk clock.Clock,
	logger *slog.Logger,
) BookingCommands {
	return &bookingUseCaseImpl{
		uow:       uow,
		validator: validator,
		publisher: publisher,
		bookings:  bookings,
		slots:     slots,
		calc:      calc,
		clock:     clk,
		logger:    logger,
	}
}

func (uc *bookingUseCaseImpl) CreateBooking(
	ctx context.Context,
	actor user.Actor,
	params CreateBookingParams,
	idempotencyKey *uuid.UUID,
) (*CreateBookingResult, error) {
	vehicle, window, err := validateCreateParams(params)
	if err != nil {
		return nil, err
	}

	requestHash := calculateRequestHash(params.SlotID, vehicle, window)
	if idempotencyKey != nil {
		replay, rerr := uc.replayIfCompleted(ctx, *idempotencyKey, actor.ID, requestHash)
		if rerr != nil || replay != nil {
			return replay, rerr
		}
	}

	target, err := uc.uow.CommandReads().SlotByID(ctx, params.SlotID)
	if err != nil {
		return nil, mapSlotLookupErr(err)
	}
	if target.IsDeleted() {
		return nil, errs.ErrSlotNotFound
	}

	// Outside the transaction: no row lock is held while waiting on the service.
	if err := uc.validateWithService(ctx, target, vehicle, window); err != nil {
		return nil, err
	}

	b := booking.NewBooking(actor.ID, target.ID(), vehicle, window)
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if idempotencyKey != nil {
			inserted, ierr := tx.Idempotency().TryInsert(ctx, tx.DB(), *idempotencyKey, actor.ID,
				createBookingEndpoint, requestHash, uc.clock.Now().Add(idempotencyTTL))
			if ierr != nil {
				return ierr
			}
			if !inserted {
				return errIdempotencyRace
			}
		}

		if werr := uc.persistNewBooking(ctx, tx, b); werr != nil {
			return werr
		}

		if idempotencyKey != nil {
			return tx.Idempotency().UpdateStatusCompleted(ctx, tx.DB(), *idempotencyKey, actor.ID, calculateIDHash(b.ID()), b.ID())
		}
		return nil
	})
	if errs.Is(err, errIdempotencyRace) {
		replay, rerr := uc.replayIfCompleted(ctx, *idempotencyKey, actor.ID, requestHash)
		if rerr != nil {
			return nil, rerr
		}
		if replay == nil {
			return nil, errs.ErrIdempotencyInProgress
		}
		return replay, nil
	}
	if err != nil {
		return nil, mapWriteErr(err)
	}

	bookingView, err := uc.bookings.GetByIDSystem(ctx, b.ID())
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	slotView, err := uc.slots.GetByID(ctx, target.ID())
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	uc.publisher.PublishBookingCreated(bookingView)
	uc.publisher.PublishSlotUpdated(slotView)

	return &CreateBookingResult{Booking: bookingView, Slot: slotView}, nil
}

// persistNewBooking runs with the slot row locked, so concurrent creates
// for the same slot queue here. The exclusion constraint still backs the
// overlap check for writers that skip the lock.
func (uc *bookingUseCaseImpl) persistNewBooking(ctx context.Context, tx shared.Tx, b *booking.Booking) error {
	locked, err := tx.Reads().LockSlot(ctx, b.SlotID())
	if err != nil {
		return mapSlotLookupErr(err)
	}
	if locked.IsDeleted() {
		return errs.ErrSlotNotFound
	}

	overlapping, err := tx.Reads().OverlappingBookedIDs(ctx, locked.ID(), b.Window())
	if err != nil {
		return err
	}
	if len(overlapping) > 0 {
		return errs.ErrSlotConflict
	}

	if err := tx.Bookings().Create(ctx, tx.DB(), b); err != nil {
		if infra.IsKind(err, infra.KindConflict) {
			return errs.Mark(err, errs.ErrSlotConflict)
		}
		return err
	}

	locked.MarkBooked()
	if err := tx.Slots().SetAvailability(ctx, tx.DB(), locked.ID(), locked.IsAvailable()); err != nil {
		return err
	}

	return uc.enqueue(ctx, tx, "booking.created", TopicBookings, bookingEventPayload(b))
}

func (uc *bookingUseCaseImpl) validateWithService(ctx context.Context, target *slot.Slot, vehicle booking.VehicleNumber, window booking.TimeWindow) error {
	res, err := uc.validator.Validate(ctx, shared.SlotValidationRequest{
		SlotID:        target.ID(),
		SlotNumber:    target.Number().String(),
		VehicleNumber: vehicle.String(),
		StartTime:     window.Start(),
		EndTime:       window.End(),
	})
	if err != nil {
		uc.logger.Warn("slot validation unavailable", "slot_id", target.ID().String(), "error", err.Error())
		return errs.Mark(err, errs.ErrValidationUnavailable)
	}
	if !res.Valid {
		msg := res.Message
		if msg == "" {
			msg = defaultRejectionMessage
		}
		return &ValidationRejectedError{Message: msg}
	}
	return nil
}

// replayIfCompleted returns nil, nil when the key is unknown or expired.
func (uc *bookingUseCaseImpl) replayIfCompleted(ctx context.Context, key, userID uuid.UUID, requestHash string) (*CreateBookingResult, error) {
	rec, err := uc.uow.CommandReads().IdempotencyByKey(ctx, key, userID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, nil
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	if rec.RequestHash != requestHash {
		return nil, errs.ErrIdempotencyKeyReused
	}
	if rec.Status != shared.IdempotencyStatusCompleted {
		return nil, errs.ErrIdempotencyInProgress
	}
	if rec.ResultBookingID == nil {
		return nil, errs.New("completed request missing result booking ID")
	}

	bookingView, err := uc.bookings.GetByIDSystem(ctx, *rec.ResultBookingID)
	if err != nil {
		return nil, err
	}
	result := &CreateBookingResult{Booking: bookingView, IsReplayed: true}

	// The slot may have been removed since; the booking alone is still a valid replay.
	if slotView, serr := uc.slots.GetByID(ctx, bookingView.SlotID); serr == nil {
		result.Slot = slotView
	}
	return result, nil
}

func (uc *bookingUseCaseImpl) CheckIn(ctx context.Context, actor user.Actor, bookingID uuid.UUID) (*queries.BookingView, error) {
	return uc.transition(ctx, actor, bookingID, transition{
		op:    "checked in",
		event: "booking.checked_in",
		apply: func(b *booking.Booking, now time.Time) error {
			return b.CheckIn(now)
		},
	})
}

func (uc *bookingUseCaseImpl) CheckOut(ctx context.Context, actor user.Actor, bookingID uuid.UUID) (*queries.BookingView, error) {
	return uc.transition(ctx, actor, bookingID, transition{
		op:    "checked out",
		event: "booking.checked_out",
		apply: func(b *booking.Booking, now time.Time) error {
			return b.CheckOut(now, uc.calc)
		},
	})
}

func (uc *bookingUseCaseImpl) ProcessPayment(ctx context.Context, actor user.Actor, bookingID uuid.UUID, method string) (*queries.BookingView, error) {
	m, err := booking.NewPaymentMethod(method)
	if err != nil {
		return nil, invalidInput("Payment method must be one of upi, card, cash")
	}

	return uc.transition(ctx, actor, bookingID, transition{
		op:    "paid",
		event: "booking.paid",
		apply: func(b *booking.Booking, now time.Time) error {
			return b.Pay(m, now)
		},
	})
}

// Cancel restores slot availability once no BOOKED booking is left on it.
func (uc *bookingUseCaseImpl) Cancel(ctx context.Context, actor user.Actor, bookingID uuid.UUID) (*queries.BookingView, error) {
	return uc.transition(ctx, actor, bookingID, transition{
		op:       "cancelled",
		event:    "booking.cancelled",
		lockSlot: true,
		apply: func(b *booking.Booking, _ time.Time) error {
			return b.Cancel()
		},
		afterUpdate: func(ctx context.Context, tx shared.Tx, b *booking.Booking) (bool, error) {
			remaining, err := tx.Reads().CountActiveBookingsOnSlot(ctx, b.SlotID(), b.ID())
			if err != nil {
				return false, err
			}
			if remaining > 0 {
				return false, nil
			}
			if err := tx.Slots().SetAvailability(ctx, tx.DB(), b.SlotID(), true); err != nil {
				return false, err
			}
			return true, nil
		},
	})
}

type transition struct {
	op    string
	event string
	// lockSlot takes the slot row lock before the booking row, the same
	// order CreateBooking uses.
	lockSlot    bool
	apply       func(b *booking.Booking, now time.Time) error
	afterUpdate func(ctx context.Context, tx shared.Tx, b *booking.Booking) (slotChanged bool, err error)
}

func (uc *bookingUseCaseImpl) transition(ctx context.Context, actor user.Actor, bookingID uuid.UUID, t transition) (*queries.BookingView, error) {
	var (
		updated     *booking.Booking
		slotChanged bool
	)

	for attempt := 1; ; attempt++ {
		err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			slotChanged = false

			b, err := tx.Reads().BookingByID(ctx, bookingID)
			if err != nil {
				if infra.IsKind(err, infra.KindNotFound) {
					return errs.ErrBookingNotFound
				}
				return err
			}
			if !actor.CanAccess(b.UserID()) {
				return errs.ErrBookingNotOwned
			}

			if t.lockSlot {
				if _, err := tx.Reads().LockSlot(ctx, b.SlotID()); err != nil {
					return err
				}
			}

			expected, version := b.ParkingStatus(), b.Version()
			if err := t.apply(b, uc.clock.Now()); err != nil {
				return mapDomainErr(err, t.op)
			}
			if err := tx.Bookings().UpdateState(ctx, tx.DB(), b, expected, version); err != nil {
				return err
			}

			if t.afterUpdate != nil {
				changed, err := t.afterUpdate(ctx, tx, b)
				if err != nil {
					return err
				}
				slotChanged = changed
			}

			updated = b
			return uc.enqueue(ctx, tx, t.event, TopicBookings, bookingEventPayload(b))
		})
		if err == nil {
			break
		}
		if !infra.IsKind(err, infra.KindStaleState) {
			return nil, mapWriteErr(err)
		}
		if attempt >= maxCASAttempts {
			return nil, errs.Mark(err, errs.ErrConcurrentModification)
		}
		uc.logger.Warn("booking changed concurrently, retrying",
			"booking_id", bookingID.String(),
			"op", t.op,
			"attempt", attempt)
	}

	view, err := uc.bookings.GetByIDSystem(ctx, updated.ID())
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	uc.publisher.PublishBookingUpdated(view)

	if slotChanged {
		if slotView, serr := uc.slots.GetByID(ctx, updated.SlotID()); serr == nil {
			uc.publisher.PublishSlotUpdated(slotView)
		}
	}

	return view, nil
}

type bookingEvent struct {
	BookingID     uuid.UUID `json:"bookingId"`
	SlotID        uuid.UUID `json:"slotId"`
	UserID        uuid.UUID `json:"userId"`
	Status        string    `json:"status"`
	ParkingStatus string    `json:"parkingStatus"`
}

func bookingEventPayload(b *booking.Booking) bookingEvent {
	return bookingEvent{
		BookingID:     b.ID(),
		SlotID:        b.SlotID(),
		UserID:        b.UserID(),
		Status:        b.Status().String(),
		ParkingStatus: b.ParkingStatus().String(),
	}
}

// enqueue writes an outbox row in the caller's transaction.
func (uc *bookingUseCaseImpl) enqueue(ctx context.Context, tx shared.Tx, kind, topic string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return tx.Notifications().CreateJob(ctx, tx.DB(), kind, topic, body, uc.clock.Now())
}

func validateCreateParams(params CreateBookingParams) (booking.VehicleNumber, booking.TimeWindow, error) {
	if params.SlotID == uuid.Nil {
		return booking.VehicleNumber{}, booking.TimeWindow{}, invalidInput("Slot ID is required")
	}
	vehicle, err := booking.NewVehicleNumber(params.VehicleNumber)
	if err != nil {
		return booking.VehicleNumber{}, booking.TimeWindow{}, invalidInput("Vehicle number is required")
	}
	if params.StartTime.IsZero() || params.EndTime.IsZero() {
		return booking.VehicleNumber{}, booking.TimeWindow{}, invalidInput("Start time and end time are required")
	}
	window, err := booking.NewTimeWindow(params.StartTime, params.EndTime)
	if err != nil {
		return booking.VehicleNumber{}, booking.TimeWindow{}, invalidInput("End time must be after start time")
	}
	return vehicle, window, nil
}

func mapSlotLookupErr(err error) error {
	if infra.IsKind(err, infra.KindNotFound) {
		return errs.ErrSlotNotFound
	}
	return err
}

func mapDomainErr(err error, op string) error {
	switch {
	case errs.Is(err, booking.ErrAlreadyPaid):
		return errs.Mark(err, errs.ErrAlreadyPaid)
	case errs.Is(err, booking.ErrInvalidTransition):
		return &TransitionError{Op: op}
	case errs.Is(err, booking.ErrInvalidPaymentMethod):
		return invalidInput("Payment method must be one of upi, card, cash")
	default:
		return err
	}
}

var passthroughErrors = []error{
	errs.ErrInvalidInput,
	errs.ErrSlotNotFound,
	errs.ErrBookingNotFound,
	errs.ErrBookingNotOwned,
	errs.ErrForbidden,
	errs.ErrValidationRejected,
	errs.ErrValidationUnavailable,
	errs.ErrSlotConflict,
	errs.ErrInvalidTransition,
	errs.ErrAlreadyPaid,
	errs.ErrConcurrentModification,
	errs.ErrIdempotencyKeyReused,
	errs.ErrIdempotencyInProgress,
	errs.ErrDuplicateSlotNumber,
	errs.ErrSlotInUse,
}

// mapWriteErr keeps classified errors and marks everything else as a
// storage failure.
func mapWriteErr(err error) error {
	for _, known := range passthroughErrors {
		if errs.Is(err, known) {
			return err
		}
	}
	return errs.Mark(err, errs.ErrDatabaseOperationFailed)
}

// Hash of the normalized request, so cosmetic differences (case, spacing,
// time zone) replay instead of being reported as key reuse.
func calculateRequestHash(slotID uuid.UUID, vehicle booking.VehicleNumber, window booking.TimeWindow) string {
	data, _ := json.Marshal(struct {
		SlotID        uuid.UUID `json:"slotId"`
		VehicleNumber string    `json:"vehicleNumber"`
		StartTime     time.Time `json:"startTime"`
		EndTime       time.Time `json:"endTime"`
	}{
		SlotID:        slotID,
		VehicleNumber: vehicle.String(),
		StartTime:     window.Start().UTC(),
		EndTime:       window.End().UTC(),
	})
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

func calculateIDHash(id uuid.UUID) string {
	hash := sha256.Sum256([]byte(id.String()))
	return hex.EncodeToString(hash[:])
}
