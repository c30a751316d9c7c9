package commands

import (
	"context"
	"log/slog"

	"parking-booking/internal/domain/slot"
	"parking-booking/internal/domain/user"
	"parking-booking/internal/infra"
	"parking-booking/internal/pkg/clock"
	"parking-booking/internal/pkg/errs"
	"parking-booking/internal/usecase/queries"
	"parking-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

var ErrAdminOnly = queries.ErrAdminOnly

type SlotLocationParams struct {
	City      string
	Area      string
	Address   string
	PlaceType string
	Latitude  float64
	Longitude float64
}

type CreateSlotParams struct {
	SlotNumber string
	SlotLocationParams
}

type SlotCommands interface {
	Create(ctx context.Context, actor user.Actor, params CreateSlotParams) (*queries.SlotView, error)
	Update(ctx context.Context, actor user.Actor, id uuid.UUID, params SlotLocationParams) (*queries.SlotView, error)
	// Delete is refused while the slot still has BOOKED bookings.
	Delete(ctx context.Context, actor user.Actor, id uuid.UUID) error
	Release(ctx context.Context, actor user.Actor, id uuid.UUID) (*queries.SlotView, error)
}

type slotUseCaseImpl struct {
	uow       shared.UnitOfWork
	publisher EventPublisher
	slots     queries.SlotQueries
	clock     clock.Clock
	logger    *slog.Logger
}

func NewSlotCommands(
	uow shared.UnitOfWork,
	publisher EventPublisher,
	slots queries.SlotQueries,
	clk clock.Clock,
	logger *slog.Logger,
) SlotCommands {
	return &slotUseCaseImpl{
		uow:       uow,
		publisher: publisher,
		slots:     slots,
		clock:     clk,
		logger:    logger,
	}
}

func (uc *slotUseCaseImpl) Create(ctx context.Context, actor user.Actor, params CreateSlotParams) (*queries.SlotView, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminOnly
	}

	number, err := slot.NewNumber(params.SlotNumber)
	if err != nil {
		return nil, invalidInput("Slot number is required")
	}
	s, err := slot.NewSlot(number, toLocation(params.SlotLocationParams))
	if err != nil {
		return nil, invalidInput("City is required and coordinates must be valid")
	}

	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Slots().Create(ctx, tx.DB(), s); err != nil {
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return errs.Mark(err, errs.ErrDuplicateSlotNumber)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, mapWriteErr(err)
	}

	return uc.publishSlot(ctx, s.ID())
}

func (uc *slotUseCaseImpl) Update(ctx context.Context, actor user.Actor, id uuid.UUID, params SlotLocationParams) (*queries.SlotView, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminOnly
	}

	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		s, err := lockLiveSlot(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := s.Relocate(toLocation(params)); err != nil {
			return invalidInput("City is required and coordinates must be valid")
		}
		return tx.Slots().Update(ctx, tx.DB(), s)
	})
	if err != nil {
		return nil, mapWriteErr(err)
	}

	return uc.publishSlot(ctx, id)
}

func (uc *slotUseCaseImpl) Delete(ctx context.Context, actor user.Actor, id uuid.UUID) error {
	if !actor.IsAdmin() {
		return ErrAdminOnly
	}

	var snapshot *slot.Slot
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		s, err := lockLiveSlot(ctx, tx, id)
		if err != nil {
			return err
		}
		active, err := tx.Reads().CountActiveBookingsOnSlot(ctx, id, uuid.Nil)
		if err != nil {
			return err
		}
		if active > 0 {
			return errs.ErrSlotInUse
		}
		s.Delete(uc.clock.Now())
		snapshot = s
		return tx.Slots().Update(ctx, tx.DB(), s)
	})
	if err != nil {
		return mapWriteErr(err)
	}

	// Observers get the last state with availability off; the slot no longer resolves by id.
	uc.publisher.PublishSlotUpdated(&queries.SlotView{
		ID:          snapshot.ID(),
		SlotNumber:  snapshot.Number().String(),
		City:        snapshot.Location().City,
		Area:        snapshot.Location().Area,
		Address:     snapshot.Location().Address,
		PlaceType:   string(snapshot.Location().PlaceType),
		Latitude:    snapshot.Location().Coordinates.Latitude,
		Longitude:   snapshot.Location().Coordinates.Longitude,
		IsAvailable: false,
		CreatedAt:   snapshot.CreatedAt(),
		UpdatedAt:   uc.clock.Now(),
	})
	return nil
}

// Release is the manual override for a slot left unavailable, e.g. after
// a booking completed without a cancel.
func (uc *slotUseCaseImpl) Release(ctx context.Context, actor user.Actor, id uuid.UUID) (*queries.SlotView, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminOnly
	}

	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		s, err := lockLiveSlot(ctx, tx, id)
		if err != nil {
			return err
		}
		s.Release()
		return tx.Slots().SetAvailability(ctx, tx.DB(), id, s.IsAvailable())
	})
	if err != nil {
		return nil, mapWriteErr(err)
	}

	uc.logger.Info("slot released", "slot_id", id.String(), "admin_id", actor.ID.String())
	return uc.publishSlot(ctx, id)
}

func (uc *slotUseCaseImpl) publishSlot(ctx context.Context, id uuid.UUID) (*queries.SlotView, error) {
	view, err := uc.slots.GetByID(ctx, id)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	uc.publisher.PublishSlotUpdated(view)
	return view, nil
}

func lockLiveSlot(ctx context.Context, tx shared.Tx, id uuid.UUID) (*slot.Slot, error) {
	s, err := tx.Reads().LockSlot(ctx, id)
	if err != nil {
		return nil, mapSlotLookupErr(err)
	}
	if s.IsDeleted() {
		return nil, errs.ErrSlotNotFound
	}
	return s, nil
}

func toLocation(p SlotLocationParams) slot.Location {
	return slot.Location{
		City:      p.City,
		Area:      p.Area,
		Address:   p.Address,
		PlaceType: slot.NewPlaceType(p.PlaceType),
		Coordinates: slot.Coordinates{
			Latitude:  p.Latitude,
			Longitude: p.Longitude,
		},
	}
}
