package repository

import (
	"context"

	"parking-booking/internal/domain/slot"
	"parking-booking/internal/infra"
	"parking-booking/internal/infra/query"
	"parking-booking/internal/infra/repository/converter"
	"parking-booking/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type SlotWriteQueries interface {
	CreateSlot(ctx context.Context, db query.DBTX, arg query.CreateSlotParams) (query.Slot, error)
	UpdateSlot(ctx context.Context, db query.DBTX, arg query.UpdateSlotParams) (query.Slot, error)
	SetSlotAvailability(ctx context.Context, db query.DBTX, id uuid.UUID, available bool) (int64, error)
}

type SlotRepository struct {
	queries SlotWriteQueries
	db      query.DBTX
}

func NewSlotRepository(queries SlotWriteQueries, db query.DBTX) *SlotRepository {
	return &SlotRepository{
		queries: queries,
		db:      db,
	}
}

func (r *SlotRepository) Create(ctx context.Context, tx query.DBTX, s *slot.Slot) error {
	_, err := r.queries.CreateSlot(ctx, tx, converter.SlotToCreateParams(s))
	if err != nil {
		return infra.WrapRepoErr("failed to create slot", err)
	}
	return nil
}

func (r *SlotRepository) Update(ctx context.Context, tx query.DBTX, s *slot.Slot) error {
	_, err := r.queries.UpdateSlot(ctx, tx, converter.SlotToUpdateParams(s))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return infra.WrapRepoErr("slot not found", err, infra.KindNotFound)
		}
		return infra.WrapRepoErr("failed to update slot", err)
	}
	return nil
}

func (r *SlotRepository) SetAvailability(ctx context.Context, tx query.DBTX, id uuid.UUID, available bool) error {
	affected, err := r.queries.SetSlotAvailability(ctx, tx, id, available)
	if err != nil {
		return infra.WrapRepoErr("failed to set slot availability", err)
	}
	if affected == 0 {
		return infra.WrapRepoErr("slot not found", nil, infra.KindNotFound)
	}
	return nil
}
