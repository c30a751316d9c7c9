package queries

import (
	"context"

	"parking-booking/internal/infra"
	"parking-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrSlotNotFound = errs.ErrSlotNotFound

type SlotReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*SlotView, error)
	List(ctx context.Context, filter SlotFilter) ([]*SlotView, error)
}

type SlotQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*SlotView, error)
	List(ctx context.Context, filter SlotFilter) ([]*SlotView, error)
}

type slotQueriesImpl struct {
	repo SlotReadStore
}

func NewSlotQueries(repo SlotReadStore) SlotQueries {
	return &slotQueriesImpl{repo: repo}
}

// GetByID hides soft-deleted slots.
func (q *slotQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*SlotView, error) {
	view, err := q.repo.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrSlotNotFound
		}
		return nil, err
	}
	return view, nil
}

func (q *slotQueriesImpl) List(ctx context.Context, filter SlotFilter) ([]*SlotView, error) {
	return q.repo.List(ctx, filter)
}
