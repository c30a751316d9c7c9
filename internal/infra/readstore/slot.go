package readstore

import (
	"context"

	"parking-booking/internal/infra"
	"parking-booking/internal/infra/query"
	"parking-booking/internal/pkg/pgconv"
	"parking-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

type SlotReadQueries interface {
	GetSlotByID(ctx context.Context, db query.DBTX, id uuid.UUID) (query.Slot, error)
	ListSlots(ctx context.Context, db query.DBTX, arg query.ListSlotsParams) ([]query.Slot, error)
}

type SlotReadStore struct {
	queries SlotReadQueries
	db      query.DBTX
}

func NewSlotReadStore(queries SlotReadQueries, db query.DBTX) *SlotReadStore {
	return &SlotReadStore{
		queries: queries,
		db:      db,
	}
}

func (r *SlotReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.SlotView, error) {
	row, err := r.queries.GetSlotByID(ctx, r.db, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("slot not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find slot by ID", err)
	}
	if row.DeletedAt.Valid {
		return nil, infra.WrapRepoErr("slot is deleted", nil, infra.KindNotFound)
	}

	return SlotRowToView(row), nil
}

func (r *SlotReadStore) List(ctx context.Context, filter queries.SlotFilter) ([]*queries.SlotView, error) {
	params := query.ListSlotsParams{
		City:      pgconv.StringPtrToPgtype(filter.City),
		Available: pgconv.BoolPtrToPgtype(filter.Available),
	}

	rows, err := r.queries.ListSlots(ctx, r.db, params)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list slots", err)
	}

	result := make([]*queries.SlotView, len(rows))
	for i, row := range rows {
		result[i] = SlotRowToView(row)
	}
	return result, nil
}

func SlotRowToView(row query.Slot) *queries.SlotView {
	return &queries.SlotView{
		ID:          row.ID,
		SlotNumber:  row.SlotNumber,
		City:        row.City,
		Area:        row.Area,
		Address:     row.Address,
		PlaceType:   row.PlaceType,
		Latitude:    row.Latitude,
		Longitude:   row.Longitude,
		IsAvailable: row.IsAvailable,
		CreatedAt:   pgconv.TimeFromPgtype(row.CreatedAt),
		UpdatedAt:   pgconv.TimeFromPgtype(row.UpdatedAt),
	}
}
