package query

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const slotColumns = `id, slot_number, city, area, address, place_type, latitude, longitude,
	is_available, deleted_at, created_at, updated_at`

func scanSlot(row pgx.Row) (Slot, error) {
	var s Slot
	err := row.Scan(
		&s.ID, &s.SlotNumber, &s.City, &s.Area, &s.Address, &s.PlaceType,
		&s.Latitude, &s.Longitude, &s.IsAvailable, &s.DeletedAt, &s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

type CreateSlotParams struct {
	ID          uuid.UUID
	SlotNumber  string
	City        string
	Area        string
	Address     string
	PlaceType   string
	Latitude    float64
	Longitude   float64
	IsAvailable bool
}

const createSlot = `
INSERT INTO slots (id, slot_number, city, area, address, place_type, latitude, longitude, is_available)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING ` + slotColumns

func (q *Queries) CreateSlot(ctx context.Context, db DBTX, arg CreateSlotParams) (Slot, error) {
	row := db.QueryRow(ctx, createSlot,
		arg.ID, arg.SlotNumber, arg.City, arg.Area, arg.Address, arg.PlaceType,
		arg.Latitude, arg.Longitude, arg.IsAvailable,
	)
	return scanSlot(row)
}

type UpdateSlotParams struct {
	ID          uuid.UUID
	City        string
	Area        string
	Address     string
	PlaceType   string
	Latitude    float64
	Longitude   float64
	IsAvailable bool
	DeletedAt   pgtype.Timestamptz
}

const updateSlot = `
UPDATE slots
SET city = $2, area = $3, address = $4, place_type = $5, latitude = $6, longitude = $7,
    is_available = $8, deleted_at = $9, updated_at = now()
WHERE id = $1
RETURNING ` + slotColumns

func (q *Queries) UpdateSlot(ctx context.Context, db DBTX, arg UpdateSlotParams) (Slot, error) {
	row := db.QueryRow(ctx, updateSlot,
		arg.ID, arg.City, arg.Area, arg.Address, arg.PlaceType,
		arg.Latitude, arg.Longitude, arg.IsAvailable, arg.DeletedAt,
	)
	return scanSlot(row)
}

const setSlotAvailability = `
UPDATE slots SET is_available = $2, updated_at = now()
WHERE id = $1 AND deleted_at IS NULL`

func (q *Queries) SetSlotAvailability(ctx context.Context, db DBTX, id uuid.UUID, available bool) (int64, error) {
	tag, err := db.Exec(ctx, setSlotAvailability, id, available)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const getSlotByID = `SELECT ` + slotColumns + ` FROM slots WHERE id = $1 AND deleted_at IS NULL`

func (q *Queries) GetSlotByID(ctx context.Context, db DBTX, id uuid.UUID) (Slot, error) {
	return scanSlot(db.QueryRow(ctx, getSlotByID, id))
}

// Row lock serialises booking creation per slot.
const getSlotByIDForUpdate = getSlotByID + ` FOR UPDATE`

func (q *Queries) GetSlotByIDForUpdate(ctx context.Context, db DBTX, id uuid.UUID) (Slot, error) {
	return scanSlot(db.QueryRow(ctx, getSlotByIDForUpdate, id))
}

type ListSlotsParams struct {
	City      pgtype.Text
	Available pgtype.Bool
}

const listSlots = `
SELECT ` + slotColumns + `
FROM slots
WHERE deleted_at IS NULL
  AND ($1::text IS NULL OR lower(city) = lower($1::text))
  AND ($2::boolean IS NULL OR is_available = $2::boolean)
ORDER BY slot_number`

func (q *Queries) ListSlots(ctx context.Context, db DBTX, arg ListSlotsParams) ([]Slot, error) {
	rows, err := db.Query(ctx, listSlots, arg.City, arg.Available)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []Slot{}
	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}
