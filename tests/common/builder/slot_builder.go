//go:build unit || e2e

package builder

import (
	"time"

	"parking-booking/internal/domain/slot"
	"parking-booking/internal/infra/query"
	"parking-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type SlotBuilder struct {
	ID          uuid.UUID
	SlotNumber  string
	City        string
	Area        string
	Address     string
	PlaceType   string
	Latitude    float64
	Longitude   float64
	IsAvailable bool
	DeletedAt   *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func NewSlotBuilder() *SlotBuilder {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &SlotBuilder{
		ID:          uuid.New(),
		SlotNumber:  "A-101",
		City:        "Bengaluru",
		Area:        "Koramangala",
		Address:     "80 Feet Road",
		PlaceType:   "mall",
		Latitude:    12.9352,
		Longitude:   77.6245,
		IsAvailable: true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (b *SlotBuilder) With(mutate func(*SlotBuilder)) *SlotBuilder {
	mutate(b)
	return b
}

func (b *SlotBuilder) WithID(id uuid.UUID) *SlotBuilder {
	b.ID = id
	return b
}

func (b *SlotBuilder) WithSlotNumber(number string) *SlotBuilder {
	b.SlotNumber = number
	return b
}

func (b *SlotBuilder) AsUnavailable() *SlotBuilder {
	b.IsAvailable = false
	return b
}

func (b *SlotBuilder) AsDeleted() *SlotBuilder {
	at := b.UpdatedAt
	b.DeletedAt = &at
	return b
}

func (b *SlotBuilder) location() slot.Location {
	return slot.Location{
		City:      b.City,
		Area:      b.Area,
		Address:   b.Address,
		PlaceType: slot.NewPlaceType(b.PlaceType),
		Coordinates: slot.Coordinates{
			Latitude:  b.Latitude,
			Longitude: b.Longitude,
		},
	}
}

// Build methods
func (b *SlotBuilder) BuildDomain() *slot.Slot {
	number, _ := slot.NewNumber(b.SlotNumber)
	return slot.ReconstructSlot(b.ID, number, b.location(), b.IsAvailable, b.DeletedAt, b.CreatedAt, b.UpdatedAt)
}

func (b *SlotBuilder) BuildInfra() query.Slot {
	row := query.Slot{
		ID:          b.ID,
		SlotNumber:  b.SlotNumber,
		City:        b.City,
		Area:        b.Area,
		Address:     b.Address,
		PlaceType:   b.PlaceType,
		Latitude:    b.Latitude,
		Longitude:   b.Longitude,
		IsAvailable: b.IsAvailable,
		CreatedAt:   pgtype.Timestamptz{Time: b.CreatedAt, Valid: true},
		UpdatedAt:   pgtype.Timestamptz{Time: b.UpdatedAt, Valid: true},
	}
	if b.DeletedAt != nil {
		row.DeletedAt = pgtype.Timestamptz{Time: *b.DeletedAt, Valid: true}
	}
	return row
}

func (b *SlotBuilder) BuildView() *queries.SlotView {
	return &queries.SlotView{
		ID:          b.ID,
		SlotNumber:  b.SlotNumber,
		City:        b.City,
		Area:        b.Area,
		Address:     b.Address,
		PlaceType:   b.PlaceType,
		Latitude:    b.Latitude,
		Longitude:   b.Longitude,
		IsAvailable: b.IsAvailable,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}
