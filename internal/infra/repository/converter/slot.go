package converter

import (
	"fmt"

	"parking-booking/internal/domain/slot"
	"parking-booking/internal/infra/query"
	"parking-booking/internal/pkg/pgconv"
)

func SlotToCreateParams(s *slot.Slot) query.CreateSlotParams {
	loc := s.Location()
	return query.CreateSlotParams{
		ID:          s.ID(),
		SlotNumber:  s.Number().String(),
		City:        loc.City,
		Area:        loc.Area,
		Address:     loc.Address,
		PlaceType:   string(loc.PlaceType),
		Latitude:    loc.Coordinates.Latitude,
		Longitude:   loc.Coordinates.Longitude,
		IsAvailable: s.IsAvailable(),
	}
}

func SlotToUpdateParams(s *slot.Slot) query.UpdateSlotParams {
	loc := s.Location()
	return query.UpdateSlotParams{
		ID:          s.ID(),
		City:        loc.City,
		Area:        loc.Area,
		Address:     loc.Address,
		PlaceType:   string(loc.PlaceType),
		Latitude:    loc.Coordinates.Latitude,
		Longitude:   loc.Coordinates.Longitude,
		IsAvailable: s.IsAvailable(),
		DeletedAt:   pgconv.TimePtrToPgtype(s.DeletedAt()),
	}
}

func SlotFromRow(row query.Slot) (*slot.Slot, error) {
	number, err := slot.NewNumber(row.SlotNumber)
	if err != nil {
		return nil, fmt.Errorf("slot %s: %w", row.ID, err)
	}
	loc := slot.Location{
		City:      row.City,
		Area:      row.Area,
		Address:   row.Address,
		PlaceType: slot.NewPlaceType(row.PlaceType),
		Coordinates: slot.Coordinates{
			Latitude:  row.Latitude,
			Longitude: row.Longitude,
		},
	}
	return slot.ReconstructSlot(
		row.ID,
		number,
		loc,
		row.IsAvailable,
		pgconv.TimePtrFromPgtype(row.DeletedAt),
		pgconv.TimeFromPgtype(row.CreatedAt),
		pgconv.TimeFromPgtype(row.UpdatedAt),
	), nil
}
