//go:build unit

package slot_test

import (
	"testing"
	"time"

	"parking-booking/internal/domain/slot"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validLocation() slot.Location {
	return slot.Location{
		City:        "Bengaluru",
		Area:        "Koramangala",
		Address:     "80 Feet Road",
		PlaceType:   slot.PlaceTypeMall,
		Coordinates: slot.Coordinates{Latitude: 12.9352, Longitude: 77.6245},
	}
}

func TestNewSlot(t *testing.T) {
	number, err := slot.NewNumber(" a1 ")
	require.NoError(t, err)

	s, err := slot.NewSlot(number, validLocation())
	require.NoError(t, err)
	assert.Equal(t, "A1", s.Number().String())
	assert.True(t, s.IsAvailable(), "new slot starts available")
	assert.False(t, s.IsDeleted())
}

func TestNewSlot_Invalid(t *testing.T) {
	_, err := slot.NewNumber("   ")
	assert.ErrorIs(t, err, slot.ErrInvalidSlotNumber)

	number, _ := slot.NewNumber("B2")
	loc := validLocation()
	loc.Coordinates.Latitude = 120
	_, err = slot.NewSlot(number, loc)
	assert.ErrorIs(t, err, slot.ErrInvalidLocation)

	loc = validLocation()
	loc.City = ""
	_, err = slot.NewSlot(number, loc)
	assert.ErrorIs(t, err, slot.ErrInvalidLocation)
}

func TestSlot_AvailabilityAndDelete(t *testing.T) {
	number, _ := slot.NewNumber("C3")
	s, err := slot.NewSlot(number, validLocation())
	require.NoError(t, err)

	s.MarkBooked()
	assert.False(t, s.IsAvailable())
	s.Release()
	assert.True(t, s.IsAvailable())

	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	s.Delete(now)
	s.Delete(now.Add(time.Hour))
	require.NotNil(t, s.DeletedAt())
	assert.Equal(t, now, *s.DeletedAt(), "first delete time is kept")

	assert.ErrorIs(t, s.Relocate(validLocation()), slot.ErrSlotDeleted)
}

func TestNewPlaceType(t *testing.T) {
	assert.Equal(t, slot.PlaceTypeHospital, slot.NewPlaceType(" Hospital "))
	assert.Equal(t, slot.PlaceTypeOther, slot.NewPlaceType("stadium"))
	assert.Equal(t, slot.PlaceTypeOther, slot.NewPlaceType(""))
}
