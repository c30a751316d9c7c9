package slot

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidSlotNumber = errors.New("slot number is required")
	ErrInvalidLocation   = errors.New("invalid slot location")
	ErrSlotDeleted       = errors.New("slot is deleted")
)

// Slot is a physical parking space. Availability is owned by the booking
// engine: it is changed through MarkBooked and Release only.
type Slot struct {
	id          uuid.UUID
	number      Number
	location    Location
	isAvailable bool
	deletedAt   *time.Time
	createdAt   time.Time
	updatedAt   time.Time
}

func NewSlot(number Number, location Location) (*Slot, error) {
	if number.IsEmpty() {
		return nil, ErrInvalidSlotNumber
	}
	if err := location.Validate(); err != nil {
		return nil, err
	}
	return &Slot{
		id:          uuid.New(),
		number:      number,
		location:    location,
		isAvailable: true,
	}, nil
}

func ReconstructSlot(
	id uuid.UUID,
	number Number,
	location Location,
	isAvailable bool,
	deletedAt *time.Time,
	createdAt, updatedAt time.Time,
) *Slot {
	return &Slot{
		id:          id,
		number:      number,
		location:    location,
		isAvailable: isAvailable,
		deletedAt:   deletedAt,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// MarkBooked flips availability off. Called at booking creation even when
// the booked window starts in the future.
func (s *Slot) MarkBooked() {
	s.isAvailable = false
}

func (s *Slot) Release() {
	s.isAvailable = true
}

func (s *Slot) Relocate(location Location) error {
	if s.IsDeleted() {
		return ErrSlotDeleted
	}
	if err := location.Validate(); err != nil {
		return err
	}
	s.location = location
	return nil
}

func (s *Slot) Delete(now time.Time) {
	if s.deletedAt == nil {
		s.deletedAt = &now
	}
}

func (s *Slot) IsDeleted() bool {
	return s.deletedAt != nil
}

func (s *Slot) ID() uuid.UUID         { return s.id }
func (s *Slot) Number() Number        { return s.number }
func (s *Slot) Location() Location    { return s.location }
func (s *Slot) IsAvailable() bool     { return s.isAvailable }
func (s *Slot) DeletedAt() *time.Time { return s.deletedAt }
func (s *Slot) CreatedAt() time.Time  { return s.createdAt }
func (s *Slot) UpdatedAt() time.Time  { return s.updatedAt }

type Number struct {
	value string
}

func NewNumber(s string) (Number, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return Number{}, ErrInvalidSlotNumber
	}
	return Number{value: s}, nil
}

func (n Number) String() string {
	return n.value
}

func (n Number) IsEmpty() bool {
	return n.value == ""
}
