package commands

import (
	"parking-booking/internal/usecase/queries"
)

// EventPublisher fans committed changes out to live observers. Calls must
// not block and never fail the caller.
type EventPublisher interface {
	PublishBookingCreated(b *queries.BookingView)
	PublishBookingUpdated(b *queries.BookingView)
	PublishSlotUpdated(s *queries.SlotView)
}
