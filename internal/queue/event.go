// Package queue defines the booking domain events exchanged over the
// message broker, plus the publisher and background consumer.
package queue

import "encoding/json"

const (
	// bookingQueueName is the single durable queue all booking events
	// flow through; the envelope type field tells them apart.
	bookingQueueName = "booking.events"

	TypeBookingCreated     = "booking.created"
	TypeBookingRoomChanged = "booking.room_changed"
)

// envelope wraps every published event with its type so consumers can
// dispatch without guessing at the payload shape.
type envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// BookingCreatedEvent is published when a reservation is admitted.
// It carries enough for downstream consumers to log or notify without
// querying the primary database.
type BookingCreatedEvent struct {
	BookingID uint64 `json:"booking_id"`
	UserID    uint64 `json:"user_id"`
	RoomID    uint64 `json:"room_id"`
	CreatedAt string `json:"created_at"`
}

// BookingRoomChangedEvent is published when a booking is transferred
// to another room. The booking identity is unchanged.
type BookingRoomChangedEvent struct {
	BookingID uint64 `json:"booking_id"`
	UserID    uint64 `json:"user_id"`
	RoomID    uint64 `json:"room_id"`
	ChangedAt string `json:"changed_at"`
}
