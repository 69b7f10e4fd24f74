package model

import "time"

// Booking links a user to a room in the `bookings` table. A user
// holds at most one booking (unique index on user_id); the room
// reference is mutable, the owner is not.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – user who owns the booking.
//  RoomID    – room currently booked.
//  CreatedAt – timestamp of creation.
//  UpdatedAt – timestamp of last update.
type Booking struct {
	ID        uint64    // bookings.id
	UserID    uint64    // bookings.user_id
	RoomID    uint64    // bookings.room_id
	CreatedAt time.Time // bookings.created_at
	UpdatedAt time.Time // bookings.updated_at
}

// BookingWithRoom denormalizes a booking together with its room
// for the read endpoint.
type BookingWithRoom struct {
	Booking
	Room Room
}
