package model

import "time"

// TicketStatus enumerates the payment states a ticket moves
// through. A RESERVED ticket has been created but not paid for.
type TicketStatus string

const (
	TicketStatusReserved TicketStatus = "RESERVED"
	TicketStatusPaid     TicketStatus = "PAID"
)

// Ticket records a purchased admission in the `tickets` table.
// Each ticket belongs to an enrollment and references a ticket
// type that determines what the ticket grants access to.
//
// Fields:
//  ID           – primary key identifier.
//  EnrollmentID – enrollment that owns the ticket.
//  TicketTypeID – reference into ticket_types.
//  Status       – payment state (RESERVED, PAID).
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type Ticket struct {
	ID           uint64       // tickets.id
	EnrollmentID uint64       // tickets.enrollment_id
	TicketTypeID uint64       // tickets.ticket_type_id
	Status       TicketStatus // tickets.status
	CreatedAt    time.Time    // tickets.created_at
	UpdatedAt    time.Time    // tickets.updated_at
}

// TicketType is a category of ticket in the `ticket_types` table.
// The two boolean flags drive booking eligibility: a remote ticket
// never grants hotel access, and only types with IncludesHotel set
// may book a room.
//
// Fields:
//  ID            – primary key identifier.
//  Name          – human readable label.
//  PriceCents    – price in cents.
//  IsRemote      – whether the event is attended remotely.
//  IncludesHotel – whether hotel accommodation is part of the package.
//  CreatedAt     – timestamp of creation.
//  UpdatedAt     – timestamp of last update.
type TicketType struct {
	ID            uint64    // ticket_types.id
	Name          string    // ticket_types.name
	PriceCents    uint32    // ticket_types.price_cents
	IsRemote      bool      // ticket_types.is_remote
	IncludesHotel bool      // ticket_types.includes_hotel
	CreatedAt     time.Time // ticket_types.created_at
	UpdatedAt     time.Time // ticket_types.updated_at
}

// TicketWithType joins a ticket with its type so the booking rules
// can evaluate status and type flags from a single lookup.
type TicketWithType struct {
	Ticket
	Type TicketType
}
