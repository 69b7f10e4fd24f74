package service

import "github.com/iliyamo/hotel-room-booking/internal/model"

// TicketQualifies is the single eligibility predicate for booking a
// room: the ticket must be paid for (anything past RESERVED), must
// not be remote, and its type must include hotel access. All three
// flags are data on the ticket row, not configuration.
func TicketQualifies(status model.TicketStatus, isRemote, includesHotel bool) bool {
	if status == model.TicketStatusReserved {
		return false
	}
	if isRemote {
		return false
	}
	return includesHotel
}

// ticketQualifies applies TicketQualifies to a joined ticket row.
func ticketQualifies(t model.TicketWithType) bool {
	return TicketQualifies(t.Status, t.Type.IsRemote, t.Type.IncludesHotel)
}

// roomHasVacancy is the capacity rule: a room admits a new booking
// only while the existing count is strictly below its capacity.
func roomHasVacancy(room model.Room, existing uint32) bool {
	return existing < room.Capacity
}
