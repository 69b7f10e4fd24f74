package service

import (
	"context"
	"errors"

	"github.com/iliyamo/hotel-room-booking/internal/model"
	"github.com/iliyamo/hotel-room-booking/internal/repository"
)

// BookingService runs the admission checks for creating a booking and
// transferring it to another room, in the fixed order the endpoints
// promise. Checks short-circuit: the first failing rule decides the
// error, and no write happens on any deny. The capacity check and the
// write run in one transaction that locks the target room row, so two
// concurrent requests cannot both pass the check and overbook a room.
type BookingService struct {
	enrollments *repository.EnrollmentRepo
	tickets     *repository.TicketRepo
	rooms       *repository.RoomRepo
	bookings    *repository.BookingRepo
}

// NewBookingService constructs a BookingService. All repositories must
// be non-nil.
func NewBookingService(e *repository.EnrollmentRepo, t *repository.TicketRepo, r *repository.RoomRepo, b *repository.BookingRepo) *BookingService {
	if e == nil || t == nil || r == nil || b == nil {
		panic("nil repository passed to NewBookingService")
	}
	return &BookingService{enrollments: e, tickets: t, rooms: r, bookings: b}
}

// GetBooking returns the caller's booking together with its room.
// It is a pure read; ErrNotFound when the user holds no booking.
func (s *BookingService) GetBooking(ctx context.Context, userID uint64) (model.BookingWithRoom, error) {
	bw, err := s.bookings.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return model.BookingWithRoom{}, ErrNotFound
		}
		return model.BookingWithRoom{}, err
	}
	return bw, nil
}

// CreateBooking admits or denies a reservation for userID in roomID
// and on success returns the new booking's ID. Check order:
// enrollment (ErrNotFound), qualifying ticket (ErrForbidden), room
// existence (ErrNotFound), vacancy (ErrForbidden), then the insert.
func (s *BookingService) CreateBooking(ctx context.Context, userID, roomID uint64) (uint64, error) {
	enrollment, err := s.enrollments.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrEnrollmentNotFound) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	ticket, err := s.tickets.GetLatestByEnrollmentID(ctx, enrollment.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNoTicket) {
			return 0, ErrForbidden
		}
		return 0, err
	}
	if !ticketQualifies(ticket) {
		return 0, ErrForbidden
	}

	tx, err := s.bookings.DB().BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	room, err := s.rooms.GetByIDForUpdateTx(ctx, tx, roomID)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	count, err := s.bookings.CountByRoomTx(ctx, tx, roomID)
	if err != nil {
		return 0, err
	}
	if !roomHasVacancy(room, count) {
		return 0, ErrForbidden
	}
	bookingID, err := s.bookings.CreateTx(ctx, tx, userID, roomID)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateBooking) {
			return 0, ErrForbidden
		}
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	committed = true
	return bookingID, nil
}

// ChangeRoom moves an existing booking to another room, preserving its
// identity and owner, and returns the (unchanged) booking ID. Check
// order: caller must hold a booking (ErrForbidden), the named booking
// must exist (ErrNotFound) and belong to the caller (ErrForbidden),
// the target room must exist (ErrNotFound) and have vacancy
// (ErrForbidden), then the room reference is updated.
func (s *BookingService) ChangeRoom(ctx context.Context, userID, bookingID, roomID uint64) (uint64, error) {
	own, err := s.bookings.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return 0, ErrForbidden
		}
		return 0, err
	}
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	if booking.UserID != userID || booking.ID != own.ID {
		return 0, ErrForbidden
	}

	tx, err := s.bookings.DB().BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	room, err := s.rooms.GetByIDForUpdateTx(ctx, tx, roomID)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	count, err := s.bookings.CountByRoomTx(ctx, tx, roomID)
	if err != nil {
		return 0, err
	}
	if !roomHasVacancy(room, count) {
		return 0, ErrForbidden
	}
	if err := s.bookings.UpdateRoomTx(ctx, tx, bookingID, roomID); err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	committed = true
	return bookingID, nil
}
