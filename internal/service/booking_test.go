package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-room-booking/internal/repository"
)

// newTestService wires a BookingService over a mocked *sql.DB so the
// full query sequence of every operation can be asserted.
func newTestService(t *testing.T) (*BookingService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	svc := NewBookingService(
		repository.NewEnrollmentRepo(db),
		repository.NewTicketRepo(db),
		repository.NewRoomRepo(db),
		repository.NewBookingRepo(db),
	)
	return svc, mock
}

var now = time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)

func enrollmentRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id", "name", "cpf", "birthday", "phone", "created_at", "updated_at"}).
		AddRow(10, 1, "Ada Lovelace", "12345678900", now, "+55 11 99999-0000", now, now)
}

func ticketRows(status string, isRemote, includesHotel bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "enrollment_id", "ticket_type_id", "status", "created_at", "updated_at",
		"id", "name", "price_cents", "is_remote", "includes_hotel", "created_at", "updated_at",
	}).AddRow(20, 10, 30, status, now, now, 30, "Presential + Hotel", 60000, isRemote, includesHotel, now, now)
}

func roomRows(id, capacity int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "hotel_id", "name", "capacity", "created_at", "updated_at"}).
		AddRow(id, 1, "101", capacity, now, now)
}

func bookingWithRoomRows(bookingID, userID, roomID int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "user_id", "room_id", "created_at", "updated_at",
		"id", "hotel_id", "name", "capacity", "created_at", "updated_at",
	}).AddRow(bookingID, userID, roomID, now, now, roomID, 1, "101", 3, now, now)
}

func countRows(n int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"COUNT(*)"}).AddRow(n)
}

func TestGetBooking(t *testing.T) {
	t.Run("returns booking with room", func(t *testing.T) {
		svc, mock := newTestService(t)
		mock.ExpectQuery("FROM bookings b").WithArgs(uint64(1)).
			WillReturnRows(bookingWithRoomRows(5, 1, 2))

		bw, err := svc.GetBooking(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, uint64(5), bw.ID)
		assert.Equal(t, uint64(2), bw.Room.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found when user has no booking", func(t *testing.T) {
		svc, mock := newTestService(t)
		mock.ExpectQuery("FROM bookings b").WithArgs(uint64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := svc.GetBooking(context.Background(), 1)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCreateBooking(t *testing.T) {
	t.Run("admits and returns booking id", func(t *testing.T) {
		svc, mock := newTestService(t)
		mock.ExpectQuery("FROM enrollments WHERE user_id").WithArgs(uint64(1)).
			WillReturnRows(enrollmentRows())
		mock.ExpectQuery("FROM tickets t").WithArgs(uint64(10)).
			WillReturnRows(ticketRows("PAID", false, true))
		mock.ExpectBegin()
		mock.ExpectQuery("FROM rooms WHERE id = (.+) FOR UPDATE").WithArgs(uint64(2)).
			WillReturnRows(roomRows(2, 1))
		mock.ExpectQuery("SELECT COUNT").WithArgs(uint64(2)).
			WillReturnRows(countRows(0))
		mock.ExpectExec("INSERT INTO bookings").WithArgs(uint64(1), uint64(2)).
			WillReturnResult(sqlmock.NewResult(5, 1))
		mock.ExpectCommit()

		id, err := svc.CreateBooking(context.Background(), 1, 2)
		require.NoError(t, err)
		assert.Equal(t, uint64(5), id)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found without enrollment", func(t *testing.T) {
		svc, mock := newTestService(t)
		mock.ExpectQuery("FROM enrollments WHERE user_id").WithArgs(uint64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := svc.CreateBooking(context.Background(), 1, 2)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("forbidden without any ticket", func(t *testing.T) {
		svc, mock := newTestService(t)
		mock.ExpectQuery("FROM enrollments WHERE user_id").WithArgs(uint64(1)).
			WillReturnRows(enrollmentRows())
		mock.ExpectQuery("FROM tickets t").WithArgs(uint64(10)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := svc.CreateBooking(context.Background(), 1, 2)
		assert.ErrorIs(t, err, ErrForbidden)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("forbidden with unpaid ticket even when room is free", func(t *testing.T) {
		svc, mock := newTestService(t)
		mock.ExpectQuery("FROM enrollments WHERE user_id").WithArgs(uint64(1)).
			WillReturnRows(enrollmentRows())
		mock.ExpectQuery("FROM tickets t").WithArgs(uint64(10)).
			WillReturnRows(ticketRows("RESERVED", false, true))

		_, err := svc.CreateBooking(context.Background(), 1, 2)
		assert.ErrorIs(t, err, ErrForbidden)
		assert.NoError(t, mock.ExpectationsWereMet(), "no room lookup may happen after the ticket check fails")
	})

	t.Run("forbidden with remote ticket", func(t *testing.T) {
		svc, mock := newTestService(t)
		mock.ExpectQuery("FROM enrollments WHERE user_id").WithArgs(uint64(1)).
			WillReturnRows(enrollmentRows())
		mock.ExpectQuery("FROM tickets t").WithArgs(uint64(10)).
			WillReturnRows(ticketRows("PAID", true, true))

		_, err := svc.CreateBooking(context.Background(), 1, 2)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("not found when room does not exist", func(t *testing.T) {
		svc, mock := newTestService(t)
		mock.ExpectQuery("FROM enrollments WHERE user_id").WithArgs(uint64(1)).
			WillReturnRows(enrollmentRows())
		mock.ExpectQuery("FROM tickets t").WithArgs(uint64(10)).
			WillReturnRows(ticketRows("PAID", false, true))
		mock.ExpectBegin()
		mock.ExpectQuery("FROM rooms WHERE id = (.+) FOR UPDATE").WithArgs(uint64(99)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectRollback()

		_, err := svc.CreateBooking(context.Background(), 1, 99)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("forbidden when room is full, nothing written", func(t *testing.T) {
		svc, mock := newTestService(t)
		mock.ExpectQuery("FROM enrollments WHERE user_id").WithArgs(uint64(1)).
			WillReturnRows(enrollmentRows())
		mock.ExpectQuery("FROM tickets t").WithArgs(uint64(10)).
			WillReturnRows(ticketRows("PAID", false, true))
		mock.ExpectBegin()
		mock.ExpectQuery("FROM rooms WHERE id = (.+) FOR UPDATE").WithArgs(uint64(2)).
			WillReturnRows(roomRows(2, 1))
		mock.ExpectQuery("SELECT COUNT").WithArgs(uint64(2)).
			WillReturnRows(countRows(1))
		mock.ExpectRollback()

		_, err := svc.CreateBooking(context.Background(), 1, 2)
		assert.ErrorIs(t, err, ErrForbidden)
		assert.NoError(t, mock.ExpectationsWereMet(), "deny must roll back without inserting")
	})

	t.Run("forbidden when the user already holds a booking", func(t *testing.T) {
		svc, mock := newTestService(t)
		mock.ExpectQuery("FROM enrollments WHERE user_id").WithArgs(uint64(1)).
			WillReturnRows(enrollmentRows())
		mock.ExpectQuery("FROM tickets t").WithArgs(uint64(10)).
			WillReturnRows(ticketRows("PAID", false, true))
		mock.ExpectBegin()
		mock.ExpectQuery("FROM rooms WHERE id = (.+) FOR UPDATE").WithArgs(uint64(2)).
			WillReturnRows(roomRows(2, 3))
		mock.ExpectQuery("SELECT COUNT").WithArgs(uint64(2)).
			WillReturnRows(countRows(0))
		// unique index on bookings.user_id rejects the second booking
		mock.ExpectExec("INSERT INTO bookings").WithArgs(uint64(1), uint64(2)).
			WillReturnError(errors.New("Error 1062 (23000): Duplicate entry '1' for key 'bookings.uniq_bookings_user'"))
		mock.ExpectRollback()

		_, err := svc.CreateBooking(context.Background(), 1, 2)
		assert.ErrorIs(t, err, ErrForbidden)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestChangeRoom(t *testing.T) {
	t.Run("moves the booking and keeps its id", func(t *testing.T) {
		svc, mock := newTestService(t)
		mock.ExpectQuery("FROM bookings b").WithArgs(uint64(1)).
			WillReturnRows(bookingWithRoomRows(5, 1, 2))
		mock.ExpectQuery("FROM bookings WHERE id").WithArgs(uint64(5)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "room_id", "created_at", "updated_at"}).
				AddRow(5, 1, 2, now, now))
		mock.ExpectBegin()
		mock.ExpectQuery("FROM rooms WHERE id = (.+) FOR UPDATE").WithArgs(uint64(3)).
			WillReturnRows(roomRows(3, 2))
		mock.ExpectQuery("SELECT COUNT").WithArgs(uint64(3)).
			WillReturnRows(countRows(1))
		mock.ExpectExec("UPDATE bookings SET room_id").WithArgs(uint64(3), uint64(5)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		id, err := svc.ChangeRoom(context.Background(), 1, 5, 3)
		require.NoError(t, err)
		assert.Equal(t, uint64(5), id)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("forbidden when caller has nothing to transfer", func(t *testing.T) {
		svc, mock := newTestService(t)
		mock.ExpectQuery("FROM bookings b").WithArgs(uint64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := svc.ChangeRoom(context.Background(), 1, 5, 3)
		assert.ErrorIs(t, err, ErrForbidden)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found when the named booking does not exist", func(t *testing.T) {
		svc, mock := newTestService(t)
		mock.ExpectQuery("FROM bookings b").WithArgs(uint64(1)).
			WillReturnRows(bookingWithRoomRows(5, 1, 2))
		mock.ExpectQuery("FROM bookings WHERE id").WithArgs(uint64(77)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := svc.ChangeRoom(context.Background(), 1, 77, 3)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("forbidden when the booking belongs to someone else", func(t *testing.T) {
		svc, mock := newTestService(t)
		mock.ExpectQuery("FROM bookings b").WithArgs(uint64(2)).
			WillReturnRows(bookingWithRoomRows(6, 2, 4))
		mock.ExpectQuery("FROM bookings WHERE id").WithArgs(uint64(5)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "room_id", "created_at", "updated_at"}).
				AddRow(5, 1, 2, now, now))

		_, err := svc.ChangeRoom(context.Background(), 2, 5, 3)
		assert.ErrorIs(t, err, ErrForbidden, "target room validity must not matter on ownership mismatch")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found when target room is missing", func(t *testing.T) {
		svc, mock := newTestService(t)
		mock.ExpectQuery("FROM bookings b").WithArgs(uint64(1)).
			WillReturnRows(bookingWithRoomRows(5, 1, 2))
		mock.ExpectQuery("FROM bookings WHERE id").WithArgs(uint64(5)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "room_id", "created_at", "updated_at"}).
				AddRow(5, 1, 2, now, now))
		mock.ExpectBegin()
		mock.ExpectQuery("FROM rooms WHERE id = (.+) FOR UPDATE").WithArgs(uint64(99)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectRollback()

		_, err := svc.ChangeRoom(context.Background(), 1, 5, 99)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("forbidden when target room is full", func(t *testing.T) {
		svc, mock := newTestService(t)
		mock.ExpectQuery("FROM bookings b").WithArgs(uint64(1)).
			WillReturnRows(bookingWithRoomRows(5, 1, 2))
		mock.ExpectQuery("FROM bookings WHERE id").WithArgs(uint64(5)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "room_id", "created_at", "updated_at"}).
				AddRow(5, 1, 2, now, now))
		mock.ExpectBegin()
		mock.ExpectQuery("FROM rooms WHERE id = (.+) FOR UPDATE").WithArgs(uint64(3)).
			WillReturnRows(roomRows(3, 2))
		mock.ExpectQuery("SELECT COUNT").WithArgs(uint64(3)).
			WillReturnRows(countRows(2))
		mock.ExpectRollback()

		_, err := svc.ChangeRoom(context.Background(), 1, 5, 3)
		assert.ErrorIs(t, err, ErrForbidden)
		assert.NoError(t, mock.ExpectationsWereMet(), "deny must roll back without updating")
	})
}
