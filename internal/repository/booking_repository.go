package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/hotel-room-booking/internal/model"
)

// ErrBookingNotFound is returned when a booking lookup yields no rows.
var ErrBookingNotFound = errors.New("booking not found")

// ErrDuplicateBooking is returned when an insert collides with the
// unique index on bookings.user_id (the user already holds a booking).
var ErrDuplicateBooking = errors.New("user already has a booking")

// BookingRepo provides CRUD operations for bookings. Mutations that
// must be atomic with a capacity check are exposed as Tx variants;
// the service owns the transaction and commits or rolls back.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// DB exposes the underlying handle so the service can begin transactions.
func (r *BookingRepo) DB() *sql.DB { return r.db }

// GetByUserID returns the caller's booking denormalized with its room,
// or ErrBookingNotFound when the user holds none.
func (r *BookingRepo) GetByUserID(ctx context.Context, userID uint64) (model.BookingWithRoom, error) {
	const q = `SELECT b.id, b.user_id, b.room_id, b.created_at, b.updated_at,
	                  r.id, r.hotel_id, r.name, r.capacity, r.created_at, r.updated_at
	           FROM bookings b
	           JOIN rooms r ON r.id = b.room_id
	           WHERE b.user_id = ?
	           LIMIT 1`
	var bw model.BookingWithRoom
	err := r.db.QueryRowContext(ctx, q, userID).Scan(
		&bw.ID, &bw.UserID, &bw.RoomID, &bw.CreatedAt, &bw.UpdatedAt,
		&bw.Room.ID, &bw.Room.HotelID, &bw.Room.Name, &bw.Room.Capacity,
		&bw.Room.CreatedAt, &bw.Room.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.BookingWithRoom{}, ErrBookingNotFound
		}
		return model.BookingWithRoom{}, err
	}
	return bw, nil
}

// GetByID returns a booking by primary key or ErrBookingNotFound.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (model.Booking, error) {
	const q = `SELECT id, user_id, room_id, created_at, updated_at
	           FROM bookings WHERE id = ?`
	var b model.Booking
	err := r.db.QueryRowContext(ctx, q, id).
		Scan(&b.ID, &b.UserID, &b.RoomID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Booking{}, ErrBookingNotFound
		}
		return model.Booking{}, err
	}
	return b, nil
}

// CountByRoomTx counts bookings referencing a room inside the caller's
// transaction. Combined with a prior row lock on the room it gives a
// stable count for the capacity decision.
func (r *BookingRepo) CountByRoomTx(ctx context.Context, tx *sql.Tx, roomID uint64) (uint32, error) {
	const q = `SELECT COUNT(*) FROM bookings WHERE room_id = ?`
	var n uint32
	if err := tx.QueryRowContext(ctx, q, roomID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// CreateTx inserts a booking within the caller's transaction and
// returns the generated ID. A unique-index collision on user_id maps
// to ErrDuplicateBooking.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, userID, roomID uint64) (uint64, error) {
	const q = `INSERT INTO bookings (user_id, room_id) VALUES (?, ?)`
	res, err := tx.ExecContext(ctx, q, userID, roomID)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrDuplicateBooking
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// UpdateRoomTx changes the room a booking points at within the
// caller's transaction. The booking's identity and owner are untouched.
func (r *BookingRepo) UpdateRoomTx(ctx context.Context, tx *sql.Tx, bookingID, roomID uint64) error {
	const q = `UPDATE bookings SET room_id = ? WHERE id = ?`
	res, err := tx.ExecContext(ctx, q, roomID, bookingID)
	if err != nil {
		return err
	}
	// RowsAffected is 0 both when the row vanished and when the room is
	// unchanged; only the former is an error, so re-check existence.
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		var one int
		if err := tx.QueryRowContext(ctx, `SELECT 1 FROM bookings WHERE id = ?`, bookingID).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrBookingNotFound
			}
			return err
		}
	}
	return nil
}
