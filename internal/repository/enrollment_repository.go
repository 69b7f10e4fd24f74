package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/hotel-room-booking/internal/model"
)

// ErrEnrollmentNotFound is returned when a user has no enrollment record.
var ErrEnrollmentNotFound = errors.New("enrollment not found")

// EnrollmentRepo provides read access to enrollments. Enrollments are
// created elsewhere in the application; the booking flow only needs to
// verify one exists for the caller.
type EnrollmentRepo struct {
	db *sql.DB
}

// NewEnrollmentRepo constructs an EnrollmentRepo with the given DB handle.
func NewEnrollmentRepo(db *sql.DB) *EnrollmentRepo {
	return &EnrollmentRepo{db: db}
}

// GetByUserID returns the enrollment belonging to a user, or
// ErrEnrollmentNotFound when none exists.
func (r *EnrollmentRepo) GetByUserID(ctx context.Context, userID uint64) (model.Enrollment, error) {
	const q = `SELECT id, user_id, name, cpf, birthday, phone, created_at, updated_at
	           FROM enrollments WHERE user_id = ? LIMIT 1`
	var e model.Enrollment
	err := r.db.QueryRowContext(ctx, q, userID).
		Scan(&e.ID, &e.UserID, &e.Name, &e.CPF, &e.Birthday, &e.Phone, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Enrollment{}, ErrEnrollmentNotFound
		}
		return model.Enrollment{}, err
	}
	return e, nil
}
