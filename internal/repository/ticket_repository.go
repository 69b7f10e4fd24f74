package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/hotel-room-booking/internal/model"
)

// ErrNoTicket is returned when an enrollment has no ticket at all.
var ErrNoTicket = errors.New("no ticket for enrollment")

// TicketRepo provides read access to tickets and their types. The
// booking flow never mutates tickets; payment lives elsewhere.
type TicketRepo struct {
	db *sql.DB
}

// NewTicketRepo constructs a TicketRepo with the given DB handle.
func NewTicketRepo(db *sql.DB) *TicketRepo {
	return &TicketRepo{db: db}
}

// GetLatestByEnrollmentID returns the most recent ticket for an
// enrollment joined with its ticket type. The join brings in the
// status and type flags the eligibility rules evaluate. When the
// enrollment has no ticket, ErrNoTicket is returned.
func (r *TicketRepo) GetLatestByEnrollmentID(ctx context.Context, enrollmentID uint64) (model.TicketWithType, error) {
	const q = `SELECT t.id, t.enrollment_id, t.ticket_type_id, t.status, t.created_at, t.updated_at,
	                  tt.id, tt.name, tt.price_cents, tt.is_remote, tt.includes_hotel, tt.created_at, tt.updated_at
	           FROM tickets t
	           JOIN ticket_types tt ON tt.id = t.ticket_type_id
	           WHERE t.enrollment_id = ?
	           ORDER BY t.created_at DESC, t.id DESC
	           LIMIT 1`
	var tw model.TicketWithType
	err := r.db.QueryRowContext(ctx, q, enrollmentID).Scan(
		&tw.ID, &tw.EnrollmentID, &tw.TicketTypeID, &tw.Status, &tw.CreatedAt, &tw.UpdatedAt,
		&tw.Type.ID, &tw.Type.Name, &tw.Type.PriceCents, &tw.Type.IsRemote, &tw.Type.IncludesHotel,
		&tw.Type.CreatedAt, &tw.Type.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.TicketWithType{}, ErrNoTicket
		}
		return model.TicketWithType{}, err
	}
	return tw, nil
}
