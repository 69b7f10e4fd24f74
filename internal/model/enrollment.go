package model

import "time"

// Enrollment is a user's registration record in the `enrollments`
// table. An enrollment must exist before any ticket can be bought
// and therefore before any room can be booked.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owning user; one enrollment per user.
//  Name      – full name given at registration.
//  CPF       – national document number.
//  Birthday  – date of birth.
//  Phone     – contact phone number.
//  CreatedAt – timestamp of creation.
//  UpdatedAt – timestamp of last update.
type Enrollment struct {
	ID        uint64    // enrollments.id
	UserID    uint64    // enrollments.user_id
	Name      string    // enrollments.name
	CPF       string    // enrollments.cpf
	Birthday  time.Time // enrollments.birthday
	Phone     string    // enrollments.phone
	CreatedAt time.Time // enrollments.created_at
	UpdatedAt time.Time // enrollments.updated_at
}
