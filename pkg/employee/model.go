// Package employee holds the employee model, its commands and queries, the
// validators registered for them, and the two partial-update engines.
package employee

import (
	"context"
	"time"
)

// Employee is the stored employee record.
type Employee struct {
	ID        int       `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Gender    string    `json:"gender"`
	BirthDate time.Time `json:"birthDate"`
	HireDate  time.Time `json:"hireDate"`
}

// Field names as they appear on the wire and in change events.
const (
	FieldID        = "id"
	FieldFirstName = "firstName"
	FieldLastName  = "lastName"
	FieldGender    = "gender"
	FieldBirthDate = "birthDate"
	FieldHireDate  = "hireDate"
)

// Store is the persistence collaborator. Every write commits exactly once.
type Store interface {
	// GetAll returns every employee ordered by id.
	GetAll(ctx context.Context) ([]Employee, error)
	// GetByID returns nil without error when the employee does not exist.
	GetByID(ctx context.Context, id int) (*Employee, error)
	// Add stores e and sets e.ID.
	Add(ctx context.Context, e *Employee) error
	// Update replaces every mutable field. It returns false when e.ID is unknown.
	Update(ctx context.Context, e *Employee) (bool, error)
	// PatchFields overwrites the present fields only. It returns false when id is unknown.
	PatchFields(ctx context.Context, id int, fields PatchFields) (bool, error)
}

// ChangedFields lists the wire names of fields that differ between a and b.
func ChangedFields(a, b Employee) []string {
	var out []string
	if a.FirstName != b.FirstName {
		out = append(out, FieldFirstName)
	}
	if a.LastName != b.LastName {
		out = append(out, FieldLastName)
	}
	if a.Gender != b.Gender {
		out = append(out, FieldGender)
	}
	if !a.BirthDate.Equal(b.BirthDate) {
		out = append(out, FieldBirthDate)
	}
	if !a.HireDate.Equal(b.HireDate) {
		out = append(out, FieldHireDate)
	}
	return out
}
