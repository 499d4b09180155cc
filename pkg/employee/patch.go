package employee

import (
	"time"

	"github.com/morezero/employee-service/pkg/optional"
)

// PatchFields is a sparse employee update. Absent fields are left untouched.
type PatchFields struct {
	FirstName optional.Value[string]    `json:"firstName,omitzero"`
	LastName  optional.Value[string]    `json:"lastName,omitzero"`
	Gender    optional.Value[string]    `json:"gender,omitzero"`
	BirthDate optional.Value[time.Time] `json:"birthDate,omitzero"`
	HireDate  optional.Value[time.Time] `json:"hireDate,omitzero"`
}

// HasAny reports whether at least one field is present.
func (p PatchFields) HasAny() bool {
	return len(p.Present()) > 0
}

// Present lists the wire names of the present fields.
func (p PatchFields) Present() []string {
	var out []string
	if p.FirstName.IsPresent() {
		out = append(out, FieldFirstName)
	}
	if p.LastName.IsPresent() {
		out = append(out, FieldLastName)
	}
	if p.Gender.IsPresent() {
		out = append(out, FieldGender)
	}
	if p.BirthDate.IsPresent() {
		out = append(out, FieldBirthDate)
	}
	if p.HireDate.IsPresent() {
		out = append(out, FieldHireDate)
	}
	return out
}

// Apply overwrites the present fields of e. A null string clears the field;
// a null date resets it to the zero time. Validation rejects both before a
// patch reaches storage.
func (p PatchFields) Apply(e *Employee) {
	if p.FirstName.IsPresent() {
		e.FirstName = p.FirstName.OrElse("")
	}
	if p.LastName.IsPresent() {
		e.LastName = p.LastName.OrElse("")
	}
	if p.Gender.IsPresent() {
		e.Gender = p.Gender.OrElse("")
	}
	if p.BirthDate.IsPresent() {
		e.BirthDate = p.BirthDate.OrElse(time.Time{})
	}
	if p.HireDate.IsPresent() {
		e.HireDate = p.HireDate.OrElse(time.Time{})
	}
}
