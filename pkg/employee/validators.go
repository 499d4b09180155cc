package employee

import (
	"time"

	"github.com/morezero/employee-service/pkg/validation"
)

// Clock returns the current time. Validators compare dates against its day.
type Clock func() time.Time

func (c Clock) today() time.Time {
	if c == nil {
		return validation.DateOnly(time.Now())
	}
	return validation.DateOnly(c())
}

// Genders accepted by partial updates.
var Genders = []string{"Male", "Female", "Other"}

const (
	minAge       = 18
	maxAge       = 120
	maxNameLen   = 100
	maxGenderLen = 10
)

// AddValidator checks a new employee.
type AddValidator struct {
	Now Clock
}

func (v AddValidator) Validate(cmd AddCommand) []validation.Failure {
	today := v.Now.today()
	var c validation.Collector

	c.NotEmpty("FirstName", cmd.FirstName, "'First Name' must not be empty.")
	c.NotEmpty("LastName", cmd.LastName, "'Last Name' must not be empty.")
	if c.NotEmpty("Gender", cmd.Gender, "'Gender' must not be empty.") && len([]rune(cmd.Gender)) > 1 {
		c.Add("Gender", "MaxLength", "Gender must be a single character.")
	}

	birth := validation.DateOnly(cmd.BirthDate)
	hire := validation.DateOnly(cmd.HireDate)
	c.NotAfter("BirthDate", birth, today.AddDate(-minAge, 0, 0), "Employee must be at least 18 years old.")
	c.NotAfter("HireDate", hire, today, "Hire date cannot be in the future.")
	c.NotBefore("HireDate", hire, birth.AddDate(minAge, 0, 0), "Employee must be at least 18 years old on the hire date.")

	return c.Failures()
}

// UpdateValidator checks a full replacement.
type UpdateValidator struct {
	Now Clock
}

func (v UpdateValidator) Validate(cmd UpdateCommand) []validation.Failure {
	today := v.Now.today()
	var c validation.Collector

	c.Positive("Id", cmd.ID, "'Id' must be greater than '0'.")
	c.NotEmpty("FirstName", cmd.FirstName, "'First Name' must not be empty.")
	c.NotEmpty("LastName", cmd.LastName, "'Last Name' must not be empty.")
	c.NotEmpty("Gender", cmd.Gender, "'Gender' must not be empty.")
	c.NotAfter("HireDate", validation.DateOnly(cmd.HireDate), today, "Hire date cannot be in the future.")
	c.NotAfter("BirthDate", validation.DateOnly(cmd.BirthDate), today.AddDate(-minAge, 0, 0), "Employee must be at least 18 years old.")

	return c.Failures()
}

// PatchValidator checks the present fields of a partial update.
type PatchValidator struct {
	Now Clock
}

func (v PatchValidator) Validate(cmd PatchCommand) []validation.Failure {
	today := v.Now.today()
	f := cmd.Fields
	var c validation.Collector

	c.Positive("Id", cmd.ID, "Employee ID must be greater than 0")

	if f.FirstName.IsPresent() {
		name := f.FirstName.OrElse("")
		c.NotEmpty("FirstName", name, "First name cannot be empty when provided")
		c.MaxLength("FirstName", name, maxNameLen, "First name")
	}
	if f.LastName.IsPresent() {
		name := f.LastName.OrElse("")
		c.NotEmpty("LastName", name, "Last name cannot be empty when provided")
		c.MaxLength("LastName", name, maxNameLen, "Last name")
	}
	if f.Gender.IsPresent() {
		g := f.Gender.OrElse("")
		if c.NotEmpty("Gender", g, "Gender cannot be empty when provided") {
			c.MaxLength("Gender", g, maxGenderLen, "Gender")
			c.OneOf("Gender", g, Genders, "Gender must be 'Male', 'Female', or 'Other'")
		}
	}

	birth, hasBirth := f.BirthDate.Get()
	if f.BirthDate.IsNull() {
		c.Add("BirthDate", "NotNull", "Birth date cannot be null")
	}
	if hasBirth {
		birth = validation.DateOnly(birth)
		c.Before("BirthDate", birth, today, "Birth date must be in the past")
		if !birth.After(today.AddDate(-maxAge, 0, 0)) {
			c.Add("BirthDate", "GreaterThan", "Birth date cannot be more than 120 years ago")
		}
	}

	hire, hasHire := f.HireDate.Get()
	if f.HireDate.IsNull() {
		c.Add("HireDate", "NotNull", "Hire date cannot be null")
	}
	if hasHire {
		hire = validation.DateOnly(hire)
		c.NotAfter("HireDate", hire, today, "Hire date cannot be in the future")
	}
	if hasBirth && hasHire && !hire.After(birth) {
		c.Add("HireDate", "GreaterThan", "Hire date must be after birth date")
	}

	c.AtLeastOne("At least one field must be provided for partial update", f.HasAny())

	return c.Failures()
}

// JSONPatchValidator checks the request envelope. Operations are checked by
// the patch engine.
type JSONPatchValidator struct{}

func (JSONPatchValidator) Validate(cmd JSONPatchCommand) []validation.Failure {
	var c validation.Collector
	c.Positive("Id", cmd.ID, "Employee ID must be greater than 0")
	if len(cmd.Operations) == 0 {
		c.Add("Operations", "NotEmpty", "At least one patch operation is required")
	}
	return c.Failures()
}

// GetByIDValidator rejects non-positive ids.
type GetByIDValidator struct{}

func (GetByIDValidator) Validate(q GetByIDQuery) []validation.Failure {
	var c validation.Collector
	c.Positive("Id", q.ID, "Employee ID must be greater than 0")
	return c.Failures()
}

// RequiredFields re-checks the fields every stored employee must carry.
func RequiredFields(e Employee) []validation.Failure {
	var c validation.Collector
	c.NotEmpty("FirstName", e.FirstName, "First name is required")
	c.NotEmpty("LastName", e.LastName, "Last name is required")
	c.NotEmpty("Gender", e.Gender, "Gender is required")
	return c.Failures()
}
