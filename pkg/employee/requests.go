package employee

import (
	"fmt"
	"strings"
	"time"

	"github.com/morezero/employee-service/pkg/apperror"
	"github.com/morezero/employee-service/pkg/jsonpatch"
	"github.com/morezero/employee-service/pkg/optional"
)

// AddRequest is the wire shape of a new employee. Dates are ISO 8601 strings.
type AddRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Gender    string `json:"gender"`
	BirthDate string `json:"birthDate"`
	HireDate  string `json:"hireDate"`
}

// ToCommand converts the request. Only date decoding can fail here.
func (r AddRequest) ToCommand() (AddCommand, error) {
	birth, err := parseDate(FieldBirthDate, r.BirthDate)
	if err != nil {
		return AddCommand{}, err
	}
	hire, err := parseDate(FieldHireDate, r.HireDate)
	if err != nil {
		return AddCommand{}, err
	}
	return AddCommand{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Gender:    r.Gender,
		BirthDate: birth,
		HireDate:  hire,
	}, nil
}

// UpdateRequest is the wire shape of a full replacement. Fields may be given
// inline or nested under "request".
type UpdateRequest struct {
	ID int `json:"id"`
	AddRequest
	Request *AddRequest `json:"request,omitempty"`
}

// ToCommand converts the request. A positive id overrides the payload id.
func (r UpdateRequest) ToCommand(id int) (UpdateCommand, error) {
	body := r.AddRequest
	if r.Request != nil {
		body = *r.Request
	}
	add, err := body.ToCommand()
	if err != nil {
		return UpdateCommand{}, err
	}
	if id <= 0 {
		id = r.ID
	}
	return UpdateCommand{
		ID:        id,
		FirstName: add.FirstName,
		LastName:  add.LastName,
		Gender:    add.Gender,
		BirthDate: add.BirthDate,
		HireDate:  add.HireDate,
	}, nil
}

// PatchRequest is the wire shape of a named-field patch. Keys missing from the
// payload stay absent. Fields may be given inline or nested under "request".
type PatchRequest struct {
	ID        int                    `json:"id"`
	FirstName optional.Value[string] `json:"firstName,omitzero"`
	LastName  optional.Value[string] `json:"lastName,omitzero"`
	Gender    optional.Value[string] `json:"gender,omitzero"`
	BirthDate optional.Value[string] `json:"birthDate,omitzero"`
	HireDate  optional.Value[string] `json:"hireDate,omitzero"`
	Request   *PatchRequest          `json:"request,omitempty"`
}

// ToCommand converts the request. A positive id overrides the payload id.
func (r PatchRequest) ToCommand(id int) (PatchCommand, error) {
	if id <= 0 {
		id = r.ID
	}
	body := r
	if r.Request != nil {
		body = *r.Request
	}

	birth, err := parseOptionalDate(FieldBirthDate, body.BirthDate)
	if err != nil {
		return PatchCommand{}, err
	}
	hire, err := parseOptionalDate(FieldHireDate, body.HireDate)
	if err != nil {
		return PatchCommand{}, err
	}
	return PatchCommand{
		ID: id,
		Fields: PatchFields{
			FirstName: body.FirstName,
			LastName:  body.LastName,
			Gender:    body.Gender,
			BirthDate: birth,
			HireDate:  hire,
		},
	}, nil
}

func parseDate(field, s string) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return time.Time{}, apperror.InvalidParams(fmt.Sprintf("'%s' is required", field), nil)
	}
	t, err := jsonpatch.ParseDate(s)
	if err != nil {
		return time.Time{}, apperror.InvalidParams(
			fmt.Sprintf("Invalid date format for '%s'. Use ISO 8601 format (e.g., '1990-01-01T00:00:00Z')", field), err)
	}
	return t, nil
}

func parseOptionalDate(field string, v optional.Value[string]) (optional.Value[time.Time], error) {
	if !v.IsPresent() {
		return optional.Absent[time.Time](), nil
	}
	if v.IsNull() {
		return optional.Null[time.Time](), nil
	}
	s, _ := v.Get()
	t, err := parseDate(field, s)
	if err != nil {
		return optional.Value[time.Time]{}, err
	}
	return optional.Of(t), nil
}
