package employee

import (
	"time"

	"github.com/morezero/employee-service/pkg/jsonpatch"
	"github.com/morezero/employee-service/pkg/mediator"
)

// Request names.
const (
	NameGetAll    = "employee.getAll"
	NameGetByID   = "employee.getById"
	NameAdd       = "employee.add"
	NameUpdate    = "employee.update"
	NamePatch     = "employee.patch"
	NameJSONPatch = "employee.jsonPatch"
)

// GetAllResult wraps the employee list.
type GetAllResult struct {
	Data []Employee `json:"data"`
}

// GetAllQuery lists every employee.
type GetAllQuery struct {
	mediator.Returns[GetAllResult]
}

func (GetAllQuery) RequestName() string { return NameGetAll }

// GetByIDQuery loads one employee.
type GetByIDQuery struct {
	mediator.Returns[Employee]
	ID int
}

func (GetByIDQuery) RequestName() string { return NameGetByID }

// AddCommand creates an employee and returns it with its assigned id.
type AddCommand struct {
	mediator.Returns[Employee]
	FirstName string
	LastName  string
	Gender    string
	BirthDate time.Time
	HireDate  time.Time
}

func (AddCommand) RequestName() string { return NameAdd }

// UpdateCommand replaces every mutable field of an existing employee.
type UpdateCommand struct {
	mediator.Returns[mediator.Unit]
	ID        int
	FirstName string
	LastName  string
	Gender    string
	BirthDate time.Time
	HireDate  time.Time
}

func (UpdateCommand) RequestName() string { return NameUpdate }

// PatchCommand overwrites the present fields of an existing employee.
type PatchCommand struct {
	mediator.Returns[mediator.Unit]
	ID     int
	Fields PatchFields
}

func (PatchCommand) RequestName() string { return NamePatch }

// JSONPatchCommand applies an RFC 6902 document. The result is false when the
// employee does not exist.
type JSONPatchCommand struct {
	mediator.Returns[bool]
	ID         int
	Operations []jsonpatch.Operation
}

func (JSONPatchCommand) RequestName() string { return NameJSONPatch }
