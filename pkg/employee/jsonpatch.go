package employee

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/morezero/employee-service/pkg/events"
	"github.com/morezero/employee-service/pkg/jsonpatch"
	"github.com/morezero/employee-service/pkg/validation"
)

// Document is the mutable projection a JSON Patch is applied to.
type Document struct {
	ID        int
	FirstName string
	LastName  string
	Gender    string
	BirthDate time.Time
	HireDate  time.Time
}

// DocumentPaths is the field table of Document.
var DocumentPaths = newDocumentTable()

func newDocumentTable() *jsonpatch.Table[Document] {
	id := jsonpatch.IntField[Document](FieldID, func(d *Document) *int { return &d.ID })
	id.ReadOnly = true
	id.ReadOnlyMessage = "Cannot modify employee ID"

	return jsonpatch.NewTable(
		id,
		jsonpatch.StringField[Document](FieldFirstName, func(d *Document) *string { return &d.FirstName }),
		jsonpatch.StringField[Document](FieldLastName, func(d *Document) *string { return &d.LastName }),
		jsonpatch.StringField[Document](FieldGender, func(d *Document) *string { return &d.Gender }),
		jsonpatch.TimeField[Document](FieldBirthDate, func(d *Document) *time.Time { return &d.BirthDate }),
		jsonpatch.TimeField[Document](FieldHireDate, func(d *Document) *time.Time { return &d.HireDate }),
	)
}

func toDocument(e Employee) Document {
	return Document{
		ID:        e.ID,
		FirstName: e.FirstName,
		LastName:  e.LastName,
		Gender:    e.Gender,
		BirthDate: e.BirthDate,
		HireDate:  e.HireDate,
	}
}

func (d Document) applyTo(e Employee) Employee {
	e.FirstName = d.FirstName
	e.LastName = d.LastName
	e.Gender = d.Gender
	e.BirthDate = d.BirthDate
	e.HireDate = d.HireDate
	return e
}

// JSONPatch handles JSONPatchCommand. Nothing is written unless every
// operation succeeds and the result still carries the required fields.
func (s *Service) JSONPatch(ctx context.Context, cmd JSONPatchCommand) (bool, error) {
	current, err := s.store.GetByID(ctx, cmd.ID)
	if err != nil {
		return false, fmt.Errorf("%s - failed to load employee %d: %w", logPrefix, cmd.ID, err)
	}
	if current == nil {
		return false, nil
	}

	doc := toDocument(*current)
	if err := jsonpatch.Apply(DocumentPaths, &doc, cmd.Operations); err != nil {
		slog.Debug(fmt.Sprintf("%s - JSON Patch rejected for employee %d: %v", logPrefix, cmd.ID, err))
		return false, err
	}

	updated := doc.applyTo(*current)
	if failures := RequiredFields(updated); len(failures) > 0 {
		return false, validation.NewError(failures)
	}

	ok, err := s.store.Update(ctx, &updated)
	if err != nil {
		return false, fmt.Errorf("%s - failed to save employee %d: %w", logPrefix, cmd.ID, err)
	}
	if !ok {
		return false, nil
	}

	changed := ChangedFields(*current, updated)
	slog.Info(fmt.Sprintf("%s - Applied %d JSON Patch operation(s) to employee %d", logPrefix, len(cmd.Operations), cmd.ID))
	s.publish(ctx, events.ActionPatched, cmd.ID, changed)
	return true, nil
}
