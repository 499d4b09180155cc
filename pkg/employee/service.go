package employee

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/morezero/employee-service/pkg/apperror"
	"github.com/morezero/employee-service/pkg/events"
	"github.com/morezero/employee-service/pkg/mediator"
)

const logPrefix = "employee:service"

// Service implements the employee command and query handlers.
type Service struct {
	store     Store
	publisher events.EventPublisher
}

// NewService creates a Service. A nil publisher disables change events.
func NewService(store Store, publisher events.EventPublisher) *Service {
	if publisher == nil {
		publisher = &events.NoOpPublisher{}
	}
	return &Service{store: store, publisher: publisher}
}

// Register binds every employee handler and validator to m.
func Register(m *mediator.Mediator, s *Service, now Clock) {
	mediator.Register(m, s.GetAll)
	mediator.Register(m, s.GetByID)
	mediator.Register(m, s.Add)
	mediator.Register(m, s.Update)
	mediator.Register(m, s.Patch)
	mediator.Register(m, s.JSONPatch)

	mediator.AddValidator[GetByIDQuery](m, GetByIDValidator{})
	mediator.AddValidator[AddCommand](m, AddValidator{Now: now})
	mediator.AddValidator[UpdateCommand](m, UpdateValidator{Now: now})
	mediator.AddValidator[PatchCommand](m, PatchValidator{Now: now})
	mediator.AddValidator[JSONPatchCommand](m, JSONPatchValidator{})
}

// GetAll handles GetAllQuery.
func (s *Service) GetAll(ctx context.Context, _ GetAllQuery) (GetAllResult, error) {
	rows, err := s.store.GetAll(ctx)
	if err != nil {
		return GetAllResult{}, fmt.Errorf("%s - failed to list employees: %w", logPrefix, err)
	}
	if rows == nil {
		rows = []Employee{}
	}
	return GetAllResult{Data: rows}, nil
}

// GetByID handles GetByIDQuery.
func (s *Service) GetByID(ctx context.Context, q GetByIDQuery) (Employee, error) {
	e, err := s.store.GetByID(ctx, q.ID)
	if err != nil {
		return Employee{}, fmt.Errorf("%s - failed to load employee %d: %w", logPrefix, q.ID, err)
	}
	if e == nil {
		return Employee{}, notFound(q.ID)
	}
	return *e, nil
}

// Add handles AddCommand.
func (s *Service) Add(ctx context.Context, cmd AddCommand) (Employee, error) {
	e := Employee{
		FirstName: cmd.FirstName,
		LastName:  cmd.LastName,
		Gender:    cmd.Gender,
		BirthDate: cmd.BirthDate,
		HireDate:  cmd.HireDate,
	}
	if err := s.store.Add(ctx, &e); err != nil {
		return Employee{}, fmt.Errorf("%s - failed to add employee: %w", logPrefix, err)
	}

	slog.Info(fmt.Sprintf("%s - Added employee %d", logPrefix, e.ID))
	s.publish(ctx, events.ActionCreated, e.ID, []string{FieldFirstName, FieldLastName, FieldGender, FieldBirthDate, FieldHireDate})
	return e, nil
}

// Update handles UpdateCommand.
func (s *Service) Update(ctx context.Context, cmd UpdateCommand) (mediator.Unit, error) {
	e := Employee{
		ID:        cmd.ID,
		FirstName: cmd.FirstName,
		LastName:  cmd.LastName,
		Gender:    cmd.Gender,
		BirthDate: cmd.BirthDate,
		HireDate:  cmd.HireDate,
	}
	ok, err := s.store.Update(ctx, &e)
	if err != nil {
		return mediator.Unit{}, fmt.Errorf("%s - failed to update employee %d: %w", logPrefix, cmd.ID, err)
	}
	if !ok {
		return mediator.Unit{}, notFound(cmd.ID)
	}

	slog.Info(fmt.Sprintf("%s - Updated employee %d", logPrefix, cmd.ID))
	s.publish(ctx, events.ActionUpdated, cmd.ID, []string{FieldFirstName, FieldLastName, FieldGender, FieldBirthDate, FieldHireDate})
	return mediator.Unit{}, nil
}

// Patch handles PatchCommand.
func (s *Service) Patch(ctx context.Context, cmd PatchCommand) (mediator.Unit, error) {
	ok, err := s.store.PatchFields(ctx, cmd.ID, cmd.Fields)
	if err != nil {
		return mediator.Unit{}, fmt.Errorf("%s - failed to patch employee %d: %w", logPrefix, cmd.ID, err)
	}
	if !ok {
		return mediator.Unit{}, notFound(cmd.ID)
	}

	slog.Info(fmt.Sprintf("%s - Patched employee %d fields=%v", logPrefix, cmd.ID, cmd.Fields.Present()))
	s.publish(ctx, events.ActionPatched, cmd.ID, cmd.Fields.Present())
	return mediator.Unit{}, nil
}

// publish reports a committed write. Failures are logged; the write stands.
func (s *Service) publish(ctx context.Context, action string, id int, fields []string) {
	if err := s.publisher.PublishChanged(ctx, events.NewEmployeeChangedEvent(action, id, fields)); err != nil {
		slog.Warn(fmt.Sprintf("%s - failed to publish %s event for employee %d: %v", logPrefix, action, id, err))
	}
}

func notFound(id int) error {
	return apperror.NotFound("Employee with ID %d not found", id)
}
