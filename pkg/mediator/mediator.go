// Package mediator dispatches commands and queries to their single registered
// handler after running every validator registered for the request name.
//
// Registration happens at startup. A Mediator is not safe to modify after the
// first Send; concurrent sends are safe.
package mediator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/morezero/employee-service/pkg/apperror"
	"github.com/morezero/employee-service/pkg/validation"
)

const logPrefix = "mediator:mediator"

// Named is implemented by every request.
type Named interface {
	RequestName() string
}

// Request is a command or query whose handler produces an R.
// Implement it by embedding Returns[R] and defining RequestName.
type Request[R any] interface {
	Named
	result() R
}

// Returns marks a request type with its result type.
type Returns[R any] struct{}

func (Returns[R]) result() (r R) { return r }

// Unit is the result of commands that produce no value.
type Unit struct{}

// HandlerFunc handles one request type.
type HandlerFunc[Q any, R any] func(ctx context.Context, req Q) (R, error)

type entry struct {
	invoke func(ctx context.Context, req any) (any, error)
}

// Mediator routes requests to handlers.
type Mediator struct {
	handlers   map[string]entry
	validators map[string][]func(any) []validation.Failure
}

// New creates an empty Mediator.
func New() *Mediator {
	return &Mediator{
		handlers:   make(map[string]entry),
		validators: make(map[string][]func(any) []validation.Failure),
	}
}

// Register binds h as the handler for Q. Q must be a value type whose zero
// value reports its RequestName. Registering a name twice panics.
func Register[Q Request[R], R any](m *Mediator, h HandlerFunc[Q, R]) {
	var zero Q
	name := zero.RequestName()
	if _, exists := m.handlers[name]; exists {
		panic(fmt.Sprintf("%s - handler already registered for %s", logPrefix, name))
	}
	m.handlers[name] = entry{
		invoke: func(ctx context.Context, req any) (any, error) {
			q, ok := req.(Q)
			if !ok {
				return nil, apperror.Internal(fmt.Sprintf("request type %T does not match handler for %s", req, name), nil)
			}
			return h(ctx, q)
		},
	}
}

// AddValidator appends v to the validators run before the handler of Q.
func AddValidator[Q Named](m *Mediator, v validation.Validator[Q]) {
	var zero Q
	name := zero.RequestName()
	m.validators[name] = append(m.validators[name], func(req any) []validation.Failure {
		q, ok := req.(Q)
		if !ok {
			return nil
		}
		return v.Validate(q)
	})
}

// Send dispatches req and returns its typed result.
func Send[R any](ctx context.Context, m *Mediator, req Request[R]) (R, error) {
	var zero R
	res, err := m.SendAny(ctx, req)
	if err != nil {
		return zero, err
	}
	if res == nil {
		return zero, nil
	}
	typed, ok := res.(R)
	if !ok {
		return zero, apperror.Internal(fmt.Sprintf("handler for %s returned %T", req.RequestName(), res), nil)
	}
	return typed, nil
}

// SendAny dispatches a request whose result type is not known statically.
func (m *Mediator) SendAny(ctx context.Context, req any) (any, error) {
	named, ok := req.(Named)
	if !ok || named == nil {
		slog.Error(fmt.Sprintf("%s - unsupported request type %T", logPrefix, req))
		return nil, apperror.Internal(fmt.Sprintf("unsupported request type %T", req), nil)
	}
	name := named.RequestName()
	slog.Debug(fmt.Sprintf("%s - send %s", logPrefix, name))

	h, ok := m.handlers[name]
	if !ok {
		slog.Error(fmt.Sprintf("%s - no handler registered for %s", logPrefix, name))
		return nil, apperror.Internal(fmt.Sprintf("no handler registered for %s", name), nil)
	}

	if err := m.validate(name, req); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s - %s cancelled: %w", logPrefix, name, err)
	}

	return h.invoke(ctx, req)
}

func (m *Mediator) validate(name string, req any) error {
	validators := m.validators[name]
	if len(validators) == 0 {
		return nil
	}

	var failures []validation.Failure
	for _, v := range validators {
		failures = append(failures, v(req)...)
	}
	failures = validation.Dedupe(failures)

	if !validation.HasErrors(failures) {
		for _, f := range failures {
			slog.Warn(fmt.Sprintf("%s - %s: %s", logPrefix, name, f.Message))
		}
		return nil
	}

	slog.Debug(fmt.Sprintf("%s - %s rejected with %d failure(s)", logPrefix, name, len(failures)))
	return validation.NewError(failures)
}
