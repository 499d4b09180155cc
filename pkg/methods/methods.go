// Package methods binds the RPC method names to the mediator requests and
// read models that serve them.
package methods

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/morezero/employee-service/pkg/apperror"
	"github.com/morezero/employee-service/pkg/employee"
	"github.com/morezero/employee-service/pkg/jsonpatch"
	"github.com/morezero/employee-service/pkg/mediator"
	"github.com/morezero/employee-service/pkg/product"
	"github.com/morezero/employee-service/pkg/rpc"
	"github.com/morezero/employee-service/pkg/weather"
)

const logPrefix = "methods:methods"

// Method names.
const (
	EmployeeGetAll    = "employee.getAll"
	EmployeeGetByID   = "employee.getById"
	EmployeeAdd       = "employee.add"
	EmployeeUpdate    = "employee.update"
	EmployeePatch     = "employee.patch"
	EmployeeJSONPatch = "employee.jsonPatch"
	WeatherGetAll     = "weather.getAll"
	WeatherGetByID    = "weather.getById"
	ProductGetAll     = "product.getAll"
)

var (
	errNoMediator = errors.New("methods - mediator not configured")
	errNoWeather  = errors.New("methods - weather repository not configured")
)

// Deps are the collaborators method handlers reach.
type Deps struct {
	Mediator *mediator.Mediator
	Weather  *weather.Repository
}

// MessageResult is returned by write methods.
type MessageResult struct {
	Message string `json:"message"`
	ID      int    `json:"id,omitempty"`
}

type idParams struct {
	ID int `json:"id"`
}

// JSONPatchParams is the params shape of employee.jsonPatch.
type JSONPatchParams struct {
	ID         int                   `json:"id"`
	Operations []jsonpatch.Operation `json:"operations"`
}

// Register binds every method to r.
func Register(r *rpc.Router, deps Deps) {
	employeeMethod := func(h func(context.Context, *mediator.Mediator, json.RawMessage) (interface{}, error)) rpc.MethodFactory {
		return func() (rpc.MethodHandler, error) {
			if deps.Mediator == nil {
				return nil, errNoMediator
			}
			m := deps.Mediator
			return rpc.HandlerFunc(func(ctx context.Context, params json.RawMessage) (interface{}, error) {
				return h(ctx, m, params)
			}), nil
		}
	}
	weatherMethod := func(h func(*weather.Repository, json.RawMessage) (interface{}, error)) rpc.MethodFactory {
		return func() (rpc.MethodHandler, error) {
			if deps.Weather == nil {
				return nil, errNoWeather
			}
			repo := deps.Weather
			return rpc.HandlerFunc(func(_ context.Context, params json.RawMessage) (interface{}, error) {
				return h(repo, params)
			}), nil
		}
	}

	r.Register(EmployeeGetAll, employeeMethod(employeeGetAll))
	r.Register(EmployeeGetByID, employeeMethod(employeeGetByID))
	r.Register(EmployeeAdd, employeeMethod(employeeAdd))
	r.Register(EmployeeUpdate, employeeMethod(employeeUpdate))
	r.Register(EmployeePatch, employeeMethod(employeePatch))
	r.Register(EmployeeJSONPatch, employeeMethod(employeeJSONPatch))
	r.Register(WeatherGetAll, weatherMethod(weatherGetAll))
	r.Register(WeatherGetByID, weatherMethod(weatherGetByID))
	r.Register(ProductGetAll, employeeMethod(productGetAll))
}

func employeeGetAll(ctx context.Context, m *mediator.Mediator, _ json.RawMessage) (interface{}, error) {
	res, err := mediator.Send[employee.GetAllResult](ctx, m, employee.GetAllQuery{})
	if err != nil {
		return nil, err
	}
	slog.Info(fmt.Sprintf("%s - Retrieved %d employees", logPrefix, len(res.Data)))
	return res.Data, nil
}

func employeeGetByID(ctx context.Context, m *mediator.Mediator, params json.RawMessage) (interface{}, error) {
	p, err := rpc.Decode[idParams](EmployeeGetByID, params)
	if err != nil {
		return nil, err
	}
	return mediator.Send[employee.Employee](ctx, m, employee.GetByIDQuery{ID: p.ID})
}

func employeeAdd(ctx context.Context, m *mediator.Mediator, params json.RawMessage) (interface{}, error) {
	req, err := rpc.Decode[employee.AddRequest](EmployeeAdd, params)
	if err != nil {
		return nil, err
	}
	cmd, err := req.ToCommand()
	if err != nil {
		return nil, err
	}
	e, err := mediator.Send[employee.Employee](ctx, m, cmd)
	if err != nil {
		return nil, err
	}
	return MessageResult{Message: "Employee created successfully", ID: e.ID}, nil
}

func employeeUpdate(ctx context.Context, m *mediator.Mediator, params json.RawMessage) (interface{}, error) {
	req, err := rpc.Decode[employee.UpdateRequest](EmployeeUpdate, params)
	if err != nil {
		return nil, err
	}
	if req.ID <= 0 {
		return nil, apperror.Invalid("Invalid parameters for %s. Id is required.", EmployeeUpdate)
	}
	cmd, err := req.ToCommand(0)
	if err != nil {
		return nil, err
	}
	if _, err := mediator.Send[mediator.Unit](ctx, m, cmd); err != nil {
		return nil, err
	}
	return MessageResult{Message: "Employee updated successfully"}, nil
}

func employeePatch(ctx context.Context, m *mediator.Mediator, params json.RawMessage) (interface{}, error) {
	req, err := rpc.Decode[employee.PatchRequest](EmployeePatch, params)
	if err != nil {
		return nil, err
	}
	if req.ID <= 0 {
		return nil, apperror.Invalid("Invalid parameters for %s. Id is required.", EmployeePatch)
	}
	cmd, err := req.ToCommand(0)
	if err != nil {
		return nil, err
	}
	if _, err := mediator.Send[mediator.Unit](ctx, m, cmd); err != nil {
		return nil, err
	}
	return MessageResult{Message: "Employee patched successfully"}, nil
}

func employeeJSONPatch(ctx context.Context, m *mediator.Mediator, params json.RawMessage) (interface{}, error) {
	p, err := rpc.Decode[JSONPatchParams](EmployeeJSONPatch, params)
	if err != nil {
		return nil, err
	}
	found, err := mediator.Send[bool](ctx, m, employee.JSONPatchCommand{ID: p.ID, Operations: p.Operations})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperror.NotFound("Employee with ID %d not found", p.ID)
	}
	return MessageResult{Message: "Employee patched successfully"}, nil
}

func productGetAll(ctx context.Context, m *mediator.Mediator, _ json.RawMessage) (interface{}, error) {
	res, err := mediator.Send[product.GetAllResult](ctx, m, product.GetAllQuery{})
	if err != nil {
		return nil, err
	}
	return res.Data, nil
}

func weatherGetAll(repo *weather.Repository, _ json.RawMessage) (interface{}, error) {
	return repo.GetAll(), nil
}

func weatherGetByID(repo *weather.Repository, params json.RawMessage) (interface{}, error) {
	p, err := rpc.Decode[idParams](WeatherGetByID, params)
	if err != nil {
		return nil, err
	}
	f, ok := repo.GetByID(p.ID)
	if !ok {
		return nil, apperror.NotFound("Weather forecast with ID %d not found", p.ID)
	}
	return f, nil
}
