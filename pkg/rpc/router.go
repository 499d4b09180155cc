package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"

	"github.com/morezero/employee-service/pkg/apiversion"
	"github.com/morezero/employee-service/pkg/apperror"
	"github.com/morezero/employee-service/pkg/jsonpatch"
	"github.com/morezero/employee-service/pkg/validation"
)

const logPrefix = "rpc:router"

const (
	msgMethodRequired    = "Method name is required"
	msgHandlerMissing    = "Handler not available for this method"
	msgUnexpectedFailure = "An unexpected error occurred"
)

// MethodHandler executes one method.
type MethodHandler interface {
	Handle(ctx context.Context, params json.RawMessage) (interface{}, error)
}

// HandlerFunc adapts a function to MethodHandler.
type HandlerFunc func(ctx context.Context, params json.RawMessage) (interface{}, error)

func (f HandlerFunc) Handle(ctx context.Context, params json.RawMessage) (interface{}, error) {
	return f(ctx, params)
}

// MethodFactory produces the handler for one call.
type MethodFactory func() (MethodHandler, error)

type registration struct {
	name    string
	factory MethodFactory
}

// Router maps case-insensitive method names to handler factories.
//
// All Register calls must happen before the first Route. Route is safe for
// concurrent use.
type Router struct {
	methods  map[string]registration
	names    []string
	versions *apiversion.Checker
}

// NewRouter creates an empty Router. When versions is non-nil, requests
// carrying a "ver" constraint are checked against it.
func NewRouter(versions *apiversion.Checker) *Router {
	return &Router{methods: make(map[string]registration), versions: versions}
}

// Register binds name to factory. Empty or duplicate names panic.
func (r *Router) Register(name string, factory MethodFactory) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		panic(fmt.Sprintf("%s - method name is required", logPrefix))
	}
	if _, exists := r.methods[key]; exists {
		panic(fmt.Sprintf("%s - method %s already registered", logPrefix, name))
	}
	r.methods[key] = registration{name: name, factory: factory}
	r.names = append(r.names, name)
}

// RegisterFunc binds name to a stateless handler.
func (r *Router) RegisterFunc(name string, h HandlerFunc) {
	r.Register(name, func() (MethodHandler, error) { return h, nil })
}

// Methods lists registered names in registration order.
func (r *Router) Methods() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Route executes req and always returns an envelope echoing req.ID.
func (r *Router) Route(ctx context.Context, req Request) (resp Response) {
	defer func() {
		if p := recover(); p != nil {
			slog.Error(fmt.Sprintf("%s - panic in %s: %v\n%s", logPrefix, req.Method, p, debug.Stack()))
			resp = errorResponse(req.ID, CodeInternalError, msgUnexpectedFailure, nil)
		}
	}()

	method := strings.TrimSpace(req.Method)
	if method == "" {
		slog.Warn(fmt.Sprintf("%s - request without method", logPrefix))
		return errorResponse(req.ID, CodeInvalidMethod, msgMethodRequired, nil)
	}

	reg, found := r.methods[strings.ToLower(method)]
	if !found {
		slog.Warn(fmt.Sprintf("%s - unknown method %s", logPrefix, method))
		return errorResponse(req.ID, CodeMethodNotFound,
			fmt.Sprintf("Method '%s' is not supported. Available methods: %s", method, strings.Join(r.names, ", ")), nil)
	}

	if resp, rejected := r.checkVersion(req); rejected {
		return resp
	}

	handler, err := reg.factory()
	if err != nil || handler == nil {
		slog.Error(fmt.Sprintf("%s - no handler for %s: %v", logPrefix, reg.name, err))
		return errorResponse(req.ID, CodeInternalError, msgHandlerMissing, nil)
	}

	slog.Info(fmt.Sprintf("%s - routing %s", logPrefix, reg.name))
	result, err := handler.Handle(ctx, req.Params)
	if err != nil {
		return errorToResponse(req.ID, reg.name, err)
	}

	slog.Debug(fmt.Sprintf("%s - %s completed", logPrefix, reg.name))
	return ok(req.ID, result)
}

func (r *Router) checkVersion(req Request) (Response, bool) {
	if r.versions == nil || strings.TrimSpace(req.Ver) == "" {
		return Response{}, false
	}
	match, err := r.versions.Satisfies(req.Ver)
	if err != nil {
		return errorResponse(req.ID, CodeUnsupportedVersion,
			fmt.Sprintf("Invalid version constraint '%s'", req.Ver), nil), true
	}
	if !match {
		return errorResponse(req.ID, CodeUnsupportedVersion,
			fmt.Sprintf("API version %s does not satisfy '%s'", r.versions.Version(), req.Ver), nil), true
	}
	return Response{}, false
}

// ErrorFrom wraps err in a failed envelope the way Route does. Transports
// that call handlers directly use it to share the error mapping.
func ErrorFrom(id *string, method string, err error) Response {
	return errorToResponse(id, method, err)
}

// errorToResponse maps an error kind to its wire code. Internal errors are
// logged and replaced by a generic message.
func errorToResponse(id *string, method string, err error) Response {
	var patchErr *jsonpatch.Error
	if errors.As(err, &patchErr) {
		slog.Warn(fmt.Sprintf("%s - %s patch rejected: %v", logPrefix, method, err))
		return errorResponse(id, CodeValidationError, patchErr.Error(), patchErr.Operations)
	}

	var appErr *apperror.Error
	if !errors.As(err, &appErr) {
		slog.Error(fmt.Sprintf("%s - %s failed: %v", logPrefix, method, err))
		return errorResponse(id, CodeInternalError, msgUnexpectedFailure, nil)
	}

	switch appErr.Kind {
	case apperror.KindInvalidParams:
		slog.Warn(fmt.Sprintf("%s - %s invalid params: %s", logPrefix, method, appErr.Message))
		return errorResponse(id, CodeInvalidParams, appErr.Message, nil)
	case apperror.KindValidation:
		slog.Warn(fmt.Sprintf("%s - %s validation failed: %s", logPrefix, method, appErr.Message))
		var details interface{}
		if failures := validation.FailuresOf(appErr); len(failures) > 0 {
			details = failures
		}
		return errorResponse(id, CodeValidationError, appErr.Message, details)
	case apperror.KindNotFound:
		slog.Warn(fmt.Sprintf("%s - %s: %s", logPrefix, method, appErr.Message))
		return errorResponse(id, CodeNotFound, appErr.Message, nil)
	case apperror.KindPatch:
		return errorResponse(id, CodeValidationError, appErr.Message, appErr.Details)
	default:
		slog.Error(fmt.Sprintf("%s - %s failed: %v", logPrefix, method, err))
		return errorResponse(id, CodeInternalError, msgUnexpectedFailure, nil)
	}
}
