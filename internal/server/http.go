package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/morezero/employee-service/pkg/apperror"
	"github.com/morezero/employee-service/pkg/employee"
	"github.com/morezero/employee-service/pkg/jsonpatch"
	"github.com/morezero/employee-service/pkg/mediator"
	"github.com/morezero/employee-service/pkg/methods"
	"github.com/morezero/employee-service/pkg/product"
	"github.com/morezero/employee-service/pkg/rpc"
	"github.com/morezero/employee-service/pkg/weather"
)

const maxBodyBytes = 1 << 20

// NewHandler builds the HTTP surface: REST resources, the RPC bridge
// endpoints and the health probes.
func NewHandler(app *App, healthTimeout time.Duration) http.Handler {
	h := &httpHandlers{app: app, healthTimeout: healthTimeout}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.handleHome())

	mux.HandleFunc("GET /api/employees", h.getEmployees)
	mux.HandleFunc("POST /api/employees", h.addEmployee)
	mux.HandleFunc("GET /api/employees/{id}", h.getEmployee)
	mux.HandleFunc("PUT /api/employees/{id}", h.updateEmployee)
	mux.HandleFunc("PATCH /api/employees/{id}", h.patchEmployee)
	mux.HandleFunc("PATCH /api/employees/{id}/json-patch", h.jsonPatchEmployee)

	mux.HandleFunc("GET /api/weather", h.getForecasts)
	mux.HandleFunc("POST /api/weather", h.addForecast)
	mux.HandleFunc("GET /api/weather/{id}", h.getForecast)
	mux.HandleFunc("PUT /api/weather/{id}", h.updateForecast)
	mux.HandleFunc("DELETE /api/weather/{id}", h.deleteForecast)

	mux.HandleFunc("GET /api/products", h.getProducts)

	mux.HandleFunc("POST /mcp/request", h.rpcRequest)
	mux.Handle("GET /rpc/ws", newWSHandler(app.Router))

	mux.HandleFunc("GET /health", h.health)
	mux.HandleFunc("GET /ready", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	})
	return mux
}

type httpHandlers struct {
	app           *App
	healthTimeout time.Duration
}

// statusForCode maps an envelope error code to the REST status.
func statusForCode(code string) int {
	switch code {
	case rpc.CodeInvalidParams, rpc.CodeValidationError, rpc.CodeInvalidMethod, rpc.CodeUnsupportedVersion:
		return http.StatusBadRequest
	case rpc.CodeNotFound, rpc.CodeMethodNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error(fmt.Sprintf("%s - response encode: %v", logPrefix, err))
	}
}

// writeError answers a REST call with the envelope error detail.
func writeError(w http.ResponseWriter, operation string, err error) {
	resp := rpc.ErrorFrom(nil, operation, err)
	writeJSON(w, statusForCode(resp.Error.Code), resp.Error)
}

func pathID(r *http.Request) (int, error) {
	raw := r.PathValue("id")
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperror.InvalidParams(fmt.Sprintf("Invalid id '%s'", raw), err)
	}
	return id, nil
}

func decodeBody[T any](w http.ResponseWriter, r *http.Request) (T, error) {
	var v T
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return v, apperror.InvalidParams("Request body could not be read", err)
	}
	if len(body) == 0 {
		return v, apperror.InvalidParams("Request body is required", nil)
	}
	if err := json.Unmarshal(body, &v); err != nil {
		return v, apperror.InvalidParams(fmt.Sprintf("Invalid request body: %v", err), err)
	}
	return v, nil
}

func (h *httpHandlers) getEmployees(w http.ResponseWriter, r *http.Request) {
	res, err := mediator.Send[employee.GetAllResult](r.Context(), h.app.Mediator, employee.GetAllQuery{})
	if err != nil {
		writeError(w, employee.NameGetAll, err)
		return
	}
	writeJSON(w, http.StatusOK, res.Data)
}

func (h *httpHandlers) getEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, employee.NameGetByID, err)
		return
	}
	e, err := mediator.Send[employee.Employee](r.Context(), h.app.Mediator, employee.GetByIDQuery{ID: id})
	if err != nil {
		writeError(w, employee.NameGetByID, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (h *httpHandlers) addEmployee(w http.ResponseWriter, r *http.Request) {
	req, err := decodeBody[employee.AddRequest](w, r)
	if err != nil {
		writeError(w, employee.NameAdd, err)
		return
	}
	cmd, err := req.ToCommand()
	if err != nil {
		writeError(w, employee.NameAdd, err)
		return
	}
	e, err := mediator.Send[employee.Employee](r.Context(), h.app.Mediator, cmd)
	if err != nil {
		writeError(w, employee.NameAdd, err)
		return
	}
	w.Header().Set("Location", fmt.Sprintf("/api/employees/%d", e.ID))
	writeJSON(w, http.StatusCreated, e)
}

func (h *httpHandlers) updateEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, employee.NameUpdate, err)
		return
	}
	req, err := decodeBody[employee.UpdateRequest](w, r)
	if err != nil {
		writeError(w, employee.NameUpdate, err)
		return
	}
	cmd, err := req.ToCommand(id)
	if err != nil {
		writeError(w, employee.NameUpdate, err)
		return
	}
	if _, err := mediator.Send[mediator.Unit](r.Context(), h.app.Mediator, cmd); err != nil {
		writeError(w, employee.NameUpdate, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *httpHandlers) patchEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, employee.NamePatch, err)
		return
	}
	req, err := decodeBody[employee.PatchRequest](w, r)
	if err != nil {
		writeError(w, employee.NamePatch, err)
		return
	}
	cmd, err := req.ToCommand(id)
	if err != nil {
		writeError(w, employee.NamePatch, err)
		return
	}
	if _, err := mediator.Send[mediator.Unit](r.Context(), h.app.Mediator, cmd); err != nil {
		writeError(w, employee.NamePatch, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *httpHandlers) jsonPatchEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, employee.NameJSONPatch, err)
		return
	}
	ops, err := decodeBody[[]jsonpatch.Operation](w, r)
	if err != nil {
		writeError(w, employee.NameJSONPatch, err)
		return
	}
	found, err := mediator.Send[bool](r.Context(), h.app.Mediator, employee.JSONPatchCommand{ID: id, Operations: ops})
	if err != nil {
		writeError(w, employee.NameJSONPatch, err)
		return
	}
	if !found {
		writeError(w, employee.NameJSONPatch, apperror.NotFound("Employee with ID %d not found", id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *httpHandlers) getForecasts(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.app.Weather.GetAll())
}

func (h *httpHandlers) getForecast(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, methods.WeatherGetByID, err)
		return
	}
	f, ok := h.app.Weather.GetByID(id)
	if !ok {
		writeError(w, methods.WeatherGetByID, forecastNotFound(id))
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (h *httpHandlers) addForecast(w http.ResponseWriter, r *http.Request) {
	f, err := decodeBody[weather.Forecast](w, r)
	if err != nil {
		writeError(w, "weather.add", err)
		return
	}
	created := h.app.Weather.Add(f)
	w.Header().Set("Location", fmt.Sprintf("/api/weather/%d", created.ID))
	writeJSON(w, http.StatusCreated, created)
}

func (h *httpHandlers) updateForecast(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, "weather.update", err)
		return
	}
	f, err := decodeBody[weather.Forecast](w, r)
	if err != nil {
		writeError(w, "weather.update", err)
		return
	}
	f.ID = id
	if _, ok := h.app.Weather.Update(f); !ok {
		writeError(w, "weather.update", forecastNotFound(id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *httpHandlers) deleteForecast(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, "weather.delete", err)
		return
	}
	if !h.app.Weather.Delete(id) {
		writeError(w, "weather.delete", forecastNotFound(id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func forecastNotFound(id int) error {
	return apperror.NotFound("Weather forecast with ID %d not found", id)
}

func (h *httpHandlers) getProducts(w http.ResponseWriter, r *http.Request) {
	res, err := mediator.Send[product.GetAllResult](r.Context(), h.app.Mediator, product.GetAllQuery{})
	if err != nil {
		writeError(w, product.NameGetAll, err)
		return
	}
	writeJSON(w, http.StatusOK, res.Data)
}

// rpcRequest is the HTTP RPC bridge. It answers 200 with the envelope for
// every decodable request and 400 with an envelope otherwise.
func (h *httpHandlers) rpcRequest(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		resp := rpc.ErrorFrom(nil, "", apperror.InvalidParams("Request body could not be read", err))
		writeJSON(w, http.StatusBadRequest, resp)
		return
	}
	data, decoded := handleFrame(r.Context(), h.app.Router, body)
	status := http.StatusOK
	if !decoded {
		status = http.StatusBadRequest
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		slog.Warn(fmt.Sprintf("%s - write rpc response: %v", logPrefix, err))
	}
}

// healthStatus is the body of GET /health.
type healthStatus struct {
	Status    string `json:"status"`
	Storage   bool   `json:"storage"`
	Error     string `json:"error,omitempty"`
	Timestamp string `json:"timestamp"`
}

func (h *httpHandlers) checkHealth(ctx context.Context) healthStatus {
	ctx, cancel := context.WithTimeout(ctx, h.healthTimeout)
	defer cancel()

	out := healthStatus{Status: "healthy", Storage: true, Timestamp: time.Now().UTC().Format(time.RFC3339)}
	if err := h.app.Healthy(ctx); err != nil {
		out.Status = "unhealthy"
		out.Storage = false
		if errors.Is(err, context.DeadlineExceeded) {
			out.Error = "storage check timed out"
		} else {
			out.Error = "storage unavailable"
		}
		slog.Warn(fmt.Sprintf("%s - health check failed: %v", logPrefix, err))
	}
	return out
}

func (h *httpHandlers) health(w http.ResponseWriter, r *http.Request) {
	status := h.checkHealth(r.Context())
	code := http.StatusOK
	if status.Status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, status)
}
