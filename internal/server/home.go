package server

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/morezero/employee-service/pkg/employee"
	"github.com/morezero/employee-service/pkg/mediator"
)

// homePageTemplate is the service status page.
const homePageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>Employee Service</title>
  <style>
    * { box-sizing: border-box; }
    body { background: #fff; color: #000; font-family: system-ui, sans-serif; margin: 0; padding: 2rem; line-height: 1.5; }
    h1, h2 { color: #0066cc; }
    .status-healthy { color: #0066cc; font-weight: bold; }
    .status-unhealthy { color: #cc0000; font-weight: bold; }
    table { border-collapse: collapse; width: 100%; max-width: 900px; margin-top: 0.5rem; }
    th, td { text-align: left; padding: 0.5rem 0.75rem; border: 1px solid #ccc; }
    th { background: #f0f4f8; color: #0066cc; }
    .stat { font-weight: bold; color: #0066cc; }
    .error { color: #cc0000; }
    section { margin-bottom: 2rem; }
  </style>
</head>
<body>
  <h1>Employee Service</h1>

  <section>
    <h2>Health</h2>
    <p>Status: <span class="status-{{.Health.Status}}">{{.Health.Status}}</span></p>
    {{if .Health.Error}}<p class="error">{{.Health.Error}}</p>{{end}}
    <p>Timestamp: {{.Health.Timestamp}}</p>
    {{if .Version}}<p>API version: <span class="stat">{{.Version}}</span></p>{{end}}
  </section>

  <section>
    <h2>Employees</h2>
    {{if .EmployeesError}}
    <p class="error">Could not load employees: {{.EmployeesError}}</p>
    {{else}}
    <p>Total employees: <span class="stat">{{len .Employees}}</span></p>
    {{end}}
  </section>

  <section>
    <h2>RPC methods</h2>
    <table>
      <thead><tr><th>Method</th></tr></thead>
      <tbody>
        {{range .Methods}}<tr><td>{{.}}</td></tr>
        {{end}}
      </tbody>
    </table>
  </section>
</body>
</html>
`

type homeData struct {
	Health         healthStatus
	Version        string
	Employees      []employee.Employee
	EmployeesError string
	Methods        []string
}

func (h *httpHandlers) handleHome() http.HandlerFunc {
	tmpl := template.Must(template.New("home").Parse(homePageTemplate))
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), h.healthTimeout)
		defer cancel()

		data := homeData{Health: h.checkHealth(ctx), Methods: h.app.Router.Methods()}
		if h.app.Versions != nil {
			data.Version = h.app.Versions.Version()
		}
		res, err := mediator.Send[employee.GetAllResult](ctx, h.app.Mediator, employee.GetAllQuery{})
		if err != nil {
			data.EmployeesError = "employees unavailable"
			slog.Warn(fmt.Sprintf("%s - home page employee list: %v", logPrefix, err))
		} else {
			data.Employees = res.Data
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := tmpl.Execute(w, data); err != nil {
			slog.Error(fmt.Sprintf("%s - home template execute: %v", logPrefix, err))
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
	}
}
