package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/morezero/employee-service/pkg/apiversion"
	"github.com/morezero/employee-service/pkg/employee"
	"github.com/morezero/employee-service/pkg/events"
	"github.com/morezero/employee-service/pkg/mediator"
	"github.com/morezero/employee-service/pkg/methods"
	"github.com/morezero/employee-service/pkg/product"
	"github.com/morezero/employee-service/pkg/rpc"
	"github.com/morezero/employee-service/pkg/weather"
)

// App is the transport-independent service: the mediator with every handler
// registered, the RPC router built on it and the read models behind both.
type App struct {
	Mediator *mediator.Mediator
	Router   *rpc.Router
	Weather  *weather.Repository
	Versions *apiversion.Checker
	// Ping checks the storage backend. Nil means always healthy.
	Ping func(ctx context.Context) error
}

// AppParams are the collaborators NewApp wires together.
type AppParams struct {
	Store     employee.Store
	Publisher events.EventPublisher
	Versions  *apiversion.Checker
	Now       func() time.Time
	Ping      func(ctx context.Context) error
}

// NewApp registers every request handler and RPC method.
func NewApp(p AppParams) *App {
	now := p.Now
	if now == nil {
		now = time.Now
	}

	m := mediator.New()
	employee.Register(m, employee.NewService(p.Store, p.Publisher), now)
	product.Register(m)

	forecasts := weather.NewRepository(now().UTC(), func(action string, f weather.Forecast) {
		slog.Info(fmt.Sprintf("%s - weather forecast %d %s", logPrefix, f.ID, action))
	})

	router := rpc.NewRouter(p.Versions)
	methods.Register(router, methods.Deps{Mediator: m, Weather: forecasts})

	return &App{
		Mediator: m,
		Router:   router,
		Weather:  forecasts,
		Versions: p.Versions,
		Ping:     p.Ping,
	}
}

// Healthy pings storage.
func (a *App) Healthy(ctx context.Context) error {
	if a.Ping == nil {
		return nil
	}
	return a.Ping(ctx)
}
