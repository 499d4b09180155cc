// Package server orchestrates all components: storage, NATS client, the
// request mediator, the RPC bridge and the HTTP surface.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	comms "github.com/nats-io/nats.go"

	"github.com/morezero/employee-service/internal/config"
	"github.com/morezero/employee-service/pkg/apiversion"
	"github.com/morezero/employee-service/pkg/commsutil"
	"github.com/morezero/employee-service/pkg/db"
	"github.com/morezero/employee-service/pkg/employee"
	"github.com/morezero/employee-service/pkg/events"
)

const logPrefix = "server:server"

const shutdownTimeout = 10 * time.Second

// Server owns the process-wide resources of a running service.
type Server struct {
	cfg        *config.Config
	app        *App
	nc         *comms.Conn
	sub        *comms.Subscription
	pool       *pgxpool.Pool
	httpServer *http.Server
	listener   net.Listener
	cancel     context.CancelFunc
}

// SetupLogging installs the default text logger at level.
func SetupLogging(level string) {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: ParseLevel(level)})))
}

// ParseLevel maps LOG_LEVEL to a slog level. Unknown values mean info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Run starts the server, blocks until shutdown signal, then cleans up.
func Run(cfg *config.Config) error {
	slog.Info(fmt.Sprintf("%s - Starting employee-service", logPrefix))
	if err := cfg.ValidateForServe(); err != nil {
		return err
	}

	s, err := Start(context.Background(), cfg)
	if err != nil {
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	slog.Info(fmt.Sprintf("%s - Received signal %s, shutting down", logPrefix, sig))

	s.Shutdown()
	return nil
}

// Start opens storage, connects to NATS when enabled, and serves HTTP and
// the NATS RPC subject. It returns once everything is listening.
func Start(ctx context.Context, cfg *config.Config) (*Server, error) {
	ctx, cancel := context.WithCancel(ctx)
	s := &Server{cfg: cfg, cancel: cancel}

	versions, err := apiversion.NewChecker(cfg.APIVersion)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("%s - %w", logPrefix, err)
	}

	store, ping, err := s.openStore(ctx)
	if err != nil {
		s.Shutdown()
		return nil, err
	}

	var publisher events.EventPublisher = &events.NoOpPublisher{}
	if cfg.NATSEnabled {
		nc, err := commsutil.Connect(cfg.COMMSURL, cfg.COMMSName, commsutil.ConnectOptions{})
		if err != nil {
			s.Shutdown()
			return nil, fmt.Errorf("%s - failed to connect to NATS: %w", logPrefix, err)
		}
		s.nc = nc
		publisher = events.NewCommsPublisher(nc, &events.CommsPublisherOpts{GlobalChangeSubject: cfg.EventSubjectOrDefault()})
	}

	s.app = NewApp(AppParams{Store: store, Publisher: publisher, Versions: versions, Ping: ping})

	if s.nc != nil {
		sub, err := SubscribeRPC(ctx, s.nc, cfg.RPCSubjectOrDefault(), s.app.Router, cfg.RequestTimeout)
		if err != nil {
			s.Shutdown()
			return nil, err
		}
		s.sub = sub
	}

	ln, err := net.Listen("tcp", cfg.ListenAddr())
	if err != nil {
		s.Shutdown()
		return nil, fmt.Errorf("%s - failed to listen on %s: %w", logPrefix, cfg.ListenAddr(), err)
	}
	s.listener = ln
	s.httpServer = &http.Server{
		Handler:           NewHandler(s.app, cfg.HealthCheckTimeout),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	go func() {
		slog.Info(fmt.Sprintf("%s - HTTP server listening on %s", logPrefix, ln.Addr()))
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error(fmt.Sprintf("%s - HTTP server error: %v", logPrefix, err))
		}
	}()

	slog.Info(fmt.Sprintf("%s - employee-service is ready (storage=%s, nats=%t)", logPrefix, cfg.Storage, cfg.NATSEnabled))
	return s, nil
}

// openStore selects the storage backend and seeds it when configured.
func (s *Server) openStore(ctx context.Context) (employee.Store, func(context.Context) error, error) {
	cfg := s.cfg
	if cfg.Storage == config.StorageMemory {
		store := employee.NewMemStore()
		if err := seedStore(ctx, store, cfg.SeedFile); err != nil {
			return nil, nil, err
		}
		return store, nil, nil
	}

	if cfg.RunMigrations {
		if err := db.EnsureDatabase(ctx, cfg.DatabaseURL); err != nil {
			return nil, nil, fmt.Errorf("%s - failed to ensure database: %w", logPrefix, err)
		}
	}
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("%s - failed to connect to database: %w", logPrefix, err)
	}
	s.pool = pool

	if cfg.RunMigrations {
		migrations, err := db.LoadMigrationFiles(cfg.MigrationPath)
		if err != nil {
			return nil, nil, fmt.Errorf("%s - failed to load migrations: %w", logPrefix, err)
		}
		if err := db.RunMigrations(ctx, pool, migrations); err != nil {
			return nil, nil, fmt.Errorf("%s - failed to run migrations: %w", logPrefix, err)
		}
	}

	repo := db.NewEmployeeRepository(pool)
	if cfg.SeedFile != "" {
		existing, err := repo.GetAll(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("%s - failed to check existing employees: %w", logPrefix, err)
		}
		if len(existing) == 0 {
			if err := seedStore(ctx, repo, cfg.SeedFile); err != nil {
				return nil, nil, err
			}
		} else {
			slog.Info(fmt.Sprintf("%s - %d employees present, skipping seed", logPrefix, len(existing)))
		}
	}
	return repo, pool.Ping, nil
}

func seedStore(ctx context.Context, store employee.Store, path string) error {
	if path == "" {
		return nil
	}
	rows, err := db.LoadSeedFile(path)
	if err != nil {
		return fmt.Errorf("%s - failed to load seed file: %w", logPrefix, err)
	}
	if _, err := db.Seed(ctx, store, rows); err != nil {
		return fmt.Errorf("%s - failed to seed employees: %w", logPrefix, err)
	}
	return nil
}

// Addr is the HTTP listen address.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// App exposes the wired service.
func (s *Server) App() *App {
	return s.app
}

// Shutdown stops accepting work, drains NATS and closes storage. It is safe
// on a partially started Server.
func (s *Server) Shutdown() {
	if s.sub != nil {
		if err := s.sub.Unsubscribe(); err != nil {
			slog.Warn(fmt.Sprintf("%s - unsubscribe: %v", logPrefix, err))
		}
	}
	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		if err := s.httpServer.Shutdown(ctx); err != nil {
			slog.Warn(fmt.Sprintf("%s - HTTP shutdown: %v", logPrefix, err))
		}
		cancel()
	}
	commsutil.Drain(s.nc, shutdownTimeout)
	if s.pool != nil {
		s.pool.Close()
	}
	if s.cancel != nil {
		s.cancel()
	}
	slog.Info(fmt.Sprintf("%s - Shutdown complete", logPrefix))
}
