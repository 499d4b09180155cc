// Package main is the entrypoint for the employee service.
package main

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"os"

	"github.com/docopt/docopt-go"

	"github.com/morezero/employee-service/internal/config"
	"github.com/morezero/employee-service/internal/server"
	"github.com/morezero/employee-service/pkg/db"
)

const version = "1.0.0"

const defaultSeedFile = "seeds/employees.yaml"

const usage = `Employee service.

Usage:
    employees [serve]
    employees migrate (up | status)
    employees ensure-db [<name>]
    employees clear
    employees seed [<file>] [--reset]
    employees -h | --help
    employees --version

Commands:
    serve           (default) Start the service (HTTP, NATS RPC, storage).
    migrate up      Run database migrations only.
    migrate status  Show whether the employees schema is applied.
    ensure-db       Create the database named in DATABASE_URL, or <name> on the same host.
    clear           Truncate the employees table; schema is preserved.
    seed            Load employees from a YAML seed file (default SEED_FILE or seeds/employees.yaml).

Options:
    -h --help       Show this screen.
    --version       Show version.
    --reset         Clear existing employees before seeding.

Environment: DATABASE_URL, STORAGE, MIGRATION_PATH, SEED_FILE, HTTP_ADDR, COMMS_URL, LOG_LEVEL. See README.
`

// Command names.
const (
	cmdServe    = "serve"
	cmdMigrate  = "migrate-up"
	cmdStatus   = "migrate-status"
	cmdEnsureDB = "ensure-db"
	cmdClear    = "clear"
	cmdSeed     = "seed"
	cmdHelp     = "help"
)

// command is one parsed invocation.
type command struct {
	name   string
	arg    string
	reset  bool
	output string
}

// parseCommand maps argv (without the program name) to a command. Help and
// version requests come back as cmdHelp with the text to print.
func parseCommand(args []string) (command, error) {
	if args == nil {
		args = []string{}
	}
	var output string
	parser := &docopt.Parser{HelpHandler: func(_ error, text string) { output = text }}
	opts, err := parser.ParseArgs(usage, args, version)
	if err != nil {
		return command{}, fmt.Errorf("invalid arguments: %s", output)
	}
	if opts == nil {
		return command{name: cmdHelp, output: output}, nil
	}

	arg := func(key string) string {
		s, _ := opts.String(key)
		return s
	}
	flag := func(key string) bool {
		b, _ := opts.Bool(key)
		return b
	}

	switch {
	case flag("migrate") && flag("up"):
		return command{name: cmdMigrate}, nil
	case flag("migrate") && flag("status"):
		return command{name: cmdStatus}, nil
	case flag("ensure-db"):
		return command{name: cmdEnsureDB, arg: arg("<name>")}, nil
	case flag("clear"):
		return command{name: cmdClear}, nil
	case flag("seed"):
		return command{name: cmdSeed, arg: arg("<file>"), reset: flag("--reset")}, nil
	default:
		return command{name: cmdServe}, nil
	}
}

func main() {
	cmd, err := parseCommand(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if cmd.name == cmdHelp {
		fmt.Println(cmd.output)
		return
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("employees: load config: %v", err)
	}
	server.SetupLogging(cfg.LogLevel)

	switch cmd.name {
	case cmdMigrate:
		err = runMigrateUp(cfg)
	case cmdStatus:
		err = runMigrateStatus(cfg)
	case cmdEnsureDB:
		err = runEnsureDB(cfg, cmd.arg)
	case cmdClear:
		err = runClear(cfg)
	case cmdSeed:
		err = runSeed(cfg, cmd.arg, cmd.reset)
	default:
		err = server.Run(cfg)
	}
	if err != nil {
		log.Fatalf("employees %s: %v", cmd.name, err)
	}
}

func runMigrateUp(cfg *config.Config) error {
	if err := cfg.ValidateForDB(); err != nil {
		return err
	}
	ctx := context.Background()
	if err := db.EnsureDatabase(ctx, cfg.DatabaseURL); err != nil {
		return fmt.Errorf("ensure database: %w", err)
	}
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	migrations, err := db.LoadMigrationFiles(cfg.MigrationPath)
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}
	if err := db.RunMigrations(ctx, pool, migrations); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

func runMigrateStatus(cfg *config.Config) error {
	if err := cfg.ValidateForDB(); err != nil {
		return err
	}
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	state, err := db.MigrationStatus(ctx, pool, cfg.MigrationPath)
	if err != nil {
		return err
	}
	fmt.Println(state)
	return nil
}

// targetDatabaseURL swaps the database name of databaseURL for name. An empty
// name keeps the URL unchanged.
func targetDatabaseURL(databaseURL, name string) (string, error) {
	if name == "" {
		return databaseURL, nil
	}
	u, err := url.Parse(databaseURL)
	if err != nil {
		return "", fmt.Errorf("parse DATABASE_URL: %w", err)
	}
	u.Path = "/" + name
	return u.String(), nil
}

func runEnsureDB(cfg *config.Config, name string) error {
	if err := cfg.ValidateForDB(); err != nil {
		return err
	}
	target, err := targetDatabaseURL(cfg.DatabaseURL, name)
	if err != nil {
		return err
	}
	if err := db.EnsureDatabase(context.Background(), target); err != nil {
		return err
	}
	fmt.Println("Database is ready.")
	return nil
}

func runClear(cfg *config.Config) error {
	if err := cfg.ValidateForDB(); err != nil {
		return err
	}
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	if err := db.ClearEmployees(ctx, pool); err != nil {
		return fmt.Errorf("clear employees: %w", err)
	}
	return nil
}

// seedPath picks the seed file: the argument, then SEED_FILE, then the
// bundled default.
func seedPath(override, configured string) string {
	if override != "" {
		return override
	}
	if configured != "" {
		return configured
	}
	return defaultSeedFile
}

func runSeed(cfg *config.Config, file string, reset bool) error {
	if err := cfg.ValidateForDB(); err != nil {
		return err
	}
	rows, err := db.LoadSeedFile(seedPath(file, cfg.SeedFile))
	if err != nil {
		return err
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	if reset {
		if err := db.ClearEmployees(ctx, pool); err != nil {
			return fmt.Errorf("clear employees: %w", err)
		}
	}
	n, err := db.Seed(ctx, db.NewEmployeeRepository(pool), rows)
	if err != nil {
		return fmt.Errorf("seed employees: %w", err)
	}
	fmt.Printf("Seeded %d employees.\n", n)
	return nil
}
