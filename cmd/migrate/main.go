package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	_ "github.com/lib/pq"
	"github.com/supplychain/backend/internal/infrastructure/config"
	"github.com/supplychain/backend/internal/infrastructure/logger"
	"github.com/supplychain/backend/internal/infrastructure/migration"
	"github.com/supplychain/backend/migrations"
	"go.uber.org/zap"
)

// command runs against an open migrator with the arguments after its name
type command func(m *migration.Migrator, log *zap.Logger, args []string) error

var errUsage = errors.New("invalid arguments")

var commands = map[string]command{
	"up": func(m *migration.Migrator, _ *zap.Logger, _ []string) error {
		return m.Up()
	},
	"down": func(m *migration.Migrator, _ *zap.Logger, _ []string) error {
		return m.Down()
	},
	"step": func(m *migration.Migrator, _ *zap.Logger, args []string) error {
		if len(args) < 1 {
			return fmt.Errorf("%w: step <n>", errUsage)
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("%w: step count %q", errUsage, args[0])
		}
		return m.Steps(n)
	},
	"goto": func(m *migration.Migrator, _ *zap.Logger, args []string) error {
		if len(args) < 1 {
			return fmt.Errorf("%w: goto <version>", errUsage)
		}
		v, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			return fmt.Errorf("%w: version %q", errUsage, args[0])
		}
		return m.GoTo(uint(v))
	},
	"version": func(m *migration.Migrator, log *zap.Logger, _ []string) error {
		v, dirty, err := m.Version()
		if err != nil {
			return err
		}
		if v == 0 {
			log.Info("No migrations applied")
			return nil
		}
		log.Info("Current migration version", zap.Uint("version", v), zap.Bool("dirty", dirty))
		return nil
	},
	"force": func(m *migration.Migrator, log *zap.Logger, args []string) error {
		if len(args) < 1 {
			return fmt.Errorf("%w: force <version>", errUsage)
		}
		v, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("%w: version %q", errUsage, args[0])
		}
		log.Warn("Forcing migration version", zap.Int("version", v))
		return m.Force(v)
	},
	"drop": func(m *migration.Migrator, _ *zap.Logger, args []string) error {
		if len(args) < 1 || (args[0] != "-confirm" && args[0] != "--confirm") {
			return fmt.Errorf("%w: drop removes every table, run 'migrate drop -confirm'", errUsage)
		}
		return m.Drop()
	},
}

func main() {
	var (
		migrationsPath string
		databaseURL    string
		logLevel       string
	)
	flag.StringVar(&migrationsPath, "path", "", "Migrations directory; empty uses the migrations built into the binary")
	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL URL; overrides the SCM_DATABASE_* settings")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Usage = printUsage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	name, rest := args[0], args[1:]

	log, err := logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	switch name {
	case "create":
		dir := migrationsPath
		if dir == "" {
			dir = "migrations"
		}
		if len(rest) < 1 {
			log.Fatal("Migration name required. Usage: migrate create <name> [description]")
		}
		desc := ""
		if len(rest) > 1 {
			desc = rest[1]
		}
		mf, err := migration.CreateMigration(dir, rest[0], desc)
		if err != nil {
			log.Fatal("Failed to create migration", zap.Error(err))
		}
		log.Info("Migration created",
			zap.String("version", mf.Version),
			zap.String("up_file", mf.UpPath),
			zap.String("down_file", mf.DownPath),
		)
		return
	case "list":
		var src fs.FS = migrations.FS
		if migrationsPath != "" {
			src = os.DirFS(migrationsPath)
		}
		names, err := migration.ListMigrations(src)
		if err != nil {
			log.Fatal("Failed to list migrations", zap.Error(err))
		}
		for _, n := range names {
			fmt.Println(n)
		}
		return
	}

	run, ok := commands[name]
	if !ok {
		log.Error("Unknown command", zap.String("command", name))
		printUsage()
		os.Exit(1)
	}

	m, closeDB := openMigrator(databaseURL, migrationsPath, log)
	defer closeDB()

	log.Info("Running migration command", zap.String("command", name))
	if err := run(m, log, rest); err != nil {
		if errors.Is(err, errUsage) {
			log.Error(err.Error())
			os.Exit(2)
		}
		log.Fatal("Migration command failed", zap.String("command", name), zap.Error(err))
	}
}

// openMigrator connects with the configured credentials, or with the URL
// when one is given. The returned func releases the migrator.
func openMigrator(databaseURL, path string, log *zap.Logger) (*migration.Migrator, func()) {
	if databaseURL != "" {
		if path == "" {
			log.Fatal("-database-url requires -path")
		}
		m, err := migration.NewFromURL(databaseURL, path, log)
		if err != nil {
			log.Fatal("Failed to create migrator", zap.Error(err))
		}
		return m, func() { _ = m.Close() }
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}
	if path == "" {
		path = cfg.Database.MigrationsPath
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to open database", zap.Error(err))
	}
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database", zap.Error(err))
	}
	m, err := migration.New(db, path, log)
	if err != nil {
		log.Fatal("Failed to create migrator", zap.Error(err))
	}
	return m, func() {
		_ = m.Close()
		_ = db.Close()
	}
}

func printUsage() {
	fmt.Println(`Supply chain database migration tool

Usage:
  migrate [flags] <command> [arguments]

Commands:
  up                    Apply all pending migrations
  down                  Roll back all migrations
  step <n>              Apply n migrations (positive=up, negative=down)
  goto <version>        Migrate to a specific version
  version               Show the current version
  force <version>       Set the version without running migrations
  drop -confirm         Drop every table
  create <name> [desc]  Write a new up/down migration pair
  list                  List migration files

Flags:
  -path string          Migrations directory (default: built-in migrations)
  -database-url string  PostgreSQL URL (requires -path)
  -log-level string     debug, info, warn or error (default: info)

Connection settings come from config.toml, .env and SCM_DATABASE_* variables.`)
}
