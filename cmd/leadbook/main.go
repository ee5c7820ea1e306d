package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/leadbook"
	lbhttp "github.com/fwojciec/leadbook/http"
	"github.com/fwojciec/leadbook/postgres"
	lbs3 "github.com/fwojciec/leadbook/s3"
	lbslog "github.com/fwojciec/leadbook/slog"
	"github.com/fwojciec/leadbook/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Path of the YAML configuration file. Set before calling Run().
	ConfigPath string

	// Stdin feeds commands that read secrets. Nil means no input.
	Stdin io.Reader

	// Config overrides loading ConfigPath when set.
	Config *Config

	// Open stores. At most one is set.
	SQLite   *sqlite.DB
	Postgres *postgres.DB

	// Services for end-to-end testing.
	BusinessService leadbook.BusinessService
	TrackingService leadbook.TrackingService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		ConfigPath: defaultConfigPath(),
		Stdin:      os.Stdin,
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.Postgres != nil {
		return m.Postgres.Close()
	}
	if m.SQLite != nil {
		return m.SQLite.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stdin:  m.Stdin,
		Stderr: stderr,
		Now:    time.Now,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("leadbook"),
		kong.Description("Find local businesses and track outreach."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'leadbook --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	cfg := m.Config
	if cfg == nil {
		loaded, err := LoadConfig(m.ConfigPath)
		if err != nil {
			fmt.Fprintf(stderr, "Hint: Set LEADBOOK_CONFIG to use a different config file\n")
			return fmt.Errorf("failed to load config from %q: %w", m.ConfigPath, err)
		}
		loaded.ApplyEnv(os.Getenv)
		cfg = &loaded
	}

	deps.Location, err = cfg.Location()
	if err != nil {
		return err
	}

	logger := slog.New(slog.DiscardHandler)
	if cli.Verbose {
		logger = slog.New(slog.NewTextHandler(stderr, nil))
	}
	deps.Logger = logger

	// The search client is needed by search and categories only, but it
	// holds no resources.
	searcher := lbhttp.NewSearcher(cfg.APIURL,
		lbhttp.WithRateLimit(cfg.SearchRPS),
		lbhttp.WithLogger(logger),
	)
	deps.Categories = searcher
	deps.Searcher = searcher
	if cli.Verbose {
		deps.Searcher = lbslog.NewLoggingSearcher(searcher, logger)
	}

	// These commands never touch the record store.
	if cmd := kongCtx.Command(); cmd == "categories" || strings.HasPrefix(cmd, "keyring ") {
		return kongCtx.Run(deps)
	}

	if lbs3.IsURL(cli.Export.Output) {
		store, err := lbs3.New(ctx, lbs3.Config{
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			PathStyle: cfg.S3PathStyle,
		})
		if err != nil {
			fmt.Fprintf(stderr, "error: %s\n", leadbook.ErrorMessage(err))
			return err
		}
		deps.Exports = store
	}

	if err := cfg.ResolvePostgresDSN(); err != nil {
		fmt.Fprintf(stderr, "warning: %v\n", err)
		fmt.Fprintf(stderr, "Hint: Run 'leadbook keyring set %s' to store the DSN\n", cfg.PostgresKeyring)
	}

	m.openStore(ctx, cfg, stderr)
	defer m.Close()

	deps.Businesses = m.BusinessService
	deps.Tracking = m.TrackingService
	if cli.Verbose {
		deps.Businesses = lbslog.NewLoggingBusinessService(deps.Businesses, logger)
		deps.Tracking = lbslog.NewLoggingTrackingService(deps.Tracking, logger)
	}

	return kongCtx.Run(deps)
}

// openStore wires the record store named by cfg. A store that cannot be
// opened is still wired: its services report EUNAVAILABLE, which read
// commands treat as an empty store.
func (m *Main) openStore(ctx context.Context, cfg *Config, stderr io.Writer) {
	if cfg.PostgresDSN != "" {
		m.Postgres = postgres.NewDB(cfg.PostgresDSN)
		openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := m.Postgres.Open(openCtx); err != nil {
			fmt.Fprintf(stderr, "warning: postgres unavailable: %v\n", err)
			fmt.Fprintf(stderr, "Hint: Check LEADBOOK_POSTGRES_DSN\n")
		}
		m.BusinessService = postgres.NewBusinessService(m.Postgres)
		m.TrackingService = postgres.NewTrackingService(m.Postgres)
		return
	}

	m.SQLite = sqlite.NewDB(cfg.DBPath)
	if err := m.SQLite.Open(); err != nil {
		fmt.Fprintf(stderr, "warning: database at %q unavailable: %v\n", cfg.DBPath, err)
		fmt.Fprintf(stderr, "Hint: Set LEADBOOK_DB to use a different database path\n")
	}
	m.BusinessService = sqlite.NewBusinessService(m.SQLite)
	m.TrackingService = sqlite.NewTrackingService(m.SQLite)
}
