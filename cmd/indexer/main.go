package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/openpolitica/politician-indexer/internal/adapter"
	"github.com/openpolitica/politician-indexer/internal/config"
	"github.com/openpolitica/politician-indexer/internal/correlate"
	"github.com/openpolitica/politician-indexer/internal/domain"
	"github.com/openpolitica/politician-indexer/internal/logger"
	"github.com/openpolitica/politician-indexer/internal/pipeline"
	"github.com/openpolitica/politician-indexer/internal/providers/chamber"
	"github.com/openpolitica/politician-indexer/internal/providers/tse"
	"github.com/openpolitica/politician-indexer/internal/ratelimit"
	"github.com/openpolitica/politician-indexer/internal/store"
	"github.com/openpolitica/politician-indexer/internal/validate"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "populate":
		os.Exit(runPopulate(os.Args[2:]))
	case "validate":
		os.Exit(runValidate(os.Args[2:]))
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: indexer <command> [flags]

Commands:
  populate    Fetch the deputy roster and electoral archives into the database
  validate    Run integrity checks over the populated tables

Run 'indexer <command> -h' for command flags.
`)
}

// app holds everything a command needs after shared initialization
type app struct {
	cfg   *config.IndexerConfig
	db    *gorm.DB
	store store.Store
	clock adapter.Clock
}

// initApp loads configuration, initializes the logger, connects to the
// database and runs migrations. Callers must defer logger.Flush.
func initApp(ctx context.Context, service, configFile, envPath string) (*app, error) {
	cfg, err := config.LoadIndexerConfig(configFile, envPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": service,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := store.ConfigureConnectionPool(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
		return nil, fmt.Errorf("failed to configure connection pool: %w", err)
	}
	logger.InfoCtx(ctx, "Connected to database",
		zap.String("host", cfg.Database.Host),
		zap.String("dbname", cfg.Database.DBName),
	)

	if err := store.Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &app{
		cfg:   cfg,
		db:    db,
		store: store.NewPGStore(db),
		clock: adapter.NewClock(),
	}, nil
}

// signalContext returns a context canceled on SIGINT or SIGTERM
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	}()

	return ctx, cancel
}

func runPopulate(args []string) int {
	fs := flag.NewFlagSet("populate", flag.ExitOnError)
	configFile := fs.String("config", "", "Path to configuration file")
	envPath := fs.String("env", "config/", "Path to environment files")
	stages := fs.String("stage", "", "Comma-separated stage names to run (default all)")
	ids := fs.String("ids", "", "Comma-separated chamber deputy IDs to restrict the run to")
	yearFrom := fs.Int("year-from", 0, "Earliest electoral year to consider")
	yearTo := fs.Int("year-to", 0, "Latest electoral year to consider")
	noResume := fs.Bool("no-resume", false, "Start a fresh run instead of resuming the previous one")
	_ = fs.Parse(args)

	opts := pipeline.Options{
		YearFrom: *yearFrom,
		YearTo:   *yearTo,
		Resume:   !*noResume,
	}
	for _, name := range splitList(*stages) {
		if !domain.ValidStage(name) {
			fmt.Fprintf(os.Stderr, "unknown stage %q\n", name)
			return 2
		}
		opts.Stages = append(opts.Stages, name)
	}
	deputyIDs, err := parseIDs(*ids)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid -ids value: %v\n", err)
		return 2
	}
	opts.IDs = deputyIDs

	a, err := initApp(context.Background(), "populate", *configFile, *envPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer logger.Flush(2 * time.Second)

	ctx, cancel := signalContext()
	defer cancel()
	logger.InfoCtx(ctx, "Starting population run",
		zap.Strings("stages", splitList(*stages)),
		zap.Int64s("ids", opts.IDs),
		zap.Bool("resume", opts.Resume),
	)

	chamberHTTP := adapter.NewHTTPClient(a.cfg.Chamber.Timeout)
	tseHTTP := adapter.NewHTTPClient(a.cfg.TSE.Timeout)
	limiter := ratelimit.New(a.cfg.RateLimits)

	chamberClient := chamber.NewClient(chamberHTTP, limiter, a.clock, a.cfg.Chamber.BaseURL, a.cfg.Chamber.PageSize)
	catalog := tse.NewCatalogClient(tseHTTP, limiter, a.clock, a.cfg.TSE.CatalogURL)
	discovery := tse.NewDiscovery(catalog)
	archive := tse.NewArchiveReader(tseHTTP, adapter.NewFileSystem(), limiter, a.clock)
	datasets := tse.NewDatasets(catalog, archive)
	engine := correlate.NewEngine(discovery, datasets, a.clock, a.cfg.Pipeline.FallbackWindowYears)

	orch := pipeline.NewOrchestrator(a.cfg.Pipeline, a.store, chamberClient, engine, discovery, datasets, a.clock)

	report, err := orch.Run(ctx, opts)
	// A failed run still reports the stages it got through, so skipped and
	// failed units are never silently lost
	if report != nil {
		for _, sr := range report.Stages {
			logger.InfoCtx(ctx, "Stage finished",
				zap.String("stage", string(sr.Stage)),
				zap.Int("processed", sr.Processed),
				zap.Int("skipped", sr.Skipped),
				zap.Int("failed", sr.Failed),
				zap.Duration("elapsed", sr.Elapsed),
			)
		}
	}
	if err != nil {
		logger.ErrorCtx(ctx, err)
		return 1
	}
	logger.InfoCtx(ctx, "Population run finished",
		zap.String("run_id", report.RunID),
		zap.Int64("politicians", report.Politicians),
		zap.Int64("linked", report.Linked),
		zap.Float64("correlation_rate", report.CorrelationRate),
		zap.Duration("elapsed", report.Elapsed),
	)
	return 0
}

func runValidate(args []string) int {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	configFile := fs.String("config", "", "Path to configuration file")
	envPath := fs.String("env", "config/", "Path to environment files")
	fix := fs.Bool("fix", false, "Repair fixable findings by recomputing derived aggregates")
	_ = fs.Parse(args)

	a, err := initApp(context.Background(), "validate", *configFile, *envPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer logger.Flush(2 * time.Second)

	ctx, cancel := signalContext()
	defer cancel()
	logger.InfoCtx(ctx, "Starting validation run", zap.Bool("fix", *fix))

	validator := validate.New(a.store, a.cfg.Validation, a.clock)
	report, err := validator.Run(ctx, *fix)
	if err != nil {
		logger.ErrorCtx(ctx, err)
		return 1
	}

	for _, issue := range report.Issues {
		logger.WarnCtx(ctx, "Validation issue",
			zap.String("severity", string(issue.Severity)),
			zap.String("table", issue.Table),
			zap.String("check", issue.Check),
			zap.Int64("affected_rows", issue.AffectedRows),
			zap.Bool("fixed", issue.Fixed),
		)
	}
	logger.InfoCtx(ctx, "Validation run finished",
		zap.String("run_id", report.RunID),
		zap.Int("issues", len(report.Issues)),
		zap.Int("fixes_applied", report.FixesApplied),
		zap.Float64("correlation_rate", report.CorrelationRate),
		zap.Bool("healthy", report.Healthy),
	)

	if !report.Healthy {
		return 1
	}
	return 0
}

// splitList splits a comma-separated flag value, dropping empty elements
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parseIDs parses a comma-separated list of deputy IDs
func parseIDs(s string) ([]int64, error) {
	var out []int64
	for _, part := range splitList(s) {
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a deputy ID", part)
		}
		out = append(out, id)
	}
	return out, nil
}
