package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/idelchi/diskusage/internal/config"
	"github.com/idelchi/diskusage/internal/dirstat"
	"github.com/idelchi/diskusage/internal/logctx"
	"github.com/idelchi/diskusage/internal/server"
	"github.com/idelchi/diskusage/internal/sizecache"
)

type dirOptions struct {
	path    string
	files   int
	dirs    int
	lenient bool
	output  string
}

type lsOptions struct {
	path   string
	sizes  bool
	output string
}

type extOptions struct {
	dirstat.ExtOptions

	output string
}

// stderrIsTerminal reports whether stderr is attached to a terminal.
func stderrIsTerminal() bool {
	fd := os.Stderr.Fd()

	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// setup loads the configuration and returns a context carrying the configured logger.
func setup(ctx context.Context, global *globalOptions) (*config.Config, context.Context, error) {
	cfg, err := config.Load(global.configPath)
	if err != nil {
		return nil, ctx, err
	}

	if global.debug {
		cfg.Logging.Level = "DEBUG"
	}

	human := cfg.Logging.Format == "text" || (cfg.Logging.Format == "auto" && stderrIsTerminal())
	logger := logctx.New(os.Stderr, logctx.ParseLevel(cfg.Logging.Level), human)
	logctx.SetDefaultLogger(logger)

	return cfg, logctx.WithLogger(ctx, logger), nil
}

// openCache opens the size cache selected by cfg.
func openCache(cfg config.CacheConfig, logger zerolog.Logger) (sizecache.Store, error) {
	var (
		store sizecache.Store
		err   error
	)

	switch cfg.Type {
	case "memory":
		store = sizecache.NewMemoryStore()
	default:
		store, err = sizecache.OpenBadger(sizecache.BadgerConfig{
			Dir:              cfg.Dir,
			BlockCacheSizeMB: cfg.BlockCacheSizeMB,
			IndexCacheSizeMB: cfg.IndexCacheSizeMB,
			Logger:           logger,
		})
		if err != nil {
			return nil, err
		}
	}

	return sizecache.NewInstrumented(store), nil
}

func runDir(ctx context.Context, global *globalOptions, opts dirOptions) error {
	cfg, ctx, err := setup(ctx, global)
	if err != nil {
		return err
	}

	if opts.files == 0 {
		opts.files = cfg.Limits.Files
	}

	if opts.dirs == 0 {
		opts.dirs = cfg.Limits.Dirs
	}

	policy := dirstat.AbortOnEntryError
	if opts.lenient {
		policy = dirstat.SkipEntryError
	}

	enableProgress := strings.ToLower(opts.output) != "json" &&
		!global.debug &&
		stderrIsTerminal()

	var progressHook func(files, bytes int64)

	if enableProgress {
		// Hide cursor for in-place updates; restore on exit.
		fmt.Fprint(os.Stderr, "\033[?25l")
		defer fmt.Fprint(os.Stderr, "\033[?25h")

		progressHook = func(files, bytes int64) {
			msg := fmt.Sprintf("Scanning… %d files, %s",
				files, humanize.IBytes(uint64(bytes))) //nolint:gosec // Bytes is always positive
			fmt.Fprintf(os.Stderr, "\r\033[2K%s\r", msg)
		}
	}

	stats, err := dirstat.Run(ctx, afero.NewOsFs(), dirstat.Options{
		Path:        opts.path,
		TopFiles:    opts.files,
		TopDirs:     opts.dirs,
		EntryErrors: policy,
	}, progressHook)

	// Clear the status line
	if enableProgress {
		fmt.Fprint(os.Stderr, "\r\033[2K\r")
	}

	if err != nil {
		return err
	}

	if opts.output == "json" {
		return PrintJSON(stats, os.Stdout)
	}

	return PrintTable(stats, os.Stdout)
}

func runLs(ctx context.Context, global *globalOptions, opts lsOptions) error {
	cfg, ctx, err := setup(ctx, global)
	if err != nil {
		return err
	}

	var cache sizecache.Store = sizecache.NewMemoryStore()

	// The persistent cache is only opened when directory sizes are needed.
	if opts.sizes {
		cache, err = openCache(cfg.Cache, *logctx.FromContext(ctx))
		if err != nil {
			return err
		}
	}

	defer cache.Close()

	listing, err := dirstat.List(ctx, afero.NewOsFs(), opts.path, opts.sizes, cache)
	if err != nil {
		return err
	}

	if opts.output == "json" {
		return PrintJSON(listing, os.Stdout)
	}

	return PrintListing(listing, os.Stdout)
}

func runExt(ctx context.Context, global *globalOptions, opts extOptions) error {
	_, ctx, err := setup(ctx, global)
	if err != nil {
		return err
	}

	report, err := dirstat.Extensions(ctx, opts.ExtOptions)
	if err != nil {
		return err
	}

	if opts.output == "json" {
		return PrintJSON(report, os.Stdout)
	}

	return PrintExtensions(report, os.Stdout)
}

func runServe(ctx context.Context, global *globalOptions, address string) error {
	cfg, ctx, err := setup(ctx, global)
	if err != nil {
		return err
	}

	if address != "" {
		cfg.Server.Address = address
	}

	logger := *logctx.FromContext(ctx)

	cache, err := openCache(cfg.Cache, logger)
	if err != nil {
		return err
	}
	defer cache.Close()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(afero.NewOsFs(), cache, server.Limits{
		Files: cfg.Limits.Files,
		Dirs:  cfg.Limits.Dirs,
		Max:   cfg.Limits.Max,
	}, logger)

	return srv.ListenAndServe(ctx, cfg.Server.Address, cfg.Server.ShutdownTimeout)
}
