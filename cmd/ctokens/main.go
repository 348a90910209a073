package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/graeme-hill/clex-go/config"
	"github.com/graeme-hill/clex-go/lib"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx, os.Args[1:], os.Stdin, os.Stdout)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		logger.Error("ctokens failed", slog.Any("error", err))
		stop()
		os.Exit(1)
	}
}

type options struct {
	configPath string
	summary    bool
	top        int
	store      bool
	watch      bool
}

type app struct {
	cfg    config.Config
	opts   options
	format lib.Format
	logger *slog.Logger
	out    io.Writer
	store  *lib.TokenStore
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("ctokens", flag.ContinueOnError)
	var opts options
	fs.StringVar(&opts.configPath, "config", "", "YAML configuration file")
	fs.BoolVar(&opts.summary, "summary", false, "Print a summary instead of the tokens")
	fs.IntVar(&opts.top, "top", 10, "Identifiers listed in the summary")
	fs.BoolVar(&opts.store, "store", false, "Save every tokenized file to the token database")
	fs.BoolVar(&opts.watch, "watch", false, "Keep running and re-tokenize files when they change")
	format := fs.String("format", "", "Output format: text, json or yaml")
	logLevel := fs.String("log-level", "", "Log level: debug, info, warn or error")
	diagnostics := fs.Bool("diagnostics", false, "Log unterminated strings and comments")
	driver := fs.String("driver", "", "Token database driver: postgres or sqlite")
	dsn := fs.String("dsn", "", "Token database connection string")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: ctokens [flags] <file|dir|->...")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return fmt.Errorf("no input given")
	}

	cfg := config.Default()
	if opts.configPath != "" {
		var err error
		if cfg, err = config.LoadConfig(opts.configPath); err != nil {
			return err
		}
	}
	// flags given explicitly win over the file
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "format":
			cfg.Format = *format
		case "log-level":
			cfg.LogLevel = *logLevel
		case "diagnostics":
			cfg.Diagnostics = *diagnostics
		case "driver":
			cfg.Database.Driver = *driver
		case "dsn":
			cfg.Database.DSN = *dsn
		}
	})

	a, err := newApp(cfg, opts, stdout)
	if err != nil {
		return err
	}
	defer a.close()

	if opts.store {
		if err := a.openStore(ctx); err != nil {
			return err
		}
	}

	for _, path := range fs.Args() {
		files, err := readInput(path, stdin, cfg.Extensions)
		if err != nil {
			return err
		}
		for _, f := range files {
			if err := a.process(ctx, f); err != nil {
				return err
			}
		}
	}

	if opts.watch {
		return a.watch(ctx, fs.Args())
	}
	return nil
}

func newApp(cfg config.Config, opts options, stdout io.Writer) (*app, error) {
	format, err := lib.ParseFormat(cfg.Format)
	if err != nil {
		return nil, err
	}
	logger, err := cfg.NewLogger()
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, opts: opts, format: format, logger: logger, out: stdout}, nil
}

func (a *app) close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Error("failed to close token store", slog.Any("error", err))
		}
	}
}

func (a *app) openStore(ctx context.Context) error {
	store, err := lib.OpenTokenStore(a.cfg.Database.Driver, a.cfg.Database.DSN)
	if err != nil {
		return err
	}
	a.store = store
	return store.RunMigrations(ctx)
}

func readInput(path string, stdin io.Reader, extensions []string) ([]lib.SourceFile, error) {
	if path == "-" {
		bytes, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return []lib.SourceFile{lib.NewSourceFile("stdin", string(bytes))}, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return lib.ReadSourcesFromDir(path, extensions)
	}
	f, err := lib.ReadSourceFile(path)
	if err != nil {
		return nil, err
	}
	return []lib.SourceFile{f}, nil
}

func (a *app) process(ctx context.Context, f lib.SourceFile) error {
	a.logger.Debug("tokenized file",
		slog.String("path", f.Path),
		slog.Int("tokens", len(f.Tokens)))

	if a.cfg.Diagnostics {
		for _, d := range f.Diagnostics {
			a.logger.Warn(d.Message,
				slog.String("path", f.Path),
				slog.Int("line", d.Line),
				slog.String("kind", d.Kind.String()))
		}
	}

	if a.opts.summary {
		stream := lib.Stream(f.Text)
		defer stream.Close()
		summary, err := lib.SummaryFromReader(stream)
		if err != nil {
			return fmt.Errorf("summarizing %s: %w", f.Path, err)
		}
		fmt.Fprintf(a.out, "%s\n%s\n", f.Path, strings.Repeat("-", len(f.Path)))
		if err := lib.WriteSummary(a.out, summary, a.opts.top); err != nil {
			return err
		}
	} else if err := lib.WriteTokens(a.out, a.format, f.Tokens); err != nil {
		return err
	}

	if a.store != nil {
		id, err := a.store.SaveRun(ctx, f.Path, f.Tokens)
		if err != nil {
			return err
		}
		a.logger.Info("stored tokens",
			slog.String("path", f.Path),
			slog.String("run", id.String()),
			slog.Int("tokens", len(f.Tokens)))
	}
	return nil
}

func (a *app) watch(ctx context.Context, paths []string) error {
	w, err := lib.NewWatcher(a.cfg.Extensions, a.cfg.Watch.Debounce,
		func(f lib.SourceFile) {
			a.logger.Info("file changed", slog.String("path", f.Path))
			if err := a.process(ctx, f); err != nil {
				a.logger.Error("failed to process changed file", slog.String("path", f.Path), slog.Any("error", err))
			}
		},
		func(err error) {
			a.logger.Error("watcher error", slog.Any("error", err))
		})
	if err != nil {
		return err
	}

	for _, path := range paths {
		if path == "-" {
			continue
		}
		if err := w.Add(path); err != nil {
			return err
		}
	}
	a.logger.Info("watching for changes", slog.Any("paths", paths))
	return w.Run(ctx)
}
