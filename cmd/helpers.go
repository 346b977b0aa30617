package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/phuslu/log"

	"github.com/raglab/docqa/internal/config"
	"github.com/raglab/docqa/internal/engine"
	"github.com/raglab/docqa/internal/progress"
	"github.com/raglab/docqa/internal/walker"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `docqa init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// newLogger builds the process logger. Logs always go to stderr; stdout
// is reserved for command output and, under `docqa mcp`, the protocol.
func newLogger(cfg *config.Config) log.Logger {
	level := log.ParseLevel(cfg.LogLevel)
	if verbose {
		level = log.DebugLevel
	}

	logger := log.Logger{
		Level:      level,
		TimeFormat: "15:04:05",
	}
	if log.IsTerminal(os.Stderr.Fd()) {
		logger.Writer = &log.ConsoleWriter{
			ColorOutput:    true,
			QuoteString:    true,
			EndWithMessage: true,
		}
	} else {
		logger.Writer = &log.IOWriter{Writer: os.Stderr}
	}
	return logger
}

// newEngine wires an engine with the production store and provider
// constructors.
func newEngine(cfg *config.Config, logger log.Logger) *engine.Engine {
	return engine.New(cfg, engine.DefaultFactories(cfg), logger)
}

// preloadDocs walks each directory and ingests every supported document
// found, reporting progress to stderr.
func preloadDocs(ctx context.Context, eng *engine.Engine, cfg *config.Config, dirs []string) error {
	for _, dir := range dirs {
		files, err := walker.Walk(walker.WalkerConfig{
			RootDir:     dir,
			Include:     cfg.Include,
			Exclude:     cfg.Exclude,
			MaxFileSize: int64(cfg.MaxFileSizeMB) << 20,
		})
		if err != nil {
			return fmt.Errorf("scanning %s: %w", dir, err)
		}
		if len(files) == 0 {
			fmt.Fprintf(os.Stderr, "No supported documents found under %s\n", dir)
			continue
		}

		inputs := make([]engine.FileInput, 0, len(files))
		for _, f := range files {
			data, err := os.ReadFile(f.Path)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: skipping %s: %v\n", f.RelPath, err)
				continue
			}
			inputs = append(inputs, engine.FileInput{Name: f.RelPath, Data: data})
		}

		reporter := progress.NewReporter()
		reporter.Start(len(inputs))
		eng.SetProgress(func(done, total int, name string) {
			reporter.Update(done, name)
		})

		batch, err := eng.Ingest(ctx, inputs)
		eng.SetProgress(nil)
		reporter.Finish()
		if err != nil {
			return fmt.Errorf("ingesting %s: %w", dir, err)
		}

		fmt.Fprintf(os.Stderr, "%s: %d processed, %d skipped, %d failed, %d chunks\n",
			dir, batch.Processed, batch.Skipped, batch.Failed, batch.NewChunks)
		for _, f := range batch.Files {
			if f.Status == engine.StatusFailed && f.Err != nil {
				fmt.Fprintf(os.Stderr, "  failed %s: %v\n", f.Name, f.Err)
			}
		}
	}
	return nil
}
