// Package cli implements the stockctl subcommands.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/subcommands"

	"stockcard/internal/app"
	"stockcard/internal/core/fiscal"
	"stockcard/internal/domain/reports"
	"stockcard/pkg/config"
	"stockcard/pkg/logger"
)

// Reports is the part of reports.Service the commands call.
type Reports interface {
	StockCard(ctx context.Context, req reports.StockCardRequest) (*reports.StockCard, error)
	StockSituation(ctx context.Context, req reports.SituationRequest) (*reports.Situation, error)
	Location() *time.Location
}

// Env carries what every command needs. Open is called once per command run;
// the returned func releases the backend.
type Env struct {
	ConfigFile *string
	Stdout     io.Writer
	Stderr     io.Writer
	Clock      fiscal.Clock
	Open       func(ctx context.Context, configFile string) (Reports, func(), error)
}

// Commands returns the subcommands bound to env.
func Commands(env *Env) []subcommands.Command {
	return []subcommands.Command{
		&cardCmd{env: env},
		&situationCmd{env: env},
	}
}

// DefaultEnv writes to the process streams and opens the configured backend.
func DefaultEnv(configFile *string) *Env {
	return &Env{
		ConfigFile: configFile,
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
		Clock:      fiscal.SystemClock{},
		Open:       openService,
	}
}

func openService(ctx context.Context, configFile string) (Reports, func(), error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, nil, err
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.App.IsDevelopment(),
		OutputPaths: []string{"stderr"},
	})
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	logger.SetDefault(log)

	backend, err := app.OpenBackend(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	svc, err := app.NewReportService(ctx, cfg, backend)
	if err != nil {
		backend.Close()
		return nil, nil, err
	}
	return svc, func() {
		backend.Close()
		_ = log.Sync()
	}, nil
}

// run opens the service, executes fn and prints its result as JSON.
func (e *Env) run(ctx context.Context, fn func(ctx context.Context, svc Reports) (any, error)) subcommands.ExitStatus {
	configFile := ""
	if e.ConfigFile != nil {
		configFile = *e.ConfigFile
	}
	svc, closeFn, err := e.Open(ctx, configFile)
	if err != nil {
		fmt.Fprintf(e.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer closeFn()

	out, err := fn(ctx, svc)
	if err != nil {
		fmt.Fprintf(e.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	enc := json.NewEncoder(e.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fmt.Fprintf(e.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func (e *Env) year(flagYear int, loc *time.Location) fiscal.Year {
	if flagYear != 0 {
		return fiscal.Year(flagYear)
	}
	clock := e.Clock
	if clock == nil {
		clock = fiscal.SystemClock{}
	}
	return fiscal.Current(clock, loc)
}
