// Package app assembles the reports service from configuration. It is shared
// by the HTTP server and the stockctl command.
package app

import (
	"context"
	"fmt"

	"stockcard/internal/core/tx"
	"stockcard/internal/domain/reports"
	"stockcard/internal/infrastructure/refstore"
	"stockcard/internal/infrastructure/storage/postgres"
	"stockcard/internal/infrastructure/storage/postgres/catalog_repo"
	"stockcard/internal/infrastructure/storage/postgres/document_repo"
	"stockcard/internal/infrastructure/telemetry"
	"stockcard/pkg/config"
	"stockcard/pkg/logger"
)

// Backend is an opened reference data store.
type Backend struct {
	Kind    string
	Sources reports.Sources

	ping  func(ctx context.Context) error
	close func()
}

// Ping checks that the store answers.
func (b *Backend) Ping(ctx context.Context) error {
	if b.ping == nil {
		return nil
	}
	return b.ping(ctx)
}

// Close releases connections held by the backend.
func (b *Backend) Close() {
	if b.close != nil {
		b.close()
	}
}

// OpenBackend connects to the store selected by cfg.Source.Kind.
func OpenBackend(ctx context.Context, cfg *config.Config) (*Backend, error) {
	loc, err := cfg.Report.Location()
	if err != nil {
		return nil, fmt.Errorf("report timezone: %w", err)
	}

	switch cfg.Source.Kind {
	case config.SourceREST:
		client, err := refstore.NewClient(refstore.Config{
			BaseURL:  cfg.Source.RESTBaseURL,
			Timeout:  cfg.Source.RESTTimeout,
			Location: loc,
			Token:    cfg.Source.RESTToken,
		})
		if err != nil {
			return nil, err
		}
		src := refstore.NewSources(client)
		logger.Info(ctx, "reference store: rest", "base_url", cfg.Source.RESTBaseURL)
		return &Backend{
			Kind: config.SourceREST,
			Sources: reports.Sources{
				Inventories: src.Inventories,
				Receipts:    src.Receipts,
				Issues:      src.Issues,
				Articles:    src.Articles,
				Tx:          tx.Passthrough{},
			},
			ping: client.Ping,
		}, nil

	case config.SourcePostgres:
		poolCfg := postgres.DefaultPoolConfig(cfg.Source.PostgresDSN)
		if cfg.Source.PostgresMaxConns > 0 {
			poolCfg.MaxConns = cfg.Source.PostgresMaxConns
		}
		pool, err := postgres.NewPool(ctx, poolCfg)
		if err != nil {
			return nil, err
		}
		txOpts := txOptions(cfg.Source)
		tm := postgres.NewTxManager(pool).WithOptions(txOpts)
		logger.Info(ctx, "reference store: postgres",
			"max_conns", poolCfg.MaxConns,
			"statement_timeout", txOpts.StatementTimeout.String(),
		)
		return &Backend{
			Kind: config.SourcePostgres,
			Sources: reports.Sources{
				Inventories: document_repo.NewInventoryRepo(tm),
				Receipts:    document_repo.NewGoodsReceiptRepo(tm),
				Issues:      document_repo.NewGoodsIssueRepo(tm),
				Articles:    catalog_repo.NewNomenclatureRepo(tm),
				Tx:          tm,
			},
			ping:  tm.Ping,
			close: pool.Close,
		}, nil
	}

	return nil, fmt.Errorf("unknown source kind %q", cfg.Source.Kind)
}

// txOptions applies the configured statement timeout over the read-only
// defaults. Zero disables the timeout.
func txOptions(src config.SourceConfig) postgres.TxOptions {
	opts := postgres.DefaultTxOptions()
	opts.StatementTimeout = src.PostgresStatementTimeout
	return opts
}

// NewReportService builds the reports service over backend, recording
// metrics on the global meter provider.
func NewReportService(ctx context.Context, cfg *config.Config, backend *Backend) (*reports.Service, error) {
	loc, err := cfg.Report.Location()
	if err != nil {
		return nil, fmt.Errorf("report timezone: %w", err)
	}

	svcCfg := reports.Config{
		Sources:     backend.Sources,
		Concurrency: cfg.Report.Concurrency,
		Location:    loc,
	}
	if m, err := telemetry.NewGlobalReportMetrics(); err != nil {
		logger.Warn(ctx, "report metrics disabled", "error", err)
	} else {
		svcCfg.Metrics = m
	}

	return reports.NewService(svcCfg), nil
}
