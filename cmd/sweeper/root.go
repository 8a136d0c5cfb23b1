package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/grupovertice/intranet/modules"
	"github.com/grupovertice/intranet/pkg/application"
	"github.com/grupovertice/intranet/pkg/composables"
	"github.com/grupovertice/intranet/pkg/configuration"
	"github.com/grupovertice/intranet/pkg/eventbus"
)

// sweeper runs one detection pass from the command line, without waiting for
// the server scheduler. Meant for operators and cron fallbacks.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "sweeper",
		Short:         "Run access governance sweeps on demand",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newCertificatesCmd())
	cmd.AddCommand(newOrphansCmd())
	cmd.AddCommand(newActivityCmd())
	return cmd
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

// loadApp builds the full application so sweeps run against the same wiring
// the server uses. The returned context carries the connection pool.
func loadApp(ctx context.Context) (context.Context, application.Application, func(), error) {
	conf := configuration.Use()
	logger := conf.Logger()

	connCtx, cancel := context.WithTimeout(ctx, time.Second*5)
	defer cancel()
	pool, err := pgxpool.New(connCtx, conf.Database.Opts)
	if err != nil {
		return ctx, nil, nil, fmt.Errorf("connect database: %w", err)
	}

	app := application.New(pool, eventbus.NewEventPublisher(logger), logger)
	if err := modules.Load(app, modules.BuiltInModules...); err != nil {
		pool.Close()
		return ctx, nil, nil, fmt.Errorf("load modules: %w", err)
	}
	return composables.WithPool(ctx, pool), app, pool.Close, nil
}
