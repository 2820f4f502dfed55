package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"

	"github.com/deepagents/control/backend/analytics"
	"github.com/deepagents/control/backend/api"
	"github.com/deepagents/control/backend/auth"
	"github.com/deepagents/control/backend/delegation"
	"github.com/deepagents/control/backend/event"
	"github.com/deepagents/control/backend/execution"
	"github.com/deepagents/control/backend/memory"
	"github.com/deepagents/control/backend/metrics"
	"github.com/deepagents/control/backend/secret"
	"github.com/deepagents/control/backend/tool"
	"github.com/deepagents/control/backend/tracing"
	"github.com/deepagents/control/frontend/cli/pkg/fail"
	"github.com/deepagents/control/shared/config"
	"github.com/deepagents/control/shared/logging"
	"github.com/getsentry/sentry-go"
	"github.com/shopspring/decimal"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type serveOptions struct {
	ConfigFile string
	Address    string
}

func NewServeCmd() *cobra.Command {
	options := serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve [flags]",
		Short: "Run the DeepAgents API server",
		Long: `Run the REST API together with the execution workers.

The configuration is read from the given file, falling back to
` + "`" + `$XDG_CONFIG_HOME/deepagents/server.yaml` + "`" + `, and can be overridden with
DEEPAGENTS_* environment variables. The database schema is created on start.`,
		GroupID: "server",
		Example: `  # Serve with the default configuration on 127.0.0.1:8000
  DEEPAGENTS_AUTH_JWT_SECRET=change-me deepagents serve

  # Listen on all interfaces
  deepagents serve --config /etc/deepagents/server.yaml --address 0.0.0.0:8000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadServerConfig(cmd, options.ConfigFile)
			if err != nil {
				return fail.HandleError(cmd, err)
			}
			if options.Address != "" {
				cfg.Server.Address = options.Address
			}

			logger, closeLog := logging.New(cfg.Log)
			defer closeLog()

			srv, err := newServer(cmd.Context(), cfg, getFileSystem(cmd.Context()), logger, cmd.ErrOrStderr())
			if err != nil {
				return fail.HandleError(cmd, err)
			}
			defer srv.close(context.WithoutCancel(cmd.Context()))

			fmt.Fprintf(cmd.OutOrStdout(), "DeepAgents %s listening on %s\n", Version, srv.listener.Addr())
			return fail.HandleError(cmd, srv.run(cmd.Context()))
		},
	}

	cmd.Flags().StringVarP(&options.ConfigFile, "config", "c", "", "path of the server configuration file")
	cmd.Flags().StringVar(&options.Address, "address", "", "listen address, overrides server.address")
	return cmd
}

func loadServerConfig(cmd *cobra.Command, path string) (*config.Config, error) {
	if path == "" {
		path = config.DefaultPath()
	}
	return config.Load(getFileSystem(cmd.Context()), path)
}

type server struct {
	cfg       *config.Config
	logger    *slog.Logger
	db        *memory.Client
	analytics analytics.Client
	runner    *execution.Runner
	http      *http.Server
	listener  net.Listener

	shutdownTracing func(context.Context) error
}

func newServer(ctx context.Context, cfg *config.Config, fs afero.Fs, logger *slog.Logger, traceOut io.Writer) (_ *server, err error) {
	srv := &server{cfg: cfg, logger: logger}
	defer func() {
		if err != nil {
			srv.close(context.WithoutCancel(ctx))
		}
	}()

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
			Release:     Version,
		}); err != nil {
			return nil, fmt.Errorf("initializing sentry: %w", err)
		}
	}

	srv.shutdownTracing, err = tracing.Setup(ctx, cfg.Tracing, traceOut)
	if err != nil {
		return nil, err
	}

	if cfg.Database.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o700); err != nil {
			return nil, err
		}
	}
	srv.db, err = memory.Open(ctx, cfg.Database.DSN(), memory.WithPingAttempts(cfg.Database.PingAttempts))
	if err != nil {
		return nil, err
	}
	if err := srv.db.Schema.Create(ctx); err != nil {
		return nil, fmt.Errorf("migrating database: %w", err)
	}

	encryption, err := secret.LoadClient(fs, cfg.Secrets, logger)
	if err != nil {
		return nil, err
	}

	authService, err := auth.NewService(srv.db, cfg.Auth)
	if err != nil {
		return nil, err
	}

	srv.analytics, err = analytics.New(cfg.Analytics, logger)
	if err != nil {
		return nil, err
	}

	registry := metrics.NewRegistry()
	bus := event.NewBus()
	delegations := delegation.NewService(delegation.NewStore(srv.db),
		delegation.WithLogger(logger),
		delegation.WithRegisterer(registry),
	)

	cost, err := decimal.NewFromString(cfg.Executions.CostPer1KTokens)
	if err != nil {
		return nil, fmt.Errorf("parsing executions.cost_per_1k_tokens: %w", err)
	}
	framework := execution.NewResilientFramework(execution.MockFramework{Toolbox: tool.NewToolbox(fs)}, execution.ResilienceOptions{
		MaxRetries:      cfg.Executions.MaxRetries,
		BreakerFailures: cfg.Executions.BreakerFailures,
		BreakerTimeout:  cfg.Executions.BreakerTimeout,
	}, logger)
	srv.runner = execution.NewRunner(srv.db, delegations, framework, bus, execution.RunnerOptions{
		Workers:         cfg.Executions.Workers,
		Timeout:         cfg.Executions.Timeout,
		CostPer1KTokens: cost,
		Registerer:      registry,
		MetricsProvider: metrics.NewWorkqueueMetricsProvider(registry),
		Logger:          logger,
	})

	handler := api.NewHandler(api.HandlerOptions{
		DB:          srv.db,
		Encryption:  encryption,
		Auth:        authService,
		Delegations: delegations,
		Bus:         bus,
		Analytics:   srv.analytics,
		Registry:    registry,
		RateLimit:   cfg.RateLimit,
		Metrics:     cfg.Metrics,
		CORSOrigins: cfg.Server.CORSOrigins,
		Logger:      logger,
		Version:     Version,
	})

	srv.listener, err = net.Listen("tcp", cfg.Server.Address)
	if err != nil {
		return nil, err
	}
	srv.http = &http.Server{
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
	}

	return srv, nil
}

// run serves HTTP and processes executions until ctx is done or one of them
// fails.
func (s *server) run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := s.http.Serve(s.listener); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		return s.runner.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("shutting down", "timeout", s.cfg.Server.ShutdownTimeout)

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.Server.ShutdownTimeout)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func (s *server) close(ctx context.Context) {
	if s.analytics != nil {
		if err := s.analytics.Close(); err != nil {
			s.logger.Warn("failed to flush analytics", "error", err)
		}
	}
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Warn("failed to close database", "error", err)
		}
	}
	if s.shutdownTracing != nil {
		if err := s.shutdownTracing(ctx); err != nil {
			s.logger.Warn("failed to flush traces", "error", err)
		}
	}
	if s.listener != nil && s.http == nil {
		s.listener.Close()
	}
}
