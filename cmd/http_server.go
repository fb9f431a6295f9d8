package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/accessmodel-admin/api"
	"github.com/frahmantamala/accessmodel-admin/internal"
	"github.com/frahmantamala/accessmodel-admin/internal/core/events"
	"github.com/frahmantamala/accessmodel-admin/internal/dashboard"
	"github.com/frahmantamala/accessmodel-admin/internal/dropdown"
	"github.com/frahmantamala/accessmodel-admin/internal/identity"
	"github.com/frahmantamala/accessmodel-admin/internal/permission"
	permissionPostgres "github.com/frahmantamala/accessmodel-admin/internal/permission/postgres"
	"github.com/frahmantamala/accessmodel-admin/internal/report"
	"github.com/frahmantamala/accessmodel-admin/internal/transport/rest"
	"github.com/frahmantamala/accessmodel-admin/internal/warehouse"
	"github.com/frahmantamala/accessmodel-admin/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
)

const sessionSweepInterval = time.Minute

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the dashboard HTTP server`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config   *internal.Config
	DB       *sqlx.DB
	Router   *chi.Mux
	Sessions *dashboard.Store
	Events   *events.EventBus
	Logger   *slog.Logger
}

func startHTTPServer() {
	config := mustLoadConfig()
	logger.Configure(config.Observability.Logging.Format, config.Observability.Logging.Level)

	deps, err := initializeDependencies(config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server",
		"address", addr,
		"warehouse_path", config.Warehouse.HTTPPath(),
		"report_schema", config.Warehouse.ReportSchema,
		"extension_schema", config.Warehouse.ExtensionSchema)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go deps.Sessions.Run(sweepCtx, sessionSweepInterval)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
		if err := deps.Events.Close(ctx); err != nil {
			deps.Logger.Error("Event handlers did not drain", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("Warehouse close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			deps.Logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("Server stopped")
}

func initializeDependencies(config *internal.Config) (*Dependencies, error) {
	lg := logger.L()

	db, err := warehouse.Open("pgx", config.Warehouse)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize warehouse: %w", err)
	}
	gateway := warehouse.NewSQLGateway(db, config.Warehouse.QueryTimeout, lg)

	bus := events.NewEventBus(lg)
	bus.SubscribeAudit(lg)

	reports := report.NewService(report.NewResolver(config.Warehouse.ReportSchema), gateway, lg)
	options := dropdown.NewCache(gateway, config.Warehouse.ReportSchema, lg)
	repo := permissionPostgres.NewPermissionRepository(gateway, config.Warehouse.ExtensionSchema)
	synchronizer := permission.NewSynchronizer(repo, bus, lg)

	sessions := dashboard.NewStore(config.Security.SessionTTL, lg)
	tokens := dashboard.NewTokens(config.Security.SessionSecret, config.Security.SessionTTL)
	engine := dashboard.NewEngine(reports, options, synchronizer, lg)

	doc, err := api.Load(context.Background())
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	metricsPath := ""
	if config.Observability.Metrics.Enabled {
		metricsPath = config.Observability.Metrics.Path
	}

	router := chi.NewRouter()
	err = rest.RegisterAllRoutes(router, rest.Dependencies{
		Warehouse:     gateway,
		Dashboard:     dashboard.NewHandler(engine, sessions, lg),
		Sessions:      sessions,
		Tokens:        tokens,
		Identity:      identity.NewResolver(config.Identity.Header),
		OpenAPI:       doc,
		MetricsPath:   metricsPath,
		SecureCookies: config.Server.SecureCookies(),
		Logger:        lg,
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to register routes: %w", err)
	}

	return &Dependencies{
		Config:   config,
		DB:       db,
		Router:   router,
		Sessions: sessions,
		Events:   bus,
		Logger:   lg,
	}, nil
}
