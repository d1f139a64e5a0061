package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Abhinavj12/hackfest-2025/internal/api"
	"github.com/Abhinavj12/hackfest-2025/internal/auth"
	"github.com/Abhinavj12/hackfest-2025/internal/config"
	"github.com/Abhinavj12/hackfest-2025/internal/db"
	"github.com/Abhinavj12/hackfest-2025/internal/notify"
	"github.com/Abhinavj12/hackfest-2025/internal/repository"
	"github.com/Abhinavj12/hackfest-2025/internal/service"
	"github.com/Abhinavj12/hackfest-2025/pkg/logger"
	"github.com/hellofresh/health-go/v5"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the registration API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return errors.Wrap(err, "failed to load config")
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	log, err := logger.NewLogger(cfg.LogLevel, cfg.Environment)
	if err != nil {
		return errors.Wrap(err, "failed to create logger")
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(logger.WithLogger(ctx, log), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("starting application", zap.String("version", cfg.Version))

	client, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoTimeout)
	if err != nil {
		log.Error("failed to connect to database", zap.Error(err))
		return err
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := client.Disconnect(disconnectCtx); err != nil {
			log.Error("failed to disconnect from database", zap.Error(err))
		}
	}()

	log.Info("database connection established", zap.String("database", cfg.MongoDatabase))

	teamsColl := client.Database(cfg.MongoDatabase).Collection(repository.TeamCollection)
	if err = repository.EnsureTeamIndexes(ctx, teamsColl); err != nil {
		log.Error("failed to ensure indexes", zap.Error(err))
		return err
	}

	teamRepo := repository.NewMongoTeamRepository(teamsColl)

	sender, err := notify.NewSender(cfg.SMTP, cfg.Event)
	if err != nil {
		log.Error("failed to configure email sender", zap.Error(err))
		return err
	}
	dispatcher := notify.NewDispatcher(sender, cfg.SMTP.Timeout)

	intake := service.NewIntakeService(service.Config{MaxTeams: cfg.MaxTeams}).
		WithTeamRepo(teamRepo).
		WithNotifier(dispatcher)
	teams := service.NewTeamService().WithTeamRepo(teamRepo)

	checker, err := api.NewHealthChecker(
		health.Component{Name: "hackfest", Version: cfg.Version},
		cfg.Environment,
		api.MongoCheck(db.NewPinger(client)),
	)
	if err != nil {
		return err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	api.NewHandler(log, cfg).
		WithIntakeService(intake).
		WithTeamService(teams).
		WithHealthChecker(checker).
		WithTokenIssuer(auth.NewIssuer(cfg.AdminTokenSecret)).
		RegisterRoutes(e)

	emailStatus := "not configured"
	if cfg.SMTP.Configured() {
		emailStatus = "configured"
	}
	log.Info("server starting",
		zap.Int("port", cfg.Port),
		zap.String("environment", cfg.Environment),
		zap.String("database", cfg.MongoDatabase),
		zap.String("email_service", emailStatus),
		zap.Bool("admin_routes", cfg.AdminTokenSecret != ""),
		zap.Int("max_teams", cfg.MaxTeams))

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- e.Start(fmt.Sprintf(":%d", cfg.Port))
	}()

	select {
	case err = <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped unexpectedly", zap.Error(err))
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err = e.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to stop http server", zap.Error(err))
	}
	if err = dispatcher.Wait(shutdownCtx); err != nil {
		log.Warn("pending confirmation emails dropped", zap.Error(err))
	}

	log.Info("shutdown complete")
	return nil
}
