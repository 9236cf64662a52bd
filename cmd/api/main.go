package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/mestri-payroll/internal/config"
	"github.com/cmlabs-hris/mestri-payroll/internal/domain/payroll"
	appHTTP "github.com/cmlabs-hris/mestri-payroll/internal/handler/http"
	"github.com/cmlabs-hris/mestri-payroll/internal/pkg/cron"
	"github.com/cmlabs-hris/mestri-payroll/internal/pkg/database"
	"github.com/cmlabs-hris/mestri-payroll/internal/pkg/jwt"
	"github.com/cmlabs-hris/mestri-payroll/internal/pkg/sse"
	"github.com/cmlabs-hris/mestri-payroll/internal/pkg/storage"
	"github.com/cmlabs-hris/mestri-payroll/internal/repository/postgresql"
	employeeService "github.com/cmlabs-hris/mestri-payroll/internal/service/employee"
	mestriService "github.com/cmlabs-hris/mestri-payroll/internal/service/mestri"
	payrollService "github.com/cmlabs-hris/mestri-payroll/internal/service/payroll"
	"github.com/go-chi/httplog/v3"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		logger.Error("Error connecting to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		logger.Error("Error applying migrations", "error", err)
		os.Exit(1)
	}

	mestriRepo := postgresql.NewMestriRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)
	archiveRepo := postgresql.NewArchiveRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.SSEExpiration)
	calculator := payroll.NewCalculator(cfg.Payroll.PHRate)
	hub := sse.NewHub()

	mestriSvc := mestriService.NewMestriService(mestriRepo)
	employeeSvc := employeeService.NewEmployeeService(employeeRepo, mestriRepo)
	payrollSvc := payrollService.NewPayrollService(payrollRepo, archiveRepo, employeeRepo, mestriRepo, calculator, hub)

	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc, JWTService)
	employeeHandler := appHTTP.NewEmployeeHandler(employeeSvc)
	mestriHandler := appHTTP.NewMestriHandler(mestriSvc)

	router := appHTTP.NewRouter(
		appHTTP.RouterOptions{
			Logger:         logger,
			AllowedOrigins: cfg.App.AllowedOrigins,
			RateLimit:      cfg.App.RateLimit,
		},
		JWTService,
		payrollHandler,
		employeeHandler,
		mestriHandler,
	)

	scheduler := cron.NewScheduler(logger)
	if cfg.Storage.SnapshotEnabled {
		fileStorage, err := storage.NewLocalStorage(cfg.Storage.BasePath)
		if err != nil {
			logger.Error("Failed to initialize local storage", "error", err)
			os.Exit(1)
		}
		cron.NewPayrollJobs(payrollSvc, fileStorage, cfg.Storage.SnapshotEvery, logger).RegisterJobs(scheduler)
	}
	scheduler.Start()
	defer scheduler.Stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Server running", "addr", server.Addr, "ph_rate", cfg.Payroll.PHRate.String())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			logger.Error("Server error", "error", err)
		}
	case <-ctx.Done():
		logger.Info("Shutting down")
	}

	// SSE streams stay open until their request context ends, so cap the wait.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("Forced shutdown", "error", err)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.App.LogLevel)); err != nil {
		level = slog.LevelInfo
	}

	logFormat := httplog.SchemaECS.Concise(cfg.App.Env == "development")
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "mestri-payroll"),
		slog.String("version", cfg.App.Version),
		slog.String("env", cfg.App.Env),
	)
}
