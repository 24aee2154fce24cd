package main

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

	"github.com/go-chi/httplog/v3"
	"github.com/hrmanagement/hrm-backend-go/internal/config"
	"github.com/hrmanagement/hrm-backend-go/internal/domain/employee"
	"github.com/hrmanagement/hrm-backend-go/internal/domain/payroll"
	appHTTP "github.com/hrmanagement/hrm-backend-go/internal/handler/http"
	"github.com/hrmanagement/hrm-backend-go/internal/pkg/cron"
	"github.com/hrmanagement/hrm-backend-go/internal/pkg/database"
	"github.com/hrmanagement/hrm-backend-go/internal/pkg/email"
	"github.com/hrmanagement/hrm-backend-go/internal/pkg/jwt"
	"github.com/hrmanagement/hrm-backend-go/internal/pkg/logger"
	"github.com/hrmanagement/hrm-backend-go/internal/pkg/metrics"
	"github.com/hrmanagement/hrm-backend-go/internal/pkg/sse"
	"github.com/hrmanagement/hrm-backend-go/internal/repository/postgresql"
	"github.com/hrmanagement/hrm-backend-go/internal/repository/rediscache"
	attendanceService "github.com/hrmanagement/hrm-backend-go/internal/service/attendance"
	serviceAuth "github.com/hrmanagement/hrm-backend-go/internal/service/auth"
	employeeService "github.com/hrmanagement/hrm-backend-go/internal/service/employee"
	payrollService "github.com/hrmanagement/hrm-backend-go/internal/service/payroll"
	reviewService "github.com/hrmanagement/hrm-backend-go/internal/service/review"
	"golang.org/x/sync/errgroup"
)

const (
	appName    = "hrm-backend"
	appVersion = "v1.0.0"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(logger.Options{
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		FilePath:    cfg.App.LogFile,
		JSONConsole: cfg.IsProduction(),
		ReplaceAttr: httplog.SchemaECS.Concise(!cfg.IsProduction()).ReplaceAttr,
		App:         appName,
		Version:     appVersion,
		Env:         cfg.App.Env,
	})
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{MaxConns: cfg.Database.MaxConns})
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	if err := database.MigrateUp(cfg.DatabaseURL()); err != nil {
		return err
	}

	var qrCache employee.QRCodeCache
	if cfg.Redis.Addr != "" {
		client, err := database.NewRedisClient(ctx, database.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer client.Close()
		qrCache = rediscache.NewQRCodeCache(client)
	} else {
		log.Warn("REDIS_ADDR not set, QR lookups go straight to the database")
	}

	m := metrics.New()
	hub := sse.NewHub()
	transactor := postgresql.NewTransactor(db)

	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)
	reviewRepo := postgresql.NewReviewRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	mailer, err := email.NewMailer(email.SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
		FromName: cfg.SMTP.FromName,
	})
	if err != nil {
		return err
	}

	authSvc := serviceAuth.NewAuthService(employeeRepo, JWTService)
	employeeSvc := employeeService.NewEmployeeService(employeeRepo, qrCache, hub, transactor, mailer, m, cfg.QR.RotationInterval)
	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, employeeSvc, m, cfg.App.Location)
	payrollSvc := payrollService.NewPayrollService(payrollRepo, attendanceRepo, employeeRepo, payroll.Policy{
		StandardMonthlyHours: cfg.Payroll.StandardMonthlyHours,
		OvertimeMultiplier:   cfg.Payroll.OvertimeMultiplier,
		IncomeTaxRate:        cfg.Payroll.IncomeTaxRate,
	}, m)
	reviewSvc := reviewService.NewReviewService(reviewRepo, employeeRepo, cfg.App.Location)

	if cfg.Admin.Email != "" {
		if err := authSvc.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password); err != nil {
			return fmt.Errorf("bootstrap admin: %w", err)
		}
	}

	router := appHTTP.NewRouter(
		appHTTP.RouterOptions{
			Logger:         log,
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			KioskAPIKey:    cfg.Kiosk.APIKey,
			Metrics:        m,
		},
		JWTService,
		appHTTP.NewAuthHandler(authSvc),
		appHTTP.NewEmployeeHandler(employeeSvc),
		appHTTP.NewAttendanceHandler(attendanceSvc),
		appHTTP.NewPayrollHandler(payrollSvc),
		appHTTP.NewReviewHandler(reviewSvc),
	)

	scheduler := cron.NewScheduler(log)
	cron.NewQRCodeJobs(employeeSvc, cfg.QR.RotationInterval).RegisterJobs(scheduler)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Server running", "addr", server.Addr, "timezone", cfg.App.Timezone)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return scheduler.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
		defer cancel()
		log.Info("Shutting down server")
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
