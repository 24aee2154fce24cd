package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/hrmanagement/hrm-backend-go/internal/domain/employee"
	"github.com/hrmanagement/hrm-backend-go/internal/handler/http/middleware"
	"github.com/hrmanagement/hrm-backend-go/internal/pkg/jwt"
	"github.com/hrmanagement/hrm-backend-go/internal/pkg/metrics"
)

type RouterOptions struct {
	Logger         *slog.Logger
	AllowedOrigins []string
	KioskAPIKey    string
	Metrics        *metrics.Metrics
}

func NewRouter(
	opts RouterOptions,
	JWTService jwt.Service,
	authHandler AuthHandler,
	employeeHandler EmployeeHandler,
	attendanceHandler AttendanceHandler,
	payrollHandler PayrollHandler,
	reviewHandler ReviewHandler,
) *chi.Mux {
	r := chi.NewRouter()

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.KioskKeyHeader},
		ExposedHeaders:   []string{"Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Middleware)
		r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}

	ja := JWTService.JWTAuth()

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
		})

		// Kiosk devices authenticate with a shared key, not a user token
		r.With(middleware.KioskKeyRequired(opts.KioskAPIKey)).Post("/kiosk/scan", attendanceHandler.KioskScan)

		// EventSource cannot send headers; the stream takes a short-lived token
		r.With(middleware.SSETokenRequired(JWTService)).Get("/employees/me/qr/stream", employeeHandler.StreamQRCode)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(ja))
			r.Use(middleware.AuthRequired(ja))

			r.Route("/employees", func(r chi.Router) {
				r.With(middleware.RequirePermission(employee.PermissionEmployeeViewAll)).Get("/", employeeHandler.List)
				r.With(middleware.RequirePermission(employee.PermissionEmployeeApprove)).Get("/pending", employeeHandler.ListPending)

				r.Route("/me/qr", func(r chi.Router) {
					r.Get("/", employeeHandler.CurrentQRCode)
					r.Post("/stream-token", authHandler.IssueSSEToken)
				})

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", employeeHandler.Get)
					r.Put("/", employeeHandler.Update)
					r.With(middleware.RequirePermission(employee.PermissionEmployeeDelete)).Delete("/", employeeHandler.Delete)

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(employee.PermissionEmployeeApprove))
						r.Post("/approve", employeeHandler.Approve)
						r.Post("/reject", employeeHandler.Reject)
					})
				})
			})

			r.Route("/attendance", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(employee.PermissionAttendanceSelf))
					r.Post("/check-in", attendanceHandler.CheckIn)
					r.Post("/check-out", attendanceHandler.CheckOut)
					r.Post("/check", attendanceHandler.Check)
				})

				r.Get("/today/{employeeId}", attendanceHandler.Today)
				r.Get("/weekly/{employeeId}", attendanceHandler.Weekly)
				r.Get("/monthly/{employeeId}", attendanceHandler.Monthly)
				r.Get("/recent/{employeeId}", attendanceHandler.Recent)
				r.Get("/total-hours/{employeeId}", attendanceHandler.TotalHours)

				r.Route("/records", func(r chi.Router) {
					r.Use(middleware.RequirePermission(employee.PermissionAttendanceManage))
					r.Post("/", attendanceHandler.SaveRecord)
					r.Put("/{id}", attendanceHandler.UpdateRecord)
					r.Delete("/{id}", attendanceHandler.DeleteRecord)
				})
			})

			r.Route("/payroll", func(r chi.Router) {
				r.With(middleware.RequirePermission(employee.PermissionPayrollGenerate)).Post("/generate", payrollHandler.Generate)

				r.Route("/employee/{employeeId}", func(r chi.Router) {
					r.Get("/", payrollHandler.GetByEmployeeAndPeriod)
					r.Get("/all", payrollHandler.ListByEmployee)
					r.Get("/year/{year}", payrollHandler.ListByEmployeeAndYear)
					r.Get("/year/{year}/export", payrollHandler.ExportYear)
				})

				r.Get("/{id}", payrollHandler.GetByID)
				r.With(middleware.RequirePermission(employee.PermissionPayrollGenerate)).Delete("/{id}", payrollHandler.Delete)
			})

			r.Route("/reviews", func(r chi.Router) {
				r.Get("/employee/{employeeId}", reviewHandler.ListByEmployee)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(employee.PermissionReviewWrite))
					r.Post("/", reviewHandler.Create)
					r.Put("/{id}", reviewHandler.Update)
					r.Delete("/{id}", reviewHandler.Delete)
				})
			})
		})
	})
	return r
}
