package app

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"time"

	"deptportal/internal/admin"
	"deptportal/internal/auth"
	"deptportal/internal/config"
	"deptportal/internal/contact"
	"deptportal/internal/course"
	"deptportal/internal/db"
	"deptportal/internal/export"
	"deptportal/internal/health"
	"deptportal/internal/logger"
	"deptportal/internal/mail"
	"deptportal/internal/metrics"
	"deptportal/internal/middleware"
	"deptportal/internal/payment"
	"deptportal/internal/result"
	"deptportal/internal/session"
	"deptportal/internal/storage"
	"deptportal/internal/student"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
)

type App struct {
	config *config.Config
	router chi.Router
	server *http.Server
	logger *slog.Logger
}

func New() *App {
	slogLogger := logger.NewWithServiceContext("deptportal", Version)

	// Set as default logger so slog.Info() uses the same handlers
	slog.SetDefault(slogLogger)

	slogLogger.Info("initializing application")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	slogLogger.Info("config loaded", "env", cfg.Env)

	app := &App{
		config: cfg,
		router: chi.NewRouter(),
		logger: slogLogger,
	}

	database := db.New(cfg.Database)

	ctx := context.Background()
	if err := db.RunMigrations(ctx, database,
		(*student.Student)(nil),
		(*admin.Admin)(nil),
		(*session.Session)(nil),
		(*course.Course)(nil),
		(*payment.Payment)(nil),
		(*contact.Contact)(nil),
		(*result.Result)(nil),
	); err != nil {
		log.Fatal("failed to run migrations:", err)
	}
	if err := db.Seed(ctx, database, slogLogger); err != nil {
		log.Fatal("failed to seed database:", err)
	}

	m, err := metrics.New(otel.Meter("deptportal"))
	if err != nil {
		slogLogger.Warn("failed to initialize metrics", "error", err)
		m = metrics.NewMock()
	}

	store, err := storage.NewStore(cfg.Uploads.Dir, cfg.Uploads.MaxSizeBytes)
	if err != nil {
		log.Fatal("failed to prepare upload dir:", err)
	}
	mailer := mail.New(cfg.Mail, slogLogger)
	tokens := auth.NewTokenManager(cfg.Auth)

	// Apply CORS middleware globally
	app.router.Use(middleware.CORS(cfg.Server.CORSOrigins))

	// Health endpoints (no auth required)
	healthHandler := health.NewHandler(database.DB)
	healthHandler.RegisterRoutes(app.router)

	// Repositories
	studentRepo := student.NewRepository(database)
	adminRepo := admin.NewRepository(database)
	sessionRepo := session.NewRepository(database)
	courseRepo := course.NewRepository(database)
	paymentRepo := payment.NewRepository(database)
	contactRepo := contact.NewRepository(database)
	resultRepo := result.NewRepository(database)

	// Services
	studentService := student.NewService(studentRepo, mailer, slogLogger)
	authService := auth.NewService(studentRepo, adminRepo, tokens)
	paymentService := payment.NewService(paymentRepo, store, mailer, slogLogger)
	resultService := result.NewService(resultRepo, studentRepo, sessionRepo, paymentService)

	// Handlers
	authHandler := auth.NewHandler(authService, tokens, slogLogger)
	studentHandler := student.NewHandler(studentService, slogLogger, m)
	paymentHandler := payment.NewHandler(paymentService, store, studentService, slogLogger, m)
	contactHandler := contact.NewHandler(contactRepo, slogLogger, m)
	resultHandler := result.NewHandler(resultService, slogLogger, m)
	sessionHandler := session.NewHandler(sessionRepo, slogLogger)
	courseHandler := course.NewHandler(courseRepo, slogLogger)
	exportHandler := export.NewHandler(contactRepo, paymentRepo, store, slogLogger, m)
	dashboardHandler := admin.NewHandler(studentRepo, resultService, contactRepo, paymentService, slogLogger)

	// Public endpoints
	authHandler.RegisterRoutes(app.router)
	studentHandler.RegisterPublicRoutes(app.router)
	paymentHandler.RegisterPublicRoutes(app.router)
	contactHandler.RegisterPublicRoutes(app.router)

	// Student portal
	app.router.Route("/student", func(r chi.Router) {
		r.Use(auth.RequireStudent(tokens, slogLogger))
		paymentHandler.RegisterStudentRoutes(r)
		resultHandler.RegisterStudentRoutes(r)
	})

	// Back office
	app.router.Route("/admin", func(r chi.Router) {
		r.Use(auth.RequireAdmin(tokens, slogLogger))
		dashboardHandler.RegisterAdminRoutes(r)
		studentHandler.RegisterAdminRoutes(r)
		paymentHandler.RegisterAdminRoutes(r)
		contactHandler.RegisterAdminRoutes(r)
		resultHandler.RegisterAdminRoutes(r)
		sessionHandler.RegisterAdminRoutes(r)
		exportHandler.RegisterAdminRoutes(r)
	})

	// Either principal may open a receipt here
	app.router.Group(func(r chi.Router) {
		r.Use(auth.RequireAny(tokens, slogLogger))
		paymentHandler.RegisterSharedRoutes(r)
	})

	// Course autocomplete for the upload form
	app.router.Group(func(r chi.Router) {
		r.Use(auth.RequireAdmin(tokens, slogLogger))
		courseHandler.RegisterRoutes(r)
	})

	slogLogger.Info("application initialized successfully")

	return app
}

func (a *App) Run() error {
	a.server = &http.Server{
		Addr:         fmt.Sprintf(":%s", a.config.Server.Port),
		Handler:      a.router,
		ReadTimeout:  time.Duration(a.config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(a.config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(a.config.Server.IdleTimeout) * time.Second,
	}

	a.logger.Info("server starting", "port", a.config.Server.Port)
	return a.server.ListenAndServe()
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down server")
	return a.server.Shutdown(ctx)
}
