// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/lagrandiose/grandiose/internal/cache"
	"github.com/lagrandiose/grandiose/internal/captcha"
	"github.com/lagrandiose/grandiose/internal/config"
	"github.com/lagrandiose/grandiose/internal/geoip"
	"github.com/lagrandiose/grandiose/internal/handler"
	"github.com/lagrandiose/grandiose/internal/handler/api"
	"github.com/lagrandiose/grandiose/internal/i18n"
	"github.com/lagrandiose/grandiose/internal/imaging"
	"github.com/lagrandiose/grandiose/internal/logging"
	"github.com/lagrandiose/grandiose/internal/mailer"
	"github.com/lagrandiose/grandiose/internal/metrics"
	"github.com/lagrandiose/grandiose/internal/middleware"
	"github.com/lagrandiose/grandiose/internal/model"
	"github.com/lagrandiose/grandiose/internal/render"
	"github.com/lagrandiose/grandiose/internal/scheduler"
	"github.com/lagrandiose/grandiose/internal/service"
	"github.com/lagrandiose/grandiose/internal/session"
	"github.com/lagrandiose/grandiose/internal/store"
	"github.com/lagrandiose/grandiose/internal/version"
	"github.com/lagrandiose/grandiose/web"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

// crudHandlers defines the standard admin CRUD handler methods.
type crudHandlers struct {
	List     http.HandlerFunc
	NewForm  http.HandlerFunc
	Create   http.HandlerFunc
	EditForm http.HandlerFunc
	Update   http.HandlerFunc
	Delete   http.HandlerFunc
}

// registerCRUD registers standard CRUD routes for a resource.
// Routes: GET /, GET /new, POST /, GET /{id}, POST /{id}, POST /{id}/delete
func registerCRUD(r chi.Router, base string, h crudHandlers) {
	baseID := base + handler.RouteParamID
	r.Get(base, h.List)
	r.Get(base+handler.RouteSuffixNew, h.NewForm)
	r.Post(base, h.Create)
	r.Get(baseID, h.EditForm)
	r.Post(baseID, h.Update) // HTML forms can't send PUT
	r.Post(baseID+handler.RouteSuffixDelete, h.Delete)
}

// registerFrontendRoutes registers the public pages on the given router.
// It is mounted at the root and under the language prefix.
func registerFrontendRoutes(r chi.Router, h *handler.FrontendHandler, inscriptionLimiter *middleware.RateLimiter) {
	r.Get(handler.RouteRoot, h.Landing)
	r.Get(handler.RouteBlog, h.Blog)
	r.Get(handler.RouteBlog+handler.RouteParamSlug, h.Post)
	r.Get(handler.RouteInscription, h.InscriptionForm)
	r.With(inscriptionLimiter.Middleware(h.TooManyInscriptions)).Post(handler.RouteInscription, h.SubmitInscription)
}

func main() {
	// Parse CLI flags
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "La Grandiose - school website and back office\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  GRANDIOSE_SESSION_SECRET    Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  GRANDIOSE_DB_PATH           SQLite database path (default: ./data/grandiose.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  GRANDIOSE_SERVER_PORT       Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  GRANDIOSE_ENV               Environment: development|staging|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  GRANDIOSE_DEFAULT_LOCALE    Default site language: fr|en|ar (default: fr)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  GRANDIOSE_REDIS_URL         Redis URL for distributed caching (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  GRANDIOSE_SENDGRID_API_KEY  SendGrid key for inscription notifications (optional)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	versionInfo := version.Info{
		Version:   appVersion,
		GitCommit: appGitCommit,
		BuildTime: appBuildTime,
	}

	if *showVersion {
		_, _ = fmt.Printf("grandiose %s\n", versionInfo)
		os.Exit(0)
	}

	if err := run(versionInfo); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run(versionInfo version.Info) error {
	// Load .env files if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	handler.Version = versionInfo.Version

	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	if err := i18n.Init(logger); err != nil {
		return fmt.Errorf("initializing i18n: %w", err)
	}
	i18n.SetDefaultLanguage(cfg.DefaultLocale)
	slog.Info("i18n system initialized", "languages", i18n.SupportedLanguages, "default", cfg.DefaultLocale)

	dbDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	// Upgrade logger to also write WARN and ERROR logs to the event log
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger = slog.New(logging.NewEventLogHandler(textHandler, db))
	slog.SetDefault(logger)
	slog.Info("event log integration enabled", "min_level", "warn")

	ctx := context.Background()
	if err := store.Seed(ctx, db, store.SeedConfig{
		AdminEmail:    cfg.AdminEmail,
		AdminPassword: cfg.AdminPassword,
		Demo:          cfg.DoSeed,
	}); err != nil {
		return fmt.Errorf("seeding database: %w", err)
	}

	sessionManager := session.New(db, cfg.IsDevelopment())
	slog.Info("session manager initialized")

	var appMetrics *metrics.Metrics
	var cacheObserver cache.Observer
	var inscriptionObserver service.InscriptionObserver
	if cfg.MetricsEnabled {
		appMetrics = metrics.New()
		cacheObserver = appMetrics
		inscriptionObserver = appMetrics
	}

	cacheTTL := time.Duration(cfg.CacheTTL) * time.Second
	appCache, cacheInfo := cache.New(cache.Config{
		RedisURL:   cfg.RedisURL,
		Prefix:     cfg.CachePrefix,
		DefaultTTL: cacheTTL,
		MaxSize:    cfg.CacheMaxSize,
	})
	defer func() {
		if err := appCache.Close(); err != nil {
			slog.Error("error closing cache", "error", err)
		}
	}()
	slog.Info("cache initialized", "backend", cacheInfo.Backend, "fallback", cacheInfo.IsFallback, "ttl", cacheTTL)

	verifier := captcha.New(cfg.HCaptchaSiteKey, cfg.HCaptchaSecretKey)
	slog.Info("captcha configured", "enabled", verifier.Enabled())

	countries, err := geoip.Open(cfg.GeoIPDBPath)
	if err != nil {
		slog.Warn("geoip database unavailable, country lookup disabled", "path", cfg.GeoIPDBPath, "error", err)
	}
	defer func() { _ = countries.Close() }()

	mail := mailer.New(mailer.Config{
		SendGridAPIKey: cfg.SendGridAPIKey,
		FromEmail:      cfg.MailFrom,
		FromName:       cfg.SiteName,
	}, logger)
	slog.Info("mailer configured", "sendgrid", cfg.SendGridEnabled(), "notify", cfg.NotifyEmail)

	eventService := service.NewEventService(db)
	contentService := service.NewContentService(db, appCache, cacheTTL, cacheObserver)
	blogService := service.NewBlogService(db, appCache, cacheTTL, cacheObserver)
	inscriptionService := service.NewInscriptionService(db, service.InscriptionDeps{
		Content:  contentService,
		Events:   eventService,
		Captcha:  verifier,
		GeoIP:    countries,
		Mailer:   mail,
		Observer: inscriptionObserver,
		NotifyTo: cfg.NotifyEmail,
		SiteName: cfg.SiteName,
	})

	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("getting templates fs: %w", err)
	}
	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sessionManager,
		Site: render.Site{
			Name:            cfg.SiteName,
			Email:           cfg.ContactEmail,
			Phone:           cfg.ContactPhone,
			Address:         cfg.ContactAddr,
			HCaptchaSiteKey: verifier.SiteKey(),
		},
		IsDev: cfg.IsDevelopment(),
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}
	slog.Info("template renderer initialized")

	sched := scheduler.New(logger)
	if err := sched.RegisterDefaults(eventService, contentService, scheduler.Options{
		EventRetention: time.Duration(cfg.EventRetentionDays) * 24 * time.Hour,
		AutoSchoolYear: cfg.AutoSchoolYear,
	}); err != nil {
		return fmt.Errorf("registering scheduled jobs: %w", err)
	}
	if countries.Enabled() {
		if err := sched.Add("reload-geoip", "Reopen the GeoIP database when the file changes", "0 4 * * *",
			func(context.Context) error { return countries.Reload() }); err != nil {
			return fmt.Errorf("registering geoip reload: %w", err)
		}
	}
	sched.Start()
	defer sched.Stop()

	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	lpCtx, stopLoginProtection := context.WithCancel(ctx)
	defer stopLoginProtection()
	go loginProtection.Run(lpCtx, 5*time.Minute)
	slog.Info("login protection initialized")

	// Inscription throttling: 1 submission per 10s per IP, bursts of 3
	inscriptionLimiter := middleware.NewRateLimiter(0.1, 3)

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.StripTrailingSlash)
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())))
	if appMetrics != nil {
		r.Use(appMetrics.Middleware)
	}
	r.Use(middleware.RequestInfo)
	r.Use(middleware.ResolvePreferences(middleware.PreferencesConfig{
		Secure:            !cfg.IsDevelopment(),
		StatelessPrefixes: []string{"/api/"},
	}))
	r.Use(sessionManager.LoadAndSave)

	// The JSON API is cookie-less and answers cross-origin clients through CORS
	r.Use(middleware.SkipCSRF("/api/"))
	r.Use(middleware.CSRF(middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment(), cfg.ServerAddr())))
	slog.Info("CSRF protection initialized", "secure", !cfg.IsDevelopment())

	images := imaging.NewProcessor(cfg.UploadsDir)
	authHandler := handler.NewAuthHandler(db, renderer, sessionManager, eventService, loginProtection)
	adminHandler := handler.NewAdminHandler(handler.AdminDeps{
		Renderer:     renderer,
		Content:      contentService,
		Blogs:        blogService,
		Inscriptions: inscriptionService,
		Events:       eventService,
		Images:       images,
	})
	frontendHandler := handler.NewFrontendHandler(renderer, contentService, blogService, inscriptionService)
	preferencesHandler := handler.NewPreferencesHandler(sessionManager, !cfg.IsDevelopment())
	seoHandler := handler.NewSEOHandler(blogService, cfg.SiteURL, cfg.Env != "production")
	healthHandler := handler.NewHealthHandler(db, sessionManager, cfg.UploadsDir)

	apiHandler := api.NewHandler(api.Deps{
		Content:      contentService,
		Blogs:        blogService,
		Inscriptions: inscriptionService,
	})
	apiDocsHandler, err := api.NewDocsHandler(api.DocsConfig{
		SiteName:   cfg.SiteName,
		TemplateFS: templatesFS,
		IsDev:      cfg.IsDevelopment(),
	})
	if err != nil {
		return fmt.Errorf("initializing api docs handler: %w", err)
	}

	r.Get("/health", healthHandler.Health)
	r.Get("/health/live", healthHandler.Liveness)
	r.Get("/health/ready", healthHandler.Readiness)
	r.Get("/robots.txt", seoHandler.Robots)
	r.Get("/sitemap.xml", seoHandler.Sitemap)

	// Public site, with and without the language prefix
	r.Group(func(r chi.Router) {
		r.Use(middleware.OptionalLoadUser(sessionManager, db))

		registerFrontendRoutes(r, frontendHandler, inscriptionLimiter)
		r.Route(handler.RouteLangPrefix, func(r chi.Router) {
			r.Use(middleware.URLLanguage)
			registerFrontendRoutes(r, frontendHandler, inscriptionLimiter)
		})

		r.Post(handler.RoutePreferences, preferencesHandler.Update)
	})

	r.Group(func(r chi.Router) {
		r.Get(handler.RouteLogin, authHandler.LoginForm)
		r.With(loginProtection.Middleware()).Post(handler.RouteLogin, authHandler.Login)
		r.Post(handler.RouteLogout, authHandler.Logout)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.Auth(sessionManager))
		r.Use(middleware.LoadUser(sessionManager, db))
		r.Use(middleware.AdminLanguage(sessionManager))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(model.RoleEditor, eventService))

			r.Get(handler.RouteRoot, adminHandler.Dashboard)
			r.Get(handler.RouteEvents, adminHandler.Events)
			r.Get(handler.RouteSchoolYear, adminHandler.SchoolYear)

			registerCRUD(r, handler.RouteBlogs, crudHandlers{
				List: adminHandler.Blogs, NewForm: adminHandler.NewBlog, Create: adminHandler.CreateBlog,
				EditForm: adminHandler.EditBlog, Update: adminHandler.UpdateBlog, Delete: adminHandler.DeleteBlog,
			})
			registerCRUD(r, handler.RouteCategories, crudHandlers{
				List: adminHandler.Categories, NewForm: adminHandler.NewCategory, Create: adminHandler.CreateCategory,
				EditForm: adminHandler.EditCategory, Update: adminHandler.UpdateCategory, Delete: adminHandler.DeleteCategory,
			})
			registerCRUD(r, handler.RouteCycles, crudHandlers{
				List: adminHandler.Cycles, NewForm: adminHandler.NewCycle, Create: adminHandler.CreateCycle,
				EditForm: adminHandler.EditCycle, Update: adminHandler.UpdateCycle, Delete: adminHandler.DeleteCycle,
			})
			registerCRUD(r, handler.RouteProfessors, crudHandlers{
				List: adminHandler.Professors, NewForm: adminHandler.NewProfessor, Create: adminHandler.CreateProfessor,
				EditForm: adminHandler.EditProfessor, Update: adminHandler.UpdateProfessor, Delete: adminHandler.DeleteProfessor,
			})
			registerCRUD(r, handler.RouteTestimonials, crudHandlers{
				List: adminHandler.Testimonials, NewForm: adminHandler.NewTestimonial, Create: adminHandler.CreateTestimonial,
				EditForm: adminHandler.EditTestimonial, Update: adminHandler.UpdateTestimonial, Delete: adminHandler.DeleteTestimonial,
			})

			r.Get(handler.RouteInscriptions, adminHandler.Inscriptions)
			r.Get(handler.RouteInscriptions+handler.RouteParamID, adminHandler.Inscription)
			r.Post(handler.RouteInscriptions+handler.RouteParamID+handler.RouteSuffixStatus, adminHandler.UpdateInscriptionStatus)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(model.RoleAdmin, eventService))

			r.Post(handler.RouteSchoolYear, adminHandler.SetSchoolYear)
			r.Post(handler.RouteInscriptions+handler.RouteParamID+handler.RouteSuffixDelete, adminHandler.DeleteInscription)
			if appMetrics != nil && cfg.MetricsAddr == "" {
				r.Handle("/metrics", appMetrics.Handler())
			}
		})
	})

	r.Mount("/api/v1", apiHandler.Router(api.RouterConfig{
		AllowedOrigins:     cfg.CORSOrigins,
		InscriptionLimiter: inscriptionLimiter,
		Docs:               apiDocsHandler,
	}))
	slog.Info("REST API v1 mounted at /api/v1", "cors_origins", len(cfg.CORSOrigins))

	staticFS, err := fs.Sub(web.Static, "static/dist")
	if err != nil {
		return fmt.Errorf("getting static fs: %w", err)
	}
	// Static assets: cache for 1 year (31536000 seconds)
	r.Handle("/static/*", middleware.StaticCache(31536000)(http.StripPrefix("/static/", http.FileServer(http.FS(staticFS)))))

	// Uploads: cache for 1 week (604800 seconds)
	r.Handle(imaging.URLPrefix+"*", middleware.StaticCache(604800)(http.StripPrefix(imaging.URLPrefix, http.FileServer(http.Dir(cfg.UploadsDir)))))

	r.NotFound(frontendHandler.NotFound)

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second, // Longer to allow for photo uploads
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	var metricsSrv *http.Server
	if appMetrics != nil && cfg.MetricsAddr != "" {
		metricsMux := http.NewServeMux()
		metricsMux.Handle("/metrics", appMetrics.Handler())
		metricsSrv = &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           metricsMux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			slog.Info("starting metrics server", "addr", cfg.MetricsAddr)
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("metrics server error", "error", err)
			}
		}()
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", versionInfo.String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if metricsSrv != nil {
		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			slog.Error("metrics server shutdown", "error", err)
		}
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	// Let pending inscription notifications finish before the database closes
	inscriptionService.Wait()

	slog.Info("server stopped")
	return nil
}
