package main

import (
	"context"
	"errors"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/cors"

	"portfolio/internal/auth"
	"portfolio/internal/config"
	"portfolio/internal/handler"
	"portfolio/internal/metrics"
	"portfolio/internal/middleware"
	"portfolio/internal/render"
	"portfolio/internal/repository/workspacedb"
	"portfolio/internal/service"
	"portfolio/internal/service/content"
	"portfolio/internal/workspace/backend"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Setup structured logging, optionally teed to a log file
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}
	var out io.Writer = os.Stdout
	if cfg.LogDir != "" {
		f, err := config.OpenLogFile(cfg.LogDir, config.MaxLogFiles, time.Now())
		if err != nil {
			log.Fatalf("Failed to set up log file: %v", err)
		}
		defer f.Close()
		out = io.MultiWriter(os.Stdout, f)
	}
	logger := slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	logger.Info("server starting", "config", cfg.String())

	ctx := context.Background()
	m := metrics.New(prometheus.NewRegistry())

	store, closeStore, err := backend.Open(ctx, cfg, m, logger)
	if err != nil {
		log.Fatalf("Failed to open workspace store: %v", err)
	}
	defer closeStore()

	schema, err := workspacedb.LoadSchema(cfg.SchemaFile)
	if err != nil {
		log.Fatalf("Failed to load workspace schema: %v", err)
	}

	// Token issuing and verification. An external issuer is accepted
	// alongside our own tokens when AUTH_JWKS_URL is set.
	localJWT, err := auth.NewLocalJWT(cfg.JWTSecret, cfg.TokenTTL, logger)
	if err != nil {
		log.Fatalf("Failed to create token issuer: %v", err)
	}
	verifiers := []auth.JWTVerifier{localJWT}
	if cfg.AuthJWKSURL != "" {
		jwks, err := auth.NewJWKSVerifier(ctx, cfg.AuthJWKSURL, logger)
		if err != nil {
			log.Fatalf("Failed to create JWKS verifier: %v", err)
		}
		verifiers = append(verifiers, jwks)
	}
	verifier := auth.NewChainVerifier(verifiers...)
	defer verifier.Close()

	// Repositories
	repoConfig := &workspacedb.RepositoryConfig{
		Store:                 store,
		Schema:                schema,
		UsersDatabaseID:       cfg.UsersDatabaseID,
		CaseStudiesDatabaseID: cfg.CaseStudiesDatabaseID,
		PageSize:              cfg.BlockPageSize,
		Logger:                logger,
	}
	if repoConfig.UsersDatabaseID == "" {
		repoConfig.UsersDatabaseID = "users"
	}
	if repoConfig.CaseStudiesDatabaseID == "" {
		repoConfig.CaseStudiesDatabaseID = "case-studies"
	}
	userRepo := workspacedb.NewUserRepository(repoConfig)
	caseStudyRepo := workspacedb.NewCaseStudyRepository(repoConfig)
	blockRepo := workspacedb.NewBlockRepository(repoConfig)

	// Services
	translator := content.NewTranslator(blockRepo, content.Limits{
		MaxDepth:    cfg.BlockMaxDepth,
		MaxNodes:    cfg.BlockMaxNodes,
		Concurrency: cfg.BlockFetchConcurrency,
	}, m, logger)
	authService := service.NewAuthService(userRepo, localJWT, logger)
	userService := service.NewUserService(userRepo, logger)
	caseStudyService := service.NewCaseStudyService(caseStudyRepo, translator, logger)
	databaseService := service.NewDatabaseService(userRepo, caseStudyRepo, logger)

	logger.Info("services initialized")

	// Handlers
	errs := handler.ErrorPolicy{Logger: logger, ExposeDetails: cfg.ExposeErrorInfo}
	router := &handler.Router{
		Auth:      handler.NewAuthHandler(authService, errs),
		User:      handler.NewUserHandler(userService, errs),
		CaseStudy: handler.NewCaseStudyHandler(caseStudyService, render.NewRenderer(), errs),
		Database:  handler.NewDatabaseHandler(databaseService, errs),
		Metrics:   m.Handler(),
	}

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()
	router.Register(mux)

	routeOf := func(r *http.Request) string {
		if _, pattern := mux.Handler(r); pattern != "" {
			return pattern
		}
		return "unmatched"
	}

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → Logging → RateLimit → Auth → Routes
	var h http.Handler = mux
	h = middleware.AuthMiddleware(verifier, middleware.PublicPaths(handler.PublicRoutes...), logger)(h)
	h = middleware.RateLimit(middleware.NewIPRateLimiter(cfg.AuthRateLimit), middleware.PublicPaths(handler.RateLimitedRoutes...))(h)
	h = middleware.Logging(logger, m, routeOf)(h)
	h = middleware.Recovery(logger)(h)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins(),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
	}
}
