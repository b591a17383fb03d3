package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"nova/internal/auth"
	"nova/internal/config"
	"nova/internal/handler"
	"nova/internal/indexer"
	"nova/internal/middleware"
	"nova/internal/repository/postgres"
	"nova/internal/service"
	"nova/internal/storage"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	// Session token verifier
	verifier, err := auth.NewVerifier(cfg.JWTSecret)
	if err != nil {
		log.Fatalf("Failed to create token verifier: %v", err)
	}

	// Create pgx connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected",
		"max_conns", 25,
		"min_conns", 5,
	)

	// Create table names
	tables := postgres.NewTableNames(cfg.TablePrefix)

	// Create repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	orgRepo := postgres.NewOrganizationRepository(repoConfig)
	userRepo := postgres.NewUserRepository(repoConfig)
	workspaceRepo := postgres.NewWorkspaceRepository(repoConfig)
	accessRepo := postgres.NewAccessRepository(repoConfig)
	docRepo := postgres.NewDocumentRepository(repoConfig)
	chatRepo := postgres.NewChatRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool)

	// External collaborators
	store := storage.NewFileStore(cfg.StorageRoot)
	idx := indexer.NewClient(cfg.IndexerURL, cfg.IndexerKey, cfg.IndexName)

	// Create services. Upload and workspace services share the lock table so
	// a rename and an upload into the same workspace serialize.
	resolver := service.NewTenantResolver(userRepo)
	locks := service.NewWorkspaceLocks()
	accessService := service.NewAccessService(accessRepo, userRepo, txManager, logger)
	uploadService := service.NewUploadService(docRepo, workspaceRepo, orgRepo, store, idx, locks, logger)
	workspaceService := service.NewWorkspaceService(workspaceRepo, docRepo, orgRepo, chatRepo, accessService, store, idx, locks, logger)
	orgService := service.NewOrganizationService(orgRepo, logger)

	// Create handlers
	workspaceHandler := handler.NewWorkspaceHandler(workspaceService, accessService, resolver, logger)
	documentHandler := handler.NewDocumentHandler(uploadService, resolver, logger)
	orgHandler := handler.NewOrganizationHandler(orgService, resolver, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", handler.HealthCheck)

	// Organization routes
	mux.HandleFunc("POST /api/organizations", orgHandler.CreateOrganization)
	mux.HandleFunc("GET /api/organizations", orgHandler.ListOrganizations)
	mux.HandleFunc("GET /api/organizations/me", orgHandler.GetMyOrganization)

	// Workspace routes
	mux.HandleFunc("GET /api/workspaces", workspaceHandler.ListWorkspaces)
	mux.HandleFunc("POST /api/workspaces", workspaceHandler.CreateWorkspace)
	mux.HandleFunc("GET /api/workspaces/{id}", workspaceHandler.GetWorkspace)
	mux.HandleFunc("PUT /api/workspaces/{id}", workspaceHandler.UpdateWorkspace)
	mux.HandleFunc("DELETE /api/workspaces/{id}", workspaceHandler.DeleteWorkspace)
	mux.HandleFunc("GET /api/workspaces/{id}/tree", workspaceHandler.GetTree)
	mux.HandleFunc("GET /api/workspaces/{id}/access", workspaceHandler.ListAccess)

	// Document routes
	mux.HandleFunc("POST /api/workspaces/{id}/documents", documentHandler.UploadDocuments)
	mux.HandleFunc("DELETE /api/documents/{id}", documentHandler.DeleteDocument)

	// Build middleware chain
	var h http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → Auth → Routes
	h = middleware.AuthMiddleware(verifier)(h)
	h = middleware.Recovery(logger)(h)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
