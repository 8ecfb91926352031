package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"doctracker/internal/auth"
	"doctracker/internal/config"
	"doctracker/internal/handler"
	"doctracker/internal/httputil"
	"doctracker/internal/middleware"
	"doctracker/internal/repository/postgres"
	postgresDirectory "doctracker/internal/repository/postgres/directory"
	postgresDocstore "doctracker/internal/repository/postgres/docstore"
	"doctracker/internal/roles"
	"doctracker/internal/service/authz"
	serviceDirectory "doctracker/internal/service/directory"
	serviceDocstore "doctracker/internal/service/docstore"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Debug {
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

	// Create JWT verifier
	jwtVerifier, err := auth.NewJWTVerifier(cfg.JWKSURL, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer jwtVerifier.Close()

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

	// Create repositories
	tables := postgres.NewTableNames(cfg.TablePrefix)
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	userRepo := postgresDirectory.NewUserRepository(repoConfig)
	orgRepo := postgresDirectory.NewOrgRepository(repoConfig)
	folderRepo := postgresDocstore.NewFolderRepository(repoConfig)
	fileRepo := postgresDocstore.NewFileRepository(repoConfig)
	linkRepo := postgresDocstore.NewResourceLinkRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool)

	// Initialize role template registry
	roleRegistry, err := roles.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to initialize role registry: %v", err)
	}
	logger.Info("role registry initialized")

	// Create services
	auditor := authz.NewLogAuditor(logger)
	resolver := authz.NewResolver(userRepo, folderRepo, fileRepo, linkRepo, auditor, logger)
	folderService := serviceDocstore.NewFolderService(folderRepo, fileRepo, linkRepo, userRepo, resolver, roleRegistry, txManager, logger)
	fileService := serviceDocstore.NewFileService(fileRepo, folderRepo, linkRepo, userRepo, resolver, roleRegistry, txManager, logger)
	userService := serviceDirectory.NewUserService(userRepo, orgRepo, logger)

	// Create handlers
	folderHandler := handler.NewFolderHandler(folderService, logger)
	fileHandler := handler.NewFileHandler(fileService, logger)
	permissionHandler := handler.NewPermissionHandler(resolver, logger)
	userHandler := handler.NewUserHandler(userService, logger)
	rolesHandler := handler.NewRolesHandler(roleRegistry)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Folder routes
	mux.HandleFunc("POST /api/folders", folderHandler.CreateFolder)
	mux.HandleFunc("GET /api/folders", folderHandler.ListFolders)
	mux.HandleFunc("GET /api/folders/{id}", folderHandler.GetFolder)
	mux.HandleFunc("PATCH /api/folders/{id}", folderHandler.UpdateFolder)
	mux.HandleFunc("DELETE /api/folders/{id}", folderHandler.DeleteFolder)
	mux.HandleFunc("GET /api/folders/{id}/children", folderHandler.ListChildren)
	mux.HandleFunc("GET /api/folders/{id}/permissions", folderHandler.GetPermissions)
	mux.HandleFunc("PUT /api/folders/{id}/permissions", folderHandler.UpdatePermissions)

	// File routes
	mux.HandleFunc("POST /api/files", fileHandler.CreateFile)
	mux.HandleFunc("GET /api/files/{id}", fileHandler.GetFile)
	mux.HandleFunc("PATCH /api/files/{id}", fileHandler.UpdateFile)
	mux.HandleFunc("DELETE /api/files/{id}", fileHandler.DeleteFile)
	mux.HandleFunc("GET /api/files/{id}/permissions", fileHandler.GetPermissions)

	// File link routes
	mux.HandleFunc("POST /api/files/{id}/links", fileHandler.LinkFile)
	mux.HandleFunc("GET /api/files/{id}/links", fileHandler.ListLinks)
	mux.HandleFunc("DELETE /api/files/{id}/links/{folderID}", fileHandler.UnlinkFile)
	mux.HandleFunc("PUT /api/files/{id}/links/{folderID}/permissions", fileHandler.UpdateLinkPermissions)

	// Permission check
	mux.HandleFunc("GET /api/permissions/check", permissionHandler.Check)

	// Role templates
	mux.HandleFunc("GET /api/roles", rolesHandler.ListRoles)

	// Directory routes
	mux.HandleFunc("POST /api/users", userHandler.CreateUser)
	mux.HandleFunc("GET /api/users", userHandler.ListUsers)
	mux.HandleFunc("GET /api/users/me", userHandler.Me)
	mux.HandleFunc("GET /api/users/{id}", userHandler.GetUser)
	mux.HandleFunc("PUT /api/users/{id}/departments/{departmentID}", userHandler.AddToDepartment)
	mux.HandleFunc("DELETE /api/users/{id}/departments/{departmentID}", userHandler.RemoveFromDepartment)

	// Build middleware chain
	var h http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → Auth → Routes
	h = middleware.Auth(jwtVerifier)(h)
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
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
