package internal

import (
	"context"
	"embed"
	"log"
	"net/http"
	"os"

	"tagview-api/internal/auth"
	"tagview-api/internal/config"
	"tagview-api/internal/handlers"
	"tagview-api/internal/store"
	"tagview-api/pkg/engine"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

//go:embed openapi
var openapiFS embed.FS

type Server struct {
	Router     *chi.Mux
	JWTManager *auth.JWTManager
	Metrics    *Metrics
	Store      *store.Store
	Users      []config.User
	Thresholds engine.Thresholds
}

func NewServer(cfg *config.Config) *Server {
	users, err := config.LoadUsers(cfg.UsersFile)
	if err != nil {
		log.Fatal("Failed to load users file:", err)
	}

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTExpiry)

	// Validate JWT configuration
	if err := jwtManager.ValidateConfig(); err != nil {
		log.Fatal("JWT configuration validation failed:", err)
	}

	// Initialize metrics
	metrics := NewMetrics()

	s := &Server{
		Router:     chi.NewRouter(),
		JWTManager: jwtManager,
		Metrics:    metrics,
		Store:      store.New(),
		Users:      users,
		Thresholds: cfg.Thresholds(),
	}

	// Router-wide middleware must be registered before any route.
	s.Router.Use(middleware.Logger)
	metricsEnabled := os.Getenv("ENABLE_METRICS") == "true"
	if metricsEnabled {
		s.Router.Use(s.Metrics.Middleware())
	}

	// Mount public routes (no auth)
	s.Router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		if _, err := w.Write([]byte("ok")); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})

	// Public auth routes (no JWT required)
	s.Router.Post("/auth/login", s.loginUser)
	s.mountDocs(s.Router)

	if metricsEnabled {
		s.Router.Get("/metrics", s.Metrics.Handler().ServeHTTP)
	}

	// Create a protected route group with middleware
	s.Router.Group(func(r chi.Router) {
		// Apply middleware to this group only
		r.Use(auth.AuthMiddleware(s.JWTManager))

		// Mount protected routes
		s.mountProtectedRoutes(r, cfg)
	})

	return s
}

// Close shuts down the server and cleans up resources
func (s *Server) Close(ctx context.Context) error {
	return nil
}

// mountDocs serves the OpenAPI spec and Swagger UI
func (s *Server) mountDocs(mux *chi.Mux) {
	// Check if Swagger is enabled
	if os.Getenv("ENABLE_SWAGGER") != "true" {
		return
	}

	// Serve the raw YAML
	mux.HandleFunc("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		data, err := openapiFS.ReadFile("openapi/openapi.yaml")
		if err != nil {
			http.Error(w, "Failed to read OpenAPI spec", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/x-yaml")
		if _, err := w.Write(data); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})

	// Serve Swagger UI page
	mux.HandleFunc("/docs", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(200)
		w.Write([]byte(`<!doctype html>
<html lang="en">
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <title>TagView API - Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.9.0/swagger-ui.css">
    <style>
        body { margin: 0; background: #f7f7f7; }
        .swagger-ui .topbar { background: #1f2937; border-bottom: 3px solid #3b82f6; }
        .swagger-ui .topbar .download-url-wrapper { display: none; }
        .swagger-ui .info { margin: 20px 0; }
        .swagger-ui .info .title { color: #1f2937; }
    </style>
</head>
<body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5.9.0/swagger-ui-bundle.js"></script>
    <script>
        window.onload = function() {
            window.ui = SwaggerUIBundle({
                url: '/openapi.yaml',
                dom_id: '#swagger-ui',
                deepLinking: true,
                presets: [
                    SwaggerUIBundle.presets.apis,
                    SwaggerUIBundle.presets.standalone
                ],
                layout: "StandaloneLayout",
                tryItOutEnabled: true
            });
        };
    </script>
</body>
</html>`))
	})
}

// mountProtectedRoutes mounts all protected routes that require authentication
func (s *Server) mountProtectedRoutes(r chi.Router, cfg *config.Config) {
	// Snapshot lifecycle - admin role required for writes
	uploadsHandler := handlers.NewUploadsHandler(s.Store, s.Thresholds, cfg.MaxUploadBytes)
	uploadsHandler.OnLoad = s.Metrics.ObserveSnapshot

	upload := limitBody(cfg.MaxUploadBytes)(http.HandlerFunc(uploadsHandler.UploadSnapshot))
	r.Post("/snapshots", auth.MustRole("admin")(upload).(http.HandlerFunc))
	r.Get("/snapshots", s.listSnapshots)
	r.Get("/snapshots/{id}", s.getSnapshot)
	r.Delete("/snapshots/{id}", auth.MustRole("admin")(http.HandlerFunc(s.deleteSnapshot)).(http.HandlerFunc))

	// Read-only views over a snapshot
	r.Get("/assets", s.listSnapshotAssets)
	r.Get("/alerts", s.listAlerts)
	r.Get("/warnings", s.listWarnings)
	r.Get("/summary", s.getSummary)
	r.Get("/trend", s.getTrend)
	r.Get("/export", s.exportAssets)
}
