package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/tc108/internal/config"
	"github.com/stwalsh4118/tc108/internal/form"
	"github.com/stwalsh4118/tc108/internal/handlers"
	"github.com/stwalsh4118/tc108/internal/logger"
	"github.com/stwalsh4118/tc108/internal/middleware"
	"github.com/stwalsh4118/tc108/internal/services"
	"github.com/stwalsh4118/tc108/internal/session"
)

const readHeaderTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Server.Env)
	log.Info("Starting TC108 form API", logger.Fields{
		"version":     handlers.APIVersion,
		"environment": cfg.Server.Env,
		"port":        cfg.Server.Port,
		"import_mode": cfg.Form.ImportMode,
	})

	schema, err := form.NewSchema()
	if err != nil {
		log.Fatal("Failed to build form schema", err, nil)
	}
	log.Info("Form schema loaded", logger.Fields{
		"sections": len(schema.Sections()),
		"rules":    len(schema.Rules()),
	})

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	store, err := newSession(cfg.Form, schema, log)
	if err != nil {
		log.Fatal("Failed to create form session", err, logger.Fields{
			"defaults_file": cfg.Form.DefaultsFile,
		})
	}
	formService := services.NewFormService(store, log, cfg.Form.ImportMaxBytes)
	router := newRouter(cfg, log, formService)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info("Server listening", logger.Fields{
			"port": cfg.Server.Port,
			"addr": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start", err, nil)
		}
	}()

	// Wait for interrupt signal (SIGINT or SIGTERM)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", err, logger.Fields{
			"timeout": cfg.Server.ShutdownTimeout.String(),
		})
	}

	log.Info("Server exited", nil)
}

// newSession creates the form session, starting from the configured
// defaults file when there is one. The file is not validated; the form
// shows its problems like those of any imported record.
func newSession(cfg config.FormConfig, schema *form.Schema, log *logger.Logger) (*session.Session, error) {
	opts := []session.Option{session.WithStrictImport(cfg.StrictImport())}

	if cfg.DefaultsFile != "" {
		f, err := os.Open(cfg.DefaultsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to open defaults file: %w", err)
		}
		defer f.Close()

		defaults, err := form.Decode(f)
		if err != nil {
			return nil, fmt.Errorf("failed to load defaults file %s: %w", cfg.DefaultsFile, err)
		}
		opts = append(opts, session.WithDefaults(defaults))
		log.Info("Form defaults loaded", logger.Fields{
			"defaults_file": cfg.DefaultsFile,
		})
	}

	return session.New(schema, opts...), nil
}

// newRouter builds the gin engine with middleware in order:
// RequestID -> Logger -> Recovery -> CORS.
func newRouter(cfg *config.Config, log *logger.Logger, formService services.FormService) *gin.Engine {
	router := gin.New()
	router.MaxMultipartMemory = cfg.Form.ImportMaxBytes

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log, "/health"))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.CORS(cfg.CORS.Origins))

	healthHandler := handlers.NewHealthHandler(formService, cfg.Server.Env, cfg.Form.ImportMode)
	router.GET("/health", healthHandler.Health)
	router.GET("/health/ready", healthHandler.Ready)

	v1 := router.Group("/api/v1")
	v1.GET("/info", healthHandler.Info)
	handlers.NewFormHandler(formService).Register(v1)

	return router
}
