package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"

	"pitchwise/internal/config"
	"pitchwise/internal/extractor"
	"pitchwise/internal/generator"
	"pitchwise/internal/generator/claude"
	"pitchwise/internal/generator/gemini"
	"pitchwise/internal/generator/openai"
	"pitchwise/internal/handler"
	"pitchwise/internal/logger"
	"pitchwise/internal/router"
	"pitchwise/internal/session"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	appLog, err := logger.NewStructured(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = appLog.Sync() }()

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Register generation providers
	generator.RegisterProvider("groq", openai.GroqFactory)
	generator.RegisterProvider("openai", openai.Factory)
	generator.RegisterProvider("claude", claude.Factory)
	generator.RegisterProvider("gemini", gemini.Factory)

	prompt, err := generator.LoadPromptTemplate(cfg.Prompt.TemplateFile)
	if err != nil {
		return fmt.Errorf("failed to load prompt template: %w", err)
	}

	gen, err := generator.NewFromConfig(&cfg.Generator, prompt, appLog)
	if err != nil {
		return fmt.Errorf("failed to initialize generator: %w", err)
	}
	appLog.Info("generator chain ready", map[string]interface{}{"providers": gen.Names()})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Session layer
	coord := session.NewCoordinator(gen, extractor.New(), appLog)
	hub := session.NewHub(ctx, coord, cfg.Session, appLog)

	// Initialize handlers
	origins := cfg.CORS.AllowedOrigins
	wsH := handler.NewWSHandler(hub, origins, appLog)
	chatH := handler.NewChatHandler(coord, appLog)
	optionsH := handler.NewOptionsHandler(extractor.New())
	healthH := handler.NewHealthHandler(hub, gen.Names())

	// Setup router
	r := router.Setup(appLog, origins, wsH, chatH, optionsH, healthH)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		appLog.Info("server starting", map[string]interface{}{
			"addr":             cfg.Server.Port,
			"allowed_origins":  origins,
			"serialize_cycles": cfg.Session.SerializeCycles,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		appLog.Info("shutdown signal received", nil)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	hub.Shutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	appLog.Info("server stopped", nil)
	return nil
}
