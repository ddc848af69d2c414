package main

import (
	"context"
	"embed"
	"errors"
	"flag"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"tasklist/internal/chat"
	"tasklist/internal/config"
	"tasklist/internal/handlers"
	"tasklist/internal/kv"
	"tasklist/internal/logging"
	"tasklist/internal/store"
	"tasklist/internal/theme"
	"tasklist/internal/tui"
)

//go:embed templates/*
var templatesFS embed.FS

//go:embed static/*
var staticFS embed.FS

func main() {
	configPath := flag.String("config", "", "path to a TOML config file (default: ./tasklist.toml if present)")
	ui := flag.String("ui", "", "interface to run: web or tui (overrides config)")
	flag.Parse()

	if err := run(*configPath, *ui); err != nil {
		fmt.Fprintln(os.Stderr, "tasklist:", err)
		os.Exit(1)
	}
}

func run(configPath, ui string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if ui != "" {
		cfg.UI = ui
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	logger, err := logging.New(os.Stderr, logging.Options{
		Level:           cfg.LogLevel,
		Format:          cfg.LogFormat,
		ReportTimestamp: true,
	})
	if err != nil {
		return err
	}
	if cfg.File != "" {
		logger.Debug("config loaded", "file", cfg.File)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend := openKV(cfg, logger)
	defer backend.Close()

	tasks := store.New(backend,
		store.WithLogger(logger),
		store.WithDefaultPriority(cfg.Priority()),
	)
	if err := tasks.Load(ctx); err != nil {
		logger.Warn("starting with an empty task list", "err", err)
	}
	themes := theme.New(backend)

	if cfg.UI == config.UITUI {
		return tui.Run(ctx, tasks, themes, logger)
	}

	panel := chat.NewPanel(cfg.ChatDelay(), chat.WithLogger(logger))
	defer panel.Close()

	tmpl, err := parseTemplates()
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}

	h := handlers.New(tasks, themes, panel, tmpl, logger)
	return serve(ctx, cfg.Addr, newRouter(h, logger), logger)
}

// openKV opens the configured backend. If it cannot be opened the app still
// runs, keeping changes in memory for the session.
func openKV(cfg *config.Config, logger *log.Logger) kv.Store {
	opts := cfg.KVOptions()
	opts.Logger = logger
	if opts.Backend == kv.BackendSQLite {
		if err := os.MkdirAll(filepath.Dir(opts.DBPath), 0755); err != nil {
			logger.Warn("failed to create data directory", "err", err)
		}
	}
	if opts.Backend == kv.BackendFile {
		if err := os.MkdirAll(filepath.Dir(opts.FilePath), 0755); err != nil {
			logger.Warn("failed to create data directory", "err", err)
		}
	}

	backend, err := kv.Open(opts)
	if err != nil {
		logger.Warn("storage unavailable, changes will not be saved", "backend", opts.Backend, "err", err)
		return kv.NewMemory()
	}
	logger.Info("storage opened", "backend", opts.Backend)
	return backend
}

func newRouter(h *handlers.Handlers, logger *log.Logger) chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  logging.Standard(logger),
		NoColor: true,
	}))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	// Static files
	staticSub, _ := fs.Sub(staticFS, "static")
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticSub))))

	// Page routes
	r.Get("/", h.Home)

	// Task API routes
	r.Get("/api/tasks", h.ListTasks)
	r.Post("/api/tasks", h.CreateTask)
	r.Post("/api/tasks/reorder", h.ReorderTasks)
	r.Post("/api/tasks/clear-completed", h.ClearCompleted)
	r.Put("/api/tasks/{id}", h.UpdateTask)
	r.Delete("/api/tasks/{id}", h.DeleteTask)
	r.Post("/api/tasks/{id}/toggle", h.ToggleTask)
	r.Post("/api/tasks/{id}/edit", h.BeginEdit)
	r.Post("/api/tasks/{id}/cancel", h.CancelEdit)

	// Theme API routes
	r.Get("/api/theme", h.GetTheme)
	r.Put("/api/theme", h.SetTheme)
	r.Delete("/api/theme", h.ResetTheme)
	r.Post("/api/theme/toggle-dark", h.ToggleDark)

	// Chat API routes
	r.Get("/api/chat", h.ListMessages)
	r.Post("/api/chat", h.PostMessage)

	return r
}

func serve(ctx context.Context, addr string, handler http.Handler, logger *log.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func parseTemplates() (*template.Template, error) {
	tmpl := template.New("")

	// Parse all templates
	patterns := []string{
		"templates/*.html",
		"templates/partials/*.html",
	}

	for _, pattern := range patterns {
		matches, err := fs.Glob(templatesFS, pattern)
		if err != nil {
			return nil, fmt.Errorf("failed to glob pattern %s: %w", pattern, err)
		}

		for _, match := range matches {
			content, err := templatesFS.ReadFile(match)
			if err != nil {
				return nil, fmt.Errorf("failed to read template %s: %w", match, err)
			}

			name := filepath.Base(match)
			_, err = tmpl.New(name).Parse(string(content))
			if err != nil {
				return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
			}
		}
	}

	return tmpl, nil
}
