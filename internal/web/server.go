package web

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dailygoodnews/frontend/internal/config"
	"github.com/dailygoodnews/frontend/internal/content"
)

//go:embed templates/*.html
var templateFS embed.FS

// TemplateFS returns the page templates: the configured directory when set,
// otherwise the embedded defaults.
func TemplateFS(cfg *config.Config) (fs.FS, error) {
	if cfg.TemplatesDir != "" {
		return os.DirFS(cfg.TemplatesDir), nil
	}
	return fs.Sub(templateFS, "templates")
}

// NewHandler builds the site's routes on top of source.
func NewHandler(cfg *config.Config, source content.Source, logger *slog.Logger, version string) (http.Handler, error) {
	templates, err := TemplateFS(cfg)
	if err != nil {
		return nil, fmt.Errorf("template FS: %w", err)
	}

	renderer, err := NewRenderer(templates, version, logger)
	if err != nil {
		return nil, err
	}

	h := &Handlers{
		source:   source,
		cfg:      cfg,
		renderer: renderer,
		logger:   logger,
		now:      time.Now,
	}

	mux := http.NewServeMux()

	// Routes using Go 1.22+ pattern syntax
	mux.HandleFunc("GET /{$}", h.HandleHome)
	mux.HandleFunc("GET /news/{id}", h.HandleNewsItem)
	mux.HandleFunc("GET /articles", h.HandleArticles)
	mux.HandleFunc("GET /article/{id}", h.HandleArticleItem)
	mux.HandleFunc("GET /knowledge_vault", h.HandleKnowledgeVault)
	mux.HandleFunc("GET /knowledge_vault/{id}", h.HandleKnowledgeItem)
	mux.HandleFunc("GET /story_time", h.HandleStoryTime)
	mux.HandleFunc("GET /story_time/{id}", h.HandleStoryItem)
	mux.HandleFunc("GET /about", h.HandleStatic("about", "About"))
	mux.HandleFunc("GET /contact", h.HandleStatic("contact", "Contact"))
	mux.HandleFunc("GET /privacy-policy", h.HandleStatic("privacy_policy", "Privacy Policy"))
	mux.HandleFunc("GET /healthz", h.HandleHealth)

	// Raw file passthrough; http.FileServer rejects ".." segments itself.
	mux.Handle("GET /artifacts/", http.StripPrefix("/artifacts/", http.FileServer(filesOnly{http.Dir(cfg.ContentDir)})))
	if cfg.StaticDir != "" {
		mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(filesOnly{http.Dir(cfg.StaticDir)})))
	}

	return requestLogger(logger, securityHeaders(mux)), nil
}

// filesOnly hides directories so the file servers answer 404 instead of
// listing their contents.
type filesOnly struct {
	root http.FileSystem
}

func (f filesOnly) Open(name string) (http.File, error) {
	file, err := f.root.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, err
	}
	if info.IsDir() {
		_ = file.Close()
		return nil, fs.ErrNotExist
	}
	return file, nil
}

// NewServer creates and configures the HTTP server for the site.
func NewServer(cfg *config.Config, source content.Source, logger *slog.Logger, version string) (*http.Server, error) {
	handler, err := NewHandler(cfg, source, logger, version)
	if err != nil {
		return nil, err
	}

	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
	}, nil
}

// Run starts the HTTP server and handles graceful shutdown on SIGINT/SIGTERM.
func Run(srv *http.Server, logger *slog.Logger) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	logger.Info("site running", "url", "http://"+srv.Addr)

	if strings.HasPrefix(srv.Addr, ":") || strings.Contains(srv.Addr, "0.0.0.0") {
		logger.Warn("server is binding to all interfaces")
	}

	select {
	case err := <-errCh:
		return err
	case <-sigCh:
		logger.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}
