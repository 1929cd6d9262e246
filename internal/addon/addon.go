// Package addon answers the Stremio addon protocol (manifest, catalog,
// stream) and the management API from the per-tenant content store.
package addon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"go.uber.org/zap"

	"github.com/DavidGracias/stream-save/internal/store"
	"github.com/DavidGracias/stream-save/internal/stremio"
)

// ContentStore is the store the responder and the management API read from
// and write to.
type ContentStore interface {
	ListAll(ctx context.Context, tenantKey string) ([]store.ContentRecord, error)
	ListByType(ctx context.Context, tenantKey, contentType string) ([]store.ContentRecord, error)
	Upsert(ctx context.Context, tenantKey, contentType, id, streamURL string) error
	UpdateFields(ctx context.Context, tenantKey, contentType, id string, update store.FieldUpdate) error
	Remove(ctx context.Context, tenantKey, contentType, id string) error
	GetOne(ctx context.Context, tenantKey, contentType, id string) (store.ContentRecord, string, error)
	StreamURL(ctx context.Context, tenantKey, contentType, id string) (string, error)
}

// Options customize the addon server beyond its manifest and store.
type Options struct {
	// BindAddr is the address to bind to. Default: "0.0.0.0".
	BindAddr string
	// Port is the port to listen on. Default: 5173.
	Port int
	// Logger is used for all logging. A default one is created when nil.
	Logger *zap.Logger
	// LoggingLevel and LogEncoding configure the default logger and are
	// ignored when a Logger is set.
	LoggingLevel string
	LogEncoding  string
	// Metrics enables the metrics middleware and the "/metrics" endpoint.
	Metrics bool
	// CacheAgeCatalogs is the Cache-Control max-age for catalog responses.
	// 0 disables the header.
	CacheAgeCatalogs time.Duration
	// CacheAgeStreams is the same for stream responses.
	CacheAgeStreams time.Duration
	// HandleEtags enables ETag/If-None-Match handling on catalog and stream
	// responses.
	HandleEtags bool
}

// DefaultOptions are the options a zero Options value falls back to.
var DefaultOptions = Options{
	BindAddr:     "0.0.0.0",
	Port:         5173,
	LoggingLevel: "info",
	LogEncoding:  "console",
}

// Addon is the Stream Save addon server. Create one with New() and start it
// with Run().
type Addon struct {
	app      *fiber.App
	manifest stremio.Manifest
	opts     Options
	logger   *zap.Logger
}

// New creates the addon server around the content store.
func New(contentStore ContentStore, manifest stremio.Manifest, opts Options) (*Addon, error) {
	// Precondition checks
	switch {
	case manifest.ID == "" || manifest.Name == "" || manifest.Description == "" || manifest.Version == "":
		return nil, errors.New("an empty manifest was passed")
	case contentStore == nil:
		return nil, errors.New("no content store was passed")
	case opts.Logger != nil && opts.LoggingLevel != "":
		return nil, errors.New("setting a logging level in the options doesn't make sense when you already set a custom logger")
	}

	// Set default values
	if opts.BindAddr == "" {
		opts.BindAddr = DefaultOptions.BindAddr
	}
	if opts.Port == 0 {
		opts.Port = DefaultOptions.Port
	}
	if opts.LoggingLevel == "" {
		opts.LoggingLevel = DefaultOptions.LoggingLevel
	}
	if opts.LogEncoding == "" {
		opts.LogEncoding = DefaultOptions.LogEncoding
	}

	logger := opts.Logger
	if logger == nil {
		var err error
		if logger, err = NewLogger(opts.LoggingLevel, opts.LogEncoding); err != nil {
			return nil, fmt.Errorf("couldn't create new logger: %w", err)
		}
	}

	// The manifest is marshaled once so every response is byte-identical.
	manifestBody, err := json.Marshal(manifest)
	if err != nil {
		return nil, fmt.Errorf("couldn't marshal manifest: %w", err)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}
			logger.Error("Fiber's error handler was called", zap.Error(err), zap.String("url", c.OriginalURL()))
			c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
			return c.Status(code).SendString("An internal server error occurred")
		},
		BodyLimit: 0,
	})

	// Middlewares

	app.Use(recover.New())
	app.Use(createLoggingMiddleware(logger))
	if opts.Metrics {
		app.Use(createMetricsMiddleware())
	}
	app.Use(corsMiddleware()) // Stremio doesn't show stream responses when no CORS middleware is used!

	// Extra endpoints

	app.Get("/health", createHealthHandler(logger))
	if opts.Metrics {
		app.Get("/metrics", adaptor.HTTPHandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			metrics.WritePrometheus(w, true)
		}))
	}

	// Management API

	app.Get("/api/content", createListContentHandler(contentStore, logger))
	app.Post("/api/content", createAddContentHandler(contentStore, logger))
	app.Get("/api/content/:type/:id", createGetContentHandler(contentStore, logger))
	app.Put("/api/content/:type/:id", createUpdateContentHandler(contentStore, logger))
	app.Delete("/api/content/:type/:id", createRemoveContentHandler(contentStore, logger))

	// Stremio endpoints

	manifestHandler := createManifestHandler(manifestBody, logger)
	app.Get("/manifest.json", manifestHandler)
	app.Get("/:user/:passw/:cluster/manifest.json", manifestHandler)
	app.Get("/:user/:passw/:cluster/configure", createConfigureHandler())
	app.Get("/:user/:passw/:cluster/catalog/:type/:id.json",
		createCatalogHandler(contentStore, opts.CacheAgeCatalogs, opts.HandleEtags, logger))
	app.Get("/:user/:passw/:cluster/stream/:type/:id.json",
		createStreamHandler(contentStore, opts.CacheAgeStreams, opts.HandleEtags, logger))

	return &Addon{
		app:      app,
		manifest: manifest,
		opts:     opts,
		logger:   logger,
	}, nil
}

// App exposes the underlying Fiber app, mainly for tests.
func (a *Addon) App() *fiber.App {
	return a.app
}

// Run starts the server and blocks until a SIGINT or SIGTERM arrives, then
// shuts down gracefully. The optional stoppingChan is notified right before
// the shutdown begins; it must be buffered.
func (a *Addon) Run(stoppingChan chan bool) {
	logger := a.logger

	defer func() {
		if err := logger.Sync(); err != nil {
			logger.Error("Failed to sync logger", zap.Error(err))
		}
	}()

	if stoppingChan != nil && cap(stoppingChan) < 1 {
		logger.Fatal("The passed stopping channel isn't buffered")
	}

	stopping := false
	stoppingPtr := &stopping

	addr := a.opts.BindAddr + ":" + strconv.Itoa(a.opts.Port)
	logger.Info("Starting server", zap.String("address", addr))
	go func() {
		if err := a.app.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true}); err != nil {
			if !*stoppingPtr {
				logger.Fatal("Couldn't start server", zap.Error(err))
			} else {
				logger.Fatal("Error during server shutdown", zap.Error(err))
			}
		}
	}()

	c := make(chan os.Signal, 1)
	// Accept SIGINT (Ctrl+C) and SIGTERM (`docker stop`)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	sig := <-c
	logger.Info("Received signal, shutting down server...", zap.Stringer("signal", sig))
	*stoppingPtr = true
	if stoppingChan != nil {
		stoppingChan <- true
	}
	// Graceful shutdown, waiting for all current requests to finish without accepting new ones.
	if err := a.app.Shutdown(); err != nil {
		logger.Fatal("Error shutting down server", zap.Error(err))
	}
	logger.Info("Finished shutting down server")
}
