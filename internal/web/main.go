// Package web assembles the Fiber application: middleware, handler routes
// and the service lifecycle (start, graceful drain, shutdown).
package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/clipdeck/clipdeck/internal/config"
	"github.com/clipdeck/clipdeck/internal/objstore"
	"github.com/clipdeck/clipdeck/internal/web/handler/accesscodes"
	"github.com/clipdeck/clipdeck/internal/web/handler/account"
	"github.com/clipdeck/clipdeck/internal/web/handler/upload"
	"github.com/clipdeck/clipdeck/internal/web/handler/videos"
)

// maxUploadSize bounds the request body so multipart video uploads fit.
const maxUploadSize = 256 << 20

// Service represents the web service.
type Service struct {
	App   *fiber.App
	cfg   *config.Config
	alive atomic.Bool
	db    *gorm.DB
}

// Start starts the web service on the given address.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan bool)

	go func() {
		if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msgf("fiber listen error: %v", err)
		}

		doneFiber <- true
	}()

	<-doneFiber // wait for fiber to stop

	return nil
}

// WaitShutdown waits for a termination signal, drains and stops the server.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	// Graceful shutdown for reverse proxies: healthz starts returning 503 so
	// the LB removes this pod from active targets before we stop listening.
	log.Info().Msgf(
		"graceful shutdown: return 503 while %d seconds to let LB remove this pod from active targets",
		s.cfg.Webserver.ShutDownTime,
	)

	s.alive.Store(false)
	time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)

	serverShutdown := make(chan struct{})

	go func() {
		log.Info().Msg("stopping http server ...")

		err := s.App.Shutdown()
		if err != nil {
			log.Error().Err(err).Msg("")
		}

		serverShutdown <- struct{}{}
	}()

	<-serverShutdown
	log.Info().Msg("http server was stopped ... good bye...")
}

// healthz reports liveness; 503 while draining.
func (s *Service) healthz(c *fiber.Ctx) error {
	if !s.alive.Load() {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "draining"})
	}

	return c.JSON(fiber.Map{"status": "ok"})
}

// New creates a new web service with the given configuration.
func New(cfg *config.Config, db *gorm.DB, store *objstore.Client) *Service {
	if cfg == nil {
		panic("config cannot be nil")
	}

	if db == nil {
		panic("db cannot be nil")
	}

	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        "ClipDeck",
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
			BodyLimit:      maxUploadSize,
		},
	)

	if !cfg.Webserver.DisableRecover {
		app.Use(recover.New())
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Webserver.CORSOrigin,
		AllowCredentials: true,
	}))

	service := &Service{
		cfg: cfg,
		App: app,
		db:  db,
	}
	service.alive.Store(true)

	app.Get("/healthz", service.healthz)

	// init handlers (they register their own routes with auth middleware)
	account.Handler.Init(app, cfg, db)
	accesscodes.Handler.Init(app, cfg, db)
	videos.Handler.Init(app, cfg, db, store)
	upload.Handler.Init(app, cfg, db, store)

	return service
}
