// Package daemon wires the process together: logger, database, object
// storage, session store and the web service.
package daemon

import (
	"fmt"

	"github.com/gofiber/storage/postgres"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/clipdeck/clipdeck/internal/config"
	"github.com/clipdeck/clipdeck/internal/db/dsn"
	"github.com/clipdeck/clipdeck/internal/db/models"
	"github.com/clipdeck/clipdeck/internal/logger"
	"github.com/clipdeck/clipdeck/internal/objstore"
	"github.com/clipdeck/clipdeck/internal/web"
	"github.com/clipdeck/clipdeck/internal/web/session"
)

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	webService *web.Service
}

// Start runs the web service and blocks until a termination signal drains
// and stops it.
func (d *Daemon) Start() error {
	go func() {
		if err := d.webService.Start(fmt.Sprintf(":%d", d.cfg.Webserver.Port)); err != nil {
			log.Fatal().Err(err).Msg("web service failed")
		}
	}()

	d.webService.WaitShutdown()

	return nil
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	if err := logger.Init(cfg.Log); err != nil {
		return nil, err
	}

	// TranslateError turns driver-specific uniqueness violations into
	// gorm.ErrDuplicatedKey, which the controllers treat as an expected,
	// handled outcome rather than a fault.
	db, err := gorm.Open(gormpostgres.Open(dsn.Create(cfg)), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect database")
	}

	if err = db.AutoMigrate(
		&models.User{},
		&models.AccessCode{},
		&models.Membership{},
		&models.Video{},
		&models.View{},
		&models.Like{},
	); err != nil {
		return nil, errors.Wrap(err, "failed to migrate database")
	}

	seed(cfg, db)

	store, err := objstore.New(cfg.Storage)
	if err != nil {
		return nil, err
	}

	// Initialize fiber session store
	sessionStorage := postgres.New(postgres.Config{
		ConnectionURI: dsn.CreateURL(cfg),
		Table:         "sessions",
	})

	session.Init(sessionStorage)

	return &Daemon{
		cfg:        cfg,
		webService: web.New(cfg, db, store),
	}, nil
}
