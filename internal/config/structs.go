package config

import (
	"time"

	"github.com/clipdeck/clipdeck/internal/logger"
)

// Session settings.
type Session struct {
	ExpiryTime time.Duration
}

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	DB        DB
	Log       logger.Log
	Title     string
	Webserver Webserver
	Storage   Storage
}

// Webserver implement webserver settings.
type Webserver struct {
	CORSOrigin     string  // allowed origin for browser clients
	DisableRecover bool    // disable recover middleware
	Domain         string  // domain name for the webserver
	Port           int     // listening port for the webserver
	ShutDownTime   int     // wait time for shutdown
	URL            string  // base url for the webserver
	Session        Session // session settings
}

// Storage holds the S3-compatible object storage settings (Cloudflare R2,
// MinIO or any S3 endpoint).
type Storage struct {
	Endpoint        string // host[:port], no scheme
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	PublicDomain    string // public base URL for uploaded objects
	UseSSL          bool
}
