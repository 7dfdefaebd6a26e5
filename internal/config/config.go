package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "PT"

// Storage drivers.
const (
	DriverSQLite = "sqlite"
	DriverMongo  = "mongo"
)

// Page renderers.
const (
	RendererChrome = "chrome"
	RendererHTTP   = "http"
)

var (
	ErrUnknownDriver   = errors.New("error getting PT_STORAGE_DRIVER: expected sqlite or mongo")
	ErrEmptyMongoURI   = errors.New("error getting PT_MONGO_URI: variable not specified or contains an empty string")
	ErrUnknownRenderer = errors.New("error getting PT_RENDERER: expected chrome or http")
	ErrEmptyDomain     = errors.New("error getting PT_RETAILER_DOMAIN: variable not specified or contains an empty string")
	ErrNegativeRate    = errors.New("error getting PT_EXTRACT_RATE: rate must not be negative")
)

type Config struct {
	Env       string // Env is the current environment: local, development, production.
	HTTP      HTTP
	Storage   Storage
	Extractor Extractor
	Tg        Telegram
}

type HTTP struct {
	Addr            string        // Addr is the listen address of the API server.
	RequestTimeout  time.Duration // RequestTimeout bounds every track, recheck and list request.
	ShutdownTimeout time.Duration
}

type Storage struct {
	Driver   string
	Path     string // Path is the sqlite database file.
	MongoURI string
	MongoDB  string
}

type Extractor struct {
	RetailerDomain    string
	Renderer          string
	NavigationTimeout time.Duration
	UserAgent         string
	ChromePath        string  // ChromePath overrides the browser binary lookup.
	Rate              float64 // Rate is the number of extractions started per second, 0 disables limiting.
	Burst             int
}

type Telegram struct {
	Token   string        // Token is an unique telgram bot token. Empty disables the bot.
	Timeout time.Duration // Timeout is a poller timeout duration.
}

// Enabled reports whether the Telegram bot should run.
func (t Telegram) Enabled() bool {
	return t.Token != ""
}

// MustLoad loads the configuration from environment variables and returns a Config struct.
// A .env file in the working directory is read first, real environment variables win.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load is MustLoad returning the error instead of panicking.
func Load() (*Config, error) {
	_ = godotenv.Load() // the file is optional

	v := viper.New()

	// Automatically binds environment variables to config keys
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	// optional args
	v.SetDefault("ENV", "production")
	v.SetDefault("HTTP_ADDR", ":5000")
	v.SetDefault("REQUEST_TIMEOUT", "60s")
	v.SetDefault("SHUTDOWN_TIMEOUT", "15s")
	v.SetDefault("STORAGE_DRIVER", DriverSQLite)
	v.SetDefault("STORAGE_PATH", "price-ledger.db")
	v.SetDefault("MONGO_DATABASE", "price_ledger")
	v.SetDefault("RETAILER_DOMAIN", "flipkart.com")
	v.SetDefault("RENDERER", RendererChrome)
	v.SetDefault("NAVIGATION_TIMEOUT", "30s")
	v.SetDefault("EXTRACT_RATE", 0)
	v.SetDefault("EXTRACT_BURST", 1)
	v.SetDefault("TELEGRAM_TIMEOUT", "15s")

	cfg := &Config{
		Env: v.GetString("ENV"),
		HTTP: HTTP{
			Addr:            v.GetString("HTTP_ADDR"),
			RequestTimeout:  v.GetDuration("REQUEST_TIMEOUT"),
			ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),
		},
		Storage: Storage{
			Driver:   strings.ToLower(v.GetString("STORAGE_DRIVER")),
			Path:     v.GetString("STORAGE_PATH"),
			MongoURI: v.GetString("MONGO_URI"),
			MongoDB:  v.GetString("MONGO_DATABASE"),
		},
		Extractor: Extractor{
			RetailerDomain:    strings.TrimSpace(v.GetString("RETAILER_DOMAIN")),
			Renderer:          strings.ToLower(v.GetString("RENDERER")),
			NavigationTimeout: v.GetDuration("NAVIGATION_TIMEOUT"),
			UserAgent:         v.GetString("USER_AGENT"),
			ChromePath:        v.GetString("CHROME_PATH"),
			Rate:              v.GetFloat64("EXTRACT_RATE"),
			Burst:             v.GetInt("EXTRACT_BURST"),
		},
		Tg: Telegram{
			Token:   v.GetString("TELEGRAM_TOKEN"),
			Timeout: v.GetDuration("TELEGRAM_TIMEOUT"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case DriverSQLite:
	case DriverMongo:
		if c.Storage.MongoURI == "" {
			return ErrEmptyMongoURI
		}
	default:
		return ErrUnknownDriver
	}

	if c.Extractor.Renderer != RendererChrome && c.Extractor.Renderer != RendererHTTP {
		return ErrUnknownRenderer
	}
	if c.Extractor.RetailerDomain == "" {
		return ErrEmptyDomain
	}
	if c.Extractor.Rate < 0 {
		return ErrNegativeRate
	}

	return nil
}
