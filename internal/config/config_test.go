package config_test

import (
	"testing"
	"time"

	"github.com/Houeta/price-ledger/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMustLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg := config.MustLoad()

		assert.Equal(t, "production", cfg.Env)
		assert.Equal(t, ":5000", cfg.HTTP.Addr)
		assert.Equal(t, 60*time.Second, cfg.HTTP.RequestTimeout)
		assert.Equal(t, 15*time.Second, cfg.HTTP.ShutdownTimeout)
		assert.Equal(t, config.DriverSQLite, cfg.Storage.Driver)
		assert.Equal(t, "price-ledger.db", cfg.Storage.Path)
		assert.Equal(t, "flipkart.com", cfg.Extractor.RetailerDomain)
		assert.Equal(t, config.RendererChrome, cfg.Extractor.Renderer)
		assert.Equal(t, 30*time.Second, cfg.Extractor.NavigationTimeout)
		assert.InDelta(t, 0.0, cfg.Extractor.Rate, 0)
		assert.Equal(t, 1, cfg.Extractor.Burst)
		assert.Equal(t, 15*time.Second, cfg.Tg.Timeout)
		assert.False(t, cfg.Tg.Enabled())
	})

	t.Run("success", func(t *testing.T) {
		t.Setenv("PT_ENV", "local")
		t.Setenv("PT_HTTP_ADDR", ":8080")
		t.Setenv("PT_REQUEST_TIMEOUT", "90s")
		t.Setenv("PT_STORAGE_DRIVER", "MONGO")
		t.Setenv("PT_MONGO_URI", "mongodb://localhost:27017")
		t.Setenv("PT_MONGO_DATABASE", "ledger")
		t.Setenv("PT_RENDERER", "http")
		t.Setenv("PT_NAVIGATION_TIMEOUT", "10s")
		t.Setenv("PT_USER_AGENT", "ua/1.0")
		t.Setenv("PT_EXTRACT_RATE", "0.5")
		t.Setenv("PT_EXTRACT_BURST", "3")
		t.Setenv("PT_TELEGRAM_TOKEN", "telegramToken")

		cfg := config.MustLoad()

		assert.Equal(t, "local", cfg.Env)
		assert.Equal(t, ":8080", cfg.HTTP.Addr)
		assert.Equal(t, 90*time.Second, cfg.HTTP.RequestTimeout)
		assert.Equal(t, config.DriverMongo, cfg.Storage.Driver)
		assert.Equal(t, "mongodb://localhost:27017", cfg.Storage.MongoURI)
		assert.Equal(t, "ledger", cfg.Storage.MongoDB)
		assert.Equal(t, config.RendererHTTP, cfg.Extractor.Renderer)
		assert.Equal(t, 10*time.Second, cfg.Extractor.NavigationTimeout)
		assert.Equal(t, "ua/1.0", cfg.Extractor.UserAgent)
		assert.InDelta(t, 0.5, cfg.Extractor.Rate, 1e-9)
		assert.Equal(t, 3, cfg.Extractor.Burst)
		assert.Equal(t, "telegramToken", cfg.Tg.Token)
		assert.True(t, cfg.Tg.Enabled())
	})

	testCases := map[string]struct {
		env     map[string]string
		wantErr error
	}{
		"error - unknown storage driver": {
			env:     map[string]string{"PT_STORAGE_DRIVER": "postgres"},
			wantErr: config.ErrUnknownDriver,
		},
		"error - mongo without uri": {
			env:     map[string]string{"PT_STORAGE_DRIVER": "mongo"},
			wantErr: config.ErrEmptyMongoURI,
		},
		"error - unknown renderer": {
			env:     map[string]string{"PT_RENDERER": "firefox"},
			wantErr: config.ErrUnknownRenderer,
		},
		"error - blank retailer domain": {
			env:     map[string]string{"PT_RETAILER_DOMAIN": "   "},
			wantErr: config.ErrEmptyDomain,
		},
		"error - negative rate": {
			env:     map[string]string{"PT_EXTRACT_RATE": "-1"},
			wantErr: config.ErrNegativeRate,
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			assert.PanicsWithError(t, "config: "+tc.wantErr.Error(), func() {
				config.MustLoad()
			})

			_, err := config.Load()
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}
