package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

var validate = validator.New()

type AppConfig struct {
	// Upstream secrets. Empty keys are allowed: the board degrades instead.
	WeatherServiceKey string
	NEISAPIKey        string

	Port     string `validate:"required,numeric"`
	Timezone string `validate:"required"`
	Location *time.Location

	UpstreamTimeout time.Duration `validate:"gt=0"`
	CacheTTL        time.Duration `validate:"gt=0"`

	// Fixed deployment coordinates / identifiers.
	GridNX         int    `validate:"gt=0"`
	GridNY         int    `validate:"gt=0"`
	NEISOfficeCode string `validate:"required"`
	NEISSchoolCode string `validate:"required"`

	PhotosDir string `validate:"required"`
	PublicDir string `validate:"required"`

	// RedisURL switches the result cache to Redis when set.
	RedisURL string `validate:"omitempty,url"`

	// RefreshInterval enables periodic cache warm-up when > 0.
	RefreshInterval time.Duration `validate:"gte=0"`
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.WeatherServiceKey = os.Getenv("WEATHER_SERVICE_KEY")
	cfg.NEISAPIKey = os.Getenv("NEIS_API_KEY")
	cfg.Port = getenvDefault("PORT", "5000")
	cfg.Timezone = getenvDefault("TIMEZONE", "Asia/Seoul")

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}
	cfg.Location = loc

	if cfg.UpstreamTimeout, err = getenvDuration("UPSTREAM_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	if cfg.CacheTTL, err = getenvDuration("CACHE_TTL", "600s"); err != nil {
		return nil, err
	}
	if cfg.RefreshInterval, err = getenvDuration("REFRESH_INTERVAL", "0s"); err != nil {
		return nil, err
	}

	cfg.GridNX = getenvInt("GRID_NX", 73)
	cfg.GridNY = getenvInt("GRID_NY", 103)
	cfg.NEISOfficeCode = getenvDefault("NEIS_OFFICE_CODE", "Q10")
	cfg.NEISSchoolCode = getenvDefault("NEIS_SCHOOL_CODE", "8490058")

	cfg.PhotosDir = getenvDefault("PHOTOS_DIR", "photos")
	cfg.PublicDir = getenvDefault("PUBLIC_DIR", "public")
	cfg.RedisURL = os.Getenv("REDIS_URL")

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.WeatherServiceKey == "" {
		log.Println("WARN: WEATHER_SERVICE_KEY is not set; weather will show defaults")
	}
	if cfg.NEISAPIKey == "" {
		log.Println("WARN: NEIS_API_KEY is not set; meal requests run unauthenticated")
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
