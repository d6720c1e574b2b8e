package shared

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv        string
	HTTPAddr      string
	MetricsAddr   string
	MySQLDSN      string // empty means the bundled dataset file is the source
	RedisAddr     string
	RedisDB       int
	RedisPass     string
	DatasetPath   string
	OverridesPath string
	PhotoDir      string
	GeoIPPath     string
	OverpassBase  string
	OverpassArea  string
	Workers       int
	TileFilter    string
	DefaultLat    float64
	DefaultLng    float64
}

func Load() Config {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("could not load .env")
	}

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	atof := func(k string, def float64) float64 {
		if v := os.Getenv(k); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				return f
			}
		}
		return def
	}
	return Config{
		AppEnv:        env("APP_ENV", "prod"),
		HTTPAddr:      env("HTTP_ADDR", ":8080"),
		MetricsAddr:   env("METRICS_ADDR", ":9100"),
		MySQLDSN:      env("MYSQL_DSN", ""),
		RedisAddr:     env("REDIS_ADDR", "localhost:6379"),
		RedisDB:       atoi("REDIS_DB", 0),
		RedisPass:     env("REDIS_PASSWORD", ""),
		DatasetPath:   env("DATASET_PATH", "assets/fountains.json"),
		OverridesPath: env("OVERRIDES_PATH", "assets/photo_overrides.json"),
		PhotoDir:      env("PHOTO_DIR", "assets/photos"),
		GeoIPPath:     env("GEOIP_DB_PATH", ""),
		OverpassBase:  env("OVERPASS_BASE_URL", ""),
		OverpassArea:  env("OVERPASS_AREA", "Valencia"),
		Workers:       atoi("INGEST_WORKERS", 8),
		TileFilter:    env("TILE_FILTER", "blue"),
		DefaultLat:    atof("DEFAULT_LAT", 39.4699),
		DefaultLng:    atof("DEFAULT_LNG", -0.3763),
	}
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
