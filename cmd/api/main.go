package main

import (
	"database/sql"
	"net/http"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"github.com/AlexSkos/drinkmap/internal/adapters/geoip"
	server "github.com/AlexSkos/drinkmap/internal/adapters/http_server"
	"github.com/AlexSkos/drinkmap/internal/adapters/observability"
	"github.com/AlexSkos/drinkmap/internal/adapters/ws"
	"github.com/AlexSkos/drinkmap/internal/bridge"
	"github.com/AlexSkos/drinkmap/internal/dataset"
	"github.com/AlexSkos/drinkmap/internal/domain"
	"github.com/AlexSkos/drinkmap/internal/shared"
	mysqlrepo "github.com/AlexSkos/drinkmap/internal/storage/mysql"
	"github.com/AlexSkos/drinkmap/internal/storage/redisstore"
)

func main() {
	cfg := shared.Load()

	// global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	reg := observability.InitRegistry()
	observability.Serve(reg)

	source, err := fountainSource(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("dataset unavailable")
	}

	ratings := redisstore.NewRatingStore(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	positions := redisstore.NewLocationCache(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	locator, err := geoip.Open(cfg.GeoIPPath)
	if err != nil {
		log.Fatal().Err(err).Msg("geoip open failed")
	}
	defer locator.Close()

	srv := server.New()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.Mount("/ws", ws.NewHandler(bridge.New(ratings)))
	srv.Mount("/static/photos/*", http.StripPrefix("/static/photos/", http.FileServer(http.Dir(cfg.PhotoDir))))
	srv.MountHandlers(&server.Handlers{
		Source:       source,
		Locator:      locator,
		Cache:        positions,
		Default:      domain.UserPosition{Lat: cfg.DefaultLat, Lng: cfg.DefaultLng},
		PhotoPrefix:  "/static/photos/",
		DefaultPhoto: "/static/photos/fountain_default.jpg",
		TileFilter:   cfg.TileFilter,
	})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("drinkmap listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}

// fountainSource prefers MySQL when a DSN is configured; otherwise the
// bundled dataset file is loaded once and served from memory, with photo
// overrides applied.
func fountainSource(cfg shared.Config) (server.FountainSource, error) {
	if cfg.MySQLDSN != "" {
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			return nil, err
		}
		if err := db.Ping(); err != nil {
			return nil, err
		}
		log.Info().Msg("database connection ok")
		return mysqlrepo.New(db), nil
	}

	fountains, err := dataset.Load(cfg.DatasetPath)
	if err != nil {
		return nil, err
	}
	overrides, err := dataset.LoadOverrides(cfg.OverridesPath)
	if err != nil {
		log.Warn().Err(err).Msg("photo overrides unreadable, continuing without")
	} else {
		overrides.Apply(fountains)
	}
	log.Info().Int("count", len(fountains)).Str("path", cfg.DatasetPath).Msg("dataset loaded")
	return dataset.NewStatic(fountains), nil
}
