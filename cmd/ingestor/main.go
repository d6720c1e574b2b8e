// The ingestor refreshes the fountain dataset: it pulls drinking-water
// POIs from Overpass, merges them into the bundled seed file, rebuilds
// the photo override table from the photo directory, and optionally
// mirrors the result into MySQL.
package main

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"github.com/AlexSkos/drinkmap/internal/adapters/observability"
	"github.com/AlexSkos/drinkmap/internal/adapters/overpass"
	"github.com/AlexSkos/drinkmap/internal/dataset"
	"github.com/AlexSkos/drinkmap/internal/domain"
	"github.com/AlexSkos/drinkmap/internal/shared"
	mysqlrepo "github.com/AlexSkos/drinkmap/internal/storage/mysql"
)

const upsertBatchSize = 500

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)

	log.Info().
		Str("area", cfg.OverpassArea).
		Str("dataset", cfg.DatasetPath).
		Int("workers", cfg.Workers).
		Msg("ingestor starting")

	seed, err := dataset.Load(cfg.DatasetPath)
	if err != nil {
		log.Warn().Err(err).Msg("no seed dataset, starting empty")
		seed = nil
	}

	client := overpass.New(cfg.OverpassBase, 1)
	elements, err := client.FetchDrinkingWater(ctx, cfg.OverpassArea)
	if err != nil {
		log.Fatal().Err(err).Msg("overpass fetch failed")
	}
	fetched := dataset.FromOverpass(elements)
	log.Info().Int("fetched", len(fetched)).Int("seed", len(seed)).Msg("overpass fetch ok")

	merged := dataset.Merge(seed, fetched)

	overrides := dataset.BuildOverrides(photoNames(cfg.PhotoDir), merged)
	if len(overrides) > 0 {
		if err := overrides.Save(cfg.OverridesPath); err != nil {
			log.Fatal().Err(err).Msg("saving photo overrides failed")
		}
		overrides.Apply(merged)
	}

	if err := dataset.Write(cfg.DatasetPath, merged); err != nil {
		log.Fatal().Err(err).Msg("writing dataset failed")
	}
	log.Info().Int("count", len(merged)).Int("photos", len(overrides)).Msg("dataset written")

	if cfg.MySQLDSN != "" {
		if err := mirrorToMySQL(ctx, cfg, merged); err != nil {
			log.Fatal().Err(err).Msg("mysql mirror failed")
		}
	}

	log.Info().Msg("ingestion completed")
}

// photoNames lists bundled photo file names; a missing directory simply
// yields no overrides.
func photoNames(dir string) []string {
	ents, err := os.ReadDir(dir)
	if err != nil {
		log.Warn().Err(err).Str("dir", dir).Msg("photo directory unreadable")
		return nil
	}
	var names []string
	for _, e := range ents {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".jpg", ".jpeg", ".png":
			names = append(names, e.Name())
		}
	}
	return names
}

func mirrorToMySQL(ctx context.Context, cfg shared.Config, fountains []domain.Fountain) error {
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		return err
	}

	repo := mysqlrepo.New(db)
	if err := repo.Migrate(ctx); err != nil {
		return err
	}

	sem := semaphore.NewWeighted(int64(cfg.Workers))
	var wg sync.WaitGroup

	for start := 0; start < len(fountains); start += upsertBatchSize {
		end := start + upsertBatchSize
		if end > len(fountains) {
			end = len(fountains)
		}
		batch := fountains[start:end]

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			return err
		}
		wg.Add(1)
		go func(batch []domain.Fountain) {
			defer wg.Done()
			defer sem.Release(1)

			if err := repo.UpsertFountains(ctx, batch); err != nil {
				log.Warn().Int("batch", len(batch)).Err(err).Msg("upsert failed")
				return
			}
			log.Info().Int("batch", len(batch)).Msg("upsert ok")
		}(batch)
	}

	wg.Wait()
	return nil
}
