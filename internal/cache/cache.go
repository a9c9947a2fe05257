package cache

import (
	"errors"
	"os"
	"path"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/RobBrazier/audiodrop/config"
	"github.com/RobBrazier/audiodrop/internal/model"
	"github.com/maypok86/otter/v2"
)

type CatalogCache = otter.Cache[string, model.Catalog]

type CatalogLoaderFunc = otter.LoaderFunc[string, model.Catalog]

func NewCatalogCache(ttl time.Duration) *CatalogCache {
	return otter.Must(&otter.Options[string, model.Catalog]{
		MaximumSize:      1_000,
		ExpiryCalculator: otter.ExpiryCreating[string, model.Catalog](ttl),
	})
}

func catalogPath() string {
	return path.Join(config.CacheStorage(), "catalog.gob")
}

func LoadCache(catalogs *CatalogCache) {
	catalogPath := catalogPath()
	log.Info().Str("path", catalogPath).Msg("Loading catalog cache")
	if err := otter.LoadCacheFromFile(catalogs, catalogPath); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Error().Err(err).Msg("Load cache failed")
		}
	}
}

func SaveCache(catalogs *CatalogCache) {
	catalogPath := catalogPath()
	log.Info().Str("path", catalogPath).Msg("Saving catalog cache")
	if err := otter.SaveCacheToFile(catalogs, catalogPath); err != nil {
		log.Error().Err(err).Msg("Save cache failed")
	}
}
