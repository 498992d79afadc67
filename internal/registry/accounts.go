package registry

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"framed/internal/config"
	"framed/internal/immich"
	"framed/internal/supply"
)

// Build constructs one supply account per configured account entry. Shared
// tuning (queue sizing, TTLs, cache budget) comes from the top-level config;
// each account still owns its own client, pools and caches.
func Build(cfg config.Config, log zerolog.Logger) ([]supply.AccountSource, error) {
	accounts := make([]supply.AccountSource, 0, len(cfg.Accounts))
	for _, ac := range cfg.Accounts {
		client, err := immich.NewClient(immich.ClientConfig{
			URL:       ac.URL,
			APIKey:    ac.APIKey,
			CacheSize: cfg.CacheSize,
		})
		if err != nil {
			return nil, fmt.Errorf("account %q: %w", ac.Name, err)
		}
		accounts = append(accounts, supply.NewAccount(client, supply.AccountOptions{
			Name:            ac.Name,
			ShowFavorites:   ac.ShowFavorites,
			ShowMemories:    ac.ShowMemories,
			ShowRandom:      ac.ShowRandom,
			Albums:          ac.Albums,
			ExcludedAlbums:  ac.ExcludedAlbums,
			People:          ac.People,
			QueueLength:     cfg.QueueLength,
			RefillThreshold: cfg.RefillThreshold,
			PoolTTL:         time.Duration(cfg.PoolTTLMinutes) * time.Minute,
			ListTTL:         time.Duration(cfg.ListTTLMinutes) * time.Minute,
			Logger:          log,
		}))
	}
	return accounts, nil
}

// BuildStrategy wires the configured accounts into the multi-account
// selection strategy.
func BuildStrategy(cfg config.Config, log zerolog.Logger) (*supply.Strategy, error) {
	accounts, err := Build(cfg, log)
	if err != nil {
		return nil, err
	}
	return supply.NewStrategy(accounts, supply.StrategyOptions{
		MaxWait: time.Duration(cfg.AssetWaitSeconds) * time.Second,
		Logger:  log,
	}), nil
}
