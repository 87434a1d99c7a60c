// Package app wires clients, storage, and services into a running core.
package app

import (
	"fmt"
	"time"

	"github.com/bobmcallan/divvy/internal/clients/edgar"
	"github.com/bobmcallan/divvy/internal/clients/macrotrends"
	"github.com/bobmcallan/divvy/internal/clients/yahoo"
	"github.com/bobmcallan/divvy/internal/common"
	"github.com/bobmcallan/divvy/internal/interfaces"
	"github.com/bobmcallan/divvy/internal/services/screener"
	"github.com/bobmcallan/divvy/internal/storage/badger"
)

// App holds all initialized services, clients, and storage.
type App struct {
	Config      *common.Config
	Logger      *common.Logger
	Cache       interfaces.CacheStore
	Provider    interfaces.MarketDataClient
	Registry    interfaces.RegistryClient
	Scraper     interfaces.ScrapeClient
	Screener    interfaces.ScreenerService
	StartupTime time.Time
}

// NewApp initializes all clients, storage, and services from config.
func NewApp(configPath string) (*App, error) {
	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := common.NewLogger(config.Logging.Level)

	cache, err := badger.NewStore(logger, config.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache store: %w", err)
	}

	provider := yahoo.NewClient(
		yahoo.WithBaseURL(config.Clients.Provider.BaseURL),
		yahoo.WithRateLimit(config.Clients.Provider.RateLimit),
		yahoo.WithTimeout(config.Clients.Provider.GetTimeout()),
		yahoo.WithLogger(logger),
	)

	registry := edgar.NewClient(
		edgar.WithBaseURL(config.Clients.Registry.BaseURL),
		edgar.WithDirectoryURL(config.Clients.Registry.DirectoryURL),
		edgar.WithUserAgent(config.Clients.Registry.UserAgent),
		edgar.WithRequestDelay(config.Clients.Registry.GetRequestDelay()),
		edgar.WithTimeout(config.Clients.Registry.GetTimeout()),
		edgar.WithLogger(logger),
	)

	scraper := macrotrends.NewClient(
		macrotrends.WithBaseURL(config.Clients.Scrape.BaseURL),
		macrotrends.WithRateLimit(config.Clients.Scrape.RateLimit),
		macrotrends.WithTimeout(config.Clients.Scrape.GetTimeout()),
		macrotrends.WithLogger(logger),
	)

	svc := screener.NewService(cache, provider, registry, scraper, logger)

	return &App{
		Config:      config,
		Logger:      logger,
		Cache:       cache,
		Provider:    provider,
		Registry:    registry,
		Scraper:     scraper,
		Screener:    svc,
		StartupTime: time.Now(),
	}, nil
}

// Close releases held resources.
func (a *App) Close() {
	if a.Cache != nil {
		if err := a.Cache.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Cache store close failed")
		}
	}
}
