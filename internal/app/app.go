package app

import (
	"context"
	"fmt"

	"github.com/noema/dashboard/internal/api"
	"github.com/noema/dashboard/internal/config"
	"github.com/noema/dashboard/internal/constraint"
	"github.com/noema/dashboard/internal/domain"
	"github.com/noema/dashboard/internal/logging"
	"github.com/noema/dashboard/internal/reference"
	"github.com/noema/dashboard/internal/service"
	"github.com/noema/dashboard/internal/validator"
	"go.uber.org/zap"
)

// App is the dependency injection container for all application components
type App struct {
	Config *config.Config
	Logger *zap.Logger

	// Reference tables
	Catalog reference.Catalog

	// Transport
	Client *api.Client

	// Services
	RequestService service.RequestService
}

// Options tweak construction
type Options struct {
	// LogToFile routes logs to the configured file instead of stderr. The TUI
	// needs this because it owns the terminal.
	LogToFile bool
}

// New creates a new App instance, initializing all dependencies
// It handles:
// 1. Loading config (.env, config file, environment)
// 2. Building the logger
// 3. Loading reference tables
// 4. Creating the API client and services
func New(ctx context.Context, opts Options) (*App, error) {
	cfg, err := config.LoadDefault()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return NewWithConfig(ctx, cfg, opts)
}

// NewWithConfig creates an App with a provided config (useful for testing)
func NewWithConfig(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	logOpts := logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format}
	if opts.LogToFile {
		if err := cfg.EnsureDirectories(); err != nil {
			return nil, fmt.Errorf("failed to create directories: %w", err)
		}
		logOpts.File = cfg.Log.File
	}
	logger, err := logging.New(logOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	catalog, err := reference.Load(cfg.Reference.CountriesFile, cfg.Reference.CurrenciesFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load reference data: %w", err)
	}

	policy := PolicyFromConfig(cfg)
	if _, err := catalog.Currency(policy.LockCurrency); err != nil {
		return nil, fmt.Errorf("lock currency: %w", err)
	}

	client := api.NewClient(cfg.API.BaseURL, cfg.API.Timeout, logger.Named("api"))
	requestService := service.NewRequestService(
		policy,
		validator.New(policy, catalog.CurrencyCodes()),
		client,
		logger.Named("request"),
	)

	logger.Debug("app initialized",
		zap.String("endpoint", client.Endpoint()),
		zap.Int("countries", len(catalog.Countries())),
		zap.Int("currencies", len(catalog.Currencies())),
	)

	return &App{
		Config:         cfg,
		Logger:         logger,
		Catalog:        catalog,
		Client:         client,
		RequestService: requestService,
	}, nil
}

// PolicyFromConfig maps the form section of the config onto rule bounds
func PolicyFromConfig(cfg *config.Config) constraint.Policy {
	return constraint.Policy{
		LeadDays:     cfg.Form.LeadDays,
		MinTermYears: cfg.Form.MinTermYears,
		MaxTermYears: cfg.Form.MaxTermYears,
		LockCurrency: domain.NormalizeCurrencyCode(cfg.Form.LockCurrency),
	}
}

// Close flushes the logger
func (a *App) Close() error {
	if a.Logger != nil {
		_ = a.Logger.Sync()
	}
	return nil
}

// SaveConfig saves the current configuration to disk
func (a *App) SaveConfig() error {
	return a.Config.Save(config.DefaultConfigPath())
}
