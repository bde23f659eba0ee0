package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/bobby-s-dev/weather-vigilance/internal/config"
	"github.com/bobby-s-dev/weather-vigilance/internal/i18n"
	"github.com/bobby-s-dev/weather-vigilance/internal/metrics"
	"github.com/bobby-s-dev/weather-vigilance/internal/models"
	"github.com/bobby-s-dev/weather-vigilance/internal/regions"
	"github.com/bobby-s-dev/weather-vigilance/pkg/client"
)

// ErrUnknownRegion is returned for region ids outside the directory.
var ErrUnknownRegion = errors.New("unknown region")

// WeatherService fetches observations from the configured providers in
// priority order, falling back to simulated data when all of them fail.
type WeatherService struct {
	providers   []client.Provider
	simulation  *client.SimulationProvider
	cache       *ObservationCache
	regions     *regions.Directory
	metrics     *metrics.Metrics
	logger      *zap.Logger
	clock       clockwork.Clock
	concurrency int

	mu            sync.RWMutex
	currentSource string
	lastFetchTime time.Time
	successCount  int
	failureCount  int
}

type WeatherServiceOptions struct {
	// Providers are tried in order.
	Providers   []client.Provider
	Cache       *ObservationCache
	Regions     *regions.Directory
	Metrics     *metrics.Metrics
	Clock       clockwork.Clock
	Concurrency int
}

func NewWeatherService(opts WeatherServiceOptions, logger *zap.Logger) *WeatherService {
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	dir := opts.Regions
	if dir == nil {
		dir = regions.Default()
	}
	cache := opts.Cache
	if cache == nil {
		cache = NewObservationCache(10*time.Minute, 1000, clock, logger)
	}
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = 6
	}
	return &WeatherService{
		providers:   opts.Providers,
		simulation:  client.NewSimulationProvider(clock),
		cache:       cache,
		regions:     dir,
		metrics:     opts.Metrics,
		logger:      logger,
		clock:       clock,
		concurrency: concurrency,
	}
}

// NewProviders builds the real providers in fallback order: Open-Meteo, then
// WeatherAPI.com and OpenWeatherMap when their keys are configured.
func NewProviders(cfg *config.Config, clock clockwork.Clock, logger *zap.Logger) []client.Provider {
	clientConfig := client.ClientConfig{
		Timeout:        cfg.WeatherAPI.RequestTimeout,
		MaxRetries:     cfg.Retry.MaxRetries,
		RetryDelay:     cfg.Retry.Delay,
		Multiplier:     cfg.Retry.Multiplier,
		Threshold:      cfg.CircuitBreaker.Threshold,
		BreakerTimeout: cfg.CircuitBreaker.Timeout,
		Clock:          clock,
	}

	// Open-Meteo needs no API key
	providers := []client.Provider{
		client.NewOpenMeteoClient(cfg.WeatherAPI.OpenMeteoURL, clientConfig, logger),
	}
	logger.Info("Open-Meteo client initialized")

	if weatherAPI, err := client.NewWeatherAPIClient(cfg.WeatherAPI.WeatherAPIKey, "", clientConfig, logger); err == nil {
		providers = append(providers, weatherAPI)
		logger.Info("WeatherAPI client initialized")
	} else {
		logger.Info("WeatherAPI client disabled", zap.Error(err))
	}

	if openWeather, err := client.NewOpenWeatherClient(cfg.WeatherAPI.OpenWeatherAPIKey, "", clientConfig, logger); err == nil {
		providers = append(providers, openWeather)
		logger.Info("OpenWeatherMap client initialized")
	} else {
		logger.Info("OpenWeatherMap client disabled", zap.Error(err))
	}

	return providers
}

// GetWeather returns the current observation for one region. Cached copies
// come back flagged FromCache. Only an unknown region is an error: when every
// provider fails the simulated observation is returned.
func (s *WeatherService) GetWeather(ctx context.Context, regionID string, locale i18n.Locale) (*models.Observation, error) {
	return s.getWeather(ctx, regionID, locale, true)
}

func (s *WeatherService) getWeather(ctx context.Context, regionID string, locale i18n.Locale, useCache bool) (*models.Observation, error) {
	region, ok := s.regions.Get(regionID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRegion, regionID)
	}

	if useCache {
		if cached, ok := s.cache.Get(regionID, locale); ok {
			s.metrics.ObserveCache(true)
			s.logger.Debug("Cache hit for observation", zap.String("region", regionID))
			cached.FromCache = true
			return cached, nil
		}
		s.metrics.ObserveCache(false)
	}

	obs, ok := s.fetch(ctx, region, locale)
	if ok {
		s.cache.Set(regionID, locale, obs)
	}
	return obs, nil
}

// fetch returns the first provider observation, or simulated data when every
// provider fails. The second result is false when the context ended before
// the providers could answer; such fallbacks must not be cached.
func (s *WeatherService) fetch(ctx context.Context, region regions.Region, locale i18n.Locale) (*models.Observation, bool) {
	var errs []error
	for _, p := range s.providers {
		if ctx.Err() != nil {
			break
		}
		obs, err := p.CurrentObservation(ctx, region, locale)
		s.metrics.ObserveProvider(p.Name(), err)
		if err != nil {
			s.logger.Warn("Provider failed, trying next source",
				zap.String("source", p.Name()),
				zap.String("region", region.ID),
				zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
			continue
		}
		s.recordFetch(p.Name(), true)
		return obs, true
	}

	obs, _ := s.simulation.CurrentObservation(ctx, region, locale)
	if err := ctx.Err(); err != nil {
		s.logger.Debug("Context ended before providers answered, serving uncached simulated data",
			zap.String("region", region.ID),
			zap.Error(err))
		return obs, false
	}

	s.logger.Warn("All weather sources failed, using simulated data",
		zap.String("region", region.ID),
		zap.Error(errors.Join(errs...)))
	s.recordFetch(s.simulation.Name(), len(s.providers) == 0)
	return obs, true
}

func (s *WeatherService) recordFetch(source string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentSource = source
	s.lastFetchTime = s.clock.Now()
	if ok {
		s.successCount++
	} else {
		s.failureCount++
	}
}

// GetAllWeather returns an observation for every region in the directory.
// Regions are fetched concurrently; a region that cannot be fetched gets
// simulated data, so the result always covers the whole directory.
func (s *WeatherService) GetAllWeather(ctx context.Context, locale i18n.Locale) map[string]*models.Observation {
	return s.fetchAll(ctx, locale, true)
}

// RefreshAll refetches every region from the providers, bypassing and then
// repopulating the cache.
func (s *WeatherService) RefreshAll(ctx context.Context, locale i18n.Locale) map[string]*models.Observation {
	return s.fetchAll(ctx, locale, false)
}

func (s *WeatherService) fetchAll(ctx context.Context, locale i18n.Locale, useCache bool) map[string]*models.Observation {
	all := s.regions.All()
	results := make([]*models.Observation, len(all))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	startTime := s.clock.Now()
	for i, region := range all {
		i, region := i, region
		g.Go(func() error {
			obs, err := s.getWeather(gctx, region.ID, locale, useCache)
			if err != nil {
				s.logger.Error("Failed to fetch weather for region",
					zap.String("region", region.ID),
					zap.Error(err))
				obs = s.simulation.Observation(region.ID, region.LocalName(locale), locale)
			}
			results[i] = obs
			return nil
		})
	}
	_ = g.Wait()

	out := make(map[string]*models.Observation, len(all))
	for i, region := range all {
		out[region.ID] = results[i]
	}

	s.logger.Info("Weather fetch completed",
		zap.Int("regions", len(out)),
		zap.Duration("duration", s.clock.Since(startTime)))
	return out
}

// ClearCache drops every cached observation and returns how many there were.
func (s *WeatherService) ClearCache() int {
	return s.cache.Clear()
}

// CurrentSource names the provider that served the latest fetch, or "N/A"
// before any fetch.
func (s *WeatherService) CurrentSource() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.currentSource == "" {
		return "N/A"
	}
	return s.currentSource
}

func (s *WeatherService) Regions() *regions.Directory {
	return s.regions
}

type WeatherStats struct {
	CurrentSource string     `json:"current_source"`
	LastFetchTime time.Time  `json:"last_fetch_time"`
	SuccessCount  int        `json:"success_count"`
	FailureCount  int        `json:"failure_count"`
	Providers     []string   `json:"providers"`
	Cache         CacheStats `json:"cache"`
}

func (s *WeatherService) Stats() WeatherStats {
	names := make([]string, 0, len(s.providers))
	for _, p := range s.providers {
		names = append(names, p.Name())
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	source := s.currentSource
	if source == "" {
		source = "N/A"
	}
	return WeatherStats{
		CurrentSource: source,
		LastFetchTime: s.lastFetchTime,
		SuccessCount:  s.successCount,
		FailureCount:  s.failureCount,
		Providers:     names,
		Cache:         s.cache.Stats(),
	}
}

// Close stops the cache janitor.
func (s *WeatherService) Close() {
	s.cache.Stop()
}
