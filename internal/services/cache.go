package services

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/bobby-s-dev/weather-vigilance/internal/i18n"
	"github.com/bobby-s-dev/weather-vigilance/internal/models"
)

type CacheItem struct {
	Data      *models.Observation
	ExpiresAt time.Time
}

// ObservationCache holds recent observations keyed by region and locale.
// Entries are copied on the way in and out so callers never share state.
type ObservationCache struct {
	mu              sync.RWMutex
	items           map[string]CacheItem
	logger          *zap.Logger
	clock           clockwork.Clock
	defaultDuration time.Duration
	maxSize         int
	cleanupInterval time.Duration
	stopCleanup     chan struct{}
	stopOnce        sync.Once
}

func NewObservationCache(defaultDuration time.Duration, maxSize int, clock clockwork.Clock, logger *zap.Logger) *ObservationCache {
	cache := newObservationCache(defaultDuration, maxSize, clock, logger)

	go cache.startCleanup()

	return cache
}

// newObservationCache builds a cache without starting the janitor.
func newObservationCache(defaultDuration time.Duration, maxSize int, clock clockwork.Clock, logger *zap.Logger) *ObservationCache {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &ObservationCache{
		items:           make(map[string]CacheItem),
		logger:          logger,
		clock:           clock,
		defaultDuration: defaultDuration,
		maxSize:         maxSize,
		cleanupInterval: time.Minute,
		stopCleanup:     make(chan struct{}),
	}
}

func cacheKey(regionID string, locale i18n.Locale) string {
	return regionID + "|" + string(locale)
}

func (c *ObservationCache) Set(regionID string, locale i18n.Locale, obs *models.Observation) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey(regionID, locale)
	// Evict if cache is too large
	if _, exists := c.items[key]; !exists && c.maxSize > 0 && len(c.items) >= c.maxSize {
		c.evictOldest()
	}

	expiresAt := c.clock.Now().Add(c.defaultDuration)
	c.items[key] = CacheItem{
		Data:      obs.Clone(),
		ExpiresAt: expiresAt,
	}

	c.logger.Debug("Observation cached",
		zap.String("region", regionID),
		zap.String("locale", string(locale)),
		zap.Time("expires_at", expiresAt))
}

// Get returns a copy of the cached observation. Entries are live strictly
// before their expiry instant.
func (c *ObservationCache) Get(regionID string, locale i18n.Locale) (*models.Observation, bool) {
	key := cacheKey(regionID, locale)
	c.mu.RLock()
	item, exists := c.items[key]
	c.mu.RUnlock()

	if !exists {
		return nil, false
	}

	if !c.clock.Now().Before(item.ExpiresAt) {
		c.mu.Lock()
		if current, ok := c.items[key]; ok && current.ExpiresAt.Equal(item.ExpiresAt) {
			delete(c.items, key)
		}
		c.mu.Unlock()
		return nil, false
	}

	return item.Data.Clone(), true
}

// Clear drops every entry.
func (c *ObservationCache) Clear() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.items)
	c.items = make(map[string]CacheItem)
	c.logger.Info("Observation cache cleared", zap.Int("count", n))
	return n
}

func (c *ObservationCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *ObservationCache) evictOldest() {
	var oldestKey string
	var oldestTime time.Time

	for key, item := range c.items {
		if oldestKey == "" || item.ExpiresAt.Before(oldestTime) {
			oldestKey = key
			oldestTime = item.ExpiresAt
		}
	}

	if oldestKey != "" {
		delete(c.items, oldestKey)
		c.logger.Debug("Evicted oldest observation from cache",
			zap.String("key", oldestKey))
	}
}

func (c *ObservationCache) startCleanup() {
	ticker := c.clock.NewTicker(c.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.Chan():
			c.cleanup()
		case <-c.stopCleanup:
			return
		}
	}
}

func (c *ObservationCache) cleanup() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	expiredCount := 0

	for key, item := range c.items {
		if !now.Before(item.ExpiresAt) {
			delete(c.items, key)
			expiredCount++
		}
	}

	if expiredCount > 0 {
		c.logger.Debug("Cleaned expired cache items",
			zap.Int("count", expiredCount))
	}
	return expiredCount
}

// Stop ends the janitor goroutine. It is safe to call more than once.
func (c *ObservationCache) Stop() {
	c.stopOnce.Do(func() { close(c.stopCleanup) })
}

type CacheStats struct {
	Items           int    `json:"items"`
	MaxSize         int    `json:"max_size"`
	DefaultDuration string `json:"default_duration"`
}

func (c *ObservationCache) Stats() CacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return CacheStats{
		Items:           len(c.items),
		MaxSize:         c.maxSize,
		DefaultDuration: c.defaultDuration.String(),
	}
}
