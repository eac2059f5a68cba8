package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/adiwinata/duitmu/internal/ledger"
	"github.com/adiwinata/duitmu/pkg/logger"
)

const (
	// DefaultTTL is the default TTL for cached ghost reports
	DefaultTTL = 5 * time.Minute

	// KeyPrefix is the prefix for ghost report cache keys
	KeyPrefix = "report:"
)

// ReportCache is a Redis-backed cache for computed ghost reports. Every write
// to a wallet's ledger invalidates its entry; reconciliation is deterministic,
// so a cached report is exact until the next write.
type ReportCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *logger.Logger
}

// NewReportCache creates a new ghost report cache
func NewReportCache(client *redis.Client, log *logger.Logger) *ReportCache {
	return NewReportCacheWithTTL(client, DefaultTTL, log)
}

// NewReportCacheWithTTL creates a new ghost report cache with custom TTL
func NewReportCacheWithTTL(client *redis.Client, ttl time.Duration, log *logger.Logger) *ReportCache {
	return &ReportCache{
		client: client,
		ttl:    ttl,
		logger: log.WithField("component", "report_cache"),
	}
}

type cachedReport struct {
	Ghosts     []ledger.Ghost `json:"ghosts"`
	ComputedAt time.Time      `json:"computed_at"`
}

// Get retrieves a cached ghost report for a wallet
func (c *ReportCache) Get(ctx context.Context, userID, walletID uuid.UUID) ([]ledger.Ghost, bool, error) {
	key := c.key(userID, walletID)

	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		c.logger.Debug("cache miss", "wallet_id", walletID)
		return nil, false, nil
	}
	if err != nil {
		c.logger.Error("cache error", "operation", "get", "wallet_id", walletID, "error", err)
		return nil, false, fmt.Errorf("failed to get cached report: %w", err)
	}

	var cached cachedReport
	if err := json.Unmarshal([]byte(val), &cached); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal cached report: %w", err)
	}

	c.logger.Debug("cache hit", "wallet_id", walletID)
	return cached.Ghosts, true, nil
}

// Set stores a ghost report in the cache
func (c *ReportCache) Set(ctx context.Context, userID, walletID uuid.UUID, ghosts []ledger.Ghost) error {
	key := c.key(userID, walletID)

	data, err := json.Marshal(cachedReport{
		Ghosts:     ghosts,
		ComputedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Error("cache error", "operation", "set", "wallet_id", walletID, "error", err)
		return fmt.Errorf("failed to set cached report: %w", err)
	}

	return nil
}

// Invalidate removes a wallet's cached report
func (c *ReportCache) Invalidate(ctx context.Context, userID, walletID uuid.UUID) error {
	if err := c.client.Del(ctx, c.key(userID, walletID)).Err(); err != nil {
		c.logger.Error("cache error", "operation", "invalidate", "wallet_id", walletID, "error", err)
		return fmt.Errorf("failed to invalidate cached report: %w", err)
	}
	return nil
}

func (c *ReportCache) key(userID, walletID uuid.UUID) string {
	return fmt.Sprintf("%s%s:%s", KeyPrefix, userID, walletID)
}
