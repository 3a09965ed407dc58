package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"freightquote/internal/domain"
)

// DefaultTTL is how long a compare result stays readable.
const DefaultTTL = 30 * time.Minute

// Entry is one cached compare result.
type Entry struct {
	Key              string                 `json:"key"`
	Params           json.RawMessage        `json:"params,omitempty"`
	Visible          []domain.Quote         `json:"visible"`
	Hidden           []domain.Quote         `json:"hidden"`
	BestValueID      string                 `json:"bestValueId,omitempty"`
	FastestID        string                 `json:"fastestId,omitempty"`
	DistanceKm       float64                `json:"distanceKm,omitempty"`
	Weight           domain.WeightBreakdown `json:"weightBreakdown"`
	PricingTier      string                 `json:"pricingTier,omitempty"`
	CreatedAtEpochMs int64                  `json:"createdAt"`
	FormSnapshot     FormSnapshot           `json:"formSnapshot,omitempty"`
}

// FormSnapshot is the last submitted form, field by field.
type FormSnapshot map[string]json.RawMessage

// Cache is the two-tier facade. Expiry is evaluated on read.
type Cache struct {
	fast    Backend
	durable Backend
	ttl     time.Duration
	clock   func() time.Time
	logger  *slog.Logger

	// formMu serializes the read-merge-write of the form snapshot.
	formMu sync.Mutex
}

// New returns a Cache. durable may be another MemoryBackend when no
// external store is configured.
func New(fast, durable Backend, ttl time.Duration, logger *slog.Logger) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{
		fast:    fast,
		durable: durable,
		ttl:     ttl,
		clock:   time.Now,
		logger:  logger.With("component", "result_cache"),
	}
}

// Write stores entry in both tiers and points the last key at it.
func (c *Cache) Write(ctx context.Context, key string, entry Entry) (Entry, error) {
	entry.Key = key
	entry.CreatedAtEpochMs = c.clock().UnixMilli()
	data, err := json.Marshal(entry)
	if err != nil {
		return entry, fmt.Errorf("encoding entry: %w", err)
	}
	if err := c.fast.Set(ctx, key, data, c.ttl); err != nil {
		return entry, fmt.Errorf("writing fast tier: %w", err)
	}
	if err := c.durable.Set(ctx, key, data, c.ttl); err != nil {
		return entry, fmt.Errorf("writing durable tier: %w", err)
	}
	if err := c.durable.Set(ctx, LastKey, []byte(key), 0); err != nil {
		return entry, fmt.Errorf("writing last key: %w", err)
	}
	return entry, nil
}

// ReadByKey checks the fast tier, then the durable tier, promoting durable
// hits. Expired or unreadable entries are deleted and reported as misses.
func (c *Cache) ReadByKey(ctx context.Context, key string) (Entry, bool) {
	if e, ok := c.readTier(ctx, c.fast, "fast", key); ok {
		return e, true
	}
	e, ok := c.readTier(ctx, c.durable, "durable", key)
	if !ok {
		return Entry{}, false
	}
	if data, err := json.Marshal(e); err == nil {
		if err := c.fast.Set(ctx, key, data, c.ttl); err != nil {
			c.logger.Warn("promote to fast tier failed", "key", key, "error", err)
		}
	}
	return e, true
}

func (c *Cache) readTier(ctx context.Context, b Backend, tier, key string) (Entry, bool) {
	data, err := b.Get(ctx, key)
	if err != nil {
		c.logger.Warn("cache read failed", "tier", tier, "key", key, "error", err)
		return Entry{}, false
	}
	if data == nil {
		return Entry{}, false
	}
	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		c.logger.Warn("discarding corrupt cache entry", "tier", tier, "key", key, "error", err)
		c.delete(ctx, b, key)
		return Entry{}, false
	}
	if c.expired(e) {
		c.delete(ctx, b, key)
		return Entry{}, false
	}
	return e, true
}

func (c *Cache) expired(e Entry) bool {
	created := time.UnixMilli(e.CreatedAtEpochMs)
	return !c.clock().Before(created.Add(c.ttl))
}

func (c *Cache) delete(ctx context.Context, b Backend, key string) {
	if err := b.Delete(ctx, key); err != nil {
		c.logger.Warn("cache delete failed", "key", key, "error", err)
	}
}

// ReadLastKey returns the key of the most recent write.
func (c *Cache) ReadLastKey(ctx context.Context) (string, bool) {
	data, err := c.durable.Get(ctx, LastKey)
	if err != nil || len(data) == 0 {
		return "", false
	}
	return string(data), true
}

// SaveFormSnapshot merges patch into the stored snapshot field by field.
func (c *Cache) SaveFormSnapshot(ctx context.Context, patch FormSnapshot) (FormSnapshot, error) {
	c.formMu.Lock()
	defer c.formMu.Unlock()
	merged, _ := c.LoadFormSnapshot(ctx)
	if merged == nil {
		merged = FormSnapshot{}
	}
	for k, v := range patch {
		merged[k] = v
	}
	data, err := json.Marshal(merged)
	if err != nil {
		return nil, fmt.Errorf("encoding form snapshot: %w", err)
	}
	if err := c.durable.Set(ctx, FormSnapshotKey, data, 0); err != nil {
		return nil, fmt.Errorf("writing form snapshot: %w", err)
	}
	return merged, nil
}

// LoadFormSnapshot returns the stored snapshot. A corrupt snapshot is
// discarded.
func (c *Cache) LoadFormSnapshot(ctx context.Context) (FormSnapshot, bool) {
	data, err := c.durable.Get(ctx, FormSnapshotKey)
	if err != nil || data == nil {
		return nil, false
	}
	var s FormSnapshot
	if err := json.Unmarshal(data, &s); err != nil {
		c.logger.Warn("discarding corrupt form snapshot", "error", err)
		c.delete(ctx, c.durable, FormSnapshotKey)
		return nil, false
	}
	return s, true
}

// SweepExpired removes expired and corrupt compare entries from both tiers
// and returns how many were removed.
func (c *Cache) SweepExpired(ctx context.Context) (int, error) {
	removed := 0
	for _, b := range []Backend{c.fast, c.durable} {
		keys, err := b.Keys(ctx, ComparePrefix)
		if err != nil {
			return removed, fmt.Errorf("listing keys: %w", err)
		}
		for _, k := range keys {
			if !strings.HasPrefix(k, ComparePrefix) {
				continue
			}
			data, err := b.Get(ctx, k)
			if err != nil || data == nil {
				continue
			}
			var e Entry
			if err := json.Unmarshal(data, &e); err == nil && !c.expired(e) {
				continue
			}
			if err := b.Delete(ctx, k); err != nil {
				return removed, fmt.Errorf("deleting %s: %w", k, err)
			}
			removed++
		}
	}
	return removed, nil
}

// RunSweeper calls SweepExpired every interval until ctx is done.
func (c *Cache) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := c.SweepExpired(ctx)
			if err != nil {
				c.logger.Error("cache sweep failed", "error", err)
				continue
			}
			if n > 0 {
				c.logger.Info("swept expired cache entries", "removed", n)
			}
		}
	}
}
