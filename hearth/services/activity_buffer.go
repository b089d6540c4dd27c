package services

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/ellavondegurechaff/hearth/hearth/config"
	"github.com/ellavondegurechaff/hearth/hearth/database/models"
	"github.com/ellavondegurechaff/hearth/hearth/database/repositories"
	lru "github.com/hashicorp/golang-lru"
)

const (
	flushTimeout         = 30 * time.Second
	shutdownFlushTimeout = 10 * time.Second
	flushJitterMax       = 5 * time.Second
)

// rollupKey identifies one (guild, user, event type, day) counter.
type rollupKey struct {
	GuildID   string
	UserID    string
	EventType string
	Date      string
}

// ActivityBuffer accumulates per-day activity counters in memory so every
// gateway event does not become a rollup write. Counters live in a bounded
// LRU; entries evicted under pressure are parked in a pending map instead of
// being dropped, and the periodic flush merges both into one additive upsert
// batch per bucket.
type ActivityBuffer struct {
	repo repositories.StatsRepository

	mu      sync.Mutex
	cache   *lru.Cache
	pending map[rollupKey]int64

	flushTicker *time.Ticker
	shutdown    chan struct{}
	stopped     sync.WaitGroup
}

// NewActivityBuffer creates a buffer flushing to repo on the given interval.
// A zero interval falls back to the configured default.
func NewActivityBuffer(repo repositories.StatsRepository, interval time.Duration) *ActivityBuffer {
	if interval <= 0 {
		interval = config.RollupFlushInterval
	}

	b := &ActivityBuffer{
		repo:        repo,
		pending:     make(map[rollupKey]int64),
		flushTicker: time.NewTicker(interval),
		shutdown:    make(chan struct{}),
	}
	b.cache, _ = lru.NewWithEvict(config.RollupBufferSize, b.onEvict)
	return b
}

// onEvict parks a displaced counter for the next flush. The lru calls it
// under b.mu because every cache mutation happens with the lock held.
func (b *ActivityBuffer) onEvict(key interface{}, value interface{}) {
	k, ok := key.(rollupKey)
	if !ok {
		return
	}
	if n, ok := value.(int64); ok {
		b.pending[k] += n
	}
}

// Record counts one event against its (guild, user, type, day) bucket.
func (b *ActivityBuffer) Record(guildID, userID, eventType string, at time.Time) {
	key := rollupKey{
		GuildID:   guildID,
		UserID:    userID,
		EventType: eventType,
		Date:      at.UTC().Format("2006-01-02"),
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if v, ok := b.cache.Get(key); ok {
		b.cache.Add(key, v.(int64)+1)
		return
	}
	b.cache.Add(key, int64(1))
}

// Start begins the periodic flush loop.
func (b *ActivityBuffer) Start() {
	b.stopped.Add(1)
	go func() {
		defer b.stopped.Done()
		defer b.flushTicker.Stop()

		// Spread first flush so restarts do not synchronize with other writers
		jitter := time.Duration(rand.Int63n(int64(flushJitterMax)))
		select {
		case <-time.After(jitter):
		case <-b.shutdown:
			return
		}

		for {
			select {
			case <-b.flushTicker.C:
				ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
				if err := b.Flush(ctx); err != nil {
					slog.Warn("Activity rollup flush failed",
						slog.String("type", "db"),
						slog.Any("error", err))
				}
				cancel()
			case <-b.shutdown:
				return
			}
		}
	}()
}

// Close stops the flush loop and performs a final flush so buffered counts
// survive a restart.
func (b *ActivityBuffer) Close() error {
	close(b.shutdown)
	b.stopped.Wait()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownFlushTimeout)
	defer cancel()
	return b.Flush(ctx)
}

// Flush drains every buffered counter and upserts the deltas. On failure the
// batch is merged back into the buffer so counts are retried, not lost.
func (b *ActivityBuffer) Flush(ctx context.Context) error {
	batch := b.drain()
	if len(batch) == 0 {
		return nil
	}

	rollups := make([]*models.ActivityRollup, 0, len(batch))
	for key, count := range batch {
		rollups = append(rollups, &models.ActivityRollup{
			GuildID:   key.GuildID,
			UserID:    key.UserID,
			EventType: key.EventType,
			Date:      key.Date,
			Count:     count,
		})
	}

	if err := b.repo.UpsertRollups(ctx, rollups); err != nil {
		b.requeue(batch)
		return err
	}

	slog.Debug("Flushed activity rollups",
		slog.String("type", "db"),
		slog.Int("buckets", len(rollups)))
	return nil
}

// drain moves every counter out of the cache and pending map, merged by
// bucket. One bucket per key keeps the additive upsert free of duplicate
// conflict targets in a single batch.
func (b *ActivityBuffer) drain() map[rollupKey]int64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.cache.Purge()
	batch := b.pending
	b.pending = make(map[rollupKey]int64)
	return batch
}

func (b *ActivityBuffer) requeue(batch map[rollupKey]int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for key, count := range batch {
		b.pending[key] += count
	}
}

// Len reports the number of buffered counters awaiting flush.
func (b *ActivityBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cache.Len() + len(b.pending)
}
