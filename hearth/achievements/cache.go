package achievements

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/ellavondegurechaff/hearth/hearth/database/models"
)

// Generation is one immutable snapshot of all enabled achievement
// definitions, grouped by category. Readers share a generation freely; a
// reload publishes a whole new one rather than mutating in place.
type Generation struct {
	ByCategory map[string][]*models.AchievementDefinition
	ByID       map[string]*models.AchievementDefinition
	LoadedAt   time.Time
}

// Category returns the definitions in one category, nil when the category is
// empty.
func (g *Generation) Category(name string) []*models.AchievementDefinition {
	return g.ByCategory[name]
}

// Get looks a definition up by achievement id.
func (g *Generation) Get(id string) (*models.AchievementDefinition, bool) {
	def, ok := g.ByID[id]
	return def, ok
}

// All returns every definition in the generation, ordered by category then
// achievement id so callers iterate deterministically.
func (g *Generation) All() []*models.AchievementDefinition {
	categories := make([]string, 0, len(g.ByCategory))
	for name := range g.ByCategory {
		categories = append(categories, name)
	}
	sort.Strings(categories)

	defs := make([]*models.AchievementDefinition, 0, len(g.ByID))
	for _, name := range categories {
		defs = append(defs, g.ByCategory[name]...)
	}
	return defs
}

// Count returns the number of definitions in the generation.
func (g *Generation) Count() int {
	return len(g.ByID)
}

// DefinitionCache loads achievement definitions once and shares the snapshot
// with every engine instance in the process. Steady-state reads are a single
// atomic pointer load; concurrent first loads and reloads collapse into one
// store round trip.
type DefinitionCache struct {
	store Store
	gen   atomic.Pointer[Generation]
	group singleflight.Group
}

func NewDefinitionCache(store Store) *DefinitionCache {
	return &DefinitionCache{store: store}
}

// EnsureLoaded returns the current generation, loading it from the store on
// first use. Any number of concurrent callers trigger exactly one load.
func (c *DefinitionCache) EnsureLoaded(ctx context.Context) (*Generation, error) {
	if gen := c.gen.Load(); gen != nil {
		return gen, nil
	}
	return c.load(ctx, false)
}

// Reload forces a fresh load and atomically replaces the shared generation.
// On failure the previous generation stays in place and is returned, so the
// system keeps evaluating against stale-but-valid definitions.
func (c *DefinitionCache) Reload(ctx context.Context) (*Generation, error) {
	return c.load(ctx, true)
}

// Current returns the generation without loading, nil before the first load.
func (c *DefinitionCache) Current() *Generation {
	return c.gen.Load()
}

func (c *DefinitionCache) load(ctx context.Context, force bool) (*Generation, error) {
	v, err, _ := c.group.Do("definitions", func() (interface{}, error) {
		// Re-check inside the flight: a caller that lost the race to a
		// completed load reuses its result instead of loading again.
		if !force {
			if gen := c.gen.Load(); gen != nil {
				return gen, nil
			}
		}
		defs, err := c.store.ListEnabledDefinitions(ctx, "")
		if err != nil {
			return nil, fmt.Errorf("failed to load achievement definitions: %w", err)
		}
		gen := buildGeneration(defs)
		c.gen.Store(gen)
		slog.Info("Achievement definitions loaded",
			slog.String("type", "db"),
			slog.Int("count", gen.Count()),
			slog.Int("categories", len(gen.ByCategory)),
		)
		return gen, nil
	})
	if err != nil {
		if prev := c.gen.Load(); prev != nil {
			slog.Warn("Definition reload failed, keeping previous generation",
				slog.String("type", "error"),
				slog.Any("error", err),
			)
			return prev, nil
		}
		return nil, err
	}
	return v.(*Generation), nil
}

func buildGeneration(defs []*models.AchievementDefinition) *Generation {
	gen := &Generation{
		ByCategory: make(map[string][]*models.AchievementDefinition),
		ByID:       make(map[string]*models.AchievementDefinition, len(defs)),
		LoadedAt:   time.Now(),
	}
	for _, def := range defs {
		if def == nil || def.AchievementID == "" {
			continue
		}
		gen.ByCategory[def.Category] = append(gen.ByCategory[def.Category], def)
		gen.ByID[def.AchievementID] = def
	}
	for _, defs := range gen.ByCategory {
		sort.Slice(defs, func(i, j int) bool {
			return defs[i].AchievementID < defs[j].AchievementID
		})
	}
	return gen
}
