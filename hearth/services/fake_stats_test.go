package services_test

import (
	"context"
	"sync"

	"github.com/ellavondegurechaff/hearth/hearth/database/models"
)

// fakeStatsRepo is an in-memory StatsRepository for service tests. Rows are
// keyed by user:guild and handed out by pointer, so mutations made by the
// code under test stay visible to assertions.
type fakeStatsRepo struct {
	mu        sync.Mutex
	rows      map[string]*models.UserStats
	rollups   map[string][]*models.ActivityRollup
	userIDs   map[string][]string
	ranks     map[string]int
	upserts   [][]*models.ActivityRollup
	saveCount int
	upsertErr error
	saveErr   error
}

func newFakeStatsRepo() *fakeStatsRepo {
	return &fakeStatsRepo{
		rows:    make(map[string]*models.UserStats),
		rollups: make(map[string][]*models.ActivityRollup),
		userIDs: make(map[string][]string),
		ranks:   make(map[string]int),
	}
}

func statsKey(userID, guildID string) string {
	return userID + ":" + guildID
}

func (f *fakeStatsRepo) GetOrCreateStats(_ context.Context, userID, guildID string) (*models.UserStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := statsKey(userID, guildID)
	if s, ok := f.rows[key]; ok {
		return s, nil
	}
	s := models.NewUserStats(userID, guildID)
	f.rows[key] = s
	return s, nil
}

func (f *fakeStatsRepo) SaveStats(_ context.Context, stats *models.UserStats) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.rows[statsKey(stats.UserID, stats.GuildID)] = stats
	f.saveCount++
	return nil
}

func (f *fakeStatsRepo) GuildUserIDs(_ context.Context, guildID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.userIDs[guildID], nil
}

func (f *fakeStatsRepo) GuildRank(_ context.Context, userID, guildID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ranks[statsKey(userID, guildID)], nil
}

func (f *fakeStatsRepo) UpsertRollups(_ context.Context, rollups []*models.ActivityRollup) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserts = append(f.upserts, rollups)
	return nil
}

func (f *fakeStatsRepo) UserRollups(_ context.Context, guildID, userID, since string) ([]*models.ActivityRollup, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.ActivityRollup
	for _, r := range f.rollups[statsKey(userID, guildID)] {
		if since == "" || r.Date >= since {
			out = append(out, r)
		}
	}
	return out, nil
}

// stats returns the stored row without creating one.
func (f *fakeStatsRepo) stats(userID, guildID string) *models.UserStats {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rows[statsKey(userID, guildID)]
}
