package mock

import (
	context "context"
	reflect "reflect"

	achievements "github.com/ellavondegurechaff/hearth/hearth/achievements"
	models "github.com/ellavondegurechaff/hearth/hearth/database/models"
	gomock "go.uber.org/mock/gomock"
)

// MockStore is a mock of Store interface.
type MockStore struct {
	ctrl     *gomock.Controller
	recorder *MockStoreMockRecorder
	isgomock struct{}
}

// MockStoreMockRecorder is the mock recorder for MockStore.
type MockStoreMockRecorder struct {
	mock *MockStore
}

// NewMockStore creates a new mock instance.
func NewMockStore(ctrl *gomock.Controller) *MockStore {
	mock := &MockStore{ctrl: ctrl}
	mock.recorder = &MockStoreMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockStore) EXPECT() *MockStoreMockRecorder {
	return m.recorder
}

// FindRecord mocks base method.
func (m *MockStore) FindRecord(ctx context.Context, userID, guildID string) (*models.UserAchievementRecord, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "FindRecord", ctx, userID, guildID)
	ret0, _ := ret[0].(*models.UserAchievementRecord)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// FindRecord indicates an expected call of FindRecord.
func (mr *MockStoreMockRecorder) FindRecord(ctx, userID, guildID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "FindRecord", reflect.TypeOf((*MockStore)(nil).FindRecord), ctx, userID, guildID)
}

// FindStats mocks base method.
func (m *MockStore) FindStats(ctx context.Context, userID, guildID string) (*models.UserStats, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "FindStats", ctx, userID, guildID)
	ret0, _ := ret[0].(*models.UserStats)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// FindStats indicates an expected call of FindStats.
func (mr *MockStoreMockRecorder) FindStats(ctx, userID, guildID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "FindStats", reflect.TypeOf((*MockStore)(nil).FindStats), ctx, userID, guildID)
}

// IncrementTotals mocks base method.
func (m *MockStore) IncrementTotals(ctx context.Context, userID, guildID string, xp, embers int64) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "IncrementTotals", ctx, userID, guildID, xp, embers)
	ret0, _ := ret[0].(error)
	return ret0
}

// IncrementTotals indicates an expected call of IncrementTotals.
func (mr *MockStoreMockRecorder) IncrementTotals(ctx, userID, guildID, xp, embers any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "IncrementTotals", reflect.TypeOf((*MockStore)(nil).IncrementTotals), ctx, userID, guildID, xp, embers)
}

// ListEnabledDefinitions mocks base method.
func (m *MockStore) ListEnabledDefinitions(ctx context.Context, category string) ([]*models.AchievementDefinition, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListEnabledDefinitions", ctx, category)
	ret0, _ := ret[0].([]*models.AchievementDefinition)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ListEnabledDefinitions indicates an expected call of ListEnabledDefinitions.
func (mr *MockStoreMockRecorder) ListEnabledDefinitions(ctx, category any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListEnabledDefinitions", reflect.TypeOf((*MockStore)(nil).ListEnabledDefinitions), ctx, category)
}

// SaveRecord mocks base method.
func (m *MockStore) SaveRecord(ctx context.Context, record *models.UserAchievementRecord) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SaveRecord", ctx, record)
	ret0, _ := ret[0].(error)
	return ret0
}

// SaveRecord indicates an expected call of SaveRecord.
func (mr *MockStoreMockRecorder) SaveRecord(ctx, record any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SaveRecord", reflect.TypeOf((*MockStore)(nil).SaveRecord), ctx, record)
}

// MockNotifier is a mock of Notifier interface.
type MockNotifier struct {
	ctrl     *gomock.Controller
	recorder *MockNotifierMockRecorder
	isgomock struct{}
}

// MockNotifierMockRecorder is the mock recorder for MockNotifier.
type MockNotifierMockRecorder struct {
	mock *MockNotifier
}

// NewMockNotifier creates a new mock instance.
func NewMockNotifier(ctrl *gomock.Controller) *MockNotifier {
	mock := &MockNotifier{ctrl: ctrl}
	mock.recorder = &MockNotifierMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockNotifier) EXPECT() *MockNotifierMockRecorder {
	return m.recorder
}

// NotifyUnlocked mocks base method.
func (m *MockNotifier) NotifyUnlocked(ctx context.Context, userID, guildID string, unlocked []*models.AchievementDefinition, rewards achievements.RewardSummary) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "NotifyUnlocked", ctx, userID, guildID, unlocked, rewards)
	ret0, _ := ret[0].(error)
	return ret0
}

// NotifyUnlocked indicates an expected call of NotifyUnlocked.
func (mr *MockNotifierMockRecorder) NotifyUnlocked(ctx, userID, guildID, unlocked, rewards any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "NotifyUnlocked", reflect.TypeOf((*MockNotifier)(nil).NotifyUnlocked), ctx, userID, guildID, unlocked, rewards)
}
