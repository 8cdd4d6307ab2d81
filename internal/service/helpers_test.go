package service

import (
	"sync"
	"testing"
	"time"

	"github.com/lshigami/examprep/config"
	"github.com/lshigami/examprep/database"
	"github.com/lshigami/examprep/internal/model"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory database. A single connection keeps every query on the
// same memory database and serializes transactions.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, database.AutoMigrate(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, name string, xp int) *model.User {
	t.Helper()
	u := &model.User{
		Username:     name,
		Email:        name + "@example.com",
		PasswordHash: "x",
		Role:         model.RoleUser,
		Level:        1 + xp/100,
		XP:           xp,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func seedQuestion(t *testing.T, db *gorm.DB, content, qType, answer string, options ...string) *model.Question {
	t.Helper()
	q := &model.Question{Content: content, Type: qType, Answer: answer, Explanation: "because"}
	q.SetOptions(options)
	require.NoError(t, db.Create(q).Error)
	return q
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.CookieName = "session"
	cfg.Auth.TokenTTLDays = 1
	cfg.SRS = config.SRS{Multiplier: 2.5, BaseXP: 10, StreakBonus: 2, XPPerLevel: 100}
	return cfg
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

type recordedEvent struct {
	userID  uint
	event   string
	payload interface{}
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (n *fakeNotifier) NotifyUser(userID uint, event string, payload interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, recordedEvent{userID: userID, event: event, payload: payload})
}

func (n *fakeNotifier) names() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []string
	for _, e := range n.events {
		out = append(out, e.event)
	}
	return out
}

func boolPtr(b bool) *bool { return &b }
