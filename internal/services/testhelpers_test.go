package services

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/yungbote/studyhall-backend/internal/logger"
	"github.com/yungbote/studyhall-backend/internal/repos"
	"github.com/yungbote/studyhall-backend/internal/types"
)

type testEnv struct {
	db  *gorm.DB
	log *logger.Logger

	userRepo     repos.UserRepo
	tutorRepo    repos.TutorRepo
	prefRepo     repos.PreferenceRepo
	eventRepo    repos.CalendarEventRepo
	activityRepo repos.ActivityRepo
	usageRepo    repos.UsageLogRepo
	queueRepo    repos.NotificationQueueRepo
	logRepo      repos.DeliveryLogRepo

	prefs      PreferenceService
	quietHours QuietHoursService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := gdb.AutoMigrate(
		&types.User{},
		&types.Tutor{},
		&types.NotificationPreferences{},
		&types.CalendarEvent{},
		&types.ActivityRecord{},
		&types.TokenUsageLog{},
		&types.NotificationQueueItem{},
		&types.DeliveryLogEntry{},
		&types.NotificationSubscription{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	baseLog, err := logger.New("dev")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}

	env := &testEnv{
		db:           gdb,
		log:          baseLog,
		userRepo:     repos.NewUserRepo(gdb, baseLog),
		tutorRepo:    repos.NewTutorRepo(gdb, baseLog),
		prefRepo:     repos.NewPreferenceRepo(gdb, baseLog),
		eventRepo:    repos.NewCalendarEventRepo(gdb, baseLog),
		activityRepo: repos.NewActivityRepo(gdb, baseLog),
		usageRepo:    repos.NewUsageLogRepo(gdb, baseLog),
		queueRepo:    repos.NewNotificationQueueRepo(gdb, baseLog),
		logRepo:      repos.NewDeliveryLogRepo(gdb, baseLog),
	}
	env.prefs = NewPreferenceService(gdb, baseLog, env.prefRepo)
	env.quietHours = NewQuietHoursService(baseLog, env.prefs)
	return env
}

func (e *testEnv) createUser(t *testing.T) *types.User {
	t.Helper()
	user, err := e.userRepo.Create(context.Background(), nil, &types.User{
		Email:       fmt.Sprintf("%s@example.com", uuid.NewString()),
		DisplayName: "Test User",
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

// storePrefs saves the given preferences with every validation-sensitive field
// defaulted to something valid unless the caller set it.
func (e *testEnv) storePrefs(t *testing.T, prefs *types.NotificationPreferences) *types.NotificationPreferences {
	t.Helper()
	if prefs.CalendarLeadMinutes == 0 {
		prefs.CalendarLeadMinutes = 15
	}
	if prefs.TutorDisuseDays == 0 {
		prefs.TutorDisuseDays = 30
	}
	if prefs.ToolDisuseDays == 0 {
		prefs.ToolDisuseDays = 14
	}
	if prefs.UploadNudgeDays == 0 {
		prefs.UploadNudgeDays = 7
	}
	if prefs.QuotaThresholdPct == 0 {
		prefs.QuotaThresholdPct = 10
	}
	if prefs.QuietHoursStart == "" {
		prefs.QuietHoursStart = "22:00"
	}
	if prefs.QuietHoursEnd == "" {
		prefs.QuietHoursEnd = "08:00"
	}
	saved, err := e.prefs.Upsert(context.Background(), prefs)
	if err != nil {
		t.Fatalf("store prefs: %v", err)
	}
	return saved
}

func (e *testEnv) queueItemsFor(t *testing.T, userID uuid.UUID, class types.NotificationClass) []*types.NotificationQueueItem {
	t.Helper()
	var items []*types.NotificationQueueItem
	if err := e.db.
		Where("user_id = ? AND class = ?", userID, class).
		Order("created_at ASC").
		Find(&items).Error; err != nil {
		t.Fatalf("load queue items: %v", err)
	}
	return items
}

// backdateItem rewrites created_at so dedup-window tests can simulate an item
// enqueued in the past.
func (e *testEnv) backdateItem(t *testing.T, id uuid.UUID, createdAt time.Time) {
	t.Helper()
	if err := e.db.Model(&types.NotificationQueueItem{}).
		Where("id = ?", id).
		Update("created_at", createdAt).Error; err != nil {
		t.Fatalf("backdate item: %v", err)
	}
}
