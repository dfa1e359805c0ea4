package channels

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
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

func newPushFixture(t *testing.T) (*PushSender, repos.SubscriptionRepo) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := gdb.AutoMigrate(&types.NotificationSubscription{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	baseLog, err := logger.New("dev")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	subRepo := repos.NewSubscriptionRepo(gdb, baseLog)
	return NewPushSender(baseLog, subRepo), subRepo
}

func testItem(userID uuid.UUID) *types.NotificationQueueItem {
	return &types.NotificationQueueItem{
		ID:           uuid.New(),
		UserID:       userID,
		Class:        types.NotificationClassSystem,
		Title:        "Test",
		Body:         "Body",
		Icon:         "bell",
		DeepLink:     "/inbox",
		ScheduledFor: time.Now(),
	}
}

func TestPushSendNoSubscriptions(t *testing.T) {
	sender, _ := newPushFixture(t)
	err := sender.Send(context.Background(), testItem(uuid.New()))
	if !errors.Is(err, ErrNothingToDo) {
		t.Fatalf("expected ErrNothingToDo, got %v", err)
	}
}

func TestPushSendPostsPayload(t *testing.T) {
	sender, subRepo := newPushFixture(t)
	ctx := context.Background()
	userID := uuid.New()

	var got pushPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("TTL") == "" {
			t.Error("missing TTL header")
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	if _, err := subRepo.Create(ctx, nil, &types.NotificationSubscription{
		UserID:   userID,
		Endpoint: srv.URL,
	}); err != nil {
		t.Fatalf("create subscription: %v", err)
	}

	item := testItem(userID)
	if err := sender.Send(ctx, item); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if got.Title != item.Title || got.Body != item.Body || got.Class != string(item.Class) {
		t.Fatalf("payload mismatch: %+v", got)
	}
}

func TestPushSendDeactivatesGoneEndpoint(t *testing.T) {
	sender, subRepo := newPushFixture(t)
	ctx := context.Background()
	userID := uuid.New()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusGone)
	}))
	defer srv.Close()

	sub, err := subRepo.Create(ctx, nil, &types.NotificationSubscription{
		UserID:   userID,
		Endpoint: srv.URL,
	})
	if err != nil {
		t.Fatalf("create subscription: %v", err)
	}

	if err := sender.Send(ctx, testItem(userID)); err == nil {
		t.Fatal("expected error when the only endpoint is gone")
	}
	active, err := subRepo.ActiveByUserID(ctx, nil, userID)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(active) != 0 {
		t.Fatalf("gone endpoint still active: %d subscriptions", len(active))
	}
	_ = sub
}

// One healthy endpoint is enough even when another fails.
func TestPushSendPartialEndpointFailure(t *testing.T) {
	sender, subRepo := newPushFixture(t)
	ctx := context.Background()
	userID := uuid.New()

	okSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))
	defer okSrv.Close()
	badSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer badSrv.Close()

	for _, endpoint := range []string{okSrv.URL, badSrv.URL} {
		if _, err := subRepo.Create(ctx, nil, &types.NotificationSubscription{
			UserID:   userID,
			Endpoint: endpoint,
		}); err != nil {
			t.Fatalf("create subscription: %v", err)
		}
	}

	if err := sender.Send(ctx, testItem(userID)); err != nil {
		t.Fatalf("Send with one healthy endpoint: %v", err)
	}
}
