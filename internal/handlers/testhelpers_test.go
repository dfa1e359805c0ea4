package handlers

import (
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/yungbote/studyhall-backend/internal/logger"
	"github.com/yungbote/studyhall-backend/internal/middleware"
	"github.com/yungbote/studyhall-backend/internal/types"
)

func newHandlerDB(t *testing.T) (*gorm.DB, *logger.Logger) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := gdb.AutoMigrate(
		&types.CalendarEvent{},
		&types.NotificationSubscription{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	baseLog, err := logger.New("dev")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return gdb, baseLog
}

// performAs runs a handler behind the user-scoping middleware, the way the
// router wires it.
func performAs(t *testing.T, log *logger.Logger, handler gin.HandlerFunc, method, path, body string, userID uuid.UUID, params gin.Params) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", userID.String())
	c.Request = req
	c.Params = params

	middleware.NewRequestUserMiddleware(log).RequireUser()(c)
	if c.IsAborted() {
		return w
	}
	handler(c)
	return w
}
