package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/studyhall-backend/internal/logger"
)

const userIDKey = "request_user_id"

// RequestUserMiddleware scopes every request to a user. Authentication itself
// lives upstream (gateway/session layer); by the time a request reaches this
// service the verified user id arrives in X-User-ID.
type RequestUserMiddleware struct {
	log *logger.Logger
}

func NewRequestUserMiddleware(log *logger.Logger) *RequestUserMiddleware {
	return &RequestUserMiddleware{log: log.With("middleware", "RequestUserMiddleware")}
}

func (m *RequestUserMiddleware) RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader("X-User-ID")
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing X-User-ID"})
			return
		}
		userID, err := uuid.Parse(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid X-User-ID"})
			return
		}
		c.Set(userIDKey, userID)
		c.Next()
	}
}

// UserID returns the id set by RequireUser for the current request.
func UserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(userIDKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}
