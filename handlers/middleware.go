package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"storefront/auth"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "requestID"
	sessionKey      = "session"
)

type SessionResolver interface {
	Resolve(ctx context.Context, authorizationHeader string) (auth.Session, error)
}

// RequestID reuses the caller's X-Request-ID when it is a UUID and mints one
// otherwise.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func requestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

func Auth(gate SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := gate.Resolve(c.Request.Context(), c.GetHeader("Authorization"))
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.Set(sessionKey, s)
		c.Next()
	}
}

// userID returns the caller resolved by Auth. Routes behind Auth always have
// one.
func userID(c *gin.Context) int64 {
	s, _ := c.MustGet(sessionKey).(auth.Session)
	return s.UserID
}
