package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	SessionHeader    = "X-Session-ID"
	ContextSessionID = "session_id"
)

// SessionMiddleware makes sure every request carries a session id. A
// missing or malformed header gets a fresh id, echoed back so the client
// can reuse it.
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader(SessionHeader)
		if _, err := uuid.Parse(sessionID); err != nil {
			sessionID = uuid.NewString()
		}

		c.Set(ContextSessionID, sessionID)
		c.Header(SessionHeader, sessionID)
		c.Next()
	}
}
