package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestSessionMiddleware(t *testing.T) {
	existing := uuid.NewString()

	tests := []struct {
		name   string
		header string
		keep   bool
	}{
		{"Assigns when missing", "", false},
		{"Replaces malformed", "not-a-uuid", false},
		{"Keeps valid", existing, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupTestRouter()
			router.Use(SessionMiddleware())
			var seen string
			router.GET("/test", func(c *gin.Context) {
				seen = c.GetString(ContextSessionID)
				c.Status(http.StatusOK)
			})

			w := httptest.NewRecorder()
			req, _ := http.NewRequest("GET", "/test", nil)
			if tt.header != "" {
				req.Header.Set(SessionHeader, tt.header)
			}
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, seen, w.Header().Get(SessionHeader))
			_, err := uuid.Parse(seen)
			assert.NoError(t, err)
			if tt.keep {
				assert.Equal(t, tt.header, seen)
			} else {
				assert.NotEqual(t, tt.header, seen)
			}
		})
	}
}
