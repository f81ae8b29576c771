package http

import (
	"errors"
	"net/http"

	"souk-oman/pkg/logger"
	"souk-oman/pkg/middleware"
	"souk-oman/services/marketplace/internal/entity"
	"souk-oman/services/marketplace/internal/usecase"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}

type errorMapping struct {
	target error
	status int
	code   string
	key    string
}

var errorMappings = []errorMapping{
	{entity.ErrValidation, http.StatusBadRequest, "validation", "errors.validation"},
	{entity.ErrAuthRequired, http.StatusUnauthorized, "auth_required", "errors.authRequired"},
	{entity.ErrForbidden, http.StatusForbidden, "forbidden", "errors.forbidden"},
	{entity.ErrAdNotFound, http.StatusNotFound, "not_found", "errors.adNotFound"},
	{entity.ErrPlanNotFound, http.StatusNotFound, "plan_not_found", "errors.planNotFound"},
	{entity.ErrQuotaExceeded, http.StatusTooManyRequests, "quota_exceeded", "errors.quotaExceeded"},
	{entity.ErrVerification, http.StatusUnprocessableEntity, "verification_failed", "errors.verification"},
}

// session returns the caller's session, keyed by the session middleware.
func session(c *gin.Context, sessions usecase.SessionProvider) *usecase.Session {
	s := sessions.Session(
		c.Request.Context(),
		c.GetString(middleware.ContextSessionID),
		c.GetString(middleware.ContextLanguage),
	)
	c.Header("Content-Language", s.Localizer.Language())
	return s
}

// signedInUser returns the token's user id while that user is still signed
// in to the session. A token outliving a logout or naming another user of
// the session is not accepted.
func signedInUser(c *gin.Context, s *usecase.Session) (string, error) {
	userID := c.GetString(middleware.ContextUserID)
	user := s.Auth.State().User
	if userID == "" || user == nil || user.ID != userID {
		return "", entity.ErrAuthRequired
	}
	return userID, nil
}

// writeError maps domain errors to a status and a message in the session
// language. Unknown errors are logged and reported as 500.
func writeError(c *gin.Context, s *usecase.Session, log *logger.Logger, err error) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			c.JSON(m.status, ErrorResponse{
				Error:   s.Localizer.T(m.key, nil),
				Code:    m.code,
				Details: err.Error(),
			})
			return
		}
	}

	log.Error("Request %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error: s.Localizer.T("errors.internal", nil),
		Code:  "internal",
	})
}

func badRequest(c *gin.Context, s *usecase.Session, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   s.Localizer.T("errors.validation", nil),
		Code:    "validation",
		Details: err.Error(),
	})
}
