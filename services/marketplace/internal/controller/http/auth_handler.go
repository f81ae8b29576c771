package http

import (
	"net/http"

	"souk-oman/pkg/jwt"
	"souk-oman/pkg/logger"
	"souk-oman/pkg/metrics"
	"souk-oman/services/marketplace/internal/entity"
	"souk-oman/services/marketplace/internal/usecase"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	sessions   usecase.SessionProvider
	jwtService *jwt.Service
	metrics    *metrics.Metrics
	logger     *logger.Logger
}

func NewAuthHandler(sessions usecase.SessionProvider, jwtService *jwt.Service, metrics *metrics.Metrics, logger *logger.Logger) *AuthHandler {
	return &AuthHandler{
		sessions:   sessions,
		jwtService: jwtService,
		metrics:    metrics,
		logger:     logger,
	}
}

type LoginRequest struct {
	Identifier string `json:"identifier" example:"+968 9123 4567"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	Password   string `json:"password" example:"secret"`
}

type VerifyRequest struct {
	Code string `json:"code" example:"123456"`
}

type AuthResponse struct {
	User  *entity.User        `json:"user"`
	Token string              `json:"token"`
	State entity.SessionState `json:"state"`
}

// Login godoc
// @Summary      Sign in
// @Description  Sign in with a phone number or email and a password. Any non-empty credentials are accepted.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        X-Session-ID header string false "Session id"
// @Param        request body LoginRequest true "Credentials"
// @Success      200  {object}  AuthResponse
// @Failure      400  {object}  ErrorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	s := session(c, h.sessions)

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, s, err)
		return
	}

	identifier := req.Identifier
	if identifier == "" {
		identifier = req.Phone
	}
	if identifier == "" {
		identifier = req.Email
	}

	user, err := s.Auth.Login(c.Request.Context(), identifier, req.Password)
	h.respondWithToken(c, s, "login", http.StatusOK, user, err)
}

// Register godoc
// @Summary      Register
// @Description  Create an unverified account. A verification code must be confirmed next.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        X-Session-ID header string false "Session id"
// @Param        request body entity.RegisterInput true "Account details"
// @Success      201  {object}  AuthResponse
// @Failure      400  {object}  ErrorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	s := session(c, h.sessions)

	var req entity.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, s, err)
		return
	}

	user, err := s.Auth.Register(c.Request.Context(), req)
	h.respondWithToken(c, s, "register", http.StatusCreated, user, err)
}

// VerifyCode godoc
// @Summary      Verify phone
// @Description  Confirm the verification code of the signed-in user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        X-Session-ID header string false "Session id"
// @Param        request body VerifyRequest true "Code"
// @Success      200  {object}  AuthResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      422  {object}  ErrorResponse
// @Router       /auth/verify [post]
func (h *AuthHandler) VerifyCode(c *gin.Context) {
	s := session(c, h.sessions)

	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, s, err)
		return
	}

	user, err := s.Auth.VerifyCode(c.Request.Context(), req.Code)
	h.respondWithToken(c, s, "verify", http.StatusOK, user, err)
}

// Logout godoc
// @Summary      Sign out
// @Tags         auth
// @Produce      json
// @Param        X-Session-ID header string false "Session id"
// @Success      200  {object}  entity.SessionState
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	s := session(c, h.sessions)
	s.Auth.Logout(c.Request.Context())
	h.metrics.SessionTransition("logout", "ok")
	c.JSON(http.StatusOK, s.Auth.State())
}

// Me godoc
// @Summary      Session state
// @Description  Current user, loading flag, last error and verification step
// @Tags         auth
// @Produce      json
// @Param        X-Session-ID header string false "Session id"
// @Success      200  {object}  entity.SessionState
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	s := session(c, h.sessions)
	c.JSON(http.StatusOK, s.Auth.State())
}

// UpdateMe godoc
// @Summary      Update profile
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        X-Session-ID header string false "Session id"
// @Param        request body entity.UserPatch true "Fields to change"
// @Success      200  {object}  entity.User
// @Failure      401  {object}  ErrorResponse
// @Router       /auth/me [patch]
func (h *AuthHandler) UpdateMe(c *gin.Context) {
	s := session(c, h.sessions)

	var req entity.UserPatch
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, s, err)
		return
	}

	user, err := s.Auth.UpdateUser(c.Request.Context(), req)
	if err != nil {
		writeError(c, s, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// ClearError godoc
// @Summary      Clear the last session error
// @Tags         auth
// @Param        X-Session-ID header string false "Session id"
// @Success      204
// @Router       /auth/error [delete]
func (h *AuthHandler) ClearError(c *gin.Context) {
	s := session(c, h.sessions)
	s.Auth.ClearError()
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) respondWithToken(c *gin.Context, s *usecase.Session, op string, status int, user *entity.User, err error) {
	if err != nil {
		h.metrics.SessionTransition(op, "error")
		writeError(c, s, h.logger, err)
		return
	}
	h.metrics.SessionTransition(op, "ok")

	token, err := h.jwtService.GenerateToken(user.ID, user.Role())
	if err != nil {
		writeError(c, s, h.logger, err)
		return
	}

	c.JSON(status, AuthResponse{
		User:  user,
		Token: token,
		State: s.Auth.State(),
	})
}
