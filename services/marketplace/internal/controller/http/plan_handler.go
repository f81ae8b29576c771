package http

import (
	"net/http"
	"strconv"

	"souk-oman/pkg/logger"
	"souk-oman/services/marketplace/internal/entity"
	"souk-oman/services/marketplace/internal/usecase"

	"github.com/gin-gonic/gin"
)

type PlanHandler struct {
	planUseCase usecase.PlanUseCase
	sessions    usecase.SessionProvider
	logger      *logger.Logger
}

func NewPlanHandler(planUseCase usecase.PlanUseCase, sessions usecase.SessionProvider, logger *logger.Logger) *PlanHandler {
	return &PlanHandler{
		planUseCase: planUseCase,
		sessions:    sessions,
		logger:      logger,
	}
}

type PlanResponse struct {
	*entity.Plan
	DisplayPrice string `json:"display_price"`
}

type PlansResponse struct {
	Plans     []PlanResponse `json:"plans"`
	Durations []int          `json:"durations"`
}

type PlanSummaryResponse struct {
	*entity.PlanSummary
	DisplayTotal string `json:"display_total"`
	Message      string `json:"message"`
}

type SubscribeRequest struct {
	PlanID   string `json:"plan_id" example:"premium"`
	Duration int    `json:"duration" example:"30"`
}

type SubscriptionResponse struct {
	Subscription *entity.Subscription `json:"subscription"`
	Active       bool                 `json:"active"`
	DisplayTotal string               `json:"display_total,omitempty"`
	Message      string               `json:"message,omitempty"`
}

// ListPlans godoc
// @Summary      Subscription plans
// @Tags         plans
// @Produce      json
// @Success      200  {object}  PlansResponse
// @Router       /plans [get]
func (h *PlanHandler) ListPlans(c *gin.Context) {
	s := session(c, h.sessions)

	plans := h.planUseCase.Plans()
	out := make([]PlanResponse, 0, len(plans))
	for _, p := range plans {
		out = append(out, PlanResponse{Plan: p, DisplayPrice: s.Localizer.FormatPrice(p.Price)})
	}
	c.JSON(http.StatusOK, PlansResponse{Plans: out, Durations: h.planUseCase.Durations()})
}

// Summary godoc
// @Summary      Price a plan for a duration
// @Tags         plans
// @Produce      json
// @Param        plan query string true "Plan id"
// @Param        duration query int false "Days" Enums(7, 30, 90, 365) default(30)
// @Success      200  {object}  PlanSummaryResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /plans/summary [get]
func (h *PlanHandler) Summary(c *gin.Context) {
	s := session(c, h.sessions)

	days, err := strconv.Atoi(c.DefaultQuery("duration", strconv.Itoa(entity.BillingPeriodDays)))
	if err != nil {
		badRequest(c, s, err)
		return
	}
	summary, err := h.planUseCase.Summary(c.Query("plan"), days)
	if err != nil {
		writeError(c, s, h.logger, err)
		return
	}

	total := s.Localizer.FormatPrice(summary.Total)
	c.JSON(http.StatusOK, PlanSummaryResponse{
		PlanSummary:  summary,
		DisplayTotal: total,
		Message:      s.Localizer.T("subscribe.total", map[string]interface{}{"days": days, "total": total}),
	})
}

// Subscribe godoc
// @Summary      Subscribe to a plan
// @Tags         plans
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        X-Session-ID header string true "Session id"
// @Param        request body SubscribeRequest true "Plan and duration"
// @Success      201  {object}  SubscriptionResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /subscriptions [post]
func (h *PlanHandler) Subscribe(c *gin.Context) {
	s := session(c, h.sessions)

	userID, err := signedInUser(c, s)
	if err != nil {
		writeError(c, s, h.logger, err)
		return
	}

	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, s, err)
		return
	}
	if req.PlanID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: s.Localizer.T("subscribe.selectPlan", nil),
			Code:  "validation",
		})
		return
	}
	if req.Duration == 0 {
		req.Duration = entity.BillingPeriodDays
	}

	sub, err := h.planUseCase.Subscribe(c.Request.Context(), userID, req.PlanID, req.Duration)
	if err != nil {
		writeError(c, s, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, h.subscriptionResponse(s, sub, "subscribe.success"))
}

// MySubscription godoc
// @Summary      Current subscription
// @Tags         plans
// @Produce      json
// @Security     BearerAuth
// @Param        X-Session-ID header string true "Session id"
// @Success      200  {object}  SubscriptionResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /subscriptions/me [get]
func (h *PlanHandler) MySubscription(c *gin.Context) {
	s := session(c, h.sessions)

	userID, err := signedInUser(c, s)
	if err != nil {
		writeError(c, s, h.logger, err)
		return
	}

	sub, ok := h.planUseCase.ActiveSubscription(c.Request.Context(), userID)
	if !ok {
		c.JSON(http.StatusOK, SubscriptionResponse{})
		return
	}
	c.JSON(http.StatusOK, h.subscriptionResponse(s, sub, "subscribe.active"))
}

func (h *PlanHandler) subscriptionResponse(s *usecase.Session, sub *entity.Subscription, key string) SubscriptionResponse {
	name := sub.PlanID
	if summary, err := h.planUseCase.Summary(sub.PlanID, sub.DurationDays); err == nil {
		name = summary.Plan.Name.In(s.Localizer.Language())
	}
	return SubscriptionResponse{
		Subscription: sub,
		Active:       true,
		DisplayTotal: s.Localizer.FormatPrice(sub.Total),
		Message: s.Localizer.T(key, map[string]interface{}{
			"plan":    name,
			"expires": sub.ExpiresAt.Format("2006-01-02"),
		}),
	}
}
