package http

import (
	"net/http"
	"testing"

	"souk-oman/pkg/logger"
	"souk-oman/pkg/storage"
	"souk-oman/services/marketplace/internal/fixture"
	"souk-oman/services/marketplace/internal/repo/persistent"
	"souk-oman/services/marketplace/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupPlanRouter(t *testing.T) *gin.Engine {
	sessions, catalog := newTestSessions(t)
	signIn(t, sessions, sessionA, testIdentifier, "en")

	plans := usecase.NewPlanUseCase(usecase.PlanDeps{
		Plans:            fixture.Plans(),
		SubscriptionRepo: persistent.NewSubscriptionRepository(storage.NewFacade(storage.NewMemoryBackend(), logger.NewNop())),
		Logger:           logger.NewNop(),
	})
	handler := NewPlanHandler(plans, sessions, logger.NewNop())

	router := setupTestRouter(catalog)
	router.GET("/plans", handler.ListPlans)
	router.GET("/plans/summary", handler.Summary)
	router.POST("/subscriptions", withUser(testUserID, handler.Subscribe))
	router.GET("/subscriptions/me", withUser(testUserID, handler.MySubscription))
	return router
}

func TestListPlans(t *testing.T) {
	router := setupPlanRouter(t)

	w := do(router, request{method: "GET", path: "/plans", language: "en"})
	require.Equal(t, http.StatusOK, w.Code)

	var response PlansResponse
	decode(t, w, &response)
	require.Len(t, response.Plans, 3)
	assert.Equal(t, "basic", response.Plans[0].ID)
	assert.Equal(t, "Basic", response.Plans[0].Name["en"])
	assert.Equal(t, "5.000 OMR", response.Plans[0].DisplayPrice)
	assert.Equal(t, []int{7, 30, 90, 365}, response.Durations)
}

func TestPlanSummary(t *testing.T) {
	router := setupPlanRouter(t)

	tests := []struct {
		name   string
		path   string
		status int
		total  float64
	}{
		{name: "Default duration", path: "/plans/summary?plan=premium", status: http.StatusOK, total: 15},
		{name: "Prorated week", path: "/plans/summary?plan=basic&duration=7", status: http.StatusOK, total: 1.167},
		{name: "Year", path: "/plans/summary?plan=business&duration=365", status: http.StatusOK, total: 365},
		{name: "Unknown plan", path: "/plans/summary?plan=gold", status: http.StatusNotFound},
		{name: "Unsupported duration", path: "/plans/summary?plan=basic&duration=14", status: http.StatusBadRequest},
		{name: "Malformed duration", path: "/plans/summary?plan=basic&duration=week", status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(router, request{method: "GET", path: tt.path, language: "en"})
			require.Equal(t, tt.status, w.Code)
			if tt.status != http.StatusOK {
				return
			}
			var response PlanSummaryResponse
			decode(t, w, &response)
			assert.InDelta(t, tt.total, response.Total, 1e-9)
			assert.Contains(t, response.Message, response.DisplayTotal)
		})
	}
}

func TestPlanSummary_UnknownPlanIsLocalized(t *testing.T) {
	router := setupPlanRouter(t)

	w := do(router, request{method: "GET", path: "/plans/summary?plan=gold", language: "en"})
	require.Equal(t, http.StatusNotFound, w.Code)
	var response ErrorResponse
	decode(t, w, &response)
	assert.Equal(t, "plan_not_found", response.Code)
	assert.Equal(t, "Plan not found", response.Error)
}

func TestSubscribe(t *testing.T) {
	router := setupPlanRouter(t)

	w := do(router, request{method: "GET", path: "/subscriptions/me", session: sessionA})
	require.Equal(t, http.StatusOK, w.Code)
	var current SubscriptionResponse
	decode(t, w, &current)
	assert.False(t, current.Active)
	assert.Nil(t, current.Subscription)

	w = do(router, request{method: "POST", path: "/subscriptions", body: SubscribeRequest{PlanID: "premium", Duration: 90}, session: sessionA})
	require.Equal(t, http.StatusCreated, w.Code)
	var created SubscriptionResponse
	decode(t, w, &created)
	require.NotNil(t, created.Subscription)
	assert.True(t, created.Active)
	assert.Equal(t, testUserID, created.Subscription.UserID)
	assert.Equal(t, 45.0, created.Subscription.Total)
	assert.Contains(t, created.Message, "Premium")

	w = do(router, request{method: "GET", path: "/subscriptions/me", session: sessionA})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &current)
	assert.True(t, current.Active)
	assert.Equal(t, created.Subscription.ID, current.Subscription.ID)
}

func TestSubscribe_Rejected(t *testing.T) {
	router := setupPlanRouter(t)

	w := do(router, request{method: "POST", path: "/subscriptions", body: SubscribeRequest{Duration: 30}, session: sessionA})
	require.Equal(t, http.StatusBadRequest, w.Code)
	var response ErrorResponse
	decode(t, w, &response)
	assert.Equal(t, "Please choose a plan", response.Error)

	w = do(router, request{method: "POST", path: "/subscriptions", body: SubscribeRequest{PlanID: "gold", Duration: 30}, session: sessionA})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(router, request{method: "POST", path: "/subscriptions", body: "{not json", session: sessionA})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// A token whose user is not signed in to the session is refused.
	w = do(router, request{method: "POST", path: "/subscriptions", body: SubscribeRequest{PlanID: "basic", Duration: 30}, session: sessionB})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
