package http

import (
	"net/http"
	"testing"

	"souk-oman/pkg/logger"
	"souk-oman/services/marketplace/internal/entity"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func setupFavoritesRouter(t *testing.T) (*MockListingUseCase, *gin.Engine) {
	mockUseCase := new(MockListingUseCase)
	sessions, catalog := newTestSessions(t)
	handler := NewFavoritesHandler(mockUseCase, sessions, logger.NewNop())

	router := setupTestRouter(catalog)
	router.GET("/favorites", handler.ListFavorites)
	router.POST("/favorites/:id", handler.AddFavorite)
	router.DELETE("/favorites/:id", handler.RemoveFavorite)
	return mockUseCase, router
}

func TestFavorites_AddListRemove(t *testing.T) {
	mockUseCase, router := setupFavoritesRouter(t)
	mockUseCase.On("GetAd", "1").Return(sampleAd("1"), nil)

	var response FavoritesResponse

	w := do(router, request{method: "POST", path: "/favorites/1", session: sessionA})
	assert.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &response)
	assert.Equal(t, 1, response.Count)

	// Adding again keeps one entry.
	w = do(router, request{method: "POST", path: "/favorites/1", session: sessionA})
	decode(t, w, &response)
	assert.Equal(t, 1, response.Count)

	w = do(router, request{method: "GET", path: "/favorites", session: sessionB})
	decode(t, w, &response)
	assert.Equal(t, 0, response.Count)

	w = do(router, request{method: "DELETE", path: "/favorites/1", session: sessionA})
	assert.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &response)
	assert.Equal(t, 0, response.Count)

	w = do(router, request{method: "DELETE", path: "/favorites/1", session: sessionA})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFavorites_UnknownAd(t *testing.T) {
	mockUseCase, router := setupFavoritesRouter(t)
	mockUseCase.On("GetAd", "404").Return(nil, entity.ErrAdNotFound)

	w := do(router, request{method: "POST", path: "/favorites/404", session: sessionA})

	assert.Equal(t, http.StatusNotFound, w.Code)
	mockUseCase.AssertExpectations(t)
}
