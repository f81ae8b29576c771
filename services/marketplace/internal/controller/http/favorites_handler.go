package http

import (
	"net/http"

	"souk-oman/pkg/logger"
	"souk-oman/services/marketplace/internal/entity"
	"souk-oman/services/marketplace/internal/usecase"

	"github.com/gin-gonic/gin"
)

type FavoritesHandler struct {
	listingUseCase usecase.ListingUseCase
	sessions       usecase.SessionProvider
	logger         *logger.Logger
}

func NewFavoritesHandler(listingUseCase usecase.ListingUseCase, sessions usecase.SessionProvider, logger *logger.Logger) *FavoritesHandler {
	return &FavoritesHandler{
		listingUseCase: listingUseCase,
		sessions:       sessions,
		logger:         logger,
	}
}

type FavoritesResponse struct {
	Favorites []*entity.Ad `json:"favorites"`
	Count     int          `json:"count"`
}

// ListFavorites godoc
// @Summary      Favorited ads
// @Tags         favorites
// @Produce      json
// @Param        X-Session-ID header string false "Session id"
// @Success      200  {object}  FavoritesResponse
// @Router       /favorites [get]
func (h *FavoritesHandler) ListFavorites(c *gin.Context) {
	s := session(c, h.sessions)
	h.respond(c, s, http.StatusOK)
}

// AddFavorite godoc
// @Summary      Favorite an ad
// @Description  Adding an ad twice keeps a single entry
// @Tags         favorites
// @Produce      json
// @Param        X-Session-ID header string false "Session id"
// @Param        id path string true "Ad ID"
// @Success      200  {object}  FavoritesResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /favorites/{id} [post]
func (h *FavoritesHandler) AddFavorite(c *gin.Context) {
	s := session(c, h.sessions)

	ad, err := h.listingUseCase.GetAd(c.Param("id"))
	if err != nil {
		writeError(c, s, h.logger, err)
		return
	}
	s.Favorites.Add(c.Request.Context(), ad)
	h.respond(c, s, http.StatusOK)
}

// RemoveFavorite godoc
// @Summary      Unfavorite an ad
// @Tags         favorites
// @Produce      json
// @Param        X-Session-ID header string false "Session id"
// @Param        id path string true "Ad ID"
// @Success      200  {object}  FavoritesResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /favorites/{id} [delete]
func (h *FavoritesHandler) RemoveFavorite(c *gin.Context) {
	s := session(c, h.sessions)

	if !s.Favorites.Remove(c.Request.Context(), c.Param("id")) {
		writeError(c, s, h.logger, entity.ErrAdNotFound)
		return
	}
	h.respond(c, s, http.StatusOK)
}

func (h *FavoritesHandler) respond(c *gin.Context, s *usecase.Session, status int) {
	favorites := s.Favorites.List(c.Request.Context())
	c.JSON(status, FavoritesResponse{Favorites: favorites, Count: len(favorites)})
}
