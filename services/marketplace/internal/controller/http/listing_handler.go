package http

import (
	"net/http"
	"strconv"

	"souk-oman/pkg/logger"
	"souk-oman/services/marketplace/internal/entity"
	"souk-oman/services/marketplace/internal/usecase"

	"github.com/gin-gonic/gin"
)

type ListingHandler struct {
	listingUseCase usecase.ListingUseCase
	sessions       usecase.SessionProvider
	logger         *logger.Logger
}

func NewListingHandler(listingUseCase usecase.ListingUseCase, sessions usecase.SessionProvider, logger *logger.Logger) *ListingHandler {
	return &ListingHandler{
		listingUseCase: listingUseCase,
		sessions:       sessions,
		logger:         logger,
	}
}

type AdListResponse struct {
	Ads     []*entity.Ad     `json:"ads"`
	Count   int              `json:"count"`
	Filters entity.FilterSet `json:"filters"`
	Message string           `json:"message"`
}

type AdResponse struct {
	Ad      *entity.Ad `json:"ad"`
	Price   string     `json:"price"`
	Message string     `json:"message,omitempty"`
}

type ClickRequest struct {
	Kind string `json:"kind" binding:"required" example:"whatsapp"`
}

type QuotaResponse struct {
	entity.Quota
	Message string `json:"message"`
}

type UploadImagesResponse struct {
	Images []string `json:"images"`
}

// ListAds godoc
// @Summary      List ads
// @Description  Filtered and sorted ads. Query parameters update the session's filters first; without them the stored filters apply.
// @Tags         ads
// @Produce      json
// @Param        X-Session-ID header string false "Session id"
// @Param        category query string false "Category"
// @Param        location query string false "Location"
// @Param        price_min query string false "Minimum price"
// @Param        price_max query string false "Maximum price"
// @Param        price_range query string false "Price range as min-max"
// @Param        date query string false "Posted on or after (YYYY-MM-DD)"
// @Param        sort_by query string false "Sort order" Enums(newest, oldest, price-low, price-high)
// @Success      200  {object}  AdListResponse
// @Failure      400  {object}  ErrorResponse
// @Router       /ads [get]
func (h *ListingHandler) ListAds(c *gin.Context) {
	s := session(c, h.sessions)

	filters := s.Filters.Active(c.Request.Context())
	if patch := filterPatchFromQuery(c); !patch.IsEmpty() {
		updated, err := s.Filters.Update(c.Request.Context(), patch)
		if err != nil {
			writeError(c, s, h.logger, err)
			return
		}
		filters = updated
	}

	ads := h.listingUseCase.FilterAds(filters)
	c.JSON(http.StatusOK, AdListResponse{
		Ads:     ads,
		Count:   len(ads),
		Filters: filters,
		Message: s.Localizer.T("listings.results", map[string]interface{}{"count": len(ads)}),
	})
}

// FeaturedAds godoc
// @Summary      Featured ads
// @Tags         ads
// @Produce      json
// @Success      200  {array}  entity.Ad
// @Router       /ads/featured [get]
func (h *ListingHandler) FeaturedAds(c *gin.Context) {
	c.JSON(http.StatusOK, h.listingUseCase.FeaturedAds())
}

// RecentAds godoc
// @Summary      Most recent ads
// @Tags         ads
// @Produce      json
// @Param        limit query int false "Number of ads" default(6)
// @Success      200  {array}  entity.Ad
// @Router       /ads/recent [get]
func (h *ListingHandler) RecentAds(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(usecase.DefaultRecentLimit)))
	c.JSON(http.StatusOK, h.listingUseCase.RecentAds(limit))
}

// RelatedAds godoc
// @Summary      Ads related to an ad
// @Description  Other ads in the same category or location
// @Tags         ads
// @Produce      json
// @Param        id path string true "Ad ID"
// @Param        limit query int false "Number of ads" default(4)
// @Success      200  {array}  entity.Ad
// @Failure      404  {object}  ErrorResponse
// @Router       /ads/{id}/related [get]
func (h *ListingHandler) RelatedAds(c *gin.Context) {
	s := session(c, h.sessions)

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(usecase.DefaultRelatedLimit)))
	ads, err := h.listingUseCase.RelatedAds(c.Param("id"), limit)
	if err != nil {
		writeError(c, s, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, ads)
}

// AdsByCategory godoc
// @Summary      Ads in a category
// @Tags         ads
// @Produce      json
// @Param        category path string true "Category id"
// @Success      200  {array}  entity.Ad
// @Router       /ads/category/{category} [get]
func (h *ListingHandler) AdsByCategory(c *gin.Context) {
	c.JSON(http.StatusOK, h.listingUseCase.AdsByCategory(c.Param("category")))
}

// GetAd godoc
// @Summary      Get an ad
// @Tags         ads
// @Produce      json
// @Param        X-Session-ID header string false "Session id"
// @Param        id path string true "Ad ID"
// @Success      200  {object}  AdResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /ads/{id} [get]
func (h *ListingHandler) GetAd(c *gin.Context) {
	s := session(c, h.sessions)

	ad, err := h.listingUseCase.GetAd(c.Param("id"))
	if err != nil {
		writeError(c, s, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, AdResponse{Ad: ad, Price: s.Localizer.FormatPrice(ad.Price)})
}

// ViewAd godoc
// @Summary      Record an ad view
// @Tags         ads
// @Produce      json
// @Param        id path string true "Ad ID"
// @Success      200  {object}  AdResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /ads/{id}/view [post]
func (h *ListingHandler) ViewAd(c *gin.Context) {
	s := session(c, h.sessions)

	ad, err := h.listingUseCase.ViewAd(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, s, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, AdResponse{Ad: ad, Price: s.Localizer.FormatPrice(ad.Price)})
}

// ClickAd godoc
// @Summary      Record a contact click
// @Description  Count a phone, whatsapp or share click. Other kinds are counted under their own name.
// @Tags         ads
// @Accept       json
// @Produce      json
// @Param        id path string true "Ad ID"
// @Param        request body ClickRequest true "Click kind"
// @Success      200  {object}  AdResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /ads/{id}/click [post]
func (h *ListingHandler) ClickAd(c *gin.Context) {
	s := session(c, h.sessions)

	var req ClickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, s, err)
		return
	}

	ad, err := h.listingUseCase.ClickAd(c.Request.Context(), c.Param("id"), req.Kind)
	if err != nil {
		writeError(c, s, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, AdResponse{Ad: ad, Price: s.Localizer.FormatPrice(ad.Price)})
}

// CreateAd godoc
// @Summary      Post an ad
// @Description  Create an ad for the signed-in user. At most 3 ads per calendar week.
// @Tags         ads
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        X-Session-ID header string false "Session id"
// @Param        request body entity.AdDraft true "Ad"
// @Success      201  {object}  AdResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      429  {object}  ErrorResponse
// @Router       /ads [post]
func (h *ListingHandler) CreateAd(c *gin.Context) {
	s := session(c, h.sessions)

	userID, err := signedInUser(c, s)
	if err != nil {
		writeError(c, s, h.logger, err)
		return
	}

	var draft entity.AdDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		badRequest(c, s, err)
		return
	}

	ad, err := h.listingUseCase.CreateAd(c.Request.Context(), userID, draft)
	if err != nil {
		writeError(c, s, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, AdResponse{
		Ad:      ad,
		Price:   s.Localizer.FormatPrice(ad.Price),
		Message: s.Localizer.T("ads.created", nil),
	})
}

// UpdateAd godoc
// @Summary      Edit an ad
// @Tags         ads
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Ad ID"
// @Param        request body entity.AdPatch true "Fields to change"
// @Success      200  {object}  AdResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /ads/{id} [patch]
func (h *ListingHandler) UpdateAd(c *gin.Context) {
	s := session(c, h.sessions)

	userID, err := signedInUser(c, s)
	if err != nil {
		writeError(c, s, h.logger, err)
		return
	}

	var patch entity.AdPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, s, err)
		return
	}

	ad, err := h.listingUseCase.UpdateAd(c.Request.Context(), userID, c.Param("id"), patch)
	if err != nil {
		writeError(c, s, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, AdResponse{
		Ad:      ad,
		Price:   s.Localizer.FormatPrice(ad.Price),
		Message: s.Localizer.T("ads.updated", nil),
	})
}

// DeleteAd godoc
// @Summary      Delete an ad
// @Tags         ads
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Ad ID"
// @Success      200  {object}  map[string]string
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /ads/{id} [delete]
func (h *ListingHandler) DeleteAd(c *gin.Context) {
	s := session(c, h.sessions)

	userID, err := signedInUser(c, s)
	if err != nil {
		writeError(c, s, h.logger, err)
		return
	}

	if err := h.listingUseCase.DeleteAd(c.Request.Context(), userID, c.Param("id")); err != nil {
		writeError(c, s, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": s.Localizer.T("ads.deleted", nil)})
}

// MyAds godoc
// @Summary      Ads of the signed-in user
// @Tags         ads
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  entity.Ad
// @Failure      401  {object}  ErrorResponse
// @Router       /ads/mine [get]
func (h *ListingHandler) MyAds(c *gin.Context) {
	s := session(c, h.sessions)

	userID, err := signedInUser(c, s)
	if err != nil {
		writeError(c, s, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, h.listingUseCase.UserAds(userID))
}

// UploadImages godoc
// @Summary      Upload ad images
// @Description  Upload up to 10 images and get back the URLs to put in an ad draft
// @Tags         ads
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        images formData file true "Image files (jpg/jpeg/png)"
// @Success      201  {object}  UploadImagesResponse
// @Failure      400  {object}  ErrorResponse
// @Router       /ads/images [post]
func (h *ListingHandler) UploadImages(c *gin.Context) {
	s := session(c, h.sessions)

	userID, err := signedInUser(c, s)
	if err != nil {
		writeError(c, s, h.logger, err)
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		badRequest(c, s, err)
		return
	}

	urls, err := h.listingUseCase.UploadImages(c.Request.Context(), userID, form.File["images"])
	if err != nil {
		writeError(c, s, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, UploadImagesResponse{Images: urls})
}

// Quota godoc
// @Summary      Weekly posting quota
// @Tags         ads
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  QuotaResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /quota [get]
func (h *ListingHandler) Quota(c *gin.Context) {
	s := session(c, h.sessions)

	userID, err := signedInUser(c, s)
	if err != nil {
		writeError(c, s, h.logger, err)
		return
	}

	quota := h.listingUseCase.Quota(c.Request.Context(), userID)
	message := s.Localizer.T("quota.remaining", map[string]interface{}{"remaining": quota.Remaining})
	if !quota.CanCreate {
		message = s.Localizer.T("profile.weeklyLimitReached", nil)
	}
	c.JSON(http.StatusOK, QuotaResponse{Quota: quota, Message: message})
}

// Analytics godoc
// @Summary      View and click totals
// @Tags         analytics
// @Produce      json
// @Success      200  {object}  entity.Analytics
// @Router       /analytics [get]
func (h *ListingHandler) Analytics(c *gin.Context) {
	c.JSON(http.StatusOK, h.listingUseCase.Analytics(c.Request.Context()))
}

// GetFilters godoc
// @Summary      Active filters
// @Tags         filters
// @Produce      json
// @Param        X-Session-ID header string false "Session id"
// @Success      200  {object}  entity.FilterSet
// @Router       /filters [get]
func (h *ListingHandler) GetFilters(c *gin.Context) {
	s := session(c, h.sessions)
	c.JSON(http.StatusOK, s.Filters.Active(c.Request.Context()))
}

// UpdateFilters godoc
// @Summary      Change filters
// @Description  Merge the given fields into the active filters. An empty string clears a field.
// @Tags         filters
// @Accept       json
// @Produce      json
// @Param        X-Session-ID header string false "Session id"
// @Param        request body entity.FilterPatch true "Filter fields"
// @Success      200  {object}  AdListResponse
// @Failure      400  {object}  ErrorResponse
// @Router       /filters [patch]
func (h *ListingHandler) UpdateFilters(c *gin.Context) {
	s := session(c, h.sessions)

	var patch entity.FilterPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, s, err)
		return
	}

	filters, err := s.Filters.Update(c.Request.Context(), patch)
	if err != nil {
		writeError(c, s, h.logger, err)
		return
	}

	ads := h.listingUseCase.GetFilteredAds(c.Request.Context(), s.Filters)
	c.JSON(http.StatusOK, AdListResponse{
		Ads:     ads,
		Count:   len(ads),
		Filters: filters,
		Message: s.Localizer.T("listings.results", map[string]interface{}{"count": len(ads)}),
	})
}

// ClearFilters godoc
// @Summary      Reset filters
// @Tags         filters
// @Produce      json
// @Param        X-Session-ID header string false "Session id"
// @Success      200  {object}  entity.FilterSet
// @Router       /filters [delete]
func (h *ListingHandler) ClearFilters(c *gin.Context) {
	s := session(c, h.sessions)
	c.JSON(http.StatusOK, s.Filters.Clear(c.Request.Context()))
}

// filterPatchFromQuery reads the filter fields present in the query string.
// A present but empty parameter clears its field.
func filterPatchFromQuery(c *gin.Context) entity.FilterPatch {
	var patch entity.FilterPatch
	fields := []struct {
		name string
		dst  **string
	}{
		{"category", &patch.Category},
		{"location", &patch.Location},
		{"price_min", &patch.PriceMin},
		{"price_max", &patch.PriceMax},
		{"price_range", &patch.PriceRange},
		{"date", &patch.Date},
	}
	for _, f := range fields {
		if v, ok := c.GetQuery(f.name); ok {
			value := v
			*f.dst = &value
		}
	}
	if v, ok := c.GetQuery("sort_by"); ok {
		key := entity.SortKey(v)
		patch.SortBy = &key
	}
	return patch
}
