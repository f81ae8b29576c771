package http

import (
	"net/http"

	"souk-oman/pkg/i18n"
	"souk-oman/services/marketplace/internal/usecase"

	"github.com/gin-gonic/gin"
)

type I18nHandler struct {
	catalog  *i18n.Catalog
	sessions usecase.SessionProvider
}

func NewI18nHandler(catalog *i18n.Catalog, sessions usecase.SessionProvider) *I18nHandler {
	return &I18nHandler{catalog: catalog, sessions: sessions}
}

type LanguageState struct {
	Language           string         `json:"language"`
	Direction          i18n.Direction `json:"dir"`
	IsRTL              bool           `json:"is_rtl"`
	AvailableLanguages []string       `json:"available_languages"`
}

type ChangeLanguageRequest struct {
	Language string `json:"language" binding:"required" example:"en"`
}

type ChangeLanguageResponse struct {
	LanguageState
	Changed bool `json:"changed"`
}

type TranslationResponse struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// GetLanguage godoc
// @Summary      Session language
// @Tags         i18n
// @Produce      json
// @Param        X-Session-ID header string false "Session id"
// @Param        Accept-Language header string false "Preferred languages for a new session"
// @Success      200  {object}  LanguageState
// @Router       /i18n [get]
func (h *I18nHandler) GetLanguage(c *gin.Context) {
	s := session(c, h.sessions)
	c.JSON(http.StatusOK, languageState(s.Localizer))
}

// ChangeLanguage godoc
// @Summary      Switch language
// @Description  Unsupported codes leave the language unchanged
// @Tags         i18n
// @Accept       json
// @Produce      json
// @Param        X-Session-ID header string false "Session id"
// @Param        request body ChangeLanguageRequest true "Language code"
// @Success      200  {object}  ChangeLanguageResponse
// @Failure      400  {object}  ErrorResponse
// @Router       /i18n/language [put]
func (h *I18nHandler) ChangeLanguage(c *gin.Context) {
	s := session(c, h.sessions)

	var req ChangeLanguageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, s, err)
		return
	}

	changed := s.Localizer.ChangeLanguage(c.Request.Context(), req.Language)
	c.Header("Content-Language", s.Localizer.Language())
	c.JSON(http.StatusOK, ChangeLanguageResponse{
		LanguageState: languageState(s.Localizer),
		Changed:       changed,
	})
}

// Translate godoc
// @Summary      Translate a key
// @Description  Look up a dotted key in the session language. Other query parameters fill {placeholders}. Unknown keys come back unchanged.
// @Tags         i18n
// @Produce      json
// @Param        X-Session-ID header string false "Session id"
// @Param        key query string true "Dotted key, e.g. listings.results"
// @Success      200  {object}  TranslationResponse
// @Router       /i18n/translate [get]
func (h *I18nHandler) Translate(c *gin.Context) {
	s := session(c, h.sessions)

	key := c.Query("key")
	params := map[string]interface{}{}
	for name, values := range c.Request.URL.Query() {
		if name != "key" && len(values) > 0 {
			params[name] = values[0]
		}
	}
	c.JSON(http.StatusOK, TranslationResponse{Key: key, Value: s.Localizer.T(key, params)})
}

// Messages godoc
// @Summary      Translation table
// @Description  The full table of the session language
// @Tags         i18n
// @Produce      json
// @Param        X-Session-ID header string false "Session id"
// @Success      200  {object}  map[string]interface{}
// @Router       /i18n/messages [get]
func (h *I18nHandler) Messages(c *gin.Context) {
	s := session(c, h.sessions)

	table, _ := h.catalog.Table(s.Localizer.Language())
	c.JSON(http.StatusOK, table)
}

func languageState(l *i18n.Localizer) LanguageState {
	return LanguageState{
		Language:           l.Language(),
		Direction:          l.Direction(),
		IsRTL:              l.IsRTL(),
		AvailableLanguages: l.AvailableLanguages(),
	}
}
