package http

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"souk-oman/pkg/i18n"
	"souk-oman/pkg/logger"
	"souk-oman/pkg/middleware"
	"souk-oman/pkg/storage"
	"souk-oman/services/marketplace/internal/entity"
	"souk-oman/services/marketplace/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockListingUseCase is a mock implementation of ListingUseCase
type MockListingUseCase struct {
	mock.Mock
}

func (m *MockListingUseCase) CreateAd(ctx context.Context, userID string, draft entity.AdDraft) (*entity.Ad, error) {
	args := m.Called(ctx, userID, draft)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Ad), args.Error(1)
}

func (m *MockListingUseCase) UpdateAd(ctx context.Context, userID, adID string, patch entity.AdPatch) (*entity.Ad, error) {
	args := m.Called(ctx, userID, adID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Ad), args.Error(1)
}

func (m *MockListingUseCase) DeleteAd(ctx context.Context, userID, adID string) error {
	args := m.Called(ctx, userID, adID)
	return args.Error(0)
}

func (m *MockListingUseCase) ViewAd(ctx context.Context, adID string) (*entity.Ad, error) {
	args := m.Called(ctx, adID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Ad), args.Error(1)
}

func (m *MockListingUseCase) ClickAd(ctx context.Context, adID, kind string) (*entity.Ad, error) {
	args := m.Called(ctx, adID, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Ad), args.Error(1)
}

func (m *MockListingUseCase) GetAd(adID string) (*entity.Ad, error) {
	args := m.Called(adID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Ad), args.Error(1)
}

func (m *MockListingUseCase) FilterAds(filters entity.FilterSet) []*entity.Ad {
	args := m.Called(filters)
	return args.Get(0).([]*entity.Ad)
}

func (m *MockListingUseCase) GetFilteredAds(ctx context.Context, filters usecase.FilterState) []*entity.Ad {
	args := m.Called(ctx, filters)
	return args.Get(0).([]*entity.Ad)
}

func (m *MockListingUseCase) FeaturedAds() []*entity.Ad {
	args := m.Called()
	return args.Get(0).([]*entity.Ad)
}

func (m *MockListingUseCase) RecentAds(limit int) []*entity.Ad {
	args := m.Called(limit)
	return args.Get(0).([]*entity.Ad)
}

func (m *MockListingUseCase) RelatedAds(adID string, limit int) ([]*entity.Ad, error) {
	args := m.Called(adID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Ad), args.Error(1)
}

func (m *MockListingUseCase) AdsByCategory(category string) []*entity.Ad {
	args := m.Called(category)
	return args.Get(0).([]*entity.Ad)
}

func (m *MockListingUseCase) UserAds(userID string) []*entity.Ad {
	args := m.Called(userID)
	return args.Get(0).([]*entity.Ad)
}

func (m *MockListingUseCase) CanCreateAd(ctx context.Context, userID string) bool {
	args := m.Called(ctx, userID)
	return args.Bool(0)
}

func (m *MockListingUseCase) RemainingAds(ctx context.Context, userID string) int {
	args := m.Called(ctx, userID)
	return args.Int(0)
}

func (m *MockListingUseCase) Quota(ctx context.Context, userID string) entity.Quota {
	args := m.Called(ctx, userID)
	return args.Get(0).(entity.Quota)
}

func (m *MockListingUseCase) Analytics(ctx context.Context) entity.Analytics {
	args := m.Called(ctx)
	return args.Get(0).(entity.Analytics)
}

func (m *MockListingUseCase) UploadImages(ctx context.Context, userID string, files []*multipart.FileHeader) ([]string, error) {
	args := m.Called(ctx, userID, files)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

var _ usecase.ListingUseCase = (*MockListingUseCase)(nil)

const (
	sessionA = "0f8fad5b-d9cb-469f-a165-70867728950e"
	sessionB = "7c9e6679-7425-40de-944b-e07fc1f90ae7"
)

type acceptCode string

func (a acceptCode) Verify(code string) bool { return code == string(a) }

func newTestSessions(t *testing.T) (*usecase.SessionRegistry, *i18n.Catalog) {
	t.Helper()
	catalog, err := i18n.LoadCatalog()
	require.NoError(t, err)

	log := logger.NewNop()
	sessions := usecase.NewSessionRegistry(usecase.SessionDeps{
		Store:    storage.NewFacade(storage.NewMemoryBackend(), log),
		Catalog:  catalog,
		Delayer:  usecase.NoDelay{},
		Verifier: acceptCode("123456"),
		Logger:   log,
	})
	return sessions, catalog
}

func setupTestRouter(catalog *i18n.Catalog) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.SessionMiddleware(), middleware.LanguageMiddleware(catalog.Languages()))
	return r
}

const testIdentifier = "seller@example.om"

var testUserID = usecase.UserID(testIdentifier)

// signIn logs identifier in on the given session and returns the user id.
// language only applies when the session is new.
func signIn(t *testing.T, sessions *usecase.SessionRegistry, sessionID, identifier, language string) string {
	t.Helper()
	user, err := sessions.Session(context.Background(), sessionID, language).Auth.Login(context.Background(), identifier, "secret")
	require.NoError(t, err)
	return user.ID
}

func withUser(userID string, h gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserID, userID)
		h(c)
	}
}

type request struct {
	method   string
	path     string
	body     interface{}
	session  string
	language string
}

func do(router *gin.Engine, r request) *httptest.ResponseRecorder {
	var body bytes.Buffer
	if r.body != nil {
		if raw, ok := r.body.(string); ok {
			body.WriteString(raw)
		} else {
			_ = json.NewEncoder(&body).Encode(r.body)
		}
	}

	req, _ := http.NewRequest(r.method, r.path, &body)
	req.Header.Set("Content-Type", "application/json")
	if r.session != "" {
		req.Header.Set(middleware.SessionHeader, r.session)
	}
	if r.language != "" {
		req.Header.Set("Accept-Language", r.language)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dest))
}

func sampleAd(id string) *entity.Ad {
	return &entity.Ad{
		ID:          id,
		Title:       entity.LocalizedText{"ar": "سيارة", "en": "Car"},
		Description: entity.LocalizedText{"ar": "وصف", "en": "Description"},
		Price:       1234.5,
		Category:    "cars",
		Location:    "muscat",
		Clicks:      entity.DefaultClicks(),
		UserID:      "user-1",
	}
}
