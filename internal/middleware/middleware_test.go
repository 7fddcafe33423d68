package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"adsyclub/internal/common"
	"adsyclub/internal/models"
	"adsyclub/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testSecret = "middleware-test-secret"

type mockUserService struct {
	mock.Mock
}

func (m *mockUserService) Register(ctx context.Context, email, name, password string) (*models.User, error) {
	args := m.Called(ctx, email, name, password)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *mockUserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	args := m.Called(ctx, email, password)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *mockUserService) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func issueToken(t *testing.T, user *models.User) string {
	t.Helper()
	token, err := services.NewAuthService(testSecret, time.Hour, nil).GenerateToken(user)
	require.NoError(t, err)
	return token.AccessToken
}

func newProtectedServer(extra ...echo.MiddlewareFunc) *echo.Echo {
	e := echo.New()
	chain := append([]echo.MiddlewareFunc{JWTMiddleware(testSecret, nil), RequireUser()}, extra...)
	e.GET("/me", func(c echo.Context) error {
		userID, _ := common.GetUserIDFromContext(c.Request().Context())
		return c.JSON(http.StatusOK, map[string]any{
			"user_id":  userID.String(),
			"is_admin": common.IsAdminFromContext(c.Request().Context()),
		})
	}, chain...)
	return e
}

func get(e *echo.Echo, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWTMiddlewarePopulatesContext(t *testing.T) {
	user := &models.User{ID: uuid.New(), Email: "member@example.com", IsAdmin: true}
	rec := get(newProtectedServer(), "/me", issueToken(t, user))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), user.ID.String())
	assert.Contains(t, rec.Body.String(), `"is_admin":true`)
}

func TestJWTMiddlewareRejectsMissingAndForeignTokens(t *testing.T) {
	e := newProtectedServer()

	rec := get(e, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "UNAUTHORIZED")

	foreign, err := services.NewAuthService("someone-else", time.Hour, nil).GenerateToken(&models.User{ID: uuid.New()})
	require.NoError(t, err)
	rec = get(e, "/me", foreign.AccessToken)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAdmin(t *testing.T) {
	admin := &models.User{ID: uuid.New(), Email: "admin@example.com", IsAdmin: true}
	demoted := &models.User{ID: uuid.New(), Email: "former@example.com", IsAdmin: true}
	member := &models.User{ID: uuid.New(), Email: "member@example.com"}

	users := &mockUserService{}
	users.On("Get", mock.Anything, admin.ID).Return(admin, nil)
	users.On("Get", mock.Anything, demoted.ID).Return(&models.User{ID: demoted.ID}, nil)
	defer users.AssertExpectations(t)

	e := newProtectedServer(NewAdminMiddleware(users).RequireAdmin())

	assert.Equal(t, http.StatusOK, get(e, "/me", issueToken(t, admin)).Code)
	assert.Equal(t, http.StatusForbidden, get(e, "/me", issueToken(t, demoted)).Code)
	assert.Equal(t, http.StatusForbidden, get(e, "/me", issueToken(t, member)).Code)
	users.AssertNotCalled(t, "Get", mock.Anything, member.ID)
}

func TestRequireAdminUnknownUser(t *testing.T) {
	ghost := &models.User{ID: uuid.New(), IsAdmin: true}
	users := &mockUserService{}
	users.On("Get", mock.Anything, ghost.ID).Return(nil, fmt.Errorf("user %s: %w", ghost.ID, common.ErrNotFound)).Once()

	e := newProtectedServer(NewAdminMiddleware(users).RequireAdmin())
	assert.Equal(t, http.StatusUnauthorized, get(e, "/me", issueToken(t, ghost)).Code)

	broken := &models.User{ID: uuid.New(), IsAdmin: true}
	users.On("Get", mock.Anything, broken.ID).Return(nil, errors.New("connection reset")).Once()
	assert.Equal(t, http.StatusInternalServerError, get(e, "/me", issueToken(t, broken)).Code)
}

func TestVersionResolver(t *testing.T) {
	vm := NewVersionMiddleware()
	e := echo.New()
	e.Use(vm.APIVersionResolver())
	v1 := vm.VersionRoute(e, "v1")
	v1.GET("/ping", func(c echo.Context) error {
		return c.String(http.StatusOK, c.Get("api_version").(string))
	})
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, c.Get("api_version").(string))
	})

	rec := get(e, "/v1/ping", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "v1", rec.Body.String())
	assert.Equal(t, "v1", rec.Header().Get("X-API-Version"))

	rec = get(e, "/health", "")
	assert.Equal(t, "v1", rec.Body.String())

	rec = get(e, "/v7/ping", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "UNSUPPORTED_VERSION")
}

func TestDeprecatedVersionHeaders(t *testing.T) {
	vm := NewVersionMiddleware()
	sunset := time.Date(2027, 1, 31, 0, 0, 0, 0, time.UTC)
	vm.AddVersion("v1", VersionStatusDeprecated, "Use v2", &sunset)
	vm.AddVersion("v2", VersionStatusActive, "Current stable API version", nil)

	e := echo.New()
	vm.VersionRoute(e, "v1").GET("/ping", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })

	rec := get(e, "/v1/ping", "")
	assert.Equal(t, "true", rec.Header().Get("X-API-Deprecated"))
	assert.Equal(t, `299 adsyclub "This API version is deprecated and will be removed on 2027-01-31"`, rec.Header().Get("Warning"))
	assert.Equal(t, []string{"v1", "v2"}, vm.SupportedVersions())
}

func TestVersionFromPath(t *testing.T) {
	cases := map[string]string{
		"/v1/subscriptions": "v1",
		"/v12":              "v12",
		"/v0/x":             "",
		"/video":            "",
		"/health":           "",
	}
	for path, want := range cases {
		assert.Equal(t, want, versionFromPath(path), path)
	}
}
