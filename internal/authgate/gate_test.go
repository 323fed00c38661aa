package authgate_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openeshop/eshop/internal/authgate"
	"github.com/openeshop/eshop/internal/webserver"
)

const testSecret = "unit-test-secret"

func newGate(policy authgate.RevocationPolicy) *authgate.Gate {
	return authgate.New(authgate.GateConfig{
		Secret:  testSecret,
		Exempt:  authgate.DefaultExemptRules("/api/v1"),
		Revoked: policy,
	})
}

func newTestServer(gate *authgate.Gate) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = webserver.HTTPErrorHandler
	e.Use(gate.Middleware())

	handler := func(c echo.Context) error {
		if claims, ok := authgate.ClaimsFrom(c); ok {
			return c.JSON(http.StatusOK, echo.Map{"userId": claims.UserId})
		}
		return c.JSON(http.StatusOK, echo.Map{})
	}
	e.GET("/api/v1/categories", handler)
	e.GET("/api/v1/users", handler)
	e.POST("/api/v1/orders", handler)
	e.POST("/api/v1/users/login", handler)
	return e
}

func doRequest(e *echo.Echo, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestProtectedRouteWithoutToken(t *testing.T) {
	e := newTestServer(newGate(authgate.AdminOnly))
	rec := doRequest(e, http.MethodGet, "/api/v1/users", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "The user is not authorized")
}

func TestExemptRoutesBypassVerification(t *testing.T) {
	e := newTestServer(newGate(authgate.AdminOnly))

	rec := doRequest(e, http.MethodGet, "/api/v1/categories", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	// order placement is open on purpose
	rec = doRequest(e, http.MethodPost, "/api/v1/orders", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(e, http.MethodPost, "/api/v1/users/login", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminTokenPassesAdminOnly(t *testing.T) {
	gate := newGate(authgate.AdminOnly)
	e := newTestServer(gate)

	token, err := gate.IssueToken(12345, true)
	require.NoError(t, err)

	rec := doRequest(e, http.MethodGet, "/api/v1/users", token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "userId")
}

func TestNonAdminTokenRejectedByAdminOnly(t *testing.T) {
	gate := newGate(authgate.AdminOnly)
	e := newTestServer(gate)

	token, err := gate.IssueToken(12345, false)
	require.NoError(t, err)

	rec := doRequest(e, http.MethodGet, "/api/v1/users", token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestNonAdminTokenPassesSubjectOnly(t *testing.T) {
	gate := newGate(authgate.SubjectOnly)
	e := newTestServer(gate)

	token, err := gate.IssueToken(12345, false)
	require.NoError(t, err)

	rec := doRequest(e, http.MethodGet, "/api/v1/users", token)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func signClaims(t *testing.T, secret string, claims authgate.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestTokenWithoutSubjectRejected(t *testing.T) {
	e := newTestServer(newGate(authgate.SubjectOnly))

	token := signClaims(t, testSecret, authgate.Claims{
		IsAdmin: true,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	rec := doRequest(e, http.MethodGet, "/api/v1/users", token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestForgedTokenRejected(t *testing.T) {
	e := newTestServer(newGate(authgate.AdminOnly))

	token := signClaims(t, "wrong-secret", authgate.Claims{
		UserId:  "abc",
		IsAdmin: true,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	rec := doRequest(e, http.MethodGet, "/api/v1/users", token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestExpiredTokenRejected(t *testing.T) {
	e := newTestServer(newGate(authgate.AdminOnly))

	token := signClaims(t, testSecret, authgate.Claims{
		UserId:  "abc",
		IsAdmin: true,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})

	rec := doRequest(e, http.MethodGet, "/api/v1/users", token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestExemptRuleMatching(t *testing.T) {
	rules := authgate.DefaultExemptRules("/api/v1")

	match := func(method, path string) bool {
		for _, rule := range rules {
			if rule.Match(method, path) {
				return true
			}
		}
		return false
	}

	assert.True(t, match(http.MethodGet, "/api/v1/products"))
	assert.True(t, match(http.MethodGet, "/api/v1/products/get/featured/5"))
	assert.False(t, match(http.MethodPost, "/api/v1/products"))
	assert.False(t, match(http.MethodDelete, "/api/v1/products/1a2b"))

	assert.True(t, match(http.MethodGet, "/api/v1/categories"))
	assert.False(t, match(http.MethodPut, "/api/v1/categories/1a2b"))

	assert.True(t, match(http.MethodPost, "/api/v1/orders"))
	assert.True(t, match(http.MethodGet, "/api/v1/orders/get/totalsales"))
	assert.False(t, match(http.MethodDelete, "/api/v1/orders/1a2b"))

	assert.True(t, match(http.MethodPost, "/api/v1/users/login"))
	assert.True(t, match(http.MethodPost, "/api/v1/users/register"))
	assert.False(t, match(http.MethodGet, "/api/v1/users"))

	assert.True(t, match(http.MethodGet, "/public/uploads/p.png"))
}

func TestPolicyByName(t *testing.T) {
	subject := &authgate.Claims{UserId: "abc"}
	admin := &authgate.Claims{UserId: "abc", IsAdmin: true}

	assert.True(t, authgate.PolicyByName("admin-only")(subject))
	assert.False(t, authgate.PolicyByName("admin-only")(admin))
	assert.False(t, authgate.PolicyByName("subject-only")(subject))
	assert.True(t, authgate.PolicyByName("")(subject))
}
