package mw

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func do(r http.Handler, method, path, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

func sign(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func TestRateLimiter(t *testing.T) {
	r := gin.New()
	r.Use(RateLimiter(rate.Limit(1), 2))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, do(r, "GET", "/", "").Code)
	assert.Equal(t, http.StatusOK, do(r, "GET", "/", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, do(r, "GET", "/", "").Code)
}

func TestIPRateLimiter_ReusesLimiter(t *testing.T) {
	l := NewIPRateLimiter(rate.Limit(1), 1)
	assert.Same(t, l.GetLimiter("10.0.0.1"), l.GetLimiter("10.0.0.1"))
	assert.NotSame(t, l.GetLimiter("10.0.0.1"), l.GetLimiter("10.0.0.2"))
}

func TestCacheAndFlush(t *testing.T) {
	store := cache.New(time.Minute, time.Minute)
	hits := 0
	r := gin.New()
	r.Use(FlushOnWrite(store))
	r.GET("/n", Cache(store, time.Minute), func(c *gin.Context) {
		hits++
		c.JSON(http.StatusOK, gin.H{"hits": hits})
	})
	r.POST("/n", func(c *gin.Context) { c.Status(http.StatusCreated) })

	first := do(r, "GET", "/n", "")
	second := do(r, "GET", "/n", "")
	assert.JSONEq(t, first.Body.String(), second.Body.String())
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, 1, hits)

	assert.Equal(t, http.StatusCreated, do(r, "POST", "/n", "").Code)
	third := do(r, "GET", "/n", "")
	assert.JSONEq(t, `{"hits":2}`, third.Body.String())
}

func TestAdminAuth(t *testing.T) {
	const secret = "s3cret"
	r := gin.New()
	r.GET("/admin", AdminAuth(secret, nil), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusUnauthorized, do(r, "GET", "/admin", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "GET", "/admin", "garbage").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "GET", "/admin", sign(t, "other", jwt.MapClaims{"role": RoleAdmin})).Code)
	assert.Equal(t, http.StatusForbidden, do(r, "GET", "/admin", sign(t, secret, jwt.MapClaims{"role": "staff"})).Code)

	expired := sign(t, secret, jwt.MapClaims{"role": RoleAdmin, "exp": time.Now().Add(-time.Hour).Unix()})
	assert.Equal(t, http.StatusUnauthorized, do(r, "GET", "/admin", expired).Code)

	ok := sign(t, secret, jwt.MapClaims{"role": RoleAdmin, "sub": "maitre", "exp": time.Now().Add(time.Hour).Unix()})
	assert.Equal(t, http.StatusOK, do(r, "GET", "/admin", ok).Code)
}

func TestAdminAuth_OpenWithoutSecret(t *testing.T) {
	r := gin.New()
	r.GET("/admin", AdminAuth("", nil), func(c *gin.Context) { c.Status(http.StatusOK) })
	assert.Equal(t, http.StatusOK, do(r, "GET", "/admin", "").Code)
}
