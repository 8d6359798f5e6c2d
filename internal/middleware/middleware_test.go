package middleware

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tutoring-site/internal/models"
	"github.com/noah-isme/tutoring-site/internal/service"
	"github.com/noah-isme/tutoring-site/internal/session"
	"github.com/noah-isme/tutoring-site/pkg/config"
	"github.com/noah-isme/tutoring-site/pkg/ratelimit"
)

type stubUsers map[string]*models.User

func (s stubUsers) FindByID(_ context.Context, id string) (*models.User, error) {
	if u, ok := s[id]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func newSessionRouter(t *testing.T, users identityLookup) (*gin.Engine, *session.Manager) {
	gin.SetMode(gin.TestMode)
	cfg := config.SessionConfig{Name: "sid", Secret: "0123456789abcdef0123456789abcdef", MaxAge: time.Hour, Store: config.StoreCookie}
	store, err := session.NewStore(cfg, nil)
	require.NoError(t, err)
	manager := session.NewManager(cfg)

	r := gin.New()
	r.Use(manager.Middleware(store), LoadIdentity(manager, users, nil))
	r.GET("/login-as/:id/:role", func(c *gin.Context) {
		user := &models.User{ID: c.Param("id"), Username: "x", Role: models.UserRole(c.Param("role"))}
		require.NoError(t, manager.Start(c, user))
		c.Status(http.StatusNoContent)
	})
	r.GET("/whoami", func(c *gin.Context) {
		id := Identity(c)
		c.String(http.StatusOK, "%s|%s", id.UserID, id.Role)
	})
	r.GET("/admin", RequireAdmin("/login", "/home"), func(c *gin.Context) { c.String(http.StatusOK, "admin area") })
	r.GET("/dashboard", RequireLogin("/login"), func(c *gin.Context) { c.String(http.StatusOK, "dashboard") })
	return r, manager
}

func do(r *gin.Engine, path string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRequireAdminRedirects(t *testing.T) {
	users := stubUsers{
		"a1": {ID: "a1", Role: models.RoleAdmin},
		"s1": {ID: "s1", Role: models.RoleStudent},
	}
	r, _ := newSessionRouter(t, users)

	rec := do(r, "/admin", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	student := do(r, "/login-as/s1/student", nil).Result().Cookies()
	rec = do(r, "/admin", student)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/home", rec.Header().Get("Location"))

	admin := do(r, "/login-as/a1/admin", nil).Result().Cookies()
	rec = do(r, "/admin", admin)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "admin area", rec.Body.String())
}

func TestRequireLogin(t *testing.T) {
	r, _ := newSessionRouter(t, stubUsers{"s1": {ID: "s1", Role: models.RoleStudent}})

	rec := do(r, "/dashboard", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	cookies := do(r, "/login-as/s1/student", nil).Result().Cookies()
	assert.Equal(t, http.StatusOK, do(r, "/dashboard", cookies).Code)
}

func TestLoadIdentityFollowsStoredRole(t *testing.T) {
	users := stubUsers{"a1": {ID: "a1", Role: models.RoleAdmin}}
	r, _ := newSessionRouter(t, users)

	cookies := do(r, "/login-as/a1/admin", nil).Result().Cookies()
	users["a1"].Role = models.RoleStudent

	assert.Equal(t, "a1|student", do(r, "/whoami", cookies).Body.String())
	assert.Equal(t, http.StatusSeeOther, do(r, "/admin", cookies).Code)

	delete(users, "a1")
	assert.Equal(t, "|", do(r, "/whoami", cookies).Body.String())
}

func TestRateLimitThrottlesSixthLogin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metrics := service.NewMetricsService()
	handled := 0

	r := gin.New()
	r.POST("/login", RateLimit(RateLimitConfig{
		Limiter: ratelimit.NewMemoryLimiter(),
		Rules:   []ratelimit.Rule{{Name: "login", Limit: 5, Window: time.Minute}},
		Metrics: metrics,
	}), func(c *gin.Context) {
		handled++
		c.Status(http.StatusOK)
	})

	for i := 1; i <= 6; i++ {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "203.0.113.7:5555"
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if i <= 5 {
			assert.Equal(t, http.StatusOK, rec.Code, "attempt %d", i)
			continue
		}
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	}
	assert.Equal(t, 5, handled)

	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = "198.51.100.2:5555"
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimitCustomResponseAndSkip(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimit(RateLimitConfig{
		Limiter: ratelimit.NewMemoryLimiter(),
		Rules:   []ratelimit.Rule{ratelimit.PerHour(1)},
		Skip:    func(c *gin.Context) bool { return c.Request.URL.Path == "/health" },
		OnThrottle: func(c *gin.Context) {
			c.Redirect(http.StatusSeeOther, "/login")
		},
	}))
	r.GET("/news", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, do(r, "/news", nil).Code)
	rec := do(r, "/news", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, do(r, "/health", nil).Code)
	}
}

func TestMetricsMiddlewareLabelsUnmatched(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metrics := service.NewMetricsService()
	r := gin.New()
	r.Use(Metrics(metrics))
	r.GET("/news", func(c *gin.Context) { c.Status(http.StatusOK) })

	do(r, "/news", nil)
	do(r, "/nope", nil)

	families, err := metrics.Registry().Gather()
	require.NoError(t, err)
	paths := map[string]bool{}
	for _, f := range families {
		if f.GetName() != "http_requests_total" {
			continue
		}
		for _, m := range f.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == "path" {
					paths[l.GetValue()] = true
				}
			}
		}
	}
	assert.True(t, paths["/news"])
	assert.True(t, paths["unmatched"])
}
