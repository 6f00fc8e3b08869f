package middlewares

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"token-service/internal/api/interfaces"
	"token-service/internal/database"
	"token-service/internal/database/repositories"
	"token-service/internal/events"
	"token-service/internal/token"
	"token-service/internal/worker"
	"token-service/pkg/config"
	"token-service/pkg/logger"

	"github.com/gin-gonic/gin"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubServices carries just enough wiring for middleware tests.
type stubServices struct {
	log    *logger.Logger
	cfg    *config.Config
	tokens *token.Service
	hub    *events.Hub
	audits *repositories.AuditLogRepository
}

func (s *stubServices) GetLogger() *logger.Logger                            { return s.log }
func (s *stubServices) GetConfig() *config.Config                            { return s.cfg }
func (s *stubServices) TokenService() interfaces.TokenService                { return s.tokens }
func (s *stubServices) Authenticator() interfaces.Authenticator              { return nil }
func (s *stubServices) EventHub() *events.Hub                                { return s.hub }
func (s *stubServices) WorkerPool() *worker.Pool                             { return nil }
func (s *stubServices) UserRepository() *repositories.UserRepository         { return nil }
func (s *stubServices) AuditLogRepository() *repositories.AuditLogRepository { return s.audits }
func (s *stubServices) IsHealthy() bool                                      { return true }

func newStubServices(t *testing.T) *stubServices {
	t.Helper()

	log := logger.NewLogger("error", filepath.Join(t.TempDir(), "test.log"))
	t.Cleanup(func() { log.Close() })

	tokens, err := token.NewService("test-secret-key-for-middleware", "HS256", 30*time.Minute)
	require.NoError(t, err)

	hub := events.NewHub(log)
	require.NoError(t, hub.Start())
	t.Cleanup(hub.Stop)

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	db.SetMaxOpenConns(1)
	require.NoError(t, database.RunMigrations(db, "sqlite"))

	return &stubServices{
		log:    log,
		cfg:    &config.Config{},
		tokens: tokens,
		hub:    hub,
		audits: repositories.NewAuditLogRepository(db, "sqlite"),
	}
}

func performRequest(router *gin.Engine, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthRequired(t *testing.T) {
	gin.SetMode(gin.TestMode)
	services := newStubServices(t)

	router := gin.New()
	router.Use(AuthRequired(services))
	router.GET("/protected", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"sub": c.GetString("sub"), "role": c.GetString("role")})
	})

	expired, err := services.tokens.Issue(token.ClaimsSet{"sub": "alice"}, time.Nanosecond)
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)

	rejections := []struct {
		name    string
		headers map[string]string
	}{
		{"missing header", nil},
		{"wrong scheme", map[string]string{"Authorization": "Basic dXNlcjpwYXNz"}},
		{"bare token without scheme", map[string]string{"Authorization": "not-a-bearer-token"}},
		{"garbage token", map[string]string{"Authorization": "Bearer not.a.jwt"}},
		{"expired token", map[string]string{"Authorization": "Bearer " + expired}},
	}

	for _, tt := range rejections {
		t.Run(tt.name, func(t *testing.T) {
			w := performRequest(router, http.MethodGet, "/protected", tt.headers)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
			assert.Contains(t, w.Body.String(), "Could not validate credentials")
			assert.Contains(t, w.Body.String(), "INVALID_CREDENTIALS")
		})
	}

	t.Run("valid token sets subject and role", func(t *testing.T) {
		signed, err := services.tokens.IssueDefault(token.ClaimsSet{"sub": "alice", "role": "admin"})
		require.NoError(t, err)

		w := performRequest(router, http.MethodGet, "/protected", map[string]string{
			"Authorization": "Bearer " + signed,
		})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"sub":"alice"`)
		assert.Contains(t, w.Body.String(), `"role":"admin"`)
	})
}

func TestAdminRequired(t *testing.T) {
	gin.SetMode(gin.TestMode)
	services := newStubServices(t)

	router := gin.New()
	router.Use(AuthRequired(services), AdminRequired(services))
	router.GET("/admin", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	t.Run("admin role passes", func(t *testing.T) {
		signed, err := services.tokens.IssueDefault(token.ClaimsSet{"sub": "root", "role": "admin"})
		require.NoError(t, err)

		w := performRequest(router, http.MethodGet, "/admin", map[string]string{
			"Authorization": "Bearer " + signed,
		})
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("non-admin role is forbidden", func(t *testing.T) {
		signed, err := services.tokens.IssueDefault(token.ClaimsSet{"sub": "bob", "role": "user"})
		require.NoError(t, err)

		w := performRequest(router, http.MethodGet, "/admin", map[string]string{
			"Authorization": "Bearer " + signed,
		})
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "FORBIDDEN")
	})

	t.Run("missing role is forbidden", func(t *testing.T) {
		signed, err := services.tokens.IssueDefault(token.ClaimsSet{"sub": "carol"})
		require.NoError(t, err)

		w := performRequest(router, http.MethodGet, "/admin", map[string]string{
			"Authorization": "Bearer " + signed,
		})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestWSAuthRequired(t *testing.T) {
	gin.SetMode(gin.TestMode)
	services := newStubServices(t)

	router := gin.New()
	router.Use(WSAuthRequired(services))
	router.GET("/ws", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"sub": c.GetString("sub")})
	})

	t.Run("missing query token", func(t *testing.T) {
		w := performRequest(router, http.MethodGet, "/ws", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
	})

	t.Run("invalid query token", func(t *testing.T) {
		w := performRequest(router, http.MethodGet, "/ws?token=garbage", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid query token", func(t *testing.T) {
		signed, err := services.tokens.IssueDefault(token.ClaimsSet{"sub": "alice", "role": "user"})
		require.NoError(t, err)

		w := performRequest(router, http.MethodGet, "/ws?token="+signed, nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"sub":"alice"`)
	})
}

func TestHostValidation(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(cfg *config.Config) *gin.Engine {
		router := gin.New()
		router.Use(HostValidation(cfg))
		router.GET("/", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"ok": true})
		})
		return router
	}

	requestWithHost := func(router *gin.Engine, host string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Host = host
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("allowed host passes", func(t *testing.T) {
		cfg := &config.Config{App: config.AppConfig{AllowedHosts: []string{"example.com"}}}
		w := requestWithHost(newRouter(cfg), "example.com")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("port is stripped before matching", func(t *testing.T) {
		cfg := &config.Config{App: config.AppConfig{AllowedHosts: []string{"example.com"}}}
		w := requestWithHost(newRouter(cfg), "example.com:8000")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("unknown host is rejected", func(t *testing.T) {
		cfg := &config.Config{App: config.AppConfig{AllowedHosts: []string{"example.com"}}}
		w := requestWithHost(newRouter(cfg), "evil.com")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "INVALID_HOST")
	})

	t.Run("wildcard allows anything", func(t *testing.T) {
		cfg := &config.Config{App: config.AppConfig{AllowedHosts: []string{"*"}}}
		w := requestWithHost(newRouter(cfg), "whatever.example.org")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("debug mode skips the check", func(t *testing.T) {
		cfg := &config.Config{App: config.AppConfig{Debug: true, AllowedHosts: []string{"example.com"}}}
		w := requestWithHost(newRouter(cfg), "evil.com")
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(RateLimit(3))
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	for i := 0; i < 3; i++ {
		w := performRequest(router, http.MethodGet, "/", nil)
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := performRequest(router, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "RATE_LIMIT_EXCEEDED")
}
