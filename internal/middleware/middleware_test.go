package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/noah-isme/grievance-api/internal/models"
	"github.com/noah-isme/grievance-api/internal/service"
	appErrors "github.com/noah-isme/grievance-api/pkg/errors"
)

type stubSessions map[string]*models.SessionClaims

func (s stubSessions) Validate(token string) (*models.SessionClaims, error) {
	if claims, ok := s[token]; ok {
		return claims, nil
	}
	return nil, appErrors.Wrap(errors.New("bad"), appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid session")
}

var sessions = stubSessions{
	"officer": {InstitutionID: "univ-1", RoleName: models.RoleNameGrievanceOfficer},
	"student": {InstitutionID: "univ-1", RoleName: models.RoleNameStudent},
}

func perform(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSessionAndRequireAdmin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", Session(sessions), RequireAdmin(), func(c *gin.Context) {
		c.String(http.StatusOK, SessionFromContext(c).RoleName)
	})

	w := perform(r, "officer")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.RoleNameGrievanceOfficer, w.Body.String())

	assert.Equal(t, http.StatusForbidden, perform(r, "student").Code)
	assert.Equal(t, http.StatusUnauthorized, perform(r, "forged").Code)
	assert.Equal(t, http.StatusUnauthorized, perform(r, "").Code)
}

func TestOptionalSessionNeverBlocks(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", OptionalSession(sessions), func(c *gin.Context) {
		if claims := SessionFromContext(c); claims != nil {
			c.String(http.StatusOK, claims.RoleName)
			return
		}
		c.String(http.StatusOK, "anonymous")
	})

	assert.Equal(t, models.RoleNameStudent, perform(r, "student").Body.String())
	assert.Equal(t, "anonymous", perform(r, "forged").Body.String())
	assert.Equal(t, "anonymous", perform(r, "").Body.String())
}

func TestRBACWithoutSession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", RBAC(models.RoleNameAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })
	assert.Equal(t, http.StatusUnauthorized, perform(r, "").Code)
}

func TestMetricsMiddlewareObservesRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metrics := service.NewMetricsService()
	r := gin.New()
	r.Use(Metrics(metrics))
	r.GET("/", func(c *gin.Context) {
		time.Sleep(time.Millisecond)
		c.Status(http.StatusOK)
	})

	perform(r, "")
	snap := metrics.Snapshot()
	assert.Equal(t, uint64(1), snap.RequestsTotal)
	assert.Greater(t, snap.AverageRequestDurationMs, 0.0)
}

func TestAuditLogsSuccessfulAdminActions(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.InfoLevel)
	r := gin.New()
	r.POST("/grievances/:id", Session(sessions), Audit(zap.New(core), "status_update", "grievance"), func(c *gin.Context) {
		if c.Query("fail") != "" {
			c.Status(http.StatusBadRequest)
			return
		}
		c.Status(http.StatusCreated)
	})

	do := func(target string) int {
		req := httptest.NewRequest(http.MethodPost, target, nil)
		req.Header.Set("Authorization", "Bearer officer")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	require.Equal(t, http.StatusCreated, do("/grievances/g-1"))
	require.Equal(t, http.StatusBadRequest, do("/grievances/g-1?fail=1"))

	entries := logs.FilterMessage("audit").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "status_update", fields["action"])
	assert.Equal(t, "g-1", fields["resource_id"])
	assert.Equal(t, "univ-1", fields["institution_id"])
	assert.Equal(t, models.RoleNameGrievanceOfficer, fields["role"])
	assert.Equal(t, int64(http.StatusCreated), fields["status"])
}

func TestMetricsMiddlewareSkipsScrapeRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metrics := service.NewMetricsService()
	r := gin.New()
	r.Use(Metrics(metrics, "/metrics"))
	r.GET("/metrics", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/grievances", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, target := range []string{"/metrics", "/metrics", "/grievances", "/missing"} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	assert.Equal(t, uint64(2), metrics.Snapshot().RequestsTotal)

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	assert.Contains(t, body, `path="/grievances"`)
	assert.Contains(t, body, `path="unmatched"`)
	assert.NotContains(t, body, `path="/metrics"`)
}
