package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/grievance-api/pkg/clock"
	"github.com/noah-isme/grievance-api/pkg/config"
	"github.com/noah-isme/grievance-api/pkg/seed"
)

type envelope struct {
	Data       json.RawMessage        `json:"data"`
	Error      *struct{ Code string } `json:"error"`
	Pagination map[string]int         `json:"pagination"`
	Meta       map[string]interface{} `json:"meta"`
}

func testConfig() *config.Config {
	return &config.Config{
		Env:       config.EnvDevelopment,
		APIPrefix: "/api/v1",
		Session:   config.SessionConfig{Secret: "test-secret", TTL: 8 * time.Hour, Issuer: "grievance-api"},
		Reference: config.ReferenceConfig{Prefix: "GRV", Digits: 6},
		Listing:   config.ListingConfig{DefaultPageSize: 10},
		Export:    config.ExportConfig{Enabled: true},
		Metrics:   config.MetricsConfig{Enabled: true},
	}
}

func newTestApp(t *testing.T) (*gin.Engine, *clock.Fake) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	data, err := seed.Default()
	require.NoError(t, err)
	fake := clock.NewFake(time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC))
	app := NewApp(testConfig(), data, nil, fake)
	return app.Router(), fake
}

func do(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") && w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func startSession(t *testing.T, r *gin.Engine, institutionID, roleID string) string {
	t.Helper()
	w, env := do(t, r, http.MethodPost, "/api/v1/session", "", map[string]string{"institutionId": institutionID, "roleId": roleID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var session struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &session))
	require.NotEmpty(t, session.Token)
	return session.Token
}

func TestGrievanceLifecycleOverHTTP(t *testing.T) {
	r, fake := newTestApp(t)

	student := startSession(t, r, "univ-1", "role-student")
	officer := startSession(t, r, "univ-1", "role-officer")
	outsider := startSession(t, r, "college-1", "role-admin")

	w, env := do(t, r, http.MethodPost, "/api/v1/grievances", student, map[string]interface{}{
		"category":    "Academic Issues",
		"description": "X",
		"isAnonymous": true,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		ID          string `json:"id"`
		ReferenceID string `json:"referenceId"`
		Status      string `json:"status"`
		Updates     []struct {
			Message string `json:"message"`
		} `json:"updates"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "GRV000001", created.ReferenceID)
	assert.Equal(t, "Submitted", created.Status)
	require.Len(t, created.Updates, 1)
	assert.NotContains(t, w.Body.String(), "submittedBy")

	w, _ = do(t, r, http.MethodGet, "/api/v1/grievances/track/grv000001", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"progressStep":0`)

	w, env = do(t, r, http.MethodGet, "/api/v1/grievances/track/GRV999999", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "GRIEVANCE_NOT_FOUND", env.Error.Code)

	w, _ = do(t, r, http.MethodGet, "/api/v1/admin/grievances", student, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w, _ = do(t, r, http.MethodGet, "/api/v1/admin/grievances", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	fake.Advance(time.Hour)
	w, env = do(t, r, http.MethodPost, "/api/v1/admin/grievances/"+created.ID+"/updates", officer, map[string]string{
		"status":  "Resolved",
		"message": "Fixed",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, string(env.Data), `"updatedBy":"Grievance Officer"`)

	w, _ = do(t, r, http.MethodPost, "/api/v1/admin/grievances/"+created.ID+"/updates", officer, map[string]string{
		"status":  "Resolved",
		"message": "",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = do(t, r, http.MethodGet, "/api/v1/admin/grievances/"+created.ID, outsider, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, env = do(t, r, http.MethodGet, "/api/v1/admin/grievances?status=Resolved", officer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, env.Pagination["total_count"])
	assert.Equal(t, 10, env.Pagination["page_size"])
	stats := env.Meta["stats"].(map[string]interface{})
	assert.Equal(t, float64(1), stats["resolved"])

	w, _ = do(t, r, http.MethodGet, "/api/v1/admin/grievances/stats", outsider, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":0`)

	w, _ = do(t, r, http.MethodGet, "/api/v1/admin/grievances/export?format=csv", officer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="grievances_2024-03-10.csv"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "Reference ID,Category,Status,Submitted Date,Last Updated\nGRV000001,Academic Issues,Resolved,3/10/2024,3/10/2024\n", w.Body.String())

	w, _ = do(t, r, http.MethodGet, "/api/v1/admin/grievances/export?format=xlsx", officer, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = do(t, r, http.MethodGet, "/api/v1/grievances/track/GRV000001", "", nil)
	assert.Contains(t, w.Body.String(), `"progressStep":3`)
}

func TestSubmitWithoutSessionNeedsInstitution(t *testing.T) {
	r, _ := newTestApp(t)

	w, _ := do(t, r, http.MethodPost, "/api/v1/grievances", "", map[string]interface{}{
		"category":    "Other",
		"description": "Lights out",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = do(t, r, http.MethodPost, "/api/v1/grievances", "", map[string]interface{}{
		"institutionId": "univ-1",
		"category":      "Other",
		"description":   "Lights out",
	})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestReferenceAndOperationalEndpoints(t *testing.T) {
	r, _ := newTestApp(t)

	w, env := do(t, r, http.MethodGet, "/api/v1/categories", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var categories []string
	require.NoError(t, json.Unmarshal(env.Data, &categories))
	assert.Len(t, categories, 7)

	w, _ = do(t, r, http.MethodGet, "/api/v1/statuses", "", nil)
	assert.Contains(t, w.Body.String(), "Under Review")

	w, _ = do(t, r, http.MethodGet, "/api/v1/institutions", "", nil)
	assert.Contains(t, w.Body.String(), "univ-1")

	w, _ = do(t, r, http.MethodGet, "/api/v1/roles", "", nil)
	assert.Contains(t, w.Body.String(), "Grievance Officer")

	w, _ = do(t, r, http.MethodPost, "/api/v1/session", "", map[string]string{"institutionId": "nope", "roleId": "role-admin"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = do(t, r, http.MethodDelete, "/api/v1/session", "", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w, _ = do(t, r, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = do(t, r, http.MethodGet, "/ready", "", nil)
	assert.Contains(t, w.Body.String(), `"grievances":0`)

	w, _ = do(t, r, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")

	admin := startSession(t, r, "univ-1", "role-admin")
	w, env = do(t, r, http.MethodGet, "/api/v1/admin/metrics", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var snapshot struct {
		RequestsTotal uint64 `json:"requests_total"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &snapshot))
	assert.Greater(t, snapshot.RequestsTotal, uint64(0))

	student := startSession(t, r, "univ-1", "role-student")
	w, _ = do(t, r, http.MethodGet, "/api/v1/admin/metrics", student, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
