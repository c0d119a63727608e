package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/grievance-api/internal/dto"
	"github.com/noah-isme/grievance-api/internal/middleware"
	"github.com/noah-isme/grievance-api/internal/models"
	appErrors "github.com/noah-isme/grievance-api/pkg/errors"
)

type grievanceServiceMock struct {
	submitted *dto.SubmitGrievanceRequest
	session   *models.SessionClaims
	trackErr  error
}

func (m *grievanceServiceMock) Submit(ctx context.Context, req dto.SubmitGrievanceRequest, session *models.SessionClaims) (*models.Grievance, error) {
	m.submitted = &req
	m.session = session
	return &models.Grievance{ID: "g-1", ReferenceCode: "GRV000001", Status: models.GrievanceStatusSubmitted}, nil
}

func (m *grievanceServiceMock) Track(ctx context.Context, code string) (*dto.TrackingResponse, error) {
	if m.trackErr != nil {
		return nil, m.trackErr
	}
	return &dto.TrackingResponse{ReferenceCode: code, Status: models.GrievanceStatusUnderReview, ProgressStep: 1}, nil
}

func TestGrievanceHandlerSubmit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &grievanceServiceMock{}
	handler := NewGrievanceHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(dto.SubmitGrievanceRequest{InstitutionID: "univ-1", Category: "Other", Description: "Broken fan"})
	c.Request = httptest.NewRequest(http.MethodPost, "/grievances", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	session := &models.SessionClaims{InstitutionID: "univ-1", RoleName: models.RoleNameStudent}
	c.Set(middleware.ContextSessionKey, session)

	handler.Submit(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"referenceId":"GRV000001"`)
	require.NotNil(t, svc.submitted)
	assert.Equal(t, "Broken fan", svc.submitted.Description)
	assert.Same(t, session, svc.session)
}

func TestGrievanceHandlerSubmitInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewGrievanceHandler(&grievanceServiceMock{})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/grievances", bytes.NewReader([]byte(`{`)))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Submit(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGrievanceHandlerTrack(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewGrievanceHandler(&grievanceServiceMock{})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/grievances/track/grv000001", nil)
	c.Params = gin.Params{{Key: "code", Value: "grv000001"}}

	handler.Track(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"progressStep":1`)

	handler = NewGrievanceHandler(&grievanceServiceMock{trackErr: appErrors.Clone(appErrors.ErrGrievanceNotFound, "")})
	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/grievances/track/GRV999999", nil)
	c.Params = gin.Params{{Key: "code", Value: "GRV999999"}}

	handler.Track(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "GRIEVANCE_NOT_FOUND")
}
