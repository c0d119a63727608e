package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/grievance-api/internal/dto"
	"github.com/noah-isme/grievance-api/internal/models"
	"github.com/noah-isme/grievance-api/internal/repository"
	"github.com/noah-isme/grievance-api/pkg/clock"
	appErrors "github.com/noah-isme/grievance-api/pkg/errors"
)

// AllowedPageSizes are the admin listing page sizes.
var AllowedPageSizes = []int{5, 10, 25, 50}

type grievanceStore interface {
	Submit(ctx context.Context, params repository.SubmitParams) (*models.Grievance, error)
	AppendUpdate(ctx context.Context, grievanceID string, status models.GrievanceStatus, message, actor string) (*models.GrievanceUpdate, error)
	FindByReferenceCode(ctx context.Context, code string) (*models.Grievance, bool)
	GetByID(ctx context.Context, id string) (*models.Grievance, error)
	ListByInstitution(ctx context.Context, institutionID string) []models.Grievance
	Institutions(ctx context.Context) []models.Institution
	Roles(ctx context.Context) []models.Role
}

type grievanceMetrics interface {
	RecordSubmission(institutionID string)
	RecordStatusUpdate(status models.GrievanceStatus)
	RecordLookup(hit bool)
}

// GrievanceService orchestrates filing, tracking and reviewing grievances.
type GrievanceService struct {
	store           grievanceStore
	validator       *validator.Validate
	logger          *zap.Logger
	clock           clock.Clock
	metrics         grievanceMetrics
	defaultPageSize int
}

// GrievanceOption customises a GrievanceService.
type GrievanceOption func(*GrievanceService)

// WithGrievanceClock overrides the time source used for date range filters.
func WithGrievanceClock(c clock.Clock) GrievanceOption {
	return func(s *GrievanceService) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithGrievanceMetrics records submissions, updates and lookups.
func WithGrievanceMetrics(m grievanceMetrics) GrievanceOption {
	return func(s *GrievanceService) {
		s.metrics = m
	}
}

// WithDefaultPageSize sets the listing page size used when none is requested.
func WithDefaultPageSize(size int) GrievanceOption {
	return func(s *GrievanceService) {
		if allowedPageSize(size) {
			s.defaultPageSize = size
		}
	}
}

// NewGrievanceService constructs the service.
func NewGrievanceService(store grievanceStore, validate *validator.Validate, logger *zap.Logger, opts ...GrievanceOption) *GrievanceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	registerGrievanceValidations(validate)
	svc := &GrievanceService{
		store:           store,
		validator:       validate,
		logger:          logger,
		clock:           clock.Real(),
		defaultPageSize: 10,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Institutions lists the institutions grievances can be filed against.
func (s *GrievanceService) Institutions(ctx context.Context) []models.Institution {
	return s.store.Institutions(ctx)
}

// Roles lists the selectable roles.
func (s *GrievanceService) Roles(ctx context.Context) []models.Role {
	return s.store.Roles(ctx)
}

// Categories lists the fixed grievance categories.
func (s *GrievanceService) Categories() []models.GrievanceCategory {
	return append([]models.GrievanceCategory(nil), models.GrievanceCategories...)
}

// Statuses lists the fixed grievance statuses.
func (s *GrievanceService) Statuses() []models.GrievanceStatus {
	return append([]models.GrievanceStatus(nil), models.GrievanceStatuses...)
}

// Submit files a grievance. The institution comes from the request or, when
// omitted, from the session. Identified submissions record the session role.
func (s *GrievanceService) Submit(ctx context.Context, req dto.SubmitGrievanceRequest, session *models.SessionClaims) (*models.Grievance, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid grievance payload")
	}

	institutionID := strings.TrimSpace(req.InstitutionID)
	if institutionID == "" && session != nil {
		institutionID = session.InstitutionID
	}
	if institutionID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "institutionId is required")
	}

	params := repository.SubmitParams{
		InstitutionID: institutionID,
		Category:      models.GrievanceCategory(strings.TrimSpace(req.Category)),
		Description:   req.Description,
		IsAnonymous:   req.IsAnonymous,
		Attachments:   req.Attachments,
	}
	if session != nil && !req.IsAnonymous {
		params.SubmittedBy = session.RoleName
	}

	grievance, err := s.store.Submit(ctx, params)
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordSubmission(grievance.InstitutionID)
	}
	s.logger.Info("grievance submitted",
		zap.String("grievance_id", grievance.ID),
		zap.String("reference_code", grievance.ReferenceCode),
		zap.String("institution_id", grievance.InstitutionID),
		zap.String("category", string(grievance.Category)),
		zap.Bool("anonymous", grievance.IsAnonymous),
	)
	return grievance, nil
}

// Track resolves a reference code for public status tracking.
func (s *GrievanceService) Track(ctx context.Context, code string) (*dto.TrackingResponse, error) {
	if strings.TrimSpace(code) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "reference code is required")
	}

	grievance, found := s.store.FindByReferenceCode(ctx, code)
	if s.metrics != nil {
		s.metrics.RecordLookup(found)
	}
	if !found {
		return nil, appErrors.Clone(appErrors.ErrGrievanceNotFound, "")
	}

	return &dto.TrackingResponse{
		ReferenceCode: grievance.ReferenceCode,
		Category:      grievance.Category,
		Description:   grievance.Description,
		IsAnonymous:   grievance.IsAnonymous,
		Status:        grievance.Status,
		ProgressStep:  grievance.Status.ProgressStep(),
		Steps:         append([]models.GrievanceStatus(nil), models.TrackingSteps...),
		SubmittedAt:   grievance.SubmittedAt,
		LastUpdated:   grievance.LastUpdated,
		Updates:       grievance.Updates,
		Attachments:   grievance.Attachments,
	}, nil
}

// Filter returns the session institution's grievances matching query in
// listing order.
func (s *GrievanceService) Filter(ctx context.Context, session *models.SessionClaims, query dto.GrievanceQuery) ([]models.Grievance, error) {
	if session == nil || session.InstitutionID == "" {
		return nil, appErrors.ErrUnauthorized
	}
	criteria, err := ParseGrievanceFilter(query)
	if err != nil {
		return nil, err
	}
	all := s.store.ListByInstitution(ctx, session.InstitutionID)
	return ApplyFilter(all, criteria, s.clock.Now()), nil
}

// ListForAdmin returns one page of filtered grievances plus aggregates over the
// whole filtered set.
func (s *GrievanceService) ListForAdmin(ctx context.Context, session *models.SessionClaims, query dto.GrievanceQuery) (*dto.GrievanceListResponse, error) {
	page := query.Page
	if page < 1 {
		page = 1
	}
	size := query.PageSize
	if size == 0 {
		size = s.defaultPageSize
	}
	if !allowedPageSize(size) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "page_size must be one of 5, 10, 25, 50")
	}

	filtered, err := s.Filter(ctx, session, query)
	if err != nil {
		return nil, err
	}

	start := len(filtered)
	if pages := (len(filtered) + size - 1) / size; page-1 < pages {
		start = (page - 1) * size
	}
	end := start + size
	if end > len(filtered) {
		end = len(filtered)
	}

	return &dto.GrievanceListResponse{
		Items:      filtered[start:end],
		Stats:      Aggregate(filtered),
		Pagination: &models.Pagination{Page: page, PageSize: size, TotalCount: len(filtered)},
	}, nil
}

// Stats aggregates the session institution's grievances matching query.
func (s *GrievanceService) Stats(ctx context.Context, session *models.SessionClaims, query dto.GrievanceQuery) (models.GrievanceStats, error) {
	filtered, err := s.Filter(ctx, session, query)
	if err != nil {
		return models.GrievanceStats{}, err
	}
	return Aggregate(filtered), nil
}

// Get returns a grievance of the session institution. Grievances of other
// institutions are reported as not found.
func (s *GrievanceService) Get(ctx context.Context, session *models.SessionClaims, id string) (*models.Grievance, error) {
	if session == nil || session.InstitutionID == "" {
		return nil, appErrors.ErrUnauthorized
	}
	grievance, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if grievance.InstitutionID != session.InstitutionID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "grievance not found")
	}
	return grievance, nil
}

// AppendUpdate records a reviewer's status change authored by the session role.
func (s *GrievanceService) AppendUpdate(ctx context.Context, session *models.SessionClaims, id string, req dto.AppendUpdateRequest) (*models.Grievance, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid update payload")
	}
	status, ok := models.ParseGrievanceStatus(req.Status)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid status")
	}

	current, err := s.Get(ctx, session, id)
	if err != nil {
		return nil, err
	}

	update, err := s.store.AppendUpdate(ctx, current.ID, status, req.Message, session.RoleName)
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordStatusUpdate(update.Status)
	}
	s.logger.Info("grievance status updated",
		zap.String("grievance_id", current.ID),
		zap.String("reference_code", current.ReferenceCode),
		zap.String("from", string(current.Status)),
		zap.String("to", string(update.Status)),
		zap.String("actor", update.UpdatedBy),
	)

	return s.store.GetByID(ctx, current.ID)
}

// ParseGrievanceFilter converts raw query values into filter criteria.
func ParseGrievanceFilter(query dto.GrievanceQuery) (models.GrievanceFilter, error) {
	var criteria models.GrievanceFilter

	if raw := strings.TrimSpace(query.Status); raw != "" {
		status, ok := models.ParseGrievanceStatus(raw)
		if !ok {
			return criteria, appErrors.Clone(appErrors.ErrValidation, "unknown status filter")
		}
		criteria.Status = status
	}
	if raw := strings.TrimSpace(query.Category); raw != "" {
		category := models.GrievanceCategory(raw)
		if !category.Valid() {
			return criteria, appErrors.Clone(appErrors.ErrValidation, "unknown category filter")
		}
		criteria.Category = category
	}
	dateRange, ok := models.ParseDateRange(query.DateRange)
	if !ok {
		return criteria, appErrors.Clone(appErrors.ErrValidation, "date_range must be one of today, last7days, last30days")
	}
	criteria.DateRange = dateRange

	return criteria, nil
}

func allowedPageSize(size int) bool {
	for _, allowed := range AllowedPageSizes {
		if size == allowed {
			return true
		}
	}
	return false
}
