package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/grievance-api/internal/models"
	"github.com/noah-isme/grievance-api/pkg/clock"
	appErrors "github.com/noah-isme/grievance-api/pkg/errors"
)

const (
	defaultReferencePrefix = "GRV"
	defaultReferenceDigits = 6

	initialUpdateMessage = "Grievance submitted successfully"
)

// SubmitParams carries the fields of a new grievance.
type SubmitParams struct {
	InstitutionID string
	Category      models.GrievanceCategory
	Description   string
	IsAnonymous   bool
	Attachments   []string
	// SubmittedBy is dropped when IsAnonymous is set.
	SubmittedBy string
}

// GrievanceRepository is the process-local grievance store. Reference data is
// fixed at construction; grievances are only ever appended to.
type GrievanceRepository struct {
	mu sync.RWMutex

	institutions []models.Institution
	roles        []models.Role
	instIndex    map[string]int
	roleIndex    map[string]int

	grievances map[string]*models.Grievance
	order      []string
	refs       *ReferenceIndex
	seq        int

	clock  clock.Clock
	newID  func() string
	prefix string
	digits int
}

// Option customises a GrievanceRepository.
type Option func(*GrievanceRepository)

// WithClock overrides the time source.
func WithClock(c clock.Clock) Option {
	return func(r *GrievanceRepository) {
		if c != nil {
			r.clock = c
		}
	}
}

// WithReferenceFormat sets the reference code prefix and zero padding width.
func WithReferenceFormat(prefix string, digits int) Option {
	return func(r *GrievanceRepository) {
		if p := strings.ToUpper(strings.TrimSpace(prefix)); p != "" {
			r.prefix = p
		}
		if digits > 0 {
			r.digits = digits
		}
	}
}

// WithIDGenerator overrides internal id generation.
func WithIDGenerator(fn func() string) Option {
	return func(r *GrievanceRepository) {
		if fn != nil {
			r.newID = fn
		}
	}
}

// NewGrievanceRepository builds a store over the given reference data.
func NewGrievanceRepository(institutions []models.Institution, roles []models.Role, opts ...Option) *GrievanceRepository {
	r := &GrievanceRepository{
		institutions: append([]models.Institution(nil), institutions...),
		roles:        append([]models.Role(nil), roles...),
		instIndex:    make(map[string]int, len(institutions)),
		roleIndex:    make(map[string]int, len(roles)),
		grievances:   make(map[string]*models.Grievance),
		refs:         NewReferenceIndex(),
		clock:        clock.Real(),
		newID:        uuid.NewString,
		prefix:       defaultReferencePrefix,
		digits:       defaultReferenceDigits,
	}
	for i, inst := range r.institutions {
		r.instIndex[inst.ID] = i
	}
	for i, role := range r.roles {
		r.roleIndex[role.ID] = i
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Institutions returns the institution reference data in seed order.
func (r *GrievanceRepository) Institutions(ctx context.Context) []models.Institution {
	return append([]models.Institution(nil), r.institutions...)
}

// Roles returns the role reference data in seed order.
func (r *GrievanceRepository) Roles(ctx context.Context) []models.Role {
	return append([]models.Role(nil), r.roles...)
}

// Institution resolves one institution by id.
func (r *GrievanceRepository) Institution(ctx context.Context, id string) (*models.Institution, error) {
	i, ok := r.instIndex[strings.TrimSpace(id)]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "institution not found")
	}
	inst := r.institutions[i]
	return &inst, nil
}

// Role resolves one role by id.
func (r *GrievanceRepository) Role(ctx context.Context, id string) (*models.Role, error) {
	i, ok := r.roleIndex[strings.TrimSpace(id)]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "role not found")
	}
	role := r.roles[i]
	return &role, nil
}

// Submit files a new grievance with status Submitted and its initial update.
func (r *GrievanceRepository) Submit(ctx context.Context, params SubmitParams) (*models.Grievance, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	institutionID := strings.TrimSpace(params.InstitutionID)
	if _, ok := r.instIndex[institutionID]; !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown institution")
	}
	if strings.TrimSpace(string(params.Category)) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "category is required")
	}
	if !params.Category.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown category")
	}
	description := strings.TrimSpace(params.Description)
	if description == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "description is required")
	}

	var attachments []models.Attachment
	for _, name := range params.Attachments {
		if name = strings.TrimSpace(name); name != "" {
			attachments = append(attachments, models.Attachment{Name: name})
		}
	}

	var submittedBy *string
	if who := strings.TrimSpace(params.SubmittedBy); who != "" && !params.IsAnonymous {
		submittedBy = &who
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock.Now()
	code := fmt.Sprintf("%s%0*d", r.prefix, r.digits, r.seq+1)
	g := &models.Grievance{
		ID:            r.newID(),
		ReferenceCode: code,
		InstitutionID: institutionID,
		Category:      params.Category,
		Description:   description,
		IsAnonymous:   params.IsAnonymous,
		SubmittedBy:   submittedBy,
		Status:        models.GrievanceStatusSubmitted,
		SubmittedAt:   now,
		LastUpdated:   now,
		Updates: []models.GrievanceUpdate{{
			ID:        r.newID(),
			Status:    models.GrievanceStatusSubmitted,
			Message:   initialUpdateMessage,
			UpdatedBy: models.SystemActor,
			Timestamp: now,
		}},
		Attachments: attachments,
	}

	if err := r.refs.Put(code, g.ID); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "assign reference code")
	}
	r.seq++
	r.grievances[g.ID] = g
	r.order = append(r.order, g.ID)

	return g.Clone(), nil
}

// AppendUpdate records a status change. Status, lastUpdated and the appended
// update change together or not at all. Any status may follow any other.
func (r *GrievanceRepository) AppendUpdate(ctx context.Context, grievanceID string, status models.GrievanceStatus, message, actor string) (*models.GrievanceUpdate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.grievances[strings.TrimSpace(grievanceID)]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "grievance not found")
	}
	if !status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid status")
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "message is required")
	}
	actor = strings.TrimSpace(actor)
	if actor == "" {
		actor = models.RoleNameAdmin
	}

	now := r.clock.Now()
	if last := g.Updates[len(g.Updates)-1].Timestamp; !now.After(last) {
		now = last.Add(time.Nanosecond)
	}

	update := models.GrievanceUpdate{
		ID:        r.newID(),
		Status:    status,
		Message:   message,
		UpdatedBy: actor,
		Timestamp: now,
	}
	g.Updates = append(g.Updates, update)
	g.Status = status
	g.LastUpdated = now

	return &update, nil
}

// FindByReferenceCode looks a grievance up by its reference code, ignoring
// case and surrounding whitespace. A miss is reported through found=false.
func (r *GrievanceRepository) FindByReferenceCode(ctx context.Context, code string) (*models.Grievance, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.refs.Lookup(code)
	if !ok {
		return nil, false
	}
	g, ok := r.grievances[id]
	if !ok {
		return nil, false
	}
	return g.Clone(), true
}

// GetByID returns a grievance by internal id.
func (r *GrievanceRepository) GetByID(ctx context.Context, id string) (*models.Grievance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.grievances[strings.TrimSpace(id)]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "grievance not found")
	}
	return g.Clone(), nil
}

// ListByInstitution returns the institution's grievances in submission order.
func (r *GrievanceRepository) ListByInstitution(ctx context.Context, institutionID string) []models.Grievance {
	r.mu.RLock()
	defer r.mu.RUnlock()

	institutionID = strings.TrimSpace(institutionID)
	var out []models.Grievance
	for _, id := range r.order {
		g := r.grievances[id]
		if g.InstitutionID == institutionID {
			out = append(out, *g.Clone())
		}
	}
	return out
}

// Count reports the number of stored grievances, one per indexed reference code.
func (r *GrievanceRepository) Count(ctx context.Context) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.refs.Len()
}
