package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/noah-isme/grievance-api/internal/dto"
	"github.com/noah-isme/grievance-api/internal/models"
	"github.com/noah-isme/grievance-api/pkg/clock"
	appErrors "github.com/noah-isme/grievance-api/pkg/errors"
)

type referenceStore interface {
	Institution(ctx context.Context, id string) (*models.Institution, error)
	Role(ctx context.Context, id string) (*models.Role, error)
}

// SessionConfig contains token signing settings.
type SessionConfig struct {
	Secret string
	TTL    time.Duration
	Issuer string
}

// SessionService issues tokens recording the selected institution and role.
type SessionService struct {
	refs      referenceStore
	validator *validator.Validate
	logger    *zap.Logger
	config    SessionConfig
	clock     clock.Clock
}

// NewSessionService constructs the service.
func NewSessionService(refs referenceStore, validate *validator.Validate, logger *zap.Logger, config SessionConfig) *SessionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.TTL <= 0 {
		config.TTL = 8 * time.Hour
	}
	return &SessionService{refs: refs, validator: validate, logger: logger, config: config, clock: clock.Real()}
}

// WithClock overrides the time source used for token lifetimes.
func (s *SessionService) WithClock(c clock.Clock) *SessionService {
	if c != nil {
		s.clock = c
	}
	return s
}

// Start validates the selection and signs a session token for it.
func (s *SessionService) Start(ctx context.Context, req dto.StartSessionRequest) (*dto.SessionResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid session payload")
	}

	inst, err := s.refs.Institution(ctx, strings.TrimSpace(req.InstitutionID))
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown institution")
	}
	role, err := s.refs.Role(ctx, strings.TrimSpace(req.RoleID))
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown role")
	}

	issuedAt := s.clock.Now().UTC()
	expiresAt := issuedAt.Add(s.config.TTL)
	claims := &models.SessionClaims{
		InstitutionID:   inst.ID,
		InstitutionName: inst.Name,
		RoleID:          role.ID,
		RoleName:        role.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   inst.ID + ":" + role.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.Secret))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign session")
	}

	s.logger.Info("session started",
		zap.String("institution_id", inst.ID),
		zap.String("role", role.Name),
	)

	return &dto.SessionResponse{
		Token:       signed,
		ExpiresAt:   expiresAt,
		Institution: *inst,
		Role:        *role,
	}, nil
}

// Validate parses a session token returning its claims.
func (s *SessionService) Validate(tokenString string) (*models.SessionClaims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.clock.Now),
	)
	token, err := parser.ParseWithClaims(tokenString, &models.SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid session")
	}

	claims, ok := token.Claims.(*models.SessionClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid session claims")
	}
	if s.config.Issuer != "" && claims.Issuer != s.config.Issuer {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid session issuer")
	}
	return claims, nil
}
