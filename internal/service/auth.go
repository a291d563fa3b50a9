package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/neupaneprasanna/prasannarent-sub002/internal/apperr"
	"github.com/neupaneprasanna/prasannarent-sub002/internal/model"
	"github.com/neupaneprasanna/prasannarent-sub002/internal/repository"
	"github.com/neupaneprasanna/prasannarent-sub002/internal/session"
)

const minPasswordLength = 8

// SessionStore issues and resolves bearer tokens
type SessionStore interface {
	Create(ctx context.Context, sess session.Session) (string, error)
	Get(ctx context.Context, token string) (*session.Session, error)
	Revoke(ctx context.Context, token string) error
}

var _ SessionStore = (*session.Store)(nil)

// AuthService registers users and manages their sessions
type AuthService struct {
	users      UserStore
	sessions   SessionStore
	bcryptCost int
	logger     *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(users UserStore, sessions SessionStore, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:      users,
		sessions:   sessions,
		bcryptCost: bcrypt.DefaultCost,
		logger:     logger,
	}
}

// WithBcryptCost overrides the hashing cost (tests use bcrypt.MinCost).
func (s *AuthService) WithBcryptCost(cost int) *AuthService {
	s.bcryptCost = cost
	return s
}

// Register creates an account and signs it in
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error) {
	email := normalizeEmail(req.Email)
	if !strings.Contains(email, "@") {
		return nil, apperr.BadRequest("a valid email is required")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperr.BadRequest("name is required")
	}
	if len(req.Password) < minPasswordLength {
		return nil, apperr.BadRequest("password must be at least %d characters", minPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, err
	}

	ts := time.Now().UTC()
	user := &model.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		Role:         model.RoleUser,
		Status:       model.UserActive,
		CreatedAt:    ts,
		UpdatedAt:    ts,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperr.Conflict("email is already registered")
		}
		return nil, err
	}

	token, err := s.sessions.Create(ctx, session.Session{UserID: user.ID, Role: user.Role})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID))
	return &model.AuthResponse{User: user, Token: token}, nil
}

// Login checks credentials and issues a token
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error) {
	user, err := s.users.GetUserByEmail(ctx, normalizeEmail(req.Email))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.Unauthorized("invalid email or password")
	}
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, apperr.Unauthorized("invalid email or password")
	}
	if user.Status == model.UserSuspended {
		return nil, apperr.Forbidden("account is suspended")
	}

	token, err := s.sessions.Create(ctx, session.Session{UserID: user.ID, Role: user.Role})
	if err != nil {
		return nil, err
	}
	return &model.AuthResponse{User: user, Token: token}, nil
}

// Logout revokes a token
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Revoke(ctx, token)
}

// Authenticate resolves a token to its current user. The user is reloaded so
// role and status changes apply to existing sessions.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*model.User, error) {
	sess, err := s.sessions.Get(ctx, token)
	if errors.Is(err, session.ErrInvalid) {
		return nil, apperr.Unauthorized("invalid or expired session")
	}
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByID(ctx, sess.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.Unauthorized("invalid or expired session")
	}
	if err != nil {
		return nil, err
	}
	if user.Status == model.UserSuspended {
		return nil, apperr.Forbidden("account is suspended")
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
