package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"presensi/internal/audit"
	"presensi/internal/jwttoken"
	id "presensi/pkg/domain"
	dErrors "presensi/pkg/domain-errors"
	"presensi/pkg/platform/sentinel"
	"presensi/pkg/requestcontext"
)

// AuditPublisher records login activity.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event)
}

type Service struct {
	users    UserStore
	tokens   *jwttoken.JWTService
	tokenTTL time.Duration
	auditor  AuditPublisher
	logger   *slog.Logger
}

func NewService(users UserStore, tokens *jwttoken.JWTService, tokenTTL time.Duration, auditor AuditPublisher, logger *slog.Logger) *Service {
	return &Service{
		users:    users,
		tokens:   tokens,
		tokenTTL: tokenTTL,
		auditor:  auditor,
		logger:   logger,
	}
}

// Login checks the password and issues an access token. Unknown email and
// wrong password produce the same answer so the endpoint cannot be used to
// enumerate accounts.
func (s *Service) Login(ctx context.Context, email, password string) (TokenResult, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return TokenResult{}, dErrors.New(dErrors.CodeUnauthorized, "invalid email or password")
		}
		return TokenResult{}, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.emitLogin(ctx, user.ID, audit.OutcomeRejected, "bad_credentials")
		return TokenResult{}, dErrors.New(dErrors.CodeUnauthorized, "invalid email or password")
	}

	token, err := s.tokens.GenerateAccessToken(user.ID, user.Role, s.tokenTTL)
	if err != nil {
		return TokenResult{}, fmt.Errorf("generate token: %w", err)
	}

	s.emitLogin(ctx, user.ID, audit.OutcomeAccepted, "")
	return TokenResult{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.tokenTTL.Seconds()),
		UserID:      user.ID,
		Role:        user.Role,
	}, nil
}

// CreateUser registers an account with a bcrypt-hashed password.
func (s *Service) CreateUser(ctx context.Context, email, name, password, role string) (User, error) {
	if len(password) < 8 {
		return User{}, dErrors.New(dErrors.CodeValidation, "password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	user := User{
		ID:           id.NewUserID(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    requestcontext.Now(ctx),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return User{}, dErrors.New(dErrors.CodeConflict, "email already registered")
		}
		return User{}, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (s *Service) emitLogin(ctx context.Context, userID id.UserID, outcome, reason string) {
	if s.auditor == nil {
		return
	}
	s.auditor.Emit(ctx, audit.Event{
		UserID:  userID.String(),
		Action:  audit.ActionLogin,
		Outcome: outcome,
		Reason:  reason,
	})
}
