package app

import (
	"context"
	"crypto/rand"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"gradglow/internal/common"
	"gradglow/internal/domain/session"
	"gradglow/internal/domain/user"
	"gradglow/internal/security"
)

type Logger interface {
	Info(msg string)
	Error(msg string)
}

// SessionRepository is the token store behind sign-in sessions.
type SessionRepository interface {
	Store(ctx context.Context, token string, userID common.UUID) error
	Get(ctx context.Context, token string) (common.UUID, error)
	Revoke(ctx context.Context, token string) error
}

// SessionListener receives the new session value after every sign-in and
// sign-out. userID identifies whose session changed; for a sign-out the
// session value is Anonymous.
type SessionListener func(userID common.UUID, s session.Session)

// AuthService is the identity boundary: credentials in, sessions and profile
// records out. Everything else in the system identifies users through it.
type AuthService struct {
	users       user.Repository
	sessions    SessionRepository
	jwtProvider *security.JWTProvider
	logger      Logger
	accessTTL   time.Duration

	mu        sync.Mutex
	listeners []SessionListener
}

func NewAuthService(users user.Repository, sessions SessionRepository, jwtProvider *security.JWTProvider, logger Logger, accessTTL time.Duration) *AuthService {
	return &AuthService{
		users:       users,
		sessions:    sessions,
		jwtProvider: jwtProvider,
		logger:      logger,
		accessTTL:   accessTTL,
	}
}

// Subscribe registers a listener for session changes. Listeners are invoked
// synchronously in registration order.
func (s *AuthService) Subscribe(listener SessionListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, listener)
}

type SignInResult struct {
	User         *user.User
	SessionToken string
	AccessToken  string
	ExpiresAt    time.Time
}

func (s *AuthService) SignIn(ctx context.Context, email, password string) (*SignInResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, common.NewError(common.CodeUnauthorized, "invalid credentials", nil)
	}
	account, hash, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if common.Is(err, common.CodeNotFound) {
			return nil, common.NewError(common.CodeUnauthorized, "invalid credentials", nil)
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		s.logInfo(fmt.Sprintf("sign in rejected user_id=%s", account.ID))
		return nil, common.NewError(common.CodeUnauthorized, "invalid credentials", nil)
	}
	result, err := s.openSession(ctx, account)
	if err != nil {
		return nil, err
	}
	s.logInfo(fmt.Sprintf("user signed in user_id=%s role=%s", account.ID, account.Role))
	s.notify(account.ID, session.ForUser(account))
	return result, nil
}

func (s *AuthService) SignUp(ctx context.Context, email, password string, role user.Role, name string) (*SignInResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	fields := map[string]string{}
	if email == "" {
		fields["email"] = "email is required"
	}
	if len(password) < 8 {
		fields["password"] = "password must be at least 8 characters"
	}
	if role != user.RoleStudent && role != user.RoleRecruiter {
		fields["role"] = "role must be student or recruiter"
	}
	if len(fields) > 0 {
		return nil, common.NewValidationError("invalid sign up", fields)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to hash password", err)
	}
	// The profile row persists role and name even though the access token
	// carries them too: repository scoping reads the profile, not the token.
	account, err := s.users.Create(ctx, user.User{
		Email: email,
		Role:  role,
		Name:  strings.TrimSpace(name),
	}, string(hash))
	if err != nil {
		return nil, err
	}
	result, err := s.openSession(ctx, account)
	if err != nil {
		return nil, err
	}
	s.logInfo(fmt.Sprintf("user signed up user_id=%s role=%s", account.ID, account.Role))
	s.notify(account.ID, session.ForUser(account))
	return result, nil
}

// SignOut revokes the session token. Revocation failures are logged but never
// surfaced: the caller-visible sign-out must always succeed, and listeners are
// always told the session is gone.
func (s *AuthService) SignOut(ctx context.Context, token string) {
	var userID common.UUID
	if token != "" {
		if id, err := s.sessions.Get(ctx, token); err == nil {
			userID = id
		}
		if err := s.sessions.Revoke(ctx, token); err != nil {
			s.logError(fmt.Sprintf("failed to revoke session: %v", err))
		}
	}
	s.logInfo("user signed out")
	s.notify(userID, session.Anonymous{})
}

// CurrentUser resolves the session token to a profile. A live session whose
// profile row does not exist yet (sign-up still settling) yields nil, not an
// error.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (*user.User, error) {
	if token == "" {
		return nil, nil
	}
	userID, err := s.sessions.Get(ctx, token)
	if err != nil {
		if common.Is(err, common.CodeNotFound) {
			return nil, nil
		}
		return nil, err
	}
	account, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if common.Is(err, common.CodeNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return account, nil
}

func (s *AuthService) openSession(ctx context.Context, account *user.User) (*SignInResult, error) {
	token, err := generateSessionToken()
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to generate session token", err)
	}
	if err := s.sessions.Store(ctx, token, account.ID); err != nil {
		return nil, err
	}
	accessToken, expiresAt, err := s.jwtProvider.Generate(account.ID, string(account.Role), s.accessTTL)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to generate access token", err)
	}
	return &SignInResult{
		User:         account,
		SessionToken: token,
		AccessToken:  accessToken,
		ExpiresAt:    expiresAt,
	}, nil
}

func (s *AuthService) notify(userID common.UUID, next session.Session) {
	s.mu.Lock()
	listeners := make([]SessionListener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()
	for _, listener := range listeners {
		listener(userID, next)
	}
}

func generateSessionToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", b), nil
}

func (s *AuthService) logInfo(msg string) {
	if s.logger == nil {
		return
	}
	s.logger.Info(msg)
}

func (s *AuthService) logError(msg string) {
	if s.logger == nil {
		return
	}
	s.logger.Error(msg)
}
