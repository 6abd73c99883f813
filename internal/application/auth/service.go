package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	domuser "github.com/grocermart/grocermart/internal/domain/user"
	"github.com/grocermart/grocermart/internal/infrastructure/id"
	"github.com/grocermart/grocermart/internal/pkg/logging"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("auth: invalid email or password")
	ErrEmailTaken         = errors.New("auth: email already registered")
	ErrSessionInvalid     = errors.New("auth: session is not signed in")
)

// Service owns registration, login and the signed-in session registry.
// Sessions live in memory and are keyed by an opaque token; restarting the
// process signs everyone out.
type Service struct {
	users domuser.Repository
	ids   id.Generator

	mu       sync.RWMutex
	sessions map[string]int64
}

func NewService(users domuser.Repository, ids id.Generator) *Service {
	return &Service{
		users:    users,
		ids:      ids,
		sessions: make(map[string]int64),
	}
}

// Register creates an account with a bcrypt password hash and the customer
// role. Promotion to admin is a separate admin-only operation.
func (s *Service) Register(ctx context.Context, username, email, password, address, contact string) (*domuser.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if username == "" || email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, domuser.ErrNotFound) {
		return nil, fmt.Errorf("auth: lookup email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("auth: hash password: %w", err)
	}

	u := &domuser.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Address:      address,
		Contact:      contact,
		Role:         domuser.RoleUser,
	}
	uid, err := s.users.Insert(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("auth: insert user: %w", err)
	}
	u.ID = uid

	logging.FromContext(ctx).Info("user_registered",
		zap.Int64("user_id", uid),
		zap.String("email", email),
	)
	return u, nil
}

// Login verifies the password and mints a session token for the account.
func (s *Service) Login(ctx context.Context, email, password string) (string, *domuser.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domuser.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("auth: lookup email: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return "", nil, ErrInvalidCredentials
	}

	token := s.ids.NewID()
	s.mu.Lock()
	s.sessions[token] = u.ID
	s.mu.Unlock()

	logging.FromContext(ctx).Info("user_logged_in", zap.Int64("user_id", u.ID))
	return token, u, nil
}

// Logout drops the session token. Unknown tokens are a no-op.
func (s *Service) Logout(ctx context.Context, token string) {
	_ = ctx
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// Resolve maps a session token back to its account.
func (s *Service) Resolve(ctx context.Context, token string) (*domuser.User, error) {
	s.mu.RLock()
	uid, ok := s.sessions[token]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrSessionInvalid
	}

	u, err := s.users.Get(ctx, uid)
	if err != nil {
		if errors.Is(err, domuser.ErrNotFound) {
			return nil, ErrSessionInvalid
		}
		return nil, fmt.Errorf("auth: load user: %w", err)
	}
	return u, nil
}
