package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appauth "github.com/grocermart/grocermart/internal/application/auth"
	domuser "github.com/grocermart/grocermart/internal/domain/user"
	"github.com/grocermart/grocermart/internal/infrastructure/id"
	"github.com/grocermart/grocermart/internal/infrastructure/memory"
)

func newAuthService() *appauth.Service {
	return appauth.NewService(memory.NewUserRepository(), id.NewUUIDGenerator())
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()

	u, err := svc.Register(ctx, "alice", "Alice@Example.com", "s3cret", "12 Orchard Rd", "91234567")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", u.Email, "email is normalized")
	assert.Equal(t, domuser.RoleUser, u.Role)
	assert.NotEqual(t, "s3cret", u.PasswordHash, "password is never stored in the clear")

	token, logged, err := svc.Login(ctx, "alice@example.com", "s3cret")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, u.ID, logged.ID)

	resolved, err := svc.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, resolved.ID)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "alice@example.com", "pw", "", "")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "alice2", "alice@example.com", "pw2", "", "")
	require.ErrorIs(t, err, appauth.ErrEmailTaken)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "bob", "bob@example.com", "right", "", "")
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "bob@example.com", "wrong")
	require.ErrorIs(t, err, appauth.ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "nobody@example.com", "whatever")
	require.ErrorIs(t, err, appauth.ErrInvalidCredentials)
}

func TestLogout_InvalidatesSession(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "carol", "carol@example.com", "pw", "", "")
	require.NoError(t, err)

	token, _, err := svc.Login(ctx, "carol@example.com", "pw")
	require.NoError(t, err)

	svc.Logout(ctx, token)

	_, err = svc.Resolve(ctx, token)
	require.ErrorIs(t, err, appauth.ErrSessionInvalid)
}
