package service

import (
	"context"
	"testing"

	"github.com/bookstore-next/internal/config"

	"github.com/stretchr/testify/require"
)

func newAuthServiceForTest(f *serviceFixture) *AuthService {
	cfg := &config.Config{
		JWT:     config.JWTConfig{SecretKey: "admin-secret-for-tests-0123456789abcdef", ExpireHours: 1},
		UserJWT: config.JWTConfig{SecretKey: "user-secret-for-tests-0123456789abcdefgh", ExpireHours: 1},
	}
	return NewAuthService(cfg, f.store)
}

func TestAuthServiceDefaultAdminLogin(t *testing.T) {
	f := setupServiceTest(t)
	auth := newAuthServiceForTest(f)
	ctx := context.Background()

	created, err := auth.EnsureDefaultAdmin(ctx, "root", "s3cret-pass")
	require.NoError(t, err)
	require.True(t, created)

	created, err = auth.EnsureDefaultAdmin(ctx, "other", "another-pass")
	require.NoError(t, err)
	require.False(t, created, "second bootstrap must not create another admin")

	_, _, _, err = auth.Login(ctx, "root", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, _, err = auth.Login(ctx, "nobody", "s3cret-pass")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	admin, token, _, err := auth.Login(ctx, "root", "s3cret-pass")
	require.NoError(t, err)
	require.True(t, admin.IsSuper)

	claims, err := auth.ParseJWT(token)
	require.NoError(t, err)
	require.Equal(t, admin.ID, claims.AdminID)

	stored, err := auth.GetAdmin(ctx, admin.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.LastLoginAt)
}

func TestAuthServiceUserTokenIsolation(t *testing.T) {
	f := setupServiceTest(t)
	auth := newAuthServiceForTest(f)
	user := f.seedUser(t, "reader")

	token, _, err := auth.GenerateUserJWT(user)
	require.NoError(t, err)

	claims, err := auth.ParseUserJWT(token)
	require.NoError(t, err)
	require.Equal(t, user.ID, claims.UserID)

	_, err = auth.ParseJWT(token)
	require.Error(t, err, "user token must not pass admin verification")

	resolved, err := auth.ResolveActiveUser(context.Background(), user.ID)
	require.NoError(t, err)
	require.Equal(t, user.Username, resolved.Username)

	_, err = auth.ResolveActiveUser(context.Background(), user.ID+100)
	require.ErrorIs(t, err, ErrUserNotFound)
}
