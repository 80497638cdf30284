package services_test

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/ismyjobsafe/jobsafe-backend/internal/config"
	"github.com/ismyjobsafe/jobsafe-backend/internal/dto"
	"github.com/ismyjobsafe/jobsafe-backend/internal/services"
	"github.com/ismyjobsafe/jobsafe-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testAuthService(t *testing.T) (*services.AuthService, *gorm.DB, *config.Config) {
	t.Helper()
	db := testutil.OpenDB(t)
	cfg := config.Load()
	cfg.JWTSecret = "test-secret"
	return services.NewAuthService(db, cfg), db, cfg
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _, cfg := testAuthService(t)

	resp, err := svc.Register(&dto.RegisterRequest{Email: "  New@Example.COM ", Password: "hunter2hunter2"})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", resp.User.Email)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)

	// The access token carries sub and email claims.
	token, err := jwt.Parse(resp.AccessToken, func(*jwt.Token) (interface{}, error) {
		return []byte(cfg.JWTSecret), nil
	})
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, resp.User.ID.String(), claims["sub"])
	assert.Equal(t, "new@example.com", claims["email"])

	login, err := svc.Login(&dto.LoginRequest{Email: "new@example.com", Password: "hunter2hunter2"})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)
}

func TestRegisterValidation(t *testing.T) {
	svc, _, _ := testAuthService(t)

	_, err := svc.Register(&dto.RegisterRequest{Email: "not-an-email", Password: "hunter2hunter2"})
	assert.Error(t, err)

	_, err = svc.Register(&dto.RegisterRequest{Email: "a@b.com", Password: "short"})
	assert.Error(t, err)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := testAuthService(t)

	_, err := svc.Register(&dto.RegisterRequest{Email: "dup@example.com", Password: "hunter2hunter2"})
	require.NoError(t, err)

	_, err = svc.Register(&dto.RegisterRequest{Email: "DUP@example.com", Password: "hunter2hunter2"})
	assert.ErrorIs(t, err, services.ErrEmailTaken)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, _ := testAuthService(t)

	_, err := svc.Register(&dto.RegisterRequest{Email: "who@example.com", Password: "hunter2hunter2"})
	require.NoError(t, err)

	_, err = svc.Login(&dto.LoginRequest{Email: "who@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)

	_, err = svc.Login(&dto.LoginRequest{Email: "nobody@example.com", Password: "hunter2hunter2"})
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
}

func TestRefreshTokenRotation(t *testing.T) {
	svc, _, _ := testAuthService(t)

	reg, err := svc.Register(&dto.RegisterRequest{Email: "rot@example.com", Password: "hunter2hunter2"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(&dto.RefreshRequest{RefreshToken: reg.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, reg.RefreshToken, refreshed.RefreshToken)

	// Single use: the consumed token is dead.
	_, err = svc.Refresh(&dto.RefreshRequest{RefreshToken: reg.RefreshToken})
	assert.ErrorIs(t, err, services.ErrInvalidToken)

	// The rotated token still works.
	_, err = svc.Refresh(&dto.RefreshRequest{RefreshToken: refreshed.RefreshToken})
	assert.NoError(t, err)
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	svc, _, _ := testAuthService(t)

	reg, err := svc.Register(&dto.RegisterRequest{Email: "bye@example.com", Password: "hunter2hunter2"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(&dto.LogoutRequest{RefreshToken: reg.RefreshToken}))

	_, err = svc.Refresh(&dto.RefreshRequest{RefreshToken: reg.RefreshToken})
	assert.ErrorIs(t, err, services.ErrInvalidToken)
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "a@b.com", services.NormalizeEmail("  A@B.COM "))
	assert.Empty(t, services.NormalizeEmail("no-at-sign"))
	assert.Empty(t, services.NormalizeEmail("   "))
}
