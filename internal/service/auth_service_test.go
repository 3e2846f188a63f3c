package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flowbit/flowbit-api/internal/config"
	"github.com/flowbit/flowbit-api/internal/domain"
	"github.com/flowbit/flowbit-api/internal/service"
	apperrors "github.com/flowbit/flowbit-api/pkg/util"
)

func newAuthService(users *memoryUserRepo) *service.AuthService {
	return service.NewAuthService(config.AuthConfig{
		JWTSecret:     "test-secret",
		TokenTTLHours: 24,
		BcryptCost:    4,
	}, users)
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	authService := newAuthService(newMemoryUserRepo())

	user, token, exp, err := authService.Register(ctx, service.RegisterInput{
		Email:      "admin@acme.test",
		Password:   "Password123",
		CustomerID: "acme",
		Role:       domain.RoleAdmin,
		FirstName:  "Ada",
	})
	require.NoError(t, err)
	require.NotEmpty(t, user.ID)
	require.NotEmpty(t, token)
	require.False(t, exp.IsZero())
	require.Equal(t, domain.RoleAdmin, user.Role)
	require.NotEqual(t, "Password123", user.PasswordHash)

	claims, err := authService.TokenManager().ParseToken(token)
	require.NoError(t, err)
	require.Equal(t, user.ID, claims.UserID)
	require.Equal(t, "acme", claims.CustomerID)
	require.Equal(t, domain.RoleAdmin, claims.Role)
	require.Equal(t, "admin@acme.test", claims.Email)

	loggedIn, loginToken, _, err := authService.Login(ctx, "admin@acme.test", "Password123")
	require.NoError(t, err)
	require.Equal(t, user.ID, loggedIn.ID)

	loginClaims, err := authService.TokenManager().ParseToken(loginToken)
	require.NoError(t, err)
	require.Equal(t, "acme", loginClaims.CustomerID)
	require.Equal(t, domain.RoleAdmin, loginClaims.Role)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	authService := newAuthService(newMemoryUserRepo())

	_, _, _, err := authService.Register(ctx, service.RegisterInput{
		Email:      "user@acme.test",
		Password:   "Password123",
		CustomerID: "acme",
	})
	require.NoError(t, err)

	_, _, _, err = authService.Register(ctx, service.RegisterInput{
		Email:      "user@acme.test",
		Password:   "OtherPassword",
		CustomerID: "globex",
	})
	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	require.Equal(t, "CONFLICT", domainErr.Code)
	require.Equal(t, 400, domainErr.HTTPStatus)
}

func TestRegisterRoleDefaultsToUser(t *testing.T) {
	ctx := context.Background()
	authService := newAuthService(newMemoryUserRepo())

	user, _, _, err := authService.Register(ctx, service.RegisterInput{
		Email:      "a@acme.test",
		Password:   "Password123",
		CustomerID: "acme",
	})
	require.NoError(t, err)
	require.Equal(t, domain.RoleUser, user.Role)

	user, _, _, err = authService.Register(ctx, service.RegisterInput{
		Email:      "b@acme.test",
		Password:   "Password123",
		CustomerID: "acme",
		Role:       domain.Role("Root"),
	})
	require.NoError(t, err)
	require.Equal(t, domain.RoleUser, user.Role)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	ctx := context.Background()
	authService := newAuthService(newMemoryUserRepo())

	_, _, _, err := authService.Register(ctx, service.RegisterInput{
		Email:      "user@acme.test",
		Password:   "Password123",
		CustomerID: "acme",
	})
	require.NoError(t, err)

	_, _, _, unknownErr := authService.Login(ctx, "nobody@acme.test", "Password123")
	require.Error(t, unknownErr)

	_, _, _, wrongPassErr := authService.Login(ctx, "user@acme.test", "WrongPassword")
	require.Error(t, wrongPassErr)

	unknown := apperrors.ToDomainError(unknownErr)
	wrongPass := apperrors.ToDomainError(wrongPassErr)
	require.Equal(t, unknown.Code, wrongPass.Code)
	require.Equal(t, unknown.Message, wrongPass.Message)
	require.Equal(t, unknown.HTTPStatus, wrongPass.HTTPStatus)
	require.Equal(t, "INVALID_CREDENTIALS", unknown.Code)
}

func TestProfileOmitsNothingButIsNotFoundForUnknown(t *testing.T) {
	ctx := context.Background()
	users := newMemoryUserRepo()
	authService := newAuthService(users)

	registered, _, _, err := authService.Register(ctx, service.RegisterInput{
		Email:      "user@acme.test",
		Password:   "Password123",
		CustomerID: "acme",
	})
	require.NoError(t, err)

	user, err := authService.Profile(ctx, registered.ID)
	require.NoError(t, err)
	require.Equal(t, "user@acme.test", user.Email)

	_, err = authService.Profile(ctx, "missing")
	require.Error(t, err)
	require.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
}
