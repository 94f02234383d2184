package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/academy-enrollment-api/internal/dto"
	"github.com/noah-isme/academy-enrollment-api/internal/models"
	appErrors "github.com/noah-isme/academy-enrollment-api/pkg/errors"
)

func newAdminAuth(t *testing.T) *AdminAuthService {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret!"), bcrypt.MinCost)
	require.NoError(t, err)
	return NewAdminAuthService(nil, nil, AdminAuthConfig{
		Email:        "registrar@academy.test",
		PasswordHash: string(hash),
		Secret:       "jwt-secret",
		Issuer:       "academy",
		Expiry:       time.Hour,
	})
}

func TestAdminAuthLoginAndValidate(t *testing.T) {
	svc := newAdminAuth(t)

	resp, err := svc.Login(context.Background(), dto.AdminLoginRequest{Email: "Registrar@academy.test", Password: "s3cret!"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.NotEmpty(t, resp.AccessToken)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, models.StaffRole, claims.Role)
	assert.Equal(t, "academy", claims.Issuer)
}

func TestAdminAuthRejectsBadCredentials(t *testing.T) {
	svc := newAdminAuth(t)

	_, err := svc.Login(context.Background(), dto.AdminLoginRequest{Email: "registrar@academy.test", Password: "wrong"})
	assert.True(t, errors.Is(err, appErrors.ErrInvalidCredentials))

	_, err = svc.Login(context.Background(), dto.AdminLoginRequest{Email: "other@academy.test", Password: "s3cret!"})
	assert.True(t, errors.Is(err, appErrors.ErrInvalidCredentials))

	_, err = svc.Login(context.Background(), dto.AdminLoginRequest{Email: "not-an-email", Password: "x"})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestAdminAuthRejectsForeignToken(t *testing.T) {
	svc := newAdminAuth(t)
	other := NewAdminAuthService(nil, nil, AdminAuthConfig{Secret: "different", Expiry: time.Hour})

	token, _, err := other.IssueToken("registrar@academy.test")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))
}

func TestAdminAuthExpiredToken(t *testing.T) {
	svc := newAdminAuth(t)
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, _, err := svc.IssueToken("registrar@academy.test")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("pw")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("pw")))

	_, err = HashPassword("")
	assert.Error(t, err)
}
