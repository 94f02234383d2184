package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academy-enrollment-api/internal/dto"
	"github.com/noah-isme/academy-enrollment-api/internal/models"
	appErrors "github.com/noah-isme/academy-enrollment-api/pkg/errors"
)

type adminAuthMock struct {
	err error
}

func (m *adminAuthMock) Login(ctx context.Context, req dto.AdminLoginRequest) (*dto.AdminLoginResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &dto.AdminLoginResponse{Success: true, AccessToken: "token", TokenType: "Bearer", ExpiresAt: time.Now().Add(time.Hour)}, nil
}

type enrollmentLookupMock struct {
	records map[string]*models.EnrollmentRecord
}

func (m *enrollmentLookupMock) Get(ctx context.Context, id string) (*models.EnrollmentRecord, error) {
	if record, ok := m.records[id]; ok {
		return record, nil
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
}

func TestAdminHandlerLogin(t *testing.T) {
	handler := NewAdminHandler(&adminAuthMock{}, &enrollmentLookupMock{})
	c, w := newJSONContext(t, http.MethodPost, "/api/admin/login", dto.AdminLoginRequest{Email: "admin@academy.test", Password: "secret"})

	handler.Login(c)

	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.AdminLoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Bearer", resp.TokenType)
}

func TestAdminHandlerLoginRejected(t *testing.T) {
	handler := NewAdminHandler(&adminAuthMock{err: appErrors.ErrInvalidCredentials}, &enrollmentLookupMock{})
	c, w := newJSONContext(t, http.MethodPost, "/api/admin/login", dto.AdminLoginRequest{Email: "admin@academy.test", Password: "wrong"})

	handler.Login(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminHandlerGetEnrollment(t *testing.T) {
	lookup := &enrollmentLookupMock{records: map[string]*models.EnrollmentRecord{
		"ENR-1": {EnrollmentID: "ENR-1", ReceiptNumber: "RCP-20240301-AB12CD34", Status: models.EnrollmentStatusPending},
	}}
	handler := NewAdminHandler(&adminAuthMock{}, lookup)

	c, w := newJSONContext(t, http.MethodGet, "/api/admin/enrollments/ENR-1", "")
	c.Params = gin.Params{{Key: "id", Value: "ENR-1"}}
	handler.GetEnrollment(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "RCP-20240301-AB12CD34")

	c, w = newJSONContext(t, http.MethodGet, "/api/admin/enrollments/ENR-2", "")
	c.Params = gin.Params{{Key: "id", Value: "ENR-2"}}
	handler.GetEnrollment(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
