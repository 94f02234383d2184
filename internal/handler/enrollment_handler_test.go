package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academy-enrollment-api/internal/dto"
	"github.com/noah-isme/academy-enrollment-api/internal/models"
	appErrors "github.com/noah-isme/academy-enrollment-api/pkg/errors"
	"github.com/noah-isme/academy-enrollment-api/pkg/response"
)

type enrollmentServiceMock struct {
	processReq  *dto.ProcessEnrollmentRequest
	processResp *dto.ProcessEnrollmentResponse
	processErr  error
	submitErr   error
	notifyErr   error
}

func (m *enrollmentServiceMock) Process(ctx context.Context, req dto.ProcessEnrollmentRequest) (*dto.ProcessEnrollmentResponse, error) {
	m.processReq = &req
	if m.processErr != nil {
		return nil, m.processErr
	}
	return m.processResp, nil
}

func (m *enrollmentServiceMock) ResendStudentConfirmation(ctx context.Context, req dto.LegacyNotificationRequest) (*dto.LegacySubmitResponse, error) {
	if m.submitErr != nil {
		return nil, m.submitErr
	}
	return &dto.LegacySubmitResponse{Success: true, EmailID: "msg-1", EnrollmentID: req.EnrollmentID, Message: "Enrollment confirmation email sent successfully"}, nil
}

func (m *enrollmentServiceMock) NotifyAdmin(ctx context.Context, req dto.LegacyNotificationRequest) (*dto.LegacyNotifyAdminResponse, error) {
	if m.notifyErr != nil {
		return nil, m.notifyErr
	}
	return &dto.LegacyNotifyAdminResponse{Success: true, Message: "Admin notified successfully"}, nil
}

type receiptServiceMock struct {
	err error
}

func (m *receiptServiceMock) Render(ctx context.Context, enrollmentID, receiptNumber string) ([]byte, *models.EnrollmentRecord, error) {
	if m.err != nil {
		return nil, nil, m.err
	}
	return []byte("%PDF-1.3"), &models.EnrollmentRecord{EnrollmentID: enrollmentID, ReceiptNumber: receiptNumber}, nil
}

func newJSONContext(t *testing.T, method, target string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	var payload []byte
	switch v := body.(type) {
	case string:
		payload = []byte(v)
	default:
		var err error
		payload, err = json.Marshal(v)
		require.NoError(t, err)
	}
	req, _ := http.NewRequest(method, target, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func TestEnrollmentHandlerProcessCreated(t *testing.T) {
	svc := &enrollmentServiceMock{processResp: &dto.ProcessEnrollmentResponse{
		Success:       true,
		EnrollmentID:  "ENR-01HZX3V6Q8M4R2K9T7N5B1C0DE",
		ReceiptNumber: "RCP-20240301-AB12CD34",
		EmailSent:     true,
		AdminNotified: true,
		TotalAmount:   520000,
		Message:       "Enrollment processed successfully",
	}}
	handler := NewEnrollmentHandler(svc, nil)
	c, w := newJSONContext(t, http.MethodPost, "/api/enrollment/process", map[string]interface{}{
		"fullName":       "Ada Obi",
		"email":          "ada@example.com",
		"deliveryFormat": "in-class",
		"totalAmount":    1,
	})

	handler.Process(c)

	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, svc.processReq)
	assert.Equal(t, "Ada Obi", svc.processReq.FullName)
	assert.Equal(t, models.DeliveryInClass, svc.processReq.DeliveryFormat)
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))

	var resp dto.ProcessEnrollmentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, int64(520000), resp.TotalAmount)
}

func TestEnrollmentHandlerProcessInvalidJSON(t *testing.T) {
	svc := &enrollmentServiceMock{}
	handler := NewEnrollmentHandler(svc, nil)
	c, w := newJSONContext(t, http.MethodPost, "/api/enrollment/process", "{not json")

	handler.Process(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, svc.processReq)
}

func TestEnrollmentHandlerProcessValidationError(t *testing.T) {
	svc := &enrollmentServiceMock{processErr: appErrors.WithFields(appErrors.ErrValidation, "Missing required fields: program", "program")}
	handler := NewEnrollmentHandler(svc, nil)
	c, w := newJSONContext(t, http.MethodPost, "/api/enrollment/process", map[string]string{"fullName": "Ada"})

	handler.Process(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var body response.ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, []string{"program"}, body.MissingFields)
	assert.Contains(t, body.Message, "program")
}

func TestEnrollmentHandlerProcessPersistenceFailure(t *testing.T) {
	svc := &enrollmentServiceMock{processErr: appErrors.ErrPersistence}
	handler := NewEnrollmentHandler(svc, nil)
	c, w := newJSONContext(t, http.MethodPost, "/api/enrollment/process", map[string]string{})

	handler.Process(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestEnrollmentHandlerSubmit(t *testing.T) {
	handler := NewEnrollmentHandler(&enrollmentServiceMock{}, nil)
	c, w := newJSONContext(t, http.MethodPost, "/api/enrollment/submit", dto.LegacyNotificationRequest{EnrollmentID: "ENR-1"})

	handler.Submit(c)

	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.LegacySubmitResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "msg-1", resp.EmailID)
	assert.Equal(t, "ENR-1", resp.EnrollmentID)
}

func TestEnrollmentHandlerSubmitDisabled(t *testing.T) {
	handler := NewEnrollmentHandler(&enrollmentServiceMock{submitErr: appErrors.ErrNotificationsDisabled}, nil)
	c, w := newJSONContext(t, http.MethodPost, "/api/enrollment/submit", dto.LegacyNotificationRequest{})

	handler.Submit(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestEnrollmentHandlerNotifyAdminProviderFailure(t *testing.T) {
	handler := NewEnrollmentHandler(&enrollmentServiceMock{notifyErr: appErrors.ErrNotification}, nil)
	c, w := newJSONContext(t, http.MethodPost, "/api/enrollment/notify-admin", dto.LegacyNotificationRequest{})

	handler.NotifyAdmin(c)

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestEnrollmentHandlerReceipt(t *testing.T) {
	handler := NewEnrollmentHandler(&enrollmentServiceMock{}, &receiptServiceMock{})
	c, w := newJSONContext(t, http.MethodGet, "/api/enrollment/receipt/ENR-1?receipt=RCP-20240301-AB12CD34", "")
	c.Params = gin.Params{{Key: "id", Value: "ENR-1"}}

	handler.Receipt(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "RCP-20240301-AB12CD34.pdf")
}

func TestEnrollmentHandlerReceiptNotFound(t *testing.T) {
	handler := NewEnrollmentHandler(&enrollmentServiceMock{}, &receiptServiceMock{err: appErrors.ErrNotFound})
	c, w := newJSONContext(t, http.MethodGet, "/api/enrollment/receipt/ENR-1", "")
	c.Params = gin.Params{{Key: "id", Value: "ENR-1"}}

	handler.Receipt(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
