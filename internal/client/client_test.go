package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academy-enrollment-api/internal/dto"
	"github.com/noah-isme/academy-enrollment-api/internal/models"
	appErrors "github.com/noah-isme/academy-enrollment-api/pkg/errors"
	"github.com/noah-isme/academy-enrollment-api/pkg/response"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/enrollment/process", func(c *gin.Context) {
		var req dto.ProcessEnrollmentRequest
		require.NoError(t, c.ShouldBindJSON(&req))
		if req.Program == "" {
			response.Error(c, appErrors.WithFields(appErrors.ErrValidation, "Missing required fields: program", "program"))
			return
		}
		response.JSON(c, http.StatusCreated, dto.ProcessEnrollmentResponse{
			Success:       true,
			EnrollmentID:  "ENR-01HZX3V6Q8M4R2K9T7N5B1C0DE",
			ReceiptNumber: "RCP-20240301-AB12CD34",
			TotalAmount:   520000,
			Message:       "Enrollment processed successfully",
		})
	})
	r.POST("/api/enrollment/payment-proof", func(c *gin.Context) {
		fh, err := c.FormFile("file")
		require.NoError(t, err)
		f, err := fh.Open()
		require.NoError(t, err)
		defer f.Close()
		data, _ := io.ReadAll(f)
		response.JSON(c, http.StatusCreated, dto.PaymentProofUploadResponse{
			Success:   true,
			Reference: "payment-proofs/2024/03/01HZX3V6Q8M4R2K9T7N5B1C0DE.pdf",
			FileName:  fh.Filename,
			MimeType:  "application/pdf",
			SizeBytes: int64(len(data)),
		})
	})
	r.GET("/api/broken", func(c *gin.Context) {
		c.String(http.StatusBadGateway, "upstream exploded")
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestSubmitSuccess(t *testing.T) {
	srv := newServer(t)
	c := New(srv.URL+"/api/", nil)

	resp, err := c.Submit(context.Background(), dto.ProcessEnrollmentRequest{
		EnrollmentDraft: models.EnrollmentDraft{FullName: "Ada Lovelace", Program: "Perfumery"},
	})

	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, int64(520000), resp.TotalAmount)
}

func TestSubmitValidationError(t *testing.T) {
	srv := newServer(t)
	c := New(srv.URL+"/api", srv.Client())

	_, err := c.Submit(context.Background(), dto.ProcessEnrollmentRequest{})

	var serverErr *ServerError
	require.True(t, errors.As(err, &serverErr))
	assert.Equal(t, http.StatusBadRequest, serverErr.Status)
	assert.Equal(t, "VALIDATION_ERROR", serverErr.Code)
	assert.Equal(t, []string{"program"}, serverErr.MissingFields)
	assert.Equal(t, "Missing required fields: program", err.Error())
}

func TestUploadProof(t *testing.T) {
	srv := newServer(t)
	path := filepath.Join(t.TempDir(), "transfer.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 proof"), 0o600))

	resp, err := New(srv.URL+"/api", nil).UploadProof(context.Background(), path)

	require.NoError(t, err)
	assert.Equal(t, "transfer.pdf", resp.FileName)
	assert.Equal(t, int64(len("%PDF-1.4 proof")), resp.SizeBytes)
}

func TestUploadProofMissingFile(t *testing.T) {
	_, err := New("http://127.0.0.1:0/api", nil).UploadProof(context.Background(), filepath.Join(t.TempDir(), "nope.pdf"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestNonJSONErrorBody(t *testing.T) {
	srv := newServer(t)
	c := New(srv.URL+"/api", nil)
	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/broken", nil)
	require.NoError(t, err)

	var out json.RawMessage
	err = c.do(req, &out)

	var serverErr *ServerError
	require.True(t, errors.As(err, &serverErr))
	assert.Equal(t, http.StatusBadGateway, serverErr.Status)
	assert.Equal(t, "server responded with status 502", err.Error())
}
