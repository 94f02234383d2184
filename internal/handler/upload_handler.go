package handler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academy-enrollment-api/internal/dto"
	"github.com/noah-isme/academy-enrollment-api/internal/service"
	appErrors "github.com/noah-isme/academy-enrollment-api/pkg/errors"
	"github.com/noah-isme/academy-enrollment-api/pkg/response"
)

// multipartOverhead leaves room for form boundaries on top of the file limit.
const multipartOverhead = 64 * 1024

type uploadService interface {
	Upload(ctx context.Context, upload service.PaymentProofUpload) (*dto.PaymentProofUploadResponse, error)
	Open(ctx context.Context, token string) (*service.PaymentProofDownload, error)
}

// UploadHandler exposes payment proof upload and signed download.
type UploadHandler struct {
	uploads     uploadService
	maxFileSize int64
}

// NewUploadHandler constructs UploadHandler.
func NewUploadHandler(uploads uploadService, maxFileSize int64) *UploadHandler {
	if maxFileSize <= 0 {
		maxFileSize = 5 * 1024 * 1024
	}
	return &UploadHandler{uploads: uploads, maxFileSize: maxFileSize}
}

// Upload godoc
// @Summary Upload a proof of payment
// @Tags Enrollment
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Proof of payment (jpeg, png, webp or pdf)"
// @Success 201 {object} dto.PaymentProofUploadResponse
// @Failure 400 {object} response.ErrorBody
// @Router /enrollment/payment-proof [post]
func (h *UploadHandler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxFileSize+multipartOverhead)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(c, appErrors.WithFields(appErrors.ErrValidation, fmt.Sprintf("file exceeds %d bytes limit", h.maxFileSize), "file"))
			return
		}
		response.Error(c, appErrors.WithFields(appErrors.ErrValidation, "file is required", "file"))
		return
	}
	src, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open file"))
		return
	}
	defer src.Close()

	reader, ok := src.(io.ReadSeeker)
	if !ok {
		buf, readErr := io.ReadAll(src)
		if readErr != nil {
			response.Error(c, appErrors.Wrap(readErr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to buffer file"))
			return
		}
		reader = bytes.NewReader(buf)
	}

	resp, err := h.uploads.Upload(c.Request.Context(), service.PaymentProofUpload{
		Filename: fileHeader.Filename,
		Size:     fileHeader.Size,
		Content:  reader,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, resp)
}

// Download godoc
// @Summary Download a payment proof through a signed link
// @Tags Enrollment
// @Param token path string true "Signed token"
// @Success 200 {file} binary
// @Failure 403 {object} response.ErrorBody
// @Router /enrollment/payment-proof/{token} [get]
func (h *UploadHandler) Download(c *gin.Context) {
	result, err := h.uploads.Open(c.Request.Context(), c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer result.File.Close() //nolint:errcheck
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=\"%s\"", result.Filename))
	c.Header("Cache-Control", "private, no-store")
	c.Header("X-Content-Type-Options", "nosniff")
	c.DataFromReader(http.StatusOK, result.SizeBytes, result.MimeType, result.File, nil)
}
