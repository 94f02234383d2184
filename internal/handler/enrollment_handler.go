package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academy-enrollment-api/internal/dto"
	"github.com/noah-isme/academy-enrollment-api/internal/models"
	appErrors "github.com/noah-isme/academy-enrollment-api/pkg/errors"
	"github.com/noah-isme/academy-enrollment-api/pkg/response"
)

type enrollmentService interface {
	Process(ctx context.Context, req dto.ProcessEnrollmentRequest) (*dto.ProcessEnrollmentResponse, error)
	ResendStudentConfirmation(ctx context.Context, req dto.LegacyNotificationRequest) (*dto.LegacySubmitResponse, error)
	NotifyAdmin(ctx context.Context, req dto.LegacyNotificationRequest) (*dto.LegacyNotifyAdminResponse, error)
}

type receiptService interface {
	Render(ctx context.Context, enrollmentID, receiptNumber string) ([]byte, *models.EnrollmentRecord, error)
}

// EnrollmentHandler exposes the public enrollment endpoints.
type EnrollmentHandler struct {
	enrollments enrollmentService
	receipts    receiptService
}

// NewEnrollmentHandler constructs EnrollmentHandler.
func NewEnrollmentHandler(enrollments enrollmentService, receipts receiptService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollments: enrollments, receipts: receipts}
}

// Process godoc
// @Summary Submit an enrollment
// @Description Validates the wizard payload, persists the enrollment and sends best-effort notifications.
// @Tags Enrollment
// @Accept json
// @Produce json
// @Param payload body dto.ProcessEnrollmentRequest true "Enrollment payload"
// @Success 201 {object} dto.ProcessEnrollmentResponse
// @Failure 400 {object} response.ErrorBody
// @Failure 500 {object} response.ErrorBody
// @Router /enrollment/process [post]
func (h *EnrollmentHandler) Process(c *gin.Context) {
	var req dto.ProcessEnrollmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid JSON payload"))
		return
	}
	resp, err := h.enrollments.Process(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, resp)
}

// Submit godoc
// @Summary Send the student confirmation email (legacy)
// @Tags Enrollment
// @Accept json
// @Produce json
// @Param payload body dto.LegacyNotificationRequest true "Assembled enrollment"
// @Success 200 {object} dto.LegacySubmitResponse
// @Failure 502 {object} response.ErrorBody
// @Failure 503 {object} response.ErrorBody
// @Router /enrollment/submit [post]
func (h *EnrollmentHandler) Submit(c *gin.Context) {
	var req dto.LegacyNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid JSON payload"))
		return
	}
	resp, err := h.enrollments.ResendStudentConfirmation(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp)
}

// NotifyAdmin godoc
// @Summary Send the admin notification email (legacy)
// @Tags Enrollment
// @Accept json
// @Produce json
// @Param payload body dto.LegacyNotificationRequest true "Assembled enrollment"
// @Success 200 {object} dto.LegacyNotifyAdminResponse
// @Failure 502 {object} response.ErrorBody
// @Failure 503 {object} response.ErrorBody
// @Router /enrollment/notify-admin [post]
func (h *EnrollmentHandler) NotifyAdmin(c *gin.Context) {
	var req dto.LegacyNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid JSON payload"))
		return
	}
	resp, err := h.enrollments.NotifyAdmin(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp)
}

// Receipt godoc
// @Summary Download the enrollment receipt
// @Tags Enrollment
// @Produce application/pdf
// @Param id path string true "Enrollment ID"
// @Param receipt query string true "Receipt number"
// @Success 200 {file} binary
// @Failure 404 {object} response.ErrorBody
// @Router /enrollment/receipt/{id} [get]
func (h *EnrollmentHandler) Receipt(c *gin.Context) {
	if h.receipts == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "receipt service not configured"))
		return
	}
	pdf, record, err := h.receipts.Render(c.Request.Context(), c.Param("id"), c.Query("receipt"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=\"%s.pdf\"", record.ReceiptNumber))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "application/pdf", pdf)
}
