package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academy-enrollment-api/internal/dto"
	"github.com/noah-isme/academy-enrollment-api/internal/models"
	appErrors "github.com/noah-isme/academy-enrollment-api/pkg/errors"
	"github.com/noah-isme/academy-enrollment-api/pkg/response"
)

type adminAuthenticator interface {
	Login(ctx context.Context, req dto.AdminLoginRequest) (*dto.AdminLoginResponse, error)
}

type enrollmentLookup interface {
	Get(ctx context.Context, id string) (*models.EnrollmentRecord, error)
}

// AdminHandler exposes staff login and record lookup.
type AdminHandler struct {
	auth        adminAuthenticator
	enrollments enrollmentLookup
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(auth adminAuthenticator, enrollments enrollmentLookup) *AdminHandler {
	return &AdminHandler{auth: auth, enrollments: enrollments}
}

// Login godoc
// @Summary Staff login
// @Tags Admin
// @Accept json
// @Produce json
// @Param payload body dto.AdminLoginRequest true "Credentials"
// @Success 200 {object} dto.AdminLoginResponse
// @Failure 401 {object} response.ErrorBody
// @Router /admin/login [post]
func (h *AdminHandler) Login(c *gin.Context) {
	var req dto.AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid login payload"))
		return
	}
	resp, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp)
}

// GetEnrollment godoc
// @Summary Get an enrollment record
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Enrollment ID"
// @Success 200 {object} models.EnrollmentRecord
// @Failure 404 {object} response.ErrorBody
// @Router /admin/enrollments/{id} [get]
func (h *AdminHandler) GetEnrollment(c *gin.Context) {
	record, err := h.enrollments.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record)
}
