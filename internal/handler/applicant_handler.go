package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hireloop/hireloop-api/internal/models"
	"github.com/hireloop/hireloop-api/internal/service"
	appErrors "github.com/hireloop/hireloop-api/pkg/errors"
	"github.com/hireloop/hireloop-api/pkg/response"
)

type applicantManager interface {
	List(ctx context.Context, hrUserID string, req service.ApplicantListRequest) ([]models.Applicant, *models.Pagination, error)
	Get(ctx context.Context, id, hrUserID string) (*models.Applicant, error)
	Create(ctx context.Context, hrUserID string, req service.CreateApplicantRequest) (*models.Applicant, error)
	UpdateStatus(ctx context.Context, id, hrUserID string, req service.UpdateApplicantStatusRequest) (*models.Applicant, error)
}

// ApplicantHandler exposes candidate endpoints.
type ApplicantHandler struct {
	service applicantManager
}

// NewApplicantHandler constructs the handler.
func NewApplicantHandler(service applicantManager) *ApplicantHandler {
	return &ApplicantHandler{service: service}
}

// List godoc
// @Summary List the caller's applicants
// @Tags Applicants
// @Produce json
// @Param status query string false "Pipeline status"
// @Param search query string false "Name or email search"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /applicants [get]
func (h *ApplicantHandler) List(c *gin.Context) {
	identity := identityFromContext(c)
	if identity == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	req := service.ApplicantListRequest{
		Status:   c.Query("status"),
		Search:   c.Query("search"),
		Page:     intQuery(c, "page"),
		PageSize: intQuery(c, "page_size"),
	}
	applicants, pagination, err := h.service.List(c.Request.Context(), identity.HRUserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, applicants, pagination)
}

// Get godoc
// @Summary Get one applicant
// @Tags Applicants
// @Produce json
// @Param id path string true "Applicant ID"
// @Success 200 {object} response.Envelope
// @Router /applicants/{id} [get]
func (h *ApplicantHandler) Get(c *gin.Context) {
	identity := identityFromContext(c)
	if identity == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	applicant, err := h.service.Get(c.Request.Context(), c.Param("id"), identity.HRUserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, applicant, nil)
}

// Create godoc
// @Summary Register an applicant
// @Tags Applicants
// @Accept json
// @Produce json
// @Param payload body service.CreateApplicantRequest true "Applicant"
// @Success 201 {object} response.Envelope
// @Router /applicants [post]
func (h *ApplicantHandler) Create(c *gin.Context) {
	identity := identityFromContext(c)
	if identity == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req service.CreateApplicantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid payload"))
		return
	}
	applicant, err := h.service.Create(c.Request.Context(), identity.HRUserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, applicant)
}

// UpdateStatus godoc
// @Summary Update an applicant's pipeline status
// @Tags Applicants
// @Accept json
// @Produce json
// @Param id path string true "Applicant ID"
// @Param payload body service.UpdateApplicantStatusRequest true "Status"
// @Success 200 {object} response.Envelope
// @Router /applicants/{id}/status [patch]
func (h *ApplicantHandler) UpdateStatus(c *gin.Context) {
	identity := identityFromContext(c)
	if identity == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req service.UpdateApplicantStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid payload"))
		return
	}
	applicant, err := h.service.UpdateStatus(c.Request.Context(), c.Param("id"), identity.HRUserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, applicant, nil)
}

func intQuery(c *gin.Context, key string) int {
	raw := c.Query(key)
	if raw == "" {
		return 0
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return value
}
