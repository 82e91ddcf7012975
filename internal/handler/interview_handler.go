package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hireloop/hireloop-api/internal/models"
	"github.com/hireloop/hireloop-api/internal/service"
	appErrors "github.com/hireloop/hireloop-api/pkg/errors"
	"github.com/hireloop/hireloop-api/pkg/response"
)

type slotAssigner interface {
	AssignSlots(ctx context.Context, hrUserID string, applicantIDs []string) (*service.AssignmentResult, error)
}

type interviewLister interface {
	List(ctx context.Context, hrUserID string) ([]models.InterviewDetail, error)
	Get(ctx context.Context, id, hrUserID string) (*models.InterviewDetail, error)
}

type availabilityManager interface {
	List(ctx context.Context, hrUserID string) ([]models.AvailabilityRule, error)
	Replace(ctx context.Context, hrUserID string, req service.ReplaceAvailabilityRequest) ([]models.AvailabilityRule, error)
}

type scheduleExporter interface {
	Schedule(ctx context.Context, hrUserID, format string) (*service.ExportResult, error)
}

// InterviewHandler exposes the scheduling endpoints.
type InterviewHandler struct {
	slots        slotAssigner
	interviews   interviewLister
	availability availabilityManager
	exports      scheduleExporter
}

// NewInterviewHandler constructs the handler.
func NewInterviewHandler(slots slotAssigner, interviews interviewLister, availability availabilityManager, exports scheduleExporter) *InterviewHandler {
	return &InterviewHandler{slots: slots, interviews: interviews, availability: availability, exports: exports}
}

// GenerateRequest is the slot assignment payload.
type GenerateRequest struct {
	ApplicantIDs []string `json:"applicant_ids"`
}

// Generate godoc
// @Summary Assign interview slots to applicants
// @Tags Interviews
// @Accept json
// @Produce json
// @Param payload body GenerateRequest true "Applicant IDs"
// @Success 200 {object} response.Envelope
// @Router /interviews/generate [post]
func (h *InterviewHandler) Generate(c *gin.Context) {
	identity := identityFromContext(c)
	if identity == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "applicant_ids array is required"))
		return
	}

	result, err := h.slots.AssignSlots(c.Request.Context(), identity.HRUserID, req.ApplicantIDs)
	if err != nil {
		response.Error(c, err)
		return
	}
	if result.Created == 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "no interviews were created; check that applicants exist and belong to you"))
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// List godoc
// @Summary List interviews for the caller
// @Tags Interviews
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /interviews [get]
func (h *InterviewHandler) List(c *gin.Context) {
	identity := identityFromContext(c)
	if identity == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	interviews, err := h.interviews.List(c.Request.Context(), identity.HRUserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, interviews, nil)
}

// Get godoc
// @Summary Get one interview
// @Tags Interviews
// @Produce json
// @Param id path string true "Interview ID"
// @Success 200 {object} response.Envelope
// @Router /interviews/{id} [get]
func (h *InterviewHandler) Get(c *gin.Context) {
	identity := identityFromContext(c)
	if identity == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	interview, err := h.interviews.Get(c.Request.Context(), c.Param("id"), identity.HRUserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, interview, nil)
}

// GetAvailability godoc
// @Summary List the caller's availability rules
// @Tags Availability
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /interviews/availability [get]
func (h *InterviewHandler) GetAvailability(c *gin.Context) {
	identity := identityFromContext(c)
	if identity == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	rules, err := h.availability.List(c.Request.Context(), identity.HRUserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rules, nil)
}

// SetAvailability godoc
// @Summary Replace the caller's availability rules
// @Tags Availability
// @Accept json
// @Produce json
// @Param payload body service.ReplaceAvailabilityRequest true "Weekly schedule"
// @Success 200 {object} response.Envelope
// @Router /interviews/availability [post]
func (h *InterviewHandler) SetAvailability(c *gin.Context) {
	identity := identityFromContext(c)
	if identity == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req service.ReplaceAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "availability array is required"))
		return
	}
	rules, err := h.availability.Replace(c.Request.Context(), identity.HRUserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rules, nil)
}

// Export godoc
// @Summary Download the interview schedule
// @Tags Interviews
// @Produce text/csv
// @Param format query string false "csv or pdf"
// @Success 200 {file} byte
// @Router /interviews/export [get]
func (h *InterviewHandler) Export(c *gin.Context) {
	identity := identityFromContext(c)
	if identity == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	result, err := h.exports.Schedule(c.Request.Context(), identity.HRUserID, c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	c.Data(http.StatusOK, result.ContentType, result.Content)
}
