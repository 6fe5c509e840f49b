package patient

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/homecare-api/internal/middleware"
	"github.com/jwalitptl/homecare-api/internal/model"
	apperrors "github.com/jwalitptl/homecare-api/pkg/errors"
	"github.com/jwalitptl/homecare-api/pkg/httputil"
	"github.com/jwalitptl/homecare-api/pkg/validator"
)

type Service interface {
	CreatePatient(ctx context.Context, ownerID string, req *model.CreatePatientRequest) (*model.Patient, error)
	ListPatients(ctx context.Context, ownerID string, page model.Pagination) (*model.PatientList, error)
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	patients := r.Group("/patients")
	{
		patients.GET("", h.ListPatients)
		patients.POST("", h.CreatePatient)
	}
}

// ListPatients returns the caller's patients, page and limit from the query.
func (h *Handler) ListPatients(c *gin.Context) {
	page, limit := httputil.ParsePagination(c)

	list, err := h.service.ListPatients(c.Request.Context(), middleware.UserID(c), model.Pagination{Page: page, Limit: limit})
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

// CreatePatient stores a patient owned by the caller. The response leaves
// out the record id.
func (h *Handler) CreatePatient(c *gin.Context) {
	var req model.CreatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("validation failed", validator.Explain(err)))
		return
	}

	patient, err := h.service.CreatePatient(c.Request.Context(), middleware.UserID(c), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, patient.ToResponse())
}
