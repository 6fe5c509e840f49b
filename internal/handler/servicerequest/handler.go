package servicerequest

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
	Create(ctx context.Context, callerID string, req *model.CreateServiceRequestRequest) (*model.ServiceRequest, error)
	List(ctx context.Context, callerID string, status model.ServiceRequestStatus, page model.Pagination) (*model.ServiceRequestList, error)
	Get(ctx context.Context, callerID, id string) (*model.ServiceRequestDetail, error)
	UpdateStatus(ctx context.Context, callerID, id string, status model.ServiceRequestStatus) (*model.ServiceRequestStatusUpdate, error)
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	requests := r.Group("/service-requests")
	{
		requests.POST("", h.Create)
		requests.GET("", h.List)
		requests.GET("/:id", h.Get)
		requests.PUT("/:id", h.UpdateStatus)
	}
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreateServiceRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("validation failed", validator.Explain(err)))
		return
	}

	request, err := h.service.Create(c.Request.Context(), middleware.UserID(c), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, request)
}

// List accepts an optional estado filter plus page and limit.
func (h *Handler) List(c *gin.Context) {
	page, limit := httputil.ParsePagination(c)
	status := model.ServiceRequestStatus(c.Query("estado"))

	list, err := h.service.List(c.Request.Context(), middleware.UserID(c), status, model.Pagination{Page: page, Limit: limit})
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *Handler) Get(c *gin.Context) {
	request, err := h.service.Get(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, request)
}

// UpdateStatus lets the assigned nurse move the request to a new status.
func (h *Handler) UpdateStatus(c *gin.Context) {
	var req model.UpdateServiceRequestStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid status", validator.Explain(err)))
		return
	}

	result, err := h.service.UpdateStatus(c.Request.Context(), middleware.UserID(c), c.Param("id"), req.Estado)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
