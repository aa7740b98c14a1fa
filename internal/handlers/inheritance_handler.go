package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apierrors "github.com/stwalsh4118/landregistry/internal/errors"
	"github.com/stwalsh4118/landregistry/internal/middleware"
	"github.com/stwalsh4118/landregistry/internal/models"
	"github.com/stwalsh4118/landregistry/internal/repository"
	"github.com/stwalsh4118/landregistry/internal/services"
)

// InheritanceHandler exposes the inheritance request workflow.
type InheritanceHandler struct {
	service services.InheritanceService
}

// NewInheritanceHandler creates a new InheritanceHandler instance.
func NewInheritanceHandler(service services.InheritanceService) *InheritanceHandler {
	return &InheritanceHandler{service: service}
}

// CreateInheritanceRequest is the body of POST /inheritance-requests.
type CreateInheritanceRequest struct {
	ParcelID         string   `json:"parcelId" binding:"required,parcel_id"`
	RequesterAddress string   `json:"requesterAddress" binding:"required,wallet"`
	HeirAddress      string   `json:"heirAddress" binding:"required,wallet,nefield=RequesterAddress"`
	Relationship     string   `json:"relationship" binding:"required,oneof=child spouse sibling parent"`
	Reason           string   `json:"reason" binding:"required,min=10,max=500"`
	EffectiveDate    string   `json:"effectiveDate" binding:"omitempty,datetime=2006-01-02"`
	Documents        []string `json:"documents" binding:"omitempty,max=10,dive,required,max=255"`
}

// UpdateInheritanceRequest is the body of PATCH /inheritance-requests/:id.
// Absent fields are left unchanged.
type UpdateInheritanceRequest struct {
	Reason        *string  `json:"reason" binding:"omitempty,min=10,max=500"`
	Relationship  *string  `json:"relationship" binding:"omitempty,oneof=child spouse sibling parent"`
	EffectiveDate *string  `json:"effectiveDate" binding:"omitempty,datetime=2006-01-02"`
	Documents     []string `json:"documents" binding:"omitempty,max=10,dive,required,max=255"`
}

// VerifyInheritanceRequest is the body of POST /inheritance-requests/:id/verify.
type VerifyInheritanceRequest struct {
	Approved        *bool   `json:"approved" binding:"required"`
	Notes           *string `json:"notes" binding:"omitempty,max=1000"`
	VerifierAddress string  `json:"verifierAddress" binding:"required,wallet"`
}

// ExecuteInheritanceRequest is the body of POST /inheritance-requests/:id/execute.
type ExecuteInheritanceRequest struct {
	ExecutorAddress string `json:"executorAddress" binding:"required,wallet"`
	TransferDate    string `json:"transferDate" binding:"required,datetime=2006-01-02"`
}

// ListInheritanceRequestsRequest represents the query parameters for the list endpoint.
type ListInheritanceRequestsRequest struct {
	Status           string `form:"status" binding:"omitempty,oneof=pending verified rejected executed cancelled"`
	ParcelID         string `form:"parcelId" binding:"omitempty,parcel_id"`
	RequesterAddress string `form:"requesterAddress" binding:"omitempty,wallet"`
	HeirAddress      string `form:"heirAddress" binding:"omitempty,wallet"`
	FromDate         string `form:"fromDate" binding:"omitempty,datetime=2006-01-02"`
	ToDate           string `form:"toDate" binding:"omitempty,datetime=2006-01-02"`
	Page             int    `form:"page" binding:"omitempty,min=1"`
	Limit            int    `form:"limit" binding:"omitempty,min=1,max=100"`
}

// InheritanceRequestResponse wraps a single request.
type InheritanceRequestResponse struct {
	Request *models.InheritanceRequest `json:"request"`
}

// Create handles POST /api/v1/inheritance-requests.
func (h *InheritanceHandler) Create(c *gin.Context) {
	var req CreateInheritanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "Invalid request body")
		return
	}

	effectiveDate, err := parseDate(req.EffectiveDate)
	if err != nil {
		apierrors.BadRequest(c, "Invalid effective date", nil)
		return
	}

	created, err := h.service.Create(c.Request.Context(), services.CreateInheritanceRequestInput{
		ParcelID:         req.ParcelID,
		RequesterAddress: req.RequesterAddress,
		HeirAddress:      req.HeirAddress,
		Relationship:     models.HeirRelationship(req.Relationship),
		Reason:           req.Reason,
		Documents:        req.Documents,
		EffectiveDate:    effectiveDate,
	})
	if err != nil {
		h.respondServiceError(c, err, "Failed to create inheritance request")
		return
	}

	if log := middleware.GetLogger(c); log != nil {
		log.Info("Inheritance request submitted", map[string]interface{}{
			"inheritance_request_id": created.ID,
			"parcel_id":              created.ParcelCode,
		})
	}

	c.JSON(http.StatusCreated, InheritanceRequestResponse{Request: created})
}

// Get handles GET /api/v1/inheritance-requests/:id.
func (h *InheritanceHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	found, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.respondServiceError(c, err, "Failed to query inheritance request")
		return
	}
	c.JSON(http.StatusOK, InheritanceRequestResponse{Request: found})
}

// List handles GET /api/v1/inheritance-requests.
func (h *InheritanceHandler) List(c *gin.Context) {
	var req ListInheritanceRequestsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, err, "Invalid query parameters")
		return
	}

	from, err := parseDate(req.FromDate)
	if err != nil {
		apierrors.BadRequest(c, "Invalid fromDate", nil)
		return
	}
	to, err := parseDate(req.ToDate)
	if err != nil {
		apierrors.BadRequest(c, "Invalid toDate", nil)
		return
	}
	if from != nil && to != nil && to.Before(*from) {
		apierrors.BadRequest(c, "toDate must not be before fromDate", map[string]interface{}{
			"toDate": "Must be on or after fromDate",
		})
		return
	}

	page := repository.Page{Page: req.Page, Limit: req.Limit}.Normalize()
	requests, total, err := h.service.List(c.Request.Context(), repository.InheritanceRequestFilter{
		Status:           models.InheritanceRequestStatus(req.Status),
		ParcelCode:       req.ParcelID,
		RequesterAddress: req.RequesterAddress,
		HeirAddress:      req.HeirAddress,
		From:             from,
		To:               endOfDay(to),
		Page:             page,
	})
	if err != nil {
		apierrors.InternalServerError(c, "Failed to list inheritance requests", err)
		return
	}
	if requests == nil {
		requests = []models.InheritanceRequest{}
	}

	c.JSON(http.StatusOK, ListResponse[models.InheritanceRequest]{
		Items:      requests,
		Pagination: newPageInfo(page.Page, page.Limit, total),
	})
}

// Update handles PATCH /api/v1/inheritance-requests/:id.
func (h *InheritanceHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req UpdateInheritanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "Invalid request body")
		return
	}

	input := services.UpdateInheritanceRequestInput{
		Reason:    req.Reason,
		Documents: req.Documents,
	}
	if req.Relationship != nil {
		relationship := models.HeirRelationship(*req.Relationship)
		input.Relationship = &relationship
	}
	if req.EffectiveDate != nil {
		effectiveDate, err := parseDate(*req.EffectiveDate)
		if err != nil {
			apierrors.BadRequest(c, "Invalid effective date", nil)
			return
		}
		input.EffectiveDate = effectiveDate
	}

	updated, err := h.service.Update(c.Request.Context(), id, input)
	if err != nil {
		h.respondServiceError(c, err, "Failed to update inheritance request")
		return
	}
	c.JSON(http.StatusOK, InheritanceRequestResponse{Request: updated})
}

// Verify handles POST /api/v1/inheritance-requests/:id/verify.
func (h *InheritanceHandler) Verify(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req VerifyInheritanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "Invalid request body")
		return
	}

	verified, err := h.service.Verify(c.Request.Context(), id, services.VerifyInheritanceRequestInput{
		VerifierAddress: req.VerifierAddress,
		Approved:        *req.Approved,
		Notes:           req.Notes,
	})
	if err != nil {
		h.respondServiceError(c, err, "Failed to verify inheritance request")
		return
	}
	c.JSON(http.StatusOK, InheritanceRequestResponse{Request: verified})
}

// Execute handles POST /api/v1/inheritance-requests/:id/execute.
func (h *InheritanceHandler) Execute(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req ExecuteInheritanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "Invalid request body")
		return
	}

	transferDate, err := parseDate(req.TransferDate)
	if err != nil || transferDate == nil {
		apierrors.BadRequest(c, "Invalid transfer date", nil)
		return
	}

	executed, err := h.service.Execute(c.Request.Context(), id, services.ExecuteInheritanceRequestInput{
		ExecutorAddress: req.ExecutorAddress,
		TransferDate:    *transferDate,
	})
	if err != nil {
		h.respondServiceError(c, err, "Failed to execute inheritance request")
		return
	}
	c.JSON(http.StatusOK, InheritanceRequestResponse{Request: executed})
}

// Cancel handles POST /api/v1/inheritance-requests/:id/cancel.
func (h *InheritanceHandler) Cancel(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	cancelled, err := h.service.Cancel(c.Request.Context(), id)
	if err != nil {
		h.respondServiceError(c, err, "Failed to cancel inheritance request")
		return
	}
	c.JSON(http.StatusOK, InheritanceRequestResponse{Request: cancelled})
}

// respondServiceError maps workflow errors onto the error envelope.
func (h *InheritanceHandler) respondServiceError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, services.ErrRequestNotFound):
		apierrors.NotFound(c, "Inheritance request not found")
	case errors.Is(err, services.ErrParcelNotFound):
		apierrors.NotFound(c, "Parcel not found")
	case errors.Is(err, services.ErrHeirIsOwner):
		apierrors.BadRequest(c, err.Error(), map[string]interface{}{
			"heirAddress": "Must differ from requesterAddress",
		})
	case errors.Is(err, services.ErrNotParcelOwner):
		apierrors.BadRequest(c, err.Error(), map[string]interface{}{
			"requesterAddress": "Must be the current owner of the parcel",
		})
	case errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrOpenRequestExists),
		errors.Is(err, services.ErrParcelNotTransferable):
		apierrors.Conflict(c, err.Error())
	default:
		apierrors.InternalServerError(c, message, err)
	}
}
