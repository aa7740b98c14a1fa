package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apierrors "github.com/stwalsh4118/landregistry/internal/errors"
	"github.com/stwalsh4118/landregistry/internal/models"
	"github.com/stwalsh4118/landregistry/internal/repository"
	"github.com/stwalsh4118/landregistry/internal/services"
)

// ExpropriationHandler serves read access to expropriation cases.
type ExpropriationHandler struct {
	service services.ExpropriationService
}

// NewExpropriationHandler creates a new ExpropriationHandler instance.
func NewExpropriationHandler(service services.ExpropriationService) *ExpropriationHandler {
	return &ExpropriationHandler{service: service}
}

// ListExpropriationsRequest represents the query parameters for the list endpoint.
type ListExpropriationsRequest struct {
	Status   string `form:"status" binding:"omitempty,oneof=flagged under_review approved compensated completed rejected"`
	Reason   string `form:"reason" binding:"omitempty,oneof=infrastructure urban_development environmental public_facility agriculture other"`
	ParcelID string `form:"parcelId" binding:"omitempty,parcel_id"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	Limit    int    `form:"limit" binding:"omitempty,min=1,max=100"`
}

// ExpropriationResponse wraps a single case.
type ExpropriationResponse struct {
	Expropriation *models.Expropriation `json:"expropriation"`
}

// List handles GET /api/v1/expropriations.
func (h *ExpropriationHandler) List(c *gin.Context) {
	var req ListExpropriationsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, err, "Invalid query parameters")
		return
	}

	page := repository.Page{Page: req.Page, Limit: req.Limit}.Normalize()
	cases, total, err := h.service.ListExpropriations(c.Request.Context(), repository.ExpropriationFilter{
		Status:     models.ExpropriationStatus(req.Status),
		Reason:     models.ExpropriationReason(req.Reason),
		ParcelCode: req.ParcelID,
		Page:       page,
	})
	if err != nil {
		apierrors.InternalServerError(c, "Failed to list expropriations", err)
		return
	}
	if cases == nil {
		cases = []models.Expropriation{}
	}

	c.JSON(http.StatusOK, ListResponse[models.Expropriation]{
		Items:      cases,
		Pagination: newPageInfo(page.Page, page.Limit, total),
	})
}

// Get handles GET /api/v1/expropriations/:id.
func (h *ExpropriationHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	expropriation, err := h.service.GetExpropriation(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrExpropriationNotFound) {
			apierrors.NotFound(c, "Expropriation not found")
			return
		}
		apierrors.InternalServerError(c, "Failed to query expropriation", err)
		return
	}

	c.JSON(http.StatusOK, ExpropriationResponse{Expropriation: expropriation})
}
