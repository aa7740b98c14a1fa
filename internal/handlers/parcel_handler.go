package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apierrors "github.com/stwalsh4118/landregistry/internal/errors"
	"github.com/stwalsh4118/landregistry/internal/middleware"
	"github.com/stwalsh4118/landregistry/internal/models"
	"github.com/stwalsh4118/landregistry/internal/repository"
	"github.com/stwalsh4118/landregistry/internal/services"
)

// ParcelHandler handles parcel-related HTTP requests.
type ParcelHandler struct {
	service services.ParcelService
}

// NewParcelHandler creates a new ParcelHandler instance.
func NewParcelHandler(service services.ParcelService) *ParcelHandler {
	return &ParcelHandler{
		service: service,
	}
}

// AtPointRequest represents the query parameters for the at-point endpoint.
type AtPointRequest struct {
	Lat *float64 `form:"lat" binding:"required,min=-90,max=90"`
	Lng *float64 `form:"lng" binding:"required,min=-180,max=180"`
}

// NearbyRequest represents the query parameters for the nearby endpoint.
type NearbyRequest struct {
	Lat    *float64 `form:"lat" binding:"required,min=-90,max=90"`
	Lng    *float64 `form:"lng" binding:"required,min=-180,max=180"`
	Radius int      `form:"radius" binding:"omitempty,min=1,max=5000"`
}

// ListParcelsRequest represents the query parameters for the list endpoint.
type ListParcelsRequest struct {
	Owner            string `form:"owner" binding:"omitempty,wallet"`
	District         string `form:"district" binding:"omitempty,max=100"`
	LandUse          string `form:"landUse" binding:"omitempty,oneof=residential commercial agricultural industrial mixed_use"`
	Status           string `form:"status" binding:"omitempty,oneof=active pending_registration under_dispute transferred expropriated"`
	ComplianceStatus string `form:"complianceStatus" binding:"omitempty,oneof=compliant non_compliant pending_inspection under_review"`
	Page             int    `form:"page" binding:"omitempty,min=1"`
	Limit            int    `form:"limit" binding:"omitempty,min=1,max=100"`
}

// ParcelResponse represents the response for single parcel summaries.
type ParcelResponse struct {
	Parcel *ParcelData `json:"parcel"`
}

// ParcelDetailResponse carries the full registry record of one parcel.
type ParcelDetailResponse struct {
	Parcel *models.LandParcel `json:"parcel"`
}

// ParcelData is the summary view of a parcel used by map and list endpoints.
type ParcelData struct {
	NextInspectionDate time.Time               `json:"nextInspectionDate"`
	EstimatedValue     decimal.Decimal         `json:"estimatedValue"`
	Boundary           models.Polygon          `json:"boundary"`
	Location           models.Point            `json:"location"`
	HeirAddress        *string                 `json:"heirAddress,omitempty"`
	ParcelID           string                  `json:"parcelId"`
	OwnerAddress       string                  `json:"ownerAddress"`
	OwnerName          string                  `json:"ownerName"`
	District           string                  `json:"district"`
	Sector             string                  `json:"sector"`
	LandUse            models.LandUse          `json:"landUse"`
	Status             models.ParcelStatus     `json:"status"`
	ComplianceStatus   models.ComplianceStatus `json:"complianceStatus"`
	Area               float64                 `json:"area"`
	ComplianceScore    int                     `json:"complianceScore"`
	ID                 uint                    `json:"id"`
	InheritanceActive  bool                    `json:"inheritanceActive"`
}

// NearbyResponse represents the response for the nearby endpoint.
type NearbyResponse struct {
	Parcels []ParcelWithDistance `json:"parcels"`
	Count   int                  `json:"count"`
}

// ParcelWithDistance represents a parcel with its distance from the query point.
type ParcelWithDistance struct {
	ParcelData
	Distance float64 `json:"distanceMeters"`
}

// StatsResponse summarizes the registry.
type StatsResponse struct {
	TotalValue         decimal.Decimal  `json:"totalValue"`
	ByStatus           map[string]int64 `json:"byStatus"`
	ByLandUse          map[string]int64 `json:"byLandUse"`
	ByDistrict         map[string]int64 `json:"byDistrict"`
	Total              int64            `json:"total"`
	WithHeir           int64            `json:"withHeir"`
	OverdueInspections int64            `json:"overdueInspections"`
}

// AtPoint handles GET /api/v1/parcels/at-point endpoint.
// It retrieves the parcel whose boundary contains the given lat/lng point.
func (h *ParcelHandler) AtPoint(c *gin.Context) {
	log := middleware.GetLogger(c)

	var req AtPointRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, err, "Invalid query parameters")
		return
	}

	if log != nil {
		log.Info("Processing at-point request", map[string]interface{}{
			"lat": *req.Lat,
			"lng": *req.Lng,
		})
	}

	parcel, err := h.service.GetParcelAtPoint(c.Request.Context(), *req.Lat, *req.Lng)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCoordinates) {
			apierrors.BadRequest(c, err.Error(), nil)
			return
		}
		if errors.Is(err, services.ErrParcelNotFound) {
			apierrors.NotFound(c, "No parcel found at this location")
			return
		}
		apierrors.InternalServerError(c, "Failed to query parcel data", err)
		return
	}

	data := mapParcelToDTO(parcel)
	c.JSON(http.StatusOK, ParcelResponse{Parcel: &data})
}

// Nearby handles GET /api/v1/parcels/nearby endpoint.
// It retrieves parcels within the specified radius of the given lat/lng point.
func (h *ParcelHandler) Nearby(c *gin.Context) {
	log := middleware.GetLogger(c)

	var req NearbyRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, err, "Invalid query parameters")
		return
	}

	if req.Radius == 0 {
		req.Radius = services.DefaultRadiusMeters
	}

	if log != nil {
		log.Info("Processing nearby request", map[string]interface{}{
			"lat":    *req.Lat,
			"lng":    *req.Lng,
			"radius": req.Radius,
		})
	}

	parcels, err := h.service.GetNearbyParcels(c.Request.Context(), *req.Lat, *req.Lng, req.Radius)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCoordinates) || errors.Is(err, services.ErrInvalidRadius) {
			apierrors.BadRequest(c, err.Error(), nil)
			return
		}
		apierrors.InternalServerError(c, "Failed to query nearby parcels", err)
		return
	}

	responseParcels := make([]ParcelWithDistance, 0, len(parcels))
	for i := range parcels {
		responseParcels = append(responseParcels, ParcelWithDistance{
			ParcelData: mapParcelToDTO(&parcels[i].Parcel),
			Distance:   parcels[i].Distance,
		})
	}

	c.JSON(http.StatusOK, NearbyResponse{
		Parcels: responseParcels,
		Count:   len(responseParcels),
	})
}

// Get handles GET /api/v1/parcels/:parcelId and returns the full record.
func (h *ParcelHandler) Get(c *gin.Context) {
	parcelID := c.Param("parcelId")
	if !parcelIDPattern.MatchString(parcelID) {
		apierrors.BadRequest(c, "Invalid parcel id", map[string]interface{}{
			"parcelId": "Must be a parcel code such as LP-2026-0001",
		})
		return
	}

	parcel, err := h.service.GetParcel(c.Request.Context(), parcelID)
	if err != nil {
		if errors.Is(err, services.ErrParcelNotFound) {
			apierrors.NotFound(c, "Parcel "+parcelID+" not found")
			return
		}
		apierrors.InternalServerError(c, "Failed to query parcel", err)
		return
	}

	c.JSON(http.StatusOK, ParcelDetailResponse{Parcel: parcel})
}

// List handles GET /api/v1/parcels.
func (h *ParcelHandler) List(c *gin.Context) {
	var req ListParcelsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, err, "Invalid query parameters")
		return
	}

	page := repository.Page{Page: req.Page, Limit: req.Limit}.Normalize()
	filter := repository.ParcelFilter{
		OwnerAddress:     req.Owner,
		District:         req.District,
		LandUse:          models.LandUse(req.LandUse),
		Status:           models.ParcelStatus(req.Status),
		ComplianceStatus: models.ComplianceStatus(req.ComplianceStatus),
		Page:             page,
	}

	parcels, total, err := h.service.ListParcels(c.Request.Context(), filter)
	if err != nil {
		apierrors.InternalServerError(c, "Failed to list parcels", err)
		return
	}

	items := make([]ParcelData, 0, len(parcels))
	for i := range parcels {
		items = append(items, mapParcelToDTO(&parcels[i]))
	}

	c.JSON(http.StatusOK, ListResponse[ParcelData]{
		Items:      items,
		Pagination: newPageInfo(page.Page, page.Limit, total),
	})
}

// Stats handles GET /api/v1/parcels/stats.
func (h *ParcelHandler) Stats(c *gin.Context) {
	stats, err := h.service.GetStats(c.Request.Context())
	if err != nil {
		apierrors.InternalServerError(c, "Failed to compute parcel statistics", err)
		return
	}

	c.JSON(http.StatusOK, StatsResponse{
		TotalValue:         stats.TotalValue,
		ByStatus:           groupMap(stats.ByStatus),
		ByLandUse:          groupMap(stats.ByLandUse),
		ByDistrict:         groupMap(stats.ByDistrict),
		Total:              stats.Total,
		WithHeir:           stats.WithHeir,
		OverdueInspections: stats.OverdueInspections,
	})
}

func groupMap(groups []repository.GroupCount) map[string]int64 {
	out := make(map[string]int64, len(groups))
	for _, g := range groups {
		out[g.Label] = g.Total
	}
	return out
}

// mapParcelToDTO converts a LandParcel model to the ParcelData summary.
func mapParcelToDTO(parcel *models.LandParcel) ParcelData {
	return ParcelData{
		ID:                 parcel.ID,
		ParcelID:           parcel.ParcelID,
		OwnerAddress:       parcel.OwnerAddress,
		OwnerName:          parcel.OwnerName,
		District:           parcel.District,
		Sector:             parcel.Sector,
		LandUse:            parcel.LandUse,
		Status:             parcel.Status,
		ComplianceStatus:   parcel.ComplianceStatus,
		ComplianceScore:    parcel.ComplianceScore,
		Area:               parcel.Area,
		EstimatedValue:     parcel.EstimatedValue,
		NextInspectionDate: parcel.NextInspectionDate,
		HeirAddress:        parcel.HeirAddress,
		InheritanceActive:  parcel.InheritanceActive,
		Boundary:           parcel.Boundary,
		Location:           parcel.Location,
	}
}
