package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fairlead/chartering-backend/internal/services"
)

type RecapHandler struct {
	recapService services.RecapService
}

func NewRecapHandler(recapService services.RecapService) *RecapHandler {
	return &RecapHandler{recapService: recapService}
}

type createRecapRequest struct {
	FixtureID uuid.UUID `json:"fixture_id" binding:"required"`

	RecapType             string `json:"recap_type"`
	LoadDeliveryType      string `json:"load_delivery_type"`
	DischargeDeliveryType string `json:"discharge_delivery_type"`

	OwnerCompanyID     *uuid.UUID `json:"owner_company_id"`
	ChartererCompanyID *uuid.UUID `json:"charterer_company_id"`
	VesselID           *uuid.UUID `json:"vessel_id"`
	LoadPortID         *uuid.UUID `json:"load_port_id"`
	DischargePortID    *uuid.UUID `json:"discharge_port_id"`
	CargoTypeID        *uuid.UUID `json:"cargo_type_id"`

	ActorID *uuid.UUID `json:"actor_id"`
}

func (h *RecapHandler) Create(c *gin.Context) {
	var req createRecapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	recap, err := h.recapService.Create(c.Request.Context(), services.CreateRecapInput{
		FixtureID:             req.FixtureID,
		RecapType:             req.RecapType,
		LoadDeliveryType:      req.LoadDeliveryType,
		DischargeDeliveryType: req.DischargeDeliveryType,
		OwnerCompanyID:        req.OwnerCompanyID,
		ChartererCompanyID:    req.ChartererCompanyID,
		VesselID:              req.VesselID,
		LoadPortID:            req.LoadPortID,
		DischargePortID:       req.DischargePortID,
		CargoTypeID:           req.CargoTypeID,
		ActorID:               req.ActorID,
	})
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"recap": recap})
}

func (h *RecapHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	recap, err := h.recapService.GetByID(c.Request.Context(), id)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"recap": recap})
}

type updateRecapRequest struct {
	Fields  map[string]any `json:"fields" binding:"required"`
	ActorID *uuid.UUID     `json:"actor_id"`
}

func (h *RecapHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	var req updateRecapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	recap, err := h.recapService.Update(c.Request.Context(), id, req.Fields, req.ActorID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"recap": recap})
}
