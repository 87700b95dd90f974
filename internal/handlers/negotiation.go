package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fairlead/chartering-backend/internal/services"
)

type NegotiationHandler struct {
	negotiationService services.NegotiationService
	analyticsService   services.AnalyticsService
}

func NewNegotiationHandler(negotiationService services.NegotiationService, analyticsService services.AnalyticsService) *NegotiationHandler {
	return &NegotiationHandler{
		negotiationService: negotiationService,
		analyticsService:   analyticsService,
	}
}

type createNegotiationRequest struct {
	OrderID        uuid.UUID `json:"order_id" binding:"required"`
	CounterpartyID uuid.UUID `json:"counterparty_id" binding:"required"`

	Status string `json:"status"`

	FreightRate   string `json:"freight_rate"`
	DemurrageRate string `json:"demurrage_rate"`

	MarketIndexName       string `json:"market_index_name"`
	LoadDeliveryType      string `json:"load_delivery_type"`
	DischargeDeliveryType string `json:"discharge_delivery_type"`

	VesselID         *uuid.UUID `json:"vessel_id"`
	PersonInChargeID *uuid.UUID `json:"person_in_charge_id"`

	ActorID *uuid.UUID `json:"actor_id"`
}

func (h *NegotiationHandler) Create(c *gin.Context) {
	var req createNegotiationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	neg, err := h.negotiationService.Create(c.Request.Context(), services.CreateNegotiationInput{
		OrderID:               req.OrderID,
		CounterpartyID:        req.CounterpartyID,
		Status:                req.Status,
		FreightRate:           req.FreightRate,
		DemurrageRate:         req.DemurrageRate,
		MarketIndexName:       req.MarketIndexName,
		LoadDeliveryType:      req.LoadDeliveryType,
		DischargeDeliveryType: req.DischargeDeliveryType,
		VesselID:              req.VesselID,
		PersonInChargeID:      req.PersonInChargeID,
		ActorID:               req.ActorID,
	})
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"negotiation": neg})
}

func (h *NegotiationHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	neg, err := h.negotiationService.GetByID(c.Request.Context(), id)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"negotiation": neg})
}

type updateNegotiationRequest struct {
	Fields  map[string]any `json:"fields" binding:"required"`
	ActorID *uuid.UUID     `json:"actor_id"`
}

func (h *NegotiationHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	var req updateNegotiationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	neg, err := h.negotiationService.Update(c.Request.Context(), id, req.Fields, req.ActorID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"negotiation": neg})
}

type updateStatusRequest struct {
	Status  string     `json:"status" binding:"required"`
	ActorID *uuid.UUID `json:"actor_id"`
}

func (h *NegotiationHandler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	neg, err := h.negotiationService.UpdateStatus(c.Request.Context(), id, req.Status, req.ActorID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"negotiation": neg})
}

func (h *NegotiationHandler) RecomputeAnalytics(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	summary, err := h.analyticsService.Recompute(c.Request.Context(), nil, id)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"analytics": summary})
}
