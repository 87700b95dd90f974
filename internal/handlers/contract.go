package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fairlead/chartering-backend/internal/services"
)

type ContractHandler struct {
	contractService services.ContractService
}

func NewContractHandler(contractService services.ContractService) *ContractHandler {
	return &ContractHandler{contractService: contractService}
}

type createContractRequest struct {
	ContractType  string     `json:"contract_type"`
	NegotiationID *uuid.UUID `json:"negotiation_id"`

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

func (h *ContractHandler) Create(c *gin.Context) {
	var req createContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	con, err := h.contractService.Create(c.Request.Context(), services.CreateContractInput{
		ContractType:          req.ContractType,
		NegotiationID:         req.NegotiationID,
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
	c.JSON(http.StatusCreated, gin.H{"contract": con})
}

func (h *ContractHandler) UpdateStatus(c *gin.Context) {
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
	con, err := h.contractService.UpdateStatus(c.Request.Context(), id, req.Status, req.ActorID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"contract": con})
}

func (h *ContractHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	con, err := h.contractService.GetByID(c.Request.Context(), id)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"contract": con})
}
