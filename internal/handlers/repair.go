package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fairlead/chartering-backend/internal/services"
)

// RepairHandler exposes the idempotent repair operations.
type RepairHandler struct {
	consistencyService services.ConsistencyService
}

func NewRepairHandler(consistencyService services.ConsistencyService) *RepairHandler {
	return &RepairHandler{consistencyService: consistencyService}
}

type repairStatusConsistencyRequest struct {
	NegotiationID uuid.UUID  `json:"negotiation_id" binding:"required"`
	ContractID    *uuid.UUID `json:"contract_id"`
	ActorID       *uuid.UUID `json:"actor_id"`
}

func (h *RepairHandler) StatusConsistency(c *gin.Context) {
	var req repairStatusConsistencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	res, err := h.consistencyService.Repair(c.Request.Context(), req.NegotiationID, req.ContractID, req.ActorID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{
		"corrections": res.Corrections,
		"warnings":    res.Warnings,
	})
}
