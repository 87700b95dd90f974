package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fairlead/chartering-backend/internal/services"
)

type FixtureHandler struct {
	fixtureService services.FixtureService
}

func NewFixtureHandler(fixtureService services.FixtureService) *FixtureHandler {
	return &FixtureHandler{fixtureService: fixtureService}
}

type createFixtureForOrderRequest struct {
	OrderID uuid.UUID `json:"order_id" binding:"required"`
}

func (h *FixtureHandler) CreateForOrder(c *gin.Context) {
	var req createFixtureForOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	fix, err := h.fixtureService.CreateForOrder(c.Request.Context(), nil, req.OrderID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"fixture": fix})
}

type createFixtureForContractRequest struct {
	ContractID uuid.UUID `json:"contract_id" binding:"required"`
}

func (h *FixtureHandler) CreateForContract(c *gin.Context) {
	var req createFixtureForContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	fix, err := h.fixtureService.CreateForContract(c.Request.Context(), nil, req.ContractID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"fixture": fix})
}

func (h *FixtureHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	fix, err := h.fixtureService.GetByID(c.Request.Context(), id)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"fixture": fix})
}

func (h *FixtureHandler) RepairRollups(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := h.fixtureService.RecomputeRollups(c.Request.Context(), nil, id); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"repaired": id})
}
