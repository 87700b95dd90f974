package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fairlead/chartering-backend/internal/services"
)

type OrderHandler struct {
	orderService services.OrderService
}

func NewOrderHandler(orderService services.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

type createOrderRequest struct {
	Side string `json:"side"`

	CargoTypeID     *uuid.UUID `json:"cargo_type_id"`
	LoadPortID      *uuid.UUID `json:"load_port_id"`
	DischargePortID *uuid.UUID `json:"discharge_port_id"`

	ChartererID *uuid.UUID `json:"charterer_id"`
	OwnerID     *uuid.UUID `json:"owner_id"`
	CreatedByID *uuid.UUID `json:"created_by_id"`

	LaycanFrom *time.Time `json:"laycan_from"`
	LaycanTo   *time.Time `json:"laycan_to"`

	ActorID *uuid.UUID `json:"actor_id"`
}

func (h *OrderHandler) Create(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	order, err := h.orderService.Create(c.Request.Context(), services.CreateOrderInput{
		Side:            req.Side,
		CargoTypeID:     req.CargoTypeID,
		LoadPortID:      req.LoadPortID,
		DischargePortID: req.DischargePortID,
		ChartererID:     req.ChartererID,
		OwnerID:         req.OwnerID,
		CreatedByID:     req.CreatedByID,
		LaycanFrom:      req.LaycanFrom,
		LaycanTo:        req.LaycanTo,
		ActorID:         req.ActorID,
	})
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"order": order})
}

func (h *OrderHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	order, err := h.orderService.GetByID(c.Request.Context(), id)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"order": order})
}

type updateOrderRequest struct {
	Fields  map[string]any `json:"fields" binding:"required"`
	ActorID *uuid.UUID     `json:"actor_id"`
}

func (h *OrderHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	var req updateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	order, err := h.orderService.Update(c.Request.Context(), id, req.Fields, req.ActorID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"order": order})
}
