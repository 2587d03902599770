package controllers

import (
	"restaurant/pkg/resp"
	"restaurant/services"
	"restaurant/utils"

	"github.com/gin-gonic/gin"
)

type OrderController struct {
	Service *services.OrderService
}

func NewOrderController(s *services.OrderService) *OrderController {
	return &OrderController{Service: s}
}

// ===== Create Order =====

// POST /orders
func (oc *OrderController) Create(c *gin.Context) {
	var req services.CreateOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	o, err := oc.Service.Create(c.Request.Context(), utils.CurrentUserID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	resp.Created(c, gin.H{"orderId": o.ID, "order": o})
}

// ===== Read =====

// GET /orders
func (oc *OrderController) ListForMe(c *gin.Context) {
	orders, err := oc.Service.ListForUser(c.Request.Context(), utils.CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	resp.OK(c, orders)
}

// GET /orders/:id
func (oc *OrderController) Detail(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	o, err := oc.Service.DetailForUser(c.Request.Context(), utils.CurrentUserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	resp.OK(c, o)
}
