// controllers/menu_controller.go
package controllers

import (
	"restaurant/entity"
	"restaurant/pkg/resp"
	"restaurant/services"

	"github.com/gin-gonic/gin"
)

type MenuController struct {
	Service *services.MenuService
}

func NewMenuController(s *services.MenuService) *MenuController {
	return &MenuController{Service: s}
}

// GET /menu?category=
func (mc *MenuController) List(c *gin.Context) {
	items, err := mc.Service.List(c.Request.Context(), c.Query("category"))
	if err != nil {
		respondError(c, err)
		return
	}
	resp.OK(c, items)
}

// GET /menu/:id
func (mc *MenuController) Detail(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	item, err := mc.Service.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	resp.OK(c, item)
}

type CreateMenuReq struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Category    string `json:"category" binding:"required"`
	Image       string `json:"image"`
}

// POST /menu (admin)
func (mc *MenuController) Create(c *gin.Context) {
	var req CreateMenuReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	item := &entity.MenuItem{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Image:       req.Image,
	}
	if err := mc.Service.Add(c.Request.Context(), item); err != nil {
		respondError(c, err)
		return
	}
	resp.Created(c, item)
}

// POST /menu/seed
func (mc *MenuController) Seed(c *gin.Context) {
	n, err := mc.Service.SeedDemoData(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	resp.OK(c, gin.H{"inserted": n})
}
