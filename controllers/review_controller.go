// controllers/review_controller.go
package controllers

import (
	"restaurant/pkg/resp"
	"restaurant/services"
	"restaurant/utils"

	"github.com/gin-gonic/gin"
)

type ReviewController struct {
	Service *services.ReviewService
}

func NewReviewController(s *services.ReviewService) *ReviewController {
	return &ReviewController{Service: s}
}

// ===== DTO =====

type SubmitReviewReq struct {
	Rating  *float64 `json:"rating" binding:"required"`
	Comment string   `json:"comment"`
}

type reviewList struct {
	Reviews []services.ReviewView `json:"reviews"`
	services.RatingSummary
}

// POST /menu/:id/reviews
func (rc *ReviewController) Submit(c *gin.Context) {
	itemID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req SubmitReviewReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, "rating must be a number between 1 and 5")
		return
	}

	rev, err := rc.Service.Submit(c.Request.Context(), utils.CurrentUserID(c), itemID, *req.Rating, req.Comment)
	if err != nil {
		respondError(c, err)
		return
	}
	resp.OK(c, rev)
}

// GET /menu/:id/reviews
func (rc *ReviewController) List(c *gin.Context) {
	itemID, ok := paramID(c, "id")
	if !ok {
		return
	}
	views, err := rc.Service.ListForItem(c.Request.Context(), itemID)
	if err != nil {
		respondError(c, err)
		return
	}
	resp.OK(c, reviewList{Reviews: views, RatingSummary: services.AverageFor(views)})
}

// GET /menu/:id/reviews/me (data is null when the caller has no review)
func (rc *ReviewController) Mine(c *gin.Context) {
	itemID, ok := paramID(c, "id")
	if !ok {
		return
	}
	rev, err := rc.Service.MineForItem(c.Request.Context(), utils.CurrentUserID(c), itemID)
	if err != nil {
		respondError(c, err)
		return
	}
	resp.OK(c, rev)
}
