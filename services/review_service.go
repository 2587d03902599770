// services/review_service.go
package services

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"restaurant/entity"
	"restaurant/repository"

	"gorm.io/gorm"
)

const anonymousName = "Anonymous"

type ReviewService struct {
	Repo     *repository.ReviewRepository
	MenuRepo *repository.MenuRepository
}

func NewReviewService(repo *repository.ReviewRepository, menuRepo *repository.MenuRepository) *ReviewService {
	return &ReviewService{Repo: repo, MenuRepo: menuRepo}
}

// ReviewView is a review annotated with the reviewer's display name.
type ReviewView struct {
	ID         uint      `json:"id"`
	MenuItemID uint      `json:"menuItemId"`
	UserID     uint      `json:"userId"`
	UserName   string    `json:"userName"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// RatingSummary is the average over Count reviews. Count is what tells
// "no reviews" apart from an average of zero.
type RatingSummary struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// Submit records the user's rating of a menu item, replacing their earlier
// review of it if there is one. Ratings are rounded half up.
func (s *ReviewService) Submit(ctx context.Context, userID, menuItemID uint, rating float64, comment string) (*entity.Review, error) {
	if userID == 0 {
		return nil, ErrAuthRequired
	}
	if math.IsNaN(rating) || rating < 1 || rating > 5 {
		return nil, invalid("rating must be between 1 and 5")
	}

	if _, err := s.MenuRepo.FindByID(ctx, menuItemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("menu item")
		}
		return nil, err
	}

	rev := &entity.Review{
		MenuItemID: menuItemID,
		UserID:     userID,
		Rating:     int(math.Floor(rating + 0.5)),
		Comment:    strings.TrimSpace(comment),
	}
	if err := s.Repo.Upsert(ctx, rev); err != nil {
		return nil, err
	}
	return s.Repo.FindForUser(ctx, userID, menuItemID)
}

// ListForItem returns the item's reviews newest first. Names are resolved
// on every call.
func (s *ReviewService) ListForItem(ctx context.Context, menuItemID uint) ([]ReviewView, error) {
	rows, err := s.Repo.ListForItem(ctx, menuItemID)
	if err != nil {
		return nil, err
	}
	out := make([]ReviewView, 0, len(rows))
	for _, r := range rows {
		name := anonymousName
		if r.UserName != nil && strings.TrimSpace(*r.UserName) != "" {
			name = *r.UserName
		}
		out = append(out, ReviewView{
			ID:         r.ID,
			MenuItemID: r.MenuItemID,
			UserID:     r.UserID,
			UserName:   name,
			Rating:     r.Rating,
			Comment:    r.Comment,
			CreatedAt:  r.CreatedAt,
			UpdatedAt:  r.UpdatedAt,
		})
	}
	return out, nil
}

// MineForItem returns the caller's review of the item, or nil.
func (s *ReviewService) MineForItem(ctx context.Context, userID, menuItemID uint) (*entity.Review, error) {
	if userID == 0 {
		return nil, nil
	}
	return s.Repo.FindForUser(ctx, userID, menuItemID)
}

// AverageFor averages ratings to one decimal place.
func AverageFor(reviews []ReviewView) RatingSummary {
	if len(reviews) == 0 {
		return RatingSummary{}
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	avg := float64(sum) / float64(len(reviews))
	return RatingSummary{Average: math.Round(avg*10) / 10, Count: len(reviews)}
}
