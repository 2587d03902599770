package services

import (
	"context"
	"math"
	"testing"

	"restaurant/entity"
	"restaurant/pkg/testutil"
	"restaurant/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newReviewService(t *testing.T) (*ReviewService, *gorm.DB) {
	db := testutil.NewDB(t)
	return NewReviewService(repository.NewReviewRepository(db), repository.NewMenuRepository(db)), db
}

func TestSubmitRatingValidation(t *testing.T) {
	ctx := context.Background()
	svc, db := newReviewService(t)
	item := seedItem(t, db, "Борщ", 899)

	tests := []struct {
		name   string
		rating float64
		want   int
		err    error
	}{
		{"zero", 0, 0, ErrValidation},
		{"six", 6, 0, ErrValidation},
		{"nan", math.NaN(), 0, ErrValidation},
		{"half rounds up", 4.5, 5, nil},
		{"below half rounds down", 2.4, 2, nil},
		{"lower bound", 1, 1, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rev, err := svc.Submit(ctx, 1, item.ID, tc.rating, "")
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, rev.Rating)
		})
	}
}

func TestSubmitRequiresUserAndItem(t *testing.T) {
	ctx := context.Background()
	svc, db := newReviewService(t)
	item := seedItem(t, db, "Борщ", 899)

	_, err := svc.Submit(ctx, 0, item.ID, 5, "")
	assert.ErrorIs(t, err, ErrAuthRequired)

	_, err = svc.Submit(ctx, 1, item.ID+50, 5, "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSubmitTwiceOverwrites(t *testing.T) {
	ctx := context.Background()
	svc, db := newReviewService(t)
	item := seedItem(t, db, "Пельмени", 1299)

	_, err := svc.Submit(ctx, 1, item.ID, 2, "пересолено")
	require.NoError(t, err)
	_, err = svc.Submit(ctx, 1, item.ID, 5, "исправились")
	require.NoError(t, err)

	var rows []entity.Review
	require.NoError(t, db.Where("menu_item_id = ?", item.ID).Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, 5, rows[0].Rating)
	assert.Equal(t, "исправились", rows[0].Comment)

	mine, err := svc.MineForItem(ctx, 1, item.ID)
	require.NoError(t, err)
	require.NotNil(t, mine)
	assert.Equal(t, 5, mine.Rating)

	none, err := svc.MineForItem(ctx, 0, item.ID)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestListForItemNames(t *testing.T) {
	ctx := context.Background()
	svc, db := newReviewService(t)
	item := seedItem(t, db, "Блины", 799)

	users := repository.NewUserRepository(db)
	anna := &entity.User{Name: "Анна"}
	anna.ID = 1
	require.NoError(t, users.Upsert(ctx, anna))

	_, err := svc.Submit(ctx, 1, item.ID, 4, "вкусно")
	require.NoError(t, err)
	_, err = svc.Submit(ctx, 2, item.ID, 3, "")
	require.NoError(t, err)

	views, err := svc.ListForItem(ctx, item.ID)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, uint(2), views[0].UserID, "newest first")
	assert.Equal(t, anonymousName, views[0].UserName)
	assert.Equal(t, "Анна", views[1].UserName)

	anna.Name = "Анна К."
	require.NoError(t, users.Upsert(ctx, anna))
	views, err = svc.ListForItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Анна К.", views[1].UserName)
}

func TestAverageFor(t *testing.T) {
	views := func(ratings ...int) []ReviewView {
		out := make([]ReviewView, len(ratings))
		for i, r := range ratings {
			out[i].Rating = r
		}
		return out
	}

	assert.Equal(t, RatingSummary{Average: 4.0, Count: 3}, AverageFor(views(3, 4, 5)))
	assert.Equal(t, RatingSummary{Average: 0, Count: 0}, AverageFor(nil))
	assert.Equal(t, RatingSummary{Average: 4.7, Count: 3}, AverageFor(views(4, 5, 5)))
	assert.Equal(t, RatingSummary{Average: 1.5, Count: 2}, AverageFor(views(1, 2)))
}
