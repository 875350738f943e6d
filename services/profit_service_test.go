package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Ghaliaa/maxprofit_backend/models"
)

func TestClaimEligible(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	t.Run("never claimed", func(t *testing.T) {
		assert.True(t, ClaimEligible(nil, now))
	})

	t.Run("claimed less than 24h ago", func(t *testing.T) {
		last := now.Add(-23 * time.Hour)
		assert.False(t, ClaimEligible(&last, now))
	})

	t.Run("claimed exactly 24h ago", func(t *testing.T) {
		last := now.Add(-24 * time.Hour)
		assert.True(t, ClaimEligible(&last, now))
	})

	t.Run("claimed more than 24h ago", func(t *testing.T) {
		last := now.Add(-48 * time.Hour)
		assert.True(t, ClaimEligible(&last, now))
	})

	t.Run("one second short", func(t *testing.T) {
		last := now.Add(-24*time.Hour + time.Second)
		assert.False(t, ClaimEligible(&last, now))
	})
}

func TestDailyProfitTotal(t *testing.T) {
	planID := primitive.NewObjectID()
	otherPlanID := primitive.NewObjectID()
	plans := map[primitive.ObjectID]models.InvestmentPlan{
		planID:      {ID: planID, DailyReturn: 2.0},
		otherPlanID: {ID: otherPlanID, DailyReturn: 0.5},
	}

	t.Run("single position at 2 percent", func(t *testing.T) {
		investments := []models.Investment{
			{InvestmentPlanID: planID, Amount: 200},
		}
		assert.Equal(t, 4.00, DailyProfitTotal(investments, plans))
	})

	t.Run("multiple positions sum across plans", func(t *testing.T) {
		investments := []models.Investment{
			{InvestmentPlanID: planID, Amount: 200},
			{InvestmentPlanID: otherPlanID, Amount: 1000},
		}
		assert.Equal(t, 9.00, DailyProfitTotal(investments, plans))
	})

	t.Run("position on a deleted plan contributes nothing", func(t *testing.T) {
		investments := []models.Investment{
			{InvestmentPlanID: primitive.NewObjectID(), Amount: 500},
			{InvestmentPlanID: planID, Amount: 200},
		}
		assert.Equal(t, 4.00, DailyProfitTotal(investments, plans))
	})

	t.Run("no positions", func(t *testing.T) {
		assert.Equal(t, 0.00, DailyProfitTotal(nil, plans))
	})

	t.Run("result rounds to cents", func(t *testing.T) {
		investments := []models.Investment{
			{InvestmentPlanID: planID, Amount: 33.33}, // 0.6666
		}
		assert.Equal(t, 0.67, DailyProfitTotal(investments, plans))
	})
}
