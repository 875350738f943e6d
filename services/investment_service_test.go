package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Ghaliaa/maxprofit_backend/models"
)

func TestValidateInvestmentAmount(t *testing.T) {
	plan := &models.InvestmentPlan{MinDeposit: 100, MaxDeposit: 10_000}

	tests := []struct {
		name    string
		amount  float64
		balance float64
		wantErr error
	}{
		{"within bounds and funded", 500, 1000, nil},
		{"exactly at minimum", 100, 1000, nil},
		{"exactly at maximum", 10_000, 10_000, nil},
		{"below minimum", 99.99, 1000, ErrInvalidAmount},
		{"above maximum", 10_000.01, 20_000, ErrInvalidAmount},
		{"zero amount", 0, 1000, ErrInvalidAmount},
		{"negative amount", -50, 1000, ErrInvalidAmount},
		{"insufficient balance", 500, 499.99, ErrInsufficientBalance},
		{"whole balance allowed", 500, 500, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateInvestmentAmount(plan, tt.amount, tt.balance)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestHoldingPeriodMet(t *testing.T) {
	start := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	assert.False(t, HoldingPeriodMet(start, start))
	assert.False(t, HoldingPeriodMet(start, start.Add(23*time.Hour)))
	assert.True(t, HoldingPeriodMet(start, start.Add(24*time.Hour)))
	assert.True(t, HoldingPeriodMet(start, start.Add(25*time.Hour)))
}

func TestInvestmentEndDate(t *testing.T) {
	start := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	t.Run("ten day plan", func(t *testing.T) {
		plan := &models.InvestmentPlan{Duration: 10}
		assert.Equal(t, time.Date(2025, 6, 25, 12, 0, 0, 0, time.UTC), InvestmentEndDate(start, plan))
	})

	t.Run("crosses month boundary", func(t *testing.T) {
		plan := &models.InvestmentPlan{Duration: 30}
		assert.Equal(t, time.Date(2025, 7, 15, 12, 0, 0, 0, time.UTC), InvestmentEndDate(start, plan))
	})
}
