package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Ghaliaa/maxprofit_backend/models"
)

func testPolicy() CommissionPolicy {
	return CommissionPolicy{
		BaseRate:   3.0,
		Level2Rate: 1.0,
		Ranks: []models.PartnerRank{
			{Name: models.RankSuccessPartner, Goal: 1000, Commission: 4.0},
			{Name: models.RankRepresentative, Goal: 5000, Commission: 5.0},
		},
	}
}

func TestCommissionAmounts(t *testing.T) {
	tests := []struct {
		name       string
		deposit    float64
		storedRank string
		wantL1     float64
		wantL2     float64
	}{
		{
			name:       "base rate without rank",
			deposit:    100,
			storedRank: models.RankNone,
			wantL1:     3.00,
			wantL2:     1.00,
		},
		{
			name:       "representative rank on 100 deposit",
			deposit:    100,
			storedRank: models.RankRepresentative,
			wantL1:     5.00,
			wantL2:     1.00,
		},
		{
			name:       "success partner rank",
			deposit:    250,
			storedRank: models.RankSuccessPartner,
			wantL1:     10.00,
			wantL2:     2.50,
		},
		{
			name:       "fractional result rounds to cents",
			deposit:    33.33,
			storedRank: models.RankNone,
			wantL1:     1.00, // 0.9999 rounds up
			wantL2:     0.33,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l1, l2 := CommissionAmounts(tt.deposit, testPolicy(), tt.storedRank)
			assert.Equal(t, tt.wantL1, l1)
			assert.Equal(t, tt.wantL2, l2)
		})
	}
}

func TestLevel1Rate(t *testing.T) {
	policy := testPolicy()

	t.Run("no rank falls back to base rate", func(t *testing.T) {
		assert.Equal(t, 3.0, policy.Level1Rate(models.RankNone))
	})

	t.Run("stored rank selects its commission", func(t *testing.T) {
		assert.Equal(t, 5.0, policy.Level1Rate(models.RankRepresentative))
	})

	t.Run("unknown stored rank falls back to base rate", func(t *testing.T) {
		assert.Equal(t, 3.0, policy.Level1Rate("retired-rank"))
	})

	t.Run("duplicate rank names resolve to highest goal", func(t *testing.T) {
		p := CommissionPolicy{
			BaseRate: 3.0,
			Ranks: []models.PartnerRank{
				{Name: "partner", Goal: 1000, Commission: 4.0},
				{Name: "partner", Goal: 8000, Commission: 6.0},
				{Name: "partner", Goal: 3000, Commission: 5.0},
			},
		}
		assert.Equal(t, 6.0, p.Level1Rate("partner"))
	})
}

func TestDeriveRank(t *testing.T) {
	ranks := []models.PartnerRank{
		{Name: models.RankSuccessPartner, Goal: 1000, Commission: 4.0},
		{Name: models.RankRepresentative, Goal: 5000, Commission: 5.0},
	}

	tests := []struct {
		name      string
		teamTotal float64
		want      string
	}{
		{"below every goal", 999.99, models.RankNone},
		{"exactly at first goal", 1000, models.RankSuccessPartner},
		{"between goals", 4999, models.RankSuccessPartner},
		{"at second goal", 5000, models.RankRepresentative},
		{"far above", 1_000_000, models.RankRepresentative},
		{"zero team", 0, models.RankNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveRank(tt.teamTotal, ranks))
		})
	}

	t.Run("tied goals break on commission then name", func(t *testing.T) {
		tied := []models.PartnerRank{
			{Name: "beta", Goal: 1000, Commission: 4.0},
			{Name: "alpha", Goal: 1000, Commission: 4.0},
			{Name: "gamma", Goal: 1000, Commission: 6.0},
		}
		assert.Equal(t, "gamma", DeriveRank(2000, tied))

		noCommissionWinner := []models.PartnerRank{
			{Name: "beta", Goal: 1000, Commission: 4.0},
			{Name: "alpha", Goal: 1000, Commission: 4.0},
		}
		assert.Equal(t, "alpha", DeriveRank(2000, noCommissionWinner))
	})

	t.Run("no ranks configured", func(t *testing.T) {
		assert.Equal(t, models.RankNone, DeriveRank(10_000, nil))
	})
}
