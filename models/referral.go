// models/referral.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Referral records one qualifying deposit by a referred user. A referrer
// accumulates one record per approved deposit, not one per referred user.
// Level-2 payouts do not create a record.
type Referral struct {
	ID               primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	ReferrerID       primitive.ObjectID `json:"referrerId" bson:"referrerId"`
	ReferredID       primitive.ObjectID `json:"referredId" bson:"referredId"`
	ReferredUsername string             `json:"referredUsername" bson:"referredUsername"`
	ReferralDate     time.Time          `json:"referralDate" bson:"referralDate"`
	BonusAmount      float64            `json:"bonusAmount" bson:"bonusAmount"`
	DepositAmount    float64            `json:"depositAmount" bson:"depositAmount"`
}

// PartnerRank is an admin-managed commission tier. A referrer whose team
// total deposit reaches Goal is eligible for the rank; the Commission
// percent replaces the base Level-1 rate.
type PartnerRank struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name       string             `json:"name" bson:"name"`
	Goal       float64            `json:"goal" bson:"goal"`             // team-deposit threshold
	Commission float64            `json:"commission" bson:"commission"` // percent
	CreatedAt  time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type PartnerRankRequest struct {
	Name       string  `json:"name" validate:"required"`
	Goal       float64 `json:"goal" validate:"required,gt=0"`
	Commission float64 `json:"commission" validate:"required,gt=0"`
}

type ReferralData struct {
	ReferralCode     string     `json:"referralCode"`
	ReferralLink     string     `json:"referralLink"`
	ReferralCount    int        `json:"referralCount"`
	Rank             string     `json:"rank,omitempty"`
	TeamTotalDeposit float64    `json:"teamTotalDeposit"`
	Referrals        []Referral `json:"referrals,omitempty"`
}
