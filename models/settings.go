// models/settings.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Settings is a singleton document ("settings" collection, one record).
// The referral rates here are snapshotted into a CommissionPolicy before
// a deposit approval runs, never read mid-cascade.
type Settings struct {
	ID                 primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	SiteName           string             `json:"siteName" bson:"siteName"`
	SupportEmail       string             `json:"supportEmail" bson:"supportEmail"`
	ReferralBaseRate   float64            `json:"referralBaseRate" bson:"referralBaseRate"`     // percent, Level-1 without rank
	ReferralLevel2Rate float64            `json:"referralLevel2Rate" bson:"referralLevel2Rate"` // percent, flat
	MinWithdrawal      float64            `json:"minWithdrawal" bson:"minWithdrawal"`
	ReferralLinkBase   string             `json:"referralLinkBase" bson:"referralLinkBase"`
	UpdatedAt          time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type SettingsRequest struct {
	SiteName           string  `json:"siteName"`
	SupportEmail       string  `json:"supportEmail" validate:"omitempty,email"`
	ReferralBaseRate   float64 `json:"referralBaseRate" validate:"required,gt=0"`
	ReferralLevel2Rate float64 `json:"referralLevel2Rate" validate:"required,gt=0"`
	MinWithdrawal      float64 `json:"minWithdrawal" validate:"gte=0"`
	ReferralLinkBase   string  `json:"referralLinkBase"`
}

// Announcement singleton shown on the dashboard.
type Announcement struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Title     string             `json:"title" bson:"title"`
	Message   string             `json:"message" bson:"message"`
	IsActive  bool               `json:"isActive" bson:"isActive"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type AnnouncementRequest struct {
	Title    string `json:"title" validate:"required"`
	Message  string `json:"message" validate:"required"`
	IsActive bool   `json:"isActive"`
}
