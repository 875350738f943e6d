// models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Partner rank names stored on the user document. The empty string means
// the user has not reached any rank.
const (
	RankNone           = ""
	RankSuccessPartner = "success-partner"
	RankRepresentative = "representative"
)

// User model
type User struct {
	ID                primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	Username          string              `json:"username" bson:"username"`
	Email             string              `json:"email" bson:"email"`
	UserType          string              `json:"userType" bson:"userType"` // "user" or "admin"
	Balance           float64             `json:"balance" bson:"balance"`
	ReferrerID        *primitive.ObjectID `json:"referrerId,omitempty" bson:"referrerId,omitempty"`
	ReferralCode      string              `json:"referralCode,omitempty" bson:"referralCode,omitempty"`
	Rank              string              `json:"rank,omitempty" bson:"rank,omitempty"`
	TeamTotalDeposit  float64             `json:"teamTotalDeposit" bson:"teamTotalDeposit"`
	LastProfitClaim   *time.Time          `json:"lastProfitClaim,omitempty" bson:"lastProfitClaim,omitempty"`
	DailyProfitClaims int                 `json:"dailyProfitClaims" bson:"dailyProfitClaims"`
	FCMToken          string              `json:"fcmToken,omitempty" bson:"fcmToken,omitempty"`
	RegistrationDate  time.Time           `json:"registrationDate" bson:"registrationDate"`
	CreatedAt         time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt         time.Time           `json:"updatedAt" bson:"updatedAt"`
}

// Response model
type Response struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type WalletData struct {
	Balance           float64    `json:"balance"`
	TeamTotalDeposit  float64    `json:"teamTotalDeposit"`
	LastProfitClaim   *time.Time `json:"lastProfitClaim,omitempty"`
	DailyProfitClaims int        `json:"dailyProfitClaims"`
}

type AdjustBalanceRequest struct {
	Amount float64 `json:"amount" validate:"required"`
	Notes  string  `json:"notes"`
}

// CreateUserRequest provisions a user record. Identity and credentials
// live upstream; this only establishes the ledger-side document and the
// referral attribution, which is immutable after creation.
type CreateUserRequest struct {
	Username     string `json:"username" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	UserType     string `json:"userType" validate:"omitempty,oneof=user admin"`
	ReferralCode string `json:"referralCode"` // referrer's code, optional
	FCMToken     string `json:"fcmToken"`
}
