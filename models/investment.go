// models/investment.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Investment statuses. Completed and cancelled are terminal; the principal
// is refunded to the balance exactly once on either transition.
const (
	InvestmentStatusActive    = "active"
	InvestmentStatusCompleted = "completed"
	InvestmentStatusCancelled = "cancelled"
)

// Investment model
type Investment struct {
	ID               primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID           primitive.ObjectID `json:"userId" bson:"userId"`
	InvestmentPlanID primitive.ObjectID `json:"investmentPlanId" bson:"investmentPlanId"`
	Amount           float64            `json:"amount" bson:"amount"`
	StartDate        time.Time          `json:"startDate" bson:"startDate"`
	EndDate          time.Time          `json:"endDate" bson:"endDate"` // startDate + plan duration days
	Status           string             `json:"status" bson:"status"`
	CreatedAt        time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// InvestmentPlan model. Admin-managed, read-only to end users.
type InvestmentPlan struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description" bson:"description"`
	DailyReturn float64            `json:"dailyReturn" bson:"dailyReturn"` // percent per day
	Duration    int                `json:"duration" bson:"duration"`       // days
	MinDeposit  float64            `json:"minDeposit" bson:"minDeposit"`
	MaxDeposit  float64            `json:"maxDeposit" bson:"maxDeposit"`
	IsPopular   bool               `json:"isPopular" bson:"isPopular"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type InvestRequest struct {
	PlanID string  `json:"planId" validate:"required"`
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

type InvestmentPlanRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description"`
	DailyReturn float64 `json:"dailyReturn" validate:"required,gt=0"`
	Duration    int     `json:"duration" validate:"required,gt=0"`
	MinDeposit  float64 `json:"minDeposit" validate:"required,gt=0"`
	MaxDeposit  float64 `json:"maxDeposit" validate:"required,gtefield=MinDeposit"`
	IsPopular   bool    `json:"isPopular"`
}
