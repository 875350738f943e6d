// models/bounty.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Bounty submission statuses
const (
	SubmissionStatusPending  = "Pending"
	SubmissionStatusApproved = "Approved"
	SubmissionStatusRejected = "Rejected"
)

// Bounty model. Admin-managed task with a flat reward.
type Bounty struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Title         string             `json:"title" bson:"title"`
	Description   string             `json:"description" bson:"description"`
	Reward        float64            `json:"reward" bson:"reward"`
	IsActive      bool               `json:"isActive" bson:"isActive"`
	DurationHours int                `json:"durationHours" bson:"durationHours"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// BountySubmission is a user-submitted proof for a bounty. The reward is
// credited at most once, on the Approved transition only.
type BountySubmission struct {
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	BountyID       primitive.ObjectID `json:"bountyId" bson:"bountyId"`
	BountyTitle    string             `json:"bountyTitle" bson:"bountyTitle"`
	UserID         primitive.ObjectID `json:"userId" bson:"userId"`
	UserEmail      string             `json:"userEmail" bson:"userEmail"`
	Status         string             `json:"status" bson:"status"`
	SubmissionData string             `json:"submissionData" bson:"submissionData"` // URL or embedded image
	SubmittedAt    time.Time          `json:"submittedAt" bson:"submittedAt"`
	ProcessedAt    *time.Time         `json:"processedAt,omitempty" bson:"processedAt,omitempty"`
	AdminID        *primitive.ObjectID `json:"adminId,omitempty" bson:"adminId,omitempty"`
}

type BountyRequest struct {
	Title         string  `json:"title" validate:"required"`
	Description   string  `json:"description"`
	Reward        float64 `json:"reward" validate:"required,gt=0"`
	IsActive      bool    `json:"isActive"`
	DurationHours int     `json:"durationHours"`
}

type BountySubmitRequest struct {
	SubmissionData string `json:"submissionData" validate:"required"`
}

type SettleRequest struct {
	Decision string `json:"decision" validate:"required,oneof=Approved Rejected"`
	Note     string `json:"note"`
}
