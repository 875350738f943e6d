// services/bounty_service.go
package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Ghaliaa/maxprofit_backend/models"
)

// BountyService accepts task-proof submissions and settles them. Approval
// credits the flat reward and flips the status in one store transaction,
// so a crash cannot leave a credited reward on a still-pending submission.
type BountyService struct {
	DB     *mongo.Database
	Ledger *LedgerService
}

func NewBountyService(db *mongo.Database, ledger *LedgerService) *BountyService {
	return &BountyService{DB: db, Ledger: ledger}
}

// Submit records a pending proof for an active bounty.
func (s *BountyService) Submit(ctx context.Context, userID primitive.ObjectID, userEmail string, bountyID primitive.ObjectID, req models.BountySubmitRequest) (*models.BountySubmission, error) {
	var bounty models.Bounty
	err := s.DB.Collection("bounties").FindOne(ctx, bson.M{"_id": bountyID}).Decode(&bounty)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !bounty.IsActive {
		return nil, ErrInvalidState
	}
	if bounty.DurationHours > 0 && time.Now().After(bounty.CreatedAt.Add(time.Duration(bounty.DurationHours)*time.Hour)) {
		return nil, ErrInvalidState
	}

	submission := &models.BountySubmission{
		ID:             primitive.NewObjectID(),
		BountyID:       bounty.ID,
		BountyTitle:    bounty.Title,
		UserID:         userID,
		UserEmail:      userEmail,
		Status:         models.SubmissionStatusPending,
		SubmissionData: req.SubmissionData,
		SubmittedAt:    time.Now(),
	}
	if _, err := s.DB.Collection("bounty_submissions").InsertOne(ctx, submission); err != nil {
		return nil, err
	}
	return submission, nil
}

// Settle applies an admin decision to a pending submission. Approval
// credits the reward at most once: the status guard and the credit share
// one store transaction, and a second approval of the same submission is
// rejected with ErrInvalidState.
func (s *BountyService) Settle(ctx context.Context, submissionID primitive.ObjectID, decision, note string, adminID primitive.ObjectID) (*models.BountySubmission, error) {
	var submission models.BountySubmission
	err := s.DB.Collection("bounty_submissions").FindOne(ctx, bson.M{"_id": submissionID}).Decode(&submission)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if submission.Status != models.SubmissionStatusPending {
		return nil, ErrInvalidState
	}

	now := time.Now()

	if decision == models.SubmissionStatusRejected {
		res, err := s.DB.Collection("bounty_submissions").UpdateOne(ctx, bson.M{
			"_id":    submission.ID,
			"status": models.SubmissionStatusPending,
		}, bson.M{
			"$set": bson.M{"status": models.SubmissionStatusRejected, "processedAt": now, "adminId": adminID},
		})
		if err != nil {
			return nil, err
		}
		if res.MatchedCount == 0 {
			return nil, ErrInvalidState
		}
		submission.Status = models.SubmissionStatusRejected
		submission.ProcessedAt = &now
		submission.AdminID = &adminID
		return &submission, nil
	}

	var bounty models.Bounty
	err = s.DB.Collection("bounties").FindOne(ctx, bson.M{"_id": submission.BountyID}).Decode(&bounty)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var tx *models.Transaction
	err = runAtomic(ctx, s.DB, func(sc mongo.SessionContext) error {
		res, err := s.DB.Collection("bounty_submissions").UpdateOne(sc, bson.M{
			"_id":    submission.ID,
			"status": models.SubmissionStatusPending,
		}, bson.M{
			"$set": bson.M{"status": models.SubmissionStatusApproved, "processedAt": now, "adminId": adminID},
		})
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return ErrInvalidState
		}

		meta := TransactionMeta{
			Notes:   "bounty reward: " + bounty.Title,
			AdminID: &adminID,
		}
		if note != "" {
			meta.Notes = meta.Notes + " (" + note + ")"
		}
		tx, err = s.Ledger.applyDeltaTx(sc, submission.UserID, bounty.Reward, models.TransactionTypeBountyReward, models.TransactionStatusCompleted, meta)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.Ledger.publish(submission.UserID, tx)
	submission.Status = models.SubmissionStatusApproved
	submission.ProcessedAt = &now
	submission.AdminID = &adminID
	return &submission, nil
}
