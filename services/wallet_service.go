// services/wallet_service.go
package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Ghaliaa/maxprofit_backend/models"
	"github.com/Ghaliaa/maxprofit_backend/utils"
)

// WalletService handles deposit and withdrawal requests and their admin
// review. Deposits credit nothing until approved; withdrawals debit the
// balance optimistically at request time and are refunded if the review
// fails them.
type WalletService struct {
	DB         *mongo.Database
	Ledger     *LedgerService
	Commission *CommissionService
	Lock       *UserLock
}

func NewWalletService(db *mongo.Database, ledger *LedgerService, commission *CommissionService, lock *UserLock) *WalletService {
	return &WalletService{DB: db, Ledger: ledger, Commission: commission, Lock: lock}
}

// RequestDeposit records a pending deposit claim. No balance changes until
// an admin completes the review.
func (s *WalletService) RequestDeposit(ctx context.Context, userID primitive.ObjectID, req models.DepositRequest) (*models.Transaction, error) {
	amount := utils.RoundAmount(req.Amount)
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	count, err := s.DB.Collection("users").CountDocuments(ctx, bson.M{"_id": userID})
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrUserNotFound
	}

	tx := &models.Transaction{
		ID:              primitive.NewObjectID(),
		UserID:          userID,
		Type:            models.TransactionTypeDeposit,
		Amount:          amount,
		Status:          models.TransactionStatusPending,
		TransactionDate: time.Now(),
		PaymentGateway:  req.PaymentGateway,
		TransactionID:   req.TransactionID,
		DepositProof:    req.DepositProof,
	}
	if _, err := s.DB.Collection("transactions").InsertOne(ctx, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// RequestWithdrawal debits the balance optimistically and records a
// pending withdrawal in one atomic step. An insufficient balance rejects
// the request before anything is written.
func (s *WalletService) RequestWithdrawal(ctx context.Context, userID primitive.ObjectID, req models.WithdrawRequest) (*models.Transaction, error) {
	amount := utils.RoundAmount(req.Amount)
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	var settings models.Settings
	if err := s.DB.Collection("settings").FindOne(ctx, bson.M{}).Decode(&settings); err == nil {
		if settings.MinWithdrawal > 0 && amount < settings.MinWithdrawal {
			return nil, ErrInvalidAmount
		}
	}

	release, err := s.Lock.Acquire(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer release()

	return s.Ledger.ApplyDelta(ctx, userID, -amount, models.TransactionTypeWithdrawal, models.TransactionStatusPending, TransactionMeta{
		WithdrawAddress: req.WithdrawAddress,
	})
}

// ReviewDeposit applies an admin decision to a pending deposit. Completed
// credits the depositor and runs the two-level commission cascade in one
// store transaction; Failed flips the status and nothing else. A depositor
// who no longer exists forces the deposit to Failed with the anomaly
// recorded on the transaction.
func (s *WalletService) ReviewDeposit(ctx context.Context, txID primitive.ObjectID, decision, note string, adminID primitive.ObjectID) (*models.Transaction, error) {
	var deposit models.Transaction
	err := s.DB.Collection("transactions").FindOne(ctx, bson.M{
		"_id":  txID,
		"type": models.TransactionTypeDeposit,
	}).Decode(&deposit)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if deposit.Status != models.TransactionStatusPending {
		return nil, ErrInvalidState
	}

	if decision == models.TransactionStatusFailed {
		return s.finishReview(ctx, &deposit, models.TransactionStatusFailed, note, adminID)
	}

	var depositor models.User
	err = s.DB.Collection("users").FindOne(ctx, bson.M{"_id": deposit.UserID}).Decode(&depositor)
	if err == mongo.ErrNoDocuments {
		// Depositor vanished; never credit, record the anomaly.
		anomaly := "depositor record missing at review time"
		if note != "" {
			anomaly = note + "; " + anomaly
		}
		return s.finishReview(ctx, &deposit, models.TransactionStatusFailed, anomaly, adminID)
	}
	if err != nil {
		return nil, err
	}

	// Snapshot the commission configuration before any write.
	policy, err := s.Commission.LoadPolicy(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	err = runAtomic(ctx, s.DB, func(sc mongo.SessionContext) error {
		res, err := s.DB.Collection("transactions").UpdateOne(sc, bson.M{
			"_id":    deposit.ID,
			"status": models.TransactionStatusPending,
		}, bson.M{
			"$set": bson.M{
				"status":      models.TransactionStatusCompleted,
				"processedAt": now,
				"adminId":     adminID,
				"notes":       note,
			},
		})
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return ErrInvalidState
		}

		// Credit the depositor. The deposit transaction itself is the
		// ledger record, so no second transaction is appended here.
		userRes, err := s.DB.Collection("users").UpdateOne(sc, bson.M{"_id": deposit.UserID}, bson.M{
			"$inc": bson.M{"balance": deposit.Amount},
			"$set": bson.M{"updatedAt": now},
		})
		if err != nil {
			return err
		}
		if userRes.MatchedCount == 0 {
			return ErrUserNotFound
		}

		return s.Commission.payDepositCommissions(sc, s.Ledger, &depositor, &deposit, policy)
	})
	if err == ErrUserNotFound {
		// A referenced record disappeared mid-review; nothing was applied.
		return s.finishReview(ctx, &deposit, models.TransactionStatusFailed, "referral chain record missing at review time", adminID)
	}
	if err != nil {
		return nil, err
	}

	deposit.Status = models.TransactionStatusCompleted
	deposit.ProcessedAt = &now
	deposit.AdminID = &adminID
	deposit.Notes = note
	s.Ledger.publish(deposit.UserID, &deposit)
	return &deposit, nil
}

// ReviewWithdrawal applies an admin decision to a pending withdrawal. The
// amount already left the balance at request time, so Completed changes
// the status only, while Failed refunds the debit and flips the status in
// one atomic step.
func (s *WalletService) ReviewWithdrawal(ctx context.Context, txID primitive.ObjectID, decision, note string, adminID primitive.ObjectID) (*models.Transaction, error) {
	var withdrawal models.Transaction
	err := s.DB.Collection("transactions").FindOne(ctx, bson.M{
		"_id":  txID,
		"type": models.TransactionTypeWithdrawal,
	}).Decode(&withdrawal)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if withdrawal.Status != models.TransactionStatusPending {
		return nil, ErrInvalidState
	}

	if decision == models.TransactionStatusCompleted {
		return s.finishReview(ctx, &withdrawal, models.TransactionStatusCompleted, note, adminID)
	}

	now := time.Now()
	err = runAtomic(ctx, s.DB, func(sc mongo.SessionContext) error {
		res, err := s.DB.Collection("transactions").UpdateOne(sc, bson.M{
			"_id":    withdrawal.ID,
			"status": models.TransactionStatusPending,
		}, bson.M{
			"$set": bson.M{
				"status":      models.TransactionStatusFailed,
				"processedAt": now,
				"adminId":     adminID,
				"notes":       note,
			},
		})
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return ErrInvalidState
		}

		// Reverse the optimistic debit. A failed withdrawal counts as
		// zero in the ledger, so the refund needs no extra record.
		userRes, err := s.DB.Collection("users").UpdateOne(sc, bson.M{"_id": withdrawal.UserID}, bson.M{
			"$inc": bson.M{"balance": withdrawal.Amount},
			"$set": bson.M{"updatedAt": now},
		})
		if err != nil {
			return err
		}
		if userRes.MatchedCount == 0 {
			// User deleted after requesting the withdrawal; keep the
			// status flip, note the unrefundable debit.
			_, err := s.DB.Collection("transactions").UpdateOne(sc, bson.M{"_id": withdrawal.ID}, bson.M{
				"$set": bson.M{"notes": "user record missing at review time, refund not applied"},
			})
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	withdrawal.Status = models.TransactionStatusFailed
	withdrawal.ProcessedAt = &now
	withdrawal.AdminID = &adminID
	withdrawal.Notes = note
	s.Ledger.publish(withdrawal.UserID, &withdrawal)
	return &withdrawal, nil
}

// AdjustBalance applies an admin correction through the ledger. Negative
// amounts debit, positive amounts credit.
func (s *WalletService) AdjustBalance(ctx context.Context, userID primitive.ObjectID, amount float64, notes string, adminID primitive.ObjectID) (*models.Transaction, error) {
	release, err := s.Lock.Acquire(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer release()

	return s.Ledger.ApplyDelta(ctx, userID, amount, models.TransactionTypeBalanceAdjustment, models.TransactionStatusCompleted, TransactionMeta{
		Notes:   notes,
		AdminID: &adminID,
	})
}

// finishReview flips a pending transaction to its terminal status without
// any balance effect, guarded on the status still being Pending.
func (s *WalletService) finishReview(ctx context.Context, tx *models.Transaction, status, note string, adminID primitive.ObjectID) (*models.Transaction, error) {
	now := time.Now()
	res, err := s.DB.Collection("transactions").UpdateOne(ctx, bson.M{
		"_id":    tx.ID,
		"status": models.TransactionStatusPending,
	}, bson.M{
		"$set": bson.M{
			"status":      status,
			"processedAt": now,
			"adminId":     adminID,
			"notes":       note,
		},
	})
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		return nil, ErrInvalidState
	}

	tx.Status = status
	tx.ProcessedAt = &now
	tx.AdminID = &adminID
	tx.Notes = note
	s.Ledger.publish(tx.UserID, tx)
	return tx, nil
}
