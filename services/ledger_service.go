// services/ledger_service.go
package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Ghaliaa/maxprofit_backend/models"
	"github.com/Ghaliaa/maxprofit_backend/utils"
	"github.com/Ghaliaa/maxprofit_backend/websocket"
)

// TransactionMeta carries the optional fields copied onto the transaction
// record a balance change appends.
type TransactionMeta struct {
	PaymentGateway  string
	TransactionID   string
	DepositProof    string
	WithdrawAddress string
	InvestmentID    *primitive.ObjectID
	Notes           string
	AdminID         *primitive.ObjectID
}

// LedgerService is the only sanctioned way a user balance changes. Every
// delta lands together with exactly one transaction record, inside one
// store transaction, so the transaction log can always reconstruct the
// balance.
type LedgerService struct {
	DB  *mongo.Database
	Hub *websocket.Hub
}

func NewLedgerService(db *mongo.Database, hub *websocket.Hub) *LedgerService {
	return &LedgerService{DB: db, Hub: hub}
}

// ApplyDelta increments (delta > 0) or decrements (delta < 0) a user's
// balance and appends the matching transaction record. A decrement that
// would push the balance negative fails with ErrInsufficientBalance; a
// missing user fails with ErrUserNotFound and writes nothing.
func (s *LedgerService) ApplyDelta(ctx context.Context, userID primitive.ObjectID, delta float64, txType, status string, meta TransactionMeta) (*models.Transaction, error) {
	delta = utils.RoundAmount(delta)
	if delta == 0 {
		return nil, ErrInvalidAmount
	}

	var tx *models.Transaction
	err := runAtomic(ctx, s.DB, func(sc mongo.SessionContext) error {
		var err error
		tx, err = s.applyDeltaTx(sc, userID, delta, txType, status, meta)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.publish(userID, tx)
	return tx, nil
}

// applyDeltaTx is ApplyDelta's body for callers that already hold a session,
// so a commission cascade or a settlement can fold several balance changes
// into one store transaction.
func (s *LedgerService) applyDeltaTx(sc mongo.SessionContext, userID primitive.ObjectID, delta float64, txType, status string, meta TransactionMeta) (*models.Transaction, error) {
	delta = utils.RoundAmount(delta)
	if delta == 0 {
		return nil, ErrInvalidAmount
	}

	now := time.Now()
	filter := bson.M{"_id": userID}
	if delta < 0 {
		filter["balance"] = bson.M{"$gte": -delta}
	}

	res, err := s.DB.Collection("users").UpdateOne(sc, filter, bson.M{
		"$inc": bson.M{"balance": delta},
		"$set": bson.M{"updatedAt": now},
	})
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		// Distinguish a vanished user from an insufficient balance.
		count, err := s.DB.Collection("users").CountDocuments(sc, bson.M{"_id": userID})
		if err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, ErrUserNotFound
		}
		return nil, ErrInsufficientBalance
	}

	amount := delta
	if amount < 0 {
		amount = -amount
	}

	tx := &models.Transaction{
		ID:              primitive.NewObjectID(),
		UserID:          userID,
		Type:            txType,
		Amount:          amount,
		Status:          status,
		TransactionDate: now,
		PaymentGateway:  meta.PaymentGateway,
		TransactionID:   meta.TransactionID,
		DepositProof:    meta.DepositProof,
		WithdrawAddress: meta.WithdrawAddress,
		InvestmentID:    meta.InvestmentID,
		Notes:           meta.Notes,
		AdminID:         meta.AdminID,
	}
	if txType == models.TransactionTypeBalanceAdjustment {
		tx.IsDebit = delta < 0
	}
	if status != models.TransactionStatusPending {
		tx.ProcessedAt = &now
	}

	if _, err := s.DB.Collection("transactions").InsertOne(sc, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// publish pushes the ledger event to the user's open websocket, if any.
func (s *LedgerService) publish(userID primitive.ObjectID, tx *models.Transaction) {
	if s.Hub == nil || tx == nil {
		return
	}
	s.Hub.SendToUser(userID, websocket.Notification{
		Type:    websocket.NotificationTypeLedgerEntry,
		Message: tx.Type,
		Data:    tx,
		UserID:  userID.Hex(),
	})
}

// ReconstructBalance folds a user's transaction log into the balance it
// justifies. Used by the admin audit endpoint to detect drift between the
// stored balance and the ledger.
func ReconstructBalance(transactions []models.Transaction) float64 {
	var balance float64
	for i := range transactions {
		balance += transactions[i].SignedAmount()
	}
	return utils.RoundAmount(balance)
}
