// services/investment_service.go
package services

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Ghaliaa/maxprofit_backend/models"
	"github.com/Ghaliaa/maxprofit_backend/utils"
)

// MinHoldingPeriod is how long a position must be held before the user may
// cancel it. Admin cancellation bypasses this gate.
const MinHoldingPeriod = 24 * time.Hour

// ValidateInvestmentAmount rejects an amount outside the plan bounds or
// beyond the available balance, before anything is written.
func ValidateInvestmentAmount(plan *models.InvestmentPlan, amount, balance float64) error {
	if amount <= 0 || amount < plan.MinDeposit || amount > plan.MaxDeposit {
		return ErrInvalidAmount
	}
	if amount > balance {
		return ErrInsufficientBalance
	}
	return nil
}

// HoldingPeriodMet reports whether a position started at start may be
// cancelled by its owner at now.
func HoldingPeriodMet(start, now time.Time) bool {
	return !now.Before(start.Add(MinHoldingPeriod))
}

// InvestmentEndDate computes when a position matures.
func InvestmentEndDate(start time.Time, plan *models.InvestmentPlan) time.Time {
	return start.AddDate(0, 0, plan.Duration)
}

// InvestmentService drives the position lifecycle: create while enforcing
// the single-active rule, cancel after the holding period, and
// auto-complete matured positions. Terminal transitions refund the
// principal exactly once; the guard filter on status=active makes a second
// attempt a no-op error instead of a double credit.
type InvestmentService struct {
	DB     *mongo.Database
	Ledger *LedgerService
	Lock   *UserLock
}

func NewInvestmentService(db *mongo.Database, ledger *LedgerService, lock *UserLock) *InvestmentService {
	return &InvestmentService{DB: db, Ledger: ledger, Lock: lock}
}

// Create opens a new position: debits the principal and inserts the active
// investment plus its ledger record in one store transaction. The per-user
// lock closes the window between the single-active check and the insert.
func (s *InvestmentService) Create(ctx context.Context, userID primitive.ObjectID, req models.InvestRequest) (*models.Investment, error) {
	planID, err := primitive.ObjectIDFromHex(req.PlanID)
	if err != nil {
		return nil, ErrNotFound
	}

	release, err := s.Lock.Acquire(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer release()

	var plan models.InvestmentPlan
	err = s.DB.Collection("investment_plans").FindOne(ctx, bson.M{"_id": planID}).Decode(&plan)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var user models.User
	err = s.DB.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	active, err := s.DB.Collection("investments").CountDocuments(ctx, bson.M{
		"userId": userID,
		"status": models.InvestmentStatusActive,
	})
	if err != nil {
		return nil, err
	}
	if active > 0 {
		return nil, ErrActiveInvestment
	}

	amount := utils.RoundAmount(req.Amount)
	if err := ValidateInvestmentAmount(&plan, amount, user.Balance); err != nil {
		return nil, err
	}

	now := time.Now()
	investment := &models.Investment{
		ID:               primitive.NewObjectID(),
		UserID:           userID,
		InvestmentPlanID: plan.ID,
		Amount:           amount,
		StartDate:        now,
		EndDate:          InvestmentEndDate(now, &plan),
		Status:           models.InvestmentStatusActive,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	err = runAtomic(ctx, s.DB, func(sc mongo.SessionContext) error {
		_, err := s.Ledger.applyDeltaTx(sc, userID, -amount, models.TransactionTypeInvestment, models.TransactionStatusCompleted, TransactionMeta{
			InvestmentID: &investment.ID,
			Notes:        plan.Name,
		})
		if err != nil {
			return err
		}
		_, err = s.DB.Collection("investments").InsertOne(sc, investment)
		return err
	})
	if err != nil {
		return nil, err
	}

	return investment, nil
}

// Cancel closes an active position before maturity and refunds the
// principal. Users must respect the holding period and can only cancel
// their own positions; byAdmin skips both gates.
func (s *InvestmentService) Cancel(ctx context.Context, callerID, investmentID primitive.ObjectID, byAdmin bool) (*models.Investment, error) {
	var investment models.Investment
	err := s.DB.Collection("investments").FindOne(ctx, bson.M{"_id": investmentID}).Decode(&investment)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if !byAdmin && investment.UserID != callerID {
		return nil, ErrNotFound
	}
	if investment.Status != models.InvestmentStatusActive {
		return nil, ErrInvalidState
	}
	if !byAdmin && !HoldingPeriodMet(investment.StartDate, time.Now()) {
		return nil, ErrHoldingPeriod
	}

	release, err := s.Lock.Acquire(ctx, investment.UserID)
	if err != nil {
		return nil, err
	}
	defer release()

	if err := s.closePosition(ctx, &investment, models.InvestmentStatusCancelled); err != nil {
		return nil, err
	}
	return &investment, nil
}

// AutoCompleteForUser completes any of the user's positions whose end date
// has passed. Called lazily before profit claims and wallet reads so a
// matured position never yields past its end date.
func (s *InvestmentService) AutoCompleteForUser(ctx context.Context, userID primitive.ObjectID) error {
	cursor, err := s.DB.Collection("investments").Find(ctx, bson.M{
		"userId":  userID,
		"status":  models.InvestmentStatusActive,
		"endDate": bson.M{"$lte": time.Now()},
	})
	if err != nil {
		return err
	}
	var matured []models.Investment
	if err := cursor.All(ctx, &matured); err != nil {
		return err
	}

	for i := range matured {
		if err := s.closePosition(ctx, &matured[i], models.InvestmentStatusCompleted); err != nil && err != ErrInvalidState {
			return err
		}
	}
	return nil
}

// SweepMatured completes every matured position across all users. Runs on
// the cron schedule.
func (s *InvestmentService) SweepMatured(ctx context.Context) (int, error) {
	cursor, err := s.DB.Collection("investments").Find(ctx, bson.M{
		"status":  models.InvestmentStatusActive,
		"endDate": bson.M{"$lte": time.Now()},
	})
	if err != nil {
		return 0, err
	}
	var matured []models.Investment
	if err := cursor.All(ctx, &matured); err != nil {
		return 0, err
	}

	completed := 0
	for i := range matured {
		release, err := s.Lock.Acquire(ctx, matured[i].UserID)
		if err != nil {
			// Busy user; the next sweep will pick this position up.
			continue
		}
		err = s.closePosition(ctx, &matured[i], models.InvestmentStatusCompleted)
		release()
		if err != nil {
			if err == ErrInvalidState {
				continue
			}
			log.Printf("Failed to auto-complete investment %s: %v", matured[i].ID.Hex(), err)
			continue
		}
		completed++
	}
	return completed, nil
}

// closePosition flips an active position to its terminal status and
// refunds the principal, in one store transaction. The status guard inside
// the same transaction is what makes the refund happen at most once.
func (s *InvestmentService) closePosition(ctx context.Context, investment *models.Investment, status string) error {
	now := time.Now()
	err := runAtomic(ctx, s.DB, func(sc mongo.SessionContext) error {
		res, err := s.DB.Collection("investments").UpdateOne(sc, bson.M{
			"_id":    investment.ID,
			"status": models.InvestmentStatusActive,
		}, bson.M{
			"$set": bson.M{"status": status, "updatedAt": now},
		})
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return ErrInvalidState
		}

		notes := "investment principal refund"
		if status == models.InvestmentStatusCancelled {
			notes = "cancelled investment principal refund"
		}
		_, err = s.Ledger.applyDeltaTx(sc, investment.UserID, investment.Amount, models.TransactionTypeBalanceAdjustment, models.TransactionStatusCompleted, TransactionMeta{
			InvestmentID: &investment.ID,
			Notes:        notes,
		})
		return err
	})
	if err != nil {
		return err
	}

	investment.Status = status
	investment.UpdatedAt = now
	return nil
}
