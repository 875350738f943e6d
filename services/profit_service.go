// services/profit_service.go
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

// ClaimWindow is the rolling window within which daily profit can be
// claimed once.
const ClaimWindow = 24 * time.Hour

// ClaimEligible reports whether a user whose last claim was at last may
// claim again at now.
func ClaimEligible(last *time.Time, now time.Time) bool {
	if last == nil {
		return true
	}
	return !now.Before(last.Add(ClaimWindow))
}

// DailyProfitTotal sums one day of yield across active positions:
// amount * dailyReturn / 100 per position, rounded to cents.
func DailyProfitTotal(investments []models.Investment, plans map[primitive.ObjectID]models.InvestmentPlan) float64 {
	var total float64
	for i := range investments {
		plan, ok := plans[investments[i].InvestmentPlanID]
		if !ok {
			continue
		}
		total += investments[i].Amount * plan.DailyReturn / 100
	}
	return utils.RoundAmount(total)
}

// ProfitService credits the aggregate daily yield of a user's active
// positions, at most once per rolling 24 hours. The claim button sits
// behind a multi-second spinner in the UI, which makes double submission
// the most likely race in the whole system; the guard is a single
// compare-and-set on the user document.
type ProfitService struct {
	DB          *mongo.Database
	Ledger      *LedgerService
	Investments *InvestmentService
	Lock        *UserLock
}

func NewProfitService(db *mongo.Database, ledger *LedgerService, investments *InvestmentService, lock *UserLock) *ProfitService {
	return &ProfitService{DB: db, Ledger: ledger, Investments: investments, Lock: lock}
}

// Claim credits one day of yield and stamps lastProfitClaim. A concurrent
// claim that loses the compare-and-set gets ErrAlreadyClaimed and no
// credit.
func (s *ProfitService) Claim(ctx context.Context, userID primitive.ObjectID) (float64, error) {
	release, err := s.Lock.Acquire(ctx, userID)
	if err != nil {
		return 0, err
	}
	defer release()

	// Matured positions stop yielding before the claim is computed.
	if err := s.Investments.AutoCompleteForUser(ctx, userID); err != nil {
		return 0, err
	}

	cursor, err := s.DB.Collection("investments").Find(ctx, bson.M{
		"userId": userID,
		"status": models.InvestmentStatusActive,
	})
	if err != nil {
		return 0, err
	}
	var active []models.Investment
	if err := cursor.All(ctx, &active); err != nil {
		return 0, err
	}
	if len(active) == 0 {
		return 0, ErrNothingToClaim
	}

	planIDs := make([]primitive.ObjectID, 0, len(active))
	for i := range active {
		planIDs = append(planIDs, active[i].InvestmentPlanID)
	}
	planCursor, err := s.DB.Collection("investment_plans").Find(ctx, bson.M{"_id": bson.M{"$in": planIDs}})
	if err != nil {
		return 0, err
	}
	var planDocs []models.InvestmentPlan
	if err := planCursor.All(ctx, &planDocs); err != nil {
		return 0, err
	}
	plans := make(map[primitive.ObjectID]models.InvestmentPlan, len(planDocs))
	for _, p := range planDocs {
		plans[p.ID] = p
	}

	total := DailyProfitTotal(active, plans)
	if total <= 0 {
		return 0, ErrNothingToClaim
	}

	now := time.Now()
	cutoff := now.Add(-ClaimWindow)

	var tx *models.Transaction
	err = runAtomic(ctx, s.DB, func(sc mongo.SessionContext) error {
		// Eligibility is re-checked inside the update filter itself:
		// whoever wins this compare-and-set is the only caller that
		// credits within the window.
		res := s.DB.Collection("users").FindOneAndUpdate(sc, bson.M{
			"_id": userID,
			"$or": []bson.M{
				{"lastProfitClaim": nil},
				{"lastProfitClaim": bson.M{"$lte": cutoff}},
			},
		}, bson.M{
			"$inc": bson.M{"balance": total, "dailyProfitClaims": 1},
			"$set": bson.M{"lastProfitClaim": now, "updatedAt": now},
		})
		if err := res.Err(); err != nil {
			if err == mongo.ErrNoDocuments {
				count, countErr := s.DB.Collection("users").CountDocuments(sc, bson.M{"_id": userID})
				if countErr != nil {
					return countErr
				}
				if count == 0 {
					return ErrUserNotFound
				}
				return ErrAlreadyClaimed
			}
			return err
		}

		tx = &models.Transaction{
			ID:              primitive.NewObjectID(),
			UserID:          userID,
			Type:            models.TransactionTypeProfit,
			Amount:          total,
			Status:          models.TransactionStatusCompleted,
			TransactionDate: now,
			ProcessedAt:     &now,
			Notes:           "daily profit claim",
		}
		_, err := s.DB.Collection("transactions").InsertOne(sc, tx)
		return err
	})
	if err != nil {
		return 0, err
	}

	s.Ledger.publish(userID, tx)
	return total, nil
}
