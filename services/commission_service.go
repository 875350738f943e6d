// services/commission_service.go
package services

import (
	"context"
	"log"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Ghaliaa/maxprofit_backend/models"
	"github.com/Ghaliaa/maxprofit_backend/utils"
)

// Fallback rates used when the settings document is missing. Percent.
const (
	defaultBaseRate   = 3.0
	defaultLevel2Rate = 1.0
)

// CommissionPolicy is an immutable snapshot of the commission
// configuration, loaded once before a deposit approval runs. The cascade
// never reads settings or ranks mid-flight, so an admin editing rates
// while an approval is in progress cannot split one payout across two
// rate tables.
type CommissionPolicy struct {
	BaseRate   float64 // Level-1 percent for referrers without a rank
	Level2Rate float64 // flat Level-2 percent, independent of rank
	Ranks      []models.PartnerRank
}

// Level1Rate resolves the Level-1 commission percent for a referrer. The
// stored rank field is authoritative; the rate shown on the referrer's
// dashboard is the rate paid out. Duplicate rank names resolve to the
// highest goal so the lookup is deterministic.
func (p CommissionPolicy) Level1Rate(storedRank string) float64 {
	if storedRank == models.RankNone {
		return p.BaseRate
	}

	best := -1
	for i := range p.Ranks {
		if p.Ranks[i].Name != storedRank {
			continue
		}
		if best == -1 || p.Ranks[i].Goal > p.Ranks[best].Goal {
			best = i
		}
	}
	if best == -1 {
		// Stored rank no longer exists in the rank table.
		return p.BaseRate
	}
	return p.Ranks[best].Commission
}

// CommissionAmounts computes the Level-1 and Level-2 payouts for a
// completed deposit, rounded to cents.
func CommissionAmounts(depositAmount float64, policy CommissionPolicy, l1StoredRank string) (l1, l2 float64) {
	l1 = utils.RoundAmount(depositAmount * policy.Level1Rate(l1StoredRank) / 100)
	l2 = utils.RoundAmount(depositAmount * policy.Level2Rate / 100)
	return l1, l2
}

// DeriveRank returns the name of the highest rank whose goal the team
// total meets, or RankNone. Ties on goal break on higher commission, then
// name, so recomputation is deterministic.
func DeriveRank(teamTotalDeposit float64, ranks []models.PartnerRank) string {
	eligible := make([]models.PartnerRank, 0, len(ranks))
	for _, r := range ranks {
		if teamTotalDeposit >= r.Goal {
			eligible = append(eligible, r)
		}
	}
	if len(eligible) == 0 {
		return models.RankNone
	}

	sort.Slice(eligible, func(i, j int) bool {
		if eligible[i].Goal != eligible[j].Goal {
			return eligible[i].Goal > eligible[j].Goal
		}
		if eligible[i].Commission != eligible[j].Commission {
			return eligible[i].Commission > eligible[j].Commission
		}
		return eligible[i].Name < eligible[j].Name
	})
	return eligible[0].Name
}

// CommissionService owns the referral side of the ledger: rate snapshots,
// the two-level payout math, and the derived team/rank recomputation.
type CommissionService struct {
	DB *mongo.Database
}

func NewCommissionService(db *mongo.Database) *CommissionService {
	return &CommissionService{DB: db}
}

// LoadPolicy snapshots the current commission configuration.
func (s *CommissionService) LoadPolicy(ctx context.Context) (CommissionPolicy, error) {
	policy := CommissionPolicy{
		BaseRate:   defaultBaseRate,
		Level2Rate: defaultLevel2Rate,
	}

	var settings models.Settings
	err := s.DB.Collection("settings").FindOne(ctx, bson.M{}).Decode(&settings)
	if err == nil {
		if settings.ReferralBaseRate > 0 {
			policy.BaseRate = settings.ReferralBaseRate
		}
		if settings.ReferralLevel2Rate > 0 {
			policy.Level2Rate = settings.ReferralLevel2Rate
		}
	} else if err != mongo.ErrNoDocuments {
		return CommissionPolicy{}, err
	}

	cursor, err := s.DB.Collection("partner_ranks").Find(ctx, bson.M{})
	if err != nil {
		return CommissionPolicy{}, err
	}
	defer cursor.Close(ctx)
	if err := cursor.All(ctx, &policy.Ranks); err != nil {
		return CommissionPolicy{}, err
	}

	return policy, nil
}

// payDepositCommissions walks the referrer chain of a completed deposit
// inside an already-open session: Level-1 gets the tiered rate plus a
// Referral audit record, Level-2 gets the flat rate and a bonus
// transaction only. Missing referrer documents abort the whole session.
func (s *CommissionService) payDepositCommissions(sc mongo.SessionContext, ledger *LedgerService, depositor *models.User, deposit *models.Transaction, policy CommissionPolicy) error {
	if depositor.ReferrerID == nil {
		return nil
	}

	var level1 models.User
	err := s.DB.Collection("users").FindOne(sc, bson.M{"_id": *depositor.ReferrerID}).Decode(&level1)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return ErrUserNotFound
		}
		return err
	}

	l1Bonus, l2Bonus := CommissionAmounts(deposit.Amount, policy, level1.Rank)

	if l1Bonus > 0 {
		notes := "Level-1 referral commission for deposit by " + depositor.Username
		_, err = ledger.applyDeltaTx(sc, level1.ID, l1Bonus, models.TransactionTypeReferralBonus, models.TransactionStatusCompleted, TransactionMeta{
			TransactionID: deposit.ID.Hex(),
			Notes:         notes,
		})
		if err != nil {
			return err
		}

		referral := models.Referral{
			ID:               primitive.NewObjectID(),
			ReferrerID:       level1.ID,
			ReferredID:       depositor.ID,
			ReferredUsername: depositor.Username,
			ReferralDate:     time.Now(),
			BonusAmount:      l1Bonus,
			DepositAmount:    deposit.Amount,
		}
		if _, err := s.DB.Collection("referrals").InsertOne(sc, referral); err != nil {
			return err
		}
	}

	// Level-2: flat rate, bonus transaction only. The source design keeps
	// no Referral audit record at this level.
	if level1.ReferrerID != nil && l2Bonus > 0 {
		notes := "Level-2 referral commission for deposit by " + depositor.Username
		_, err = ledger.applyDeltaTx(sc, *level1.ReferrerID, l2Bonus, models.TransactionTypeReferralBonus, models.TransactionStatusCompleted, TransactionMeta{
			TransactionID: deposit.ID.Hex(),
			Notes:         notes,
		})
		if err != nil {
			return err
		}
	}

	return nil
}

// RecheckRank recomputes a referrer's teamTotalDeposit from the completed
// deposits of their direct referrals and re-derives the stored rank from
// the current rank table. The cached aggregate is never trusted as a
// source of truth; this is the recomputation path.
func (s *CommissionService) RecheckRank(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := s.DB.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	// Collect direct referral ids
	cursor, err := s.DB.Collection("users").Find(ctx, bson.M{"referrerId": userID})
	if err != nil {
		return nil, err
	}
	var team []models.User
	if err := cursor.All(ctx, &team); err != nil {
		return nil, err
	}

	teamIDs := make([]primitive.ObjectID, 0, len(team))
	for _, member := range team {
		teamIDs = append(teamIDs, member.ID)
	}

	teamTotal := 0.0
	if len(teamIDs) > 0 {
		pipeline := mongo.Pipeline{
			{{Key: "$match", Value: bson.M{
				"userId": bson.M{"$in": teamIDs},
				"type":   models.TransactionTypeDeposit,
				"status": models.TransactionStatusCompleted,
			}}},
			{{Key: "$group", Value: bson.M{
				"_id":   nil,
				"total": bson.M{"$sum": "$amount"},
			}}},
		}
		aggCursor, err := s.DB.Collection("transactions").Aggregate(ctx, pipeline)
		if err != nil {
			return nil, err
		}
		var result []bson.M
		if err := aggCursor.All(ctx, &result); err != nil {
			return nil, err
		}
		if len(result) > 0 {
			if total, ok := result[0]["total"].(float64); ok {
				teamTotal = total
			}
		}
	}
	teamTotal = utils.RoundAmount(teamTotal)

	policy, err := s.LoadPolicy(ctx)
	if err != nil {
		return nil, err
	}
	newRank := DeriveRank(teamTotal, policy.Ranks)

	if newRank != user.Rank || teamTotal != user.TeamTotalDeposit {
		log.Printf("Rank recheck for %s: teamTotal %.2f -> %.2f, rank %q -> %q",
			userID.Hex(), user.TeamTotalDeposit, teamTotal, user.Rank, newRank)
	}

	_, err = s.DB.Collection("users").UpdateOne(ctx, bson.M{"_id": userID}, bson.M{
		"$set": bson.M{
			"teamTotalDeposit": teamTotal,
			"rank":             newRank,
			"updatedAt":        time.Now(),
		},
	})
	if err != nil {
		return nil, err
	}

	user.TeamTotalDeposit = teamTotal
	user.Rank = newRank
	return &user, nil
}
