package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Ghaliaa/maxprofit_backend/services"
)

// Scheduler runs the background jobs: settling matured investments and
// recomputing the derived referral rank fields.
type Scheduler struct {
	cron        *cron.Cron
	db          *mongo.Database
	investments *services.InvestmentService
	commission  *services.CommissionService
}

func NewScheduler(db *mongo.Database, investments *services.InvestmentService, commission *services.CommissionService) *Scheduler {
	return &Scheduler{
		cron:        cron.New(),
		db:          db,
		investments: investments,
		commission:  commission,
	}
}

func (s *Scheduler) Start() error {
	// Settle investments whose end date has passed (every 10 minutes)
	_, err := s.cron.AddFunc("*/10 * * * *", s.sweepMaturedInvestments)
	if err != nil {
		return fmt.Errorf("failed to add investment sweep job: %w", err)
	}

	// Recompute team deposit totals and stored ranks (nightly at 03:15)
	_, err = s.cron.AddFunc("15 3 * * *", s.recheckReferrerRanks)
	if err != nil {
		return fmt.Errorf("failed to add rank recheck job: %w", err)
	}

	s.cron.Start()
	log.Println("Cron scheduler started")
	return nil
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("Cron scheduler stopped")
}

// sweepMaturedInvestments completes every active investment past its end
// date and refunds the principal. Lazy settlement on wallet reads covers
// active users; this catches the rest.
func (s *Scheduler) sweepMaturedInvestments() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	settled, err := s.investments.SweepMatured(ctx)
	if err != nil {
		log.Printf("Investment sweep failed: %v", err)
		return
	}
	if settled > 0 {
		log.Printf("Investment sweep settled %d matured positions", settled)
	}
}

// recheckReferrerRanks recomputes teamTotalDeposit and the stored rank
// for every user that has referred someone. The stored values are a
// derived view over the deposit ledger; this keeps them honest after
// rank or rate changes.
func (s *Scheduler) recheckReferrerRanks() {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
	defer cancel()

	referrerIDs, err := s.db.Collection("users").Distinct(ctx, "referrerId", bson.M{"referrerId": bson.M{"$ne": nil}})
	if err != nil {
		log.Printf("Rank recheck: failed to list referrers: %v", err)
		return
	}

	rechecked := 0
	for _, raw := range referrerIDs {
		id, ok := raw.(primitive.ObjectID)
		if !ok {
			continue
		}
		if _, err := s.commission.RecheckRank(ctx, id); err != nil {
			log.Printf("Rank recheck failed for user %s: %v", id.Hex(), err)
			continue
		}
		rechecked++
	}
	log.Printf("Rank recheck completed for %d referrers", rechecked)
}
