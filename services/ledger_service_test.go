package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Ghaliaa/maxprofit_backend/models"
)

// Walks a user through a full lifecycle and checks the transaction log
// reconstructs the balance the individual operations would have left.
func TestReconstructBalance(t *testing.T) {
	log := []models.Transaction{
		// Approved deposit of 1000
		{Type: models.TransactionTypeDeposit, Amount: 1000, Status: models.TransactionStatusCompleted},
		// Investment of 200 opened (debit at creation, any status)
		{Type: models.TransactionTypeInvestment, Amount: 200, Status: models.TransactionStatusCompleted},
		// One daily profit claim at 2 percent
		{Type: models.TransactionTypeProfit, Amount: 4, Status: models.TransactionStatusCompleted},
		// Investment matured, principal refunded
		{Type: models.TransactionTypeBalanceAdjustment, Amount: 200, Status: models.TransactionStatusCompleted},
		// Withdrawal of 50 rejected: the optimistic debit and the refund cancel out
		{Type: models.TransactionTypeWithdrawal, Amount: 50, Status: models.TransactionStatusFailed},
		// Withdrawal of 100 still pending review: debit already taken
		{Type: models.TransactionTypeWithdrawal, Amount: 100, Status: models.TransactionStatusPending},
		// Referral bonus from a downline deposit
		{Type: models.TransactionTypeReferralBonus, Amount: 5, Status: models.TransactionStatusCompleted},
	}

	// 1000 - 200 + 4 + 200 + 0 - 100 + 5
	assert.Equal(t, 909.00, ReconstructBalance(log))
}

func TestReconstructBalanceIgnoresPendingCredits(t *testing.T) {
	log := []models.Transaction{
		{Type: models.TransactionTypeDeposit, Amount: 500, Status: models.TransactionStatusPending},
		{Type: models.TransactionTypeDeposit, Amount: 300, Status: models.TransactionStatusFailed},
		{Type: models.TransactionTypeBountyReward, Amount: 25, Status: models.TransactionStatusPending},
	}

	assert.Equal(t, 0.00, ReconstructBalance(log))
}

func TestReconstructBalanceAdminAdjustments(t *testing.T) {
	log := []models.Transaction{
		{Type: models.TransactionTypeDeposit, Amount: 100, Status: models.TransactionStatusCompleted},
		{Type: models.TransactionTypeBalanceAdjustment, Amount: 30, Status: models.TransactionStatusCompleted, IsDebit: true},
		{Type: models.TransactionTypeBalanceAdjustment, Amount: 10, Status: models.TransactionStatusCompleted},
	}

	assert.Equal(t, 80.00, ReconstructBalance(log))
}

func TestReconstructBalanceEmptyLog(t *testing.T) {
	assert.Equal(t, 0.00, ReconstructBalance(nil))
}
