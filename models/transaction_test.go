package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignedAmount(t *testing.T) {
	tests := []struct {
		name string
		tx   Transaction
		want float64
	}{
		{"completed deposit credits", Transaction{Type: TransactionTypeDeposit, Amount: 100, Status: TransactionStatusCompleted}, 100},
		{"pending deposit is nothing yet", Transaction{Type: TransactionTypeDeposit, Amount: 100, Status: TransactionStatusPending}, 0},
		{"failed deposit is nothing", Transaction{Type: TransactionTypeDeposit, Amount: 100, Status: TransactionStatusFailed}, 0},

		{"pending withdrawal already debited", Transaction{Type: TransactionTypeWithdrawal, Amount: 50, Status: TransactionStatusPending}, -50},
		{"completed withdrawal stays debited", Transaction{Type: TransactionTypeWithdrawal, Amount: 50, Status: TransactionStatusCompleted}, -50},
		{"failed withdrawal nets to zero", Transaction{Type: TransactionTypeWithdrawal, Amount: 50, Status: TransactionStatusFailed}, 0},

		{"investment debits on creation", Transaction{Type: TransactionTypeInvestment, Amount: 200, Status: TransactionStatusCompleted}, -200},

		{"completed profit credits", Transaction{Type: TransactionTypeProfit, Amount: 4, Status: TransactionStatusCompleted}, 4},
		{"completed referral bonus credits", Transaction{Type: TransactionTypeReferralBonus, Amount: 5, Status: TransactionStatusCompleted}, 5},
		{"completed bounty reward credits", Transaction{Type: TransactionTypeBountyReward, Amount: 10, Status: TransactionStatusCompleted}, 10},

		{"credit adjustment", Transaction{Type: TransactionTypeBalanceAdjustment, Amount: 30, Status: TransactionStatusCompleted}, 30},
		{"debit adjustment", Transaction{Type: TransactionTypeBalanceAdjustment, Amount: 30, Status: TransactionStatusCompleted, IsDebit: true}, -30},
		{"pending adjustment is nothing", Transaction{Type: TransactionTypeBalanceAdjustment, Amount: 30, Status: TransactionStatusPending}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.tx.SignedAmount())
		})
	}
}
