// models/transaction.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Transaction types
const (
	TransactionTypeDeposit           = "Deposit"
	TransactionTypeWithdrawal        = "Withdrawal"
	TransactionTypeProfit            = "Profit"
	TransactionTypeReferralBonus     = "Referral Bonus"
	TransactionTypeInvestment        = "Investment"
	TransactionTypeBountyReward      = "Bounty Reward"
	TransactionTypeBalanceAdjustment = "BalanceAdjustment"
)

// Transaction statuses
const (
	TransactionStatusPending   = "Pending"
	TransactionStatusCompleted = "Completed"
	TransactionStatusFailed    = "Failed"
)

// Transaction is one immutable entry in the ledger. Once the status leaves
// Pending only the isHidden flag may change; the record itself is the
// source of truth for historical balance movements.
type Transaction struct {
	ID              primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	UserID          primitive.ObjectID  `json:"userId" bson:"userId"`
	Type            string              `json:"type" bson:"type"`
	Amount          float64             `json:"amount" bson:"amount"` // always positive, direction comes from Type
	Status          string              `json:"status" bson:"status"`
	TransactionDate time.Time           `json:"transactionDate" bson:"transactionDate"`
	PaymentGateway  string              `json:"paymentGateway,omitempty" bson:"paymentGateway,omitempty"`
	TransactionID   string              `json:"transactionId,omitempty" bson:"transactionId,omitempty"` // external tx hash
	DepositProof    string              `json:"depositProof,omitempty" bson:"depositProof,omitempty"`
	WithdrawAddress string              `json:"withdrawAddress,omitempty" bson:"withdrawAddress,omitempty"`
	InvestmentID    *primitive.ObjectID `json:"investmentId,omitempty" bson:"investmentId,omitempty"`
	Notes           string              `json:"notes,omitempty" bson:"notes,omitempty"`
	IsDebit         bool                `json:"isDebit,omitempty" bson:"isDebit,omitempty"` // BalanceAdjustment only: direction of the adjustment
	IsHidden        bool                `json:"isHidden" bson:"isHidden"`
	ProcessedAt     *time.Time          `json:"processedAt,omitempty" bson:"processedAt,omitempty"`
	AdminID         *primitive.ObjectID `json:"adminId,omitempty" bson:"adminId,omitempty"`
}

// SignedAmount returns the balance delta this transaction represents once
// completed. Withdrawals and investments take money out of the balance,
// everything else puts money in. Pending and failed deposits, and failed
// withdrawals, contribute nothing: a failed withdrawal's refund restores
// the optimistic debit taken at request time.
func (t *Transaction) SignedAmount() float64 {
	switch t.Type {
	case TransactionTypeWithdrawal:
		// Debited optimistically at request time, refunded on failure.
		if t.Status == TransactionStatusFailed {
			return 0
		}
		return -t.Amount
	case TransactionTypeInvestment:
		return -t.Amount
	case TransactionTypeBalanceAdjustment:
		// Covers admin corrections and investment principal refunds.
		if t.Status != TransactionStatusCompleted {
			return 0
		}
		if t.IsDebit {
			return -t.Amount
		}
		return t.Amount
	default:
		if t.Status != TransactionStatusCompleted {
			return 0
		}
		return t.Amount
	}
}

type DepositRequest struct {
	Amount         float64 `json:"amount" validate:"required,gt=0"`
	PaymentGateway string  `json:"paymentGateway"`
	TransactionID  string  `json:"transactionId"`
	DepositProof   string  `json:"depositProof"`
}

type WithdrawRequest struct {
	Amount          float64 `json:"amount" validate:"required,gt=0"`
	WithdrawAddress string  `json:"withdrawAddress" validate:"required"`
}

type ReviewRequest struct {
	Decision string `json:"decision" validate:"required,oneof=Completed Failed"`
	Note     string `json:"note"`
}
