package controllers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Ghaliaa/maxprofit_backend/config"
	"github.com/Ghaliaa/maxprofit_backend/middleware"
	"github.com/Ghaliaa/maxprofit_backend/models"
	"github.com/Ghaliaa/maxprofit_backend/services"
	"github.com/Ghaliaa/maxprofit_backend/utils"
	"github.com/Ghaliaa/maxprofit_backend/websocket"
)

// AdminController handles the review queues and the admin-only money
// operations. All routes sit behind the admin middleware.
type AdminController struct {
	DB          *mongo.Client
	Wallet      *services.WalletService
	Investments *services.InvestmentService
	Bounties    *services.BountyService
	Commission  *services.CommissionService
	Hub         *websocket.Hub
}

// NewAdminController creates a new admin controller
func NewAdminController(db *mongo.Client, wallet *services.WalletService, investments *services.InvestmentService, bounties *services.BountyService, commission *services.CommissionService, hub *websocket.Hub) *AdminController {
	return &AdminController{
		DB:          db,
		Wallet:      wallet,
		Investments: investments,
		Bounties:    bounties,
		Commission:  commission,
		Hub:         hub,
	}
}

// pushReviewUpdate notifies the affected user over the event feed that an
// admin decided on one of their pending requests. Best effort only.
func (ac *AdminController) pushReviewUpdate(tx *models.Transaction) {
	ac.Hub.SendToUser(tx.UserID, websocket.Notification{
		Type:    websocket.NotificationTypeReviewUpdate,
		Message: "Your " + tx.Type + " request has been reviewed",
		Data:    tx,
		UserID:  tx.UserID.Hex(),
	})
}

func (ac *AdminController) pendingTransactions(c echo.Context, txType string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := config.GetCollection(ac.DB, "transactions")
	opts := options.Find().SetSort(bson.M{"transactionDate": 1})
	cursor, err := collection.Find(ctx, bson.M{
		"type":   txType,
		"status": models.TransactionStatusPending,
	}, opts)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve pending transactions",
		})
	}
	defer cursor.Close(ctx)

	transactions := []models.Transaction{}
	if err = cursor.All(ctx, &transactions); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode pending transactions",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Pending transactions retrieved successfully",
		Data:    transactions,
	})
}

// GetPendingDeposits returns the deposit review queue, oldest first.
func (ac *AdminController) GetPendingDeposits(c echo.Context) error {
	return ac.pendingTransactions(c, models.TransactionTypeDeposit)
}

// GetPendingWithdrawals returns the withdrawal review queue, oldest first.
func (ac *AdminController) GetPendingWithdrawals(c echo.Context) error {
	return ac.pendingTransactions(c, models.TransactionTypeWithdrawal)
}

// ReviewDeposit approves or rejects a pending deposit. Approval credits
// the depositor and pays the referral commission cascade atomically.
func (ac *AdminController) ReviewDeposit(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	adminID := middleware.ExtractUserID(c)
	txID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return badRequest(c, "Invalid transaction ID")
	}

	var req models.ReviewRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, err.Error())
	}

	tx, err := ac.Wallet.ReviewDeposit(ctx, txID, req.Decision, req.Note, adminID)
	if err != nil {
		log.Printf("Deposit review failed for tx %s: %v", txID.Hex(), err)
		return serviceError(c, err)
	}

	title := "Deposit approved"
	message := fmt.Sprintf("Your deposit of %.2f has been approved and credited to your balance.", tx.Amount)
	if tx.Status == models.TransactionStatusFailed {
		title = "Deposit rejected"
		message = fmt.Sprintf("Your deposit of %.2f was rejected.", tx.Amount)
		if req.Note != "" {
			message += " Reason: " + req.Note
		}
	}
	go utils.NotifyUser(ac.DB, tx.UserID, title, message, "deposit_review", map[string]string{
		"transactionId": tx.ID.Hex(),
		"status":        tx.Status,
	})
	ac.pushReviewUpdate(tx)

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Deposit reviewed successfully",
		Data:    tx,
	})
}

// ReviewWithdrawal approves or rejects a pending withdrawal. Rejection
// refunds the amount debited at request time, exactly once.
func (ac *AdminController) ReviewWithdrawal(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	adminID := middleware.ExtractUserID(c)
	txID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return badRequest(c, "Invalid transaction ID")
	}

	var req models.ReviewRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, err.Error())
	}

	tx, err := ac.Wallet.ReviewWithdrawal(ctx, txID, req.Decision, req.Note, adminID)
	if err != nil {
		log.Printf("Withdrawal review failed for tx %s: %v", txID.Hex(), err)
		return serviceError(c, err)
	}

	title := "Withdrawal completed"
	message := fmt.Sprintf("Your withdrawal of %.2f has been processed.", tx.Amount)
	if tx.Status == models.TransactionStatusFailed {
		title = "Withdrawal rejected"
		message = fmt.Sprintf("Your withdrawal of %.2f was rejected and the amount returned to your balance.", tx.Amount)
		if req.Note != "" {
			message += " Reason: " + req.Note
		}
	}
	go utils.NotifyUser(ac.DB, tx.UserID, title, message, "withdrawal_review", map[string]string{
		"transactionId": tx.ID.Hex(),
		"status":        tx.Status,
	})
	ac.pushReviewUpdate(tx)

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Withdrawal reviewed successfully",
		Data:    tx,
	})
}

// CancelInvestment force-cancels any active investment, skipping the
// holding period.
func (ac *AdminController) CancelInvestment(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	adminID := middleware.ExtractUserID(c)
	investmentID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return badRequest(c, "Invalid investment ID")
	}

	investment, err := ac.Investments.Cancel(ctx, adminID, investmentID, true)
	if err != nil {
		log.Printf("Admin cancel failed for investment %s: %v", investmentID.Hex(), err)
		return serviceError(c, err)
	}

	go utils.NotifyUser(ac.DB, investment.UserID, "Investment cancelled",
		fmt.Sprintf("Your investment of %.2f was cancelled by an administrator and the principal refunded.", investment.Amount),
		"investment_cancelled", map[string]string{"investmentId": investment.ID.Hex()})

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Investment cancelled, principal refunded",
		Data:    investment,
	})
}

// GetPendingSubmissions returns the bounty review queue, oldest first.
func (ac *AdminController) GetPendingSubmissions(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := config.GetCollection(ac.DB, "bounty_submissions")
	opts := options.Find().SetSort(bson.M{"submittedAt": 1})
	cursor, err := collection.Find(ctx, bson.M{"status": models.SubmissionStatusPending}, opts)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve pending submissions",
		})
	}
	defer cursor.Close(ctx)

	submissions := []models.BountySubmission{}
	if err = cursor.All(ctx, &submissions); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode pending submissions",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Pending submissions retrieved successfully",
		Data:    submissions,
	})
}

// SettleSubmission approves or rejects a bounty submission. Approval
// credits the reward exactly once.
func (ac *AdminController) SettleSubmission(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	adminID := middleware.ExtractUserID(c)
	submissionID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return badRequest(c, "Invalid submission ID")
	}

	var req models.SettleRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, err.Error())
	}

	submission, err := ac.Bounties.Settle(ctx, submissionID, req.Decision, req.Note, adminID)
	if err != nil {
		log.Printf("Bounty settlement failed for submission %s: %v", submissionID.Hex(), err)
		return serviceError(c, err)
	}

	title := "Bounty approved"
	message := fmt.Sprintf("Your submission for %q was approved and the reward credited.", submission.BountyTitle)
	if submission.Status == models.SubmissionStatusRejected {
		title = "Bounty rejected"
		message = fmt.Sprintf("Your submission for %q was rejected.", submission.BountyTitle)
		if req.Note != "" {
			message += " Reason: " + req.Note
		}
	}
	go utils.NotifyUser(ac.DB, submission.UserID, title, message, "bounty_settled", map[string]string{
		"submissionId": submission.ID.Hex(),
		"status":       submission.Status,
	})

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Submission settled successfully",
		Data:    submission,
	})
}

// AdjustBalance applies a signed manual correction to a user's balance,
// recorded as a BalanceAdjustment transaction.
func (ac *AdminController) AdjustBalance(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	adminID := middleware.ExtractUserID(c)
	userID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return badRequest(c, "Invalid user ID")
	}

	var req models.AdjustBalanceRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, err.Error())
	}

	tx, err := ac.Wallet.AdjustBalance(ctx, userID, req.Amount, req.Notes, adminID)
	if err != nil {
		log.Printf("Balance adjustment failed for user %s: %v", userID.Hex(), err)
		return serviceError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Balance adjusted successfully",
		Data:    tx,
	})
}

// RecheckRank recomputes a referrer's team deposit total from the ledger
// and re-derives their stored rank.
func (ac *AdminController) RecheckRank(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return badRequest(c, "Invalid user ID")
	}

	user, err := ac.Commission.RecheckRank(ctx, userID)
	if err != nil {
		log.Printf("Rank recheck failed for user %s: %v", userID.Hex(), err)
		return serviceError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Rank rechecked successfully",
		Data: map[string]interface{}{
			"rank":             user.Rank,
			"teamTotalDeposit": user.TeamTotalDeposit,
		},
	})
}

// HideTransaction soft-hides a transaction from the user's history. The
// record itself is immutable and still counts toward the balance.
func (ac *AdminController) HideTransaction(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	txID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return badRequest(c, "Invalid transaction ID")
	}

	var req struct {
		IsHidden bool `json:"isHidden"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	collection := config.GetCollection(ac.DB, "transactions")
	result, err := collection.UpdateOne(ctx, bson.M{"_id": txID},
		bson.M{"$set": bson.M{"isHidden": req.IsHidden}})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update transaction",
		})
	}
	if result.MatchedCount == 0 {
		return serviceError(c, services.ErrNotFound)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Transaction visibility updated",
	})
}

// GetUsers lists user accounts for the admin dashboard. An optional
// minBalance query parameter filters to accounts at or above it.
func (ac *AdminController) GetUsers(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	minBalance, err := utils.ParseFloat(c.QueryParam("minBalance"))
	if err != nil {
		return badRequest(c, "Invalid minBalance value")
	}
	if minBalance > 0 {
		filter["balance"] = bson.M{"$gte": minBalance}
	}

	collection := config.GetCollection(ac.DB, "users")
	opts := options.Find().SetSort(bson.M{"createdAt": -1}).SetLimit(500)
	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve users",
		})
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err = cursor.All(ctx, &users); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode users",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Users retrieved successfully",
		Data:    users,
	})
}

// AuditUserBalance reconstructs a user's balance from their transaction
// log and reports any drift from the stored value.
func (ac *AdminController) AuditUserBalance(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return badRequest(c, "Invalid user ID")
	}

	var user models.User
	err = config.GetCollection(ac.DB, "users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return serviceError(c, services.ErrUserNotFound)
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve user",
		})
	}

	cursor, err := config.GetCollection(ac.DB, "transactions").Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve transactions",
		})
	}
	defer cursor.Close(ctx)

	var transactions []models.Transaction
	if err = cursor.All(ctx, &transactions); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode transactions",
		})
	}

	reconstructed := services.ReconstructBalance(transactions)

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Balance audit completed",
		Data: map[string]interface{}{
			"storedBalance":        user.Balance,
			"reconstructedBalance": reconstructed,
			"drift":                utils.RoundAmount(user.Balance - reconstructed),
			"transactionCount":     len(transactions),
		},
	})
}

// GetUserTransactions returns a user's full history including hidden
// records.
func (ac *AdminController) GetUserTransactions(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return badRequest(c, "Invalid user ID")
	}

	collection := config.GetCollection(ac.DB, "transactions")
	opts := options.Find().SetSort(bson.M{"transactionDate": -1})
	cursor, err := collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve transactions",
		})
	}
	defer cursor.Close(ctx)

	transactions := []models.Transaction{}
	if err = cursor.All(ctx, &transactions); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode transactions",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Transactions retrieved successfully",
		Data:    transactions,
	})
}
