package controllers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Ghaliaa/maxprofit_backend/config"
	"github.com/Ghaliaa/maxprofit_backend/middleware"
	"github.com/Ghaliaa/maxprofit_backend/models"
	"github.com/Ghaliaa/maxprofit_backend/services"
	"github.com/Ghaliaa/maxprofit_backend/utils"
)

// WalletController handles balance reads and user-facing deposit and
// withdrawal requests.
type WalletController struct {
	DB          *mongo.Client
	Service     *services.WalletService
	Investments *services.InvestmentService
}

// NewWalletController creates a new wallet controller
func NewWalletController(db *mongo.Client, service *services.WalletService, investments *services.InvestmentService) *WalletController {
	return &WalletController{DB: db, Service: service, Investments: investments}
}

// GetWallet returns the caller's balance summary. Matured investments are
// settled first so the returned balance already includes their refunds.
func (wc *WalletController) GetWallet(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userID := middleware.ExtractUserID(c)
	if userID.IsZero() {
		return unauthorized(c)
	}

	if err := wc.Investments.AutoCompleteForUser(ctx, userID); err != nil {
		log.Printf("Failed to auto-complete investments for user %s: %v", userID.Hex(), err)
	}

	user, err := utils.GetUserFromToken(c, wc.DB)
	if err != nil {
		return serviceError(c, services.ErrUserNotFound)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Wallet retrieved successfully",
		Data: models.WalletData{
			Balance:           user.Balance,
			TeamTotalDeposit:  user.TeamTotalDeposit,
			LastProfitClaim:   user.LastProfitClaim,
			DailyProfitClaims: user.DailyProfitClaims,
		},
	})
}

// GetTransactions returns the caller's visible transaction history,
// newest first.
func (wc *WalletController) GetTransactions(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userID := middleware.ExtractUserID(c)
	if userID.IsZero() {
		return unauthorized(c)
	}

	collection := config.GetCollection(wc.DB, "transactions")
	opts := options.Find().SetSort(bson.M{"transactionDate": -1})
	cursor, err := collection.Find(ctx, bson.M{"userId": userID, "isHidden": false}, opts)
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

// RequestDeposit records a pending deposit for admin review. The balance
// is not touched until the deposit is approved.
func (wc *WalletController) RequestDeposit(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userID := middleware.ExtractUserID(c)
	if userID.IsZero() {
		return unauthorized(c)
	}

	var req models.DepositRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, err.Error())
	}

	tx, err := wc.Service.RequestDeposit(ctx, userID, req)
	if err != nil {
		log.Printf("Deposit request failed for user %s: %v", userID.Hex(), err)
		return serviceError(c, err)
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Deposit request submitted for review",
		Data:    tx,
	})
}

// RequestWithdrawal debits the balance optimistically and records a
// pending withdrawal for admin review.
func (wc *WalletController) RequestWithdrawal(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userID := middleware.ExtractUserID(c)
	if userID.IsZero() {
		return unauthorized(c)
	}

	var req models.WithdrawRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, err.Error())
	}

	tx, err := wc.Service.RequestWithdrawal(ctx, userID, req)
	if err != nil {
		log.Printf("Withdrawal request failed for user %s: %v", userID.Hex(), err)
		return serviceError(c, err)
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Withdrawal request submitted for review",
		Data:    tx,
	})
}
