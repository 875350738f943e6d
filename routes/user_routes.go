package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Ghaliaa/maxprofit_backend/controllers"
	"github.com/Ghaliaa/maxprofit_backend/middleware"
	"github.com/Ghaliaa/maxprofit_backend/services"
	"github.com/Ghaliaa/maxprofit_backend/utils"
	"github.com/Ghaliaa/maxprofit_backend/websocket"
)

// RegisterUserRoutes sets up all user-facing protected routes
func RegisterUserRoutes(e *echo.Echo, db *mongo.Client, deps *Services, hub *websocket.Hub) {
	userController := controllers.NewUserController(db)
	walletController := controllers.NewWalletController(db, deps.Wallet, deps.Investments)
	investmentController := controllers.NewInvestmentController(db, deps.Investments)
	profitController := controllers.NewProfitController(db, deps.Profit)
	bountyController := controllers.NewBountyController(db, deps.Bounties)
	referralController := controllers.NewReferralController(db)
	contentController := controllers.NewContentController(db)

	// Public read-only routes
	e.GET("/api/plans", investmentController.GetPlans)
	e.GET("/api/announcement", contentController.GetAnnouncement)
	e.GET("/api/settings", contentController.GetSettings)

	// Protected routes group
	r := e.Group("/api")
	r.Use(middleware.JWTMiddleware())

	// Profile
	r.GET("/users/profile", userController.GetProfile)
	r.GET("/users/notifications", contentController.GetNotifications)
	r.PUT("/users/fcm-token", contentController.UpdateFCMToken)

	// Wallet
	r.GET("/wallet", walletController.GetWallet)
	r.GET("/wallet/transactions", walletController.GetTransactions)
	r.POST("/wallet/deposit", walletController.RequestDeposit)
	r.POST("/wallet/withdraw", walletController.RequestWithdrawal)

	// Investments
	r.GET("/investments", investmentController.GetMyInvestments)
	r.POST("/investments", investmentController.CreateInvestment)
	r.POST("/investments/:id/cancel", investmentController.CancelInvestment)

	// Daily profit
	r.POST("/profit/claim", profitController.Claim)

	// Referrals
	r.GET("/referral", referralController.GetReferralData)

	// Bounties
	r.GET("/bounties", bountyController.GetBounties)
	r.GET("/bounties/submissions", bountyController.GetMySubmissions)
	r.POST("/bounties/:id/submit", bountyController.SubmitBounty)

	// Ledger event feed
	r.GET("/ws", func(c echo.Context) error {
		userID, err := utils.GetUserIDFromToken(c)
		if err != nil {
			return echo.ErrUnauthorized
		}
		return websocket.HandleWebSocket(c, hub, userID)
	})
}

// Services bundles the shared service layer handed to the route
// registrars so both route groups wire against the same instances.
type Services struct {
	Ledger      *services.LedgerService
	Commission  *services.CommissionService
	Wallet      *services.WalletService
	Investments *services.InvestmentService
	Profit      *services.ProfitService
	Bounties    *services.BountyService
}
