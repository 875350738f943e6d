package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Ghaliaa/maxprofit_backend/controllers"
	"github.com/Ghaliaa/maxprofit_backend/middleware"
	"github.com/Ghaliaa/maxprofit_backend/websocket"
)

// RegisterAdminRoutes sets up the admin review and catalog routes
func RegisterAdminRoutes(e *echo.Echo, db *mongo.Client, deps *Services, hub *websocket.Hub) {
	adminController := controllers.NewAdminController(db, deps.Wallet, deps.Investments, deps.Bounties, deps.Commission, hub)
	catalogController := controllers.NewAdminCatalogController(db, hub)
	userController := controllers.NewUserController(db)

	r := e.Group("/api/admin")
	r.Use(middleware.JWTMiddleware())
	r.Use(middleware.RequireAdmin())

	// Review queues
	r.GET("/deposits/pending", adminController.GetPendingDeposits)
	r.POST("/deposits/:id/review", adminController.ReviewDeposit)
	r.GET("/withdrawals/pending", adminController.GetPendingWithdrawals)
	r.POST("/withdrawals/:id/review", adminController.ReviewWithdrawal)
	r.GET("/bounty-submissions/pending", adminController.GetPendingSubmissions)
	r.POST("/bounty-submissions/:id/settle", adminController.SettleSubmission)

	// Money operations
	r.POST("/investments/:id/cancel", adminController.CancelInvestment)
	r.POST("/users/:id/adjust-balance", adminController.AdjustBalance)
	r.POST("/users/:id/recheck-rank", adminController.RecheckRank)
	r.PUT("/transactions/:id/hide", adminController.HideTransaction)

	// Account management
	r.POST("/users", userController.CreateUser)
	r.GET("/users", adminController.GetUsers)
	r.GET("/users/:id/transactions", adminController.GetUserTransactions)
	r.GET("/users/:id/audit", adminController.AuditUserBalance)

	// Investment plans
	r.POST("/plans", catalogController.CreatePlan)
	r.PUT("/plans/:id", catalogController.UpdatePlan)
	r.DELETE("/plans/:id", catalogController.DeletePlan)

	// Partner ranks
	r.GET("/ranks", catalogController.GetRanks)
	r.POST("/ranks", catalogController.CreateRank)
	r.PUT("/ranks/:id", catalogController.UpdateRank)
	r.DELETE("/ranks/:id", catalogController.DeleteRank)

	// Bounties
	r.POST("/bounties", catalogController.CreateBounty)
	r.PUT("/bounties/:id", catalogController.UpdateBounty)
	r.DELETE("/bounties/:id", catalogController.DeleteBounty)

	// Site singletons
	r.PUT("/settings", catalogController.UpdateSettings)
	r.PUT("/announcement", catalogController.UpdateAnnouncement)
}
