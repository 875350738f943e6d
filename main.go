package main

import (
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/Ghaliaa/maxprofit_backend/config"
	"github.com/Ghaliaa/maxprofit_backend/middleware"
	"github.com/Ghaliaa/maxprofit_backend/routes"
	"github.com/Ghaliaa/maxprofit_backend/scheduler"
	"github.com/Ghaliaa/maxprofit_backend/services"
	"github.com/Ghaliaa/maxprofit_backend/websocket"
)

// CustomValidator is a custom validator for Echo
type CustomValidator struct {
	validator *validator.Validate
}

// Validate validates the request body
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func main() {
	// Load .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found")
	}

	// Initialize Firebase (optional, push delivery only)
	config.InitFirebase()

	// Connect to Redis (per-user ledger locks)
	config.ConnectRedis()

	// Connect to database
	client := config.ConnectDB()
	db := client.Database(config.DatabaseName())

	// Create WebSocket hub for the ledger event feed
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Service layer. All balance movement goes through the ledger
	// service; the per-user lock serializes the racy request paths.
	userLock := services.NewUserLock(config.RedisClient)
	ledger := services.NewLedgerService(db, wsHub)
	commission := services.NewCommissionService(db)
	wallet := services.NewWalletService(db, ledger, commission, userLock)
	investments := services.NewInvestmentService(db, ledger, userLock)
	profit := services.NewProfitService(db, ledger, investments, userLock)
	bounties := services.NewBountyService(db, ledger)

	deps := &routes.Services{
		Ledger:      ledger,
		Commission:  commission,
		Wallet:      wallet,
		Investments: investments,
		Profit:      profit,
		Bounties:    bounties,
	}

	// Create a new Echo instance
	e := echo.New()

	// Initialize custom validator
	customValidator := &CustomValidator{validator: validator.New()}
	e.Validator = customValidator

	// Initialize rate limiter
	rateLimiter := middleware.NewRateLimiter()

	// Middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(middleware.GlobalCORS())
	e.Use(rateLimiter.RateLimit())
	e.Use(middleware.SecurityHeaders())

	e.Match([]string{"GET", "HEAD"}, "/", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status":  "OK",
			"message": "MaxProfit Backend is running",
			"version": "1.0",
		})
	})

	e.Match([]string{"GET", "HEAD"}, "/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status":   "healthy",
			"database": "connected",
		})
	})

	e.Use(httpsRedirect())

	// Register routes
	routes.RegisterUserRoutes(e, client, deps, wsHub)
	routes.RegisterAdminRoutes(e, client, deps, wsHub)

	// Background jobs: matured investment sweep, nightly rank recheck
	jobs := scheduler.NewScheduler(db, investments, commission)
	if err := jobs.Start(); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}
	defer jobs.Stop()

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	e.Logger.Fatal(e.Start(":" + port))
}

func httpsRedirect() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Header.Get("X-Forwarded-Proto") == "http" {
				return c.Redirect(301, "https://"+c.Request().Host+c.Request().RequestURI)
			}
			return next(c)
		}
	}
}
