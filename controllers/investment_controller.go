package controllers

import (
	"context"
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
)

// InvestmentController handles investment plans and user positions.
type InvestmentController struct {
	DB      *mongo.Client
	Service *services.InvestmentService
}

// NewInvestmentController creates a new investment controller
func NewInvestmentController(db *mongo.Client, service *services.InvestmentService) *InvestmentController {
	return &InvestmentController{DB: db, Service: service}
}

// GetPlans returns all investment plans, popular plans first.
func (ic *InvestmentController) GetPlans(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := config.GetCollection(ic.DB, "investment_plans")
	opts := options.Find().SetSort(bson.D{{Key: "isPopular", Value: -1}, {Key: "minDeposit", Value: 1}})
	cursor, err := collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve investment plans",
		})
	}
	defer cursor.Close(ctx)

	plans := []models.InvestmentPlan{}
	if err = cursor.All(ctx, &plans); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode investment plans",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Investment plans retrieved successfully",
		Data:    plans,
	})
}

// GetMyInvestments returns the caller's investments, newest first.
func (ic *InvestmentController) GetMyInvestments(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userID := middleware.ExtractUserID(c)
	if userID.IsZero() {
		return unauthorized(c)
	}

	if err := ic.Service.AutoCompleteForUser(ctx, userID); err != nil {
		log.Printf("Failed to auto-complete investments for user %s: %v", userID.Hex(), err)
	}

	collection := config.GetCollection(ic.DB, "investments")
	opts := options.Find().SetSort(bson.M{"startDate": -1})
	cursor, err := collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve investments",
		})
	}
	defer cursor.Close(ctx)

	investments := []models.Investment{}
	if err = cursor.All(ctx, &investments); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode investments",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Investments retrieved successfully",
		Data:    investments,
	})
}

// CreateInvestment opens a position on a plan. One active investment per
// user; the principal is debited atomically with the position insert.
func (ic *InvestmentController) CreateInvestment(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userID := middleware.ExtractUserID(c)
	if userID.IsZero() {
		return unauthorized(c)
	}

	var req models.InvestRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, err.Error())
	}

	investment, err := ic.Service.Create(ctx, userID, req)
	if err != nil {
		log.Printf("Investment creation failed for user %s: %v", userID.Hex(), err)
		return serviceError(c, err)
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Investment created successfully",
		Data:    investment,
	})
}

// CancelInvestment cancels the caller's own active investment after the
// holding period and refunds the principal.
func (ic *InvestmentController) CancelInvestment(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userID := middleware.ExtractUserID(c)
	if userID.IsZero() {
		return unauthorized(c)
	}

	investmentID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return badRequest(c, "Invalid investment ID")
	}

	investment, err := ic.Service.Cancel(ctx, userID, investmentID, false)
	if err != nil {
		log.Printf("Investment cancel failed for user %s: %v", userID.Hex(), err)
		return serviceError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Investment cancelled, principal refunded",
		Data:    investment,
	})
}
