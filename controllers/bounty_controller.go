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

// BountyController handles the public bounty surface.
type BountyController struct {
	DB      *mongo.Client
	Service *services.BountyService
}

// NewBountyController creates a new bounty controller
func NewBountyController(db *mongo.Client, service *services.BountyService) *BountyController {
	return &BountyController{DB: db, Service: service}
}

// GetBounties returns the currently active bounties.
func (bc *BountyController) GetBounties(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := config.GetCollection(bc.DB, "bounties")
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := collection.Find(ctx, bson.M{"isActive": true}, opts)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve bounties",
		})
	}
	defer cursor.Close(ctx)

	bounties := []models.Bounty{}
	if err = cursor.All(ctx, &bounties); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode bounties",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Bounties retrieved successfully",
		Data:    bounties,
	})
}

// GetMySubmissions returns the caller's bounty submissions, newest first.
func (bc *BountyController) GetMySubmissions(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userID := middleware.ExtractUserID(c)
	if userID.IsZero() {
		return unauthorized(c)
	}

	collection := config.GetCollection(bc.DB, "bounty_submissions")
	opts := options.Find().SetSort(bson.M{"submittedAt": -1})
	cursor, err := collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve submissions",
		})
	}
	defer cursor.Close(ctx)

	submissions := []models.BountySubmission{}
	if err = cursor.All(ctx, &submissions); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode submissions",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Submissions retrieved successfully",
		Data:    submissions,
	})
}

// SubmitBounty records a proof submission for an active bounty.
func (bc *BountyController) SubmitBounty(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	claims := middleware.GetUserFromToken(c)
	userID := middleware.ExtractUserID(c)
	if claims == nil || userID.IsZero() {
		return unauthorized(c)
	}

	bountyID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return badRequest(c, "Invalid bounty ID")
	}

	var req models.BountySubmitRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, err.Error())
	}

	submission, err := bc.Service.Submit(ctx, userID, claims.Email, bountyID, req)
	if err != nil {
		log.Printf("Bounty submission failed for user %s: %v", userID.Hex(), err)
		return serviceError(c, err)
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Bounty submission received, pending review",
		Data:    submission,
	})
}
