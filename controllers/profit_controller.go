package controllers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Ghaliaa/maxprofit_backend/middleware"
	"github.com/Ghaliaa/maxprofit_backend/models"
	"github.com/Ghaliaa/maxprofit_backend/services"
	"github.com/Ghaliaa/maxprofit_backend/utils"
)

// ProfitController handles the daily profit claim.
type ProfitController struct {
	DB      *mongo.Client
	Service *services.ProfitService
}

// NewProfitController creates a new profit controller
func NewProfitController(db *mongo.Client, service *services.ProfitService) *ProfitController {
	return &ProfitController{DB: db, Service: service}
}

// Claim credits one day of profit across the caller's active investments.
// At most one claim per 24 hours.
func (pc *ProfitController) Claim(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userID := middleware.ExtractUserID(c)
	if userID.IsZero() {
		return unauthorized(c)
	}

	amount, err := pc.Service.Claim(ctx, userID)
	if err != nil {
		log.Printf("Profit claim failed for user %s: %v", userID.Hex(), err)
		return serviceError(c, err)
	}

	go utils.NotifyUser(pc.DB, userID, "Daily profit credited",
		"Your daily profit has been added to your balance.", "profit_credit", nil)

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Daily profit claimed successfully",
		Data: map[string]interface{}{
			"amount": amount,
		},
	})
}
