package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Ghaliaa/maxprofit_backend/config"
	"github.com/Ghaliaa/maxprofit_backend/middleware"
	"github.com/Ghaliaa/maxprofit_backend/models"
	"github.com/Ghaliaa/maxprofit_backend/utils"
)

// ReferralController serves the caller's referral code, link and records.
type ReferralController struct {
	DB *mongo.Client
}

// NewReferralController creates a new referral controller
func NewReferralController(db *mongo.Client) *ReferralController {
	return &ReferralController{DB: db}
}

// GetReferralData returns the caller's referral code, shareable link,
// commission records and team totals. The code is derived from the user
// id on first read and persisted.
func (rc *ReferralController) GetReferralData(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userID := middleware.ExtractUserID(c)
	if userID.IsZero() {
		return unauthorized(c)
	}

	usersCollection := config.GetCollection(rc.DB, "users")
	var user models.User
	err := usersCollection.FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "User not found",
		})
	}

	if user.ReferralCode == "" {
		user.ReferralCode = utils.DeriveReferralCode(user.ID)
		_, err = usersCollection.UpdateOne(ctx, bson.M{"_id": userID},
			bson.M{"$set": bson.M{"referralCode": user.ReferralCode, "updatedAt": time.Now()}})
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Failed to save referral code",
			})
		}
	}

	var settings models.Settings
	_ = config.GetCollection(rc.DB, "settings").FindOne(ctx, bson.M{}).Decode(&settings)

	referralsCollection := config.GetCollection(rc.DB, "referrals")
	opts := options.Find().SetSort(bson.M{"referralDate": -1})
	cursor, err := referralsCollection.Find(ctx, bson.M{"referrerId": userID}, opts)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve referrals",
		})
	}
	defer cursor.Close(ctx)

	referrals := []models.Referral{}
	if err = cursor.All(ctx, &referrals); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode referrals",
		})
	}

	// Count distinct referred users, not commission records
	referredIDs, err := referralsCollection.Distinct(ctx, "referredId", bson.M{"referrerId": userID})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to count referrals",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Referral data retrieved successfully",
		Data: models.ReferralData{
			ReferralCode:     user.ReferralCode,
			ReferralLink:     utils.ReferralLink(settings.ReferralLinkBase, user.ReferralCode),
			ReferralCount:    len(referredIDs),
			Rank:             user.Rank,
			TeamTotalDeposit: user.TeamTotalDeposit,
			Referrals:        referrals,
		},
	})
}
