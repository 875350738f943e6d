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
	"github.com/Ghaliaa/maxprofit_backend/repositories"
)

// ContentController serves the read-only singletons and the caller's
// in-app notifications.
type ContentController struct {
	DB    *mongo.Client
	Users *repositories.UserRepository
}

// NewContentController creates a new content controller
func NewContentController(db *mongo.Client) *ContentController {
	return &ContentController{DB: db, Users: repositories.NewUserRepository(db)}
}

// GetAnnouncement returns the active dashboard announcement, if any.
func (cc *ContentController) GetAnnouncement(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var announcement models.Announcement
	err := config.GetCollection(cc.DB, "announcement").FindOne(ctx, bson.M{"isActive": true}).Decode(&announcement)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusOK, models.Response{
				Status:  http.StatusOK,
				Message: "No active announcement",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve announcement",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Announcement retrieved successfully",
		Data:    announcement,
	})
}

// GetSettings returns the public subset of the site settings.
func (cc *ContentController) GetSettings(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var settings models.Settings
	err := config.GetCollection(cc.DB, "settings").FindOne(ctx, bson.M{}).Decode(&settings)
	if err != nil && err != mongo.ErrNoDocuments {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve settings",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Settings retrieved successfully",
		Data: map[string]interface{}{
			"siteName":      settings.SiteName,
			"supportEmail":  settings.SupportEmail,
			"minWithdrawal": settings.MinWithdrawal,
		},
	})
}

// GetNotifications returns the caller's in-app notifications, newest
// first, and marks them read.
func (cc *ContentController) GetNotifications(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userID := middleware.ExtractUserID(c)
	if userID.IsZero() {
		return unauthorized(c)
	}

	collection := config.GetCollection(cc.DB, "notifications")
	opts := options.Find().SetSort(bson.M{"createdAt": -1}).SetLimit(100)
	cursor, err := collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve notifications",
		})
	}
	defer cursor.Close(ctx)

	notifications := []models.Notification{}
	if err = cursor.All(ctx, &notifications); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode notifications",
		})
	}

	_, err = collection.UpdateMany(ctx,
		bson.M{"userId": userID, "isRead": false},
		bson.M{"$set": bson.M{"isRead": true}})
	if err != nil {
		c.Logger().Errorf("Failed to mark notifications read for user %s: %v", userID.Hex(), err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Notifications retrieved successfully",
		Data:    notifications,
	})
}

// UpdateFCMToken registers the caller's device token for push delivery.
func (cc *ContentController) UpdateFCMToken(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userID := middleware.ExtractUserID(c)
	if userID.IsZero() {
		return unauthorized(c)
	}

	var req struct {
		FCMToken string `json:"fcmToken" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, err.Error())
	}

	if err := cc.Users.UpdateFCMToken(ctx, userID, req.FCMToken); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update FCM token",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "FCM token updated successfully",
	})
}
