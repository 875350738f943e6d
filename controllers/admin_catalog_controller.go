package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Ghaliaa/maxprofit_backend/config"
	"github.com/Ghaliaa/maxprofit_backend/models"
	"github.com/Ghaliaa/maxprofit_backend/services"
	"github.com/Ghaliaa/maxprofit_backend/websocket"
)

// AdminCatalogController manages the admin-owned catalog documents:
// investment plans, partner ranks, bounties and the site singletons.
type AdminCatalogController struct {
	DB  *mongo.Client
	Hub *websocket.Hub
}

// NewAdminCatalogController creates a new admin catalog controller
func NewAdminCatalogController(db *mongo.Client, hub *websocket.Hub) *AdminCatalogController {
	return &AdminCatalogController{DB: db, Hub: hub}
}

// CreatePlan adds an investment plan.
func (acc *AdminCatalogController) CreatePlan(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.InvestmentPlanRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, err.Error())
	}

	now := time.Now()
	plan := models.InvestmentPlan{
		ID:          primitive.NewObjectID(),
		Name:        req.Name,
		Description: req.Description,
		DailyReturn: req.DailyReturn,
		Duration:    req.Duration,
		MinDeposit:  req.MinDeposit,
		MaxDeposit:  req.MaxDeposit,
		IsPopular:   req.IsPopular,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := config.GetCollection(acc.DB, "investment_plans").InsertOne(ctx, plan); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create investment plan",
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Investment plan created successfully",
		Data:    plan,
	})
}

// UpdatePlan modifies an investment plan. Existing positions keep their
// recorded terms; open investments reference the plan by id and pick up
// rate changes on the next claim.
func (acc *AdminCatalogController) UpdatePlan(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	planID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return badRequest(c, "Invalid plan ID")
	}

	var req models.InvestmentPlanRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, err.Error())
	}

	update := bson.M{"$set": bson.M{
		"name":        req.Name,
		"description": req.Description,
		"dailyReturn": req.DailyReturn,
		"duration":    req.Duration,
		"minDeposit":  req.MinDeposit,
		"maxDeposit":  req.MaxDeposit,
		"isPopular":   req.IsPopular,
		"updatedAt":   time.Now(),
	}}

	result, err := config.GetCollection(acc.DB, "investment_plans").UpdateOne(ctx, bson.M{"_id": planID}, update)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update investment plan",
		})
	}
	if result.MatchedCount == 0 {
		return serviceError(c, services.ErrNotFound)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Investment plan updated successfully",
	})
}

// DeletePlan removes a plan that has no investments attached to it.
func (acc *AdminCatalogController) DeletePlan(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	planID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return badRequest(c, "Invalid plan ID")
	}

	count, err := config.GetCollection(acc.DB, "investments").CountDocuments(ctx, bson.M{"investmentPlanId": planID})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to check plan usage",
		})
	}
	if count > 0 {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "Plan has investments and cannot be deleted",
		})
	}

	result, err := config.GetCollection(acc.DB, "investment_plans").DeleteOne(ctx, bson.M{"_id": planID})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to delete investment plan",
		})
	}
	if result.DeletedCount == 0 {
		return serviceError(c, services.ErrNotFound)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Investment plan deleted successfully",
	})
}

// GetRanks lists the partner ranks ordered by goal.
func (acc *AdminCatalogController) GetRanks(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.M{"goal": 1})
	cursor, err := config.GetCollection(acc.DB, "partner_ranks").Find(ctx, bson.M{}, opts)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve partner ranks",
		})
	}
	defer cursor.Close(ctx)

	ranks := []models.PartnerRank{}
	if err = cursor.All(ctx, &ranks); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode partner ranks",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Partner ranks retrieved successfully",
		Data:    ranks,
	})
}

// CreateRank adds a partner rank tier.
func (acc *AdminCatalogController) CreateRank(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.PartnerRankRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, err.Error())
	}

	now := time.Now()
	rank := models.PartnerRank{
		ID:         primitive.NewObjectID(),
		Name:       req.Name,
		Goal:       req.Goal,
		Commission: req.Commission,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if _, err := config.GetCollection(acc.DB, "partner_ranks").InsertOne(ctx, rank); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create partner rank",
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Partner rank created successfully",
		Data:    rank,
	})
}

// UpdateRank modifies a partner rank tier. Stored user ranks are not
// touched here; the nightly recheck re-derives them.
func (acc *AdminCatalogController) UpdateRank(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	rankID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return badRequest(c, "Invalid rank ID")
	}

	var req models.PartnerRankRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, err.Error())
	}

	update := bson.M{"$set": bson.M{
		"name":       req.Name,
		"goal":       req.Goal,
		"commission": req.Commission,
		"updatedAt":  time.Now(),
	}}

	result, err := config.GetCollection(acc.DB, "partner_ranks").UpdateOne(ctx, bson.M{"_id": rankID}, update)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update partner rank",
		})
	}
	if result.MatchedCount == 0 {
		return serviceError(c, services.ErrNotFound)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Partner rank updated successfully",
	})
}

// DeleteRank removes a partner rank tier.
func (acc *AdminCatalogController) DeleteRank(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	rankID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return badRequest(c, "Invalid rank ID")
	}

	result, err := config.GetCollection(acc.DB, "partner_ranks").DeleteOne(ctx, bson.M{"_id": rankID})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to delete partner rank",
		})
	}
	if result.DeletedCount == 0 {
		return serviceError(c, services.ErrNotFound)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Partner rank deleted successfully",
	})
}

// CreateBounty adds a bounty task.
func (acc *AdminCatalogController) CreateBounty(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.BountyRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, err.Error())
	}

	now := time.Now()
	bounty := models.Bounty{
		ID:            primitive.NewObjectID(),
		Title:         req.Title,
		Description:   req.Description,
		Reward:        req.Reward,
		IsActive:      req.IsActive,
		DurationHours: req.DurationHours,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if _, err := config.GetCollection(acc.DB, "bounties").InsertOne(ctx, bounty); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create bounty",
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Bounty created successfully",
		Data:    bounty,
	})
}

// UpdateBounty modifies a bounty task. Pending submissions are settled
// against the terms in place at settlement time.
func (acc *AdminCatalogController) UpdateBounty(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	bountyID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return badRequest(c, "Invalid bounty ID")
	}

	var req models.BountyRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, err.Error())
	}

	update := bson.M{"$set": bson.M{
		"title":         req.Title,
		"description":   req.Description,
		"reward":        req.Reward,
		"isActive":      req.IsActive,
		"durationHours": req.DurationHours,
		"updatedAt":     time.Now(),
	}}

	result, err := config.GetCollection(acc.DB, "bounties").UpdateOne(ctx, bson.M{"_id": bountyID}, update)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update bounty",
		})
	}
	if result.MatchedCount == 0 {
		return serviceError(c, services.ErrNotFound)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Bounty updated successfully",
	})
}

// DeleteBounty removes a bounty task. Existing submissions keep their
// denormalized title.
func (acc *AdminCatalogController) DeleteBounty(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	bountyID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return badRequest(c, "Invalid bounty ID")
	}

	result, err := config.GetCollection(acc.DB, "bounties").DeleteOne(ctx, bson.M{"_id": bountyID})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to delete bounty",
		})
	}
	if result.DeletedCount == 0 {
		return serviceError(c, services.ErrNotFound)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Bounty deleted successfully",
	})
}

// UpdateSettings replaces the settings singleton. The new referral rates
// apply to reviews approved after this write; in-flight approvals keep
// the policy snapshot they started with.
func (acc *AdminCatalogController) UpdateSettings(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.SettingsRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, err.Error())
	}

	update := bson.M{"$set": bson.M{
		"siteName":           req.SiteName,
		"supportEmail":       req.SupportEmail,
		"referralBaseRate":   req.ReferralBaseRate,
		"referralLevel2Rate": req.ReferralLevel2Rate,
		"minWithdrawal":      req.MinWithdrawal,
		"referralLinkBase":   req.ReferralLinkBase,
		"updatedAt":          time.Now(),
	}}

	opts := options.Update().SetUpsert(true)
	if _, err := config.GetCollection(acc.DB, "settings").UpdateOne(ctx, bson.M{}, update, opts); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update settings",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Settings updated successfully",
	})
}

// UpdateAnnouncement replaces the dashboard announcement singleton.
func (acc *AdminCatalogController) UpdateAnnouncement(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.AnnouncementRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, err.Error())
	}

	update := bson.M{"$set": bson.M{
		"title":     req.Title,
		"message":   req.Message,
		"isActive":  req.IsActive,
		"updatedAt": time.Now(),
	}}

	opts := options.Update().SetUpsert(true)
	if _, err := config.GetCollection(acc.DB, "announcement").UpdateOne(ctx, bson.M{}, update, opts); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update announcement",
		})
	}

	if req.IsActive {
		acc.Hub.Broadcast(websocket.Notification{
			Type:    websocket.NotificationTypeAnnouncement,
			Message: req.Title,
			Data:    map[string]string{"title": req.Title, "message": req.Message},
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Announcement updated successfully",
	})
}
