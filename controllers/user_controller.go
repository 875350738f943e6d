package controllers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Ghaliaa/maxprofit_backend/middleware"
	"github.com/Ghaliaa/maxprofit_backend/models"
	"github.com/Ghaliaa/maxprofit_backend/repositories"
	"github.com/Ghaliaa/maxprofit_backend/utils"
)

// UserController handles account provisioning and profile reads.
type UserController struct {
	DB    *mongo.Client
	Users *repositories.UserRepository
}

// NewUserController creates a new user controller
func NewUserController(db *mongo.Client) *UserController {
	return &UserController{DB: db, Users: repositories.NewUserRepository(db)}
}

// GetProfile returns the caller's own user document.
func (uc *UserController) GetProfile(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userID := middleware.ExtractUserID(c)
	if userID.IsZero() {
		return unauthorized(c)
	}

	user, err := uc.Users.FindByID(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "User not found",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Profile retrieved successfully",
		Data:    user,
	})
}

// CreateUser provisions a user account. Identity lives upstream; this
// creates the ledger-side document, fixes the referral attribution and
// returns an initial token. Referrer attribution cannot change later.
func (uc *UserController) CreateUser(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, err.Error())
	}

	if _, err := uc.Users.FindByEmail(ctx, req.Email); err == nil {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "A user with this email already exists",
		})
	} else if err != mongo.ErrNoDocuments {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to check existing users",
		})
	}

	var referrerID *primitive.ObjectID
	if req.ReferralCode != "" {
		referrer, err := uc.Users.FindByReferralCode(ctx, req.ReferralCode)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				return badRequest(c, "Unknown referral code")
			}
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Failed to resolve referral code",
			})
		}
		referrerID = &referrer.ID
	}

	userType := req.UserType
	if userType == "" {
		userType = "user"
	}

	now := time.Now()
	user := models.User{
		ID:               primitive.NewObjectID(),
		Username:         req.Username,
		Email:            req.Email,
		UserType:         userType,
		Balance:          0,
		ReferrerID:       referrerID,
		FCMToken:         req.FCMToken,
		RegistrationDate: now,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	user.ReferralCode = utils.DeriveReferralCode(user.ID)

	if err := uc.Users.Insert(ctx, &user); err != nil {
		log.Printf("Failed to create user %s: %v", req.Email, err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create user",
		})
	}

	token, err := middleware.GenerateJWT(user.ID.Hex(), user.Email, user.UserType)
	if err != nil {
		log.Printf("Failed to generate token for user %s: %v", user.ID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "User created but token generation failed",
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "User created successfully",
		Data: map[string]interface{}{
			"user":  user,
			"token": token,
		},
	})
}
