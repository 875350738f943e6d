// middleware/jwt_middleware.go
package middleware

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Ghaliaa/maxprofit_backend/models"
)

// JwtCustomClaims are custom claims extending default ones
type JwtCustomClaims struct {
	UserID   string `json:"userId"`
	Email    string `json:"email"`
	UserType string `json:"userType"`
	jwt.StandardClaims
}

// GetJWTSecret returns the JWT secret key from environment
func GetJWTSecret() string {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Println("Warning: JWT_SECRET not set, using insecure default")
		secret = "dev-only-secret-change-me"
	}
	return secret
}

// JWTMiddleware returns configured JWT middleware for echo
func JWTMiddleware() echo.MiddlewareFunc {
	config := echoMiddleware.JWTConfig{
		Claims:     &JwtCustomClaims{},
		SigningKey: []byte(GetJWTSecret()),
		ErrorHandlerWithContext: func(err error, c echo.Context) error {
			log.Printf("JWT validation failed for %s: %v", c.Request().URL.Path, err)
			return c.JSON(http.StatusUnauthorized, models.Response{
				Status:  http.StatusUnauthorized,
				Message: "Invalid or expired token",
			})
		},
	}
	return echoMiddleware.JWTWithConfig(config)
}

// GenerateJWT creates a signed token for the given user
func GenerateJWT(userID, email, userType string) (string, error) {
	claims := &JwtCustomClaims{
		UserID:   userID,
		Email:    email,
		UserType: userType,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(72 * time.Hour).Unix(),
			IssuedAt:  time.Now().Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(GetJWTSecret()))
}

// GetUserFromToken extracts the custom claims from the request context.
// Returns nil when the route is not behind JWTMiddleware or the token
// failed validation.
func GetUserFromToken(c echo.Context) *JwtCustomClaims {
	user, ok := c.Get("user").(*jwt.Token)
	if !ok || user == nil {
		return nil
	}
	claims, ok := user.Claims.(*JwtCustomClaims)
	if !ok {
		return nil
	}
	return claims
}

// ExtractUserID returns the authenticated user's ObjectID, or the zero
// ObjectID when no valid token is present.
func ExtractUserID(c echo.Context) primitive.ObjectID {
	claims := GetUserFromToken(c)
	if claims == nil {
		return primitive.NilObjectID
	}
	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		log.Printf("Invalid user ID in token: %s", claims.UserID)
		return primitive.NilObjectID
	}
	return id
}

// ExtractUserType returns the user type stored in the token claims
func ExtractUserType(c echo.Context) string {
	claims := GetUserFromToken(c)
	if claims == nil {
		return ""
	}
	return claims.UserType
}

// GetUserIDFromToken returns the hex user ID from the token claims
func GetUserIDFromToken(c echo.Context) string {
	claims := GetUserFromToken(c)
	if claims == nil {
		return ""
	}
	return claims.UserID
}
