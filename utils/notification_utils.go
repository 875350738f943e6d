package utils

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"firebase.google.com/go/v4/messaging"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"gopkg.in/gomail.v2"

	"github.com/Ghaliaa/maxprofit_backend/config"
	"github.com/Ghaliaa/maxprofit_backend/models"
)

// SaveNotification saves a notification to the database
func SaveNotification(db *mongo.Client, userID primitive.ObjectID, title, message, notifType string, data interface{}) error {
	collection := config.GetCollection(db, "notifications")

	notification := models.Notification{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Title:     title,
		Message:   message,
		Type:      notifType,
		Data:      data,
		IsRead:    false,
		CreatedAt: time.Now(),
	}

	_, err := collection.InsertOne(context.Background(), notification)
	return err
}

// SendEmail sends a plain-text email using the SMTP settings from the
// environment. Failures are logged, not returned: notification delivery
// must never fail a money-moving request.
func SendEmail(to, subject, body string) {
	smtpHost := os.Getenv("SMTP_HOST")
	smtpUser := os.Getenv("SMTP_USER")
	smtpPass := os.Getenv("SMTP_PASS")
	if smtpHost == "" {
		return
	}
	smtpPort := 2525
	if portStr := os.Getenv("SMTP_PORT"); portStr != "" {
		fmt.Sscanf(portStr, "%d", &smtpPort)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", smtpUser)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPass)
	if err := d.DialAndSend(m); err != nil {
		log.Printf("Failed to send email to %s: %v", to, err)
	}
}

// SendPushNotification delivers an FCM push to the user's registered
// device, if they have one and Firebase is configured.
func SendPushNotification(db *mongo.Client, userID primitive.ObjectID, title, message string, data map[string]string) error {
	collection := config.GetCollection(db, "users")
	var user models.User
	err := collection.FindOne(context.Background(), bson.M{"_id": userID}).Decode(&user)
	if err != nil {
		return fmt.Errorf("failed to find user: %w", err)
	}

	if user.FCMToken == "" {
		return nil
	}
	if config.FirebaseApp == nil {
		return nil
	}

	ctx := context.Background()
	client, err := config.FirebaseApp.Messaging(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize messaging client: %w", err)
	}

	if data == nil {
		data = map[string]string{}
	}
	data["timestamp"] = time.Now().Format(time.RFC3339)

	msg := &messaging.Message{
		Token: user.FCMToken,
		Notification: &messaging.Notification{
			Title: title,
			Body:  message,
		},
		Data: data,
	}

	response, err := client.Send(ctx, msg)
	if err != nil {
		return fmt.Errorf("failed to send push notification: %w", err)
	}
	log.Printf("Push notification sent to user %s: %s", userID.Hex(), response)
	return nil
}

// NotifyUser records an in-app notification and fires the push and email
// channels. Called after admin review decisions and reward credits;
// best-effort on every channel.
func NotifyUser(db *mongo.Client, userID primitive.ObjectID, title, message, notifType string, data map[string]string) {
	if err := SaveNotification(db, userID, title, message, notifType, data); err != nil {
		log.Printf("Failed to save notification for user %s: %v", userID.Hex(), err)
	}

	if err := SendPushNotification(db, userID, title, message, data); err != nil {
		log.Printf("Failed to push notification to user %s: %v", userID.Hex(), err)
	}

	var user models.User
	err := config.GetCollection(db, "users").FindOne(context.Background(), bson.M{"_id": userID}).Decode(&user)
	if err == nil && user.Email != "" {
		go SendEmail(user.Email, title, message)
	}
}
