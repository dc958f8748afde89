package services

import (
	"context"
	"encoding/base64"
	"fmt"

	"bistro-backend/internal/models"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// FCMService handles Firebase Cloud Messaging
type FCMService struct {
	client *messaging.Client
	logger *zap.Logger
}

// NewFCMService creates a new FCM service instance from a credentials file
func NewFCMService(ctx context.Context, credentialsFile string, logger *zap.Logger) (*FCMService, error) {
	return newFCMService(ctx, option.WithCredentialsFile(credentialsFile), logger)
}

// NewFCMServiceFromBase64 creates a new FCM service instance from base64-encoded credentials
func NewFCMServiceFromBase64(ctx context.Context, credentialsBase64 string, logger *zap.Logger) (*FCMService, error) {
	credentialsJSON, err := base64.StdEncoding.DecodeString(credentialsBase64)
	if err != nil {
		return nil, fmt.Errorf("error decoding base64 credentials: %w", err)
	}
	return newFCMService(ctx, option.WithCredentialsJSON(credentialsJSON), logger)
}

func newFCMService(ctx context.Context, opt option.ClientOption, logger *zap.Logger) (*FCMService, error) {
	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing Firebase app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting messaging client: %w", err)
	}
	return &FCMService{client: client, logger: logger}, nil
}

var (
	androidHigh = &messaging.AndroidConfig{Priority: "high"}
	apnsDefault = &messaging.APNSConfig{
		Payload: &messaging.APNSPayload{
			Aps: &messaging.Aps{
				ContentAvailable: true,
				Sound:            "default",
			},
		},
	}
)

// SendDeliveryAssigned tells a driver an order is theirs
func (s *FCMService) SendDeliveryAssigned(ctx context.Context, token string, order models.Order) error {
	resp := order.ToOrderResponse()
	message := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: "New Delivery Assigned!",
			Body:  fmt.Sprintf("%s, %s", resp.CustomerName, resp.DeliveryAddress),
		},
		Data: map[string]string{
			"type":     "delivery_assigned",
			"order_id": order.ID,
			"status":   string(order.Status),
			"total":    order.TotalAmount.StringFixed(2),
		},
		Android: androidHigh,
		APNS:    apnsDefault,
	}

	id, err := s.client.Send(ctx, message)
	if err != nil {
		return fmt.Errorf("error sending FCM message: %w", err)
	}
	s.logger.Info("fcm delivery assignment sent", zap.String("order_id", order.ID), zap.String("message_id", id))
	return nil
}

// SendDeliveryReady tells every listed driver that an unassigned delivery is waiting
func (s *FCMService) SendDeliveryReady(ctx context.Context, tokens []string, order models.Order) error {
	if len(tokens) == 0 {
		return nil
	}
	message := &messaging.MulticastMessage{
		Tokens: tokens,
		Notification: &messaging.Notification{
			Title: "Delivery Ready",
			Body:  "An order is packed and waiting for a driver.",
		},
		Data: map[string]string{
			"type":     "delivery_ready",
			"order_id": order.ID,
		},
		Android: androidHigh,
		APNS:    apnsDefault,
	}

	resp, err := s.client.SendEachForMulticast(ctx, message)
	if err != nil {
		return fmt.Errorf("error sending multicast message: %w", err)
	}
	s.logger.Info("fcm delivery ready multicast sent",
		zap.String("order_id", order.ID),
		zap.Int("success", resp.SuccessCount),
		zap.Int("failure", resp.FailureCount))
	return nil
}
