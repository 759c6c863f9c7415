package notify

import (
	"context"
	"encoding/json"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// FCMBackend sends push notifications via Firebase Cloud Messaging.
type FCMBackend struct {
	client *messaging.Client
	tokens TokenLister
}

func NewFCMBackend(serviceAccountPath string, tokens TokenLister) (*FCMBackend, error) {
	if serviceAccountPath == "" {
		return nil, fmt.Errorf("fcm backend requires a service account file")
	}
	ctx := context.Background()
	opt := option.WithCredentialsFile(serviceAccountPath)
	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("init messaging client: %w", err)
	}
	return &FCMBackend{client: client, tokens: tokens}, nil
}

// RegisterDevice is a local no-op for FCM: tokens are minted client-side and
// only need to be stored, which the caller does.
func (b *FCMBackend) RegisterDevice(ctx context.Context, token, hwid, platform, language string) (json.RawMessage, error) {
	return json.Marshal(map[string]interface{}{"status_code": 200, "hwid": hwid})
}

// SendPush delivers the message to all of the user's tokens in one multicast
// call.
func (b *FCMBackend) SendPush(ctx context.Context, userID uint, message, deepLink string) (json.RawMessage, error) {
	tokens, err := b.tokens.TokensByUserID(userID)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return json.Marshal(map[string]interface{}{"status_code": 200, "sent": 0})
	}
	msg := &messaging.MulticastMessage{
		Tokens: tokens,
		Notification: &messaging.Notification{
			Body: message,
		},
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				Sound: "default",
			},
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Sound: "default",
					Badge: nil,
				},
			},
		},
	}
	if deepLink != "" {
		msg.Data = map[string]string{"link": deepLink}
	}
	br, err := b.client.SendEachForMulticast(ctx, msg)
	if err != nil {
		return nil, &NotificationDeliveryError{Response: []byte(err.Error())}
	}
	raw, _ := json.Marshal(map[string]interface{}{
		"status_code": 200,
		"success":     br.SuccessCount,
		"failure":     br.FailureCount,
	})
	if br.SuccessCount == 0 && br.FailureCount > 0 {
		return nil, &NotificationDeliveryError{Response: raw}
	}
	return raw, nil
}
