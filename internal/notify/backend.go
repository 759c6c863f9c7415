package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"yak/config"
	"yak/internal/domain"
)

// TokenLister supplies the registered device tokens for a user. Implemented
// by repository.PushTokenRepository.
type TokenLister interface {
	TokensByUserID(userID uint) ([]string, error)
}

// PushBackend is a pluggable integration with a third-party push provider.
// Exactly one backend is active per deployment, chosen by configuration.
// Both methods return the raw provider response for diagnostics.
type PushBackend interface {
	// RegisterDevice submits a device token with its hardware id, platform
	// (domain.PlatformIOS or domain.PlatformAndroid) and language.
	RegisterDevice(ctx context.Context, token, hwid, platform, language string) (json.RawMessage, error)

	// SendPush delivers message to all of the user's registered devices in a
	// single provider call. deepLink is optional.
	SendPush(ctx context.Context, userID uint, message, deepLink string) (json.RawMessage, error)
}

// NewPushBackend resolves the configured backend once at startup.
func NewPushBackend(cfg *config.Config, tokens TokenLister) (PushBackend, error) {
	switch cfg.Notifications.PushBackend {
	case domain.BackendPushwoosh:
		return NewPushwooshBackend(&cfg.Pushwoosh, tokens), nil
	case domain.BackendFCM:
		return NewFCMBackend(cfg.Firebase.ServiceAccountPath, tokens)
	default:
		return nil, fmt.Errorf("unknown push backend %q", cfg.Notifications.PushBackend)
	}
}
