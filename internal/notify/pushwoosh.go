package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"yak/config"
	"yak/internal/domain"
)

// Pushwoosh device type codes.
const (
	pushwooshPlatformIOS     = 1
	pushwooshPlatformAndroid = 3
)

// PushwooshBackend talks to the Pushwoosh remote API (JSON over HTTPS).
type PushwooshBackend struct {
	baseURL   string
	appCode   string
	authToken string
	tokens    TokenLister
	client    *http.Client
}

func NewPushwooshBackend(cfg *config.PushwooshConfig, tokens TokenLister) *PushwooshBackend {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://cp.pushwoosh.com/json/1.3"
	}
	return &PushwooshBackend{
		baseURL:   baseURL,
		appCode:   cfg.AppCode,
		authToken: cfg.AuthToken,
		tokens:    tokens,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

type pushwooshResponse struct {
	StatusCode    int             `json:"status_code"`
	StatusMessage string          `json:"status_message"`
	Response      json.RawMessage `json:"response"`
}

func (b *PushwooshBackend) invoke(ctx context.Context, endpoint string, request interface{}) (json.RawMessage, *pushwooshResponse, error) {
	body, err := json.Marshal(map[string]interface{}{"request": request})
	if err != nil {
		return nil, nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+"/"+endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := b.client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("pushwoosh %s: %w", endpoint, err)
	}
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("pushwoosh %s: read response: %w", endpoint, err)
	}
	var out pushwooshResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, nil, fmt.Errorf("pushwoosh %s: decode response %q: %w", endpoint, respBody, err)
	}
	return respBody, &out, nil
}

// RegisterDevice submits hardware id, token, platform code and language to
// the provider. The caller persists the token row.
func (b *PushwooshBackend) RegisterDevice(ctx context.Context, token, hwid, platform, language string) (json.RawMessage, error) {
	platformCode := pushwooshPlatformIOS
	if platform == domain.PlatformAndroid {
		platformCode = pushwooshPlatformAndroid
	}
	request := map[string]interface{}{
		"application": b.appCode,
		"hwid":        hwid,
		"push_token":  token,
		"device_type": platformCode,
		"language":    language,
	}
	raw, parsed, err := b.invoke(ctx, "registerDevice", request)
	if err != nil {
		return nil, err
	}
	if parsed.StatusCode != http.StatusOK {
		return nil, &DeviceRegistrationError{Response: raw}
	}
	return raw, nil
}

// SendPush sends one createMessage call covering all of the user's devices,
// with a badge increment and an optional deep link.
func (b *PushwooshBackend) SendPush(ctx context.Context, userID uint, message, deepLink string) (json.RawMessage, error) {
	devices, err := b.tokens.TokensByUserID(userID)
	if err != nil {
		return nil, err
	}
	notification := map[string]interface{}{
		"content":    message,
		"send_date":  "now",
		"devices":    devices,
		"ios_badges": "+1",
	}
	if deepLink != "" {
		notification["minimize_link"] = 0
		notification["link"] = deepLink
	}
	request := map[string]interface{}{
		"notifications": []interface{}{notification},
		"auth":          b.authToken,
		"application":   b.appCode,
	}
	raw, parsed, err := b.invoke(ctx, "createMessage", request)
	if err != nil {
		return nil, err
	}
	if parsed.StatusCode != http.StatusOK {
		return nil, &NotificationDeliveryError{Response: raw}
	}
	return raw, nil
}
