package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"yak/config"
	"yak/internal/auth"
	"yak/internal/models"
)

func authTestConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			AccessSecret:  "test-access-secret",
			RefreshSecret: "test-refresh-secret",
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: 24 * time.Hour,
			Issuer:        "yak-test",
		},
	}
}

type captureEmailSender struct {
	to   []string
	body []string
}

func (s *captureEmailSender) Send(to, htmlMessage, _ string) error {
	s.to = append(s.to, to)
	s.body = append(s.body, htmlMessage)
	return nil
}

func newAuthFixture(users *mockUserStore) (*AuthService, *mockSettingStore, *captureEmailSender) {
	settings := &mockSettingStore{}
	email := &captureEmailSender{}
	notifSvc := NewNotificationService(&mockTypeLister{types: activeTypes()}, settings,
		&mockTokenStore{}, &mockProvider{}, &recordingEnqueuer{}, zap.NewNop())
	return NewAuthService(authTestConfig(), users, notifSvc, nil, email, zap.NewNop()), settings, email
}

func TestRegisterInitializesNotificationSettings(t *testing.T) {
	users := newMockUserStore()
	svc, settings, _ := newAuthFixture(users)

	u, access, refresh, err := svc.Register("alice@example.com", "alice", "secret123", "Alice")
	require.NoError(t, err)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)

	assert.Len(t, settings.rows, 4, "one default setting per active type, created before register returns")
	for _, s := range settings.rows {
		assert.Equal(t, u.ID, s.UserID)
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	users := newMockUserStore(&models.User{ID: 1, Username: "alice", Email: "alice@example.com"})
	svc, _, _ := newAuthFixture(users)

	_, _, _, err := svc.Register("alice@example.com", "other", "secret123", "")
	assert.ErrorIs(t, err, ErrEmailExists)

	_, _, _, err = svc.Register("new@example.com", "alice", "secret123", "")
	assert.ErrorIs(t, err, ErrUsernameExists)
}

func TestLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	require.NoError(t, err)
	users := newMockUserStore(&models.User{
		ID: 1, Username: "alice", Email: "alice@example.com", PasswordHash: string(hash),
	})
	svc, _, _ := newAuthFixture(users)

	_, access, _, err := svc.Login("alice", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, access)

	_, _, _, err = svc.Login("alice", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCreds)

	_, _, _, err = svc.Login("nobody", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCreds)
}

func TestLoginWithGoogleCreatesAccount(t *testing.T) {
	users := newMockUserStore()
	svc, settings, _ := newAuthFixture(users)

	u, _, _, created, err := svc.LoginWithGoogle(context.Background(), "goog-1", "carol@example.com", "Carol Day", "")
	require.NoError(t, err)
	assert.True(t, created)
	require.NotNil(t, u.GoogleID)
	assert.Equal(t, "goog-1", *u.GoogleID)
	assert.Equal(t, "carol_day", u.Username)
	assert.Len(t, settings.rows, 4, "social signup also gets default settings")
}

func TestLoginWithGoogleLinksByEmail(t *testing.T) {
	users := newMockUserStore(&models.User{ID: 1, Username: "alice", Email: "alice@example.com"})
	svc, _, _ := newAuthFixture(users)

	u, _, _, created, err := svc.LoginWithGoogle(context.Background(), "goog-1", "alice@example.com", "Alice", "")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, uint(1), u.ID)
	require.NotNil(t, u.GoogleID)
	assert.Equal(t, "goog-1", *u.GoogleID)
}

func TestPasswordResetFlow(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("oldpass123"), bcrypt.DefaultCost)
	require.NoError(t, err)
	users := newMockUserStore(&models.User{
		ID: 1, Username: "alice", Email: "alice@example.com", PasswordHash: string(hash),
	})
	svc, _, email := newAuthFixture(users)

	require.NoError(t, svc.RequestPasswordReset("alice@example.com"))
	require.Len(t, email.to, 1)
	assert.Equal(t, "alice@example.com", email.to[0])

	token, err := auth.GeneratePasswordResetToken(&authTestConfig().JWT, 1, string(hash))
	require.NoError(t, err)

	require.NoError(t, svc.ResetPassword(token, "newpass456"))
	u, err := users.GetByID(1)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("newpass456")))

	// The token was signed against the old hash, so it only works once.
	assert.ErrorIs(t, svc.ResetPassword(token, "thirdpass789"), auth.ErrInvalidToken)
}

func TestPasswordResetUnknownEmailIsSilent(t *testing.T) {
	svc, _, email := newAuthFixture(newMockUserStore())

	require.NoError(t, svc.RequestPasswordReset("nobody@example.com"))
	assert.Empty(t, email.to, "unknown addresses get no email and no error")
}

func TestLinkGoogleMovesAssociation(t *testing.T) {
	gid := "goog-1"
	old := &models.User{ID: 1, Username: "alice", GoogleID: &gid}
	next := &models.User{ID: 2, Username: "bob"}
	users := newMockUserStore(old, next)
	svc, _, _ := newAuthFixture(users)

	require.NoError(t, svc.LinkGoogle(2, "goog-1"))

	assert.Nil(t, old.GoogleID, "previous holder loses the pairing")
	require.NotNil(t, next.GoogleID)
	assert.Equal(t, "goog-1", *next.GoogleID)
}
