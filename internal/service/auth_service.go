package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"yak/config"
	"yak/internal/auth"
	"yak/internal/models"
	"yak/internal/notify"
	"yak/pkg/cloudinary"
)

var (
	ErrEmailExists    = errors.New("email already registered")
	ErrUsernameExists = errors.New("username already taken")
	ErrInvalidCreds   = errors.New("invalid username or password")
)

type UserStore interface {
	Create(u *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	GetByGoogleID(googleID string) (*models.User, error)
	Update(u *models.User) error
}

type AuthService struct {
	cfg      *config.Config
	users    UserStore
	notifSvc *NotificationService
	cloud    cloudinary.Client
	email    notify.EmailSender
	logger   *zap.Logger
}

func NewAuthService(cfg *config.Config, users UserStore, notifSvc *NotificationService, cloud cloudinary.Client, email notify.EmailSender, logger *zap.Logger) *AuthService {
	return &AuthService{cfg: cfg, users: users, notifSvc: notifSvc, cloud: cloud, email: email, logger: logger}
}

// Register creates a user and synchronously initializes their notification
// settings before returning, so dispatch can rely on the rows existing.
func (s *AuthService) Register(email, username, password, fullname string) (*models.User, string, string, error) {
	_, err := s.users.GetByEmail(email)
	if err == nil {
		return nil, "", "", ErrEmailExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", "", err
	}
	_, err = s.users.GetByUsername(username)
	if err == nil {
		return nil, "", "", ErrUsernameExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", "", err
	}
	u := &models.User{
		Email:        email,
		Username:     username,
		PasswordHash: string(hash),
		Fullname:     fullname,
	}
	if err := s.users.Create(u); err != nil {
		return nil, "", "", err
	}
	if err := s.notifSvc.InitSettings(u.ID); err != nil {
		return nil, "", "", fmt.Errorf("init notification settings: %w", err)
	}
	access, refresh, err := s.issueTokens(u)
	return u, access, refresh, err
}

func (s *AuthService) Login(username, password string) (*models.User, string, string, error) {
	u, err := s.users.GetByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", "", ErrInvalidCreds
		}
		return nil, "", "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, "", "", ErrInvalidCreds
	}
	access, refresh, err := s.issueTokens(u)
	return u, access, refresh, err
}

func (s *AuthService) Refresh(refreshToken string) (*models.User, string, string, error) {
	userID, err := auth.ParseRefreshToken(&s.cfg.JWT, refreshToken)
	if err != nil {
		return nil, "", "", err
	}
	u, err := s.users.GetByID(userID)
	if err != nil {
		return nil, "", "", err
	}
	access, refresh, err := s.issueTokens(u)
	return u, access, refresh, err
}

func (s *AuthService) ChangePassword(userID uint, oldPassword, newPassword string) error {
	u, err := s.users.GetByID(userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(oldPassword)); err != nil {
		return ErrInvalidCreds
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return s.users.Update(u)
}

// RequestPasswordReset emails a reset token to the given address. Unknown
// addresses are not revealed: the call succeeds silently.
func (s *AuthService) RequestPasswordReset(email string) error {
	u, err := s.users.GetByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	token, err := auth.GeneratePasswordResetToken(&s.cfg.JWT, u.ID, u.PasswordHash)
	if err != nil {
		return err
	}
	link := fmt.Sprintf("http://%s/password-reset?token=%s", s.cfg.Site.Domain, token)
	body := fmt.Sprintf(`<p>A password reset was requested for your account.</p>
<p><a href="%s">Set a new password</a>. The link is valid for one hour.</p>`, link)
	if err := s.email.Send(u.Email, body, ""); err != nil {
		return fmt.Errorf("send reset email: %w", err)
	}
	return nil
}

// ResetPassword verifies a reset token and sets the new password. The token is
// signed against the user's current hash, so it is single-use.
func (s *AuthService) ResetPassword(token, newPassword string) error {
	userID, err := auth.PasswordResetSubject(token)
	if err != nil {
		return err
	}
	u, err := s.users.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return auth.ErrInvalidToken
		}
		return err
	}
	if _, err := auth.VerifyPasswordResetToken(&s.cfg.JWT, token, u.PasswordHash); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return s.users.Update(u)
}

// LoginWithGoogle signs a user in by their Google ID, creating or linking an
// account as needed. When the social UID is already linked to a different
// account than the one being relinked, the association moves to the new
// account.
func (s *AuthService) LoginWithGoogle(ctx context.Context, googleID, email, name, avatarURL string) (*models.User, string, string, bool, error) {
	u, err := s.users.GetByGoogleID(googleID)
	if err == nil {
		access, refresh, err := s.issueTokens(u)
		return u, access, refresh, false, err
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", "", false, err
	}

	// Link Google to an existing account matched by email.
	existing, err := s.users.GetByEmail(email)
	if err == nil {
		gid := googleID
		existing.GoogleID = &gid
		if err := s.users.Update(existing); err != nil {
			return nil, "", "", false, err
		}
		access, refresh, err := s.issueTokens(existing)
		return existing, access, refresh, false, err
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", "", false, err
	}

	// Brand-new account.
	username := strings.Split(email, "@")[0]
	if name != "" {
		username = strings.ReplaceAll(strings.ToLower(name), " ", "_")
	}
	if username == "" {
		username = fmt.Sprintf("user%d", time.Now().UnixNano()%100000)
	}
	if _, err := s.users.GetByUsername(username); err == nil {
		username = fmt.Sprintf("%s_%d", username, time.Now().UnixNano()%100000)
	}
	gid := googleID
	u = &models.User{
		Email:     email,
		Username:  username,
		Fullname:  name,
		GoogleID:  &gid,
		AvatarURL: s.importAvatar(ctx, googleID, avatarURL),
	}
	if err := s.users.Create(u); err != nil {
		return nil, "", "", false, err
	}
	if err := s.notifSvc.InitSettings(u.ID); err != nil {
		return nil, "", "", false, fmt.Errorf("init notification settings: %w", err)
	}
	access, refresh, err := s.issueTokens(u)
	return u, access, refresh, true, err
}

// LinkGoogle attaches a Google ID to userID. If another account holds the
// same Google ID, that pairing is removed first so the association can move.
func (s *AuthService) LinkGoogle(userID uint, googleID string) error {
	other, err := s.users.GetByGoogleID(googleID)
	if err == nil && other.ID != userID {
		other.GoogleID = nil
		if err := s.users.Update(other); err != nil {
			return err
		}
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	u, err := s.users.GetByID(userID)
	if err != nil {
		return err
	}
	gid := googleID
	u.GoogleID = &gid
	return s.users.Update(u)
}

// importAvatar copies the provider's profile image into our media store.
// Best-effort: a failed import just means no avatar.
func (s *AuthService) importAvatar(ctx context.Context, googleID, avatarURL string) string {
	if avatarURL == "" || s.cloud == nil {
		return avatarURL
	}
	url, err := s.cloud.UploadImageFromURL(ctx, avatarURL, "avatars", googleID)
	if err != nil {
		s.logger.Warn("avatar import failed", zap.Error(err))
		return avatarURL
	}
	return url
}

func (s *AuthService) issueTokens(u *models.User) (string, string, error) {
	access, err := auth.GenerateAccessToken(&s.cfg.JWT, u.ID, u.Email)
	if err != nil {
		return "", "", err
	}
	refresh, err := auth.GenerateRefreshToken(&s.cfg.JWT, u.ID)
	if err != nil {
		return access, "", err
	}
	return access, refresh, nil
}
