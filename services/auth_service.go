package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"foodlens/metrics"
	"foodlens/models"
	"foodlens/utils"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrInvalidResetCode   = errors.New("invalid or expired reset code")
	ErrResetUnavailable   = errors.New("password reset email is not configured")
)

const resetCodeTTL = 15 * time.Minute

type Mailer interface {
	SendResetEmail(ctx context.Context, to, code string) error
}

// AuthService owns accounts and session tokens.
type AuthService struct {
	db       *gorm.DB
	secret   []byte
	ttl      time.Duration
	denylist TokenDenylist
	mailer   Mailer
	bus      *EventBus
	log      *logrus.Entry
	now      func() time.Time
}

func NewAuthService(
	db *gorm.DB, secret string, ttl time.Duration,
	denylist TokenDenylist, mailer Mailer, bus *EventBus, log *logrus.Entry,
) *AuthService {
	return &AuthService{
		db:       db,
		secret:   []byte(secret),
		ttl:      ttl,
		denylist: denylist,
		mailer:   mailer,
		bus:      bus,
		log:      log.WithField("component", "auth"),
		now:      time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) publish(kind string, userID uint) {
	metrics.IncAuthEvent(kind)
	s.bus.Publish(Event{Kind: kind, UserID: userID, At: s.now()})
}

func (s *AuthService) findByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *AuthService) SignUp(ctx context.Context, email, password, fullName string) (*models.User, error) {
	email = normalizeEmail(email)

	if _, err := s.findByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{Email: email, Password: hashed, FullName: strings.TrimSpace(fullName)}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.WithField("user_id", user.ID).Info("user registered")
	s.publish(EventSignedUp, user.ID)
	return user, nil
}

// SignIn checks the password and issues a session token.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.findByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, ErrUserNotFound) {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, fmt.Errorf("lookup user: %w", err)
	}
	if !utils.CheckPasswordHash(password, user.Password) {
		return "", nil, ErrInvalidCredentials
	}

	token, _, err := utils.GenerateJWT(s.secret, user.ID, user.Email, s.ttl)
	if err != nil {
		return "", nil, fmt.Errorf("could not generate token: %w", err)
	}

	s.publish(EventSignedIn, user.ID)
	return token, user, nil
}

// Authenticate validates a bearer token and rejects signed-out sessions.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*utils.Claims, error) {
	claims, err := utils.ParseJWT(s.secret, token)
	if err != nil {
		return nil, err
	}
	revoked, err := s.denylist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check token: %w", err)
	}
	if revoked {
		return nil, ErrTokenRevoked
	}
	return claims, nil
}

func (s *AuthService) SignOut(ctx context.Context, claims *utils.Claims) error {
	until := s.now().Add(s.ttl)
	if claims.ExpiresAt != nil {
		until = claims.ExpiresAt.Time
	}
	if err := s.denylist.Revoke(ctx, claims.ID, until); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}

	userID, _ := claims.UserID()
	s.publish(EventSignedOut, userID)
	return nil
}

func (s *AuthService) CurrentUser(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ForgotPassword emails a reset code. Unknown addresses are not reported.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	// checked before the lookup so known and unknown addresses answer alike
	if s.mailer == nil {
		return ErrResetUnavailable
	}

	user, err := s.findByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, ErrUserNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("lookup user: %w", err)
	}
	code, err := utils.GenerateRandomToken(6)
	if err != nil {
		return fmt.Errorf("generate reset code: %w", err)
	}
	user.ResetToken = code
	user.ResetTokenExp = s.now().Add(resetCodeTTL)
	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		return fmt.Errorf("save reset code: %w", err)
	}

	return s.mailer.SendResetEmail(ctx, user.Email, code)
}

func (s *AuthService) ResetPassword(ctx context.Context, code, newPassword string) error {
	if code == "" {
		return ErrInvalidResetCode
	}

	var user models.User
	err := s.db.WithContext(ctx).Where("reset_token = ?", code).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrInvalidResetCode
	}
	if err != nil {
		return fmt.Errorf("lookup reset code: %w", err)
	}
	if s.now().After(user.ResetTokenExp) {
		return ErrInvalidResetCode
	}

	hashed, err := utils.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.Password = hashed
	user.ResetToken = ""
	user.ResetTokenExp = time.Time{}
	if err := s.db.WithContext(ctx).Save(&user).Error; err != nil {
		return fmt.Errorf("save password: %w", err)
	}

	s.publish(EventPasswordReset, user.ID)
	return nil
}

// UpdateProfile changes the display name.
func (s *AuthService) UpdateProfile(ctx context.Context, userID uint, fullName string) (*models.User, error) {
	user, err := s.CurrentUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.FullName = strings.TrimSpace(fullName)
	if err := s.db.WithContext(ctx).Model(user).Update("full_name", user.FullName).Error; err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return user, nil
}
