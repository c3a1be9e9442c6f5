package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"reviewhub/internal/config"
	"reviewhub/internal/http-api/auth"
	"reviewhub/internal/http-api/mailer"
	"reviewhub/internal/http-api/models"
	"reviewhub/internal/http-api/repository"
	"reviewhub/internal/http-api/validation"
)

var (
	ErrUsernameInUse = errors.New("username already in use")
	ErrEmailInUse    = errors.New("email already in use")
	ErrUserNotFound  = errors.New("user not found")
	ErrInvalidCode   = errors.New("invalid confirm code")
	ErrInvalidToken  = errors.New("invalid token")
)

const confirmMailSubject = "Your account confirm code"

// Claims is the payload of an issued access token.
type Claims struct {
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	Superuser bool   `json:"superuser,omitempty"`
	jwt.RegisteredClaims
}

// AuthService drives the signup -> code -> token flow. There is no stored
// "confirmed" flag; validity is re-derived on every token request from
// code equality, and an exchanged code is replaced so it cannot be
// replayed.
type AuthService interface {
	SignUp(ctx context.Context, username, email string) (*models.User, error)
	SignIn(ctx context.Context, username, email string) (*models.User, error)
	Token(ctx context.Context, username, confirmCode string) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

type authService struct {
	userRepo  repository.UserRepository
	mail      mailer.Mailer
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthService(userRepo repository.UserRepository, mail mailer.Mailer, cfg *config.Config) AuthService {
	return &authService{
		userRepo:  userRepo,
		mail:      mail,
		jwtSecret: cfg.JWTSecret,
		tokenTTL:  cfg.AccessTokenTTL,
	}
}

// SignUp registers a new unconfirmed user and mails them a one-time code.
// The code itself never appears in the return value.
func (s *authService) SignUp(ctx context.Context, username, email string) (*models.User, error) {
	if err := validation.Username(username); err != nil {
		return nil, err
	}

	if _, err := s.userRepo.FindByUsername(ctx, username); err == nil {
		return nil, ErrUsernameInUse
	}
	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailInUse
	}

	code := auth.NewConfirmCode()
	codeHash, err := auth.HashCode(code)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:    username,
		Email:       email,
		Role:        models.RoleUser,
		ConfirmCode: codeHash,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// pre-checks race against concurrent signups; the constraint wins
		if repository.IsUniqueViolation(err) {
			return nil, uniqueViolationSentinel(err)
		}
		return nil, err
	}

	if err := s.sendConfirmCode(ctx, user, code); err != nil {
		return nil, err
	}
	return user, nil
}

// SignIn re-arms the signup flow for a returning user: a fresh code is
// generated, the old one stops being valid, and the new one is mailed out.
func (s *authService) SignIn(ctx context.Context, username, email string) (*models.User, error) {
	user, err := s.userRepo.FindByUsernameAndEmail(ctx, username, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	code := auth.NewConfirmCode()
	codeHash, err := auth.HashCode(code)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.UpdateConfirmCode(ctx, user.ID, codeHash); err != nil {
		return nil, err
	}

	if err := s.sendConfirmCode(ctx, user, code); err != nil {
		return nil, err
	}
	return user, nil
}

// Token exchanges a valid confirm code for a signed access token. The
// check-and-invalidate runs inside one transaction in the repository, so
// two racing requests with the same code cannot both succeed.
func (s *authService) Token(ctx context.Context, username, confirmCode string) (string, error) {
	replacement, err := auth.BurnedCode()
	if err != nil {
		return "", err
	}

	user, err := s.userRepo.ConsumeConfirmCode(ctx, username, func(codeHash string) error {
		if auth.VerifyCode(codeHash, confirmCode) != nil {
			return ErrInvalidCode
		}
		return nil
	}, replacement)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}

	return s.generateAccessToken(user)
}

func (s *authService) generateAccessToken(user *models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:    user.ID,
		Username:  user.Username,
		Role:      user.Role,
		Superuser: user.Superuser,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// uniqueViolationSentinel picks the conflict sentinel matching the column
// the violated constraint guards.
func uniqueViolationSentinel(err error) error {
	if repository.IsUniqueViolationOn(err, "email") {
		return ErrEmailInUse
	}
	return ErrUsernameInUse
}

func (s *authService) sendConfirmCode(ctx context.Context, user *models.User, code string) error {
	body := fmt.Sprintf("Hello %s,\n\nyour confirm code is %s\n", user.Username, code)
	if err := s.mail.Send(ctx, user.Email, confirmMailSubject, body); err != nil {
		return fmt.Errorf("dispatch confirm code: %w", err)
	}
	return nil
}
