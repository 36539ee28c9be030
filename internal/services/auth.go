package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/badwolf/storefront-backend/internal/data/repos"
	"github.com/badwolf/storefront-backend/internal/domain"
	"github.com/badwolf/storefront-backend/internal/normalization"
	"github.com/badwolf/storefront-backend/internal/platform/apperr"
	"github.com/badwolf/storefront-backend/internal/platform/logger"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// UserUpdate carries the mutable profile fields; nil means unchanged.
// Email and password stay fixed through this path.
type UserUpdate struct {
	Name          *string
	LoyaltyPoints *int
}

type AuthService interface {
	RegisterUser(ctx context.Context, user *domain.User) error
	LoginUser(ctx context.Context, email, password string) (*domain.User, string, error)
	GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error)
	UpdateUser(ctx context.Context, id uuid.UUID, upd UserUpdate) (*domain.User, error)
}

type authService struct {
	db           *gorm.DB
	users        repos.UserRepo
	log          *logger.Logger
	jwtSecretKey string
	accessTTL    time.Duration
}

func NewAuthService(db *gorm.DB, users repos.UserRepo, baseLog *logger.Logger, jwtSecretKey string, accessTTL time.Duration) AuthService {
	return &authService{
		db:           db,
		users:        users,
		log:          baseLog.With("service", "AuthService"),
		jwtSecretKey: jwtSecretKey,
		accessTTL:    accessTTL,
	}
}

func (as *authService) RegisterUser(ctx context.Context, user *domain.User) error {
	user.Email = normalization.ParseInputString(user.Email)
	if user.Email == "" || user.Password == "" {
		return fmt.Errorf("email and password are required")
	}

	existing, err := as.users.GetByEmail(ctx, nil, user.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrEmailTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.ID = uuid.New()
	user.Password = string(hashed)
	if err := as.users.Create(ctx, nil, user); err != nil {
		return err
	}
	as.log.Info("user registered", "user_id", user.ID.String())
	return nil
}

func (as *authService) LoginUser(ctx context.Context, email, password string) (*domain.User, string, error) {
	email = normalization.ParseInputString(email)

	user, err := as.users.GetByEmail(ctx, nil, email)
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		return nil, "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := as.generateAccessToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (as *authService) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := as.users.GetByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user %s", apperr.ErrNotFound, id)
	}
	return user, nil
}

func (as *authService) UpdateUser(ctx context.Context, id uuid.UUID, upd UserUpdate) (*domain.User, error) {
	updates := map[string]interface{}{"updated_at": time.Now().UTC()}
	if upd.Name != nil {
		updates["name"] = *upd.Name
	}
	if upd.LoyaltyPoints != nil {
		updates["loyalty_points"] = *upd.LoyaltyPoints
	}
	affected, err := as.users.UpdateFields(ctx, nil, id, updates)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, fmt.Errorf("%w: user %s", apperr.ErrNotFound, id)
	}
	return as.users.GetByID(ctx, nil, id)
}

func (as *authService) generateAccessToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"email": user.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(as.accessTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(as.jwtSecretKey))
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return signed, nil
}
