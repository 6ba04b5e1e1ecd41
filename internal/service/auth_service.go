package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ebucks/internal/config"
	"ebucks/internal/dto"
	"ebucks/internal/model"
	"ebucks/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// defaultHourlyRate applies when a user is created without a rate.
var defaultHourlyRate = decimal.NewFromInt(15)

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	CreateUser(ctx context.Context, req dto.CreateUserRequest) (*dto.UserResponse, error)
	ListUsers(ctx context.Context) ([]dto.UserResponse, error)
	DeactivateUser(ctx context.Context, id uuid.UUID) error
	// EnsureAdmin creates the bootstrap admin when there are no users yet.
	EnsureAdmin(ctx context.Context) error
}

type authService struct {
	repo repository.UserRepository
	cfg  *config.Config
}

func NewAuthService(repo repository.UserRepository, cfg *config.Config) AuthService {
	return &authService{repo: repo, cfg: cfg}
}

// findByPIN returns the active user whose PIN hash matches pin. PINs are
// hashed, so every active user is checked.
func findByPIN(ctx context.Context, users repository.UserRepository, pin string) (*model.User, error) {
	all, err := users.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if bcrypt.CompareHashAndPassword([]byte(all[i].PINHash), []byte(pin)) == nil {
			return &all[i], nil
		}
	}
	return nil, ErrInvalidPIN
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := findByPIN(ctx, s.repo, req.PIN)
	if err != nil {
		return nil, err
	}

	token, err := s.generateToken(user, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Success:     true,
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   s.cfg.JWTExpirationHours * 3600,
		User:        userResponse(*user),
	}, nil
}

func (s *authService) CreateUser(ctx context.Context, req dto.CreateUserRequest) (*dto.UserResponse, error) {
	// Login is by PIN alone, so two users cannot share one.
	if _, err := findByPIN(ctx, s.repo, req.PIN); err == nil {
		return nil, ErrPINTaken
	} else if !errors.Is(err, ErrInvalidPIN) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.PIN), s.cfg.PINHashCost)
	if err != nil {
		return nil, err
	}
	rate := defaultHourlyRate
	if req.HourlyRate != nil {
		rate = req.HourlyRate.Round(2)
	}
	user := &model.User{
		Name:       req.Name,
		Role:       req.Role,
		PINHash:    string(hash),
		HourlyRate: rate,
		Email:      req.Email,
		Active:     true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	resp := userResponse(*user)
	return &resp, nil
}

func (s *authService) ListUsers(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.UserResponse, len(users))
	for i, u := range users {
		resp[i] = userResponse(u)
	}
	return resp, nil
}

func (s *authService) DeactivateUser(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: user %s", ErrNotFound, id)
		}
		return err
	}
	return nil
}

func (s *authService) EnsureAdmin(ctx context.Context) error {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(s.cfg.AdminPIN), s.cfg.PINHashCost)
	if err != nil {
		return err
	}
	admin := &model.User{
		Name:       s.cfg.AdminName,
		Role:       model.RoleAdmin,
		PINHash:    string(hash),
		HourlyRate: decimal.NewFromInt(50),
		Active:     true,
	}
	if err := s.repo.Create(ctx, admin); err != nil {
		return err
	}
	log.Warn().Str("name", admin.Name).Msg("bootstrap admin created, change its PIN")
	return nil
}

func (s *authService) generateToken(user *model.User, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID.String(),
		"name":    user.Name,
		"role":    user.Role,
		"exp":     time.Now().Add(duration).Unix(),
		"iat":     time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func userResponse(u model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:         u.ID.String(),
		Name:       u.Name,
		Role:       u.Role,
		HourlyRate: u.HourlyRate,
		Email:      u.Email,
		Active:     u.Active,
		CreatedAt:  u.CreatedAt.Format(time.RFC3339),
	}
}
