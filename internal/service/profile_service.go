package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"os"
	"regexp"
	"time"

	"github.com/solucomercial/vola-solucoes/internal/apperr"
	"github.com/solucomercial/vola-solucoes/internal/model"
	"github.com/solucomercial/vola-solucoes/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// DTOs for Request validation
type SignupRequest struct {
	FullName   string `json:"full_name" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Department string `json:"department"`
	Password   string `json:"password" binding:"required,min=6"`
}

type CreateProfileRequest struct {
	FullName   string `json:"full_name" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Department string `json:"department"`
	Password   string `json:"password" binding:"required,min=6"`
	Role       string `json:"role" binding:"required"`
}

type UpdateProfileRequest struct {
	FullName   string `json:"full_name"`
	Email      string `json:"email" binding:"omitempty,email"`
	Department string `json:"department"`
	Role       string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type TokenResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
}

// DTO for returning a Profile without exposing sensitive data
type ProfileResponse struct {
	ID         uuid.UUID  `json:"id"`
	FullName   string     `json:"full_name"`
	Email      string     `json:"email"`
	Department string     `json:"department"`
	Role       model.Role `json:"role"`
	CreatedAt  string     `json:"created_at"`
	UpdatedAt  string     `json:"updated_at"`
}

// ProfileService defines the business logic for accounts and sessions
type ProfileService interface {
	Signup(ctx context.Context, req SignupRequest) (*ProfileResponse, error)
	Login(ctx context.Context, req LoginRequest) (*TokenResponse, error)
	RefreshToken(ctx context.Context, req RefreshTokenRequest) (*TokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	GetByID(ctx context.Context, id string) (*ProfileResponse, error)
	List(ctx context.Context, page, limit int) ([]ProfileResponse, int64, error)
	Create(ctx context.Context, req CreateProfileRequest) (*ProfileResponse, error)
	Update(ctx context.Context, id string, req UpdateProfileRequest) (*ProfileResponse, error)
	Delete(ctx context.Context, id string) error
}

type profileService struct {
	repo repository.ProfileRepository
}

func NewProfileService(repo repository.ProfileRepository) ProfileService {
	return &profileService{repo: repo}
}

var emailRegex = regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`)

const (
	accessTokenTTL  = 24 * time.Hour
	refreshTokenTTL = 7 * 24 * time.Hour
)

func mapToProfileResponse(p *model.Profile) *ProfileResponse {
	return &ProfileResponse{
		ID:         p.ID,
		FullName:   p.FullName,
		Email:      p.Email,
		Department: p.Department,
		Role:       p.Role,
		CreatedAt:  p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  p.UpdatedAt.Format(time.RFC3339),
	}
}

func jwtSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "default_super_secret_key" // Development fallback only
	}
	return []byte(secret)
}

func (s *profileService) signToken(p *model.Profile) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  p.ID.String(),
		"role": string(p.Role),
		"exp":  time.Now().Add(accessTokenTTL).Unix(),
	})
	return token.SignedString(jwtSecret())
}

func (s *profileService) issueTokens(ctx context.Context, p *model.Profile) (*TokenResponse, error) {
	accessToken, err := s.signToken(p)
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return nil, errors.New("failed to generate refresh token")
	}
	refresh := hex.EncodeToString(raw)

	rt := model.RefreshToken{
		ProfileID: p.ID,
		Token:     refresh,
		ExpiresAt: time.Now().Add(refreshTokenTTL),
	}
	if err := s.repo.CreateRefreshToken(ctx, &rt); err != nil {
		return nil, errors.New("failed to persist refresh token")
	}

	return &TokenResponse{Token: accessToken, RefreshToken: refresh}, nil
}

func (s *profileService) Signup(ctx context.Context, req SignupRequest) (*ProfileResponse, error) {
	if !emailRegex.MatchString(req.Email) {
		return nil, apperr.ValidationError{Field: "email", Msg: "invalid email format"}
	}

	if _, err := s.repo.GetByEmail(ctx, req.Email); err == nil {
		return nil, apperr.ValidationError{Field: "email", Msg: "email already exists"}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.New("failed to hash password")
	}

	// Accounts always start as employees; an admin promotes approvers
	profile := &model.Profile{
		FullName:   req.FullName,
		Email:      req.Email,
		Department: req.Department,
		Password:   string(hashed),
		Role:       model.RoleEmployee,
	}

	if err := s.repo.Create(ctx, profile); err != nil {
		return nil, err
	}

	return mapToProfileResponse(profile), nil
}

func (s *profileService) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	profile, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, errors.New("invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.Password), []byte(req.Password)); err != nil {
		return nil, errors.New("invalid email or password")
	}

	return s.issueTokens(ctx, profile)
}

func (s *profileService) RefreshToken(ctx context.Context, req RefreshTokenRequest) (*TokenResponse, error) {
	stored, err := s.repo.GetRefreshToken(ctx, req.RefreshToken)
	if err != nil {
		return nil, errors.New("invalid refresh token")
	}
	if time.Now().After(stored.ExpiresAt) {
		_ = s.repo.DeleteRefreshToken(ctx, stored.Token)
		return nil, errors.New("refresh token expired")
	}

	profile, err := s.repo.GetByID(ctx, stored.ProfileID.String())
	if err != nil {
		return nil, errors.New("profile not found")
	}

	// Rotate: the old token is single use
	if err := s.repo.DeleteRefreshToken(ctx, stored.Token); err != nil {
		return nil, errors.New("failed to rotate refresh token")
	}

	return s.issueTokens(ctx, profile)
}

func (s *profileService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.repo.DeleteRefreshToken(ctx, refreshToken)
}

func (s *profileService) GetByID(ctx context.Context, id string) (*ProfileResponse, error) {
	profile, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.NotFoundError{Resource: "profile", Err: err}
	}
	return mapToProfileResponse(profile), nil
}

func (s *profileService) List(ctx context.Context, page, limit int) ([]ProfileResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}

	profiles, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ProfileResponse, 0, len(profiles))
	for _, p := range profiles {
		responses = append(responses, *mapToProfileResponse(&p))
	}
	return responses, total, nil
}

func (s *profileService) Create(ctx context.Context, req CreateProfileRequest) (*ProfileResponse, error) {
	role := model.Role(req.Role)
	if !role.Valid() {
		return nil, apperr.ValidationError{Field: "role", Msg: "role must be employee, approver, or admin"}
	}
	if !emailRegex.MatchString(req.Email) {
		return nil, apperr.ValidationError{Field: "email", Msg: "invalid email format"}
	}
	if _, err := s.repo.GetByEmail(ctx, req.Email); err == nil {
		return nil, apperr.ValidationError{Field: "email", Msg: "email already exists"}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.New("failed to hash password")
	}

	profile := &model.Profile{
		FullName:   req.FullName,
		Email:      req.Email,
		Department: req.Department,
		Password:   string(hashed),
		Role:       role,
	}
	if err := s.repo.Create(ctx, profile); err != nil {
		return nil, err
	}

	return mapToProfileResponse(profile), nil
}

func (s *profileService) Update(ctx context.Context, id string, req UpdateProfileRequest) (*ProfileResponse, error) {
	profile, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.NotFoundError{Resource: "profile", Err: err}
	}

	if req.Role != "" {
		role := model.Role(req.Role)
		if !role.Valid() {
			return nil, apperr.ValidationError{Field: "role", Msg: "role must be employee, approver, or admin"}
		}
		profile.Role = role
	}

	if req.Email != "" && req.Email != profile.Email {
		if _, err := s.repo.GetByEmail(ctx, req.Email); err == nil {
			return nil, apperr.ValidationError{Field: "email", Msg: "email already exists"}
		}
		profile.Email = req.Email
	}

	if req.FullName != "" {
		profile.FullName = req.FullName
	}
	if req.Department != "" {
		profile.Department = req.Department
	}

	if err := s.repo.Update(ctx, profile); err != nil {
		return nil, err
	}

	return mapToProfileResponse(profile), nil
}

func (s *profileService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return apperr.NotFoundError{Resource: "profile", Err: err}
	}
	return s.repo.Delete(ctx, id)
}
