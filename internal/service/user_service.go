package service

import (
	"context"
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"unitdrive/internal/common"
	"unitdrive/internal/config"
	"unitdrive/internal/model"
	"unitdrive/internal/repository"
)

// DTOs for Request validation
type RegisterRequest struct {
	Username    string `json:"username" binding:"required"`
	Password    string `json:"password" binding:"required,min=6"`
	DisplayName string `json:"displayName" binding:"required"`
	Unit        string `json:"unit" binding:"required"`
}

type CreateUserRequest struct {
	Username    string `json:"username" binding:"required"`
	Password    string `json:"password" binding:"required,min=6"`
	DisplayName string `json:"displayName" binding:"required"`
	Unit        string `json:"unit" binding:"required"`
	Role        string `json:"role" binding:"required"`
}

type UpdateUserRequest struct {
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
	Unit        string `json:"unit"`
	Role        string `json:"role"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type TokenResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// DTO for returning User without exposing the stored password
type UserResponse struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	Unit        string `json:"unit"`
	Role        string `json:"role"`
	Status      string `json:"status"`
}

var (
	ErrPendingApproval    = errors.New("account is pending approval")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// UserService defines the interface for business logic related to accounts
type UserService interface {
	Register(ctx context.Context, req RegisterRequest) (*UserResponse, error)
	Login(ctx context.Context, req LoginRequest) (*TokenResponse, error)
	GetByUsername(ctx context.Context, username string) (*UserResponse, error)
	ListUsers(ctx context.Context, page, limit int) ([]UserResponse, int, error)
	CreateUser(ctx context.Context, req CreateUserRequest) (*UserResponse, error)
	UpdateUser(ctx context.Context, id string, req UpdateUserRequest) (*UserResponse, error)
	DeleteUser(ctx context.Context, id string) error
	Approve(ctx context.Context, id string) (*UserResponse, error)
}

type userService struct {
	repo repository.UserRepository
}

// NewUserService returns a new instance of UserService
func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

// Helper: check if role is allowed
func validateRole(role string) bool {
	return role == string(model.RoleAdmin) || role == string(model.RoleStaff)
}

// Helper: parse model to standard json API response
func mapToResponse(user *model.User) *UserResponse {
	status := user.Status
	if status == "" {
		status = model.StatusActive
	}
	return &UserResponse{
		ID:          user.ID,
		Username:    user.Username,
		DisplayName: user.DisplayName,
		Unit:        user.Unit,
		Role:        string(user.Role),
		Status:      string(status),
	}
}

// mutate runs one read-modify-write cycle against the users document. A
// conflicting save means another writer got in between; the cycle is repeated
// once against a fresh read, then the conflict is surfaced.
func (s *userService) mutate(ctx context.Context, apply func(users []model.User) ([]model.User, error)) error {
	for attempt := 0; ; attempt++ {
		users, err := s.repo.List(ctx)
		if err != nil {
			return err
		}
		updated, err := apply(users)
		if err != nil {
			return err
		}
		err = s.repo.SaveAll(ctx, updated)
		if err == nil {
			return nil
		}
		if !errors.Is(err, common.ErrConflict) || attempt > 0 {
			return err
		}
		s.repo.Reset()
	}
}

func findByUsername(users []model.User, username string) int {
	for i := range users {
		if strings.EqualFold(users[i].Username, username) {
			return i
		}
	}
	return -1
}

func findByID(users []model.User, id string) int {
	for i := range users {
		if users[i].ID == id {
			return i
		}
	}
	return -1
}

// Register creates a pending account. The username must not match any existing
// account, compared case-insensitively.
func (s *userService) Register(ctx context.Context, req RegisterRequest) (*UserResponse, error) {
	user := model.User{
		ID:          uuid.New().String(),
		Username:    strings.TrimSpace(req.Username),
		Password:    req.Password,
		DisplayName: strings.TrimSpace(req.DisplayName),
		Unit:        strings.TrimSpace(req.Unit),
		Role:        model.RoleStaff,
		Status:      model.StatusPending,
	}
	if user.Username == "" {
		return nil, errors.New("username is required")
	}

	err := s.mutate(ctx, func(users []model.User) ([]model.User, error) {
		if findByUsername(users, user.Username) >= 0 {
			return nil, errors.New("username already exists")
		}
		return append(users, user), nil
	})
	if err != nil {
		return nil, err
	}
	return mapToResponse(&user), nil
}

// Login checks the password against the fetched user list and issues a JWT.
// A pending account is rejected before the password is even looked at.
func (s *userService) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	user, err := s.repo.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.IsActive() {
		return nil, ErrPendingApproval
	}

	if user.Password != req.Password {
		return nil, ErrInvalidCredentials
	}

	// Generate JWT Token
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      user.ID,
		"username": user.Username,
		"role":     string(user.Role),
		"unit":     user.Unit,
	})

	tokenString, err := token.SignedString(config.JWTSecret())
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	return &TokenResponse{Token: tokenString, User: *mapToResponse(user)}, nil
}

func (s *userService) GetByUsername(ctx context.Context, username string) (*UserResponse, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, errors.New("user not found")
	}
	return mapToResponse(user), nil
}

func (s *userService) ListUsers(ctx context.Context, page, limit int) ([]UserResponse, int, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, 0, err
	}

	total := len(users)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	responses := make([]UserResponse, 0, end-start)
	for i := start; i < end; i++ {
		responses = append(responses, *mapToResponse(&users[i]))
	}
	return responses, total, nil
}

// CreateUser is the admin path: the account is active immediately.
func (s *userService) CreateUser(ctx context.Context, req CreateUserRequest) (*UserResponse, error) {
	if !validateRole(req.Role) {
		return nil, errors.New("invalid role: must be admin or staff")
	}

	user := model.User{
		ID:          uuid.New().String(),
		Username:    strings.TrimSpace(req.Username),
		Password:    req.Password,
		DisplayName: strings.TrimSpace(req.DisplayName),
		Unit:        strings.TrimSpace(req.Unit),
		Role:        model.Role(req.Role),
		Status:      model.StatusActive,
	}

	err := s.mutate(ctx, func(users []model.User) ([]model.User, error) {
		if findByUsername(users, user.Username) >= 0 {
			return nil, errors.New("username already exists")
		}
		return append(users, user), nil
	})
	if err != nil {
		return nil, err
	}
	return mapToResponse(&user), nil
}

func (s *userService) UpdateUser(ctx context.Context, id string, req UpdateUserRequest) (*UserResponse, error) {
	var updated model.User
	err := s.mutate(ctx, func(users []model.User) ([]model.User, error) {
		i := findByID(users, id)
		if i < 0 {
			return nil, errors.New("user not found")
		}
		if req.Role != "" {
			if !validateRole(req.Role) {
				return nil, errors.New("invalid role: must be admin or staff")
			}
			users[i].Role = model.Role(req.Role)
		}
		if req.Password != "" {
			users[i].Password = req.Password
		}
		if req.DisplayName != "" {
			users[i].DisplayName = req.DisplayName
		}
		if req.Unit != "" {
			users[i].Unit = req.Unit
		}
		updated = users[i]
		return users, nil
	})
	if err != nil {
		return nil, err
	}
	return mapToResponse(&updated), nil
}

func (s *userService) DeleteUser(ctx context.Context, id string) error {
	return s.mutate(ctx, func(users []model.User) ([]model.User, error) {
		i := findByID(users, id)
		if i < 0 {
			return nil, errors.New("user not found")
		}
		return append(users[:i], users[i+1:]...), nil
	})
}

// Approve flips a pending account to active. There is no reverse transition:
// once active, an account can only be edited or deleted.
func (s *userService) Approve(ctx context.Context, id string) (*UserResponse, error) {
	var approved model.User
	err := s.mutate(ctx, func(users []model.User) ([]model.User, error) {
		i := findByID(users, id)
		if i < 0 {
			return nil, errors.New("user not found")
		}
		if users[i].Status != model.StatusPending {
			return nil, errors.New("user is not pending approval")
		}
		users[i].Status = model.StatusActive
		approved = users[i]
		return users, nil
	})
	if err != nil {
		return nil, err
	}
	return mapToResponse(&approved), nil
}
