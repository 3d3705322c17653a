package user

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/leavedesk/leavedesk-backend-go/internal/domain/auth"
	"github.com/leavedesk/leavedesk-backend-go/internal/domain/user"
)

type UserServiceImpl struct {
	users         user.UserRepository
	refreshTokens auth.RefreshTokenRepository
}

func NewUserService(users user.UserRepository, refreshTokens auth.RefreshTokenRepository) user.UserService {
	return &UserServiceImpl{users: users, refreshTokens: refreshTokens}
}

// Create implements user.UserService.
func (s *UserServiceImpl) Create(ctx context.Context, req user.CreateUserRequest) (user.UserResponse, error) {
	if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
		return user.UserResponse{}, user.ErrEmailExists
	} else if err != user.ErrUserNotFound {
		return user.UserResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return user.UserResponse{}, fmt.Errorf("hash password: %w", err)
	}
	hashed := string(hash)

	var hireDate *time.Time
	if req.HireDate != nil {
		parsed, err := time.Parse("2006-01-02", *req.HireDate)
		if err == nil {
			hireDate = &parsed
		}
	}

	created, err := s.users.Create(ctx, user.User{
		Email:        req.Email,
		PasswordHash: &hashed,
		FullName:     req.FullName,
		EmployeeCode: req.EmployeeCode,
		Role:         user.Role(req.Role),
		DepartmentID: req.DepartmentID,
		Grade:        req.Grade,
		ManagerID:    req.ManagerID,
		HireDate:     hireDate,
	})
	if err != nil {
		return user.UserResponse{}, err
	}

	return user.ToResponse(created), nil
}

// Get implements user.UserService.
func (s *UserServiceImpl) Get(ctx context.Context, id string) (user.UserResponse, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return user.UserResponse{}, err
	}
	return user.ToResponse(u), nil
}

// List implements user.UserService.
func (s *UserServiceImpl) List(ctx context.Context) ([]user.UserResponse, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]user.UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, user.ToResponse(u))
	}
	return responses, nil
}

// Update implements user.UserService. Deactivating an account also revokes
// its refresh tokens so open sessions cannot outlive it.
func (s *UserServiceImpl) Update(ctx context.Context, req user.UpdateUserRequest) error {
	if err := s.users.Update(ctx, req); err != nil {
		return err
	}

	if req.IsActive != nil && !*req.IsActive {
		if err := s.refreshTokens.RevokeAllForUser(ctx, req.ID); err != nil {
			return fmt.Errorf("revoke sessions: %w", err)
		}
	}
	return nil
}
