package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"bookmarket-backend/internal/domains/user/model"
	"bookmarket-backend/internal/domains/user/repository"
	"bookmarket-backend/internal/shared/apperror"
	"bookmarket-backend/internal/shared/authz"
)

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) Register(ctx context.Context, req model.RegisterRequest) (*model.RegisterResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, apperror.InvalidInputErr("Invalid registration request", err)
	}

	u := &model.User{
		ID:        uuid.New(),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Name:      strings.TrimSpace(req.Name),
		Role:      authz.RoleUser,
		CreatedAt: time.Now(),
	}

	if err := s.userRepo.Create(ctx, u); err != nil {
		if errors.Is(err, model.ErrUserExists) {
			return &model.RegisterResponse{
				InsertedID: nil,
				Message:    "User already exists",
			}, nil
		}
		return nil, apperror.Upstream("Failed to register user", err)
	}

	return &model.RegisterResponse{
		InsertedID: &u.ID,
		Message:    "User registered",
	}, nil
}

func (s *userService) GetRole(ctx context.Context, email string) (*model.RoleResponse, error) {
	u, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, apperror.NotFound("User not found")
		}
		return nil, apperror.Upstream("Failed to look up user", err)
	}

	return &model.RoleResponse{Email: u.Email, Role: u.Role}, nil
}

func (s *userService) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, apperror.Upstream("Failed to list users", err)
	}
	return users, nil
}

func (s *userService) ChangeRole(ctx context.Context, id uuid.UUID, role authz.Role) (*model.User, error) {
	if !role.IsValid() {
		return nil, apperror.InvalidInput(fmt.Sprintf("Unknown role %q", role))
	}

	if err := s.userRepo.UpdateRole(ctx, id, role); err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, apperror.NotFound("User not found")
		}
		return nil, apperror.Upstream("Failed to change role", err)
	}

	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Upstream("Failed to reload user", err)
	}

	return u, nil
}

func (s *userService) RoleLookup(ctx context.Context, email string) (authz.Role, error) {
	u, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	return u.Role, nil
}
