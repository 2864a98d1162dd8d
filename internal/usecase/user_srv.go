package usecase

import (
	"context"
	"strings"
	"time"

	"cleaning-hub/internal/data/repository"
	"cleaning-hub/internal/dto/request"
	"cleaning-hub/internal/dto/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UserService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *request.UpdateProfileRequest) (*response.UserResponse, error)
	GetAllUsers(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.UserResponse], error)
	DeleteUser(ctx context.Context, userID uuid.UUID) error
}

type userService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewUserService(repo *repository.Repository, log *zap.Logger) UserService {
	return &userService{
		repo: repo,
		log:      log.With(zap.String("service", "user")),
	}
}

func (us *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error) {
	user, err := us.repo.User.FindByID(ctx, userID)
	if err != nil {
		us.log.Error("Failed to find user", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, persistenceError("failed to get profile", err)
	}
	if user == nil {
		return nil, newError(ErrNotFound, "user not found")
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (us *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *request.UpdateProfileRequest) (*response.UserResponse, error) {
	if verr := validate(req); verr != nil {
		return nil, verr
	}

	user, err := us.repo.User.FindByID(ctx, userID)
	if err != nil {
		return nil, persistenceError("failed to get profile", err)
	}
	if user == nil {
		return nil, newError(ErrNotFound, "user not found")
	}

	user.Name = strings.TrimSpace(req.Name)
	user.Phone = req.Phone
	user.UpdatedAt = time.Now()

	if err := us.repo.User.Update(ctx, user); err != nil {
		us.log.Error("Failed to update profile", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, persistenceError("failed to update profile", err)
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (us *userService) GetAllUsers(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.UserResponse], error) {
	if req.Page < 1 {
		req.Page = 1
	}
	req.PerPage = req.Limit()

	users, err := us.repo.User.FindAll(ctx, req.Limit(), req.Offset())
	if err != nil {
		us.log.Error("Failed to get all users", zap.Error(err), zap.Int("page", req.Page))
		return nil, persistenceError("failed to get users", err)
	}

	total, err := us.repo.User.CountAll(ctx)
	if err != nil {
		return nil, persistenceError("failed to count users", err)
	}

	return response.NewPaginatedResponse(response.UsersToResponse(users), req.Page, req.PerPage, total), nil
}

func (us *userService) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	user, err := us.repo.User.FindByID(ctx, userID)
	if err != nil {
		return persistenceError("failed to find user", err)
	}
	if user == nil {
		return newError(ErrNotFound, "user not found")
	}

	// A deleted account loses every live session with it.
	err = us.repo.WithTx(ctx, func(tx *repository.Repository) error {
		if err := tx.User.Delete(ctx, userID); err != nil {
			return err
		}
		return tx.Session.RevokeAllUserSessions(ctx, userID)
	})
	if err != nil {
		us.log.Error("Failed to delete user", zap.Error(err), zap.String("user_id", userID.String()))
		return persistenceError("failed to delete user", err)
	}

	us.log.Info("User deleted", zap.String("user_id", userID.String()))
	return nil
}
