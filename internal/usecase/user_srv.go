package usecase

import (
	"context"
	"errors"
	"fmt"

	"yamdb/internal/data/entity"
	"yamdb/internal/data/repository"
	"yamdb/internal/dto/request"
	"yamdb/internal/dto/response"
	"yamdb/pkg/sanitize"

	"go.uber.org/zap"
)

type UserService interface {
	GetAllUsers(ctx context.Context, req *request.SearchRequest) (*response.PaginatedResponse[response.UserResponse], error)
	CreateUser(ctx context.Context, req *request.CreateUserRequest) (*response.UserResponse, error)
	GetUser(ctx context.Context, username string) (*response.UserResponse, error)
	UpdateUser(ctx context.Context, username string, req *request.UpdateUserRequest) (*response.UserResponse, error)
	DeleteUser(ctx context.Context, username string) error

	// Self profile
	GetProfile(ctx context.Context, userID int64) (*response.UserResponse, error)
	UpdateProfile(ctx context.Context, userID int64, req *request.UpdateUserRequest) (*response.UserResponse, error)
}

type userService struct {
	userRepo repository.UserRepository
	log      *zap.Logger
}

func NewUserService(userRepo repository.UserRepository, log *zap.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		log:      log.With(zap.String("service", "user")),
	}
}

func (us *userService) GetAllUsers(ctx context.Context, req *request.SearchRequest) (*response.PaginatedResponse[response.UserResponse], error) {
	users, err := us.userRepo.FindAll(ctx, req.Search, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	total, err := us.userRepo.CountAll(ctx, req.Search)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	userResponses := make([]response.UserResponse, len(users))
	for i, user := range users {
		userResponses[i] = response.UserToResponse(user)
	}

	us.log.Debug("Users retrieved",
		zap.Int("count", len(users)),
		zap.Int64("total", total),
		zap.String("search", req.Search),
	)

	return response.NewPaginatedResponse(userResponses, req.CurrentPage(), req.Limit(), total), nil
}

func (us *userService) CreateUser(ctx context.Context, req *request.CreateUserRequest) (*response.UserResponse, error) {
	req.FirstName = sanitize.Text(req.FirstName)
	req.LastName = sanitize.Text(req.LastName)
	req.Bio = sanitize.Prose(req.Bio)

	if err := validate(req); err != nil {
		return nil, err
	}

	if err := us.checkAvailable(ctx, 0, req.Username, req.Email); err != nil {
		return nil, err
	}

	role := entity.RoleUser
	if req.Role != "" {
		role = entity.UserRole(req.Role)
	}

	user := &entity.User{
		Username:   req.Username,
		Email:      req.Email,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Bio:        req.Bio,
		Role:       role,
		IsActive:   true,
		DateJoined: now(),
	}

	if err := us.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fieldError(NonFieldErrors, "A user with this username or email already exists")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	us.log.Info("User created",
		zap.Int64("user_id", user.ID),
		zap.String("username", user.Username),
		zap.String("role", string(user.Role)),
	)

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (us *userService) GetUser(ctx context.Context, username string) (*response.UserResponse, error) {
	user, err := us.findByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (us *userService) UpdateUser(ctx context.Context, username string, req *request.UpdateUserRequest) (*response.UserResponse, error) {
	user, err := us.findByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	return us.update(ctx, user, req, true)
}

func (us *userService) DeleteUser(ctx context.Context, username string) error {
	user, err := us.findByUsername(ctx, username)
	if err != nil {
		return err
	}

	if err := us.userRepo.Delete(ctx, user.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("user %s: %w", username, ErrNotFound)
		}
		return fmt.Errorf("delete user: %w", err)
	}

	us.log.Info("User deleted", zap.Int64("user_id", user.ID), zap.String("username", user.Username))
	return nil
}

func (us *userService) GetProfile(ctx context.Context, userID int64) (*response.UserResponse, error) {
	user, err := us.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

// UpdateProfile applies a self edit; the role field is ignored.
func (us *userService) UpdateProfile(ctx context.Context, userID int64, req *request.UpdateUserRequest) (*response.UserResponse, error) {
	user, err := us.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}

	return us.update(ctx, user, req, false)
}

// ==================== HELPER METHODS ====================

func (us *userService) findByUsername(ctx context.Context, username string) (*entity.User, error) {
	user, err := us.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user %s: %w", username, ErrNotFound)
	}
	return user, nil
}

func (us *userService) update(ctx context.Context, user *entity.User, req *request.UpdateUserRequest, allowRole bool) (*response.UserResponse, error) {
	sanitize.TextPtr(req.FirstName)
	sanitize.TextPtr(req.LastName)
	sanitize.ProsePtr(req.Bio)

	if err := validate(req); err != nil {
		return nil, err
	}

	username, email := user.Username, user.Email
	if req.Username != nil {
		username = *req.Username
	}
	if req.Email != nil {
		email = *req.Email
	}
	if err := us.checkAvailable(ctx, user.ID, username, email); err != nil {
		return nil, err
	}

	user.Username = username
	user.Email = email
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if allowRole && req.Role != nil {
		user.Role = entity.UserRole(*req.Role)
	}

	if err := us.userRepo.Update(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, fieldError(NonFieldErrors, "A user with this username or email already exists")
		case errors.Is(err, repository.ErrNotFound):
			return nil, fmt.Errorf("user %d: %w", user.ID, ErrNotFound)
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	us.log.Info("User updated", zap.Int64("user_id", user.ID), zap.Bool("admin_edit", allowRole))

	resp := response.UserToResponse(user)
	return &resp, nil
}

// checkAvailable reports username/email clashes with users other than selfID.
func (us *userService) checkAvailable(ctx context.Context, selfID int64, username, email string) error {
	fields := make(map[string]string)

	byUsername, err := us.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("check username: %w", err)
	}
	if byUsername != nil && byUsername.ID != selfID {
		fields["username"] = "A user with this username already exists"
	}

	byEmail, err := us.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("check email: %w", err)
	}
	if byEmail != nil && byEmail.ID != selfID {
		fields["email"] = "A user with this email already exists"
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
