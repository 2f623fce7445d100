package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"yamdb/internal/data/entity"
	"yamdb/internal/data/repository"
	"yamdb/internal/dto/request"
	"yamdb/internal/dto/response"
	"yamdb/pkg/mailer"
	"yamdb/pkg/utils"

	"go.uber.org/zap"
)

const (
	confirmationSubject = "YaMDb confirmation code"
	// upper bound on active codes compared per token request
	activeCodeWindow = 5
	mailTimeout      = 15 * time.Second
)

type AuthService interface {
	Signup(ctx context.Context, req *request.SignupRequest) (*response.SignupResponse, error)
	Token(ctx context.Context, req *request.TokenRequest) (*response.TokenResponse, error)
}

type authService struct {
	repo   *repository.Repository // users and confirmation codes
	tokens TokenIssuer
	mail   mailer.Mailer
	config utils.ConfirmationConfig
	log    *zap.Logger
}

func NewAuthService(
	repo *repository.Repository,
	tokens TokenIssuer,
	mail mailer.Mailer,
	config utils.ConfirmationConfig,
	log *zap.Logger,
) AuthService {
	return &authService{
		repo:   repo,
		tokens: tokens,
		mail:   mail,
		config: config,
		log:    log.With(zap.String("service", "auth")),
	}
}

// Signup registers a new user or re-sends a code to an existing
// (username, email) pair.
func (s *authService) Signup(ctx context.Context, req *request.SignupRequest) (*response.SignupResponse, error) {
	// 1. Validate input
	if err := validate(req); err != nil {
		s.log.Warn("Signup validation failed", zap.Error(err))
		return nil, err
	}

	// 2. Look both identifiers up
	byUsername, err := s.repo.User.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}

	user := byUsername
	if byUsername == nil || byUsername.Email != req.Email {
		byEmail, err := s.repo.User.FindByEmail(ctx, req.Email)
		if err != nil {
			return nil, fmt.Errorf("check email: %w", err)
		}

		// 3. Either identifier taken by someone else
		fields := make(map[string]string)
		if byEmail != nil {
			fields["email"] = "A user with this email already exists"
		}
		if byUsername != nil {
			fields["username"] = "A user with this username already exists"
		}
		if len(fields) > 0 {
			return nil, &ValidationError{Fields: fields}
		}

		// 4. Fresh account
		user = &entity.User{
			Username:   req.Username,
			Email:      req.Email,
			Role:       entity.RoleUser,
			IsActive:   true,
			DateJoined: now(),
		}
		if err := s.repo.User.Create(ctx, user); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return nil, fieldError(NonFieldErrors, "A user with this username or email already exists")
			}
			return nil, fmt.Errorf("create user: %w", err)
		}

		s.log.Info("User registered",
			zap.Int64("user_id", user.ID),
			zap.String("username", user.Username),
		)
	}

	// 5. Issue and deliver the code
	code, err := s.issueCode(ctx, user)
	if err != nil {
		return nil, err
	}
	s.deliverCode(ctx, user, code)

	return &response.SignupResponse{Email: user.Email, Username: user.Username}, nil
}

// Token exchanges a confirmation code for an access token. The code is
// consumed on success.
func (s *authService) Token(ctx context.Context, req *request.TokenRequest) (*response.TokenResponse, error) {
	if err := validate(req); err != nil {
		s.log.Warn("Token validation failed", zap.Error(err))
		return nil, err
	}

	user, err := s.repo.User.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user %s: %w", req.Username, ErrNotFound)
	}
	if !user.IsActive {
		s.log.Warn("Inactive user requested a token", zap.Int64("user_id", user.ID))
		return nil, ErrInactive
	}

	codes, err := s.repo.ConfirmationCode.FindActiveByUser(ctx, user.ID, activeCodeWindow)
	if err != nil {
		return nil, fmt.Errorf("load confirmation codes: %w", err)
	}

	var matched *entity.ConfirmationCode
	for _, code := range codes {
		if utils.CheckCodeHash(req.ConfirmationCode, code.CodeHash) {
			matched = code
			break
		}
	}
	if matched == nil {
		s.log.Warn("Confirmation code mismatch", zap.Int64("user_id", user.ID))
		return nil, ErrInvalidCode
	}

	if err := s.repo.ConfirmationCode.MarkUsed(ctx, matched.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCode
		}
		return nil, fmt.Errorf("consume confirmation code: %w", err)
	}

	if err := s.repo.User.UpdateLastLogin(ctx, user.ID, now()); err != nil {
		s.log.Warn("Failed to update last login", zap.Error(err), zap.Int64("user_id", user.ID))
	}

	token, expiresAt, err := s.tokens.Generate(user.ID, user.Username, string(user.Role))
	if err != nil {
		s.log.Error("Failed to generate token", zap.Error(err), zap.Int64("user_id", user.ID))
		return nil, fmt.Errorf("generate token: %w", err)
	}

	s.log.Info("Token issued", zap.Int64("user_id", user.ID), zap.String("username", user.Username))

	return &response.TokenResponse{Token: token, ExpiresAt: expiresAt}, nil
}

// ==================== HELPER METHODS ====================

// issueCode revokes earlier codes and stores the hash of a new one.
func (s *authService) issueCode(ctx context.Context, user *entity.User) (string, error) {
	code, err := utils.GenerateConfirmationCode(s.config.Length)
	if err != nil {
		return "", fmt.Errorf("generate confirmation code: %w", err)
	}

	hash, err := utils.HashCode(code)
	if err != nil {
		return "", fmt.Errorf("hash confirmation code: %w", err)
	}

	if err := s.repo.ConfirmationCode.RevokeAllForUser(ctx, user.ID); err != nil {
		return "", fmt.Errorf("revoke previous codes: %w", err)
	}

	issuedAt := now()
	record := &entity.ConfirmationCode{
		UserID:    user.ID,
		CodeHash:  hash,
		ExpiresAt: issuedAt.Add(time.Duration(s.config.ExpiryMinutes) * time.Minute),
		CreatedAt: issuedAt,
	}
	if err := s.repo.ConfirmationCode.Create(ctx, record); err != nil {
		return "", fmt.Errorf("store confirmation code: %w", err)
	}

	return code, nil
}

// deliverCode emails the code; delivery failures are logged only.
func (s *authService) deliverCode(ctx context.Context, user *entity.User, code string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), mailTimeout)
	defer cancel()

	body := fmt.Sprintf(
		"Your YaMDb confirmation code:\n%s\n\n"+
			"Send a POST request with this code and your username to auth/token/ to get an access token.\n"+
			"The code expires in %d minutes.",
		code, s.config.ExpiryMinutes,
	)

	if err := s.mail.Send(ctx, user.Email, confirmationSubject, body); err != nil {
		s.log.Error("Failed to send confirmation code",
			zap.Error(err),
			zap.Int64("user_id", user.ID),
			zap.String("email", user.Email),
		)
		return
	}

	s.log.Info("Confirmation code sent", zap.Int64("user_id", user.ID))
}
