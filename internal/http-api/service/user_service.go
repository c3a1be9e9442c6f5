package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"reviewhub/internal/http-api/auth"
	"reviewhub/internal/http-api/dto"
	"reviewhub/internal/http-api/mailer"
	"reviewhub/internal/http-api/models"
	"reviewhub/internal/http-api/repository"
	"reviewhub/internal/http-api/validation"
)

var ErrUnknownRole = errors.New("unknown role")

var validRoles = map[string]struct{}{
	models.RoleUser:      {},
	models.RoleModerator: {},
	models.RoleAdmin:     {},
}

// UserService covers the admin-side account management plus the "me"
// self-service contract.
type UserService interface {
	Create(ctx context.Context, req dto.CreateUserRequest) (*models.User, error)
	List(ctx context.Context, search string, page, pageSize int) ([]models.User, int64, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Update(ctx context.Context, username string, req dto.UpdateUserRequest) (*models.User, error)
	Delete(ctx context.Context, username string) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	UpdateMe(ctx context.Context, id string, req dto.UpdateUserRequest) (*models.User, error)
}

type userService struct {
	userRepo repository.UserRepository
	mail     mailer.Mailer
}

func NewUserService(userRepo repository.UserRepository, mail mailer.Mailer) UserService {
	return &userService{userRepo: userRepo, mail: mail}
}

// Create is the admin path; the new account still goes through the email
// confirmation flow before it can obtain a token.
func (s *userService) Create(ctx context.Context, req dto.CreateUserRequest) (*models.User, error) {
	if err := validation.Username(req.Username); err != nil {
		return nil, err
	}
	role := req.Role
	if role == "" {
		role = models.RoleUser
	}
	if err := checkRole(role); err != nil {
		return nil, err
	}

	if _, err := s.userRepo.FindByUsername(ctx, req.Username); err == nil {
		return nil, ErrUsernameInUse
	}
	if _, err := s.userRepo.FindByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailInUse
	}

	code := auth.NewConfirmCode()
	codeHash, err := auth.HashCode(code)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:    req.Username,
		Email:       req.Email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Bio:         req.Bio,
		Role:        role,
		ConfirmCode: codeHash,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, uniqueViolationSentinel(err)
		}
		return nil, err
	}

	body := fmt.Sprintf("Hello %s,\n\nyour confirm code is %s\n", user.Username, code)
	if err := s.mail.Send(ctx, user.Email, confirmMailSubject, body); err != nil {
		return nil, fmt.Errorf("dispatch confirm code: %w", err)
	}
	return user, nil
}

func (s *userService) List(ctx context.Context, search string, page, pageSize int) ([]models.User, int64, error) {
	return s.userRepo.List(ctx, search, page, pageSize)
}

func (s *userService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// Update is the admin path and may change any field, including role.
func (s *userService) Update(ctx context.Context, username string, req dto.UpdateUserRequest) (*models.User, error) {
	user, err := s.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if req.Role != nil {
		if err := checkRole(*req.Role); err != nil {
			return nil, err
		}
		user.Role = *req.Role
	}
	return s.apply(ctx, user, req)
}

func (s *userService) Delete(ctx context.Context, username string) error {
	if err := s.userRepo.Delete(ctx, username); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateMe is the self-service path. A role field in the payload is
// silently discarded, never rejected: the stored role always survives.
func (s *userService) UpdateMe(ctx context.Context, id string, req dto.UpdateUserRequest) (*models.User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	req.Role = nil
	return s.apply(ctx, user, req)
}

func (s *userService) apply(ctx context.Context, user *models.User, req dto.UpdateUserRequest) (*models.User, error) {
	if req.Username != nil {
		if err := validation.Username(*req.Username); err != nil {
			return nil, err
		}
		user.Username = *req.Username
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, uniqueViolationSentinel(err)
		}
		return nil, err
	}
	return user, nil
}

func checkRole(role string) error {
	if _, ok := validRoles[role]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}
	return nil
}
