package service

import (
	"context"

	"github.com/hrstack/onboarding-service/config"
	"github.com/hrstack/onboarding-service/internal/domain"
	"github.com/hrstack/onboarding-service/internal/dto"
	"github.com/hrstack/onboarding-service/internal/rbac"
	"github.com/hrstack/onboarding-service/internal/repository"
	pkgdto "github.com/hrstack/onboarding-service/pkg/dto"
	"github.com/hrstack/onboarding-service/pkg/errs"
	"github.com/hrstack/onboarding-service/pkg/response"
)

type UserService interface {
	GetProfile(ctx context.Context, userID int64) (resp dto.UserResponse, err error)
	GetUsers(ctx context.Context, filter pkgdto.Filter) (resp response.PaginationResponse, err error)
	AssignRole(ctx context.Context, assigner domain.User, targetUserID int64, role domain.Role) (err error)
	DeactivateUser(ctx context.Context, targetUserID int64) (err error)
}

type UserServiceImpl struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	config      config.Config
}

func CreateNewUserService(userRepo repository.UserRepository, sessionRepo repository.SessionRepository, config config.Config) UserService {
	return &UserServiceImpl{userRepo: userRepo, sessionRepo: sessionRepo, config: config}
}

func (s *UserServiceImpl) GetProfile(ctx context.Context, userID int64) (resp dto.UserResponse, err error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return
	}
	if user.ID == 0 {
		return resp, errs.ErrNotFound
	}

	return dto.ToUserResponse(user), nil
}

func (s *UserServiceImpl) GetUsers(ctx context.Context, filter pkgdto.Filter) (resp response.PaginationResponse, err error) {
	filter.Normalize()

	users, err := s.userRepo.GetUsers(ctx, filter)
	if err != nil {
		return
	}

	count, err := s.userRepo.CountUsers(ctx, filter)
	if err != nil {
		return
	}

	records := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		records = append(records, dto.ToUserResponse(u))
	}

	resp.Metadata = response.PaginationMetadata{
		TotalCount: count,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}
	resp.Records = records

	return resp, nil
}

// AssignRole applies the role-assignment gate: only admins mint admins, hr
// managers may hand out hr_manager and employee, employees assign nothing.
func (s *UserServiceImpl) AssignRole(ctx context.Context, assigner domain.User, targetUserID int64, role domain.Role) (err error) {
	if !role.Valid() {
		return errs.ErrValidation
	}
	if !rbac.CanAssignRole(assigner.Role, role) {
		return errs.ErrForbidden
	}

	target, err := s.userRepo.GetUserByID(ctx, targetUserID)
	if err != nil {
		return
	}
	if target.ID == 0 {
		return errs.ErrNotFound
	}

	return s.userRepo.UpdateRole(ctx, targetUserID, role)
}

// DeactivateUser flips the active flag and cuts every live session; the
// account's tokens stop verifying immediately.
func (s *UserServiceImpl) DeactivateUser(ctx context.Context, targetUserID int64) (err error) {
	target, err := s.userRepo.GetUserByID(ctx, targetUserID)
	if err != nil {
		return
	}
	if target.ID == 0 {
		return errs.ErrNotFound
	}

	err = s.userRepo.DeactivateUser(ctx, targetUserID)
	if err != nil {
		return
	}

	return s.sessionRepo.DeactivateAllSessions(ctx, targetUserID)
}
