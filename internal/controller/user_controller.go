package controller

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/hrstack/onboarding-service/internal/domain"
	"github.com/hrstack/onboarding-service/internal/dto"
	"github.com/hrstack/onboarding-service/internal/middleware"
	"github.com/hrstack/onboarding-service/internal/rbac"
	"github.com/hrstack/onboarding-service/internal/service"
	pkgdto "github.com/hrstack/onboarding-service/pkg/dto"
	"github.com/hrstack/onboarding-service/pkg/errs"
	"github.com/hrstack/onboarding-service/pkg/response"
)

type UserController struct {
	service service.UserService
}

func CreateUserController(protected *echo.Group, service service.UserService) {
	uc := UserController{
		service: service,
	}
	protected.GET("/users", uc.GetUsers, middleware.RequireCapability(rbac.CapUsersRead))
	protected.GET("/users/:id", uc.GetUser, middleware.RequireCapability(rbac.CapUsersRead))
	protected.PUT("/users/:id/role", uc.AssignRole, middleware.RequireCapability(rbac.CapUsersAssignRole))
	protected.DELETE("/users/:id", uc.DeactivateUser, middleware.RequireAccess(rbac.AccessAdminOnly))
}

func (uc *UserController) GetUsers(e echo.Context) error {
	payload := pkgdto.Filter{}
	err := e.Bind(&payload)
	if err != nil {
		log.Error().Err(err).Str("component", "GetUsers").Msg("")
	}

	resp, err := uc.service.GetUsers(e.Request().Context(), payload)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", resp)
}

func (uc *UserController) GetUser(e echo.Context) error {
	userID, err := strconv.ParseInt(e.Param("id"), 10, 64)
	if err != nil {
		return response.WriteErrorResponse(e, errs.ErrClient, nil)
	}

	resp, err := uc.service.GetProfile(e.Request().Context(), userID)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", resp)
}

func (uc *UserController) AssignRole(e echo.Context) error {
	assigner, ok := middleware.CurrentUser(e)
	if !ok {
		return response.WriteErrorResponse(e, errs.ErrUnauthorized, nil)
	}

	targetID, err := strconv.ParseInt(e.Param("id"), 10, 64)
	if err != nil {
		return response.WriteErrorResponse(e, errs.ErrClient, nil)
	}

	payload := dto.AssignRoleRequest{}
	err = e.Bind(&payload)
	if err != nil {
		log.Error().Err(err).Str("component", "AssignRole").Msg("")
	}

	err = uc.service.AssignRole(e.Request().Context(), assigner, targetID, domain.Role(payload.Role))
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "Role updated", nil)
}

func (uc *UserController) DeactivateUser(e echo.Context) error {
	targetID, err := strconv.ParseInt(e.Param("id"), 10, 64)
	if err != nil {
		return response.WriteErrorResponse(e, errs.ErrClient, nil)
	}

	err = uc.service.DeactivateUser(e.Request().Context(), targetID)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "User deactivated", nil)
}
