package controller

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/hrstack/onboarding-service/internal/dto"
	"github.com/hrstack/onboarding-service/internal/middleware"
	"github.com/hrstack/onboarding-service/internal/service"
	"github.com/hrstack/onboarding-service/pkg/errs"
	"github.com/hrstack/onboarding-service/pkg/response"
)

type AuthController struct {
	service service.AuthService
}

func CreateAuthController(public *echo.Group, protected *echo.Group, service service.AuthService) {
	ac := AuthController{
		service: service,
	}
	public.POST("/auth/register", ac.Register)
	public.POST("/auth/login", ac.Login)
	public.POST("/auth/refresh", ac.Refresh)

	protected.POST("/auth/logout", ac.Logout)
	protected.GET("/auth/me", ac.Me)
	protected.PUT("/auth/password", ac.ChangePassword)
	protected.GET("/auth/sessions", ac.GetSessions)
	protected.DELETE("/auth/sessions/:id", ac.RevokeSession)
	protected.DELETE("/auth/sessions", ac.RevokeOtherSessions)
}

func (ac *AuthController) Register(e echo.Context) error {
	payload := dto.RegisterRequest{}
	err := e.Bind(&payload)
	if err != nil {
		log.Error().Err(err).Str("component", "Register").Msg("")
	}

	resp, err := ac.service.Register(e.Request().Context(), payload)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteCreatedResponse(e, "", resp)
}

func (ac *AuthController) Login(e echo.Context) error {
	payload := dto.LoginRequest{}
	err := e.Bind(&payload)
	if err != nil {
		log.Error().Err(err).Str("component", "Login").Msg("")
	}

	resp, err := ac.service.Login(e.Request().Context(), payload, e.RealIP(), e.Request().UserAgent())
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", resp)
}

func (ac *AuthController) Refresh(e echo.Context) error {
	payload := dto.RefreshRequest{}
	err := e.Bind(&payload)
	if err != nil {
		log.Error().Err(err).Str("component", "Refresh").Msg("")
	}

	resp, err := ac.service.RefreshToken(e.Request().Context(), payload.Token)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", resp)
}

func (ac *AuthController) Logout(e echo.Context) error {
	session, ok := middleware.CurrentSession(e)
	if !ok {
		return response.WriteErrorResponse(e, errs.ErrUnauthorized, nil)
	}

	err := ac.service.Logout(e.Request().Context(), session.ID)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "Logged out", nil)
}

func (ac *AuthController) Me(e echo.Context) error {
	user, ok := middleware.CurrentUser(e)
	if !ok {
		return response.WriteErrorResponse(e, errs.ErrUnauthorized, nil)
	}

	return response.WriteSuccessResponse(e, "", dto.ToUserResponse(user))
}

func (ac *AuthController) ChangePassword(e echo.Context) error {
	user, ok := middleware.CurrentUser(e)
	session, okSession := middleware.CurrentSession(e)
	if !ok || !okSession {
		return response.WriteErrorResponse(e, errs.ErrUnauthorized, nil)
	}

	payload := dto.ChangePasswordRequest{}
	err := e.Bind(&payload)
	if err != nil {
		log.Error().Err(err).Str("component", "ChangePassword").Msg("")
	}

	err = ac.service.ChangePassword(e.Request().Context(), user.ID, session.ID, payload)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "Password updated", nil)
}

func (ac *AuthController) GetSessions(e echo.Context) error {
	user, ok := middleware.CurrentUser(e)
	if !ok {
		return response.WriteErrorResponse(e, errs.ErrUnauthorized, nil)
	}

	resp, err := ac.service.GetActiveSessions(e.Request().Context(), user.ID)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", resp)
}

func (ac *AuthController) RevokeSession(e echo.Context) error {
	user, ok := middleware.CurrentUser(e)
	if !ok {
		return response.WriteErrorResponse(e, errs.ErrUnauthorized, nil)
	}

	sessionID, err := strconv.ParseInt(e.Param("id"), 10, 64)
	if err != nil {
		return response.WriteErrorResponse(e, errs.ErrClient, nil)
	}

	err = ac.service.RevokeSession(e.Request().Context(), user.ID, sessionID)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "Session revoked", nil)
}

func (ac *AuthController) RevokeOtherSessions(e echo.Context) error {
	user, ok := middleware.CurrentUser(e)
	session, okSession := middleware.CurrentSession(e)
	if !ok || !okSession {
		return response.WriteErrorResponse(e, errs.ErrUnauthorized, nil)
	}

	err := ac.service.RevokeOtherSessions(e.Request().Context(), user.ID, session.ID)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "Other sessions revoked", nil)
}
