package controller

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/hrstack/onboarding-service/internal/dto"
	"github.com/hrstack/onboarding-service/internal/middleware"
	"github.com/hrstack/onboarding-service/internal/rbac"
	"github.com/hrstack/onboarding-service/internal/service"
	pkgdto "github.com/hrstack/onboarding-service/pkg/dto"
	"github.com/hrstack/onboarding-service/pkg/errs"
	"github.com/hrstack/onboarding-service/pkg/response"
)

type TemplateController struct {
	service service.TemplateService
}

func CreateTemplateController(protected *echo.Group, service service.TemplateService) {
	tc := TemplateController{
		service: service,
	}
	protected.POST("/templates", tc.CreateTemplate, middleware.RequireCapability(rbac.CapTemplatesManage))
	protected.GET("/templates", tc.GetTemplates, middleware.RequireCapability(rbac.CapTemplatesRead))
	protected.GET("/templates/:id", tc.GetTemplate, middleware.RequireCapability(rbac.CapTemplatesRead))
	protected.PUT("/templates/:id", tc.UpdateTemplate, middleware.RequireCapability(rbac.CapTemplatesManage))
	protected.DELETE("/templates/:id", tc.ArchiveTemplate, middleware.RequireCapability(rbac.CapTemplatesArchive))
	protected.GET("/templates/:id/versions", tc.GetVersions, middleware.RequireCapability(rbac.CapTemplatesRead))
	protected.GET("/categories", tc.GetCategories)
}

func (tc *TemplateController) CreateTemplate(e echo.Context) error {
	user, ok := middleware.CurrentUser(e)
	if !ok {
		return response.WriteErrorResponse(e, errs.ErrUnauthorized, nil)
	}

	payload := dto.TemplateRequest{}
	err := e.Bind(&payload)
	if err != nil {
		log.Error().Err(err).Str("component", "CreateTemplate").Msg("")
	}

	resp, err := tc.service.CreateTemplate(e.Request().Context(), user, payload)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteCreatedResponse(e, "", resp)
}

func (tc *TemplateController) GetTemplates(e echo.Context) error {
	payload := pkgdto.Filter{}
	err := e.Bind(&payload)
	if err != nil {
		log.Error().Err(err).Str("component", "GetTemplates").Msg("")
	}

	resp, err := tc.service.GetTemplates(e.Request().Context(), payload)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", resp)
}

func (tc *TemplateController) GetTemplate(e echo.Context) error {
	templateID, err := strconv.ParseInt(e.Param("id"), 10, 64)
	if err != nil {
		return response.WriteErrorResponse(e, errs.ErrClient, nil)
	}

	resp, err := tc.service.GetTemplate(e.Request().Context(), templateID)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", resp)
}

func (tc *TemplateController) UpdateTemplate(e echo.Context) error {
	user, ok := middleware.CurrentUser(e)
	if !ok {
		return response.WriteErrorResponse(e, errs.ErrUnauthorized, nil)
	}

	templateID, err := strconv.ParseInt(e.Param("id"), 10, 64)
	if err != nil {
		return response.WriteErrorResponse(e, errs.ErrClient, nil)
	}

	payload := dto.TemplateRequest{}
	err = e.Bind(&payload)
	if err != nil {
		log.Error().Err(err).Str("component", "UpdateTemplate").Msg("")
	}

	resp, err := tc.service.UpdateTemplate(e.Request().Context(), user, templateID, payload)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", resp)
}

func (tc *TemplateController) ArchiveTemplate(e echo.Context) error {
	templateID, err := strconv.ParseInt(e.Param("id"), 10, 64)
	if err != nil {
		return response.WriteErrorResponse(e, errs.ErrClient, nil)
	}

	err = tc.service.ArchiveTemplate(e.Request().Context(), templateID)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "Template archived", nil)
}

func (tc *TemplateController) GetVersions(e echo.Context) error {
	templateID, err := strconv.ParseInt(e.Param("id"), 10, 64)
	if err != nil {
		return response.WriteErrorResponse(e, errs.ErrClient, nil)
	}

	resp, err := tc.service.GetTemplateVersions(e.Request().Context(), templateID)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", resp)
}

func (tc *TemplateController) GetCategories(e echo.Context) error {
	resp, err := tc.service.GetCategories(e.Request().Context())
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", resp)
}
