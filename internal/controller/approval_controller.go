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

type ApprovalController struct {
	service service.ApprovalService
}

func CreateApprovalController(protected *echo.Group, service service.ApprovalService) {
	ac := ApprovalController{
		service: service,
	}
	protected.POST("/templates/:id/submit", ac.SubmitForApproval)
	protected.POST("/approvals/:id/approve", ac.Approve, middleware.RequireCapability(rbac.CapTemplatesApprove))
	protected.POST("/approvals/:id/reject", ac.Reject, middleware.RequireCapability(rbac.CapTemplatesApprove))
	protected.GET("/approvals", ac.GetApprovalRequests, middleware.RequireCapability(rbac.CapTemplatesApprove))
	protected.GET("/approvals/:id", ac.GetApprovalRequestDetails)
	protected.GET("/templates/:id/approvals", ac.GetTemplateApprovalHistory, middleware.RequireCapability(rbac.CapTemplatesRead))
}

func (ac *ApprovalController) SubmitForApproval(e echo.Context) error {
	user, ok := middleware.CurrentUser(e)
	if !ok {
		return response.WriteErrorResponse(e, errs.ErrUnauthorized, nil)
	}

	templateID, err := strconv.ParseInt(e.Param("id"), 10, 64)
	if err != nil {
		return response.WriteErrorResponse(e, errs.ErrClient, nil)
	}

	payload := dto.SubmitApprovalRequest{}
	err = e.Bind(&payload)
	if err != nil {
		log.Error().Err(err).Str("component", "SubmitForApproval").Msg("")
	}

	resp, err := ac.service.SubmitForApproval(e.Request().Context(), templateID, user, payload.Comments)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteCreatedResponse(e, "", resp)
}

func (ac *ApprovalController) Approve(e echo.Context) error {
	user, ok := middleware.CurrentUser(e)
	if !ok {
		return response.WriteErrorResponse(e, errs.ErrUnauthorized, nil)
	}

	requestID, err := strconv.ParseInt(e.Param("id"), 10, 64)
	if err != nil {
		return response.WriteErrorResponse(e, errs.ErrClient, nil)
	}

	payload := dto.ApprovalDecisionRequest{}
	err = e.Bind(&payload)
	if err != nil {
		log.Error().Err(err).Str("component", "Approve").Msg("")
	}

	err = ac.service.Approve(e.Request().Context(), requestID, user.ID, payload.Comments)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "Template approved", nil)
}

func (ac *ApprovalController) Reject(e echo.Context) error {
	user, ok := middleware.CurrentUser(e)
	if !ok {
		return response.WriteErrorResponse(e, errs.ErrUnauthorized, nil)
	}

	requestID, err := strconv.ParseInt(e.Param("id"), 10, 64)
	if err != nil {
		return response.WriteErrorResponse(e, errs.ErrClient, nil)
	}

	payload := dto.ApprovalDecisionRequest{}
	err = e.Bind(&payload)
	if err != nil {
		log.Error().Err(err).Str("component", "Reject").Msg("")
	}

	err = ac.service.Reject(e.Request().Context(), requestID, user.ID, payload.Comments, payload.ChangesRequested)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "Template rejected", nil)
}

func (ac *ApprovalController) GetApprovalRequests(e echo.Context) error {
	user, ok := middleware.CurrentUser(e)
	if !ok {
		return response.WriteErrorResponse(e, errs.ErrUnauthorized, nil)
	}

	payload := pkgdto.Filter{}
	err := e.Bind(&payload)
	if err != nil {
		log.Error().Err(err).Str("component", "GetApprovalRequests").Msg("")
	}

	resp, err := ac.service.GetApprovalRequests(e.Request().Context(), user.ID, payload)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", resp)
}

func (ac *ApprovalController) GetApprovalRequestDetails(e echo.Context) error {
	user, ok := middleware.CurrentUser(e)
	if !ok {
		return response.WriteErrorResponse(e, errs.ErrUnauthorized, nil)
	}

	requestID, err := strconv.ParseInt(e.Param("id"), 10, 64)
	if err != nil {
		return response.WriteErrorResponse(e, errs.ErrClient, nil)
	}

	resp, err := ac.service.GetApprovalRequestDetails(e.Request().Context(), requestID)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	// Only the two parties to the request, or HR and above, may read it.
	if resp.RequesterID != user.ID && resp.AssigneeID != user.ID &&
		user.Role != domain.RoleHRManager && user.Role != domain.RoleAdmin {
		return response.WriteErrorResponse(e, errs.ErrForbidden, nil)
	}

	return response.WriteSuccessResponse(e, "", resp)
}

func (ac *ApprovalController) GetTemplateApprovalHistory(e echo.Context) error {
	templateID, err := strconv.ParseInt(e.Param("id"), 10, 64)
	if err != nil {
		return response.WriteErrorResponse(e, errs.ErrClient, nil)
	}

	resp, err := ac.service.GetTemplateApprovalHistory(e.Request().Context(), templateID)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", resp)
}
