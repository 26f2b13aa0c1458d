package service

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"github.com/hrstack/onboarding-service/config"
	"github.com/hrstack/onboarding-service/internal/domain"
	"github.com/hrstack/onboarding-service/internal/dto"
	"github.com/hrstack/onboarding-service/internal/repository"
	pkgdto "github.com/hrstack/onboarding-service/pkg/dto"
	"github.com/hrstack/onboarding-service/pkg/errs"
	"github.com/hrstack/onboarding-service/pkg/response"
	"github.com/hrstack/onboarding-service/pkg/utils"
)

type ApprovalService interface {
	SubmitForApproval(ctx context.Context, templateID int64, requester domain.User, comments string) (resp dto.ApprovalResponse, err error)
	Approve(ctx context.Context, requestID, approverID int64, comments string) (err error)
	Reject(ctx context.Context, requestID, approverID int64, comments, changesRequested string) (err error)
	GetApprovalRequests(ctx context.Context, assigneeID int64, filter pkgdto.Filter) (resp response.PaginationResponse, err error)
	GetApprovalRequestDetails(ctx context.Context, requestID int64) (resp dto.ApprovalResponse, err error)
	GetTemplateApprovalHistory(ctx context.Context, templateID int64) (resp []dto.ApprovalResponse, err error)
}

type ApprovalServiceImpl struct {
	approvalRepo  repository.ApprovalRepository
	templateRepo  repository.TemplateRepository
	userRepo      repository.UserRepository
	config        config.Config
	kafkaProducer *kafka.Conn
}

func CreateNewApprovalService(approvalRepo repository.ApprovalRepository, templateRepo repository.TemplateRepository, userRepo repository.UserRepository, config config.Config, kafkaProducer *kafka.Conn) ApprovalService {
	return &ApprovalServiceImpl{
		approvalRepo:  approvalRepo,
		templateRepo:  templateRepo,
		userRepo:      userRepo,
		config:        config,
		kafkaProducer: kafkaProducer,
	}
}

// SubmitForApproval moves a draft template into pending_approval and creates
// the pending request for the selected approver. The existence check and the
// insert are separate statements; concurrent submits can in principle race
// past the check, so the uniqueness of a pending request is best-effort, not
// a hard exclusion.
func (s *ApprovalServiceImpl) SubmitForApproval(ctx context.Context, templateID int64, requester domain.User, comments string) (resp dto.ApprovalResponse, err error) {
	template, err := s.templateRepo.GetTemplateByID(ctx, templateID)
	if err != nil {
		return
	}
	if template.ID == 0 {
		return resp, errs.ErrNotFound
	}
	if template.Status != domain.TemplateDraft {
		return resp, errs.ErrTemplateNotDraft
	}

	if template.CreatedBy != requester.ID && requester.Role != domain.RoleHRManager && requester.Role != domain.RoleAdmin {
		return resp, errs.ErrForbidden
	}

	pending, err := s.approvalRepo.GetPendingByTemplate(ctx, templateID)
	if err != nil {
		return
	}
	if pending.ID != 0 {
		return resp, errs.ErrPendingApprovalExists
	}

	approver, err := s.userRepo.FindEligibleApprover(ctx, requester.ID)
	if err != nil {
		return
	}
	if approver.ID == 0 {
		return resp, errs.ErrNoApproverAvailable
	}

	request := domain.ApprovalRequest{
		TemplateID:  templateID,
		RequesterID: requester.ID,
		AssigneeID:  approver.ID,
		Comments:    comments,
	}

	id, err := s.approvalRepo.SubmitApproval(ctx, request)
	if err != nil {
		return resp, err
	}

	created, err := s.approvalRepo.GetApprovalByID(ctx, id)
	if err != nil {
		return resp, err
	}

	if err := publishEvent(s.kafkaProducer, "template_submitted", dto.ToApprovalResponse(created)); err != nil {
		log.Error().Err(err).Str("component", "SubmitForApproval").Msg("")
	}

	s.notifyApprover(approver, template, requester)

	return dto.ToApprovalResponse(created), nil
}

func (s *ApprovalServiceImpl) Approve(ctx context.Context, requestID, approverID int64, comments string) (err error) {
	request, err := s.pendingAssignedTo(ctx, requestID, approverID)
	if err != nil {
		return
	}

	err = s.approvalRepo.ResolveApproval(ctx, request.ID, domain.ApprovalApproved, comments, "", domain.TemplateApproved, approverID)
	if err != nil {
		return
	}

	if err := publishEvent(s.kafkaProducer, "template_approved", dto.ApprovalResponse{ID: request.ID, TemplateID: request.TemplateID, AssigneeID: approverID, Status: string(domain.ApprovalApproved)}); err != nil {
		log.Error().Err(err).Str("component", "Approve").Msg("")
	}

	return nil
}

// Reject resolves the request and sends the template back to draft so the
// creator can revise and resubmit.
func (s *ApprovalServiceImpl) Reject(ctx context.Context, requestID, approverID int64, comments, changesRequested string) (err error) {
	request, err := s.pendingAssignedTo(ctx, requestID, approverID)
	if err != nil {
		return
	}

	err = s.approvalRepo.ResolveApproval(ctx, request.ID, domain.ApprovalRejected, comments, changesRequested, domain.TemplateDraft, approverID)
	if err != nil {
		return
	}

	if err := publishEvent(s.kafkaProducer, "template_rejected", dto.ApprovalResponse{ID: request.ID, TemplateID: request.TemplateID, AssigneeID: approverID, Status: string(domain.ApprovalRejected)}); err != nil {
		log.Error().Err(err).Str("component", "Reject").Msg("")
	}

	return nil
}

func (s *ApprovalServiceImpl) GetApprovalRequests(ctx context.Context, assigneeID int64, filter pkgdto.Filter) (resp response.PaginationResponse, err error) {
	filter.Normalize()

	requests, err := s.approvalRepo.GetApprovalsByAssignee(ctx, assigneeID, filter)
	if err != nil {
		return
	}

	count, err := s.approvalRepo.CountApprovalsByAssignee(ctx, assigneeID, filter)
	if err != nil {
		return
	}

	records := make([]dto.ApprovalResponse, 0, len(requests))
	for _, r := range requests {
		records = append(records, dto.ToApprovalResponse(r))
	}

	resp.Metadata = response.PaginationMetadata{
		TotalCount: count,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}
	resp.Records = records

	return resp, nil
}

func (s *ApprovalServiceImpl) GetApprovalRequestDetails(ctx context.Context, requestID int64) (resp dto.ApprovalResponse, err error) {
	request, err := s.approvalRepo.GetApprovalByID(ctx, requestID)
	if err != nil {
		return
	}
	if request.ID == 0 {
		return resp, errs.ErrNotFound
	}

	return dto.ToApprovalResponse(request), nil
}

func (s *ApprovalServiceImpl) GetTemplateApprovalHistory(ctx context.Context, templateID int64) (resp []dto.ApprovalResponse, err error) {
	template, err := s.templateRepo.GetTemplateByID(ctx, templateID)
	if err != nil {
		return
	}
	if template.ID == 0 {
		return nil, errs.ErrNotFound
	}

	requests, err := s.approvalRepo.GetApprovalsByTemplate(ctx, templateID)
	if err != nil {
		return nil, err
	}

	for _, r := range requests {
		resp = append(resp, dto.ToApprovalResponse(r))
	}

	return resp, nil
}

// pendingAssignedTo loads a request and hides its existence from anyone but
// the assigned approver.
func (s *ApprovalServiceImpl) pendingAssignedTo(ctx context.Context, requestID, approverID int64) (request domain.ApprovalRequest, err error) {
	request, err = s.approvalRepo.GetApprovalByID(ctx, requestID)
	if err != nil {
		return
	}
	if request.ID == 0 || request.Status != domain.ApprovalPending || request.AssigneeID != approverID {
		return request, errs.ErrNotFound
	}

	return request, nil
}

func (s *ApprovalServiceImpl) notifyApprover(approver domain.User, template domain.Template, requester domain.User) {
	if s.config.SMTPConfig.Server == "" {
		return
	}

	msg := utils.NewApprovalNotification(
		s.config.SMTPConfig.Sender,
		approver.Email,
		template.Name,
		requester.FirstName+" "+requester.LastName,
	)

	if err := utils.SendEmail(msg, s.config.SMTPConfig.Sender, s.config.SMTPConfig.Password, s.config.SMTPConfig.Server, s.config.SMTPConfig.Port); err != nil {
		log.Error().Err(err).Str("component", "notifyApprover").Msg("")
	}
}
