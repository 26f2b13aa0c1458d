package service

import (
	"context"

	"github.com/oklog/ulid/v2"

	"github.com/hrstack/onboarding-service/config"
	"github.com/hrstack/onboarding-service/internal/domain"
	"github.com/hrstack/onboarding-service/internal/dto"
	"github.com/hrstack/onboarding-service/internal/repository"
	pkgdto "github.com/hrstack/onboarding-service/pkg/dto"
	"github.com/hrstack/onboarding-service/pkg/errs"
	"github.com/hrstack/onboarding-service/pkg/response"
)

type TemplateService interface {
	CreateTemplate(ctx context.Context, creator domain.User, payload dto.TemplateRequest) (resp dto.TemplateResponse, err error)
	GetTemplate(ctx context.Context, templateID int64) (resp dto.TemplateResponse, err error)
	GetTemplates(ctx context.Context, filter pkgdto.Filter) (resp response.PaginationResponse, err error)
	UpdateTemplate(ctx context.Context, editor domain.User, templateID int64, payload dto.TemplateRequest) (resp dto.TemplateResponse, err error)
	ArchiveTemplate(ctx context.Context, templateID int64) (err error)
	GetTemplateVersions(ctx context.Context, templateID int64) (resp []dto.TemplateVersionResponse, err error)
	GetCategories(ctx context.Context) (resp []dto.TemplateCategoryResponse, err error)
}

type TemplateServiceImpl struct {
	templateRepo repository.TemplateRepository
	config       config.Config
}

func CreateNewTemplateService(templateRepo repository.TemplateRepository, config config.Config) TemplateService {
	return &TemplateServiceImpl{templateRepo: templateRepo, config: config}
}

func (s *TemplateServiceImpl) CreateTemplate(ctx context.Context, creator domain.User, payload dto.TemplateRequest) (resp dto.TemplateResponse, err error) {
	if payload.Name == "" || payload.CategoryID == 0 {
		return resp, errs.ErrValidation
	}

	template := domain.Template{
		ExternalID:       ulid.Make().String(),
		Name:             payload.Name,
		Description:      payload.Description,
		CategoryID:       payload.CategoryID,
		Version:          1,
		Status:           domain.TemplateDraft,
		CreatedBy:        creator.ID,
		Tags:             payload.Tags,
		TargetDepartment: payload.TargetDepartment,
	}

	items, err := toItems(payload.Items)
	if err != nil {
		return resp, err
	}

	id, err := s.templateRepo.AddTemplate(ctx, template, items)
	if err != nil {
		return resp, err
	}

	return s.GetTemplate(ctx, id)
}

func (s *TemplateServiceImpl) GetTemplate(ctx context.Context, templateID int64) (resp dto.TemplateResponse, err error) {
	template, err := s.templateRepo.GetTemplateByID(ctx, templateID)
	if err != nil {
		return
	}
	if template.ID == 0 {
		return resp, errs.ErrNotFound
	}

	items, err := s.templateRepo.GetTemplateItems(ctx, templateID)
	if err != nil {
		return resp, err
	}

	return dto.ToTemplateResponse(template, items), nil
}

func (s *TemplateServiceImpl) GetTemplates(ctx context.Context, filter pkgdto.Filter) (resp response.PaginationResponse, err error) {
	filter.Normalize()

	templates, err := s.templateRepo.GetTemplates(ctx, filter)
	if err != nil {
		return
	}

	count, err := s.templateRepo.CountTemplates(ctx, filter)
	if err != nil {
		return
	}

	records := make([]dto.TemplateResponse, 0, len(templates))
	for _, t := range templates {
		records = append(records, dto.ToTemplateResponse(t, nil))
	}

	resp.Metadata = response.PaginationMetadata{
		TotalCount: count,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}
	resp.Records = records

	return resp, nil
}

// UpdateTemplate is only legal while the template sits in draft; every update
// bumps the version and snapshots the previous content.
func (s *TemplateServiceImpl) UpdateTemplate(ctx context.Context, editor domain.User, templateID int64, payload dto.TemplateRequest) (resp dto.TemplateResponse, err error) {
	if payload.Name == "" || payload.CategoryID == 0 {
		return resp, errs.ErrValidation
	}

	current, err := s.templateRepo.GetTemplateByID(ctx, templateID)
	if err != nil {
		return
	}
	if current.ID == 0 {
		return resp, errs.ErrNotFound
	}
	if current.Status != domain.TemplateDraft {
		return resp, errs.ErrTemplateNotDraft
	}
	if current.CreatedBy != editor.ID && editor.Role != domain.RoleHRManager && editor.Role != domain.RoleAdmin {
		return resp, errs.ErrForbidden
	}

	updated := current
	updated.Name = payload.Name
	updated.Description = payload.Description
	updated.CategoryID = payload.CategoryID
	updated.Tags = payload.Tags
	updated.TargetDepartment = payload.TargetDepartment

	items, err := toItems(payload.Items)
	if err != nil {
		return resp, err
	}

	err = s.templateRepo.UpdateTemplate(ctx, updated, items)
	if err != nil {
		return resp, err
	}

	return s.GetTemplate(ctx, templateID)
}

func (s *TemplateServiceImpl) ArchiveTemplate(ctx context.Context, templateID int64) (err error) {
	template, err := s.templateRepo.GetTemplateByID(ctx, templateID)
	if err != nil {
		return
	}
	if template.ID == 0 {
		return errs.ErrNotFound
	}

	return s.templateRepo.ArchiveTemplate(ctx, templateID)
}

func (s *TemplateServiceImpl) GetTemplateVersions(ctx context.Context, templateID int64) (resp []dto.TemplateVersionResponse, err error) {
	template, err := s.templateRepo.GetTemplateByID(ctx, templateID)
	if err != nil {
		return
	}
	if template.ID == 0 {
		return nil, errs.ErrNotFound
	}

	versions, err := s.templateRepo.GetTemplateVersions(ctx, templateID)
	if err != nil {
		return nil, err
	}

	for _, v := range versions {
		resp = append(resp, dto.TemplateVersionResponse{
			ID:          v.ID,
			TemplateID:  v.TemplateID,
			Version:     v.Version,
			Name:        v.Name,
			Description: v.Description,
			CategoryID:  v.CategoryID,
			Status:      string(v.Status),
			CreatedAt:   v.CreatedAt,
		})
	}

	return resp, nil
}

func (s *TemplateServiceImpl) GetCategories(ctx context.Context) (resp []dto.TemplateCategoryResponse, err error) {
	categories, err := s.templateRepo.GetCategories(ctx)
	if err != nil {
		return nil, err
	}

	for _, c := range categories {
		resp = append(resp, dto.TemplateCategoryResponse{
			ID:          c.ID,
			Name:        c.Name,
			Description: c.Description,
		})
	}

	return resp, nil
}

func toItems(payload []dto.TemplateItemRequest) ([]domain.TemplateItem, error) {
	items := make([]domain.TemplateItem, 0, len(payload))
	for _, it := range payload {
		if it.Title == "" {
			return nil, errs.ErrValidation
		}
		role := domain.Role(it.AssigneeRole)
		if it.AssigneeRole == "" {
			role = domain.RoleEmployee
		}
		if !role.Valid() {
			return nil, errs.ErrValidation
		}
		items = append(items, domain.TemplateItem{
			Title:        it.Title,
			Description:  it.Description,
			Required:     it.Required,
			SortOrder:    it.SortOrder,
			AssigneeRole: role,
			DueDays:      it.DueDays,
		})
	}
	return items, nil
}
