package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/hrstack/onboarding-service/config"
	"github.com/hrstack/onboarding-service/internal/domain"
	"github.com/hrstack/onboarding-service/internal/dto"
	"github.com/hrstack/onboarding-service/pkg/errs"
)

type TemplateServiceTestSuite struct {
	suite.Suite
	templateRepo *fakeTemplateRepo
	service      TemplateService
}

func (s *TemplateServiceTestSuite) SetupTest() {
	s.templateRepo = newFakeTemplateRepo()
	s.service = CreateNewTemplateService(s.templateRepo, config.Config{})
}

func (s *TemplateServiceTestSuite) createTemplate(creator domain.User) dto.TemplateResponse {
	resp, err := s.service.CreateTemplate(context.Background(), creator, dto.TemplateRequest{
		Name:       "Engineering Onboarding",
		CategoryID: 1,
		Items: []dto.TemplateItemRequest{
			{Title: "Set up laptop", Required: true},
			{Title: "Meet the team", AssigneeRole: "hr_manager"},
		},
	})
	s.Require().NoError(err)
	return resp
}

func (s *TemplateServiceTestSuite) Test_CreateStartsAsDraftVersionOne() {
	creator := domain.User{ID: 1, Role: domain.RoleEmployee}

	resp := s.createTemplate(creator)
	s.Equal(string(domain.TemplateDraft), resp.Status)
	s.Equal(1, resp.Version)
	s.NotEmpty(resp.ExternalID)
	s.Len(resp.Items, 2)

	// An omitted assignee role falls back to employee.
	s.Equal("employee", resp.Items[0].AssigneeRole)
	s.Equal("hr_manager", resp.Items[1].AssigneeRole)
}

func (s *TemplateServiceTestSuite) Test_CreateValidation() {
	creator := domain.User{ID: 1, Role: domain.RoleEmployee}

	_, err := s.service.CreateTemplate(context.Background(), creator, dto.TemplateRequest{CategoryID: 1})
	s.ErrorIs(err, errs.ErrValidation)

	_, err = s.service.CreateTemplate(context.Background(), creator, dto.TemplateRequest{
		Name:       "No items allowed to be nameless",
		CategoryID: 1,
		Items:      []dto.TemplateItemRequest{{Title: ""}},
	})
	s.ErrorIs(err, errs.ErrValidation)

	_, err = s.service.CreateTemplate(context.Background(), creator, dto.TemplateRequest{
		Name:       "Bad role",
		CategoryID: 1,
		Items:      []dto.TemplateItemRequest{{Title: "x", AssigneeRole: "superuser"}},
	})
	s.ErrorIs(err, errs.ErrValidation)
}

func (s *TemplateServiceTestSuite) Test_UpdateBumpsVersionAndSnapshotsPrevious() {
	creator := domain.User{ID: 1, Role: domain.RoleEmployee}
	created := s.createTemplate(creator)

	updated, err := s.service.UpdateTemplate(context.Background(), creator, created.ID, dto.TemplateRequest{
		Name:       "Engineering Onboarding v2",
		CategoryID: 1,
		Items:      []dto.TemplateItemRequest{{Title: "Set up laptop and badge"}},
	})
	s.Require().NoError(err)
	s.Equal(2, updated.Version)
	s.Equal("Engineering Onboarding v2", updated.Name)
	s.Len(updated.Items, 1)

	versions, err := s.service.GetTemplateVersions(context.Background(), created.ID)
	s.Require().NoError(err)
	s.Require().Len(versions, 1)
	s.Equal(1, versions[0].Version)
	s.Equal("Engineering Onboarding", versions[0].Name)

	// The snapshot holds the pre-update item set.
	var snapshot []domain.TemplateItem
	s.Require().NoError(json.Unmarshal(s.templateRepo.versions[0].ItemsSnapshot, &snapshot))
	s.Len(snapshot, 2)
}

func (s *TemplateServiceTestSuite) Test_UpdateRejectedOutsideDraft() {
	creator := domain.User{ID: 1, Role: domain.RoleEmployee}
	created := s.createTemplate(creator)

	s.templateRepo.setStatus(created.ID, domain.TemplatePendingApproval)

	_, err := s.service.UpdateTemplate(context.Background(), creator, created.ID, dto.TemplateRequest{
		Name:       "Too late",
		CategoryID: 1,
	})
	s.ErrorIs(err, errs.ErrTemplateNotDraft)
}

func (s *TemplateServiceTestSuite) Test_UpdateForbiddenForOtherEmployee() {
	creator := domain.User{ID: 1, Role: domain.RoleEmployee}
	created := s.createTemplate(creator)

	other := domain.User{ID: 2, Role: domain.RoleEmployee}
	_, err := s.service.UpdateTemplate(context.Background(), other, created.ID, dto.TemplateRequest{
		Name:       "Hijack",
		CategoryID: 1,
	})
	s.ErrorIs(err, errs.ErrForbidden)

	// HR managers may edit drafts they did not create.
	hr := domain.User{ID: 3, Role: domain.RoleHRManager}
	_, err = s.service.UpdateTemplate(context.Background(), hr, created.ID, dto.TemplateRequest{
		Name:       "HR edit",
		CategoryID: 1,
	})
	s.NoError(err)
}

func (s *TemplateServiceTestSuite) Test_ArchiveTemplate() {
	creator := domain.User{ID: 1, Role: domain.RoleEmployee}
	created := s.createTemplate(creator)

	s.Require().NoError(s.service.ArchiveTemplate(context.Background(), created.ID))

	template, err := s.templateRepo.GetTemplateByID(context.Background(), created.ID)
	s.Require().NoError(err)
	s.Equal(domain.TemplateArchived, template.Status)

	s.ErrorIs(s.service.ArchiveTemplate(context.Background(), 999), errs.ErrNotFound)
}

func (s *TemplateServiceTestSuite) Test_GetTemplateMissing() {
	_, err := s.service.GetTemplate(context.Background(), 42)
	s.ErrorIs(err, errs.ErrNotFound)
}

func TestTemplateServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TemplateServiceTestSuite))
}
