package test

import (
	"fmt"
	"net/http"
	"time"

	"github.com/hrstack/onboarding-service/internal/dto"
)

func (s *IntegrationTestSuite) Test_TemplateApprovalFlow() {
	stamp := time.Now().UnixNano()
	creatorEmail := fmt.Sprintf("creator-%d@example.com", stamp)
	approverEmail := fmt.Sprintf("approver-%d@example.com", stamp)
	employeeEmail := fmt.Sprintf("employee-%d@example.com", stamp)

	s.registerUser(creatorEmail, "secret123", "hr_manager")
	approver := s.registerUser(approverEmail, "secret123", "hr_manager")
	s.registerUser(employeeEmail, "secret123", "")

	creator := s.login(creatorEmail, "secret123")
	employee := s.login(employeeEmail, "secret123")

	// Employees cannot create templates.
	resp := s.doRequest(http.MethodPost, "/templates", employee.Token, dto.TemplateRequest{
		Name:       "Not allowed",
		CategoryID: 1,
	})
	resp.Body.Close()
	s.Equal(http.StatusForbidden, resp.StatusCode)

	// Create a draft template.
	resp = s.doRequest(http.MethodPost, "/templates", creator.Token, dto.TemplateRequest{
		Name:       fmt.Sprintf("Onboarding %d", stamp),
		CategoryID: 1,
		Items: []dto.TemplateItemRequest{
			{Title: "Set up laptop", Required: true},
		},
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	template := dto.TemplateResponse{}
	s.decodeData(resp, &template)
	s.Equal("draft", template.Status)
	s.Equal(1, template.Version)

	// Submit it for approval.
	resp = s.doRequest(http.MethodPost, fmt.Sprintf("/templates/%d/submit", template.ID), creator.Token, dto.SubmitApprovalRequest{
		Comments: "ready for review",
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	request := dto.ApprovalResponse{}
	s.decodeData(resp, &request)
	s.Equal("pending", request.Status)

	// A second submit is rejected while the first request is open.
	resp = s.doRequest(http.MethodPost, fmt.Sprintf("/templates/%d/submit", template.ID), creator.Token, nil)
	resp.Body.Close()
	s.Equal(http.StatusConflict, resp.StatusCode)

	// Employees lack the approve capability entirely.
	resp = s.doRequest(http.MethodPost, fmt.Sprintf("/approvals/%d/approve", request.ID), employee.Token, nil)
	resp.Body.Close()
	s.Equal(http.StatusForbidden, resp.StatusCode)

	// Editing a pending template is refused.
	resp = s.doRequest(http.MethodPut, fmt.Sprintf("/templates/%d", template.ID), creator.Token, dto.TemplateRequest{
		Name:       "Too late",
		CategoryID: 1,
	})
	resp.Body.Close()
	s.Equal(http.StatusConflict, resp.StatusCode)

	// The assigned approver resolves it when the request landed on them.
	// A shared database may hold older eligible approvers, so only assert the
	// happy path when this test's approver got the assignment.
	if request.AssigneeID == approver.ID {
		approverLogin := s.login(approverEmail, "secret123")

		// The creator is not the assignee; the request is invisible to them.
		resp = s.doRequest(http.MethodPost, fmt.Sprintf("/approvals/%d/approve", request.ID), creator.Token, nil)
		resp.Body.Close()
		s.Equal(http.StatusNotFound, resp.StatusCode)

		resp = s.doRequest(http.MethodPost, fmt.Sprintf("/approvals/%d/approve", request.ID), approverLogin.Token, dto.ApprovalDecisionRequest{
			Comments: "looks good",
		})
		resp.Body.Close()
		s.Equal(http.StatusOK, resp.StatusCode)

		resp = s.doRequest(http.MethodGet, fmt.Sprintf("/templates/%d", template.ID), creator.Token, nil)
		s.Require().Equal(http.StatusOK, resp.StatusCode)
		approved := dto.TemplateResponse{}
		s.decodeData(resp, &approved)
		s.Equal("approved", approved.Status)
		s.Require().NotNil(approved.ApprovedBy)
		s.Equal(approver.ID, *approved.ApprovedBy)
	}
}
