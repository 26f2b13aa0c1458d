package dto

import (
	"time"

	"github.com/hrstack/onboarding-service/internal/domain"
)

type SubmitApprovalRequest struct {
	Comments string `json:"comments"`
}

type ApprovalDecisionRequest struct {
	Comments         string `json:"comments"`
	ChangesRequested string `json:"changes_requested"`
}

type ApprovalResponse struct {
	ID               int64      `json:"id"`
	TemplateID       int64      `json:"template_id"`
	RequesterID      int64      `json:"requester_id"`
	AssigneeID       int64      `json:"assignee_id"`
	Status           string     `json:"status"`
	Comments         string     `json:"comments"`
	ChangesRequested string     `json:"changes_requested"`
	RespondedAt      *time.Time `json:"responded_at"`
	CreatedAt        time.Time  `json:"created_at"`
}

func ToApprovalResponse(a domain.ApprovalRequest) ApprovalResponse {
	return ApprovalResponse{
		ID:               a.ID,
		TemplateID:       a.TemplateID,
		RequesterID:      a.RequesterID,
		AssigneeID:       a.AssigneeID,
		Status:           string(a.Status),
		Comments:         a.Comments,
		ChangesRequested: a.ChangesRequested,
		RespondedAt:      a.RespondedAt,
		CreatedAt:        a.CreatedAt,
	}
}
