package dto

import (
	"time"

	"github.com/hrstack/onboarding-service/internal/domain"
)

type TemplateItemRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Required     bool   `json:"required"`
	SortOrder    int    `json:"sort_order"`
	AssigneeRole string `json:"assignee_role"`
	DueDays      int    `json:"due_days"`
}

type TemplateRequest struct {
	Name             string                `json:"name"`
	Description      string                `json:"description"`
	CategoryID       int64                 `json:"category_id"`
	Tags             string                `json:"tags"`
	TargetDepartment string                `json:"target_department"`
	Items            []TemplateItemRequest `json:"items"`
}

type TemplateItemResponse struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Required     bool   `json:"required"`
	SortOrder    int    `json:"sort_order"`
	AssigneeRole string `json:"assignee_role"`
	DueDays      int    `json:"due_days"`
}

type TemplateResponse struct {
	ID               int64                  `json:"id"`
	ExternalID       string                 `json:"external_id"`
	Name             string                 `json:"name"`
	Description      string                 `json:"description"`
	CategoryID       int64                  `json:"category_id"`
	Version          int                    `json:"version"`
	Status           string                 `json:"status"`
	CreatedBy        int64                  `json:"created_by"`
	ApprovedBy       *int64                 `json:"approved_by"`
	ApprovedAt       *time.Time             `json:"approved_at"`
	Tags             string                 `json:"tags"`
	TargetDepartment string                 `json:"target_department"`
	CreatedAt        time.Time              `json:"created_at"`
	UpdatedAt        time.Time              `json:"updated_at"`
	Items            []TemplateItemResponse `json:"items,omitempty"`
}

func ToTemplateResponse(t domain.Template, items []domain.TemplateItem) TemplateResponse {
	resp := TemplateResponse{
		ID:               t.ID,
		ExternalID:       t.ExternalID,
		Name:             t.Name,
		Description:      t.Description,
		CategoryID:       t.CategoryID,
		Version:          t.Version,
		Status:           string(t.Status),
		CreatedBy:        t.CreatedBy,
		ApprovedBy:       t.ApprovedBy,
		ApprovedAt:       t.ApprovedAt,
		Tags:             t.Tags,
		TargetDepartment: t.TargetDepartment,
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
	}
	for _, it := range items {
		resp.Items = append(resp.Items, TemplateItemResponse{
			ID:           it.ID,
			Title:        it.Title,
			Description:  it.Description,
			Required:     it.Required,
			SortOrder:    it.SortOrder,
			AssigneeRole: string(it.AssigneeRole),
			DueDays:      it.DueDays,
		})
	}
	return resp
}

type TemplateVersionResponse struct {
	ID          int64     `json:"id"`
	TemplateID  int64     `json:"template_id"`
	Version     int       `json:"version"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CategoryID  int64     `json:"category_id"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

type TemplateCategoryResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}
