package domain

import "time"

// TemplateStatus is the workflow state of a checklist template.
type TemplateStatus string

const (
	TemplateDraft           TemplateStatus = "draft"
	TemplatePendingApproval TemplateStatus = "pending_approval"
	TemplateApproved        TemplateStatus = "approved"
	TemplateArchived        TemplateStatus = "archived"
)

type Template struct {
	ID               int64          `db:"id"`
	ExternalID       string         `db:"external_id"`
	Name             string         `db:"name"`
	Description      string         `db:"description"`
	CategoryID       int64          `db:"category_id"`
	Version          int            `db:"version"`
	Status           TemplateStatus `db:"status"`
	CreatedBy        int64          `db:"created_by"`
	ApprovedBy       *int64         `db:"approved_by"`
	ApprovedAt       *time.Time     `db:"approved_at"`
	Tags             string         `db:"tags"`
	TargetDepartment string         `db:"target_department"`
	CreatedAt        time.Time      `db:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at"`
	DeletedAt        *time.Time     `db:"deleted_at"`
}

type TemplateItem struct {
	ID           int64     `db:"id"`
	TemplateID   int64     `db:"template_id"`
	Title        string    `db:"title"`
	Description  string    `db:"description"`
	Required     bool      `db:"required"`
	SortOrder    int       `db:"sort_order"`
	AssigneeRole Role      `db:"assignee_role"`
	DueDays      int       `db:"due_days"`
	CreatedAt    time.Time `db:"created_at"`
}

// TemplateVersion snapshots a template's content as it was before an update.
// Items are serialized into the snapshot so the row is self-contained.
type TemplateVersion struct {
	ID            int64          `db:"id"`
	TemplateID    int64          `db:"template_id"`
	Version       int            `db:"version"`
	Name          string         `db:"name"`
	Description   string         `db:"description"`
	CategoryID    int64          `db:"category_id"`
	Status        TemplateStatus `db:"status"`
	ItemsSnapshot []byte         `db:"items_snapshot"`
	CreatedAt     time.Time      `db:"created_at"`
}

type TemplateCategory struct {
	ID          int64  `db:"id"`
	Name        string `db:"name"`
	Description string `db:"description"`
}
