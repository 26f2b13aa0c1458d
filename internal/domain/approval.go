package domain

import "time"

// ApprovalStatus is the state of one approval transaction.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// ApprovalRequest records one submit-for-approval cycle on a template. At most
// one pending request exists per template; it is resolved exactly once by the
// assigned approver.
type ApprovalRequest struct {
	ID               int64          `db:"id"`
	TemplateID       int64          `db:"template_id"`
	RequesterID      int64          `db:"requester_id"`
	AssigneeID       int64          `db:"assignee_id"`
	Status           ApprovalStatus `db:"status"`
	Comments         string         `db:"comments"`
	ChangesRequested string         `db:"changes_requested"`
	RespondedAt      *time.Time     `db:"responded_at"`
	CreatedAt        time.Time      `db:"created_at"`
}
