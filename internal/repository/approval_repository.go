package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/hrstack/onboarding-service/internal/domain"
	pkgdto "github.com/hrstack/onboarding-service/pkg/dto"
	"github.com/hrstack/onboarding-service/pkg/errs"
)

type ApprovalRepository interface {
	GetPendingByTemplate(ctx context.Context, templateID int64) (data domain.ApprovalRequest, err error)
	GetApprovalByID(ctx context.Context, id int64) (data domain.ApprovalRequest, err error)
	SubmitApproval(ctx context.Context, data domain.ApprovalRequest) (id int64, err error)
	ResolveApproval(ctx context.Context, requestID int64, status domain.ApprovalStatus, comments, changesRequested string, templateStatus domain.TemplateStatus, approverID int64) (err error)
	GetApprovalsByAssignee(ctx context.Context, assigneeID int64, filter pkgdto.Filter) (data []domain.ApprovalRequest, err error)
	CountApprovalsByAssignee(ctx context.Context, assigneeID int64, filter pkgdto.Filter) (count int64, err error)
	GetApprovalsByTemplate(ctx context.Context, templateID int64) (data []domain.ApprovalRequest, err error)
}

type ApprovalRepositoryImpl struct {
	db *sqlx.DB
}

func CreateNewApprovalRepository(db *sqlx.DB) ApprovalRepository {
	return &ApprovalRepositoryImpl{db: db}
}

func (r *ApprovalRepositoryImpl) GetPendingByTemplate(ctx context.Context, templateID int64) (data domain.ApprovalRequest, err error) {
	row := r.db.QueryRowxContext(ctx,
		"SELECT * FROM approval_requests WHERE template_id = $1 AND status = $2 LIMIT 1",
		templateID, domain.ApprovalPending)
	err = row.StructScan(&data)
	if err != nil {
		if err == sql.ErrNoRows {
			return data, nil
		}
		log.Error().Err(err).Str("component", "GetPendingByTemplate").Msg("")
		return data, errs.ErrInternalServer
	}

	return
}

func (r *ApprovalRepositoryImpl) GetApprovalByID(ctx context.Context, id int64) (data domain.ApprovalRequest, err error) {
	row := r.db.QueryRowxContext(ctx, "SELECT * FROM approval_requests WHERE id = $1", id)
	err = row.StructScan(&data)
	if err != nil {
		if err == sql.ErrNoRows {
			return data, nil
		}
		log.Error().Err(err).Str("component", "GetApprovalByID").Msg("")
		return data, errs.ErrInternalServer
	}

	return
}

// SubmitApproval inserts the pending request and flips the template to
// pending_approval in one transaction; an observer never sees one without the
// other.
func (r *ApprovalRepositoryImpl) SubmitApproval(ctx context.Context, data domain.ApprovalRequest) (id int64, err error) {
	tx := r.db.MustBegin()
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	timestamp := time.Now().UTC()
	data.Status = domain.ApprovalPending
	data.CreatedAt = timestamp

	nstmt, err := tx.PrepareNamedContext(ctx, "INSERT INTO approval_requests(template_id, requester_id, assignee_id, status, comments, changes_requested, created_at) VALUES (:template_id, :requester_id, :assignee_id, :status, :comments, :changes_requested, :created_at) returning id")
	if err != nil {
		log.Error().Err(err).Str("component", "SubmitApproval").Msg("")
		return
	}

	err = nstmt.GetContext(ctx, &data.ID, data)
	if err != nil {
		log.Error().Err(err).Str("component", "SubmitApproval").Msg("")
		return
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE templates SET status = $1, updated_at = $2 WHERE id = $3 AND deleted_at IS NULL",
		domain.TemplatePendingApproval, timestamp, data.TemplateID)
	if err != nil {
		log.Error().Err(err).Str("component", "SubmitApproval").Msg("")
		return
	}

	err = tx.Commit()

	return data.ID, err
}

// ResolveApproval marks the request resolved and moves the template to its
// next status atomically. On approval the template records who approved it
// and when; on rejection the approver columns stay empty and the template
// re-enters draft.
func (r *ApprovalRepositoryImpl) ResolveApproval(ctx context.Context, requestID int64, status domain.ApprovalStatus, comments, changesRequested string, templateStatus domain.TemplateStatus, approverID int64) (err error) {
	tx := r.db.MustBegin()
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	timestamp := time.Now().UTC()

	var templateID int64
	err = tx.QueryRowxContext(ctx,
		"UPDATE approval_requests SET status = $1, comments = $2, changes_requested = $3, responded_at = $4 WHERE id = $5 returning template_id",
		status, comments, changesRequested, timestamp, requestID).Scan(&templateID)
	if err != nil {
		log.Error().Err(err).Str("component", "ResolveApproval").Msg("")
		return
	}

	if templateStatus == domain.TemplateApproved {
		_, err = tx.ExecContext(ctx,
			"UPDATE templates SET status = $1, approved_by = $2, approved_at = $3, updated_at = $3 WHERE id = $4 AND deleted_at IS NULL",
			templateStatus, approverID, timestamp, templateID)
	} else {
		_, err = tx.ExecContext(ctx,
			"UPDATE templates SET status = $1, updated_at = $2 WHERE id = $3 AND deleted_at IS NULL",
			templateStatus, timestamp, templateID)
	}
	if err != nil {
		log.Error().Err(err).Str("component", "ResolveApproval").Msg("")
		return
	}

	err = tx.Commit()

	return
}

func (r *ApprovalRepositoryImpl) GetApprovalsByAssignee(ctx context.Context, assigneeID int64, filter pkgdto.Filter) (data []domain.ApprovalRequest, err error) {
	query := "SELECT * FROM approval_requests WHERE assignee_id = :assignee_id"

	args := map[string]interface{}{"assignee_id": assigneeID}

	if filter.Status != "" {
		query += " AND status = :status"
		args["status"] = filter.Status
	}

	if filter.Limit != 0 && filter.Page != 0 {
		query += " ORDER BY created_at DESC LIMIT :limit OFFSET :offset"
		args["limit"] = filter.Limit
		args["offset"] = filter.Offset()
	}

	nstmt, err := r.db.PrepareNamedContext(ctx, query)
	if err != nil {
		log.Error().Err(err).Str("component", "GetApprovalsByAssignee").Msg("")
		return nil, err
	}

	err = nstmt.SelectContext(ctx, &data, args)
	if err != nil {
		log.Error().Err(err).Str("component", "GetApprovalsByAssignee").Msg("")
		return nil, err
	}

	return data, nil
}

func (r *ApprovalRepositoryImpl) CountApprovalsByAssignee(ctx context.Context, assigneeID int64, filter pkgdto.Filter) (count int64, err error) {
	query := "SELECT COUNT(id) FROM approval_requests WHERE assignee_id = :assignee_id"

	args := map[string]interface{}{"assignee_id": assigneeID}

	if filter.Status != "" {
		query += " AND status = :status"
		args["status"] = filter.Status
	}

	nstmt, err := r.db.PrepareNamedContext(ctx, query)
	if err != nil {
		log.Error().Err(err).Str("component", "CountApprovalsByAssignee").Msg("")
		return 0, err
	}

	err = nstmt.GetContext(ctx, &count, args)
	if err != nil {
		log.Error().Err(err).Str("component", "CountApprovalsByAssignee").Msg("")
		return 0, err
	}

	return
}

func (r *ApprovalRepositoryImpl) GetApprovalsByTemplate(ctx context.Context, templateID int64) (data []domain.ApprovalRequest, err error) {
	err = r.db.SelectContext(ctx, &data,
		"SELECT * FROM approval_requests WHERE template_id = $1 ORDER BY created_at DESC", templateID)
	if err != nil {
		log.Error().Err(err).Str("component", "GetApprovalsByTemplate").Msg("")
		return nil, errs.ErrInternalServer
	}

	return
}
