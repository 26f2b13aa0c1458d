package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/hrstack/onboarding-service/internal/domain"
	pkgdto "github.com/hrstack/onboarding-service/pkg/dto"
	"github.com/hrstack/onboarding-service/pkg/errs"
)

type TemplateRepository interface {
	AddTemplate(ctx context.Context, data domain.Template, items []domain.TemplateItem) (id int64, err error)
	GetTemplateByID(ctx context.Context, id int64) (data domain.Template, err error)
	GetTemplateItems(ctx context.Context, templateID int64) (data []domain.TemplateItem, err error)
	GetTemplates(ctx context.Context, filter pkgdto.Filter) (data []domain.Template, err error)
	CountTemplates(ctx context.Context, filter pkgdto.Filter) (count int64, err error)
	UpdateTemplate(ctx context.Context, data domain.Template, items []domain.TemplateItem) (err error)
	ArchiveTemplate(ctx context.Context, id int64) (err error)
	GetTemplateVersions(ctx context.Context, templateID int64) (data []domain.TemplateVersion, err error)
	GetCategories(ctx context.Context) (data []domain.TemplateCategory, err error)
}

type TemplateRepositoryImpl struct {
	db *sqlx.DB
}

func CreateNewTemplateRepository(db *sqlx.DB) TemplateRepository {
	return &TemplateRepositoryImpl{db: db}
}

func (r *TemplateRepositoryImpl) AddTemplate(ctx context.Context, data domain.Template, items []domain.TemplateItem) (id int64, err error) {
	tx := r.db.MustBegin()
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	timestamp := time.Now().UTC()
	data.CreatedAt = timestamp
	data.UpdatedAt = timestamp

	nstmt, err := tx.PrepareNamedContext(ctx, "INSERT INTO templates(external_id, name, description, category_id, version, status, created_by, tags, target_department, created_at, updated_at) VALUES (:external_id, :name, :description, :category_id, :version, :status, :created_by, :tags, :target_department, :created_at, :updated_at) returning id")
	if err != nil {
		log.Error().Err(err).Str("component", "AddTemplate").Msg("")
		return
	}

	err = nstmt.GetContext(ctx, &data.ID, data)
	if err != nil {
		log.Error().Err(err).Str("component", "AddTemplate").Msg("")
		return
	}

	err = insertItems(ctx, tx, data.ID, items, timestamp)
	if err != nil {
		log.Error().Err(err).Str("component", "AddTemplate").Msg("")
		return
	}

	err = tx.Commit()

	return data.ID, err
}

func (r *TemplateRepositoryImpl) GetTemplateByID(ctx context.Context, id int64) (data domain.Template, err error) {
	row := r.db.QueryRowxContext(ctx, "SELECT * FROM templates WHERE id = $1 AND deleted_at IS NULL", id)
	err = row.StructScan(&data)
	if err != nil {
		if err == sql.ErrNoRows {
			return data, nil
		}
		log.Error().Err(err).Str("component", "GetTemplateByID").Msg("")
		return data, errs.ErrInternalServer
	}

	return
}

func (r *TemplateRepositoryImpl) GetTemplateItems(ctx context.Context, templateID int64) (data []domain.TemplateItem, err error) {
	err = r.db.SelectContext(ctx, &data,
		"SELECT * FROM template_items WHERE template_id = $1 ORDER BY sort_order ASC", templateID)
	if err != nil {
		log.Error().Err(err).Str("component", "GetTemplateItems").Msg("")
		return nil, errs.ErrInternalServer
	}

	return
}

func (r *TemplateRepositoryImpl) GetTemplates(ctx context.Context, filter pkgdto.Filter) (data []domain.Template, err error) {
	query := "SELECT * FROM templates WHERE deleted_at IS NULL"

	args := make(map[string]interface{})

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
		log.Error().Err(err).Str("component", "GetTemplates").Msg("")
		return nil, err
	}

	err = nstmt.SelectContext(ctx, &data, args)
	if err != nil {
		log.Error().Err(err).Str("component", "GetTemplates").Msg("")
		return nil, err
	}

	return data, nil
}

func (r *TemplateRepositoryImpl) CountTemplates(ctx context.Context, filter pkgdto.Filter) (count int64, err error) {
	query := "SELECT COUNT(id) FROM templates WHERE deleted_at IS NULL"

	args := make(map[string]interface{})

	if filter.Status != "" {
		query += " AND status = :status"
		args["status"] = filter.Status
	}

	nstmt, err := r.db.PrepareNamedContext(ctx, query)
	if err != nil {
		log.Error().Err(err).Str("component", "CountTemplates").Msg("")
		return 0, err
	}

	err = nstmt.GetContext(ctx, &count, args)
	if err != nil {
		log.Error().Err(err).Str("component", "CountTemplates").Msg("")
		return 0, err
	}

	return
}

// UpdateTemplate snapshots the pre-update row and its items into
// template_versions, then applies the new content with version+1 and replaces
// the items, all inside one transaction.
func (r *TemplateRepositoryImpl) UpdateTemplate(ctx context.Context, data domain.Template, items []domain.TemplateItem) (err error) {
	tx := r.db.MustBegin()
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	timestamp := time.Now().UTC()

	var current domain.Template
	err = tx.QueryRowxContext(ctx, "SELECT * FROM templates WHERE id = $1 AND deleted_at IS NULL FOR UPDATE", data.ID).StructScan(&current)
	if err != nil {
		log.Error().Err(err).Str("component", "UpdateTemplate").Msg("")
		return
	}

	var currentItems []domain.TemplateItem
	err = tx.SelectContext(ctx, &currentItems,
		"SELECT * FROM template_items WHERE template_id = $1 ORDER BY sort_order ASC", current.ID)
	if err != nil {
		log.Error().Err(err).Str("component", "UpdateTemplate").Msg("")
		return
	}

	snapshot, err := json.Marshal(currentItems)
	if err != nil {
		log.Error().Err(err).Str("component", "UpdateTemplate").Msg("")
		return
	}

	version := domain.TemplateVersion{
		TemplateID:    current.ID,
		Version:       current.Version,
		Name:          current.Name,
		Description:   current.Description,
		CategoryID:    current.CategoryID,
		Status:        current.Status,
		ItemsSnapshot: snapshot,
		CreatedAt:     timestamp,
	}

	_, err = tx.NamedExecContext(ctx, "INSERT INTO template_versions(template_id, version, name, description, category_id, status, items_snapshot, created_at) VALUES (:template_id, :version, :name, :description, :category_id, :status, :items_snapshot, :created_at)", version)
	if err != nil {
		log.Error().Err(err).Str("component", "UpdateTemplate").Msg("")
		return
	}

	data.Version = current.Version + 1
	data.UpdatedAt = timestamp

	_, err = tx.NamedExecContext(ctx, "UPDATE templates SET name=:name, description=:description, category_id=:category_id, version=:version, tags=:tags, target_department=:target_department, updated_at=:updated_at WHERE id=:id AND deleted_at IS NULL", data)
	if err != nil {
		log.Error().Err(err).Str("component", "UpdateTemplate").Msg("")
		return
	}

	_, err = tx.ExecContext(ctx, "DELETE FROM template_items WHERE template_id = $1", data.ID)
	if err != nil {
		log.Error().Err(err).Str("component", "UpdateTemplate").Msg("")
		return
	}

	err = insertItems(ctx, tx, data.ID, items, timestamp)
	if err != nil {
		log.Error().Err(err).Str("component", "UpdateTemplate").Msg("")
		return
	}

	err = tx.Commit()

	return
}

func (r *TemplateRepositoryImpl) ArchiveTemplate(ctx context.Context, id int64) (err error) {
	_, err = r.db.ExecContext(ctx,
		"UPDATE templates SET status = $1, updated_at = $2 WHERE id = $3 AND deleted_at IS NULL",
		domain.TemplateArchived, time.Now().UTC(), id)
	if err != nil {
		log.Error().Err(err).Str("component", "ArchiveTemplate").Msg("")
		return errs.ErrInternalServer
	}

	return
}

func (r *TemplateRepositoryImpl) GetTemplateVersions(ctx context.Context, templateID int64) (data []domain.TemplateVersion, err error) {
	err = r.db.SelectContext(ctx, &data,
		"SELECT * FROM template_versions WHERE template_id = $1 ORDER BY version DESC", templateID)
	if err != nil {
		log.Error().Err(err).Str("component", "GetTemplateVersions").Msg("")
		return nil, errs.ErrInternalServer
	}

	return
}

func (r *TemplateRepositoryImpl) GetCategories(ctx context.Context) (data []domain.TemplateCategory, err error) {
	err = r.db.SelectContext(ctx, &data, "SELECT * FROM template_categories ORDER BY id ASC")
	if err != nil {
		log.Error().Err(err).Str("component", "GetCategories").Msg("")
		return nil, errs.ErrInternalServer
	}

	return
}

func insertItems(ctx context.Context, tx *sqlx.Tx, templateID int64, items []domain.TemplateItem, timestamp time.Time) error {
	for i := range items {
		items[i].TemplateID = templateID
		items[i].CreatedAt = timestamp
		if items[i].SortOrder == 0 {
			items[i].SortOrder = i + 1
		}
		_, err := tx.NamedExecContext(ctx, "INSERT INTO template_items(template_id, title, description, required, sort_order, assignee_role, due_days, created_at) VALUES (:template_id, :title, :description, :required, :sort_order, :assignee_role, :due_days, :created_at)", items[i])
		if err != nil {
			return err
		}
	}
	return nil
}
