package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/hrstack/onboarding-service/internal/domain"
	pkgdto "github.com/hrstack/onboarding-service/pkg/dto"
	"github.com/hrstack/onboarding-service/pkg/errs"
)

type UserRepository interface {
	GetUserByEmail(ctx context.Context, email string) (res domain.User, err error)
	GetUserByID(ctx context.Context, id int64) (data domain.User, err error)
	AddUser(ctx context.Context, data domain.User) (id int64, err error)
	GetUsers(ctx context.Context, filter pkgdto.Filter) (data []domain.User, err error)
	CountUsers(ctx context.Context, filter pkgdto.Filter) (count int64, err error)
	RecordFailedLogin(ctx context.Context, userID int64, attempts int, lockedUntil *time.Time) (err error)
	UpdatePassword(ctx context.Context, userID int64, hashedPassword string) (err error)
	UpdateRole(ctx context.Context, userID int64, role domain.Role) (err error)
	DeactivateUser(ctx context.Context, userID int64) (err error)
	FindEligibleApprover(ctx context.Context, excludeUserID int64) (data domain.User, err error)
}

type UserRepositoryImpl struct {
	db *sqlx.DB
}

func CreateNewUserRepository(db *sqlx.DB) UserRepository {
	return &UserRepositoryImpl{db: db}
}

func (r *UserRepositoryImpl) GetUserByEmail(ctx context.Context, email string) (res domain.User, err error) {
	email = strings.ToLower(strings.TrimSpace(email))
	row := r.db.QueryRowxContext(ctx, "SELECT * FROM users WHERE email = $1 AND deleted_at IS NULL", email)
	err = row.StructScan(&res)
	if err != nil {
		if err == sql.ErrNoRows {
			return res, nil
		}
		log.Error().Err(err).Str("component", "GetUserByEmail").Msg("")
		return res, errs.ErrInternalServer
	}

	return
}

func (r *UserRepositoryImpl) GetUserByID(ctx context.Context, id int64) (data domain.User, err error) {
	row := r.db.QueryRowxContext(ctx, "SELECT * FROM users WHERE id = $1 AND deleted_at IS NULL", id)
	err = row.StructScan(&data)
	if err != nil {
		if err == sql.ErrNoRows {
			return data, nil
		}
		log.Error().Err(err).Str("component", "GetUserByID").Msg("")
		return data, errs.ErrInternalServer
	}

	return
}

func (r *UserRepositoryImpl) AddUser(ctx context.Context, data domain.User) (id int64, err error) {
	timestamp := time.Now().UTC()
	data.Email = strings.ToLower(strings.TrimSpace(data.Email))
	data.CreatedAt = timestamp
	data.UpdatedAt = timestamp

	nstmt, err := r.db.PrepareNamedContext(ctx, "INSERT INTO users(external_id, email, first_name, last_name, hashed_password, role, department, email_verified, is_active, failed_login_attempts, created_at, updated_at) VALUES (:external_id, :email, :first_name, :last_name, :hashed_password, :role, :department, :email_verified, :is_active, :failed_login_attempts, :created_at, :updated_at) returning id")
	if err != nil {
		log.Error().Err(err).Str("component", "AddUser").Msg("")
		return
	}

	err = nstmt.GetContext(ctx, &data.ID, data)
	if err != nil {
		log.Error().Err(err).Str("component", "AddUser").Msg("")
		return
	}

	return data.ID, nil
}

func (r *UserRepositoryImpl) GetUsers(ctx context.Context, filter pkgdto.Filter) (data []domain.User, err error) {
	query := "SELECT * FROM users WHERE deleted_at IS NULL"

	args := make(map[string]interface{})

	if filter.Limit != 0 && filter.Page != 0 {
		query += " ORDER BY created_at ASC LIMIT :limit OFFSET :offset"
		args["limit"] = filter.Limit
		args["offset"] = filter.Offset()
	}

	nstmt, err := r.db.PrepareNamedContext(ctx, query)
	if err != nil {
		log.Error().Err(err).Str("component", "GetUsers").Msg("")
		return nil, err
	}

	err = nstmt.SelectContext(ctx, &data, args)
	if err != nil {
		log.Error().Err(err).Str("component", "GetUsers").Msg("")
		return nil, err
	}

	return data, nil
}

func (r *UserRepositoryImpl) CountUsers(ctx context.Context, filter pkgdto.Filter) (count int64, err error) {
	err = r.db.GetContext(ctx, &count, "SELECT COUNT(id) FROM users WHERE deleted_at IS NULL")
	if err != nil {
		log.Error().Err(err).Str("component", "CountUsers").Msg("")
		return 0, err
	}

	return
}

func (r *UserRepositoryImpl) RecordFailedLogin(ctx context.Context, userID int64, attempts int, lockedUntil *time.Time) (err error) {
	_, err = r.db.ExecContext(ctx,
		"UPDATE users SET failed_login_attempts = $1, locked_until = $2, updated_at = $3 WHERE id = $4 AND deleted_at IS NULL",
		attempts, lockedUntil, time.Now().UTC(), userID)
	if err != nil {
		log.Error().Err(err).Str("component", "RecordFailedLogin").Msg("")
		return errs.ErrInternalServer
	}

	return
}

func (r *UserRepositoryImpl) UpdatePassword(ctx context.Context, userID int64, hashedPassword string) (err error) {
	_, err = r.db.ExecContext(ctx,
		"UPDATE users SET hashed_password = $1, updated_at = $2 WHERE id = $3 AND deleted_at IS NULL",
		hashedPassword, time.Now().UTC(), userID)
	if err != nil {
		log.Error().Err(err).Str("component", "UpdatePassword").Msg("")
		return errs.ErrInternalServer
	}

	return
}

func (r *UserRepositoryImpl) UpdateRole(ctx context.Context, userID int64, role domain.Role) (err error) {
	_, err = r.db.ExecContext(ctx,
		"UPDATE users SET role = $1, updated_at = $2 WHERE id = $3 AND deleted_at IS NULL",
		role, time.Now().UTC(), userID)
	if err != nil {
		log.Error().Err(err).Str("component", "UpdateRole").Msg("")
		return errs.ErrInternalServer
	}

	return
}

func (r *UserRepositoryImpl) DeactivateUser(ctx context.Context, userID int64) (err error) {
	_, err = r.db.ExecContext(ctx,
		"UPDATE users SET is_active = FALSE, updated_at = $1 WHERE id = $2 AND deleted_at IS NULL",
		time.Now().UTC(), userID)
	if err != nil {
		log.Error().Err(err).Str("component", "DeactivateUser").Msg("")
		return errs.ErrInternalServer
	}

	return
}

// FindEligibleApprover picks the earliest-created active admin or hr_manager
// other than the excluded user, admins first on created_at ties.
func (r *UserRepositoryImpl) FindEligibleApprover(ctx context.Context, excludeUserID int64) (data domain.User, err error) {
	row := r.db.QueryRowxContext(ctx,
		`SELECT * FROM users
		 WHERE role IN ('admin', 'hr_manager') AND is_active = TRUE AND deleted_at IS NULL AND id <> $1
		 ORDER BY created_at ASC, CASE WHEN role = 'admin' THEN 0 ELSE 1 END ASC
		 LIMIT 1`, excludeUserID)
	err = row.StructScan(&data)
	if err != nil {
		if err == sql.ErrNoRows {
			return data, nil
		}
		log.Error().Err(err).Str("component", "FindEligibleApprover").Msg("")
		return data, errs.ErrInternalServer
	}

	return
}
