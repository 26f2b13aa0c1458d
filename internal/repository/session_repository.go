package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/hrstack/onboarding-service/internal/domain"
	"github.com/hrstack/onboarding-service/pkg/errs"
)

type SessionRepository interface {
	AddSessionForLogin(ctx context.Context, data domain.Session) (id int64, err error)
	GetSessionByTokenHash(ctx context.Context, tokenHash string) (data domain.Session, err error)
	GetSessionByID(ctx context.Context, id int64) (data domain.Session, err error)
	GetActiveSessionsByUser(ctx context.Context, userID int64) (data []domain.Session, err error)
	RotateSessionToken(ctx context.Context, sessionID int64, tokenHash string, expiresAt time.Time) (err error)
	DeactivateSession(ctx context.Context, sessionID int64) (err error)
	DeactivateAllSessions(ctx context.Context, userID int64) (err error)
	DeactivateOtherSessions(ctx context.Context, userID int64, keepSessionID int64) (err error)
}

type SessionRepositoryImpl struct {
	db *sqlx.DB
}

func CreateNewSessionRepository(db *sqlx.DB) SessionRepository {
	return &SessionRepositoryImpl{db: db}
}

// AddSessionForLogin inserts the session row and resets the owner's lockout
// counters in one transaction, so a crash cannot leave a logged-in user with
// stale failed-attempt state.
func (r *SessionRepositoryImpl) AddSessionForLogin(ctx context.Context, data domain.Session) (id int64, err error) {
	tx := r.db.MustBegin()
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	timestamp := time.Now().UTC()
	data.CreatedAt = timestamp

	nstmt, err := tx.PrepareNamedContext(ctx, "INSERT INTO sessions(user_id, token_hash, ip_address, user_agent, expires_at, is_active, created_at) VALUES (:user_id, :token_hash, :ip_address, :user_agent, :expires_at, :is_active, :created_at) returning id")
	if err != nil {
		log.Error().Err(err).Str("component", "AddSessionForLogin").Msg("")
		return
	}

	err = nstmt.GetContext(ctx, &data.ID, data)
	if err != nil {
		log.Error().Err(err).Str("component", "AddSessionForLogin").Msg("")
		return
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE users SET failed_login_attempts = 0, locked_until = NULL, last_login_at = $1, updated_at = $1 WHERE id = $2",
		timestamp, data.UserID)
	if err != nil {
		log.Error().Err(err).Str("component", "AddSessionForLogin").Msg("")
		return
	}

	err = tx.Commit()

	return data.ID, err
}

func (r *SessionRepositoryImpl) GetSessionByTokenHash(ctx context.Context, tokenHash string) (data domain.Session, err error) {
	row := r.db.QueryRowxContext(ctx, "SELECT * FROM sessions WHERE token_hash = $1", tokenHash)
	err = row.StructScan(&data)
	if err != nil {
		if err == sql.ErrNoRows {
			return data, nil
		}
		log.Error().Err(err).Str("component", "GetSessionByTokenHash").Msg("")
		return data, errs.ErrInternalServer
	}

	return
}

func (r *SessionRepositoryImpl) GetSessionByID(ctx context.Context, id int64) (data domain.Session, err error) {
	row := r.db.QueryRowxContext(ctx, "SELECT * FROM sessions WHERE id = $1", id)
	err = row.StructScan(&data)
	if err != nil {
		if err == sql.ErrNoRows {
			return data, nil
		}
		log.Error().Err(err).Str("component", "GetSessionByID").Msg("")
		return data, errs.ErrInternalServer
	}

	return
}

func (r *SessionRepositoryImpl) GetActiveSessionsByUser(ctx context.Context, userID int64) (data []domain.Session, err error) {
	err = r.db.SelectContext(ctx, &data,
		"SELECT * FROM sessions WHERE user_id = $1 AND is_active = TRUE AND expires_at > $2 ORDER BY created_at DESC",
		userID, time.Now().UTC())
	if err != nil {
		log.Error().Err(err).Str("component", "GetActiveSessionsByUser").Msg("")
		return nil, errs.ErrInternalServer
	}

	return
}

// RotateSessionToken swaps the token hash and expiry in place; the session
// row keeps its identity across refreshes.
func (r *SessionRepositoryImpl) RotateSessionToken(ctx context.Context, sessionID int64, tokenHash string, expiresAt time.Time) (err error) {
	_, err = r.db.ExecContext(ctx,
		"UPDATE sessions SET token_hash = $1, expires_at = $2 WHERE id = $3",
		tokenHash, expiresAt, sessionID)
	if err != nil {
		log.Error().Err(err).Str("component", "RotateSessionToken").Msg("")
		return errs.ErrInternalServer
	}

	return
}

func (r *SessionRepositoryImpl) DeactivateSession(ctx context.Context, sessionID int64) (err error) {
	_, err = r.db.ExecContext(ctx,
		"UPDATE sessions SET is_active = FALSE WHERE id = $1", sessionID)
	if err != nil {
		log.Error().Err(err).Str("component", "DeactivateSession").Msg("")
		return errs.ErrInternalServer
	}

	return
}

func (r *SessionRepositoryImpl) DeactivateAllSessions(ctx context.Context, userID int64) (err error) {
	_, err = r.db.ExecContext(ctx,
		"UPDATE sessions SET is_active = FALSE WHERE user_id = $1 AND is_active = TRUE", userID)
	if err != nil {
		log.Error().Err(err).Str("component", "DeactivateAllSessions").Msg("")
		return errs.ErrInternalServer
	}

	return
}

func (r *SessionRepositoryImpl) DeactivateOtherSessions(ctx context.Context, userID int64, keepSessionID int64) (err error) {
	_, err = r.db.ExecContext(ctx,
		"UPDATE sessions SET is_active = FALSE WHERE user_id = $1 AND id <> $2 AND is_active = TRUE",
		userID, keepSessionID)
	if err != nil {
		log.Error().Err(err).Str("component", "DeactivateOtherSessions").Msg("")
		return errs.ErrInternalServer
	}

	return
}
