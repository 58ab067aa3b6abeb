package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adanyl0v/go-task-manager/internal/models"
)

type sessionRepository struct {
	pool *pgxpool.Pool
}

func (r *sessionRepository) Create(ctx context.Context, session *models.Session) error {
	const insertSessionQuery = `
INSERT INTO sessions (id,
                      user_id,
                      fingerprint,
                      refresh_token,
                      expires_at,
                      created_at,
                      updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`
	_, err := r.pool.Exec(
		ctx,
		insertSessionQuery,
		session.ID,
		session.UserID,
		session.Fingerprint,
		session.RefreshToken,
		session.ExpiresAt,
		session.CreatedAt,
		session.UpdatedAt,
	)
	if err != nil {
		return wrap("insert session", err)
	}
	return nil
}

const selectSessionColumns = `
SELECT id,
       user_id,
       fingerprint,
       refresh_token,
       expires_at,
       created_at,
       updated_at
FROM sessions
`

func (r *sessionRepository) GetByID(ctx context.Context, id string) (*models.Session, error) {
	return r.selectOne(ctx, "select session by id", selectSessionColumns+`WHERE id = $1`, id)
}

func (r *sessionRepository) GetByRefreshToken(ctx context.Context, refreshToken string) (*models.Session, error) {
	return r.selectOne(ctx, "select session by refresh token",
		selectSessionColumns+`WHERE refresh_token = $1`, refreshToken)
}

func (r *sessionRepository) selectOne(ctx context.Context, op, query string, arg any) (*models.Session, error) {
	session := new(models.Session)
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&session.ID,
		&session.UserID,
		&session.Fingerprint,
		&session.RefreshToken,
		&session.ExpiresAt,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err != nil {
		return nil, wrap(op, err)
	}
	return session, nil
}

func (r *sessionRepository) Update(ctx context.Context, session *models.Session) error {
	const updateSessionQuery = `
UPDATE sessions
SET refresh_token = $1,
    expires_at = $2,
    updated_at = $3
WHERE id = $4
`
	tag, err := r.pool.Exec(
		ctx,
		updateSessionQuery,
		session.RefreshToken,
		session.ExpiresAt,
		session.UpdatedAt,
		session.ID,
	)
	return mustAffect("update session", tag, err)
}

func (r *sessionRepository) DeleteByUserID(ctx context.Context, userID string) (int64, error) {
	const deleteSessionsByUserIDQuery = `
DELETE FROM sessions
WHERE user_id = $1
`
	tag, err := r.pool.Exec(ctx, deleteSessionsByUserIDQuery, userID)
	if err != nil {
		return 0, wrap("delete sessions by user id", err)
	}
	return tag.RowsAffected(), nil
}

func (r *sessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	const deleteExpiredSessionsQuery = `
DELETE FROM sessions
WHERE expires_at < $1
`
	tag, err := r.pool.Exec(ctx, deleteExpiredSessionsQuery, now)
	if err != nil {
		return 0, wrap("delete expired sessions", err)
	}
	return tag.RowsAffected(), nil
}
