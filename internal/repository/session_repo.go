package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"studyflow/internal/apperr"
	"studyflow/internal/model"
	"studyflow/pkg/metrics"
)

type SessionRepository struct {
	db *pgxpool.Pool
}

func NewSessionRepository(db *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{db: db}
}

// Insert records a finished study session. Sessions are immutable; there
// is no update path.
func (r *SessionRepository) Insert(ctx context.Context, s *model.StudySession) error {
	query := `
        INSERT INTO study_sessions (user_id, subject_id, start_time, end_time, duration, created_at)
        VALUES ($1, $2, $3, $4, $5, NOW())
        RETURNING id, created_at
    `
	err := r.db.QueryRow(ctx, query,
		s.UserID, s.SubjectID, s.StartTime, s.EndTime, s.Duration,
	).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		return err
	}
	metrics.SessionsLoggedCount.Inc()
	return nil
}

func (r *SessionRepository) ListByUser(ctx context.Context, userID int) ([]model.StudySession, error) {
	query := `
        SELECT id, user_id, subject_id, start_time, end_time, duration, created_at
        FROM study_sessions
        WHERE user_id = $1
        ORDER BY start_time DESC
    `
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSessions(rows)
}

// ListByUserSince returns sessions starting at or after since, used for
// trailing-window stats and leaderboard scoring.
func (r *SessionRepository) ListByUserSince(ctx context.Context, userID int, since time.Time) ([]model.StudySession, error) {
	query := `
        SELECT id, user_id, subject_id, start_time, end_time, duration, created_at
        FROM study_sessions
        WHERE user_id = $1 AND start_time >= $2
        ORDER BY start_time ASC
    `
	rows, err := r.db.Query(ctx, query, userID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSessions(rows)
}

func (r *SessionRepository) Delete(ctx context.Context, id, userID int) error {
	query := `DELETE FROM study_sessions WHERE id = $1 AND user_id = $2`
	tag, err := r.db.Exec(ctx, query, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("study session")
	}
	return nil
}

func scanSessions(rows pgx.Rows) ([]model.StudySession, error) {
	sessions := []model.StudySession{}
	for rows.Next() {
		var s model.StudySession
		if err := rows.Scan(
			&s.ID, &s.UserID, &s.SubjectID, &s.StartTime, &s.EndTime, &s.Duration, &s.CreatedAt,
		); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}
