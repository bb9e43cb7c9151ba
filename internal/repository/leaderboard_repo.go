package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"studyflow/internal/apperr"
	"studyflow/internal/model"
)

type LeaderboardRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewLeaderboardRepository(db *pgxpool.Pool, logger *zap.Logger) *LeaderboardRepository {
	return &LeaderboardRepository{
		db:     db,
		logger: logger,
	}
}

func (r *LeaderboardRepository) Insert(ctx context.Context, lb *model.Leaderboard) error {
	query := `
        INSERT INTO leaderboards (name, ranking_metric, admin_user_id, created_at)
        VALUES ($1, $2, $3, NOW())
        RETURNING id, created_at
    `
	return r.db.QueryRow(ctx, query, lb.Name, lb.RankingMetric, lb.AdminUserID).Scan(&lb.ID, &lb.CreatedAt)
}

func (r *LeaderboardRepository) FindByID(ctx context.Context, id int) (*model.Leaderboard, error) {
	query := `
        SELECT id, name, ranking_metric, admin_user_id, created_at
        FROM leaderboards
        WHERE id = $1
    `
	var lb model.Leaderboard
	err := r.db.QueryRow(ctx, query, id).Scan(
		&lb.ID, &lb.Name, &lb.RankingMetric, &lb.AdminUserID, &lb.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("leaderboard")
	}
	if err != nil {
		return nil, err
	}
	return &lb, nil
}

// ListByUser returns every leaderboard the user belongs to, newest first.
func (r *LeaderboardRepository) ListByUser(ctx context.Context, userID int) ([]model.Leaderboard, error) {
	query := `
        SELECT l.id, l.name, l.ranking_metric, l.admin_user_id, l.created_at
        FROM leaderboards l
        JOIN leaderboard_members m ON m.leaderboard_id = l.id
        WHERE m.user_id = $1
        ORDER BY l.created_at DESC
    `
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	boards := []model.Leaderboard{}
	for rows.Next() {
		var lb model.Leaderboard
		if err := rows.Scan(&lb.ID, &lb.Name, &lb.RankingMetric, &lb.AdminUserID, &lb.CreatedAt); err != nil {
			return nil, err
		}
		boards = append(boards, lb)
	}
	return boards, rows.Err()
}

// Delete removes a leaderboard; members and invitations cascade.
func (r *LeaderboardRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM leaderboards WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("leaderboard")
	}
	return nil
}

func (r *LeaderboardRepository) InsertMember(ctx context.Context, m *model.LeaderboardMember) error {
	r.logger.Debug("Inserting leaderboard member",
		zap.Int("leaderboard_id", m.LeaderboardID),
		zap.Int("user_id", m.UserID),
	)

	query := `
        INSERT INTO leaderboard_members (leaderboard_id, user_id, joined_at)
        VALUES ($1, $2, NOW())
        RETURNING id, joined_at
    `
	return r.db.QueryRow(ctx, query, m.LeaderboardID, m.UserID).Scan(&m.ID, &m.JoinedAt)
}

// ListMembers returns members in join order so ranking ties break
// deterministically.
func (r *LeaderboardRepository) ListMembers(ctx context.Context, leaderboardID int) ([]model.LeaderboardMember, error) {
	query := `
        SELECT id, leaderboard_id, user_id, joined_at
        FROM leaderboard_members
        WHERE leaderboard_id = $1
        ORDER BY joined_at ASC, id ASC
    `
	rows, err := r.db.Query(ctx, query, leaderboardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := []model.LeaderboardMember{}
	for rows.Next() {
		var m model.LeaderboardMember
		if err := rows.Scan(&m.ID, &m.LeaderboardID, &m.UserID, &m.JoinedAt); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *LeaderboardRepository) FindMemberByID(ctx context.Context, id int) (*model.LeaderboardMember, error) {
	query := `
        SELECT id, leaderboard_id, user_id, joined_at
        FROM leaderboard_members
        WHERE id = $1
    `
	var m model.LeaderboardMember
	err := r.db.QueryRow(ctx, query, id).Scan(&m.ID, &m.LeaderboardID, &m.UserID, &m.JoinedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("member")
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// IsMember reports whether the user has a membership row on the board.
func (r *LeaderboardRepository) IsMember(ctx context.Context, leaderboardID, userID int) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM leaderboard_members WHERE leaderboard_id = $1 AND user_id = $2)`,
		leaderboardID, userID,
	).Scan(&exists)
	return exists, err
}

func (r *LeaderboardRepository) DeleteMember(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM leaderboard_members WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("member")
	}
	return nil
}

func (r *LeaderboardRepository) DeleteMemberByUser(ctx context.Context, leaderboardID, userID int) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM leaderboard_members WHERE leaderboard_id = $1 AND user_id = $2`,
		leaderboardID, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("member")
	}
	return nil
}
