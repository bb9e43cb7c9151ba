package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"studyflow/internal/apperr"
	"studyflow/internal/model"
)

type InvitationRepository struct {
	db *pgxpool.Pool
}

func NewInvitationRepository(db *pgxpool.Pool) *InvitationRepository {
	return &InvitationRepository{db: db}
}

func (r *InvitationRepository) Insert(ctx context.Context, inv *model.LeaderboardInvitation) error {
	query := `
        INSERT INTO leaderboard_invitations
            (leaderboard_id, email, token, status, invited_by, created_at, expires_at)
        VALUES ($1, $2, $3, $4, $5, NOW(), $6)
        RETURNING id, created_at
    `
	return r.db.QueryRow(ctx, query,
		inv.LeaderboardID, inv.Email, inv.Token, inv.Status, inv.InvitedBy, inv.ExpiresAt,
	).Scan(&inv.ID, &inv.CreatedAt)
}

func (r *InvitationRepository) FindByToken(ctx context.Context, token string) (*model.LeaderboardInvitation, error) {
	query := `
        SELECT id, leaderboard_id, email, token, status, invited_by, created_at, expires_at
        FROM leaderboard_invitations
        WHERE token = $1
    `
	return r.scanOne(r.db.QueryRow(ctx, query, token))
}

// FindPendingByToken fetches an invitation only while its stored status
// is still pending; consumed or declined tokens read as absent.
func (r *InvitationRepository) FindPendingByToken(ctx context.Context, token string) (*model.LeaderboardInvitation, error) {
	query := `
        SELECT id, leaderboard_id, email, token, status, invited_by, created_at, expires_at
        FROM leaderboard_invitations
        WHERE token = $1 AND status = 'pending'
    `
	return r.scanOne(r.db.QueryRow(ctx, query, token))
}

func (r *InvitationRepository) FindByID(ctx context.Context, id int) (*model.LeaderboardInvitation, error) {
	query := `
        SELECT id, leaderboard_id, email, token, status, invited_by, created_at, expires_at
        FROM leaderboard_invitations
        WHERE id = $1
    `
	return r.scanOne(r.db.QueryRow(ctx, query, id))
}

func (r *InvitationRepository) ListByLeaderboard(ctx context.Context, leaderboardID int) ([]model.LeaderboardInvitation, error) {
	query := `
        SELECT id, leaderboard_id, email, token, status, invited_by, created_at, expires_at
        FROM leaderboard_invitations
        WHERE leaderboard_id = $1
        ORDER BY created_at DESC
    `
	rows, err := r.db.Query(ctx, query, leaderboardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	invitations := []model.LeaderboardInvitation{}
	for rows.Next() {
		var inv model.LeaderboardInvitation
		if err := rows.Scan(
			&inv.ID, &inv.LeaderboardID, &inv.Email, &inv.Token,
			&inv.Status, &inv.InvitedBy, &inv.CreatedAt, &inv.ExpiresAt,
		); err != nil {
			return nil, err
		}
		invitations = append(invitations, inv)
	}
	return invitations, rows.Err()
}

func (r *InvitationRepository) UpdateStatus(ctx context.Context, id int, status model.InvitationStatus) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE leaderboard_invitations SET status = $1 WHERE id = $2`,
		status, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("invitation")
	}
	return nil
}

func (r *InvitationRepository) scanOne(row pgx.Row) (*model.LeaderboardInvitation, error) {
	var inv model.LeaderboardInvitation
	err := row.Scan(
		&inv.ID, &inv.LeaderboardID, &inv.Email, &inv.Token,
		&inv.Status, &inv.InvitedBy, &inv.CreatedAt, &inv.ExpiresAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("invitation")
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}
