package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"studyflow/internal/apperr"
	"studyflow/internal/model"
)

type HabitRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewHabitRepository(db *pgxpool.Pool, logger *zap.Logger) *HabitRepository {
	return &HabitRepository{
		db:     db,
		logger: logger,
	}
}

func (r *HabitRepository) Insert(ctx context.Context, h *model.Habit) error {
	r.logger.Debug("Inserting habit",
		zap.Int("user_id", h.UserID),
		zap.String("name", h.Name),
	)

	query := `
        INSERT INTO habits (user_id, name, created_at)
        VALUES ($1, $2, NOW())
        RETURNING id, created_at
    `
	err := r.db.QueryRow(ctx, query, h.UserID, h.Name).Scan(&h.ID, &h.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to insert habit", zap.Error(err))
		return err
	}
	return nil
}

func (r *HabitRepository) ListByUser(ctx context.Context, userID int) ([]model.Habit, error) {
	query := `
        SELECT id, user_id, name, created_at
        FROM habits
        WHERE user_id = $1
        ORDER BY created_at ASC
    `
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	habits := []model.Habit{}
	for rows.Next() {
		var h model.Habit
		if err := rows.Scan(&h.ID, &h.UserID, &h.Name, &h.CreatedAt); err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

// Delete removes a habit; its logs cascade via the habit_logs FK.
func (r *HabitRepository) Delete(ctx context.Context, id, userID int) error {
	query := `DELETE FROM habits WHERE id = $1 AND user_id = $2`
	tag, err := r.db.Exec(ctx, query, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("habit")
	}
	return nil
}

func (r *HabitRepository) FindByID(ctx context.Context, id, userID int) (*model.Habit, error) {
	query := `
        SELECT id, user_id, name, created_at
        FROM habits
        WHERE id = $1 AND user_id = $2
    `
	var h model.Habit
	err := r.db.QueryRow(ctx, query, id, userID).Scan(&h.ID, &h.UserID, &h.Name, &h.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("habit")
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// FindLog returns the log for (habit, date), or nil when the day has not
// been logged. Nil is the toggle's signal to insert instead of delete.
func (r *HabitRepository) FindLog(ctx context.Context, habitID int, date time.Time) (*model.HabitLog, error) {
	query := `
        SELECT id, habit_id, user_id, date
        FROM habit_logs
        WHERE habit_id = $1 AND date = $2
    `
	var l model.HabitLog
	err := r.db.QueryRow(ctx, query, habitID, date).Scan(&l.ID, &l.HabitID, &l.UserID, &l.Date)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *HabitRepository) InsertLog(ctx context.Context, l *model.HabitLog) error {
	query := `
        INSERT INTO habit_logs (habit_id, user_id, date)
        VALUES ($1, $2, $3)
        RETURNING id
    `
	return r.db.QueryRow(ctx, query, l.HabitID, l.UserID, l.Date).Scan(&l.ID)
}

func (r *HabitRepository) DeleteLog(ctx context.Context, id int) error {
	query := `DELETE FROM habit_logs WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("habit log")
	}
	return nil
}

func (r *HabitRepository) ListLogsByUser(ctx context.Context, userID int) ([]model.HabitLog, error) {
	query := `
        SELECT id, habit_id, user_id, date
        FROM habit_logs
        WHERE user_id = $1
        ORDER BY date DESC
    `
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []model.HabitLog{}
	for rows.Next() {
		var l model.HabitLog
		if err := rows.Scan(&l.ID, &l.HabitID, &l.UserID, &l.Date); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// CountByUser returns how many habits the user has, for completion scoring.
func (r *HabitRepository) CountByUser(ctx context.Context, userID int) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM habits WHERE user_id = $1`, userID).Scan(&count)
	return count, err
}

// CountLogsByUserSince counts logs dated on or after since.
func (r *HabitRepository) CountLogsByUserSince(ctx context.Context, userID int, since time.Time) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM habit_logs WHERE user_id = $1 AND date >= $2`,
		userID, since,
	).Scan(&count)
	return count, err
}
