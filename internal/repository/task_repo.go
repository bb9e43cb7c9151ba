package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"studyflow/internal/apperr"
	"studyflow/internal/model"
)

type TaskRepository struct {
	db *pgxpool.Pool
}

func NewTaskRepository(db *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Insert(ctx context.Context, t *model.Task) error {
	query := `
        INSERT INTO tasks (user_id, title, subject_id, due_date, completed, created_at)
        VALUES ($1, $2, $3, $4, FALSE, NOW())
        RETURNING id, created_at
    `
	return r.db.QueryRow(ctx, query, t.UserID, t.Title, t.SubjectID, t.DueDate).Scan(&t.ID, &t.CreatedAt)
}

func (r *TaskRepository) ListByUser(ctx context.Context, userID int) ([]model.Task, error) {
	query := `
        SELECT id, user_id, title, subject_id, due_date, completed, created_at
        FROM tasks
        WHERE user_id = $1
        ORDER BY due_date ASC NULLS LAST, created_at ASC
    `
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		var t model.Task
		if err := rows.Scan(
			&t.ID, &t.UserID, &t.Title, &t.SubjectID, &t.DueDate, &t.Completed, &t.CreatedAt,
		); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *TaskRepository) FindByID(ctx context.Context, id, userID int) (*model.Task, error) {
	query := `
        SELECT id, user_id, title, subject_id, due_date, completed, created_at
        FROM tasks
        WHERE id = $1 AND user_id = $2
    `
	var t model.Task
	err := r.db.QueryRow(ctx, query, id, userID).Scan(
		&t.ID, &t.UserID, &t.Title, &t.SubjectID, &t.DueDate, &t.Completed, &t.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("task")
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TaskRepository) Update(ctx context.Context, t *model.Task) error {
	query := `
        UPDATE tasks
        SET title = $1, subject_id = $2, due_date = $3, completed = $4
        WHERE id = $5 AND user_id = $6
    `
	tag, err := r.db.Exec(ctx, query, t.Title, t.SubjectID, t.DueDate, t.Completed, t.ID, t.UserID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("task")
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, id, userID int) error {
	query := `DELETE FROM tasks WHERE id = $1 AND user_id = $2`
	tag, err := r.db.Exec(ctx, query, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("task")
	}
	return nil
}
