package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"studyflow/internal/apperr"
	"studyflow/internal/model"
)

type SubjectRepository struct {
	db *pgxpool.Pool
}

func NewSubjectRepository(db *pgxpool.Pool) *SubjectRepository {
	return &SubjectRepository{db: db}
}

func (r *SubjectRepository) Insert(ctx context.Context, s *model.Subject) error {
	query := `
        INSERT INTO subjects (user_id, name, color, created_at)
        VALUES ($1, $2, $3, NOW())
        RETURNING id, created_at
    `
	return r.db.QueryRow(ctx, query, s.UserID, s.Name, s.Color).Scan(&s.ID, &s.CreatedAt)
}

func (r *SubjectRepository) ListByUser(ctx context.Context, userID int) ([]model.Subject, error) {
	query := `
        SELECT id, user_id, name, color, created_at
        FROM subjects
        WHERE user_id = $1
        ORDER BY created_at ASC
    `
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	subjects := []model.Subject{}
	for rows.Next() {
		var s model.Subject
		if err := rows.Scan(&s.ID, &s.UserID, &s.Name, &s.Color, &s.CreatedAt); err != nil {
			return nil, err
		}
		subjects = append(subjects, s)
	}
	return subjects, rows.Err()
}

func (r *SubjectRepository) Update(ctx context.Context, s *model.Subject) error {
	query := `
        UPDATE subjects
        SET name = $1, color = $2
        WHERE id = $3 AND user_id = $4
    `
	tag, err := r.db.Exec(ctx, query, s.Name, s.Color, s.ID, s.UserID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("subject")
	}
	return nil
}

func (r *SubjectRepository) Delete(ctx context.Context, id, userID int) error {
	query := `DELETE FROM subjects WHERE id = $1 AND user_id = $2`
	tag, err := r.db.Exec(ctx, query, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("subject")
	}
	return nil
}

func (r *SubjectRepository) FindByID(ctx context.Context, id, userID int) (*model.Subject, error) {
	query := `
        SELECT id, user_id, name, color, created_at
        FROM subjects
        WHERE id = $1 AND user_id = $2
    `
	var s model.Subject
	err := r.db.QueryRow(ctx, query, id, userID).Scan(
		&s.ID, &s.UserID, &s.Name, &s.Color, &s.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("subject")
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}
