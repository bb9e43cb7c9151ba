package service

import (
	"context"

	"studyflow/internal/apperr"
	"studyflow/internal/model"
)

const defaultSubjectColor = "#6366f1"

type SubjectStore interface {
	Insert(ctx context.Context, s *model.Subject) error
	ListByUser(ctx context.Context, userID int) ([]model.Subject, error)
	Update(ctx context.Context, s *model.Subject) error
	Delete(ctx context.Context, id, userID int) error
}

type SubjectService struct {
	subjects SubjectStore
}

func NewSubjectService(subjects SubjectStore) *SubjectService {
	return &SubjectService{subjects: subjects}
}

func (s *SubjectService) Create(ctx context.Context, userID int, name, color string) (*model.Subject, error) {
	if name == "" {
		return nil, apperr.Validation("subject name is required")
	}
	if color == "" {
		color = defaultSubjectColor
	}

	subject := &model.Subject{
		UserID: userID,
		Name:   name,
		Color:  color,
	}
	if err := s.subjects.Insert(ctx, subject); err != nil {
		return nil, err
	}
	return subject, nil
}

func (s *SubjectService) List(ctx context.Context, userID int) ([]model.Subject, error) {
	return s.subjects.ListByUser(ctx, userID)
}

func (s *SubjectService) Update(ctx context.Context, userID, id int, name, color string) (*model.Subject, error) {
	if name == "" {
		return nil, apperr.Validation("subject name is required")
	}

	subject := &model.Subject{
		ID:     id,
		UserID: userID,
		Name:   name,
		Color:  color,
	}
	if err := s.subjects.Update(ctx, subject); err != nil {
		return nil, err
	}
	return subject, nil
}

func (s *SubjectService) Delete(ctx context.Context, userID, id int) error {
	return s.subjects.Delete(ctx, id, userID)
}
