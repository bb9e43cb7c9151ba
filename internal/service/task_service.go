package service

import (
	"context"
	"time"

	"studyflow/internal/apperr"
	"studyflow/internal/model"
)

type TaskStore interface {
	Insert(ctx context.Context, t *model.Task) error
	ListByUser(ctx context.Context, userID int) ([]model.Task, error)
	FindByID(ctx context.Context, id, userID int) (*model.Task, error)
	Update(ctx context.Context, t *model.Task) error
	Delete(ctx context.Context, id, userID int) error
}

type TaskService struct {
	tasks TaskStore
}

func NewTaskService(tasks TaskStore) *TaskService {
	return &TaskService{tasks: tasks}
}

func (s *TaskService) Create(ctx context.Context, userID int, title string, subjectID *int, dueDate *time.Time) (*model.Task, error) {
	if title == "" {
		return nil, apperr.Validation("task title is required")
	}

	task := &model.Task{
		UserID:    userID,
		Title:     title,
		SubjectID: subjectID,
		DueDate:   dueDate,
	}
	if err := s.tasks.Insert(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) List(ctx context.Context, userID int) ([]model.Task, error) {
	return s.tasks.ListByUser(ctx, userID)
}

func (s *TaskService) Update(ctx context.Context, userID, id int, title string, subjectID *int, dueDate *time.Time) (*model.Task, error) {
	if title == "" {
		return nil, apperr.Validation("task title is required")
	}

	task, err := s.tasks.FindByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	task.Title = title
	task.SubjectID = subjectID
	task.DueDate = dueDate
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// ToggleComplete flips the completed flag.
func (s *TaskService) ToggleComplete(ctx context.Context, userID, id int) (*model.Task, error) {
	task, err := s.tasks.FindByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	task.Completed = !task.Completed
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, userID, id int) error {
	return s.tasks.Delete(ctx, id, userID)
}
