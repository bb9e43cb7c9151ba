package service

import (
	"context"
	"time"

	"studyflow/internal/apperr"
	"studyflow/internal/model"
	"studyflow/internal/stats"
	"studyflow/pkg/metrics"
)

type HabitStore interface {
	Insert(ctx context.Context, h *model.Habit) error
	ListByUser(ctx context.Context, userID int) ([]model.Habit, error)
	Delete(ctx context.Context, id, userID int) error
	FindByID(ctx context.Context, id, userID int) (*model.Habit, error)
	FindLog(ctx context.Context, habitID int, date time.Time) (*model.HabitLog, error)
	InsertLog(ctx context.Context, l *model.HabitLog) error
	DeleteLog(ctx context.Context, id int) error
	ListLogsByUser(ctx context.Context, userID int) ([]model.HabitLog, error)
}

type HabitService struct {
	habits HabitStore
	now    func() time.Time
}

func NewHabitService(habits HabitStore) *HabitService {
	return &HabitService{
		habits: habits,
		now:    time.Now,
	}
}

func (s *HabitService) Create(ctx context.Context, userID int, name string) (*model.Habit, error) {
	if name == "" {
		return nil, apperr.Validation("habit name is required")
	}

	habit := &model.Habit{
		UserID: userID,
		Name:   name,
	}
	if err := s.habits.Insert(ctx, habit); err != nil {
		return nil, err
	}
	return habit, nil
}

func (s *HabitService) List(ctx context.Context, userID int) ([]model.Habit, error) {
	return s.habits.ListByUser(ctx, userID)
}

func (s *HabitService) Delete(ctx context.Context, userID, id int) error {
	return s.habits.Delete(ctx, id, userID)
}

func (s *HabitService) Logs(ctx context.Context, userID int) ([]model.HabitLog, error) {
	return s.habits.ListLogsByUser(ctx, userID)
}

// ToggleLog flips the log for (habit, date): a first toggle records the
// day, a second removes it again. This is what keeps the (habit, date)
// pair unique. Returns true when the day ends up logged.
func (s *HabitService) ToggleLog(ctx context.Context, userID, habitID int, date time.Time) (bool, error) {
	if date.IsZero() {
		date = s.now()
	}
	date = startOfDay(date)

	if _, err := s.habits.FindByID(ctx, habitID, userID); err != nil {
		return false, err
	}

	existing, err := s.habits.FindLog(ctx, habitID, date)
	if err != nil {
		return false, err
	}

	if existing != nil {
		if err := s.habits.DeleteLog(ctx, existing.ID); err != nil {
			return false, err
		}
		metrics.IncrementHabitToggle("unlogged")
		return false, nil
	}

	log := &model.HabitLog{
		HabitID: habitID,
		UserID:  userID,
		Date:    date,
	}
	if err := s.habits.InsertLog(ctx, log); err != nil {
		return false, err
	}
	metrics.IncrementHabitToggle("logged")
	return true, nil
}

// Streaks returns the current streak per habit for the user.
func (s *HabitService) Streaks(ctx context.Context, userID int) (map[int]int, error) {
	habits, err := s.habits.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	logs, err := s.habits.ListLogsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	streaks := make(map[int]int, len(habits))
	for _, h := range habits {
		streaks[h.ID] = stats.Streak(h.ID, logs, now)
	}
	return streaks, nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
