package service

import (
	"context"
	"time"

	"studyflow/internal/apperr"
	"studyflow/internal/model"
	"studyflow/internal/stats"
)

type SessionStore interface {
	Insert(ctx context.Context, s *model.StudySession) error
	ListByUser(ctx context.Context, userID int) ([]model.StudySession, error)
	ListByUserSince(ctx context.Context, userID int, since time.Time) ([]model.StudySession, error)
	Delete(ctx context.Context, id, userID int) error
}

// StudyService records sessions and derives daily/weekly summaries.
type StudyService struct {
	sessions SessionStore
	now      func() time.Time
}

func NewStudyService(sessions SessionStore) *StudyService {
	return &StudyService{
		sessions: sessions,
		now:      time.Now,
	}
}

// LogSession records a finished session. The stored duration is always
// derived from the timestamps so the end - start invariant holds.
func (s *StudyService) LogSession(ctx context.Context, userID, subjectID int, start, end time.Time) (*model.StudySession, error) {
	if subjectID == 0 {
		return nil, apperr.Validation("subject is required")
	}
	if !end.After(start) {
		return nil, apperr.Validation("session end must be after start")
	}

	session := &model.StudySession{
		UserID:    userID,
		SubjectID: subjectID,
		StartTime: start,
		EndTime:   end,
		Duration:  int(end.Sub(start).Seconds()),
	}
	if err := s.sessions.Insert(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// List returns the user's sessions, all of them or only those starting
// at since or later.
func (s *StudyService) List(ctx context.Context, userID int, since time.Time) ([]model.StudySession, error) {
	if since.IsZero() {
		return s.sessions.ListByUser(ctx, userID)
	}
	return s.sessions.ListByUserSince(ctx, userID, since)
}

func (s *StudyService) Delete(ctx context.Context, userID, id int) error {
	return s.sessions.Delete(ctx, id, userID)
}

// DailyStats summarizes the given calendar day (today when date is zero).
func (s *StudyService) DailyStats(ctx context.Context, userID int, date time.Time) (stats.DailyStats, error) {
	if date.IsZero() {
		date = s.now()
	}
	sessions, err := s.sessions.ListByUser(ctx, userID)
	if err != nil {
		return stats.DailyStats{}, err
	}
	return stats.Daily(sessions, date), nil
}

// WeeklyStats summarizes the trailing 7 days ending today.
func (s *StudyService) WeeklyStats(ctx context.Context, userID int) (stats.WeeklyStats, error) {
	now := s.now()
	sessions, err := s.sessions.ListByUserSince(ctx, userID, now.AddDate(0, 0, -7))
	if err != nil {
		return stats.WeeklyStats{}, err
	}
	return stats.Weekly(sessions, now), nil
}
