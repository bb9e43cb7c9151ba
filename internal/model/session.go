package model

import "time"

// StudySession is immutable once created; it is only ever deleted.
// Duration is stored in seconds and must equal EndTime - StartTime.
type StudySession struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	SubjectID int       `json:"subject_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Duration  int       `json:"duration"`
	CreatedAt time.Time `json:"created_at"`
}
