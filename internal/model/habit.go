package model

import "time"

type Habit struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// HabitLog marks a habit as done on one calendar day. The (habit, date)
// pair is unique; toggling the same pair removes the log.
type HabitLog struct {
	ID      int       `json:"id"`
	HabitID int       `json:"habit_id"`
	UserID  int       `json:"user_id"`
	Date    time.Time `json:"date"`
}

// DateKey is the day-granularity key used for uniqueness and streaks.
func (l HabitLog) DateKey() string {
	return l.Date.Format("2006-01-02")
}
