// Package stats computes daily/weekly study summaries and habit streaks
// from raw session and log records. Everything here is pure: callers
// fetch the records, stats derives the numbers.
package stats

import (
	"math"
	"time"

	"studyflow/internal/model"
)

const dateLayout = "2006-01-02"

type SubjectMinutes struct {
	SubjectID int `json:"subject_id"`
	Minutes   int `json:"minutes"`
}

type DailyStats struct {
	Date               string           `json:"date"`
	TotalMinutes       int              `json:"total_minutes"`
	SessionCount       int              `json:"session_count"`
	SubjectBreakdown   []SubjectMinutes `json:"subject_breakdown"`
	MostStudiedSubject *int             `json:"most_studied_subject"`
}

type DayTotal struct {
	Date    string `json:"date"`
	Minutes int    `json:"minutes"`
}

type WeeklyStats struct {
	DailyTotals       []DayTotal `json:"daily_totals"`
	TotalMinutes      int        `json:"total_minutes"`
	AverageMinutes    int        `json:"average_minutes"`
	MostProductiveDay *string    `json:"most_productive_day"`
}

// RoundMinutes converts stored seconds to presentation minutes. Rounds to
// nearest so short sessions do not display as zero.
func RoundMinutes(seconds int) int {
	return int(math.Round(float64(seconds) / 60.0))
}

// Daily summarizes the sessions whose start time falls on the calendar
// day of date. TotalMinutes is the sum of the per-subject rounded
// minutes, so the breakdown always adds up to the total. The most
// studied subject must be strictly ahead; on a tie the first-encountered
// subject stays in front.
func Daily(sessions []model.StudySession, date time.Time) DailyStats {
	dayStart := startOfDay(date)
	dayEnd := dayStart.AddDate(0, 0, 1)

	secondsBySubject := make(map[int]int)
	var order []int
	count := 0

	for _, s := range sessions {
		if s.StartTime.Before(dayStart) || !s.StartTime.Before(dayEnd) {
			continue
		}
		if _, seen := secondsBySubject[s.SubjectID]; !seen {
			order = append(order, s.SubjectID)
		}
		secondsBySubject[s.SubjectID] += s.Duration
		count++
	}

	breakdown := make([]SubjectMinutes, 0, len(order))
	total := 0
	var mostStudied *int
	maxMinutes := 0

	for _, subjectID := range order {
		minutes := RoundMinutes(secondsBySubject[subjectID])
		breakdown = append(breakdown, SubjectMinutes{SubjectID: subjectID, Minutes: minutes})
		total += minutes

		if minutes > maxMinutes {
			maxMinutes = minutes
			id := subjectID
			mostStudied = &id
		}
	}

	return DailyStats{
		Date:               dayStart.Format(dateLayout),
		TotalMinutes:       total,
		SessionCount:       count,
		SubjectBreakdown:   breakdown,
		MostStudiedSubject: mostStudied,
	}
}

// Weekly builds exactly 7 daily buckets covering [now-6d, now]. The
// average divides by 7 regardless of how many days had activity.
func Weekly(sessions []model.StudySession, now time.Time) WeeklyStats {
	dailyTotals := make([]DayTotal, 0, 7)
	total := 0

	for i := 6; i >= 0; i-- {
		day := now.AddDate(0, 0, -i)
		daily := Daily(sessions, day)
		dailyTotals = append(dailyTotals, DayTotal{
			Date:    daily.Date,
			Minutes: daily.TotalMinutes,
		})
		total += daily.TotalMinutes
	}

	var mostProductive *string
	maxMinutes := 0
	for _, day := range dailyTotals {
		if day.Minutes > maxMinutes {
			maxMinutes = day.Minutes
			date := day.Date
			mostProductive = &date
		}
	}

	return WeeklyStats{
		DailyTotals:       dailyTotals,
		TotalMinutes:      total,
		AverageMinutes:    int(math.Round(float64(total) / 7.0)),
		MostProductiveDay: mostProductive,
	}
}

// Streak counts consecutive logged days for one habit, ending today or
// yesterday. A streak stays alive on a day that has not been logged yet,
// but only if yesterday was logged; otherwise it reads as broken.
func Streak(habitID int, logs []model.HabitLog, now time.Time) int {
	logged := make(map[string]bool)
	for _, l := range logs {
		if l.HabitID == habitID {
			logged[l.DateKey()] = true
		}
	}
	if len(logged) == 0 {
		return 0
	}

	today := now.Format(dateLayout)
	yesterday := now.AddDate(0, 0, -1).Format(dateLayout)
	if !logged[today] && !logged[yesterday] {
		return 0
	}

	check := now
	if !logged[today] {
		check = check.AddDate(0, 0, -1)
	}

	streak := 0
	for logged[check.Format(dateLayout)] {
		streak++
		check = check.AddDate(0, 0, -1)
	}
	return streak
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
