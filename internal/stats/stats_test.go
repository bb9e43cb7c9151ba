package stats

import (
	"testing"
	"time"

	"studyflow/internal/model"
)

var base = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

func session(subjectID int, start time.Time, durationSec int) model.StudySession {
	return model.StudySession{
		SubjectID: subjectID,
		StartTime: start,
		EndTime:   start.Add(time.Duration(durationSec) * time.Second),
		Duration:  durationSec,
	}
}

func TestDaily_SubjectBreakdownAndMostStudied(t *testing.T) {
	sessions := []model.StudySession{
		session(1, base, 1800),
		session(2, base.Add(2*time.Hour), 600),
	}

	daily := Daily(sessions, base)

	if daily.TotalMinutes != 40 {
		t.Errorf("TotalMinutes = %d, want 40", daily.TotalMinutes)
	}
	if daily.SessionCount != 2 {
		t.Errorf("SessionCount = %d, want 2", daily.SessionCount)
	}
	if len(daily.SubjectBreakdown) != 2 {
		t.Fatalf("SubjectBreakdown has %d entries, want 2", len(daily.SubjectBreakdown))
	}
	if daily.SubjectBreakdown[0].SubjectID != 1 || daily.SubjectBreakdown[0].Minutes != 30 {
		t.Errorf("breakdown[0] = %+v, want subject 1 with 30 minutes", daily.SubjectBreakdown[0])
	}
	if daily.SubjectBreakdown[1].SubjectID != 2 || daily.SubjectBreakdown[1].Minutes != 10 {
		t.Errorf("breakdown[1] = %+v, want subject 2 with 10 minutes", daily.SubjectBreakdown[1])
	}
	if daily.MostStudiedSubject == nil || *daily.MostStudiedSubject != 1 {
		t.Errorf("MostStudiedSubject = %v, want 1", daily.MostStudiedSubject)
	}
}

func TestDaily_BreakdownSumsToTotal(t *testing.T) {
	// Per-subject rounding must stay consistent with the total: 90s is
	// rounded per subject, never re-rounded from the raw sum.
	sessions := []model.StudySession{
		session(1, base, 90),
		session(2, base.Add(time.Hour), 90),
		session(3, base.Add(2*time.Hour), 25),
	}

	daily := Daily(sessions, base)

	sum := 0
	for _, b := range daily.SubjectBreakdown {
		sum += b.Minutes
	}
	if sum != daily.TotalMinutes {
		t.Errorf("breakdown sum %d != TotalMinutes %d", sum, daily.TotalMinutes)
	}
}

func TestDaily_EmptyInput(t *testing.T) {
	daily := Daily(nil, base)

	if daily.TotalMinutes != 0 || daily.SessionCount != 0 {
		t.Errorf("empty input: got total=%d count=%d, want zeros", daily.TotalMinutes, daily.SessionCount)
	}
	if len(daily.SubjectBreakdown) != 0 {
		t.Errorf("empty input: breakdown has %d entries", len(daily.SubjectBreakdown))
	}
	if daily.MostStudiedSubject != nil {
		t.Errorf("empty input: MostStudiedSubject = %v, want nil", *daily.MostStudiedSubject)
	}
}

func TestDaily_IgnoresOtherDays(t *testing.T) {
	sessions := []model.StudySession{
		session(1, base.AddDate(0, 0, -1), 3600),
		session(1, base, 600),
		session(1, base.AddDate(0, 0, 1), 3600),
	}

	daily := Daily(sessions, base)

	if daily.TotalMinutes != 10 {
		t.Errorf("TotalMinutes = %d, want 10 (only the target day counts)", daily.TotalMinutes)
	}
}

func TestDaily_TieKeepsFirstEncountered(t *testing.T) {
	sessions := []model.StudySession{
		session(7, base, 600),
		session(3, base.Add(time.Hour), 600),
	}

	daily := Daily(sessions, base)

	if daily.MostStudiedSubject == nil || *daily.MostStudiedSubject != 7 {
		t.Errorf("MostStudiedSubject = %v, want first-encountered subject 7 on a tie", daily.MostStudiedSubject)
	}
}

func TestDaily_ShortSessionRoundsUp(t *testing.T) {
	// 40 seconds rounds to 1 minute, not down to an all-zero display.
	daily := Daily([]model.StudySession{session(1, base, 40)}, base)

	if daily.TotalMinutes != 1 {
		t.Errorf("TotalMinutes = %d, want 1", daily.TotalMinutes)
	}
}

func TestWeekly_AlwaysSevenBuckets(t *testing.T) {
	for _, sessions := range [][]model.StudySession{
		nil,
		{session(1, base, 1800)},
		{session(1, base, 1800), session(2, base.AddDate(0, 0, -3), 900)},
	} {
		weekly := Weekly(sessions, base)
		if len(weekly.DailyTotals) != 7 {
			t.Errorf("DailyTotals has %d entries, want 7", len(weekly.DailyTotals))
		}
	}
}

func TestWeekly_TotalsAndAverage(t *testing.T) {
	sessions := []model.StudySession{
		session(1, base, 1800),                   // today: 30m
		session(1, base.AddDate(0, 0, -2), 600),  // 10m
		session(2, base.AddDate(0, 0, -6), 1200), // 20m, oldest bucket
		session(2, base.AddDate(0, 0, -7), 9000), // outside the window
	}

	weekly := Weekly(sessions, base)

	if weekly.TotalMinutes != 60 {
		t.Errorf("TotalMinutes = %d, want 60", weekly.TotalMinutes)
	}
	// round(60 / 7) = 9
	if weekly.AverageMinutes != 9 {
		t.Errorf("AverageMinutes = %d, want 9", weekly.AverageMinutes)
	}
	if weekly.MostProductiveDay == nil || *weekly.MostProductiveDay != base.Format("2006-01-02") {
		t.Errorf("MostProductiveDay = %v, want today", weekly.MostProductiveDay)
	}

	first := weekly.DailyTotals[0]
	if first.Date != base.AddDate(0, 0, -6).Format("2006-01-02") || first.Minutes != 20 {
		t.Errorf("oldest bucket = %+v, want 20 minutes six days ago", first)
	}
}

func TestWeekly_EmptyInput(t *testing.T) {
	weekly := Weekly(nil, base)

	if weekly.TotalMinutes != 0 || weekly.AverageMinutes != 0 {
		t.Errorf("empty input: total=%d avg=%d, want zeros", weekly.TotalMinutes, weekly.AverageMinutes)
	}
	if weekly.MostProductiveDay != nil {
		t.Errorf("empty input: MostProductiveDay = %v, want nil", *weekly.MostProductiveDay)
	}
}

func logOn(habitID int, day time.Time) model.HabitLog {
	return model.HabitLog{HabitID: habitID, Date: day}
}

func TestStreak(t *testing.T) {
	tests := []struct {
		name string
		logs []model.HabitLog
		want int
	}{
		{
			name: "no logs",
			logs: nil,
			want: 0,
		},
		{
			name: "most recent log two days old",
			logs: []model.HabitLog{logOn(1, base.AddDate(0, 0, -2)), logOn(1, base.AddDate(0, 0, -3))},
			want: 0,
		},
		{
			name: "today only",
			logs: []model.HabitLog{logOn(1, base)},
			want: 1,
		},
		{
			name: "three days ending today",
			logs: []model.HabitLog{logOn(1, base), logOn(1, base.AddDate(0, 0, -1)), logOn(1, base.AddDate(0, 0, -2))},
			want: 3,
		},
		{
			name: "alive via yesterday before today is logged",
			logs: []model.HabitLog{logOn(1, base.AddDate(0, 0, -1)), logOn(1, base.AddDate(0, 0, -2))},
			want: 2,
		},
		{
			name: "gap breaks the walk",
			logs: []model.HabitLog{logOn(1, base), logOn(1, base.AddDate(0, 0, -2))},
			want: 1,
		},
		{
			name: "other habit's logs do not count",
			logs: []model.HabitLog{logOn(2, base), logOn(2, base.AddDate(0, 0, -1))},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Streak(1, tt.logs, base); got != tt.want {
				t.Errorf("Streak = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRoundMinutes(t *testing.T) {
	tests := []struct {
		seconds int
		want    int
	}{
		{0, 0},
		{29, 0},
		{30, 1},
		{59, 1},
		{60, 1},
		{90, 2},
		{1800, 30},
	}
	for _, tt := range tests {
		if got := RoundMinutes(tt.seconds); got != tt.want {
			t.Errorf("RoundMinutes(%d) = %d, want %d", tt.seconds, got, tt.want)
		}
	}
}
