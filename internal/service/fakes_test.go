package service

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"studyflow/internal/apperr"
	"studyflow/internal/model"
)

// testNow is the frozen clock the service tests run against.
var testNow = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

type fakeBoardStore struct {
	mu         sync.Mutex
	boards     map[int]model.Leaderboard
	members    map[int]model.LeaderboardMember
	nextBoard  int
	nextMember int
}

func newFakeBoardStore() *fakeBoardStore {
	return &fakeBoardStore{
		boards:  make(map[int]model.Leaderboard),
		members: make(map[int]model.LeaderboardMember),
	}
}

func (f *fakeBoardStore) Insert(_ context.Context, lb *model.Leaderboard) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextBoard++
	lb.ID = f.nextBoard
	lb.CreatedAt = testNow
	f.boards[lb.ID] = *lb
	return nil
}

func (f *fakeBoardStore) FindByID(_ context.Context, id int) (*model.Leaderboard, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	lb, ok := f.boards[id]
	if !ok {
		return nil, apperr.NotFound("leaderboard")
	}
	return &lb, nil
}

func (f *fakeBoardStore) ListByUser(_ context.Context, userID int) ([]model.Leaderboard, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Leaderboard
	for _, m := range f.members {
		if m.UserID == userID {
			out = append(out, f.boards[m.LeaderboardID])
		}
	}
	return out, nil
}

func (f *fakeBoardStore) Delete(_ context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.boards[id]; !ok {
		return apperr.NotFound("leaderboard")
	}
	delete(f.boards, id)
	for mid, m := range f.members {
		if m.LeaderboardID == id {
			delete(f.members, mid)
		}
	}
	return nil
}

func (f *fakeBoardStore) InsertMember(_ context.Context, m *model.LeaderboardMember) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.members {
		if existing.LeaderboardID == m.LeaderboardID && existing.UserID == m.UserID {
			return apperr.Validation("duplicate membership")
		}
	}
	f.nextMember++
	m.ID = f.nextMember
	if m.JoinedAt.IsZero() {
		m.JoinedAt = testNow
	}
	f.members[m.ID] = *m
	return nil
}

func (f *fakeBoardStore) ListMembers(_ context.Context, leaderboardID int) ([]model.LeaderboardMember, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.LeaderboardMember
	for _, m := range f.members {
		if m.LeaderboardID == leaderboardID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].JoinedAt.Equal(out[j].JoinedAt) {
			return out[i].JoinedAt.Before(out[j].JoinedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (f *fakeBoardStore) FindMemberByID(_ context.Context, id int) (*model.LeaderboardMember, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.members[id]
	if !ok {
		return nil, apperr.NotFound("member")
	}
	return &m, nil
}

func (f *fakeBoardStore) IsMember(_ context.Context, leaderboardID, userID int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.members {
		if m.LeaderboardID == leaderboardID && m.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeBoardStore) DeleteMember(_ context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.members[id]; !ok {
		return apperr.NotFound("member")
	}
	delete(f.members, id)
	return nil
}

func (f *fakeBoardStore) DeleteMemberByUser(_ context.Context, leaderboardID, userID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, m := range f.members {
		if m.LeaderboardID == leaderboardID && m.UserID == userID {
			delete(f.members, id)
			return nil
		}
	}
	return apperr.NotFound("member")
}

func (f *fakeBoardStore) memberCount(leaderboardID int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, m := range f.members {
		if m.LeaderboardID == leaderboardID {
			n++
		}
	}
	return n
}

type fakeInviteStore struct {
	mu          sync.Mutex
	invitations map[int]model.LeaderboardInvitation
	next        int
	statusErr   error
}

func newFakeInviteStore() *fakeInviteStore {
	return &fakeInviteStore{invitations: make(map[int]model.LeaderboardInvitation)}
}

func (f *fakeInviteStore) Insert(_ context.Context, inv *model.LeaderboardInvitation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	inv.ID = f.next
	inv.CreatedAt = testNow
	f.invitations[inv.ID] = *inv
	return nil
}

func (f *fakeInviteStore) FindByToken(_ context.Context, token string) (*model.LeaderboardInvitation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, inv := range f.invitations {
		if inv.Token == token {
			return &inv, nil
		}
	}
	return nil, apperr.NotFound("invitation")
}

func (f *fakeInviteStore) FindPendingByToken(_ context.Context, token string) (*model.LeaderboardInvitation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, inv := range f.invitations {
		if inv.Token == token && inv.Status == model.InvitationPending {
			return &inv, nil
		}
	}
	return nil, apperr.NotFound("invitation")
}

func (f *fakeInviteStore) ListByLeaderboard(_ context.Context, leaderboardID int) ([]model.LeaderboardInvitation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.LeaderboardInvitation
	for _, inv := range f.invitations {
		if inv.LeaderboardID == leaderboardID {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (f *fakeInviteStore) UpdateStatus(_ context.Context, id int, status model.InvitationStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.statusErr != nil {
		return f.statusErr
	}
	inv, ok := f.invitations[id]
	if !ok {
		return apperr.NotFound("invitation")
	}
	inv.Status = status
	f.invitations[id] = inv
	return nil
}

func (f *fakeInviteStore) status(id int) model.InvitationStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.invitations[id].Status
}

// fakeActivity backs the three read-only sources standings scoring pulls
// from: sessions, habit counts and profiles, all keyed by user.
type fakeActivity struct {
	mu       sync.Mutex
	sessions map[int][]model.StudySession
	habits   map[int]int
	logs     map[int]int
	profiles map[int]*model.Profile
}

func newFakeActivity() *fakeActivity {
	return &fakeActivity{
		sessions: make(map[int][]model.StudySession),
		habits:   make(map[int]int),
		logs:     make(map[int]int),
		profiles: make(map[int]*model.Profile),
	}
}

func (f *fakeActivity) ListByUserSince(_ context.Context, userID int, since time.Time) ([]model.StudySession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.StudySession
	for _, s := range f.sessions[userID] {
		if !s.StartTime.Before(since) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeActivity) CountByUser(_ context.Context, userID int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.habits[userID], nil
}

func (f *fakeActivity) CountLogsByUserSince(_ context.Context, userID int, _ time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.logs[userID], nil
}

func (f *fakeActivity) FindProfile(_ context.Context, userID int) (*model.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.profiles[userID], nil
}

func (f *fakeActivity) addSession(userID, durationSec int, start time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions[userID] = append(f.sessions[userID], model.StudySession{
		UserID:    userID,
		SubjectID: 1,
		StartTime: start,
		EndTime:   start.Add(time.Duration(durationSec) * time.Second),
		Duration:  durationSec,
	})
}

type fakeCache struct {
	mu            sync.Mutex
	data          map[string][]byte
	sets          int
	hits          int
	invalidations []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string][]byte)}
}

func (f *fakeCache) GetJSON(_ context.Context, key string, dest any) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	raw, ok := f.data[key]
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false
	}
	f.hits++
	return true
}

func (f *fakeCache) SetJSON(_ context.Context, key string, v any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	f.data[key] = raw
	f.sets++
}

func (f *fakeCache) Invalidate(_ context.Context, keys ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, key := range keys {
		delete(f.data, key)
		f.invalidations = append(f.invalidations, key)
	}
}

type publishedEvent struct {
	routingKey string
	payload    any
}

type fakePublisher struct {
	mu        sync.Mutex
	published []publishedEvent
	err       error
}

func (f *fakePublisher) Publish(routingKey string, payload any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, publishedEvent{routingKey: routingKey, payload: payload})
	return nil
}

type fakeHabitStore struct {
	mu        sync.Mutex
	habits    map[int]model.Habit
	logs      map[int]model.HabitLog
	nextHabit int
	nextLog   int
}

func newFakeHabitStore() *fakeHabitStore {
	return &fakeHabitStore{
		habits: make(map[int]model.Habit),
		logs:   make(map[int]model.HabitLog),
	}
}

func (f *fakeHabitStore) Insert(_ context.Context, h *model.Habit) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextHabit++
	h.ID = f.nextHabit
	h.CreatedAt = testNow
	f.habits[h.ID] = *h
	return nil
}

func (f *fakeHabitStore) ListByUser(_ context.Context, userID int) ([]model.Habit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Habit
	for _, h := range f.habits {
		if h.UserID == userID {
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeHabitStore) Delete(_ context.Context, id, userID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	h, ok := f.habits[id]
	if !ok || h.UserID != userID {
		return apperr.NotFound("habit")
	}
	delete(f.habits, id)
	return nil
}

func (f *fakeHabitStore) FindByID(_ context.Context, id, userID int) (*model.Habit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	h, ok := f.habits[id]
	if !ok || h.UserID != userID {
		return nil, apperr.NotFound("habit")
	}
	return &h, nil
}

func (f *fakeHabitStore) FindLog(_ context.Context, habitID int, date time.Time) (*model.HabitLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := date.Format("2006-01-02")
	for _, l := range f.logs {
		if l.HabitID == habitID && l.DateKey() == key {
			return &l, nil
		}
	}
	return nil, nil
}

func (f *fakeHabitStore) InsertLog(_ context.Context, l *model.HabitLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.logs {
		if existing.HabitID == l.HabitID && existing.DateKey() == l.DateKey() {
			return apperr.Validation("duplicate habit log")
		}
	}
	f.nextLog++
	l.ID = f.nextLog
	f.logs[l.ID] = *l
	return nil
}

func (f *fakeHabitStore) DeleteLog(_ context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.logs[id]; !ok {
		return apperr.NotFound("habit log")
	}
	delete(f.logs, id)
	return nil
}

func (f *fakeHabitStore) ListLogsByUser(_ context.Context, userID int) ([]model.HabitLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.HabitLog
	for _, l := range f.logs {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeHabitStore) logCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.logs)
}

// boardFixture wires a LeaderboardService over fresh fakes with a frozen
// clock and returns the pieces tests poke at.
type boardFixture struct {
	svc      *LeaderboardService
	boards   *fakeBoardStore
	invites  *fakeInviteStore
	activity *fakeActivity
	cache    *fakeCache
	events   *fakePublisher
}

func newBoardFixture() *boardFixture {
	boards := newFakeBoardStore()
	invites := newFakeInviteStore()
	activity := newFakeActivity()
	standings := newFakeCache()
	events := &fakePublisher{}

	svc := NewLeaderboardService(
		boards, invites, activity, activity, activity,
		standings, events,
		"http://localhost:5173",
		zap.NewNop(),
	)
	svc.now = fixedNow

	return &boardFixture{
		svc:      svc,
		boards:   boards,
		invites:  invites,
		activity: activity,
		cache:    standings,
		events:   events,
	}
}
