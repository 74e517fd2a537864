package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/fiffu/matchday/footballdata"
	"github.com/fiffu/matchday/models"
	"go.uber.org/zap"
)

type fakeGateway struct {
	teamID      int
	upcoming    []footballdata.Match
	live        []footballdata.Match
	today       []footballdata.Match
	details     map[int]*footballdata.MatchDetails
	detailCalls int
}

func (g *fakeGateway) TeamID() int { return g.teamID }

func (g *fakeGateway) UpcomingMatches(ctx context.Context, windowDays int) []footballdata.Match {
	return g.upcoming
}

func (g *fakeGateway) LiveMatches(ctx context.Context) []footballdata.Match {
	return g.live
}

func (g *fakeGateway) TodayMatches(ctx context.Context) []footballdata.Match {
	return g.today
}

func (g *fakeGateway) MatchDetails(ctx context.Context, matchID int) *footballdata.MatchDetails {
	g.detailCalls++
	return g.details[matchID]
}

type fakeStore struct {
	subs models.Subscribers
}

func (s *fakeStore) ListAll(ctx context.Context) (models.Subscribers, error) {
	return s.subs, nil
}

func (s *fakeStore) ListByMorningHour(ctx context.Context, hour int) (models.Subscribers, error) {
	var out models.Subscribers
	for _, sub := range s.subs {
		if sub.MorningEnabled && sub.MorningHour == hour {
			out = append(out, sub)
		}
	}
	return out, nil
}

func (s *fakeStore) ListByGoalEnabled(ctx context.Context) (models.Subscribers, error) {
	var out models.Subscribers
	for _, sub := range s.subs {
		if sub.GoalEnabled {
			out = append(out, sub)
		}
	}
	return out, nil
}

func (s *fakeStore) ListByLineupEnabled(ctx context.Context) (models.Subscribers, error) {
	var out models.Subscribers
	for _, sub := range s.subs {
		if sub.LineupEnabled {
			out = append(out, sub)
		}
	}
	return out, nil
}

type sentMessage struct {
	chatID string
	html   string
}

type fakeSender struct {
	mu      sync.Mutex
	sent    []sentMessage
	failFor map[string]bool
}

func (f *fakeSender) Send(ctx context.Context, chatID, html string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFor[chatID] {
		return context.DeadlineExceeded
	}
	f.sent = append(f.sent, sentMessage{chatID, html})
	return nil
}

func (f *fakeSender) sentTo(chatID string) []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []sentMessage
	for _, m := range f.sent {
		if m.chatID == chatID {
			out = append(out, m)
		}
	}
	return out
}

func (f *fakeSender) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func newTestScheduler(store SubscriberStore, gw Gateway, sender *fakeSender, now time.Time) *Scheduler {
	s := newScheduler(zap.NewNop(), store, gw, sender, time.UTC)
	s.now = func() time.Time { return now }
	return s
}

func subscriber(chatID string, mutate ...func(*models.Subscriber)) models.Subscriber {
	sub := models.Subscriber{
		ChatID:              chatID,
		MorningEnabled:      true,
		MorningHour:         9,
		ReminderLeadMinutes: 30,
		GoalEnabled:         true,
		LineupEnabled:       true,
	}
	for _, fn := range mutate {
		fn(&sub)
	}
	return sub
}
