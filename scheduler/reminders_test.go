package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/fiffu/matchday/footballdata"
	"github.com/fiffu/matchday/models"
	"github.com/stretchr/testify/assert"
)

func upcomingMatch(id int, kickoff time.Time) footballdata.Match {
	return footballdata.Match{
		ID:       id,
		Status:   footballdata.StatusTimed,
		Kickoff:  kickoff,
		HomeTeam: footballdata.Team{ID: clubID, Name: "Swansea City"},
		AwayTeam: footballdata.Team{ID: 341, Name: "Leeds United"},
	}
}

func Test_RunReminderPlanner_horizon(t *testing.T) {
	now := time.Date(2026, 8, 30, 14, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		kickoff     time.Time
		leadMinutes int
		wantJobs    int
	}{
		{"fire time inside horizon", now.Add(90 * time.Minute), 30, 1},
		{"fire time beyond horizon", now.Add(4 * time.Hour), 30, 0},
		{"fire time already past", now.Add(10 * time.Minute), 30, 0},
		{"long lead pulls a distant match in", now.Add(3 * time.Hour), 60, 0},
		{"long lead inside horizon", now.Add(150 * time.Minute), 60, 1},
		{"reminders disabled", now.Add(90 * time.Minute), 0, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gw := &fakeGateway{
				teamID:   clubID,
				upcoming: []footballdata.Match{upcomingMatch(30, tc.kickoff)},
			}
			store := &fakeStore{subs: models.Subscribers{
				subscriber("100", func(sub *models.Subscriber) { sub.ReminderLeadMinutes = tc.leadMinutes }),
			}}
			sender := &fakeSender{}
			s := newTestScheduler(store, gw, sender, now)
			defer s.Stop()

			s.RunReminderPlanner(context.Background())

			assert.Equal(t, tc.wantJobs, s.pendingJobs())
		})
	}
}

func Test_RunReminderPlanner_schedulesOncePerSubscriberAndMatch(t *testing.T) {
	now := time.Date(2026, 8, 30, 14, 0, 0, 0, time.UTC)
	gw := &fakeGateway{
		teamID:   clubID,
		upcoming: []footballdata.Match{upcomingMatch(30, now.Add(90*time.Minute))},
	}
	store := &fakeStore{subs: models.Subscribers{subscriber("100"), subscriber("200")}}
	sender := &fakeSender{}
	s := newTestScheduler(store, gw, sender, now)
	defer s.Stop()

	s.RunReminderPlanner(context.Background())
	s.RunReminderPlanner(context.Background())
	s.RunReminderPlanner(context.Background())

	assert.Equal(t, 2, s.pendingJobs())
	assert.Equal(t, 0, sender.count())
}

func Test_RunReminderPlanner_leadChangeDoesNotReschedule(t *testing.T) {
	now := time.Date(2026, 8, 30, 14, 0, 0, 0, time.UTC)
	gw := &fakeGateway{
		teamID:   clubID,
		upcoming: []footballdata.Match{upcomingMatch(30, now.Add(90*time.Minute))},
	}
	store := &fakeStore{subs: models.Subscribers{subscriber("100")}}
	sender := &fakeSender{}
	s := newTestScheduler(store, gw, sender, now)
	defer s.Stop()

	s.RunReminderPlanner(context.Background())
	wantFireAt := now.Add(60 * time.Minute)
	key := reminderKey{chatID: "100", matchID: 30}
	assert.Equal(t, wantFireAt, s.jobs[key].fireAt)

	store.subs[0].ReminderLeadMinutes = 10
	s.RunReminderPlanner(context.Background())

	assert.Equal(t, 1, s.pendingJobs())
	assert.Equal(t, wantFireAt, s.jobs[key].fireAt, "existing job keeps the original lead")
}

func Test_fireReminder_sendsAndForgets(t *testing.T) {
	now := time.Date(2026, 8, 30, 14, 0, 0, 0, time.UTC)
	match := upcomingMatch(30, now.Add(30*time.Minute))

	gw := &fakeGateway{teamID: clubID}
	store := &fakeStore{subs: models.Subscribers{subscriber("100")}}
	sender := &fakeSender{}
	s := newTestScheduler(store, gw, sender, now)

	key := reminderKey{chatID: "100", matchID: 30}
	s.jobs[key] = &reminderJob{timer: time.NewTimer(time.Hour), fireAt: now, kickoff: match.Kickoff}

	s.fireReminder(key, match, 30)

	assert.Equal(t, 0, s.pendingJobs())
	sent := sender.sentTo("100")
	assert.Len(t, sent, 1)
	assert.Contains(t, sent[0].html, "starts in 30 minutes")
	assert.Contains(t, sent[0].html, "Swansea City vs Leeds United")
}

func Test_pruneStaleJobs(t *testing.T) {
	now := time.Date(2026, 8, 30, 14, 0, 0, 0, time.UTC)

	gw := &fakeGateway{teamID: clubID}
	store := &fakeStore{subs: models.Subscribers{}}
	sender := &fakeSender{}
	s := newTestScheduler(store, gw, sender, now)

	stale := reminderKey{chatID: "100", matchID: 30}
	fresh := reminderKey{chatID: "100", matchID: 31}
	s.jobs[stale] = &reminderJob{timer: time.NewTimer(time.Hour), kickoff: now.Add(-7 * time.Hour)}
	s.jobs[fresh] = &reminderJob{timer: time.NewTimer(time.Hour), kickoff: now.Add(-1 * time.Hour)}

	s.RunReminderPlanner(context.Background())

	s.jobsMu.Lock()
	defer s.jobsMu.Unlock()
	assert.NotContains(t, s.jobs, stale)
	assert.Contains(t, s.jobs, fresh)
}
