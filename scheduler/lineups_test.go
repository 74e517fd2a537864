package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/fiffu/matchday/footballdata"
	"github.com/fiffu/matchday/models"
	"github.com/stretchr/testify/assert"
)

func lineupFixture(id int, kickoff time.Time) (footballdata.Match, *footballdata.MatchDetails) {
	match := footballdata.Match{
		ID:       id,
		Status:   footballdata.StatusTimed,
		Kickoff:  kickoff,
		HomeTeam: footballdata.Team{ID: clubID, Name: "Swansea City"},
		AwayTeam: footballdata.Team{ID: 341, Name: "Leeds United"},
	}
	details := &footballdata.MatchDetails{
		Match: match,
		HomeLineup: []footballdata.Player{
			{Name: "Lawrence Vigouroux", Position: "Goalkeeper"},
			{Name: "Ben Cabango", Position: "Centre-Back"},
		},
		AwayLineup: []footballdata.Player{
			{Name: "Illan Meslier", Position: "Goalkeeper"},
		},
	}
	return match, details
}

func Test_RunLineups_sendsOnceInsideWindow(t *testing.T) {
	now := time.Date(2026, 8, 30, 14, 0, 0, 0, time.UTC)
	match, details := lineupFixture(20, now.Add(45*time.Minute))

	gw := &fakeGateway{
		teamID:  clubID,
		today:   []footballdata.Match{match},
		details: map[int]*footballdata.MatchDetails{20: details},
	}
	store := &fakeStore{subs: models.Subscribers{subscriber("100"), subscriber("200")}}
	sender := &fakeSender{}
	s := newTestScheduler(store, gw, sender, now)

	s.RunLineups(context.Background())
	s.RunLineups(context.Background())

	assert.Len(t, sender.sentTo("100"), 1)
	assert.Len(t, sender.sentTo("200"), 1)
	assert.Contains(t, sender.sent[0].html, "Lawrence Vigouroux")
	assert.Equal(t, 1, gw.detailCalls, "details are not refetched once sent")
}

func Test_RunLineups_retriesUnpublishedLineups(t *testing.T) {
	now := time.Date(2026, 8, 30, 14, 0, 0, 0, time.UTC)
	match, details := lineupFixture(20, now.Add(45*time.Minute))
	empty := &footballdata.MatchDetails{Match: match}

	gw := &fakeGateway{
		teamID:  clubID,
		today:   []footballdata.Match{match},
		details: map[int]*footballdata.MatchDetails{20: empty},
	}
	store := &fakeStore{subs: models.Subscribers{subscriber("100")}}
	sender := &fakeSender{}
	s := newTestScheduler(store, gw, sender, now)

	s.RunLineups(context.Background())
	assert.Equal(t, 0, sender.count())
	assert.NotContains(t, s.lineupSent, 20)

	gw.details[20] = details
	s.RunLineups(context.Background())
	assert.Equal(t, 1, sender.count())
	assert.Contains(t, s.lineupSent, 20)
}

func Test_RunLineups_windowBounds(t *testing.T) {
	now := time.Date(2026, 8, 30, 14, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		kickoff  time.Time
		status   string
		wantSend bool
	}{
		{"just inside window", now.Add(60 * time.Minute), footballdata.StatusTimed, true},
		{"at kickoff", now, footballdata.StatusTimed, true},
		{"too early", now.Add(61 * time.Minute), footballdata.StatusTimed, false},
		{"already started", now.Add(-1 * time.Minute), footballdata.StatusInPlay, false},
		{"finished", now.Add(-2 * time.Hour), footballdata.StatusFinished, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			match, details := lineupFixture(20, tc.kickoff)
			match.Status = tc.status

			gw := &fakeGateway{
				teamID:  clubID,
				today:   []footballdata.Match{match},
				details: map[int]*footballdata.MatchDetails{20: details},
			}
			store := &fakeStore{subs: models.Subscribers{subscriber("100")}}
			sender := &fakeSender{}
			s := newTestScheduler(store, gw, sender, now)

			s.RunLineups(context.Background())

			if tc.wantSend {
				assert.Equal(t, 1, sender.count())
			} else {
				assert.Equal(t, 0, sender.count())
			}
		})
	}
}

func Test_RunLineups_disabledSubscriberExcluded(t *testing.T) {
	now := time.Date(2026, 8, 30, 14, 0, 0, 0, time.UTC)
	match, details := lineupFixture(20, now.Add(30*time.Minute))

	gw := &fakeGateway{
		teamID:  clubID,
		today:   []footballdata.Match{match},
		details: map[int]*footballdata.MatchDetails{20: details},
	}
	store := &fakeStore{subs: models.Subscribers{
		subscriber("100", func(sub *models.Subscriber) { sub.LineupEnabled = false }),
	}}
	sender := &fakeSender{}
	s := newTestScheduler(store, gw, sender, now)

	s.RunLineups(context.Background())

	assert.Equal(t, 0, sender.count())
	assert.Equal(t, 0, gw.detailCalls, "no subscribers means no details fetch")
}

func Test_RunLineups_evictsLongFinishedEntries(t *testing.T) {
	now := time.Date(2026, 8, 30, 14, 0, 0, 0, time.UTC)

	gw := &fakeGateway{teamID: clubID}
	store := &fakeStore{subs: models.Subscribers{subscriber("100")}}
	sender := &fakeSender{}
	s := newTestScheduler(store, gw, sender, now)

	s.lineupSent[20] = now.Add(-7 * time.Hour)
	s.lineupSent[21] = now.Add(-1 * time.Hour)

	s.RunLineups(context.Background())

	assert.NotContains(t, s.lineupSent, 20)
	assert.Contains(t, s.lineupSent, 21)
}
