package scheduler

import (
	"context"
	"time"

	"github.com/fiffu/matchday/footballdata"
	"github.com/fiffu/matchday/models"
)

// Lineups are only chased inside this many minutes before kickoff.
const lineupWindowMinutes = 60

// RunLineups sends starting lineups for today's matches shortly before
// kickoff, at most once per match. Unpublished lineups are retried on the
// next cycle while the match stays inside the window.
func (s *Scheduler) RunLineups(ctx context.Context) {
	s.lineupMu.Lock()
	defer s.lineupMu.Unlock()

	now := s.now()
	s.evictSentLineups(now)

	subs, err := s.store.ListByLineupEnabled(ctx)
	if err != nil {
		s.log.Sugar().Errorw("lineups: failed to list subscribers", "err", err)
		return
	}
	if len(subs) == 0 {
		return
	}

	for _, match := range s.gateway.TodayMatches(ctx) {
		s.processLineup(ctx, now, match, subs)
	}
}

func (s *Scheduler) processLineup(ctx context.Context, now time.Time, match footballdata.Match, subs models.Subscribers) {
	if match.ID == 0 {
		return
	}
	if match.Status != footballdata.StatusScheduled && match.Status != footballdata.StatusTimed {
		return
	}
	if _, sent := s.lineupSent[match.ID]; sent {
		return
	}

	minutesToKickoff := match.Kickoff.Sub(now).Minutes()
	if minutesToKickoff < 0 || minutesToKickoff > lineupWindowMinutes {
		return
	}

	details := s.gateway.MatchDetails(ctx, match.ID)
	if details == nil {
		return
	}
	if len(details.HomeLineup) == 0 && len(details.AwayLineup) == 0 {
		// Not yet published; leave unmarked so the next cycle retries.
		return
	}

	message := lineupMessage(details)
	for _, sub := range subs {
		if err := s.sender.Send(ctx, sub.ChatID, message); err != nil {
			s.log.Sugar().Warnw("lineup: send failed", "chat_id", sub.ChatID, "err", err)
		}
	}

	s.lineupSent[match.ID] = match.Kickoff
	s.log.Sugar().Infow("Lineup notification sent", "match_id", match.ID, "subscribers", len(subs))
}

func (s *Scheduler) evictSentLineups(now time.Time) {
	for id, kickoff := range s.lineupSent {
		if now.Sub(kickoff) > sentRetention {
			delete(s.lineupSent, id)
		}
	}
}
