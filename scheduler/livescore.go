package scheduler

import (
	"context"

	"github.com/fiffu/matchday/footballdata"
	"github.com/fiffu/matchday/models"
)

// RunLiveScores polls matches in play and notifies goal-enabled subscribers
// when a side's score increased since the previous poll.
func (s *Scheduler) RunLiveScores(ctx context.Context) {
	s.liveMu.Lock()
	defer s.liveMu.Unlock()

	subs, err := s.store.ListByGoalEnabled(ctx)
	if err != nil {
		s.log.Sugar().Errorw("live: failed to list subscribers", "err", err)
		return
	}
	if len(subs) == 0 {
		return
	}

	matches := s.gateway.LiveMatches(ctx)

	seen := make(map[int]bool, len(matches))
	for _, match := range matches {
		if match.ID == 0 {
			continue
		}
		seen[match.ID] = true
		s.processLiveMatch(ctx, match, subs)
	}

	s.evictFinishedLive(seen)
}

func (s *Scheduler) processLiveMatch(ctx context.Context, match footballdata.Match, subs models.Subscribers) {
	prev := s.live[match.ID]

	// If both sides appear to increase in one poll, credit the home side;
	// scores move one goal at a time in practice.
	var scorer footballdata.Team
	scored := false
	switch {
	case match.HomeScore > prev.home:
		scorer, scored = match.HomeTeam, true
	case match.AwayScore > prev.away:
		scorer, scored = match.AwayTeam, true
	}

	if scored {
		ownTeam := scorer.ID == s.gateway.TeamID()
		message := goalMessage(match, scorer, ownTeam)

		for _, sub := range subs {
			if err := s.sender.Send(ctx, sub.ChatID, message); err != nil {
				s.log.Sugar().Warnw("goal: send failed", "chat_id", sub.ChatID, "err", err)
			}
		}
		s.log.Sugar().Infow("Goal notification sent",
			"match_id", match.ID, "scorer", scorer.Name, "own_team", ownTeam,
			"score", []int{match.HomeScore, match.AwayScore}, "subscribers", len(subs))
	}

	// Overwrite regardless of detection, so a missed poll skipping two goals
	// still leaves the stored score correct.
	s.live[match.ID] = liveScore{home: match.HomeScore, away: match.AwayScore}
}

// evictFinishedLive drops entries for matches that have left the LIVE result
// set for more than one consecutive poll.
func (s *Scheduler) evictFinishedLive(seen map[int]bool) {
	for id, state := range s.live {
		if seen[id] {
			continue
		}
		state.misses++
		if state.misses >= liveEvictAfterMisses {
			delete(s.live, id)
		} else {
			s.live[id] = state
		}
	}
}
