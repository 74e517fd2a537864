package scheduler

import (
	"context"
	"time"

	"github.com/fiffu/matchday/footballdata"
)

// Matches kicking off tomorrow before this local hour still belong to
// "tonight's" digest: a late-night kickoff is part of the subscriber's
// waking day.
const earlyTomorrowCutoffHour = 9

// RunDigest sends the morning digest to every subscriber whose preferred
// hour is the current hour. Outside the active window it does nothing.
func (s *Scheduler) RunDigest(ctx context.Context) {
	s.digestMu.Lock()
	defer s.digestMu.Unlock()

	now := s.now().In(s.loc)
	hour := now.Hour()
	if hour < digestStartHour || hour > digestEndHour {
		return
	}

	subs, err := s.store.ListByMorningHour(ctx, hour)
	if err != nil {
		s.log.Sugar().Errorw("digest: failed to list subscribers", "err", err)
		return
	}
	if len(subs) == 0 {
		return
	}
	s.log.Sugar().Infof("Found %d subscribers for morning digest at %02d:00", len(subs), hour)

	matches := s.digestMatches(ctx, now)
	if len(matches) == 0 {
		// No fixtures today means no digest, not an error.
		return
	}

	message := digestMessage(now, matches, s.loc)
	sent := 0
	for _, sub := range subs {
		if err := s.sender.Send(ctx, sub.ChatID, message); err != nil {
			s.log.Sugar().Warnw("digest: send failed", "chat_id", sub.ChatID, "err", err)
			continue
		}
		sent++
	}
	s.log.Sugar().Infow("Morning digest completed", "matches", len(matches), "sent", sent)
}

// digestMatches selects fixtures kicking off on today's local date, plus
// tomorrow's before the early-morning cutoff.
func (s *Scheduler) digestMatches(ctx context.Context, now time.Time) []footballdata.Match {
	today := now.Format(time.DateOnly)
	tomorrow := now.AddDate(0, 0, 1).Format(time.DateOnly)

	var selected []footballdata.Match
	for _, m := range s.gateway.UpcomingMatches(ctx, 2) {
		kickoff := m.Kickoff.In(s.loc)
		switch kickoff.Format(time.DateOnly) {
		case today:
			selected = append(selected, m)
		case tomorrow:
			if kickoff.Hour() < earlyTomorrowCutoffHour {
				selected = append(selected, m)
			}
		}
	}
	return selected
}
