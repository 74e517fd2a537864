package scheduler

import (
	"context"
	"time"

	"github.com/fiffu/matchday/footballdata"
	"github.com/fiffu/matchday/models"
)

// RunReminderPlanner schedules one-shot kickoff reminders for every
// subscriber with a reminder lead configured. A (subscriber, match) pair is
// scheduled at most once; changing the lead afterwards does not reschedule
// an existing job.
func (s *Scheduler) RunReminderPlanner(ctx context.Context) {
	s.reminderMu.Lock()
	defer s.reminderMu.Unlock()

	now := s.now()
	s.pruneStaleJobs(now)

	subs, err := s.store.ListAll(ctx)
	if err != nil {
		s.log.Sugar().Errorw("reminders: failed to list subscribers", "err", err)
		return
	}

	eligible := subs[:0]
	for _, sub := range subs {
		if sub.ReminderLeadMinutes > 0 {
			eligible = append(eligible, sub)
		}
	}
	if len(eligible) == 0 {
		return
	}

	// One fetch serves every subscriber this cycle.
	matches := s.gateway.UpcomingMatches(ctx, 1)
	if len(matches) == 0 {
		return
	}

	for _, sub := range eligible {
		s.planForSubscriber(now, sub, matches)
	}
}

func (s *Scheduler) planForSubscriber(now time.Time, sub models.Subscriber, matches []footballdata.Match) {
	lead := time.Duration(sub.ReminderLeadMinutes) * time.Minute

	for _, match := range matches {
		if match.ID == 0 {
			continue
		}
		key := reminderKey{chatID: sub.ChatID, matchID: match.ID}
		fireAt := match.Kickoff.Add(-lead)

		if !now.Before(fireAt) || !fireAt.Before(now.Add(reminderHorizon)) {
			continue
		}

		s.jobsMu.Lock()
		if _, exists := s.jobs[key]; exists {
			s.jobsMu.Unlock()
			continue
		}

		match := match
		minutes := sub.ReminderLeadMinutes
		timer := time.AfterFunc(fireAt.Sub(now), func() {
			s.fireReminder(key, match, minutes)
		})
		s.jobs[key] = &reminderJob{timer: timer, fireAt: fireAt, kickoff: match.Kickoff}
		s.jobsMu.Unlock()

		s.log.Sugar().Infow("Scheduled reminder",
			"chat_id", sub.ChatID, "match_id", match.ID, "fire_at", fireAt.UTC().Format(time.RFC3339))
	}
}

// fireReminder runs on the one-shot timer goroutine. The job is discarded
// whether or not delivery succeeds; the next poll is the retry.
func (s *Scheduler) fireReminder(key reminderKey, match footballdata.Match, leadMinutes int) {
	s.jobsMu.Lock()
	delete(s.jobs, key)
	s.jobsMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), cycleTimeout)
	defer cancel()

	message := reminderMessage(leadMinutes, match, s.loc)
	if err := s.sender.Send(ctx, key.chatID, message); err != nil {
		s.log.Sugar().Warnw("reminder: send failed", "chat_id", key.chatID, "match_id", key.matchID, "err", err)
		return
	}
	s.log.Sugar().Infow("Match reminder sent", "chat_id", key.chatID, "match_id", key.matchID)
}

// pruneStaleJobs drops dedup entries for matches whose kickoff is long past.
// Fired jobs remove themselves; this catches jobs that never fired (for
// example after a clock jump) so the map stays bounded.
func (s *Scheduler) pruneStaleJobs(now time.Time) {
	s.jobsMu.Lock()
	defer s.jobsMu.Unlock()

	for key, job := range s.jobs {
		if now.Sub(job.kickoff) > sentRetention {
			job.timer.Stop()
			delete(s.jobs, key)
		}
	}
}

func (s *Scheduler) pendingJobs() int {
	s.jobsMu.Lock()
	defer s.jobsMu.Unlock()
	return len(s.jobs)
}
