// Package scheduler runs the notification cycles: morning digests, match
// reminders, live-score goal detection and lineup alerts.
//
// Four ticker-driven cycles run independently; each cycle is serialized
// against itself by its own mutex, and a failure on one subscriber or match
// never aborts the rest of that cycle.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/fiffu/matchday/config"
	"github.com/fiffu/matchday/footballdata"
	"github.com/fiffu/matchday/models"
	"github.com/fiffu/matchday/prefs"
	"github.com/fiffu/matchday/senders"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	reminderInterval = 5 * time.Minute
	liveInterval     = 3 * time.Minute
	lineupInterval   = 30 * time.Minute

	// Morning digests only fire within this hour window.
	digestStartHour = 7
	digestEndHour   = 11

	// Reminder jobs are only scheduled once their fire time is within this
	// horizon; the planner reruns often enough to pick matches up later.
	reminderHorizon = 2 * time.Hour

	// How long detector entries outlive a match before eviction.
	sentRetention = 6 * time.Hour

	// A live-score entry is evicted after the match is absent from the LIVE
	// result set for this many consecutive polls. Must outlast a half-time
	// feed gap (~15 min at the 3-minute poll interval), or a resumed match
	// would be re-scored against 0-0.
	liveEvictAfterMisses = 6

	cycleTimeout = 90 * time.Second
)

// Gateway is the slice of the match-data API the cycles consume. All methods
// return empty results on failure.
type Gateway interface {
	TeamID() int
	UpcomingMatches(ctx context.Context, windowDays int) []footballdata.Match
	LiveMatches(ctx context.Context) []footballdata.Match
	TodayMatches(ctx context.Context) []footballdata.Match
	MatchDetails(ctx context.Context, matchID int) *footballdata.MatchDetails
}

// SubscriberStore is the read side of the preference store.
type SubscriberStore interface {
	ListAll(ctx context.Context) (models.Subscribers, error)
	ListByMorningHour(ctx context.Context, hour int) (models.Subscribers, error)
	ListByGoalEnabled(ctx context.Context) (models.Subscribers, error)
	ListByLineupEnabled(ctx context.Context) (models.Subscribers, error)
}

type liveScore struct {
	home, away int
	misses     int
}

type reminderKey struct {
	chatID  string
	matchID int
}

type reminderJob struct {
	timer   *time.Timer
	fireAt  time.Time
	kickoff time.Time
}

type Scheduler struct {
	log     *zap.Logger
	store   SubscriberStore
	gateway Gateway
	sender  senders.Sender
	loc     *time.Location

	digestMu   sync.Mutex
	reminderMu sync.Mutex
	liveMu     sync.Mutex
	lineupMu   sync.Mutex

	// Detector state. live and lineupSent are only touched under their
	// cycle's mutex; jobs is shared with one-shot timer goroutines.
	live       map[int]liveScore
	lineupSent map[int]time.Time
	jobsMu     sync.Mutex
	jobs       map[reminderKey]*reminderJob

	cancel context.CancelFunc
	now    func() time.Time
}

func NewScheduler(
	lc fx.Lifecycle,
	cfg *config.Config,
	log *zap.Logger,
	store *prefs.Store,
	gateway *footballdata.Client,
	registry senders.Registry,
) *Scheduler {
	s := newScheduler(log, store, gateway, registry["telegram"], cfg.Location())

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			s.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Sugar().Info("Trying to stop scheduler")
			s.Stop()
			return nil
		},
	})

	return s
}

func newScheduler(log *zap.Logger, store SubscriberStore, gateway Gateway, sender senders.Sender, loc *time.Location) *Scheduler {
	return &Scheduler{
		log:        log,
		store:      store,
		gateway:    gateway,
		sender:     sender,
		loc:        loc,
		live:       make(map[int]liveScore),
		lineupSent: make(map[int]time.Time),
		jobs:       make(map[reminderKey]*reminderJob),
		now:        time.Now,
	}
}

func (s *Scheduler) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	go s.digestLoop(ctx)
	go s.tickerLoop(ctx, reminderInterval, s.RunReminderPlanner)
	go s.tickerLoop(ctx, liveInterval, s.RunLiveScores)
	go s.tickerLoop(ctx, lineupInterval, s.RunLineups)

	s.log.Sugar().Infof(
		"Scheduler started. Digest: hourly %d-%d, reminders: every %v, live scores: every %v, lineups: every %v",
		digestStartHour, digestEndHour, reminderInterval, liveInterval, lineupInterval,
	)
}

func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}

	s.jobsMu.Lock()
	defer s.jobsMu.Unlock()
	for key, job := range s.jobs {
		job.timer.Stop()
		delete(s.jobs, key)
	}
	s.log.Sugar().Info("Scheduler stopped")
}

func (s *Scheduler) tickerLoop(ctx context.Context, every time.Duration, run func(context.Context)) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cycleCtx, cancel := context.WithTimeout(ctx, cycleTimeout)
			run(cycleCtx)
			cancel()
		}
	}
}

// digestLoop wakes at the top of every clock hour in the digest timezone.
func (s *Scheduler) digestLoop(ctx context.Context) {
	for {
		now := s.now().In(s.loc)
		next := nextHour(now)

		select {
		case <-ctx.Done():
			return
		case <-time.After(next.Sub(now)):
			cycleCtx, cancel := context.WithTimeout(ctx, cycleTimeout)
			s.RunDigest(cycleCtx)
			cancel()
		}
	}
}

// nextHour is the next top of the hour on now's wall clock. Truncate would
// align to UTC-epoch hours, which is wrong in zones with a fractional offset.
func nextHour(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), 0, 0, 0, now.Location()).Add(time.Hour)
}
