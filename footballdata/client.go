package footballdata

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/carlmjohnson/requests"
	"github.com/fiffu/matchday/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	baseURL        = "https://api.football-data.org/v4"
	requestTimeout = 10 * time.Second

	// Free tier allows 10 requests per minute.
	requestInterval = 6 * time.Second

	// League-table rank that grants a promotion playoff slot.
	playoffPosition = 6
)

type Client struct {
	log       *zap.Logger
	transport http.RoundTripper
	limiter   *rate.Limiter

	base          string
	apiKey        string
	teamID        int
	competitionID int
}

func NewClient(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger, transport http.RoundTripper) *Client {
	return &Client{
		log:           log,
		transport:     transport,
		limiter:       rate.NewLimiter(rate.Every(requestInterval), 1),
		base:          baseURL,
		apiKey:        cfg.FootballAPIKey,
		teamID:        cfg.TeamID,
		competitionID: cfg.CompetitionID,
	}
}

// TeamID is the configured club identifier.
func (c *Client) TeamID() int {
	return c.teamID
}

// UpcomingMatches returns the club's matches from today through windowDays
// ahead, kickoff ascending.
func (c *Client) UpcomingMatches(ctx context.Context, windowDays int) []Match {
	now := time.Now().UTC()
	matches := c.teamMatches(ctx, map[string]string{
		"dateFrom": now.Format(time.DateOnly),
		"dateTo":   now.AddDate(0, 0, windowDays).Format(time.DateOnly),
	})
	sortByKickoff(matches, false)
	return matches
}

// RecentResults returns the most recent finished matches, kickoff descending,
// at most limit entries.
func (c *Client) RecentResults(ctx context.Context, limit int) []Match {
	now := time.Now().UTC()
	matches := c.teamMatches(ctx, map[string]string{
		"dateFrom": now.AddDate(0, 0, -60).Format(time.DateOnly),
		"dateTo":   now.Format(time.DateOnly),
		"status":   StatusFinished,
	})
	sortByKickoff(matches, true)
	return truncate(matches, limit)
}

// FutureMatches returns upcoming scheduled matches, kickoff ascending, at
// most limit entries.
func (c *Client) FutureMatches(ctx context.Context, limit int) []Match {
	now := time.Now().UTC()
	matches := c.teamMatches(ctx, map[string]string{
		"dateFrom": now.Format(time.DateOnly),
		"dateTo":   now.AddDate(0, 0, 60).Format(time.DateOnly),
		"status":   StatusScheduled + "," + StatusTimed,
	})
	sortByKickoff(matches, false)
	return truncate(matches, limit)
}

// LiveMatches returns the club's matches currently in play. PAUSED is part
// of the query: a match at half-time is still live and must stay in the
// result set.
func (c *Client) LiveMatches(ctx context.Context) []Match {
	matches := c.teamMatches(ctx, map[string]string{
		"status": StatusInPlay + "," + StatusPaused,
	})

	live := matches[:0]
	for _, m := range matches {
		if m.Live() {
			live = append(live, m)
		}
	}
	return live
}

// TodayMatches returns the club's matches on today's UTC date.
func (c *Client) TodayMatches(ctx context.Context) []Match {
	today := time.Now().UTC().Format(time.DateOnly)
	return c.teamMatches(ctx, map[string]string{
		"dateFrom": today,
		"dateTo":   today,
	})
}

// MatchDetails returns one match with lineups, or nil on failure.
func (c *Client) MatchDetails(ctx context.Context, matchID int) *MatchDetails {
	var w wireMatch
	if err := c.get(ctx, fmt.Sprintf("/matches/%d", matchID), nil, &w); err != nil {
		c.log.Sugar().Warnw("Failed to fetch match details", "match_id", matchID, "err", err)
		return nil
	}

	return &MatchDetails{
		Match:      w.toMatch(),
		HomeLineup: w.HomeTeam.toLineup(),
		AwayLineup: w.AwayTeam.toLineup(),
	}
}

// TeamStanding returns the club's row in the league table, with the points
// gap to the playoff position filled in, or nil on failure.
func (c *Client) TeamStanding(ctx context.Context) *Standing {
	table := c.LeagueTable(ctx)

	var club *Standing
	playoffPoints := 0
	for i := range table {
		if table[i].Team.ID == c.teamID {
			club = &table[i]
		}
		if table[i].Position == playoffPosition {
			playoffPoints = table[i].Points
		}
	}
	if club == nil {
		return nil
	}

	club.PlayoffPoints = playoffPoints
	gap := playoffPoints - club.Points
	switch {
	case gap < 0:
		gap = 0
	case gap == 0 && club.Position > playoffPosition:
		// Level on points but behind on goal difference: still a point short.
		gap = 1
	}
	club.PointsToPlayoff = gap
	return club
}

// LeagueTable returns the full TOTAL table, position ascending.
func (c *Client) LeagueTable(ctx context.Context) []Standing {
	var w wireStandings
	path := fmt.Sprintf("/competitions/%d/standings", c.competitionID)
	if err := c.get(ctx, path, nil, &w); err != nil {
		c.log.Sugar().Warnw("Failed to fetch standings", "err", err)
		return nil
	}

	for _, block := range w.Standings {
		if block.Type != "TOTAL" {
			continue
		}
		table := make([]Standing, 0, len(block.Table))
		for _, row := range block.Table {
			table = append(table, row.toStanding())
		}
		return table
	}
	return nil
}

func (c *Client) teamMatches(ctx context.Context, params map[string]string) []Match {
	var w wireMatchList
	path := fmt.Sprintf("/teams/%d/matches", c.teamID)
	if err := c.get(ctx, path, params, &w); err != nil {
		c.log.Sugar().Warnw("Failed to fetch matches", "params", params, "err", err)
		return nil
	}

	matches := make([]Match, 0, len(w.Matches))
	for _, m := range w.Matches {
		matches = append(matches, m.toMatch())
	}
	return matches
}

func (c *Client) get(ctx context.Context, path string, params map[string]string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	rb := requests.URL(c.base + path).
		Header("X-Auth-Token", c.apiKey).
		Transport(c.transport).
		ToJSON(out)
	for k, v := range params {
		rb = rb.Param(k, v)
	}
	return rb.Fetch(ctx)
}

func sortByKickoff(matches []Match, descending bool) {
	sort.Slice(matches, func(i, j int) bool {
		if descending {
			return matches[i].Kickoff.After(matches[j].Kickoff)
		}
		return matches[i].Kickoff.Before(matches[j].Kickoff)
	})
}

func truncate(matches []Match, limit int) []Match {
	if limit > 0 && len(matches) > limit {
		return matches[:limit]
	}
	return matches
}
