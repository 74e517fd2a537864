// Package footballdata wraps the football-data.org v4 API for a single club.
//
// Every public method degrades to an empty result on transport failure or a
// non-2xx response: callers treat "no data" as a quiet cycle, never as a
// hard error.
package footballdata

import "time"

// Match statuses as reported by the API. Other values pass through opaquely.
const (
	StatusScheduled = "SCHEDULED"
	StatusTimed     = "TIMED"
	StatusInPlay    = "IN_PLAY"
	StatusPaused    = "PAUSED"
	StatusFinished  = "FINISHED"
)

type Team struct {
	ID   int
	Name string
}

// Match is a point-in-time view of one fixture.
type Match struct {
	ID        int
	Status    string
	Kickoff   time.Time
	Venue     string
	HomeTeam  Team
	AwayTeam  Team
	HomeScore int
	AwayScore int
}

// Live reports whether the match is currently being played.
func (m Match) Live() bool {
	return m.Status == StatusInPlay || m.Status == StatusPaused || m.Status == "LIVE"
}

type Player struct {
	Name     string
	Position string
}

// MatchDetails is a Match enriched with starting lineups, when published.
type MatchDetails struct {
	Match
	HomeLineup []Player
	AwayLineup []Player
}

// Standing is one league-table row. PointsToPlayoff is the gap to the
// playoff position, zero when already inside it.
type Standing struct {
	Position        int
	Team            Team
	Played          int
	Won             int
	Draw            int
	Lost            int
	Points          int
	GoalsFor        int
	GoalsAgainst    int
	GoalDifference  int
	PlayoffPoints   int
	PointsToPlayoff int
}

// --------------------------------------------------------------------------
// Wire types (minimal fields read from football-data.org v4)
// --------------------------------------------------------------------------

type wireTeam struct {
	ID     int        `json:"id"`
	Name   string     `json:"name"`
	Lineup []wireSlot `json:"lineup"`
}

type wireSlot struct {
	Name     string `json:"name"`
	Position string `json:"position"`
}

type wireScore struct {
	FullTime struct {
		Home *int `json:"home"`
		Away *int `json:"away"`
	} `json:"fullTime"`
}

type wireMatch struct {
	ID       int       `json:"id"`
	UTCDate  time.Time `json:"utcDate"`
	Status   string    `json:"status"`
	Venue    string    `json:"venue"`
	HomeTeam wireTeam  `json:"homeTeam"`
	AwayTeam wireTeam  `json:"awayTeam"`
	Score    wireScore `json:"score"`
}

type wireMatchList struct {
	Matches []wireMatch `json:"matches"`
}

type wireTableRow struct {
	Position       int      `json:"position"`
	Team           wireTeam `json:"team"`
	PlayedGames    int      `json:"playedGames"`
	Won            int      `json:"won"`
	Draw           int      `json:"draw"`
	Lost           int      `json:"lost"`
	Points         int      `json:"points"`
	GoalsFor       int      `json:"goalsFor"`
	GoalsAgainst   int      `json:"goalsAgainst"`
	GoalDifference int      `json:"goalDifference"`
}

type wireStandings struct {
	Standings []struct {
		Type  string         `json:"type"`
		Table []wireTableRow `json:"table"`
	} `json:"standings"`
}

func (w wireMatch) toMatch() Match {
	m := Match{
		ID:       w.ID,
		Status:   w.Status,
		Kickoff:  w.UTCDate,
		Venue:    w.Venue,
		HomeTeam: Team{ID: w.HomeTeam.ID, Name: w.HomeTeam.Name},
		AwayTeam: Team{ID: w.AwayTeam.ID, Name: w.AwayTeam.Name},
	}
	if m.HomeTeam.Name == "" {
		m.HomeTeam.Name = "Unknown"
	}
	if m.AwayTeam.Name == "" {
		m.AwayTeam.Name = "Unknown"
	}
	if w.Score.FullTime.Home != nil {
		m.HomeScore = *w.Score.FullTime.Home
	}
	if w.Score.FullTime.Away != nil {
		m.AwayScore = *w.Score.FullTime.Away
	}
	return m
}

func (w wireTeam) toLineup() []Player {
	players := make([]Player, 0, len(w.Lineup))
	for _, slot := range w.Lineup {
		players = append(players, Player{Name: slot.Name, Position: slot.Position})
	}
	return players
}

func (w wireTableRow) toStanding() Standing {
	return Standing{
		Position:       w.Position,
		Team:           Team{ID: w.Team.ID, Name: w.Team.Name},
		Played:         w.PlayedGames,
		Won:            w.Won,
		Draw:           w.Draw,
		Lost:           w.Lost,
		Points:         w.Points,
		GoalsFor:       w.GoalsFor,
		GoalsAgainst:   w.GoalsAgainst,
		GoalDifference: w.GoalDifference,
	}
}
