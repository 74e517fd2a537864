package bot

import (
	"testing"
	"time"

	"github.com/fiffu/matchday/footballdata"
	"github.com/stretchr/testify/assert"
)

const clubID = 332

func result(homeID, awayID, homeScore, awayScore int) footballdata.Match {
	return footballdata.Match{
		Status:    footballdata.StatusFinished,
		HomeTeam:  footballdata.Team{ID: homeID, Name: "Home FC"},
		AwayTeam:  footballdata.Team{ID: awayID, Name: "Away FC"},
		HomeScore: homeScore,
		AwayScore: awayScore,
	}
}

func Test_resultMark(t *testing.T) {
	tests := []struct {
		name  string
		match footballdata.Match
		want  string
	}{
		{"home win", result(clubID, 341, 2, 1), "✅ W"},
		{"home loss", result(clubID, 341, 0, 1), "❌ L"},
		{"away win", result(341, clubID, 0, 3), "✅ W"},
		{"away loss", result(341, clubID, 3, 0), "❌ L"},
		{"draw", result(clubID, 341, 1, 1), "🟰 D"},
		{"club not involved", result(341, 342, 1, 0), ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, resultMark(tc.match, clubID))
		})
	}
}

func Test_ordinal(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{1, "1st"}, {2, "2nd"}, {3, "3rd"}, {4, "4th"},
		{11, "11th"}, {12, "12th"}, {13, "13th"},
		{21, "21st"}, {22, "22nd"}, {23, "23rd"}, {24, "24th"},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, ordinal(tc.n))
	}
}

func Test_opponentOf(t *testing.T) {
	m := footballdata.Match{
		HomeTeam: footballdata.Team{ID: clubID, Name: "Swansea City"},
		AwayTeam: footballdata.Team{ID: 341, Name: "Leeds United"},
	}

	opponent, venue := opponentOf(m, clubID)
	assert.Equal(t, "Leeds United", opponent)
	assert.Equal(t, "(home)", venue)

	opponent, venue = opponentOf(m, 341)
	assert.Equal(t, "Swansea City", opponent)
	assert.Equal(t, "(away)", venue)
}

func leagueTable() []footballdata.Standing {
	return []footballdata.Standing{
		{Position: 1, Team: footballdata.Team{ID: 341, Name: "Leeds United"}, Points: 30, GoalDifference: 12},
		{Position: 6, Team: footballdata.Team{ID: 999, Name: "Sixth FC"}, Points: 18, GoalDifference: 2},
		{Position: 9, Team: footballdata.Team{ID: clubID, Name: "Swansea City"}, Points: 14, GoalDifference: -2},
	}
}

func Test_standingsView(t *testing.T) {
	got := standingsView(leagueTable(), clubID)

	assert.Contains(t, got, "🏆 <b>League table</b>")
	assert.Contains(t, got, "<b>👉  9. Swansea City — 14 pts")
	assert.Contains(t, got, "🎯 4 points to the playoff places.")
	assert.NotContains(t, got, "<b>👉  1.")
}

func Test_standingsView_insidePlayoffPlaces(t *testing.T) {
	table := leagueTable()
	table[2].Position = 4
	table[2].Points = 20

	got := standingsView(table, clubID)

	assert.NotContains(t, got, "playoff places")
}

func Test_standingsView_unavailable(t *testing.T) {
	got := standingsView(nil, clubID)

	assert.Contains(t, got, "Standings are unavailable")
}

func Test_fullUpdateMessage(t *testing.T) {
	now := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	standing := &footballdata.Standing{
		Position: 9, Played: 10, Won: 4, Draw: 2, Lost: 4, Points: 14, GoalDifference: -2,
	}
	upcoming := []footballdata.Match{{
		Kickoff:  now.Add(6 * time.Hour),
		HomeTeam: footballdata.Team{ID: clubID, Name: "Swansea City"},
		AwayTeam: footballdata.Team{ID: 341, Name: "Leeds United"},
		Venue:    "Swansea.com Stadium",
	}}
	recent := []footballdata.Match{result(clubID, 341, 2, 1)}

	got := fullUpdateMessage(now, standing, upcoming, nil, recent, time.UTC, clubID)

	assert.Contains(t, got, "⚽ <b>Match update</b> (2026-08-30)")
	assert.Contains(t, got, "<b>League position:</b> 9th")
	assert.Contains(t, got, "Swansea City vs Leeds United")
	assert.Contains(t, got, "🏟️ Swansea.com Stadium")
	assert.Contains(t, got, "✅ W")
	assert.NotContains(t, got, "Next fixtures")
}

func Test_fullUpdateMessage_empty(t *testing.T) {
	now := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)

	got := fullUpdateMessage(now, nil, nil, nil, nil, time.UTC, clubID)

	assert.Contains(t, got, "No matches today or tomorrow.")
	assert.Contains(t, got, "No fixtures or recent results right now.")
}
