package bot

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/fiffu/matchday/footballdata"
)

const kickoffFormat = "Mon 02 Jan 15:04"

func fullUpdateMessage(
	now time.Time,
	standing *footballdata.Standing,
	upcoming, future, recent []footballdata.Match,
	loc *time.Location,
	teamID int,
) string {
	parts := []string{fmt.Sprintf("⚽ <b>Match update</b> (%s)\n", now.Format(time.DateOnly))}

	if standing != nil {
		parts = append(parts, standingLine(standing), "")
	}

	parts = append(parts, "📅 <b>Today/tomorrow:</b>")
	if len(upcoming) > 0 {
		for _, m := range upcoming {
			parts = append(parts,
				fmt.Sprintf("⏰ %s", m.Kickoff.In(loc).Format(kickoffFormat)),
				fmt.Sprintf("%s vs %s", escape(m.HomeTeam.Name), escape(m.AwayTeam.Name)),
			)
			if m.Venue != "" {
				parts = append(parts, fmt.Sprintf("🏟️ %s", escape(m.Venue)))
			}
			parts = append(parts, "")
		}
	} else {
		parts = append(parts, "No matches today or tomorrow.\n")
	}

	if len(future) > 0 {
		parts = append(parts, "📆 <b>Next fixtures:</b>")
		parts = append(parts, fixtureLines(future, loc, teamID)...)
	}

	if len(recent) > 0 {
		parts = append(parts, "📊 <b>Recent results:</b>")
		parts = append(parts, resultLines(recent, loc, teamID)...)
	}

	if len(upcoming) == 0 && len(future) == 0 && len(recent) == 0 {
		parts = append(parts, "\nNo fixtures or recent results right now.")
	}

	return strings.Join(parts, "\n")
}

func futureView(future []footballdata.Match, standing *footballdata.Standing, loc *time.Location, teamID int) string {
	parts := []string{"📆 <b>Next fixtures</b>\n"}

	if standing != nil {
		parts = append(parts, standingLine(standing), "")
	}

	if len(future) == 0 {
		parts = append(parts, "No upcoming fixtures found.")
	} else {
		parts = append(parts, fixtureLines(future, loc, teamID)...)
	}
	return strings.Join(parts, "\n")
}

func recentView(recent []footballdata.Match, loc *time.Location, teamID int) string {
	parts := []string{"📊 <b>Recent results</b>\n"}

	if len(recent) == 0 {
		parts = append(parts, "No recent results found.")
	} else {
		parts = append(parts, resultLines(recent, loc, teamID)...)
	}
	return strings.Join(parts, "\n")
}

func standingsView(table []footballdata.Standing, teamID int) string {
	if len(table) == 0 {
		return "🏆 <b>League table</b>\n\nStandings are unavailable right now."
	}

	parts := []string{"🏆 <b>League table</b>\n"}

	var club *footballdata.Standing
	playoffPoints := 0
	for i, row := range table {
		line := fmt.Sprintf("%2d. %s — %d pts (P%d W%d D%d L%d, GD %+d)",
			row.Position, escape(row.Team.Name), row.Points,
			row.Played, row.Won, row.Draw, row.Lost, row.GoalDifference)

		if row.Team.ID == teamID {
			line = fmt.Sprintf("<b>👉 %s</b>", line)
			club = &table[i]
		}
		if row.Position == 6 {
			playoffPoints = row.Points
		}
		parts = append(parts, line)
	}

	if club != nil && club.Position > 6 {
		gap := playoffPoints - club.Points
		if gap <= 0 {
			gap = 1
		}
		parts = append(parts, "", fmt.Sprintf("🎯 %d points to the playoff places.", gap))
	}

	return strings.Join(parts, "\n")
}

func standingLine(s *footballdata.Standing) string {
	return fmt.Sprintf("📊 <b>League position:</b> %s | P%d W%d D%d L%d | %d pts (GD %+d)",
		ordinal(s.Position), s.Played, s.Won, s.Draw, s.Lost, s.Points, s.GoalDifference)
}

func fixtureLines(matches []footballdata.Match, loc *time.Location, teamID int) []string {
	var lines []string
	for _, m := range matches {
		opponent, venue := opponentOf(m, teamID)
		lines = append(lines,
			fmt.Sprintf("⏰ %s", m.Kickoff.In(loc).Format(kickoffFormat)),
			fmt.Sprintf("vs %s %s", escape(opponent), venue),
			"",
		)
	}
	return lines
}

func resultLines(matches []footballdata.Match, loc *time.Location, teamID int) []string {
	var lines []string
	for _, m := range matches {
		lines = append(lines,
			fmt.Sprintf("⏰ %s", m.Kickoff.In(loc).Format(kickoffFormat)),
			fmt.Sprintf("%s %d - %d %s %s",
				escape(m.HomeTeam.Name), m.HomeScore, m.AwayScore, escape(m.AwayTeam.Name), resultMark(m, teamID)),
			"",
		)
	}
	return lines
}

// opponentOf names the other side and whether the club plays at home.
func opponentOf(m footballdata.Match, teamID int) (opponent, venue string) {
	if m.HomeTeam.ID == teamID {
		return m.AwayTeam.Name, "(home)"
	}
	return m.HomeTeam.Name, "(away)"
}

func resultMark(m footballdata.Match, teamID int) string {
	var ours, theirs int
	switch teamID {
	case m.HomeTeam.ID:
		ours, theirs = m.HomeScore, m.AwayScore
	case m.AwayTeam.ID:
		ours, theirs = m.AwayScore, m.HomeScore
	default:
		return ""
	}

	switch {
	case ours > theirs:
		return "✅ W"
	case ours < theirs:
		return "❌ L"
	default:
		return "🟰 D"
	}
}

func ordinal(n int) string {
	suffix := "th"
	if n%100 < 11 || n%100 > 13 {
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", n, suffix)
}

func escape(s string) string {
	return html.EscapeString(s)
}
