package scheduler

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/fiffu/matchday/footballdata"
)

const (
	kickoffFormat = "Mon 02 Jan 15:04"
	maxLineup     = 11
)

func digestMessage(now time.Time, matches []footballdata.Match, loc *time.Location) string {
	lines := []string{
		"<b>⚽ Today's matches</b>",
		fmt.Sprintf("<i>%s</i>\n", now.Format("Monday, 2 January 2006")),
	}

	for _, m := range matches {
		lines = append(lines,
			fmt.Sprintf("⏰ %s", m.Kickoff.In(loc).Format(kickoffFormat)),
			fmt.Sprintf("   %s vs %s", escape(m.HomeTeam.Name), escape(m.AwayTeam.Name)),
		)
		if m.Venue != "" {
			lines = append(lines, fmt.Sprintf("   🏟️ %s", escape(m.Venue)))
		}
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}

func reminderMessage(minutes int, m footballdata.Match, loc *time.Location) string {
	return strings.Join([]string{
		"<b>⏰ Kickoff reminder</b>",
		"",
		fmt.Sprintf("The match starts in %d minutes!", minutes),
		"",
		fmt.Sprintf("🏟️ %s vs %s", escape(m.HomeTeam.Name), escape(m.AwayTeam.Name)),
		fmt.Sprintf("📍 %s", m.Kickoff.In(loc).Format(kickoffFormat)),
	}, "\n")
}

func goalMessage(m footballdata.Match, scorer footballdata.Team, ownTeam bool) string {
	emoji := "⚽"
	if ownTeam {
		emoji = "🎉"
	}
	return strings.Join([]string{
		fmt.Sprintf("<b>%s GOAL!</b>", emoji),
		"",
		fmt.Sprintf("<b>%s</b> score!", escape(scorer.Name)),
		"",
		fmt.Sprintf("🏟️ %s %d - %d %s",
			escape(m.HomeTeam.Name), m.HomeScore, m.AwayScore, escape(m.AwayTeam.Name)),
	}, "\n")
}

func lineupMessage(d *footballdata.MatchDetails) string {
	lines := []string{
		"<b>📋 Starting lineups</b>\n",
		fmt.Sprintf("<b>%s vs %s</b>", escape(d.HomeTeam.Name), escape(d.AwayTeam.Name)),
	}

	lines = append(lines, rosterLines(d.HomeTeam.Name, d.HomeLineup)...)
	lines = append(lines, rosterLines(d.AwayTeam.Name, d.AwayLineup)...)

	return strings.Join(lines, "\n")
}

func rosterLines(teamName string, lineup []footballdata.Player) []string {
	if len(lineup) == 0 {
		return nil
	}
	if len(lineup) > maxLineup {
		lineup = lineup[:maxLineup]
	}

	lines := []string{fmt.Sprintf("\n<b>%s</b>", escape(teamName))}
	for _, p := range lineup {
		lines = append(lines, fmt.Sprintf("  %s: %s", escape(p.Position), escape(p.Name)))
	}
	return lines
}

func escape(s string) string {
	return html.EscapeString(s)
}
