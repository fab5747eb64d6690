package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/greensort/internal/points"
	"github.com/vovakirdan/greensort/internal/sorting"
)

// lowTime is the countdown value at which the timer turns red.
const lowTime = 10

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("10"))
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))
	valueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))
	timerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("14"))
	lowTimerStyle = timerStyle.
			Foreground(lipgloss.Color("9"))
	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("22"))
	goodStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))
	badStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))
	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true)
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

// binColors maps each bin to its accent color.
var binColors = map[sorting.Category]lipgloss.Color{
	sorting.CategoryWet:       lipgloss.Color("2"),
	sorting.CategoryDry:       lipgloss.Color("4"),
	sorting.CategoryHazardous: lipgloss.Color("1"),
	sorting.CategoryEWaste:    lipgloss.Color("5"),
}

// centerText centers text within the given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}

func renderReady(m Model) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("♻  GREEN SORT"))
	b.WriteString("\n\n")
	if m.player != "" {
		b.WriteString(fmt.Sprintf("Welcome, %s!\n\n", valueStyle.Render(m.player)))
	}

	r := m.engine.Rules()
	b.WriteString(fmt.Sprintf("Sort as many items as you can in %d seconds.\n", r.RoundSeconds))
	b.WriteString(fmt.Sprintf("+%d per correct bin, +%d more from a streak of %d.\n", r.BaseReward, r.StreakBonus, r.StreakThreshold))
	b.WriteString("A wrong bin breaks your streak.\n\n")
	if m.rounds != nil && m.best > 0 {
		b.WriteString(fmt.Sprintf("%s %s\n\n", labelStyle.Render("Best round"), valueStyle.Render(fmt.Sprintf("%d", m.best))))
	}
	b.WriteString(renderBins())
	b.WriteString("\n\n")
	b.WriteString(hintStyle.Render("press enter to start, tab for the scoreboard"))
	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))

	return boxStyle.Render(b.String())
}

func renderRound(m Model) string {
	snap := m.engine.Snapshot()
	var b strings.Builder

	// Header: timer, score, streak
	timer := timerStyle
	if snap.TimeLeft <= lowTime {
		timer = lowTimerStyle
	}
	b.WriteString(fmt.Sprintf("%s %s   %s %s   %s %s",
		labelStyle.Render("Time"), timer.Render(fmt.Sprintf("%2ds", snap.TimeLeft)),
		labelStyle.Render("Score"), valueStyle.Render(fmt.Sprintf("%d", snap.Score)),
		labelStyle.Render("Streak"), valueStyle.Render(fmt.Sprintf("%d", snap.Streak)),
	))
	if snap.Streak >= m.engine.Rules().StreakThreshold {
		b.WriteString(goodStyle.Render("  🔥"))
	}
	b.WriteString("\n\n")

	// Pool
	for i, it := range snap.Pool {
		line := fmt.Sprintf("%s %s", it.Icon, it.Name)
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(renderBins())
	b.WriteString("\n\n")

	if fb := renderFeedback(m.events.last); fb != "" {
		b.WriteString(fb)
		b.WriteString("\n\n")
	}
	b.WriteString(m.help.View(m.keys))

	return boxStyle.Render(b.String())
}

// renderBins draws the four drop targets with their keys.
func renderBins() string {
	cells := make([]string, 0, 4)
	for i, c := range sorting.Categories() {
		style := lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(binColors[c]).
			Foreground(binColors[c]).
			Padding(0, 1)
		cells = append(cells, style.Render(fmt.Sprintf("%d %s", i+1, c.Label())))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

// renderFeedback describes the last classification.
func renderFeedback(ev *sorting.ItemClassifiedEvent) string {
	if ev == nil {
		return ""
	}
	if ev.Correct {
		msg := fmt.Sprintf("✓ %s belongs in %s  +%d", ev.Item.Name, ev.Item.Category.Label(), ev.Awarded)
		if ev.Bonus > 0 {
			msg += fmt.Sprintf(" +%d streak bonus", ev.Bonus)
		}
		return goodStyle.Render(msg)
	}

	msg := fmt.Sprintf("✗ %s is %s, not %s", ev.Item.Name, ev.Item.Category.Label(), ev.Target.Label())
	if ev.Item.Tip != "" {
		msg += "\n  " + hintStyle.Render(ev.Item.Tip)
	}
	return badStyle.Render(msg)
}

func renderSummary(m Model) string {
	s := m.summary
	var b strings.Builder

	b.WriteString(titleStyle.Render("TIME'S UP!"))
	b.WriteString("\n\n")

	rows := [][2]string{
		{"Score", fmt.Sprintf("%d", s.Score)},
		{"Time bonus", fmt.Sprintf("%d", s.TimeBonus)},
		{"Final score", fmt.Sprintf("%d", s.FinalScore)},
		{"Max streak", fmt.Sprintf("%d", s.MaxStreak)},
		{"Sorted", fmt.Sprintf("%d correct, %d wrong (%.0f%%)", s.Correct, s.Incorrect, s.Accuracy()*100)},
	}
	for _, r := range rows {
		b.WriteString(fmt.Sprintf("%-12s %s\n", labelStyle.Render(r[0]), valueStyle.Render(r[1])))
	}
	b.WriteString("\n")

	if m.rounds != nil {
		if m.newBest {
			b.WriteString(goodStyle.Render("★ NEW BEST ROUND!"))
		} else {
			b.WriteString(fmt.Sprintf("%s %s", labelStyle.Render("Best round"), valueStyle.Render(fmt.Sprintf("%d", m.best))))
		}
		b.WriteString("\n\n")
	}

	switch {
	case m.saveErr != nil:
		b.WriteString(badStyle.Render("Could not save your points: " + m.saveErr.Error()))
		b.WriteString("\n\n")
	case m.result != nil:
		b.WriteString(renderLedger(*m.result))
		b.WriteString("\n")
	}

	b.WriteString(hintStyle.Render("press r to play again, tab for the scoreboard, q to quit"))
	return boxStyle.Render(b.String())
}

// renderLedger shows what the round changed for the player.
func renderLedger(res points.RoundResult) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("%s %s   %s %s\n",
		labelStyle.Render("Green Points"), valueStyle.Render(fmt.Sprintf("%d", res.Balance)),
		labelStyle.Render("Level"), valueStyle.Render(fmt.Sprintf("%d", res.Level)),
	))
	if res.LevelUp {
		b.WriteString(goodStyle.Render(fmt.Sprintf("Level up! You reached level %d.", res.Level)))
		b.WriteString("\n")
	}
	for _, badge := range res.NewBadges {
		b.WriteString(goodStyle.Render(fmt.Sprintf("🏅 New badge: %s", badge.Name)))
		if badge.Description != "" {
			b.WriteString(hintStyle.Render(" - " + badge.Description))
		}
		b.WriteString("\n")
	}
	if res.Balance >= points.CertificateThreshold {
		b.WriteString(goodStyle.Render("🎓 You have earned the Eco Champion certificate."))
		b.WriteString("\n")
	}
	return b.String()
}
