package styles

import (
	"github.com/allbin/go-baudscan/internal/tui/colors"
	"github.com/charmbracelet/lipgloss"
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colors.Mauve).
			Background(colors.Surface0).
			Padding(0, 1)

	ContentBorderStyle = lipgloss.NewStyle().
				BorderTop(true).
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(colors.Surface1)

	HelpStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colors.Surface2).
			Padding(1, 2).
			Margin(1, 0)

	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colors.Red)

	TimestampStyle = lipgloss.NewStyle().
			Foreground(colors.Subtext0)

	RateStyle = lipgloss.NewStyle().
			Foreground(colors.Base).
			Background(colors.Blue).
			Bold(true).
			Padding(0, 1)

	AcceptedRateStyle = RateStyle.
				Background(colors.Green)

	DividerStyle = lipgloss.NewStyle().
			Foreground(colors.Surface2).
			Padding(0, 1)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(colors.Text).
			Background(colors.Surface0)
)

// ScoreLevel grades a live printable count against the detection threshold
type ScoreLevel int

const (
	ScoreNone ScoreLevel = iota
	ScoreLow
	ScoreClose
	ScoreOK
)

// Grade places printable against threshold. Half way there counts as close.
func Grade(printable, threshold int) ScoreLevel {
	switch {
	case threshold > 0 && printable >= threshold, threshold <= 0 && printable > 0:
		return ScoreOK
	case printable == 0:
		return ScoreNone
	case printable*2 >= threshold:
		return ScoreClose
	default:
		return ScoreLow
	}
}

func GetScoreStyle(level ScoreLevel) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	switch level {
	case ScoreOK:
		return base.Foreground(colors.Green)
	case ScoreClose:
		return base.Foreground(colors.Yellow)
	case ScoreLow:
		return base.Foreground(colors.Peach)
	default:
		return base.Foreground(colors.Overlay0)
	}
}
