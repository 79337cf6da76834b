package components

import (
	"fmt"
	"time"

	"github.com/allbin/go-baudscan"
	"github.com/allbin/go-baudscan/internal/tui/colors"
	"github.com/allbin/go-baudscan/internal/tui/styles"
	"github.com/charmbracelet/lipgloss"
)

// RateInfo is what the status bar shows about the rate being listened to
type RateInfo struct {
	Rate      baudscan.BaudRate
	Index     int
	Total     int
	Bytes     int
	Printable int
	Threshold int
}

type StatusBar struct {
	device string
	status string
	err    error
	open   bool
	width  int
}

func NewStatusBar(device string) *StatusBar {
	return &StatusBar{device: device, status: "Opening..."}
}

func (sb *StatusBar) SetWidth(width int) {
	sb.width = width
}

func (sb *StatusBar) SetOpening(rate baudscan.BaudRate) {
	sb.status = fmt.Sprintf("Opening at %d...", rate)
	sb.err = nil
	sb.open = false
}

func (sb *StatusBar) SetOpen() {
	sb.status = "Listening"
	sb.err = nil
	sb.open = true
}

func (sb *StatusBar) SetFailed(err error) {
	sb.status = fmt.Sprintf("Open failed: %v", err)
	sb.err = err
	sb.open = false
}

func (sb *StatusBar) Status() string {
	return sb.status
}

func (sb *StatusBar) Err() error {
	return sb.err
}

// View renders the bar: rate badge, device with a line indicator, the live
// score and a clock on the right.
func (sb *StatusBar) View(info RateInfo, accepted bool) string {
	width := sb.width
	if width <= 0 {
		width = 80
	}

	rateStyle := styles.RateStyle
	if accepted {
		rateStyle = styles.AcceptedRateStyle
	}
	rate := rateStyle.Render(fmt.Sprintf("%d baud", info.Rate))

	device := lipgloss.NewStyle().
		Foreground(colors.Mauve).
		Bold(true).
		Padding(0, 1).
		Render(sb.device)

	var indicator string
	switch {
	case sb.err != nil:
		indicator = lipgloss.NewStyle().Foreground(colors.Red).Render("✗")
	case sb.open:
		indicator = lipgloss.NewStyle().Foreground(colors.Green).Render("●")
	default:
		indicator = lipgloss.NewStyle().Foreground(colors.Yellow).Render("○")
	}

	divider := styles.DividerStyle.Render("│")

	position := lipgloss.NewStyle().
		Foreground(colors.Subtext0).
		Padding(0, 1).
		Render(fmt.Sprintf("%d/%d", info.Index+1, info.Total))

	score := styles.GetScoreStyle(styles.Grade(info.Printable, info.Threshold)).
		Render(fmt.Sprintf("%d/%d printable", info.Printable, info.Threshold))

	bytes := lipgloss.NewStyle().
		Foreground(colors.Subtext0).
		Padding(0, 1).
		Render(fmt.Sprintf("%d bytes", info.Bytes))

	clock := lipgloss.NewStyle().
		Foreground(colors.Subtext1).
		Padding(0, 1).
		Render(time.Now().Format("15:04:05"))

	left := lipgloss.JoinHorizontal(lipgloss.Left, rate, device, indicator, divider, position)
	right := lipgloss.JoinHorizontal(lipgloss.Left, score, bytes, divider, clock)

	spacerWidth := width - lipgloss.Width(left) - lipgloss.Width(right)
	if spacerWidth < 1 {
		spacerWidth = 1
	}
	spacer := lipgloss.NewStyle().Width(spacerWidth).Render("")

	return styles.StatusBarStyle.Width(width).
		Render(lipgloss.JoinHorizontal(lipgloss.Left, left, spacer, right))
}
