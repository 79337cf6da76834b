package components

import (
	"strconv"

	"github.com/allbin/go-baudscan"
	"github.com/allbin/go-baudscan/internal/tui/colors"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// RateTableWidth is the fixed width of the rate pane including borders
const RateTableWidth = 36

// RateStats accumulates what has been read at one rate across visits
type RateStats struct {
	Bytes     int
	Printable int
}

// Ratio is the printable share of all bytes read, 0 when nothing was read
func (s RateStats) Ratio() float64 {
	if s.Bytes == 0 {
		return 0
	}
	return float64(s.Printable) / float64(s.Bytes)
}

// RateTable lists every rate in the set with its running statistics and
// keeps the cursor on the rate currently being listened to.
type RateTable struct {
	table table.Model
	rates baudscan.Candidates
	stats []RateStats
}

func NewRateTable(rates baudscan.Candidates, height int) *RateTable {
	if height < 3 {
		height = 3
	}

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Rate", Width: 8},
			{Title: "Bytes", Width: 7},
			{Title: "Print", Width: 7},
			{Title: "%", Width: 4},
		}),
		table.WithFocused(false),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(colors.Subtext0).
		BorderBottom(true).
		Bold(true).
		Foreground(colors.Text)
	s.Selected = s.Selected.
		Foreground(colors.Text).
		Background(colors.Surface1).
		Bold(true)
	t.SetStyles(s)

	rt := &RateTable{
		table: t,
		rates: rates,
		stats: make([]RateStats, len(rates)),
	}
	rt.refresh()
	return rt
}

func (rt *RateTable) SetHeight(height int) {
	if height < 3 {
		height = 3
	}
	rt.table.SetHeight(height)
	rt.table.UpdateViewport()
}

// Select moves the cursor to the rate at index
func (rt *RateTable) Select(index int) {
	rt.table.SetCursor(index)
	rt.table.UpdateViewport()
}

// Record adds a batch to the statistics of the rate at index
func (rt *RateTable) Record(index, bytes, printable int) {
	if index < 0 || index >= len(rt.stats) {
		return
	}
	rt.stats[index].Bytes += bytes
	rt.stats[index].Printable += printable
	rt.refresh()
}

func (rt *RateTable) Stats(index int) RateStats {
	if index < 0 || index >= len(rt.stats) {
		return RateStats{}
	}
	return rt.stats[index]
}

func (rt *RateTable) Reset() {
	clear(rt.stats)
	rt.refresh()
}

func (rt *RateTable) refresh() {
	rows := make([]table.Row, len(rt.rates))
	for i, rate := range rt.rates {
		st := rt.stats[i]
		pct := "-"
		if st.Bytes > 0 {
			pct = strconv.Itoa(int(st.Ratio() * 100))
		}
		rows[i] = table.Row{rate.String(), strconv.Itoa(st.Bytes), strconv.Itoa(st.Printable), pct}
	}
	rt.table.SetRows(rows)
	rt.table.UpdateViewport()
}

func (rt *RateTable) View() string {
	return rt.table.View()
}
