package models

import (
	"github.com/allbin/go-baudscan"
	"github.com/allbin/go-baudscan/internal/tui/components"
	"github.com/allbin/go-baudscan/internal/tui/keys"
	"github.com/allbin/go-baudscan/internal/tui/styles"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// PortStatusMsg reports the reader opening, failing or losing the port
type PortStatusMsg struct {
	Rate  baudscan.BaudRate
	Open  bool
	Error error
}

// Tune is the manual rate selection view. The user steps through the rate
// set while incoming data is shown live, then accepts or quits.
type Tune struct {
	device    string
	rates     baudscan.Candidates
	index     int
	threshold int
	charset   baudscan.Charset

	bytes     int
	printable int
	accepted  bool
	ready     bool

	requests chan baudscan.BaudRate

	terminal  *components.Terminal
	statusBar *components.StatusBar
	rateTable *components.RateTable
	help      help.Model
	keys      keys.TuneKeys
}

// NewTune starts at start when it is in rates, otherwise at the first rate.
// rates must be non-empty.
func NewTune(device string, rates baudscan.Candidates, start baudscan.BaudRate, threshold int, charset baudscan.Charset) *Tune {
	m := &Tune{
		device:    device,
		rates:     rates,
		threshold: threshold,
		charset:   charset,
		requests:  make(chan baudscan.BaudRate, 1),
		terminal:  components.NewTerminal(80, 20),
		statusBar: components.NewStatusBar(device),
		rateTable: components.NewRateTable(rates, 20),
		help:      help.New(),
		keys:      keys.NewTuneKeys(),
	}
	if i := rates.Index(start); i >= 0 {
		m.index = i
	}
	m.selectRate(m.index)
	return m
}

// Requests delivers the rate the reader should listen at. Only the latest
// request is kept.
func (m *Tune) Requests() <-chan baudscan.BaudRate {
	return m.requests
}

// Rate is the rate currently selected
func (m *Tune) Rate() baudscan.BaudRate {
	return m.rates[m.index]
}

// Accepted returns the rate the user confirmed with enter
func (m *Tune) Accepted() (baudscan.BaudRate, bool) {
	if !m.accepted {
		return 0, false
	}
	return m.Rate(), true
}

// Score returns bytes and printable bytes seen since the rate was selected
func (m *Tune) Score() (bytes, printable int) {
	return m.bytes, m.printable
}

// Step moves delta positions through the rate set, wrapping at both ends
func (m *Tune) Step(delta int) {
	n := len(m.rates)
	m.selectRate(((m.index+delta)%n + n) % n)
}

func (m *Tune) selectRate(index int) {
	m.index = index
	m.bytes, m.printable = 0, 0
	m.rateTable.Select(index)
	m.statusBar.SetOpening(m.Rate())

	select {
	case <-m.requests:
	default:
	}
	m.requests <- m.Rate()
}

func (m *Tune) Init() tea.Cmd {
	return nil
}

func (m *Tune) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		cmds = append(cmds, m.terminal.Update(msg))

	case PortStatusMsg:
		if msg.Rate != m.Rate() {
			break
		}
		if msg.Error != nil {
			m.statusBar.SetFailed(msg.Error)
		} else if msg.Open {
			m.statusBar.SetOpen()
		}

	case components.DataReceivedMsg:
		// Late batches from the previous rate would skew the score
		if msg.Rate != m.Rate() {
			break
		}
		printable := 0
		for _, b := range msg.Data {
			if m.charset.IsPrintable(b) {
				printable++
			}
		}
		m.bytes += len(msg.Data)
		m.printable += printable
		m.rateTable.Record(m.index, len(msg.Data), printable)
		m.terminal.AddMessage(msg)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Accept):
			m.accepted = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.RateUp):
			m.Step(1)

		case key.Matches(msg, m.keys.RateDown):
			m.Step(-1)

		case key.Matches(msg, m.keys.Clear):
			m.terminal.Clear()
			m.rateTable.Reset()
			m.bytes, m.printable = 0, 0

		case key.Matches(msg, m.keys.ToggleHex):
			m.terminal.ToggleHex()

		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
	}

	return m, tea.Batch(cmds...)
}

func (m *Tune) resize(width, height int) {
	// status bar plus the content border line
	contentHeight := height - 2
	if contentHeight < 3 {
		contentHeight = 3
	}
	termWidth := width - components.RateTableWidth
	if termWidth < 20 {
		termWidth = 20
	}
	m.terminal.SetSize(termWidth, contentHeight)
	m.rateTable.SetHeight(contentHeight - 2)
	m.statusBar.SetWidth(width)
	m.ready = true
}

func (m *Tune) View() string {
	content := "Waiting for data..."
	if m.ready {
		content = m.terminal.View()
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(components.RateTableWidth).Render(m.rateTable.View()),
		content,
	)

	info := components.RateInfo{
		Rate:      m.Rate(),
		Index:     m.index,
		Total:     len(m.rates),
		Bytes:     m.bytes,
		Printable: m.printable,
		Threshold: m.threshold,
	}
	statusBar := m.statusBar.View(info, m.accepted)

	parts := []string{styles.ContentBorderStyle.Render(body)}
	if m.help.ShowAll {
		parts = append(parts, styles.HelpStyle.Render(m.help.View(m.keys)))
	}
	parts = append(parts, statusBar)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
