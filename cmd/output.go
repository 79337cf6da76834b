/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/allbin/go-baudscan"
	"github.com/charmbracelet/lipgloss"
	"github.com/evertras/bubble-table/table"
	"gopkg.in/yaml.v3"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

type trialReport struct {
	Rate      int    `json:"rate" yaml:"rate"`
	Bytes     int    `json:"bytes" yaml:"bytes"`
	Printable int    `json:"printable" yaml:"printable"`
	ElapsedMS int64  `json:"elapsed_ms" yaml:"elapsed_ms"`
	Accepted  bool   `json:"accepted" yaml:"accepted"`
	Error     string `json:"error,omitempty" yaml:"error,omitempty"`
}

// detectReport is the machine readable form of a detection run
type detectReport struct {
	Device     string        `json:"device" yaml:"device"`
	Found      bool          `json:"found" yaml:"found"`
	Rate       int           `json:"rate,omitempty" yaml:"rate,omitempty"`
	TrialCount int           `json:"trial_count" yaml:"trial_count"`
	RunID      string        `json:"run_id" yaml:"run_id"`
	Trials     []trialReport `json:"trials,omitempty" yaml:"trials,omitempty"`
}

func newDetectReport(device string, result baudscan.Result, outcomes []baudscan.Outcome) detectReport {
	report := detectReport{
		Device:     device,
		Found:      result.IsFound(),
		TrialCount: result.Trials(),
		RunID:      result.RunID(),
	}
	if rate, ok := result.Rate(); ok {
		report.Rate = int(rate)
	}
	for _, o := range outcomes {
		if !o.Opened {
			continue
		}
		t := trialReport{
			Rate:      int(o.Rate),
			Bytes:     o.BytesRead,
			Printable: o.Printable,
			ElapsedMS: o.Elapsed.Milliseconds(),
			Accepted:  o.Accepted,
		}
		if o.Err != nil {
			t.Error = o.Err.Error()
		}
		report.Trials = append(report.Trials, t)
	}
	return report
}

func writeReport(w io.Writer, format string, report detectReport) error {
	switch format {
	case formatText, "":
		if report.Found {
			_, err := fmt.Fprintf(w, "Detected baudrate: %d\n", report.Rate)
			return err
		}
		_, err := fmt.Fprintln(w, "No baudrate detected")
		return err
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("%w: unknown format %q (want text, json or yaml)", baudscan.ErrInvalidConfig, format)
	}
}

const (
	colIndex     = "index"
	colRate      = "rate"
	colBytes     = "bytes"
	colPrintable = "printable"
	colElapsed   = "elapsed"
	colResult    = "result"
	colBitTime   = "bittime"
	colByteRate  = "byterate"
)

var tableBaseStyle = lipgloss.NewStyle().Align(lipgloss.Left)

// renderTrialTable shows one row per sampled rate in trial order
func renderTrialTable(report detectReport) string {
	columns := []table.Column{
		table.NewColumn(colRate, "Rate", 9),
		table.NewColumn(colBytes, "Bytes", 7),
		table.NewColumn(colPrintable, "Printable", 10),
		table.NewColumn(colElapsed, "Elapsed", 9),
		table.NewColumn(colResult, "Result", 10),
	}

	rows := make([]table.Row, 0, len(report.Trials))
	for _, t := range report.Trials {
		result := "rejected"
		switch {
		case t.Accepted:
			result = "accepted"
		case t.Error != "":
			result = "error"
		}
		rows = append(rows, table.NewRow(table.RowData{
			colRate:      strconv.Itoa(t.Rate),
			colBytes:     strconv.Itoa(t.Bytes),
			colPrintable: strconv.Itoa(t.Printable),
			colElapsed:   fmt.Sprintf("%dms", t.ElapsedMS),
			colResult:    result,
		}))
	}

	return table.New(columns).
		WithRows(rows).
		WithBaseStyle(tableBaseStyle).
		BorderRounded().
		View()
}

// renderRateTable lists candidates with the timing of one 8N1 frame
func renderRateTable(rates baudscan.Candidates) string {
	columns := []table.Column{
		table.NewColumn(colIndex, "#", 4),
		table.NewColumn(colRate, "Rate", 9),
		table.NewColumn(colBitTime, "Bit time", 11),
		table.NewColumn(colByteRate, "Bytes/s", 9),
	}

	rows := make([]table.Row, len(rates))
	for i, r := range rates {
		rows[i] = table.NewRow(table.RowData{
			colIndex:    strconv.Itoa(i + 1),
			colRate:     r.String(),
			colBitTime:  fmt.Sprintf("%.2fµs", 1e6/float64(r)),
			colByteRate: strconv.Itoa(int(r) / 10),
		})
	}

	return table.New(columns).
		WithRows(rows).
		WithBaseStyle(tableBaseStyle).
		BorderRounded().
		View()
}

// echoSink writes sampled bytes to the terminal, masking control bytes so
// garbage at a wrong rate cannot drive the terminal
type echoSink struct {
	w       io.Writer
	charset baudscan.Charset
}

func (s echoSink) Echo(b byte) {
	if !s.charset.IsPrintable(b) {
		b = '.'
	}
	_, _ = s.w.Write([]byte{b})
}
