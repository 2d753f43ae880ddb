package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// EventRow is one rendered event in the live watch view.
type EventRow struct {
	Seq     int64
	At      time.Time
	Kind    string
	TokenID uint64
	Detail  string // pre-rendered "A → B" / "owner ⇒ spender" text
}

// PollFunc fetches events with sequence numbers greater than after.
type PollFunc func(after int64) ([]EventRow, error)

// WatchModel is the Bubble Tea model for the live event stream.
type WatchModel struct {
	Title    string
	Poll     PollFunc
	Rows     []EventRow
	lastSeq  int64
	errMsg   string
	frame    int
	Quitting bool
}

type watchTickMsg struct{}

type watchEventsMsg struct {
	rows []EventRow
	err  error
}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

func watchTick() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(time.Time) tea.Msg {
		return watchTickMsg{}
	})
}

func (m WatchModel) poll() tea.Cmd {
	after := m.lastSeq
	return func() tea.Msg {
		rows, err := m.Poll(after)
		return watchEventsMsg{rows: rows, err: err}
	}
}

func (m WatchModel) Init() tea.Cmd {
	return tea.Batch(watchTick(), m.poll())
}

func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.Quitting = true
			return m, tea.Quit
		}

	case watchTickMsg:
		m.frame++
		return m, tea.Batch(watchTick(), m.poll())

	case watchEventsMsg:
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.errMsg = ""
		for _, r := range msg.rows {
			if r.Seq > m.lastSeq {
				m.lastSeq = r.Seq
				m.Rows = append(m.Rows, r)
			}
		}
		// Keep the view bounded.
		if len(m.Rows) > 200 {
			m.Rows = m.Rows[len(m.Rows)-200:]
		}
	}
	return m, nil
}

func (m WatchModel) View() string {
	if m.Quitting {
		return ""
	}

	var sb strings.Builder
	spin := spinnerFrames[m.frame%len(spinnerFrames)]
	sb.WriteString(StyleTitle.Render(m.Title) + " " + StyleMeta.Render(spin+" watching — q to quit") + "\n\n")

	if m.errMsg != "" {
		sb.WriteString(Err(m.errMsg) + "\n")
	}
	if len(m.Rows) == 0 {
		sb.WriteString(Meta("  no events yet…") + "\n")
		return sb.String()
	}

	start := 0
	if len(m.Rows) > 20 {
		start = len(m.Rows) - 20
	}
	for _, r := range m.Rows[start:] {
		sb.WriteString(fmt.Sprintf("  %s %s %s %s\n",
			Meta(r.At.Local().Format("15:04:05")),
			EventKind(fmt.Sprintf("%-14s", r.Kind)),
			Val(fmt.Sprintf("#%d", r.TokenID)),
			Addr(r.Detail),
		))
	}
	return sb.String()
}
