package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/tokenforge/permit721/internal/eventlog"
	"github.com/tokenforge/permit721/internal/ui"
)

var eventsLimit int

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List recent registry events",
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := eventlog.Open(cfg.EventLogPath())
		if err != nil {
			return err
		}
		defer log.Close()

		records, err := log.Recent(eventsLimit)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Println(ui.Info("No events logged yet."))
			return nil
		}

		t := ui.NewTable([]ui.Column{
			{Title: "Seq", Width: 6},
			{Title: "Time", Width: 20},
			{Title: "Kind", Width: 15},
			{Title: "Token", Width: 7},
			{Title: "Detail", Width: 50},
		})
		for _, r := range records {
			t.AddRow(ui.Row{
				fmt.Sprintf("%d", r.ID),
				r.At.Local().Format("2006-01-02 15:04:05"),
				r.Kind,
				fmt.Sprintf("%d", r.TokenID),
				eventDetail(r),
			})
		}
		fmt.Println(t.Render())
		return nil
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch registry events live",
	RunE: func(cmd *cobra.Command, args []string) error {
		model := ui.WatchModel{
			Title: fmt.Sprintf("%s (%s)", cfg.Name, cfg.Symbol),
			Poll: func(after int64) ([]ui.EventRow, error) {
				log, err := eventlog.Open(cfg.EventLogPath())
				if err != nil {
					return nil, err
				}
				defer log.Close()
				records, err := log.Since(after)
				if err != nil {
					return nil, err
				}
				rows := make([]ui.EventRow, 0, len(records))
				for _, r := range records {
					rows = append(rows, ui.EventRow{
						Seq:     r.ID,
						At:      r.At,
						Kind:    r.Kind,
						TokenID: r.TokenID,
						Detail:  eventDetail(r),
					})
				}
				return rows, nil
			},
		}
		_, err := tea.NewProgram(model).Run()
		return err
	},
}

// eventDetail renders the event-specific addresses compactly.
func eventDetail(r eventlog.Record) string {
	short := func(s, fallback string) string {
		if s == "" {
			return fallback
		}
		return ui.TruncateAddr(s)
	}
	switch r.Kind {
	case "Transfer":
		return fmt.Sprintf("%s → %s", short(r.Sender, "mint"), short(r.Receiver, "burn"))
	case "Approval":
		return fmt.Sprintf("%s ⇒ %s", short(r.Owner, "?"), short(r.Approved, "none"))
	case "ApprovalForAll":
		state := "revoked"
		if r.Enabled {
			state = "granted"
		}
		return fmt.Sprintf("%s operator %s %s", short(r.Owner, "?"), short(r.Operator, "?"), state)
	}
	return ""
}

func init() {
	eventsCmd.Flags().IntVar(&eventsLimit, "limit", 25, "max events to list")
}
