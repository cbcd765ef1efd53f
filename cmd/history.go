package cmd

import (
	"errors"
	"fmt"
	"pbfiles/internal/model"

	"github.com/spf13/cobra"
)

var errHistoryDisabled = errors.New("history is disabled, set db_path in the config file or PBFILES_DB_PATH")

func newHistoryCommand(s *session) *cobra.Command {
	var (
		n      int
		failed bool
	)

	c := &cobra.Command{
		Use:   "history",
		Short: "View recent transfers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.withApp(func(app *App) error {
				return app.PrintHistory(n, failed)
			})
		},
	}

	c.Flags().IntVarP(&n, "limit", "n", 20, "number of history entries to show")
	c.Flags().BoolVar(&failed, "failed", false, "only show failed transfers")
	return c
}

// PrintHistory prints journal totals followed by the n most recent
// transfers, or only the failed ones, with the trash location of anything
// that was replaced or moved.
func (a *App) PrintHistory(n int, failedOnly bool) error {
	if a.History == nil {
		return errHistoryDisabled
	}

	stats, err := a.History.GetStats()
	if err != nil {
		return fmt.Errorf("failed to read history stats: %w", err)
	}
	if stats.Total == 0 {
		_, _ = fmt.Fprintln(a.Stdout, "no history yet")
		return nil
	}
	_, _ = fmt.Fprintf(a.Stdout, "%d transfers, %d succeeded, %d failed\n",
		stats.Total, stats.Success, stats.Failed)

	var histories []model.History
	if failedOnly {
		histories, err = a.History.GetFailed(n)
	} else {
		histories, err = a.History.GetRecent(n)
	}
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}
	if failedOnly && len(histories) == 0 {
		_, _ = fmt.Fprintln(a.Stdout, "no failed transfers")
		return nil
	}

	for _, h := range histories {
		status := "✓"
		if h.Status == model.StatusFailed {
			status = "✗"
		}

		_, _ = fmt.Fprintf(a.Stdout, "%s [%s] %-4s %s -> %s\n",
			status,
			h.TransferredAt.Format("2006-01-02 15:04:05"),
			h.Mode,
			h.SrcPath,
			h.DstPath,
		)
		if h.ReplacedTrash != "" {
			_, _ = fmt.Fprintf(a.Stdout, "    replaced file in trash: %s\n", h.ReplacedTrash)
		}
		if h.SourceTrash != "" {
			_, _ = fmt.Fprintf(a.Stdout, "    source in trash: %s\n", h.SourceTrash)
		}
		if h.ErrMsg != "" {
			_, _ = fmt.Fprintf(a.Stdout, "    error: %s\n", h.ErrMsg)
		}
	}

	return nil
}
