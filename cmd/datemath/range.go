package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"
)

func newRangeCmd(opts *options, clock clockwork.Clock) *cobra.Command {
	return &cobra.Command{
		Use:   "range <from> <to>",
		Short: "Evaluate a from/to pair, rounding from down and to up",
		Example: `  datemath range now-1d/d now-1d/d
  datemath range now-7d now --json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd, clock)
			if err != nil {
				return err
			}
			defer s.log.Sync() //nolint:errcheck

			start, end, ok := s.parser.ParseRange(args[0], args[1])
			if !ok {
				return fmt.Errorf("invalid range %q to %q", args[0], args[1])
			}

			out := cmd.OutOrStdout()
			if s.cfg.JSON {
				return json.NewEncoder(out).Encode(struct {
					Start time.Time
					End   time.Time
				}{start, end})
			}
			fmt.Fprintln(out, start.Format(time.RFC3339Nano))
			fmt.Fprintln(out, end.Format(time.RFC3339Nano))
			return nil
		},
	}
}
