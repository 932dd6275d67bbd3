package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/c2nes/datemath"
	"github.com/c2nes/datemath/internal/config"
)

type options struct {
	configPath string
	roundUp    bool
	jsonOutput bool
	until      bool
	debug      bool
	format     string
	tz         string
	weekStart  string
}

// session is everything one invocation needs once flags and config are merged.
type session struct {
	cfg    *config.Config
	now    time.Time
	parser *datemath.Parser
	log    *zap.Logger
}

func newRootCmd(clock clockwork.Clock) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "datemath [flags] [expression]",
		Short: "Evaluate date math expressions",
		Long: `Evaluate a date math expression and print the resulting time.

An expression is an anchor ("now" or an absolute date) followed by
operations: +N<unit>, -N<unit> or /<unit> to round. Absolute anchors are
separated from the operations by "||". Units: ms s m h d w M y.

  datemath now-1d/d
  datemath '2014-01-01T00:00:00Z||+1M/M' --round-up

Without an expression the current time is printed.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd, clock)
			if err != nil {
				return err
			}
			defer s.log.Sync() //nolint:errcheck

			input := s.now
			if expr := strings.Join(args, " "); expr != "" {
				var ok bool
				input, ok = s.parser.Parse(datemath.Expr(expr), s.cfg.RoundUp)
				if !ok {
					return fmt.Errorf("invalid expression %q", expr)
				}
			}

			out := cmd.OutOrStdout()
			if opts.until {
				fmt.Fprintln(out, input.Sub(s.now))
				return nil
			}
			return printTime(out, input, s.cfg.Format, s.cfg.JSON)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/datemath/config.toml)")
	flags.BoolVar(&opts.roundUp, "round-up", false, `round "/" operations to the end of the unit`)
	flags.BoolVar(&opts.jsonOutput, "json", false, "output in JSON")
	flags.BoolVar(&opts.debug, "debug", false, "debug")
	flags.StringVar(&opts.format, "format", time.RFC1123, "output format for local and target")
	flags.StringVar(&opts.tz, "tz", "", `timezone for "now" and dates without an offset (default: local)`)
	flags.StringVar(&opts.weekStart, "week-start", "sunday", "first day of the week")
	cmd.Flags().BoolVar(&opts.until, "until", false, "print time until (or since) the resolved time")

	cmd.AddCommand(newRangeCmd(&opts, clock))
	return cmd
}

// open loads the config file, lets explicitly set flags win over it and
// builds the parser. The clock is read exactly once.
func (o *options) open(cmd *cobra.Command, clock clockwork.Clock) (*session, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Format = o.format
	}
	if flags.Changed("tz") {
		cfg.Timezone = o.tz
	}
	if flags.Changed("week-start") {
		cfg.WeekStart = o.weekStart
	}
	if flags.Changed("round-up") {
		cfg.RoundUp = o.roundUp
	}
	if flags.Changed("json") {
		cfg.JSON = o.jsonOutput
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	weekStart, err := cfg.Weekday()
	if err != nil {
		return nil, err
	}

	log := zap.NewNop()
	if o.debug {
		if log, err = zap.NewDevelopment(); err != nil {
			return nil, err
		}
	}

	now := clock.Now().In(loc)
	log.Debug("evaluating",
		zap.Time("now", now),
		zap.Stringer("location", loc),
		zap.Stringer("week_start", weekStart),
		zap.Bool("round_up", cfg.RoundUp))

	parser := datemath.New(
		datemath.WithClock(clockwork.NewFakeClockAt(now)),
		datemath.WithLocation(loc),
		datemath.WithWeekStart(weekStart),
		datemath.WithLogger(log),
	)
	return &session{cfg: cfg, now: now, parser: parser, log: log}, nil
}

type jsonOut struct {
	Output     string
	Local      string
	UTC        string
	Unix       int64
	UnixMillis int64
	UnixMicros int64
	UnixNanos  int64
	Location   string
}

func printTime(w io.Writer, input time.Time, layout string, asJSON bool) error {
	var locationString string
	if input.Location() != time.Local && input.Location() != time.UTC {
		locationString = input.Location().String()
	}

	output := input.Format(layout)
	local := input.Local().Format(layout)
	utc := input.UTC().Format(time.RFC3339Nano)
	unix := input.Unix()
	unixMillis := input.UnixMilli()
	unixMicros := input.UnixMicro()
	unixNanos := input.UnixNano()

	if asJSON {
		out := jsonOut{output, local, utc, unix, unixMillis, unixMicros, unixNanos, locationString}
		return json.NewEncoder(w).Encode(out)
	}

	bold := color.New(color.Bold).SprintFunc()
	label := color.New(color.FgCyan).SprintFunc()

	if locationString != "" {
		fmt.Fprintln(w, bold(output), locationString)
	} else {
		fmt.Fprintln(w, bold(output))
	}
	fmt.Fprintln(w, local)
	fmt.Fprintln(w, utc)
	fmt.Fprintf(w, "%s\t%d\n", label("s"), unix)
	fmt.Fprintf(w, "%s\t%d\n", label("ms"), unixMillis)
	fmt.Fprintf(w, "%s\t%d\n", label("µs"), unixMicros)
	fmt.Fprintf(w, "%s\t%d\n", label("ns"), unixNanos)
	return nil
}
