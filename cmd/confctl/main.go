// Command confctl inspects the conference schedule and exercises sign-in from
// a terminal.
package main

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/cloudnative-denmark/conference-companion/config"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type options struct {
	baseURL  string
	eventID  string
	timezone string
	timeout  time.Duration
	json     bool

	cfg *config.Config
}

func rootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:          "confctl",
		Short:        "Conference companion operator tool",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.baseURL, "base-url", "", "Sessionize API base URL (default from SESSIONIZE_BASE_URL)")
	flags.StringVar(&opts.eventID, "event", "", "Sessionize event id (default from SESSIONIZE_EVENT_ID)")
	flags.StringVar(&opts.timezone, "tz", "", "Time zone for displayed times (default from SCHEDULE_TIMEZONE)")
	flags.DurationVar(&opts.timeout, "timeout", 0, "Request timeout (default from SESSIONIZE_TIMEOUT)")
	flags.BoolVar(&opts.json, "json", false, "Print JSON instead of text")

	cmd.AddCommand(
		timetableCmd(opts),
		sessionsCmd(opts),
		sessionCmd(opts),
		speakerSessionsCmd(opts),
		loginCmd(opts),
	)
	return cmd
}

// load reads the environment configuration and applies flag overrides.
func (o *options) load() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if o.baseURL != "" {
		cfg.Sessionize.BaseURL = o.baseURL
	}
	if o.eventID != "" {
		cfg.Sessionize.EventID = o.eventID
	}
	if o.timezone != "" {
		cfg.Schedule.Timezone = o.timezone
	}
	if o.timeout > 0 {
		cfg.Sessionize.Timeout = o.timeout
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	o.cfg = cfg
	return nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
