package main

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cloudnative-denmark/conference-companion/internal/schedule/client"
	"github.com/cloudnative-denmark/conference-companion/internal/schedule/domain"
	"github.com/cloudnative-denmark/conference-companion/internal/schedule/service"
	"github.com/cloudnative-denmark/conference-companion/internal/timefmt"
)

// fetchSchedule reads and reconciles the schedule straight from the provider.
func (o *options) fetchSchedule(ctx context.Context) (*service.ScheduleService, timefmt.Formatter, error) {
	loc, err := o.cfg.Schedule.Location()
	if err != nil {
		return nil, timefmt.Formatter{}, err
	}
	formatter := timefmt.NewFormatter(loc, nil)

	sessionize := client.NewSessionizeClient(client.Options{
		BaseURL: o.cfg.Sessionize.BaseURL,
		EventID: o.cfg.Sessionize.EventID,
		Timeout: o.cfg.Sessionize.Timeout,
	})
	schedule := service.NewScheduleService(client.NewFeed(sessionize))
	if err := schedule.Refetch(ctx); err != nil {
		return nil, formatter, err
	}
	return schedule, formatter, nil
}

func title(s domain.Session) string {
	if s.Title != "" {
		return s.Title
	}
	return s.Name
}

func speakerNames(s domain.Session) string {
	names := make([]string, 0, len(s.Speakers))
	for _, sp := range s.Speakers {
		name := sp.FullName
		if name == "" {
			name = sp.Name
		}
		if name != "" {
			names = append(names, name)
		}
	}
	return strings.Join(names, ", ")
}

func timetableCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "timetable",
		Short: "Print the schedule as a table per day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			schedule, f, err := opts.fetchSchedule(cmd.Context())
			if err != nil {
				return err
			}
			days := service.BuildTimetables(f, schedule.Schedule())
			if opts.json {
				return writeJSON(cmd.OutOrStdout(), days)
			}
			printTimetables(cmd.OutOrStdout(), days)
			return nil
		},
	}
}

func printTimetables(w io.Writer, days []service.Timetable) {
	for i, day := range days {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, day.Label)

		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		for _, row := range day.Rows {
			for _, cell := range row.Cells {
				if cell.Empty {
					continue
				}
				room := cell.RoomName
				if row.Plenum {
					room = "All rooms"
				}
				line := title(*cell.Session)
				if who := speakerNames(*cell.Session); who != "" {
					line += " (" + who + ")"
				}
				if cell.RowSpan > 1 {
					line += fmt.Sprintf(" [%d slots]", cell.RowSpan)
				}
				fmt.Fprintf(tw, "  %s\t%s\t%s\n", row.Label, room, line)
			}
		}
		tw.Flush()
	}
}

func sessionsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "sessions",
		Short: "List every content session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			schedule, f, err := opts.fetchSchedule(cmd.Context())
			if err != nil {
				return err
			}
			sessions := schedule.AllSessions()
			if opts.json {
				return writeJSON(cmd.OutOrStdout(), sessions)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tSTARTS\tROOM\tTITLE")
			for _, s := range sessions {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.ID, f.FormatDateTimeDetailed(s.StartsAt), s.Room, title(s))
			}
			return tw.Flush()
		},
	}
}

func sessionCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "session <id>",
		Short: "Show one session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			schedule, f, err := opts.fetchSchedule(cmd.Context())
			if err != nil {
				return err
			}
			s, err := schedule.SessionByID(args[0])
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			if opts.json {
				return writeJSON(cmd.OutOrStdout(), s)
			}
			printSession(cmd.OutOrStdout(), f, s)
			return nil
		},
	}
}

func printSession(w io.Writer, f timefmt.Formatter, s domain.Session) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Title:\t%s\n", title(s))
	fmt.Fprintf(tw, "Room:\t%s\n", s.Room)
	fmt.Fprintf(tw, "When:\t%s - %s\n", f.FormatDateTimeDetailed(s.StartsAt), f.FormatTimeDetailed(s.EndsAt))
	if mins := f.CalculateSessionDuration(s.StartsAt, s.EndsAt); !math.IsNaN(mins) {
		fmt.Fprintf(tw, "Duration:\t%.0f min\n", mins)
	}
	if who := speakerNames(s); who != "" {
		fmt.Fprintf(tw, "Speakers:\t%s\n", who)
	}

	status := "upcoming"
	switch {
	case f.HasSessionEnded(s.EndsAt):
		status = "ended"
	case f.HasSessionStarted(s.StartsAt):
		status = "in progress"
	}
	fmt.Fprintf(tw, "Status:\t%s\n", status)

	if s.SlideDeck != "" {
		fmt.Fprintf(tw, "Slides:\t%s\n", s.SlideDeck)
	}
	if s.RecordingURL != "" {
		fmt.Fprintf(tw, "Recording:\t%s\n", s.RecordingURL)
	}
	tw.Flush()
}

func speakerSessionsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "speaker-sessions <speakerId>",
		Short: "List the session ids a speaker presents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			schedule, _, err := opts.fetchSchedule(cmd.Context())
			if err != nil {
				return err
			}
			ids := schedule.SpeakerSessionIDs(args[0])
			if opts.json {
				return writeJSON(cmd.OutOrStdout(), ids)
			}
			for _, id := range ids {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	}
}
