package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hitoshi/smarttime/internal/model"
)

type meetingFlags struct {
	title       string
	description string
	location    string
	start       string
	end         string
}

func (f *meetingFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "title")
	cmd.Flags().StringVar(&f.description, "description", "", "description")
	cmd.Flags().StringVar(&f.location, "location", "", "location")
	cmd.Flags().StringVar(&f.start, "start", "", "start time (YYYY-MM-DDTHH:MM)")
	cmd.Flags().StringVar(&f.end, "end", "", "end time (YYYY-MM-DDTHH:MM)")
}

func meetingsCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "meetings",
		Short: "List and edit meetings",
	}
	cmd.AddCommand(meetingsListCmd(rt), meetingsCreateCmd(rt), meetingsUpdateCmd(rt), meetingsDeleteCmd(rt))
	return cmd
}

func meetingsListCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List meetings",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := rt.context(cmd)
			defer cancel()

			meetings, err := rt.client.Meetings.GetMeetings(ctx)
			if err != nil {
				return err
			}

			w := newTable(cmd.OutOrStdout())
			fmt.Fprintln(w, "ID\tTITLE\tSTART\tEND\tLOCATION")
			for _, m := range meetings {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
					m.ID, m.Title, formatTime(&m.StartTime), formatTime(&m.EndTime), orDash(m.Location))
			}
			return w.Flush()
		},
	}
}

func meetingsCreateCmd(rt *runtime) *cobra.Command {
	var f meetingFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a meeting",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := parseTime(f.start)
			if err != nil {
				return err
			}
			end, err := parseTime(f.end)
			if err != nil {
				return err
			}
			if !end.After(start) {
				return errors.New("--end must be after --start")
			}

			in := model.MeetingCreate{Title: f.title, StartTime: start, EndTime: end}
			if cmd.Flags().Changed("description") {
				in.Description = &f.description
			}
			if cmd.Flags().Changed("location") {
				in.Location = &f.location
			}

			ctx, cancel := rt.context(cmd)
			defer cancel()

			m, err := rt.client.Meetings.CreateMeeting(ctx, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created meeting %d\n", m.ID)
			return nil
		},
	}

	f.register(cmd)
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}

func meetingsUpdateCmd(rt *runtime) *cobra.Command {
	var f meetingFlags

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update the given fields of a meeting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			var in model.MeetingUpdate
			changed := cmd.Flags().Changed
			if changed("title") {
				in.Title = &f.title
			}
			if changed("description") {
				in.Description = &f.description
			}
			if changed("location") {
				in.Location = &f.location
			}
			if changed("start") {
				t, err := parseTime(f.start)
				if err != nil {
					return err
				}
				in.StartTime = &t
			}
			if changed("end") {
				t, err := parseTime(f.end)
				if err != nil {
					return err
				}
				in.EndTime = &t
			}

			ctx, cancel := rt.context(cmd)
			defer cancel()

			if _, err := rt.client.Meetings.UpdateMeeting(ctx, id, in); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated meeting %d\n", id)
			return nil
		},
	}

	f.register(cmd)
	return cmd
}

func meetingsDeleteCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:     "delete ID",
		Aliases: []string{"rm"},
		Short:   "Delete a meeting",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			ctx, cancel := rt.context(cmd)
			defer cancel()

			if err := rt.client.Meetings.DeleteMeeting(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted meeting %d\n", id)
			return nil
		},
	}
}
