package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hitoshi/smarttime/internal/model"
)

// taskFlags はtasks createとtasks updateが共有するフラグ。
type taskFlags struct {
	title       string
	description string
	priority    string
	status      string
	start       string
	end         string
}

func (f *taskFlags) register(cmd *cobra.Command, withStatus bool) {
	cmd.Flags().StringVar(&f.title, "title", "", "title")
	cmd.Flags().StringVar(&f.description, "description", "", "description")
	cmd.Flags().StringVar(&f.priority, "priority", "", "priority: low, medium, high")
	if withStatus {
		cmd.Flags().StringVar(&f.status, "status", "", "status: pending, in_progress, completed")
	}
	cmd.Flags().StringVar(&f.start, "start", "", "start time (YYYY-MM-DDTHH:MM)")
	cmd.Flags().StringVar(&f.end, "end", "", "end time (YYYY-MM-DDTHH:MM)")
}

func tasksCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List and edit tasks",
	}
	cmd.AddCommand(tasksListCmd(rt), tasksCreateCmd(rt), tasksUpdateCmd(rt), tasksDeleteCmd(rt))
	return cmd
}

func tasksListCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := rt.context(cmd)
			defer cancel()

			tasks, err := rt.client.Tasks.GetTasks(ctx)
			if err != nil {
				return err
			}

			w := newTable(cmd.OutOrStdout())
			fmt.Fprintln(w, "ID\tTITLE\tPRIORITY\tSTATUS\tSTART\tEND")
			for _, t := range tasks {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
					t.ID, t.Title, t.Priority, t.Status, formatTime(t.StartTime), formatTime(t.EndTime))
			}
			return w.Flush()
		},
	}
}

func tasksCreateCmd(rt *runtime) *cobra.Command {
	var f taskFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := model.TaskCreate{
				Title:    f.title,
				Priority: model.TaskPriority(f.priority),
			}
			if cmd.Flags().Changed("description") {
				in.Description = &f.description
			}
			if f.start != "" {
				t, err := parseTime(f.start)
				if err != nil {
					return err
				}
				in.StartTime = &t
			}
			if f.end != "" {
				t, err := parseTime(f.end)
				if err != nil {
					return err
				}
				in.EndTime = &t
			}

			ctx, cancel := rt.context(cmd)
			defer cancel()

			task, err := rt.client.Tasks.CreateTask(ctx, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created task %d\n", task.ID)
			return nil
		},
	}

	f.register(cmd, false)
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

// tasksUpdateCmd は指定されたフラグのフィールドだけを送る部分更新。
func tasksUpdateCmd(rt *runtime) *cobra.Command {
	var f taskFlags

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update the given fields of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			var in model.TaskUpdate
			changed := cmd.Flags().Changed
			if changed("title") {
				in.Title = &f.title
			}
			if changed("description") {
				in.Description = &f.description
			}
			if changed("priority") {
				p := model.TaskPriority(f.priority)
				in.Priority = &p
			}
			if changed("status") {
				s := model.TaskStatus(f.status)
				in.Status = &s
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

			if _, err := rt.client.Tasks.UpdateTask(ctx, id, in); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated task %d\n", id)
			return nil
		},
	}

	f.register(cmd, true)
	return cmd
}

func tasksDeleteCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:     "delete ID",
		Aliases: []string{"rm"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			ctx, cancel := rt.context(cmd)
			defer cancel()

			if err := rt.client.Tasks.DeleteTask(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted task %d\n", id)
			return nil
		},
	}
}
