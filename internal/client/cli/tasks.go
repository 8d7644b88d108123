package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	taskdto "todo_backend/internal/feature/tasks/transport/http/dto"
)

func (a *app) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List your tasks",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireLogin(); err != nil {
				return err
			}
			// Load swallows fetch errors; surface them here.
			if err := a.sess.Refresh(cmd.Context()); err != nil {
				return err
			}
			a.printTasks(a.sess.Tasks())
			return nil
		},
	}
}

func (a *app) printTasks(tasks []taskdto.TaskRes) {
	if len(tasks) == 0 {
		a.printf("No tasks yet\n")
		return
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	for _, t := range tasks {
		mark := " "
		if t.Status == "completed" {
			mark = "x"
		}
		fmt.Fprintf(tw, "[%s]\t%s\t%s\t%s\n", mark, t.ID, t.Title, t.Description)
	}
	_ = tw.Flush()
}

func (a *app) addCmd() *cobra.Command {
	var description string
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireLogin(); err != nil {
				return err
			}
			a.sess.SetForm(strings.Join(args, " "), description)
			if err := a.sess.SubmitTask(cmd.Context()); err != nil {
				return a.failure(err)
			}
			a.printTasks(a.sess.Tasks())
			return nil
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "task description")
	return cmd
}

func (a *app) editCmd() *cobra.Command {
	var title, description string
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a task's title or description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			task, err := a.lookup(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			a.sess.StartEdit(task)
			form := a.sess.Form()
			if cmd.Flags().Changed("title") {
				form.Title = title
			}
			if cmd.Flags().Changed("description") {
				form.Description = description
			}
			a.sess.SetForm(form.Title, form.Description)

			if err := a.sess.SubmitTask(cmd.Context()); err != nil {
				a.sess.CancelEdit()
				return a.failure(err)
			}
			a.printTasks(a.sess.Tasks())
			return nil
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "new title")
	cmd.Flags().StringVarP(&description, "description", "d", "", "new description")
	return cmd
}

func (a *app) toggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Flip a task between pending and completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			task, err := a.lookup(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := a.sess.ToggleStatus(cmd.Context(), task); err != nil {
				return a.failure(err)
			}
			a.printTasks(a.sess.Tasks())
			return nil
		},
	}
}

func (a *app) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireLogin(); err != nil {
				return err
			}
			if err := a.sess.DeleteTask(cmd.Context(), args[0]); err != nil {
				return a.failure(err)
			}
			a.printf("Task deleted\n")
			return nil
		},
	}
}

// lookup finds id in a freshly fetched list. Fetch failures are reported as
// they are, not as a missing task.
func (a *app) lookup(ctx context.Context, id string) (taskdto.TaskRes, error) {
	if err := a.requireLogin(); err != nil {
		return taskdto.TaskRes{}, err
	}
	if err := a.sess.Refresh(ctx); err != nil {
		return taskdto.TaskRes{}, fmt.Errorf("fetch tasks: %w", err)
	}
	task, ok := a.sess.FindTask(id)
	if !ok {
		return taskdto.TaskRes{}, fmt.Errorf("task %s not found", id)
	}
	return task, nil
}
