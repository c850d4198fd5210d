package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

func newAssignCmd() *cobra.Command {
	var task string
	var date string

	cmd := &cobra.Command{
		Use:   "assign",
		Short: "Show who is assigned to each occurrence of a task on a date",
		RunE: func(cmd *cobra.Command, args []string) error {
			if task == "" {
				return fmt.Errorf("--task is required")
			}
			day, err := resolveDate(cmd, date)
			if err != nil {
				return err
			}

			svc, done, err := openService(cmd)
			if err != nil {
				return err
			}
			defer done()

			assignments, err := svc.Assignments(task, day)
			if err != nil {
				return err
			}
			if len(assignments) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No assignments for %q on %s\n", task, day)
				return nil
			}

			indexes := make([]int, 0, len(assignments))
			for i := range assignments {
				indexes = append(indexes, i)
			}
			sort.Ints(indexes)

			for _, i := range indexes {
				a := assignments[i]
				if a.Completed {
					fmt.Fprintf(cmd.OutOrStdout(), "%2d. %-12s done by %s at %s\n",
						i, a.Assigned, a.CompletedBy, a.Time.Format("15:04"))
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%2d. %-12s open\n", i, a.Assigned)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&task, "task", "", "Task title")
	cmd.Flags().StringVar(&date, "date", "", "Date (YYYY-MM-DD, default today)")
	_ = cmd.MarkFlagRequired("task")
	return cmd
}
