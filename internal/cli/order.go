package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newOrderCmd() *cobra.Command {
	var task, date string

	cmd := &cobra.Command{
		Use:   "order",
		Short: "Show the task's rotation order: most-due member first",
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

			order, err := svc.Order(task, day)
			if err != nil {
				return err
			}
			if len(order) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No task matches %q\n", task)
				return nil
			}
			for i, user := range order {
				fmt.Fprintf(cmd.OutOrStdout(), "%2d. %s\n", i+1, user)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&task, "task", "", "Task title")
	cmd.Flags().StringVar(&date, "date", "", "Date (YYYY-MM-DD, default today)")
	_ = cmd.MarkFlagRequired("task")
	return cmd
}
