package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	var task string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show a task's retained rotation ledger, oldest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			if task == "" {
				return fmt.Errorf("--task is required")
			}

			svc, done, err := openService(cmd)
			if err != nil {
				return err
			}
			defer done()

			records, err := svc.History(task)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No rotation history for %q\n", task)
				return nil
			}
			for _, rec := range records {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s -> %s  (%s)\n", rec.Date, rec.FromUser, rec.ToUser, rec.Reason)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&task, "task", "", "Task title")
	_ = cmd.MarkFlagRequired("task")
	return cmd
}
