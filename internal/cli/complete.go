package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newCompleteCmd() *cobra.Command {
	var task, user, date string
	var occurrence int

	cmd := &cobra.Command{
		Use:   "complete",
		Short: "Record a completed occurrence and evaluate the rotation policy",
		RunE: func(cmd *cobra.Command, args []string) error {
			if task == "" || user == "" {
				return fmt.Errorf("--task and --user are required")
			}
			if occurrence < 1 {
				return fmt.Errorf("--occurrence must be a positive slot index")
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

			result, err := svc.Complete(task, day, user, occurrence, time.Now())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Recorded: %s finished occurrence %d of %q on %s\n", user, occurrence, task, day)
			fmt.Fprintf(out, "Rotation: %s\n", result.Decision.Reason)
			if result.Decision.Defaulted {
				fmt.Fprintln(out, "Note: decision was defaulted after a policy evaluation failure")
			}
			if result.Advanced {
				fmt.Fprintf(out, "Turn passed from %s to %s\n", result.PreviousUser, result.NewUser)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&task, "task", "", "Task title")
	cmd.Flags().StringVar(&user, "user", "", "Completing member name")
	cmd.Flags().IntVar(&occurrence, "occurrence", 1, "Occurrence slot index (1-based)")
	cmd.Flags().StringVar(&date, "date", "", "Date (YYYY-MM-DD, default today)")
	_ = cmd.MarkFlagRequired("task")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
