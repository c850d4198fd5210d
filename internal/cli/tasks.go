package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newTasksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List task definitions",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, done, err := openService(cmd)
			if err != nil {
				return err
			}
			defer done()

			tasks, err := svc.Tasks()
			if err != nil {
				return err
			}
			if len(tasks) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No tasks defined; try `hearthshare seed --file <seed.yaml>`")
				return nil
			}

			for _, t := range tasks {
				policy := "none"
				if t.RotationSettings != nil {
					policy = t.RotationSettings.Type
					if t.RotationSettings.Value > 0 {
						policy = fmt.Sprintf("%s=%d%s", policy, t.RotationSettings.Value, unitSuffix(t.RotationSettings.Unit))
					}
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-24s %dx/day  users=[%s]  rotation=%v policy=%s\n",
					t.Title, t.TimesPerDay, strings.Join(t.Users, ", "),
					t.HasSetting("Rotation"), policy)
			}
			return nil
		},
	}
	return cmd
}

func unitSuffix(unit string) string {
	if unit == "" {
		return ""
	}
	return " " + unit
}

func newMembersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "members",
		Short: "List household members",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, done, err := openService(cmd)
			if err != nil {
				return err
			}
			defer done()

			members, err := svc.Members()
			if err != nil {
				return err
			}
			for _, m := range members {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", m.AvatarEmoji, m.Name)
			}
			return nil
		},
	}
}
