package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSeedCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Import members and tasks from a YAML seed file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return fmt.Errorf("--file is required")
			}

			svc, done, err := openService(cmd)
			if err != nil {
				return err
			}
			defer done()

			members, tasks, err := svc.ImportSeed(file)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d members and %d tasks from %s\n", members, tasks, file)
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Seed file path")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
