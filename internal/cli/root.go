// Package cli implements the hearthshare command line: inspect today's
// assignments, record completions, and manage the household's tasks.
package cli

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/hearthshare/hearthshare/internal/config"
	"github.com/hearthshare/hearthshare/internal/database"
	"github.com/hearthshare/hearthshare/internal/logging"
	"github.com/hearthshare/hearthshare/internal/rotation"
	"github.com/hearthshare/hearthshare/internal/service"
)

type configKey struct{}

func withConfig(ctx context.Context, cfg config.Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

func configFrom(ctx context.Context) config.Config {
	cfg, ok := ctx.Value(configKey{}).(config.Config)
	if !ok {
		panic("cli: config missing from context")
	}
	return cfg
}

func NewRootCmd(version string) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:          "hearthshare",
		Short:        "Hearthshare — fair rotation of shared household tasks",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logging.Setup(cfg.LogLevel, cfg.LogFormat)
			cmd.SetContext(withConfig(cmd.Context(), cfg))
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "hearthshare.yaml", "Path to config file (env: HEARTHSHARE_*)")

	cmd.AddCommand(newAssignCmd())
	cmd.AddCommand(newCompleteCmd())
	cmd.AddCommand(newOrderCmd())
	cmd.AddCommand(newHistoryCmd())
	cmd.AddCommand(newTasksCmd())
	cmd.AddCommand(newMembersCmd())
	cmd.AddCommand(newSeedCmd())

	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)

	cmd.SetVersionTemplate("{{.Version}}\n")
	if version != "" {
		cmd.Version = version
	} else {
		cmd.Version = "dev"
	}

	return cmd
}

// openService opens the database and builds the rotation service; the
// returned closer must run before the command exits.
func openService(cmd *cobra.Command) (*service.Rotation, func(), error) {
	cfg := configFrom(cmd.Context())

	loc, err := loadLocation(cfg.Timezone)
	if err != nil {
		return nil, nil, err
	}

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}
	svc := service.NewRotation(db, nil, loc, cfg.ProjectionDays)
	return svc, func() { closeDB(db) }, nil
}

func loadLocation(name string) (*time.Location, error) {
	if name == "" || name == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", name, err)
	}
	return loc, nil
}

func closeDB(db *sql.DB) {
	_ = db.Close()
}

// defaultDate is today in the configured timezone, as a day key.
func defaultDate(cmd *cobra.Command) (string, error) {
	cfg := configFrom(cmd.Context())
	loc, err := loadLocation(cfg.Timezone)
	if err != nil {
		return "", err
	}
	return time.Now().In(loc).Format(rotation.DateLayout), nil
}

func resolveDate(cmd *cobra.Command, flag string) (string, error) {
	if flag == "" {
		return defaultDate(cmd)
	}
	if _, err := time.Parse(rotation.DateLayout, flag); err != nil {
		return "", fmt.Errorf("invalid date %q, want YYYY-MM-DD", flag)
	}
	return flag, nil
}
