package app

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/spf13/cobra"

	"github.com/issuebridge/issuebridge-server/internal/logger"
)

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply pending database migrations",
	Long: `Apply all pending database migrations to bring the schema up to date.
This command will read the database connection parameters from the config file
and apply all migrations that haven't been run yet.`,
	RunE: runMigrateUp,
}

func runMigrateUp(cmd *cobra.Command, _ []string) error {
	m, cfg, err := migratorFromFlags(cmd)
	if err != nil {
		return err
	}

	proceed, err := confirmOrAbort(cmd, "apply migrations", cfg)
	if err != nil || !proceed {
		return err
	}

	steps, err := cmd.Flags().GetUint("num-steps")
	if err != nil {
		return fmt.Errorf("failed to get num-steps flag: %w", err)
	}

	logger.Infof("Applying database migrations...")
	if steps > 0 {
		err = m.Steps(int(steps)) //nolint:gosec // bounded by flag parsing
	} else {
		err = m.Up()
	}
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Infof("Database schema is already up to date")
		err = nil
	}
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	reportVersion(m)
	return nil
}
