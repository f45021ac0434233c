package app

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/spf13/cobra"

	"github.com/issuebridge/issuebridge-server/internal/logger"
)

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Revert database migrations",
	Long: `Revert applied database migrations. Without --num-steps this reverts
ALL migrations and drops the schema, including every stored issue link,
baseline and conflict record.`,
	RunE: runMigrateDown,
}

func runMigrateDown(cmd *cobra.Command, _ []string) error {
	m, cfg, err := migratorFromFlags(cmd)
	if err != nil {
		return err
	}

	proceed, err := confirmOrAbort(cmd, "REVERT migrations", cfg)
	if err != nil || !proceed {
		return err
	}

	steps, err := cmd.Flags().GetUint("num-steps")
	if err != nil {
		return fmt.Errorf("failed to get num-steps flag: %w", err)
	}

	logger.Infof("Reverting database migrations...")
	if steps > 0 {
		err = m.Steps(-int(steps)) //nolint:gosec // bounded by flag parsing
	} else {
		err = m.Down()
	}
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Infof("No migrations to revert")
		err = nil
	}
	if err != nil {
		return fmt.Errorf("failed to revert migrations: %w", err)
	}

	reportVersion(m)
	return nil
}
