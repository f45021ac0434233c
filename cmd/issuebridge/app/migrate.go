package app

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/spf13/cobra"

	"github.com/issuebridge/issuebridge-server/database"
	"github.com/issuebridge/issuebridge-server/internal/config"
	"github.com/issuebridge/issuebridge-server/internal/logger"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Database migration tool",
	Long:  `Database migration tool for managing schema versions. Use with 'up' or 'down' subcommands.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Usage()
	},
}

func init() {
	migrateCmd.PersistentFlags().BoolP("yes", "y", false, "Answer yes to all questions")
	migrateCmd.PersistentFlags().UintP("num-steps", "n", 0, "Number of steps to migrate (0 = all)")
	migrateCmd.PersistentFlags().String("config", "", "Path to configuration file (YAML format, required)")

	if err := migrateCmd.MarkPersistentFlagRequired("config"); err != nil {
		panic(err)
	}

	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
}

// migratorFromFlags loads the config named by the --config flag and
// returns a migrator connected to its database.
func migratorFromFlags(cmd *cobra.Command) (database.Migrator, *config.Config, error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get config flag: %w", err)
	}

	cfg, err := config.LoadConfig(config.WithConfigPath(configPath))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Database == nil {
		return nil, nil, fmt.Errorf("database configuration is required")
	}

	connString, err := cfg.Database.GetConnectionString()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	m, err := database.NewFromConnectionString(connString)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create migrator: %w", err)
	}
	return m, cfg, nil
}

// confirmOrAbort prompts the user unless --yes was given. It returns
// true when the operation should proceed.
func confirmOrAbort(cmd *cobra.Command, action string, cfg *config.Config) (bool, error) {
	yes, err := cmd.Flags().GetBool("yes")
	if err != nil {
		return false, fmt.Errorf("failed to get yes flag: %w", err)
	}
	if yes {
		return true, nil
	}

	logger.Infof("About to %s on database: %s@%s:%d/%s",
		action, cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Database)
	fmt.Print("Continue? (yes/no): ")
	var response string
	if _, err := fmt.Scanln(&response); err != nil {
		return false, fmt.Errorf("failed to read user input: %w", err)
	}
	if response != "yes" && response != "y" {
		logger.Infof("Migration cancelled by user")
		return false, nil
	}
	return true, nil
}

func reportVersion(m database.Migrator) {
	version, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		logger.Infof("Database has no applied migrations")
	case err != nil:
		logger.Warnf("Unable to get migration version: %v", err)
	case dirty:
		logger.Warnf("Database is in a dirty state at version %d", version)
	default:
		logger.Infof("Current schema version: %d", version)
	}
}
