// Package app provides the entry point for the IssueBridge sync server.
package app

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/issuebridge/issuebridge-server/internal/config"
	"github.com/issuebridge/issuebridge-server/internal/logger"
	"github.com/issuebridge/issuebridge-server/internal/versions"
)

var rootCmd = &cobra.Command{
	Use:               "issuebridge",
	DisableAutoGenTag: true,
	Short:             "IssueBridge sync server",
	Long: `IssueBridge keeps GitLab issues synchronized between two instances.
It mirrors issues and comments across configured project pairs, detects
concurrent edits as conflicts and exposes a management REST API.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.Initialize(viper.GetBool("debug"))
	},
	Run: func(cmd *cobra.Command, _ []string) {
		// If no subcommand is provided, print help
		if err := cmd.Help(); err != nil {
			logger.Errorf("Error displaying help: %v", err)
		}
	},
}

// NewRootCmd creates a new root command for the IssueBridge server.
func NewRootCmd() *cobra.Command {
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	if err := viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug")); err != nil {
		logger.Errorf("Error binding debug flag: %v", err)
	}

	viper.SetEnvPrefix(config.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(migrateCmd)

	return rootCmd
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, _ []string) {
		info := versions.GetVersionInfo()
		format, err := cmd.Flags().GetString("format")
		if err != nil {
			logger.Errorf("Error retrieving format flag: %v", err)
			return
		}

		if format == "json" {
			output, err := json.MarshalIndent(info, "", "  ")
			if err != nil {
				logger.Errorf("Error formatting version info as JSON: %v", err)
				return
			}
			fmt.Println(string(output))
		} else {
			fmt.Printf("issuebridge %s (commit %s, built %s, %s, %s)\n",
				info.Version, info.Commit, info.BuildDate, info.GoVersion, info.Platform)
		}
	},
}

func init() {
	versionCmd.Flags().String("format", "", "Output format (json)")
}
