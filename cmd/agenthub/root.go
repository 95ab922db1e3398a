package agenthub

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "1.0.0"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "agenthub",
	Short: "agenthub - a personal agent gateway with agent-to-agent routing",
	Long:  "agenthub hosts a personal language-model agent behind a REST API and routes @-mentions in incoming messages to registered peer agents over the A2A protocol.",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.agenthub/agenthub.toml)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(factsCmd)
	rootCmd.AddCommand(statusCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of agenthub",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("agenthub v%s\n", version)
	},
}
