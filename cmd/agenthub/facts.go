package agenthub

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"agenthub/pkg/config"
)

var factsCmd = &cobra.Command{
	Use:   "facts",
	Short: "Print the AgentFacts discovery document",
	RunE:  runFacts,
}

func runFacts(cmd *cobra.Command, args []string) error {
	path := cfgFile
	if path == "" {
		path = config.DefaultConfigPath()
	}

	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	builder, err := buildFacts(cfg, buildTools(cfg, slog.New(slog.NewTextHandler(io.Discard, nil))))
	if err != nil {
		return fmt.Errorf("initializing agent facts: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(builder.Build())
}
