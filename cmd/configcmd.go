package cmd

import (
	"github.com/spf13/cobra"

	"github.com/bimmerbailey/clarifier/internal/config"
	"github.com/bimmerbailey/clarifier/internal/llm"
	"github.com/bimmerbailey/clarifier/internal/output"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the resolved configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the resolved configuration with secrets masked",
	Long: `Resolve the configuration exactly as serve would and print every key, the
selected credential strategy and any required keys that are missing.
Secret values (CLIENT_SECRET, COGNITO_PASSWORD, API_KEY) are masked.

No inference provider is built, so this never logs in.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	logger := newLogger(cmd.ErrOrStderr())

	cfg, err := resolveConfig(cmd.Context(), logger, startupOptions{})
	if err != nil {
		return err
	}

	return newOutput(cmd).WriteConfig(configView(cfg))
}

// configView builds the masked report for cfg.
func configView(cfg *config.Config) output.ConfigView {
	strategy := llm.SelectStrategy(cfg.Env)

	required := make(map[config.Key]bool)
	for _, k := range strategy.RequiredKeys() {
		required[k] = true
	}

	view := output.ConfigView{
		Source:   string(cfg.Source),
		Strategy: string(strategy),
	}
	for _, k := range config.Keys() {
		view.Entries = append(view.Entries, output.ConfigEntry{
			Key:      string(k),
			EnvName:  k.EnvName(),
			Value:    cfg.Masked(k),
			Set:      cfg.Has(k),
			Required: required[k],
		})
	}
	for _, k := range cfg.Missing(strategy.RequiredKeys()) {
		view.Missing = append(view.Missing, string(k))
	}
	return view
}
