package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bimmerbailey/clarifier/internal/recommend"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend <objective>",
	Short: "Print one recommendation for an objective",
	Long: `Run the same startup sequence as serve, then ask for a single recommendation
and print it.

Examples:
  clarifier recommend "make login faster"
  clarifier recommend "make login faster" --context "mobile app, EU users" -f json`,
	Args: cobra.ExactArgs(1),
	RunE: runRecommend,
}

func init() {
	recommendCmd.Flags().StringP("context", "c", "", "background that narrows the objective")
	rootCmd.AddCommand(recommendCmd)
}

func runRecommend(cmd *cobra.Command, args []string) error {
	logger := newLogger(cmd.ErrOrStderr())

	a, err := startup(cmd.Context(), logger, startupOptions{})
	if err != nil {
		logger.Error("startup failed", "error", err)
		return err
	}
	return recommendWith(cmd, a, args[0])
}

func recommendWith(cmd *cobra.Command, a *app, objective string) error {
	svc, err := recommend.NewService(a.provider, a.logger, viper.GetDuration("inference_timeout"))
	if err != nil {
		return err
	}

	req := recommend.Request{Objective: objective}
	if c, _ := cmd.Flags().GetString("context"); c != "" {
		req.Context = &c
	}

	resp, err := svc.Recommend(cmd.Context(), a.cfg.BedrockModelID, req)
	if err != nil {
		return err
	}

	return newOutput(cmd).WriteRecommendation(resp)
}
