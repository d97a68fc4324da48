package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bimmerbailey/clarifier/internal/output"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "clarifier",
	Short: "Turns vague testing objectives into clear, measurable ones",
	Long: `Clarifier is a small recommendation service. It rewrites a loosely worded
testing objective into a specific, measurable one using an LLM hosted on
AWS Bedrock, or a deterministic local mock.

Configuration is read from an AWS Secrets Manager secret named by
SECRET_NAME, falling back to environment variables (and a .env file).

Examples:
  clarifier serve --addr :8080
  clarifier recommend "make login faster" --context "mobile app"
  clarifier config show --format table`,
	SilenceUsage: true,
}

// Execute is called by main.main(). It runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.clarifier.yaml)")
	rootCmd.PersistentFlags().StringP("format", "f", "text", "output format (text, json, table)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().String("color", "auto", "colorize text output (auto, always, never)")
	rootCmd.PersistentFlags().String("log-format", "text", "log format (text, json)")
	rootCmd.PersistentFlags().String("env-file", ".env", "dotenv file loaded before configuration is resolved")

	_ = viper.BindPFlag("format", rootCmd.PersistentFlags().Lookup("format"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("color", rootCmd.PersistentFlags().Lookup("color"))
	_ = viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
	_ = viper.BindPFlag("env_file", rootCmd.PersistentFlags().Lookup("env-file"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error finding home directory:", err)
			os.Exit(1)
		}

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigName(".clarifier")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("CLARIFIER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}

// setDefaults registers process settings. The configuration mapping itself
// (ENV, REGION, ...) never comes from here.
func setDefaults() {
	viper.SetDefault("format", "text")
	viper.SetDefault("verbose", false)
	viper.SetDefault("color", "auto")
	viper.SetDefault("log_format", "text")
	viper.SetDefault("env_file", ".env")
	viper.SetDefault("startup_timeout", defaultStartupTimeout)
	viper.SetDefault("inference_timeout", "60s")
	viper.SetDefault("aws.http_timeout", "15s")
	viper.SetDefault("server.address", ":8080")
	viper.SetDefault("server.env_prefix", false)
	viper.SetDefault("server.request_timeout", "90s")
	viper.SetDefault("server.shutdown_timeout", "10s")
}

// newOutput builds the command output writer from the format and color
// settings.
func newOutput(cmd *cobra.Command) *output.Writer {
	format := output.ParseFormat(viper.GetString("format"))
	return output.New(cmd.OutOrStdout(), format).WithColor(output.ParseColorMode(viper.GetString("color")))
}

// newLogger builds the process logger from the verbose and log_format
// settings. Logs always go to w, never to the command output.
func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if viper.GetBool("verbose") {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	if strings.EqualFold(viper.GetString("log_format"), "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
