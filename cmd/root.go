package cmd

import (
	stderrors "errors"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jasonmoo/scssexpand/internal/config"
	"github.com/jasonmoo/scssexpand/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "scssexpand",
	Short: "Resolve the full selector of any position in a nested style sheet",
	Long: `scssexpand prints the fully qualified selector of the rule enclosing a
position in an SCSS, LESS or CSS file, with '&' parent references, comma
lists and @at-root applied.

Examples:
  scssexpand resolve main.scss --line 12 --col 5
  scssexpand rules src/
  scssexpand find ".nav a:hover" src/
  scssexpand search hover src/`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

var (
	globalConfig   string
	globalOutput   string
	globalColor    string
	globalLogLevel string
)

// errReported is returned once an error has been written to the output, so
// the process exits non-zero without printing it twice.
var errReported = stderrors.New("error reported")

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil && !stderrors.Is(err, errReported) {
		logger.Error(err.Error())
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&globalConfig, "config", "c", "", "config file path (default "+config.DefaultFile+" if present)")
	rootCmd.PersistentFlags().StringVarP(&globalOutput, "output", "o", "", "Output format: text, json, yaml, markdown, template:<path>, plugin:<name>")
	rootCmd.PersistentFlags().StringVar(&globalColor, "color", "", "Color text output: auto, always, never")
	rootCmd.PersistentFlags().StringVar(&globalLogLevel, "log-level", "", "Log level: debug, info, warn, error")
}

var (
	cfg    = config.Default()
	logger = slog.Default()
)

// setup loads configuration, applies flag overrides and builds the logger.
func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(globalConfig)
	if err != nil {
		return err
	}
	cfg = loaded

	flags := cmd.Flags()
	if flags.Changed("output") {
		cfg.Output = globalOutput
	}
	if flags.Changed("color") {
		cfg.Color = globalColor
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = globalLogLevel
	}

	l, err := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	logger = l
	slog.SetDefault(logger)

	logger.Debug("configuration loaded",
		slog.String("config", globalConfig),
		slog.String("output", cfg.Output),
		slog.String("separator", cfg.Separator))
	return nil
}
