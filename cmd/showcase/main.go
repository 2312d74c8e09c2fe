package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"dconn.dev/showcase/internal/config"
	"dconn.dev/showcase/internal/logging"
	"dconn.dev/showcase/internal/render"
	"dconn.dev/showcase/internal/services"
)

var (
	// Global flags
	configPath string
	verbose    bool
	logFormat  string

	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "showcase",
	Short: "Filterable project card grid",
	Long: `showcase renders a grid of project cards from a data.json file and lets
visitors filter it by tag.

Run "showcase serve" for the web server or "showcase generate <dir>" to
export every filter as static HTML.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}

		level := cfg.Logging.Level
		if verbose {
			level = "debug"
		}
		format := cfg.Logging.Format
		if cmd.Flags().Changed("log-format") {
			format = logFormat
		}
		logger, err = logging.New(level, format)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "path to YAML config")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "json", "log format: json or console")

	rootCmd.AddCommand(serveCmd, generateCmd)
}

// newRenderer parses the templates for links and pairs them with the markdown renderer
func newRenderer(links render.Links) (*render.Renderer, services.DescriptionRenderer, error) {
	renderer, err := render.New(links)
	if err != nil {
		return nil, nil, err
	}
	return renderer, render.NewMarkdown(), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
