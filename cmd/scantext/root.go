package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/scantext/internal/api"
	"github.com/jackzampolin/scantext/internal/config"
	"github.com/jackzampolin/scantext/internal/home"
	"github.com/jackzampolin/scantext/version"
)

var (
	cfgFile      string
	homeDir      string
	envFile      string
	outputFormat string
	verbose      bool
	ocrURL       string
)

var rootCmd = &cobra.Command{
	Use:   "scantext",
	Short: "Extract, edit and export text from images with an OCR server",
	Long: `scantext uploads an image to an OCR server, shows the extracted text,
lets you edit it, and exports it as a Word document, a PDF or a spreadsheet.

Run the browser UI with 'scantext serve', drive a running server with
'scantext api ...', or process a single image with 'scantext run'.`,
	Version:       version.GitRelease,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadDotEnv(envFile); err != nil {
			return err
		}
		return api.SetOutputFormat(outputFormat)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.scantext/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "scantext home directory (default: ~/.scantext)",
	)
	rootCmd.PersistentFlags().StringVar(
		&envFile, "env-file", ".env", "dotenv file loaded before reading config",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", string(api.DefaultOutput), "output format: text, yaml or json",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&verbose, "verbose", "v", false, "enable debug logging",
	)

	rootCmd.AddCommand(versionCmd)
}

// newLogger returns the process logger. Logs go to stderr so command output
// on stdout stays machine readable.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

func getHome() (*home.Dir, error) {
	return home.New(homeDir)
}

// loadConfig reads configuration. Without --config, a config file in the
// home directory takes precedence over the default search path.
func loadConfig(h *home.Dir, logger *slog.Logger) (*config.Manager, error) {
	path := cfgFile
	if path == "" && homeDir != "" && h.ConfigExists() {
		path = h.ConfigPath()
	}

	cm, err := config.NewManager(path)
	if err != nil {
		return nil, err
	}
	cm.SetLogger(logger)

	if ocrURL != "" {
		if err := cm.Override("ocr.base_url", ocrURL); err != nil {
			return nil, err
		}
	}
	if f := cm.ConfigFileUsed(); f != "" {
		logger.Debug("loaded config", "file", f)
	}
	return cm, nil
}

// addOCRFlag registers --ocr-url on commands that talk to the OCR server.
func addOCRFlag(cmd *cobra.Command) {
	cmd.Flags().StringVar(&ocrURL, "ocr-url", "", fmt.Sprintf("OCR server base URL (overrides ocr.base_url, env %s_OCR_BASE_URL)", config.EnvPrefix))
}
