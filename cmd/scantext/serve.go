package main

import (
	"github.com/spf13/cobra"

	"github.com/jackzampolin/scantext/internal/server"
)

var (
	serveHost  string
	servePort  string
	serveBasic bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the scantext server and browser UI",
	Long: `Start the scantext HTTP server.

The server holds one session and serves the browser UI at /. The OCR
endpoint is read from config and follows edits to the config file.

The server provides:
  - /health - Basic server health check
  - /ready  - Readiness check (includes OCR endpoint reachability)
  - /api/*  - Session API (see 'scantext api --help')

Examples:
  scantext serve                                  # Start on 127.0.0.1:8080
  scantext serve --port 3000                      # Start on custom port
  scantext serve --ocr-url http://ocr.local:5000  # Use a remote OCR server
  scantext serve --basic                          # Disable editing and fullscreen`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		logger := newLogger()

		h, err := getHome()
		if err != nil {
			return err
		}
		if err := h.EnsureExists(); err != nil {
			return err
		}

		cm, err := loadConfig(h, logger)
		if err != nil {
			return err
		}
		if serveBasic {
			if err := cm.Override("ui.enhanced", false); err != nil {
				return err
			}
		}
		if cm.WatchConfig() {
			logger.Info("watching config for changes", "file", cm.ConfigFileUsed())
		}

		srv, err := server.New(server.Config{
			Host:          serveHost,
			Port:          servePort,
			ConfigManager: cm,
			Home:          h,
			Logger:        logger,
		})
		if err != nil {
			return err
		}

		// Start server (blocks until shutdown)
		return srv.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Host to bind to (default: server.host)")
	serveCmd.Flags().StringVar(&servePort, "port", "", "Port to listen on (default: server.port)")
	serveCmd.Flags().BoolVar(&serveBasic, "basic", false, "Serve the basic variant without editing")
	addOCRFlag(serveCmd)

	rootCmd.AddCommand(serveCmd)
}
