package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/scantext/internal/api"
	"github.com/jackzampolin/scantext/internal/backend"
)

var backendLogsTail string

var backendCmd = &cobra.Command{
	Use:   "backend",
	Short: "Manage a local OCR server container",
	Long: `Manage a local OCR server running in Docker.

The image is taken from backend.image and published on
127.0.0.1:{backend.host_port}. Point ocr.base_url at that address to use it.

Examples:
  scantext backend start   # Pull, create and start the container
  scantext backend status  # Check container status
  scantext backend logs    # View container logs
  scantext backend stop    # Stop and remove the container`,
}

// BackendStatus reports the state of the OCR container.
type BackendStatus struct {
	Container string `json:"container" yaml:"container"`
	Status    string `json:"status" yaml:"status"`
	URL       string `json:"url" yaml:"url"`
	Ready     bool   `json:"ready" yaml:"ready"`
}

func (s BackendStatus) Text() string {
	ready := "no"
	if s.Ready {
		ready = "yes"
	}
	return fmt.Sprintf("Container: %s\nStatus:    %s\nURL:       %s\nReady:     %s", s.Container, s.Status, s.URL, ready)
}

var backendStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the OCR server container",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		mgr, err := getDockerManager()
		if err != nil {
			return err
		}
		defer mgr.Close()

		sp := newSpinner("Starting OCR backend...")
		sp.Start()
		err = mgr.Start(ctx)
		sp.Stop()
		if err != nil {
			return fmt.Errorf("failed to start OCR backend: %w", err)
		}

		printSuccess("OCR backend is running at %s", mgr.URL())
		return nil
	},
}

var backendStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop and remove the OCR server container",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := getDockerManager()
		if err != nil {
			return err
		}
		defer mgr.Close()

		if err := mgr.Stop(cmd.Context()); err != nil {
			return err
		}
		printSuccess("OCR backend stopped")
		return nil
	},
}

var backendStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the OCR server container status",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		mgr, err := getDockerManager()
		if err != nil {
			return err
		}
		defer mgr.Close()

		status, err := mgr.Status(ctx)
		if err != nil {
			return err
		}
		resp := BackendStatus{
			Container: mgr.ContainerName(),
			Status:    string(status),
			URL:       mgr.URL(),
		}
		if status == backend.StatusRunning {
			resp.Ready = backend.Probe(ctx, mgr.URL()) == nil
		}
		return api.Output(resp)
	},
}

var backendLogsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Print the OCR server container logs",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := getDockerManager()
		if err != nil {
			return err
		}
		defer mgr.Close()

		logs, err := mgr.Logs(cmd.Context(), backendLogsTail)
		if err != nil {
			return err
		}
		fmt.Print(logs)
		return nil
	},
}

func getDockerManager() (*backend.DockerManager, error) {
	h, err := getHome()
	if err != nil {
		return nil, err
	}
	cm, err := loadConfig(h, newLogger())
	if err != nil {
		return nil, err
	}
	b := cm.Get().Backend

	return backend.NewDockerManager(backend.DockerConfig{
		Image:         b.Image,
		ContainerName: b.ContainerName,
		HostPort:      b.HostPort,
		ContainerPort: b.ContainerPort,
	})
}

func init() {
	backendLogsCmd.Flags().StringVar(&backendLogsTail, "tail", "100", "Number of lines to show (or 'all')")

	backendCmd.AddCommand(backendStartCmd)
	backendCmd.AddCommand(backendStopCmd)
	backendCmd.AddCommand(backendStatusCmd)
	backendCmd.AddCommand(backendLogsCmd)
	rootCmd.AddCommand(backendCmd)
}
