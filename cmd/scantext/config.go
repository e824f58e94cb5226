package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/scantext/internal/api"
	"github.com/jackzampolin/scantext/internal/config"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and initialize configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a default config file",
	Long: `Write the default configuration as YAML.

Without a path the file is written to ~/.scantext/config.yaml (or
<home>/config.yaml with --home).`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := getHome()
		if err != nil {
			return err
		}

		path := h.ConfigPath()
		if len(args) == 1 {
			path = args[0]
		} else if err := h.EnsureExists(); err != nil {
			return err
		}

		if _, err := os.Stat(path); err == nil && !configForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		if err := config.WriteDefault(path); err != nil {
			return err
		}
		printSuccess("Wrote %s", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := getHome()
		if err != nil {
			return err
		}
		cm, err := loadConfig(h, newLogger())
		if err != nil {
			return err
		}
		return api.Output(cm.Get())
	},
}

// DefaultsResponse lists every config key with its default.
type DefaultsResponse struct {
	Defaults []config.Entry `json:"defaults" yaml:"defaults"`
}

func (d DefaultsResponse) Text() string {
	var b strings.Builder
	for _, e := range d.Defaults {
		fmt.Fprintf(&b, "%-28s %-24v %s\n", e.Key, e.Value, e.Description)
	}
	return strings.TrimRight(b.String(), "\n")
}

var configDefaultsCmd = &cobra.Command{
	Use:   "defaults",
	Short: "List every config key with its default value",
	RunE: func(cmd *cobra.Command, args []string) error {
		return api.Output(DefaultsResponse{Defaults: config.DefaultEntries()})
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing file")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configDefaultsCmd)
	rootCmd.AddCommand(configCmd)
}
