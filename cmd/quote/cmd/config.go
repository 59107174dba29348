// Package cmd - config commands
package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"quote-engine/internal/config"
	"quote-engine/internal/errors"
)

// configCmd manages configuration
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if configShowJSON {
			return writeJSON(cmd.OutOrStdout(), config.Get())
		}
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		if err := enc.Encode(config.Get()); err != nil {
			return err
		}
		return enc.Close()
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a default configuration file",
	Long: `Write a default configuration file. The format follows the extension:
YAML for .yaml and .yml, JSON otherwise.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigInit,
}

var (
	configShowJSON bool
	configForce    bool
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)

	configShowCmd.Flags().BoolVar(&configShowJSON, "json", false, "print JSON instead of YAML")
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "overwrite an existing file")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := "quote-engine.yaml"
	if len(args) > 0 {
		path = args[0]
	}
	if _, err := os.Stat(path); err == nil && !configForce {
		return errors.Newf(errors.TypeInput, "%s already exists (use --force to overwrite)", path)
	}
	if err := config.Default().Save(path); err != nil {
		return errors.Config("failed to write "+path, err)
	}
	quotesWriter(cmd).Success("Configuración escrita en %s", path)
	return nil
}
