// Package cmd provides the CLI commands for quote-engine.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"quote-engine/adapters/storage"
	"quote-engine/core/output"
	"quote-engine/internal/config"
	"quote-engine/internal/errors"
	"quote-engine/internal/logging"
)

// Version is set at build time with -ldflags "-X quote-engine/cmd/quote/cmd.Version=..."
var Version = "0.1.0"

var (
	cfgFile string
	verbose bool
	noColor bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "quote",
	Short: "Price electrical installation projects",
	Long: `quote prices electrical installation projects in Chilean pesos.

It picks the service plan that fits the project value, applies the
complexity, material, brand and urgency factors and compares billing
cycles. Quotes can be saved for clients and served over HTTP.

Examples:
  quote plans
  quote calculate --value 4500000 --complexity large --billing annual
  quote calculate --file project.hcl --project bodega --save
  quote compare --base 150000
  quote serve --addr :8080`,
	SilenceUsage: true,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (.yaml, .yml or .json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable coloured output")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	if cfgFile != "" {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		config.Set(cfg)
	}

	// Initialize logging
	cfg := config.Get()
	logCfg := cfg.Logging
	if verbose {
		logCfg.Level = "debug"
	}
	if err := logging.Initialize(logCfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "quote-engine version %s\n", Version)
	},
}

// formatter returns the formatter for name, falling back to the configured default
func formatter(name string) (output.Formatter, error) {
	cfg := config.Get()
	if name == "" {
		name = cfg.Output.DefaultFormat
	}
	reg := output.NewRegistry(cfg.Output.Color && !noColor)
	f, ok := reg.Get(output.Format(name))
	if !ok {
		return nil, errors.Newf(errors.TypeInput, "unknown format %q (available: %v)", name, reg.Formats())
	}
	return f, nil
}

// openStore opens the configured quote store
func openStore() (storage.Store, error) {
	return storage.Open(config.Get().Storage)
}
