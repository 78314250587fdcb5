// Foundationd resolves the process environment the way an embedding service
// would and reports it, either once on the command line or continuously over
// the diagnostics HTTP server.
//
// Usage:
//
//	foundationd serve [flags]
//	foundationd env
//	foundationd property NAME [--default VALUE]
//	foundationd managers
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kbukum/foundation/bootstrap"
	"github.com/kbukum/foundation/config"
	"github.com/kbukum/foundation/defaults"
	"github.com/kbukum/foundation/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// Persistent flags.
var (
	configFile string
	envFile    string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:           "foundationd",
	Short:         "Resolve and report the process environment",
	Version:       version.Short(),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to config.yml (default: search standard locations)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Path to a .env file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level override (debug, info, warn, error)")

	rootCmd.AddCommand(serveCmd, envCmd, propertyCmd, managersCmd)
}

// loadConfig loads the application config honoring the persistent flags.
func loadConfig() (*bootstrap.Config, error) {
	var opts []config.LoaderOption
	if configFile != "" {
		opts = append(opts, config.WithConfigFile(configFile))
	}
	if envFile != "" {
		opts = append(opts, config.WithEnvFile(envFile))
	}
	cfg, err := bootstrap.LoadConfig(defaults.ServiceName, opts...)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	return cfg, nil
}
