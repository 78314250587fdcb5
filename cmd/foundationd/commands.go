package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kbukum/foundation/bootstrap"
	"github.com/kbukum/foundation/discovery"
	"github.com/kbukum/foundation/logger"
	"github.com/kbukum/foundation/server/endpoint"
)

var (
	servePort    int
	propertyDflt string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the diagnostics HTTP server",
	Example: `  # Serve on the configured port
  foundationd serve

  # Serve on a custom port with debug logging
  foundationd serve --port 9000 --log-level debug`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		cfg.Server.Enabled = true
		if servePort != 0 {
			cfg.Server.Port = servePort
		}

		app, err := bootstrap.NewApp(cfg)
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return app.Run(ctx)
	},
}

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Print the resolved environment as JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := quietApp()
		if err != nil {
			return err
		}
		reg := app.Registry
		srv, net := reg.Server(), reg.Network()
		return printJSON(cmd, endpoint.EnvironmentView{
			AppID:       reg.Application().AppID(),
			Env:         srv.EnvType(),
			DataCenter:  srv.DataCenter(),
			HostAddress: net.HostAddress(),
			HostName:    net.HostName(),
			FellBack:    reg.FellBack(),
		})
	},
}

var propertyCmd = &cobra.Command{
	Use:   "property NAME",
	Short: "Print one resolved property",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := quietApp()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), app.Registry.Property(args[0], propertyDflt))
		return err
	},
}

var managersCmd = &cobra.Command{
	Use:   "managers",
	Short: "List the registered provider manager factories in discovery order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		catalog := discovery.Default()
		if catalog.Len() == 0 {
			return fmt.Errorf("no provider managers registered")
		}
		for _, name := range catalog.Names() {
			if _, err := fmt.Fprintln(cmd.OutOrStdout(), name); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Listen port (default from config)")
	propertyCmd.Flags().StringVar(&propertyDflt, "default", "", "Value printed when the property is absent")
}

// quietApp builds an app whose logs go to stderr so stdout stays parseable.
func quietApp() (*bootstrap.App, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	cfg.Server.Enabled = false
	cfg.Observability.Enabled = false
	if logLevel == "" {
		cfg.Logging.Level = "warn"
	}
	cfg.Logging.Output = "stderr"

	l := logger.New(&cfg.Logging, cfg.Name)
	logger.SetGlobalLogger(l)
	app, err := bootstrap.NewApp(cfg, bootstrap.WithLogger(l))
	if err != nil {
		return nil, err
	}
	return app, app.Start(context.Background())
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
