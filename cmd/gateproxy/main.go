// Command gateproxy is the entrypoint: a cobra root wiring viper config
// loading to internal/app.Run, the way the teacher's cmd/gate package is
// meant to be invoked from a cobra root in the full project.
package main

import (
	"fmt"
	"os"

	"github.com/gatekit/mcproxy/internal/app"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is overridden at build time via -ldflags "-X main.version=...".
var version = "dev"

var configFile string

func main() {
	root := &cobra.Command{
		Use:   "gateproxy",
		Short: "A Minecraft Java Edition MITM proxy",
	}
	root.PersistentFlags().StringVarP(&configFile, "config", "c", "config.yml", "path to config file")

	root.AddCommand(newRunCmd(), newVersionCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the proxy",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(); err != nil {
				return err
			}
			return app.Run()
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(version)
			return nil
		},
	}
}

func loadConfig() error {
	viper.SetConfigFile(configFile)
	viper.SetConfigType("yaml")
	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("error reading config file %q: %w", configFile, err)
	}
	return nil
}
