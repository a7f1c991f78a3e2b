package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mriview/pkg/config"
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
}

var configCmd = &cobra.Command{
	Use:   `config`,
	Short: `manage the configuration file`,
}

var configInitCmd = &cobra.Command{
	Use:   `init [path]`,
	Short: `write a configuration file with default values`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configFlag
		if len(args) == 1 {
			path = args[0]
		}
		if err := config.CreateDefaultConfigFile(path); err != nil {
			return err
		}
		fmt.Printf("Default configuration written to: %s\n", path)
		return nil
	},
}
