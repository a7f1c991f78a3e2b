package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"mriview/internal/models"
	"mriview/pkg/config"
	"mriview/pkg/volumeio"
)

var rootCmd = &cobra.Command{
	Use:          filepath.Base(os.Args[0]),
	Short:        "inspect, resample and render medical volumes",
	Long:         "mriview prints volume metadata, resamples volumes to a target spacing and renders slices and Gabor kernels to PNG figures.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup()
	},
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
		os.Exit(1)
	},
}

var (
	configFlag  string
	verboseFlag bool

	cfg    *config.Config
	logger *slog.Logger
)

func init() {
	cobra.EnablePrefixMatching = true
	rootCmd.PersistentFlags().StringVarP(&configFlag, `config`, `c`, `mriview.yaml`, `configuration file`)
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, `verbose`, `v`, false, `debug logging`)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads the configuration and installs the logger
func setup() error {
	var err error
	cfg, err = config.LoadConfig(configFlag)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if verboseFlag || cfg.Output.Verbose {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// loadVolume reads a slice directory, NIfTI file or single image
func loadVolume(path string) (*models.Volume, error) {
	opts := cfg.SliceOptions()
	opts.Logger = logger
	vol, err := volumeio.Load(path, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	logger.Debug("loaded volume", "path", path, "size", vol.GetSize(), "spacing", vol.GetSpacing())
	return vol, nil
}

// outputPath returns name inside the configured output directory unless
// path is set
func outputPath(path, name string) string {
	if path != "" {
		return path
	}
	return filepath.Join(cfg.Output.Dir, name)
}
