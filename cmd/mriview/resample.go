package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"mriview/internal/models"
	"mriview/pkg/interpolation"
	"mriview/pkg/report"
	"mriview/pkg/resample"
	"mriview/pkg/visualization"
)

func init() {
	rootCmd.AddCommand(resampleCmd)
	resampleCmd.Flags().Float64SliceVar(&resampleSpacingFlag, `spacing`, nil, `target spacing x,y,z in mm`)
	resampleCmd.Flags().StringVar(&resampleInterpFlag, `interp`, ``, `interpolator: Neighbor (default), BSpline or Linear`)
	resampleCmd.Flags().Float64Var(&resampleDefaultFlag, `default-value`, 0, `value for voxels outside the input`)
	resampleCmd.Flags().BoolVar(&resamplePixelIDFlag, `pixel-id-default`, false, `fill outside voxels with the pixel type id`)
	resampleCmd.Flags().StringVar(&resampleOutDirFlag, `out-dir`, ``, `directory for the resampled slice sequences`)
	resampleCmd.Flags().StringVar(&resampleShowFlag, `show`, ``, `also render the resampled volume to this PNG`)
}

var (
	resampleSpacingFlag []float64
	resampleInterpFlag  string
	resampleDefaultFlag float64
	resamplePixelIDFlag bool
	resampleOutDirFlag  string
	resampleShowFlag    string
)

var resampleCmd = &cobra.Command{
	Use:   `resample <volume>`,
	Short: `resample a volume to a new voxel spacing`,
	Long: `Resample a volume to a new voxel spacing, keeping its physical extent,
origin and direction. The resampled volume is exported as PNG slice sequences
along x, y and z.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		if flags.Changed(`spacing`) {
			if len(resampleSpacingFlag) != 3 {
				return fmt.Errorf("--spacing needs 3 values, got %d", len(resampleSpacingFlag))
			}
			cfg.Resample.Spacing = resampleSpacingFlag
		}
		if flags.Changed(`interp`) {
			cfg.Resample.Interpolator = resampleInterpFlag
		}
		if flags.Changed(`default-value`) {
			cfg.Resample.DefaultValue = resampleDefaultFlag
		}
		if flags.Changed(`pixel-id-default`) {
			cfg.Resample.PixelIDDefault = resamplePixelIDFlag
		}

		vol, err := loadVolume(args[0])
		if err != nil {
			return err
		}

		params, ok := cfg.ResampleParams()
		if !ok {
			logger.Warn("unknown interpolation mode, falling back",
				"mode", cfg.Resample.Interpolator, "fallback", interpolation.Default.String())
		}
		if cfg.Resample.PixelIDDefault {
			params.DefaultValue = resample.PixelIDDefault(vol)
		}
		params.Logger = logger

		out, err := resample.NewResampler(params).Execute(vol)
		if err != nil {
			return err
		}
		if err := report.ImagesInfo(os.Stdout, vol, out); err != nil {
			return err
		}

		if resampleShowFlag != "" {
			fig, err := visualization.Show(out, cfg.ShowOptions(filepath.Base(args[0])))
			if err != nil {
				return err
			}
			if err := fig.Save(resampleShowFlag); err != nil {
				return err
			}
			fmt.Printf("Figure saved to: %s\n", resampleShowFlag)
		}

		if out.Dimension() != 3 {
			logger.Info("skipping slice export for 2D image")
			return nil
		}
		slicesPath := outputPath(resampleOutDirFlag, "resampled")
		viewer := visualization.NewViewer(out, logger)
		for _, axis := range []models.Axis{models.AxisX, models.AxisY, models.AxisZ} {
			axisDir := filepath.Join(slicesPath, axis.String())
			fmt.Printf("Saving %s-axis slices to: %s\n", axis, axisDir)

			if err := viewer.SaveSliceSequence(axis, axisDir); err != nil {
				return fmt.Errorf("failed to save %s-axis slices: %w", axis, err)
			}
		}
		return nil
	},
}
