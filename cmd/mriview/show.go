package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gonum.org/v1/plot/vg"

	"mriview/pkg/visualization"
)

func init() {
	rootCmd.AddCommand(showCmd, show3dCmd)
	for _, cmd := range []*cobra.Command{showCmd, show3dCmd} {
		cmd.Flags().StringVarP(&showOutFlag, `out`, `o`, ``, `output figure (.png, .jpg or .tiff)`)
		cmd.Flags().StringVar(&showTitleFlag, `title`, ``, `figure title`)
		cmd.Flags().Float64Var(&showMarginFlag, `margin`, 0, `margin ratio on every side`)
		cmd.Flags().IntVar(&showDPIFlag, `dpi`, 0, `figure resolution`)
		cmd.Flags().Float64Var(&showMinSideFlag, `min-side`, 0, `smallest figure side in inches, 0 for exact sizing`)
	}
	show3dCmd.Flags().IntSliceVar(&show3dXFlag, `x`, nil, `x slice indices`)
	show3dCmd.Flags().IntSliceVar(&show3dYFlag, `y`, nil, `y slice indices`)
	show3dCmd.Flags().IntSliceVar(&show3dZFlag, `z`, nil, `z slice indices`)
}

var (
	showOutFlag     string
	showTitleFlag   string
	showMarginFlag  float64
	showDPIFlag     int
	showMinSideFlag float64

	show3dXFlag []int
	show3dYFlag []int
	show3dZFlag []int
)

var showCmd = &cobra.Command{
	Use:   `show <volume>`,
	Short: `render a 2D image or the middle slice of a volume`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		vol, err := loadVolume(args[0])
		if err != nil {
			return err
		}
		fig, err := visualization.Show(vol, showOptions(cmd))
		if err != nil {
			return err
		}
		return saveFigure(fig, outputPath(showOutFlag, "show.png"))
	},
}

var show3dCmd = &cobra.Command{
	Use:   `show3d <volume>`,
	Short: `render chosen x, y and z slices tiled into one figure`,
	Long: `Render chosen x, y and z slices tiled into one figure, one row per axis
with at least one slice. Without any slice the whole volume is shown as by show.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		vol, err := loadVolume(args[0])
		if err != nil {
			return err
		}
		opts := &visualization.Show3DOptions{
			XSlices:     show3dXFlag,
			YSlices:     show3dYFlag,
			ZSlices:     show3dZFlag,
			ShowOptions: *showOptions(cmd),
		}
		fig, err := visualization.Show3D(vol, opts)
		if err != nil {
			return err
		}
		return saveFigure(fig, outputPath(showOutFlag, "show3d.png"))
	},
}

// showOptions merges the display flags over the configuration
func showOptions(cmd *cobra.Command) *visualization.ShowOptions {
	opts := cfg.ShowOptions(showTitleFlag)
	if cmd.Flags().Changed(`margin`) {
		opts.Margin = showMarginFlag
	}
	if cmd.Flags().Changed(`dpi`) {
		opts.DPI = showDPIFlag
	}
	if cmd.Flags().Changed(`min-side`) {
		opts.MinSide = vg.Length(showMinSideFlag) * vg.Inch
	}
	opts.Logger = logger
	return opts
}

func saveFigure(fig *visualization.Figure, path string) error {
	if err := fig.Save(path); err != nil {
		return err
	}
	fmt.Printf("Figure saved to: %s\n", path)
	logger.Debug("figure saved", "path", path, "width", fig.Width, "height", fig.Height, "dpi", fig.DPI)
	return nil
}
