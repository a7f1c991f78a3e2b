package main

import (
	"github.com/spf13/cobra"

	"mriview/pkg/gabor"
)

func init() {
	rootCmd.AddCommand(gaborCmd)
	gaborCmd.Flags().IntVar(&gaborSizeFlag, `size`, 0, `kernel side length`)
	gaborCmd.Flags().Float64Var(&gaborSigmaFlag, `sigma`, 0, `gaussian envelope width`)
	gaborCmd.Flags().Float64Var(&gaborFrequencyFlag, `frequency`, 0, `carrier frequency in cycles per sample`)
	gaborCmd.Flags().Float64Var(&gaborThetaFlag, `theta`, 0, `carrier azimuth in radians`)
	gaborCmd.Flags().Float64Var(&gaborPhiFlag, `phi`, 0, `carrier polar angle in radians`)
	gaborCmd.Flags().StringVarP(&gaborOutFlag, `out`, `o`, ``, `output figure (.png, .jpg or .tiff)`)
}

var (
	gaborSizeFlag      int
	gaborSigmaFlag     float64
	gaborFrequencyFlag float64
	gaborThetaFlag     float64
	gaborPhiFlag       float64
	gaborOutFlag       string
)

var gaborCmd = &cobra.Command{
	Use:   `gabor`,
	Short: `build a 3D Gabor kernel and plot its strongest samples`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		params := cfg.KernelParams()
		if flags.Changed(`size`) {
			params.Size = gaborSizeFlag
		}
		if flags.Changed(`sigma`) {
			params.Sigma = gaborSigmaFlag
		}
		if flags.Changed(`frequency`) {
			params.Frequency = gaborFrequencyFlag
		}
		if flags.Changed(`theta`) {
			params.Theta = gaborThetaFlag
		}
		if flags.Changed(`phi`) {
			params.Phi = gaborPhiFlag
		}

		kernel, err := gabor.NewKernel(params)
		if err != nil {
			return err
		}
		opts := cfg.PlotOptions()
		opts.Logger = logger
		fig, err := gabor.Plot(kernel, opts)
		if err != nil {
			return err
		}
		return saveFigure(fig, outputPath(gaborOutFlag, "gabor.png"))
	},
}
