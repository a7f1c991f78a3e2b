package main

import (
	"os"

	"github.com/spf13/cobra"

	"mriview/internal/models"
	"mriview/pkg/report"
)

func init() { rootCmd.AddCommand(infoCmd) }

var infoCmd = &cobra.Command{
	Use:   `info <volume>...`,
	Short: `print size, spacing and dimension of volumes`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		vols := make([]*models.Volume, 0, len(args))
		for _, path := range args {
			vol, err := loadVolume(path)
			if err != nil {
				return err
			}
			vols = append(vols, vol)
		}
		return report.ImagesInfo(os.Stdout, vols...)
	},
}
