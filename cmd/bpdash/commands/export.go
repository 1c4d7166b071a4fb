package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"bpdash/internal/export"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Fetch and normalize the reading feed, then write an Excel workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := loadReadings(cmd.Context())
		if err != nil {
			return err
		}
		if err := export.WriteFile(exportOutput, res.Readings); err != nil {
			return err
		}
		fmt.Printf("Wrote %d readings to %s\n", len(res.Readings), exportOutput)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "readings.xlsx", "output workbook path")
	rootCmd.AddCommand(exportCmd)
}
