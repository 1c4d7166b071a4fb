package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Fetch and normalize the reading feed, then print the load report",
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := loadReadings(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Printf("accepted:      %d\n", res.Accepted)
		fmt.Printf("rejected:      %d\n", res.Rejected)
		fmt.Printf("warnings:      %d\n", res.Warned)
		fmt.Printf("distinct days: %d\n", res.DistinctDays)
		for _, d := range res.Diagnostics {
			id := d.ReadingID
			if id == "" {
				id = fmt.Sprintf("record %d", d.Index)
			}
			fmt.Printf("  [%s] %s %s: %s\n", d.Kind, id, d.Field, d.Reason)
		}

		if res.Accepted == 0 {
			return errors.New("no valid readings in the payload")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
