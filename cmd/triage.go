package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jacksonzartman-zman/ZARTMAN.io-sub012/core/dispatch"
	"github.com/jacksonzartman-zman/ZARTMAN.io-sub012/core/model"
)

var triageFile string

var triageCmd = &cobra.Command{
	Use:   "triage",
	Short: "Order a destination snapshot by SLA urgency",
	RunE:  triage,
}

func init() {
	triageCmd.Flags().StringVar(&triageFile, "destinations", "", "JSON file with destination records")
	_ = triageCmd.MarkFlagRequired("destinations")
	rootCmd.AddCommand(triageCmd)
}

func triage(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(triageFile)
	if err != nil {
		return fmt.Errorf("read destinations: %w", err)
	}
	var dests []model.RfqDestination
	if err := json.Unmarshal(data, &dests); err != nil {
		return fmt.Errorf("parse destinations: %w", err)
	}
	ordered := dispatch.SortByUrgency(dests)
	for _, d := range ordered {
		activity := "-"
		if ts := d.ActivityTimestamp(); ts != nil {
			activity = ts.Format("2006-01-02 15:04")
		}
		fmt.Printf("%-10s %-30s %-16s\n", d.Status, d.DisplayKey(), activity)
	}
	fmt.Printf("contacted: %d/%d, received: %d\n",
		dispatch.CountContacted(dests), len(dests), dispatch.CountReceived(dests))
	return nil
}
