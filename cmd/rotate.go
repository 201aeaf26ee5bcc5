package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jacksonzartman-zman/ZARTMAN.io-sub012/core/capability"
	"github.com/jacksonzartman-zman/ZARTMAN.io-sub012/core/dispatch"
	coremetrics "github.com/jacksonzartman-zman/ZARTMAN.io-sub012/core/metrics"
	"github.com/jacksonzartman-zman/ZARTMAN.io-sub012/core/model"
	"github.com/jacksonzartman-zman/ZARTMAN.io-sub012/core/opslog"
	"github.com/jacksonzartman-zman/ZARTMAN.io-sub012/infra/logger"
)

var (
	rotateRfqID string
	rotateFile  string
)

var rotateCmd = &cobra.Command{
	Use:   "rotate",
	Short: "Rank a supplier pool for an RFQ and print the rotation order",
	RunE:  rotate,
}

func init() {
	rotateCmd.Flags().StringVar(&rotateRfqID, "rfq", "", "RFQ identifier")
	rotateCmd.Flags().StringVar(&rotateFile, "suppliers", "", "JSON file with supplier profiles")
	_ = rotateCmd.MarkFlagRequired("rfq")
	_ = rotateCmd.MarkFlagRequired("suppliers")
	rootCmd.AddCommand(rotateCmd)
}

func rotate(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(rotateFile)
	if err != nil {
		return fmt.Errorf("read suppliers: %w", err)
	}
	var suppliers []model.SupplierProfile
	if err := json.Unmarshal(data, &suppliers); err != nil {
		return fmt.Errorf("parse suppliers: %w", err)
	}

	// Offline ranking: no live schema, so event logging is gate-skipped.
	gate := capability.NewGate(capability.StaticIntrospector{}, logger.New("capability"))
	mgr, err := dispatch.NewRotationManager(gate, opslog.NewMemoryStore(), coremetrics.NopSink{}, nil, logger.New("rotate"), dispatch.Config{})
	if err != nil {
		return err
	}
	defer func() { _ = mgr.Close() }()

	res, err := mgr.Rank(context.Background(), rotateRfqID, suppliers, time.Now())
	if err != nil {
		return err
	}
	for i, r := range res.Ranked {
		fmt.Printf("%2d. %-30s %+0.2f %v\n", i+1, r.Profile.DisplayKey(), r.Score.Modifier, r.Score.Reasons)
	}
	return nil
}
