package main

import (
	"errors"
	"fmt"
	"io"
	"journald/internal/di"
	"journald/internal/schedule"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

var (
	digestTimezone string
	digestAll      bool
)

var digestCmd = &cobra.Command{
	Use:   "digest",
	Short: "Send daily digests now for one timezone or all of them",
	Long: `Send yesterday's digest emails immediately.

Examples:
  # One timezone
  journald digest --timezone America/New_York

  # Every supported timezone
  journald digest --all`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if digestAll == (digestTimezone != "") {
			return errors.New("pass exactly one of --timezone or --all")
		}
		runner, err := di.InitDigestRunner(&flags)
		if err != nil {
			return err
		}
		return runDigest(cmd, runner)
	},
}

func init() {
	digestCmd.Flags().StringVar(&digestTimezone, "timezone", "", "IANA timezone to process")
	digestCmd.Flags().BoolVar(&digestAll, "all", false, "process every supported timezone")
}

func runDigest(cmd *cobra.Command, runner schedule.DigestRunnerInterface) error {
	var (
		results []schedule.DigestResult
		err     error
	)
	if digestAll {
		results, err = runner.ProcessAll(cmd.Context())
	} else {
		var res schedule.DigestResult
		res, err = runner.ProcessTimezone(cmd.Context(), digestTimezone)
		results = []schedule.DigestResult{res}
	}
	if perr := printResults(cmd.OutOrStdout(), results); perr != nil {
		return perr
	}
	return err
}

func printResults(w io.Writer, results []schedule.DigestResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		return fmt.Errorf("writing results: %w", err)
	}
	return nil
}
