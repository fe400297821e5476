package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"tasnim.dev/costalert/internal/output"
)

func NewRunCmd() *cobra.Command {
	var (
		cfgFile string
		profile string
		region  string
		at      string
		dryRun  bool
		format  string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Analyze last month's spend for every account and send alerts",
		RunE: func(cmd *cobra.Command, args []string) error {
			invocationTime, err := parseInvocationDate(at)
			if err != nil {
				return err
			}

			cfg, closer, err := loadSettings(cfgFile, profile, region)
			if err != nil {
				return err
			}
			defer closer.Close()

			r, err := newRunner(cmd.Context(), cfg, dryRun)
			if err != nil {
				return err
			}

			summary, err := r.Run(cmd.Context(), invocationTime)
			if err != nil {
				return err
			}
			return output.Write(os.Stdout, summary, format)
		},
	}

	cmd.Flags().StringVarP(&cfgFile, "config", "c", "", "config file (default ~/.config/costalert/config.yaml)")
	cmd.Flags().StringVarP(&profile, "profile", "p", "", "AWS profile to use")
	cmd.Flags().StringVarP(&region, "region", "r", "", "AWS region to use")
	cmd.Flags().StringVar(&at, "at", "", "invocation date (YYYY-MM-DD); the month before it is reported")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "compute and print alerts without sending them")
	cmd.Flags().StringVarP(&format, "output", "o", output.FormatText, "output format: text, json or yaml")

	return cmd
}

// parseInvocationDate returns the zero time for an empty value, which the runner treats as now.
func parseInvocationDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --at date %q: %w", s, err)
	}
	return t, nil
}
