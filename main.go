package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"tasnim.dev/costalert/cmd"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "costalert",
		Short:        "Monthly per-account AWS spend alerts",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(cmd.NewRunCmd())
	rootCmd.AddCommand(cmd.NewLambdaCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
