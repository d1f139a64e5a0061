package main

import (
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "hackfest",
		Short: "HackFest team registration service",
		Long: `hackfest runs the registration API for the HackFest hackathon:
team intake with confirmation emails, public listings and statistics,
and an admin workflow guarded by signed tokens.`,
		SilenceUsage: true,
	}

	root.AddCommand(newServeCmd(), newAdminTokenCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
