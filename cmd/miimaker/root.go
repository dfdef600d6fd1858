package main

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "miimaker",
		Short: "Turn a photo into a Mii-style avatar from the terminal",
		Long: `miimaker drives the same upload and generation workflow as the web page:
it validates a photo, sends it to the avatar endpoint and saves the PNG it returns.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
		SilenceUsage: true,
	}

	cmd.AddCommand(newGenerateCmd())

	return cmd
}
