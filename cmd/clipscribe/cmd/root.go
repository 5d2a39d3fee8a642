package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"clipscribe/cmd/clipscribe/cmd/export"
	"clipscribe/cmd/clipscribe/cmd/serve"
	"clipscribe/cmd/clipscribe/cmd/version"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "clipscribe",
	Short: "Turn short videos into deliverable transcripts",
	Long: `ClipScribe downloads or accepts a video, extracts its audio, transcribes
the speech and delivers the transcript by email, SMS or WhatsApp.

- serve starts the HTTP API
- export writes a user's transcript history to a spreadsheet`,
	TraverseChildren: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serve.Cmd)
	rootCmd.AddCommand(export.Cmd)
	rootCmd.AddCommand(version.Cmd)
}
