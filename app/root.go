// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "clipdeck",
	Short: "ClipDeck is a group-scoped video sharing backend",
	Long: `ClipDeck is a group-scoped video sharing backend where users form
groups via shareable access codes, upload clips into a group and browse a
paginated feed with per-user view and like state.`,
	Args: cobra.OnlyValidArgs,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
