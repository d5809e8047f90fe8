package cmd

import (
	"github.com/spf13/cobra"
	"video-stream/config"
)

func Root(config *config.Config) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "video-stream",
		Short: "upload videos and stream them back with HTTP range support",
	}
	rootCmd.AddCommand(server(config), worker(config))
	return rootCmd
}
