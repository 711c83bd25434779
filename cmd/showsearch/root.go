package main

import (
	"github.com/spf13/cobra"

	"github.com/Belphemur/ShowSearch/internal/config"
)

func newRootCommand(cfg *config.Config) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "showsearch",
		Short:         "Search TV shows and list their episodes",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.AddCommand(newServeCommand(cfg))
	rootCmd.AddCommand(newSearchCommand(cfg))
	rootCmd.AddCommand(newEpisodesCommand(cfg))

	return rootCmd
}
