package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/Belphemur/ShowSearch/internal/client"
	"github.com/Belphemur/ShowSearch/internal/config"
	"github.com/Belphemur/ShowSearch/internal/controller"
	"github.com/Belphemur/ShowSearch/internal/view"
)

// terminalSession is the only session of a CLI run.
const terminalSession = "terminal"

var _ controller.Page = (*view.TerminalPage)(nil)

// terminalPages hands the controller the single terminal page.
type terminalPages struct {
	mu   sync.Mutex
	page *view.TerminalPage
}

func (t *terminalPages) Update(_ context.Context, _ string, fn func(controller.Page) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return fn(t.page)
}

// lookup runs fn against a fresh terminal page and prints the page afterwards,
// including any notice a failed lookup left on it.
func lookup(cmd *cobra.Command, cfg *config.Config, fn func(ctx context.Context, ctrl *controller.Controller) error) error {
	directory := client.NewClient(cfg)
	defer directory.Close()

	pages := &terminalPages{page: view.NewTerminalPage(config.GetPlaceholderImage())}
	ctrl := controller.New(directory, pages, cfg)

	runErr := fn(cmd.Context(), ctrl)
	if err := pages.page.Render(cmd.OutOrStdout()); err != nil {
		return err
	}
	return runErr
}

func newSearchCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "search QUERY...",
		Short: "Search shows by name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			return lookup(cmd, cfg, func(ctx context.Context, ctrl *controller.Controller) error {
				return ctrl.Search(ctx, terminalSession, query)
			})
		},
	}
}

func newEpisodesCommand(cfg *config.Config) *cobra.Command {
	var query string

	cmd := &cobra.Command{
		Use:   "episodes SHOW_ID",
		Short: "List the episodes of a show",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			showID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid show id %q", args[0])
			}
			return lookup(cmd, cfg, func(ctx context.Context, ctrl *controller.Controller) error {
				if query != "" {
					if err := ctrl.Search(ctx, terminalSession, query); err != nil {
						return err
					}
				}
				return ctrl.ExpandEpisodes(ctx, terminalSession, showID)
			})
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "Search first so the episode heading can name the show")
	return cmd
}
