package cli

import (
	"github.com/spf13/cobra"

	"github.com/bobmcallan/andolan/internal/common"
	"github.com/bobmcallan/andolan/internal/timeline"
	"github.com/bobmcallan/andolan/internal/tui"
)

func newBrowseCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse the timeline interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowse(cmd, opts)
		},
	}
}

func runBrowse(cmd *cobra.Command, opts *globalOptions) error {
	config, err := opts.loadConfig()
	if err != nil {
		return err
	}

	// Log output would tear the full screen view.
	logger := common.NewSilentLogger()
	loader := timeline.NewLoader(opts.client(config, logger), timeline.WithLoaderLogger(logger))
	return tui.Run(cmd.Context(), loader, tui.WithLogger(logger))
}
