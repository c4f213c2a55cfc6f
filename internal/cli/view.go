package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/bobmcallan/andolan/internal/models"
	"github.com/bobmcallan/andolan/internal/timeline"
	"github.com/bobmcallan/andolan/internal/tui"
)

type viewOptions struct {
	category    string
	achievement string
	decade      string
	json        bool
	width       int
}

func newViewCmd(opts *globalOptions) *cobra.Command {
	vo := &viewOptions{}
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Print the filtered timeline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runView(cmd, opts, vo)
		},
	}
	cmd.Flags().StringVar(&vo.category, "category", models.FilterAll, "category filter")
	cmd.Flags().StringVar(&vo.achievement, "achievement", models.FilterAll, "achievement filter")
	cmd.Flags().StringVar(&vo.decade, "decade", "", "decade filter, e.g. 1990s")
	cmd.Flags().BoolVar(&vo.json, "json", false, "print the computed view as JSON")
	cmd.Flags().IntVar(&vo.width, "width", 100, "output width")
	return cmd
}

func runView(cmd *cobra.Command, opts *globalOptions, vo *viewOptions) error {
	config, err := opts.loadConfig()
	if err != nil {
		return err
	}
	logger := opts.logger(config, cmd.ErrOrStderr())
	client := opts.client(config, logger)

	// The listing and the key milestones are independent requests.
	var records, keyMilestones []models.TimelineRecord
	g, ctx := errgroup.WithContext(cmd.Context())
	g.Go(func() error {
		var err error
		records, err = client.ListRecords(ctx)
		if err != nil {
			return fmt.Errorf("%w: %w", timeline.ErrFetchFailed, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		keyMilestones, err = client.KeyMilestones(ctx)
		if err != nil {
			return fmt.Errorf("failed to fetch key milestones: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	entries, skipped := timeline.Normalize(records, nil)
	for _, s := range skipped {
		logger.Warn().Err(s).Msg("Skipping timeline record")
	}

	filters := models.FilterTriple{Category: vo.category, Achievement: vo.achievement, Decade: vo.decade}
	view := timeline.BuildView(entries, filters)
	if vo.decade != "" && !hasDecade(view.Decades, vo.decade) {
		return fmt.Errorf("%w: %s", timeline.ErrUnknownDecade, vo.decade)
	}

	out := cmd.OutOrStdout()
	if vo.json {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	}
	_, err = fmt.Fprint(out, tui.RenderView(view, keyMilestones, vo.width))
	return err
}

func hasDecade(decades []models.DecadeBucket, value string) bool {
	for _, d := range decades {
		if d.Value == value {
			return true
		}
	}
	return false
}
