// Package cli implements the andolan-timeline command line.
package cli

import (
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/bobmcallan/andolan/internal/app"
	"github.com/bobmcallan/andolan/internal/clients/timelineapi"
	"github.com/bobmcallan/andolan/internal/common"
)

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	configPath string
	apiURL     string
	logLevel   string
}

// Execute runs the root command.
func Execute(version string) error {
	return newRootCmd(version).Execute()
}

func newRootCmd(version string) *cobra.Command {
	opts := &globalOptions{}
	cmd := &cobra.Command{
		Use:           "andolan-timeline",
		Short:         "Andolan timeline browser",
		Long:          "Browse the Andolan milestone timeline and submit membership applications.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowse(cmd, opts)
		},
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default: ANDOLAN_CONFIG or andolan.toml)")
	cmd.PersistentFlags().StringVar(&opts.apiURL, "api", "", "timeline API base URL override")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level override: debug|info|warn|error|disabled")

	cmd.AddCommand(newBrowseCmd(opts))
	cmd.AddCommand(newViewCmd(opts))
	cmd.AddCommand(newRegisterCmd(opts))
	return cmd
}

// loadConfig resolves and loads the config file, then applies flag overrides.
func (o *globalOptions) loadConfig() (*common.Config, error) {
	config, err := common.LoadConfig(app.ResolveConfigPath(o.configPath))
	if err != nil {
		return nil, err
	}
	if o.apiURL != "" {
		config.Clients.TimelineAPI.BaseURL = o.apiURL
	}
	if o.logLevel != "" {
		config.Logging.Level = o.logLevel
	}
	return config, nil
}

// logger writes console logs to w.
func (o *globalOptions) logger(config *common.Config, w io.Writer) *common.Logger {
	return common.NewLoggerWithOutput(config.Logging.Level, zerolog.ConsoleWriter{Out: w, NoColor: true})
}

func (o *globalOptions) client(config *common.Config, logger *common.Logger) *timelineapi.Client {
	return timelineapi.NewClientFromConfig(config.Clients.TimelineAPI, logger)
}
