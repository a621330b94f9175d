package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/halcyonmedia/site-services/pkg/logger"
)

type rootOptions struct {
	apiURL  string
	timeout time.Duration
	verbose bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "sitectl",
		Short: "Operate the halcyon site services",
		Long: `sitectl talks to a running site API and exercises site logic locally.

Example usage:
  sitectl subscribe user@example.com          # newsletter signup
  sitectl inquire --first Ada --last Lovelace --company Acme --email ada@acme.test
  sitectl timeline landing-hero --p 1.2       # evaluate a timeline preset
  sitectl slider --item intro:video:42s --item poster:image
  sitectl token --sub editor                  # mint an admin token`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := os.Getenv("LOG_LEVEL")
			if opts.verbose {
				level = "debug"
			}
			logger.Init(level)
		},
	}
	root.PersistentFlags().StringVar(&opts.apiURL, "api", envOr("SITE_API_URL", "http://localhost:5001"), "site API base URL")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 15*time.Second, "request timeout")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newSubscribeCmd(opts),
		newInquireCmd(opts),
		newTimelineCmd(),
		newSliderCmd(),
		newTokenCmd(),
		newMediaCmd(),
	)
	return root
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
