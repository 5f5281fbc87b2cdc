package main

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var (
	host    string
	token   string
	dryRun  bool
	verbose bool
	timeout time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "league-cli",
	Short: "Operate a pro clubs league server",
	Long: `league-cli talks to the public and admin endpoints of a pro clubs league
server: EA syncs, standings, CSV imports, stat rebuilds and migrations.
Admin commands send the bearer token from --token or LEAGUE_TOKEN; mint one
locally with "league-cli token".`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return normalizeHost()
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&host, "host", "http://localhost:8080", "Base URL of the league server")
	flags.StringVar(&token, "token", os.Getenv("LEAGUE_TOKEN"), "Admin bearer token")
	flags.BoolVar(&dryRun, "dry-run", false, "Ask the server not to persist changes")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Ask the server to log this request at debug level")
	flags.DurationVar(&timeout, "timeout", 2*time.Minute, "Request timeout")
}

// normalizeHost accepts "league.example:8080" as well as a full URL.
func normalizeHost() error {
	if !strings.Contains(host, "://") {
		host = "http://" + host
	}
	u, err := url.Parse(host)
	if err != nil || u.Host == "" {
		return fmt.Errorf("invalid --host %q", host)
	}
	host = strings.TrimRight(u.String(), "/")
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "league-cli: %s\n", err)
		os.Exit(1)
	}
}
