package main

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/mauv0809/pro-clubs-league/internal/auth"
	"github.com/mauv0809/pro-clubs-league/internal/config"
	"github.com/spf13/cobra"
)

var (
	seasonID   string
	csvKind    string
	csvReplace bool
	async      bool
	grouped    bool
	applyNow   bool
	tokenTTL   time.Duration
)

func init() {
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(standingsCmd)
	rootCmd.AddCommand(importCSVCmd)
	rootCmd.AddCommand(recalculateCmd)
	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(metricsCmd)

	standingsCmd.Flags().StringVar(&seasonID, "season", "", "Season id (defaults to the current season)")
	standingsCmd.Flags().BoolVar(&grouped, "by-conference", false, "Group the table by conference")

	importCSVCmd.Flags().StringVar(&seasonID, "season", "", "Season id (defaults to the current season)")
	importCSVCmd.Flags().StringVar(&csvKind, "kind", "skater", "Stat table: skater or goalie")
	importCSVCmd.Flags().BoolVar(&csvReplace, "replace", false, "Drop the season's lines missing from the file")

	recalculateCmd.Flags().StringVar(&seasonID, "season", "", "Season id (defaults to the current season)")
	recalculateCmd.Flags().BoolVar(&async, "async", false, "Publish a rebuild event instead of waiting")

	migrateCmd.Flags().BoolVar(&applyNow, "apply", false, "Run pending migrations instead of printing the version")

	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "Token lifetime")
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/health", nil, "", nil)
	},
}

var syncCmd = &cobra.Command{
	Use:   "sync [team-id]",
	Short: "Pull EA matches for every linked team, or just one",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "/admin/ea/sync"
		if len(args) == 1 {
			path += "/" + url.PathEscape(args[0])
		}
		return performRequest(http.MethodPost, path, nil, "", nil)
	},
}

var standingsCmd = &cobra.Command{
	Use:   "standings",
	Short: "Print the standings table",
	RunE: func(cmd *cobra.Command, args []string) error {
		query := seasonQuery()
		if grouped {
			query.Set("group", "conference")
		}
		return performRequest(http.MethodGet, "/api/standings", query, "", nil)
	},
}

var importCSVCmd = &cobra.Command{
	Use:   "import-csv <file>",
	Short: "Import season skater or goalie stats from a CSV file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}
		query := seasonQuery()
		query.Set("kind", csvKind)
		if csvReplace {
			query.Set("replace", "true")
		}
		return performRequest(http.MethodPost, "/admin/stats/import", query, "text/csv", data)
	},
}

var recalculateCmd = &cobra.Command{
	Use:   "recalculate",
	Short: "Rebuild season stats from stored EA matches",
	RunE: func(cmd *cobra.Command, args []string) error {
		query := seasonQuery()
		if async {
			query.Set("async", "true")
		}
		return performRequest(http.MethodPost, "/admin/stats/rebuild", query, "", nil)
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Show or run database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		method := http.MethodGet
		if applyNow {
			method = http.MethodPost
		}
		return performRequest(method, "/admin/migrations", nil, "", nil)
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/metrics", nil, "", nil)
	},
}

// tokenCmd signs locally with JWT_SECRET, so it needs the server's environment.
var tokenCmd = &cobra.Command{
	Use:   "token <subject>",
	Short: "Mint an admin token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Parse()
		if err != nil {
			return err
		}
		signed, err := auth.New(cfg.Auth.Secret, cfg.Auth.Issuer).Issue(args[0], auth.RoleAdmin, tokenTTL)
		if err != nil {
			return err
		}
		fmt.Println(signed)
		return nil
	},
}

func seasonQuery() url.Values {
	query := url.Values{}
	if seasonID != "" {
		query.Set("season_id", seasonID)
	}
	return query
}

func performRequest(method, endpoint string, query url.Values, contentType string, body []byte) error {
	if query == nil {
		query = url.Values{}
	}
	if dryRun {
		query.Set("dry_run", "true")
	}
	if verbose {
		query.Set("verbose", "true")
	}
	target := host + endpoint
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	fmt.Printf("Making request to %s %s\n", method, target)

	req, err := http.NewRequest(method, target, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(respBody))

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("server answered %s", resp.Status)
	}
	return nil
}
