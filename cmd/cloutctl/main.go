// Command cloutctl analyzes playlists from the command line without
// running the HTTP server.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/okian/clout/internal/adapters/spotify"
	"github.com/okian/clout/internal/config"
	"github.com/okian/clout/internal/domain/aggregate"
	"github.com/okian/clout/internal/domain/model"
	"github.com/okian/clout/pkg/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "cloutctl",
		Short:         "Score playlists for early-discovery clout",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newAnalyzeCmd())
	root.AddCommand(newDemoCmd())
	return root
}

// newAnalyzeCmd fetches a playlist and prints its scored summary.
func newAnalyzeCmd() *cobra.Command {
	var pretty bool

	cmd := &cobra.Command{
		Use:   "analyze <playlist-id>",
		Short: "Fetch a playlist and score every track",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := logger.Init(); err != nil {
				return err
			}

			cfg, err := config.Load(ctx)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			client := spotify.NewClient(
				spotify.WithCredentials(cfg.SpotifyClientID, cfg.SpotifyClientSecret),
				spotify.WithAPIURL(cfg.SpotifyAPIURL),
				spotify.WithAuthURL(cfg.SpotifyAuthURL),
				spotify.WithMaxTracks(cfg.MaxTracks),
				spotify.WithConcurrency(cfg.FetchConcurrency),
			)

			name, observations, err := client.FetchPlaylist(ctx, args[0])
			if err != nil {
				return fmt.Errorf("fetch playlist: %w", err)
			}

			summary, err := aggregate.New().Aggregate(ctx, name, observations)
			if err != nil {
				return fmt.Errorf("score playlist: %w", err)
			}
			return printSummary(cmd, summary, pretty)
		},
	}
	cmd.Flags().BoolVar(&pretty, "pretty", true, "indent the JSON output")
	return cmd
}

// newDemoCmd scores a synthetic playlist offline, no credentials needed.
func newDemoCmd() *cobra.Command {
	var pretty bool

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Score a synthetic playlist without talking to Spotify",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			summary, err := aggregate.New().Aggregate(cmd.Context(), "Demo Crate", demoObservations())
			if err != nil {
				return fmt.Errorf("score playlist: %w", err)
			}
			return printSummary(cmd, summary, pretty)
		},
	}
	cmd.Flags().BoolVar(&pretty, "pretty", true, "indent the JSON output")
	return cmd
}

// demoObservations fabricates tracks spanning the discovery tiers: a
// bedroom act found two years back, a mid-size act found last year, and
// a mainstream act added last week.
func demoObservations() []model.TrackObservation {
	now := time.Now()
	return []model.TrackObservation{
		{
			ArtistID:         uuid.NewString(),
			ArtistName:       "Basement Echoes",
			TrackName:        "First Tape",
			AddedAt:          now.AddDate(-2, 0, 0),
			CurrentFollowers: 45_000,
		},
		{
			ArtistID:         uuid.NewString(),
			ArtistName:       "Neon Harbor",
			TrackName:        "Night Transit",
			AddedAt:          now.AddDate(-1, 0, 0),
			CurrentFollowers: 800_000,
		},
		{
			ArtistID:         uuid.NewString(),
			ArtistName:       "Stadium Grade",
			TrackName:        "Encore",
			AddedAt:          now.AddDate(0, 0, -7),
			CurrentFollowers: 12_000_000,
		},
	}
}

func printSummary(cmd *cobra.Command, summary model.PlaylistSummary, pretty bool) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(summary)
}
