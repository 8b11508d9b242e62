// Command lookup locates the ad span of a single video and prints it as JSON.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"jamesfarrell.me/ad-skipper/internal/adspan"
	"jamesfarrell.me/ad-skipper/internal/config"
	"jamesfarrell.me/ad-skipper/internal/inference"
	"jamesfarrell.me/ad-skipper/internal/logger"
	"jamesfarrell.me/ad-skipper/internal/matcher"
	"jamesfarrell.me/ad-skipper/internal/models"
	"jamesfarrell.me/ad-skipper/internal/transcript"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		captionsPath string
		threshold    int
		cutoff       float64
	)

	cmd := &cobra.Command{
		Use:   "lookup <videoId|url>",
		Short: "Locate the sponsored segment of a YouTube video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("threshold") {
				cfg.Matching.Threshold = threshold
			}
			if cmd.Flags().Changed("skip-lead") {
				cfg.Matching.SkipLeadSeconds = cutoff
			}

			videoID := models.ExtractVideoID(args[0])
			if videoID == "" {
				return fmt.Errorf("cannot read a video id from %q", args[0])
			}

			var source adspan.TranscriptSource = transcript.NewYouTube(transcript.Config{
				Languages: cfg.Transcript.Languages,
				Timeout:   cfg.Transcript.Timeout.Duration,
			})
			if captionsPath != "" {
				source = transcript.VTTFile{Path: captionsPath}
			}

			log := logger.NewWithOutput(cmd.ErrOrStderr(), cfg.Environment, cfg.LogLevel, false)
			svc := adspan.NewService(
				source,
				inference.NewClient(inference.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL), cfg.Model),
				matcher.New(cfg.Matching.Threshold),
				cfg.Matching.SkipLeadSeconds,
				log,
			)

			return run(cmd.Context(), svc, videoID, cmd.OutOrStdout())
		},
		SilenceUsage: true,
	}

	cmd.Flags().StringVar(&captionsPath, "captions", "", "read the transcript from a local WebVTT file instead of YouTube")
	cmd.Flags().IntVar(&threshold, "threshold", matcher.DefaultThreshold, "minimum match score (exclusive, 0-100)")
	cmd.Flags().Float64Var(&cutoff, "skip-lead", matcher.DefaultCutoff, "ignore segments starting before this many seconds")
	return cmd
}

type locator interface {
	Locate(ctx context.Context, videoID string) (models.AdTimestamps, error)
}

func run(ctx context.Context, l locator, videoID string, out io.Writer) error {
	ts, err := l.Locate(ctx, videoID)
	var result any = ts
	if errors.Is(err, adspan.ErrNoMatch) {
		result = models.MessageResponse{Message: "Matching segments not found"}
	} else if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
