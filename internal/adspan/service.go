package adspan

import (
	"context"
	"errors"
	"fmt"

	"jamesfarrell.me/ad-skipper/internal/inference"
	"jamesfarrell.me/ad-skipper/internal/logger"
	"jamesfarrell.me/ad-skipper/internal/matcher"
	"jamesfarrell.me/ad-skipper/internal/models"
)

var (
	ErrTranscriptUnavailable = errors.New("transcript unavailable")
	ErrInferenceUnavailable  = errors.New("inference unavailable")
	ErrInferenceUnparsable   = errors.New("inference unparsable")
	// ErrNoMatch means the ad boundaries could not be located. It is not a failure.
	ErrNoMatch = errors.New("matching segments not found")
)

type TranscriptSource interface {
	Fetch(ctx context.Context, videoID string) ([]models.Segment, error)
}

type Inferer interface {
	InferAdSpan(ctx context.Context, text string) (models.AdSpanGuess, error)
}

type Service struct {
	transcripts TranscriptSource
	inferer     Inferer
	matcher     *matcher.Matcher
	cutoff      float64
	log         *logger.Logger
}

func NewService(transcripts TranscriptSource, inferer Inferer, m *matcher.Matcher, cutoff float64, log *logger.Logger) *Service {
	return &Service{
		transcripts: transcripts,
		inferer:     inferer,
		matcher:     m,
		cutoff:      cutoff,
		log:         log,
	}
}

// Locate finds the ad's start time, end time and the duration of its last segment.
func (s *Service) Locate(ctx context.Context, videoID string) (models.AdTimestamps, error) {
	log := s.log.With("video_id", videoID)

	segments, err := s.transcripts.Fetch(ctx, videoID)
	if err != nil {
		log.WithError(err).Warn("error fetching transcript")
		return models.AdTimestamps{}, fmt.Errorf("%w: %v", ErrTranscriptUnavailable, err)
	}
	if len(segments) == 0 {
		return models.AdTimestamps{}, fmt.Errorf("%w: empty transcript", ErrTranscriptUnavailable)
	}

	filtered := matcher.ExcludeBefore(segments, s.cutoff)
	log = log.With("segments", len(filtered))
	if len(filtered) == 0 {
		log.Info("no segments after lead cutoff")
		return models.AdTimestamps{}, ErrNoMatch
	}

	guess, err := s.inferer.InferAdSpan(ctx, matcher.JoinText(filtered))
	if err != nil {
		log.WithError(err).Warn("error inferring ad span")
		if errors.Is(err, inference.ErrUnparsable) {
			return models.AdTimestamps{}, fmt.Errorf("%w: %v", ErrInferenceUnparsable, err)
		}
		return models.AdTimestamps{}, fmt.Errorf("%w: %v", ErrInferenceUnavailable, err)
	}
	log.WithField("guess_start", guess.Start).WithField("guess_end", guess.End).Debug("ad span inferred")

	match := s.matcher.Match(filtered, guess)
	if !match.Found() {
		log.Info("matching segments not found")
		return models.AdTimestamps{}, ErrNoMatch
	}

	ts := models.AdTimestamps{
		StartTime:   match.Start.Start,
		EndTime:     match.End.Start,
		EndDuration: match.End.Duration,
	}
	log.WithField("start_time", ts.StartTime).WithField("end_time", ts.EndTime).Info("ad span located")
	return ts, nil
}
