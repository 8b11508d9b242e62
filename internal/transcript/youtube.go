package transcript

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/kkdai/youtube/v2"
	"jamesfarrell.me/ad-skipper/internal/models"
)

// ErrNotFound is returned when a video has no caption track we can use.
var ErrNotFound = errors.New("transcript not found")

type Config struct {
	// Languages lists acceptable caption language codes in order of preference.
	Languages  []string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Track is one caption track advertised for a video.
type Track struct {
	LanguageCode string
	BaseURL      string
	Generated    bool
}

// videoClient is the subset of *youtube.Client used here.
type videoClient interface {
	GetVideoContext(ctx context.Context, id string) (*youtube.Video, error)
	GetTranscriptCtx(ctx context.Context, video *youtube.Video, lang string) (youtube.VideoTranscript, error)
}

// YouTube fetches caption transcripts through the innertube API.
type YouTube struct {
	client    videoClient
	languages []string
}

func NewYouTube(cfg Config) *YouTube {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return newYouTube(&youtube.Client{HTTPClient: httpClient}, cfg.Languages)
}

func newYouTube(client videoClient, languages []string) *YouTube {
	if len(languages) == 0 {
		languages = []string{"en"}
	}
	return &YouTube{client: client, languages: languages}
}

// Fetch returns the transcript of the best caption track for videoID.
// Every failure wraps ErrNotFound.
func (y *YouTube) Fetch(ctx context.Context, videoID string) ([]models.Segment, error) {
	video, err := y.client.GetVideoContext(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("video %s: %w: %w", videoID, ErrNotFound, err)
	}

	track, err := FindTrack(Tracks(video), y.languages)
	if err != nil {
		return nil, fmt.Errorf("video %s: %w", videoID, err)
	}

	transcript, err := y.client.GetTranscriptCtx(ctx, video, track.LanguageCode)
	if err != nil {
		return nil, fmt.Errorf("video %s: %s captions: %w: %w", videoID, track.LanguageCode, ErrNotFound, err)
	}

	segments := toSegments(transcript)
	if len(segments) == 0 {
		return nil, fmt.Errorf("video %s: empty %s transcript: %w", videoID, track.LanguageCode, ErrNotFound)
	}
	return segments, nil
}

// Tracks lists the caption tracks of video.
func Tracks(video *youtube.Video) []Track {
	if video == nil {
		return nil
	}
	tracks := make([]Track, 0, len(video.CaptionTracks))
	for _, ct := range video.CaptionTracks {
		tracks = append(tracks, Track{
			LanguageCode: ct.LanguageCode,
			BaseURL:      ct.BaseURL,
			Generated:    ct.Kind == "asr",
		})
	}
	return tracks
}

// FindTrack picks the first track matching languages in order, preferring
// manually created captions over generated ones for each language.
func FindTrack(tracks []Track, languages []string) (Track, error) {
	if len(tracks) == 0 {
		return Track{}, fmt.Errorf("no caption tracks: %w", ErrNotFound)
	}
	for _, lang := range languages {
		for _, generated := range []bool{false, true} {
			for _, t := range tracks {
				if t.LanguageCode == lang && t.Generated == generated {
					return t, nil
				}
			}
		}
	}
	return Track{}, fmt.Errorf("no track for languages %v: %w", languages, ErrNotFound)
}

func toSegments(transcript youtube.VideoTranscript) []models.Segment {
	segments := make([]models.Segment, 0, len(transcript))
	for _, ts := range transcript {
		text := strings.TrimSpace(tagPattern.ReplaceAllString(html.UnescapeString(ts.Text), ""))
		if text == "" {
			continue
		}
		segments = append(segments, models.Segment{
			Text:     text,
			Start:    float64(ts.StartMs) / 1000,
			Duration: float64(ts.Duration) / 1000,
		})
	}
	return segments
}

// VTTFile serves the same local WebVTT file for every video id.
type VTTFile struct {
	Path string
}

func (f VTTFile) Fetch(_ context.Context, _ string) ([]models.Segment, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}
	return ParseVTT(string(data))
}
