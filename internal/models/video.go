package models

import (
	"net/url"
	"strings"
)

// Segment is one timed caption line. Start and Duration are in seconds.
type Segment struct {
	Text     string  `json:"text"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}

// AdSpanGuess holds the phrases the model expects at the ad's boundaries.
type AdSpanGuess struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type MatchResult struct {
	Start *Segment
	End   *Segment
}

// Found reports whether both boundaries were located.
func (m MatchResult) Found() bool {
	return m.Start != nil && m.End != nil
}

type VideoRequest struct {
	VideoID string `json:"videoId"`
}

type AdTimestamps struct {
	StartTime   float64 `json:"start_time"`
	EndTime     float64 `json:"end_time"`
	EndDuration float64 `json:"end_duration"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Detail string `json:"detail"`
}

// ExtractVideoID accepts a bare video id or a YouTube URL and returns the id.
func ExtractVideoID(raw string) string {
	raw = strings.TrimSpace(raw)
	if !strings.ContainsAny(raw, "/?=") {
		return raw
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	if v := u.Query().Get("v"); v != "" {
		return v
	}
	path := strings.Trim(u.Path, "/")
	switch {
	case strings.HasSuffix(u.Host, "youtu.be"):
		return firstSegment(path)
	case strings.HasPrefix(path, "shorts/"), strings.HasPrefix(path, "embed/"), strings.HasPrefix(path, "live/"):
		return firstSegment(path[strings.Index(path, "/")+1:])
	}
	return ""
}

func firstSegment(path string) string {
	if i := strings.Index(path, "/"); i != -1 {
		return path[:i]
	}
	return path
}
