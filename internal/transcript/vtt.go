package transcript

import (
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"
	"time"

	"jamesfarrell.me/ad-skipper/internal/models"
)

// tagPattern matches inline cue markup such as <c>, <i> and <00:00:01.000>.
var tagPattern = regexp.MustCompile(`<[^>]*>`)

// ParseVTT parses WebVTT content into transcript segments
func ParseVTT(content string) ([]models.Segment, error) {
	// Trim any quotes from the content
	content = strings.Trim(content, "\"")

	// Convert literal \n to actual newlines if needed
	if strings.Contains(content, "\\n") {
		content = strings.ReplaceAll(content, "\\n", "\n")
	}
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.TrimPrefix(content, "\ufeff")

	if !strings.HasPrefix(content, "WEBVTT") {
		return nil, fmt.Errorf("invalid VTT format: missing WEBVTT header")
	}

	segments := []models.Segment{}
	for _, block := range strings.Split(content, "\n\n") {
		lines := strings.Split(strings.Trim(block, "\n"), "\n")

		// The cue may be preceded by an identifier line
		timing := -1
		for i, line := range lines {
			if strings.Contains(line, "-->") {
				timing = i
				break
			}
		}
		if timing == -1 || strings.HasPrefix(lines[0], "NOTE") {
			continue
		}

		timestamps := strings.SplitN(lines[timing], "-->", 2)
		start, err := parseVTTTimestamp(strings.TrimSpace(timestamps[0]))
		if err != nil {
			return nil, fmt.Errorf("invalid start timestamp: %w", err)
		}

		// Cue settings may follow the end timestamp
		endFields := strings.Fields(timestamps[1])
		if len(endFields) == 0 {
			return nil, fmt.Errorf("invalid end timestamp: missing")
		}
		end, err := parseVTTTimestamp(endFields[0])
		if err != nil {
			return nil, fmt.Errorf("invalid end timestamp: %w", err)
		}

		text := cueText(lines[timing+1:])
		if text == "" {
			continue
		}

		segments = append(segments, models.Segment{
			Text:     text,
			Start:    start.Seconds(),
			Duration: (end - start).Seconds(),
		})
	}

	return segments, nil
}

func cueText(lines []string) string {
	parts := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(html.UnescapeString(tagPattern.ReplaceAllString(line, "")))
		if line != "" {
			parts = append(parts, line)
		}
	}
	return strings.Join(parts, " ")
}

func parseVTTTimestamp(timestamp string) (time.Duration, error) {
	// Validate format (HH:MM:SS.mmm or MM:SS.mmm)
	if !strings.Contains(timestamp, ".") {
		return 0, fmt.Errorf("invalid timestamp format: missing milliseconds")
	}

	parts := strings.Split(timestamp, ":")
	var hours int
	switch len(parts) {
	case 3:
		if len(parts[0]) < 2 {
			return 0, fmt.Errorf("invalid timestamp format: expected HH:MM:SS.mmm")
		}
		h, err := strconv.Atoi(parts[0])
		if err != nil {
			return 0, fmt.Errorf("invalid hours: %w", err)
		}
		hours = h
		parts = parts[1:]
	case 2:
	default:
		return 0, fmt.Errorf("invalid timestamp format: expected HH:MM:SS.mmm")
	}

	if len(parts[0]) != 2 {
		return 0, fmt.Errorf("invalid timestamp format: expected two-digit minutes")
	}
	minutes, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid minutes: %w", err)
	}

	// Split seconds and milliseconds
	secondParts := strings.Split(parts[1], ".")
	if len(secondParts) != 2 || len(secondParts[1]) != 3 {
		return 0, fmt.Errorf("invalid seconds format: expected SS.mmm")
	}

	seconds, err := strconv.Atoi(secondParts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid seconds: %w", err)
	}

	milliseconds, err := strconv.Atoi(secondParts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid milliseconds: %w", err)
	}

	duration := time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second +
		time.Duration(milliseconds)*time.Millisecond

	return duration, nil
}
