package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"jamesfarrell.me/ad-skipper/internal/adspan"
	"jamesfarrell.me/ad-skipper/internal/logger"
	"jamesfarrell.me/ad-skipper/internal/models"
)

const (
	msgNotMatched          = "Matching segments not found"
	msgTranscriptNotFound  = "Transcription not found"
	msgInferenceUnparsable = "Error parsing OpenAI response"
	msgInferenceNotReady   = "OpenAI Response: Not available"
)

type Locator interface {
	Locate(ctx context.Context, videoID string) (models.AdTimestamps, error)
}

type VideoHandler struct {
	locator Locator
	log     *logger.Logger
}

func NewVideoHandler(locator Locator, log *logger.Logger) *VideoHandler {
	return &VideoHandler{locator: locator, log: log}
}

// ProcessVideo locates the ad span of the requested video.
func (h *VideoHandler) ProcessVideo(w http.ResponseWriter, r *http.Request) {
	reqLog := h.log.WithRequest(r).With("handler", "process_video")

	var video models.VideoRequest
	if err := json.NewDecoder(r.Body).Decode(&video); err != nil {
		reqLog.WithError(err).Warn("error decoding request body")
		writeJSON(w, http.StatusUnprocessableEntity, models.ErrorResponse{Detail: "invalid request body"})
		return
	}

	videoID := models.ExtractVideoID(video.VideoID)
	if videoID == "" {
		writeJSON(w, http.StatusUnprocessableEntity, models.ErrorResponse{Detail: "videoId is required"})
		return
	}
	reqLog = reqLog.With("video_id", videoID)

	ts, err := h.locator.Locate(r.Context(), videoID)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, ts)
	case errors.Is(err, adspan.ErrNoMatch):
		writeJSON(w, http.StatusOK, models.MessageResponse{Message: msgNotMatched})
	case errors.Is(err, adspan.ErrTranscriptUnavailable):
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Detail: msgTranscriptNotFound})
	case errors.Is(err, adspan.ErrInferenceUnparsable):
		reqLog.WithError(err).Error("inference response unparsable")
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Detail: msgInferenceUnparsable})
	default:
		reqLog.WithError(err).Error("inference unavailable")
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Detail: msgInferenceNotReady})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
