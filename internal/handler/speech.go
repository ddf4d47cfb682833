package handler

import (
	"fmt"
	"net/http"

	"github.com/vpay/vpay-backend/internal/models"
	"github.com/vpay/vpay-backend/internal/speech"
)

const maxAudioUpload = 10 << 20 // 10 MiB

type speechResponse struct {
	Text   string        `json:"text"`
	Intent models.Intent `json:"intent"`
}

// ProcessAudio accepts a multipart audio upload and returns the transcript
// with the extracted payment intent
func (h *Handler) ProcessAudio(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxAudioUpload); err != nil {
		h.respondError(w, fmt.Errorf("%w: invalid multipart body", models.ErrInvalidInput))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.respondError(w, fmt.Errorf("%w: audio file required", models.ErrInvalidInput))
		return
	}
	defer file.Close()

	h.log.Infof("Received audio file: %s", header.Filename)

	transcript, err := h.recognizer.Transcribe(file)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, speechResponse{
		Text:   transcript,
		Intent: speech.ParseIntent(transcript),
	})
}
