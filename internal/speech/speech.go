// Package speech turns uploaded audio into a transcript and a structured
// payment intent. Transcription is mocked; the real speech-recognition
// service is an external collaborator.
package speech

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/vpay/vpay-backend/internal/models"
)

// Intent types
const (
	IntentBillPayment = "bill_payment"
	IntentUnknown     = "unknown"
)

const mockTranscript = "Pay electricity bill 500 rupees"

var amountPattern = regexp.MustCompile(`\d+`)

// Recognizer produces transcripts from audio uploads
type Recognizer struct {
	log *logrus.Logger
}

// NewRecognizer initializes a recognizer
func NewRecognizer(log *logrus.Logger) *Recognizer {
	return &Recognizer{log: log}
}

// Transcribe reads the uploaded audio and returns a transcript. The audio
// content is consumed but the transcript is a fixed mock.
func (r *Recognizer) Transcribe(audio io.Reader) (string, error) {
	content, err := io.ReadAll(audio)
	if err != nil {
		return "", fmt.Errorf("failed to read audio: %w", err)
	}
	if len(content) == 0 {
		return "", fmt.Errorf("%w: empty audio", models.ErrInvalidInput)
	}
	r.log.Debugf("Transcribed %d bytes of audio", len(content))
	return mockTranscript, nil
}

// ParseIntent extracts a structured payment intent from free text using
// keyword and number matching
func ParseIntent(text string) models.Intent {
	text = strings.ToLower(text)
	intent := models.Intent{Type: IntentUnknown}

	if !strings.Contains(text, "pay") {
		return intent
	}
	intent.Type = IntentBillPayment

	if match := amountPattern.FindString(text); match != "" {
		if amount, err := strconv.Atoi(match); err == nil {
			intent.Amount = amount
		}
	}

	switch {
	case strings.Contains(text, "electricity"):
		intent.Biller = "Electricity Board"
	case strings.Contains(text, "water"):
		intent.Biller = "Water Board"
	case strings.Contains(text, "mobile"), strings.Contains(text, "recharge"):
		intent.Biller = "Mobile Recharge"
	}

	return intent
}
