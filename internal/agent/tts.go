package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"time"

	"voice-triage/internal/triage"
)

const (
	defaultSpeaker    = "en_0"
	defaultSampleRate = 24000
)

type TTSClient interface {
	Synthesize(ctx context.Context, text string, params triage.SpeechParams) ([]byte, error)
}

type sileroClient struct {
	url        string
	httpClient *http.Client
}

// NewSileroClient returns a client for a Silero-compatible /synthesize
// endpoint that accepts SSML and returns WAV audio.
func NewSileroClient(url string) TTSClient {
	return &sileroClient{
		url: url,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type ttsRequest struct {
	SSML       string `json:"ssml"`
	Speaker    string `json:"speaker"`
	SampleRate int    `json:"sample_rate"`
}

func (c *sileroClient) Synthesize(ctx context.Context, text string, params triage.SpeechParams) ([]byte, error) {
	ssml, err := buildSSML(text, params)
	if err != nil {
		return nil, err
	}

	speaker := params.Voice
	if speaker == "" {
		speaker = defaultSpeaker
	}
	jsonBody, err := json.Marshal(ttsRequest{SSML: ssml, Speaker: speaker, SampleRate: defaultSampleRate})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("TTS request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("TTS API error: %s - %s", resp.Status, string(body))
	}

	return io.ReadAll(resp.Body)
}

// buildSSML wraps text in prosody matching params. Strong emphasis lowers
// an otherwise neutral pitch.
func buildSSML(text string, params triage.SpeechParams) (string, error) {
	var escaped bytes.Buffer
	if err := xml.EscapeText(&escaped, []byte(text)); err != nil {
		return "", err
	}
	pitch := pitchWord(params.Pitch)
	if params.Emphasis == "strong" && pitch == "medium" {
		pitch = "low"
	}
	return fmt.Sprintf(`<speak><prosody rate="%s" pitch="%s">%s</prosody></speak>`,
		rateWord(params.Rate), pitch, escaped.String()), nil
}

func rateWord(rate float64) string {
	switch {
	case rate == 0:
		return "medium"
	case rate < 0.8:
		return "x-slow"
	case rate < 0.95:
		return "slow"
	case rate > 1.2:
		return "fast"
	default:
		return "medium"
	}
}

func pitchWord(pitch float64) string {
	switch {
	case pitch == 0:
		return "medium"
	case pitch < 0.9:
		return "low"
	case pitch > 1.1:
		return "high"
	default:
		return "medium"
	}
}
