package consultation

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"voice-triage/internal/logging"
	"voice-triage/internal/triage"
)

const maxAudioUpload = 10 << 20

type Handler struct {
	svc    Service
	logger *slog.Logger
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc, logger: logging.New("http")}
}

type StartResponse struct {
	SessionID string `json:"session_id"`
	Response  string `json:"response"`
}

type UtteranceRequest struct {
	Text string `json:"text"`
}

type SilenceRequest struct {
	DurationMs int64 `json:"duration_ms"`
}

type TTSRequest struct {
	Text string `json:"text"`
}

// TurnResponse is returned for every utterance, audio and silence event.
type TurnResponse struct {
	Response    string           `json:"response"`
	Intent      string           `json:"intent,omitempty"`
	Ended       bool             `json:"ended"`
	RiskLevel   triage.RiskLevel `json:"risk_level,omitempty"`
	Text        string           `json:"text,omitempty"`
	AudioBase64 string           `json:"audio_base64,omitempty"`
}

func turnResponse(r Reply) TurnResponse {
	return TurnResponse{
		Response:  r.Text,
		Intent:    string(r.Intent),
		Ended:     r.Ended,
		RiskLevel: r.RiskLevel(),
	}
}

func (h *Handler) StartSession(w http.ResponseWriter, r *http.Request) {
	id, reply, err := h.svc.Start(r.Context())
	if err != nil {
		h.logger.Error("failed to start session", "error", err)
		http.Error(w, "Failed to start session", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, StartResponse{SessionID: id.String(), Response: reply.Text})
}

func (h *Handler) HandleUtterance(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	var req UtteranceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	reply, err := h.svc.Utter(r.Context(), id, req.Text)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, turnResponse(reply))
}

func (h *Handler) HandleAudioUpload(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxAudioUpload)
	if err := r.ParseMultipartForm(maxAudioUpload); err != nil {
		http.Error(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("audio")
	if err != nil {
		http.Error(w, "Error retrieving audio file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		http.Error(w, "Failed to read audio file", http.StatusInternalServerError)
		return
	}

	reply, err := h.svc.ProcessAudio(r.Context(), id, buf.Bytes())
	if err != nil {
		h.writeError(w, err)
		return
	}

	resp := turnResponse(reply.Reply)
	resp.Text = reply.Transcript
	if len(reply.Audio) > 0 {
		resp.AudioBase64 = base64.StdEncoding.EncodeToString(reply.Audio)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) HandleSilence(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	var req SilenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.DurationMs < 0 {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	reply, err := h.svc.Silence(r.Context(), id, time.Duration(req.DurationMs)*time.Millisecond)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, turnResponse(reply))
}

func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	view, err := h.svc.View(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) EndSession(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	if err := h.svc.End(r.Context(), id); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleTTS(w http.ResponseWriter, r *http.Request) {
	var req TTSRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Text == "" {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	audioData, err := h.svc.SynthesizeSpeech(r.Context(), req.Text)
	if err != nil {
		h.logger.Error("speech synthesis failed", "error", err)
		http.Error(w, "TTS failed", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "audio/wav")
	w.Write(audioData)
}

func sessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid session ID", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

// writeError maps service errors to status codes without exposing details.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		http.Error(w, "Session not found", http.StatusNotFound)
	case errors.Is(err, ErrSessionClosed):
		http.Error(w, "Session has ended", http.StatusGone)
	default:
		h.logger.Error("request failed", "error", err)
		http.Error(w, "Processing failed", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// RegisterRoutes mounts the API on r. A nil limiter leaves session creation
// unthrottled.
func RegisterRoutes(r chi.Router, h *Handler, limiter *RateLimiter) {
	r.Route("/api/sessions", func(r chi.Router) {
		if limiter != nil {
			r.With(limiter.Middleware).Post("/", h.StartSession)
		} else {
			r.Post("/", h.StartSession)
		}
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetSession)
			r.Delete("/", h.EndSession)
			r.Post("/utterances", h.HandleUtterance)
			r.Post("/audio", h.HandleAudioUpload)
			r.Post("/silence", h.HandleSilence)
		})
	})
	r.Post("/api/tts", h.HandleTTS)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
}
