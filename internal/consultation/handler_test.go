package consultation

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voice-triage/internal/triage"
)

func newTestRouter(t *testing.T) (http.Handler, *testService) {
	t.Helper()
	ts := newTestService(t)
	r := chi.NewRouter()
	RegisterRoutes(r, NewHandler(ts.service), nil)
	return r, ts
}

func do(t *testing.T, h http.Handler, method, path string, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func startSession(t *testing.T, h http.Handler) string {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/api/sessions", "")
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp StartResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotEmpty(t, resp.Response)
	return resp.SessionID
}

func TestHandler_ConversationFlow(t *testing.T) {
	h, _ := newTestRouter(t)
	id := startSession(t, h)

	rec := do(t, h, http.MethodPost, "/api/sessions/"+id+"/utterances", `{"text":"I have severe chest pain"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var turn TurnResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&turn))
	assert.Equal(t, triage.RiskEmergency, turn.RiskLevel)
	assert.False(t, turn.Ended)
	assert.NotEmpty(t, turn.Response)

	rec = do(t, h, http.MethodGet, "/api/sessions/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "chest", "the view never exposes symptom text")
	var view SessionView
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&view))
	assert.Equal(t, 1, view.SymptomCount)

	rec = do(t, h, http.MethodDelete, "/api/sessions/"+id, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(t, h, http.MethodDelete, "/api/sessions/"+id, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/sessions/"+id, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_Errors(t *testing.T) {
	h, _ := newTestRouter(t)
	id := startSession(t, h)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"bad id", http.MethodPost, "/api/sessions/not-a-uuid/utterances", `{"text":"hi"}`, http.StatusBadRequest},
		{"bad body", http.MethodPost, "/api/sessions/" + id + "/utterances", `{`, http.StatusBadRequest},
		{"unknown session", http.MethodPost, "/api/sessions/" + uuid.NewString() + "/utterances", `{"text":"hi"}`, http.StatusNotFound},
		{"negative silence", http.MethodPost, "/api/sessions/" + id + "/silence", `{"duration_ms":-5}`, http.StatusBadRequest},
		{"empty tts", http.MethodPost, "/api/tts", `{"text":""}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestHandler_Silence(t *testing.T) {
	h, _ := newTestRouter(t)
	id := startSession(t, h)

	rec := do(t, h, http.MethodPost, "/api/sessions/"+id+"/silence", `{"duration_ms":60000}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var turn TurnResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&turn))
	assert.True(t, turn.Ended)

	rec = do(t, h, http.MethodPost, "/api/sessions/"+id+"/silence", `{"duration_ms":1000}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_AudioUpload(t *testing.T) {
	h, ts := newTestRouter(t)
	id := startSession(t, h)
	ts.stt.text = "I have a slight cough"

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("audio", "turn.wav")
	require.NoError(t, err)
	_, err = fw.Write([]byte("RIFF...."))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/sessions/"+id+"/audio", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var turn TurnResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&turn))
	assert.Equal(t, "I have a slight cough", turn.Text)
	assert.NotEmpty(t, turn.AudioBase64)
	assert.Equal(t, triage.RiskMild, turn.RiskLevel)
}

func TestHandler_AudioUploadMissingFile(t *testing.T) {
	h, _ := newTestRouter(t)
	id := startSession(t, h)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("note", "no audio"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/sessions/"+id+"/audio", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_TTSAndHealth(t *testing.T) {
	h, ts := newTestRouter(t)

	rec := do(t, h, http.MethodPost, "/api/tts", `{"text":"hello there"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "audio/wav", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Body.Bytes())
	require.Len(t, ts.tts.params, 1)
	assert.Equal(t, "moderate", ts.tts.params[0].Emphasis)

	rec = do(t, h, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandler_StartRateLimited(t *testing.T) {
	ts := newTestService(t)
	r := chi.NewRouter()
	RegisterRoutes(r, NewHandler(ts.service), NewRateLimiter(0.001, 2))

	assert.Equal(t, http.StatusCreated, do(t, r, http.MethodPost, "/api/sessions", "").Code)
	assert.Equal(t, http.StatusCreated, do(t, r, http.MethodPost, "/api/sessions", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, do(t, r, http.MethodPost, "/api/sessions", "").Code)

	// other clients keep their own budget
	req := httptest.NewRequest(http.MethodPost, "/api/sessions", nil)
	req.RemoteAddr = "198.51.100.7:5000"
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)

	// only session creation is throttled
	id := startSessionVia(t, ts)
	rec = do(t, r, http.MethodGet, "/api/sessions/"+id.String(), "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func startSessionVia(t *testing.T, ts *testService) uuid.UUID {
	t.Helper()
	id, _, err := ts.service.Start(context.Background())
	require.NoError(t, err)
	return id
}

func TestClientKey(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.9:41000"
	assert.Equal(t, "203.0.113.9", clientKey(req))

	req.RemoteAddr = "pipe"
	assert.Equal(t, "pipe", clientKey(req))
}

func TestHandler_EndedSessionStatus(t *testing.T) {
	t.Run("ended by the user is gone", func(t *testing.T) {
		h, _ := newTestRouter(t)
		id := startSession(t, h)

		rec := do(t, h, http.MethodPost, "/api/sessions/"+id+"/utterances", `{"text":"goodbye"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = do(t, h, http.MethodPost, "/api/sessions/"+id+"/utterances", `{"text":"hello?"}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("past the grace delay", func(t *testing.T) {
		h, ts := newTestRouter(t)
		id := startSession(t, h)

		rec := do(t, h, http.MethodPost, "/api/sessions/"+id+"/utterances", `{"text":"I have a slight cough"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		ts.advance(11 * time.Second)
		rec = do(t, h, http.MethodPost, "/api/sessions/"+id+"/utterances", `{"text":"one more thing"}`)
		assert.Equal(t, http.StatusGone, rec.Code)

		rec = do(t, h, http.MethodGet, "/api/sessions/"+id, "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
