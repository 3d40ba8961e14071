package transcriber

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"time"
)

const (
	// DefaultModel is the Voxtral transcription model.
	DefaultModel = "voxtral-mini-latest"

	mistralURL     = "https://api.mistral.ai/v1/audio/transcriptions"
	defaultTimeout = 2 * time.Minute
)

// Mistral transcribes audio via the Mistral Voxtral API.
type Mistral struct {
	client *http.Client
	apiURL string
	model  string
}

// NewMistral creates a Mistral transcriber. An empty model selects
// DefaultModel.
func NewMistral(model string) *Mistral {
	if model == "" {
		model = DefaultModel
	}
	return &Mistral{
		client: &http.Client{Timeout: defaultTimeout},
		apiURL: mistralURL,
		model:  model,
	}
}

func (m *Mistral) Name() string { return "mistral" }

// Transcribe uploads the wav file and returns the transcribed text.
// The file is validated before any network I/O. One attempt, no retry:
// a failed call is reported to the caller with the provider's raw
// status and body so the response can be diagnosed.
func (m *Mistral) Transcribe(ctx context.Context, path, apiKey, language string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrNoAudioFile, path)
		}
		return "", fmt.Errorf("stat audio file: %w", err)
	}
	if info.Size() == 0 {
		return "", fmt.Errorf("%w: %s", ErrEmptyAudioFile, path)
	}

	audio, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read audio file: %w", err)
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if err := w.WriteField("model", m.model); err != nil {
		return "", err
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="file"; filename=%q`, filepath.Base(path)))
	header.Set("Content-Type", "audio/wav")
	part, err := w.CreatePart(header)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(audio); err != nil {
		return "", err
	}
	// Only send a language field when the caller gave a hint; an empty
	// field is not the same as an absent one to the API.
	if language != "" {
		if err := w.WriteField("language", language); err != nil {
			return "", err
		}
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.apiURL, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := m.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send transcription request: %w", err)
	}
	defer resp.Body.Close()

	// Read the whole body as text before parsing so a parse failure
	// still has the raw payload to show.
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read transcription response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &StatusError{Status: resp.StatusCode, Body: string(raw)}
	}

	var tr Response
	if err := json.Unmarshal(raw, &tr); err != nil {
		return "", &ParseError{RawBody: string(raw), Err: err}
	}
	return tr.Text, nil
}
