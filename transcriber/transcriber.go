// Package transcriber turns recorded audio files into text via a remote
// speech-to-text API.
package transcriber

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrNoAudioFile    = errors.New("audio file does not exist")
	ErrEmptyAudioFile = errors.New("audio file is empty")
)

// Response is the transcription API response schema. Only Text is
// surfaced to callers; the rest is parsed so schema drift shows up as a
// parse error with the raw payload attached instead of silent garbage.
type Response struct {
	Model        string            `json:"model"`
	Text         string            `json:"text"`
	Language     string            `json:"language,omitempty"`
	Usage        *Usage            `json:"usage,omitempty"`
	Segments     []json.RawMessage `json:"segments,omitempty"`
	FinishReason string            `json:"finish_reason,omitempty"`
}

// Usage is the provider's accounting block.
type Usage struct {
	PromptAudioSeconds float64 `json:"prompt_audio_seconds"`
	PromptTokens       uint64  `json:"prompt_tokens"`
	TotalTokens        uint64  `json:"total_tokens"`
	CompletionTokens   uint64  `json:"completion_tokens"`
}

// StatusError is a non-success HTTP response, carrying the status and
// body verbatim for diagnosing provider-side failures.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("transcription API error (%d): %s", e.Status, e.Body)
}

// ParseError is a response body that did not match the expected schema.
// RawBody holds the payload as received.
type ParseError struct {
	RawBody string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse transcription response: %v (raw response: %s)", e.Err, e.RawBody)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Transcriber converts a finished audio file plus a credential into
// transcribed text. The optional language hint is passed verbatim; empty
// means let the provider detect it.
type Transcriber interface {
	Name() string
	Transcribe(ctx context.Context, path, apiKey, language string) (string, error)
}
