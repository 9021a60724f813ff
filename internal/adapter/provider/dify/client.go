// Package dify is an HTTP client for an audio-to-text transcription API.
package dify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/altis0725/insurance-ai-backend/internal/config"
)

// Client talks to an audio-to-text endpoint.
type Client struct {
	cfg  config.TranscriptionConfig
	http *http.Client
	log  *slog.Logger
}

// NewClient creates a transcription client from config.
func NewClient(cfg config.TranscriptionConfig, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
		log:  logger.With("component", "dify"),
	}
}

type transcriptionResponse struct {
	Text string `json:"text"`
}

// Transcribe uploads audio bytes and returns the transcript text.
// Transport failures and non-2xx statuses are hard errors; there is no
// defensive fallback here, the pipeline decides what a failure means.
func (c *Client) Transcribe(ctx context.Context, audio []byte, fileName string) (string, error) {
	start := time.Now()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", fileName)
	if err != nil {
		return "", fmt.Errorf("build multipart form: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return "", fmt.Errorf("write audio part: %w", err)
	}
	if err := w.WriteField("user", "insurance-ai-backend"); err != nil {
		return "", fmt.Errorf("write user field: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("close multipart form: %w", err)
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/audio-to-text"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return "", fmt.Errorf("build transcription request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error("transcription request failed",
			"file", fileName,
			"error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return "", fmt.Errorf("transcription request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read transcription response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("transcription endpoint status %d: %s", resp.StatusCode, string(raw))
	}

	var out transcriptionResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("decode transcription response: %w", err)
	}

	c.log.Info("transcription ok",
		"file", fileName,
		"audio_bytes", len(audio),
		"transcript_len", len(out.Text),
		"elapsed_ms", time.Since(start).Milliseconds())
	return out.Text, nil
}
