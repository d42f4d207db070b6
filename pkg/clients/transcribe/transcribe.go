package transcribe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	apiURL       = "https://api.openai.com/v1/audio/transcriptions"
	whisperModel = "whisper-1"
)

// Client converts uploaded audio into text for the voice-input chat flow.
type Client interface {
	Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error)
}

// APIClient is a resty-backed implementation against the OpenAI audio API.
type APIClient struct {
	httpClient *resty.Client
}

// NewClient builds a transcription client with the given API key.
func NewClient(apiKey string) *APIClient {
	client := resty.New().
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", apiKey)).
		SetTimeout(60 * time.Second)

	return &APIClient{httpClient: client}
}

type transcriptionResponse struct {
	Text  string `json:"text"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Transcribe uploads the audio as multipart form data and returns the
// recognized text.
func (c *APIClient) Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error) {
	var respBody transcriptionResponse

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetFileReader("file", filename, audio).
		SetFormData(map[string]string{"model": whisperModel}).
		SetResult(&respBody).
		SetError(&respBody).
		Post(apiURL)
	if err != nil {
		return "", fmt.Errorf("transcription api call: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		if respBody.Error != nil && respBody.Error.Message != "" {
			return "", fmt.Errorf("transcription api error: %s", respBody.Error.Message)
		}
		return "", fmt.Errorf("transcription api error: status %d", resp.StatusCode())
	}

	return respBody.Text, nil
}
