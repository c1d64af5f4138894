package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"

	"github.com/eportaro/langchain-waha-flaskapi/pkg/logging"
)

type transcriptionClient interface {
	CreateTranscription(ctx context.Context, request openai.AudioRequest) (openai.AudioResponse, error)
}

// WhisperTranscriber transcribes audio through the OpenAI audio API and
// writes the text to a transcript artifact.
type WhisperTranscriber struct {
	client  transcriptionClient
	model   string
	workDir string
	logger  *logging.Logger
}

func NewWhisperTranscriber(client transcriptionClient, model, workDir string, logger *logging.Logger) *WhisperTranscriber {
	if client == nil {
		panic("media: transcription client cannot be nil")
	}
	if model == "" {
		model = openai.Whisper1
	}
	if workDir == "" {
		workDir = "_media"
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &WhisperTranscriber{client: client, model: model, workDir: workDir, logger: logger}
}

// Transcribe produces a transcript file for the audio artifact. An empty
// transcription yields an empty file, which the pipeline reports as the
// no-output condition rather than a crash.
func (t *WhisperTranscriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	resp, err := t.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    t.model,
		FilePath: audioPath,
		Language: "es",
	})
	if err != nil {
		return "", fmt.Errorf("media: transcription request: %w", err)
	}

	if err := os.MkdirAll(t.workDir, 0o755); err != nil {
		return "", fmt.Errorf("media: create work dir: %w", err)
	}
	outPath := filepath.Join(t.workDir, uuid.NewString()+".txt")
	if err := os.WriteFile(outPath, []byte(resp.Text), 0o644); err != nil {
		return "", fmt.Errorf("media: write transcript: %w", err)
	}
	return outPath, nil
}
