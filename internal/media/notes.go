package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"

	"github.com/eportaro/langchain-waha-flaskapi/pkg/logging"
)

const notePrompt = `Crea una nota resumen en español del siguiente texto transcrito. La nota debe ser clara, bien estructurada y conservar los puntos principales:

%s`

type noteChatClient interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// LLMNoteSaver summarizes a transcript into a note, persists it under the
// notes directory, and returns the note text verbatim.
type LLMNoteSaver struct {
	client   noteChatClient
	model    string
	notesDir string
	logger   *logging.Logger
}

func NewLLMNoteSaver(client noteChatClient, model, notesDir string, logger *logging.Logger) *LLMNoteSaver {
	if client == nil {
		panic("media: note chat client cannot be nil")
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	if notesDir == "" {
		notesDir = "_notas"
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &LLMNoteSaver{client: client, model: model, notesDir: notesDir, logger: logger}
}

// Save reads the transcript artifact, generates the summary note, writes
// it to a timestamped file, and returns the note text.
func (s *LLMNoteSaver) Save(ctx context.Context, transcriptPath string) (string, error) {
	transcript, err := os.ReadFile(transcriptPath)
	if err != nil {
		return "", fmt.Errorf("media: read transcript: %w", err)
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf(notePrompt, string(transcript))},
		},
	})
	if err != nil {
		return "", fmt.Errorf("media: summarize transcript: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrNoOutput
	}
	note := resp.Choices[0].Message.Content

	if err := os.MkdirAll(s.notesDir, 0o755); err != nil {
		return "", fmt.Errorf("media: create notes dir: %w", err)
	}
	notePath := filepath.Join(s.notesDir, fmt.Sprintf("nota_%s_%s.txt", time.Now().UTC().Format("20060102_150405"), uuid.NewString()[:8]))
	if err := os.WriteFile(notePath, []byte(note), 0o644); err != nil {
		return "", fmt.Errorf("media: write note: %w", err)
	}
	s.logger.Info("note saved", "path", notePath)
	return note, nil
}
