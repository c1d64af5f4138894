package media

import (
	"context"
	"errors"
	"os"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAudioClient struct {
	text string
	err  error
}

func (s *stubAudioClient) CreateTranscription(ctx context.Context, req openai.AudioRequest) (openai.AudioResponse, error) {
	if s.err != nil {
		return openai.AudioResponse{}, s.err
	}
	return openai.AudioResponse{Text: s.text}, nil
}

func TestWhisperTranscriberWritesTranscript(t *testing.T) {
	workDir := t.TempDir()
	tr := NewWhisperTranscriber(&stubAudioClient{text: "hola mundo"}, "", workDir, nil)

	path, err := tr.Transcribe(context.Background(), "audio.wav")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hola mundo", string(data))
}

func TestWhisperTranscriberEmptyTextYieldsEmptyFile(t *testing.T) {
	workDir := t.TempDir()
	tr := NewWhisperTranscriber(&stubAudioClient{text: ""}, "", workDir, nil)

	path, err := tr.Transcribe(context.Background(), "audio.wav")
	require.NoError(t, err)

	// The pipeline turns this into the no-output condition.
	assert.Error(t, validateArtifact(path))
}

func TestWhisperTranscriberAPIFailure(t *testing.T) {
	tr := NewWhisperTranscriber(&stubAudioClient{err: errors.New("timeout")}, "", t.TempDir(), nil)

	_, err := tr.Transcribe(context.Background(), "audio.wav")
	require.Error(t, err)
}

type stubNoteChatClient struct {
	note string
	err  error
}

func (s *stubNoteChatClient) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	if s.err != nil {
		return openai.ChatCompletionResponse{}, s.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: s.note}},
		},
	}, nil
}

func TestLLMNoteSaverPersistsAndReturnsNote(t *testing.T) {
	transcript := writeArtifact(t, "t.txt", "contenido transcrito")
	notesDir := t.TempDir()
	saver := NewLLMNoteSaver(&stubNoteChatClient{note: "resumen de la clase"}, "", notesDir, nil)

	note, err := saver.Save(context.Background(), transcript)
	require.NoError(t, err)
	assert.Equal(t, "resumen de la clase", note)

	entries, err := os.ReadDir(notesDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestLLMNoteSaverMissingTranscript(t *testing.T) {
	saver := NewLLMNoteSaver(&stubNoteChatClient{note: "x"}, "", t.TempDir(), nil)

	_, err := saver.Save(context.Background(), "/nonexistent/t.txt")
	require.Error(t, err)
}
