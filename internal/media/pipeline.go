package media

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/eportaro/langchain-waha-flaskapi/pkg/logging"
)

// StageName identifies one pipeline stage in failure reports.
type StageName string

const (
	StageDownload   StageName = "download"
	StageExtract    StageName = "extract_audio"
	StageTranscribe StageName = "transcribe"
	StageSaveNote   StageName = "save_note"
)

// DisplayName returns the Spanish user-facing name of the stage.
func (s StageName) DisplayName() string {
	switch s {
	case StageDownload:
		return "la descarga del video"
	case StageExtract:
		return "la extracción del audio"
	case StageTranscribe:
		return "la transcripción"
	case StageSaveNote:
		return "el guardado de la nota"
	}
	return string(s)
}

// ErrNoOutput marks a stage that ran to completion but produced no usable
// artifact, as opposed to a stage that crashed.
var ErrNoOutput = errors.New("media: stage produced no output")

// StageError tags a failure with the stage that caused it. Later stages
// are never attempted after a StageError.
type StageError struct {
	Stage StageName
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("media: stage %s failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Downloader fetches a remote video and returns the local file path.
type Downloader interface {
	Download(ctx context.Context, link string) (string, error)
}

// AudioExtractor produces an audio file from a local video file.
type AudioExtractor interface {
	Extract(ctx context.Context, videoPath string) (string, error)
}

// Transcriber produces a transcript file from a local audio file.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// NoteSaver turns a transcript file into a persisted note and returns the
// note text.
type NoteSaver interface {
	Save(ctx context.Context, transcriptPath string) (string, error)
}

// Pipeline chains the four media stages in strict order. Each stage writes
// a new artifact; nothing is mutated in place, and no stage retries.
type Pipeline struct {
	downloader  Downloader
	extractor   AudioExtractor
	transcriber Transcriber
	saver       NoteSaver
	logger      *logging.Logger
}

func NewPipeline(downloader Downloader, extractor AudioExtractor, transcriber Transcriber, saver NoteSaver, logger *logging.Logger) *Pipeline {
	if extractor == nil {
		panic("media: audio extractor cannot be nil")
	}
	if transcriber == nil {
		panic("media: transcriber cannot be nil")
	}
	if saver == nil {
		panic("media: note saver cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Pipeline{
		downloader:  downloader,
		extractor:   extractor,
		transcriber: transcriber,
		saver:       saver,
		logger:      logger,
	}
}

// Run drives the stages for the given input and returns the saved note
// text. The entry stage depends on the input kind: remote links start at
// download, local videos at extraction, local audio at transcription.
func (p *Pipeline) Run(ctx context.Context, input Input) (string, error) {
	var (
		videoPath string
		audioPath string
		err       error
	)

	switch input.Kind {
	case KindRemoteVideo:
		if p.downloader == nil {
			return "", &StageError{Stage: StageDownload, Err: errors.New("no downloader configured")}
		}
		videoPath, err = p.downloader.Download(ctx, input.Source)
		if err != nil {
			return "", &StageError{Stage: StageDownload, Err: err}
		}
		if err := validateArtifact(videoPath); err != nil {
			return "", &StageError{Stage: StageDownload, Err: err}
		}
		p.logger.Info("media downloaded", "path", videoPath)
	case KindLocalVideo:
		videoPath = input.Source
	case KindLocalAudio:
		audioPath = input.Source
	default:
		return "", fmt.Errorf("media: unknown input kind %q", input.Kind)
	}

	if audioPath == "" {
		audioPath, err = p.extractor.Extract(ctx, videoPath)
		if err != nil {
			return "", &StageError{Stage: StageExtract, Err: err}
		}
		if err := validateArtifact(audioPath); err != nil {
			return "", &StageError{Stage: StageExtract, Err: err}
		}
		p.logger.Info("audio extracted", "path", audioPath)
	}

	transcriptPath, err := p.transcriber.Transcribe(ctx, audioPath)
	if err != nil {
		return "", &StageError{Stage: StageTranscribe, Err: err}
	}
	// A transcriber that returns a path to a missing or empty file ran but
	// produced nothing; that condition gets its own error.
	if err := validateArtifact(transcriptPath); err != nil {
		return "", &StageError{Stage: StageTranscribe, Err: ErrNoOutput}
	}
	p.logger.Info("audio transcribed", "path", transcriptPath)

	note, err := p.saver.Save(ctx, transcriptPath)
	if err != nil {
		return "", &StageError{Stage: StageSaveNote, Err: err}
	}
	if note == "" {
		return "", &StageError{Stage: StageSaveNote, Err: ErrNoOutput}
	}
	return note, nil
}

// validateArtifact checks that a stage's output file exists and is
// non-empty before the next stage may consume it.
func validateArtifact(path string) error {
	if path == "" {
		return ErrNoOutput
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("media: artifact missing: %w", err)
	}
	if info.Size() == 0 {
		return ErrNoOutput
	}
	return nil
}
