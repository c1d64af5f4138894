package media

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/eportaro/langchain-waha-flaskapi/pkg/logging"
)

// FFmpegExtractor extracts a WAV audio track from a video by shelling out
// to ffmpeg.
type FFmpegExtractor struct {
	binary  string
	workDir string
	logger  *logging.Logger
}

func NewFFmpegExtractor(binary, workDir string, logger *logging.Logger) *FFmpegExtractor {
	if binary == "" {
		binary = "ffmpeg"
	}
	if workDir == "" {
		workDir = "_media"
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &FFmpegExtractor{binary: binary, workDir: workDir, logger: logger}
}

// Extract writes a new WAV artifact next to the other intermediates. The
// input video is left untouched.
func (e *FFmpegExtractor) Extract(ctx context.Context, videoPath string) (string, error) {
	if err := os.MkdirAll(e.workDir, 0o755); err != nil {
		return "", fmt.Errorf("media: create work dir: %w", err)
	}
	outPath := filepath.Join(e.workDir, uuid.NewString()+".wav")

	cmd := exec.CommandContext(ctx, e.binary,
		"-i", videoPath,
		"-vn",
		"-acodec", "pcm_s16le",
		"-ar", "16000",
		"-ac", "1",
		outPath,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		e.logger.Error("ffmpeg failed", "video", videoPath, "output", string(out))
		return "", fmt.Errorf("media: ffmpeg: %w", err)
	}
	return outPath, nil
}
