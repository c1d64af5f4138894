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

// YTDLPDownloader downloads remote videos by shelling out to yt-dlp.
type YTDLPDownloader struct {
	binary  string
	workDir string
	logger  *logging.Logger
}

func NewYTDLPDownloader(binary, workDir string, logger *logging.Logger) *YTDLPDownloader {
	if binary == "" {
		binary = "yt-dlp"
	}
	if workDir == "" {
		workDir = "_media"
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &YTDLPDownloader{binary: binary, workDir: workDir, logger: logger}
}

// Download fetches the video as MP4 into the work directory. Output names
// are uuid-based so concurrent conversations never collide.
func (d *YTDLPDownloader) Download(ctx context.Context, link string) (string, error) {
	if err := os.MkdirAll(d.workDir, 0o755); err != nil {
		return "", fmt.Errorf("media: create work dir: %w", err)
	}
	outPath := filepath.Join(d.workDir, uuid.NewString()+".mp4")

	cmd := exec.CommandContext(ctx, d.binary,
		"-f", "mp4",
		"-o", outPath,
		link,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		d.logger.Error("yt-dlp failed", "link", link, "output", string(out))
		return "", fmt.Errorf("media: yt-dlp: %w", err)
	}
	return outPath, nil
}
