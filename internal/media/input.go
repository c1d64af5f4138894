package media

import (
	"regexp"
	"strings"
)

// InputKind selects the pipeline entry stage.
type InputKind string

const (
	// KindRemoteVideo is a video link that must be downloaded first.
	KindRemoteVideo InputKind = "remote_video"
	// KindLocalVideo is a local video file; extraction is the entry stage.
	KindLocalVideo InputKind = "local_video"
	// KindLocalAudio is a local audio file; transcription is the entry stage.
	KindLocalAudio InputKind = "local_audio"
)

// Input is what the router hands the pipeline: a source (URL or local
// path) plus the kind that decides where the stage chain starts.
type Input struct {
	Kind   InputKind
	Source string
}

var youtubeLinkPattern = regexp.MustCompile(`https?://(www\.)?(youtube\.com/watch\?v=|youtu\.be/)[\w-]+`)

var (
	videoExtensions = []string{".mp4"}
	audioExtensions = []string{".mp3", ".ogg", ".wav", ".opus"}
)

// Detect inspects a message and reports whether it references processable
// media: a YouTube link, or a local video/audio file path.
func Detect(message string) (Input, bool) {
	if link := youtubeLinkPattern.FindString(message); link != "" {
		return Input{Kind: KindRemoteVideo, Source: link}, true
	}

	for _, tok := range strings.Fields(message) {
		lower := strings.ToLower(tok)
		for _, ext := range videoExtensions {
			if strings.HasSuffix(lower, ext) {
				return Input{Kind: KindLocalVideo, Source: tok}, true
			}
		}
		for _, ext := range audioExtensions {
			if strings.HasSuffix(lower, ext) {
				return Input{Kind: KindLocalAudio, Source: tok}, true
			}
		}
	}
	return Input{}, false
}
