package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectYouTubeLink(t *testing.T) {
	input, ok := Detect("mira este video https://www.youtube.com/watch?v=dQw4w9WgXcQ por favor")
	require.True(t, ok)
	assert.Equal(t, KindRemoteVideo, input.Kind)
	assert.Equal(t, "https://www.youtube.com/watch?v=dQw4w9WgXcQ", input.Source)
}

func TestDetectShortYouTubeLink(t *testing.T) {
	input, ok := Detect("https://youtu.be/dQw4w9WgXcQ")
	require.True(t, ok)
	assert.Equal(t, KindRemoteVideo, input.Kind)
}

func TestDetectLocalVideoFile(t *testing.T) {
	input, ok := Detect("te mando /tmp/uploads/clase.mp4")
	require.True(t, ok)
	assert.Equal(t, KindLocalVideo, input.Kind)
	assert.Equal(t, "/tmp/uploads/clase.mp4", input.Source)
}

func TestDetectLocalAudioFile(t *testing.T) {
	for _, name := range []string{"audio.mp3", "voz.ogg", "nota.WAV"} {
		input, ok := Detect("archivo: " + name)
		require.True(t, ok, name)
		assert.Equal(t, KindLocalAudio, input.Kind, name)
	}
}

func TestDetectPlainQuestion(t *testing.T) {
	_, ok := Detect("¿qué programas ofrecen?")
	assert.False(t, ok)
}
