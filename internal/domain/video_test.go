package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestVideoID(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{"absolute path", "/data/video_temp/a1b2c3.mp4", "a1b2c3"},
		{"relative path", "video_temp/clip.mov", "clip"},
		{"no extension", "/data/video_temp/raw", "raw"},
		{"dotted name keeps earlier dots", "/tmp/my.holiday.video.mp4", "my.holiday.video"},
		{"trailing separator", "/data/video_temp/xyz.mp4/", "xyz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, VideoID(tt.path))
		})
	}
}

func TestNewVideoStatus(t *testing.T) {
	vs := NewVideoStatus("abc")

	assert.Equal(t, "abc", vs.Name)
	assert.Equal(t, StatusPending, vs.Status)
	assert.WithinDuration(t, time.Now().UTC(), vs.CreatedAt, time.Second)
	assert.Equal(t, vs.CreatedAt, vs.UpdatedAt)
}

func TestEncodingStatus_Terminal(t *testing.T) {
	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusProcessing.Terminal())
	assert.True(t, StatusSuccess.Terminal())
	assert.True(t, StatusFailed.Terminal())
}

func TestParseBitrate(t *testing.T) {
	assert.Equal(t, 5000000, ParseBitrate("5000000"))
	assert.Equal(t, 0, ParseBitrate("N/A"))
	assert.Equal(t, 0, ParseBitrate(""))
	assert.Equal(t, 0, ParseBitrate("-1"))
}
