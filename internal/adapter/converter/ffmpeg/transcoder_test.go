package ffmpeg

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bnema/vodforge/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoRenditionPlan(hasAudio bool) domain.RenditionPlan {
	return domain.RenditionPlan{
		HasAudio: hasAudio,
		Renditions: []domain.Rendition{
			{Width: 1280, Height: 720, BitrateBps: 5_000_000},
			{Width: 1920, Height: 1080, BitrateBps: 9_500_000},
		},
	}
}

func TestBuildEncodeArgs_WithAudio(t *testing.T) {
	args := buildEncodeArgs("/in/clip.mp4", twoRenditionPlan(true), "/out/clip")
	joined := strings.Join(args, " ")

	// One video+audio mapping per rendition.
	assert.Equal(t, 2, strings.Count(joined, "-map 0:0"))
	assert.Equal(t, 2, strings.Count(joined, "-map 0:1"))

	// Per-rendition scale, codec and bitrate.
	assert.Contains(t, joined, "-s:v:0 1280x720")
	assert.Contains(t, joined, "-b:v:0 5000000")
	assert.Contains(t, joined, "-s:v:1 1920x1080")
	assert.Contains(t, joined, "-b:v:1 9500000")
	assert.Contains(t, joined, "-c:v:0 libx264")
	assert.Contains(t, joined, "-c:v:1 libx264")

	// Audio is passed through, never re-encoded.
	assert.Contains(t, joined, "-c:a copy")
	assert.Contains(t, joined, "-var_stream_map v:0,a:0 v:1,a:1")

	assert.Contains(t, joined, "-master_pl_name master.m3u8")
	assert.Contains(t, joined, "-hls_time 6")
	assert.Contains(t, joined, "-hls_list_size 0")
	assert.Contains(t, joined, filepath.Join("/out/clip", "v%v", "fileSequence%d.ts"))
	assert.Equal(t, filepath.Join("/out/clip", "v%v", "stream.m3u8"), args[len(args)-1])
}

func TestBuildEncodeArgs_WithoutAudio(t *testing.T) {
	args := buildEncodeArgs("/in/clip.mp4", twoRenditionPlan(false), "/out/clip")
	joined := strings.Join(args, " ")

	assert.NotContains(t, joined, "-map 0:1")
	assert.NotContains(t, joined, "-c:a")
	assert.Contains(t, joined, "-var_stream_map v:0 v:1")
}

func TestBuildEncodeArgs_Deterministic(t *testing.T) {
	a := buildEncodeArgs("/in/clip.mp4", twoRenditionPlan(true), "/out/clip")
	b := buildEncodeArgs("/in/clip.mp4", twoRenditionPlan(true), "/out/clip")
	assert.Equal(t, a, b)
}

func TestTranscoder_Encode_Validation(t *testing.T) {
	tr := &Transcoder{}
	ctx := context.Background()
	plan := twoRenditionPlan(true)

	err := tr.Encode(ctx, "", plan, t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyPath)

	err = tr.Encode(ctx, "/in/\x00clip.mp4", plan, t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidPath)

	err = tr.Encode(ctx, "/in/clip.mp4", domain.RenditionPlan{}, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rendition plan is empty")
}

func TestTranscoder_Encode_CreatesRenditionDirs(t *testing.T) {
	tr := &Transcoder{}
	outDir := filepath.Join(t.TempDir(), "clip")

	// ffmpeg itself fails (no such input), but the variant directories
	// must exist before the process is spawned.
	err := tr.Encode(context.Background(), "/nonexistent/clip.mp4", twoRenditionPlan(true), outDir)
	require.Error(t, err)

	var encodeErr *domain.EncodeError
	assert.ErrorAs(t, err, &encodeErr)

	for _, sub := range []string{"v0", "v1"} {
		info, statErr := os.Stat(filepath.Join(outDir, sub))
		require.NoError(t, statErr)
		assert.True(t, info.IsDir())
	}
}

func TestTail(t *testing.T) {
	assert.Equal(t, "short", tail("  short \n", 100))
	assert.Equal(t, "cdef", tail("abcdef", 4))
}
