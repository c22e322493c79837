package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bnema/vodforge/internal/domain"
	"github.com/bnema/vodforge/internal/port"
)

const (
	segmentSeconds  = 6
	masterPlaylist  = "master.m3u8"
	variantPlaylist = "stream.m3u8"
	segmentPattern  = "fileSequence%d.ts"

	// stderr tail carried in an EncodeError; ffmpeg is chatty and the
	// useful part is at the end.
	maxStderrBytes = 8 << 10
)

type Transcoder struct{}

func NewTranscoder() port.Transcoder {
	return &Transcoder{}
}

// Encode runs a single ffmpeg process producing every rendition in the
// plan as a segmented HLS stream plus a master manifest under outputDir.
// Audio is passed through unmodified when present. The process is killed
// when ctx is cancelled; the output directory may be left partial on
// failure.
func (t *Transcoder) Encode(ctx context.Context, sourcePath string, plan domain.RenditionPlan, outputDir string) error {
	if err := validatePath(sourcePath); err != nil {
		return fmt.Errorf("invalid input path: %w", err)
	}
	if err := validatePath(outputDir); err != nil {
		return fmt.Errorf("invalid output dir: %w", err)
	}
	if len(plan.Renditions) == 0 {
		return fmt.Errorf("rendition plan is empty")
	}

	// The hls muxer does not create variant directories itself.
	for i := range plan.Renditions {
		dir := filepath.Join(outputDir, "v"+strconv.Itoa(i))
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create rendition directory: %w", err)
		}
	}

	cmd := exec.CommandContext(ctx, "ffmpeg", buildEncodeArgs(sourcePath, plan, outputDir)...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		exitCode := -1
		if cmd.ProcessState != nil {
			exitCode = cmd.ProcessState.ExitCode()
		}
		return &domain.EncodeError{
			ExitCode: exitCode,
			Stderr:   tail(stderr.String(), maxStderrBytes),
			Err:      err,
		}
	}
	return nil
}

// buildEncodeArgs assembles the ffmpeg argument vector for a plan. Each
// rendition becomes one mapped video (and audio) stream, scaled and
// bitrate-limited individually, split into variants via -var_stream_map.
func buildEncodeArgs(inputPath string, plan domain.RenditionPlan, outputDir string) []string {
	args := []string{
		"-y",
		"-i", inputPath,
		"-preset", "veryslow",
		"-g", "48",
		"-crf", "17",
		"-sc_threshold", "0",
	}

	for range plan.Renditions {
		args = append(args, "-map", "0:0")
		if plan.HasAudio {
			args = append(args, "-map", "0:1")
		}
	}

	streamMap := make([]string, 0, len(plan.Renditions))
	for i, r := range plan.Renditions {
		args = append(args,
			fmt.Sprintf("-s:v:%d", i), fmt.Sprintf("%dx%d", r.Width, r.Height),
			fmt.Sprintf("-c:v:%d", i), "libx264",
			fmt.Sprintf("-b:v:%d", i), strconv.Itoa(r.BitrateBps),
		)
		if plan.HasAudio {
			streamMap = append(streamMap, fmt.Sprintf("v:%d,a:%d", i, i))
		} else {
			streamMap = append(streamMap, fmt.Sprintf("v:%d", i))
		}
	}

	if plan.HasAudio {
		args = append(args, "-c:a", "copy")
	}

	args = append(args,
		"-var_stream_map", strings.Join(streamMap, " "),
		"-master_pl_name", masterPlaylist,
		"-f", "hls",
		"-hls_time", strconv.Itoa(segmentSeconds),
		"-hls_list_size", "0",
		"-hls_segment_filename", filepath.Join(outputDir, "v%v", segmentPattern),
		filepath.Join(outputDir, "v%v", variantPlaylist),
	)
	return args
}

func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

var _ port.Transcoder = (*Transcoder)(nil)
