package ffmpeg

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"

	"github.com/bnema/vodforge/internal/domain"
	"github.com/bnema/vodforge/internal/port"
)

type Prober struct{}

func NewProber() port.VideoProber {
	return &Prober{}
}

// Probe runs ffprobe once and extracts resolution, bitrate and audio
// presence. Read-only; probing the same file twice yields the same result.
func (p *Prober) Probe(ctx context.Context, inputPath string) (domain.ProbeResult, error) {
	if err := validatePath(inputPath); err != nil {
		return domain.ProbeResult{}, fmt.Errorf("invalid input path: %w", err)
	}

	args := []string{
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		inputPath,
	}
	cmd := exec.CommandContext(ctx, "ffprobe", args...)

	output, err := cmd.Output()
	if err != nil {
		return domain.ProbeResult{}, &domain.ProbeError{Path: inputPath, Output: string(output), Err: err}
	}

	result, err := parseProbeOutput(output)
	if err != nil {
		return domain.ProbeResult{}, &domain.ProbeError{Path: inputPath, Output: string(output), Err: err}
	}
	return result, nil
}

func parseProbeOutput(output []byte) (domain.ProbeResult, error) {
	var payload domain.ProbePayload
	if err := json.Unmarshal(output, &payload); err != nil {
		return domain.ProbeResult{}, fmt.Errorf("parse ffprobe output: %w", err)
	}

	video := payload.VideoStream()
	if video == nil {
		return domain.ProbeResult{}, fmt.Errorf("no video stream found")
	}

	// Some containers only report a bitrate at the format level.
	bitrate := domain.ParseBitrate(video.BitRate)
	if bitrate == 0 {
		bitrate = domain.ParseBitrate(payload.Format.BitRate)
	}

	return domain.ProbeResult{
		Width:      video.Width,
		Height:     video.Height,
		BitrateBps: bitrate,
		HasAudio:   payload.AudioStream() != nil,
	}, nil
}

var _ port.VideoProber = (*Prober)(nil)
