package domain

import "math"

const (
	maxBitrate720p  = 5_000_000
	maxBitrate1080p = 8_000_000
	maxBitrate1440p = 16_000_000
)

type Resolution struct {
	Width  int
	Height int
}

// Rendition is one resolution/bitrate variant of the HLS output.
type Rendition struct {
	Width      int
	Height     int
	BitrateBps int
}

// RenditionPlan is the ordered set of renditions one encode run produces,
// lowest rung first, native resolution always last.
type RenditionPlan struct {
	Renditions []Rendition
	HasAudio   bool
}

var ladder = []struct {
	height     int
	maxBitrate int
}{
	{720, maxBitrate720p},
	{1080, maxBitrate1080p},
	{1440, maxBitrate1440p},
}

// PlanRenditions decides which renditions to encode for a probed source.
// A ladder rung is included only when the source is strictly taller than
// it, so nothing is ever upscaled; the native rendition carries the source
// bitrate uncapped while rungs are capped at both the source bitrate and a
// fixed per-height ceiling. Pure function: same inputs, same plan.
func PlanRenditions(src Resolution, bitrateBps int, hasAudio bool) RenditionPlan {
	plan := RenditionPlan{HasAudio: hasAudio}
	for _, rung := range ladder {
		if src.Height <= rung.height {
			break
		}
		plan.Renditions = append(plan.Renditions, Rendition{
			Width:      scaledWidth(rung.height, src),
			Height:     rung.height,
			BitrateBps: min(bitrateBps, rung.maxBitrate),
		})
	}
	plan.Renditions = append(plan.Renditions, Rendition{
		Width:      src.Width,
		Height:     src.Height,
		BitrateBps: bitrateBps,
	})
	return plan
}

// scaledWidth keeps the source aspect ratio at the target height, bumped to
// the next even integer (libx264 rejects odd frame dimensions).
func scaledWidth(height int, src Resolution) int {
	w := int(math.Round(float64(height) * float64(src.Width) / float64(src.Height)))
	if w%2 != 0 {
		w++
	}
	return w
}
