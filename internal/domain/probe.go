package domain

import "strconv"

// ProbeResult is what the pipeline needs to know about a source video
// before planning renditions.
type ProbeResult struct {
	Width      int
	Height     int
	BitrateBps int
	HasAudio   bool
}

func (p ProbeResult) Resolution() Resolution {
	return Resolution{Width: p.Width, Height: p.Height}
}

// ProbePayload mirrors the ffprobe -print_format json output, trimmed to
// the fields the prober reads.
type ProbePayload struct {
	Format  ProbeFormat   `json:"format"`
	Streams []ProbeStream `json:"streams"`
}

type ProbeFormat struct {
	FormatName string `json:"format_name"`
	Duration   string `json:"duration"`
	BitRate    string `json:"bit_rate"`
}

type ProbeStream struct {
	Index     int    `json:"index"`
	CodecType string `json:"codec_type"`
	CodecName string `json:"codec_name"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	BitRate   string `json:"bit_rate"`
}

func (p *ProbePayload) VideoStream() *ProbeStream {
	for i := range p.Streams {
		if p.Streams[i].CodecType == "video" {
			return &p.Streams[i]
		}
	}
	return nil
}

func (p *ProbePayload) AudioStream() *ProbeStream {
	for i := range p.Streams {
		if p.Streams[i].CodecType == "audio" {
			return &p.Streams[i]
		}
	}
	return nil
}

// ParseBitrate converts an ffprobe bit_rate field to bps. ffprobe reports
// "N/A" for streams without a known rate; that and any other junk parse to 0.
func ParseBitrate(s string) int {
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return 0
	}
	return v
}
