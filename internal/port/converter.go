package port

import (
	"context"

	"github.com/bnema/vodforge/internal/domain"
)

// VideoProber inspects a source video without modifying it.
type VideoProber interface {
	Probe(ctx context.Context, path string) (domain.ProbeResult, error)
}

// Transcoder runs one external encoding process for a whole rendition plan,
// writing segmented streams and a master manifest under outputDir.
type Transcoder interface {
	Encode(ctx context.Context, sourcePath string, plan domain.RenditionPlan, outputDir string) error
}
