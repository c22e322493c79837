package domain

import (
	"path/filepath"
	"strings"
	"time"
)

type EncodingStatus string

const (
	StatusPending    EncodingStatus = "pending"
	StatusProcessing EncodingStatus = "processing"
	StatusSuccess    EncodingStatus = "success"
	StatusFailed     EncodingStatus = "failed"
)

// Terminal reports whether the status can no longer change.
func (s EncodingStatus) Terminal() bool {
	return s == StatusSuccess || s == StatusFailed
}

// VideoStatus is the durable record clients poll while a video encodes.
// It is keyed by Name and only ever advances pending -> processing ->
// success|failed.
type VideoStatus struct {
	Name         string         `json:"name"`
	Status       EncodingStatus `json:"status"`
	ErrorMessage string         `json:"error_message,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

func NewVideoStatus(name string) *VideoStatus {
	now := time.Now().UTC()
	return &VideoStatus{
		Name:      name,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// VideoID derives the job identifier from a source file path: the base name
// with its extension stripped. The id doubles as the output directory name
// under the static root, so it must stay stable for the life of the job.
func VideoID(sourcePath string) string {
	base := filepath.Base(filepath.Clean(sourcePath))
	return strings.TrimSuffix(base, filepath.Ext(base))
}
