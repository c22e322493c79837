package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bnema/vodforge/internal/adapter/http/validation"
	"github.com/bnema/vodforge/internal/domain"
	"github.com/bnema/vodforge/internal/infrastructure/logger"
	"github.com/google/uuid"
)

// VideoService is the slice of the encode queue the handlers depend on.
type VideoService interface {
	Submit(sourcePath string) (string, error)
	GetStatus(id string) (*domain.VideoStatus, error)
}

type Handlers struct {
	videoSvc  VideoService
	domain    string
	tempDir   string
	videoRoot string
	maxSizeMB int
}

func NewHandlers(videoSvc VideoService, domain, tempDir, videoRoot string, maxSizeMB int) *Handlers {
	return &Handlers{
		videoSvc:  videoSvc,
		domain:    domain,
		tempDir:   tempDir,
		videoRoot: videoRoot,
		maxSizeMB: maxSizeMB,
	}
}

type uploadResponse struct {
	URL  string `json:"url"`
	Type string `json:"type"`
	Name string `json:"name"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// UploadVideo accepts a multipart upload under the "video" field, stages it
// on disk and queues it for HLS encoding. The response is returned as soon
// as the job is queued; encoding progress is observable through the status
// and events endpoints.
func (h *Handlers) UploadVideo() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		maxBytes := int64(h.maxSizeMB) * 1024 * 1024
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

		if err := r.ParseMultipartForm(maxBytes); err != nil {
			writeError(w, http.StatusRequestEntityTooLarge, "file too large")
			return
		}

		file, header, err := r.FormFile("video")
		if err != nil {
			writeError(w, http.StatusBadRequest, "missing video file")
			return
		}
		defer file.Close() //nolint:errcheck

		mime, allowed, err := validation.ValidateMagicBytes(file)
		if err != nil {
			logger.Error.Printf("magic byte validation failed: %v", err)
			writeError(w, http.StatusInternalServerError, "failed to read upload")
			return
		}
		if !allowed {
			writeError(w, http.StatusUnsupportedMediaType, fmt.Sprintf("unsupported media type %s", mime))
			return
		}

		ext := strings.ToLower(filepath.Ext(header.Filename))
		if ext == "" {
			ext = ".mp4"
		}
		sourcePath := filepath.Join(h.tempDir, uuid.NewString()+ext)

		dst, err := os.Create(sourcePath)
		if err != nil {
			logger.Error.Printf("create temp upload: %v", err)
			writeError(w, http.StatusInternalServerError, "failed to save upload")
			return
		}
		if _, err := io.Copy(dst, file); err != nil {
			_ = dst.Close()
			_ = os.Remove(sourcePath)
			logger.Error.Printf("save upload: %v", err)
			writeError(w, http.StatusInternalServerError, "failed to save upload")
			return
		}
		if err := dst.Close(); err != nil {
			_ = os.Remove(sourcePath)
			logger.Error.Printf("close temp upload: %v", err)
			writeError(w, http.StatusInternalServerError, "failed to save upload")
			return
		}

		id, err := h.videoSvc.Submit(sourcePath)
		if err != nil {
			_ = os.Remove(sourcePath)
			logger.Error.Printf("queue encode: %v", err)
			writeError(w, http.StatusInternalServerError, "failed to queue encoding")
			return
		}

		name := validation.SanitizeFilename(header.Filename)
		logger.Info.Printf("queued %s (upload=%s, mime=%s)", id, logger.SanitizeForLog(name), mime)

		writeJSON(w, http.StatusAccepted, uploadResponse{
			URL:  fmt.Sprintf("https://%s/static/video-hls/%s/master.m3u8", h.domain, id),
			Type: "hls",
			Name: name,
		})
	}
}

func (h *Handlers) VideoStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")

		rec, err := h.videoSvc.GetStatus(id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				writeError(w, http.StatusNotFound, "video not found")
				return
			}
			logger.Error.Printf("status lookup %s: %v", logger.SanitizeForLog(id), err)
			writeError(w, http.StatusInternalServerError, "status lookup failed")
			return
		}

		writeJSON(w, http.StatusOK, rec)
	}
}

var hlsContentTypes = map[string]string{
	".m3u8": "application/vnd.apple.mpegurl",
	".ts":   "video/mp2t",
}

// ServeVideo serves HLS artifacts (playlists and segments) from the video
// output directory. Only playlist and segment extensions are served, and
// traversal outside the output root is rejected.
func (h *Handlers) ServeVideo() http.HandlerFunc {
	prefix := "/static/video-hls/"
	return func(w http.ResponseWriter, r *http.Request) {
		rel := path.Clean(strings.TrimPrefix(r.URL.Path, prefix))
		if rel == "." || strings.HasPrefix(rel, "..") || path.IsAbs(rel) {
			writeError(w, http.StatusBadRequest, "invalid path")
			return
		}

		ct, ok := hlsContentTypes[strings.ToLower(path.Ext(rel))]
		if !ok {
			writeError(w, http.StatusNotFound, "not found")
			return
		}

		w.Header().Set("Content-Type", ct)
		if strings.HasSuffix(rel, ".ts") {
			// Segments never change once written
			w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		} else {
			w.Header().Set("Cache-Control", "no-cache")
		}

		http.ServeFile(w, r, filepath.Join(h.videoRoot, filepath.FromSlash(rel)))
	}
}
