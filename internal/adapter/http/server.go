package http

import (
	"net/http"

	"github.com/bnema/vodforge/internal/adapter/http/middleware"
	"github.com/bnema/vodforge/internal/service"
)

type Server struct {
	mux        *http.ServeMux
	handlers   *Handlers
	sseHandler *SSEHandler
}

func NewServer(videoSvc VideoService, eventBus *service.EventBus, domain, tempDir, videoRoot string, maxSizeMB int) *Server {
	mux := http.NewServeMux()

	s := &Server{
		mux:        mux,
		handlers:   NewHandlers(videoSvc, domain, tempDir, videoRoot, maxSizeMB),
		sseHandler: NewSSEHandler(eventBus, videoSvc),
	}

	s.registerRoutes()

	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("POST /medias/video-hls", s.handlers.UploadVideo())
	s.mux.HandleFunc("GET /medias/video-status/{id}", s.handlers.VideoStatus())
	s.mux.HandleFunc("GET /medias/video-events/{id}", s.sseHandler.Events())
	s.mux.HandleFunc("GET /static/video-hls/", s.handlers.ServeVideo())
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	middleware.SecurityHeaders(s.mux).ServeHTTP(w, r)
}
