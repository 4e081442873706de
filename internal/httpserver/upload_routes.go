package httpserver

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"dmchat/internal/config"
)

// allowedVoiceExts are the audio container formats the recorder produces.
var allowedVoiceExts = map[string]bool{
	".webm": true,
	".ogg":  true,
	".mp3":  true,
	".m4a":  true,
	".wav":  true,
}

// UploadRoutes returns a sub-router mounted at /api/uploads. It stores voice
// recordings under cfg.UploadDir and serves them back; the returned voice_url
// is what a send-message request references.
func UploadRoutes(cfg *config.Config) chi.Router {
	r := chi.NewRouter()

	r.Post("/", func(w http.ResponseWriter, req *http.Request) {
		if err := req.ParseMultipartForm(20 << 20); err != nil { // 20MB limit
			http.Error(w, "failed to parse multipart form", http.StatusBadRequest)
			return
		}
		file, header, err := req.FormFile("file")
		if err != nil {
			http.Error(w, "missing file", http.StatusBadRequest)
			return
		}
		defer file.Close()

		ext := strings.ToLower(filepath.Ext(header.Filename))
		if !allowedVoiceExts[ext] {
			http.Error(w, "unsupported audio format", http.StatusBadRequest)
			return
		}

		filename := uuid.NewString() + ext
		destPath := filepath.Join(cfg.UploadDir, filename)

		out, err := os.Create(destPath)
		if err != nil {
			http.Error(w, "could not create file", http.StatusInternalServerError)
			return
		}
		defer out.Close()

		if _, err := io.Copy(out, file); err != nil {
			http.Error(w, "could not save file", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"voice_url": "/api/uploads/" + filename,
			"filename":  filename,
		})
	})

	r.Get("/{filename}", func(w http.ResponseWriter, req *http.Request) {
		filename := chi.URLParam(req, "filename")
		if filename == "" {
			http.Error(w, "missing filename", http.StatusBadRequest)
			return
		}
		// Reject anything that is not a bare filename to prevent traversal.
		if filepath.Base(filename) != filename {
			http.Error(w, "invalid filename", http.StatusBadRequest)
			return
		}
		http.ServeFile(w, req, filepath.Join(cfg.UploadDir, filename))
	})

	return r
}
