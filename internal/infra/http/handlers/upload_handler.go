package handlers

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/admitglobal/referral-backend/internal/entity"
	"github.com/admitglobal/referral-backend/internal/infra/http/middleware"
	"github.com/admitglobal/referral-backend/internal/infra/integration/supabase"
)

const maxUploadBytes = 10 << 20 // 10 MiB

// UploadHandler pushes files (college logos, brochures) to Supabase Storage.
// When the hosted storage is unreachable the file lands in LocalDir instead,
// tagged fallback:true. Admin-role only.
type UploadHandler struct {
	Storage  *supabase.Client
	LocalDir string
}

func NewUploadHandler(storage *supabase.Client, localDir string) *UploadHandler {
	if localDir == "" {
		localDir = "./uploads"
	}
	return &UploadHandler{Storage: storage, LocalDir: localDir}
}

func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		fail(w, http.StatusBadRequest, "VALIDATION_ERROR", "expected a multipart form with a 'file' field")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		fail(w, http.StatusBadRequest, "VALIDATION_ERROR", "file field is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		fail(w, http.StatusInternalServerError, "INTERNAL", "could not read upload")
		return
	}

	objectPath := fmt.Sprintf("%s-%s", uuid.New().String()[:8], sanitizeFilename(header.Filename))
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	if h.Storage.Configured() {
		out, err := h.Storage.Upload(r.Context(), objectPath, contentType, data)
		if err == nil {
			created(w, out, false)
			return
		}
		log.Printf("[UPLOAD] supabase storage failed, saving locally: %v", err)
		middleware.RecordIntegrationError("supabase")
	}

	localPath, err := h.saveLocal(objectPath, data)
	if err != nil {
		log.Printf("[UPLOAD] local save failed too: %v", err)
		fail(w, http.StatusInternalServerError, "INTERNAL", "could not store upload")
		return
	}
	middleware.RecordFallback("upload", "create")
	created(w, map[string]string{"path": objectPath, "local_path": localPath}, true)
}

func (h *UploadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	objectPath := r.URL.Query().Get("path")
	if objectPath == "" {
		fail(w, http.StatusBadRequest, "VALIDATION_ERROR", "path query parameter is required")
		return
	}
	// never allow traversal out of the bucket/local dir
	if strings.Contains(objectPath, "..") || strings.Contains(objectPath, "/") {
		fail(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid path")
		return
	}

	if h.Storage.Configured() {
		if err := h.Storage.Delete(r.Context(), objectPath); err != nil {
			log.Printf("[UPLOAD] supabase delete failed: %v", err)
			middleware.RecordIntegrationError("supabase")
			fail(w, http.StatusBadGateway, "UPSTREAM", "could not delete from storage")
			return
		}
	}

	// clean a local fallback copy if one exists
	_ = os.Remove(filepath.Join(h.LocalDir, objectPath))

	writeJSON(w, http.StatusOK, Response{Success: true, Message: "deleted"})
}

func (h *UploadHandler) saveLocal(name string, data []byte) (string, error) {
	if err := os.MkdirAll(h.LocalDir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(h.LocalDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	slug := entity.Slugify(strings.TrimSuffix(base, filepath.Ext(base)))
	if slug == "" {
		slug = "file"
	}
	return slug + strings.ToLower(filepath.Ext(base))
}
