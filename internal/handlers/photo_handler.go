package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/triplog/server/internal/models"
	"github.com/triplog/server/internal/services"
)

// Multipart form fields sent by the uploader widget
const (
	fieldFilename      = "qqfilename"
	fieldUUID          = "qquuid"
	fieldStepID        = "stepId"
	fieldPartIndex     = "qqpartindex"
	fieldTotalParts    = "qqtotalparts"
	fieldTotalFileSize = "qqtotalfilesize"
)

// PhotoHandler handles photo upload, retrieval and deletion endpoints
type PhotoHandler struct {
	uploads      *services.UploadService
	storage      *services.StorageService
	fileField    string
	notFoundPath string
}

// NewPhotoHandler creates a new PhotoHandler
func NewPhotoHandler(
	uploads *services.UploadService,
	storage *services.StorageService,
	fileField string,
	notFoundPath string,
) *PhotoHandler {
	return &PhotoHandler{
		uploads:      uploads,
		storage:      storage,
		fileField:    fileField,
		notFoundPath: notFoundPath,
	}
}

// Upload handles a photo upload, simple or chunked. The request is
// classified by the presence of the part-index field. Whatever happens,
// a well-formed response is returned.
func (h *PhotoHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		h.respondUpload(w, models.NewUploadResponse().Fail("Request must be multipart/form-data."))
		return
	}

	file, header, err := r.FormFile(h.fileField)
	if err != nil {
		h.respondUpload(w, models.NewUploadResponse().Fail("No file provided or file is empty."))
		return
	}
	defer file.Close()

	req := services.UploadRequest{
		StepID:    r.FormValue(fieldStepID),
		UUID:      r.FormValue(fieldUUID),
		Filename:  r.FormValue(fieldFilename),
		Size:      header.Size,
		PartIndex: -1,
	}
	if req.Filename == "" {
		req.Filename = header.Filename
	}

	if req.StepID == "" || req.UUID == "" {
		h.respondUpload(w, models.NewUploadResponse().Fail("Missing stepId or uuid."))
		return
	}

	// A part-index field marks a chunked upload; the size check then runs
	// against the declared total file size, not the part size
	if partIndex := r.FormValue(fieldPartIndex); partIndex != "" {
		index, err := strconv.Atoi(partIndex)
		if err != nil || index < 0 {
			h.respondUpload(w, models.NewUploadResponse().Fail("Invalid part index."))
			return
		}
		totalParts, err := strconv.Atoi(r.FormValue(fieldTotalParts))
		if err != nil || totalParts < 1 || index >= totalParts {
			h.respondUpload(w, models.NewUploadResponse().Fail("Invalid total parts."))
			return
		}
		size, err := strconv.ParseInt(r.FormValue(fieldTotalFileSize), 10, 64)
		if err != nil || size < 0 {
			h.respondUpload(w, models.NewUploadResponse().Fail("Invalid total file size."))
			return
		}

		req.PartIndex = index
		req.TotalParts = totalParts
		req.Size = size
	}

	// Reject oversize uploads before staging anything on disk
	if h.uploads.SizeExceeded(req.Size) {
		h.respondUpload(w, h.uploads.Process(r.Context(), req))
		return
	}

	sourcePath, err := stageUpload(file)
	if err != nil {
		log.Printf("Problem staging uploaded file: %v", err)
		h.respondUpload(w, models.NewUploadResponse().Fail("Problem copying the file!"))
		return
	}
	defer os.Remove(sourcePath)
	req.SourcePath = sourcePath

	h.respondUpload(w, h.uploads.Process(r.Context(), req))
}

// DeleteFile removes one upload session. The uuid is returned in the body
// even when removal fails; only the status reflects the failure.
func (h *PhotoHandler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	stepID := chi.URLParam(r, "stepId")
	uuid := chi.URLParam(r, "uuid")

	w.Header().Set("Content-Type", "text/plain")
	if err := h.uploads.DeleteSession(stepID, uuid); err != nil {
		log.Printf("Problem deleting file: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
	}
	w.Write([]byte(uuid))
}

// DeleteStep removes a whole step subtree with every session photo under it
func (h *PhotoHandler) DeleteStep(w http.ResponseWriter, r *http.Request) {
	stepID := chi.URLParam(r, "stepId")

	if err := h.uploads.DeleteStep(stepID); err != nil {
		log.Printf("Problem deleting step: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetPhoto streams a stored photo. One open attempt is made; any open
// failure falls back to the configured not-found image.
func (h *PhotoHandler) GetPhoto(w http.ResponseWriter, r *http.Request) {
	stepID := chi.URLParam(r, "stepId")
	uuid := chi.URLParam(r, "photouuid")
	name := chi.URLParam(r, "name")

	f, err := h.storage.Open(stepID, uuid, name)
	if err != nil {
		http.ServeFile(w, r, h.notFoundPath)
		return
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		http.ServeFile(w, r, h.notFoundPath)
		return
	}

	http.ServeContent(w, r, name, fi.ModTime(), f)
}

// GetNotFoundImage serves the default not-found image directly
func (h *PhotoHandler) GetNotFoundImage(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, h.notFoundPath)
}

// stageUpload spools the multipart payload to a temp file so the pipeline
// can move it into place. The caller removes the file.
func stageUpload(file io.Reader) (string, error) {
	tmp, err := os.CreateTemp("", "triplog-upload-*")
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", err
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}

	return tmp.Name(), nil
}

// respondUpload writes the upload response. text/plain is required to
// ensure support for IE9 and older uploader clients.
func (h *PhotoHandler) respondUpload(w http.ResponseWriter, resp *models.UploadResponse) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}
