package api

import (
	"errors"
	"io/fs"
	"log/slog"
	"mime"
	"net/http"

	"github.com/jmoiron/sqlx"

	"github.com/erazemk/armazem/internal/files"
	"github.com/erazemk/armazem/internal/imaging"
	"github.com/erazemk/armazem/internal/metrics"
	"github.com/erazemk/armazem/internal/model"
	"github.com/erazemk/armazem/internal/store"
)

// multipartMemory is how much of a multipart body is kept in memory before
// spilling to temporary files.
const multipartMemory = 8 << 20

// DocumentsHandler handles document upload, download and deletion.
type DocumentsHandler struct {
	DB       *sqlx.DB
	Files    *files.Dir
	MaxBytes int64
}

// List handles GET /documents.
func (h *DocumentsHandler) List(w http.ResponseWriter, r *http.Request) {
	docs, err := store.ListDocuments(r.Context(), h.DB)
	if err != nil {
		storeError(w, r, err, "failed to list documents")
		return
	}
	jsonResponse(w, http.StatusOK, docs)
}

// Upload handles POST /documents with a multipart "document" file and an
// optional "observation" field.
func (h *DocumentsHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonError(w, http.StatusRequestEntityTooLarge, "file too large")
			return
		}
		jsonError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("document")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "document file required")
		return
	}
	defer file.Close()

	saved, err := h.Files.Save(header.Filename, file)
	if err != nil {
		metrics.RecordDocument("upload", false)
		slog.Error("failed to store upload", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to store document")
		return
	}

	observation := r.FormValue("observation")
	doc, err := store.CreateDocument(r.Context(), h.DB, model.Document{
		Filename:     saved.Name,
		OriginalName: header.Filename,
		Observation:  optional(&observation),
		ContentType:  saved.ContentType,
		Size:         saved.Size,
	})
	if err != nil {
		metrics.RecordDocument("upload", false)
		if rmErr := h.Files.Remove(saved.Name); rmErr != nil {
			slog.Error("failed to remove upload after metadata error", "file", saved.Name, "error", rmErr)
		}
		storeError(w, r, err, "failed to save document")
		return
	}

	metrics.RecordDocument("upload", true)
	slog.Info("document uploaded", "user", GetClaims(r.Context()).Username, "file", doc.Filename, "size", doc.Size)
	jsonResponse(w, http.StatusCreated, doc)
}

// Download handles GET /documents/{filename}.
func (h *DocumentsHandler) Download(w http.ResponseWriter, r *http.Request) {
	doc, err := store.GetDocument(r.Context(), h.DB, r.PathValue("filename"))
	if err != nil {
		storeError(w, r, err, "failed to get document")
		return
	}

	f, err := h.Files.Open(doc.Filename)
	if err != nil {
		h.fileError(w, r, err)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": doc.OriginalName}))
	http.ServeContent(w, r, doc.Filename, doc.UploadedAt, f)
}

// Preview handles GET /documents/{filename}/preview.
func (h *DocumentsHandler) Preview(w http.ResponseWriter, r *http.Request) {
	doc, err := store.GetDocument(r.Context(), h.DB, r.PathValue("filename"))
	if err != nil {
		storeError(w, r, err, "failed to get document")
		return
	}
	if !imaging.Previewable(doc.ContentType) {
		jsonError(w, http.StatusUnsupportedMediaType, "document is not an image")
		return
	}

	f, err := h.Files.Open(doc.Filename)
	if err != nil {
		h.fileError(w, r, err)
		return
	}
	defer f.Close()

	data, err := imaging.Preview(f)
	if errors.Is(err, imaging.ErrUnsupported) {
		jsonError(w, http.StatusUnsupportedMediaType, "document is not an image")
		return
	}
	if err != nil {
		slog.Error("failed to render preview", "file", doc.Filename, "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to render preview")
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.Write(data)
}

// Delete handles DELETE /documents/{filename}. The metadata row and the
// payload go together: if the file cannot be removed the row stays.
func (h *DocumentsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	filename := r.PathValue("filename")

	err := store.DeleteDocument(r.Context(), h.DB, filename, func() error {
		err := h.Files.Remove(filename)
		if errors.Is(err, fs.ErrNotExist) {
			slog.Warn("document file already missing", "file", filename)
			return nil
		}
		return err
	})
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			metrics.RecordDocument("delete", false)
		}
		storeError(w, r, err, "failed to delete document")
		return
	}

	metrics.RecordDocument("delete", true)
	slog.Info("document deleted", "user", GetClaims(r.Context()).Username, "file", filename)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "document deleted"})
}

// Public handles GET /uploads/{filename}: the stored file, without
// authentication, as uploaded files have always been served.
func (h *DocumentsHandler) Public(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("filename")
	f, err := h.Files.Open(name)
	if err != nil {
		h.fileError(w, r, err)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		jsonError(w, http.StatusNotFound, "not found")
		return
	}
	http.ServeContent(w, r, name, info.ModTime(), f)
}

func (h *DocumentsHandler) fileError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, files.ErrInvalidName) {
		jsonError(w, http.StatusNotFound, "not found")
		return
	}
	slog.Error("failed to open document file", "error", err, "request_id", GetRequestID(r.Context()))
	jsonError(w, http.StatusInternalServerError, "failed to open document")
}

