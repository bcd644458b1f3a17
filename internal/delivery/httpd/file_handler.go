package httpd

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/TechzoneAdademy/TechzoneAcademyFrontDeskRender/internal/service"
)

func (h *Handler) UploadFile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.maxUploadMem); err != nil {
		h.handleServiceError(w, service.ErrNoFilePart, "upload file")
		return
	}

	file, fileHeader, err := r.FormFile("file")
	batchID := r.FormValue("batch_id")
	if err != nil || batchID == "" {
		h.handleServiceError(w, service.ErrNoFilePart, "upload file")
		return
	}
	file.Close()

	if fileHeader.Filename == "" {
		h.handleServiceError(w, service.ErrNoFileSelected, "upload file")
		return
	}

	record, err := h.svc.Uploads.UploadFile(r.Context(), fileHeader, sessionOf(r).Username, batchID)
	if err != nil {
		h.handleServiceError(w, err, "upload file")
		return
	}

	writeCreated(w, record)
}

func (h *Handler) DownloadFile(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")

	content, err := h.svc.Downloads.DownloadFile(r.Context(), filename, sessionOf(r))
	if err != nil {
		h.handleServiceError(w, err, "download file")
		return
	}

	w.Header().Set("Content-Type", content.ContentType)
	w.Header().Set("Content-Disposition", "attachment; filename=\""+content.FileName+"\"; filename*=UTF-8''"+url.PathEscape(content.FileName))
	w.Header().Set("Content-Length", strconv.FormatInt(content.FileSize, 10))
	w.Header().Set("Cache-Control", "private, max-age=86400")

	w.WriteHeader(http.StatusOK)
	w.Write(content.Content)
}

func (h *Handler) GetFileURL(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")
	expiresIn := getInt64QueryParam(r, "expires", 3600)

	link, err := h.svc.Downloads.GetPresignedURL(r.Context(), filename, sessionOf(r), expiresIn)
	if err != nil {
		h.handleServiceError(w, err, "create download link")
		return
	}

	writeSuccess(w, map[string]interface{}{
		"url":        link,
		"expires_in": expiresIn,
		"filename":   filename,
	})
}

func (h *Handler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")
	if err := h.svc.Deletes.DeleteTrainerFile(r.Context(), filename, sessionOf(r).Username); err != nil {
		h.handleServiceError(w, err, "delete file")
		return
	}
	writeMessage(w, "File deleted successfully!")
}

func (h *Handler) ListMyFiles(w http.ResponseWriter, r *http.Request) {
	files, err := h.svc.Downloads.ListByUploader(r.Context(), sessionOf(r).Username)
	if err != nil {
		h.handleServiceError(w, err, "list files")
		return
	}
	writeSuccess(w, files)
}

func (h *Handler) CountOrphans(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.Deletes.CountOrphans(r.Context())
	if err != nil {
		h.handleServiceError(w, err, "count orphaned files")
		return
	}
	writeSuccess(w, map[string]interface{}{"orphaned": n})
}

func (h *Handler) CleanupOrphans(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.Deletes.CleanupOrphans(r.Context())
	if err != nil {
		h.handleServiceError(w, err, "clean up orphaned files")
		return
	}
	writeSuccess(w, map[string]interface{}{"removed": n})
}
