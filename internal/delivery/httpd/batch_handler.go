package httpd

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/TechzoneAdademy/TechzoneAcademyFrontDeskRender/internal/models"
	"github.com/TechzoneAdademy/TechzoneAcademyFrontDeskRender/internal/service"
)

func (h *Handler) CreateBatch(w http.ResponseWriter, r *http.Request) {
	var req models.BatchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validator.Check(&req); err != nil {
		h.handleServiceError(w, err, "create batch")
		return
	}

	batch, err := h.svc.Batches.CreateBatch(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "create batch")
		return
	}
	writeCreated(w, batch)
}

func (h *Handler) UpdateBatch(w http.ResponseWriter, r *http.Request) {
	var req models.BatchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validator.Check(&req); err != nil {
		h.handleServiceError(w, err, "update batch")
		return
	}

	batch, err := h.svc.Batches.UpdateBatch(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		h.handleServiceError(w, err, "update batch")
		return
	}
	writeSuccess(w, batch)
}

func (h *Handler) DeleteBatch(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Batches.DeleteBatch(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.handleServiceError(w, err, "delete batch")
		return
	}
	writeMessage(w, "Batch deleted successfully!")
}

func (h *Handler) GetBatch(w http.ResponseWriter, r *http.Request) {
	batch, err := h.svc.Batches.GetBatch(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, err, "get batch")
		return
	}
	writeSuccess(w, batch)
}

func (h *Handler) ListBatches(w http.ResponseWriter, r *http.Request) {
	batches, err := h.svc.Batches.ListBatches(r.Context())
	if err != nil {
		h.handleServiceError(w, err, "list batches")
		return
	}
	writeSuccess(w, batches)
}

func (h *Handler) BatchSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.Batches.Summary(r.Context())
	if err != nil {
		h.handleServiceError(w, err, "summarise batches")
		return
	}
	writeSuccess(w, summary)
}

func (h *Handler) ListBatchFiles(w http.ResponseWriter, r *http.Request) {
	batchID := chi.URLParam(r, "id")
	if !canSeeBatch(sessionOf(r), batchID) {
		h.handleServiceError(w, service.ErrFileAccessDenied, "list files")
		return
	}

	files, err := h.svc.Downloads.ListByBatch(r.Context(), batchID)
	if err != nil {
		h.handleServiceError(w, err, "list files")
		return
	}
	writeSuccess(w, models.FileListResponse{BatchID: batchID, Files: files})
}

func (h *Handler) ListBatchMessages(w http.ResponseWriter, r *http.Request) {
	batchID := chi.URLParam(r, "id")
	if !canSeeBatch(sessionOf(r), batchID) {
		writeError(w, http.StatusForbidden, "Access denied")
		return
	}

	messages, err := h.svc.Messages.ListForBatch(r.Context(), batchID)
	if err != nil {
		h.handleServiceError(w, err, "list messages")
		return
	}
	writeSuccess(w, messages)
}

// Students only see their own batch.
func canSeeBatch(s models.Session, batchID string) bool {
	return s.Role != models.RoleStudent || s.StudentBatch == batchID
}
