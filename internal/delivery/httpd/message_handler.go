package httpd

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/TechzoneAdademy/TechzoneAcademyFrontDeskRender/internal/models"
)

func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req models.SendMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	msg, err := h.svc.Messages.SendMessage(r.Context(), sessionOf(r).Username, &req)
	if err != nil {
		h.handleServiceError(w, err, "send message")
		return
	}
	writeCreated(w, msg)
}

func (h *Handler) MarkMessagesRead(w http.ResponseWriter, r *http.Request) {
	s := sessionOf(r)
	n, err := h.svc.Messages.MarkBatchRead(r.Context(), s.StudentBatch, s.Username)
	if err != nil {
		h.handleServiceError(w, err, "mark messages read")
		return
	}
	writeSuccess(w, map[string]interface{}{"marked": n})
}

func (h *Handler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	s := sessionOf(r)
	n, err := h.svc.Messages.UnreadCount(r.Context(), s.StudentBatch, s.Username)
	if err != nil {
		h.handleServiceError(w, err, "count unread messages")
		return
	}
	writeSuccess(w, map[string]interface{}{"unread": n})
}

func (h *Handler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	var req models.FeedbackRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	fb, err := h.svc.Feedback.SubmitFeedback(r.Context(), sessionOf(r), &req)
	if err != nil {
		h.handleServiceError(w, err, "submit feedback")
		return
	}
	writeCreated(w, fb)
}

func (h *Handler) ListFeedback(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.Feedback.ListFeedback(r.Context())
	if err != nil {
		h.handleServiceError(w, err, "list feedback")
		return
	}
	writeSuccess(w, list)
}

func (h *Handler) DeleteFeedback(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Feedback.DeleteFeedback(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.handleServiceError(w, err, "delete feedback")
		return
	}
	writeMessage(w, "Feedback deleted successfully!")
}

func (h *Handler) DeleteAllFeedback(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.Feedback.DeleteAllFeedback(r.Context())
	if err != nil {
		h.handleServiceError(w, err, "delete feedback")
		return
	}
	writeSuccess(w, map[string]interface{}{"deleted": n})
}
