package httpd

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/TechzoneAdademy/TechzoneAcademyFrontDeskRender/internal/models"
)

func (h *Handler) CreateStudent(w http.ResponseWriter, r *http.Request) {
	var req models.StudentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validator.Check(&req); err != nil {
		h.handleServiceError(w, err, "add student")
		return
	}

	student, err := h.svc.Students.CreateStudent(r.Context(), sessionOf(r).SessionID, &req)
	if err != nil {
		h.handleServiceError(w, err, "add student")
		return
	}

	writeCreated(w, student)
}

func (h *Handler) UpdateStudent(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	var req models.StudentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validator.Check(&req); err != nil {
		h.handleServiceError(w, err, "update student")
		return
	}

	student, err := h.svc.Students.UpdateStudent(r.Context(), key, &req)
	if err != nil {
		h.handleServiceError(w, err, "update student")
		return
	}

	writeSuccess(w, student)
}

func (h *Handler) DeleteStudent(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Students.DeleteStudent(r.Context(), chi.URLParam(r, "key")); err != nil {
		h.handleServiceError(w, err, "delete student")
		return
	}
	writeMessage(w, "Student deleted successfully!")
}

func (h *Handler) GetStudent(w http.ResponseWriter, r *http.Request) {
	student, err := h.svc.Students.GetStudent(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		h.handleServiceError(w, err, "get student")
		return
	}
	writeSuccess(w, student)
}

// ListStudents supports ?student_id= search and batch_time / fees_status filters.
func (h *Handler) ListStudents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.StudentFilter{
		StudentID:  q.Get("student_id"),
		BatchTime:  q.Get("batch_time"),
		FeesStatus: q.Get("fees_status"),
	}

	students, err := h.svc.Students.ListStudents(r.Context(), filter)
	if err != nil {
		h.handleServiceError(w, err, "list students")
		return
	}

	writeSuccess(w, map[string]interface{}{
		"students": students,
		"count":    len(students),
	})
}

func (h *Handler) GetReceipt(w http.ResponseWriter, r *http.Request) {
	receipt, err := h.svc.Students.GetReceipt(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		h.handleServiceError(w, err, "build receipt")
		return
	}
	writeSuccess(w, receipt)
}

func (h *Handler) EmailReceipt(w http.ResponseWriter, r *http.Request) {
	queued, err := h.svc.Receipts.RequestReceipt(r.Context(), chi.URLParam(r, "key"), sessionOf(r).Username)
	if err != nil {
		h.handleServiceError(w, err, "send receipt")
		return
	}

	if queued {
		writeJSON(w, http.StatusAccepted, map[string]interface{}{
			"success": true,
			"data":    map[string]interface{}{"message": "Receipt email queued", "queued": true},
		})
		return
	}
	writeSuccess(w, map[string]interface{}{"message": "Receipt sent successfully!", "queued": false})
}

func (h *Handler) SendOTP(w http.ResponseWriter, r *http.Request) {
	var req models.SendOTPRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.svc.OTP.SendOTP(r.Context(), sessionOf(r).SessionID, req.Email); err != nil {
		h.handleServiceError(w, err, "send OTP")
		return
	}
	writeMessage(w, "OTP sent successfully")
}

func (h *Handler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req models.VerifyOTPRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.svc.OTP.VerifyOTP(r.Context(), sessionOf(r).SessionID, req.Email, req.OTP); err != nil {
		h.handleServiceError(w, err, "verify OTP")
		return
	}
	writeMessage(w, "Email verified successfully")
}
